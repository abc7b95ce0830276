/*
Copyright © 2026 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package blueprint

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Version is the resource-adapter release, set at build time with
// -ldflags "-X github.com/cowdogmoo/resource-adapter/blueprint.Version=...".
var Version = DevVersion

// SchemaID identifies the blueprint schema.
const SchemaID = "https://github.com/cowdogmoo/resource-adapter/schema/blueprint.json"

// Schema reflects the JSON schema of a blueprint document.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}

	schema := reflector.Reflect(&Definition{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "resource-adapter blueprint"
	schema.Description = "Stack definition composed into AWS resources by resource-adapter"
	if schema.Extras == nil {
		schema.Extras = make(map[string]interface{})
	}
	schema.Extras["adapterVersion"] = Version

	schema.Examples = []interface{}{
		map[string]interface{}{
			"requires": ">=1.0.0",
			"vpc":      map[string]interface{}{"internet_gateway": true},
			"subnets": []interface{}{
				map[string]interface{}{"name": "public", "zones": []string{"us-east-1a", "us-east-1b"}},
			},
			"roles": []interface{}{
				map[string]interface{}{"name": "app", "service": "ec2"},
			},
			"launch_templates": []interface{}{
				map[string]interface{}{"name": "web", "role": "app", "image": "jammy"},
			},
		},
	}
	return schema
}

// SchemaJSON renders Schema as indented JSON with a trailing newline.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
