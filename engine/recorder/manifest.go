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

package recorder

import (
	"encoding/json"
	"fmt"

	"github.com/cowdogmoo/resource-adapter/ir"
	"gopkg.in/yaml.v3"
)

// Manifest is the serializable snapshot of a recording.
type Manifest struct {
	Project   string            `json:"project" yaml:"project"`
	Stack     string            `json:"stack" yaml:"stack"`
	Resources []Resource        `json:"resources" yaml:"resources"`
	Outputs   map[string]string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Images    []ir.ImageQuery   `json:"images,omitempty" yaml:"images,omitempty"`
}

// Manifest snapshots the recording. Output references render as
// ${resource.attribute} placeholders.
func (r *Recorder) Manifest(project, stack string) (Manifest, error) {
	m := Manifest{
		Project:   project,
		Stack:     stack,
		Resources: r.Resources(),
		Images:    r.Lookups(),
	}

	exports := r.Exports()
	if len(exports) > 0 {
		m.Outputs = make(map[string]string, len(exports))
	}
	for _, e := range exports {
		s, err := ir.Resolve(e.Value, ir.PlaceholderResolver)
		if err != nil {
			return Manifest{}, fmt.Errorf("failed to render output %s: %w", e.Name, err)
		}
		m.Outputs[e.Name] = s
	}
	return m, nil
}

// Encode serializes the manifest as "yaml" or "json".
func (m Manifest) Encode(format string) ([]byte, error) {
	switch format {
	case "", "yaml", "yml":
		return yaml.Marshal(m)
	case "json":
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported manifest format %q (expected yaml or json)", format)
	}
}
