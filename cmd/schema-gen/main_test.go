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

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cowdogmoo/resource-adapter/blueprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "writes schema output",
			setup: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(t.TempDir(), "nested", "schema.json")
			},
		},
		{
			name: "returns error on unwritable output",
			setup: func(t *testing.T) string {
				t.Helper()
				readOnlyDir := filepath.Join(t.TempDir(), "readonly")
				require.NoError(t, os.Mkdir(readOnlyDir, 0o500))
				t.Cleanup(func() { _ = os.Chmod(readOnlyDir, 0o700) })
				return filepath.Join(readOnlyDir, "schema.json")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr && os.Geteuid() == 0 {
				t.Skip("root ignores directory permissions")
			}

			outputPath := tt.setup(t)
			originalOutput := *output
			*output = outputPath
			t.Cleanup(func() { *output = originalOutput })

			err := run()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			data, err := os.ReadFile(outputPath)
			require.NoError(t, err)

			var schema map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schema))
			assert.Equal(t, blueprint.SchemaID, schema["$id"])
			assert.Equal(t, "resource-adapter blueprint", schema["title"])
			assert.Equal(t, blueprint.Version, schema["adapterVersion"])
			assert.Contains(t, schema, "$schema")

			examples, ok := schema["examples"].([]interface{})
			require.True(t, ok)
			require.NotEmpty(t, examples)
			assert.Contains(t, examples[0], "launch_templates")
		})
	}
}
