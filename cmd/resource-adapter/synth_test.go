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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cowdogmoo/resource-adapter/blueprint"
	"github.com/cowdogmoo/resource-adapter/cli"
	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthCommandFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "synth [blueprint]", synthCmd.Use)
	for _, name := range []string{"format", "output", "project", "stack", "var", "tag", "resolve-images"} {
		assert.NotNil(t, synthCmd.Flags().Lookup(name), "missing --%s flag", name)
	}
}

func TestSynthesize(t *testing.T) {
	t.Parallel()

	path := writeBlueprint(t, testBlueprint)
	ctx := setupTestContext(t)

	data, err := synthesize(ctx, &config.Config{}, cli.SynthCLIOptions{Blueprint: path, Format: "yaml", Project: "acme", Stack: "dev"})
	require.NoError(t, err)

	out := string(data)
	for _, want := range []string{
		"project: acme",
		"stack: dev",
		"name: acme-dev\n",
		"name: acme-dev-public-us-east-1a",
		"name: acme-dev-web-http-80",
		"name: acme-dev-assets-index.html",
		"vpc_id: ${acme-dev.id}",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "name: acme-dev\n"), strings.Index(out, "name: acme-dev-public-us-east-1a"),
		"the vpc is declared before its subnets")
}

func TestSynthesizeJSON(t *testing.T) {
	t.Parallel()

	path := writeBlueprint(t, testBlueprint)
	data, err := synthesize(setupTestContext(t), &config.Config{},
		cli.SynthCLIOptions{Blueprint: path, Format: "json", Project: "acme", Stack: "dev"})
	require.NoError(t, err)

	var manifest struct {
		Project   string            `json:"project"`
		Resources []json.RawMessage `json:"resources"`
		Outputs   map[string]string `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, "acme", manifest.Project)
	assert.NotEmpty(t, manifest.Resources)
	assert.Equal(t, "${acme-dev.id}", manifest.Outputs["vpc_id"])
}

func TestSynthesizeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		opts    cli.SynthCLIOptions
		wantErr string
	}{
		{
			name:    "missing naming",
			content: testBlueprint,
			opts:    cli.SynthCLIOptions{Format: "yaml"},
			wantErr: "invalid naming",
		},
		{
			name:    "invalid blueprint",
			content: "launch_templates:\n  - {name: web, role: ghost, image: jammy}\n",
			opts:    cli.SynthCLIOptions{Project: "acme", Stack: "dev"},
			wantErr: `unknown role "ghost"`,
		},
		{
			name:    "unsupported format",
			content: "vpc: {}\n",
			opts:    cli.SynthCLIOptions{Format: "toml", Project: "acme", Stack: "dev"},
			wantErr: `unsupported format "toml"`,
		},
		{
			name:    "undefined variable",
			content: "vpc: {name: ${var.network}}\n",
			opts:    cli.SynthCLIOptions{Project: "acme", Stack: "dev"},
			wantErr: `undefined variable "network"`,
		},
		{
			name:    "malformed tag",
			content: testBlueprint,
			opts:    cli.SynthCLIOptions{Project: "acme", Stack: "dev", Tags: []string{"team"}},
			wantErr: "invalid tag format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			opts := tc.opts
			opts.Blueprint = writeBlueprint(t, tc.content)
			_, err := synthesize(setupTestContext(t), &config.Config{}, opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSynthesizeChecksRequires(t *testing.T) {
	original := blueprint.Version
	blueprint.Version = "1.2.0"
	t.Cleanup(func() { blueprint.Version = original })

	path := writeBlueprint(t, "requires: \">=2.0.0\"\nvpc: {}\n")
	_, err := synthesize(setupTestContext(t), &config.Config{}, cli.SynthCLIOptions{Blueprint: path, Project: "acme", Stack: "dev"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blueprint requires resource-adapter >=2.0.0, but current version is 1.2.0")
}

func TestSynthesizeResolveImages(t *testing.T) {
	stubImageFinder(t, "ami-0123456789abcdef0")

	path := writeBlueprint(t, testBlueprint)
	data, err := synthesize(setupTestContext(t), &config.Config{},
		cli.SynthCLIOptions{Blueprint: path, Format: "yaml", Project: "acme", Stack: "dev", ResolveImages: true})
	require.NoError(t, err)
	assert.Contains(t, string(data), "imageId: ami-0123456789abcdef0")
}

func TestRunSynthWritesOutputFile(t *testing.T) {
	original := *synthOpts
	t.Cleanup(func() { *synthOpts = original })

	path := writeBlueprint(t, testBlueprint)
	outPath := filepath.Join(t.TempDir(), "manifest.json")
	*synthOpts = cli.SynthCLIOptions{Output: outPath, Format: "json"}

	cfg := &config.Config{Adapter: config.AdapterConfig{ProjectName: "acme", StackName: "dev"}}
	cmd := newTestCommand(t, cfg)
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)

	require.NoError(t, runSynth(cmd, []string{path}))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"project": "acme"`)
}

func TestRunSynthFlagsOverrideConfig(t *testing.T) {
	original := *synthOpts
	t.Cleanup(func() { *synthOpts = original })

	path := writeBlueprint(t, testBlueprint)
	*synthOpts = cli.SynthCLIOptions{Project: "beta", Stack: "prod"}

	cfg := &config.Config{
		Adapter: config.AdapterConfig{ProjectName: "acme", StackName: "dev"},
		Synth:   config.SynthConfig{Format: "yaml"},
	}
	cmd := newTestCommand(t, cfg)
	stdout := new(bytes.Buffer)
	cmd.SetOut(stdout)

	require.NoError(t, runSynth(cmd, []string{path}))
	assert.Contains(t, stdout.String(), "name: beta-prod-web")
	assert.NotContains(t, stdout.String(), "acme-dev")
}

func TestSynthesizeVariablesAndTags(t *testing.T) {
	t.Parallel()

	content := "vpc: {name: ${var.network}}\nbuckets:\n  - name: ${var.network}-logs\n"
	path := writeBlueprint(t, content)

	data, err := synthesize(setupTestContext(t), &config.Config{}, cli.SynthCLIOptions{
		Blueprint: path,
		Project:   "acme",
		Stack:     "dev",
		Variables: []string{"network=core"},
		Tags:      []string{"team=platform"},
	})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "name: acme-dev-core\n")
	assert.Contains(t, out, "name: acme-dev-core-logs")
	assert.Contains(t, out, "team: platform")
}

func TestSynthesizeFromGit(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	location := createBlueprintRepo(t, testBlueprint)
	data, err := synthesize(setupTestContext(t), &config.Config{},
		cli.SynthCLIOptions{Blueprint: location, Project: "acme", Stack: "dev"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: acme-dev-assets-index.html")

	_, err = synthesize(setupTestContext(t), &config.Config{},
		cli.SynthCLIOptions{Blueprint: location + "?ref=nope", Project: "acme", Stack: "dev"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch blueprint")
}
