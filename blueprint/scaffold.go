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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/cowdogmoo/resource-adapter/logging"
)

// SchemaComment points YAML language servers at the blueprint schema.
const SchemaComment = "# yaml-language-server: $schema=" + SchemaID + "\n"

// Scaffold file names.
const (
	BlueprintFile = "blueprint.yaml"
	BootScript    = "boot.sh"
	ReadmeFile    = "README.md"
)

// ScaffoldOptions configures a new blueprint project.
type ScaffoldOptions struct {
	// Name is used for the launch template and the README title.
	Name string
	// Owner, when set, becomes the owner tag of every resource.
	Owner string
	// Force overwrites existing files.
	Force bool
}

// Scaffold writes a starter blueprint, boot script and README into dir and
// returns the paths written.
func Scaffold(ctx context.Context, dir string, opts ScaffoldOptions) ([]string, error) {
	if opts.Name == "" {
		opts.Name = "app"
	}

	files := []struct {
		name    string
		content string
		mode    os.FileMode
	}{
		{BlueprintFile, starterBlueprint(opts), config.FilePermReadWrite},
		{BootScript, "#!/bin/bash\nset -euo pipefail\n\napt-get update\n", 0o700},
		{ReadmeFile, starterReadme(opts.Name), config.FilePermReadWrite},
	}

	if !opts.Force {
		for _, f := range files {
			path := filepath.Join(dir, f.name)
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}
	}

	if err := os.MkdirAll(dir, config.DirPermReadWriteExec); err != nil {
		return nil, fmt.Errorf("failed to create blueprint directory: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), f.mode); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		written = append(written, path)
	}

	blueprintPath := filepath.Join(dir, BlueprintFile)
	logging.InfoContext(ctx, "Blueprint created at: %s", blueprintPath)
	logging.InfoContext(ctx, "Next steps:")
	logging.InfoContext(ctx, "  1. Edit %s to describe your stack", blueprintPath)
	logging.InfoContext(ctx, "  2. Validate with: resource-adapter validate %s", blueprintPath)
	logging.InfoContext(ctx, "  3. Preview with: resource-adapter synth %s --project <project> --stack <stack>", blueprintPath)
	return written, nil
}

func starterBlueprint(opts ScaffoldOptions) string {
	var b strings.Builder
	b.WriteString(SchemaComment)
	b.WriteString("requires: \">=1.0.0\"\n")
	if opts.Owner != "" {
		fmt.Fprintf(&b, "tags:\n  owner: %q\n", opts.Owner)
	}
	fmt.Fprintf(&b, `vpc:
  internet_gateway: true
subnets:
  - name: public
    zones: [us-east-1a, us-east-1b]
security_groups:
  - name: %[1]s
    ingress:
      - {description: ssh, port: 22, cidr_blocks: [0.0.0.0/0]}
roles:
  - name: %[1]s
    service: ec2
launch_templates:
  - name: %[1]s
    role: %[1]s
    image: jammy
    security_group: %[1]s
    instance_type: t3.micro
    user_data:
      scripts: [%[2]s]
    # launch: {subnet: public, zone: us-east-1a, security_group: %[1]s}
exports:
  vpc_id: {kind: vpc}
`, opts.Name, BootScript)
	return b.String()
}

func starterReadme(name string) string {
	return fmt.Sprintf(`# %[1]s

A resource-adapter blueprint.

## Usage

Validate the blueprint:

`+"```bash"+`
resource-adapter validate %[2]s
`+"```"+`

Preview the declarations:

`+"```bash"+`
resource-adapter synth %[2]s --project %[1]s --stack dev
`+"```"+`

Deploy with Pulumi:

`+"```bash"+`
pulumi config set adapter:project_name %[1]s
pulumi config set adapter:stack_name dev
pulumi config set adapter:blueprint %[2]s
pulumi up
`+"```"+`

## Structure

- `+"`%[2]s`"+` - Stack definition
- `+"`%[3]s`"+` - Instance user data
`, name, BlueprintFile, BootScript)
}
