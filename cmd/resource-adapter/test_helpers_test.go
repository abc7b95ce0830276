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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/cowdogmoo/resource-adapter/aws/ami"
	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/cowdogmoo/resource-adapter/logging"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testBlueprint = `vpc:
  internet_gateway: true
subnets:
  - name: public
    zones: [us-east-1a]
security_groups:
  - name: web
    ingress:
      - {description: http, port: 80, cidr_blocks: [0.0.0.0/0]}
buckets:
  - name: assets
    uploads: [index.html]
roles:
  - name: app
    grants:
      - {name: assets-read, bucket: assets, access: read}
launch_templates:
  - name: web
    role: app
    image: jammy
    security_group: web
    launch: {subnet: public, zone: us-east-1a, security_group: web}
exports:
  vpc_id: {kind: vpc}
`

// setupTestContext creates a context with a logger suitable for testing.
func setupTestContext(t *testing.T) context.Context {
	t.Helper()
	logger := logging.NewCustomLoggerWithOptions("error", "text", true, false)
	return logging.WithLogger(context.Background(), logger)
}

// newTestCommand returns a command carrying the test context and cfg.
func newTestCommand(t *testing.T, cfg *config.Config) *cobra.Command {
	t.Helper()
	ctx := setupTestContext(t)
	if cfg != nil {
		ctx = context.WithValue(ctx, configKey, cfg)
	}
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(ctx)
	return cmd
}

// writeBlueprint lays out testBlueprint and the file it uploads, returning
// the blueprint path.
func writeBlueprint(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o600))
	path := filepath.Join(dir, "blueprint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// createBlueprintRepo pushes content and index.html to a bare repository and
// returns the git:: location of the blueprint.
func createBlueprintRepo(t *testing.T, content string) string {
	t.Helper()

	root := t.TempDir()
	barePath := filepath.Join(root, "stacks.git")
	workPath := filepath.Join(root, "work")

	_, err := git.PlainInit(barePath, true)
	require.NoError(t, err)
	repo, err := git.PlainInit(workPath, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"file://" + barePath}})
	require.NoError(t, err)

	w, err := repo.Worktree()
	require.NoError(t, err)
	files := map[string]string{"stack/blueprint.yaml": content, "stack/index.html": "<html></html>"}
	for name, data := range files {
		full := filepath.Join(workPath, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(data), 0o600))
		_, err = w.Add(name)
		require.NoError(t, err)
	}
	_, err = w.Commit("Add stack", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{"refs/heads/*:refs/heads/*"},
	}))

	return "git::file://" + barePath + "//stack/blueprint.yaml"
}

// MockEC2Client answers DescribeImages with one image per call.
type MockEC2Client struct {
	DescribeImagesFunc func(ctx context.Context, params *awsec2.DescribeImagesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeImagesOutput, error)
}

// DescribeImages implements ami.EC2API.
func (m *MockEC2Client) DescribeImages(ctx context.Context, params *awsec2.DescribeImagesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeImagesOutput, error) {
	return m.DescribeImagesFunc(ctx, params, optFns...)
}

// stubImageFinder replaces the live finder with one answering every query
// with an image named after its name filter.
func stubImageFinder(t *testing.T, id string) {
	t.Helper()
	client := &MockEC2Client{
		DescribeImagesFunc: func(_ context.Context, params *awsec2.DescribeImagesInput, _ ...func(*awsec2.Options)) (*awsec2.DescribeImagesOutput, error) {
			var name string
			for _, f := range params.Filters {
				if aws.ToString(f.Name) == "name" {
					name = f.Values[0]
				}
			}
			return &awsec2.DescribeImagesOutput{Images: []ec2types.Image{{
				ImageId:      aws.String(id),
				Name:         aws.String(name),
				CreationDate: aws.String("2026-01-02T03:04:05.000Z"),
			}}}, nil
		},
	}

	original := newImageFinder
	newImageFinder = func(context.Context, *config.Config) (*ami.Finder, error) {
		return ami.NewFinder(client), nil
	}
	t.Cleanup(func() { newImageFinder = original })
}
