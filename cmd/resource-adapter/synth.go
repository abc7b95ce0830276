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
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/cowdogmoo/resource-adapter/aws/ami"
	"github.com/cowdogmoo/resource-adapter/blueprint"
	"github.com/cowdogmoo/resource-adapter/cli"
	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/engine/recorder"
	"github.com/cowdogmoo/resource-adapter/git"
	"github.com/cowdogmoo/resource-adapter/logging"
	"github.com/cowdogmoo/resource-adapter/naming"
	"github.com/spf13/cobra"
)

var synthOpts = &cli.SynthCLIOptions{}

var synthCmd = &cobra.Command{
	Use:   "synth [blueprint]",
	Short: "Render a blueprint as a resource manifest",
	Long: `Compose a blueprint without touching AWS and print every declaration it
produces, in dependency order, together with its exports.

The blueprint is a local path or a git location of the form
git::<repository-url>//<path>?ref=<tag, branch or commit>.

Image lookups resolve to placeholders unless --resolve-images is set, in
which case the newest matching AMI is looked up with the configured AWS
credentials.`,
	Example: `  resource-adapter synth blueprint.yaml --project acme --stack dev
  resource-adapter synth blueprint.yaml --format json --output manifest.json
  resource-adapter synth blueprint.yaml --var instance_type=t3.small --tag team=platform
  resource-adapter synth git::https://github.com/acme/stacks.git//web/blueprint.yaml?ref=v1.2.0`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().StringVarP(&synthOpts.Format, "format", "f", "", "Manifest format (yaml, json)")
	synthCmd.Flags().StringVarP(&synthOpts.Output, "output", "o", "", "Write the manifest to a file instead of stdout")
	synthCmd.Flags().StringVar(&synthOpts.Project, "project", "", "Project name (overrides adapter.project_name)")
	synthCmd.Flags().StringVar(&synthOpts.Stack, "stack", "", "Stack name (overrides adapter.stack_name)")
	synthCmd.Flags().StringArrayVar(&synthOpts.Variables, "var", nil, "Blueprint variable (key=value), referenced as ${var.key}")
	synthCmd.Flags().StringArrayVar(&synthOpts.Tags, "tag", nil, "Tag applied to every taggable resource (key=value)")
	synthCmd.Flags().BoolVar(&synthOpts.ResolveImages, "resolve-images", false, "Resolve machine images against AWS")
}

func runSynth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := configFromContext(cmd)
	if cfg == nil {
		cfg = &config.Config{}
	}

	opts := *synthOpts
	opts.Blueprint = args[0]
	if opts.Format == "" {
		opts.Format = cfg.Synth.Format
	}
	if opts.Project == "" {
		opts.Project = cfg.Adapter.ProjectName
	}
	if opts.Stack == "" {
		opts.Stack = cfg.Adapter.StackName
	}

	data, err := synthesize(ctx, cfg, opts)
	if err != nil {
		return err
	}

	if opts.Output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, config.FilePermReadWrite); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	logging.InfoContext(ctx, "Manifest written to %s", opts.Output)
	return nil
}

// synthesize composes the blueprint named by opts into a recorder and
// encodes the resulting manifest.
func synthesize(ctx context.Context, cfg *config.Config, opts cli.SynthCLIOptions) ([]byte, error) {
	if opts.Format == "" {
		opts.Format = "yaml"
	}
	if err := cli.NewValidator().ValidateSynthOptions(opts); err != nil {
		return nil, err
	}
	n, err := naming.New(opts.Project, opts.Stack)
	if err != nil {
		return nil, err
	}

	parser := cli.NewParser()
	vars, err := parser.ParseVariables(opts.Variables)
	if err != nil {
		return nil, err
	}
	tags, err := parser.ParseTags(opts.Tags)
	if err != nil {
		return nil, err
	}

	def, path, err := loadBlueprint(ctx, opts.Blueprint, vars)
	if err != nil {
		return nil, err
	}
	if err := blueprint.CheckRequires(def.Requires, blueprint.Version); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if def.Tags == nil {
			def.Tags = map[string]string{}
		}
		maps.Copy(def.Tags, tags)
	}

	var recOpts []recorder.Option
	if opts.ResolveImages {
		finder, err := newImageFinder(ctx, cfg)
		if err != nil {
			return nil, err
		}
		recOpts = append(recOpts, recorder.WithImageResolver(finder))
	}

	rec := recorder.New(recOpts...)
	scope, err := engine.NewScope(rec, n)
	if err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "Synthesizing %s for %s", opts.Blueprint, n.Prefix())
	if _, err := blueprint.Compose(ctx, scope, def, filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to compose blueprint: %w", err)
	}
	logging.DebugContext(ctx, "Recorded %d resources", rec.Len())

	manifest, err := rec.Manifest(n.Project(), n.Stack())
	if err != nil {
		return nil, err
	}
	return manifest.Encode(opts.Format)
}

// loadBlueprint fetches git:: locations and loads the blueprint with vars.
// The returned path is the local file, for resolving relative references.
func loadBlueprint(ctx context.Context, location string, vars map[string]string) (*blueprint.Definition, string, error) {
	path, err := git.ResolveLocation(ctx, location)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch blueprint: %w", err)
	}
	def, err := blueprint.LoadWithVars(path, vars)
	if err != nil {
		return nil, "", err
	}
	return def, path, nil
}

// newImageFinder builds the live AMI finder. Swapped out in tests.
var newImageFinder = func(ctx context.Context, cfg *config.Config) (*ami.Finder, error) {
	clients, err := ami.NewAWSClients(ctx, ami.ClientConfig{
		Region:          cfg.AWS.Region,
		Profile:         cfg.AWS.Profile,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		SessionToken:    cfg.AWS.SessionToken,
	})
	if err != nil {
		return nil, err
	}
	return ami.NewFinderFromClients(clients), nil
}
