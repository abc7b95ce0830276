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

// Package main is the Pulumi program that declares a blueprint's resources.
// It reads adapter:project_name, adapter:stack_name, adapter:blueprint,
// adapter:vars and adapter:log_level from the stack configuration.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/cowdogmoo/resource-adapter/blueprint"
	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/engine/pulumiengine"
	"github.com/cowdogmoo/resource-adapter/git"
	"github.com/cowdogmoo/resource-adapter/logging"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"
)

func main() {
	pulumi.Run(run)
}

func run(ctx *pulumi.Context) error {
	cfg := config.New(ctx, pulumiengine.ConfigNamespace)
	level := cfg.Get("log_level")
	logger := logging.NewCustomLoggerWithOptions(level, "text", false, false)
	goCtx := logging.WithLogger(ctx.Context(), logger)

	settings, err := pulumiengine.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to read adapter settings: %w", err)
	}

	var vars map[string]string
	if err := cfg.GetObject("vars", &vars); err != nil {
		return fmt.Errorf("failed to read adapter:vars: %w", err)
	}

	path, err := git.ResolveLocation(goCtx, settings.Blueprint)
	if err != nil {
		return fmt.Errorf("failed to fetch blueprint: %w", err)
	}
	def, err := blueprint.LoadWithVars(path, vars)
	if err != nil {
		return err
	}
	if err := blueprint.CheckRequires(def.Requires, blueprint.Version); err != nil {
		return err
	}

	scope, err := engine.NewScope(pulumiengine.New(ctx), settings.Naming)
	if err != nil {
		return err
	}

	logger.Info("Declaring %s for %s", settings.Blueprint, settings.Naming.Prefix())
	if _, err := blueprint.Compose(goCtx, scope, def, filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to compose blueprint: %w", err)
	}
	return nil
}
