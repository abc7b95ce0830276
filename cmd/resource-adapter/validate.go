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
	"fmt"
	"path/filepath"

	"github.com/cowdogmoo/resource-adapter/blueprint"
	"github.com/cowdogmoo/resource-adapter/cli"
	"github.com/cowdogmoo/resource-adapter/logging"
	"github.com/spf13/cobra"
)

var (
	validateSyntaxOnly bool
	validateVars       []string
)

var validateCmd = &cobra.Command{
	Use:   "validate [blueprint]",
	Short: "Validate a blueprint",
	Long: `Check a blueprint without declaring anything: unique names, references
between sections, port ranges, CIDR space, image releases, trust principals
and the files it uploads or reads.

With --syntax-only the referenced files are not checked.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateSyntaxOnly, "syntax-only", false, "Skip checks against files on disk")
	validateCmd.Flags().StringArrayVar(&validateVars, "var", nil, "Blueprint variable (key=value), referenced as ${var.key}")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	location := args[0]
	logging.InfoContext(ctx, "Validating blueprint: %s", location)

	vars, err := cli.NewParser().ParseVariables(validateVars)
	if err != nil {
		return err
	}

	def, path, err := loadBlueprint(ctx, location, vars)
	if err != nil {
		return fmt.Errorf("failed to load blueprint: %w", err)
	}

	validator := blueprint.NewValidator(blueprint.ValidationOptions{
		SyntaxOnly: validateSyntaxOnly,
		BaseDir:    filepath.Dir(path),
	})
	if err := validator.Validate(def, blueprint.Version); err != nil {
		logging.ErrorContext(ctx, "Validation failed: %v", err)
		return fmt.Errorf("validation failed: %w", err)
	}

	logging.InfoContext(ctx, "Blueprint is valid!")
	return nil
}
