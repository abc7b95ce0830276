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

	"github.com/cowdogmoo/resource-adapter/blueprint"
	"github.com/cowdogmoo/resource-adapter/git"
	"github.com/spf13/cobra"
)

var (
	initName  string
	initOwner string
	initForce bool
)

// authorReader looks up the default owner tag. Swapped out in tests.
var authorReader interface {
	GetAuthor(ctx context.Context) string
} = git.NewConfigReader()

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a starter blueprint",
	Long: `Write blueprint.yaml, boot.sh and README.md into dir (default: the
current directory).

The owner tag defaults to the git author from ~/.gitconfig.`,
	Example: `  resource-adapter init
  resource-adapter init stacks/web --name web --owner "Ops <ops@example.com>"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "app", "Name of the starter launch template")
	initCmd.Flags().StringVar(&initOwner, "owner", "", "Owner tag (defaults to the git author)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	owner := initOwner
	if owner == "" {
		owner = authorReader.GetAuthor(ctx)
	}

	_, err := blueprint.Scaffold(ctx, dir, blueprint.ScaffoldOptions{
		Name:  initName,
		Owner: owner,
		Force: initForce,
	})
	return err
}
