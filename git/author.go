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

// Package git reads the user's git identity and fetches blueprints stored in
// git repositories.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/cowdogmoo/resource-adapter/logging"
	"gopkg.in/ini.v1"
)

// ConfigReader reads the [user] section of ~/.gitconfig.
type ConfigReader struct {
	home string
}

// NewConfigReader creates a reader for the current user's git config.
func NewConfigReader() *ConfigReader {
	home, _ := os.UserHomeDir()
	return &ConfigReader{home: home}
}

// GetAuthor returns "Name <email>", "Name", "email" or "" when git has no
// identity configured. A single [include] path is followed for missing values.
func (r *ConfigReader) GetAuthor(ctx context.Context) string {
	if r.home == "" {
		return ""
	}

	cfg, err := ini.Load(filepath.Join(r.home, ".gitconfig"))
	if err != nil {
		logging.DebugContext(ctx, "Failed to load .gitconfig: %v", err)
		return ""
	}

	name, email := userInfo(cfg)
	if name == "" || email == "" {
		name, email = r.included(ctx, cfg, name, email)
	}
	return formatAuthor(name, email)
}

func userInfo(cfg *ini.File) (name, email string) {
	user := cfg.Section("user")
	return user.Key("name").String(), user.Key("email").String()
}

// included fills empty values from the file named by [include] path.
func (r *ConfigReader) included(ctx context.Context, cfg *ini.File, name, email string) (string, string) {
	includePath := cfg.Section("include").Key("path").String()
	if includePath == "" {
		return name, email
	}

	expanded, err := config.ExpandPath(includePath)
	if err != nil {
		return name, email
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(r.home, expanded)
	}

	includedCfg, err := ini.Load(expanded)
	if err != nil {
		logging.DebugContext(ctx, "Failed to load included config from %s: %v", expanded, err)
		return name, email
	}

	includedName, includedEmail := userInfo(includedCfg)
	if name == "" {
		name = includedName
	}
	if email == "" {
		email = includedEmail
	}
	return name, email
}

func formatAuthor(name, email string) string {
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email)
	case name != "":
		return name
	default:
		return email
	}
}
