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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// AppName is the directory name used under the config directories.
const AppName = "resource-adapter"

// DirPermReadWriteExec is the permission for directories created by the adapter.
const DirPermReadWriteExec = 0o755

// FilePermReadWrite is the permission for config files written by the adapter.
const FilePermReadWrite = 0o600

// NewConfigViper creates a viper instance that searches the standard
// config directories and the current directory for config.yaml.
func NewConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	for _, dir := range ConfigDirs() {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	return v
}

// configHome returns $XDG_CONFIG_HOME or ~/.config.
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return ""
}

// ConfigDirs returns the directories searched for config.yaml, in priority order.
func ConfigDirs() []string {
	var dirs []string

	if home := configHome(); home != "" {
		dirs = append(dirs, filepath.Join(home, AppName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "."+AppName))
	}

	if runtime.GOOS == "linux" || runtime.GOOS == "freebsd" || runtime.GOOS == "openbsd" {
		if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
			for _, dir := range filepath.SplitList(xdgDirs) {
				if dir != "" {
					dirs = append(dirs, filepath.Join(dir, AppName))
				}
			}
		} else {
			dirs = append(dirs, filepath.Join("/etc", "xdg", AppName))
		}
	}

	return dirs
}

// ConfigFile returns the path where a new config file named filename is
// written, creating its directory.
func ConfigFile(filename string) (string, error) {
	home := configHome()
	if home == "" {
		return "", fmt.Errorf("failed to resolve config directory: %w", os.ErrNotExist)
	}

	path := filepath.Join(home, AppName, filename)
	if err := os.MkdirAll(filepath.Dir(path), DirPermReadWriteExec); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return path, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
