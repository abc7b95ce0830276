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
	"fmt"
	"os"
	"strings"

	"github.com/cowdogmoo/resource-adapter/config"
)

// Variable namespaces recognized inside ${...}. Any other ${...} text, such
// as shell expansions in user data lines, is left untouched.
const (
	varPrefix = "var."
	envPrefix = "env."
)

// ExpandVariables replaces ${var.NAME} with vars[NAME] and ${env.NAME} with
// the environment variable NAME. Undefined variables are an error; an unset
// environment variable expands to "".
func ExpandVariables(s string, vars map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 >= len(s) || s[i+1] != '{' {
			b.WriteByte(s[i])
			continue
		}
		end := strings.IndexByte(s[i+2:], '}')
		if end < 0 {
			b.WriteByte(s[i])
			continue
		}

		ref := s[i+2 : i+2+end]
		switch {
		case strings.HasPrefix(ref, varPrefix):
			name := strings.TrimPrefix(ref, varPrefix)
			value, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("undefined variable %q (set it with --var %s=value)", name, name)
			}
			b.WriteString(value)
		case strings.HasPrefix(ref, envPrefix):
			b.WriteString(os.Getenv(strings.TrimPrefix(ref, envPrefix)))
		default:
			b.WriteString(s[i : i+3+end])
		}
		i += end + 2
	}
	return b.String(), nil
}

// LoadWithVars reads the blueprint at path, expands variables and parses it.
func LoadWithVars(path string, vars map[string]string) (*Definition, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read blueprint: %w", err)
	}

	content, err := ExpandVariables(string(data), vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	def, err := Parse([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}
