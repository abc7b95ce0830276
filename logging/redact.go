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

package logging

import (
	"regexp"
	"sort"
	"strings"
)

// Redacted replaces sensitive values in config and log output.
const Redacted = "***"

var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"private_key",
	"privatekey",
	"private-key",
	"access_key",
	"accesskey",
	"access-key",
}

var sensitiveValuePattern = regexp.MustCompile(`(?i)(password|token|secret|key|credential)=\S+`)

// IsSensitiveKey reports whether a key name looks like it holds a secret.
// The check is case-insensitive.
func IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lowerKey, pattern) {
			return true
		}
	}
	return false
}

// RedactSensitiveValue returns Redacted for a non-empty value under a
// sensitive key, otherwise the value unchanged.
func RedactSensitiveValue(key, value string) string {
	if value != "" && IsSensitiveKey(key) {
		return Redacted
	}
	return value
}

// RedactSensitivePatterns redacts key=value pairs that look like secrets.
// For example: "token=abc123" -> "token=***"
func RedactSensitivePatterns(input string) string {
	return sensitiveValuePattern.ReplaceAllStringFunc(input, func(match string) string {
		key, _, _ := strings.Cut(match, "=")
		return key + "=" + Redacted
	})
}

// RedactSettings walks a nested settings map (as returned by viper's
// AllSettings) and returns a copy with sensitive leaves redacted. Keys of
// nested maps are joined with dots before the sensitivity check.
func RedactSettings(settings map[string]interface{}) map[string]interface{} {
	return redactMap("", settings)
}

func redactMap(prefix string, in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch v := in[k].(type) {
		case map[string]interface{}:
			out[k] = redactMap(full, v)
		case string:
			out[k] = RedactSensitiveValue(full, v)
		default:
			out[k] = v
		}
	}
	return out
}
