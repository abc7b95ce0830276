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

// Package cli parses and validates command-line input before it reaches the
// blueprint and engine packages.
//
// Parser turns repeated key=value flags into maps:
//
//	parser := cli.NewParser()
//	vars, err := parser.ParseVariables([]string{"env=prod", "owner=ops"})
//
// Validator rejects inconsistent synth options at the CLI boundary:
//
//	if err := cli.NewValidator().ValidateSynthOptions(opts); err != nil {
//	    return fmt.Errorf("invalid options: %w", err)
//	}
package cli

import (
	"fmt"
	"strings"
)

// Parser handles parsing of CLI input into structured data.
type Parser struct{}

// NewParser creates a new CLI parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseKeyValuePairs parses key=value pairs. A repeated key keeps the last value.
func (p *Parser) ParseKeyValuePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, err := ParseKeyValue(pair)
		if err != nil {
			return nil, fmt.Errorf("invalid pair %q: %w", pair, err)
		}
		result[key] = value
	}

	return result, nil
}

// ParseKeyValue parses a single key=value string. Surrounding spaces are trimmed.
func ParseKeyValue(pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, "=")
	if !ok {
		return "", "", fmt.Errorf("expected format key=value, got %q", pair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("key cannot be empty")
	}

	return key, strings.TrimSpace(value), nil
}

// ParseVariables parses --var flags. No flags yields a nil map.
func (p *Parser) ParseVariables(vars []string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	return p.ParseKeyValuePairs(vars)
}

// ParseTags parses --tag flags. No flags yields a nil map.
func (p *Parser) ParseTags(tags []string) (map[string]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return p.ParseKeyValuePairs(tags)
}

// ValidateKeyValueFormat reports whether pair is key=value with a non-blank key.
func ValidateKeyValueFormat(pair string) bool {
	key, _, ok := strings.Cut(pair, "=")
	return ok && strings.TrimSpace(key) != ""
}
