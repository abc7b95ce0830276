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

package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cowdogmoo/resource-adapter/naming"
)

// Formats lists the manifest encodings synth can write.
var Formats = []string{"yaml", "json"}

// Validator validates CLI input before passing to business logic.
type Validator struct {
	parser *Parser
}

// NewValidator creates a new CLI validator.
func NewValidator() *Validator {
	return &Validator{parser: NewParser()}
}

// ValidateSynthOptions validates synth command options for correctness and consistency.
func (v *Validator) ValidateSynthOptions(opts SynthCLIOptions) error {
	if opts.Blueprint == "" {
		return fmt.Errorf("blueprint path is required")
	}

	if !slices.Contains(Formats, opts.Format) {
		return fmt.Errorf("unsupported format %q (use %s)", opts.Format, strings.Join(Formats, " or "))
	}

	if _, err := naming.New(opts.Project, opts.Stack); err != nil {
		return fmt.Errorf("invalid naming (set --project and --stack or adapter.project_name and adapter.stack_name): %w", err)
	}

	return v.validateKeyValueFormats(opts)
}

// validateKeyValueFormats validates all key=value format options.
func (v *Validator) validateKeyValueFormats(opts SynthCLIOptions) error {
	for _, variable := range opts.Variables {
		if !ValidateKeyValueFormat(variable) {
			return fmt.Errorf("invalid variable format: %s (expected key=value)", variable)
		}
	}

	for _, tag := range opts.Tags {
		if !ValidateKeyValueFormat(tag) {
			return fmt.Errorf("invalid tag format: %s (expected key=value)", tag)
		}
	}

	return nil
}

// ValidateConfigSetOptions validates config set command options.
func (v *Validator) ValidateConfigSetOptions(key, value string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	if value == "" {
		return fmt.Errorf("value is required")
	}

	if !isValidConfigKey(key) {
		return fmt.Errorf("invalid config key format: %s (use dot notation like log.level)", key)
	}

	return nil
}

// isValidConfigKey checks for dot notation without empty segments.
func isValidConfigKey(key string) bool {
	if key == "" {
		return false
	}
	return !slices.Contains(strings.Split(key, "."), "")
}
