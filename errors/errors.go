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

// Package errors provides error wrapping utilities for consistent error handling
// and remediation hints for failures reported by a provisioning engine.
package errors

import (
	"fmt"
	"strings"
)

// Wrap wraps an error with a descriptive action and optional detail.
// It returns a formatted error in the form "failed to <action> [(<detail>)]: <error>".
//
// Example usage:
//
//	if err := scope.Declare(ctx, decl); err != nil {
//	    return errors.Wrap("declare vpc", name, err)
//	}
func Wrap(action, detail string, err error) error {
	if err == nil {
		return nil
	}

	if detail != "" {
		return fmt.Errorf("failed to %s (%s): %w", action, detail, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// DeclarationError represents an engine failure with a remediation hint.
type DeclarationError struct {
	Message     string
	Cause       error
	Remediation string
}

func (e *DeclarationError) Error() string {
	if e.Remediation != "" {
		return fmt.Sprintf("%s: %v\n\nRemediation: %s", e.Message, e.Cause, e.Remediation)
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *DeclarationError) Unwrap() error {
	return e.Cause
}

// errorPattern defines a pattern for matching and remediating errors
type errorPattern struct {
	patterns    []string // all must match
	anyPatterns []string // at least one must match
	msgSuffix   string
	remediation string
}

var errorPatterns = []errorPattern{
	{
		anyPatterns: []string{"duplicate resource", "Duplicate resource URN", "already declared"},
		msgSuffix:   "resource name collision",
		remediation: "Every resource name is derived from {project}-{stack}-{name}. Pick a different logical name, or avoid calling a create operation twice for the same component.",
	},
	{
		anyPatterns: []string{"unknown reference", "undeclared resource"},
		msgSuffix:   "reference to an undeclared resource",
		remediation: "Declare the referenced resource before the resources that depend on it.",
	},
	{
		anyPatterns: []string{"missing naming identifier", "project_name", "stack_name"},
		msgSuffix:   "naming configuration missing",
		remediation: "Set adapter.project_name and adapter.stack_name in the config file, via ADAPTER_PROJECT_NAME/ADAPTER_STACK_NAME, or with 'pulumi config set adapter:project_name <value>'.",
	},
	{
		anyPatterns: []string{"AccessDenied", "not authorized", "UnauthorizedOperation"},
		msgSuffix:   "permission denied",
		remediation: "Verify your AWS credentials can manage EC2, IAM, ECR and S3 resources in the target account and region.",
	},
	{
		patterns:    []string{"ami"},
		anyPatterns: []string{"no images", "not found", "no matching"},
		msgSuffix:   "machine image not found",
		remediation: "Image lookups are region specific. Verify the owner and name pattern with 'aws ec2 describe-images --owners <owner> --filters Name=name,Values=<pattern>'.",
	},
	{
		anyPatterns: []string{"LimitExceeded", "quota"},
		msgSuffix:   "AWS service quota exceeded",
		remediation: "Request a quota increase or remove unused resources in the target region.",
	},
}

// WrapWithRemediation wraps an error with a remediation hint when the
// message matches a known failure, otherwise it wraps with context only.
func WrapWithRemediation(err error, context string) error {
	if err == nil {
		return nil
	}

	errMsg := err.Error()

	for _, pattern := range errorPatterns {
		if matchesPattern(errMsg, pattern) {
			return &DeclarationError{
				Message:     fmt.Sprintf("%s: %s", context, pattern.msgSuffix),
				Cause:       err,
				Remediation: pattern.remediation,
			}
		}
	}

	return fmt.Errorf("%s: %w", context, err)
}

func matchesPattern(errMsg string, p errorPattern) bool {
	for _, pat := range p.patterns {
		if !strings.Contains(errMsg, pat) {
			return false
		}
	}

	if len(p.anyPatterns) == 0 {
		return true
	}
	for _, pat := range p.anyPatterns {
		if strings.Contains(errMsg, pat) {
			return true
		}
	}
	return false
}
