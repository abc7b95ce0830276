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

// Package naming derives deterministic resource names and default tags from a
// project and stack identifier pair.
package naming

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingIdentifier is returned when the project or stack identifier is empty.
	ErrMissingIdentifier = errors.New("missing naming identifier")
	// ErrInvalidIdentifier is returned when an identifier has leading or
	// trailing whitespace.
	ErrInvalidIdentifier = errors.New("invalid naming identifier")
)

// NameTag is the tag key carrying a resource's derived name.
const NameTag = "Name"

// Context holds the identifiers every resource name is derived from.
// The zero value is not usable; construct it with New.
type Context struct {
	project string
	stack   string
}

// New returns a naming context for the given project and stack.
// Both identifiers must be non-empty and are used verbatim; surrounding
// whitespace is an error rather than something to trim.
func New(project, stack string) (Context, error) {
	if err := checkIdentifier("project_name", project); err != nil {
		return Context{}, err
	}
	if err := checkIdentifier("stack_name", stack); err != nil {
		return Context{}, err
	}
	return Context{project: project, stack: stack}, nil
}

func checkIdentifier(key, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%w: %s is not set", ErrMissingIdentifier, key)
	}
	if trimmed != value {
		return fmt.Errorf("%w: %s %q has surrounding whitespace", ErrInvalidIdentifier, key, value)
	}
	return nil
}

// MustNew is like New but panics on error. Intended for tests and program
// entry points where missing identifiers are fatal.
func MustNew(project, stack string) Context {
	c, err := New(project, stack)
	if err != nil {
		panic(err)
	}
	return c
}

// Project returns the project identifier.
func (c Context) Project() string { return c.project }

// Stack returns the stack identifier.
func (c Context) Stack() string { return c.stack }

// IsZero reports whether the context was never initialized.
func (c Context) IsZero() bool { return c.project == "" && c.stack == "" }

// Prefix returns "{project}-{stack}".
func (c Context) Prefix() string {
	return c.project + "-" + c.stack
}

// Name returns the prefix alone when logical is empty, otherwise
// "{project}-{stack}-{logical}".
func (c Context) Name(logical string) string {
	if logical == "" {
		return c.Prefix()
	}
	return c.Prefix() + "-" + logical
}

// Tags returns tags unchanged when provided, otherwise a single Name tag
// carrying name. A non-nil empty map is respected as "no tags".
func Tags(name string, tags map[string]string) map[string]string {
	if tags != nil {
		return tags
	}
	return map[string]string{NameTag: name}
}
