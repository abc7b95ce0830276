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

// Package engine defines the boundary between the resource components and the
// provisioning engine that owns dependency resolution, diffing and state.
package engine

import (
	"context"
	"errors"
	"fmt"

	adaptererrors "github.com/cowdogmoo/resource-adapter/errors"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/logging"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// Engine declares resources, publishes stack outputs and resolves machine images.
type Engine interface {
	Declare(ctx context.Context, decl ir.Declaration) (ir.Handle, error)
	Export(ctx context.Context, name string, value ir.Value) error
	LookupImage(ctx context.Context, query ir.ImageQuery) (ir.Image, error)
}

// ErrNoEngine is returned when a scope is built without an engine.
var ErrNoEngine = errors.New("no engine configured")

// Scope binds an engine to the naming context every component derives its
// resource names from.
type Scope struct {
	engine Engine
	naming naming.Context
}

// NewScope returns a scope declaring into e with names derived from n.
func NewScope(e Engine, n naming.Context) (*Scope, error) {
	if e == nil {
		return nil, ErrNoEngine
	}
	if n.IsZero() {
		return nil, fmt.Errorf("%w: naming context is empty", naming.ErrMissingIdentifier)
	}
	return &Scope{engine: e, naming: n}, nil
}

// Naming returns the scope's naming context.
func (s *Scope) Naming() naming.Context { return s.naming }

// Name derives the resource name of a logical name.
func (s *Scope) Name(logical string) string { return s.naming.Name(logical) }

// Engine returns the engine the scope declares into.
func (s *Scope) Engine() Engine { return s.engine }

// Declare hands decls to the engine in order and returns their handles.
// It stops at the first failure; declarations already accepted stay with the
// engine.
func (s *Scope) Declare(ctx context.Context, decls ...ir.Declaration) ([]ir.Handle, error) {
	handles := make([]ir.Handle, 0, len(decls))
	for _, decl := range decls {
		if err := decl.Validate(); err != nil {
			return handles, err
		}

		logging.DebugContext(ctx, "Declaring %s %s", decl.Type(), decl.Name)

		h, err := s.engine.Declare(ctx, decl)
		if err != nil {
			return handles, adaptererrors.WrapWithRemediation(err,
				fmt.Sprintf("declare %s %q", decl.Type(), decl.Name))
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// DeclareOne declares a single resource.
func (s *Scope) DeclareOne(ctx context.Context, decl ir.Declaration) (ir.Handle, error) {
	handles, err := s.Declare(ctx, decl)
	if err != nil {
		return ir.Handle{}, err
	}
	return handles[0], nil
}

// Export publishes a stack output.
func (s *Scope) Export(ctx context.Context, name string, value ir.Value) error {
	logging.DebugContext(ctx, "Exporting %s", name)
	if err := s.engine.Export(ctx, name, value); err != nil {
		return adaptererrors.WrapWithRemediation(err, fmt.Sprintf("export %q", name))
	}
	return nil
}

// LookupImage resolves a machine image through the engine.
func (s *Scope) LookupImage(ctx context.Context, query ir.ImageQuery) (ir.Image, error) {
	img, err := s.engine.LookupImage(ctx, query)
	if err != nil {
		return ir.Image{}, adaptererrors.WrapWithRemediation(err, fmt.Sprintf("look up ami %s", query))
	}
	logging.DebugContext(ctx, "Resolved image %s to %s", query, img.ID)
	return img, nil
}
