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

// Package recorder implements an in-memory engine that records declarations in
// order. It backs the synth command and the component tests.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/cowdogmoo/resource-adapter/ir"
)

var (
	// ErrDuplicateResource is returned when a type and name pair is declared twice.
	ErrDuplicateResource = errors.New("duplicate resource")
	// ErrUnknownReference is returned when a declaration references a resource
	// that was not declared before it.
	ErrUnknownReference = errors.New("unknown reference")
)

// ImageResolver resolves machine-image queries for the recorder.
type ImageResolver interface {
	Resolve(ctx context.Context, query ir.ImageQuery) (ir.Image, error)
}

// ImageResolverFunc adapts a function to ImageResolver.
type ImageResolverFunc func(ctx context.Context, query ir.ImageQuery) (ir.Image, error)

// Resolve calls f.
func (f ImageResolverFunc) Resolve(ctx context.Context, query ir.ImageQuery) (ir.Image, error) {
	return f(ctx, query)
}

// Resource is one recorded declaration.
type Resource struct {
	Type       ir.Type    `json:"type" yaml:"type"`
	Name       string     `json:"name" yaml:"name"`
	Properties ir.Spec    `json:"properties" yaml:"properties"`
	Options    ir.Options `json:"options,omitempty" yaml:"options,omitempty"`
	DependsOn  []string   `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// Handle returns the handle of the recorded resource.
func (r Resource) Handle() ir.Handle { return ir.Handle{Type: r.Type, Name: r.Name} }

// Export is one recorded stack output.
type Export struct {
	Name  string   `json:"name" yaml:"name"`
	Value ir.Value `json:"value" yaml:"value"`
}

// Recorder is an Engine that keeps every declaration in memory.
// It is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	resources []Resource
	index     map[ir.Handle]int
	exports   []Export
	lookups   []ir.ImageQuery
	images    ImageResolver
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithImageResolver makes LookupImage delegate to resolver.
func WithImageResolver(resolver ImageResolver) Option {
	return func(r *Recorder) { r.images = resolver }
}

// New returns an empty recorder.
func New(opts ...Option) *Recorder {
	r := &Recorder{index: map[ir.Handle]int{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Declare records decl after checking its name is unused and every resource
// it references was declared earlier.
func (r *Recorder) Declare(_ context.Context, decl ir.Declaration) (ir.Handle, error) {
	if err := decl.Validate(); err != nil {
		return ir.Handle{}, err
	}

	h := ir.Handle{Type: decl.Type(), Name: decl.Name}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[h]; ok {
		return ir.Handle{}, fmt.Errorf("%w: %s %q", ErrDuplicateResource, h.Type, h.Name)
	}

	deps, err := r.dependenciesLocked(decl)
	if err != nil {
		return ir.Handle{}, err
	}

	r.index[h] = len(r.resources)
	r.resources = append(r.resources, Resource{
		Type:       h.Type,
		Name:       h.Name,
		Properties: decl.Spec,
		Options:    decl.Options,
		DependsOn:  deps,
	})
	return h, nil
}

func (r *Recorder) dependenciesLocked(decl ir.Declaration) ([]string, error) {
	var deps []string
	seen := map[string]bool{}
	add := func(h ir.Handle) error {
		if _, ok := r.index[h]; !ok {
			return fmt.Errorf("%w: %s references undeclared resource %s", ErrUnknownReference, decl.Name, h)
		}
		if !seen[h.Name] {
			seen[h.Name] = true
			deps = append(deps, h.Name)
		}
		return nil
	}

	for _, ref := range ir.CollectRefs(decl.Spec) {
		if err := add(ir.Handle{Type: ref.Type, Name: ref.Resource}); err != nil {
			return nil, err
		}
	}
	for _, h := range decl.Options.Handles() {
		if err := add(h); err != nil {
			return nil, err
		}
	}
	return deps, nil
}

// Export records a stack output. Exporting a name again replaces its value.
func (r *Recorder) Export(_ context.Context, name string, value ir.Value) error {
	if name == "" {
		return errors.New("export name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ref := range ir.CollectRefs(value) {
		if _, ok := r.index[ir.Handle{Type: ref.Type, Name: ref.Resource}]; !ok {
			return fmt.Errorf("%w: export %s references %s", ErrUnknownReference, name, ref.Placeholder())
		}
	}

	for i := range r.exports {
		if r.exports[i].Name == name {
			r.exports[i].Value = value
			return nil
		}
	}
	r.exports = append(r.exports, Export{Name: name, Value: value})
	return nil
}

// LookupImage records the query and resolves it through the configured
// resolver, or to a deterministic placeholder image when none is set.
func (r *Recorder) LookupImage(ctx context.Context, query ir.ImageQuery) (ir.Image, error) {
	r.mu.Lock()
	r.lookups = append(r.lookups, query)
	resolver := r.images
	r.mu.Unlock()

	if resolver != nil {
		return resolver.Resolve(ctx, query)
	}
	return PlaceholderImage(query), nil
}

// PlaceholderImage derives a stable fake image for query.
func PlaceholderImage(query ir.ImageQuery) ir.Image {
	h := fnv.New64a()
	_, _ = h.Write([]byte(query.Owner + "/" + query.NameFilter))
	return ir.Image{ID: fmt.Sprintf("ami-%016x", h.Sum64()), Name: query.NameFilter}
}

// Resources returns the recorded resources in declaration order.
func (r *Recorder) Resources() []Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Resource(nil), r.resources...)
}

// Len returns the number of recorded resources.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.resources)
}

// Resource returns the recorded resource with the given type and name.
func (r *Recorder) Resource(t ir.Type, name string) (Resource, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[ir.Handle{Type: t, Name: name}]
	if !ok {
		return Resource{}, false
	}
	return r.resources[i], true
}

// ByType returns the recorded resources of type t in declaration order.
func (r *Recorder) ByType(t ir.Type) []Resource {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Resource
	for _, res := range r.resources {
		if res.Type == t {
			out = append(out, res)
		}
	}
	return out
}

// Exports returns the recorded outputs in first-export order.
func (r *Recorder) Exports() []Export {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Export(nil), r.exports...)
}

// Lookups returns every image query seen, in order.
func (r *Recorder) Lookups() []ir.ImageQuery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ir.ImageQuery(nil), r.lookups...)
}
