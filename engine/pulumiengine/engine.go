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

// Package pulumiengine implements engine.Engine on top of the Pulumi Go SDK
// and the pulumi-aws provider.
package pulumiengine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi/config"

	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/logging"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// ConfigNamespace is the Pulumi config namespace read by the program.
const ConfigNamespace = "adapter"

// DefaultBlueprint is used when adapter:blueprint is unset.
const DefaultBlueprint = "blueprint.yaml"

var (
	// ErrDuplicateResource is returned when a type and name pair is declared twice.
	ErrDuplicateResource = errors.New("duplicate resource")
	// ErrUnknownReference is returned when a value refers to an undeclared resource.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrUnsupportedSpec is returned for specs with no registered adapter.
	ErrUnsupportedSpec = errors.New("unsupported resource spec")
)

// declared is one registered resource with the attributes other values may reference.
type declared struct {
	resource pulumi.CustomResource
	attrs    map[string]pulumi.StringOutput
}

// Engine registers declarations as Pulumi resources.
type Engine struct {
	ctx *pulumi.Context

	mu        sync.Mutex
	resources map[ir.Handle]*declared
}

// New returns an engine registering into ctx.
func New(ctx *pulumi.Context) *Engine {
	return &Engine{ctx: ctx, resources: map[ir.Handle]*declared{}}
}

// Declare registers decl with Pulumi.
func (e *Engine) Declare(ctx context.Context, decl ir.Declaration) (ir.Handle, error) {
	h := ir.Handle{Type: decl.Type(), Name: decl.Name}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.resources[h]; ok {
		return ir.Handle{}, fmt.Errorf("%w: %s", ErrDuplicateResource, h)
	}

	opts, err := e.options(decl.Options)
	if err != nil {
		return ir.Handle{}, err
	}

	res, err := e.register(decl.Name, decl.Spec, opts)
	if err != nil {
		return ir.Handle{}, err
	}
	if res.attrs == nil {
		res.attrs = map[string]pulumi.StringOutput{}
	}
	res.attrs[ir.AttrID] = res.resource.ID().ToStringOutput()

	e.resources[h] = res
	logging.DebugContext(ctx, "Registered %s", h)
	return h, nil
}

// Export publishes value as a stack output.
func (e *Engine) Export(_ context.Context, name string, value ir.Value) error {
	if name == "" {
		return errors.New("export name is empty")
	}
	out, err := e.Output(value)
	if err != nil {
		return err
	}
	e.ctx.Export(name, out)
	return nil
}

// LookupImage resolves query with the provider's AMI data source.
func (e *Engine) LookupImage(_ context.Context, query ir.ImageQuery) (ir.Image, error) {
	res, err := ec2.LookupAmi(e.ctx, &ec2.LookupAmiArgs{
		Owners:     []string{query.Owner},
		MostRecent: pulumi.BoolRef(true),
		Filters: []ec2.GetAmiFilter{
			{Name: "name", Values: []string{query.NameFilter}},
		},
	})
	if err != nil {
		return ir.Image{}, fmt.Errorf("no matching ami for %s: %w", query, err)
	}
	return ir.Image{ID: res.Id, Name: res.Name, CreationDate: res.CreationDate}, nil
}

// Resource returns the Pulumi resource registered for h.
func (e *Engine) Resource(h ir.Handle) (pulumi.CustomResource, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	res, ok := e.resources[h]
	if !ok {
		return nil, false
	}
	return res.resource, true
}

func (e *Engine) options(o ir.Options) ([]pulumi.ResourceOption, error) {
	var opts []pulumi.ResourceOption
	if o.Parent != nil {
		parent, ok := e.resources[*o.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: parent %s", ErrUnknownReference, *o.Parent)
		}
		opts = append(opts, pulumi.Parent(parent.resource))
	}
	if len(o.DependsOn) > 0 {
		deps := make([]pulumi.Resource, 0, len(o.DependsOn))
		for _, h := range o.DependsOn {
			dep, ok := e.resources[h]
			if !ok {
				return nil, fmt.Errorf("%w: dependency %s", ErrUnknownReference, h)
			}
			deps = append(deps, dep.resource)
		}
		opts = append(opts, pulumi.DependsOn(deps))
	}
	if o.Protect {
		opts = append(opts, pulumi.Protect(true))
	}
	if o.RetainOnDelete {
		opts = append(opts, pulumi.RetainOnDelete(true))
	}
	if len(o.IgnoreChanges) > 0 {
		opts = append(opts, pulumi.IgnoreChanges(o.IgnoreChanges))
	}
	return opts, nil
}

// Settings are the adapter values read from Pulumi config.
type Settings struct {
	Naming    naming.Context
	Blueprint string
}

// LoadSettings reads adapter:project_name, adapter:stack_name and
// adapter:blueprint.
func LoadSettings(ctx *pulumi.Context) (Settings, error) {
	cfg := config.New(ctx, ConfigNamespace)

	n, err := naming.New(cfg.Get("project_name"), cfg.Get("stack_name"))
	if err != nil {
		return Settings{}, err
	}

	blueprint := cfg.Get("blueprint")
	if blueprint == "" {
		blueprint = DefaultBlueprint
	}
	return Settings{Naming: n, Blueprint: blueprint}, nil
}
