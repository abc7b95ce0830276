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

package iam

import (
	"context"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// GroupArgs configures a group.
type GroupArgs struct {
	Name    string
	Path    string
	Options ir.Options
}

// Group is an IAM group. Unlike Role it has no instance profile.
type Group struct {
	scope  *engine.Scope
	name   string
	handle ir.Handle
	opts   ir.Options
}

// PlanGroup builds the group declaration without declaring it.
func PlanGroup(n naming.Context, args GroupArgs) ir.Declaration {
	return ir.Declaration{
		Name:    n.Name(args.Name),
		Spec:    ir.GroupSpec{Path: args.Path},
		Options: args.Options,
	}
}

// NewGroup declares a group.
func NewGroup(ctx context.Context, scope *engine.Scope, args GroupArgs) (*Group, error) {
	decl := PlanGroup(scope.Naming(), args)
	h, err := scope.DeclareOne(ctx, decl)
	if err != nil {
		return nil, err
	}
	return &Group{scope: scope, name: decl.Name, handle: h, opts: args.Options}, nil
}

// Name returns the group's resource name.
func (g *Group) Name() string { return g.name }

// Handle returns the declared group.
func (g *Group) Handle() ir.Handle { return g.handle }

// ARN references the group ARN.
func (g *Group) ARN() ir.Ref { return g.handle.ARN() }

// GroupName references the group name assigned by the engine.
func (g *Group) GroupName() ir.Ref { return g.handle.Attr(ir.AttrName) }

// Attach attaches an existing managed policy, declared as {group}-{attachment}.
func (g *Group) Attach(ctx context.Context, attachment string, policyARN ir.Value) (ir.Handle, error) {
	return g.scope.DeclareOne(ctx, ir.Declaration{
		Name:    g.name + "-" + attachment,
		Spec:    ir.GroupPolicyAttachmentSpec{Group: g.GroupName(), PolicyARN: policyARN},
		Options: g.opts,
	})
}

// Grant declares a policy {group}-{policyName} from a snapshot of permission
// and attaches it to the group. It returns the policy handle.
func (g *Group) Grant(ctx context.Context, policyName string, permission *Permission) (ir.Handle, error) {
	policy, err := g.scope.DeclareOne(ctx, PlanPolicy(g.name, policyName, permission, g.opts))
	if err != nil {
		return ir.Handle{}, err
	}
	if _, err := g.Attach(ctx, policyName, policy.ARN()); err != nil {
		return ir.Handle{}, err
	}
	return policy, nil
}
