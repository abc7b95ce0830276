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
	"github.com/cowdogmoo/resource-adapter/errors"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// RoleArgs configures a role.
type RoleArgs struct {
	// Name is the logical name; the role is declared as {project}-{stack}-{Name}.
	Name string
	// Service is the trust service short name. Defaults to "ec2".
	Service string
	Tags    map[string]string
	Options ir.Options
}

// Role is an IAM role assumable by one AWS service.
type Role struct {
	scope   *engine.Scope
	name    string
	handle  ir.Handle
	opts    ir.Options
	profile *ir.Handle
}

// PlanRole builds the role declaration without declaring it.
func PlanRole(n naming.Context, args RoleArgs) (ir.Declaration, error) {
	service := args.Service
	if service == "" {
		service = ServiceEC2
	}
	trust, err := AssumeRolePolicy(service)
	if err != nil {
		return ir.Declaration{}, err
	}
	return ir.Declaration{
		Name:    n.Name(args.Name),
		Spec:    ir.RoleSpec{AssumeRolePolicy: trust, Tags: args.Tags},
		Options: args.Options,
	}, nil
}

// NewRole declares a role trusted by args.Service.
func NewRole(ctx context.Context, scope *engine.Scope, args RoleArgs) (*Role, error) {
	decl, err := PlanRole(scope.Naming(), args)
	if err != nil {
		return nil, errors.Wrap("plan role", args.Name, err)
	}
	h, err := scope.DeclareOne(ctx, decl)
	if err != nil {
		return nil, err
	}
	return &Role{scope: scope, name: decl.Name, handle: h, opts: args.Options}, nil
}

// Name returns the role's resource name.
func (r *Role) Name() string { return r.name }

// Handle returns the declared role.
func (r *Role) Handle() ir.Handle { return r.handle }

// ARN references the role ARN.
func (r *Role) ARN() ir.Ref { return r.handle.ARN() }

// RoleName references the role name assigned by the engine.
func (r *Role) RoleName() ir.Ref { return r.handle.Attr(ir.AttrName) }

// PlanRoleAttachment builds the attachment of policyARN to the role.
func PlanRoleAttachment(roleName string, role ir.Value, attachment string, policyARN ir.Value, opts ir.Options) ir.Declaration {
	return ir.Declaration{
		Name:    roleName + "-" + attachment,
		Spec:    ir.RolePolicyAttachmentSpec{Role: role, PolicyARN: policyARN},
		Options: opts,
	}
}

// Attach attaches an existing managed policy, declared as {role}-{attachment}.
func (r *Role) Attach(ctx context.Context, attachment string, policyARN ir.Value) (ir.Handle, error) {
	return r.scope.DeclareOne(ctx, PlanRoleAttachment(r.name, r.RoleName(), attachment, policyARN, r.opts))
}

// Grant declares a policy {role}-{policyName} from a snapshot of permission
// and attaches it to the role. It returns the policy handle.
func (r *Role) Grant(ctx context.Context, policyName string, permission *Permission) (ir.Handle, error) {
	policy, err := r.scope.DeclareOne(ctx, PlanPolicy(r.name, policyName, permission, r.opts))
	if err != nil {
		return ir.Handle{}, err
	}
	if _, err := r.Attach(ctx, policyName, policy.ARN()); err != nil {
		return ir.Handle{}, err
	}
	return policy, nil
}

// PlanInstanceProfile builds the instance profile for a role.
func PlanInstanceProfile(roleName string, role ir.Value, opts ir.Options) ir.Declaration {
	return ir.Declaration{
		Name:    roleName + "-instance-profile",
		Spec:    ir.InstanceProfileSpec{Role: role},
		Options: opts,
	}
}

// CreateInstanceProfile declares {role}-instance-profile bound to the role
// name. Later calls return the profile declared by the first one.
func (r *Role) CreateInstanceProfile(ctx context.Context) (ir.Handle, error) {
	if r.profile != nil {
		return *r.profile, nil
	}
	h, err := r.scope.DeclareOne(ctx, PlanInstanceProfile(r.name, r.RoleName(), r.opts))
	if err != nil {
		return ir.Handle{}, err
	}
	r.profile = &h
	return h, nil
}

// PlanPolicy builds the managed policy {owner}-{policyName}.
func PlanPolicy(ownerName, policyName string, permission *Permission, opts ir.Options) ir.Declaration {
	if permission == nil {
		permission = &Permission{}
	}
	return ir.Declaration{
		Name:    ownerName + "-" + policyName,
		Spec:    ir.PolicySpec{Policy: permission.Document()},
		Options: opts,
	}
}
