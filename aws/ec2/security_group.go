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

package ec2

import (
	"context"
	"fmt"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// SecurityGroupArgs configures a security group.
type SecurityGroupArgs struct {
	Name        string
	Vpc         *Vpc
	Description string
	Tags        map[string]string
	Options     ir.Options
}

// SecurityGroup is a security group that always allows all egress.
type SecurityGroup struct {
	scope   *engine.Scope
	name    string
	handle  ir.Handle
	opts    ir.Options
	egress  ir.Handle
	ingress []ir.Handle
}

// IngressRule opens one TCP port. Set either CidrBlocks or
// SourceSecurityGroupID; the combination is passed to the engine unchecked.
type IngressRule struct {
	Description           string
	Port                  int
	CidrBlocks            []string
	SourceSecurityGroupID ir.Value
	Options               ir.Options
}

// PlanSecurityGroup builds the group and its default egress rule.
func PlanSecurityGroup(n naming.Context, vpcID ir.Value, args SecurityGroupArgs) []ir.Declaration {
	name := n.Name(args.Name)
	group := ir.Declaration{
		Name: name,
		Spec: ir.SecurityGroupSpec{
			Name:        name,
			Description: args.Description,
			VpcID:       vpcID,
			Tags:        naming.Tags(name, args.Tags),
		},
		Options: args.Options,
	}
	groupHandle := ir.Handle{Type: ir.TypeSecurityGroup, Name: name}
	egress := ir.Declaration{
		Name: name + "-default-outbound-rule",
		Spec: ir.SecurityGroupRuleSpec{
			Type:            ir.RuleEgress,
			SecurityGroupID: groupHandle.ID(),
			Protocol:        "-1",
			FromPort:        0,
			ToPort:          0,
			CidrBlocks:      []string{AnyIPv4},
		},
		Options: args.Options,
	}
	return []ir.Declaration{group, egress}
}

// NewSecurityGroup declares a group in args.Vpc with its egress rule.
func NewSecurityGroup(ctx context.Context, scope *engine.Scope, args SecurityGroupArgs) (*SecurityGroup, error) {
	if args.Vpc == nil {
		return nil, fmt.Errorf("security group %q: vpc is required", args.Name)
	}

	handles, err := scope.Declare(ctx, PlanSecurityGroup(scope.Naming(), args.Vpc.ID(), args)...)
	if err != nil {
		return nil, err
	}
	return &SecurityGroup{
		scope:  scope,
		name:   handles[0].Name,
		handle: handles[0],
		opts:   args.Options,
		egress: handles[1],
	}, nil
}

// Name returns the group's resource name.
func (g *SecurityGroup) Name() string { return g.name }

// Handle returns the declared group.
func (g *SecurityGroup) Handle() ir.Handle { return g.handle }

// ID references the group ID.
func (g *SecurityGroup) ID() ir.Ref { return g.handle.ID() }

// EgressRule returns the default egress rule.
func (g *SecurityGroup) EgressRule() ir.Handle { return g.egress }

// IngressRules returns the ingress rules added so far, in order.
func (g *SecurityGroup) IngressRules() []ir.Handle {
	return append([]ir.Handle(nil), g.ingress...)
}

// PlanIngressRule builds a TCP ingress rule named {group}-{description}-{port}.
func PlanIngressRule(groupName string, groupID ir.Value, rule IngressRule, opts ir.Options) ir.Declaration {
	if !rule.Options.IsZero() {
		opts = rule.Options
	}
	return ir.Declaration{
		Name: fmt.Sprintf("%s-%s-%d", groupName, rule.Description, rule.Port),
		Spec: ir.SecurityGroupRuleSpec{
			Type:                  ir.RuleIngress,
			SecurityGroupID:       groupID,
			Description:           rule.Description,
			Protocol:              "tcp",
			FromPort:              rule.Port,
			ToPort:                rule.Port,
			CidrBlocks:            append([]string(nil), rule.CidrBlocks...),
			SourceSecurityGroupID: rule.SourceSecurityGroupID,
		},
		Options: opts,
	}
}

// AddIngressRule opens rule.Port over TCP.
func (g *SecurityGroup) AddIngressRule(ctx context.Context, rule IngressRule) (ir.Handle, error) {
	if rule.Port < 0 || rule.Port > 65535 {
		return ir.Handle{}, fmt.Errorf("security group %s: port %d out of range", g.name, rule.Port)
	}

	h, err := g.scope.DeclareOne(ctx, PlanIngressRule(g.name, g.ID(), rule, g.opts))
	if err != nil {
		return ir.Handle{}, err
	}
	g.ingress = append(g.ingress, h)
	return h, nil
}
