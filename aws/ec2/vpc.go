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

// Package ec2 provides the network and compute components: VPCs, subnets,
// security groups, key pairs, user data and launch templates.
package ec2

import (
	"context"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

const (
	// VpcCidrBlock is the address space of every VPC.
	VpcCidrBlock = "10.0.0.0/16"
	// AnyIPv4 matches every IPv4 address.
	AnyIPv4 = "0.0.0.0/0"
)

// VpcArgs configures a VPC.
type VpcArgs struct {
	// Name is the logical name; empty yields a VPC named {project}-{stack}.
	Name    string
	Tags    map[string]string
	Options ir.Options
}

// Vpc is a VPC whose main route table is owned by the engine.
type Vpc struct {
	scope   *engine.Scope
	name    string
	handle  ir.Handle
	opts    ir.Options
	tags    map[string]string
	gateway *ir.Handle
}

// PlanVpc builds the VPC declaration without declaring it.
func PlanVpc(n naming.Context, args VpcArgs) ir.Declaration {
	name := n.Name(args.Name)
	return ir.Declaration{
		Name: name,
		Spec: ir.VpcSpec{
			CidrBlock:          VpcCidrBlock,
			EnableDNSHostnames: true,
			EnableDNSSupport:   true,
			Tags:               naming.Tags(name, args.Tags),
		},
		Options: args.Options,
	}
}

// NewVpc declares a VPC.
func NewVpc(ctx context.Context, scope *engine.Scope, args VpcArgs) (*Vpc, error) {
	decl := PlanVpc(scope.Naming(), args)
	h, err := scope.DeclareOne(ctx, decl)
	if err != nil {
		return nil, err
	}
	return &Vpc{
		scope:  scope,
		name:   decl.Name,
		handle: h,
		opts:   args.Options,
		tags:   decl.Spec.(ir.VpcSpec).Tags,
	}, nil
}

// Name returns the VPC's resource name.
func (v *Vpc) Name() string { return v.name }

// Handle returns the declared VPC.
func (v *Vpc) Handle() ir.Handle { return v.handle }

// ID references the VPC ID.
func (v *Vpc) ID() ir.Ref { return v.handle.ID() }

// MainRouteTableID references the route table the engine created with the VPC.
func (v *Vpc) MainRouteTableID() ir.Ref { return v.handle.Attr(ir.AttrMainRouteTableID) }

// InternetGateway returns the gateway handle once CreateInternetGateway succeeded.
func (v *Vpc) InternetGateway() (ir.Handle, bool) {
	if v.gateway == nil {
		return ir.Handle{}, false
	}
	return *v.gateway, true
}

// PlanInternetGateway builds the gateway and its default route. The gateway
// carries the VPC's tags.
func PlanInternetGateway(vpcName string, vpcID, mainRouteTable ir.Value, tags map[string]string, opts ir.Options) []ir.Declaration {
	gw := ir.Declaration{
		Name:    vpcName,
		Spec:    ir.InternetGatewaySpec{VpcID: vpcID, Tags: tags},
		Options: opts,
	}
	gwHandle := ir.Handle{Type: ir.TypeInternetGateway, Name: vpcName}
	route := ir.Declaration{
		Name: vpcName + "-default-route",
		Spec: ir.RouteSpec{
			RouteTableID:         mainRouteTable,
			DestinationCidrBlock: AnyIPv4,
			GatewayID:            gwHandle.ID(),
		},
		Options: opts,
	}
	return []ir.Declaration{gw, route}
}

// CreateInternetGateway attaches a gateway named like the VPC and routes
// 0.0.0.0/0 through it from the main route table. Calling it twice makes the
// engine report a name collision.
func (v *Vpc) CreateInternetGateway(ctx context.Context) (ir.Handle, error) {
	handles, err := v.scope.Declare(ctx, PlanInternetGateway(v.name, v.ID(), v.MainRouteTableID(), v.tags, v.opts)...)
	if len(handles) > 0 && v.gateway == nil {
		v.gateway = &handles[0]
	}
	if err != nil {
		return ir.Handle{}, err
	}
	return handles[0], nil
}
