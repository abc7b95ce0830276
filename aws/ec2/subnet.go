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
	"errors"
	"fmt"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// ErrCIDRRange is returned when a bulk subnet index falls outside the VPC's third octet.
var ErrCIDRRange = errors.New("subnet index out of range")

// SubnetArgs configures one subnet.
type SubnetArgs struct {
	// Name is the logical name; the subnet is declared as
	// {project}-{stack}-{Name}-{AvailabilityZone}.
	Name             string
	Vpc              *Vpc
	AvailabilityZone string
	CidrBlock        string
	// MapPublicIPOnLaunch defaults to true when nil.
	MapPublicIPOnLaunch *bool
	Tags                map[string]string
	Options             ir.Options
}

// Subnet is a subnet associated with its VPC's main route table.
type Subnet struct {
	name        string
	handle      ir.Handle
	association ir.Handle
	zone        string
	cidr        string
}

// PlanSubnet builds the subnet and its route-table association.
func PlanSubnet(n naming.Context, vpcID, mainRouteTable ir.Value, args SubnetArgs) []ir.Declaration {
	name := n.Name(fmt.Sprintf("%s-%s", args.Name, args.AvailabilityZone))

	public := true
	if args.MapPublicIPOnLaunch != nil {
		public = *args.MapPublicIPOnLaunch
	}

	subnet := ir.Declaration{
		Name: name,
		Spec: ir.SubnetSpec{
			VpcID:               vpcID,
			AvailabilityZone:    args.AvailabilityZone,
			CidrBlock:           args.CidrBlock,
			MapPublicIPOnLaunch: public,
			Tags:                naming.Tags(name, args.Tags),
		},
		Options: args.Options,
	}
	subnetHandle := ir.Handle{Type: ir.TypeSubnet, Name: name}
	association := ir.Declaration{
		Name: name + "-default-route-table",
		Spec: ir.RouteTableAssociationSpec{
			SubnetID:     subnetHandle.ID(),
			RouteTableID: mainRouteTable,
		},
		Options: args.Options,
	}
	return []ir.Declaration{subnet, association}
}

// NewSubnet declares a subnet in args.Vpc and associates it with the VPC's
// main route table.
func NewSubnet(ctx context.Context, scope *engine.Scope, args SubnetArgs) (*Subnet, error) {
	if args.Vpc == nil {
		return nil, fmt.Errorf("subnet %q: vpc is required", args.Name)
	}

	handles, err := scope.Declare(ctx, PlanSubnet(scope.Naming(), args.Vpc.ID(), args.Vpc.MainRouteTableID(), args)...)
	if err != nil {
		return nil, err
	}
	return &Subnet{
		name:        handles[0].Name,
		handle:      handles[0],
		association: handles[1],
		zone:        args.AvailabilityZone,
		cidr:        args.CidrBlock,
	}, nil
}

// Name returns the subnet's resource name.
func (s *Subnet) Name() string { return s.name }

// Handle returns the declared subnet.
func (s *Subnet) Handle() ir.Handle { return s.handle }

// Association returns the declared route-table association.
func (s *Subnet) Association() ir.Handle { return s.association }

// ID references the subnet ID.
func (s *Subnet) ID() ir.Ref { return s.handle.ID() }

// AvailabilityZone returns the subnet's zone.
func (s *Subnet) AvailabilityZone() string { return s.zone }

// CidrBlock returns the subnet's address range.
func (s *Subnet) CidrBlock() string { return s.cidr }

// BulkSubnetArgs configures one subnet per availability zone.
type BulkSubnetArgs struct {
	Name              string
	Vpc               *Vpc
	AvailabilityZones []string
	// CidrIndex is the third octet of the first zone's 10.0.X.0/24 range.
	CidrIndex           int
	MapPublicIPOnLaunch *bool
	Tags                map[string]string
	Options             ir.Options
}

// SubnetCIDR returns 10.0.{index}.0/24.
func SubnetCIDR(index int) (string, error) {
	if index < 0 || index > 255 {
		return "", fmt.Errorf("%w: %d is not within 0..255", ErrCIDRRange, index)
	}
	return fmt.Sprintf("10.0.%d.0/24", index), nil
}

// BulkCIDRs returns the ranges BulkCreateSubnets assigns to count zones.
func BulkCIDRs(cidrIndex, count int) ([]string, error) {
	cidrs := make([]string, 0, count)
	for offset := 0; offset < count; offset++ {
		cidr, err := SubnetCIDR(cidrIndex + offset)
		if err != nil {
			return nil, err
		}
		cidrs = append(cidrs, cidr)
	}
	return cidrs, nil
}

// BulkCreateSubnets declares one subnet per zone, in zone order, with ranges
// 10.0.{CidrIndex+offset}.0/24. Ranges are not checked against other calls.
func BulkCreateSubnets(ctx context.Context, scope *engine.Scope, args BulkSubnetArgs) ([]*Subnet, error) {
	cidrs, err := BulkCIDRs(args.CidrIndex, len(args.AvailabilityZones))
	if err != nil {
		return nil, err
	}

	subnets := make([]*Subnet, 0, len(args.AvailabilityZones))
	for i, zone := range args.AvailabilityZones {
		subnet, err := NewSubnet(ctx, scope, SubnetArgs{
			Name:                args.Name,
			Vpc:                 args.Vpc,
			AvailabilityZone:    zone,
			CidrBlock:           cidrs[i],
			MapPublicIPOnLaunch: args.MapPublicIPOnLaunch,
			Tags:                args.Tags,
			Options:             args.Options,
		})
		if err != nil {
			return subnets, err
		}
		subnets = append(subnets, subnet)
	}
	return subnets, nil
}
