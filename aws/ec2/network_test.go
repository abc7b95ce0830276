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
	"testing"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/engine/recorder"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScope(t *testing.T) (*engine.Scope, *recorder.Recorder) {
	t.Helper()
	rec := recorder.New()
	scope, err := engine.NewScope(rec, naming.MustNew("acme", "dev"))
	require.NoError(t, err)
	return scope, rec
}

func newVpc(t *testing.T, scope *engine.Scope) *Vpc {
	t.Helper()
	vpc, err := NewVpc(context.Background(), scope, VpcArgs{})
	require.NoError(t, err)
	return vpc
}

func TestNewVpc(t *testing.T) {
	t.Parallel()

	scope, rec := newScope(t)
	vpc := newVpc(t, scope)

	assert.Equal(t, "acme-dev", vpc.Name())
	res, ok := rec.Resource(ir.TypeVpc, "acme-dev")
	require.True(t, ok)
	spec := res.Properties.(ir.VpcSpec)
	assert.Equal(t, "10.0.0.0/16", spec.CidrBlock)
	assert.True(t, spec.EnableDNSHostnames)
	assert.Equal(t, map[string]string{"Name": "acme-dev"}, spec.Tags)

	named, err := NewVpc(context.Background(), scope, VpcArgs{Name: "edge", Tags: map[string]string{"tier": "edge"}})
	require.NoError(t, err)
	edge, _ := rec.Resource(ir.TypeVpc, named.Name())
	assert.Equal(t, map[string]string{"tier": "edge"}, edge.Properties.(ir.VpcSpec).Tags)
}

func TestCreateInternetGateway(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, rec := newScope(t)
	vpc := newVpc(t, scope)

	_, ok := vpc.InternetGateway()
	assert.False(t, ok)

	gw, err := vpc.CreateInternetGateway(ctx)
	require.NoError(t, err)
	assert.Equal(t, ir.Handle{Type: ir.TypeInternetGateway, Name: "acme-dev"}, gw)

	igw, ok := rec.Resource(ir.TypeInternetGateway, "acme-dev")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"Name": "acme-dev"}, igw.Properties.(ir.InternetGatewaySpec).Tags)

	route, ok := rec.Resource(ir.TypeRoute, "acme-dev-default-route")
	require.True(t, ok)
	spec := route.Properties.(ir.RouteSpec)
	assert.Equal(t, "0.0.0.0/0", spec.DestinationCidrBlock)
	assert.Equal(t, vpc.MainRouteTableID(), spec.RouteTableID)
	assert.Equal(t, gw.ID(), spec.GatewayID)

	got, ok := vpc.InternetGateway()
	require.True(t, ok)
	assert.Equal(t, gw, got)

	_, err = vpc.CreateInternetGateway(ctx)
	assert.ErrorIs(t, err, recorder.ErrDuplicateResource, "a second gateway collides on name")
}

func TestInternetGatewayTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args VpcArgs
		want map[string]string
	}{
		{name: "default", want: map[string]string{"Name": "acme-dev"}},
		{name: "named", args: VpcArgs{Name: "core"}, want: map[string]string{"Name": "acme-dev-core"}},
		{
			name: "custom tags",
			args: VpcArgs{Tags: map[string]string{"env": "lab"}},
			want: map[string]string{"env": "lab"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			scope, rec := newScope(t)
			vpc, err := NewVpc(context.Background(), scope, tc.args)
			require.NoError(t, err)
			gw, err := vpc.CreateInternetGateway(context.Background())
			require.NoError(t, err)

			res, ok := rec.Resource(ir.TypeInternetGateway, gw.Name)
			require.True(t, ok)
			assert.Equal(t, tc.want, res.Properties.(ir.InternetGatewaySpec).Tags)
		})
	}
}

func TestNewSubnet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, rec := newScope(t)
	vpc := newVpc(t, scope)

	private := false
	subnet, err := NewSubnet(ctx, scope, SubnetArgs{
		Name:                "private",
		Vpc:                 vpc,
		AvailabilityZone:    "us-east-1a",
		CidrBlock:           "10.0.10.0/24",
		MapPublicIPOnLaunch: &private,
	})
	require.NoError(t, err)
	assert.Equal(t, "acme-dev-private-us-east-1a", subnet.Name())
	assert.Equal(t, "us-east-1a", subnet.AvailabilityZone())
	assert.Equal(t, "10.0.10.0/24", subnet.CidrBlock())
	assert.Equal(t, "acme-dev-private-us-east-1a-default-route-table", subnet.Association().Name)

	res, _ := rec.Resource(ir.TypeSubnet, subnet.Name())
	spec := res.Properties.(ir.SubnetSpec)
	assert.False(t, spec.MapPublicIPOnLaunch)
	assert.Equal(t, vpc.ID(), spec.VpcID)
	assert.Equal(t, "acme-dev-private-us-east-1a", spec.Tags["Name"])

	assoc, _ := rec.Resource(ir.TypeRouteTableAssociation, subnet.Association().Name)
	assert.Equal(t, vpc.MainRouteTableID(), assoc.Properties.(ir.RouteTableAssociationSpec).RouteTableID)
	assert.Equal(t, subnet.ID(), assoc.Properties.(ir.RouteTableAssociationSpec).SubnetID)

	_, err = NewSubnet(ctx, scope, SubnetArgs{Name: "orphan"})
	require.Error(t, err)
}

func TestSubnetDefaultsToPublic(t *testing.T) {
	t.Parallel()

	decls := PlanSubnet(naming.MustNew("acme", "dev"), ir.String("vpc-1"), ir.String("rtb-1"), SubnetArgs{Name: "public", AvailabilityZone: "a"})
	require.Len(t, decls, 2)
	assert.True(t, decls[0].Spec.(ir.SubnetSpec).MapPublicIPOnLaunch)
}

func TestBulkCreateSubnets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, _ := newScope(t)
	vpc := newVpc(t, scope)

	subnets, err := BulkCreateSubnets(ctx, scope, BulkSubnetArgs{
		Name:              "public",
		Vpc:               vpc,
		AvailabilityZones: []string{"a", "b", "c"},
		CidrIndex:         0,
	})
	require.NoError(t, err)
	require.Len(t, subnets, 3)

	var cidrs, names []string
	for _, s := range subnets {
		cidrs = append(cidrs, s.CidrBlock())
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"10.0.0.0/24", "10.0.1.0/24", "10.0.2.0/24"}, cidrs)
	assert.Equal(t, []string{"acme-dev-public-a", "acme-dev-public-b", "acme-dev-public-c"}, names)
}

func TestBulkCIDRs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		index   int
		count   int
		want    []string
		wantErr bool
	}{
		{name: "offset index", index: 10, count: 2, want: []string{"10.0.10.0/24", "10.0.11.0/24"}},
		{name: "last octet", index: 255, count: 1, want: []string{"10.0.255.0/24"}},
		{name: "no zones", index: 3, count: 0, want: []string{}},
		{name: "overflows octet", index: 254, count: 3, wantErr: true},
		{name: "negative index", index: -1, count: 1, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := BulkCIDRs(tc.index, tc.count)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrCIDRRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBulkCreateSubnetsOverflowDeclaresNothing(t *testing.T) {
	t.Parallel()

	scope, rec := newScope(t)
	vpc := newVpc(t, scope)

	_, err := BulkCreateSubnets(context.Background(), scope, BulkSubnetArgs{
		Name: "public", Vpc: vpc, AvailabilityZones: []string{"a", "b"}, CidrIndex: 255,
	})
	require.ErrorIs(t, err, ErrCIDRRange)
	assert.Equal(t, 1, rec.Len(), "only the vpc was declared")
}

func TestSecurityGroupDefaultEgress(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, rec := newScope(t)
	vpc := newVpc(t, scope)

	sg, err := NewSecurityGroup(ctx, scope, SecurityGroupArgs{Name: "web", Vpc: vpc})
	require.NoError(t, err)
	assert.Equal(t, "acme-dev-web", sg.Name())
	assert.Empty(t, sg.IngressRules())

	rules := rec.ByType(ir.TypeSecurityGroupRule)
	require.Len(t, rules, 1)
	assert.Equal(t, "acme-dev-web-default-outbound-rule", rules[0].Name)
	assert.Equal(t, sg.EgressRule().Name, rules[0].Name)

	egress := rules[0].Properties.(ir.SecurityGroupRuleSpec)
	assert.Equal(t, ir.RuleEgress, egress.Type)
	assert.Equal(t, "-1", egress.Protocol)
	assert.Equal(t, 0, egress.FromPort)
	assert.Equal(t, 0, egress.ToPort)
	assert.Equal(t, []string{"0.0.0.0/0"}, egress.CidrBlocks)
	assert.Equal(t, sg.ID(), egress.SecurityGroupID)

	group, _ := rec.Resource(ir.TypeSecurityGroup, "acme-dev-web")
	assert.Equal(t, "acme-dev-web", group.Properties.(ir.SecurityGroupSpec).Name)
	assert.Equal(t, map[string]string{"Name": "acme-dev-web"}, group.Properties.(ir.SecurityGroupSpec).Tags)
}

func TestAddIngressRule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, rec := newScope(t)
	vpc := newVpc(t, scope)

	web, err := NewSecurityGroup(ctx, scope, SecurityGroupArgs{Name: "web", Vpc: vpc})
	require.NoError(t, err)
	lb, err := NewSecurityGroup(ctx, scope, SecurityGroupArgs{Name: "lb", Vpc: vpc})
	require.NoError(t, err)

	ssh, err := web.AddIngressRule(ctx, IngressRule{Description: "ssh", Port: 22, CidrBlocks: []string{"203.0.113.0/24"}})
	require.NoError(t, err)
	assert.Equal(t, "acme-dev-web-ssh-22", ssh.Name)

	_, err = web.AddIngressRule(ctx, IngressRule{Description: "http", Port: 80, SourceSecurityGroupID: lb.ID()})
	require.NoError(t, err)
	assert.Len(t, web.IngressRules(), 2)

	res, _ := rec.Resource(ir.TypeSecurityGroupRule, "acme-dev-web-http-80")
	spec := res.Properties.(ir.SecurityGroupRuleSpec)
	assert.Equal(t, ir.RuleIngress, spec.Type)
	assert.Equal(t, "tcp", spec.Protocol)
	assert.Equal(t, 80, spec.FromPort)
	assert.Equal(t, 80, spec.ToPort)
	assert.Equal(t, lb.ID(), spec.SourceSecurityGroupID)
	assert.Empty(t, spec.CidrBlocks)

	_, err = web.AddIngressRule(ctx, IngressRule{Description: "ssh", Port: 22})
	assert.ErrorIs(t, err, recorder.ErrDuplicateResource)

	_, err = web.AddIngressRule(ctx, IngressRule{Description: "bad", Port: 70000})
	require.Error(t, err)
}
