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

	"github.com/cowdogmoo/resource-adapter/aws/iam"
	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// Launch template defaults.
const (
	DefaultInstanceType   = "t3.nano"
	DefaultRootVolumeSize = 10
	RootDeviceName        = "/dev/sda1"
	ExtraDeviceName       = "/dev/sdf"
	VolumeTypeGP3         = "gp3"
	CPUCreditsStandard    = "standard"
)

// LaunchTemplateArgs configures a launch template.
type LaunchTemplateArgs struct {
	Name  string
	Role  *iam.Role
	Image ir.Image
	// UserData and KeyPair are optional.
	UserData *UserData
	KeyPair  *KeyPair
	// SecurityGroup is optional and independent from the group passed to
	// LaunchInstance.
	SecurityGroup *SecurityGroup
	// InstanceType defaults to t3.nano.
	InstanceType string
	// RootVolumeSize is in GiB and defaults to 10.
	RootVolumeSize int
	// ExtraVolumeSize adds a data volume at /dev/sdf when greater than zero.
	ExtraVolumeSize int
	Tags            map[string]string
	Options         ir.Options
}

// LaunchTemplate is an EC2 launch template bound to a role's instance profile.
type LaunchTemplate struct {
	scope   *engine.Scope
	name    string
	handle  ir.Handle
	opts    ir.Options
	tags    map[string]string
	profile ir.Handle
}

func (a LaunchTemplateArgs) validate() error {
	if a.Role == nil {
		return fmt.Errorf("launch template %q: role is required", a.Name)
	}
	if a.Image.ID == "" {
		return fmt.Errorf("launch template %q: image is required", a.Name)
	}
	if a.RootVolumeSize < 0 || a.ExtraVolumeSize < 0 {
		return fmt.Errorf("launch template %q: volume sizes must not be negative", a.Name)
	}
	return nil
}

// BlockDevices returns the mapping for the given sizes: the root volume is
// deleted with the instance, the extra volume is kept.
func BlockDevices(rootSize, extraSize int) []ir.BlockDevice {
	if rootSize == 0 {
		rootSize = DefaultRootVolumeSize
	}
	devices := []ir.BlockDevice{{
		DeviceName:          RootDeviceName,
		VolumeSize:          rootSize,
		VolumeType:          VolumeTypeGP3,
		DeleteOnTermination: true,
	}}
	if extraSize > 0 {
		devices = append(devices, ir.BlockDevice{
			DeviceName:          ExtraDeviceName,
			VolumeSize:          extraSize,
			VolumeType:          VolumeTypeGP3,
			DeleteOnTermination: false,
		})
	}
	return devices
}

// PlanLaunchTemplate builds the launch template declaration.
func PlanLaunchTemplate(n naming.Context, profileARN ir.Value, args LaunchTemplateArgs) ir.Declaration {
	name := n.Name(args.Name)

	instanceType := args.InstanceType
	if instanceType == "" {
		instanceType = DefaultInstanceType
	}

	spec := ir.LaunchTemplateSpec{
		Name:                  name,
		ImageID:               ir.String(args.Image.ID),
		InstanceType:          instanceType,
		IamInstanceProfileARN: profileARN,
		BlockDevices:          BlockDevices(args.RootVolumeSize, args.ExtraVolumeSize),
		CPUCredits:            CPUCreditsStandard,
		UpdateDefaultVersion:  true,
		TagSpecifications: []ir.TagSpecification{
			{ResourceType: "instance", Tags: map[string]string{naming.NameTag: name}},
			{ResourceType: "volume", Tags: map[string]string{naming.NameTag: name}},
		},
		Tags: args.Tags,
	}
	if args.UserData != nil {
		spec.UserData = ir.String(args.UserData.B64Encode())
	}
	if args.KeyPair != nil {
		spec.KeyName = args.KeyPair.KeyName()
	}
	if args.SecurityGroup != nil {
		spec.VpcSecurityGroupIDs = []ir.Value{args.SecurityGroup.ID()}
	}

	return ir.Declaration{Name: name, Spec: spec, Options: args.Options}
}

// NewLaunchTemplate declares the role's instance profile (once per role) and
// the launch template using it.
func NewLaunchTemplate(ctx context.Context, scope *engine.Scope, args LaunchTemplateArgs) (*LaunchTemplate, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}

	profile, err := args.Role.CreateInstanceProfile(ctx)
	if err != nil {
		return nil, err
	}

	decl := PlanLaunchTemplate(scope.Naming(), profile.ARN(), args)
	h, err := scope.DeclareOne(ctx, decl)
	if err != nil {
		return nil, err
	}
	return &LaunchTemplate{
		scope:   scope,
		name:    decl.Name,
		handle:  h,
		opts:    args.Options,
		tags:    args.Tags,
		profile: profile,
	}, nil
}

// Name returns the template's resource name.
func (t *LaunchTemplate) Name() string { return t.name }

// Handle returns the declared template.
func (t *LaunchTemplate) Handle() ir.Handle { return t.handle }

// ID references the template ID.
func (t *LaunchTemplate) ID() ir.Ref { return t.handle.ID() }

// InstanceProfile returns the instance profile the template uses.
func (t *LaunchTemplate) InstanceProfile() ir.Handle { return t.profile }

// SSHCommand formats the connection hint for an instance's public DNS name.
func SSHCommand(publicDNS ir.Value) ir.Format {
	return ir.Formatf("ssh -i private.key ubuntu@%s", publicDNS)
}

// PlanInstance builds an instance launched from the template into subnet
// with securityGroup attached. The instance is tagged like the template.
func PlanInstance(templateName string, templateID, subnetID, securityGroupID ir.Value, tags map[string]string, opts ir.Options) ir.Declaration {
	return ir.Declaration{
		Name: templateName,
		Spec: ir.InstanceSpec{
			LaunchTemplateID:    templateID,
			SubnetID:            subnetID,
			VpcSecurityGroupIDs: []ir.Value{securityGroupID},
			Tags:                naming.Tags(templateName, tags),
		},
		Options: opts,
	}
}

// LaunchInstance declares an instance from the template and exports its SSH
// command under the template's resource name.
func (t *LaunchTemplate) LaunchInstance(ctx context.Context, subnet *Subnet, securityGroup *SecurityGroup) (ir.Handle, error) {
	if subnet == nil || securityGroup == nil {
		return ir.Handle{}, fmt.Errorf("launch instance %s: subnet and security group are required", t.name)
	}

	h, err := t.scope.DeclareOne(ctx, PlanInstance(t.name, t.ID(), subnet.ID(), securityGroup.ID(), t.tags, t.opts))
	if err != nil {
		return ir.Handle{}, err
	}
	if err := t.scope.Export(ctx, t.name, SSHCommand(h.Attr(ir.AttrPublicDNS))); err != nil {
		return ir.Handle{}, err
	}
	return h, nil
}
