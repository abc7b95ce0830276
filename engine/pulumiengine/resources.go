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

package pulumiengine

import (
	"fmt"
	"strconv"

	"github.com/opencontainers/go-digest"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ecr"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/s3"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/cowdogmoo/resource-adapter/ir"
)

// register creates the pulumi-aws resource for spec. It expects e.mu to be held.
func (e *Engine) register(name string, spec ir.Spec, opts []pulumi.ResourceOption) (*declared, error) {
	switch s := spec.(type) {
	case ir.VpcSpec:
		return e.vpc(name, s, opts)
	case ir.InternetGatewaySpec:
		return e.internetGateway(name, s, opts)
	case ir.RouteSpec:
		return e.route(name, s, opts)
	case ir.SubnetSpec:
		return e.subnet(name, s, opts)
	case ir.RouteTableAssociationSpec:
		return e.routeTableAssociation(name, s, opts)
	case ir.SecurityGroupSpec:
		return e.securityGroup(name, s, opts)
	case ir.SecurityGroupRuleSpec:
		return e.securityGroupRule(name, s, opts)
	case ir.KeyPairSpec:
		return e.keyPair(name, s, opts)
	case ir.LaunchTemplateSpec:
		return e.launchTemplate(name, s, opts)
	case ir.InstanceSpec:
		return e.instance(name, s, opts)
	case ir.RoleSpec:
		return e.role(name, s, opts)
	case ir.PolicySpec:
		return e.policy(name, s, opts)
	case ir.RolePolicyAttachmentSpec:
		return e.rolePolicyAttachment(name, s, opts)
	case ir.GroupSpec:
		return e.group(name, s, opts)
	case ir.GroupPolicyAttachmentSpec:
		return e.groupPolicyAttachment(name, s, opts)
	case ir.InstanceProfileSpec:
		return e.instanceProfile(name, s, opts)
	case ir.RepositorySpec:
		return e.repository(name, s, opts)
	case ir.BucketSpec:
		return e.bucket(name, s, opts)
	case ir.BucketObjectSpec:
		return e.bucketObject(name, s, opts)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSpec, spec)
	}
}

func (e *Engine) vpc(name string, s ir.VpcSpec, opts []pulumi.ResourceOption) (*declared, error) {
	res, err := ec2.NewVpc(e.ctx, name, &ec2.VpcArgs{
		CidrBlock:          pulumi.String(s.CidrBlock),
		EnableDnsHostnames: pulumi.Bool(s.EnableDNSHostnames),
		EnableDnsSupport:   pulumi.Bool(s.EnableDNSSupport),
		Tags:               tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:              res.Arn,
		ir.AttrMainRouteTableID: res.MainRouteTableId,
	}}, nil
}

func (e *Engine) internetGateway(name string, s ir.InternetGatewaySpec, opts []pulumi.ResourceOption) (*declared, error) {
	vpcID, err := e.optional(s.VpcID)
	if err != nil {
		return nil, err
	}
	res, err := ec2.NewInternetGateway(e.ctx, name, &ec2.InternetGatewayArgs{
		VpcId: vpcID,
		Tags:  tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{ir.AttrARN: res.Arn}}, nil
}

func (e *Engine) route(name string, s ir.RouteSpec, opts []pulumi.ResourceOption) (*declared, error) {
	table, err := e.output(s.RouteTableID)
	if err != nil {
		return nil, err
	}
	gateway, err := e.optional(s.GatewayID)
	if err != nil {
		return nil, err
	}
	res, err := ec2.NewRoute(e.ctx, name, &ec2.RouteArgs{
		RouteTableId:         table,
		DestinationCidrBlock: stringPtr(s.DestinationCidrBlock),
		GatewayId:            gateway,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res}, nil
}

func (e *Engine) subnet(name string, s ir.SubnetSpec, opts []pulumi.ResourceOption) (*declared, error) {
	vpcID, err := e.output(s.VpcID)
	if err != nil {
		return nil, err
	}
	res, err := ec2.NewSubnet(e.ctx, name, &ec2.SubnetArgs{
		VpcId:               vpcID,
		AvailabilityZone:    stringPtr(s.AvailabilityZone),
		CidrBlock:           stringPtr(s.CidrBlock),
		MapPublicIpOnLaunch: pulumi.Bool(s.MapPublicIPOnLaunch),
		Tags:                tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{ir.AttrARN: res.Arn}}, nil
}

func (e *Engine) routeTableAssociation(name string, s ir.RouteTableAssociationSpec, opts []pulumi.ResourceOption) (*declared, error) {
	subnetID, err := e.optional(s.SubnetID)
	if err != nil {
		return nil, err
	}
	table, err := e.output(s.RouteTableID)
	if err != nil {
		return nil, err
	}
	res, err := ec2.NewRouteTableAssociation(e.ctx, name, &ec2.RouteTableAssociationArgs{
		SubnetId:     subnetID,
		RouteTableId: table,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res}, nil
}

func (e *Engine) securityGroup(name string, s ir.SecurityGroupSpec, opts []pulumi.ResourceOption) (*declared, error) {
	vpcID, err := e.optional(s.VpcID)
	if err != nil {
		return nil, err
	}
	res, err := ec2.NewSecurityGroup(e.ctx, name, &ec2.SecurityGroupArgs{
		Name:        stringPtr(s.Name),
		Description: stringPtr(s.Description),
		VpcId:       vpcID,
		Tags:        tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:  res.Arn,
		ir.AttrName: res.Name,
	}}, nil
}

func (e *Engine) securityGroupRule(name string, s ir.SecurityGroupRuleSpec, opts []pulumi.ResourceOption) (*declared, error) {
	group, err := e.output(s.SecurityGroupID)
	if err != nil {
		return nil, err
	}
	source, err := e.optional(s.SourceSecurityGroupID)
	if err != nil {
		return nil, err
	}
	args := &ec2.SecurityGroupRuleArgs{
		Type:                  pulumi.String(s.Type),
		SecurityGroupId:       group,
		Description:           stringPtr(s.Description),
		Protocol:              pulumi.String(s.Protocol),
		FromPort:              pulumi.Int(s.FromPort),
		ToPort:                pulumi.Int(s.ToPort),
		SourceSecurityGroupId: source,
	}
	if len(s.CidrBlocks) > 0 {
		args.CidrBlocks = pulumi.ToStringArray(s.CidrBlocks)
	}
	res, err := ec2.NewSecurityGroupRule(e.ctx, name, args, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res}, nil
}

func (e *Engine) keyPair(name string, s ir.KeyPairSpec, opts []pulumi.ResourceOption) (*declared, error) {
	res, err := ec2.NewKeyPair(e.ctx, name, &ec2.KeyPairArgs{
		KeyName:   stringPtr(s.KeyName),
		PublicKey: pulumi.String(s.PublicKey),
		Tags:      tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:     res.Arn,
		ir.AttrKeyName: res.KeyName,
	}}, nil
}

func (e *Engine) launchTemplate(name string, s ir.LaunchTemplateSpec, opts []pulumi.ResourceOption) (*declared, error) {
	imageID, err := e.optional(s.ImageID)
	if err != nil {
		return nil, err
	}
	keyName, err := e.optional(s.KeyName)
	if err != nil {
		return nil, err
	}
	userData, err := e.optional(s.UserData)
	if err != nil {
		return nil, err
	}
	groups, err := e.array(s.VpcSecurityGroupIDs)
	if err != nil {
		return nil, err
	}

	args := &ec2.LaunchTemplateArgs{
		Name:                 stringPtr(s.Name),
		ImageId:              imageID,
		InstanceType:         stringPtr(s.InstanceType),
		KeyName:              keyName,
		UserData:             userData,
		UpdateDefaultVersion: pulumi.Bool(s.UpdateDefaultVersion),
		Tags:                 tags(s.Tags),
	}
	if groups != nil {
		args.VpcSecurityGroupIds = groups
	}
	if s.IamInstanceProfileARN != nil {
		profile, err := e.output(s.IamInstanceProfileARN)
		if err != nil {
			return nil, err
		}
		args.IamInstanceProfile = &ec2.LaunchTemplateIamInstanceProfileArgs{Arn: profile}
	}
	if s.CPUCredits != "" {
		args.CreditSpecification = &ec2.LaunchTemplateCreditSpecificationArgs{CpuCredits: pulumi.String(s.CPUCredits)}
	}

	devices := make(ec2.LaunchTemplateBlockDeviceMappingArray, 0, len(s.BlockDevices))
	for _, d := range s.BlockDevices {
		devices = append(devices, ec2.LaunchTemplateBlockDeviceMappingArgs{
			DeviceName: pulumi.String(d.DeviceName),
			Ebs: &ec2.LaunchTemplateBlockDeviceMappingEbsArgs{
				VolumeSize:          pulumi.Int(d.VolumeSize),
				VolumeType:          pulumi.String(d.VolumeType),
				DeleteOnTermination: pulumi.String(strconv.FormatBool(d.DeleteOnTermination)),
			},
		})
	}
	if len(devices) > 0 {
		args.BlockDeviceMappings = devices
	}

	specs := make(ec2.LaunchTemplateTagSpecificationArray, 0, len(s.TagSpecifications))
	for _, ts := range s.TagSpecifications {
		specs = append(specs, ec2.LaunchTemplateTagSpecificationArgs{
			ResourceType: pulumi.String(ts.ResourceType),
			Tags:         tags(ts.Tags),
		})
	}
	if len(specs) > 0 {
		args.TagSpecifications = specs
	}

	res, err := ec2.NewLaunchTemplate(e.ctx, name, args, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:  res.Arn,
		ir.AttrName: res.Name,
		ir.AttrLatestVersion: res.LatestVersion.ApplyT(func(v int) string {
			return strconv.Itoa(v)
		}).(pulumi.StringOutput),
	}}, nil
}

func (e *Engine) instance(name string, s ir.InstanceSpec, opts []pulumi.ResourceOption) (*declared, error) {
	template, err := e.output(s.LaunchTemplateID)
	if err != nil {
		return nil, err
	}
	subnetID, err := e.optional(s.SubnetID)
	if err != nil {
		return nil, err
	}
	groups, err := e.array(s.VpcSecurityGroupIDs)
	if err != nil {
		return nil, err
	}
	args := &ec2.InstanceArgs{
		LaunchTemplate: &ec2.InstanceLaunchTemplateArgs{Id: template},
		SubnetId:       subnetID,
		Tags:           tags(s.Tags),
	}
	if groups != nil {
		args.VpcSecurityGroupIds = groups
	}
	res, err := ec2.NewInstance(e.ctx, name, args, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:       res.Arn,
		ir.AttrPublicDNS: res.PublicDns,
		ir.AttrPublicIP:  res.PublicIp,
	}}, nil
}

func (e *Engine) role(name string, s ir.RoleSpec, opts []pulumi.ResourceOption) (*declared, error) {
	trust, err := e.output(s.AssumeRolePolicy)
	if err != nil {
		return nil, err
	}
	res, err := iam.NewRole(e.ctx, name, &iam.RoleArgs{
		AssumeRolePolicy: trust,
		Tags:             tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:  res.Arn,
		ir.AttrName: res.Name,
	}}, nil
}

func (e *Engine) policy(name string, s ir.PolicySpec, opts []pulumi.ResourceOption) (*declared, error) {
	doc, err := e.output(s.Policy)
	if err != nil {
		return nil, err
	}
	res, err := iam.NewPolicy(e.ctx, name, &iam.PolicyArgs{
		Policy: doc,
		Tags:   tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:  res.Arn,
		ir.AttrName: res.Name,
	}}, nil
}

func (e *Engine) rolePolicyAttachment(name string, s ir.RolePolicyAttachmentSpec, opts []pulumi.ResourceOption) (*declared, error) {
	role, err := e.output(s.Role)
	if err != nil {
		return nil, err
	}
	policyARN, err := e.output(s.PolicyARN)
	if err != nil {
		return nil, err
	}
	res, err := iam.NewRolePolicyAttachment(e.ctx, name, &iam.RolePolicyAttachmentArgs{
		Role:      role,
		PolicyArn: policyARN,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res}, nil
}

func (e *Engine) group(name string, s ir.GroupSpec, opts []pulumi.ResourceOption) (*declared, error) {
	res, err := iam.NewGroup(e.ctx, name, &iam.GroupArgs{
		Path: stringPtr(s.Path),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:  res.Arn,
		ir.AttrName: res.Name,
	}}, nil
}

func (e *Engine) groupPolicyAttachment(name string, s ir.GroupPolicyAttachmentSpec, opts []pulumi.ResourceOption) (*declared, error) {
	group, err := e.output(s.Group)
	if err != nil {
		return nil, err
	}
	policyARN, err := e.output(s.PolicyARN)
	if err != nil {
		return nil, err
	}
	res, err := iam.NewGroupPolicyAttachment(e.ctx, name, &iam.GroupPolicyAttachmentArgs{
		Group:     group,
		PolicyArn: policyARN,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res}, nil
}

func (e *Engine) instanceProfile(name string, s ir.InstanceProfileSpec, opts []pulumi.ResourceOption) (*declared, error) {
	role, err := e.output(s.Role)
	if err != nil {
		return nil, err
	}
	res, err := iam.NewInstanceProfile(e.ctx, name, &iam.InstanceProfileArgs{
		Role: role,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:  res.Arn,
		ir.AttrName: res.Name,
	}}, nil
}

func (e *Engine) repository(name string, s ir.RepositorySpec, opts []pulumi.ResourceOption) (*declared, error) {
	res, err := ecr.NewRepository(e.ctx, name, &ecr.RepositoryArgs{
		Name:               stringPtr(s.Name),
		ImageTagMutability: stringPtr(s.ImageTagMutability),
		Tags:               tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:           res.Arn,
		ir.AttrName:          res.Name,
		ir.AttrRepositoryURL: res.RepositoryUrl,
	}}, nil
}

func (e *Engine) bucket(name string, s ir.BucketSpec, opts []pulumi.ResourceOption) (*declared, error) {
	res, err := s3.NewBucketV2(e.ctx, name, &s3.BucketV2Args{
		Bucket: stringPtr(s.Bucket),
		Tags:   tags(s.Tags),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrARN:    res.Arn,
		ir.AttrBucket: res.Bucket,
	}}, nil
}

func (e *Engine) bucketObject(name string, s ir.BucketObjectSpec, opts []pulumi.ResourceOption) (*declared, error) {
	bucket, err := e.output(s.Bucket)
	if err != nil {
		return nil, err
	}
	args := &s3.BucketObjectv2Args{
		Bucket: bucket,
		Key:    stringPtr(s.Key),
		Source: pulumi.NewFileAsset(s.Source.Path),
	}
	if s.Source.Digest != "" {
		d, err := digest.Parse(s.Source.Digest)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", name, err)
		}
		args.SourceHash = pulumi.StringPtr(d.Encoded())
	}
	res, err := s3.NewBucketObjectv2(e.ctx, name, args, opts...)
	if err != nil {
		return nil, err
	}
	return &declared{resource: res, attrs: map[string]pulumi.StringOutput{
		ir.AttrKey: res.Key,
	}}, nil
}
