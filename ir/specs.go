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

package ir

// VpcSpec declares a VPC.
type VpcSpec struct {
	CidrBlock          string            `json:"cidrBlock" yaml:"cidrBlock"`
	EnableDNSHostnames bool              `json:"enableDnsHostnames" yaml:"enableDnsHostnames"`
	EnableDNSSupport   bool              `json:"enableDnsSupport" yaml:"enableDnsSupport"`
	Tags               map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (VpcSpec) ResourceType() Type { return TypeVpc }

// InternetGatewaySpec declares an internet gateway attached to a VPC.
type InternetGatewaySpec struct {
	VpcID Value             `json:"vpcId" yaml:"vpcId"`
	Tags  map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (InternetGatewaySpec) ResourceType() Type { return TypeInternetGateway }

// RouteSpec declares one route in a route table.
type RouteSpec struct {
	RouteTableID         Value  `json:"routeTableId" yaml:"routeTableId"`
	DestinationCidrBlock string `json:"destinationCidrBlock" yaml:"destinationCidrBlock"`
	GatewayID            Value  `json:"gatewayId" yaml:"gatewayId"`
}

func (RouteSpec) ResourceType() Type { return TypeRoute }

// SubnetSpec declares a subnet.
type SubnetSpec struct {
	VpcID               Value             `json:"vpcId" yaml:"vpcId"`
	AvailabilityZone    string            `json:"availabilityZone" yaml:"availabilityZone"`
	CidrBlock           string            `json:"cidrBlock" yaml:"cidrBlock"`
	MapPublicIPOnLaunch bool              `json:"mapPublicIpOnLaunch" yaml:"mapPublicIpOnLaunch"`
	Tags                map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (SubnetSpec) ResourceType() Type { return TypeSubnet }

// RouteTableAssociationSpec binds a subnet to a route table.
type RouteTableAssociationSpec struct {
	SubnetID     Value `json:"subnetId" yaml:"subnetId"`
	RouteTableID Value `json:"routeTableId" yaml:"routeTableId"`
}

func (RouteTableAssociationSpec) ResourceType() Type { return TypeRouteTableAssociation }

// SecurityGroupSpec declares a security group without inline rules.
type SecurityGroupSpec struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	VpcID       Value             `json:"vpcId" yaml:"vpcId"`
	Tags        map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (SecurityGroupSpec) ResourceType() Type { return TypeSecurityGroup }

// Security group rule directions.
const (
	RuleIngress = "ingress"
	RuleEgress  = "egress"
)

// SecurityGroupRuleSpec declares one standalone security group rule.
type SecurityGroupRuleSpec struct {
	Type                  string   `json:"type" yaml:"type"`
	SecurityGroupID       Value    `json:"securityGroupId" yaml:"securityGroupId"`
	Description           string   `json:"description,omitempty" yaml:"description,omitempty"`
	Protocol              string   `json:"protocol" yaml:"protocol"`
	FromPort              int      `json:"fromPort" yaml:"fromPort"`
	ToPort                int      `json:"toPort" yaml:"toPort"`
	CidrBlocks            []string `json:"cidrBlocks,omitempty" yaml:"cidrBlocks,omitempty"`
	SourceSecurityGroupID Value    `json:"sourceSecurityGroupId,omitempty" yaml:"sourceSecurityGroupId,omitempty"`
}

func (SecurityGroupRuleSpec) ResourceType() Type { return TypeSecurityGroupRule }

// KeyPairSpec registers an SSH public key.
type KeyPairSpec struct {
	KeyName   string            `json:"keyName" yaml:"keyName"`
	PublicKey string            `json:"publicKey" yaml:"publicKey"`
	Tags      map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (KeyPairSpec) ResourceType() Type { return TypeKeyPair }

// BlockDevice is one EBS block-device mapping of a launch template.
type BlockDevice struct {
	DeviceName          string `json:"deviceName" yaml:"deviceName"`
	VolumeSize          int    `json:"volumeSize" yaml:"volumeSize"`
	VolumeType          string `json:"volumeType" yaml:"volumeType"`
	DeleteOnTermination bool   `json:"deleteOnTermination" yaml:"deleteOnTermination"`
}

// TagSpecification tags resources launched from a template.
type TagSpecification struct {
	ResourceType string            `json:"resourceType" yaml:"resourceType"`
	Tags         map[string]string `json:"tags" yaml:"tags"`
}

// LaunchTemplateSpec declares an EC2 launch template.
type LaunchTemplateSpec struct {
	Name                  string             `json:"name" yaml:"name"`
	ImageID               Value              `json:"imageId" yaml:"imageId"`
	InstanceType          string             `json:"instanceType" yaml:"instanceType"`
	KeyName               Value              `json:"keyName,omitempty" yaml:"keyName,omitempty"`
	UserData              Value              `json:"userData,omitempty" yaml:"userData,omitempty"`
	IamInstanceProfileARN Value              `json:"iamInstanceProfileArn,omitempty" yaml:"iamInstanceProfileArn,omitempty"`
	VpcSecurityGroupIDs   []Value            `json:"vpcSecurityGroupIds,omitempty" yaml:"vpcSecurityGroupIds,omitempty"`
	BlockDevices          []BlockDevice      `json:"blockDeviceMappings" yaml:"blockDeviceMappings"`
	CPUCredits            string             `json:"cpuCredits,omitempty" yaml:"cpuCredits,omitempty"`
	UpdateDefaultVersion  bool               `json:"updateDefaultVersion" yaml:"updateDefaultVersion"`
	TagSpecifications     []TagSpecification `json:"tagSpecifications,omitempty" yaml:"tagSpecifications,omitempty"`
	Tags                  map[string]string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (LaunchTemplateSpec) ResourceType() Type { return TypeLaunchTemplate }

// InstanceSpec declares an instance launched from a template.
type InstanceSpec struct {
	LaunchTemplateID    Value             `json:"launchTemplateId" yaml:"launchTemplateId"`
	SubnetID            Value             `json:"subnetId" yaml:"subnetId"`
	VpcSecurityGroupIDs []Value           `json:"vpcSecurityGroupIds" yaml:"vpcSecurityGroupIds"`
	Tags                map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (InstanceSpec) ResourceType() Type { return TypeInstance }

// RoleSpec declares an IAM role.
type RoleSpec struct {
	AssumeRolePolicy PolicyDocument    `json:"assumeRolePolicy" yaml:"assumeRolePolicy"`
	Tags             map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (RoleSpec) ResourceType() Type { return TypeRole }

// PolicySpec declares a managed IAM policy.
type PolicySpec struct {
	Policy PolicyDocument    `json:"policy" yaml:"policy"`
	Tags   map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (PolicySpec) ResourceType() Type { return TypePolicy }

// RolePolicyAttachmentSpec attaches a managed policy to a role.
type RolePolicyAttachmentSpec struct {
	Role      Value `json:"role" yaml:"role"`
	PolicyARN Value `json:"policyArn" yaml:"policyArn"`
}

func (RolePolicyAttachmentSpec) ResourceType() Type { return TypeRolePolicyAttachment }

// GroupSpec declares an IAM group.
type GroupSpec struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (GroupSpec) ResourceType() Type { return TypeGroup }

// GroupPolicyAttachmentSpec attaches a managed policy to a group.
type GroupPolicyAttachmentSpec struct {
	Group     Value `json:"group" yaml:"group"`
	PolicyARN Value `json:"policyArn" yaml:"policyArn"`
}

func (GroupPolicyAttachmentSpec) ResourceType() Type { return TypeGroupPolicyAttachment }

// InstanceProfileSpec wraps a role for EC2 instances.
type InstanceProfileSpec struct {
	Role Value `json:"role" yaml:"role"`
}

func (InstanceProfileSpec) ResourceType() Type { return TypeInstanceProfile }

// RepositorySpec declares an ECR repository.
type RepositorySpec struct {
	Name               string            `json:"name" yaml:"name"`
	ImageTagMutability string            `json:"imageTagMutability" yaml:"imageTagMutability"`
	Tags               map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (RepositorySpec) ResourceType() Type { return TypeRepository }

// BucketSpec declares an S3 bucket.
type BucketSpec struct {
	Bucket string            `json:"bucket" yaml:"bucket"`
	Tags   map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (BucketSpec) ResourceType() Type { return TypeBucket }

// BucketObjectSpec uploads one local file into a bucket.
type BucketObjectSpec struct {
	Bucket Value `json:"bucket" yaml:"bucket"`
	Key    string `json:"key" yaml:"key"`
	Source Asset  `json:"source" yaml:"source"`
}

func (BucketObjectSpec) ResourceType() Type { return TypeBucketObject }
