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

// Package blueprint loads YAML stack definitions, validates them and composes
// the AWS components they describe into an engine scope.
package blueprint

// Definition is a whole stack.
type Definition struct {
	// Requires is a semver constraint on the resource-adapter version.
	Requires string `yaml:"requires,omitempty" json:"requires,omitempty"`
	// Tags are applied to every taggable resource that sets none of its own.
	Tags            map[string]string    `yaml:"tags,omitempty" json:"tags,omitempty"`
	Vpc             *Vpc                 `yaml:"vpc,omitempty" json:"vpc,omitempty"`
	Subnets         []Subnet             `yaml:"subnets,omitempty" json:"subnets,omitempty"`
	SecurityGroups  []SecurityGroup      `yaml:"security_groups,omitempty" json:"security_groups,omitempty"`
	Roles           []Role               `yaml:"roles,omitempty" json:"roles,omitempty"`
	Groups          []Group              `yaml:"groups,omitempty" json:"groups,omitempty"`
	Buckets         []Bucket             `yaml:"buckets,omitempty" json:"buckets,omitempty"`
	Repositories    []Repository         `yaml:"repositories,omitempty" json:"repositories,omitempty"`
	KeyPairs        []KeyPair            `yaml:"key_pairs,omitempty" json:"key_pairs,omitempty"`
	LaunchTemplates []LaunchTemplate     `yaml:"launch_templates,omitempty" json:"launch_templates,omitempty"`
	Exports         map[string]ExportRef `yaml:"exports,omitempty" json:"exports,omitempty"`
}

// Vpc declares the stack's VPC.
type Vpc struct {
	// Name is appended to the naming prefix; empty uses the prefix alone.
	Name            string `yaml:"name,omitempty" json:"name,omitempty"`
	InternetGateway bool   `yaml:"internet_gateway,omitempty" json:"internet_gateway,omitempty"`
}

// Subnet declares one subnet per availability zone.
type Subnet struct {
	Name  string   `yaml:"name" json:"name"`
	Zones []string `yaml:"zones" json:"zones" jsonschema:"minItems=1"`
	// CidrIndex is the third octet of the first subnet's 10.0.x.0/24 block.
	CidrIndex           int   `yaml:"cidr_index,omitempty" json:"cidr_index,omitempty" jsonschema:"minimum=0,maximum=255"`
	MapPublicIPOnLaunch *bool `yaml:"map_public_ip_on_launch,omitempty" json:"map_public_ip_on_launch,omitempty"`
}

// SecurityGroup declares a group with its ingress rules.
type SecurityGroup struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Ingress     []Ingress `yaml:"ingress,omitempty" json:"ingress,omitempty"`
}

// Ingress is one TCP ingress rule.
type Ingress struct {
	Description string   `yaml:"description" json:"description"`
	Port        int      `yaml:"port" json:"port" jsonschema:"minimum=0,maximum=65535"`
	CidrBlocks  []string `yaml:"cidr_blocks,omitempty" json:"cidr_blocks,omitempty"`
	// SourceSecurityGroup names another security group of the blueprint.
	SourceSecurityGroup string `yaml:"source_security_group,omitempty" json:"source_security_group,omitempty"`
}

// Grant gives a role or group access to one bucket or repository.
type Grant struct {
	Name       string `yaml:"name" json:"name"`
	Bucket     string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	Repository string `yaml:"repository,omitempty" json:"repository,omitempty"`
	// Access is list, read or write for buckets and pull or push for repositories.
	Access string `yaml:"access" json:"access" jsonschema:"enum=list,enum=read,enum=write,enum=pull,enum=push"`
}

// Role declares an IAM role.
type Role struct {
	Name    string  `yaml:"name" json:"name"`
	Service string  `yaml:"service,omitempty" json:"service,omitempty" jsonschema:"enum=ec2,enum=lambda,enum=es,enum=sns"`
	Grants  []Grant `yaml:"grants,omitempty" json:"grants,omitempty"`
}

// Group declares an IAM group.
type Group struct {
	Name   string  `yaml:"name" json:"name"`
	Path   string  `yaml:"path,omitempty" json:"path,omitempty"`
	Grants []Grant `yaml:"grants,omitempty" json:"grants,omitempty"`
}

// Bucket declares an S3 bucket and the files uploaded into it.
type Bucket struct {
	Name    string   `yaml:"name" json:"name"`
	Uploads []string `yaml:"uploads,omitempty" json:"uploads,omitempty"`
}

// Repository declares an ECR repository.
type Repository struct {
	Name               string `yaml:"name" json:"name"`
	ImageTagMutability string `yaml:"image_tag_mutability,omitempty" json:"image_tag_mutability,omitempty" jsonschema:"enum=IMMUTABLE,enum=MUTABLE"`
}

// KeyPair registers an SSH public key, inline or from a file.
type KeyPair struct {
	Name          string `yaml:"name" json:"name"`
	PublicKey     string `yaml:"public_key,omitempty" json:"public_key,omitempty"`
	PublicKeyPath string `yaml:"public_key_path,omitempty" json:"public_key_path,omitempty"`
}

// UserData is the boot script: scripts are concatenated first, then lines.
type UserData struct {
	Scripts []string `yaml:"scripts,omitempty" json:"scripts,omitempty"`
	Lines   []string `yaml:"lines,omitempty" json:"lines,omitempty"`
}

// Launch places one instance of a launch template.
type Launch struct {
	Subnet        string `yaml:"subnet" json:"subnet"`
	Zone          string `yaml:"zone" json:"zone"`
	SecurityGroup string `yaml:"security_group" json:"security_group"`
}

// LaunchTemplate declares an EC2 launch template and optionally one instance.
type LaunchTemplate struct {
	Name string `yaml:"name" json:"name"`
	Role string `yaml:"role" json:"role"`
	// Image is an Ubuntu codename (jammy) or version (22.04).
	Image           string    `yaml:"image" json:"image"`
	KeyPair         string    `yaml:"key_pair,omitempty" json:"key_pair,omitempty"`
	SecurityGroup   string    `yaml:"security_group,omitempty" json:"security_group,omitempty"`
	UserData        *UserData `yaml:"user_data,omitempty" json:"user_data,omitempty"`
	InstanceType    string    `yaml:"instance_type,omitempty" json:"instance_type,omitempty"`
	RootVolumeSize  int       `yaml:"root_volume_size,omitempty" json:"root_volume_size,omitempty" jsonschema:"minimum=0"`
	ExtraVolumeSize int       `yaml:"extra_volume_size,omitempty" json:"extra_volume_size,omitempty" jsonschema:"minimum=0"`
	Launch          *Launch   `yaml:"launch,omitempty" json:"launch,omitempty"`
}

// ExportRef publishes one attribute of a blueprint resource as a stack output.
type ExportRef struct {
	// Kind is the section of the resource: vpc, subnet, security_group,
	// role, group, bucket, repository, key_pair or launch_template.
	Kind string `yaml:"kind" json:"kind"`
	// Name is the resource's blueprint name; subnets use name/zone.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Attribute defaults to id.
	Attribute string `yaml:"attribute,omitempty" json:"attribute,omitempty"`
}
