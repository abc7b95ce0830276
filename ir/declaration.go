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

import "fmt"

// Type is a resource type token in the engine's package:module:type form.
type Type string

const (
	TypeVpc                   Type = "aws:ec2/vpc:Vpc"
	TypeInternetGateway       Type = "aws:ec2/internetGateway:InternetGateway"
	TypeRoute                 Type = "aws:ec2/route:Route"
	TypeSubnet                Type = "aws:ec2/subnet:Subnet"
	TypeRouteTableAssociation Type = "aws:ec2/routeTableAssociation:RouteTableAssociation"
	TypeSecurityGroup         Type = "aws:ec2/securityGroup:SecurityGroup"
	TypeSecurityGroupRule     Type = "aws:ec2/securityGroupRule:SecurityGroupRule"
	TypeKeyPair               Type = "aws:ec2/keyPair:KeyPair"
	TypeLaunchTemplate        Type = "aws:ec2/launchTemplate:LaunchTemplate"
	TypeInstance              Type = "aws:ec2/instance:Instance"
	TypeRole                  Type = "aws:iam/role:Role"
	TypePolicy                Type = "aws:iam/policy:Policy"
	TypeRolePolicyAttachment  Type = "aws:iam/rolePolicyAttachment:RolePolicyAttachment"
	TypeGroup                 Type = "aws:iam/group:Group"
	TypeGroupPolicyAttachment Type = "aws:iam/groupPolicyAttachment:GroupPolicyAttachment"
	TypeInstanceProfile       Type = "aws:iam/instanceProfile:InstanceProfile"
	TypeRepository            Type = "aws:ecr/repository:Repository"
	TypeBucket                Type = "aws:s3/bucketV2:BucketV2"
	TypeBucketObject          Type = "aws:s3/bucketObjectv2:BucketObjectv2"
)

// Output attribute names referenced across resources.
const (
	AttrID               = "id"
	AttrARN              = "arn"
	AttrName             = "name"
	AttrMainRouteTableID = "mainRouteTableId"
	AttrPublicDNS        = "publicDns"
	AttrPublicIP         = "publicIp"
	AttrRepositoryURL    = "repositoryUrl"
	AttrBucket           = "bucket"
	AttrKey              = "key"
	AttrKeyName          = "keyName"
	AttrLatestVersion    = "latestVersion"
)

// Spec is the typed property set of one resource.
type Spec interface {
	ResourceType() Type
}

// Declaration is one resource handed to an engine.
type Declaration struct {
	Name    string
	Spec    Spec
	Options Options
}

// Type returns the declared resource's type token.
func (d Declaration) Type() Type {
	if d.Spec == nil {
		return ""
	}
	return d.Spec.ResourceType()
}

// Validate checks the declaration is complete enough to hand to an engine.
func (d Declaration) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("declaration has no name")
	}
	if d.Spec == nil {
		return fmt.Errorf("declaration %q has no spec", d.Name)
	}
	return nil
}

// Handle identifies a declared resource.
type Handle struct {
	Type Type   `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// Attr references an output attribute of the resource.
func (h Handle) Attr(attribute string) Ref {
	return Ref{Type: h.Type, Resource: h.Name, Attribute: attribute}
}

// ID references the resource's provider ID.
func (h Handle) ID() Ref { return h.Attr(AttrID) }

// ARN references the resource's ARN.
func (h Handle) ARN() Ref { return h.Attr(AttrARN) }

// IsZero reports whether the handle was never assigned.
func (h Handle) IsZero() bool { return h.Type == "" && h.Name == "" }

func (h Handle) String() string { return fmt.Sprintf("%s::%s", h.Type, h.Name) }

// Options is the resource-options bag threaded through every declaration.
type Options struct {
	Parent         *Handle  `json:"parent,omitempty" yaml:"parent,omitempty"`
	DependsOn      []Handle `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Protect        bool     `json:"protect,omitempty" yaml:"protect,omitempty"`
	RetainOnDelete bool     `json:"retainOnDelete,omitempty" yaml:"retainOnDelete,omitempty"`
	IgnoreChanges  []string `json:"ignoreChanges,omitempty" yaml:"ignoreChanges,omitempty"`
}

// WithDependsOn returns a copy of o that additionally depends on handles.
func (o Options) WithDependsOn(handles ...Handle) Options {
	deps := make([]Handle, 0, len(o.DependsOn)+len(handles))
	deps = append(deps, o.DependsOn...)
	deps = append(deps, handles...)
	o.DependsOn = deps
	return o
}

// IsZero reports whether no option is set.
func (o Options) IsZero() bool {
	return o.Parent == nil && len(o.DependsOn) == 0 && !o.Protect && !o.RetainOnDelete && len(o.IgnoreChanges) == 0
}

// Handles returns the handles the options point at.
func (o Options) Handles() []Handle {
	var out []Handle
	if o.Parent != nil {
		out = append(out, *o.Parent)
	}
	return append(out, o.DependsOn...)
}
