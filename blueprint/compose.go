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

package blueprint

import (
	"context"
	"fmt"
	"sort"

	"github.com/cowdogmoo/resource-adapter/aws/ec2"
	"github.com/cowdogmoo/resource-adapter/aws/ecr"
	"github.com/cowdogmoo/resource-adapter/aws/iam"
	"github.com/cowdogmoo/resource-adapter/aws/s3"
	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/logging"
)

// Stack holds the components declared for a blueprint, keyed by blueprint name.
type Stack struct {
	Vpc             *ec2.Vpc
	Subnets         map[string][]*ec2.Subnet
	SecurityGroups  map[string]*ec2.SecurityGroup
	Buckets         map[string]*s3.Bucket
	Registry        *ecr.Registry
	Roles           map[string]*iam.Role
	Groups          map[string]*iam.Group
	KeyPairs        map[string]*ec2.KeyPair
	Images          map[string]ir.Image
	LaunchTemplates map[string]*ec2.LaunchTemplate
	Instances       map[string]ir.Handle
}

type composer struct {
	scope   *engine.Scope
	def     *Definition
	baseDir string
	stack   *Stack
}

// Compose validates def and declares everything it describes into scope,
// dependencies first. Relative paths resolve against baseDir.
func Compose(ctx context.Context, scope *engine.Scope, def *Definition, baseDir string) (*Stack, error) {
	if err := NewValidator(ValidationOptions{BaseDir: baseDir}).Validate(def, DevVersion); err != nil {
		return nil, err
	}

	c := &composer{
		scope:   scope,
		def:     def,
		baseDir: baseDir,
		stack: &Stack{
			Subnets:         map[string][]*ec2.Subnet{},
			SecurityGroups:  map[string]*ec2.SecurityGroup{},
			Buckets:         map[string]*s3.Bucket{},
			Registry:        ecr.NewRegistry(scope, ecr.RegistryArgs{Tags: def.Tags}),
			Roles:           map[string]*iam.Role{},
			Groups:          map[string]*iam.Group{},
			KeyPairs:        map[string]*ec2.KeyPair{},
			Images:          map[string]ir.Image{},
			LaunchTemplates: map[string]*ec2.LaunchTemplate{},
			Instances:       map[string]ir.Handle{},
		},
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"network", c.network},
		{"security groups", c.securityGroups},
		{"buckets", c.buckets},
		{"repositories", c.repositories},
		{"roles", c.roles},
		{"groups", c.groups},
		{"key pairs", c.keyPairs},
		{"images", c.images},
		{"launch templates", c.launchTemplates},
		{"exports", c.exports},
	}
	for _, step := range steps {
		logging.DebugContext(ctx, "Composing %s", step.name)
		if err := step.run(ctx); err != nil {
			return nil, err
		}
	}
	return c.stack, nil
}

func (c *composer) network(ctx context.Context) error {
	if c.def.Vpc == nil {
		return nil
	}
	vpc, err := ec2.NewVpc(ctx, c.scope, ec2.VpcArgs{Name: c.def.Vpc.Name, Tags: c.def.Tags})
	if err != nil {
		return err
	}
	c.stack.Vpc = vpc

	if c.def.Vpc.InternetGateway {
		if _, err := vpc.CreateInternetGateway(ctx); err != nil {
			return err
		}
	}

	for _, s := range c.def.Subnets {
		subnets, err := ec2.BulkCreateSubnets(ctx, c.scope, ec2.BulkSubnetArgs{
			Name:                s.Name,
			Vpc:                 vpc,
			AvailabilityZones:   s.Zones,
			CidrIndex:           s.CidrIndex,
			MapPublicIPOnLaunch: s.MapPublicIPOnLaunch,
			Tags:                c.def.Tags,
		})
		if err != nil {
			return err
		}
		c.stack.Subnets[s.Name] = subnets
	}
	return nil
}

func (c *composer) securityGroups(ctx context.Context) error {
	for _, g := range c.def.SecurityGroups {
		sg, err := ec2.NewSecurityGroup(ctx, c.scope, ec2.SecurityGroupArgs{
			Name:        g.Name,
			Vpc:         c.stack.Vpc,
			Description: g.Description,
			Tags:        c.def.Tags,
		})
		if err != nil {
			return err
		}
		c.stack.SecurityGroups[g.Name] = sg
	}

	// Rules go second so a rule may name any group as its source.
	for _, g := range c.def.SecurityGroups {
		sg := c.stack.SecurityGroups[g.Name]
		for _, rule := range g.Ingress {
			ingress := ec2.IngressRule{
				Description: rule.Description,
				Port:        rule.Port,
				CidrBlocks:  rule.CidrBlocks,
			}
			if rule.SourceSecurityGroup != "" {
				ingress.SourceSecurityGroupID = c.stack.SecurityGroups[rule.SourceSecurityGroup].ID()
			}
			if _, err := sg.AddIngressRule(ctx, ingress); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *composer) buckets(ctx context.Context) error {
	for _, b := range c.def.Buckets {
		bucket, err := s3.NewBucket(ctx, c.scope, s3.BucketArgs{Name: b.Name, Tags: c.def.Tags})
		if err != nil {
			return err
		}
		for _, upload := range b.Uploads {
			path, err := ResolvePath(c.baseDir, upload)
			if err != nil {
				return err
			}
			if _, err := bucket.Upload(ctx, path); err != nil {
				return err
			}
		}
		c.stack.Buckets[b.Name] = bucket
	}
	return nil
}

func (c *composer) repositories(ctx context.Context) error {
	for _, r := range c.def.Repositories {
		if _, err := c.stack.Registry.Add(ctx, ecr.RepositoryArgs{
			Name:               r.Name,
			ImageTagMutability: r.ImageTagMutability,
		}); err != nil {
			return err
		}
	}
	return nil
}

// permission returns the permission set a grant refers to.
func (c *composer) permission(g Grant) (*iam.Permission, error) {
	if g.Bucket != "" {
		b := c.stack.Buckets[g.Bucket]
		switch g.Access {
		case AccessList:
			return b.Permissions.List, nil
		case AccessRead:
			return b.Permissions.Read, nil
		case AccessWrite:
			return b.Permissions.Write, nil
		}
		return nil, fmt.Errorf("grant %q: unknown bucket access %q", g.Name, g.Access)
	}

	repo, ok := c.stack.Registry.Repository(g.Repository)
	if !ok {
		return nil, fmt.Errorf("grant %q: unknown repository %q", g.Name, g.Repository)
	}
	switch g.Access {
	case AccessPull:
		return repo.Permissions.Pull, nil
	case AccessPush:
		return repo.Permissions.Push, nil
	}
	return nil, fmt.Errorf("grant %q: unknown repository access %q", g.Name, g.Access)
}

func (c *composer) roles(ctx context.Context) error {
	for _, r := range c.def.Roles {
		role, err := iam.NewRole(ctx, c.scope, iam.RoleArgs{Name: r.Name, Service: r.Service, Tags: c.def.Tags})
		if err != nil {
			return err
		}
		for _, g := range r.Grants {
			perm, err := c.permission(g)
			if err != nil {
				return err
			}
			if _, err := role.Grant(ctx, g.Name, perm); err != nil {
				return err
			}
		}
		c.stack.Roles[r.Name] = role
	}
	return nil
}

func (c *composer) groups(ctx context.Context) error {
	for _, g := range c.def.Groups {
		group, err := iam.NewGroup(ctx, c.scope, iam.GroupArgs{Name: g.Name, Path: g.Path})
		if err != nil {
			return err
		}
		for _, grant := range g.Grants {
			perm, err := c.permission(grant)
			if err != nil {
				return err
			}
			if _, err := group.Grant(ctx, grant.Name, perm); err != nil {
				return err
			}
		}
		c.stack.Groups[g.Name] = group
	}
	return nil
}

func (c *composer) keyPairs(ctx context.Context) error {
	for _, k := range c.def.KeyPairs {
		args := ec2.KeyPairArgs{Name: k.Name, PublicKey: k.PublicKey, Tags: c.def.Tags}
		if k.PublicKeyPath != "" {
			path, err := ResolvePath(c.baseDir, k.PublicKeyPath)
			if err != nil {
				return err
			}
			args.PublicKeyPath = path
		}
		kp, err := ec2.NewKeyPair(ctx, c.scope, args)
		if err != nil {
			return err
		}
		c.stack.KeyPairs[k.Name] = kp
	}
	return nil
}

func (c *composer) images(ctx context.Context) error {
	for _, t := range c.def.LaunchTemplates {
		if _, ok := c.stack.Images[t.Image]; ok {
			continue
		}
		query, ok := ec2.UbuntuQuery(t.Image)
		if !ok {
			return fmt.Errorf("launch template %q: unknown image %q", t.Name, t.Image)
		}
		img, err := c.scope.LookupImage(ctx, query)
		if err != nil {
			return err
		}
		c.stack.Images[t.Image] = img
	}
	return nil
}

func (c *composer) userData(ud *UserData) (*ec2.UserData, error) {
	if ud == nil {
		return nil, nil
	}
	out := ec2.NewUserData()
	for _, script := range ud.Scripts {
		path, err := ResolvePath(c.baseDir, script)
		if err != nil {
			return nil, err
		}
		if err := out.Execute(path); err != nil {
			return nil, err
		}
	}
	if len(ud.Lines) > 0 {
		out.Append(ud.Lines...)
	}
	return out, nil
}

func (c *composer) launchTemplates(ctx context.Context) error {
	for _, t := range c.def.LaunchTemplates {
		userData, err := c.userData(t.UserData)
		if err != nil {
			return fmt.Errorf("launch template %q: %w", t.Name, err)
		}

		args := ec2.LaunchTemplateArgs{
			Name:            t.Name,
			Role:            c.stack.Roles[t.Role],
			Image:           c.stack.Images[t.Image],
			UserData:        userData,
			InstanceType:    t.InstanceType,
			RootVolumeSize:  t.RootVolumeSize,
			ExtraVolumeSize: t.ExtraVolumeSize,
			Tags:            c.def.Tags,
		}
		if t.KeyPair != "" {
			args.KeyPair = c.stack.KeyPairs[t.KeyPair]
		}
		if t.SecurityGroup != "" {
			args.SecurityGroup = c.stack.SecurityGroups[t.SecurityGroup]
		}

		lt, err := ec2.NewLaunchTemplate(ctx, c.scope, args)
		if err != nil {
			return err
		}
		c.stack.LaunchTemplates[t.Name] = lt

		if t.Launch == nil {
			continue
		}
		subnet := c.subnet(t.Launch.Subnet, t.Launch.Zone)
		if subnet == nil {
			return fmt.Errorf("launch template %q: subnet %q has no zone %q", t.Name, t.Launch.Subnet, t.Launch.Zone)
		}
		h, err := lt.LaunchInstance(ctx, subnet, c.stack.SecurityGroups[t.Launch.SecurityGroup])
		if err != nil {
			return err
		}
		c.stack.Instances[t.Name] = h
	}
	return nil
}

func (c *composer) subnet(name, zone string) *ec2.Subnet {
	for _, s := range c.stack.Subnets[name] {
		if s.AvailabilityZone() == zone {
			return s
		}
	}
	return nil
}

func (c *composer) exports(ctx context.Context) error {
	outputs := make([]string, 0, len(c.def.Exports))
	for name := range c.def.Exports {
		outputs = append(outputs, name)
	}
	sort.Strings(outputs)

	for _, name := range outputs {
		ref := c.def.Exports[name]
		h, ok := c.stack.Handle(ref.Kind, ref.Name)
		if !ok {
			return fmt.Errorf("export %q: unknown %s %q", name, ref.Kind, ref.Name)
		}
		attr := ref.Attribute
		if attr == "" {
			attr = ir.AttrID
		}
		if err := c.scope.Export(ctx, name, h.Attr(attr)); err != nil {
			return err
		}
	}
	return nil
}

// Handle returns the declared resource for a blueprint kind and name.
// Subnets are addressed as name/zone.
func (s *Stack) Handle(kind, name string) (ir.Handle, bool) {
	switch kind {
	case KindVpc:
		if s.Vpc != nil {
			return s.Vpc.Handle(), true
		}
	case KindSubnet:
		for base, subnets := range s.Subnets {
			for _, sub := range subnets {
				if base+"/"+sub.AvailabilityZone() == name {
					return sub.Handle(), true
				}
			}
		}
	case KindSecurityGroup:
		if g, ok := s.SecurityGroups[name]; ok {
			return g.Handle(), true
		}
	case KindRole:
		if r, ok := s.Roles[name]; ok {
			return r.Handle(), true
		}
	case KindGroup:
		if g, ok := s.Groups[name]; ok {
			return g.Handle(), true
		}
	case KindBucket:
		if b, ok := s.Buckets[name]; ok {
			return b.Handle(), true
		}
	case KindRepository:
		if r, ok := s.Registry.Repository(name); ok {
			return r.Handle(), true
		}
	case KindKeyPair:
		if k, ok := s.KeyPairs[name]; ok {
			return k.Handle(), true
		}
	case KindLaunchTemplate:
		if t, ok := s.LaunchTemplates[name]; ok {
			return t.Handle(), true
		}
	}
	return ir.Handle{}, false
}
