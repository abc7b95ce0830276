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
	"fmt"
	"os"
	"slices"

	"github.com/cowdogmoo/resource-adapter/aws/ec2"
	"github.com/cowdogmoo/resource-adapter/aws/ecr"
	"github.com/cowdogmoo/resource-adapter/aws/iam"
)

// Grant accesses.
const (
	AccessList  = "list"
	AccessRead  = "read"
	AccessWrite = "write"
	AccessPull  = "pull"
	AccessPush  = "push"
)

// Export kinds.
const (
	KindVpc            = "vpc"
	KindSubnet         = "subnet"
	KindSecurityGroup  = "security_group"
	KindRole           = "role"
	KindGroup          = "group"
	KindBucket         = "bucket"
	KindRepository     = "repository"
	KindKeyPair        = "key_pair"
	KindLaunchTemplate = "launch_template"
)

var (
	bucketAccesses     = []string{AccessList, AccessRead, AccessWrite}
	repositoryAccesses = []string{AccessPull, AccessPush}
)

// ValidationOptions contains options for validation
type ValidationOptions struct {
	// SyntaxOnly skips file existence checks.
	SyntaxOnly bool
	// BaseDir resolves relative file paths.
	BaseDir string
}

// Validator validates blueprint definitions
type Validator struct {
	options ValidationOptions
}

// NewValidator creates a new blueprint validator
func NewValidator(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// Validate checks def against version with default options.
func Validate(def *Definition, version string) error {
	return NewValidator(ValidationOptions{}).Validate(def, version)
}

// Validate checks def and returns the first problem found.
func (v *Validator) Validate(def *Definition, version string) error {
	if def == nil {
		return fmt.Errorf("blueprint is nil")
	}

	if err := CheckRequires(def.Requires, version); err != nil {
		return err
	}

	checks := []func(*Definition) error{
		v.validateSubnets,
		v.validateSecurityGroups,
		v.validateBuckets,
		v.validateRepositories,
		v.validateRoles,
		v.validateGroups,
		v.validateKeyPairs,
		v.validateLaunchTemplates,
		v.validateExports,
	}
	for _, check := range checks {
		if err := check(def); err != nil {
			return err
		}
	}
	return nil
}

// uniqueNames fails on empty or repeated names within one section.
func uniqueNames(section string, names []string) (map[string]bool, error) {
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%s[%d].name is required", section, i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%s: duplicate name %q", section, name)
		}
		seen[name] = true
	}
	return seen, nil
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = name(item)
	}
	return out
}

func (v *Validator) validateSubnets(def *Definition) error {
	if _, err := uniqueNames("subnets", names(def.Subnets, func(s Subnet) string { return s.Name })); err != nil {
		return err
	}
	if len(def.Subnets) > 0 && def.Vpc == nil {
		return fmt.Errorf("subnets require a vpc")
	}
	for _, s := range def.Subnets {
		if len(s.Zones) == 0 {
			return fmt.Errorf("subnet %q: at least one zone is required", s.Name)
		}
		if _, err := ec2.BulkCIDRs(s.CidrIndex, len(s.Zones)); err != nil {
			return fmt.Errorf("subnet %q: %w", s.Name, err)
		}
	}
	return nil
}

func (v *Validator) validateSecurityGroups(def *Definition) error {
	groups, err := uniqueNames("security_groups", names(def.SecurityGroups, func(g SecurityGroup) string { return g.Name }))
	if err != nil {
		return err
	}
	if len(def.SecurityGroups) > 0 && def.Vpc == nil {
		return fmt.Errorf("security_groups require a vpc")
	}
	for _, g := range def.SecurityGroups {
		for i, rule := range g.Ingress {
			if rule.Description == "" {
				return fmt.Errorf("security group %q: ingress[%d].description is required", g.Name, i)
			}
			if rule.Port < 0 || rule.Port > 65535 {
				return fmt.Errorf("security group %q: ingress %q: port %d out of range", g.Name, rule.Description, rule.Port)
			}
			if len(rule.CidrBlocks) == 0 && rule.SourceSecurityGroup == "" {
				return fmt.Errorf("security group %q: ingress %q needs cidr_blocks or source_security_group", g.Name, rule.Description)
			}
			if rule.SourceSecurityGroup != "" && !groups[rule.SourceSecurityGroup] {
				return fmt.Errorf("security group %q: ingress %q: unknown source_security_group %q", g.Name, rule.Description, rule.SourceSecurityGroup)
			}
		}
	}
	return nil
}

func (v *Validator) validateBuckets(def *Definition) error {
	if _, err := uniqueNames("buckets", names(def.Buckets, func(b Bucket) string { return b.Name })); err != nil {
		return err
	}
	for _, b := range def.Buckets {
		for _, upload := range b.Uploads {
			if err := v.checkFile(upload); err != nil {
				return fmt.Errorf("bucket %q: upload: %w", b.Name, err)
			}
		}
	}
	return nil
}

func (v *Validator) validateRepositories(def *Definition) error {
	if _, err := uniqueNames("repositories", names(def.Repositories, func(r Repository) string { return r.Name })); err != nil {
		return err
	}
	for _, r := range def.Repositories {
		switch r.ImageTagMutability {
		case "", ecr.Immutable, ecr.Mutable:
		default:
			return fmt.Errorf("repository %q: image_tag_mutability must be %s or %s", r.Name, ecr.Immutable, ecr.Mutable)
		}
	}
	return nil
}

func (v *Validator) validateRoles(def *Definition) error {
	if _, err := uniqueNames("roles", names(def.Roles, func(r Role) string { return r.Name })); err != nil {
		return err
	}
	for _, r := range def.Roles {
		if r.Service != "" {
			if _, err := iam.ServicePrincipal(r.Service); err != nil {
				return fmt.Errorf("role %q: %w", r.Name, err)
			}
		}
		if err := validateGrants(def, "role "+r.Name, r.Grants); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateGroups(def *Definition) error {
	if _, err := uniqueNames("groups", names(def.Groups, func(g Group) string { return g.Name })); err != nil {
		return err
	}
	for _, g := range def.Groups {
		if err := validateGrants(def, "group "+g.Name, g.Grants); err != nil {
			return err
		}
	}
	return nil
}

func validateGrants(def *Definition, owner string, grants []Grant) error {
	if _, err := uniqueNames(owner+" grants", names(grants, func(g Grant) string { return g.Name })); err != nil {
		return err
	}
	for _, g := range grants {
		switch {
		case g.Bucket != "" && g.Repository != "":
			return fmt.Errorf("%s: grant %q: set bucket or repository, not both", owner, g.Name)
		case g.Bucket != "":
			if !slices.ContainsFunc(def.Buckets, func(b Bucket) bool { return b.Name == g.Bucket }) {
				return fmt.Errorf("%s: grant %q: unknown bucket %q", owner, g.Name, g.Bucket)
			}
			if !slices.Contains(bucketAccesses, g.Access) {
				return fmt.Errorf("%s: grant %q: bucket access must be one of %v", owner, g.Name, bucketAccesses)
			}
		case g.Repository != "":
			if !slices.ContainsFunc(def.Repositories, func(r Repository) bool { return r.Name == g.Repository }) {
				return fmt.Errorf("%s: grant %q: unknown repository %q", owner, g.Name, g.Repository)
			}
			if !slices.Contains(repositoryAccesses, g.Access) {
				return fmt.Errorf("%s: grant %q: repository access must be one of %v", owner, g.Name, repositoryAccesses)
			}
		default:
			return fmt.Errorf("%s: grant %q: bucket or repository is required", owner, g.Name)
		}
	}
	return nil
}

func (v *Validator) validateKeyPairs(def *Definition) error {
	if _, err := uniqueNames("key_pairs", names(def.KeyPairs, func(k KeyPair) string { return k.Name })); err != nil {
		return err
	}
	for _, k := range def.KeyPairs {
		switch {
		case k.PublicKey != "" && k.PublicKeyPath != "":
			return fmt.Errorf("key pair %q: set public_key or public_key_path, not both", k.Name)
		case k.PublicKey == "" && k.PublicKeyPath == "":
			return fmt.Errorf("key pair %q: public_key or public_key_path is required", k.Name)
		case k.PublicKeyPath != "":
			if err := v.checkFile(k.PublicKeyPath); err != nil {
				return fmt.Errorf("key pair %q: %w", k.Name, err)
			}
		}
	}
	return nil
}

func (v *Validator) validateLaunchTemplates(def *Definition) error {
	if _, err := uniqueNames("launch_templates", names(def.LaunchTemplates, func(t LaunchTemplate) string { return t.Name })); err != nil {
		return err
	}
	for _, t := range def.LaunchTemplates {
		if err := v.validateLaunchTemplate(def, t); err != nil {
			return fmt.Errorf("launch template %q: %w", t.Name, err)
		}
	}
	return nil
}

func (v *Validator) validateLaunchTemplate(def *Definition, t LaunchTemplate) error {
	if !slices.ContainsFunc(def.Roles, func(r Role) bool { return r.Name == t.Role }) {
		return fmt.Errorf("unknown role %q", t.Role)
	}
	if _, ok := ec2.UbuntuQuery(t.Image); !ok {
		return fmt.Errorf("unknown image %q (supported: %v)", t.Image, ec2.UbuntuReleases())
	}
	if t.KeyPair != "" && !slices.ContainsFunc(def.KeyPairs, func(k KeyPair) bool { return k.Name == t.KeyPair }) {
		return fmt.Errorf("unknown key_pair %q", t.KeyPair)
	}
	if t.SecurityGroup != "" && !hasSecurityGroup(def, t.SecurityGroup) {
		return fmt.Errorf("unknown security_group %q", t.SecurityGroup)
	}
	if t.RootVolumeSize < 0 || t.ExtraVolumeSize < 0 {
		return fmt.Errorf("volume sizes must not be negative")
	}
	if t.UserData != nil {
		for _, script := range t.UserData.Scripts {
			if err := v.checkFile(script); err != nil {
				return fmt.Errorf("user_data: %w", err)
			}
		}
	}
	if t.Launch == nil {
		return nil
	}

	idx := slices.IndexFunc(def.Subnets, func(s Subnet) bool { return s.Name == t.Launch.Subnet })
	if idx < 0 {
		return fmt.Errorf("launch: unknown subnet %q", t.Launch.Subnet)
	}
	if !slices.Contains(def.Subnets[idx].Zones, t.Launch.Zone) {
		return fmt.Errorf("launch: subnet %q has no zone %q", t.Launch.Subnet, t.Launch.Zone)
	}
	if !hasSecurityGroup(def, t.Launch.SecurityGroup) {
		return fmt.Errorf("launch: unknown security_group %q", t.Launch.SecurityGroup)
	}
	return nil
}

func hasSecurityGroup(def *Definition, name string) bool {
	return slices.ContainsFunc(def.SecurityGroups, func(g SecurityGroup) bool { return g.Name == name })
}

func (v *Validator) validateExports(def *Definition) error {
	for name, ref := range def.Exports {
		if name == "" {
			return fmt.Errorf("exports: empty output name")
		}
		if !exportTargetExists(def, ref) {
			return fmt.Errorf("export %q: unknown %s %q", name, ref.Kind, ref.Name)
		}
	}
	return nil
}

func exportTargetExists(def *Definition, ref ExportRef) bool {
	has := func(n []string) bool { return slices.Contains(n, ref.Name) }
	switch ref.Kind {
	case KindVpc:
		return def.Vpc != nil
	case KindSubnet:
		for _, s := range def.Subnets {
			for _, zone := range s.Zones {
				if ref.Name == s.Name+"/"+zone {
					return true
				}
			}
		}
		return false
	case KindSecurityGroup:
		return hasSecurityGroup(def, ref.Name)
	case KindRole:
		return has(names(def.Roles, func(r Role) string { return r.Name }))
	case KindGroup:
		return has(names(def.Groups, func(g Group) string { return g.Name }))
	case KindBucket:
		return has(names(def.Buckets, func(b Bucket) string { return b.Name }))
	case KindRepository:
		return has(names(def.Repositories, func(r Repository) string { return r.Name }))
	case KindKeyPair:
		return has(names(def.KeyPairs, func(k KeyPair) string { return k.Name }))
	case KindLaunchTemplate:
		return has(names(def.LaunchTemplates, func(t LaunchTemplate) string { return t.Name }))
	default:
		return false
	}
}

func (v *Validator) checkFile(path string) error {
	if v.options.SyntaxOnly {
		return nil
	}
	resolved, err := ResolvePath(v.options.BaseDir, path)
	if err != nil {
		return err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("file not found: %s", resolved)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", resolved)
	}
	return nil
}
