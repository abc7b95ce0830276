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
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/engine/recorder"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

const fullBlueprint = `requires: ">=1.0.0"
vpc:
  internet_gateway: true
subnets:
  - name: public
    zones: [us-east-1a, us-east-1b]
security_groups:
  - name: web
    ingress:
      - {description: ssh, port: 22, cidr_blocks: [0.0.0.0/0]}
  - name: db
    ingress:
      - {description: postgres, port: 5432, source_security_group: web}
buckets:
  - name: assets
    uploads: [files/index.html]
repositories:
  - name: api
  - name: cache
    image_tag_mutability: MUTABLE
roles:
  - name: app
    grants:
      - {name: assets-read, bucket: assets, access: read}
      - {name: api-pull, repository: api, access: pull}
groups:
  - name: ops
    grants:
      - {name: api-push, repository: api, access: push}
key_pairs:
  - name: deploy
    public_key_path: deploy.pub
launch_templates:
  - name: web
    role: app
    image: jammy
    key_pair: deploy
    security_group: web
    user_data:
      scripts: [boot.sh]
      lines: ["echo done"]
    launch: {subnet: public, zone: us-east-1a, security_group: web}
exports:
  vpc_id: {kind: vpc}
  bucket_arn: {kind: bucket, name: assets, attribute: arn}
`

// writeFixture lays out the blueprint and the files it references.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "files"), 0o755))
	files := map[string]string{
		"blueprint.yaml":   fullBlueprint,
		"files/index.html": "<html></html>",
		"deploy.pub":       "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIFixture deploy@example\n",
		"boot.sh":          "#!/bin/bash\napt-get update\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestParse(t *testing.T) {
	t.Parallel()

	def, err := Parse([]byte(fullBlueprint))
	require.NoError(t, err)
	assert.Equal(t, ">=1.0.0", def.Requires)
	require.NotNil(t, def.Vpc)
	assert.True(t, def.Vpc.InternetGateway)
	assert.Equal(t, []string{"us-east-1a", "us-east-1b"}, def.Subnets[0].Zones)
	assert.Equal(t, "web", def.SecurityGroups[1].Ingress[0].SourceSecurityGroup)
	require.NotNil(t, def.LaunchTemplates[0].Launch)
	assert.Equal(t, "us-east-1a", def.LaunchTemplates[0].Launch.Zone)
	assert.Equal(t, "arn", def.Exports["bucket_arn"].Attribute)

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "unknown key", data: "vpcs: {}\n", wantErr: "field vpcs not found"},
		{name: "empty document", data: "", wantErr: "blueprint is empty"},
		{name: "bad yaml", data: "subnets: [\n", wantErr: "failed to parse blueprint"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	def, err := Load(filepath.Join(dir, "blueprint.yaml"))
	require.NoError(t, err)
	assert.Len(t, def.LaunchTemplates, 1)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read blueprint")
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	got, err := ResolvePath("/srv/stack", "files/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "/srv/stack/files/a.txt", got)

	got, err = ResolvePath("/srv/stack", "/etc/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "/etc/a.txt", got)

	got, err = ResolvePath("", "rel.txt")
	require.NoError(t, err)
	assert.Equal(t, "rel.txt", got)
}

func TestCheckRequires(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		constraint string
		version    string
		wantErr    bool
	}{
		{name: "no constraint", constraint: "", version: "0.1.0"},
		{name: "satisfied", constraint: ">=1.0.0", version: "1.2.0"},
		{name: "v prefix", constraint: "^1.0", version: "v1.4.2"},
		{name: "dev build", constraint: ">=9.0.0", version: DevVersion},
		{name: "too old", constraint: ">=2.0.0", version: "1.9.9", wantErr: true},
		{name: "bad constraint", constraint: ">>1", version: "1.0.0", wantErr: true},
		{name: "bad version", constraint: ">=1.0.0", version: "one", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := CheckRequires(tc.constraint, tc.version)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	dir := writeFixture(t)
	valid, err := Parse([]byte(fullBlueprint))
	require.NoError(t, err)
	require.NoError(t, NewValidator(ValidationOptions{BaseDir: dir}).Validate(valid, "1.0.0"))

	tests := []struct {
		name    string
		mutate  func(d *Definition)
		wantErr string
	}{
		{name: "version too old", mutate: func(d *Definition) { d.Requires = ">=5.0.0" }, wantErr: "requires resource-adapter"},
		{name: "subnet without vpc", mutate: func(d *Definition) { d.Vpc = nil }, wantErr: "subnets require a vpc"},
		{name: "duplicate subnet", mutate: func(d *Definition) { d.Subnets = append(d.Subnets, d.Subnets[0]) }, wantErr: `duplicate name "public"`},
		{name: "subnet cidr overflow", mutate: func(d *Definition) { d.Subnets[0].CidrIndex = 255 }, wantErr: `subnet "public"`},
		{name: "subnet without zones", mutate: func(d *Definition) { d.Subnets[0].Zones = nil }, wantErr: "at least one zone"},
		{name: "ingress port", mutate: func(d *Definition) { d.SecurityGroups[0].Ingress[0].Port = 70000 }, wantErr: "out of range"},
		{name: "ingress source", mutate: func(d *Definition) { d.SecurityGroups[1].Ingress[0].SourceSecurityGroup = "nope" }, wantErr: "unknown source_security_group"},
		{name: "ingress without source", mutate: func(d *Definition) { d.SecurityGroups[0].Ingress[0].CidrBlocks = nil }, wantErr: "needs cidr_blocks"},
		{name: "unknown service", mutate: func(d *Definition) { d.Roles[0].Service = "ec3" }, wantErr: "ec2"},
		{name: "grant unknown bucket", mutate: func(d *Definition) { d.Roles[0].Grants[0].Bucket = "logs" }, wantErr: `unknown bucket "logs"`},
		{name: "grant bad access", mutate: func(d *Definition) { d.Roles[0].Grants[0].Access = "push" }, wantErr: "bucket access must be one of"},
		{name: "grant both targets", mutate: func(d *Definition) { d.Groups[0].Grants[0].Bucket = "assets" }, wantErr: "not both"},
		{name: "grant no target", mutate: func(d *Definition) { d.Groups[0].Grants[0].Repository = "" }, wantErr: "bucket or repository is required"},
		{name: "repository mutability", mutate: func(d *Definition) { d.Repositories[0].ImageTagMutability = "SOMETIMES" }, wantErr: "image_tag_mutability"},
		{name: "key pair both", mutate: func(d *Definition) { d.KeyPairs[0].PublicKey = "ssh-ed25519 AAAA" }, wantErr: "not both"},
		{name: "key pair missing file", mutate: func(d *Definition) { d.KeyPairs[0].PublicKeyPath = "nope.pub" }, wantErr: "file not found"},
		{name: "upload missing", mutate: func(d *Definition) { d.Buckets[0].Uploads = []string{"files"} }, wantErr: "not a regular file"},
		{name: "template role", mutate: func(d *Definition) { d.LaunchTemplates[0].Role = "ghost" }, wantErr: `unknown role "ghost"`},
		{name: "template image", mutate: func(d *Definition) { d.LaunchTemplates[0].Image = "trusty" }, wantErr: `unknown image "trusty"`},
		{name: "image name fragment", mutate: func(d *Definition) { d.LaunchTemplates[0].Image = "amd64" }, wantErr: `unknown image "amd64"`},
		{name: "launch zone", mutate: func(d *Definition) { d.LaunchTemplates[0].Launch.Zone = "us-east-1c" }, wantErr: "has no zone"},
		{name: "launch security group", mutate: func(d *Definition) { d.LaunchTemplates[0].Launch.SecurityGroup = "" }, wantErr: "launch: unknown security_group"},
		{name: "export target", mutate: func(d *Definition) { d.Exports["x"] = ExportRef{Kind: KindRole, Name: "ghost"} }, wantErr: `unknown role "ghost"`},
		{name: "missing name", mutate: func(d *Definition) { d.Buckets[0].Name = "" }, wantErr: "buckets[0].name is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			def, err := Parse([]byte(fullBlueprint))
			require.NoError(t, err)
			tc.mutate(def)

			err = NewValidator(ValidationOptions{BaseDir: dir}).Validate(def, "1.0.0")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateSyntaxOnlySkipsFiles(t *testing.T) {
	t.Parallel()

	def, err := Parse([]byte(fullBlueprint))
	require.NoError(t, err)
	require.NoError(t, NewValidator(ValidationOptions{SyntaxOnly: true}).Validate(def, DevVersion))
	require.Error(t, Validate(def, DevVersion), "relative files do not exist in the working directory")
}

func compose(t *testing.T) (*Stack, *recorder.Recorder) {
	t.Helper()
	dir := writeFixture(t)
	def, err := Load(filepath.Join(dir, "blueprint.yaml"))
	require.NoError(t, err)

	rec := recorder.New()
	scope, err := engine.NewScope(rec, naming.MustNew("acme", "dev"))
	require.NoError(t, err)

	stack, err := Compose(context.Background(), scope, def, dir)
	require.NoError(t, err)
	return stack, rec
}

func TestCompose(t *testing.T) {
	t.Parallel()

	stack, rec := compose(t)

	require.NotNil(t, stack.Vpc)
	assert.Equal(t, "acme-dev", stack.Vpc.Name())
	_, ok := stack.Vpc.InternetGateway()
	assert.True(t, ok)

	subnets := stack.Subnets["public"]
	require.Len(t, subnets, 2)
	assert.Equal(t, "10.0.0.0/24", subnets[0].CidrBlock())
	assert.Equal(t, "10.0.1.0/24", subnets[1].CidrBlock())

	rule, ok := rec.Resource(ir.TypeSecurityGroupRule, "acme-dev-db-postgres-5432")
	require.True(t, ok)
	assert.Equal(t, stack.SecurityGroups["web"].ID(), rule.Properties.(ir.SecurityGroupRuleSpec).SourceSecurityGroupID)

	objects := rec.ByType(ir.TypeBucketObject)
	require.Len(t, objects, 1)
	assert.Equal(t, "acme-dev-assets-index.html", objects[0].Name)

	assert.Equal(t, []string{"api", "cache"}, stack.Registry.Names())
	cache, ok := rec.Resource(ir.TypeRepository, "acme-dev-cache")
	require.True(t, ok)
	assert.Equal(t, "MUTABLE", cache.Properties.(ir.RepositorySpec).ImageTagMutability)

	assert.Len(t, rec.ByType(ir.TypePolicy), 3)
	assert.Len(t, rec.ByType(ir.TypeRolePolicyAttachment), 2)
	assert.Len(t, rec.ByType(ir.TypeGroupPolicyAttachment), 1)
	assert.Len(t, rec.ByType(ir.TypeInstanceProfile), 1)

	assert.Contains(t, stack.Images, "jammy")
	assert.Len(t, rec.Lookups(), 1)

	lt, ok := rec.Resource(ir.TypeLaunchTemplate, "acme-dev-web")
	require.True(t, ok)
	userData, err := ir.Resolve(lt.Properties.(ir.LaunchTemplateSpec).UserData, ir.PlaceholderResolver)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(userData)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\napt-get update\necho done\n", string(decoded))

	_, ok = stack.Instances["web"]
	assert.True(t, ok)
	_, ok = rec.Resource(ir.TypeInstance, "acme-dev-web")
	assert.True(t, ok)

	exports := map[string]string{}
	for _, e := range rec.Exports() {
		s, err := ir.Resolve(e.Value, ir.PlaceholderResolver)
		require.NoError(t, err)
		exports[e.Name] = s
	}
	assert.Equal(t, "${acme-dev.id}", exports["vpc_id"])
	assert.Equal(t, "${acme-dev-assets.arn}", exports["bucket_arn"])
	assert.True(t, strings.HasPrefix(exports["acme-dev-web"], "ssh -i private.key ubuntu@"))
}

func TestComposeIsDeterministic(t *testing.T) {
	t.Parallel()

	_, first := compose(t)
	_, second := compose(t)

	nameOf := func(rs []recorder.Resource) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = string(r.Type) + "::" + r.Name
		}
		return out
	}
	assert.Equal(t, nameOf(first.Resources()), nameOf(second.Resources()))
}

func TestComposeRejectsInvalid(t *testing.T) {
	t.Parallel()

	rec := recorder.New()
	scope, err := engine.NewScope(rec, naming.MustNew("acme", "dev"))
	require.NoError(t, err)

	def := &Definition{Subnets: []Subnet{{Name: "public", Zones: []string{"us-east-1a"}}}}
	_, err = Compose(context.Background(), scope, def, "")
	require.Error(t, err)
	assert.Zero(t, rec.Len())
}

func TestStackHandle(t *testing.T) {
	t.Parallel()

	stack, _ := compose(t)

	h, ok := stack.Handle(KindSubnet, "public/us-east-1b")
	require.True(t, ok)
	assert.Equal(t, "acme-dev-public-us-east-1b", h.Name)

	h, ok = stack.Handle(KindRepository, "api")
	require.True(t, ok)
	assert.Equal(t, ir.TypeRepository, h.Type)

	_, ok = stack.Handle(KindKeyPair, "nope")
	assert.False(t, ok)
	_, ok = stack.Handle("volume", "x")
	assert.False(t, ok)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	data, err := SchemaJSON()
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "resource-adapter blueprint")
	assert.Contains(t, content, "launch_templates")
	assert.Contains(t, content, "adapterVersion")
	assert.True(t, strings.HasSuffix(content, "\n"))
}
