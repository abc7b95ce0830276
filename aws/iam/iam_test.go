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

package iam

import (
	"context"
	"testing"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/engine/recorder"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newScope(t *testing.T) (*engine.Scope, *recorder.Recorder) {
	t.Helper()
	rec := recorder.New()
	scope, err := engine.NewScope(rec, naming.MustNew("acme", "dev"))
	require.NoError(t, err)
	return scope, rec
}

func TestPermissionAddStatement(t *testing.T) {
	t.Parallel()

	p := NewPermission(nil, nil, "")
	assert.Zero(t, p.Len())

	p.AddStatement([]string{"s3:GetObject"}, nil, "read")
	p.AddStatement([]string{"s3:PutObject"}, ir.Strings("arn:aws:s3:::b/*"), "")

	st := p.Statements()
	require.Len(t, st, 2)
	assert.Equal(t, ir.Strings(Wildcard), st[0].Resources, "resources default to a wildcard")
	assert.Equal(t, "read", st[0].Sid)
	assert.Equal(t, ir.EffectAllow, st[1].Effect)
	assert.Equal(t, ir.Strings("arn:aws:s3:::b/*"), st[1].Resources)

	withOne := NewPermission([]string{"ecr:PutImage"}, nil, "push")
	assert.Equal(t, 1, withOne.Len())
}

func TestPermissionStatementsAreCopies(t *testing.T) {
	t.Parallel()

	p := NewPermission([]string{"a:B"}, nil, "")
	st := p.Statements()
	st[0].Sid = "mutated"
	assert.Empty(t, p.Statements()[0].Sid)

	var zero Permission
	zero.Append(ir.PolicyStatement{Actions: []string{"x:Y"}})
	assert.Equal(t, 1, zero.Len())
}

func TestPermissionDocumentOrderMatchesCalls(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		actions := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9]{1,6}:[A-Z][a-zA-Z]{0,8}`), 0, 8).Draw(rt, "actions")
		split := rapid.IntRange(0, len(actions)).Draw(rt, "split")

		left := &Permission{}
		for _, a := range actions[:split] {
			left.AddStatement([]string{a}, nil, "")
		}
		right := &Permission{}
		for _, a := range actions[split:] {
			right.AddStatement([]string{a}, nil, "")
		}

		combined := &Permission{}
		combined.Extend(left).Extend(right)

		doc := combined.Document()
		if len(doc.Statements) != len(actions) {
			rt.Fatalf("expected %d statements, got %d", len(actions), len(doc.Statements))
		}
		for i, a := range actions {
			if doc.Statements[i].Actions[0] != a {
				rt.Fatalf("statement %d is %v, want %s", i, doc.Statements[i].Actions, a)
			}
		}

		first, err := doc.Render(ir.PlaceholderResolver)
		if err != nil {
			rt.Fatal(err)
		}
		second, err := combined.Document().Render(ir.PlaceholderResolver)
		if err != nil {
			rt.Fatal(err)
		}
		if first != second {
			rt.Fatalf("document rendering is not repeatable")
		}
	})

	assert.Equal(t, 0, (&Permission{}).Extend(nil).Len())
}

func TestServicePrincipal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		service    string
		want       string
		wantErr    bool
		suggestion string
	}{
		{service: "ec2", want: "ec2.amazonaws.com"},
		{service: "lambda", want: "lambda.amazonaws.com"},
		{service: "es", want: "es.amazonaws.com"},
		{service: "sns", want: "sns.amazonaws.com"},
		{service: "lamda", wantErr: true, suggestion: "lambda"},
		{service: "ecs", wantErr: true, suggestion: "ec2"},
		{service: "cloudformation", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.service, func(t *testing.T) {
			t.Parallel()

			got, err := ServicePrincipal(tc.service)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownTrustService)
				if tc.suggestion != "" {
					assert.Contains(t, err.Error(), `did you mean "`+tc.suggestion+`"`)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	assert.Equal(t, []string{"ec2", "es", "lambda", "sns"}, TrustServices())
}

func TestNewRole(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, rec := newScope(t)

	role, err := NewRole(ctx, scope, RoleArgs{Name: "app", Service: "lambda"})
	require.NoError(t, err)
	assert.Equal(t, "acme-dev-app", role.Name())
	assert.Equal(t, ir.Ref{Type: ir.TypeRole, Resource: "acme-dev-app", Attribute: "arn"}, role.ARN())

	res, ok := rec.Resource(ir.TypeRole, "acme-dev-app")
	require.True(t, ok)
	trust, err := res.Properties.(ir.RoleSpec).AssumeRolePolicy.Render(ir.PlaceholderResolver)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"Service":["lambda.amazonaws.com"]},"Action":["sts:AssumeRole"]}]}`, trust)
}

func TestNewRoleDefaultsToEC2(t *testing.T) {
	t.Parallel()

	decl, err := PlanRole(naming.MustNew("acme", "dev"), RoleArgs{Name: "app"})
	require.NoError(t, err)
	principal := decl.Spec.(ir.RoleSpec).AssumeRolePolicy.Statements[0].Principal
	assert.Equal(t, []string{"ec2.amazonaws.com"}, principal.Service)
}

func TestNewRoleUnknownServiceDeclaresNothing(t *testing.T) {
	t.Parallel()

	scope, rec := newScope(t)
	_, err := NewRole(context.Background(), scope, RoleArgs{Name: "app", Service: "lamda"})
	require.ErrorIs(t, err, ErrUnknownTrustService)
	assert.Zero(t, rec.Len())
}

func TestRoleAttachAndGrant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, rec := newScope(t)

	role, err := NewRole(ctx, scope, RoleArgs{Name: "app"})
	require.NoError(t, err)

	_, err = role.Attach(ctx, "ssm", ir.String("arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"))
	require.NoError(t, err)

	perm := NewPermission([]string{"s3:GetObject"}, ir.Strings("arn:aws:s3:::assets/*"), "")
	policy, err := role.Grant(ctx, "assets", perm)
	require.NoError(t, err)
	assert.Equal(t, "acme-dev-app-assets", policy.Name)

	// Later mutation does not leak into the granted policy.
	perm.AddStatement([]string{"s3:DeleteObject"}, nil, "")

	attachments := rec.ByType(ir.TypeRolePolicyAttachment)
	require.Len(t, attachments, 2)
	assert.Equal(t, "acme-dev-app-ssm", attachments[0].Name)
	assert.Equal(t, "acme-dev-app-assets", attachments[1].Name)
	spec := attachments[1].Properties.(ir.RolePolicyAttachmentSpec)
	assert.Equal(t, policy.ARN(), spec.PolicyARN)
	assert.Equal(t, role.RoleName(), spec.Role)

	granted, ok := rec.Resource(ir.TypePolicy, "acme-dev-app-assets")
	require.True(t, ok)
	assert.Len(t, granted.Properties.(ir.PolicySpec).Policy.Statements, 1)
}

func TestRoleInstanceProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, rec := newScope(t)

	role, err := NewRole(ctx, scope, RoleArgs{Name: "app"})
	require.NoError(t, err)

	first, err := role.CreateInstanceProfile(ctx)
	require.NoError(t, err)
	second, err := role.CreateInstanceProfile(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "acme-dev-app-instance-profile", first.Name)

	profiles := rec.ByType(ir.TypeInstanceProfile)
	require.Len(t, profiles, 1)
	assert.Equal(t, role.RoleName(), profiles[0].Properties.(ir.InstanceProfileSpec).Role, "bound to the role name, not the ARN")
}

func TestGroup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scope, rec := newScope(t)

	group, err := NewGroup(ctx, scope, GroupArgs{Name: "ops"})
	require.NoError(t, err)
	assert.Equal(t, "acme-dev-ops", group.Name())
	assert.Equal(t, ir.TypeGroup, group.Handle().Type)
	assert.Equal(t, "arn", group.ARN().Attribute)

	_, err = group.Grant(ctx, "registry", NewPermission([]string{"ecr:PutImage"}, nil, ""))
	require.NoError(t, err)

	attachments := rec.ByType(ir.TypeGroupPolicyAttachment)
	require.Len(t, attachments, 1)
	assert.Equal(t, "acme-dev-ops-registry", attachments[0].Name)
	assert.Equal(t, group.GroupName(), attachments[0].Properties.(ir.GroupPolicyAttachmentSpec).Group)

	_, err = group.Grant(ctx, "registry", NewPermission([]string{"ecr:PutImage"}, nil, ""))
	assert.ErrorIs(t, err, recorder.ErrDuplicateResource)
}
