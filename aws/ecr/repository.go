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

// Package ecr provides container image repositories with pull and push
// permission sets, and a registry that keeps repository names unique.
package ecr

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/cowdogmoo/resource-adapter/aws/iam"
	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// Image tag mutability settings.
const (
	Immutable = "IMMUTABLE"
	Mutable   = "MUTABLE"
)

// ErrDuplicateRepository is returned when a registry already holds a repository name.
var ErrDuplicateRepository = errors.New("repository already exists")

// RepositoryPermission holds the permission sets granting access to one repository.
type RepositoryPermission struct {
	Pull *iam.Permission
	Push *iam.Permission
}

// NewRepositoryPermission scopes pull and push access to repositoryARN.
func NewRepositoryPermission(repositoryARN ir.Value) RepositoryPermission {
	resources := []ir.Value{repositoryARN}
	return RepositoryPermission{
		Pull: iam.NewPermission([]string{"ecr:BatchCheckLayerAvailability", "ecr:BatchGetImage"}, resources, ""),
		Push: iam.NewPermission([]string{"ecr:PutImage"}, resources, ""),
	}
}

// RepositoryArgs configures a repository.
type RepositoryArgs struct {
	Name string
	// ImageTagMutability defaults to IMMUTABLE.
	ImageTagMutability string
	Tags               map[string]string
	Options            ir.Options
}

// Repository is an ECR repository.
type Repository struct {
	name        string
	logical     string
	handle      ir.Handle
	Permissions RepositoryPermission
}

// PlanRepository builds the repository declaration. The repository itself is
// named after the logical name; the resource after the naming prefix.
func PlanRepository(n naming.Context, args RepositoryArgs) (ir.Declaration, error) {
	mutability := args.ImageTagMutability
	if mutability == "" {
		mutability = Immutable
	}
	if mutability != Immutable && mutability != Mutable {
		return ir.Declaration{}, fmt.Errorf("repository %q: image tag mutability must be %s or %s", args.Name, Immutable, Mutable)
	}
	if args.Name == "" {
		return ir.Declaration{}, errors.New("repository name is empty")
	}
	return ir.Declaration{
		Name: n.Name(args.Name),
		Spec: ir.RepositorySpec{
			Name:               args.Name,
			ImageTagMutability: mutability,
			Tags:               args.Tags,
		},
		Options: args.Options,
	}, nil
}

// NewRepository declares a repository and builds its permission sets.
func NewRepository(ctx context.Context, scope *engine.Scope, args RepositoryArgs) (*Repository, error) {
	decl, err := PlanRepository(scope.Naming(), args)
	if err != nil {
		return nil, err
	}
	h, err := scope.DeclareOne(ctx, decl)
	if err != nil {
		return nil, err
	}
	return &Repository{
		name:        decl.Name,
		logical:     args.Name,
		handle:      h,
		Permissions: NewRepositoryPermission(h.ARN()),
	}, nil
}

// Name returns the repository's resource name.
func (r *Repository) Name() string { return r.name }

// RepositoryName returns the logical repository name.
func (r *Repository) RepositoryName() string { return r.logical }

// Handle returns the declared repository.
func (r *Repository) Handle() ir.Handle { return r.handle }

// ARN references the repository ARN.
func (r *Repository) ARN() ir.Ref { return r.handle.ARN() }

// URL references the repository URL used for docker push and pull.
func (r *Repository) URL() ir.Ref { return r.handle.Attr(ir.AttrRepositoryURL) }

// RegistryArgs configures the defaults applied to every repository of a registry.
type RegistryArgs struct {
	ImageTagMutability string
	Tags               map[string]string
	Options            ir.Options
}

// Registry tracks repositories by logical name.
type Registry struct {
	scope        *engine.Scope
	args         RegistryArgs
	repositories map[string]*Repository
}

// NewRegistry returns an empty registry declaring into scope.
func NewRegistry(scope *engine.Scope, args RegistryArgs) *Registry {
	return &Registry{scope: scope, args: args, repositories: map[string]*Repository{}}
}

// CreateRepository declares a repository with the registry defaults and
// records it under name.
func (r *Registry) CreateRepository(ctx context.Context, name string) (*Repository, error) {
	return r.Add(ctx, RepositoryArgs{Name: name})
}

// Add declares a repository and records it under args.Name. Empty fields of
// args take the registry defaults.
func (r *Registry) Add(ctx context.Context, args RepositoryArgs) (*Repository, error) {
	if _, ok := r.repositories[args.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRepository, args.Name)
	}
	if args.ImageTagMutability == "" {
		args.ImageTagMutability = r.args.ImageTagMutability
	}
	if args.Tags == nil {
		args.Tags = r.args.Tags
	}
	if args.Options.IsZero() {
		args.Options = r.args.Options
	}
	repo, err := NewRepository(ctx, r.scope, args)
	if err != nil {
		return nil, err
	}
	r.repositories[args.Name] = repo
	return repo, nil
}

// Repository returns the repository recorded under name.
func (r *Registry) Repository(name string) (*Repository, bool) {
	repo, ok := r.repositories[name]
	return repo, ok
}

// Names returns the recorded repository names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.repositories))
	for name := range r.repositories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
