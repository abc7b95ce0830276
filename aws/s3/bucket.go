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

// Package s3 provides buckets with list, read and write permission sets and
// single-file object uploads.
package s3

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/cowdogmoo/resource-adapter/aws/iam"
	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
)

// ErrNotRegularFile is returned when an upload source is missing or not a regular file.
var ErrNotRegularFile = errors.New("not a regular file")

// BucketPermission holds the permission sets granting access to one bucket.
type BucketPermission struct {
	List  *iam.Permission
	Read  *iam.Permission
	Write *iam.Permission
}

// NewBucketPermission scopes read and write access to the bucket and its
// objects. Listing buckets cannot be scoped and stays on every resource.
func NewBucketPermission(bucketARN ir.Value) BucketPermission {
	resources := []ir.Value{bucketARN, ir.Formatf("%s/*", bucketARN)}
	return BucketPermission{
		List:  iam.NewPermission([]string{"s3:ListAllMyBuckets"}, ir.Strings(iam.Wildcard), ""),
		Read:  iam.NewPermission([]string{"s3:ListBucket", "s3:GetObject"}, resources, ""),
		Write: iam.NewPermission([]string{"s3:PutObject", "s3:DeleteObject"}, resources, ""),
	}
}

// BucketArgs configures a bucket.
type BucketArgs struct {
	// Name is the bucket name; the resource is {project}-{stack}-{Name}.
	Name    string
	Tags    map[string]string
	Options ir.Options
}

// Bucket is an S3 bucket.
type Bucket struct {
	scope       *engine.Scope
	name        string
	bucket      string
	handle      ir.Handle
	opts        ir.Options
	objects     []ir.Handle
	Permissions BucketPermission
}

// PlanBucket builds the bucket declaration.
func PlanBucket(n naming.Context, args BucketArgs) (ir.Declaration, error) {
	if args.Name == "" {
		return ir.Declaration{}, errors.New("bucket name is empty")
	}
	return ir.Declaration{
		Name:    n.Name(args.Name),
		Spec:    ir.BucketSpec{Bucket: args.Name, Tags: args.Tags},
		Options: args.Options,
	}, nil
}

// NewBucket declares a bucket and builds its permission sets.
func NewBucket(ctx context.Context, scope *engine.Scope, args BucketArgs) (*Bucket, error) {
	decl, err := PlanBucket(scope.Naming(), args)
	if err != nil {
		return nil, err
	}
	h, err := scope.DeclareOne(ctx, decl)
	if err != nil {
		return nil, err
	}
	return &Bucket{
		scope:       scope,
		name:        decl.Name,
		bucket:      args.Name,
		handle:      h,
		opts:        args.Options,
		Permissions: NewBucketPermission(h.ARN()),
	}, nil
}

// Name returns the bucket's resource name.
func (b *Bucket) Name() string { return b.name }

// BucketName returns the S3 bucket name.
func (b *Bucket) BucketName() string { return b.bucket }

// Handle returns the declared bucket.
func (b *Bucket) Handle() ir.Handle { return b.handle }

// ID references the bucket ID.
func (b *Bucket) ID() ir.Ref { return b.handle.ID() }

// ARN references the bucket ARN.
func (b *Bucket) ARN() ir.Ref { return b.handle.ARN() }

// Objects returns the uploaded objects, in order.
func (b *Bucket) Objects() []ir.Handle { return append([]ir.Handle(nil), b.objects...) }

// PlanUpload builds the object declaration for a local file. The object key
// is the file's base name and the source carries the file's sha256 digest.
func PlanUpload(bucketName string, bucketID ir.Value, path string, opts ir.Options) (ir.Declaration, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ir.Declaration{}, fmt.Errorf("%w: %s: %v", ErrNotRegularFile, path, err)
	}
	if !info.Mode().IsRegular() {
		return ir.Declaration{}, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	sum, err := fileDigest(path)
	if err != nil {
		return ir.Declaration{}, err
	}

	base := filepath.Base(path)
	return ir.Declaration{
		Name: bucketName + "-" + base,
		Spec: ir.BucketObjectSpec{
			Bucket: bucketID,
			Key:    base,
			Source: ir.Asset{Path: path, Digest: sum.String()},
		},
		Options: opts,
	}, nil
}

func fileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	d, err := digest.Canonical.FromReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to digest %s: %w", path, err)
	}
	return d, nil
}

// Upload declares one object {bucket}-{base} from the file at path. It fails
// before declaring anything when path is not a regular file.
func (b *Bucket) Upload(ctx context.Context, path string) (ir.Handle, error) {
	decl, err := PlanUpload(b.name, b.ID(), path, b.opts)
	if err != nil {
		return ir.Handle{}, err
	}
	h, err := b.scope.DeclareOne(ctx, decl)
	if err != nil {
		return ir.Handle{}, err
	}
	b.objects = append(b.objects, h)
	return h, nil
}
