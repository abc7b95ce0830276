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

package s3

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/engine/recorder"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBucket(t *testing.T) (*Bucket, *recorder.Recorder) {
	t.Helper()
	rec := recorder.New()
	scope, err := engine.NewScope(rec, naming.MustNew("acme", "dev"))
	require.NoError(t, err)
	b, err := NewBucket(context.Background(), scope, BucketArgs{Name: "assets"})
	require.NoError(t, err)
	return b, rec
}

func TestNewBucket(t *testing.T) {
	t.Parallel()

	b, rec := newBucket(t)
	assert.Equal(t, "acme-dev-assets", b.Name())
	assert.Equal(t, "assets", b.BucketName())

	res, ok := rec.Resource(ir.TypeBucket, "acme-dev-assets")
	require.True(t, ok)
	assert.Equal(t, "assets", res.Properties.(ir.BucketSpec).Bucket)

	_, err := PlanBucket(naming.MustNew("acme", "dev"), BucketArgs{})
	require.Error(t, err)
}

func TestBucketPermissions(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t)

	list := b.Permissions.List.Statements()
	require.Len(t, list, 1)
	assert.Equal(t, []string{"s3:ListAllMyBuckets"}, list[0].Actions)
	assert.Equal(t, ir.Strings("*"), list[0].Resources)

	read := b.Permissions.Read.Statements()
	require.Len(t, read, 1)
	assert.Equal(t, []string{"s3:ListBucket", "s3:GetObject"}, read[0].Actions)

	write := b.Permissions.Write.Statements()
	require.Len(t, write, 1)
	assert.Equal(t, []string{"s3:PutObject", "s3:DeleteObject"}, write[0].Actions)

	var resources []string
	for _, r := range write[0].Resources {
		s, err := ir.Resolve(r, func(ir.Ref) (string, error) { return "arn:aws:s3:::assets", nil })
		require.NoError(t, err)
		resources = append(resources, s)
	}
	assert.Equal(t, []string{"arn:aws:s3:::assets", "arn:aws:s3:::assets/*"}, resources)
}

func TestUpload(t *testing.T) {
	t.Parallel()

	b, rec := newBucket(t)
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o600))

	h, err := b.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "acme-dev-assets-index.html", h.Name)
	assert.Equal(t, []ir.Handle{h}, b.Objects())

	objects := rec.ByType(ir.TypeBucketObject)
	require.Len(t, objects, 1)
	spec := objects[0].Properties.(ir.BucketObjectSpec)
	assert.Equal(t, "index.html", spec.Key)
	assert.Equal(t, path, spec.Source.Path)
	assert.Equal(t, "sha256:"+hex.EncodeToString(sha256sum([]byte("<html></html>"))), spec.Source.Digest)
	assert.Equal(t, b.ID(), spec.Bucket)
}

func TestUploadRejectsNonRegularFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "directory", path: func(t *testing.T) string { return t.TempDir() }},
		{name: "missing", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.txt") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b, rec := newBucket(t)
			before := rec.Len()

			_, err := b.Upload(context.Background(), tc.path(t))
			require.ErrorIs(t, err, ErrNotRegularFile)
			assert.Equal(t, before, rec.Len())
			assert.Empty(t, b.Objects())
		})
	}
}

func sha256sum(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}
