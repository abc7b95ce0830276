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

package ami

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"golang.org/x/sync/errgroup"

	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/logging"
)

// ErrImageNotFound is returned when no image matches a query.
var ErrImageNotFound = errors.New("no matching ami")

// Finder looks up the most recent image matching a query.
type Finder struct {
	client EC2API
}

// NewFinder returns a Finder backed by client.
func NewFinder(client EC2API) *Finder {
	return &Finder{client: client}
}

// NewFinderFromClients returns a Finder backed by the EC2 client in clients.
func NewFinderFromClients(clients *AWSClients) *Finder {
	return NewFinder(clients.EC2)
}

// Resolve returns the newest available image published by query.Owner whose
// name matches query.NameFilter.
func (f *Finder) Resolve(ctx context.Context, query ir.ImageQuery) (ir.Image, error) {
	if query.Owner == "" || query.NameFilter == "" {
		return ir.Image{}, fmt.Errorf("image query %q needs an owner and a name filter", query)
	}

	input := &ec2.DescribeImagesInput{
		Owners: []string{query.Owner},
		Filters: []ec2types.Filter{
			{Name: aws.String("name"), Values: []string{query.NameFilter}},
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	}

	logging.DebugContext(ctx, "Describing images for %s", query)

	var images []ec2types.Image
	for {
		out, err := f.client.DescribeImages(ctx, input)
		if err != nil {
			return ir.Image{}, fmt.Errorf("failed to describe images for %s: %w", query, err)
		}
		images = append(images, out.Images...)
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}

	newest, ok := Newest(images)
	if !ok {
		return ir.Image{}, fmt.Errorf("%w for %s: no images found", ErrImageNotFound, query)
	}
	return newest, nil
}

// Newest picks the image with the latest creation date. Images with an
// unparseable date sort last; ties keep the first seen.
func Newest(images []ec2types.Image) (ir.Image, bool) {
	if len(images) == 0 {
		return ir.Image{}, false
	}

	sorted := append([]ec2types.Image(nil), images...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return creationTime(sorted[i]).After(creationTime(sorted[j]))
	})

	best := sorted[0]
	return ir.Image{
		ID:           aws.ToString(best.ImageId),
		Name:         aws.ToString(best.Name),
		CreationDate: aws.ToString(best.CreationDate),
	}, true
}

func creationTime(img ec2types.Image) time.Time {
	t, err := time.Parse(time.RFC3339, aws.ToString(img.CreationDate))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Result pairs a query with its resolved image.
type Result struct {
	Name  string
	Query ir.ImageQuery
	Image ir.Image
}

// FindAll resolves every named query in parallel. Results keep the order of
// names; the first failure cancels the rest.
func (f *Finder) FindAll(ctx context.Context, names []string, queries map[string]ir.ImageQuery) ([]Result, error) {
	results := make([]Result, len(names))
	for i, name := range names {
		query, ok := queries[name]
		if !ok {
			return nil, fmt.Errorf("unknown image %q", name)
		}
		results[i] = Result{Name: name, Query: query}
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		g.Go(func() error {
			img, err := f.Resolve(gctx, results[i].Query)
			if err != nil {
				return fmt.Errorf("%s: %w", results[i].Name, err)
			}
			results[i].Image = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
