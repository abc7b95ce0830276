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

package ec2

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cowdogmoo/resource-adapter/engine"
	"github.com/cowdogmoo/resource-adapter/ir"
)

// CanonicalOwner is the AWS account publishing official Ubuntu images.
const CanonicalOwner = "099720109477"

// Ubuntu image queries, most recent amd64 server build of each release.
var (
	UbuntuBionic18 = ubuntuQuery("bionic-18.04")
	UbuntuFocal20  = ubuntuQuery("focal-20.04")
	UbuntuJammy22  = ubuntuQuery("jammy-22.04")
)

func ubuntuQuery(release string) ir.ImageQuery {
	return ir.ImageQuery{
		Owner:      CanonicalOwner,
		NameFilter: fmt.Sprintf("ubuntu/images/hvm-ssd/ubuntu-%s-amd64-server-*", release),
	}
}

var ubuntuReleases = map[string]ir.ImageQuery{
	"bionic": UbuntuBionic18,
	"focal":  UbuntuFocal20,
	"jammy":  UbuntuJammy22,
}

var ubuntuVersions = map[string]string{
	"18.04": "bionic",
	"20.04": "focal",
	"22.04": "jammy",
}

// UbuntuReleases returns the supported release codenames, sorted.
func UbuntuReleases() []string {
	names := make([]string, 0, len(ubuntuReleases))
	for name := range ubuntuReleases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UbuntuQuery returns the query for a release codename ("jammy") or
// version ("22.04").
func UbuntuQuery(release string) (ir.ImageQuery, bool) {
	release = strings.ToLower(strings.TrimSpace(release))
	if codename, ok := ubuntuVersions[release]; ok {
		release = codename
	}
	q, ok := ubuntuReleases[release]
	return q, ok
}

// UbuntuImages holds the resolved images of every supported release.
type UbuntuImages struct {
	Bionic18 ir.Image
	Focal20  ir.Image
	Jammy22  ir.Image
}

// ResolveUbuntu looks up every supported release through the scope's engine.
func ResolveUbuntu(ctx context.Context, scope *engine.Scope) (UbuntuImages, error) {
	var out UbuntuImages
	targets := []struct {
		query ir.ImageQuery
		dst   *ir.Image
	}{
		{UbuntuBionic18, &out.Bionic18},
		{UbuntuFocal20, &out.Focal20},
		{UbuntuJammy22, &out.Jammy22},
	}
	for _, target := range targets {
		img, err := scope.LookupImage(ctx, target.query)
		if err != nil {
			return UbuntuImages{}, err
		}
		*target.dst = img
	}
	return out, nil
}
