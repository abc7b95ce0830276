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

package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/cowdogmoo/resource-adapter/aws/ec2"
	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/cowdogmoo/resource-adapter/logging"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
)

var imagesJSON bool

var imagesCmd = &cobra.Command{
	Use:   "images [release...]",
	Short: "Look up the newest Ubuntu AMI of each release",
	Long: `Resolve the newest Canonical Ubuntu server AMI for each release in the
configured region. Releases are codenames (jammy) or versions (22.04); all
supported releases are looked up when none are given.`,
	Example: `  resource-adapter images
  resource-adapter images jammy 20.04 --json`,
	RunE: runImages,
}

func init() {
	imagesCmd.Flags().BoolVar(&imagesJSON, "json", false, "Print results as JSON")
}

// imageRow is one line of images output.
type imageRow struct {
	Release      string `json:"release"`
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreationDate string `json:"creationDate"`
}

func runImages(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := configFromContext(cmd)
	if cfg == nil {
		cfg = &config.Config{}
	}

	releases := args
	if len(releases) == 0 {
		releases = ec2.UbuntuReleases()
	}
	queries, err := releaseQueries(releases)
	if err != nil {
		return err
	}

	finder, err := newImageFinder(ctx, cfg)
	if err != nil {
		return err
	}

	logging.DebugContext(ctx, "Looking up %d releases", len(releases))
	results, err := finder.FindAll(ctx, releases, queries)
	if err != nil {
		return fmt.Errorf("failed to look up images: %w", err)
	}

	rows := make([]imageRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, imageRow{Release: r.Name, ID: r.Image.ID, Name: r.Image.Name, CreationDate: r.Image.CreationDate})
	}

	if imagesJSON {
		logger := logging.NewCustomLoggerWithOptions("error", "json", true, false)
		logger.OutputWriter = cmd.OutOrStdout()
		return logger.Output(rows)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RELEASE\tAMI\tCREATED\tNAME")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Release, row.ID, row.CreationDate, row.Name)
	}
	return w.Flush()
}

// releaseQueries maps each release argument to its image query. Unknown
// releases fail with the closest supported name.
func releaseQueries(releases []string) (map[string]ir.ImageQuery, error) {
	queries := make(map[string]ir.ImageQuery, len(releases))
	for _, release := range releases {
		query, ok := ec2.UbuntuQuery(release)
		if !ok {
			supported := ec2.UbuntuReleases()
			ranks := fuzzy.RankFindNormalizedFold(release, supported)
			if len(ranks) > 0 {
				sort.Sort(ranks)
				return nil, fmt.Errorf("unknown release %q (did you mean %q?)", release, ranks[0].Target)
			}
			return nil, fmt.Errorf("unknown release %q (supported: %v)", release, supported)
		}
		queries[release] = query
	}
	return queries, nil
}
