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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cowdogmoo/resource-adapter/aws/ami"
	"github.com/cowdogmoo/resource-adapter/aws/ec2"
	"github.com/cowdogmoo/resource-adapter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseQueries(t *testing.T) {
	t.Parallel()

	queries, err := releaseQueries([]string{"jammy", "20.04"})
	require.NoError(t, err)
	assert.Equal(t, ec2.UbuntuJammy22, queries["jammy"])
	assert.Equal(t, ec2.UbuntuFocal20, queries["20.04"])

	tests := []struct {
		release string
		wantErr string
	}{
		{release: "jamy", wantErr: `did you mean "jammy"?`},
		{release: "xenial", wantErr: "supported: [bionic focal jammy]"},
	}
	for _, tc := range tests {
		t.Run(tc.release, func(t *testing.T) {
			t.Parallel()
			_, err := releaseQueries([]string{tc.release})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRunImagesTable(t *testing.T) {
	stubImageFinder(t, "ami-0abc")
	t.Cleanup(func() { imagesJSON = false })
	imagesJSON = false

	cmd := newTestCommand(t, &config.Config{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	require.NoError(t, runImages(cmd, nil))

	out := buf.String()
	assert.Contains(t, out, "RELEASE")
	for _, release := range ec2.UbuntuReleases() {
		assert.Contains(t, out, release)
	}
	assert.Contains(t, out, "ami-0abc")
}

func TestRunImagesJSON(t *testing.T) {
	stubImageFinder(t, "ami-0abc")
	t.Cleanup(func() { imagesJSON = false })
	imagesJSON = true

	cmd := newTestCommand(t, &config.Config{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	require.NoError(t, runImages(cmd, []string{"jammy"}))

	var rows []imageRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "jammy", rows[0].Release)
	assert.Equal(t, "ami-0abc", rows[0].ID)
	assert.Equal(t, ec2.UbuntuJammy22.NameFilter, rows[0].Name)
}

func TestRunImagesFinderError(t *testing.T) {
	original := newImageFinder
	newImageFinder = func(context.Context, *config.Config) (*ami.Finder, error) {
		return nil, errors.New("AWS region not specified")
	}
	t.Cleanup(func() { newImageFinder = original })

	err := runImages(newTestCommand(t, &config.Config{}), []string{"jammy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AWS region not specified")
}
