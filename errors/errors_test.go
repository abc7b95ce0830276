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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	baseErr := errors.New("something went wrong")

	tests := []struct {
		name       string
		action     string
		detail     string
		err        error
		wantPrefix string
	}{
		{
			name:       "wrap with action only",
			action:     "declare vpc",
			err:        baseErr,
			wantPrefix: "failed to declare vpc: something went wrong",
		},
		{
			name:       "wrap with action and detail",
			action:     "read user data",
			detail:     "/tmp/boot.sh",
			err:        baseErr,
			wantPrefix: "failed to read user data (/tmp/boot.sh): something went wrong",
		},
		{
			name:   "wrap nil error returns nil",
			action: "do something",
			detail: "details",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := Wrap(tc.action, tc.detail, tc.err)
			if tc.err == nil {
				assert.NoError(t, result)
				return
			}

			require.Error(t, result)
			assert.Equal(t, tc.wantPrefix, result.Error())
			assert.ErrorIs(t, result, baseErr)
		})
	}
}

func TestWrapWithRemediation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		err             error
		wantRemediation bool
		wantSuffix      string
	}{
		{
			name:            "duplicate resource",
			err:             errors.New(`duplicate resource: aws:ec2/vpc:Vpc "acme-dev-main"`),
			wantRemediation: true,
			wantSuffix:      "resource name collision",
		},
		{
			name:            "engine duplicate URN",
			err:             errors.New("Duplicate resource URN 'urn:pulumi:dev::acme::aws:ec2/vpc:Vpc::acme-dev'"),
			wantRemediation: true,
			wantSuffix:      "resource name collision",
		},
		{
			name:            "unknown reference",
			err:             errors.New("unknown reference: acme-dev-main.id"),
			wantRemediation: true,
			wantSuffix:      "reference to an undeclared resource",
		},
		{
			name:            "access denied",
			err:             errors.New("AccessDenied: User is not authorized"),
			wantRemediation: true,
			wantSuffix:      "permission denied",
		},
		{
			name:            "ami lookup",
			err:             errors.New("ami lookup: no images matched"),
			wantRemediation: true,
			wantSuffix:      "machine image not found",
		},
		{
			name: "unmatched error",
			err:  errors.New("boom"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			wrapped := WrapWithRemediation(tc.err, "declare resource")
			require.Error(t, wrapped)
			assert.ErrorIs(t, wrapped, tc.err)

			var declErr *DeclarationError
			if !tc.wantRemediation {
				assert.False(t, errors.As(wrapped, &declErr))
				assert.Equal(t, "declare resource: boom", wrapped.Error())
				return
			}

			require.ErrorAs(t, wrapped, &declErr)
			assert.Equal(t, "declare resource: "+tc.wantSuffix, declErr.Message)
			assert.NotEmpty(t, declErr.Remediation)
			assert.Contains(t, wrapped.Error(), "Remediation:")
		})
	}

	assert.NoError(t, WrapWithRemediation(nil, "ignored"))
}
