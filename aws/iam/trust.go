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
	"errors"
	"fmt"
	"sort"

	"github.com/cowdogmoo/resource-adapter/ir"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ErrUnknownTrustService is returned for a service name outside the trust table.
var ErrUnknownTrustService = errors.New("unknown trust service")

// Trust service short names.
const (
	ServiceEC2    = "ec2"
	ServiceLambda = "lambda"
	ServiceES     = "es"
	ServiceSNS    = "sns"
)

var trustPrincipals = map[string]string{
	ServiceEC2:    "ec2.amazonaws.com",
	ServiceLambda: "lambda.amazonaws.com",
	ServiceES:     "es.amazonaws.com",
	ServiceSNS:    "sns.amazonaws.com",
}

// TrustServices returns the supported service short names, sorted.
func TrustServices() []string {
	names := make([]string, 0, len(trustPrincipals))
	for name := range trustPrincipals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ServicePrincipal maps a service short name to its principal.
func ServicePrincipal(service string) (string, error) {
	if principal, ok := trustPrincipals[service]; ok {
		return principal, nil
	}
	if suggestion := suggestService(service); suggestion != "" {
		return "", fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownTrustService, service, suggestion)
	}
	return "", fmt.Errorf("%w: %q (supported: %v)", ErrUnknownTrustService, service, TrustServices())
}

// suggestService returns the closest supported name, or "" when nothing is close.
func suggestService(service string) string {
	names := TrustServices()

	ranks := fuzzy.RankFindNormalizedFold(service, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", 3
	for _, name := range names {
		if d := fuzzy.LevenshteinDistance(service, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// AssumeRolePolicy returns the trust document letting service assume a role.
func AssumeRolePolicy(service string) (ir.PolicyDocument, error) {
	principal, err := ServicePrincipal(service)
	if err != nil {
		return ir.PolicyDocument{}, err
	}
	return ir.NewPolicyDocument(ir.PolicyStatement{
		Effect:    ir.EffectAllow,
		Principal: &ir.Principal{Service: []string{principal}},
		Actions:   []string{"sts:AssumeRole"},
	}), nil
}
