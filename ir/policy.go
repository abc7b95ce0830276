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

package ir

import (
	"encoding/json"
	"fmt"
)

// PolicyVersion is the IAM policy language version stamped on every document.
const PolicyVersion = "2012-10-17"

// EffectAllow grants the statement's actions.
const EffectAllow = "Allow"

// Principal names who a trust statement applies to.
type Principal struct {
	Service []string `json:"Service,omitempty" yaml:"Service,omitempty"`
}

// PolicyStatement is one statement of an IAM policy document.
type PolicyStatement struct {
	Sid       string
	Effect    string
	Principal *Principal
	Actions   []string
	Resources []Value
}

// PolicyDocument is an IAM policy whose resources may reference other
// declared resources. It stays symbolic until rendered.
type PolicyDocument struct {
	Version    string
	Statements []PolicyStatement
}

func (PolicyDocument) isValue() {}

// NewPolicyDocument returns a document holding statements in order.
func NewPolicyDocument(statements ...PolicyStatement) PolicyDocument {
	return PolicyDocument{Version: PolicyVersion, Statements: statements}
}

type renderedStatement struct {
	Sid       string     `json:"Sid,omitempty" yaml:"Sid,omitempty"`
	Effect    string     `json:"Effect" yaml:"Effect"`
	Principal *Principal `json:"Principal,omitempty" yaml:"Principal,omitempty"`
	Action    []string   `json:"Action" yaml:"Action"`
	Resource  []string   `json:"Resource,omitempty" yaml:"Resource,omitempty"`
}

type renderedDocument struct {
	Version   string              `json:"Version" yaml:"Version"`
	Statement []renderedStatement `json:"Statement" yaml:"Statement"`
}

func (d PolicyDocument) resolved(resolve Resolver) (renderedDocument, error) {
	version := d.Version
	if version == "" {
		version = PolicyVersion
	}
	out := renderedDocument{Version: version, Statement: make([]renderedStatement, 0, len(d.Statements))}

	for i, st := range d.Statements {
		effect := st.Effect
		if effect == "" {
			effect = EffectAllow
		}
		rs := renderedStatement{
			Sid:       st.Sid,
			Effect:    effect,
			Principal: st.Principal,
			Action:    append([]string{}, st.Actions...),
		}
		for _, r := range st.Resources {
			s, err := Resolve(r, resolve)
			if err != nil {
				return renderedDocument{}, fmt.Errorf("statement %d: %w", i, err)
			}
			rs.Resource = append(rs.Resource, s)
		}
		out.Statement = append(out.Statement, rs)
	}
	return out, nil
}

// Render returns the document as JSON with references resolved.
func (d PolicyDocument) Render(resolve Resolver) (string, error) {
	doc, err := d.resolved(resolve)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MarshalJSON encodes the document with placeholder references.
func (d PolicyDocument) MarshalJSON() ([]byte, error) {
	doc, err := d.resolved(PlaceholderResolver)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// MarshalYAML encodes the document with placeholder references.
func (d PolicyDocument) MarshalYAML() (interface{}, error) {
	return d.resolved(PlaceholderResolver)
}
