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

// Package iam provides IAM roles, groups and the permission builder that
// accumulates policy statements for them.
package iam

import "github.com/cowdogmoo/resource-adapter/ir"

// Wildcard is the resource used when a statement names none.
const Wildcard = "*"

// Permission accumulates policy statements in call order. The zero value is
// an empty permission ready for use.
type Permission struct {
	statements []ir.PolicyStatement
}

// NewPermission returns a permission holding one statement, or an empty
// permission when actions is empty.
func NewPermission(actions []string, resources []ir.Value, sid string) *Permission {
	p := &Permission{}
	if len(actions) > 0 {
		p.AddStatement(actions, resources, sid)
	}
	return p
}

// AddStatement appends an Allow statement. A nil or empty resources list
// grants the actions on every resource.
func (p *Permission) AddStatement(actions []string, resources []ir.Value, sid string) *Permission {
	if len(resources) == 0 {
		resources = ir.Strings(Wildcard)
	}
	return p.Append(ir.PolicyStatement{
		Sid:       sid,
		Effect:    ir.EffectAllow,
		Actions:   append([]string(nil), actions...),
		Resources: append([]ir.Value(nil), resources...),
	})
}

// Append adds a pre-built statement as is.
func (p *Permission) Append(statement ir.PolicyStatement) *Permission {
	p.statements = append(p.statements, statement)
	return p
}

// Extend appends every statement of other, preserving order.
func (p *Permission) Extend(other *Permission) *Permission {
	if other == nil {
		return p
	}
	p.statements = append(p.statements, other.Statements()...)
	return p
}

// Statements returns a copy of the accumulated statements.
func (p *Permission) Statements() []ir.PolicyStatement {
	return append([]ir.PolicyStatement(nil), p.statements...)
}

// Len returns the number of statements.
func (p *Permission) Len() int { return len(p.statements) }

// Document builds the policy document from a snapshot of the statements.
// It has no side effects and may be called repeatedly.
func (p *Permission) Document() ir.PolicyDocument {
	return ir.NewPolicyDocument(p.Statements()...)
}
