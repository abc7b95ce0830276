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

// Package ir is the declaration model shared by the resource components and
// the engines. Components build declarations out of plain values and
// symbolic references to other resources' attributes; an engine resolves the
// references when it declares the resources.
package ir

import (
	"encoding/json"
	"fmt"
)

// Value is a resource property that is either known now (String), an
// attribute of another declared resource (Ref), a formatted combination of
// values (Format) or a policy document (PolicyDocument).
type Value interface {
	isValue()
}

// Resolver maps a reference to its concrete value.
type Resolver func(Ref) (string, error)

// String is a value known at declaration time.
type String string

func (String) isValue() {}

// Ref points at an output attribute of a declared resource.
type Ref struct {
	Type      Type
	Resource  string
	Attribute string
}

func (Ref) isValue() {}

// Placeholder renders the reference as ${resource.attribute}.
func (r Ref) Placeholder() string {
	return fmt.Sprintf("${%s.%s}", r.Resource, r.Attribute)
}

func (r Ref) String() string { return r.Placeholder() }

// MarshalJSON encodes the reference as its placeholder.
func (r Ref) MarshalJSON() ([]byte, error) { return json.Marshal(r.Placeholder()) }

// MarshalYAML encodes the reference as its placeholder.
func (r Ref) MarshalYAML() (interface{}, error) { return r.Placeholder(), nil }

// Format combines values with a fmt template. Only %s verbs are meaningful
// since every argument resolves to a string.
type Format struct {
	Template string
	Args     []Value
}

func (Format) isValue() {}

// Formatf builds a Format value.
func Formatf(template string, args ...Value) Format {
	return Format{Template: template, Args: args}
}

// MarshalJSON encodes the format with placeholders substituted.
func (f Format) MarshalJSON() ([]byte, error) {
	s, err := Resolve(f, PlaceholderResolver)
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

// MarshalYAML encodes the format with placeholders substituted.
func (f Format) MarshalYAML() (interface{}, error) {
	return Resolve(f, PlaceholderResolver)
}

// PlaceholderResolver resolves every reference to its ${resource.attribute} form.
func PlaceholderResolver(r Ref) (string, error) {
	return r.Placeholder(), nil
}

// Resolve computes the concrete string of v using resolve for references.
// A nil value resolves to the empty string.
func Resolve(v Value, resolve Resolver) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case String:
		return string(val), nil
	case Ref:
		return resolve(val)
	case Format:
		args := make([]interface{}, len(val.Args))
		for i, arg := range val.Args {
			s, err := Resolve(arg, resolve)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return fmt.Sprintf(val.Template, args...), nil
	case PolicyDocument:
		return val.Render(resolve)
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// Strings converts literal strings to values.
func Strings(in ...string) []Value {
	out := make([]Value, len(in))
	for i, s := range in {
		out[i] = String(s)
	}
	return out
}

// Asset is a local file handed to the engine as an upload source.
type Asset struct {
	Path string `json:"path" yaml:"path"`
	// Digest is the content digest at plan time, e.g. "sha256:9f86d0...".
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`
}
