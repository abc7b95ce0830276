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

package pulumiengine

import (
	"fmt"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/cowdogmoo/resource-adapter/ir"
)

// Output converts v into a Pulumi string output, resolving references to
// the attributes of registered resources.
func (e *Engine) Output(v ir.Value) (pulumi.StringOutput, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.output(v)
}

// output expects e.mu to be held.
func (e *Engine) output(v ir.Value) (pulumi.StringOutput, error) {
	if ref, ok := v.(ir.Ref); ok {
		return e.attr(ref)
	}

	refs := ir.CollectRefs(v)
	if len(refs) == 0 {
		s, err := ir.Resolve(v, func(r ir.Ref) (string, error) {
			return "", fmt.Errorf("%w: %s", ErrUnknownReference, r)
		})
		if err != nil {
			return pulumi.StringOutput{}, err
		}
		return pulumi.String(s).ToStringOutput(), nil
	}

	inputs := make([]interface{}, len(refs))
	for i, ref := range refs {
		out, err := e.attr(ref)
		if err != nil {
			return pulumi.StringOutput{}, err
		}
		inputs[i] = out
	}

	return pulumi.All(inputs...).ApplyT(func(vals []interface{}) (string, error) {
		resolved := make(map[ir.Ref]string, len(refs))
		for i, ref := range refs {
			resolved[ref] = vals[i].(string)
		}
		return ir.Resolve(v, func(r ir.Ref) (string, error) {
			s, ok := resolved[r]
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrUnknownReference, r)
			}
			return s, nil
		})
	}).(pulumi.StringOutput), nil
}

func (e *Engine) attr(ref ir.Ref) (pulumi.StringOutput, error) {
	res, ok := e.resources[ir.Handle{Type: ref.Type, Name: ref.Resource}]
	if !ok {
		return pulumi.StringOutput{}, fmt.Errorf("%w: %s", ErrUnknownReference, ref)
	}
	out, ok := res.attrs[ref.Attribute]
	if !ok {
		return pulumi.StringOutput{}, fmt.Errorf("%w: %s has no attribute %q", ErrUnknownReference, ref.Resource, ref.Attribute)
	}
	return out, nil
}

// optional returns nil for an unset value so the provider keeps its default.
func (e *Engine) optional(v ir.Value) (pulumi.StringPtrInput, error) {
	if v == nil {
		return nil, nil
	}
	return e.output(v)
}

func (e *Engine) array(values []ir.Value) (pulumi.StringArray, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(pulumi.StringArray, len(values))
	for i, v := range values {
		s, err := e.output(v)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func tags(m map[string]string) pulumi.StringMapInput {
	if len(m) == 0 {
		return nil
	}
	return pulumi.ToStringMap(m)
}

func stringPtr(s string) pulumi.StringPtrInput {
	if s == "" {
		return nil
	}
	return pulumi.String(s)
}
