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

import "reflect"

var (
	refType    = reflect.TypeOf(Ref{})
	formatType = reflect.TypeOf(Format{})
	docType    = reflect.TypeOf(PolicyDocument{})
)

// CollectRefs returns every reference reachable from v in first-seen order,
// without duplicates. v is typically a Spec or a Value.
func CollectRefs(v interface{}) []Ref {
	var refs []Ref
	seen := map[Ref]bool{}
	collect(reflect.ValueOf(v), func(r Ref) {
		if !seen[r] {
			seen[r] = true
			refs = append(refs, r)
		}
	})
	return refs
}

func collect(v reflect.Value, visit func(Ref)) {
	if !v.IsValid() {
		return
	}

	switch v.Type() {
	case refType:
		visit(v.Interface().(Ref))
		return
	case formatType:
		for _, arg := range v.Interface().(Format).Args {
			collect(reflect.ValueOf(arg), visit)
		}
		return
	case docType:
		for _, st := range v.Interface().(PolicyDocument).Statements {
			for _, r := range st.Resources {
				collect(reflect.ValueOf(r), visit)
			}
		}
		return
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if !v.IsNil() {
			collect(v.Elem(), visit)
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				collect(v.Field(i), visit)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			collect(v.Index(i), visit)
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			collect(iter.Value(), visit)
		}
	}
}
