// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package types

// Type-variable. Ids are unique within one inference run.
type Var struct {
	Id int
}

// Create a new type-variable with the given id.
func NewVar(id int) *Var { return &Var{Id: id} }

// Quantify binds each of the given type-variables over t, outermost first.
func Quantify(vars []*Var, t Type) Type {
	for i := len(vars) - 1; i >= 0; i-- {
		t = &ForAll{Var: vars[i], Body: t}
	}
	return t
}

// Unquantify strips the quantifiers from a type scheme, returning its bound variables and body.
func Unquantify(t Type) (vars []*Var, body Type) {
	for {
		fa, ok := t.(*ForAll)
		if !ok {
			return vars, t
		}
		vars = append(vars, fa.Var)
		t = fa.Body
	}
}
