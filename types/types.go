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

import "strconv"

// Type is the base interface for all types.
type Type interface {
	TypeName() string
}

var (
	_ Type = (*Prim)(nil)
	_ Type = (*NatValue)(nil)
	_ Type = (*StringValue)(nil)
	_ Type = (*Data)(nil)
	_ Type = (*Var)(nil)
	_ Type = (*ForAll)(nil)
	_ Type = (*Function)(nil)
)

func (t *Prim) TypeName() string        { return "Prim" }
func (t *NatValue) TypeName() string    { return "NatValue" }
func (t *StringValue) TypeName() string { return "StringValue" }
func (t *Data) TypeName() string        { return "Data" }
func (t *Var) TypeName() string         { return "Var" }
func (t *ForAll) TypeName() string      { return "ForAll" }
func (t *Function) TypeName() string    { return "Function" }

// Primitive bootstrap kind: `Nat`, `String` or `Bool`
type Prim struct {
	Kind PrimKind
}

// Natural number used as a constructor parameter: the `2` in `Matrix(2, 3, Scalar)`
type NatValue struct {
	Value int
}

// String tag used as a constructor parameter: a unit or label
type StringValue struct {
	Value string
}

// Data type, for any user- or library-defined type: `Matrix(2, 3, Scalar)`, `Option(Scalar)`
//
// For variants of the meta type `Type`, Name is "Type" and Constructor names the variant.
// For every other data type, Name and Constructor are both the declared type name and Args
// holds the type arguments.
type Data struct {
	Name        string
	Constructor string
	Args        []Type
}

// Quantified type scheme: `∀'a. 'a → 'a`
type ForAll struct {
	Var  *Var
	Body Type
}

// Function type: `Scalar → Scalar`
type Function struct {
	Arg    Type
	Result Type
}

// MetaType is the name of the data type whose variants classify values: `Scalar`, `Vector`, `Matrix`.
const MetaType = "Type"

// Scalar returns the base scalar type, `Type.Scalar`.
func Scalar() *Data { return &Data{Name: MetaType, Constructor: "Scalar"} }

// NewData creates a data type for a declared type with the given type arguments.
func NewData(name string, args ...Type) *Data {
	return &Data{Name: name, Constructor: name, Args: args}
}

// NewMeta creates a variant of the meta type: `NewMeta("Matrix", Nat(2), Nat(3), Scalar())`
func NewMeta(constructor string, args ...Type) *Data {
	return &Data{Name: MetaType, Constructor: constructor, Args: args}
}

// Nat creates a natural number parameter.
func Nat(n int) *NatValue { return &NatValue{Value: n} }

// String creates a string tag parameter.
func String(s string) *StringValue { return &StringValue{Value: s} }

// NewPrim creates a primitive bootstrap type.
func NewPrim(kind PrimKind) *Prim { return &Prim{Kind: kind} }

// IsMeta reports whether t is a variant of the meta type.
func IsMeta(t Type) bool {
	d, ok := t.(*Data)
	return ok && d.Name == MetaType
}

// IsScalar reports whether t is the base scalar type.
func IsScalar(t Type) bool {
	d, ok := t.(*Data)
	return ok && d.Name == MetaType && d.Constructor == "Scalar"
}

// Curry builds the function type `p1 → p2 → ... → result`.
func Curry(params []Type, result Type) Type {
	t := result
	for i := len(params) - 1; i >= 0; i-- {
		t = &Function{Arg: params[i], Result: t}
	}
	return t
}

// Uncurry splits a function type into its parameter types and final result type.
func Uncurry(t Type) (params []Type, result Type) {
	for {
		fn, ok := t.(*Function)
		if !ok {
			return params, t
		}
		params = append(params, fn.Arg)
		t = fn.Result
	}
}

// Equal reports whether a and b are structurally identical. Variables are compared by id.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case *Prim:
		b, ok := b.(*Prim)
		return ok && a.Kind == b.Kind
	case *NatValue:
		b, ok := b.(*NatValue)
		return ok && a.Value == b.Value
	case *StringValue:
		b, ok := b.(*StringValue)
		return ok && a.Value == b.Value
	case *Var:
		b, ok := b.(*Var)
		return ok && a.Id == b.Id
	case *Data:
		b, ok := b.(*Data)
		if !ok || a.Name != b.Name || a.Constructor != b.Constructor || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *Function:
		b, ok := b.(*Function)
		return ok && Equal(a.Arg, b.Arg) && Equal(a.Result, b.Result)
	case *ForAll:
		b, ok := b.(*ForAll)
		return ok && a.Var.Id == b.Var.Id && Equal(a.Body, b.Body)
	}
	return false
}

// Occurs reports whether the variable with the given id occurs free in t.
func Occurs(id int, t Type) bool {
	switch t := t.(type) {
	case *Var:
		return t.Id == id
	case *Data:
		for _, arg := range t.Args {
			if Occurs(id, arg) {
				return true
			}
		}
	case *Function:
		return Occurs(id, t.Arg) || Occurs(id, t.Result)
	case *ForAll:
		return t.Var.Id != id && Occurs(id, t.Body)
	}
	return false
}

// FreeVars returns the ids of variables occurring free in t, in order of first occurrence.
func FreeVars(t Type) []int {
	var ids []int
	seen := make(map[int]bool)
	var visit func(t Type, bound map[int]bool)
	visit = func(t Type, bound map[int]bool) {
		switch t := t.(type) {
		case *Var:
			if !bound[t.Id] && !seen[t.Id] {
				seen[t.Id] = true
				ids = append(ids, t.Id)
			}
		case *Data:
			for _, arg := range t.Args {
				visit(arg, bound)
			}
		case *Function:
			visit(t.Arg, bound)
			visit(t.Result, bound)
		case *ForAll:
			inner := make(map[int]bool, len(bound)+1)
			for k := range bound {
				inner[k] = true
			}
			inner[t.Var.Id] = true
			visit(t.Body, inner)
		}
	}
	visit(t, nil)
	return ids
}

// IsGround reports whether t contains no type-variables.
func IsGround(t Type) bool {
	switch t := t.(type) {
	case *Var:
		return false
	case *Data:
		for _, arg := range t.Args {
			if !IsGround(arg) {
				return false
			}
		}
	case *Function:
		return IsGround(t.Arg) && IsGround(t.Result)
	case *ForAll:
		return false
	}
	return true
}

// DimString formats a tuple of dimension parameters: `(2,3)`
func DimString(dims []Type) string {
	b := make([]byte, 0, 2+4*len(dims))
	b = append(b, '(')
	for i, d := range dims {
		if i > 0 {
			b = append(b, ',')
		}
		switch d := d.(type) {
		case *NatValue:
			b = strconv.AppendInt(b, int64(d.Value), 10)
		case *StringValue:
			b = strconv.AppendQuote(b, d.Value)
		default:
			b = append(b, TypeString(d)...)
		}
	}
	return string(append(b, ')'))
}
