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

// PrimKind enumerates the primitive bootstrap kinds. They classify structure and constructor
// parameters while registries are loaded; they are never the type of an expression.
type PrimKind int

const (
	NatKind PrimKind = iota
	StringKind
	BoolKind
)

func (k PrimKind) String() string {
	switch k {
	case NatKind:
		return "Nat"
	case StringKind:
		return "String"
	case BoolKind:
		return "Bool"
	}
	return "?"
}

// ParamKind classifies a structure or constructor parameter.
type ParamKind int

const (
	// Type parameter: `T`
	TypeParam ParamKind = iota
	// Natural number dimension: `m: Nat`
	DimParam
	// String tag: `u: String`
	StringParam
)

func (k ParamKind) String() string {
	switch k {
	case DimParam:
		return "dimension"
	case StringParam:
		return "string"
	}
	return "type"
}

// KindOf returns the parameter kind denoted by a declared parameter type.
func KindOf(t Type) ParamKind {
	if p, ok := t.(*Prim); ok {
		switch p.Kind {
		case NatKind:
			return DimParam
		case StringKind:
			return StringParam
		}
	}
	return TypeParam
}
