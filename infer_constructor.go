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

package kleis

import (
	"strconv"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/registry"
	"github.com/kleis-lang/kleis/types"
)

// inferConstructor infers an application of a data constructor from the declared fields of its
// variant. Dimension and string fields are constructor parameters, bound from literal arguments;
// every other field is unified with the type of its argument.
//
// Shaped variants of the meta type may also be applied to their dimensions followed by one
// argument per element: `Matrix(2, 3, a, b, c, d, e, f)`.
func (ti *InferenceContext) inferConstructor(e ast.Expr, name string, args []ast.Expr, argTypes []types.Type) (types.Type, error) {
	vi, err := ti.data.InstantiateVariant(name, &ti.vars)
	if err != nil {
		return nil, ti.fail(e, err)
	}
	k := len(vi.Fields)
	switch {
	case len(args) == k:
		for i, field := range vi.Fields {
			if err := ti.bindField(vi, i, field, args[i], argTypes[i]); err != nil {
				return nil, ti.fail(e, err)
			}
		}

	case vi.IsShaped() && shapedArity(vi, args) == len(args):
		params := k - 1
		for i := 0; i < params; i++ {
			if err := ti.bindField(vi, i, vi.Fields[i], args[i], argTypes[i]); err != nil {
				return nil, ti.fail(e, err)
			}
		}
		for i := params; i < len(args); i++ {
			if err := ti.unify(vi.Fields[params], argTypes[i]); err != nil {
				return nil, ti.fail(args[i], err)
			}
		}

	default:
		return nil, ti.fail(e, &types.Error{
			Kind: types.ArityMismatch,
			Name: name,
			Msg:  "Constructor " + name + " expects " + strconv.Itoa(k) + " arguments, got " + strconv.Itoa(len(args)),
		})
	}
	return ti.subst.Apply(vi.Result), nil
}

func (ti *InferenceContext) bindField(vi *registry.VariantInstance, i int, field types.Type, arg ast.Expr, argType types.Type) error {
	kind := vi.Kinds[i]
	if kind == types.TypeParam {
		return ti.unify(field, argType)
	}
	// Parameters of other data types do not appear in the constructed type:
	_, free := field.(*types.Var)
	if lit := literalParam(arg, kind); lit != nil {
		if !free {
			return nil
		}
		return ti.unify(field, lit)
	}
	if _, ok := arg.(*ast.Const); ok {
		return paramError(vi, i, arg, nil)
	}
	actual := ti.subst.Apply(argType)
	switch t := actual.(type) {
	case *types.Var:
		return nil
	case *types.Prim:
		if types.KindOf(t) == kind {
			return nil
		}
	case *types.NatValue:
		if kind == types.DimParam {
			if !free {
				return nil
			}
			return ti.unify(field, t)
		}
	case *types.StringValue:
		if kind == types.StringParam {
			if !free {
				return nil
			}
			return ti.unify(field, t)
		}
	}
	return paramError(vi, i, arg, actual)
}

// paramError reports a constructor parameter given an argument which is not a literal of its kind.
func paramError(vi *registry.VariantInstance, i int, arg ast.Expr, actual types.Type) error {
	field := "field " + strconv.Itoa(i+1)
	if i < len(vi.Variant.Fields) && vi.Variant.Fields[i].Name != "" {
		field = "field " + vi.Variant.Fields[i].Name
	}
	got := ast.ExprString(arg)
	if actual != nil {
		got += " : " + types.TypeString(actual)
	}
	expected := "a natural number"
	if vi.Kinds[i] == types.StringParam {
		expected = "a string literal"
	}
	return &types.Error{
		Kind:   types.UnificationFailure,
		Name:   vi.Variant.Name,
		Actual: actual,
		Msg:    "Constructor " + vi.Variant.Name + " expects " + expected + " for " + field + ", got " + got,
	}
}

// literalParam returns the constructor parameter denoted by a literal argument: a natural number
// for dimensions, a quoted string for string tags.
func literalParam(arg ast.Expr, kind types.ParamKind) types.Type {
	c, ok := arg.(*ast.Const)
	if !ok {
		return nil
	}
	switch kind {
	case types.DimParam:
		if n, err := strconv.Atoi(c.Value); err == nil && n >= 0 {
			return types.Nat(n)
		}
	case types.StringParam:
		if s, err := strconv.Unquote(c.Value); err == nil {
			return types.String(s)
		}
	}
	return nil
}

// shapedArity returns the number of arguments of a shaped constructor whose leading dimensions
// are given by literal arguments, or -1 if the dimensions are not literals or call for more
// elements than were given.
func shapedArity(vi *registry.VariantInstance, args []ast.Expr) int {
	params := len(vi.Fields) - 1
	if len(args) < params {
		return -1
	}
	n := 1
	for i := 0; i < params; i++ {
		lit, ok := literalParam(args[i], types.DimParam).(*types.NatValue)
		if !ok {
			return -1
		}
		if lit.Value > len(args) {
			return -1
		}
		if n *= lit.Value; n > len(args) {
			return -1
		}
	}
	return params + n
}
