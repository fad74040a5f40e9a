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

package registry

import (
	"strings"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/types"
)

// ValidateImplementation checks that some implementation of a structure accepts the argument
// types of a call to one of its operations.
//
// Each implementation's type arguments are substituted for the structure's parameters in the
// operation signature, and the resulting parameter types are unified with the argument types.
// Lowercase names in the type arguments (`implements MatrixAddable(m, n, ℝ)`) match any value.
// Argument types which are still unknown are accepted by any implementation.
func (r *StructureRegistry) ValidateImplementation(vt *typeutil.VarTracker, structureName, opName string, argTypes []types.Type) error {
	s, ok := r.structures[structureName]
	if !ok {
		return &types.Error{Kind: types.UnknownIdentifier, Name: structureName, Msg: "Unknown structure " + structureName}
	}
	op, ok := s.Operation(opName)
	if !ok {
		return &types.Error{Kind: types.UnknownIdentifier, Name: opName, Msg: "Operation " + opName + " is not declared by structure " + structureName}
	}
	params, _ := ast.SplitArrow(op.Signature)
	if len(params) != len(argTypes) {
		return arity(opName, len(params), len(argTypes))
	}
	for _, impl := range r.impls[structureName] {
		if r.accepts(vt, impl, params, argTypes) {
			return nil
		}
	}
	return &types.Error{
		Kind: types.MissingImplementation,
		Name: structureName,
		Msg:  structureName + " is not implemented for " + typeListString(argTypes) + " (required by " + opName + ")",
	}
}

func (r *StructureRegistry) accepts(vt *typeutil.VarTracker, impl *Implementation, params []ast.TypeExpr, argTypes []types.Type) bool {
	scope := make(TypeScope, len(impl.Structure.TypeParams))
	implFree := freeVars(vt)
	for i, p := range impl.Structure.TypeParams {
		t, err := r.data.ResolveFree(impl.Def.TypeArgs[i], nil, implFree)
		if err != nil {
			return false
		}
		scope[p.Name] = t
	}
	sigFree := freeVars(vt)
	expected := make([]types.Type, len(params))
	for i, p := range params {
		t, err := r.data.ResolveFree(p, scope, sigFree)
		if err != nil {
			return false
		}
		expected[i] = t
	}
	_, err := typeutil.UnifyList(expected, argTypes)
	return err == nil
}

func freeVars(vt *typeutil.VarTracker) FreeFunc {
	params := typeutil.NewInstantiateParams(vt)
	return func(name string) (types.Type, error) { return params.Var(name), nil }
}

func typeListString(ts []types.Type) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, t := range ts {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(types.TypeString(t))
	}
	sb.WriteByte(')')
	return sb.String()
}
