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

// Package signature binds the parameters of a structure's operation signature against the
// argument types of a call, and computes the call's result type.
//
// Parameters are classified by kind: dimensions (`m: Nat`), string tags (`u: String`) and
// types (`T`). The first occurrence of a parameter binds it; every later occurrence must agree
// with the binding, so shape constraints such as equal matrix dimensions follow from how often a
// parameter recurs in the signature.
package signature

import (
	"strconv"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/registry"
	"github.com/kleis-lang/kleis/types"
)

// Interpreter interprets operation signatures against the registries.
type Interpreter struct {
	Structures *registry.StructureRegistry
	Vars       *typeutil.VarTracker
	// Lenient resolves a type parameter which no argument binds to the scalar type,
	// instead of failing with an UnresolvedParameter error.
	Lenient bool
}

// Bindings holds the parameter bindings of one call, kept apart by kind.
type Bindings struct {
	Dims    map[string]types.Type
	Types   map[string]types.Type
	Strings map[string]types.Type
}

// Constraint requires two types to unify. Constraints are produced where a binding could not
// be checked because an argument type is not yet known.
type Constraint struct {
	Expected types.Type
	Actual   types.Type
	// Index of the argument which produced the constraint.
	Arg int
}

// Result of interpreting a signature for one call.
type Result struct {
	Type        types.Type
	Bindings    Bindings
	Constraints []Constraint
}

type interp struct {
	*Interpreter
	data        *registry.DataRegistry
	structure   *ast.StructureDef
	op          *ast.OperationDecl
	args        []types.Type
	declared    map[string]types.ParamKind
	implicit    map[string]types.ParamKind
	first       map[string]int
	bindings    Bindings
	constraints []Constraint
}

// Interpret binds the parameters of op's signature against the argument types of a call
// and returns the resulting type.
func (in *Interpreter) Interpret(s *ast.StructureDef, op *ast.OperationDecl, args []types.Type) (*Result, error) {
	params, result := ast.SplitArrow(op.Signature)
	if len(params) != len(args) {
		return nil, &types.Error{
			Kind: types.ArityMismatch,
			Name: op.Name,
			Msg:  op.Name + " expects " + strconv.Itoa(len(params)) + " arguments, got " + strconv.Itoa(len(args)),
		}
	}

	st := &interp{
		Interpreter: in,
		data:        in.Structures.Data(),
		structure:   s,
		op:          op,
		args:        args,
		declared:    in.Structures.ParamKinds(s),
		implicit:    make(map[string]types.ParamKind),
		first:       make(map[string]int),
		bindings: Bindings{
			Dims:    make(map[string]types.Type),
			Types:   make(map[string]types.Type),
			Strings: make(map[string]types.Type),
		},
	}
	for i, p := range params {
		if err := st.match(p, args[i], types.TypeParam, i); err != nil {
			return nil, err
		}
	}
	t, err := st.build(result, types.TypeParam, len(args), st.unresolved)
	if err != nil {
		return nil, err
	}
	return &Result{Type: t, Bindings: st.bindings, Constraints: st.constraints}, nil
}

func (st *interp) isParam(name string) bool {
	if _, ok := st.declared[name]; ok {
		return true
	}
	if !registry.IsParamName(name) {
		return false
	}
	_, err := st.data.Resolve(&ast.TName{Name: name}, nil)
	return err != nil
}

func (st *interp) kindOf(name string, hint types.ParamKind) types.ParamKind {
	if k, ok := st.declared[name]; ok {
		return k
	}
	if k, ok := st.implicit[name]; ok {
		return k
	}
	st.implicit[name] = hint
	return hint
}

func (st *interp) bindingsFor(kind types.ParamKind) map[string]types.Type {
	switch kind {
	case types.DimParam:
		return st.bindings.Dims
	case types.StringParam:
		return st.bindings.Strings
	}
	return st.bindings.Types
}

// match walks a signature parameter in lock-step with an argument type.
func (st *interp) match(pattern ast.TypeExpr, actual types.Type, hint types.ParamKind, arg int) error {
	if tv, ok := actual.(*types.Var); ok {
		if p, ok := pattern.(*ast.TName); ok && st.isParam(p.Name) {
			return st.bind(p.Name, st.kindOf(p.Name, hint), tv, arg)
		}
		expected, err := st.build(pattern, hint, arg, st.fresh)
		if err != nil {
			return err
		}
		st.constraints = append(st.constraints, Constraint{Expected: expected, Actual: tv, Arg: arg})
		return nil
	}

	switch p := pattern.(type) {
	case *ast.TName:
		if st.isParam(p.Name) {
			return st.bind(p.Name, st.kindOf(p.Name, hint), actual, arg)
		}
		expected, err := st.data.Resolve(p, nil)
		if err != nil {
			return err
		}
		return st.require(expected, actual, arg)

	case *ast.TApp:
		d, ok := actual.(*types.Data)
		if !ok || !sameConstructor(p.Name, d) || len(d.Args) != len(p.Args) {
			return st.mismatch(pattern, hint, actual, arg)
		}
		kinds := st.data.FieldKinds(p.Name)
		for i, sub := range p.Args {
			k := types.TypeParam
			if i < len(kinds) {
				k = kinds[i]
			}
			if err := st.match(sub, d.Args[i], k, arg); err != nil {
				return err
			}
		}
		return nil

	case *ast.TArrow:
		fn, ok := actual.(*types.Function)
		if !ok {
			return st.mismatch(pattern, hint, actual, arg)
		}
		if err := st.match(p.From, fn.Arg, types.TypeParam, arg); err != nil {
			return err
		}
		return st.match(p.To, fn.Result, types.TypeParam, arg)

	case *ast.TNat:
		return st.require(types.Nat(p.Value), actual, arg)

	case *ast.TString:
		return st.require(types.String(p.Value), actual, arg)
	}
	return types.NewInternal("Unknown type expression in signature of "+st.op.Name, pattern)
}

func sameConstructor(name string, d *types.Data) bool {
	if d.Name == types.MetaType {
		return d.Constructor == name
	}
	return d.Name == name
}

// bind binds a parameter on its first occurrence, and checks later occurrences against the binding.
func (st *interp) bind(name string, kind types.ParamKind, actual types.Type, arg int) error {
	m := st.bindingsFor(kind)
	prev, ok := m[name]
	if !ok {
		if err := st.checkKind(name, kind, actual); err != nil {
			return err
		}
		m[name], st.first[name] = actual, arg
		return nil
	}
	if types.Equal(prev, actual) {
		return nil
	}
	if !types.IsGround(prev) || !types.IsGround(actual) {
		st.constraints = append(st.constraints, Constraint{Expected: prev, Actual: actual, Arg: arg})
		return nil
	}
	if kind == types.TypeParam {
		return &types.Error{
			Kind:     types.UnificationFailure,
			Name:     st.op.Name,
			Msg:      st.structure.Name + " requires consistent " + name + " for " + st.op.Name + "; got " + types.TypeString(prev) + " and " + types.TypeString(actual),
			Expected: prev,
			Actual:   actual,
		}
	}
	var values []string
	if first := st.first[name]; first != arg {
		values = []string{st.shape(st.args[first]), st.shape(st.args[arg])}
	} else {
		values = []string{types.TypeString(prev), types.TypeString(actual)}
	}
	return &types.Error{
		Kind:     types.DimensionMismatch,
		Name:     st.op.Name,
		Msg:      st.structure.Name + " requires consistent dimensions for " + st.op.Name + "; got " + values[0] + " and " + values[1],
		Expected: prev,
		Actual:   actual,
		Values:   values,
	}
}

func (st *interp) checkKind(name string, kind types.ParamKind, actual types.Type) error {
	ok := true
	switch actual.(type) {
	case *types.Var:
	case *types.NatValue:
		ok = kind == types.DimParam
	case *types.StringValue:
		ok = kind == types.StringParam
	default:
		ok = kind == types.TypeParam
	}
	if ok {
		return nil
	}
	return &types.Error{
		Kind:   types.UnificationFailure,
		Name:   name,
		Msg:    "Expected a " + kind.String() + " for " + name + " in " + st.op.Name + ", got " + types.TypeString(actual),
		Actual: actual,
	}
}

// shape formats the constructor parameters of an argument type: `(2,3)` for `Matrix(2, 3, Scalar)`
func (st *interp) shape(t types.Type) string {
	d, ok := t.(*types.Data)
	if !ok {
		return types.TypeString(t)
	}
	name := d.Name
	if name == types.MetaType {
		name = d.Constructor
	}
	kinds := st.data.FieldKinds(name)
	var dims []types.Type
	for i, arg := range d.Args {
		if i < len(kinds) && kinds[i] != types.TypeParam {
			dims = append(dims, arg)
		}
	}
	if len(dims) == 0 {
		return types.TypeString(t)
	}
	return types.DimString(dims)
}

func (st *interp) require(expected, actual types.Type, arg int) error {
	if types.IsGround(expected) && types.IsGround(actual) {
		if types.Equal(expected, actual) {
			return nil
		}
		return st.mismatchTypes(expected, actual)
	}
	st.constraints = append(st.constraints, Constraint{Expected: expected, Actual: actual, Arg: arg})
	return nil
}

func (st *interp) mismatch(pattern ast.TypeExpr, hint types.ParamKind, actual types.Type, arg int) error {
	expected, err := st.build(pattern, hint, arg, st.fresh)
	if err != nil {
		return err
	}
	return st.mismatchTypes(expected, actual)
}

func (st *interp) mismatchTypes(expected, actual types.Type) error {
	err := types.NewMismatch(expected, actual)
	err.Name = st.op.Name
	err.Msg = st.op.Name + ": " + err.Msg
	return err
}

type unboundFunc func(name string, kind types.ParamKind, arg int) (types.Type, error)

// fresh binds an unbound parameter to a fresh type-variable.
func (st *interp) fresh(name string, kind types.ParamKind, arg int) (types.Type, error) {
	tv := st.Vars.New()
	st.bindingsFor(kind)[name], st.first[name] = tv, arg
	return tv, nil
}

// unresolved handles a parameter of the result type which no argument bound.
func (st *interp) unresolved(name string, kind types.ParamKind, arg int) (types.Type, error) {
	if st.Lenient && kind == types.TypeParam {
		t := types.Scalar()
		st.bindings.Types[name] = t
		return t, nil
	}
	return nil, &types.Error{
		Kind: types.UnresolvedParameter,
		Name: name,
		Msg:  "Cannot resolve " + kind.String() + " parameter " + name + " of " + st.structure.Name + " in the result of " + st.op.Name,
	}
}

// build instantiates a signature type expression with the current bindings.
func (st *interp) build(e ast.TypeExpr, hint types.ParamKind, arg int, unbound unboundFunc) (types.Type, error) {
	switch e := e.(type) {
	case *ast.TName:
		if !st.isParam(e.Name) {
			return st.data.Resolve(e, nil)
		}
		kind := st.kindOf(e.Name, hint)
		if t, ok := st.bindingsFor(kind)[e.Name]; ok {
			return t, nil
		}
		return unbound(e.Name, kind, arg)

	case *ast.TApp:
		kinds := st.data.FieldKinds(e.Name)
		args := make([]types.Type, len(e.Args))
		for i, sub := range e.Args {
			k := types.TypeParam
			if i < len(kinds) {
				k = kinds[i]
			}
			t, err := st.build(sub, k, arg, unbound)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return st.data.Apply(e.Name, args)

	case *ast.TArrow:
		from, err := st.build(e.From, types.TypeParam, arg, unbound)
		if err != nil {
			return nil, err
		}
		to, err := st.build(e.To, types.TypeParam, arg, unbound)
		if err != nil {
			return nil, err
		}
		return &types.Function{Arg: from, Result: to}, nil

	case *ast.TNat:
		return types.Nat(e.Value), nil

	case *ast.TString:
		return types.String(e.Value), nil
	}
	return nil, types.NewInternal("Unknown type expression in signature of "+st.op.Name, e)
}
