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
	"strings"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/pattern"
	"github.com/kleis-lang/kleis/types"
)

func (ti *InferenceContext) infer(env *TypeEnv, e ast.Expr) (types.Type, error) {
	switch e := e.(type) {
	case *ast.Const:
		return types.Scalar(), nil

	case *ast.Object:
		if t, ok := env.Lookup(e.Name); ok {
			return typeutil.Instantiate(&ti.vars, t), nil
		}
		if _, v, ok := ti.data.LookupVariant(e.Name); ok && len(v.Fields) == 0 {
			return ti.inferConstructor(e, e.Name, nil, nil)
		}
		if s, ok := ti.structures.StructureForOperation(e.Name); ok {
			op, _ := s.Operation(e.Name)
			if params, _ := ast.SplitArrow(op.Signature); len(params) == 0 {
				return ti.inferStructureOp(e, s.Name, nil)
			}
		}
		return ti.freeVar(e.Name), nil

	case *ast.Operation:
		argTypes := make([]types.Type, len(e.Args))
		for i, arg := range e.Args {
			t, err := ti.infer(env, arg)
			if err != nil {
				return nil, err
			}
			argTypes[i] = t
		}
		if _, _, ok := ti.data.LookupVariant(e.Name); ok {
			return ti.inferConstructor(e, e.Name, e.Args, argTypes)
		}
		if t, ok := env.Lookup(e.Name); ok {
			return ti.inferApply(e, t, argTypes)
		}
		if s, ok := ti.structures.StructureForOperation(e.Name); ok {
			return ti.inferStructureOp(e, s.Name, argTypes)
		}
		return nil, ti.fail(e, &types.Error{
			Kind: types.UnknownIdentifier,
			Name: e.Name,
			Msg:  "Unknown operation " + e.Name,
			Hint: types.Suggest(e.Name, ti.names(env)),
		})

	case *ast.Match:
		return ti.inferMatch(env, e)

	case nil:
		return nil, types.Errorf(types.InternalError, "Empty expression")
	}
	return nil, ti.fail(e, types.NewInternal("Unknown expression", e))
}

// inferApply infers a call of a defined function or a function-typed variable.
func (ti *InferenceContext) inferApply(e *ast.Operation, t types.Type, argTypes []types.Type) (types.Type, error) {
	fn := typeutil.Instantiate(&ti.vars, t)
	params, _ := types.Uncurry(ti.subst.Apply(fn))
	if _, isVar := ti.subst.Apply(fn).(*types.Var); !isVar && len(params) != len(argTypes) {
		return nil, ti.fail(e, &types.Error{
			Kind: types.ArityMismatch,
			Name: e.Name,
			Msg:  e.Name + " expects " + strconv.Itoa(len(params)) + " arguments, got " + strconv.Itoa(len(argTypes)),
		})
	}
	result := ti.vars.New()
	if err := ti.unify(fn, types.Curry(argTypes, result)); err != nil {
		return nil, ti.fail(e, applyError(e.Name, err))
	}
	return ti.subst.Apply(result), nil
}

// inferStructureOp infers a call of an operation declared by a structure: the signature is
// interpreted against the argument types, deferred constraints are unified, and some
// implementation of the structure must accept the arguments.
func (ti *InferenceContext) inferStructureOp(e ast.Expr, structureName string, argTypes []types.Type) (types.Type, error) {
	s, _ := ti.structures.Structure(structureName)
	name := exprName(e)
	op, _ := s.Operation(name)
	args := make([]types.Type, len(argTypes))
	for i, t := range argTypes {
		args[i] = ti.subst.Apply(t)
	}
	res, err := ti.interp.Interpret(s, op, args)
	if err != nil {
		return nil, ti.fail(e, err)
	}
	for _, c := range res.Constraints {
		if err := ti.unify(c.Expected, c.Actual); err != nil {
			return nil, ti.fail(e, constraintError(s.Name, name, err))
		}
	}
	if ti.validate {
		for i, t := range argTypes {
			args[i] = ti.subst.Apply(t)
		}
		if err := ti.structures.ValidateImplementation(&ti.vars, s.Name, name, args); err != nil {
			return nil, ti.fail(e, err)
		}
	}
	return ti.subst.Apply(res.Type), nil
}

// constraintError reports a failed unification between two dimension or string values as a
// dimension mismatch.
func constraintError(structureName, opName string, err error) error {
	return dimensionError(opName, structureName+" requires consistent dimensions for "+opName, err)
}

// applyError reports a parameter conflict in a call of a defined function against the call.
func applyError(name string, err error) error {
	return dimensionError(name, name+" requires consistent dimensions", err)
}

func dimensionError(name, prefix string, err error) error {
	te, ok := types.AsError(err)
	if !ok || te.Kind != types.UnificationFailure {
		return err
	}
	if !isParamValue(te.Expected) || !isParamValue(te.Actual) {
		return err
	}
	values := []string{types.TypeString(te.Expected), types.TypeString(te.Actual)}
	return &types.Error{
		Kind:     types.DimensionMismatch,
		Name:     name,
		Msg:      prefix + "; got " + values[0] + " and " + values[1],
		Expected: te.Expected,
		Actual:   te.Actual,
		Values:   values,
	}
}

func isParamValue(t types.Type) bool {
	switch t.(type) {
	case *types.NatValue, *types.StringValue:
		return true
	}
	return false
}

func exprName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.Object:
		return e.Name
	case *ast.Operation:
		return e.Name
	}
	return ""
}

func (ti *InferenceContext) inferMatch(env *TypeEnv, e *ast.Match) (types.Type, error) {
	if len(e.Cases) == 0 {
		return nil, ti.fail(e, &types.Error{Kind: types.NonExhaustiveMatch, Msg: "Match must have at least one case"})
	}
	st, err := ti.infer(env, e.Scrutinee)
	if err != nil {
		return nil, err
	}
	var result types.Type
	for _, c := range e.Cases {
		bindings, s, err := ti.patterns.Check(c.Pattern, ti.subst.Apply(st))
		if err != nil {
			return nil, ti.fail(e, err)
		}
		ti.subst = ti.subst.Compose(s)
		// Case bindings are scoped to the case body:
		t, err := ti.infer(env.ExtendAll(bindings), c.Body)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = t
			continue
		}
		if err := ti.unify(result, t); err != nil {
			return nil, ti.fail(c.Body, err)
		}
	}

	patterns := e.Patterns()
	scrutinee := ti.subst.Apply(st)
	if missing := ti.patterns.CheckExhaustive(patterns, scrutinee); len(missing) > 0 {
		w := &types.Error{
			Kind:    types.NonExhaustiveMatch,
			Msg:     "Non-exhaustive match on " + types.TypeString(scrutinee) + ": missing " + strings.Join(missing, ", "),
			Actual:  scrutinee,
			Missing: missing,
		}
		if ti.strict {
			return nil, ti.fail(e, w)
		}
		ti.warnings = append(ti.warnings, w)
	}
	for _, i := range pattern.CheckReachable(patterns) {
		ti.warnings = append(ti.warnings, &types.Error{
			Kind:   types.UnreachablePattern,
			Name:   ast.PatternString(patterns[i]),
			Msg:    "Unreachable pattern " + ast.PatternString(patterns[i]) + " in case " + strconv.Itoa(i+1),
			Values: []string{strconv.Itoa(i)},
		})
	}
	return ti.subst.Apply(result), nil
}
