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
	"github.com/pkg/errors"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/astutil"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/registry"
	"github.com/kleis-lang/kleis/types"
)

// InferDefines infers the types of definitions and returns env extended with their generalized
// types. Definitions are sorted into strongly-connected components and inferred in dependency
// order; within a component, definitions are monomorphic until the component is generalized.
// A definition with parameters has a curried function type.
func (ti *InferenceContext) InferDefines(defs []*ast.DefineDecl, env *TypeEnv) (*TypeEnv, error) {
	for _, group := range astutil.DefineGroups(defs) {
		ti.Reset()
		groupEnv := env
		vars := make([]*types.Var, len(group))
		for i, idx := range group {
			vars[i] = ti.vars.New()
			groupEnv = groupEnv.Extend(defs[idx].Name, vars[i])
		}
		for i, idx := range group {
			d := defs[idx]
			t, err := ti.inferDefine(groupEnv, d)
			if err != nil {
				return env, errors.Wrapf(err, "define %s", d.Name)
			}
			if err := ti.unify(vars[i], t); err != nil {
				return env, errors.Wrapf(ti.fail(d.Body, err), "define %s", d.Name)
			}
		}
		if err := ti.checkSubst(); err != nil {
			return env, err
		}
		for i, idx := range group {
			env = env.Extend(defs[idx].Name, typeutil.Generalize(ti.subst.Apply(vars[i]), nil))
		}
	}
	return env, nil
}

func (ti *InferenceContext) inferDefine(env *TypeEnv, d *ast.DefineDecl) (types.Type, error) {
	free := annotationVars(&ti.vars)
	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		tv := ti.vars.New()
		params[i] = tv
		if p.Type != nil {
			t, err := ti.data.ResolveFree(p.Type, nil, free)
			if err != nil {
				return nil, err
			}
			if err := ti.unify(tv, t); err != nil {
				return nil, err
			}
		}
		env = env.Extend(p.Name, tv)
	}
	body, err := ti.infer(env, d.Body)
	if err != nil {
		return nil, err
	}
	if d.Result != nil {
		t, err := ti.data.ResolveFree(d.Result, nil, free)
		if err != nil {
			return nil, err
		}
		if err := ti.unify(body, t); err != nil {
			return nil, ti.fail(d.Body, err)
		}
	}
	return ti.subst.Apply(types.Curry(params, body)), nil
}

// annotationVars maps lowercase names in type annotations to type-variables, consistently
// within one definition.
func annotationVars(vt *typeutil.VarTracker) registry.FreeFunc {
	params := typeutil.NewInstantiateParams(vt)
	return func(name string) (types.Type, error) { return params.Var(name), nil }
}

// CheckAxiom infers the body of a structure's axiom with its quantified variables bound. The
// structure's parameters are abstract, so implementations are not required.
func (ti *InferenceContext) CheckAxiom(s *ast.StructureDef, ax ast.Axiom, env *TypeEnv) (types.Type, error) {
	ti.Reset()
	scope := ti.structureScope(s)
	free := annotationVars(&ti.vars)
	for _, b := range ax.Vars {
		var t types.Type = ti.vars.New()
		if b.Type != nil {
			var err error
			if t, err = ti.data.ResolveFree(b.Type, scope, free); err != nil {
				return nil, errors.Wrapf(err, "axiom %s", ax.Name)
			}
		}
		env = env.Extend(b.Name, t)
	}
	ti.validate = false
	t, err := ti.infer(env, ax.Body)
	ti.validate = true
	if err != nil {
		return nil, errors.Wrapf(err, "axiom %s", ax.Name)
	}
	return ti.subst.Apply(t), nil
}

// CheckImplementation infers the inline operation bodies of an implements block against the
// structure's signatures, with the block's type arguments substituted for the structure's
// parameters.
func (ti *InferenceContext) CheckImplementation(impl *registry.Implementation, env *TypeEnv) error {
	s := impl.Structure
	for _, body := range impl.Def.Operations {
		if body.Expr == nil {
			continue
		}
		ti.Reset()
		op, _ := s.Operation(body.Name)
		scope := make(registry.TypeScope, len(s.TypeParams))
		free := annotationVars(&ti.vars)
		for i, p := range s.TypeParams {
			t, err := ti.data.ResolveFree(impl.Def.TypeArgs[i], nil, free)
			if err != nil {
				return err
			}
			scope[p.Name] = t
		}
		sig, err := ti.data.ResolveFree(op.Signature, scope, annotationVars(&ti.vars))
		if err != nil {
			return err
		}
		params, result := types.Uncurry(sig)
		if len(params) != len(body.Params) {
			return &types.Error{
				Kind: types.ArityMismatch,
				Name: body.Name,
				Msg:  "Body of " + body.Name + " in " + s.Name + impl.TypeArgsString() + " has the wrong number of parameters",
			}
		}
		bodyEnv := env
		for i, name := range body.Params {
			bodyEnv = bodyEnv.Extend(name, params[i])
		}
		t, err := ti.infer(bodyEnv, body.Expr)
		if err != nil {
			return errors.Wrapf(err, "%s%s: operation %s", s.Name, impl.TypeArgsString(), body.Name)
		}
		if err := ti.unify(result, t); err != nil {
			return errors.Wrapf(err, "%s%s: operation %s", s.Name, impl.TypeArgsString(), body.Name)
		}
	}
	return nil
}

// structureScope binds each parameter of a structure to a fresh type-variable.
func (ti *InferenceContext) structureScope(s *ast.StructureDef) registry.TypeScope {
	scope := make(registry.TypeScope, len(s.TypeParams))
	for _, p := range s.TypeParams {
		scope[p.Name] = ti.vars.New()
	}
	return scope
}
