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
	"log"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/pattern"
	"github.com/kleis-lang/kleis/registry"
	"github.com/kleis-lang/kleis/signature"
	"github.com/kleis-lang/kleis/types"
)

// InferenceContext is a re-usable context for type inference against a pair of registries.
//
// Type-variable ids increase monotonically over the lifetime of the context, so types inferred
// by earlier calls never share variables with later ones. An inference context cannot be used
// concurrently.
type InferenceContext struct {
	data       *registry.DataRegistry
	structures *registry.StructureRegistry
	vars       typeutil.VarTracker
	subst      types.Subst
	interp     signature.Interpreter
	patterns   pattern.Checker
	free       map[string]*types.Var // unbound identifiers
	warnings   []*types.Error
	strict     bool
	validate   bool
	trace      bool
	logger     *log.Logger
	err        error
	invalid    ast.Expr
}

// Create a new type-inference context for the given registries.
func NewInferenceContext(data *registry.DataRegistry, structures *registry.StructureRegistry, opts Options) *InferenceContext {
	ti := &InferenceContext{
		data:       data,
		structures: structures,
		subst:      types.NewSubst(),
		free:       make(map[string]*types.Var),
		strict:     opts.StrictExhaustiveness,
		validate:   true,
		trace:      opts.Trace,
		logger:     opts.logger(),
	}
	ti.interp = signature.Interpreter{Structures: structures, Vars: &ti.vars, Lenient: opts.LenientTypeParams}
	ti.patterns = pattern.Checker{Data: data, Vars: &ti.vars}
	return ti
}

// Infer the type of expr within env. Advisory diagnostics found while inferring are available
// from Warnings until the next call.
func (ti *InferenceContext) Infer(expr ast.Expr, env *TypeEnv) (types.Type, error) {
	if expr == nil {
		return nil, types.Errorf(types.InternalError, "Empty expression")
	}
	ti.Reset()
	t, err := ti.infer(env, expr)
	if err != nil {
		return nil, err
	}
	if err := ti.checkSubst(); err != nil {
		return nil, ti.fail(expr, err)
	}
	t = ti.subst.Apply(t)
	if ti.trace {
		ti.logger.Printf("infer %s : %s (%d type-variables)", ast.ExprString(expr), types.TypeString(t), ti.vars.Count())
	}
	return t, nil
}

// Warnings returns the non-exhaustive match and unreachable pattern diagnostics of the last inference.
func (ti *InferenceContext) Warnings() []*types.Error { return ti.warnings }

// Get the error which caused inference to fail.
func (ti *InferenceContext) Error() error { return ti.err }

// Get the expression which caused inference to fail.
func (ti *InferenceContext) InvalidExpr() ast.Expr { return ti.invalid }

// Reset the state of the context. The context is reset automatically before inference.
// Type-variable ids are not reused.
func (ti *InferenceContext) Reset() {
	ti.subst, ti.warnings, ti.err, ti.invalid = types.NewSubst(), nil, nil, nil
	for name := range ti.free {
		delete(ti.free, name)
	}
	ti.vars.Reset()
}

func (ti *InferenceContext) fail(e ast.Expr, err error) error {
	if ti.err == nil {
		ti.err, ti.invalid = err, e
	}
	return err
}

// checkSubst verifies the substitution is idempotent after inference.
func (ti *InferenceContext) checkSubst() error {
	if ti.subst.IsIdempotent() {
		return nil
	}
	return types.NewInternal("Substitution is not idempotent", ti.subst.String())
}

func (ti *InferenceContext) unify(a, b types.Type) error {
	a, b = ti.subst.Apply(a), ti.subst.Apply(b)
	if ti.trace {
		ti.logger.Printf("unify %s ~ %s", types.RawTypeString(a), types.RawTypeString(b))
	}
	s, err := typeutil.Unify(a, b)
	if err != nil {
		return err
	}
	ti.subst = ti.subst.Compose(s)
	return nil
}

func (ti *InferenceContext) freeVar(name string) *types.Var {
	if tv, ok := ti.free[name]; ok {
		return tv
	}
	tv := ti.vars.New()
	ti.free[name] = tv
	return tv
}

// names returns every name an operation may refer to, for suggestions.
func (ti *InferenceContext) names(env *TypeEnv) []string {
	names := ti.data.VariantNames()
	names = append(names, ti.structures.OperationNames()...)
	return append(names, env.Names()...)
}
