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
	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/pattern"
	"github.com/kleis-lang/kleis/types"
)

// Evaluator evaluates expressions symbolically. Calls of defined functions are expanded and
// matches select their first matching case; constructors, structure operations and constants are
// left as they are, since values are never reduced to numbers.
type Evaluator struct {
	defines  map[string]*ast.DefineDecl
	maxDepth int
}

// NewEvaluator creates an evaluator over the given definitions.
func NewEvaluator(defines map[string]*ast.DefineDecl, maxDepth int) *Evaluator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxEvalDepth
	}
	return &Evaluator{defines: defines, maxDepth: maxDepth}
}

// Eval evaluates e. A match whose cases do not match the evaluated scrutinee is a
// NonExhaustiveMatch error.
func (ev *Evaluator) Eval(e ast.Expr) (ast.Expr, error) {
	return ev.eval(e, 0)
}

func (ev *Evaluator) eval(e ast.Expr, depth int) (ast.Expr, error) {
	if depth > ev.maxDepth {
		return nil, types.Errorf(types.InternalError, "Evaluation exceeded the maximum depth of %d", ev.maxDepth)
	}
	switch e := e.(type) {
	case *ast.Const:
		return e, nil

	case *ast.Object:
		if d, ok := ev.defines[e.Name]; ok && len(d.Params) == 0 {
			return ev.eval(d.Body, depth+1)
		}
		return e, nil

	case *ast.Operation:
		changed := false
		args := make([]ast.Expr, len(e.Args))
		for i, arg := range e.Args {
			v, err := ev.eval(arg, depth)
			if err != nil {
				return nil, err
			}
			args[i], changed = v, changed || v != arg
		}
		d, ok := ev.defines[e.Name]
		if !ok || len(d.Params) != len(args) {
			if !changed {
				return e, nil
			}
			return &ast.Operation{Name: e.Name, Args: args}, nil
		}
		bindings := make(map[string]ast.Expr, len(args))
		for i, name := range d.ParamNames() {
			bindings[name] = args[i]
		}
		return ev.eval(ast.Substitute(d.Body, bindings), depth+1)

	case *ast.Match:
		v, err := ev.eval(e.Scrutinee, depth)
		if err != nil {
			return nil, err
		}
		i, bindings, ok := pattern.Select(v, e.Cases)
		if !ok {
			return nil, &types.Error{
				Kind: types.NonExhaustiveMatch,
				Msg:  "No case matches " + ast.ExprString(v),
			}
		}
		return ev.eval(ast.Substitute(e.Cases[i].Body, bindings), depth+1)

	case nil:
		return nil, types.Errorf(types.InternalError, "Empty expression")
	}
	return nil, types.NewInternal("Unknown expression", e)
}
