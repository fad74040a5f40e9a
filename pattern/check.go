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

// Package pattern checks match patterns against types, matches values against patterns, and
// analyzes match cases for exhaustiveness and reachability.
package pattern

import (
	"strconv"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/registry"
	"github.com/kleis-lang/kleis/types"
)

// Checker checks patterns against the data types of a registry.
type Checker struct {
	Data *registry.DataRegistry
	Vars *typeutil.VarTracker
}

// Check verifies that p is compatible with the expected type. It returns the types of the
// variables p binds, and the substitution under which p matches values of the expected type.
// No shared state is modified.
func (c *Checker) Check(p ast.Pattern, expected types.Type) (map[string]types.Type, types.Subst, error) {
	bindings := make(map[string]types.Type)
	s, err := c.check(p, expected, types.NewSubst(), bindings)
	if err != nil {
		return nil, types.Subst{}, err
	}
	for name, t := range bindings {
		bindings[name] = s.Apply(t)
	}
	return bindings, s, nil
}

func (c *Checker) check(p ast.Pattern, expected types.Type, s types.Subst, bindings map[string]types.Type) (types.Subst, error) {
	switch p := p.(type) {
	case *ast.Wildcard:
		return s, nil

	case *ast.PVar:
		if _, ok := bindings[p.Name]; ok {
			return s, &types.Error{Kind: types.RegistryConflict, Name: p.Name, Msg: "Variable " + p.Name + " is bound more than once in pattern"}
		}
		bindings[p.Name] = expected
		return s, nil

	case *ast.PConstant:
		next, err := typeutil.Unify(s.Apply(expected), types.Scalar())
		if err != nil {
			return s, err
		}
		return s.Compose(next), nil

	case *ast.PConstructor:
		vi, err := c.Data.InstantiateVariant(p.Name, c.Vars)
		if err != nil {
			return s, err
		}
		if len(p.Args) != len(vi.Fields) {
			return s, &types.Error{
				Kind: types.ArityMismatch,
				Name: p.Name,
				Msg:  "Pattern " + p.Name + " expects " + strconv.Itoa(len(vi.Fields)) + " arguments, got " + strconv.Itoa(len(p.Args)),
			}
		}
		next, err := typeutil.Unify(s.Apply(expected), vi.Result)
		if err != nil {
			return s, err
		}
		s = s.Compose(next)
		for i, sub := range p.Args {
			if s, err = c.check(sub, s.Apply(vi.Fields[i]), s, bindings); err != nil {
				return s, err
			}
		}
		return s, nil
	}
	return s, types.NewInternal("Unknown pattern", p)
}
