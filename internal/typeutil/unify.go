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

package typeutil

import (
	"github.com/kleis-lang/kleis/types"
)

// Unify computes the most general substitution which makes a and b equal.
//
// Type-variables are bound after an occurs-check. Data types unify when their names and
// constructors match, by unifying arguments pairwise from left to right; function types unify
// their argument types first, and the resulting substitution is applied before their result
// types are unified.
func Unify(a, b types.Type) (types.Subst, error) {
	if a == b {
		return types.NewSubst(), nil
	}

	if av, ok := a.(*types.Var); ok {
		return bindVar(av, b)
	}
	if bv, ok := b.(*types.Var); ok {
		return bindVar(bv, a)
	}

	switch a := a.(type) {
	case *types.Prim:
		if b, ok := b.(*types.Prim); ok && a.Kind == b.Kind {
			return types.NewSubst(), nil
		}

	case *types.NatValue:
		if b, ok := b.(*types.NatValue); ok && a.Value == b.Value {
			return types.NewSubst(), nil
		}

	case *types.StringValue:
		if b, ok := b.(*types.StringValue); ok && a.Value == b.Value {
			return types.NewSubst(), nil
		}

	case *types.Data:
		b, ok := b.(*types.Data)
		if !ok || a.Name != b.Name || a.Constructor != b.Constructor {
			break
		}
		if len(a.Args) != len(b.Args) {
			return types.Subst{}, &types.Error{
				Kind:     types.ArityMismatch,
				Msg:      "Failed to unify " + types.TypeString(a) + " with " + types.TypeString(b) + ": different number of arguments",
				Name:     a.Constructor,
				Expected: a,
				Actual:   b,
			}
		}
		return UnifyList(a.Args, b.Args)

	case *types.Function:
		b, ok := b.(*types.Function)
		if !ok {
			break
		}
		s1, err := Unify(a.Arg, b.Arg)
		if err != nil {
			return types.Subst{}, err
		}
		s2, err := Unify(s1.Apply(a.Result), s1.Apply(b.Result))
		if err != nil {
			return types.Subst{}, err
		}
		return s1.Compose(s2), nil

	case *types.ForAll:
		return types.Subst{}, types.NewInternal("Type schemes must be instantiated before unification", a)
	}

	if _, ok := b.(*types.ForAll); ok {
		return types.Subst{}, types.NewInternal("Type schemes must be instantiated before unification", b)
	}
	return types.Subst{}, types.NewMismatch(a, b)
}

// UnifyList unifies two equal-length lists of types pairwise, threading the substitution.
func UnifyList(as, bs []types.Type) (types.Subst, error) {
	s := types.NewSubst()
	for i := range as {
		next, err := Unify(s.Apply(as[i]), s.Apply(bs[i]))
		if err != nil {
			return types.Subst{}, err
		}
		s = s.Compose(next)
	}
	return s, nil
}

func bindVar(v *types.Var, t types.Type) (types.Subst, error) {
	if tv, ok := t.(*types.Var); ok && tv.Id == v.Id {
		return types.NewSubst(), nil
	}
	if types.Occurs(v.Id, t) {
		return types.Subst{}, types.NewOccursCheck(v, t)
	}
	return types.Singleton(v.Id, t), nil
}
