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
	"testing"

	"github.com/kleis-lang/kleis/types"
)

func matrix(m, n int) types.Type {
	return types.NewMeta("Matrix", types.Nat(m), types.Nat(n), types.Scalar())
}

func TestUnifySymmetric(t *testing.T) {
	var vt VarTracker
	a, b := vt.New(), vt.New()
	pairs := [][2]types.Type{
		{a, types.Scalar()},
		{types.NewMeta("Matrix", a, types.Nat(3), b), matrix(2, 3)},
		{types.Curry([]types.Type{a, b}, a), types.Curry([]types.Type{types.Scalar(), types.Scalar()}, b)},
	}
	for _, p := range pairs {
		s1, err1 := Unify(p[0], p[1])
		s2, err2 := Unify(p[1], p[0])
		if err1 != nil || err2 != nil {
			t.Fatalf("unify %s ~ %s: %v, %v", types.TypeString(p[0]), types.TypeString(p[1]), err1, err2)
		}
		l, r := s1.Apply(p[0]), s2.Apply(p[1])
		if !types.Equal(l, s1.Apply(p[1])) || !types.Equal(r, s2.Apply(p[0])) {
			t.Fatalf("unifier does not equate %s and %s", types.TypeString(p[0]), types.TypeString(p[1]))
		}
		if types.TypeString(l) != types.TypeString(r) {
			t.Fatalf("expected symmetric unifiers, got %s and %s", types.TypeString(l), types.TypeString(r))
		}
		if !s1.IsIdempotent() || !s2.IsIdempotent() {
			t.Fatalf("expected idempotent unifiers")
		}
	}
}

func TestUnifyThreadsFunctionArguments(t *testing.T) {
	var vt VarTracker
	a, b := vt.New(), vt.New()
	// (a → a) ~ (Scalar → b): the binding a := Scalar must reach b
	s, err := Unify(types.Curry([]types.Type{a}, a), types.Curry([]types.Type{types.Scalar()}, b))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Apply(b); !types.IsScalar(got) {
		t.Fatalf("expected b := Scalar, got %s (%s)", types.TypeString(got), s)
	}
}

func TestUnifyFailures(t *testing.T) {
	var vt VarTracker
	a := vt.New()

	_, err := Unify(a, types.NewData("List", a))
	if !types.IsKind(err, types.OccursCheck) {
		t.Fatalf("expected occurs-check, got %v", err)
	}

	_, err = Unify(matrix(2, 3), matrix(3, 2))
	if !types.IsKind(err, types.UnificationFailure) {
		t.Fatalf("expected unification failure, got %v", err)
	}
	if err.Error() != "Failed to unify 2 with 3" {
		t.Fatalf("message: %s", err)
	}

	_, err = Unify(types.NewData("Option", types.Scalar()), types.NewData("Option"))
	if !types.IsKind(err, types.ArityMismatch) {
		t.Fatalf("expected arity mismatch, got %v", err)
	}

	_, err = Unify(types.Quantify([]*types.Var{a}, a), types.Scalar())
	if !types.IsKind(err, types.InternalError) {
		t.Fatalf("expected internal error for a type scheme, got %v", err)
	}

	if _, err := Unify(a, a); err != nil {
		t.Fatal(err)
	}
}

func TestInstantiateGeneralize(t *testing.T) {
	var vt VarTracker
	a, b := vt.New(), vt.New()
	ty := types.Curry([]types.Type{a, b}, a)

	// b is free in the environment, so only a is quantified
	scheme := Generalize(ty, func(id int) bool { return id == b.Id })
	if s := types.TypeString(scheme); s != "∀'a. 'a → 'b → 'a" {
		t.Fatalf("scheme: %s", s)
	}

	inst1, inst2 := Instantiate(&vt, scheme), Instantiate(&vt, scheme)
	if types.Equal(inst1, inst2) {
		t.Fatalf("expected fresh variables for each instantiation")
	}
	params, _ := types.Uncurry(inst1)
	if params[0].(*types.Var).Id == a.Id || params[1].(*types.Var).Id != b.Id {
		t.Fatalf("instantiate: %s", types.RawTypeString(inst1))
	}
	if Instantiate(&vt, ty) != ty {
		t.Fatalf("expected monomorphic types to be returned unchanged")
	}

	ip := NewInstantiateParams(&vt)
	if ip.Var("m") != ip.Var("m") || ip.Var("m") == ip.Var("n") {
		t.Fatalf("expected one variable per parameter name")
	}
}

func TestVarTracker(t *testing.T) {
	var vt VarTracker
	vt.New()
	vt.New()
	vt.Reset()
	if v := vt.New(); v.Id != 2 || vt.Count() != 1 {
		t.Fatalf("expected ids to continue after reset, got %d (count %d)", v.Id, vt.Count())
	}
}
