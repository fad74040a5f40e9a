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

package pattern

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/construct"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/registry"
	"github.com/kleis-lang/kleis/types"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()
	data := registry.NewDataRegistry()
	tT := construct.Name("T")
	defs := []*ast.DataDef{
		construct.Data("Type", nil,
			construct.Variant("Scalar"),
			ast.DataVariant{Name: "Vector", Fields: []ast.DataField{
				construct.Field("n", construct.Name("Nat")),
				construct.Field("T", construct.Name("Type")),
			}}),
		construct.Data("Bool", nil, construct.Variant("True"), construct.Variant("False")),
		construct.Data("Option", []string{"T"}, construct.Variant("None"), construct.Variant("Some", tT)),
		construct.Data("List", []string{"T"}, construct.Variant("Nil"), construct.Variant("Cons", tT, construct.App("List", tT))),
		construct.Data("Color", nil, construct.Variant("A"), construct.Variant("B"), construct.Variant("C")),
	}
	for _, d := range defs {
		if err := data.Register(d); err != nil {
			t.Fatal(err)
		}
	}
	return &Checker{Data: data, Vars: &typeutil.VarTracker{}}
}

func pats(ps ...ast.Pattern) []ast.Pattern { return ps }

func TestCheckExhaustive(t *testing.T) {
	c := newChecker(t)
	optionT := types.NewData("Option", c.Vars.New())
	optionR := types.NewData("Option", types.Scalar())
	listR := types.NewData("List", types.Scalar())
	color := types.NewData("Color")
	P, V, W := construct.PCon, construct.PVar, construct.PWild

	cases := []struct {
		name     string
		patterns []ast.Pattern
		t        types.Type
		missing  []string
	}{
		{"missing None", pats(P("Some", V("x"))), optionT, []string{"None"}},
		{"both variants", pats(P("None"), P("Some", V("x"))), optionT, nil},
		{"missing C", pats(P("A"), P("B")), color, []string{"C"}},
		{"missing in order", pats(P("B")), color, []string{"A", "C"}},
		{"wildcard", pats(P("A"), W()), color, nil},
		{"variable", pats(V("c")), color, nil},
		{"nested constant", pats(P("None"), P("Some", construct.PConst("0"))), optionR, []string{"Some"}},
		{"nested complete", pats(P("None"), P("Some", construct.PConst("0")), P("Some", W())), optionR, nil},
		{"nested list", pats(P("Nil"), P("Cons", W(), P("Nil"))), listR, []string{"Cons"}},
		{"nested list complete", pats(P("Nil"), P("Cons", W(), P("Nil")), P("Cons", W(), P("Cons", W(), W()))), listR, nil},
		{"scalar constants", pats(construct.PConst("0"), construct.PConst("1")), types.Scalar(), []string{"Scalar"}},
		{"unknown type", pats(construct.PConst("0")), c.Vars.New(), []string{"_"}},
		{"unknown type covered", pats(construct.PConst("0"), V("x")), c.Vars.New(), nil},
	}
	for _, tc := range cases {
		missing := c.CheckExhaustive(tc.patterns, tc.t)
		if !reflect.DeepEqual(missing, tc.missing) {
			t.Fatalf("%s: expected missing %v, got %v", tc.name, tc.missing, spew.Sdump(missing))
		}
	}
}

func TestCheckReachable(t *testing.T) {
	P, V, W := construct.PCon, construct.PVar, construct.PWild
	cases := []struct {
		patterns    []ast.Pattern
		unreachable []int
	}{
		{pats(W(), P("A")), []int{1}},
		{pats(P("A"), P("B"), W()), nil},
		{pats(P("Some", V("x")), P("Some", construct.PConst("0")), P("None")), []int{1}},
		{pats(P("Some", construct.PConst("0")), P("Some", V("x"))), nil},
		{pats(construct.PConst("1"), construct.PConst("1"), V("y"), P("None")), []int{1, 3}},
	}
	for _, tc := range cases {
		if got := CheckReachable(tc.patterns); !reflect.DeepEqual(got, tc.unreachable) {
			t.Fatalf("expected unreachable %v, got %v for %s", tc.unreachable, got, spew.Sdump(tc.patterns))
		}
	}
}

func TestCheck(t *testing.T) {
	c := newChecker(t)
	optionR := types.NewData("Option", types.Scalar())

	bindings, _, err := c.Check(construct.PCon("Some", construct.PVar("x")), optionR)
	if err != nil {
		t.Fatal(err)
	}
	if len(bindings) != 1 || !types.IsScalar(bindings["x"]) {
		t.Fatalf("bindings: %s", spew.Sdump(bindings))
	}

	// matching against an unknown type refines it
	tv := c.Vars.New()
	bindings, s, err := c.Check(construct.PCon("Cons", construct.PVar("h"), construct.PVar("t")), tv)
	if err != nil {
		t.Fatal(err)
	}
	if str := types.TypeString(types.Curry([]types.Type{bindings["h"], bindings["t"]}, s.Apply(tv))); str != "'a → List('a) → List('a)" {
		t.Fatalf("refined: %s", str)
	}

	errs := []struct {
		p    ast.Pattern
		kind types.ErrorKind
	}{
		{construct.PCon("Cons", construct.PVar("x"), construct.PVar("x")), types.RegistryConflict},
		{construct.PCon("Some", construct.PVar("x"), construct.PVar("y")), types.ArityMismatch},
		{construct.PCon("True"), types.UnificationFailure},
		{construct.PCon("Sone", construct.PVar("x")), types.UnknownIdentifier},
	}
	for _, e := range errs {
		_, _, err := c.Check(e.p, types.NewData("List", optionR))
		if !types.IsKind(err, e.kind) {
			t.Fatalf("%s: expected %s, got %v", ast.PatternString(e.p), e.kind, err)
		}
	}
}

func TestSelect(t *testing.T) {
	cases := []ast.MatchCase{
		construct.Case(construct.PCon("None"), construct.Const("0")),
		construct.Case(construct.PCon("Some", construct.PConst("0")), construct.Const("1")),
		construct.Case(construct.PCon("Some", construct.PVar("y")), construct.Object("y")),
		construct.Case(construct.PWild(), construct.Const("3")),
	}
	value := construct.Op("Some", construct.Const("5"))
	for i := 0; i < 3; i++ {
		idx, bindings, ok := Select(value, cases)
		if !ok || idx != 2 || ast.ExprString(bindings["y"]) != "5" {
			t.Fatalf("select: %d %s", idx, spew.Sdump(bindings))
		}
	}

	if idx, _, _ := Select(construct.Object("None"), cases); idx != 0 {
		t.Fatalf("expected nullary constructor object to match None, got %d", idx)
	}
	if idx, _, _ := Select(construct.Op("Some", construct.Const("0")), cases); idx != 1 {
		t.Fatalf("expected first matching case to win, got %d", idx)
	}
	if idx, _, _ := Select(construct.Object("x"), cases); idx != 3 {
		t.Fatalf("expected wildcard case, got %d", idx)
	}
	if _, _, ok := Select(construct.Object("x"), cases[:3]); ok {
		t.Fatalf("expected no case to match")
	}
}
