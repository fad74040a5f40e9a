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
	"bytes"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/construct"
	"github.com/kleis-lang/kleis/types"
)

func newTestChecker(t *testing.T, opts Options, src string) *Checker {
	t.Helper()
	c, err := NewChecker(opts)
	if err != nil {
		t.Fatal(err)
	}
	if src != "" {
		if err := c.LoadSource("test", src); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func checkType(t *testing.T, c *Checker, src string) (string, []*types.Error) {
	t.Helper()
	res, err := c.CheckSource(src)
	if err != nil {
		t.Fatalf("%s: %v", src, err)
	}
	return types.TypeString(res.Type), res.Warnings
}

func checkError(t *testing.T, c *Checker, src string, kind types.ErrorKind) *types.Error {
	t.Helper()
	_, err := c.CheckSource(src)
	if err == nil {
		t.Fatalf("%s: expected %s error", src, kind)
	}
	te, ok := types.AsError(err)
	if !ok || te.Kind != kind {
		t.Fatalf("%s: expected %s error, got %v", src, kind, err)
	}
	return te
}

func TestBoolNegation(t *testing.T) {
	c := newTestChecker(t, Options{}, `
define not(b) = match b { True => False | False => True }
`)
	ty, ok := c.FunctionType("not")
	if !ok || types.TypeString(ty) != "Bool → Bool" {
		t.Fatalf("not: %v", ty)
	}

	typeString, warnings := checkType(t, c, "not(True)")
	if typeString != "Bool" || len(warnings) != 0 {
		t.Fatalf("type: %s %v", typeString, warnings)
	}

	v, err := c.EvaluateSource("not(True)")
	if err != nil {
		t.Fatal(err)
	}
	if s := ast.ExprString(v); s != "False" {
		t.Fatalf("value: %s", s)
	}
}

func TestMatrixDimensionMismatch(t *testing.T) {
	c := newTestChecker(t, Options{}, "")
	te := checkError(t, c, "add(Matrix(2, 3, 1, 2, 3, 4, 5, 6), Matrix(3, 2, 1, 2, 3, 4, 5, 6))", types.DimensionMismatch)
	if len(te.Values) != 2 || te.Values[0] != "(2,3)" || te.Values[1] != "(3,2)" {
		t.Fatalf("values: %v", te.Values)
	}
	t.Logf("error: %v", te)

	typeString, _ := checkType(t, c, "add(Matrix(2, 3, 1, 2, 3, 4, 5, 6), Matrix(2, 3, 6, 5, 4, 3, 2, 1))")
	if typeString != "Matrix(2, 3, Scalar)" {
		t.Fatalf("type: %s", typeString)
	}

	typeString, _ = checkType(t, c, "transpose(multiply(Matrix(2, 3, 1, 2, 3, 4, 5, 6), Matrix(3, 1, 1, 2, 3)))")
	if typeString != "Matrix(1, 2, Scalar)" {
		t.Fatalf("type: %s", typeString)
	}
}

func TestDefinedDimensionMismatch(t *testing.T) {
	c := newTestChecker(t, Options{}, "define f(a, b) = add(a, b)")
	te := checkError(t, c, "f(Matrix(2, 3, 1, 2, 3, 4, 5, 6), Matrix(3, 2, 1, 2, 3, 4, 5, 6))", types.DimensionMismatch)
	if te.Error() != "f requires consistent dimensions; got 2 and 3" {
		t.Fatalf("error: %v", te)
	}
	if te.Name != "f" || len(te.Values) != 2 {
		t.Fatalf("error: %#v", te)
	}

	checkError(t, c, "f(Matrix(2, 3, 1, 2, 3, 4, 5, 6), True)", types.UnificationFailure)
	typeString, _ := checkType(t, c, "f(Matrix(2, 3, 1, 2, 3, 4, 5, 6), Matrix(2, 3, 6, 5, 4, 3, 2, 1))")
	if typeString != "Matrix(2, 3, Scalar)" {
		t.Fatalf("type: %s", typeString)
	}
}

func TestMatchOption(t *testing.T) {
	c := newTestChecker(t, Options{}, "")

	typeString, warnings := checkType(t, c, "match None { None => 0 | Some(x) => x }")
	if typeString != "Scalar" || len(warnings) != 0 {
		t.Fatalf("type: %s %v", typeString, warnings)
	}

	typeString, warnings = checkType(t, c, "match x { Some(y) => y }")
	if typeString != "'a" {
		t.Fatalf("type: %s", typeString)
	}
	if len(warnings) != 1 || warnings[0].Kind != types.NonExhaustiveMatch {
		t.Fatalf("warnings: %v", warnings)
	}
	if missing := strings.Join(warnings[0].Missing, ", "); missing != "None" {
		t.Fatalf("missing: %s", missing)
	}
	if msg := warnings[0].Error(); msg != "Non-exhaustive match on Option('a): missing None" {
		t.Fatalf("warning: %s", msg)
	}
}

func TestStrictExhaustiveness(t *testing.T) {
	c := newTestChecker(t, Options{StrictExhaustiveness: true}, "")
	te := checkError(t, c, "match x { Some(y) => y }", types.NonExhaustiveMatch)
	if len(te.Missing) != 1 || te.Missing[0] != "None" {
		t.Fatalf("missing: %v", te.Missing)
	}

	typeString, _ := checkType(t, c, "match x { Some(y) => y | None => 0 }")
	if typeString != "Scalar" {
		t.Fatalf("type: %s", typeString)
	}
}

func TestUnreachablePattern(t *testing.T) {
	c := newTestChecker(t, Options{}, "")
	_, warnings := checkType(t, c, "match True { _ => 0 | True => 1 }")
	if len(warnings) != 1 || warnings[0].Kind != types.UnreachablePattern {
		t.Fatalf("warnings: %v", warnings)
	}
	if msg := warnings[0].Error(); msg != "Unreachable pattern True in case 2" {
		t.Fatalf("warning: %s", msg)
	}
}

func TestMatchBindingsScoped(t *testing.T) {
	var src strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&src, "define d%02d(x) = x\n", i)
	}
	src.WriteString("data Pair = Pair(ℝ, Bool)\n")
	c := newTestChecker(t, Options{}, src.String())

	if typeString, _ := checkType(t, c, "zz"); typeString != "'a" {
		t.Fatalf("type before match: %s", typeString)
	}
	typeString, _ := checkType(t, c, "match Pair(1, True) { Pair(aa, zz) => aa }")
	if typeString != "Scalar" {
		t.Fatalf("type: %s", typeString)
	}
	for _, name := range []string{"aa", "zz"} {
		if _, ok := c.env.Lookup(name); ok {
			t.Fatalf("%s escaped its match case", name)
		}
	}
	if typeString, _ := checkType(t, c, "zz"); typeString != "'a" {
		t.Fatalf("type after match: %s", typeString)
	}
}

func TestShapedConstructor(t *testing.T) {
	c := newTestChecker(t, Options{}, "")

	typeString, _ := checkType(t, c, "Matrix(2, 3, a, b, c, d, e, f)")
	if typeString != "Matrix(2, 3, 'a)" {
		t.Fatalf("type: %s", typeString)
	}
	typeString, _ = checkType(t, c, "Matrix(2, 2, 1, 2, 3, x)")
	if typeString != "Matrix(2, 2, Scalar)" {
		t.Fatalf("type: %s", typeString)
	}
	typeString, _ = checkType(t, c, "Vector(3, 1, 2, 3)")
	if typeString != "Vector(3, Scalar)" {
		t.Fatalf("type: %s", typeString)
	}

	checkError(t, c, "Matrix(2, 2, 1, 2, 3, True)", types.UnificationFailure)
	te := checkError(t, c, "Matrix(2, 3, 1, 2)", types.ArityMismatch)
	if te.Error() != "Constructor Matrix expects 3 arguments, got 4" {
		t.Fatalf("error: %v", te)
	}
	te = checkError(t, c, "Matrix(4294967296, 4294967296)", types.ArityMismatch)
	if te.Error() != "Constructor Matrix expects 3 arguments, got 2" {
		t.Fatalf("error: %v", te)
	}
	checkError(t, c, "Matrix(9223372036854775807, 2, 1, 2)", types.ArityMismatch)
}

func TestConstructorParams(t *testing.T) {
	c := newTestChecker(t, Options{}, "data Box = Box(n: Nat, ℝ)")

	for _, src := range []string{"Box(2, 1)", "Box(k, 1)"} {
		if typeString, _ := checkType(t, c, src); typeString != "Box" {
			t.Fatalf("%s: %s", src, typeString)
		}
	}

	te := checkError(t, c, "Box(True, 1)", types.UnificationFailure)
	if te.Error() != "Constructor Box expects a natural number for field n, got True : Bool" {
		t.Fatalf("error: %v", te)
	}
	checkError(t, c, "Box(Matrix(2, 2, 1, 2, 3, 4), 1)", types.UnificationFailure)
	checkError(t, c, "Box(-1, 1)", types.UnificationFailure)

	te = checkError(t, c, "Matrix(2.5, 3, x)", types.UnificationFailure)
	if te.Error() != "Constructor Matrix expects a natural number for field m, got 2.5" {
		t.Fatalf("error: %v", te)
	}
	if typeString, _ := checkType(t, c, "Matrix(2, 3, x)"); typeString != "Matrix(2, 3, 'a)" {
		t.Fatalf("type: %s", typeString)
	}
}

func TestRegistryConflict(t *testing.T) {
	c := newTestChecker(t, Options{NoStdlib: true}, "data A = Foo")
	err := c.LoadSource("b", "data B = Bar | Foo")
	if !types.IsKind(err, types.RegistryConflict) {
		t.Fatalf("expected registry conflict, got %v", err)
	}
	if c.Data().HasType("B") {
		t.Fatalf("B should not be registered")
	}
	if _, _, ok := c.Data().LookupVariant("Bar"); ok {
		t.Fatalf("Bar should not be registered")
	}
	if typeName, _, _ := c.Data().LookupVariant("Foo"); typeName != "A" {
		t.Fatalf("Foo: %s", typeName)
	}
}

func TestDefines(t *testing.T) {
	c := newTestChecker(t, Options{}, `
define id(x) = x
define first(x, y) = x
define double(x: ℝ): ℝ = x + x
define even(n) = match n { 0 => True | _ => odd(n - 1) }
define odd(n) = match n { 0 => False | _ => even(n - 1) }
define unwrap(o, d) = match o { Some(x) => x | None => d }
`)
	for name, expect := range map[string]string{
		"id":     "∀'a. 'a → 'a",
		"first":  "∀'a 'b. 'a → 'b → 'a",
		"double": "Scalar → Scalar",
		"even":   "Scalar → Bool",
		"odd":    "Scalar → Bool",
		"unwrap": "∀'a. Option('a) → 'a → 'a",
	} {
		ty, ok := c.FunctionType(name)
		if !ok {
			t.Fatalf("%s is not defined", name)
		}
		if s := types.TypeString(ty); s != expect {
			t.Fatalf("%s: expected %s, found %s", name, expect, s)
		}
	}
	if names := strings.Join(c.Defines(), " "); names != "id first double even odd unwrap" {
		t.Fatalf("defines: %s", names)
	}

	// Generalized definitions are instantiated at each use:
	typeString, _ := checkType(t, c, "first(id(True), id(1))")
	if typeString != "Bool" {
		t.Fatalf("type: %s", typeString)
	}
	typeString, _ = checkType(t, c, "unwrap(Some(Matrix(2, 2, 1, 2, 3, 4)), x)")
	if typeString != "Matrix(2, 2, Scalar)" {
		t.Fatalf("type: %s", typeString)
	}

	te := checkError(t, c, "id(1, 2)", types.ArityMismatch)
	if te.Error() != "id expects 1 arguments, got 2" {
		t.Fatalf("error: %v", te)
	}
	checkError(t, c, "double(True)", types.UnificationFailure)
}

func TestDefineErrors(t *testing.T) {
	c := newTestChecker(t, Options{}, "")

	err := c.LoadSource("test", "define bad(x: Bool): ℝ = x")
	if !types.IsKind(err, types.UnificationFailure) {
		t.Fatalf("expected unification failure, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "test: define bad: ") {
		t.Fatalf("error: %v", err)
	}

	for _, src := range []string{
		"define plus(x) = x",
		"define Some(x) = x",
		"define twice(x) = x\ndefine twice(y) = y",
	} {
		if err := c.LoadSource("test", src); !types.IsKind(err, types.RegistryConflict) {
			t.Fatalf("%q: expected registry conflict, got %v", src, err)
		}
	}
	if _, ok := c.FunctionType("twice"); ok {
		t.Fatalf("twice should not be defined")
	}
}

func TestStructureOperations(t *testing.T) {
	c := newTestChecker(t, Options{}, "")

	typeString, _ := checkType(t, c, "1 + 2 * 3 ^ 2")
	if typeString != "Scalar" {
		t.Fatalf("type: %s", typeString)
	}
	typeString, _ = checkType(t, c, "1 < 2")
	if typeString != "Bool" {
		t.Fatalf("type: %s", typeString)
	}
	typeString, _ = checkType(t, c, "equals(True, False)")
	if typeString != "Bool" {
		t.Fatalf("type: %s", typeString)
	}
	typeString, _ = checkType(t, c, "dot(Vector(2, 1, 2), Vector(2, 3, 4))")
	if typeString != "Scalar" {
		t.Fatalf("type: %s", typeString)
	}

	te := checkError(t, c, "plus(True, False)", types.MissingImplementation)
	if te.Error() != "Arithmetic is not implemented for (Bool, Bool) (required by plus)" {
		t.Fatalf("error: %v", te)
	}
	te = checkError(t, c, "transpos(x)", types.UnknownIdentifier)
	if te.Hint != "transpose" {
		t.Fatalf("hint: %q", te.Hint)
	}
	checkError(t, c, "plus(1, True)", types.UnificationFailure)
}

func TestAxioms(t *testing.T) {
	c := newTestChecker(t, Options{}, "")
	axioms := c.Axioms("Arithmetic")
	if len(axioms) != 4 {
		t.Fatalf("axioms: %d", len(axioms))
	}
	if axioms[0].Name != "commutativity" {
		t.Fatalf("axiom: %s", axioms[0].Name)
	}
	if len(c.Axioms("MatrixMultipliable")) != 0 {
		t.Fatalf("unexpected axioms")
	}

	err := c.LoadSource("test", `
structure Broken(T) {
    operation broken_op : T → T
    axiom wrong : ∀(x : T). broken_op(x, x) = x
}
`)
	if !types.IsKind(err, types.ArityMismatch) {
		t.Fatalf("expected arity mismatch, got %v", err)
	}
}

func TestImplementsChecked(t *testing.T) {
	c := newTestChecker(t, Options{}, "")
	err := c.LoadSource("test", `
implements Arithmetic(Bool) {
    operation plus = bool_or
}
`)
	if !types.IsKind(err, types.MissingImplementation) {
		t.Fatalf("expected missing implementation, got %v", err)
	}

	err = c.LoadSource("test", `
structure Pointed(T) {
    element origin : T
}
implements Pointed(Bool) {
    element origin = 0
}
`)
	if !types.IsKind(err, types.UnificationFailure) {
		t.Fatalf("expected unification failure, got %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	c := newTestChecker(t, Options{MaxEvalDepth: 50}, `
define unwrap(o, d) = match o { Some(x) => x | None => d }
define partial(o) = match o { Some(x) => x }
define loop(x) = loop(x)
`)
	for src, expect := range map[string]string{
		"unwrap(Some(2), 0)":                                "2",
		"unwrap(None, plus(1, 1))":                          "plus(1, 1)",
		"match Cons(1, Nil) { Nil => 0 | Cons(h, t) => h }": "1",
		"transpose(Matrix(1, 2, a, b))":                     "transpose(Matrix(1, 2, a, b))",
	} {
		v, err := c.EvaluateSource(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if s := ast.ExprString(v); s != expect {
			t.Fatalf("%s: expected %s, found %s", src, expect, s)
		}
	}

	_, err := c.EvaluateSource("partial(None)")
	if !types.IsKind(err, types.NonExhaustiveMatch) {
		t.Fatalf("expected non-exhaustive match, got %v", err)
	}
	_, err = c.EvaluateSource("loop(1)")
	if !types.IsKind(err, types.InternalError) {
		t.Fatalf("expected depth error, got %v", err)
	}
}

func TestTypeParams(t *testing.T) {
	src := `
structure Default(T) {
    operation default_value : ℝ → T
}
implements Default(ℝ) {
    operation default_value = builtin_default
}
`
	strict := newTestChecker(t, Options{}, src)
	checkError(t, strict, "default_value(1)", types.UnresolvedParameter)

	lenient := newTestChecker(t, Options{LenientTypeParams: true}, src)
	typeString, _ := checkType(t, lenient, "default_value(1)")
	if typeString != "Scalar" {
		t.Fatalf("type: %s", typeString)
	}
}

func TestInferReset(t *testing.T) {
	c := newTestChecker(t, Options{}, "define id(x) = x")
	expr := construct.Match(construct.Op("id", construct.Object("o")),
		construct.Case(construct.PCon("Some", construct.PVar("v")), construct.Object("v")),
		construct.Case(construct.PWild(), construct.Const("0")))

	exprString := ast.ExprString(expr)
	if exprString != "match id(o) { Some(v) => v | _ => 0 }" {
		t.Fatalf("expr: %s", exprString)
	}

	// Infer twice to ensure state is properly reset between calls:

	envCount := c.env.Len()

	res, err := c.Check(expr)
	if err != nil {
		t.Fatal(err)
	}
	if c.env.Len() != envCount {
		t.Fatalf("expected unmodified type environment after inference")
	}

	res, err = c.Check(expr)
	if err != nil {
		t.Fatal(err)
	}
	if typeString := types.TypeString(res.Type); typeString != "Scalar" {
		t.Fatalf("type: %s", typeString)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings: %v", res.Warnings)
	}

	ti := NewInferenceContext(c.Data(), c.Structures(), Options{})
	if _, err := ti.Infer(construct.Op("plus", construct.Const("1"), construct.Object("True")), NewTypeEnv()); err == nil {
		t.Fatalf("expected unification failure")
	}
	if ti.Error() == nil || ti.InvalidExpr() == nil {
		t.Fatalf("expected failure state")
	}
	ti.Reset()
	if ti.Error() != nil || ti.InvalidExpr() != nil {
		t.Fatalf("expected reset state")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	c := newTestChecker(t, Options{Logger: log.New(&buf, "", 0)}, "define id(x) = x")
	for _, line := range []string{
		"data Bool: 2 variants",
		"structure MatrixAddable: 1 operations",
		"implements Arithmetic(ℝ)",
		"define id : ∀'a. 'a → 'a",
	} {
		if !strings.Contains(buf.String(), line+"\n") {
			t.Fatalf("expected log line %q in:\n%s", line, buf.String())
		}
	}
	if strings.Contains(buf.String(), "unify ") {
		t.Fatalf("unexpected trace output")
	}

	buf.Reset()
	c.ti.trace = true
	checkType(t, c, "id(1)")
	if !strings.Contains(buf.String(), "infer id(1) : Scalar") {
		t.Fatalf("expected trace output, got:\n%s", buf.String())
	}
}
