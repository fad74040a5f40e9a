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

package registry

import (
	"testing"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/construct"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/parser"
	"github.com/kleis-lang/kleis/types"
)

const prelude = `
data Type = Scalar | Vector(n: Nat, T: Type) | Matrix(m: Nat, n: Nat, T: Type)
data Bool = True | False
data Option(T) = None | Some(T)
data List(T) = Nil | Cons(T, List(T))

structure Arithmetic(T) {
    operation plus : T → T → T
}
structure MatrixAddable(m: Nat, n: Nat, T) {
    operation add : Matrix(m, n, T) → Matrix(m, n, T) → Matrix(m, n, T)
}
implements Arithmetic(ℝ) { operation plus = builtin_add }
implements MatrixAddable(m, n, ℝ) { operation add = builtin_matrix_add }
`

func load(t *testing.T, src string) *StructureRegistry {
	t.Helper()
	prog, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatal(err)
	}
	data := NewDataRegistry()
	structures := NewStructureRegistry(data)
	for _, d := range prog.Decls {
		if d, ok := d.(*ast.DataDef); ok {
			if err := data.Register(d); err != nil {
				t.Fatal(err)
			}
		}
	}
	for _, name := range data.TypeNames() {
		if err := data.CheckFields(name); err != nil {
			t.Fatal(err)
		}
	}
	for _, d := range prog.Decls {
		var err error
		switch d := d.(type) {
		case *ast.StructureDef:
			err = structures.RegisterStructure(d)
		case *ast.ImplementsDef:
			err = structures.RegisterImplements(d)
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	return structures
}

func TestRegisterAllOrNothing(t *testing.T) {
	r := NewDataRegistry()
	if err := r.Register(construct.Data("A", nil, construct.Variant("Foo"))); err != nil {
		t.Fatal(err)
	}
	err := r.Register(construct.Data("B", nil, construct.Variant("Bar"), construct.Variant("Foo")))
	if !types.IsKind(err, types.RegistryConflict) {
		t.Fatalf("expected registry conflict, got %v", err)
	}
	if err.Error() != "Variant Foo of data type B is already defined by data type A" {
		t.Fatalf("message: %s", err)
	}
	if r.HasType("B") || r.Len() != 1 {
		t.Fatalf("expected B not to be registered")
	}
	if _, _, ok := r.LookupVariant("Bar"); ok {
		t.Fatalf("expected Bar not to be registered")
	}
	if typeName, _, ok := r.LookupVariant("Foo"); !ok || typeName != "A" {
		t.Fatalf("expected Foo to still belong to A")
	}

	for _, def := range []*ast.DataDef{
		construct.Data("A", nil, construct.Variant("Baz")),
		construct.Data("C", []string{"T", "T"}, construct.Variant("Qux")),
		construct.Data("D", nil, construct.Variant("X"), construct.Variant("X")),
	} {
		if err := r.Register(def); !types.IsKind(err, types.RegistryConflict) {
			t.Fatalf("%s: expected registry conflict, got %v", def.Name, err)
		}
	}
	if r.Len() != 1 || len(r.VariantNames()) != 1 {
		t.Fatalf("expected failed registrations to leave no trace, got %v", r.VariantNames())
	}
}

func TestResolve(t *testing.T) {
	data := load(t, prelude).Data()
	cases := []struct{ src, want string }{
		{"Matrix(2, 3, ℝ)", "Matrix(2, 3, Scalar)"},
		{"Option(List(ℝ))", "Option(List(Scalar))"},
		{"ℝ → Bool", "Scalar → Bool"},
		{"Scalar", "Scalar"},
		{"Nat", "Nat"},
	}
	for _, c := range cases {
		e, err := parser.ParseType(c.src)
		if err != nil {
			t.Fatal(err)
		}
		ty, err := data.Resolve(e, nil)
		if err != nil {
			t.Fatalf("%s: %v", c.src, err)
		}
		if s := types.TypeString(ty); s != c.want {
			t.Fatalf("%s: expected %s, got %s", c.src, c.want, s)
		}
	}

	_, err := data.Resolve(construct.App("Optoin", construct.Name("ℝ")), nil)
	if terr, ok := types.AsError(err); !ok || terr.Kind != types.UnknownIdentifier || terr.Hint != "Option" {
		t.Fatalf("expected unknown type with hint, got %v", err)
	}
	_, err = data.Resolve(construct.App("Option", construct.Name("ℝ"), construct.Name("ℝ")), nil)
	if !types.IsKind(err, types.ArityMismatch) || err.Error() != "Option expects 1 arguments, got 2" {
		t.Fatalf("expected arity mismatch, got %v", err)
	}

	// lowercase names are handed to the free function
	var vt typeutil.VarTracker
	params := typeutil.NewInstantiateParams(&vt)
	ty, err := data.ResolveFree(construct.App("Matrix", construct.Name("m"), construct.Name("m"), construct.Name("ℝ")), nil,
		func(name string) (types.Type, error) { return params.Var(name), nil })
	if err != nil {
		t.Fatal(err)
	}
	if s := types.TypeString(ty); s != "Matrix('a, 'a, Scalar)" {
		t.Fatalf("free: %s", s)
	}
}

func TestInstantiateVariant(t *testing.T) {
	data := load(t, prelude).Data()
	var vt typeutil.VarTracker

	m, err := data.InstantiateVariant("Matrix", &vt)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsShaped() || types.TypeString(m.Result) != "Matrix('a, 'b, 'c)" {
		t.Fatalf("matrix: %s", types.TypeString(m.Result))
	}
	if m.Kinds[0] != types.DimParam || m.Kinds[2] != types.TypeParam {
		t.Fatalf("kinds: %v", m.Kinds)
	}

	some, err := data.InstantiateVariant("Some", &vt)
	if err != nil {
		t.Fatal(err)
	}
	if some.IsShaped() || !types.Equal(some.Fields[0], some.Result.(*types.Data).Args[0]) {
		t.Fatalf("some: %s", types.TypeString(some.Result))
	}

	cons, err := data.InstantiateVariant("Cons", &vt)
	if err != nil {
		t.Fatal(err)
	}
	if s := types.TypeString(types.Curry(cons.Fields, cons.Result)); s != "'a → List('a) → List('a)" {
		t.Fatalf("cons: %s", s)
	}

	_, err = data.InstantiateVariant("Nothing", &vt)
	if !types.IsKind(err, types.UnknownIdentifier) {
		t.Fatalf("expected unknown constructor, got %v", err)
	}
}

func TestRegisterStructureConflicts(t *testing.T) {
	r := load(t, prelude)

	dupOp := construct.Structure("Semiring", []ast.TypeParam{construct.Param("T", nil)},
		construct.Operation("plus", construct.Arrow(construct.Name("T"), construct.Name("T"), construct.Name("T"))))
	err := r.RegisterStructure(dupOp)
	if !types.IsKind(err, types.RegistryConflict) {
		t.Fatalf("expected registry conflict, got %v", err)
	}
	if err.Error() != "Operation plus of structure Semiring is already declared by structure Arithmetic" {
		t.Fatalf("message: %s", err)
	}
	if _, ok := r.Structure("Semiring"); ok {
		t.Fatalf("expected Semiring not to be registered")
	}

	unknown := construct.Structure("Bad", []ast.TypeParam{construct.Param("T", nil)},
		construct.Operation("bad", construct.Arrow(construct.App("Matrx", construct.Name("T")), construct.Name("T"))))
	if err := r.RegisterStructure(unknown); !types.IsKind(err, types.UnknownIdentifier) {
		t.Fatalf("expected unknown type, got %v", err)
	}

	if s, ok := r.StructureForOperation("add"); !ok || s.Name != "MatrixAddable" {
		t.Fatalf("expected add to belong to MatrixAddable")
	}
	kinds := r.ParamKinds(mustStructure(r, "MatrixAddable"))
	if kinds["m"] != types.DimParam || kinds["T"] != types.TypeParam {
		t.Fatalf("param kinds: %v", kinds)
	}
}

func mustStructure(r *StructureRegistry, name string) *ast.StructureDef {
	def, _ := r.Structure(name)
	return def
}

func TestRegisterImplementsErrors(t *testing.T) {
	r := load(t, prelude)
	scalar := []ast.TypeExpr{construct.Name("ℝ")}

	cases := []struct {
		def  *ast.ImplementsDef
		kind types.ErrorKind
		msg  string
	}{
		{
			construct.Implements("Arithmetc", scalar, map[string]string{"plus": "builtin"}),
			types.UnknownIdentifier, "Unknown structure Arithmetc (did you mean Arithmetic?)",
		},
		{
			construct.Implements("Arithmetic", nil, map[string]string{"plus": "builtin"}),
			types.ArityMismatch, "Arithmetic expects 1 arguments, got 0",
		},
		{
			construct.Implements("Arithmetic", []ast.TypeExpr{construct.Name("Bool")}, nil),
			types.MissingImplementation, "Implementation of Arithmetic is missing operation plus",
		},
		{
			construct.Implements("Arithmetic", []ast.TypeExpr{construct.Name("Bool")}, map[string]string{"plus": "b", "times": "b"}),
			types.UnknownIdentifier, "Operation times is not declared by structure Arithmetic",
		},
		{
			construct.Implements("Arithmetic", scalar, map[string]string{"plus": "builtin"}),
			types.RegistryConflict, "Arithmetic(ℝ) is already implemented",
		},
		{
			construct.Implements("MatrixAddable", []ast.TypeExpr{construct.Name("a"), construct.Name("b"), construct.Name("ℝ")},
				map[string]string{"add": "builtin_matrix_add"}),
			types.RegistryConflict, "MatrixAddable(a, b, ℝ) is already implemented as MatrixAddable(m, n, ℝ)",
		},
	}
	for _, c := range cases {
		err := r.RegisterImplements(c.def)
		terr, ok := types.AsError(err)
		if !ok || terr.Kind != c.kind || err.Error() != c.msg {
			t.Fatalf("expected %s %q, got %v", c.kind, c.msg, err)
		}
	}
	for _, name := range []string{"Arithmetic", "MatrixAddable"} {
		if n := len(r.Implementations(name)); n != 1 {
			t.Fatalf("expected 1 implementation of %s, got %d", name, n)
		}
	}
}

func TestValidateImplementation(t *testing.T) {
	r := load(t, prelude)
	var vt typeutil.VarTracker
	m23 := types.NewMeta("Matrix", types.Nat(2), types.Nat(3), types.Scalar())

	if err := r.ValidateImplementation(&vt, "MatrixAddable", "add", []types.Type{m23, m23}); err != nil {
		t.Fatal(err)
	}
	if err := r.ValidateImplementation(&vt, "Arithmetic", "plus", []types.Type{types.Scalar(), vt.New()}); err != nil {
		t.Fatal(err)
	}

	boolT := types.NewData("Bool")
	err := r.ValidateImplementation(&vt, "Arithmetic", "plus", []types.Type{boolT, boolT})
	if !types.IsKind(err, types.MissingImplementation) {
		t.Fatalf("expected missing implementation, got %v", err)
	}
	if err.Error() != "Arithmetic is not implemented for (Bool, Bool) (required by plus)" {
		t.Fatalf("message: %s", err)
	}

	mb := types.NewMeta("Matrix", types.Nat(2), types.Nat(3), boolT)
	if err := r.ValidateImplementation(&vt, "MatrixAddable", "add", []types.Type{mb, mb}); !types.IsKind(err, types.MissingImplementation) {
		t.Fatalf("expected missing implementation for Bool matrices, got %v", err)
	}
}
