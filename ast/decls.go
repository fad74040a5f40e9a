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

package ast

// TypeExpr is a type expression as written in declarations and signatures.
type TypeExpr interface {
	TypeExprName() string
}

var (
	_ TypeExpr = (*TName)(nil)
	_ TypeExpr = (*TApp)(nil)
	_ TypeExpr = (*TArrow)(nil)
	_ TypeExpr = (*TNat)(nil)
	_ TypeExpr = (*TString)(nil)
)

// Named type or type parameter: `ℝ`, `Bool`, `T`, `m`
type TName struct {
	Name string
}

// Applied type constructor: `Matrix(m, n, T)`, `Option(T)`
type TApp struct {
	Name string
	Args []TypeExpr
}

// Arrow: `T → T`
type TArrow struct {
	From, To TypeExpr
}

// Natural-number literal in a type: the `3` in `Vector(3, ℝ)`
type TNat struct {
	Value int
}

// String tag in a type: `"m"`
type TString struct {
	Value string
}

func (t *TName) TypeExprName() string   { return "Name" }
func (t *TApp) TypeExprName() string    { return "App" }
func (t *TArrow) TypeExprName() string  { return "Arrow" }
func (t *TNat) TypeExprName() string    { return "Nat" }
func (t *TString) TypeExprName() string { return "String" }

// SplitArrow flattens `A → B → C` into params [A, B] and result C.
func SplitArrow(t TypeExpr) (params []TypeExpr, result TypeExpr) {
	for {
		arrow, ok := t.(*TArrow)
		if !ok {
			return params, t
		}
		params = append(params, arrow.From)
		t = arrow.To
	}
}

// Decl is the base for all top-level declarations.
type Decl interface {
	DeclName() string
}

var (
	_ Decl = (*DataDef)(nil)
	_ Decl = (*StructureDef)(nil)
	_ Decl = (*ImplementsDef)(nil)
	_ Decl = (*DefineDecl)(nil)
)

// Program is an ordered stream of declarations from one source.
type Program struct {
	Decls []Decl
}

// Defines returns the definitions of the program, in declaration order.
func (p *Program) Defines() []*DefineDecl {
	var defines []*DefineDecl
	for _, d := range p.Decls {
		if d, ok := d.(*DefineDecl); ok {
			defines = append(defines, d)
		}
	}
	return defines
}

// Algebraic data type: `data Option(T) = None | Some(T)`
type DataDef struct {
	Name       string
	TypeParams []string
	Variants   []DataVariant
}

// One alternative of a data type: `Some(T)`
type DataVariant struct {
	Name   string
	Fields []DataField
}

// Field of a variant. Name is empty for positional fields.
type DataField struct {
	Name string
	Type TypeExpr
}

// Parameter of a structure: `m: Nat` or `T`. Kind is nil when undeclared.
type TypeParam struct {
	Name string
	Kind TypeExpr
}

// Declared operation of a structure: `operation add : Matrix(m, n, T) → Matrix(m, n, T) → Matrix(m, n, T)`.
// Elements are nullary operations: `element zero : T`.
type OperationDecl struct {
	Name      string
	Signature TypeExpr
	Element   bool
}

// Quantified variable of an axiom: the `x : T` in `∀(x : T). ...`
type Binder struct {
	Name string
	Type TypeExpr
}

// Axiom of a structure: `axiom commutativity : ∀(x y : T). plus(x, y) = plus(y, x)`
type Axiom struct {
	Name string
	Vars []Binder
	Body Expr
}

// Parameterized interface of operations and axioms.
type StructureDef struct {
	Name       string
	TypeParams []TypeParam
	Operations []OperationDecl
	Axioms     []Axiom
}

// Operation returns the declared operation with the given name.
func (s *StructureDef) Operation(name string) (*OperationDecl, bool) {
	for i := range s.Operations {
		if s.Operations[i].Name == name {
			return &s.Operations[i], true
		}
	}
	return nil, false
}

// Body supplied for an operation by an implements block. Either Builtin names a native
// implementation (`operation add = builtin_matrix_add`), or Params/Expr define it inline.
type OperationBody struct {
	Name    string
	Params  []string
	Builtin string
	Expr    Expr
}

// Binding of a structure to concrete type arguments: `implements MatrixAddable(m, n, ℝ) { ... }`
type ImplementsDef struct {
	StructureName string
	TypeArgs      []TypeExpr
	Operations    []OperationBody
}

// Body returns the implementation of the named operation.
func (d *ImplementsDef) Body(name string) (*OperationBody, bool) {
	for i := range d.Operations {
		if d.Operations[i].Name == name {
			return &d.Operations[i], true
		}
	}
	return nil, false
}

// Parameter of a defined function, with an optional annotation.
type Param struct {
	Name string
	Type TypeExpr
}

// Function definition: `define not(b) = match b { True => False | False => True }`
type DefineDecl struct {
	Name   string
	Params []Param
	Result TypeExpr
	Body   Expr
}

// ParamNames returns the names of d's parameters.
func (d *DefineDecl) ParamNames() []string {
	names := make([]string, len(d.Params))
	for i, p := range d.Params {
		names[i] = p.Name
	}
	return names
}

func (d *DataDef) DeclName() string       { return "data" }
func (d *StructureDef) DeclName() string  { return "structure" }
func (d *ImplementsDef) DeclName() string { return "implements" }
func (d *DefineDecl) DeclName() string    { return "define" }
