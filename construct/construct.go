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

// Package construct provides shorthand constructors for types, expressions, patterns and
// declarations, for building programs without source text.
package construct

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/types"
)

// Types

// Create a new type-variable with the given id.
func TVar(id int) *types.Var {
	return types.NewVar(id)
}

// Scalar type: `ℝ`
func TScalar() *types.Data {
	return types.Scalar()
}

// Type-level natural number: the `3` in `Matrix(3, 3, ℝ)`
func TNat(n int) *types.NatValue {
	return types.Nat(n)
}

// Type-level string tag: `"m"`
func TString(s string) *types.StringValue {
	return types.String(s)
}

// User-defined data type: `Option(ℝ)`
func TData(name string, args ...types.Type) *types.Data {
	return types.NewData(name, args...)
}

// Vector type: `Vector(n, T)`
func TVector(n, elem types.Type) *types.Data {
	return types.NewMeta("Vector", n, elem)
}

// Matrix type: `Matrix(m, n, T)`
func TMatrix(m, n, elem types.Type) *types.Data {
	return types.NewMeta("Matrix", m, n, elem)
}

// Curried function type: `A → B → C`
func TFunc(params []types.Type, result types.Type) types.Type {
	return types.Curry(params, result)
}

// Type expressions, as written in declarations:

// Named type or parameter: `T`
func Name(name string) *ast.TName {
	return &ast.TName{Name: name}
}

// Applied type: `Matrix(m, n, T)`
func App(name string, args ...ast.TypeExpr) *ast.TApp {
	return &ast.TApp{Name: name, Args: args}
}

// Arrow type, associating to the right: `A → B → C`
func Arrow(first ast.TypeExpr, rest ...ast.TypeExpr) ast.TypeExpr {
	if len(rest) == 0 {
		return first
	}
	return &ast.TArrow{From: first, To: Arrow(rest[0], rest[1:]...)}
}

// Literal dimension: `3`
func Dim(n int) *ast.TNat {
	return &ast.TNat{Value: n}
}

// Expressions:

// Literal constant: `1`
func Const(value string) *ast.Const {
	return &ast.Const{Value: value}
}

// Identifier: `x`
func Object(name string) *ast.Object {
	return &ast.Object{Name: name}
}

// Application: `add(A, B)`
func Op(name string, args ...ast.Expr) *ast.Operation {
	return &ast.Operation{Name: name, Args: args}
}

// Pattern-matching expression:
//
//  match e {
//      p1 => expr1
//    | p2 => expr2
//  }
func Match(scrutinee ast.Expr, cases ...ast.MatchCase) *ast.Match {
	return &ast.Match{Scrutinee: scrutinee, Cases: cases}
}

// Case expression within Match: `Some(x) => x`
func Case(p ast.Pattern, body ast.Expr) ast.MatchCase {
	return ast.MatchCase{Pattern: p, Body: body}
}

// Patterns:

// Wildcard: `_`
func PWild() *ast.Wildcard {
	return &ast.Wildcard{}
}

// Variable: `x`
func PVar(name string) *ast.PVar {
	return &ast.PVar{Name: name}
}

// Constructor: `Some(x)`
func PCon(name string, args ...ast.Pattern) *ast.PConstructor {
	return &ast.PConstructor{Name: name, Args: args}
}

// Literal: `0`
func PConst(value string) *ast.PConstant {
	return &ast.PConstant{Value: value}
}

// Declarations:

// Data type: `data Option(T) = None | Some(T)`
func Data(name string, params []string, variants ...ast.DataVariant) *ast.DataDef {
	return &ast.DataDef{Name: name, TypeParams: params, Variants: variants}
}

// Variant with positional fields: `Some(T)`
func Variant(name string, fields ...ast.TypeExpr) ast.DataVariant {
	v := ast.DataVariant{Name: name}
	for _, f := range fields {
		v.Fields = append(v.Fields, ast.DataField{Type: f})
	}
	return v
}

// Field with a name: `n: Nat`
func Field(name string, t ast.TypeExpr) ast.DataField {
	return ast.DataField{Name: name, Type: t}
}

// Structure parameter: `m: Nat`, or `T` when kind is nil
func Param(name string, kind ast.TypeExpr) ast.TypeParam {
	return ast.TypeParam{Name: name, Kind: kind}
}

// Declared operation: `operation add : T → T → T`
func Operation(name string, sig ast.TypeExpr) ast.OperationDecl {
	return ast.OperationDecl{Name: name, Signature: sig}
}

// Structure: `structure Monoid(T) { ... }`
func Structure(name string, params []ast.TypeParam, ops ...ast.OperationDecl) *ast.StructureDef {
	return &ast.StructureDef{Name: name, TypeParams: params, Operations: ops}
}

// Implements block with native bodies: `implements Monoid(ℝ) { operation combine = builtin_add }`
func Implements(structure string, args []ast.TypeExpr, builtins map[string]string) *ast.ImplementsDef {
	def := &ast.ImplementsDef{StructureName: structure, TypeArgs: args}
	ops := maps.Keys(builtins)
	slices.Sort(ops)
	for _, op := range ops {
		def.Operations = append(def.Operations, ast.OperationBody{Name: op, Builtin: builtins[op]})
	}
	return def
}

// Definition: `define f(x, y) = body`
func Define(name string, params []string, body ast.Expr) *ast.DefineDecl {
	d := &ast.DefineDecl{Name: name, Body: body}
	for _, p := range params {
		d.Params = append(d.Params, ast.Param{Name: p})
	}
	return d
}
