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
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/types"
)

// TypeScope maps parameter names to types while resolving a type expression. A name mapped to
// nil is a declared parameter which is not bound yet.
type TypeScope map[string]types.Type

// FreeFunc supplies the type of a parameter which is not bound in scope.
type FreeFunc func(name string) (types.Type, error)

// Built-in names for the scalar type and the primitive bootstrap kinds. Registered data types
// take precedence, so `Bool` names the primitive only until `data Bool` is loaded.
var aliases = map[string]func() types.Type{
	"ℝ":      func() types.Type { return types.Scalar() },
	"Real":   func() types.Type { return types.Scalar() },
	"Nat":    func() types.Type { return types.NewPrim(types.NatKind) },
	"ℕ":      func() types.Type { return types.NewPrim(types.NatKind) },
	"String": func() types.Type { return types.NewPrim(types.StringKind) },
	"Bool":   func() types.Type { return types.NewPrim(types.BoolKind) },
}

// Resolve converts a type expression to a type. Names bound in scope take precedence over
// registered data types.
func (r *DataRegistry) Resolve(e ast.TypeExpr, scope TypeScope) (types.Type, error) {
	return r.ResolveFree(e, scope, nil)
}

// ResolveFree is like Resolve, but names which are unbound parameters in scope, and lowercase
// names which resolve to nothing, are passed to free.
func (r *DataRegistry) ResolveFree(e ast.TypeExpr, scope TypeScope, free FreeFunc) (types.Type, error) {
	switch e := e.(type) {
	case *ast.TName:
		if t, ok := scope[e.Name]; ok {
			if t != nil {
				return t, nil
			}
			if free != nil {
				return free(e.Name)
			}
			return nil, &types.Error{Kind: types.UnresolvedParameter, Name: e.Name, Msg: "Unresolved parameter " + e.Name}
		}
		if t, ok := r.lookupName(e.Name); ok {
			return t, nil
		}
		if free != nil && IsParamName(e.Name) {
			return free(e.Name)
		}
		return nil, r.unknownType(e.Name)

	case *ast.TApp:
		args := make([]types.Type, len(e.Args))
		for i, arg := range e.Args {
			t, err := r.ResolveFree(arg, scope, free)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		return r.Apply(e.Name, args)

	case *ast.TArrow:
		from, err := r.ResolveFree(e.From, scope, free)
		if err != nil {
			return nil, err
		}
		to, err := r.ResolveFree(e.To, scope, free)
		if err != nil {
			return nil, err
		}
		return &types.Function{Arg: from, Result: to}, nil

	case *ast.TNat:
		return types.Nat(e.Value), nil

	case *ast.TString:
		return types.String(e.Value), nil
	}
	return nil, types.NewInternal("Unknown type expression", e)
}

func (r *DataRegistry) lookupName(name string) (types.Type, bool) {
	if def, ok := r.types[name]; ok && len(def.TypeParams) == 0 {
		return types.NewData(name), true
	}
	if typeName, v, ok := r.LookupVariant(name); ok && typeName == types.MetaType && len(v.Fields) == 0 {
		return types.NewMeta(name), true
	}
	if alias, ok := aliases[name]; ok {
		return alias(), true
	}
	return nil, false
}

// Apply builds the type named by an applied type constructor: a data type with the given type
// arguments, or a variant of the meta type with the given field values.
func (r *DataRegistry) Apply(name string, args []types.Type) (types.Type, error) {
	if def, ok := r.types[name]; ok {
		if len(def.TypeParams) != len(args) {
			return nil, arity(name, len(def.TypeParams), len(args))
		}
		return types.NewData(name, args...), nil
	}
	if typeName, v, ok := r.LookupVariant(name); ok && typeName == types.MetaType {
		if len(v.Fields) != len(args) {
			return nil, arity(name, len(v.Fields), len(args))
		}
		return types.NewMeta(name, args...), nil
	}
	return nil, r.unknownType(name)
}

// IsParamName reports whether name may denote an implicit parameter: it starts with a lowercase letter.
func IsParamName(name string) bool {
	c, _ := utf8.DecodeRuneInString(name)
	return unicode.IsLower(c)
}

func arity(name string, expected, actual int) *types.Error {
	return &types.Error{
		Kind: types.ArityMismatch,
		Name: name,
		Msg:  name + " expects " + strconv.Itoa(expected) + " arguments, got " + strconv.Itoa(actual),
	}
}

// VariantInstance is a variant with fresh type-variables for its owning type's parameters.
type VariantInstance struct {
	TypeName string
	Variant  *ast.DataVariant
	// Type of a value built with the variant.
	Result types.Type
	// Declared type of each field.
	Fields []types.Type
	// Kind of each field: constructor parameters (dimensions, string tags) or values.
	Kinds []types.ParamKind
}

// IsShaped reports whether the variant takes leading dimension parameters and a single
// trailing value field, so that it may also be built from its dimensions and a flat list of
// elements: `Matrix(2, 3, a, b, c, d, e, f)`.
func (vi *VariantInstance) IsShaped() bool {
	n := len(vi.Kinds)
	if vi.TypeName != types.MetaType || n < 2 || vi.Kinds[n-1] != types.TypeParam {
		return false
	}
	for _, k := range vi.Kinds[:n-1] {
		if k != types.DimParam {
			return false
		}
	}
	return true
}

// InstantiateVariant instantiates a variant with fresh type-variables from vt.
//
// For variants of the meta type, each field is a type-level value: dimension and string
// parameters and the element type are fresh type-variables which make up the result type.
// For other data types, the owning type's parameters are fresh type-variables.
func (r *DataRegistry) InstantiateVariant(name string, vt *typeutil.VarTracker) (*VariantInstance, error) {
	typeName, v, ok := r.LookupVariant(name)
	if !ok {
		return nil, &types.Error{Kind: types.UnknownIdentifier, Name: name, Msg: "Unknown constructor " + name, Hint: types.Suggest(name, r.VariantNames())}
	}
	vi := &VariantInstance{
		TypeName: typeName,
		Variant:  v,
		Fields:   make([]types.Type, len(v.Fields)),
		Kinds:    make([]types.ParamKind, len(v.Fields)),
	}
	def := r.types[typeName]

	if typeName == types.MetaType {
		for i, f := range v.Fields {
			declared, err := r.Resolve(f.Type, nil)
			if err != nil {
				return nil, err
			}
			vi.Kinds[i] = types.KindOf(declared)
			if d, ok := declared.(*types.Data); ok && d.Name != types.MetaType {
				vi.Fields[i] = declared
				continue
			}
			vi.Fields[i] = vt.New()
		}
		vi.Result = types.NewMeta(name, vi.Fields...)
		return vi, nil
	}

	scope := make(TypeScope, len(def.TypeParams))
	params := make([]types.Type, len(def.TypeParams))
	for i, p := range def.TypeParams {
		tv := vt.New()
		scope[p], params[i] = tv, tv
	}
	for i, f := range v.Fields {
		t, err := r.Resolve(f.Type, scope)
		if err != nil {
			return nil, err
		}
		vi.Fields[i], vi.Kinds[i] = t, types.KindOf(t)
	}
	vi.Result = types.NewData(typeName, params...)
	return vi, nil
}

// FieldKinds returns the parameter kind of each field of an applied type constructor, used to
// classify implicit parameters appearing in its arguments.
func (r *DataRegistry) FieldKinds(name string) []types.ParamKind {
	if def, ok := r.types[name]; ok {
		return make([]types.ParamKind, len(def.TypeParams))
	}
	typeName, v, ok := r.LookupVariant(name)
	if !ok || typeName != types.MetaType {
		return nil
	}
	kinds := make([]types.ParamKind, len(v.Fields))
	for i, f := range v.Fields {
		if t, err := r.Resolve(f.Type, nil); err == nil {
			kinds[i] = types.KindOf(t)
		}
	}
	return kinds
}
