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

// Package registry holds the data types, structures and implementations loaded from source,
// and resolves type expressions against them.
package registry

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/types"
)

// DataRegistry stores data type declarations and indexes their variants by name.
// Variant names are global: a variant belongs to exactly one data type.
type DataRegistry struct {
	types    map[string]*ast.DataDef
	order    []string
	variants map[string]variantEntry
}

type variantEntry struct {
	typeName string
	index    int
}

func NewDataRegistry() *DataRegistry {
	return &DataRegistry{
		types:    make(map[string]*ast.DataDef),
		variants: make(map[string]variantEntry),
	}
}

// Register inserts a data type. Registration is all-or-nothing: when any variant conflicts,
// no part of def is registered.
func (r *DataRegistry) Register(def *ast.DataDef) error {
	if def.Name == "" {
		return types.Errorf(types.RegistryConflict, "Data type must have a name")
	}
	if _, ok := r.types[def.Name]; ok {
		return &types.Error{Kind: types.RegistryConflict, Name: def.Name, Msg: "Data type " + def.Name + " is already defined"}
	}
	for i, p := range def.TypeParams {
		if slices.Contains(def.TypeParams[:i], p) {
			return &types.Error{Kind: types.RegistryConflict, Name: p, Msg: "Duplicate type parameter " + p + " in data type " + def.Name}
		}
	}
	for i, v := range def.Variants {
		dup := slices.IndexFunc(def.Variants[:i], func(prev ast.DataVariant) bool { return prev.Name == v.Name })
		if dup >= 0 {
			return &types.Error{Kind: types.RegistryConflict, Name: v.Name, Msg: "Duplicate variant " + v.Name + " in data type " + def.Name}
		}
		if prev, ok := r.variants[v.Name]; ok {
			return &types.Error{
				Kind: types.RegistryConflict,
				Name: v.Name,
				Msg:  "Variant " + v.Name + " of data type " + def.Name + " is already defined by data type " + prev.typeName,
			}
		}
	}

	r.types[def.Name] = def
	r.order = append(r.order, def.Name)
	for i, v := range def.Variants {
		r.variants[v.Name] = variantEntry{typeName: def.Name, index: i}
	}
	return nil
}

// LookupVariant returns the owning type name and declaration of a variant.
func (r *DataRegistry) LookupVariant(name string) (typeName string, variant *ast.DataVariant, ok bool) {
	e, ok := r.variants[name]
	if !ok {
		return "", nil, false
	}
	return e.typeName, &r.types[e.typeName].Variants[e.index], true
}

// GetType returns the declaration of a data type.
func (r *DataRegistry) GetType(name string) (*ast.DataDef, bool) {
	def, ok := r.types[name]
	return def, ok
}

// HasType reports whether a data type is registered.
func (r *DataRegistry) HasType(name string) bool {
	_, ok := r.types[name]
	return ok
}

// TypeNames returns the names of registered data types, in registration order.
func (r *DataRegistry) TypeNames() []string {
	return slices.Clone(r.order)
}

// VariantNames returns the names of all registered variants, sorted.
func (r *DataRegistry) VariantNames() []string {
	names := maps.Keys(r.variants)
	slices.Sort(names)
	return names
}

// Variants returns the variant names of a data type, in declaration order.
func (r *DataRegistry) Variants(typeName string) []string {
	def, ok := r.types[typeName]
	if !ok {
		return nil
	}
	names := make([]string, len(def.Variants))
	for i, v := range def.Variants {
		names[i] = v.Name
	}
	return names
}

// Len returns the number of registered data types.
func (r *DataRegistry) Len() int { return len(r.order) }

// CheckFields resolves the field types of every variant of a data type. Data types may refer
// to each other in any order, so fields are checked once all types of a load are registered.
func (r *DataRegistry) CheckFields(typeName string) error {
	def, ok := r.types[typeName]
	if !ok {
		return r.unknownType(typeName)
	}
	scope := make(TypeScope, len(def.TypeParams))
	for i, p := range def.TypeParams {
		scope[p] = types.NewVar(-1 - i)
	}
	for _, v := range def.Variants {
		for _, f := range v.Fields {
			if _, err := r.Resolve(f.Type, scope); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *DataRegistry) unknownType(name string) *types.Error {
	candidates := append(r.TypeNames(), r.VariantNames()...)
	return &types.Error{
		Kind: types.UnknownIdentifier,
		Name: name,
		Msg:  "Unknown type " + name,
		Hint: types.Suggest(name, candidates),
	}
}
