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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/types"
)

// StructureRegistry stores structures and their implementations. An operation name denotes
// exactly one structure, and a structure has at most one implementation per list of type arguments.
type StructureRegistry struct {
	data       *DataRegistry
	structures map[string]*ast.StructureDef
	order      []string
	operations map[string]string
	impls      map[string][]*Implementation
}

// Implementation is an implements block registered for a structure.
type Implementation struct {
	Structure *ast.StructureDef
	Def       *ast.ImplementsDef
	key       string
	template  string
}

// TypeArgsString returns the type arguments of the implementation: `(m, n, ℝ)`
func (impl *Implementation) TypeArgsString() string { return impl.key }

func NewStructureRegistry(data *DataRegistry) *StructureRegistry {
	return &StructureRegistry{
		data:       data,
		structures: make(map[string]*ast.StructureDef),
		operations: make(map[string]string),
		impls:      make(map[string][]*Implementation),
	}
}

// Data returns the data type registry which signatures are resolved against.
func (r *StructureRegistry) Data() *DataRegistry { return r.data }

// RegisterStructure inserts a structure and indexes its operations. Every type name in the
// operation signatures must be a declared parameter, a registered type, or a lowercase
// implicit parameter.
func (r *StructureRegistry) RegisterStructure(def *ast.StructureDef) error {
	if _, ok := r.structures[def.Name]; ok {
		return &types.Error{Kind: types.RegistryConflict, Name: def.Name, Msg: "Structure " + def.Name + " is already defined"}
	}
	params := make(map[string]bool, len(def.TypeParams))
	for _, p := range def.TypeParams {
		if params[p.Name] {
			return &types.Error{Kind: types.RegistryConflict, Name: p.Name, Msg: "Duplicate parameter " + p.Name + " in structure " + def.Name}
		}
		params[p.Name] = true
		if p.Kind != nil {
			if _, err := r.data.Resolve(p.Kind, nil); err != nil {
				return err
			}
		}
	}
	for i, op := range def.Operations {
		dup := slices.IndexFunc(def.Operations[:i], func(prev ast.OperationDecl) bool { return prev.Name == op.Name })
		if dup >= 0 {
			return &types.Error{Kind: types.RegistryConflict, Name: op.Name, Msg: "Duplicate operation " + op.Name + " in structure " + def.Name}
		}
		if owner, ok := r.operations[op.Name]; ok {
			return &types.Error{
				Kind: types.RegistryConflict,
				Name: op.Name,
				Msg:  "Operation " + op.Name + " of structure " + def.Name + " is already declared by structure " + owner,
			}
		}
		if err := r.checkNames(op.Signature, params); err != nil {
			return err
		}
	}

	r.structures[def.Name] = def
	r.order = append(r.order, def.Name)
	for _, op := range def.Operations {
		r.operations[op.Name] = def.Name
	}
	return nil
}

// RegisterImplements inserts an implements block for a registered structure. The block must
// supply a body for every operation of the structure and no others.
func (r *StructureRegistry) RegisterImplements(def *ast.ImplementsDef) error {
	s, ok := r.structures[def.StructureName]
	if !ok {
		return &types.Error{
			Kind: types.UnknownIdentifier,
			Name: def.StructureName,
			Msg:  "Unknown structure " + def.StructureName,
			Hint: types.Suggest(def.StructureName, r.order),
		}
	}
	if len(def.TypeArgs) != len(s.TypeParams) {
		return arity(def.StructureName, len(s.TypeParams), len(def.TypeArgs))
	}
	for _, arg := range def.TypeArgs {
		if err := r.checkNames(arg, nil); err != nil {
			return err
		}
	}
	for i, body := range def.Operations {
		if _, ok := s.Operation(body.Name); !ok {
			return &types.Error{
				Kind: types.UnknownIdentifier,
				Name: body.Name,
				Msg:  "Operation " + body.Name + " is not declared by structure " + s.Name,
			}
		}
		dup := slices.IndexFunc(def.Operations[:i], func(prev ast.OperationBody) bool { return prev.Name == body.Name })
		if dup >= 0 {
			return &types.Error{Kind: types.RegistryConflict, Name: body.Name, Msg: "Duplicate body for operation " + body.Name}
		}
	}
	for _, op := range s.Operations {
		if _, ok := def.Body(op.Name); !ok {
			return &types.Error{
				Kind: types.MissingImplementation,
				Name: op.Name,
				Msg:  "Implementation of " + s.Name + " is missing operation " + op.Name,
			}
		}
	}

	template, err := r.template(s.Name, def.TypeArgs)
	if err != nil {
		return err
	}
	impl := &Implementation{Structure: s, Def: def, key: typeArgsKey(def.TypeArgs), template: template}
	for _, prev := range r.impls[s.Name] {
		if prev.template != impl.template {
			continue
		}
		msg := s.Name + impl.key + " is already implemented"
		if prev.key != impl.key {
			msg += " as " + s.Name + prev.key
		}
		return &types.Error{Kind: types.RegistryConflict, Name: s.Name, Msg: msg}
	}
	r.impls[s.Name] = append(r.impls[s.Name], impl)
	return nil
}

// template renders the resolved type arguments of an implementation. Free names are numbered by
// first occurrence, so argument lists which differ only in the names of their parameters share
// a template.
func (r *StructureRegistry) template(structureName string, args []ast.TypeExpr) (string, error) {
	var vt typeutil.VarTracker
	free := freeVars(&vt)
	resolved := make([]types.Type, len(args))
	for i, arg := range args {
		t, err := r.data.ResolveFree(arg, nil, free)
		if err != nil {
			return "", err
		}
		resolved[i] = t
	}
	return types.TypeString(types.NewData(structureName, resolved...)), nil
}

func typeArgsKey(args []ast.TypeExpr) string {
	key := "("
	for i, arg := range args {
		if i > 0 {
			key += ", "
		}
		key += ast.TypeExprString(arg)
	}
	return key + ")"
}

func (r *StructureRegistry) checkNames(e ast.TypeExpr, params map[string]bool) error {
	switch e := e.(type) {
	case *ast.TName:
		if params[e.Name] || IsParamName(e.Name) {
			return nil
		}
		if _, ok := r.data.lookupName(e.Name); ok {
			return nil
		}
		return r.data.unknownType(e.Name)

	case *ast.TApp:
		if kinds := r.data.FieldKinds(e.Name); kinds == nil {
			return r.data.unknownType(e.Name)
		} else if len(kinds) != len(e.Args) {
			return arity(e.Name, len(kinds), len(e.Args))
		}
		for _, arg := range e.Args {
			if err := r.checkNames(arg, params); err != nil {
				return err
			}
		}

	case *ast.TArrow:
		if err := r.checkNames(e.From, params); err != nil {
			return err
		}
		return r.checkNames(e.To, params)
	}
	return nil
}

// StructureForOperation returns the structure which declares an operation.
func (r *StructureRegistry) StructureForOperation(op string) (*ast.StructureDef, bool) {
	name, ok := r.operations[op]
	if !ok {
		return nil, false
	}
	return r.structures[name], true
}

// Structure returns a registered structure.
func (r *StructureRegistry) Structure(name string) (*ast.StructureDef, bool) {
	s, ok := r.structures[name]
	return s, ok
}

// StructureNames returns the names of registered structures, in registration order.
func (r *StructureRegistry) StructureNames() []string { return slices.Clone(r.order) }

// OperationNames returns the names of all declared operations, sorted.
func (r *StructureRegistry) OperationNames() []string {
	names := maps.Keys(r.operations)
	slices.Sort(names)
	return names
}

// Implementations returns the implements blocks of a structure, in registration order.
func (r *StructureRegistry) Implementations(name string) []*Implementation {
	return slices.Clone(r.impls[name])
}

// Axioms returns the axioms declared by a structure.
func (r *StructureRegistry) Axioms(name string) []ast.Axiom {
	s, ok := r.structures[name]
	if !ok {
		return nil
	}
	return s.Axioms
}

// ParamKinds classifies the declared parameters of a structure: `m: Nat` is a dimension,
// `u: String` a string tag, and anything else a type parameter.
func (r *StructureRegistry) ParamKinds(s *ast.StructureDef) map[string]types.ParamKind {
	kinds := make(map[string]types.ParamKind, len(s.TypeParams))
	for _, p := range s.TypeParams {
		kinds[p.Name] = types.TypeParam
		if p.Kind == nil {
			continue
		}
		if t, err := r.data.Resolve(p.Kind, nil); err == nil {
			kinds[p.Name] = types.KindOf(t)
		}
	}
	return kinds
}
