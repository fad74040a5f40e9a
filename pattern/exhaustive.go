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
	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/internal/typeutil"
	"github.com/kleis-lang/kleis/types"
)

// CheckExhaustive returns the constructors of the scrutinee type which the patterns do not cover,
// in declaration order. A constructor is missing when some value built with it matches none of
// the patterns, so `Some(0)` alone does not cover `Some`.
//
// For scrutinee types without a finite set of constructors, "_" is reported unless some pattern
// covers every value.
func (c *Checker) CheckExhaustive(patterns []ast.Pattern, scrutinee types.Type) []string {
	rows := make([][]ast.Pattern, len(patterns))
	for i, p := range patterns {
		rows[i] = []ast.Pattern{p}
	}
	ctors := c.constructors(scrutinee)
	if len(ctors) == 0 {
		if c.useful(rows, []ast.Pattern{wildcard}, []types.Type{scrutinee}) {
			return []string{"_"}
		}
		return nil
	}
	var missing []string
	for _, name := range ctors {
		q := []ast.Pattern{&ast.PConstructor{Name: name, Args: wildcards(c.arity(name))}}
		if c.useful(rows, q, []types.Type{scrutinee}) {
			missing = append(missing, name)
		}
	}
	return missing
}

var wildcard = &ast.Wildcard{}

func wildcards(n int) []ast.Pattern {
	ps := make([]ast.Pattern, n)
	for i := range ps {
		ps[i] = wildcard
	}
	return ps
}

// constructors returns the constructors which can build values of t, or nil when the set is
// unknown or unbounded.
func (c *Checker) constructors(t types.Type) []string {
	d, ok := t.(*types.Data)
	if !ok {
		return nil
	}
	if d.Name == types.MetaType {
		return []string{d.Constructor}
	}
	return c.Data.Variants(d.Name)
}

func (c *Checker) arity(ctor string) int {
	_, v, ok := c.Data.LookupVariant(ctor)
	if !ok {
		return 0
	}
	return len(v.Fields)
}

// fieldTypes returns the types of a constructor's fields for a value of type t.
func (c *Checker) fieldTypes(ctor string, t types.Type) []types.Type {
	vi, err := c.Data.InstantiateVariant(ctor, c.Vars)
	if err != nil {
		return nil
	}
	s, err := typeutil.Unify(t, vi.Result)
	if err != nil {
		return vi.Fields
	}
	fields := make([]types.Type, len(vi.Fields))
	for i, f := range vi.Fields {
		fields[i] = s.Apply(f)
	}
	return fields
}

// useful reports whether some value matched by q is matched by no row of the matrix.
func (c *Checker) useful(rows [][]ast.Pattern, q []ast.Pattern, tys []types.Type) bool {
	if len(q) == 0 {
		return len(rows) == 0
	}
	switch head := q[0].(type) {
	case *ast.PConstructor:
		fields := c.fieldTypes(head.Name, tys[0])
		qs := append(fit(head.Args, len(fields)), q[1:]...)
		return c.useful(c.specialize(rows, head.Name, len(fields)), qs, append(fields, tys[1:]...))

	case *ast.PConstant:
		return c.useful(specializeConstant(rows, head.Value), q[1:], tys[1:])
	}

	ctors := c.constructors(tys[0])
	if len(ctors) > 0 && covers(rows, ctors) {
		for _, name := range ctors {
			fields := c.fieldTypes(name, tys[0])
			qs := append(wildcards(len(fields)), q[1:]...)
			if c.useful(c.specialize(rows, name, len(fields)), qs, append(fields, tys[1:]...)) {
				return true
			}
		}
		return false
	}
	return c.useful(defaultRows(rows), q[1:], tys[1:])
}

// covers reports whether every constructor heads some row.
func covers(rows [][]ast.Pattern, ctors []string) bool {
	seen := make(map[string]bool, len(ctors))
	for _, row := range rows {
		if p, ok := row[0].(*ast.PConstructor); ok {
			seen[p.Name] = true
		}
	}
	for _, name := range ctors {
		if !seen[name] {
			return false
		}
	}
	return true
}

// specialize keeps the rows which match a value built with ctor, replacing their first column
// with the constructor's sub-patterns.
func (c *Checker) specialize(rows [][]ast.Pattern, ctor string, arity int) [][]ast.Pattern {
	var next [][]ast.Pattern
	for _, row := range rows {
		switch p := row[0].(type) {
		case *ast.PConstructor:
			if p.Name != ctor {
				continue
			}
			next = append(next, append(fit(p.Args, arity), row[1:]...))
		case *ast.Wildcard, *ast.PVar:
			next = append(next, append(wildcards(arity), row[1:]...))
		}
	}
	return next
}

func specializeConstant(rows [][]ast.Pattern, value string) [][]ast.Pattern {
	var next [][]ast.Pattern
	for _, row := range rows {
		switch p := row[0].(type) {
		case *ast.PConstant:
			if p.Value == value {
				next = append(next, row[1:])
			}
		case *ast.Wildcard, *ast.PVar:
			next = append(next, row[1:])
		}
	}
	return next
}

// defaultRows keeps the rows whose first column matches any value.
func defaultRows(rows [][]ast.Pattern) [][]ast.Pattern {
	var next [][]ast.Pattern
	for _, row := range rows {
		if ast.IsIrrefutable(row[0]) {
			next = append(next, row[1:])
		}
	}
	return next
}

// fit pads or truncates sub-patterns to the arity of their constructor.
func fit(ps []ast.Pattern, n int) []ast.Pattern {
	out := make([]ast.Pattern, n)
	for i := range out {
		if i < len(ps) {
			out[i] = ps[i]
		} else {
			out[i] = wildcard
		}
	}
	return out
}
