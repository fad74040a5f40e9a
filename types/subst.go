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

package types

import (
	"strconv"
	"strings"

	"github.com/benbjohnson/immutable"
)

var emptyMap = immutable.NewSortedMap(nil)

// Subst contains immutable mappings from type-variable ids to types. Substitutions produced by
// unification are idempotent: no variable bound in the map occurs free in any type of its range.
type Subst struct {
	m *immutable.SortedMap
}

// NewSubst returns the empty substitution.
func NewSubst() Subst { return Subst{emptyMap} }

// Create a substitution with a single binding.
func Singleton(id int, t Type) Subst {
	return Subst{emptyMap.Set(id, t)}
}

func (s Subst) sorted() *immutable.SortedMap {
	if s.m == nil {
		return emptyMap
	}
	return s.m
}

// Get the number of bindings in the substitution.
func (s Subst) Len() int { return s.sorted().Len() }

// Lookup returns the type bound to the variable with the given id.
func (s Subst) Lookup(id int) (Type, bool) {
	t, ok := s.sorted().Get(id)
	if !ok {
		return nil, false
	}
	return t.(Type), true
}

// Bind returns a substitution extended with a binding, without applying it to the existing range.
func (s Subst) Bind(id int, t Type) Subst {
	return Subst{s.sorted().Set(id, t)}
}

// Iterate over bindings in the substitution, in order of variable id.
// If f returns false, iteration will be stopped.
func (s Subst) Range(f func(int, Type) bool) {
	iter := s.sorted().Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		if !f(k.(int), v.(Type)) {
			return
		}
	}
}

// Apply replaces each free type-variable in t which is bound in the substitution.
// Variables bound by a ForAll are not replaced within its body.
func (s Subst) Apply(t Type) Type {
	if s.Len() == 0 {
		return t
	}
	return s.apply(t, nil)
}

func (s Subst) apply(t Type, bound map[int]bool) Type {
	switch t := t.(type) {
	case *Var:
		if bound[t.Id] {
			return t
		}
		if r, ok := s.Lookup(t.Id); ok {
			return r
		}
		return t

	case *Data:
		if len(t.Args) == 0 {
			return t
		}
		var args []Type
		for i, arg := range t.Args {
			next := s.apply(arg, bound)
			if next != arg && args == nil {
				args = make([]Type, len(t.Args))
				copy(args, t.Args[:i])
			}
			if args != nil {
				args[i] = next
			}
		}
		if args == nil {
			return t
		}
		return &Data{Name: t.Name, Constructor: t.Constructor, Args: args}

	case *Function:
		arg, result := s.apply(t.Arg, bound), s.apply(t.Result, bound)
		if arg == t.Arg && result == t.Result {
			return t
		}
		return &Function{Arg: arg, Result: result}

	case *ForAll:
		inner := make(map[int]bool, len(bound)+1)
		for k := range bound {
			inner[k] = true
		}
		inner[t.Var.Id] = true
		body := s.apply(t.Body, inner)
		if body == t.Body {
			return t
		}
		return &ForAll{Var: t.Var, Body: body}
	}
	return t
}

// Compose returns the substitution which applies s and then next.
//
// next is applied to every type in the range of s, and bindings of next for variables
// not bound in s are added.
func (s Subst) Compose(next Subst) Subst {
	if next.Len() == 0 {
		return s
	}
	if s.Len() == 0 {
		return next
	}
	m := s.sorted()
	s.Range(func(id int, t Type) bool {
		m = m.Set(id, next.Apply(t))
		return true
	})
	next.Range(func(id int, t Type) bool {
		if _, ok := s.Lookup(id); !ok {
			m = m.Set(id, t)
		}
		return true
	})
	return Subst{m}
}

// IsIdempotent reports whether applying the substitution to its own range changes nothing.
func (s Subst) IsIdempotent() bool {
	ok := true
	s.Range(func(id int, t Type) bool {
		if !Equal(s.Apply(t), t) {
			ok = false
		}
		return ok
	})
	return ok
}

// String returns the bindings as `{'_0 := Scalar, '_3 := Option('_1)}`, ordered by id.
func (s Subst) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	i := 0
	s.Range(func(id int, t Type) bool {
		if i > 0 {
			sb.WriteString(", ")
		}
		i++
		sb.WriteString("'_")
		sb.WriteString(strconv.Itoa(id))
		sb.WriteString(" := ")
		sb.WriteString(RawTypeString(t))
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}
