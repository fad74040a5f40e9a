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
	"github.com/benbjohnson/immutable"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/kleis-lang/kleis/types"
)

var emptyEnv = immutable.NewSortedMap(nil)

// TypeEnv is a persistent type-environment mapping identifiers to declared types.
//
// Extending a type-environment returns a new environment and leaves the original unchanged, so
// bindings introduced within one match case are never visible outside of it.
type TypeEnv struct {
	m *immutable.SortedMap
}

// Create an empty type-environment.
func NewTypeEnv() *TypeEnv { return &TypeEnv{emptyEnv} }

func (e *TypeEnv) sorted() *immutable.SortedMap {
	if e == nil || e.m == nil {
		return emptyEnv
	}
	return e.m
}

// Lookup the type for an identifier in the environment.
func (e *TypeEnv) Lookup(name string) (types.Type, bool) {
	t, ok := e.sorted().Get(name)
	if !ok {
		return nil, false
	}
	return t.(types.Type), true
}

// Extend returns an environment which also maps name to t, shadowing any existing mapping.
func (e *TypeEnv) Extend(name string, t types.Type) *TypeEnv {
	return &TypeEnv{e.sorted().Set(name, t)}
}

// ExtendAll returns an environment which also contains every mapping in bindings.
func (e *TypeEnv) ExtendAll(bindings map[string]types.Type) *TypeEnv {
	if len(bindings) == 0 {
		return e
	}
	m := e.sorted()
	names := maps.Keys(bindings)
	slices.Sort(names)
	for _, name := range names {
		m = m.Set(name, bindings[name])
	}
	return &TypeEnv{m}
}

// Get the number of identifiers in the environment.
func (e *TypeEnv) Len() int { return e.sorted().Len() }

// Iterate over identifiers in the environment, in sorted order.
// If f returns false, iteration will be stopped.
func (e *TypeEnv) Range(f func(string, types.Type) bool) {
	iter := e.sorted().Iterator()
	for !iter.Done() {
		k, v := iter.Next()
		if !f(k.(string), v.(types.Type)) {
			return
		}
	}
}

// Names returns the identifiers in the environment, sorted.
func (e *TypeEnv) Names() []string {
	names := make([]string, 0, e.Len())
	e.Range(func(name string, _ types.Type) bool {
		names = append(names, name)
		return true
	})
	return names
}
