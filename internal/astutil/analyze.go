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

package astutil

import (
	"golang.org/x/exp/slices"

	"github.com/kleis-lang/kleis/ast"
)

// Analysis for definitions which may be mutually-recursive; borrowed from Haskell.
// https://prime.haskell.org/wiki/RelaxedDependencyAnalysis
//
//   A group of bindings is sorted into strongly-connected components, and then type-checked
//   in dependency order. Binders of a component are monomorphic within the component until
//   the component is generalized.
//
// DefineGroups returns the indexes of defs grouped into strongly-connected components by their
// references to each other, in dependency order. A parameter shadows a definition of the same name.
// Indexes within a group are in declaration order.
func DefineGroups(defs []*ast.DefineDecl) [][]int {
	return newDependencies(defs).groups()
}

// dependencies holds, for each definition, the indexes of the definitions its body refers to.
type dependencies struct {
	refs [][]int

	// Tarjan's SCC algorithm, based on https://github.com/gonum/gonum/blob/master/graph/topo/tarjan.go
	count   int
	visited []int // 1-based visit order; 0 when unvisited
	low     []int
	onStack []bool
	stack   []int
	sccs    [][]int
}

func newDependencies(defs []*ast.DefineDecl) *dependencies {
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		index[d.Name] = i
	}
	refs := make([][]int, len(defs))
	for i, d := range defs {
		params := d.ParamNames()
		for _, name := range ast.FreeNames(d.Body) {
			if slices.Contains(params, name) {
				continue
			}
			if j, ok := index[name]; ok && !slices.Contains(refs[i], j) {
				refs[i] = append(refs[i], j)
			}
		}
	}
	return &dependencies{
		refs:    refs,
		visited: make([]int, len(defs)),
		low:     make([]int, len(defs)),
		onStack: make([]bool, len(defs)),
	}
}

// groups returns the components of the graph. A component follows every component it refers to.
func (d *dependencies) groups() [][]int {
	for v := range d.refs {
		if d.visited[v] == 0 {
			d.visit(v)
		}
	}
	return d.sccs
}

func (d *dependencies) visit(v int) {
	d.count++
	d.visited[v], d.low[v] = d.count, d.count
	d.stack = append(d.stack, v)
	d.onStack[v] = true

	for _, w := range d.refs[v] {
		switch {
		case d.visited[w] == 0:
			d.visit(w)
			d.low[v] = min(d.low[v], d.low[w])
		case d.onStack[w]:
			d.low[v] = min(d.low[v], d.visited[w])
		}
	}
	if d.low[v] != d.visited[v] {
		return
	}

	// v is the root of a component:
	i := slices.Index(d.stack, v)
	group := slices.Clone(d.stack[i:])
	for _, w := range group {
		d.onStack[w] = false
	}
	d.stack = d.stack[:i]
	slices.Sort(group)
	d.sccs = append(d.sccs, group)
}
