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

// Pattern is the base for all match patterns.
type Pattern interface {
	PatternName() string
}

var (
	_ Pattern = (*Wildcard)(nil)
	_ Pattern = (*PVar)(nil)
	_ Pattern = (*PConstructor)(nil)
	_ Pattern = (*PConstant)(nil)
)

// Wildcard pattern: `_`
type Wildcard struct{}

func (p *Wildcard) PatternName() string { return "Wildcard" }

// Variable pattern, binding the matched value: `x`
type PVar struct {
	Name string
}

func (p *PVar) PatternName() string { return "Variable" }

// Constructor pattern with nested sub-patterns: `Some(x)`, `Cons(_, Nil)`
type PConstructor struct {
	Name string
	Args []Pattern
}

func (p *PConstructor) PatternName() string { return "Constructor" }

// Literal pattern, matching only the identical literal: `0`
type PConstant struct {
	Value string
}

func (p *PConstant) PatternName() string { return "Constant" }

// IsIrrefutable reports whether p matches every value (a wildcard or a bare variable).
func IsIrrefutable(p Pattern) bool {
	switch p.(type) {
	case *Wildcard, *PVar:
		return true
	}
	return false
}

// PatternVars returns the names bound by p, left to right.
func PatternVars(p Pattern) []string {
	var names []string
	var visit func(Pattern)
	visit = func(p Pattern) {
		switch p := p.(type) {
		case *PVar:
			names = append(names, p.Name)
		case *PConstructor:
			for _, sub := range p.Args {
				visit(sub)
			}
		}
	}
	visit(p)
	return names
}
