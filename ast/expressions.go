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

// Expr is the base for all expressions. Expressions are immutable once parsed.
type Expr interface {
	// Name of the syntax-type of the expression.
	ExprName() string
}

var (
	_ Expr = (*Const)(nil)
	_ Expr = (*Object)(nil)
	_ Expr = (*Operation)(nil)
	_ Expr = (*Match)(nil)
)

// Literal token, stored as text. Constants are symbolic and never parsed to a number.
type Const struct {
	Value string
}

// "Const"
func (e *Const) ExprName() string { return "Const" }

// Free variable or identifier reference: `x`
type Object struct {
	Name string
}

// "Object"
func (e *Object) ExprName() string { return "Object" }

// N-ary named application: `add(A, B)`, `Some(x)`, `plus(1, 2)`
type Operation struct {
	Name string
	Args []Expr
}

// "Operation"
func (e *Operation) ExprName() string { return "Operation" }

// Pattern-matching expression:
//
//  match e {
//      None => 0
//    | Some(x) => x
//  }
//
// Cases are ordered; the first matching case wins.
type Match struct {
	Scrutinee Expr
	Cases     []MatchCase
}

// "Match"
func (e *Match) ExprName() string { return "Match" }

// Case expression within Match: `Some(x) => x`
type MatchCase struct {
	Pattern Pattern
	Body    Expr
}

// Patterns returns the pattern of each case, in declaration order.
func (e *Match) Patterns() []Pattern {
	ps := make([]Pattern, len(e.Cases))
	for i, c := range e.Cases {
		ps[i] = c.Pattern
	}
	return ps
}
