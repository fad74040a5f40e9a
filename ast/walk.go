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

// WalkExpr calls f for e and every sub-expression of e, in pre-order.
func WalkExpr(e Expr, f func(Expr)) {
	switch e := e.(type) {
	case *Const, *Object:
		f(e)

	case *Operation:
		f(e)
		for _, arg := range e.Args {
			WalkExpr(arg, f)
		}

	case *Match:
		f(e)
		WalkExpr(e.Scrutinee, f)
		for _, c := range e.Cases {
			WalkExpr(c.Body, f)
		}

	case nil:

	default:
		panic("unknown expression type: " + e.ExprName())
	}
}

// FreeNames returns the names referenced by e which are not bound by an enclosing
// match case, in order of first occurrence. Operation names are included.
func FreeNames(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	var visit func(e Expr, bound map[string]bool)
	visit = func(e Expr, bound map[string]bool) {
		switch e := e.(type) {
		case *Object:
			if !bound[e.Name] && !seen[e.Name] {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
		case *Operation:
			if !bound[e.Name] && !seen[e.Name] {
				seen[e.Name] = true
				names = append(names, e.Name)
			}
			for _, arg := range e.Args {
				visit(arg, bound)
			}
		case *Match:
			visit(e.Scrutinee, bound)
			for _, c := range e.Cases {
				vars := PatternVars(c.Pattern)
				if len(vars) == 0 {
					visit(c.Body, bound)
					continue
				}
				inner := make(map[string]bool, len(bound)+len(vars))
				for k := range bound {
					inner[k] = true
				}
				for _, v := range vars {
					inner[v] = true
				}
				visit(c.Body, inner)
			}
		}
	}
	visit(e, map[string]bool{})
	return names
}
