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
)

// Match attempts to match a value against p. On success it returns the sub-expressions of value
// bound to the variables of p. The first failing sub-pattern fails the whole match.
func Match(value ast.Expr, p ast.Pattern) (map[string]ast.Expr, bool) {
	bindings := make(map[string]ast.Expr)
	if !match(value, p, bindings) {
		return nil, false
	}
	return bindings, true
}

func match(value ast.Expr, p ast.Pattern, bindings map[string]ast.Expr) bool {
	switch p := p.(type) {
	case *ast.Wildcard:
		return true

	case *ast.PVar:
		bindings[p.Name] = value
		return true

	case *ast.PConstant:
		c, ok := value.(*ast.Const)
		return ok && c.Value == p.Value

	case *ast.PConstructor:
		switch v := value.(type) {
		case *ast.Object:
			return len(p.Args) == 0 && v.Name == p.Name
		case *ast.Operation:
			if v.Name != p.Name || len(v.Args) != len(p.Args) {
				return false
			}
			for i, sub := range p.Args {
				if !match(v.Args[i], sub, bindings) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// Select returns the index of the first case whose pattern matches value, with its bindings.
func Select(value ast.Expr, cases []ast.MatchCase) (int, map[string]ast.Expr, bool) {
	for i, c := range cases {
		if bindings, ok := Match(value, c.Pattern); ok {
			return i, bindings, true
		}
	}
	return -1, nil, false
}
