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

import "strconv"

// Substitute replaces free occurrences of the bound names in e with their bindings.
//
// Names bound by a match case shadow the bindings within that case's body. When a case binds a
// name which occurs free in a substituted expression, the case's variable is renamed so the
// substituted expression is not captured. e is not modified; unchanged sub-expressions are
// shared with the result.
func Substitute(e Expr, bindings map[string]Expr) Expr {
	if len(bindings) == 0 {
		return e
	}
	switch e := e.(type) {
	case *Const:
		return e

	case *Object:
		if b, ok := bindings[e.Name]; ok {
			return b
		}
		return e

	case *Operation:
		var args []Expr
		for i, arg := range e.Args {
			next := Substitute(arg, bindings)
			if next != arg && args == nil {
				args = make([]Expr, len(e.Args))
				copy(args, e.Args[:i])
			}
			if args != nil {
				args[i] = next
			}
		}
		if args == nil {
			return e
		}
		return &Operation{Name: e.Name, Args: args}

	case *Match:
		cases := make([]MatchCase, len(e.Cases))
		for i, c := range e.Cases {
			inner := shadow(bindings, PatternVars(c.Pattern))
			p, body := c.Pattern, c.Body
			if captured := capturedNames(p, inner); len(captured) > 0 {
				renames := make(map[string]string, len(captured))
				used := usedNames(body, inner)
				for _, v := range PatternVars(p) {
					used[v] = true
				}
				for _, name := range captured {
					renames[name] = freshName(name, used)
				}
				p, body = renamePattern(p, renames), renameExpr(body, renames)
			}
			cases[i] = MatchCase{Pattern: p, Body: Substitute(body, inner)}
		}
		return &Match{Scrutinee: Substitute(e.Scrutinee, bindings), Cases: cases}
	}
	panic("unknown expression type: " + e.ExprName())
}

func shadow(bindings map[string]Expr, names []string) map[string]Expr {
	if len(names) == 0 {
		return bindings
	}
	next := make(map[string]Expr, len(bindings))
	for k, v := range bindings {
		next[k] = v
	}
	for _, name := range names {
		delete(next, name)
	}
	return next
}

// capturedNames returns the variables of p which occur free in some binding.
func capturedNames(p Pattern, bindings map[string]Expr) []string {
	vars := PatternVars(p)
	if len(vars) == 0 || len(bindings) == 0 {
		return nil
	}
	free := make(map[string]bool)
	for _, b := range bindings {
		for _, name := range FreeNames(b) {
			free[name] = true
		}
	}
	var captured []string
	for _, v := range vars {
		if free[v] {
			captured = append(captured, v)
		}
	}
	return captured
}

func usedNames(body Expr, bindings map[string]Expr) map[string]bool {
	used := make(map[string]bool)
	WalkExpr(body, func(e Expr) {
		switch e := e.(type) {
		case *Object:
			used[e.Name] = true
		case *Match:
			for _, c := range e.Cases {
				for _, v := range PatternVars(c.Pattern) {
					used[v] = true
				}
			}
		}
	})
	for k, b := range bindings {
		used[k] = true
		for _, name := range FreeNames(b) {
			used[name] = true
		}
	}
	return used
}

func freshName(name string, used map[string]bool) string {
	for i := 1; ; i++ {
		next := name + strconv.Itoa(i)
		if !used[next] {
			used[next] = true
			return next
		}
	}
}

func renamePattern(p Pattern, renames map[string]string) Pattern {
	switch p := p.(type) {
	case *PVar:
		if name, ok := renames[p.Name]; ok {
			return &PVar{Name: name}
		}
	case *PConstructor:
		args := make([]Pattern, len(p.Args))
		for i, sub := range p.Args {
			args[i] = renamePattern(sub, renames)
		}
		return &PConstructor{Name: p.Name, Args: args}
	}
	return p
}

func renameExpr(e Expr, renames map[string]string) Expr {
	bindings := make(map[string]Expr, len(renames))
	for from, to := range renames {
		bindings[from] = &Object{Name: to}
	}
	return Substitute(e, bindings)
}
