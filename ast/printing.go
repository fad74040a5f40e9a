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

import (
	"strconv"
	"strings"
)

// ExprString returns a string representation of an expression.
func ExprString(e Expr) string {
	var sb strings.Builder
	exprString(&sb, e)
	return sb.String()
}

// PatternString returns a string representation of a pattern.
func PatternString(p Pattern) string {
	var sb strings.Builder
	patternString(&sb, p)
	return sb.String()
}

// TypeExprString returns a string representation of a type expression.
func TypeExprString(t TypeExpr) string {
	var sb strings.Builder
	typeExprString(&sb, false, t)
	return sb.String()
}

func exprString(sb *strings.Builder, e Expr) {
	switch et := e.(type) {
	case *Const:
		sb.WriteString(et.Value)

	case *Object:
		sb.WriteString(et.Name)

	case *Operation:
		sb.WriteString(et.Name)
		if len(et.Args) == 0 {
			return
		}
		sb.WriteByte('(')
		for i, arg := range et.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			exprString(sb, arg)
		}
		sb.WriteByte(')')

	case *Match:
		sb.WriteString("match ")
		exprString(sb, et.Scrutinee)
		sb.WriteString(" {")
		for i, c := range et.Cases {
			if i > 0 {
				sb.WriteString(" |")
			}
			sb.WriteByte(' ')
			patternString(sb, c.Pattern)
			sb.WriteString(" => ")
			exprString(sb, c.Body)
		}
		sb.WriteString(" }")

	case nil:
		sb.WriteString("<nil>")
	}
}

func patternString(sb *strings.Builder, p Pattern) {
	switch pt := p.(type) {
	case *Wildcard:
		sb.WriteByte('_')

	case *PVar:
		sb.WriteString(pt.Name)

	case *PConstant:
		sb.WriteString(pt.Value)

	case *PConstructor:
		sb.WriteString(pt.Name)
		if len(pt.Args) == 0 {
			return
		}
		sb.WriteByte('(')
		for i, sub := range pt.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			patternString(sb, sub)
		}
		sb.WriteByte(')')
	}
}

func typeExprString(sb *strings.Builder, simple bool, t TypeExpr) {
	switch tt := t.(type) {
	case *TName:
		sb.WriteString(tt.Name)

	case *TNat:
		sb.WriteString(strconv.Itoa(tt.Value))

	case *TString:
		sb.WriteString(strconv.Quote(tt.Value))

	case *TApp:
		sb.WriteString(tt.Name)
		sb.WriteByte('(')
		for i, arg := range tt.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			typeExprString(sb, false, arg)
		}
		sb.WriteByte(')')

	case *TArrow:
		if simple {
			sb.WriteByte('(')
		}
		typeExprString(sb, true, tt.From)
		sb.WriteString(" → ")
		typeExprString(sb, false, tt.To)
		if simple {
			sb.WriteByte(')')
		}
	}
}
