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

package parser

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/kleis-lang/kleis/ast"
)

// ParseProgram parses a sequence of top-level declarations.
func ParseProgram(src string) (*ast.Program, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	prog := &ast.Program{}
	for !p.atEnd() {
		if p.match(SEMI) {
			continue
		}
		decl, err := p.decl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}

// ParseExpr parses a single expression spanning all of src.
func ParseExpr(src string) (ast.Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	e, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorf(p.peek(), "unexpected %s after expression", describe(p.peek()))
	}
	return e, nil
}

// ParseType parses a single type expression spanning all of src.
func ParseType(src string) (ast.TypeExpr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	t, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errorf(p.peek(), "unexpected %s after type", describe(p.peek()))
	}
	return t, nil
}

type parser struct {
	toks []Token
	i    int
}

func newParser(src string) (*parser, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks}, nil
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }
func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}
func (p *parser) peekN(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}
func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) check(t TokenType) bool { return p.peek().Type == t }

func (p *parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType, context string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	g := p.peek()
	return Token{}, p.errorf(g, "expected %s %s, got %s", t, context, describe(g))
}

func (p *parser) errorf(at Token, format string, args ...interface{}) error {
	return &Error{Line: at.Line, Col: at.Col, Msg: fmt.Sprintf(format, args...), Incomplete: at.Type == EOF}
}

func describe(t Token) string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT, NUMBER, STRING:
		return strconv.Quote(t.Lexeme)
	}
	return t.Type.String()
}

// commaList parses `item (, item)*` up to and including close. An empty list is allowed.
func (p *parser) commaList(close TokenType, context string, item func() error) error {
	if p.match(close) {
		return nil
	}
	for {
		if err := item(); err != nil {
			return err
		}
		if p.match(COMMA) {
			continue
		}
		_, err := p.need(close, context)
		return err
	}
}

// ─────────────────────────────── declarations ───────────────────────────────

func (p *parser) decl() (ast.Decl, error) {
	switch t := p.peek(); t.Type {
	case DATA:
		return p.dataDef()
	case STRUCTURE:
		return p.structureDef()
	case IMPLEMENTS:
		return p.implementsDef()
	case DEFINE:
		return p.defineDecl()
	default:
		return nil, p.errorf(t, "expected a declaration, got %s", describe(t))
	}
}

// data Name(T, U) = A | B(x: T, U)
func (p *parser) dataDef() (*ast.DataDef, error) {
	p.i++
	name, err := p.need(IDENT, "after 'data'")
	if err != nil {
		return nil, err
	}
	def := &ast.DataDef{Name: name.Lexeme}
	if p.match(LROUND) {
		err := p.commaList(RROUND, "to close type parameters", func() error {
			param, err := p.need(IDENT, "in type parameters")
			if err != nil {
				return err
			}
			// `T: Type` is accepted; data parameters are always types
			if p.match(COLON) {
				if _, err := p.typeExpr(); err != nil {
					return err
				}
			}
			def.TypeParams = append(def.TypeParams, param.Lexeme)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(ASSIGN, "after data type head"); err != nil {
		return nil, err
	}
	p.match(PIPE)
	for {
		v, err := p.dataVariant()
		if err != nil {
			return nil, err
		}
		def.Variants = append(def.Variants, v)
		if !p.match(PIPE) {
			return def, nil
		}
	}
}

func (p *parser) dataVariant() (ast.DataVariant, error) {
	name, err := p.need(IDENT, "for variant name")
	if err != nil {
		return ast.DataVariant{}, err
	}
	v := ast.DataVariant{Name: name.Lexeme}
	if !p.match(LROUND) {
		return v, nil
	}
	err = p.commaList(RROUND, "to close variant fields", func() error {
		var field ast.DataField
		if p.check(IDENT) && p.peekN(1).Type == COLON {
			field.Name = p.peek().Lexeme
			p.i += 2
		}
		t, err := p.typeExpr()
		if err != nil {
			return err
		}
		field.Type = t
		v.Fields = append(v.Fields, field)
		return nil
	})
	return v, err
}

// structure Name(m: Nat, T) { operation f : T → T; element e : T; axiom a : ∀(x : T). f(x) = x }
func (p *parser) structureDef() (*ast.StructureDef, error) {
	p.i++
	name, err := p.need(IDENT, "after 'structure'")
	if err != nil {
		return nil, err
	}
	def := &ast.StructureDef{Name: name.Lexeme}
	if p.match(LROUND) {
		err := p.commaList(RROUND, "to close structure parameters", func() error {
			param, err := p.need(IDENT, "in structure parameters")
			if err != nil {
				return err
			}
			tp := ast.TypeParam{Name: param.Lexeme}
			if p.match(COLON) {
				if tp.Kind, err = p.typeExpr(); err != nil {
					return err
				}
			}
			def.TypeParams = append(def.TypeParams, tp)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(LCURLY, "to open structure body"); err != nil {
		return nil, err
	}
	for !p.match(RCURLY) {
		if p.match(SEMI) {
			continue
		}
		switch t := p.peek(); t.Type {
		case OPERATION, ELEMENT:
			p.i++
			opName, err := p.need(IDENT, "for operation name")
			if err != nil {
				return nil, err
			}
			if _, err := p.need(COLON, "after operation name"); err != nil {
				return nil, err
			}
			sig, err := p.typeExpr()
			if err != nil {
				return nil, err
			}
			def.Operations = append(def.Operations, ast.OperationDecl{
				Name:      opName.Lexeme,
				Signature: sig,
				Element:   t.Type == ELEMENT,
			})
		case AXIOM:
			ax, err := p.axiom()
			if err != nil {
				return nil, err
			}
			def.Axioms = append(def.Axioms, ax)
		default:
			return nil, p.errorf(t, "expected operation, element, or axiom in structure %s, got %s", def.Name, describe(t))
		}
	}
	return def, nil
}

// axiom name : ∀(x y : T)(z : U). body
func (p *parser) axiom() (ast.Axiom, error) {
	p.i++
	name, err := p.need(IDENT, "for axiom name")
	if err != nil {
		return ast.Axiom{}, err
	}
	ax := ast.Axiom{Name: name.Lexeme}
	if _, err := p.need(COLON, "after axiom name"); err != nil {
		return ax, err
	}
	if p.match(FORALL) {
		for p.match(LROUND) {
			var names []string
			for p.check(IDENT) {
				names = append(names, p.peek().Lexeme)
				p.i++
				p.match(COMMA)
			}
			if len(names) == 0 {
				return ax, p.errorf(p.peek(), "expected quantified variable, got %s", describe(p.peek()))
			}
			if _, err := p.need(COLON, "after quantified variables"); err != nil {
				return ax, err
			}
			t, err := p.typeExpr()
			if err != nil {
				return ax, err
			}
			if _, err := p.need(RROUND, "to close quantifier"); err != nil {
				return ax, err
			}
			for _, n := range names {
				ax.Vars = append(ax.Vars, ast.Binder{Name: n, Type: t})
			}
		}
		if _, err := p.need(PERIOD, "after quantifier"); err != nil {
			return ax, err
		}
	}
	ax.Body, err = p.expr(0)
	return ax, err
}

// implements Name(args) { operation f = builtin_f; operation g(x) = expr; element e = expr }
func (p *parser) implementsDef() (*ast.ImplementsDef, error) {
	p.i++
	name, err := p.need(IDENT, "after 'implements'")
	if err != nil {
		return nil, err
	}
	def := &ast.ImplementsDef{StructureName: name.Lexeme}
	if p.match(LROUND) {
		err := p.commaList(RROUND, "to close type arguments", func() error {
			t, err := p.typeExpr()
			if err == nil {
				def.TypeArgs = append(def.TypeArgs, t)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	if !p.match(LCURLY) {
		return def, nil
	}
	for !p.match(RCURLY) {
		if p.match(SEMI) {
			continue
		}
		t := p.peek()
		if t.Type != OPERATION && t.Type != ELEMENT {
			return nil, p.errorf(t, "expected operation or element in implements %s, got %s", def.StructureName, describe(t))
		}
		p.i++
		opName, err := p.need(IDENT, "for operation name")
		if err != nil {
			return nil, err
		}
		body := ast.OperationBody{Name: opName.Lexeme}
		hasParams := p.match(LROUND)
		if hasParams {
			err := p.commaList(RROUND, "to close parameters", func() error {
				param, err := p.need(IDENT, "in parameters")
				if err == nil {
					body.Params = append(body.Params, param.Lexeme)
				}
				return err
			})
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.need(ASSIGN, "before operation body"); err != nil {
			return nil, err
		}
		// a lone identifier names a native implementation
		if !hasParams && p.check(IDENT) && p.endsBody(p.peekN(1)) {
			body.Builtin = p.peek().Lexeme
			p.i++
		} else if body.Expr, err = p.expr(0); err != nil {
			return nil, err
		}
		def.Operations = append(def.Operations, body)
	}
	return def, nil
}

func (p *parser) endsBody(t Token) bool {
	switch t.Type {
	case SEMI, RCURLY, OPERATION, ELEMENT, EOF:
		return true
	}
	return false
}

// define f(x, y: T): U = body
func (p *parser) defineDecl() (*ast.DefineDecl, error) {
	p.i++
	name, err := p.need(IDENT, "after 'define'")
	if err != nil {
		return nil, err
	}
	def := &ast.DefineDecl{Name: name.Lexeme}
	if p.match(LROUND) {
		err := p.commaList(RROUND, "to close parameters", func() error {
			param, err := p.need(IDENT, "in parameters")
			if err != nil {
				return err
			}
			prm := ast.Param{Name: param.Lexeme}
			if p.match(COLON) {
				if prm.Type, err = p.typeExpr(); err != nil {
					return err
				}
			}
			def.Params = append(def.Params, prm)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if p.match(COLON) {
		if def.Result, err = p.typeExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(ASSIGN, "before define body"); err != nil {
		return nil, err
	}
	def.Body, err = p.expr(0)
	return def, err
}

// ──────────────────────────────────── types ─────────────────────────────────

// Arrows associate to the right: A → B → C is A → (B → C).
func (p *parser) typeExpr() (ast.TypeExpr, error) {
	from, err := p.typeAtom()
	if err != nil {
		return nil, err
	}
	if !p.match(ARROW) {
		return from, nil
	}
	to, err := p.typeExpr()
	if err != nil {
		return nil, err
	}
	return &ast.TArrow{From: from, To: to}, nil
}

func (p *parser) typeAtom() (ast.TypeExpr, error) {
	switch t := p.peek(); t.Type {
	case IDENT:
		p.i++
		if !p.match(LROUND) {
			return &ast.TName{Name: t.Lexeme}, nil
		}
		app := &ast.TApp{Name: t.Lexeme}
		err := p.commaList(RROUND, "to close type arguments", func() error {
			arg, err := p.typeExpr()
			if err == nil {
				app.Args = append(app.Args, arg)
			}
			return err
		})
		return app, err
	case NUMBER:
		p.i++
		n, err := strconv.Atoi(t.Lexeme)
		if err != nil || n < 0 {
			return nil, p.errorf(t, "dimension must be a natural number, got %s", t.Lexeme)
		}
		return &ast.TNat{Value: n}, nil
	case STRING:
		p.i++
		s, _ := strconv.Unquote(t.Lexeme)
		return &ast.TString{Value: s}, nil
	case LROUND:
		p.i++
		inner, err := p.typeExpr()
		if err != nil {
			return nil, err
		}
		_, err = p.need(RROUND, "to close type")
		return inner, err
	default:
		return nil, p.errorf(t, "expected a type, got %s", describe(t))
	}
}

// ───────────────────────── precedence / associativity ──────────────────────

var binaryOps = map[TokenType]string{
	ASSIGN:  "equals",
	EQ:      "equals",
	LESS:    "less_than",
	GREATER: "greater_than",
	PLUS:    "plus",
	MINUS:   "minus",
	MULT:    "times",
	DIV:     "divide",
	POW:     "power",
}

func lbp(t TokenType) (int, bool) {
	switch t {
	case POW:
		return 50, true
	case MULT, DIV:
		return 40, true
	case PLUS, MINUS:
		return 30, true
	case LESS, GREATER:
		return 20, true
	case ASSIGN, EQ:
		return 10, true
	}
	return 0, false
}
func isRightAssoc(tt TokenType) bool { return tt == POW }

// unary minus binds tighter than products but looser than powers: -x^2 is negate(power(x, 2))
const prefixBP = 45

// ──────────────────────────────── expressions ───────────────────────────────

func (p *parser) expr(minBP int) (ast.Expr, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek().Type
		bp, ok := lbp(op)
		if !ok || bp <= minBP {
			return left, nil
		}
		p.i++
		next := bp
		if isRightAssoc(op) {
			next = bp - 1
		}
		right, err := p.expr(next)
		if err != nil {
			return nil, err
		}
		left = &ast.Operation{Name: binaryOps[op], Args: []ast.Expr{left, right}}
	}
}

func (p *parser) prefix() (ast.Expr, error) {
	switch t := p.peek(); t.Type {
	case NUMBER, STRING:
		p.i++
		return &ast.Const{Value: t.Lexeme}, nil
	case MINUS:
		p.i++
		// negative literals stay symbolic constants
		if p.check(NUMBER) && p.peekN(1).Type != POW {
			p.i++
			return &ast.Const{Value: "-" + p.prev().Lexeme}, nil
		}
		operand, err := p.expr(prefixBP)
		if err != nil {
			return nil, err
		}
		return &ast.Operation{Name: "negate", Args: []ast.Expr{operand}}, nil
	case IDENT:
		p.i++
		if !p.match(LROUND) {
			return &ast.Object{Name: t.Lexeme}, nil
		}
		op := &ast.Operation{Name: t.Lexeme}
		err := p.commaList(RROUND, "to close arguments", func() error {
			arg, err := p.expr(0)
			if err == nil {
				op.Args = append(op.Args, arg)
			}
			return err
		})
		return op, err
	case LROUND:
		p.i++
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		_, err = p.need(RROUND, "to close parenthesized expression")
		return inner, err
	case MATCH:
		return p.matchExpr()
	default:
		return nil, p.errorf(t, "expected an expression, got %s", describe(t))
	}
}

// match e { p1 => e1 | p2 => e2 }
func (p *parser) matchExpr() (*ast.Match, error) {
	p.i++
	scrutinee, err := p.expr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LCURLY, "to open match cases"); err != nil {
		return nil, err
	}
	m := &ast.Match{Scrutinee: scrutinee}
	p.match(PIPE)
	for !p.match(RCURLY) {
		pat, err := p.pattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(FATARROW, "after pattern"); err != nil {
			return nil, err
		}
		body, err := p.expr(0)
		if err != nil {
			return nil, err
		}
		m.Cases = append(m.Cases, ast.MatchCase{Pattern: pat, Body: body})
		if !p.match(PIPE) && !p.match(SEMI) && !p.check(RCURLY) {
			return nil, p.errorf(p.peek(), "expected '|' or '}' after match case, got %s", describe(p.peek()))
		}
	}
	return m, nil
}

// ───────────────────────────────── patterns ─────────────────────────────────

func (p *parser) pattern() (ast.Pattern, error) {
	switch t := p.peek(); t.Type {
	case UNDERSCORE:
		p.i++
		return &ast.Wildcard{}, nil
	case NUMBER, STRING:
		p.i++
		return &ast.PConstant{Value: t.Lexeme}, nil
	case MINUS:
		p.i++
		n, err := p.need(NUMBER, "after '-' in pattern")
		if err != nil {
			return nil, err
		}
		return &ast.PConstant{Value: "-" + n.Lexeme}, nil
	case IDENT:
		p.i++
		if p.match(LROUND) {
			c := &ast.PConstructor{Name: t.Lexeme}
			err := p.commaList(RROUND, "to close constructor pattern", func() error {
				sub, err := p.pattern()
				if err == nil {
					c.Args = append(c.Args, sub)
				}
				return err
			})
			return c, err
		}
		if isConstructorName(t.Lexeme) {
			return &ast.PConstructor{Name: t.Lexeme}, nil
		}
		return &ast.PVar{Name: t.Lexeme}, nil
	default:
		return nil, p.errorf(t, "expected a pattern, got %s", describe(t))
	}
}

func isConstructorName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
