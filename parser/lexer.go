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

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	// literals and names
	IDENT
	NUMBER
	STRING

	// punctuation
	LROUND
	RROUND
	LCURLY
	RCURLY
	COMMA
	COLON
	SEMI
	PERIOD
	PIPE
	ASSIGN
	ARROW
	FATARROW
	UNDERSCORE

	// operators
	PLUS
	MINUS
	MULT
	DIV
	POW
	LESS
	GREATER
	EQ

	// keywords
	DATA
	STRUCTURE
	IMPLEMENTS
	DEFINE
	OPERATION
	ELEMENT
	AXIOM
	MATCH
	FORALL
)

var tokenNames = map[TokenType]string{
	EOF:        "end of input",
	ILLEGAL:    "illegal token",
	IDENT:      "identifier",
	NUMBER:     "number",
	STRING:     "string",
	LROUND:     "'('",
	RROUND:     "')'",
	LCURLY:     "'{'",
	RCURLY:     "'}'",
	COMMA:      "','",
	COLON:      "':'",
	SEMI:       "';'",
	PERIOD:     "'.'",
	PIPE:       "'|'",
	ASSIGN:     "'='",
	ARROW:      "'→'",
	FATARROW:   "'=>'",
	UNDERSCORE: "'_'",
	PLUS:       "'+'",
	MINUS:      "'-'",
	MULT:       "'*'",
	DIV:        "'/'",
	POW:        "'^'",
	LESS:       "'<'",
	GREATER:    "'>'",
	EQ:         "'=='",
	DATA:       "'data'",
	STRUCTURE:  "'structure'",
	IMPLEMENTS: "'implements'",
	DEFINE:     "'define'",
	OPERATION:  "'operation'",
	ELEMENT:    "'element'",
	AXIOM:      "'axiom'",
	MATCH:      "'match'",
	FORALL:     "'∀'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

var keywords = map[string]TokenType{
	"data":       DATA,
	"structure":  STRUCTURE,
	"implements": IMPLEMENTS,
	"define":     DEFINE,
	"operation":  OPERATION,
	"element":    ELEMENT,
	"axiom":      AXIOM,
	"match":      MATCH,
	"forall":     FORALL,
}

// Token is a lexeme with its starting position. Line and Col are 1-based; Col counts runes.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

// Error is a lexical or syntax error at a source position. Incomplete is set when the input
// ended before a construct was closed.
type Error struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

// IsIncomplete reports whether err is a parse error caused by input ending too early.
func IsIncomplete(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Incomplete
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer splits NFC-normalized source text into tokens.
type Lexer struct {
	src    []rune
	start  int
	cur    int
	line   int
	col    int
	tokens []Token

	tokLine int
	tokCol  int
}

// NewLexer creates a lexer for src. Input is normalized to NFC so that composed and decomposed
// spellings of the same identifier compare equal.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  []rune(norm.NFC.String(src)),
		line: 1,
		col:  1,
	}
}

// Tokenize lexes src to a token slice terminated by EOF.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekN(n int) rune {
	if l.cur+n >= len(l.src) {
		return 0
	}
	return l.src[l.cur+n]
}

func (l *Lexer) advance() rune {
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) addToken(tt TokenType) {
	l.tokens = append(l.tokens, Token{
		Type:   tt,
		Lexeme: string(l.src[l.start:l.cur]),
		Line:   l.tokLine,
		Col:    l.tokCol,
	})
}

func (l *Lexer) err(msg string, args ...interface{}) error {
	return &Error{Line: l.tokLine, Col: l.tokCol, Msg: fmt.Sprintf(msg, args...)}
}

// Scan lexes the whole input.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		if err := l.skipTrivia(); err != nil {
			return nil, err
		}
		l.start, l.tokLine, l.tokCol = l.cur, l.line, l.col
		if l.isAtEnd() {
			l.addToken(EOF)
			return l.tokens, nil
		}
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (l *Lexer) skipTrivia() error {
	for !l.isAtEnd() {
		switch ch := l.peek(); {
		case unicode.IsSpace(ch):
			l.advance()
		case ch == '/' && l.peekN(1) == '/':
			for !l.isAtEnd() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekN(1) == '*':
			l.tokLine, l.tokCol = l.line, l.col
			l.advance()
			l.advance()
			for {
				if l.isAtEnd() {
					err := l.err("unterminated block comment")
					err.(*Error).Incomplete = true
					return err
				}
				if l.peek() == '*' && l.peekN(1) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scanToken() error {
	ch := l.advance()
	switch ch {
	case '(':
		l.addToken(LROUND)
	case ')':
		l.addToken(RROUND)
	case '{':
		l.addToken(LCURLY)
	case '}':
		l.addToken(RCURLY)
	case ',':
		l.addToken(COMMA)
	case ':':
		l.addToken(COLON)
	case ';':
		l.addToken(SEMI)
	case '.':
		l.addToken(PERIOD)
	case '|':
		l.addToken(PIPE)
	case '+':
		l.addToken(PLUS)
	case '*', '×':
		l.addToken(MULT)
	case '/', '÷':
		l.addToken(DIV)
	case '^':
		l.addToken(POW)
	case '<':
		l.addToken(LESS)
	case '>':
		l.addToken(GREATER)
	case '→':
		l.addToken(ARROW)
	case '⇒':
		l.addToken(FATARROW)
	case '∀':
		l.addToken(FORALL)
	case '-':
		if l.peek() == '>' {
			l.advance()
			l.addToken(ARROW)
		} else {
			l.addToken(MINUS)
		}
	case '=':
		switch l.peek() {
		case '>':
			l.advance()
			l.addToken(FATARROW)
		case '=':
			l.advance()
			l.addToken(EQ)
		default:
			l.addToken(ASSIGN)
		}
	case '"':
		return l.scanString()
	default:
		switch {
		case isDigit(ch):
			l.scanNumber()
		case isIdentStart(ch):
			l.scanIdent()
		default:
			return l.err("unexpected character %q", ch)
		}
	}
	return nil
}

// scanString keeps the quoted lexeme; it must be a valid double-quoted Go string literal.
func (l *Lexer) scanString() error {
	for {
		if l.isAtEnd() || l.peek() == '\n' {
			return l.err("unterminated string literal")
		}
		ch := l.advance()
		if ch == '\\' && !l.isAtEnd() {
			l.advance()
			continue
		}
		if ch == '"' {
			break
		}
	}
	if _, err := strconv.Unquote(string(l.src[l.start:l.cur])); err != nil {
		return l.err("invalid string literal %s", string(l.src[l.start:l.cur]))
	}
	l.addToken(STRING)
	return nil
}

func (l *Lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	l.addToken(NUMBER)
}

func (l *Lexer) scanIdent() {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	text := string(l.src[l.start:l.cur])
	if text == "_" {
		l.addToken(UNDERSCORE)
		return
	}
	if tt, ok := keywords[text]; ok {
		l.addToken(tt)
		return
	}
	l.addToken(IDENT)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
