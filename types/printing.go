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

package types

import (
	"strconv"
	"strings"
	"sync"
)

var printerPool = sync.Pool{
	New: func() interface{} {
		return &typePrinter{idNames: make(map[int]string, 16)}
	},
}

func newTypePrinter(raw bool) *typePrinter {
	p := printerPool.Get().(*typePrinter)
	p.raw = raw
	return p
}

func (p *typePrinter) Release() {
	for k := range p.idNames {
		delete(p.idNames, k)
	}
	p.sb.Reset()
	printerPool.Put(p)
}

// TypeString returns a string representation of a Type. Type-variables are named
// 'a, 'b, ... in order of first appearance, so equivalent types print identically.
func TypeString(t Type) string {
	p := newTypePrinter(false)
	typeString(p, false, t)
	s := p.sb.String()
	p.Release()
	return s
}

// RawTypeString returns a string representation of a Type which names type-variables by id: '_12
func RawTypeString(t Type) string {
	p := newTypePrinter(true)
	typeString(p, false, t)
	s := p.sb.String()
	p.Release()
	return s
}

type typePrinter struct {
	idNames map[int]string
	raw     bool
	sb      strings.Builder
}

var _names [128]string

func init() {
	for i := range _names {
		_names[i] = "'" + string(byte(97+i%26))
		if i >= 26 {
			_names[i] += strconv.Itoa(i / 26)
		}
	}
}

func (p *typePrinter) varName(id int) string {
	if p.raw {
		return "'_" + strconv.Itoa(id)
	}
	if name, ok := p.idNames[id]; ok {
		return name
	}
	n := len(p.idNames)
	var name string
	if n < len(_names) {
		name = _names[n]
	} else {
		name = "'" + string(byte(97+n%26)) + strconv.Itoa(n/26)
	}
	p.idNames[id] = name
	return name
}

func typeString(p *typePrinter, simple bool, t Type) {
	switch t := t.(type) {
	case *Prim:
		p.sb.WriteString(t.Kind.String())

	case *NatValue:
		p.sb.WriteString(strconv.Itoa(t.Value))

	case *StringValue:
		p.sb.WriteString(strconv.Quote(t.Value))

	case *Var:
		p.sb.WriteString(p.varName(t.Id))

	case *Data:
		if t.Name == MetaType {
			p.sb.WriteString(t.Constructor)
		} else {
			p.sb.WriteString(t.Name)
		}
		if len(t.Args) == 0 {
			return
		}
		p.sb.WriteByte('(')
		for i, arg := range t.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			typeString(p, false, arg)
		}
		p.sb.WriteByte(')')

	case *Function:
		if simple {
			p.sb.WriteByte('(')
		}
		typeString(p, true, t.Arg)
		p.sb.WriteString(" → ")
		typeString(p, false, t.Result)
		if simple {
			p.sb.WriteByte(')')
		}

	case *ForAll:
		if simple {
			p.sb.WriteByte('(')
		}
		vars, body := Unquantify(t)
		p.sb.WriteString("∀")
		for i, v := range vars {
			if i > 0 {
				p.sb.WriteByte(' ')
			}
			p.sb.WriteString(p.varName(v.Id))
		}
		p.sb.WriteString(". ")
		typeString(p, false, body)
		if simple {
			p.sb.WriteByte(')')
		}

	case nil:
		p.sb.WriteString("<nil>")
	}
}
