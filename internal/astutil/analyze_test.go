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
	"reflect"
	"testing"

	"github.com/kleis-lang/kleis/parser"
)

func TestDefineGroups(t *testing.T) {
	prog, err := parser.ParseProgram(`
define main = even(1)
define even(n) = match n { 0 => True | _ => odd(minus(n, 1)) }
define odd(n) = match n { 0 => False | _ => even(minus(n, 1)) }
define shadow(even) = even
define local(x) = match x { Some(odd) => odd | None => 0 }
`)
	if err != nil {
		t.Fatal(err)
	}
	groups := DefineGroups(prog.Defines())
	expected := [][]int{{1, 2}, {0}, {3}, {4}}
	if !reflect.DeepEqual(groups, expected) {
		t.Fatalf("expected %v, found %v", expected, groups)
	}
}

func TestDefineGroupsSelfReference(t *testing.T) {
	prog, err := parser.ParseProgram(`
define loop(x) = plus(loop(x), loop(x))
define twice(x) = plus(loop(x), loop(x))
`)
	if err != nil {
		t.Fatal(err)
	}
	deps := newDependencies(prog.Defines())
	if len(deps.refs[1]) != 1 {
		t.Fatalf("expected repeated references to be ignored, got %v", deps.refs[1])
	}

	groups := deps.groups()
	expected := [][]int{{0}, {1}}
	if !reflect.DeepEqual(groups, expected) {
		t.Fatalf("expected %v, found %v", expected, groups)
	}
}
