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

package main

import (
	"bytes"
	"strings"
	"testing"
)

const prelude = "testdata/prelude.kleis"

func capture(t *testing.T, f func() int) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() { stdout, stderr = prevOut, prevErr }()
	code := f()
	return code, out.String(), errOut.String()
}

func TestCheckCommand(t *testing.T) {
	code, out, errOut := capture(t, func() int { return cmdCheck([]string{prelude}) })
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "not : Bool → Bool\nid : ∀'a. 'a → 'a\nunwrap : ∀'a. Option('a) → 'a → 'a\n" {
		t.Fatalf("output:\n%s", out)
	}

	code, out, _ = capture(t, func() int {
		return cmdCheck([]string{prelude, "transpose(Matrix(2, 3, 1, 2, 3, 4, 5, 6))"})
	})
	if code != 0 || out != blue("Matrix(3, 2, Scalar)")+"\n" {
		t.Fatalf("exit %d: %q", code, out)
	}

	code, out, errOut = capture(t, func() int {
		return cmdCheck([]string{prelude, "add(Matrix(2, 3, 1, 2, 3, 4, 5, 6), Matrix(3, 2, 1, 2, 3, 4, 5, 6))"})
	})
	if code != 1 || out != "" {
		t.Fatalf("exit %d: %q", code, out)
	}
	if !strings.Contains(errOut, "MatrixAddable requires consistent dimensions for add; got (2,3) and (3,2)") {
		t.Fatalf("stderr: %s", errOut)
	}

	code, _, errOut = capture(t, func() int { return cmdCheck([]string{prelude, "match x { Some(y) => y }"}) })
	if code != 0 || !strings.Contains(errOut, yellow("warning: Non-exhaustive match on Option('a): missing None")) {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	code, _, errOut = capture(t, func() int {
		return cmdCheck([]string{"-strict", prelude, "match x { Some(y) => y }"})
	})
	if code != 1 || !strings.Contains(errOut, "missing None") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
}

func TestCheckCommandErrors(t *testing.T) {
	for _, c := range []struct {
		args []string
		code int
		err  string
	}{
		{nil, 2, "usage: kleis check"},
		{[]string{"-bogus", prelude}, 2, "flag provided but not defined"},
		{[]string{"testdata/missing.kleis"}, 1, "read"},
		{[]string{prelude, "nott(True)"}, 1, "did you mean not?"},
		{[]string{prelude, "not(True"}, 1, ""},
	} {
		code, _, errOut := capture(t, func() int { return cmdCheck(c.args) })
		if code != c.code || !strings.Contains(errOut, c.err) {
			t.Fatalf("%v: exit %d: %s", c.args, code, errOut)
		}
	}
}

func TestEvalCommand(t *testing.T) {
	code, out, errOut := capture(t, func() int { return cmdEval([]string{prelude, "unwrap(Some(2), 0)"}) })
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != blue("2")+" : Scalar\n" {
		t.Fatalf("output: %q", out)
	}

	code, out, _ = capture(t, func() int { return cmdEval([]string{prelude, "not(True)"}) })
	if code != 0 || out != blue("False")+" : Bool\n" {
		t.Fatalf("exit %d: %q", code, out)
	}

	code, _, errOut = capture(t, func() int { return cmdEval([]string{prelude}) })
	if code != 2 || !strings.Contains(errOut, "usage: kleis eval") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
}

func TestVerboseLogging(t *testing.T) {
	code, _, errOut := capture(t, func() int { return cmdCheck([]string{"-v", prelude}) })
	if code != 0 || !strings.Contains(errOut, "kleis: define id : ∀'a. 'a → 'a\n") {
		t.Fatalf("exit %d: %s", code, errOut)
	}
}

func TestReplCommands(t *testing.T) {
	cfg, _, err := parseFlags("repl", nil)
	if err != nil {
		t.Fatal(err)
	}
	checker, err := newChecker(cfg, prelude)
	if err != nil {
		t.Fatal(err)
	}

	for _, cmd := range []struct {
		line string
		out  string
	}{
		{":type not(True)", blue("Bool") + "\n"},
		{":t id", blue("'a → 'a") + "\n"},
		{":axioms Nope", "Nope declares no axioms\n"},
		{":defines", "not : Bool → Bool\nid : ∀'a. 'a → 'a\nunwrap : ∀'a. Option('a) → 'a → 'a\n"},
		{":frobnicate", "unknown command :frobnicate. Type :help for commands.\n"},
		{":help", helpText},
	} {
		var quit bool
		_, out, _ := capture(t, func() int {
			quit = replCommand(checker, cfg, cmd.line)
			return 0
		})
		if quit || out != cmd.out {
			t.Fatalf("%s: %q", cmd.line, out)
		}
	}

	_, out, _ := capture(t, func() int {
		replCommand(checker, cfg, ":axioms Transposable")
		return 0
	})
	if !strings.HasPrefix(out, "involution : ") {
		t.Fatalf(":axioms: %q", out)
	}

	var quit bool
	capture(t, func() int {
		quit = replCommand(checker, cfg, ":quit")
		return 0
	})
	if !quit {
		t.Fatalf("expected :quit to exit")
	}
}

func TestIsDeclaration(t *testing.T) {
	for src, want := range map[string]bool{
		"define f(x) = x":          true,
		"data Color = Red | Green": true,
		"structure S(T) {}":        true,
		"implements S(ℝ) {}":       true,
		"defined(x)":               false,
		"plus(1, 2)":               false,
	} {
		if isDeclaration(src) != want {
			t.Fatalf("%q: expected %v", src, want)
		}
	}
}
