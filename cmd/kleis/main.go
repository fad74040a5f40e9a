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
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/kleis-lang/kleis"
	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/parser"
	"github.com/kleis-lang/kleis/types"
)

const (
	appName     = "kleis"
	historyFile = ".kleis_history"
	promptMain  = "kleis> "
	promptCont  = "  ...> "
)

const helpText = `REPL commands:
  :type <expr>        Show the type of an expression without evaluating it
  :axioms <structure> List the axioms of a structure
  :defines            List loaded definitions and their types
  :load <file>        Load declarations from a file
  :quit               Exit the REPL
Lines starting with data, structure, implements or define are loaded as declarations.
`

// Output of the subcommands. Replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func red(s string) string    { return "\x1b[31m" + s + "\x1b[0m" }
func yellow(s string) string { return "\x1b[33m" + s + "\x1b[0m" }
func blue(s string) string   { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch cmd := os.Args[1]; cmd {
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "eval":
		os.Exit(cmdEval(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(stdout, `Usage:
  %[1]s check [flags] <file.kleis> [expr]   Load a file and type-check an expression
  %[1]s eval [flags] <file.kleis> <expr>    Load a file, then check and evaluate an expression
  %[1]s repl [flags] [file.kleis]           Start the REPL

Flags:
  -strict      report non-exhaustive matches as errors
  -lenient     resolve unbound type parameters of operation results to ℝ
  -depth N     maximum evaluation depth
  -no-stdlib   do not load the standard library
  -v           log loaded declarations to stderr
  -trace       log every unification (implies -v)
  -dump        dump checked expressions and types
`, appName)
}

type config struct {
	opts kleis.Options
	dump bool
}

func parseFlags(name string, args []string) (*config, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := &config{}
	fs.BoolVar(&cfg.opts.StrictExhaustiveness, "strict", false, "report non-exhaustive matches as errors")
	fs.BoolVar(&cfg.opts.LenientTypeParams, "lenient", false, "resolve unbound type parameters to ℝ")
	fs.IntVar(&cfg.opts.MaxEvalDepth, "depth", kleis.DefaultMaxEvalDepth, "maximum evaluation depth")
	fs.BoolVar(&cfg.opts.NoStdlib, "no-stdlib", false, "do not load the standard library")
	verbose := fs.Bool("v", false, "log loaded declarations")
	fs.BoolVar(&cfg.opts.Trace, "trace", false, "log unifications")
	fs.BoolVar(&cfg.dump, "dump", false, "dump expressions and types")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if *verbose || cfg.opts.Trace {
		cfg.opts.Logger = log.New(stderr, appName+": ", 0)
	}
	return cfg, fs.Args(), nil
}

func newChecker(cfg *config, file string) (*kleis.Checker, error) {
	c, err := kleis.NewChecker(cfg.opts)
	if err != nil {
		return nil, err
	}
	if file == "" {
		return c, nil
	}
	if err := loadFile(c, file); err != nil {
		return nil, err
	}
	return c, nil
}

func loadFile(c *kleis.Checker, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "read")
	}
	return c.LoadSource(filepath.Base(file), string(src))
}

func printError(err error) {
	fmt.Fprintln(stderr, red(err.Error()))
	if terr, ok := types.AsError(err); ok && terr.Hint != "" && !strings.Contains(err.Error(), terr.Hint) {
		fmt.Fprintln(stderr, "hint: "+terr.Hint)
	}
}

func printWarnings(ws []*types.Error) {
	for _, w := range ws {
		fmt.Fprintln(stderr, yellow("warning: "+w.Error()))
	}
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string) int {
	cfg, rest, err := parseFlags("check", args)
	if err != nil {
		return 2
	}
	if len(rest) < 1 || len(rest) > 2 {
		fmt.Fprintf(stderr, "usage: %s check [flags] <file.kleis> [expr]\n", appName)
		return 2
	}
	c, err := newChecker(cfg, rest[0])
	if err != nil {
		printError(err)
		return 1
	}
	if len(rest) == 1 {
		for _, name := range c.Defines() {
			t, _ := c.FunctionType(name)
			fmt.Fprintf(stdout, "%s : %s\n", name, types.TypeString(t))
		}
		return 0
	}
	return checkExpr(c, cfg, rest[1])
}

func checkExpr(c *kleis.Checker, cfg *config, src string) int {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		printError(err)
		return 1
	}
	res, err := c.Check(expr)
	if err != nil {
		printError(err)
		return 1
	}
	printWarnings(res.Warnings)
	if cfg.dump {
		spew.Fdump(stderr, expr, res.Type)
	}
	fmt.Fprintln(stdout, blue(types.TypeString(res.Type)))
	return 0
}

// -----------------------------------------------------------------------------
// eval
// -----------------------------------------------------------------------------

func cmdEval(args []string) int {
	cfg, rest, err := parseFlags("eval", args)
	if err != nil {
		return 2
	}
	if len(rest) != 2 {
		fmt.Fprintf(stderr, "usage: %s eval [flags] <file.kleis> <expr>\n", appName)
		return 2
	}
	c, err := newChecker(cfg, rest[0])
	if err != nil {
		printError(err)
		return 1
	}
	return evalExpr(c, cfg, rest[1])
}

func evalExpr(c *kleis.Checker, cfg *config, src string) int {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		printError(err)
		return 1
	}
	res, err := c.Check(expr)
	if err != nil {
		printError(err)
		return 1
	}
	printWarnings(res.Warnings)
	v, err := c.Evaluate(expr)
	if err != nil {
		printError(err)
		return 1
	}
	if cfg.dump {
		spew.Fdump(stderr, v)
	}
	fmt.Fprintf(stdout, "%s : %s\n", blue(ast.ExprString(v)), types.TypeString(res.Type))
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(args []string) int {
	cfg, rest, err := parseFlags("repl", args)
	if err != nil {
		return 2
	}
	file := ""
	if len(rest) > 0 {
		file = rest[0]
	}
	c, err := newChecker(cfg, file)
	if err != nil {
		printError(err)
		return 1
	}

	fmt.Fprintln(stdout, "Kleis REPL. Ctrl+D exits. Type :help for commands.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if strings.HasPrefix(src, ":") {
			if quit := replCommand(c, cfg, src); quit {
				return 0
			}
			continue
		}
		if isDeclaration(src) {
			if err := c.LoadSource("repl", src); err != nil {
				printError(err)
			}
			continue
		}
		evalExpr(c, cfg, src)
	}
}

func replCommand(c *kleis.Checker, cfg *config, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprint(stdout, helpText)
	case ":type", ":t":
		checkExpr(c, cfg, arg)
	case ":axioms":
		axioms := c.Axioms(arg)
		if len(axioms) == 0 {
			fmt.Fprintf(stdout, "%s declares no axioms\n", arg)
		}
		for _, ax := range axioms {
			fmt.Fprintf(stdout, "%s : %s\n", ax.Name, ast.ExprString(ax.Body))
		}
	case ":defines":
		for _, name := range c.Defines() {
			t, _ := c.FunctionType(name)
			fmt.Fprintf(stdout, "%s : %s\n", name, types.TypeString(t))
		}
	case ":load":
		if err := loadFile(c, arg); err != nil {
			printError(err)
		}
	default:
		fmt.Fprintf(stdout, "unknown command %s. Type :help for commands.\n", cmd)
	}
	return false
}

func isDeclaration(src string) bool {
	word, _, _ := strings.Cut(src, " ")
	switch word {
	case "data", "structure", "implements", "define":
		return true
	}
	return false
}

// readInput reads lines until they parse, or fail to parse for a reason other than ending early.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		var perr error
		if isDeclaration(strings.TrimSpace(src)) {
			_, perr = parser.ParseProgram(src)
		} else {
			_, perr = parser.ParseExpr(src)
		}
		if perr == nil || !parser.IsIncomplete(perr) {
			return src, true
		}
	}
}
