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

package kleis

import (
	"log"

	"github.com/pkg/errors"

	"github.com/kleis-lang/kleis/ast"
	"github.com/kleis-lang/kleis/parser"
	"github.com/kleis-lang/kleis/registry"
	"github.com/kleis-lang/kleis/stdlib"
	"github.com/kleis-lang/kleis/types"
)

// Checker loads data types, structures and definitions from source, then checks and evaluates
// expressions against them. Registries only grow: loading never modifies what an earlier load
// registered.
//
// A checker cannot be used concurrently; create one checker per request.
type Checker struct {
	opts       Options
	logger     *log.Logger
	data       *registry.DataRegistry
	structures *registry.StructureRegistry
	ti         *InferenceContext
	env        *TypeEnv
	defines    map[string]*ast.DefineDecl
	order      []string
}

// Result of checking an expression.
type Result struct {
	Type types.Type
	// Non-exhaustive matches and unreachable patterns.
	Warnings []*types.Error
}

// NewChecker creates a checker, loading the embedded standard library unless opts.NoStdlib is set.
// All standard library data types are loaded before any structure.
func NewChecker(opts Options) (*Checker, error) {
	data := registry.NewDataRegistry()
	structures := registry.NewStructureRegistry(data)
	c := &Checker{
		opts:       opts,
		logger:     opts.logger(),
		data:       data,
		structures: structures,
		ti:         NewInferenceContext(data, structures, opts),
		env:        NewTypeEnv(),
		defines:    make(map[string]*ast.DefineDecl),
	}
	if opts.NoStdlib {
		return c, nil
	}
	for _, f := range stdlib.Files() {
		if err := c.LoadSource(f.Name, f.Source); err != nil {
			return nil, errors.Wrap(err, "stdlib")
		}
	}
	return c, nil
}

// Data returns the data type registry.
func (c *Checker) Data() *registry.DataRegistry { return c.data }

// Structures returns the structure registry.
func (c *Checker) Structures() *registry.StructureRegistry { return c.structures }

// Axioms returns the axioms declared by a structure, for external verification.
func (c *Checker) Axioms(structure string) []ast.Axiom { return c.structures.Axioms(structure) }

// FunctionType returns the generalized type of a definition.
func (c *Checker) FunctionType(name string) (types.Type, bool) {
	if _, ok := c.defines[name]; !ok {
		return nil, false
	}
	return c.env.Lookup(name)
}

// Defines returns the names of loaded definitions, in load order.
func (c *Checker) Defines() []string { return append([]string(nil), c.order...) }

// LoadSource parses and loads the declarations of a source text.
func (c *Checker) LoadSource(name, src string) error {
	prog, err := parser.ParseProgram(src)
	if err != nil {
		return errors.Wrap(err, name)
	}
	return errors.Wrap(c.LoadDecls(prog.Decls), name)
}

// LoadDecls loads declarations in three phases: data types first, so they may refer to each
// other in any order; then structures and implements blocks, in declaration order; then
// definitions, in dependency order.
func (c *Checker) LoadDecls(decls []ast.Decl) error {
	var (
		datas   []*ast.DataDef
		defines []*ast.DefineDecl
	)
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.DataDef:
			datas = append(datas, d)
		case *ast.DefineDecl:
			defines = append(defines, d)
		}
	}

	for _, d := range datas {
		if err := c.data.Register(d); err != nil {
			return err
		}
		c.logger.Printf("data %s: %d variants", d.Name, len(d.Variants))
	}
	for _, d := range datas {
		if err := c.data.CheckFields(d.Name); err != nil {
			return errors.Wrapf(err, "data %s", d.Name)
		}
	}

	for _, d := range decls {
		switch d := d.(type) {
		case *ast.StructureDef:
			if err := c.loadStructure(d); err != nil {
				return err
			}
		case *ast.ImplementsDef:
			if err := c.loadImplements(d); err != nil {
				return err
			}
		}
	}

	return c.loadDefines(defines)
}

func (c *Checker) loadStructure(d *ast.StructureDef) error {
	if err := c.structures.RegisterStructure(d); err != nil {
		return err
	}
	c.logger.Printf("structure %s: %d operations", d.Name, len(d.Operations))
	for _, ax := range d.Axioms {
		if _, err := c.ti.CheckAxiom(d, ax, c.env); err != nil {
			return errors.Wrapf(err, "structure %s", d.Name)
		}
	}
	return nil
}

func (c *Checker) loadImplements(d *ast.ImplementsDef) error {
	if err := c.structures.RegisterImplements(d); err != nil {
		return err
	}
	impls := c.structures.Implementations(d.StructureName)
	impl := impls[len(impls)-1]
	c.logger.Printf("implements %s%s", d.StructureName, impl.TypeArgsString())
	return c.ti.CheckImplementation(impl, c.env)
}

func (c *Checker) loadDefines(defines []*ast.DefineDecl) error {
	seen := make(map[string]bool, len(defines))
	for _, d := range defines {
		_, _, isCtor := c.data.LookupVariant(d.Name)
		_, isOp := c.structures.StructureForOperation(d.Name)
		if _, ok := c.defines[d.Name]; ok || seen[d.Name] || isCtor || isOp {
			return &types.Error{Kind: types.RegistryConflict, Name: d.Name, Msg: "Definition " + d.Name + " conflicts with an existing name"}
		}
		seen[d.Name] = true
	}
	env, err := c.ti.InferDefines(defines, c.env)
	if err != nil {
		return err
	}
	c.env = env
	for _, d := range defines {
		c.defines[d.Name] = d
		c.order = append(c.order, d.Name)
		if t, ok := env.Lookup(d.Name); ok {
			c.logger.Printf("define %s : %s", d.Name, types.TypeString(t))
		}
	}
	return nil
}

// Check infers the type of an expression.
func (c *Checker) Check(expr ast.Expr) (*Result, error) {
	t, err := c.ti.Infer(expr, c.env)
	if err != nil {
		return nil, err
	}
	return &Result{Type: t, Warnings: c.ti.Warnings()}, nil
}

// CheckSource parses and infers the type of an expression.
func (c *Checker) CheckSource(src string) (*Result, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return c.Check(expr)
}

// Evaluate checks an expression, then evaluates it symbolically.
func (c *Checker) Evaluate(expr ast.Expr) (ast.Expr, error) {
	if _, err := c.Check(expr); err != nil {
		return nil, err
	}
	return NewEvaluator(c.defines, c.opts.maxEvalDepth()).Eval(expr)
}

// EvaluateSource parses, checks and evaluates an expression.
func (c *Checker) EvaluateSource(src string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	return c.Evaluate(expr)
}
