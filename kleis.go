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

// kleis provides type inference and symbolic evaluation for Kleis, a language for mathematical
// notation with dimensional and structural type safety.
//
// The type-system is Hindley-Milner extended with:
//
//   * User-defined algebraic data types, loaded from source into a registry; constructors are
//     inferred generically from their declared fields
//   * Structures (parameterized interfaces of operations and axioms) with implements blocks;
//     operations resolve through the structure which declares them
//   * Signature interpretation binding dimension, type and string parameters, so shape
//     constraints such as equal matrix dimensions follow from the declared signatures
//   * Pattern matching with exhaustiveness and reachability analysis
//   * Mutually-recursive (generic) definitions, inferred in dependency order
//
// A Checker loads the standard library and user sources, then checks and evaluates expressions:
//
//	c, err := kleis.NewChecker(kleis.Options{})
//	...
//	res, err := c.CheckSource("add(Matrix(2, 3, a, b, c, d, e, f), Matrix(2, 3, a, b, c, d, e, f))")
//	fmt.Println(types.TypeString(res.Type)) // Matrix(2, 3, 'a)
//
// Links:
//
// Hindley-Milner type system: https://en.wikipedia.org/wiki/Hindley–Milner_type_system
//
// Warnings for pattern matching (Maranget, 2007): http://moscova.inria.fr/~maranget/papers/warn/index.html
package kleis
