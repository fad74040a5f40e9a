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

package pattern

import (
	"github.com/kleis-lang/kleis/ast"
)

// CheckReachable returns the indexes of patterns which an earlier pattern subsumes, in order.
func CheckReachable(patterns []ast.Pattern) []int {
	var unreachable []int
	for j := 1; j < len(patterns); j++ {
		for i := 0; i < j; i++ {
			if Subsumes(patterns[i], patterns[j]) {
				unreachable = append(unreachable, j)
				break
			}
		}
	}
	return unreachable
}

// Subsumes reports whether a matches every value which b matches. Wildcards and variables
// subsume every pattern; a constructor pattern subsumes another of the same name when each
// sub-pattern subsumes the corresponding sub-pattern; constants subsume only identical constants.
func Subsumes(a, b ast.Pattern) bool {
	switch a := a.(type) {
	case *ast.Wildcard, *ast.PVar:
		return true

	case *ast.PConstructor:
		b, ok := b.(*ast.PConstructor)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Subsumes(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true

	case *ast.PConstant:
		b, ok := b.(*ast.PConstant)
		return ok && a.Value == b.Value
	}
	return false
}
