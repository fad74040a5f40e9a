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
	"io"
	"log"
)

// DefaultMaxEvalDepth bounds the nesting of definition calls and matches during evaluation.
const DefaultMaxEvalDepth = 1000

// Options configure a Checker.
type Options struct {
	// Report non-exhaustive matches as errors. By default they are warnings, and only a match
	// with no case for an evaluated value fails.
	StrictExhaustiveness bool
	// Resolve a type parameter which no argument of an operation binds to the scalar type.
	// By default this is an UnresolvedParameter error.
	LenientTypeParams bool
	// Maximum evaluation depth. Zero selects DefaultMaxEvalDepth.
	MaxEvalDepth int
	// Skip loading the embedded standard library.
	NoStdlib bool
	// Logger receives load events, and unification traces when Trace is set. Nil discards them.
	Logger *log.Logger
	Trace  bool
}

func (o Options) maxEvalDepth() int {
	if o.MaxEvalDepth <= 0 {
		return DefaultMaxEvalDepth
	}
	return o.MaxEvalDepth
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return o.Logger
}
