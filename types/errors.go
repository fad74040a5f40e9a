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
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// ErrorKind classifies a type-checking failure.
type ErrorKind int

const (
	// Free variable, operation, constructor or type name not found in any registry
	UnknownIdentifier ErrorKind = iota + 1
	// Constructor, operation or function called with the wrong number of arguments
	ArityMismatch
	// Two concrete types cannot be made equal
	UnificationFailure
	// Binding a type-variable would create an infinite type
	OccursCheck
	// A repeated signature parameter was bound to inconsistent concrete values
	DimensionMismatch
	// Match cases do not cover every value of the scrutinee
	NonExhaustiveMatch
	// A match case is covered by earlier cases
	UnreachablePattern
	// Duplicate type, variant, operation or implementation at load time
	RegistryConflict
	// A signature parameter could not be resolved from the argument types
	UnresolvedParameter
	// An implements block lacks a body for a declared operation, or no implementation accepts the arguments
	MissingImplementation
	// An invariant of the inference engine was violated
	InternalError
)

var kindNames = [...]string{
	UnknownIdentifier:     "unknown identifier",
	ArityMismatch:         "arity mismatch",
	UnificationFailure:    "unification failure",
	OccursCheck:           "occurs check",
	DimensionMismatch:     "dimension mismatch",
	NonExhaustiveMatch:    "non-exhaustive match",
	UnreachablePattern:    "unreachable pattern",
	RegistryConflict:      "registry conflict",
	UnresolvedParameter:   "unresolved parameter",
	MissingImplementation: "missing implementation",
	InternalError:         "internal error",
}

func (k ErrorKind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return "error"
	}
	return kindNames[k]
}

// Error is a structured type-checking failure.
type Error struct {
	Kind ErrorKind
	Msg  string
	// Name of the offending operation, constructor, type or variable, when applicable.
	Name string
	// Conflicting types, for unification and occurs-check failures.
	Expected Type
	Actual   Type
	// Conflicting parameter values, for dimension mismatches: ["(2,3)", "(3,2)"]
	Values []string
	// Uncovered constructors, for non-exhaustive matches.
	Missing []string
	// Suggested replacement name.
	Hint string
}

func (e *Error) Error() string {
	if e.Hint == "" {
		return e.Msg
	}
	return e.Msg + " (did you mean " + e.Hint + "?)"
}

// Errorf creates an error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// NewMismatch creates a unification failure between two types.
func NewMismatch(expected, actual Type) *Error {
	return &Error{
		Kind:     UnificationFailure,
		Msg:      "Failed to unify " + TypeString(expected) + " with " + TypeString(actual),
		Expected: expected,
		Actual:   actual,
	}
}

// NewOccursCheck creates an occurs-check failure for binding v to t.
func NewOccursCheck(v *Var, t Type) *Error {
	return &Error{
		Kind:     OccursCheck,
		Msg:      "Recursive types are not supported: " + RawTypeString(v) + " occurs in " + RawTypeString(t),
		Expected: v,
		Actual:   t,
	}
}

// NewInternal creates an internal error whose message includes a dump of the offending value.
func NewInternal(msg string, value interface{}) *Error {
	return &Error{Kind: InternalError, Msg: msg + ": " + strings.TrimSpace(spew.Sdump(value))}
}

// AsError finds the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

// Suggest returns the candidate closest to name by edit distance, or "" if none is close enough.
func Suggest(name string, candidates []string) string {
	best, bestDist := "", len([]rune(name))/2+1
	for _, c := range candidates {
		if c == name {
			continue
		}
		if d := editDistance(name, c); d < bestDist || (d == bestDist && best != "" && c < best) {
			best, bestDist = c, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
