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

package typeutil

import (
	"github.com/kleis-lang/kleis/types"
)

// Instantiate replaces the quantified type-variables of a type scheme with fresh type-variables.
// Types without quantifiers are returned unchanged.
func Instantiate(vt *VarTracker, t types.Type) types.Type {
	vars, body := types.Unquantify(t)
	if len(vars) == 0 {
		return t
	}
	s := types.NewSubst()
	for _, v := range vars {
		s = s.Bind(v.Id, vt.New())
	}
	return s.Apply(body)
}

// InstantiateParams replaces named parameters with fresh type-variables, reusing the
// variable already allocated for a name within one call.
type InstantiateParams struct {
	vt    *VarTracker
	names map[string]*types.Var
}

func NewInstantiateParams(vt *VarTracker) *InstantiateParams {
	return &InstantiateParams{vt: vt, names: make(map[string]*types.Var)}
}

// Var returns the type-variable for name, allocating it on first use.
func (p *InstantiateParams) Var(name string) *types.Var {
	if tv, ok := p.names[name]; ok {
		return tv
	}
	tv := p.vt.New()
	p.names[name] = tv
	return tv
}
