// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package lint

import (
	"fmt"

	"riscvlint/cfg"
	"riscvlint/isa"
	"riscvlint/parser"
)

// RunLostCalleeSavedRegister flags a callee-saved register that was
// pushed to the stack somewhere in a function but never loaded back
// from the stack anywhere in it - distinct from RunCalleeSavedRegister, which
// fires on any unrestored write; this one specifically requires proof
// the register was saved (a prologue that started a save and then
// never finished it, usually from a missing epilogue on one path).
func RunLostCalleeSavedRegister(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, fn := range distinctFunctions(c.LabelFunctionMap) {
		var reloaded isa.RegisterSet
		for _, n := range fn.Nodes {
			if pn := n.Node(); pn.Kind == parser.KindLoad && pn.HasRd && pn.Rs1.IsStackPointer() {
				reloaded = reloaded.Insert(pn.Rd)
			}
		}
		lost := savedToStack(fn).Difference(reloaded)
		if lost.IsEmpty() {
			continue
		}
		out = append(out, Diagnostic{
			File:        fn.Exit.Node().Raw.File,
			Title:       "callee-saved register saved but never restored",
			Description: fmt.Sprintf("function %s pushes %s to the stack but never reloads it before returning", fn.Name(), lost),
			Level:       level,
			Range:       fn.Exit.Node().Range(),
		})
	}
	return out
}

// savedToStack reports every callee-saved register fn stores to a
// stack-relative address anywhere in its body.
func savedToStack(fn *cfg.Function) isa.RegisterSet {
	var out isa.RegisterSet
	for _, n := range fn.Nodes {
		value, base, _, ok := n.Node().StoresToMemory()
		if !ok || !base.IsStackPointer() || !isa.CalleeSavedSet.Contains(value) {
			continue
		}
		out = out.Insert(value)
	}
	return out
}
