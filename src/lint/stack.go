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
	"riscvlint/fix"
	"riscvlint/isa"
	"riscvlint/parser"
)

// stackDelta sums every `addi sp, sp, imm` in fn's node set. This is a
// static, path-insensitive count: a function with more than one exit
// path that adjusts sp by different amounts on each arm will read as
// whatever the straight-line sum happens to be, which is a known
// limitation, not a soundness goal this lint claims.
func stackDelta(fn *cfg.Function) int32 {
	var delta int32
	for _, n := range fn.Nodes {
		pn := n.Node()
		if pn.Kind == parser.KindIArith && pn.Op == "addi" && pn.HasRd && pn.Rd.IsStackPointer() && pn.Rs1.IsStackPointer() {
			delta += int32(pn.Imm)
		}
	}
	return delta
}

// RunStack flags a function whose net stack-pointer adjustment across
// its body isn't zero - the frame it opened on entry is never fully
// closed before return. Reported with the textual fix the stack-fix
// generator would insert (which also handles callee-saved save/restore,
// checked separately by RunCalleeSavedRegister).
func RunStack(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, fn := range distinctFunctions(c.LabelFunctionMap) {
		delta := stackDelta(fn)
		if delta == 0 {
			continue
		}

		desc := fmt.Sprintf("function %s does not restore the stack pointer to its entry value (net adjustment %+d)", fn.Name(), delta)
		if hint := fix.GenerateStackFix(fn); hint != nil {
			desc += "; suggested fix:\n" + hint.String()
		}

		out = append(out, Diagnostic{
			File:        fn.Exit.Node().Raw.File,
			Title:       "unbalanced stack frame",
			Description: desc,
			Level:       level,
			Range:       fn.Exit.Node().Range(),
		})
	}
	return out
}

// unrestoredCalleeSaved reports every callee-saved register fn's body
// writes that isn't back to its original value by the function's exit.
func unrestoredCalleeSaved(fn *cfg.Function) isa.RegisterSet {
	var out isa.RegisterSet
	fn.ToSave().ForEach(func(r isa.Register) bool {
		v, ok := fn.Exit.RegValuesOut()[r]
		if !ok || v != cfg.OriginalRegisterValue(r, 0) {
			out = out.Insert(r)
		}
		return true
	})
	return out
}
