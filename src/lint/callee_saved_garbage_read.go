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
)

// RunCalleeSavedGarbageRead flags a read of a saved register (s0-s11)
// that isn't in u_def at that point: every path reaching this
// instruction either never wrote the register, or only wrote it on
// some paths, so the value read here is sometimes whatever the caller
// happened to leave in it rather than something this function set up.
// Restricted to the s-registers rather than all of CalleeSavedSet: sp
// and ra are legitimately readable from function entry without an
// in-function definition (they arrive from the ABI, not from u_def),
// so including them here would flag nearly every prologue.
func RunCalleeSavedGarbageRead(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, n := range c.Nodes {
		pn := n.Node()
		reads := pn.ReadsFrom().Intersect(isa.SavedSet)
		if reads.IsEmpty() {
			continue
		}
		notDefined := reads.Difference(n.UDef())
		notDefined.ForEach(func(r isa.Register) bool {
			out = append(out, Diagnostic{
				File:        pn.Raw.File,
				Title:       "read of possibly-undefined callee-saved register",
				Description: fmt.Sprintf("%s is read here but at least one path reaching this point never assigned it", r),
				Level:       level,
				Range:       pn.Range(),
			})
			return true
		})
	}
	return out
}
