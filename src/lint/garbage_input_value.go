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

// RunGarbageInputValue flags a register live into the program entry
// beyond argc/argv (a0, a1), or live into a function entry beyond that
// function's own arguments and the callee-saved registers it's
// entitled to assume its caller preserved. Either shape means some
// instruction downstream reads a register nothing upstream ever wrote.
func RunGarbageInputValue(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, n := range c.Nodes {
		pn := n.Node()

		var garbage isa.RegisterSet
		switch {
		case pn.IsProgramEntry():
			garbage = n.LiveIn().Difference(isa.ProgramArgsSet)
		case pn.IsFunctionEntry():
			fn := n.Function()
			if fn == nil {
				continue
			}
			garbage = n.LiveIn().Difference(fn.Arguments()).Difference(isa.CalleeSavedSet)
		default:
			continue
		}
		if garbage.IsEmpty() {
			continue
		}

		garbage.ForEach(func(r isa.Register) bool {
			for _, rng := range firstUsageRanges(n, r) {
				out = append(out, Diagnostic{
					File:        pn.Raw.File,
					Title:       "use before assignment",
					Description: fmt.Sprintf("%s is read here but nothing on any path before it writes a value", r),
					Level:       level,
					Range:       rng,
				})
			}
			return true
		})
	}
	return out
}
