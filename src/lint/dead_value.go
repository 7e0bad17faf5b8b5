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

// RunDeadValue flags two shapes of "this value is computed and then
// never read": an ordinary dead assignment (a write whose register
// isn't in live_out), and a caller-saved register left live across a
// call the callee doesn't actually return - the value a later
// instruction reads in that case is whatever garbage the callee left
// behind, not anything the caller computed.
func RunDeadValue(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, n := range c.Nodes {
		pn := n.Node()

		if label, ok := pn.CallsTo(); ok {
			fn, ok := c.LabelFunctionMap[label]
			if !ok {
				continue
			}
			garbage := isa.CallerSavedSet.Difference(fn.Returns()).Intersect(n.LiveOut())
			garbage.ForEach(func(r isa.Register) bool {
				for _, rng := range firstUsageRanges(n, r) {
					out = append(out, Diagnostic{
						File:  pn.Raw.File,
						Title: "use of caller-saved register after call",
						Description: fmt.Sprintf(
							"%s is read here but %s does not return it; its value is whatever the callee left behind, not anything the caller set",
							r, fn.Name()),
						Level: level,
						Range: rng,
					})
				}
				return true
			})
			continue
		}

		rd, ok := pn.WritesTo()
		if !ok || n.LiveOut().Contains(rd) || pn.CanSkipSaveChecks() {
			continue
		}
		out = append(out, Diagnostic{
			File:        pn.Raw.File,
			Title:       "dead store",
			Description: fmt.Sprintf("%s is written here but never read on any path before it is overwritten or the function returns", rd),
			Level:       level,
			Range:       pn.Range(),
		})
	}
	return out
}
