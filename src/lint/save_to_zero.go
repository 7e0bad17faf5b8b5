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
	"riscvlint/cfg"
	"riscvlint/isa"
)

// RunSaveToZero flags any write to x0 that isn't one of the recognized
// no-op idioms (a discarded jal/jalr return address, a literal
// `addi x0, x0, 0`): writing to the hard-wired zero register otherwise
// means the result is thrown away for no reason, almost always because
// the wrong destination register was typed.
func RunSaveToZero(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, n := range c.Nodes {
		pn := n.Node()
		rd, ok := pn.WritesTo()
		if !ok || rd != isa.X0 || pn.CanSkipSaveChecks() {
			continue
		}
		out = append(out, Diagnostic{
			File:        pn.Raw.File,
			Title:       "write to zero register",
			Description: "this instruction computes a value and writes it to x0, which discards it; the destination register is almost certainly wrong",
			Level:       level,
			Range:       pn.Range(),
		})
	}
	return out
}
