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

import "riscvlint/cfg"

// RunInstructionInText flags any instruction found outside the .text
// segment: an assembler only assembles instructions it finds in
// .text, so an instruction-shaped line under .data (almost always from
// a misplaced or missing section directive) never actually runs as
// written.
func RunInstructionInText(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, n := range c.Nodes {
		pn := n.Node()
		if !pn.IsInstruction() || n.Segment() == cfg.SegmentText {
			continue
		}
		out = append(out, Diagnostic{
			File:        pn.Raw.File,
			Title:       "instruction outside .text",
			Description: "this instruction appears in a non-.text segment and will not be assembled as code",
			Level:       level,
			Range:       pn.Range(),
		})
	}
	return out
}
