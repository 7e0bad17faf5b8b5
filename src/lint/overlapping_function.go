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
)

// RunOverlappingFunction flags a function-entry node that belongs to
// more than one function's node set - it's technically legal for
// functions to share code, but in practice this almost always means a
// stray jump landed on a label in the middle of another function
// rather than its own entry.
func RunOverlappingFunction(c *cfg.Cfg, level Level) []Diagnostic {
	owners := map[*cfg.CfgNode][]*cfg.Function{}
	for _, fn := range distinctFunctions(c.LabelFunctionMap) {
		for _, n := range fn.Nodes {
			owners[n] = append(owners[n], fn)
		}
	}

	var out []Diagnostic
	for _, n := range c.Nodes {
		if !n.Node().IsFunctionEntry() {
			continue
		}
		fns := owners[n]
		if len(fns) <= 1 {
			continue
		}
		names := make([]string, len(fns))
		for i, fn := range fns {
			names[i] = fn.Name()
		}
		out = append(out, Diagnostic{
			File:        n.Node().Raw.File,
			Title:       "overlapping functions",
			Description: fmt.Sprintf("this function entry is reachable from %d distinct functions (%v); likely a jump into the middle of another function", len(fns), names),
			Level:       level,
			Range:       n.Node().Range(),
		})
	}
	return out
}
