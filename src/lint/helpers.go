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
	"riscvlint/token"
)

// firstUsageRanges walks forward from n over successor edges, one path
// at a time, and reports the range of the first node on each path that
// reads reg. A path that never reads reg before running off the end of
// the graph contributes nothing. Used by lints that flag a register
// whose incoming value is suspect: the diagnostic should point at where
// the bad value is actually read, not at the node that made it suspect.
func firstUsageRanges(n *cfg.CfgNode, reg isa.Register) []token.Range {
	var ranges []token.Range
	visited := map[*cfg.CfgNode]bool{n: true}
	var walk func(cur *cfg.CfgNode)
	walk = func(cur *cfg.CfgNode) {
		for _, next := range cur.Nexts() {
			if visited[next] {
				continue
			}
			visited[next] = true
			if next.Node().ReadsFrom().Contains(reg) {
				ranges = append(ranges, next.Node().Range())
				continue
			}
			if rd, ok := next.Node().WritesTo(); ok && rd == reg {
				// reassigned before any read: this path is clean
				continue
			}
			walk(next)
		}
	}
	walk(n)
	return ranges
}

// distinctFunctions collects every *cfg.Function referenced by lfm,
// deduplicated by pointer identity (several labels on one entry share a
// single Function).
func distinctFunctions(lfm map[isa.LabelString]*cfg.Function) []*cfg.Function {
	seen := map[*cfg.Function]bool{}
	var out []*cfg.Function
	for _, f := range lfm {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
