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

// RunControlFlow flags a reachable node that can never reach a
// terminator: walking forward from it along every successor edge never
// reaches either an ecall (which might end the program) or a node with
// no successors at all (a return, or a tail the dead-edge pass left
// alone because something still points at it). Found by a reverse
// search from every terminator-shaped node over predecessor edges;
// whatever it never reaches is the flagged set.
func RunControlFlow(c *cfg.Cfg, level Level) []Diagnostic {
	canReach := map[*cfg.CfgNode]bool{}
	var queue []*cfg.CfgNode
	for _, n := range c.Nodes {
		if n.Node().MightTerminate() || len(n.Nexts()) == 0 {
			if !canReach[n] {
				canReach[n] = true
				queue = append(queue, n)
			}
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, p := range n.Prevs() {
			if !canReach[p] {
				canReach[p] = true
				queue = append(queue, p)
			}
		}
	}

	var out []Diagnostic
	for _, n := range c.Nodes {
		if canReach[n] {
			continue
		}
		if len(n.Prevs()) == 0 && !n.Node().IsAnyEntry() {
			// unreachable from any entry at all: dead-edge pruning
			// already disconnected it, not this lint's concern.
			continue
		}
		out = append(out, Diagnostic{
			File:        n.Node().Raw.File,
			Title:       "unreachable terminator",
			Description: "no path from this instruction ever reaches a return or an environment call that ends the program",
			Level:       level,
			Range:       n.Node().Range(),
		})
	}
	return out
}
