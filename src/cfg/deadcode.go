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
package cfg

// PruneDeadEdges removes a node's remaining edges once it has no
// successors or no predecessors on one side, unless it is a return, any
// entry, or a node that might terminate the program on its own (an
// ecall whose syscall number isn't known yet). Runs to fixpoint: one
// pruned node can orphan its former neighbor in the next iteration.
func PruneDeadEdges(c *Cfg) {
	changed := true
	for changed {
		changed = false
		for _, n := range c.Nodes {
			pn := n.Node()
			if pn.IsReturn() || pn.IsAnyEntry() || pn.MightTerminate() {
				continue
			}

			if len(n.nexts) == 0 {
				for _, p := range n.Prevs() {
					Disconnect(p, n)
				}
				if len(n.prevs) > 0 {
					changed = true
				}
				n.ClearPrevs()
			}

			// Re-checked rather than cached: the block above may have just
			// emptied prevs, which itself makes this node eligible.
			if len(n.prevs) == 0 {
				for _, next := range n.Nexts() {
					Disconnect(n, next)
				}
				if len(n.nexts) > 0 {
					changed = true
				}
				n.ClearNexts()
			}
		}
	}
}
