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

// RunDirectionPass computes the successor/predecessor edges: a linear
// fallthrough edge from every node to the next, unless the current node
// is a return or an unconditional jump (which never falls through), and
// a jump edge from every branch/jump to its target label's node. A
// target that resolves to no label in the graph is ErrUnexpected.
func RunDirectionPass(c *Cfg) error {
	var prev *CfgNode
	for _, n := range c.Nodes {
		if label, ok := n.Node().JumpsTo(); ok {
			target, found := c.NodeForLabel(label)
			if !found {
				return &Error{Kind: ErrUnexpected, Node: n}
			}
			Connect(n, target)
		}

		if prev != nil {
			Connect(prev, n)
		}

		if n.Node().IsReturn() || n.Node().IsUnconditionalJump() {
			prev = nil
		} else {
			prev = n
		}
	}
	return nil
}
