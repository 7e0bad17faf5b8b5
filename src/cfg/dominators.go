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

// ------------------------------------------------------------------------------
// Dominator tree over a Function's nodes
//
// * Dominators: a dom b if every path from the function's entry to b
//   passes through a
// * Strict dominators: a sdom b if a dom b and a != b
// * Immediate dominators: a idom b if a sdom b and there is no c with
//   a sdom c sdom b
//
// Iterative fixpoint, O(n^2). A function's body is rarely more than a
// few dozen nodes, so the quadratic bound never matters in practice.
// No lint or pass calls ComputeDominators; cfg_test.go is its only
// caller.
type DomTree struct {
	Fn  *Function
	Dom map[*CfgNode][]*CfgNode
}

// IsDominate reports whether a dominates b.
func (dt *DomTree) IsDominate(a, b *CfgNode) bool {
	for _, dom := range dt.Dom[b] {
		if dom == a {
			return true
		}
	}
	return false
}

// IsSDominate reports whether a strictly dominates b.
func (dt *DomTree) IsSDominate(a, b *CfgNode) bool {
	return dt.IsDominate(a, b) && a != b
}

// IsIDominate reports whether a immediately dominates b.
func (dt *DomTree) IsIDominate(a, b *CfgNode) bool {
	if !dt.IsSDominate(a, b) {
		return false
	}
	for _, c := range dt.Dom[b] {
		if c != a && c != b && dt.IsSDominate(a, c) {
			return false
		}
	}
	return true
}

func intersectNodes(a, b []*CfgNode) []*CfgNode {
	if len(a) > len(b) {
		a, b = b, a
	}
	res := make([]*CfgNode, 0, len(a))
	for _, x := range a {
		for _, y := range b {
			if x == y {
				res = append(res, x)
				break
			}
		}
	}
	return res
}

func unionNodes(a, b []*CfgNode) []*CfgNode {
	m := make(map[*CfgNode]bool, len(a)+len(b))
	for _, x := range a {
		m[x] = true
	}
	for _, x := range b {
		m[x] = true
	}
	res := make([]*CfgNode, 0, len(m))
	for x := range m {
		res = append(res, x)
	}
	return res
}

// ComputeDominators builds the dominator tree for fn, treating every
// node outside fn (a caller's fallthrough into the entry, say) as not
// part of the graph the tree is computed over.
func ComputeDominators(fn *Function) *DomTree {
	dom := make(map[*CfgNode][]*CfgNode, len(fn.Nodes))
	dom[fn.Entry] = []*CfgNode{fn.Entry}
	for _, n := range fn.Nodes {
		if n == fn.Entry {
			continue
		}
		dom[n] = fn.Nodes
	}

	changed := true
	for changed {
		changed = false
		for _, n := range fn.Nodes {
			if n == fn.Entry {
				continue
			}
			var preds []*CfgNode
			for _, p := range n.Prevs() {
				if fn.Contains(p) {
					preds = append(preds, p)
				}
			}

			var newdom []*CfgNode
			if len(preds) > 0 {
				newdom = dom[preds[0]]
				for _, p := range preds[1:] {
					newdom = intersectNodes(newdom, dom[p])
				}
			}
			newdom = unionNodes(newdom, []*CfgNode{n})
			if len(newdom) != len(dom[n]) {
				changed = true
				dom[n] = newdom
			}
		}
	}
	return &DomTree{Fn: fn, Dom: dom}
}
