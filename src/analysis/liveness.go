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
package analysis

import (
	"riscvlint/cfg"
	"riscvlint/isa"
)

// RunLivenessPass computes live_in/live_out and u_def for every node,
// iterating backward in reverse source order to fixpoint. u_def only
// ever intersects over predecessors already processed at least once
// during this run (the visited set is kept across sweeps), which is
// what lets it converge monotonically instead of oscillating: a
// register only enters u_def once every path reaching n - among those
// already processed - is known to define it.
func RunLivenessPass(c *cfg.Cfg) error {
	visited := map[*cfg.CfgNode]bool{}
	changed := true
	for changed {
		changed = false
		for i := len(c.Nodes) - 1; i >= 0; i-- {
			n := c.Nodes[i]
			pn := n.Node()

			var liveOut isa.RegisterSet
			for _, s := range n.Nexts() {
				liveOut = liveOut.Union(s.LiveIn())
			}
			if n.SetLiveOut(liveOut) {
				changed = true
			}

			if label, ok := pn.CallsTo(); ok {
				fn, ok := c.LabelFunctionMap[label]
				if ok {
					if fn.Exit.SetLiveIn(fn.Exit.LiveIn().Union(n.LiveOut())) {
						changed = true
					}

					uDef := intersectVisitedUDef(n, visited).Difference(isa.CallerSavedSet).
						Union(fn.Exit.UDef().Intersect(isa.ReturnSet))
					liveIn := fn.Entry.LiveOut().Intersect(isa.ArgumentSet).
						Union(n.LiveOut().Difference(killReg(pn))).
						Union(genReg(pn))

					if n.SetLiveIn(liveIn) {
						changed = true
					}
					if n.SetUDef(uDef) {
						changed = true
					}
					visited[n] = true
					continue
				}
			}

			if pn.IsEcall() {
				sig, _ := KnownEcallSignature(n)

				uDef := intersectVisitedUDef(n, visited).Difference(isa.CallerSavedSet).Union(sig.Rets)
				liveIn := n.LiveOut().Difference(isa.CallerSavedSet).
					Union(isa.EcallAlwaysArgumentSet).
					Union(sig.Args)

				if n.SetLiveIn(liveIn) {
					changed = true
				}
				if n.SetUDef(uDef) {
					changed = true
				}
				visited[n] = true
				continue
			}

			if pn.IsReturn() {
				if n.SetLiveIn(n.LiveIn().Union(genReg(pn))) {
					changed = true
				}
				if n.SetUDef(intersectVisitedUDef(n, visited)) {
					changed = true
				}
				visited[n] = true
				continue
			}

			if pn.IsFunctionEntry() {
				liveIn := n.LiveOut().Difference(killReg(pn)).Union(genReg(pn))
				uDef := liveIn.Intersect(isa.ArgumentSet)

				if n.SetLiveIn(liveIn) {
					changed = true
				}
				if n.SetUDef(uDef) {
					changed = true
				}
				visited[n] = true
				continue
			}

			uDef := intersectVisitedUDef(n, visited).Union(killReg(pn))
			liveIn := n.LiveOut().Difference(killReg(pn)).Union(genReg(pn))
			if n.SetLiveIn(liveIn) {
				changed = true
			}
			if n.SetUDef(uDef) {
				changed = true
			}
			visited[n] = true
		}
	}
	return nil
}

// intersectVisitedUDef intersects u_def over n's predecessors that have
// already been processed during this run; a predecessor not yet visited
// contributes nothing (an empty intersection operand would zero out the
// whole result, so it's excluded rather than treated as all-zero).
func intersectVisitedUDef(n *cfg.CfgNode, visited map[*cfg.CfgNode]bool) isa.RegisterSet {
	first := true
	var out isa.RegisterSet
	for _, p := range n.Prevs() {
		if !visited[p] {
			continue
		}
		if first {
			out = p.UDef()
			first = false
		} else {
			out = out.Intersect(p.UDef())
		}
	}
	return out
}
