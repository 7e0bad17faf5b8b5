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

import (
	"riscvlint/isa"
	"riscvlint/parser"
)

// syntheticReturnLabel tags the jump target of a return node that got
// rewritten into an alternate exit - it never needs to resolve against
// a real label since the edge to the canonical exit is wired directly.
const syntheticReturnLabel = isa.LabelString("__return__")

// RunFunctionMarkupPass discovers every function by walking backward
// from each exit node to its unique enclosing FuncEntry. An exit is
// either an explicit return or an ecall already known to terminate the
// program outright (RunEcallTerminationPass has already cleared its
// successors by the time this pass runs) - a function that never
// returns but ends the process with a terminating ecall, like an
// uncalled `main`, is still a function with a discoverable frame, not a
// function discovery calls can't see. An exit whose entry already owns
// a function (multiple exits, one entry) is rewritten in place into an
// unconditional jump to that function's canonical exit, so every
// function ends up with exactly one exit node.
func RunFunctionMarkupPass(c *Cfg) error {
	labelFunctionMap := map[isa.LabelString]*Function{}

	for _, n := range c.Nodes {
		pn := n.Node()
		isTerminatingEcall := pn.IsEcall() && len(n.Nexts()) == 0
		if !pn.IsReturn() && !isTerminatingEcall {
			continue
		}

		walked, found, err := walkBackToEntry(n)
		if err != nil {
			return err
		}
		if len(found) > 1 {
			labels := make([]isa.LabelString, 0)
			for _, f := range found {
				labels = append(labels, f.Labels()...)
			}
			return &Error{Kind: ErrMultipleLabelsForReturn, Node: n, Labels: labels}
		}
		if len(found) == 0 {
			return &Error{Kind: ErrNoLabelForReturn, Node: n}
		}

		entry := found[0]

		var existing *Function
		for _, label := range entry.Labels() {
			if f, ok := labelFunctionMap[label]; ok {
				existing = f
				break
			}
		}

		if existing != nil {
			rewriteAsAlternateExit(n, existing)
			continue
		}

		fn := &Function{Nodes: walked, Entry: entry, Exit: n}
		for _, label := range entry.Labels() {
			labelFunctionMap[label] = fn
		}
		for _, m := range walked {
			m.setFunction(fn)
		}
	}

	c.LabelFunctionMap = labelFunctionMap
	return nil
}

// walkBackToEntry performs a depth-first walk backward from a return
// node over predecessor edges, stopping at every function entry it
// reaches (recorded as a candidate, not expanded further) and failing
// if it reaches the program entry without ever finding one.
func walkBackToEntry(ret *CfgNode) (walked []*CfgNode, found []*CfgNode, err error) {
	visited := map[*CfgNode]bool{}
	stack := []*CfgNode{ret}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true
		walked = append(walked, n)

		if n.Node().IsProgramEntry() {
			return nil, nil, &Error{Kind: ErrNoLabelForReturn, Node: ret}
		}
		if n.Node().IsFunctionEntry() {
			found = append(found, n)
			continue
		}
		for _, p := range n.Prevs() {
			if !visited[p] {
				stack = append(stack, p)
			}
		}
	}
	return walked, found, nil
}

// rewriteAsAlternateExit converts ret, a return sharing its enclosing
// function's entry with an already-discovered exit, into an
// unconditional jump that joins the canonical exit's predecessors.
func rewriteAsAlternateExit(ret *CfgNode, fn *Function) {
	for _, next := range ret.Nexts() {
		Disconnect(ret, next)
	}
	Connect(ret, fn.Exit)

	pn := ret.Node()
	pn.Kind = parser.KindJumpLink
	pn.Op = "jal"
	pn.Rd, pn.HasRd = isa.X0, true
	pn.Target, pn.HasTarget = syntheticReturnLabel, true
	pn.Rs1, pn.Rs2, pn.HasRs2, pn.Imm = 0, 0, false, 0
}
