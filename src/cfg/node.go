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
	"sort"

	"riscvlint/isa"
	"riscvlint/parser"
)

// CfgNode wraps one parser.Node with the mutable state the generation
// and analysis passes accumulate on top of it: edges, owning function,
// segment, and the two dataflow lattices. Every mutator is a
// set-if-changed primitive that reports whether it actually moved the
// node's state, so a fixpoint loop can detect convergence without
// external bookkeeping. There is no locking: passes run strictly
// sequentially and a node's own fields are only ever written by the
// currently-running pass while processing that node.
type CfgNode struct {
	node *parser.Node

	labels map[isa.LabelString]struct{}

	nexts map[*CfgNode]struct{}
	prevs map[*CfgNode]struct{}

	segment Segment
	fn      *Function

	liveIn, liveOut isa.RegisterSet
	uDef            isa.RegisterSet

	regValuesIn, regValuesOut map[isa.Register]AvailableValue
	memValuesIn, memValuesOut map[MemoryLocation]AvailableValue
}

func newCfgNode(n *parser.Node) *CfgNode {
	return &CfgNode{
		node:    n,
		labels:  map[isa.LabelString]struct{}{},
		nexts:   map[*CfgNode]struct{}{},
		prevs:   map[*CfgNode]struct{}{},
		segment: SegmentText,
	}
}

// Node returns the underlying parsed instruction.
func (n *CfgNode) Node() *parser.Node { return n.node }

// ID exposes the underlying node's stable identity, for maps and
// deterministic ordering of snapshots.
func (n *CfgNode) ID() uint64 { return n.node.ID }

func (n *CfgNode) addLabel(l isa.LabelString) { n.labels[l] = struct{}{} }

// Labels returns the labels targeting n, sorted for determinism.
func (n *CfgNode) Labels() []isa.LabelString {
	out := make([]isa.LabelString, 0, len(n.labels))
	for l := range n.labels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (n *CfgNode) HasLabel(l isa.LabelString) bool {
	_, ok := n.labels[l]
	return ok
}

func sortByID(nodes []*CfgNode) []*CfgNode {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	return nodes
}

// Nexts returns a snapshot of n's successors, sorted by node ID.
func (n *CfgNode) Nexts() []*CfgNode {
	out := make([]*CfgNode, 0, len(n.nexts))
	for m := range n.nexts {
		out = append(out, m)
	}
	return sortByID(out)
}

// Prevs returns a snapshot of n's predecessors, sorted by node ID.
func (n *CfgNode) Prevs() []*CfgNode {
	out := make([]*CfgNode, 0, len(n.prevs))
	for m := range n.prevs {
		out = append(out, m)
	}
	return sortByID(out)
}

func (n *CfgNode) InsertNext(m *CfgNode) { n.nexts[m] = struct{}{} }
func (n *CfgNode) InsertPrev(m *CfgNode) { n.prevs[m] = struct{}{} }
func (n *CfgNode) RemoveNext(m *CfgNode) { delete(n.nexts, m) }
func (n *CfgNode) RemovePrev(m *CfgNode) { delete(n.prevs, m) }
func (n *CfgNode) ClearNexts()           { n.nexts = map[*CfgNode]struct{}{} }
func (n *CfgNode) ClearPrevs()           { n.prevs = map[*CfgNode]struct{}{} }

// Connect adds the symmetric pair of edges a->b (a's next, b's prev) in
// one call, keeping invariant I3 (edge sets are symmetric) obviously
// true at every call site instead of relying on callers to pair up two
// one-sided inserts correctly.
func Connect(a, b *CfgNode) {
	a.InsertNext(b)
	b.InsertPrev(a)
}

// Disconnect removes the symmetric pair of edges a->b.
func Disconnect(a, b *CfgNode) {
	a.RemoveNext(b)
	b.RemovePrev(a)
}

func (n *CfgNode) Segment() Segment        { return n.segment }
func (n *CfgNode) setSegment(s Segment)    { n.segment = s }
func (n *CfgNode) Function() *Function     { return n.fn }
func (n *CfgNode) setFunction(f *Function) { n.fn = f }

func (n *CfgNode) LiveIn() isa.RegisterSet  { return n.liveIn }
func (n *CfgNode) LiveOut() isa.RegisterSet { return n.liveOut }
func (n *CfgNode) UDef() isa.RegisterSet    { return n.uDef }

// SetLiveIn overwrites live_in, reporting whether the value changed.
func (n *CfgNode) SetLiveIn(s isa.RegisterSet) bool {
	if n.liveIn.Equal(s) {
		return false
	}
	n.liveIn = s
	return true
}

func (n *CfgNode) SetLiveOut(s isa.RegisterSet) bool {
	if n.liveOut.Equal(s) {
		return false
	}
	n.liveOut = s
	return true
}

func (n *CfgNode) SetUDef(s isa.RegisterSet) bool {
	if n.uDef.Equal(s) {
		return false
	}
	n.uDef = s
	return true
}

// RegValuesIn/Out and MemValuesIn/Out return live references to the
// node's own maps. Callers in the analysis pass build a fresh map to
// hand to SetRegValuesIn/Out rather than mutating these in place, since
// the set-if-changed comparison needs a stable "before" snapshot.
func (n *CfgNode) RegValuesIn() map[isa.Register]AvailableValue  { return n.regValuesIn }
func (n *CfgNode) RegValuesOut() map[isa.Register]AvailableValue { return n.regValuesOut }
func (n *CfgNode) MemValuesIn() map[MemoryLocation]AvailableValue  { return n.memValuesIn }
func (n *CfgNode) MemValuesOut() map[MemoryLocation]AvailableValue { return n.memValuesOut }

func (n *CfgNode) SetRegValuesIn(m map[isa.Register]AvailableValue) bool {
	if regValueMapsEqual(n.regValuesIn, m) {
		return false
	}
	n.regValuesIn = m
	return true
}

func (n *CfgNode) SetRegValuesOut(m map[isa.Register]AvailableValue) bool {
	if regValueMapsEqual(n.regValuesOut, m) {
		return false
	}
	n.regValuesOut = m
	return true
}

func (n *CfgNode) SetMemValuesIn(m map[MemoryLocation]AvailableValue) bool {
	if memValueMapsEqual(n.memValuesIn, m) {
		return false
	}
	n.memValuesIn = m
	return true
}

func (n *CfgNode) SetMemValuesOut(m map[MemoryLocation]AvailableValue) bool {
	if memValueMapsEqual(n.memValuesOut, m) {
		return false
	}
	n.memValuesOut = m
	return true
}

func regValueMapsEqual(a, b map[isa.Register]AvailableValue) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func memValueMapsEqual(a, b map[MemoryLocation]AvailableValue) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
