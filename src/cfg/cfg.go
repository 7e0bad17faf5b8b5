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
	"fmt"

	"riscvlint/isa"
	"riscvlint/parser"
)

// ErrorKind tags the shape of a structural CFG failure - these abort
// the analyzer's pass pipeline, unlike lint diagnostics.
type ErrorKind int

const (
	ErrUnexpected ErrorKind = iota
	ErrNoLabelForReturn
	ErrMultipleLabelsForReturn
)

// Error is a structural failure raised while building or markup-ing the
// graph: a jump with no matching label, or a return whose backward walk
// didn't resolve to exactly one function entry.
type Error struct {
	Kind   ErrorKind
	Node   *CfgNode
	Labels []isa.LabelString
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrNoLabelForReturn:
		return fmt.Sprintf("return at %s has no enclosing function label", e.Node.Node().Range())
	case ErrMultipleLabelsForReturn:
		return fmt.Sprintf("return at %s reaches %d distinct function entries", e.Node.Node().Range(), len(e.Labels))
	default:
		return fmt.Sprintf("unexpected CFG construction error at %s", e.Node.Node().Range())
	}
}

// Cfg is the ordered node sequence produced from one parse, plus the
// label -> function map populated by the markup pass.
type Cfg struct {
	Nodes            []*CfgNode
	LabelFunctionMap map[isa.LabelString]*Function
}

// Len returns the number of nodes in the graph.
func (c *Cfg) Len() int { return len(c.Nodes) }

// NodeForLabel returns the node a label attaches to, if any label in
// the graph matches exactly.
func (c *Cfg) NodeForLabel(l isa.LabelString) (*CfgNode, bool) {
	for _, n := range c.Nodes {
		if n.HasLabel(l) {
			return n, true
		}
	}
	return nil, false
}

// CalledLabels collects every label targeted by a `jal ra, label` (or
// its `call`-pseudo source form) anywhere in nodes - the base set of
// names Build treats as function entries. Build's caller additionally
// passes any names discovered by other means (the available-value
// pass's interrupt-handler CSR-write scan, StandaloneFunctionLabels) as
// extraEntryNames.
func CalledLabels(nodes []*parser.Node) map[isa.LabelString]bool {
	out := map[isa.LabelString]bool{}
	for _, n := range nodes {
		if label, ok := n.CallsTo(); ok {
			out[label] = true
		}
	}
	return out
}

// StandaloneFunctionLabels collects every label that marks a top-level
// function nobody calls - the shape a plain call-graph walk can't see,
// like an uncalled `main` that just free-runs from program entry, or a
// helper written but never wired up. A label qualifies only when both
// hold:
//
//   - nothing in the file ever targets it: not a call, not a branch,
//     not a plain jump, not a load-address. This alone rules out every
//     ordinary intra-function branch target (a loop label, an if-else
//     join), since those are always the destination of some branch or
//     jump by construction.
//   - it isn't reached by ordinary fallthrough from the instruction
//     immediately above it: that instruction either doesn't exist, is
//     the synthetic program entry (the label opens the file), or is
//     itself a return or an unconditional jump, i.e. control can only
//     ever reach this label by starting fresh, not by falling out of
//     whatever precedes it. Without this
//     second condition, a label used purely as a mid-function marker -
//     `main:` calling a helper and resuming at a `main_ret:` label
//     right after, say - would be mistaken for the start of its own
//     function even though the call's fallthrough still flows into it.
//
// Both conditions must hold together: the first alone promotes plain
// fallthrough markers it shouldn't, and the second alone promotes
// ordinary loop bodies reached only by a backward branch after an
// unconditional forward jump past them.
func StandaloneFunctionLabels(nodes []*parser.Node) map[isa.LabelString]bool {
	declared := map[isa.LabelString]bool{}
	referenced := map[isa.LabelString]bool{}
	orphaned := map[isa.LabelString]bool{}

	var pending []isa.LabelString
	var lastReal *parser.Node
	for _, n := range nodes {
		switch n.Kind {
		case parser.KindLabel:
			declared[n.FuncLabel] = true
			pending = append(pending, n.FuncLabel)
			continue
		case parser.KindDirective:
			continue
		}
		if n.HasTarget {
			referenced[n.Target] = true
		}
		if lastReal == nil || lastReal.IsProgramEntry() || lastReal.IsReturn() || lastReal.IsUnconditionalJump() {
			for _, l := range pending {
				orphaned[l] = true
			}
		}
		pending = nil
		lastReal = n
	}
	// Labels trailing the last real instruction (a file ending in bare
	// labels) never get flushed above; they're vacuously orphaned too.
	for _, l := range pending {
		orphaned[l] = true
	}

	out := map[isa.LabelString]bool{}
	for l := range declared {
		if !referenced[l] && orphaned[l] {
			out[l] = true
		}
	}
	return out
}

// Build performs CFG construction step 1: filter the flat parser output
// down to the nodes that actually belong in the graph (labels and
// directives are metadata, not graph nodes), attach every label to the
// next real node, insert a synthetic FuncEntry ahead of any label named
// in entryNames, and assign every node's segment by walking .text/.data
// directives in source order.
func Build(nodes []*parser.Node, entryNames map[isa.LabelString]bool) (*Cfg, error) {
	var cfgNodes []*CfgNode
	segment := SegmentText
	var pendingLabels []isa.LabelString

	flush := func(real *CfgNode) {
		isEntry := false
		for _, l := range pendingLabels {
			if entryNames[l] {
				isEntry = true
				break
			}
		}
		target := real
		if isEntry {
			entry := newCfgNode(parser.NewSyntheticNode(parser.KindFuncEntry, real.Node().Raw))
			entry.setSegment(segment)
			cfgNodes = append(cfgNodes, entry)
			target = entry
		}
		for _, l := range pendingLabels {
			target.addLabel(l)
		}
		pendingLabels = nil
	}

	for _, n := range nodes {
		switch n.Kind {
		case parser.KindLabel:
			pendingLabels = append(pendingLabels, n.FuncLabel)
			continue
		case parser.KindDirective:
			if s, ok := n.DirectiveKind.SwitchesSegment(); ok {
				if s == parser.SegmentData {
					segment = SegmentData
				} else {
					segment = SegmentText
				}
			}
			continue
		}

		real := newCfgNode(n)
		real.setSegment(segment)
		flush(real)
		cfgNodes = append(cfgNodes, real)
	}

	return &Cfg{Nodes: cfgNodes}, nil
}
