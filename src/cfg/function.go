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
	"strings"

	"riscvlint/isa"
)

// Function is the set of nodes reachable backward from a single return,
// its unique FuncEntry, and its unique canonical exit (the return node
// itself, or the return that survived rewriting when multiple returns
// shared the same entry).
type Function struct {
	Nodes []*CfgNode
	Entry *CfgNode
	Exit  *CfgNode
}

// Name joins every label the entry carries, matching how the original
// analyzer renders functions with more than one alias.
func (f *Function) Name() string {
	labels := f.Entry.Labels()
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

// Arguments is live_in(entry) intersected with the ABI argument set.
func (f *Function) Arguments() isa.RegisterSet {
	return f.Entry.LiveIn().Intersect(isa.ArgumentSet)
}

// Returns is live_in(exit) intersected with the ABI return set.
func (f *Function) Returns() isa.RegisterSet {
	return f.Exit.LiveIn().Intersect(isa.ReturnSet)
}

// ToSave is the set of callee-saved registers this function's body
// writes, and therefore owes the caller a restore for - the Stack and
// CalleeSavedRegister lints check this set is honored at every exit.
func (f *Function) ToSave() isa.RegisterSet {
	var s isa.RegisterSet
	for _, n := range f.Nodes {
		if rd, ok := n.Node().WritesTo(); ok && isa.CalleeSavedSet.Contains(rd) {
			s = s.Insert(rd)
		}
	}
	return s
}

// Contains reports whether n belongs to this function's node set.
func (f *Function) Contains(n *CfgNode) bool {
	for _, m := range f.Nodes {
		if m == n {
			return true
		}
	}
	return false
}
