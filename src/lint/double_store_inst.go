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
	"fmt"

	"riscvlint/cfg"
)

// RunDoubleStoreInst flags a store to a stack slot immediately adjacent
// (4 bytes ahead or behind) to a slot some other store already reached
// by this point - two half-width stores next to each other can almost
// always be folded into one wider store, and often signal a copy/paste
// prologue that never got simplified.
//
// This only covers stack-relative stores: the available-value analysis
// this lint reads from doesn't track heap or global memory locations.
func RunDoubleStoreInst(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, n := range c.Nodes {
		pn := n.Node()
		_, base, offset, ok := pn.StoresToMemory()
		if !ok || !base.IsStackPointer() {
			continue
		}
		location := cfg.MemoryLocation{StackOffset: int32(offset)}
		memOut := n.MemValuesOut()
		for _, delta := range [2]int32{4, -4} {
			check := cfg.MemoryLocation{StackOffset: location.StackOffset + delta}
			if _, exists := memOut[check]; !exists {
				continue
			}
			out = append(out, Diagnostic{
				File:        pn.Raw.File,
				Title:       "adjacent store can be merged",
				Description: fmt.Sprintf("a value is already stored at %s, %d bytes from this store; consider a single wider store instead", check, delta),
				Level:       level,
				Range:       pn.Range(),
			})
		}
	}
	return out
}
