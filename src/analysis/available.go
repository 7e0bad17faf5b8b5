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

// originalRegisterMap is the register-value state every program entry
// and function entry resets to: each register holds exactly whatever
// it held on entry, expressed as its own OriginalRegisterValue so
// downstream passes can tell a value survived unmodified from a value
// that happens to coincide with it.
func originalRegisterMap() map[isa.Register]cfg.AvailableValue {
	out := map[isa.Register]cfg.AvailableValue{}
	isa.AllWritableSet.ForEach(func(r isa.Register) bool {
		out[r] = cfg.OriginalRegisterValue(r, 0)
		return true
	})
	return out
}

func copyRegMap(m map[isa.Register]cfg.AvailableValue) map[isa.Register]cfg.AvailableValue {
	out := make(map[isa.Register]cfg.AvailableValue, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyMemMap(m map[cfg.MemoryLocation]cfg.AvailableValue) map[cfg.MemoryLocation]cfg.AvailableValue {
	out := make(map[cfg.MemoryLocation]cfg.AvailableValue, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// intersectRegMaps joins predecessor register-value maps: a key
// survives only when every map has it and they all agree. An empty
// input (no predecessors) joins to an empty map, matching the "every
// other node starts empty" initial state.
func intersectRegMaps(maps []map[isa.Register]cfg.AvailableValue) map[isa.Register]cfg.AvailableValue {
	out := map[isa.Register]cfg.AvailableValue{}
	if len(maps) == 0 {
		return out
	}
	for reg, val := range maps[0] {
		agree := true
		for _, m := range maps[1:] {
			if v2, ok := m[reg]; !ok || v2 != val {
				agree = false
				break
			}
		}
		if agree {
			out[reg] = val
		}
	}
	return out
}

func intersectMemMaps(maps []map[cfg.MemoryLocation]cfg.AvailableValue) map[cfg.MemoryLocation]cfg.AvailableValue {
	out := map[cfg.MemoryLocation]cfg.AvailableValue{}
	if len(maps) == 0 {
		return out
	}
	for loc, val := range maps[0] {
		agree := true
		for _, m := range maps[1:] {
			if v2, ok := m[loc]; !ok || v2 != val {
				agree = false
				break
			}
		}
		if agree {
			out[loc] = val
		}
	}
	return out
}

// RunAvailableValuePass computes, for every node, which registers and
// stack cells hold a statically-known value on entry and exit. Program
// and function entries always start from "every register holds its own
// original value"; every other node joins its predecessors' out-state
// by per-key intersection and applies its own transfer. Runs to
// fixpoint in source order - driver.go's GenFullCFG calls this three
// times per build (once on the provisional CFG, which only feeds
// interrupt-handler discovery, then before and after function markup
// on the final CFG; the last run produces the values the lints and
// liveness pass read).
func RunAvailableValuePass(c *cfg.Cfg) error {
	changed := true
	for changed {
		changed = false
		for _, n := range c.Nodes {
			pn := n.Node()

			if pn.IsAnyEntry() {
				regs := originalRegisterMap()
				if n.SetRegValuesIn(regs) {
					changed = true
				}
				if n.SetRegValuesOut(copyRegMap(regs)) {
					changed = true
				}
				empty := map[cfg.MemoryLocation]cfg.AvailableValue{}
				if n.SetMemValuesIn(empty) {
					changed = true
				}
				if n.SetMemValuesOut(copyMemMap(empty)) {
					changed = true
				}
				continue
			}

			prevs := n.Prevs()
			regOuts := make([]map[isa.Register]cfg.AvailableValue, len(prevs))
			memOuts := make([]map[cfg.MemoryLocation]cfg.AvailableValue, len(prevs))
			for i, p := range prevs {
				regOuts[i] = p.RegValuesOut()
				memOuts[i] = p.MemValuesOut()
			}

			regIn := intersectRegMaps(regOuts)
			memIn := intersectMemMaps(memOuts)
			if n.SetRegValuesIn(regIn) {
				changed = true
			}
			if n.SetMemValuesIn(memIn) {
				changed = true
			}

			regOut := copyRegMap(regIn)
			killed := killRegValue(pn)
			for r := range regOut {
				if killed.Contains(r) {
					delete(regOut, r)
				}
			}
			if reg, val, ok := genRegValue(pn); ok {
				regOut[reg] = val
			}
			if n.SetRegValuesOut(regOut) {
				changed = true
			}

			memOut := copyMemMap(memIn)
			if loc, val, ok := genMemoryValue(pn); ok {
				memOut[loc] = val
			}
			if n.SetMemValuesOut(memOut) {
				changed = true
			}
		}
	}
	return nil
}
