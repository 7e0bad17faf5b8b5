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

// Package analysis runs the dataflow passes over a built cfg.Cfg: the
// forward available-value pass, the backward liveness/u_def pass, and
// ecall termination. Both passes share the same per-node "gen"/"kill"
// vocabulary, just applied to different lattices (known values vs.
// register liveness), so the two kill functions and the two gen
// functions for values live together here.
package analysis

import (
	"riscvlint/cfg"
	"riscvlint/isa"
	"riscvlint/parser"
)

// killReg is the set of registers a node's liveness kill subtracts: a
// call kills nothing on its own (the call site's u_def instead
// subtracts caller-saved explicitly), a function entry kills every
// caller-saved register (nothing survives into a function from
// whatever the caller happened to be holding), and anything else kills
// only the register it writes.
func killReg(n *parser.Node) isa.RegisterSet {
	if _, ok := n.CallsTo(); ok {
		return 0
	}
	if n.IsFunctionEntry() {
		return isa.CallerSavedSet
	}
	if rd, ok := n.WritesTo(); ok && rd != isa.X0 {
		return isa.NewRegisterSet(rd)
	}
	return 0
}

// killRegValue is killReg's counterpart for the available-value pass:
// a call clobbers every caller-saved register plus ra (the link
// register the call itself just overwrote), since none of those
// survive across an opaque call.
func killRegValue(n *parser.Node) isa.RegisterSet {
	if _, ok := n.CallsTo(); ok {
		return isa.CallerSavedSet.Insert(isa.X1)
	}
	return killReg(n)
}

// genReg is the set of registers a node's liveness gen adds: a return
// reads every callee-saved register (the caller needs them restored),
// everything else reads its normal operands. X0 is never genuinely
// read.
func genReg(n *parser.Node) isa.RegisterSet {
	var regs isa.RegisterSet
	if n.IsReturn() {
		regs = isa.CalleeSavedSet
	} else {
		regs = n.ReadsFrom()
	}
	return regs.Difference(isa.NewRegisterSet(isa.X0))
}

// genRegValue reports the (register, value) pair a node's available-value
// transfer produces, if any.
func genRegValue(n *parser.Node) (isa.Register, cfg.AvailableValue, bool) {
	switch n.Kind {
	case parser.KindLoadAddr:
		if n.HasRd && n.HasTarget {
			return n.Rd, cfg.AddressValue(n.Target), true
		}
	case parser.KindLoad:
		if n.HasRd {
			return n.Rd, cfg.MemoryAtRegisterValue(n.Rs1, int32(n.Imm)), true
		}
	case parser.KindIArith:
		if n.Rs1 == isa.X0 {
			switch n.Op {
			case "addi", "lui", "addiw", "xori", "ori":
				return n.Rd, cfg.ConstantValue(int32(n.Imm)), true
			case "andi", "slli", "slliw", "srai", "sraiw", "srli", "srliw":
				return n.Rd, cfg.ConstantValue(0), true
			}
		}
	case parser.KindArith:
		if n.Rs1 == isa.X0 && n.Rs2 == isa.X0 {
			return n.Rd, cfg.ConstantValue(0), true
		}
	}
	return 0, cfg.AvailableValue{}, false
}

// genMemoryValue reports the (location, value) pair a store to the
// stack produces. Stores through any other base register compute an
// address the analysis can't resolve to a fixed location, so they
// generate nothing.
func genMemoryValue(n *parser.Node) (cfg.MemoryLocation, cfg.AvailableValue, bool) {
	if n.Kind == parser.KindStore && n.Rs1.IsStackPointer() {
		return cfg.MemoryLocation{StackOffset: int32(n.Imm)}, cfg.RegisterValue(n.Rs2, 0), true
	}
	return cfg.MemoryLocation{}, cfg.AvailableValue{}, false
}
