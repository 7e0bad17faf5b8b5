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

// EcallSignature is what a known syscall number tells the analysis:
// which registers it reads as arguments, which it defines as return
// values, and whether it ends the program outright.
type EcallSignature struct {
	Args       isa.RegisterSet
	Rets       isa.RegisterSet
	Terminates bool
}

// knownEcalls is the RARS/Venus a7 syscall table: the subset of a
// RISC-V simulator's environment calls an assembly-level analysis can
// reason about without a real kernel. a7 selects the call; a0-a2 carry
// its arguments by convention.
var knownEcalls = map[int32]EcallSignature{
	1:  {Args: isa.NewRegisterSet(isa.X10)},                               // print_int
	4:  {Args: isa.NewRegisterSet(isa.X10)},                               // print_string
	5:  {Rets: isa.NewRegisterSet(isa.X10)},                               // read_int
	8:  {Args: isa.NewRegisterSet(isa.X10, isa.X11)},                      // read_string
	9:  {Args: isa.NewRegisterSet(isa.X10), Rets: isa.NewRegisterSet(isa.X10)}, // sbrk
	10: {Terminates: true},                                                // exit
	11: {Args: isa.NewRegisterSet(isa.X10)},                               // print_char
	12: {Rets: isa.NewRegisterSet(isa.X10)},                               // read_char
	17: {Args: isa.NewRegisterSet(isa.X10), Terminates: true},             // exit2
	63: {Args: isa.NewRegisterSet(isa.X10, isa.X11, isa.X12), Rets: isa.NewRegisterSet(isa.X10)}, // read(fd, buf, n)
	64: {Args: isa.NewRegisterSet(isa.X10, isa.X11, isa.X12), Rets: isa.NewRegisterSet(isa.X10)}, // write(fd, buf, n)
	93: {Terminates: true}, // exit (Linux-ABI numbering)
}

// ecallArgRegister reports the concrete a7 value at node n, as known by
// the available-value pass, if any.
func ecallArgRegister(n *cfg.CfgNode) (int32, bool) {
	v, ok := n.RegValuesIn()[isa.EcallArgumentRegister]
	if !ok || v.Kind != cfg.ValConstant {
		return 0, false
	}
	return v.Constant, true
}

// KnownEcallSignature reports n's syscall signature, if a7's value is
// both statically known and in the known-calls table.
func KnownEcallSignature(n *cfg.CfgNode) (EcallSignature, bool) {
	code, ok := ecallArgRegister(n)
	if !ok {
		return EcallSignature{}, false
	}
	sig, ok := knownEcalls[code]
	return sig, ok
}

// RunEcallTerminationPass clears the successors of every ecall whose
// a7 value is statically known to terminate the program: nothing after
// it is reachable through this path, so later passes (dead-edge
// pruning) can drop that tail once its only remaining predecessor is
// gone.
func RunEcallTerminationPass(c *cfg.Cfg) {
	for _, n := range c.Nodes {
		if !n.Node().IsEcall() {
			continue
		}
		sig, ok := KnownEcallSignature(n)
		if !ok || !sig.Terminates {
			continue
		}
		for _, next := range n.Nexts() {
			cfg.Disconnect(n, next)
		}
	}
}
