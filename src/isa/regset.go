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
package isa

import "strings"

// RegisterSet is a bitmap over the 32 integer registers. Since the
// register file's size is fixed and small, a single uint32 word carries
// the whole set, with no dynamically sized storage.
type RegisterSet uint32

// NewRegisterSet builds a RegisterSet containing exactly regs.
func NewRegisterSet(regs ...Register) RegisterSet {
	var s RegisterSet
	for _, r := range regs {
		s = s.Insert(r)
	}
	return s
}

// Insert returns the set with r added.
func (s RegisterSet) Insert(r Register) RegisterSet {
	return s | (1 << uint(r))
}

// Remove returns the set with r removed.
func (s RegisterSet) Remove(r Register) RegisterSet {
	return s &^ (1 << uint(r))
}

// Contains reports whether r is a member of s.
func (s RegisterSet) Contains(r Register) bool {
	return s&(1<<uint(r)) != 0
}

// Union returns the set of registers in s or o.
func (s RegisterSet) Union(o RegisterSet) RegisterSet { return s | o }

// Intersect returns the set of registers in both s and o.
func (s RegisterSet) Intersect(o RegisterSet) RegisterSet { return s & o }

// Difference returns the registers in s that are not in o.
func (s RegisterSet) Difference(o RegisterSet) RegisterSet { return s &^ o }

// IsEmpty reports whether s has no members.
func (s RegisterSet) IsEmpty() bool { return s == 0 }

// Len reports the number of registers in s.
func (s RegisterSet) Len() int {
	n := 0
	for v := uint32(s); v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Equal reports whether s and o have exactly the same members.
func (s RegisterSet) Equal(o RegisterSet) bool { return s == o }

// String renders s as a comma-separated list of ABI register names, in
// ascending register-number order.
func (s RegisterSet) String() string {
	var b strings.Builder
	first := true
	s.ForEach(func(r Register) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(r.String())
		return true
	})
	return b.String()
}

// ForEach calls f once per member register, in ascending register
// number order, stopping early if f returns false.
func (s RegisterSet) ForEach(f func(Register) bool) {
	for i := 0; i < NumRegisters; i++ {
		if s.Contains(Register(i)) {
			if !f(Register(i)) {
				return
			}
		}
	}
}

// Slice materializes s as a sorted slice of its members.
func (s RegisterSet) Slice() []Register {
	out := make([]Register, 0, s.Len())
	s.ForEach(func(r Register) bool {
		out = append(out, r)
		return true
	})
	return out
}

// Named ABI register sets, mirroring the calling convention every lint
// and dataflow pass reasons about.
var (
	// ProgramArgsSet holds the registers argc/argv arrive in at the
	// program's true entry point (a0, a1).
	ProgramArgsSet = NewRegisterSet(X10, X11)

	// TemporarySet holds the caller-saved scratch registers that carry
	// no calling-convention meaning (t0-t2, t3-t6).
	TemporarySet = NewRegisterSet(X5, X6, X7, X28, X29, X30, X31)

	// ArgumentSet holds the registers a function call passes arguments
	// in (a0-a7).
	ArgumentSet = NewRegisterSet(X10, X11, X12, X13, X14, X15, X16, X17)

	// ReturnSet holds the registers a function call returns values in.
	// RISC-V reuses the argument registers for this.
	ReturnSet = ArgumentSet

	// AllWritableSet holds every register a program may legally write,
	// i.e. every register except the hard-wired zero register.
	AllWritableSet = NewRegisterSet(
		X1, X2, X3, X4, X5, X6, X7, X8, X9, X10, X11, X12, X13, X14, X15, X16, X17,
		X18, X19, X20, X21, X22, X23, X24, X25, X26, X27, X28, X29, X30, X31,
	)

	// SavedSet holds the callee-saved registers a function must
	// preserve across a call (s0-s11), excluding sp/ra.
	SavedSet = NewRegisterSet(X8, X9, X18, X19, X20, X21, X22, X23, X24, X25, X26, X27)

	// SpRaSet holds the stack pointer and return address registers.
	SpRaSet = NewRegisterSet(X2, X1)

	// ReturnAddrSet holds only the return address register.
	ReturnAddrSet = NewRegisterSet(X1)

	// CallerSavedSet holds every register a callee may clobber without
	// notice: the temporaries plus the argument registers.
	CallerSavedSet = TemporarySet.Union(ArgumentSet)

	// ConstZeroSet holds only the hard-wired zero register.
	ConstZeroSet = NewRegisterSet(X0)

	// CalleeSavedSet holds every register a callee must restore before
	// returning: the saved registers plus sp/ra.
	CalleeSavedSet = SavedSet.Union(SpRaSet)

	// EcallAlwaysArgumentSet holds the register that determines which
	// syscall an ecall performs, read by every ecall regardless of its
	// other arguments.
	EcallAlwaysArgumentSet = NewRegisterSet(EcallArgumentRegister)
)
