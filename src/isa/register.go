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

// Register is one of the 32 RV32/RV64 integer registers, identified by
// its numeric encoding X0-X31 regardless of which ABI alias named it in
// the source text.
type Register int

const (
	X0 Register = iota
	X1
	X2
	X3
	X4
	X5
	X6
	X7
	X8
	X9
	X10
	X11
	X12
	X13
	X14
	X15
	X16
	X17
	X18
	X19
	X20
	X21
	X22
	X23
	X24
	X25
	X26
	X27
	X28
	X29
	X30
	X31
)

// NumRegisters is the size of the integer register file.
const NumRegisters = 32

var abiNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// String renders the register using its canonical ABI name (e.g. "sp",
// "a0"), matching what a reader would see in source, not "x2".
func (r Register) String() string {
	if r < 0 || int(r) >= NumRegisters {
		return "<invalid-register>"
	}
	return abiNames[r]
}

// aliases maps every spelling a RISC-V assembler accepts - ABI names,
// the numeric x0..x31 form, and fp as an alias for s0 - to its register.
var aliases map[string]Register

func init() {
	aliases = make(map[string]Register, NumRegisters*2)
	for i, name := range abiNames {
		aliases[name] = Register(i)
		aliases["x"+itoa(i)] = Register(i)
	}
	aliases["fp"] = X8
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// ParseRegister resolves a lexed symbol (case-insensitive) to the
// register it names, reporting ok=false for anything else - including
// CSR names and opcodes, which are not registers.
func ParseRegister(text string) (Register, bool) {
	r, ok := aliases[strings.ToLower(text)]
	return r, ok
}

// IsConstZero reports whether writes to r are always discarded and
// reads always observe zero.
func (r Register) IsConstZero() bool { return r == X0 }

// IsStackPointer reports whether r is the register the ABI reserves for
// the stack pointer.
func (r Register) IsStackPointer() bool { return r == X2 }

// IsReturnAddress reports whether r is the register the call/return
// convention uses to hold the return address.
func (r Register) IsReturnAddress() bool { return r == X1 }

// EcallArgumentRegister is the register the `ecall` convention always
// reads, regardless of the syscall, to select which syscall is invoked.
const EcallArgumentRegister = X17
