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
)

// MemoryLocation identifies a memory cell the available-value analysis
// tracks. The only addressing mode is a constant offset from the stack
// pointer: the immediate of the sp-relative store or load as written,
// relative to sp at that instruction. Adjustments to sp between two
// accesses are not tracked, so the offset is not rebased to sp at
// function entry.
type MemoryLocation struct {
	StackOffset int32
}

func (m MemoryLocation) String() string {
	return fmt.Sprintf("stack%+d", m.StackOffset)
}

// ValueKind tags which shape an AvailableValue carries.
type ValueKind int

const (
	ValConstant ValueKind = iota
	ValAddress
	ValOriginalRegister
	ValRegister
	ValMemory
	ValMemoryAtRegister
	ValMemoryAtOriginalRegister
	ValCsr
	ValMemoryAtCsr
)

// AvailableValue is what the forward dataflow pass knows statically
// about a register or memory cell at some program point. Only the
// fields relevant to Kind are populated. Comparable by == since every
// field is itself comparable - the fixpoint join relies on that.
type AvailableValue struct {
	Kind ValueKind

	Constant int32
	Label    isa.LabelString
	Register isa.Register
	Offset   int32
	Memory   MemoryLocation
	Csr      string
}

func ConstantValue(v int32) AvailableValue { return AvailableValue{Kind: ValConstant, Constant: v} }

func AddressValue(label isa.LabelString) AvailableValue {
	return AvailableValue{Kind: ValAddress, Label: label}
}

// OriginalRegisterValue means "whatever reg held at function entry,
// plus offset" - the strong binding that survives across a call as
// long as the callee respects the ABI.
func OriginalRegisterValue(reg isa.Register, offset int32) AvailableValue {
	return AvailableValue{Kind: ValOriginalRegister, Register: reg, Offset: offset}
}

// RegisterValue means "whatever reg held at some specific earlier
// program point, plus offset" - a weaker binding than
// OriginalRegisterValue because it doesn't survive a call.
func RegisterValue(reg isa.Register, offset int32) AvailableValue {
	return AvailableValue{Kind: ValRegister, Register: reg, Offset: offset}
}

func MemoryValue(loc MemoryLocation, offset int32) AvailableValue {
	return AvailableValue{Kind: ValMemory, Memory: loc, Offset: offset}
}

func MemoryAtRegisterValue(reg isa.Register, offset int32) AvailableValue {
	return AvailableValue{Kind: ValMemoryAtRegister, Register: reg, Offset: offset}
}

func MemoryAtOriginalRegisterValue(reg isa.Register, offset int32) AvailableValue {
	return AvailableValue{Kind: ValMemoryAtOriginalRegister, Register: reg, Offset: offset}
}

func CsrValue(csr string) AvailableValue { return AvailableValue{Kind: ValCsr, Csr: csr} }

func MemoryAtCsrValue(csr string, offset int32) AvailableValue {
	return AvailableValue{Kind: ValMemoryAtCsr, Csr: csr, Offset: offset}
}

func (v AvailableValue) String() string {
	switch v.Kind {
	case ValConstant:
		return fmt.Sprintf("const(%d)", v.Constant)
	case ValAddress:
		return fmt.Sprintf("addr(%s)", v.Label)
	case ValOriginalRegister:
		return fmt.Sprintf("orig(%s%+d)", v.Register, v.Offset)
	case ValRegister:
		return fmt.Sprintf("reg(%s%+d)", v.Register, v.Offset)
	case ValMemory:
		return fmt.Sprintf("mem(%s%+d)", v.Memory, v.Offset)
	case ValMemoryAtRegister:
		return fmt.Sprintf("mem(%s%+d)", v.Register, v.Offset)
	case ValMemoryAtOriginalRegister:
		return fmt.Sprintf("mem(orig(%s)%+d)", v.Register, v.Offset)
	case ValCsr:
		return fmt.Sprintf("csr(%s)", v.Csr)
	case ValMemoryAtCsr:
		return fmt.Sprintf("mem(csr(%s)%+d)", v.Csr, v.Offset)
	default:
		return "<unknown-value>"
	}
}
