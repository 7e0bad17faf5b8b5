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
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riscvlint/isa"
	"riscvlint/reader"
)

func parse(t *testing.T, src string) ([]*Node, []*Error) {
	t.Helper()
	fr := reader.NewMemoryReader(map[string]string{"main.s": src})
	nodes, errs, err := Parse("main.s", fr)
	require.NoError(t, err)
	return nodes, errs
}

func kinds(nodes []*Node) []Kind {
	out := make([]Kind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind
	}
	return out
}

func TestParseEmitsProgramEntryFirst(t *testing.T) {
	nodes, errs := parse(t, "")
	require.Empty(t, errs)
	require.Len(t, nodes, 1)
	assert.Equal(t, KindProgramEntry, nodes[0].Kind)
}

func TestParseSimpleArithAndReturn(t *testing.T) {
	nodes, errs := parse(t, "foo:\n  add a0, a0, a1\n  jalr x0, ra, 0\n")
	require.Empty(t, errs)
	require.Equal(t, []Kind{KindProgramEntry, KindLabel, KindArith, KindJumpLinkR}, kinds(nodes))

	label := nodes[1]
	assert.Equal(t, isa.LabelString("foo"), label.FuncLabel)

	arith := nodes[2]
	assert.Equal(t, Op("add"), arith.Op)
	assert.Equal(t, isa.X10, arith.Rd)
	assert.Equal(t, isa.X10, arith.Rs1)
	assert.Equal(t, isa.X11, arith.Rs2)

	ret := nodes[3]
	assert.True(t, ret.IsReturn())
}

func TestParseRetPseudoIsReturn(t *testing.T) {
	nodes, errs := parse(t, "foo:\n  ret\n")
	require.Empty(t, errs)
	require.Len(t, nodes, 3)
	assert.True(t, nodes[2].IsReturn())
}

func TestParseLiSmallExpandsToSingleAddi(t *testing.T) {
	nodes, errs := parse(t, "li a0, 10\n")
	require.Empty(t, errs)
	require.Len(t, nodes, 2)
	n := nodes[1]
	assert.Equal(t, KindIArith, n.Kind)
	assert.Equal(t, Op("addi"), n.Op)
	assert.Equal(t, isa.Immediate(10), n.Imm)
}

func TestParseLiLargeExpandsToLuiAddi(t *testing.T) {
	nodes, errs := parse(t, "li a0, 100000\n")
	require.Empty(t, errs)
	require.Len(t, nodes, 3)
	assert.Equal(t, Op("lui"), nodes[1].Op)
	assert.Equal(t, Op("addi"), nodes[2].Op)
	reconstructed := (int32(nodes[1].Imm) << 12) + int32(nodes[2].Imm)
	assert.Equal(t, int32(100000), reconstructed)
}

func TestParseLoadStoreMemoryOperand(t *testing.T) {
	nodes, errs := parse(t, "lw a0, 4(sp)\nsw a0, -4(sp)\n")
	require.Empty(t, errs)
	require.Len(t, nodes, 3)

	load := nodes[1]
	assert.Equal(t, KindLoad, load.Kind)
	assert.Equal(t, isa.X2, load.Rs1)
	assert.Equal(t, isa.Immediate(4), load.Imm)

	store := nodes[2]
	assert.Equal(t, KindStore, store.Kind)
	assert.Equal(t, isa.X2, store.Rs1)
	assert.Equal(t, isa.Immediate(-4), store.Imm)
}

func TestParsePseudoBranches(t *testing.T) {
	nodes, errs := parse(t, "beqz a0, L\nL:\n")
	require.Empty(t, errs)
	branch := nodes[1]
	assert.Equal(t, Op("beq"), branch.Op)
	assert.Equal(t, isa.X10, branch.Rs1)
	assert.Equal(t, isa.X0, branch.Rs2)
}

func TestParseCallAndTail(t *testing.T) {
	nodes, errs := parse(t, "call foo\ntail bar\nfoo:\nbar:\n")
	require.Empty(t, errs)
	call := nodes[1]
	assert.Equal(t, isa.X1, call.Rd)
	tail := nodes[2]
	assert.Equal(t, isa.X0, tail.Rd)
}

func TestParseUnrecognizedMnemonicRecoversAtNewline(t *testing.T) {
	nodes, errs := parse(t, "bogus a0, a1\nadd a0, a0, a1\n")
	require.Len(t, errs, 1)
	require.Len(t, nodes, 2) // ProgramEntry + the recovered add
	assert.Equal(t, KindArith, nodes[1].Kind)
}

func TestParseLabelCollidingWithRegisterIsError(t *testing.T) {
	_, errs := parse(t, "a0:\n")
	require.Len(t, errs, 1)
}

func TestParseWrongOperandCountRecovers(t *testing.T) {
	nodes, errs := parse(t, "add a0, a0\nadd a0, a0, a1\n")
	require.Len(t, errs, 1)
	require.Len(t, nodes, 2)
}

func TestParseInclude(t *testing.T) {
	fr := reader.NewMemoryReader(map[string]string{
		"main.s": ".include \"helper.s\"\nadd a0, a0, a1\n",
		"helper.s": "helper:\n  ret\n",
	})
	nodes, errs, err := Parse("main.s", fr)
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, []Kind{KindProgramEntry, KindLabel, KindJumpLinkR, KindArith}, kinds(nodes))
}

func TestParseIncludeCycleIsError(t *testing.T) {
	fr := reader.NewMemoryReader(map[string]string{
		"a.s": ".include \"b.s\"\n",
		"b.s": ".include \"a.s\"\n",
	})
	_, errs, err := Parse("a.s", fr)
	require.NoError(t, err)
	require.Len(t, errs, 1)
}

func TestParseDirectiveRecordsKindAndArgs(t *testing.T) {
	nodes, errs := parse(t, ".word 1 2 3\n")
	require.Empty(t, errs)
	require.Len(t, nodes, 2)
	n := nodes[1]
	assert.Equal(t, KindDirective, n.Kind)
	assert.Equal(t, DirWord, n.DirectiveKind)
	assert.Equal(t, []string{"1", "2", "3"}, n.DirectiveArgs)
}

func TestNodeWritesToAndReadsFrom(t *testing.T) {
	nodes, errs := parse(t, "add a0, a1, a2\n")
	require.Empty(t, errs)
	n := nodes[1]
	rd, ok := n.WritesTo()
	require.True(t, ok)
	assert.Equal(t, isa.X10, rd)
	reads := n.ReadsFrom()
	assert.True(t, reads.Contains(isa.X11))
	assert.True(t, reads.Contains(isa.X12))
}
