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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riscvlint/isa"
	"riscvlint/parser"
	"riscvlint/reader"
)

func buildGraph(t *testing.T, src string) *Cfg {
	t.Helper()
	fr := reader.NewMemoryReader(map[string]string{"main.s": src})
	nodes, errs, err := parser.Parse("main.s", fr)
	require.NoError(t, err)
	require.Empty(t, errs)

	c, err := Build(nodes, CalledLabels(nodes))
	require.NoError(t, err)
	require.NoError(t, RunDirectionPass(c))
	PruneDeadEdges(c)
	return c
}

func TestBuildDropsLabelsAndDirectivesFromGraph(t *testing.T) {
	c := buildGraph(t, ".text\nmain:\n  li a7, 10\n  ecall\n")
	for _, n := range c.Nodes {
		assert.True(t, n.Node().IsInstruction())
	}
}

func TestBuildInsertsFuncEntryOnlyForCalledLabels(t *testing.T) {
	c := buildGraph(t, "main:\n  call helper\n  li a7, 10\n  ecall\nhelper:\n  ret\n")

	var sawFuncEntry bool
	for _, n := range c.Nodes {
		if n.Node().IsFunctionEntry() {
			sawFuncEntry = true
			assert.Equal(t, []isa.LabelString{"helper"}, n.Labels())
		}
	}
	assert.True(t, sawFuncEntry, "helper is called, so it should get a FuncEntry")

	// main is never called, so its label attaches directly to the
	// instruction without a synthetic FuncEntry.
	mainNode, ok := c.NodeForLabel("main")
	require.True(t, ok)
	assert.False(t, mainNode.Node().IsFunctionEntry())
}

func standaloneLabels(t *testing.T, src string) map[isa.LabelString]bool {
	t.Helper()
	fr := reader.NewMemoryReader(map[string]string{"main.s": src})
	nodes, errs, err := parser.Parse("main.s", fr)
	require.NoError(t, err)
	require.Empty(t, errs)
	return StandaloneFunctionLabels(nodes)
}

func TestStandaloneFunctionLabelsFindsUncalledTopLevelLabel(t *testing.T) {
	labels := standaloneLabels(t, "foo:\n  jr ra\n")
	assert.True(t, labels["foo"])
}

func TestStandaloneFunctionLabelsExcludesFallthroughMarkerAfterCall(t *testing.T) {
	// main_ret only ever exists as a landing spot right after "call foo"
	// returns; control reaches it by ordinary fallthrough, not by
	// starting fresh, so it must not be promoted to its own function
	// entry even though nothing ever branches or jumps to it by name.
	labels := standaloneLabels(t, "main:\n  call foo\nmain_ret:\n  addi a1, a0, 1\n  li a7, 10\n  ecall\nfoo:\n  jr ra\n")
	assert.True(t, labels["main"])
	assert.False(t, labels["main_ret"])
	assert.False(t, labels["foo"], "foo is called, so CalledLabels already covers it")
}

func TestStandaloneFunctionLabelsExcludesOrdinaryLoopTarget(t *testing.T) {
	// body is reached by the backward branch from check, so it's an
	// ordinary loop target - referenced the same way a call target is,
	// just never meant to be its own function.
	labels := standaloneLabels(t, "main:\n  j check\nbody:\n  addi a0, a0, -1\ncheck:\n  bnez a0, body\n  li a7, 10\n  ecall\n")
	assert.False(t, labels["body"])
}

func TestDirectionPassLinksFallthroughAndBranchTargets(t *testing.T) {
	c := buildGraph(t, "main:\n  beqz a0, done\n  addi a0, a0, 1\ndone:\n  li a7, 10\n  ecall\n")
	require.Len(t, c.Nodes, 5) // ProgramEntry, branch, addi, addi(li), ecall

	branch := c.Nodes[1]
	require.Equal(t, parser.KindBranch, branch.Node().Kind)
	require.Len(t, branch.Nexts(), 2) // fallthrough + branch target

	addi := c.Nodes[2]
	require.Equal(t, parser.Op("addi"), addi.Node().Op)
	require.Len(t, addi.Nexts(), 1)
}

func TestDirectionPassUnexpectedErrorOnMissingTarget(t *testing.T) {
	fr := reader.NewMemoryReader(map[string]string{"main.s": "j nowhere\n"})
	nodes, errs, err := parser.Parse("main.s", fr)
	require.NoError(t, err)
	require.Empty(t, errs)

	c, err := Build(nodes, CalledLabels(nodes))
	require.NoError(t, err)
	cfgErr := RunDirectionPass(c)
	require.Error(t, cfgErr)
	var e *Error
	require.ErrorAs(t, cfgErr, &e)
	assert.Equal(t, ErrUnexpected, e.Kind)
}

func TestPruneDeadEdgesRemovesUnreachableTail(t *testing.T) {
	// The "addi" after an unconditional jump is unreachable: it has no
	// prev at all (the jump breaks the linear fallthrough chain), and it
	// is not a return, any entry, or a terminator, so its dangling next
	// edge is pruned.
	c := buildGraph(t, "main:\n  j done\n  addi a0, a0, 1\ndone:\n  li a7, 10\n  ecall\n")

	// Two "addi" nodes exist (the dead "a0, a0, 1" and the "li"-expanded
	// "a7, x0, 10"); disambiguate by destination register.
	var unreachable *CfgNode
	for _, n := range c.Nodes {
		if n.Node().Op == "addi" && n.Node().Rd == isa.X10 {
			unreachable = n
		}
	}
	require.NotNil(t, unreachable)
	assert.Empty(t, unreachable.Prevs())
	assert.Empty(t, unreachable.Nexts())
}

func TestFunctionMarkupDiscoversSingleFunction(t *testing.T) {
	c := buildGraph(t, "main:\n  call helper\n  li a7, 10\n  ecall\nhelper:\n  addi a0, a0, 1\n  ret\n")
	require.NoError(t, RunFunctionMarkupPass(c))

	fn, ok := c.LabelFunctionMap["helper"]
	require.True(t, ok)
	assert.True(t, fn.Entry.Node().IsFunctionEntry())
	assert.True(t, fn.Exit.Node().IsReturn())
	assert.Len(t, fn.Nodes, 3) // FuncEntry, addi, ret
}

func TestFunctionMarkupRewritesSecondReturnAsAlternateExit(t *testing.T) {
	c := buildGraph(t, ""+
		"main:\n  call helper\n  li a7, 10\n  ecall\n"+
		"helper:\n  beqz a0, skip\n  addi a0, a0, 1\n  ret\n"+
		"skip:\n  ret\n")
	require.NoError(t, RunFunctionMarkupPass(c))

	require.Len(t, c.LabelFunctionMap, 1)
	fn := c.LabelFunctionMap["helper"]

	returns := 0
	for _, n := range fn.Nodes {
		if n.Node().IsReturn() {
			returns++
		}
	}
	assert.Equal(t, 1, returns, "only the canonical exit should still read as a return")
}

func TestFunctionMarkupNoLabelForReturn(t *testing.T) {
	c := buildGraph(t, "ret\n")
	err := RunFunctionMarkupPass(c)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ErrNoLabelForReturn, e.Kind)
}

func TestComputeDominatorsOverDiamond(t *testing.T) {
	c := buildGraph(t, ""+
		"main:\n  call helper\n  li a7, 10\n  ecall\n"+
		"helper:\n  beqz a0, left\n  addi a1, a1, 1\n  j join\n"+
		"left:\n  addi a1, a1, 2\n"+
		"join:\n  ret\n")
	require.NoError(t, RunFunctionMarkupPass(c))

	fn, ok := c.LabelFunctionMap["helper"]
	require.True(t, ok)

	var beqz, fallthroughAdd, joinJump, leftAdd, ret *CfgNode
	for _, n := range fn.Nodes {
		switch {
		case n.Node().Kind == parser.KindBranch:
			beqz = n
		case n.Node().Kind == parser.KindJumpLink:
			joinJump = n
		case n.Node().Op == "addi" && n.Node().Imm == 1:
			fallthroughAdd = n
		case n.Node().Op == "addi" && n.Node().Imm == 2:
			leftAdd = n
		case n.Node().IsReturn():
			ret = n
		}
	}
	require.NotNil(t, beqz)
	require.NotNil(t, fallthroughAdd)
	require.NotNil(t, joinJump)
	require.NotNil(t, leftAdd)
	require.NotNil(t, ret)

	dt := ComputeDominators(fn)

	assert.True(t, dt.IsDominate(fn.Entry, ret))
	assert.True(t, dt.IsDominate(beqz, ret))
	assert.True(t, dt.IsIDominate(beqz, ret), "no other block sits between the branch and the join")
	assert.False(t, dt.IsDominate(fallthroughAdd, ret), "the left-branch path to join never passes through the fallthrough arm")
	assert.False(t, dt.IsDominate(leftAdd, ret), "the fallthrough path to join never passes through the left arm")
	assert.True(t, dt.IsIDominate(beqz, fallthroughAdd))
	assert.True(t, dt.IsIDominate(beqz, leftAdd))
	assert.True(t, dt.IsIDominate(fallthroughAdd, joinJump))
}
