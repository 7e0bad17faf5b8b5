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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riscvlint/cfg"
	"riscvlint/isa"
	"riscvlint/parser"
	"riscvlint/reader"
)

func buildGraph(t *testing.T, src string) *cfg.Cfg {
	t.Helper()
	fr := reader.NewMemoryReader(map[string]string{"main.s": src})
	nodes, errs, err := parser.Parse("main.s", fr)
	require.NoError(t, err)
	require.Empty(t, errs)

	c, err := cfg.Build(nodes, cfg.CalledLabels(nodes))
	require.NoError(t, err)
	require.NoError(t, cfg.RunDirectionPass(c))
	cfg.PruneDeadEdges(c)
	return c
}

func TestAvailableValuePassPropagatesConstant(t *testing.T) {
	c := buildGraph(t, "main:\n  li a7, 10\n  ecall\n")
	require.NoError(t, RunAvailableValuePass(c))

	var ecall *cfg.CfgNode
	for _, n := range c.Nodes {
		if n.Node().IsEcall() {
			ecall = n
		}
	}
	require.NotNil(t, ecall)

	v, ok := ecall.RegValuesIn()[isa.X17]
	require.True(t, ok)
	assert.Equal(t, cfg.ConstantValue(10), v)
}

func TestAvailableValuePassJoinDropsDisagreement(t *testing.T) {
	c := buildGraph(t, ""+
		"main:\n  beqz a1, set5\n  li a0, 6\n  j after\n"+
		"set5:\n  li a0, 5\n"+
		"after:\n  li a7, 10\n  ecall\n")
	require.NoError(t, RunAvailableValuePass(c))

	var ecall *cfg.CfgNode
	for _, n := range c.Nodes {
		if n.Node().IsEcall() {
			ecall = n
		}
	}
	require.NotNil(t, ecall)

	// a0 disagrees (5 on one path, 6 on the other) so the join must drop
	// it entirely rather than pick either arm's value.
	_, ok := ecall.RegValuesIn()[isa.X10]
	assert.False(t, ok)
}

func TestEcallTerminationPassClearsSuccessorsOfKnownExit(t *testing.T) {
	// loop: never falls off the end, so dead-edge pruning during
	// buildGraph has nothing to reclaim on its own - the edge out of
	// ecall must still be there for termination to actually clear it.
	c := buildGraph(t, "main:\n  li a7, 10\n  ecall\nloop:\n  addi a0, a0, 1\n  j loop\n")
	require.NoError(t, RunAvailableValuePass(c))

	var ecall *cfg.CfgNode
	for _, n := range c.Nodes {
		if n.Node().IsEcall() {
			ecall = n
		}
	}
	require.NotNil(t, ecall)
	require.NotEmpty(t, ecall.Nexts(), "fallthrough edge must exist before termination runs")

	RunEcallTerminationPass(c)
	assert.Empty(t, ecall.Nexts())
}

func TestLivenessPassThreadsArgumentIntoCallee(t *testing.T) {
	c := buildGraph(t, ""+
		"main:\n  li a0, 1\n  call helper\n  li a7, 10\n  ecall\n"+
		"helper:\n  addi a1, a0, 1\n  ret\n")
	require.NoError(t, RunAvailableValuePass(c))
	require.NoError(t, cfg.RunFunctionMarkupPass(c))
	require.NoError(t, RunAvailableValuePass(c))
	RunEcallTerminationPass(c)
	require.NoError(t, RunLivenessPass(c))

	fn, ok := c.LabelFunctionMap["helper"]
	require.True(t, ok)
	assert.True(t, fn.Entry.LiveOut().Contains(isa.X10), "helper reads a0, so it must be live into the entry")
}
