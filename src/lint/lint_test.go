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
package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riscvlint/cfg"
	"riscvlint/config"
	"riscvlint/driver"
	"riscvlint/parser"
	"riscvlint/reader"
)

func buildFull(t *testing.T, src string) *cfg.Cfg {
	t.Helper()
	fr := reader.NewMemoryReader(map[string]string{"main.s": src})
	nodes, errs, err := parser.Parse("main.s", fr)
	require.NoError(t, err)
	require.Empty(t, errs)

	m := &driver.Manager{}
	c, err := m.GenFullCFG(nodes)
	require.NoError(t, err)
	return c
}

func TestRunSaveToZeroFlagsWriteToX0(t *testing.T) {
	c := buildFull(t, "main:\n  addi x0, a0, 1\n  li a7, 10\n  ecall\n")
	diags := RunSaveToZero(c, LevelWarning)
	assert.Len(t, diags, 1)
}

func TestRunDeadValueFlagsUnreadWrite(t *testing.T) {
	c := buildFull(t, "main:\n  li a0, 5\n  li a0, 10\n  li a7, 10\n  ecall\n")
	diags := RunDeadValue(c, LevelWarning)
	assert.NotEmpty(t, diags)
}

func TestRunDeadValueFlagsInvalidUseAfterCall(t *testing.T) {
	// main reads a0 after the call, but foo never writes a0 into its
	// return set - the value main reads back is whatever foo left
	// behind in a caller-saved register, not anything main computed.
	c := buildFull(t, ""+
		"main:\n  jal foo\nmain_ret:\n  addi a1, a0, 1\n  li a7, 10\n  ecall\n"+
		"foo:\n  jr ra\n")
	diags := RunDeadValue(c, LevelWarning)
	var sawUseAfterCall bool
	for _, d := range diags {
		if d.Title == "use of caller-saved register after call" {
			sawUseAfterCall = true
		}
	}
	assert.True(t, sawUseAfterCall)
}

func TestRunInstructionInTextFlagsInstructionInDataSegment(t *testing.T) {
	c := buildFull(t, ".data\n  addi x1, x0, 0\n.text\n  addi x1, x0, 0\n")
	diags := RunInstructionInText(c, LevelError)
	assert.Len(t, diags, 1)
}

func TestRunDoubleStoreInstFlagsAdjacentStackStores(t *testing.T) {
	c := buildFull(t, "main:\n"+
		"  addi sp, sp, -8\n  li a0, 10\n  li a1, 20\n"+
		"  sw a0, 0(sp)\n  sw a1, 4(sp)\n"+
		"  addi sp, sp, 8\n  li a7, 10\n  ecall\n")
	diags := RunDoubleStoreInst(c, LevelInfo)
	assert.Len(t, diags, 1)
}

func TestRunEcallFlagsUnknownArgument(t *testing.T) {
	c := buildFull(t, "main:\n  mv a7, a0\n  ecall\n")
	diags := RunEcall(c, LevelWarning)
	assert.Len(t, diags, 1)
	assert.Equal(t, LevelWarning, diags[0].Level)
}

func TestRunEcallFlagsUnrecognizedNumberAtBumpedSeverity(t *testing.T) {
	c := buildFull(t, "main:\n  li a7, 999\n  ecall\n")
	diags := RunEcall(c, LevelWarning)
	require.Len(t, diags, 1)
	assert.Equal(t, LevelError, diags[0].Level, "unrecognized-but-known-constant bumps one step more severe than Warning")
}

func TestRunEcallAllowsKnownTerminatingEcall(t *testing.T) {
	c := buildFull(t, "main:\n  li a7, 10\n  ecall\n")
	diags := RunEcall(c, LevelWarning)
	assert.Empty(t, diags)
}

func TestRunControlFlowFlagsInfiniteLoopThatNeverTerminates(t *testing.T) {
	// loop never reaches a return or an ecall on any path, but it is
	// reachable from the program entry - the unreachable-from-a-
	// terminator shape this lint targets, as opposed to a node
	// dead-edge pruning already disconnected entirely.
	c := buildFull(t, "main:\n  j loop\nloop:\n  j loop\n")
	diags := RunControlFlow(c, LevelError)
	assert.NotEmpty(t, diags)
}

func TestRunGarbageInputValueFlagsReadBeforeAnyWrite(t *testing.T) {
	// a2 isn't one of the program's argc/argv registers, so reading it
	// before anything writes it is a read of garbage.
	c := buildFull(t, "main:\n  addi a0, a2, 1\n  li a7, 10\n  ecall\n")
	diags := RunGarbageInputValue(c, LevelWarning)
	assert.NotEmpty(t, diags)
}

func TestRunStackFlagsUnbalancedFrame(t *testing.T) {
	c := buildFull(t, "main:\n  addi sp, sp, -8\n  addi s0, s0, 1\n  li a7, 10\n  ecall\n")
	diags := RunStack(c, LevelError)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Description, "suggested fix")
}

func TestRunStackAllowsBalancedFrame(t *testing.T) {
	c := buildFull(t, "main:\n  addi sp, sp, -8\n  addi sp, sp, 8\n  li a7, 10\n  ecall\n")
	diags := RunStack(c, LevelError)
	assert.Empty(t, diags)
}

func TestRunCalleeSavedRegisterFlagsUnrestoredWrite(t *testing.T) {
	c := buildFull(t, "main:\n  addi s0, s0, 1\n  li a7, 10\n  ecall\n")
	diags := RunCalleeSavedRegister(c, LevelError)
	assert.NotEmpty(t, diags)
}

func TestRunCalleeSavedGarbageReadFlagsReadOfUndefinedSaved(t *testing.T) {
	c := buildFull(t, "main:\n  addi a0, s1, 1\n  li a7, 10\n  ecall\n")
	diags := RunCalleeSavedGarbageRead(c, LevelWarning)
	assert.NotEmpty(t, diags)
}

func TestRunLostCalleeSavedRegisterFlagsSaveWithoutRestore(t *testing.T) {
	// Concrete scenario 6: s0 is saved to the stack but the frame is torn
	// down without ever reloading it.
	c := buildFull(t, "main:\n  addi sp, sp, -4\n  sw s0, 0(sp)\n  addi sp, sp, 4\n  li a7, 10\n  ecall\n")
	diags := RunLostCalleeSavedRegister(c, LevelError)
	assert.Len(t, diags, 1)
}

func TestRunOverlappingFunctionAllowsDisjointFunctions(t *testing.T) {
	c := buildFull(t, "main:\n  jal foo\n  li a7, 10\n  ecall\nfoo:\n  jr ra\n")
	diags := RunOverlappingFunction(c, LevelWarning)
	assert.Empty(t, diags)
}

func TestSimpleFunctionDiscoveryHasNoCFGErrors(t *testing.T) {
	// foo is a function entry because something calls it; main is a
	// function entry because it's a standalone top-level label nothing
	// ever branches into. Either route earns a label its own Function
	// record - ordinary intra-function branch targets get neither.
	fr := reader.NewMemoryReader(map[string]string{"main.s": "main:\n  call foo\n  li a7, 10\n  ecall\nfoo:\n  jr ra\n"})
	nodes, errs, err := parser.Parse("main.s", fr)
	require.NoError(t, err)
	require.Empty(t, errs)

	m := &driver.Manager{}
	c, err := m.GenFullCFG(nodes)
	require.NoError(t, err)

	fn, ok := c.LabelFunctionMap["foo"]
	require.True(t, ok)
	assert.True(t, fn.Exit.Node().IsReturn())
}

func TestStandaloneFunctionDiscoveryHasNoCFGErrors(t *testing.T) {
	// Concrete scenario 4: foo is a top-level label nothing ever calls
	// or branches to, and its body free-runs straight to a return. It
	// still has to resolve to a function, not a fatal CFG error.
	fr := reader.NewMemoryReader(map[string]string{"main.s": "foo:\n  jr ra\n"})
	nodes, errs, err := parser.Parse("main.s", fr)
	require.NoError(t, err)
	require.Empty(t, errs)

	m := &driver.Manager{}
	c, err := m.GenFullCFG(nodes)
	require.NoError(t, err)

	fn, ok := c.LabelFunctionMap["foo"]
	require.True(t, ok)
	assert.True(t, fn.Entry.Node().IsFunctionEntry())
	assert.True(t, fn.Exit.Node().IsReturn())
}

func TestRunDiagnosticsRespectsConfigDisable(t *testing.T) {
	c := buildFull(t, "main:\n  addi x0, a0, 1\n  li a7, 10\n  ecall\n")

	conf := config.Default()
	disabled := false
	conf.Checks["save-to-zero"] = config.CheckConfig{Enabled: &disabled}

	m := RunDiagnostics(c, conf)
	for _, d := range m.Diagnostics {
		assert.NotEqual(t, "write to zero register", d.Title)
	}
}
