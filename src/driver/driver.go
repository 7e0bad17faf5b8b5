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

// Package driver sequences the passes a complete analysis run needs,
// from a flat node list through a finished CFG to a DiagnosticManager.
// Callers that only need structure (the LSP boundary, tests) can stop
// after GenFullCFG.
package driver

import (
	"riscvlint/analysis"
	"riscvlint/cfg"
	"riscvlint/config"
	"riscvlint/isa"
	"riscvlint/lint"
	"riscvlint/parser"

	"github.com/sirupsen/logrus"
)

// Manager sequences CFG construction and lint execution. The zero
// value is ready to use; Log defaults to logrus's standard logger if
// left nil.
type Manager struct {
	Log *logrus.Logger
}

func (m *Manager) log() *logrus.Logger {
	if m.Log != nil {
		return m.Log
	}
	return logrus.StandardLogger()
}

// GenFullCFG builds the finished, fully-annotated CFG for one parsed
// file's node sequence: a provisional build (seeding called labels and
// standalone, never-called top-level labels as function entries) to
// discover CSR-write-detected interrupt handlers, then a second build
// seeding those handlers as entries too, running direction, dead-edge
// pruning, available-value, ecall-termination, and function-markup
// passes in sequence (available-value and ecall-termination once more
// after markup) before the final liveness pass runs.
func (m *Manager) GenFullCFG(nodes []*parser.Node) (*cfg.Cfg, error) {
	log := m.log()

	provisionalEntries := cfg.CalledLabels(nodes)
	for name := range cfg.StandaloneFunctionLabels(nodes) {
		provisionalEntries[name] = true
	}

	provisional, err := cfg.Build(nodes, provisionalEntries)
	if err != nil {
		return nil, err
	}
	if err := cfg.RunDirectionPass(provisional); err != nil {
		return nil, err
	}
	if err := analysis.RunAvailableValuePass(provisional); err != nil {
		return nil, err
	}
	handlers := analysis.InterruptHandlerNames(provisional)
	log.Debugf("driver: discovered %d interrupt handler label(s)", len(handlers))

	entries := cfg.CalledLabels(nodes)
	for name := range cfg.StandaloneFunctionLabels(nodes) {
		entries[name] = true
	}
	for name := range handlers {
		entries[name] = true
	}

	c, err := cfg.Build(nodes, entries)
	if err != nil {
		return nil, err
	}
	if err := cfg.RunDirectionPass(c); err != nil {
		return nil, err
	}
	cfg.PruneDeadEdges(c)
	if err := analysis.RunAvailableValuePass(c); err != nil {
		return nil, err
	}
	analysis.RunEcallTerminationPass(c)
	if err := cfg.RunFunctionMarkupPass(c); err != nil {
		return nil, err
	}
	if err := analysis.RunAvailableValuePass(c); err != nil {
		return nil, err
	}
	analysis.RunEcallTerminationPass(c)
	if err := analysis.RunLivenessPass(c); err != nil {
		return nil, err
	}

	log.Debugf("driver: built CFG with %d node(s), %d function(s)", c.Len(), len(distinctFunctionLabels(c)))
	return c, nil
}

// RunDiagnostics runs the 12 lint passes over a finished CFG.
func (m *Manager) RunDiagnostics(c *cfg.Cfg, conf *config.Config) *lint.DiagnosticManager {
	return lint.RunDiagnostics(c, conf)
}

// CfgErrorDiagnostic converts a structural CFG construction failure
// into the single diagnostic record the CLI prints in its place: a
// cfg.Error aborts the pipeline before any lint can run, but callers
// still want one actionable message at the node that triggered it
// rather than a bare Go error.
func CfgErrorDiagnostic(err error) (lint.Diagnostic, bool) {
	cerr, ok := err.(*cfg.Error)
	if !ok {
		return lint.Diagnostic{}, false
	}
	return lint.Diagnostic{
		File:        cerr.Node.Node().Raw.File,
		Title:       "CFG construction failed",
		Description: cerr.Error(),
		Level:       lint.LevelError,
		Range:       cerr.Node.Node().Range(),
	}, true
}

func distinctFunctionLabels(c *cfg.Cfg) map[isa.LabelString]bool {
	out := map[isa.LabelString]bool{}
	for name := range c.LabelFunctionMap {
		out[name] = true
	}
	return out
}
