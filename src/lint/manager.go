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
	"riscvlint/cfg"
	"riscvlint/config"
)

// Check names one registered lint pass and the severity it runs at
// when a config doesn't say otherwise.
type Check struct {
	Name         string
	DefaultLevel Level
	Run          func(*cfg.Cfg, Level) []Diagnostic
}

// AllChecks lists every lint pass in the order the manager runs them.
// The order matches how the original analyzer grouped its checks:
// cheap syntactic checks first, then the checks that lean on
// available-value and liveness results, then the whole-function
// checks that need the function markup pass to have already run.
func AllChecks() []Check {
	return []Check{
		{Name: "save-to-zero", DefaultLevel: LevelWarning, Run: RunSaveToZero},
		{Name: "instruction-in-text", DefaultLevel: LevelError, Run: RunInstructionInText},
		{Name: "double-store-inst", DefaultLevel: LevelInfo, Run: RunDoubleStoreInst},
		{Name: "dead-value", DefaultLevel: LevelWarning, Run: RunDeadValue},
		{Name: "garbage-input-value", DefaultLevel: LevelWarning, Run: RunGarbageInputValue},
		{Name: "ecall", DefaultLevel: LevelWarning, Run: RunEcall},
		{Name: "control-flow", DefaultLevel: LevelError, Run: RunControlFlow},
		{Name: "overlapping-function", DefaultLevel: LevelWarning, Run: RunOverlappingFunction},
		{Name: "stack", DefaultLevel: LevelError, Run: RunStack},
		{Name: "callee-saved-register", DefaultLevel: LevelError, Run: RunCalleeSavedRegister},
		{Name: "callee-saved-garbage-read", DefaultLevel: LevelWarning, Run: RunCalleeSavedGarbageRead},
		{Name: "lost-callee-saved-register", DefaultLevel: LevelError, Run: RunLostCalleeSavedRegister},
	}
}

// DiagnosticManager collects the diagnostics every enabled check
// produced for a single CFG.
type DiagnosticManager struct {
	Diagnostics []Diagnostic
}

// RunDiagnostics runs every check AllChecks lists against c, skipping
// checks the config disables and applying any severity override it
// sets. A nil conf runs every check at its built-in default.
func RunDiagnostics(c *cfg.Cfg, conf *config.Config) *DiagnosticManager {
	m := &DiagnosticManager{}
	for _, check := range AllChecks() {
		if !conf.Enabled(check.Name) {
			continue
		}
		level := check.DefaultLevel
		if override, ok := conf.LevelOverride(check.Name); ok {
			level = levelFromConfig(override)
		}
		m.Diagnostics = append(m.Diagnostics, check.Run(c, level)...)
	}
	return m
}

func levelFromConfig(l config.Level) Level {
	switch l {
	case config.LevelError:
		return LevelError
	case config.LevelWarning:
		return LevelWarning
	case config.LevelInfo:
		return LevelInfo
	case config.LevelHint:
		return LevelHint
	default:
		return LevelWarning
	}
}
