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
	"riscvlint/analysis"
	"riscvlint/cfg"
	"riscvlint/isa"
)

// RunEcall flags every ecall this analysis can't fully account for:
// either a7 isn't statically known at all (reported at level, the
// "unknown argument" shape), or it is known but not a recognized
// syscall number (reported one step more severely - a wrong but
// constant a7 is more likely to be an outright bug than a computed
// one). Both stem from the same underlying check: does this ecall have
// a known signature.
func RunEcall(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, n := range c.Nodes {
		if !n.Node().IsEcall() {
			continue
		}
		if _, ok := analysis.KnownEcallSignature(n); ok {
			continue
		}
		if v, known := n.RegValuesIn()[isa.EcallArgumentRegister]; known && v.Kind == cfg.ValConstant {
			out = append(out, Diagnostic{
				File:        n.Node().Raw.File,
				Title:       "unrecognized ecall number",
				Description: "a7 holds a constant value that does not match any known RISC-V environment call",
				Level:       bumpSeverity(level),
				Range:       n.Node().Range(),
			})
			continue
		}
		out = append(out, Diagnostic{
			File:        n.Node().Raw.File,
			Title:       "unknown ecall argument",
			Description: "the value in a7 is not statically known at this ecall, so which environment call runs here can't be checked",
			Level:       level,
			Range:       n.Node().Range(),
		})
	}
	return out
}

// bumpSeverity reports the next-more-urgent level, saturating at Error.
func bumpSeverity(l Level) Level {
	if l == LevelError {
		return LevelError
	}
	return l - 1
}
