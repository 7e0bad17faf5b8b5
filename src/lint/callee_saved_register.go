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
	"fmt"

	"riscvlint/cfg"
)

// RunCalleeSavedRegister flags a function that clobbers a callee-saved
// register it wrote to (its own to_save set) without the available-value
// analysis being able to show it's back to its original value by the
// function's canonical exit.
func RunCalleeSavedRegister(c *cfg.Cfg, level Level) []Diagnostic {
	var out []Diagnostic
	for _, fn := range distinctFunctions(c.LabelFunctionMap) {
		unrestored := unrestoredCalleeSaved(fn)
		if unrestored.IsEmpty() {
			continue
		}
		out = append(out, Diagnostic{
			File:        fn.Exit.Node().Raw.File,
			Title:       "callee-saved register not restored",
			Description: fmt.Sprintf("function %s writes to %s but does not restore it to the caller's value before returning", fn.Name(), unrestored),
			Level:       level,
			Range:       fn.Exit.Node().Range(),
		})
	}
	return out
}
