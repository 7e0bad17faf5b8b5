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

// Package fix produces textual source insertions that would save and
// restore a function's callee-saved registers. It never touches source
// files itself - applying an Insertion is left to whatever consumer
// asked for the hint (the CLI's diagnostic text today, an LSP code
// action eventually).
package fix

import (
	"fmt"
	"strings"

	"riscvlint/cfg"
	"riscvlint/token"

	"github.com/google/uuid"
)

// Insertion is a single textual edit: insert Text, which spans Lines
// lines, at the start of the line containing Pos in File.
type Insertion struct {
	File  uuid.UUID
	Pos   token.Position
	Text  string
	Lines int
}

// StackFix is the pair of insertions that balance a function's stack
// frame: one saving its callee-saved registers just inside the entry,
// one restoring them just before the exit.
type StackFix struct {
	Entry Insertion
	Exit  Insertion
}

func (f *StackFix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "at %s:%s\n%s", f.Entry.File, f.Entry.Pos, f.Entry.Text)
	fmt.Fprintf(&b, "at %s:%s\n%s", f.Exit.File, f.Exit.Pos, f.Exit.Text)
	return b.String()
}

func startOfLine(p token.Position) token.Position {
	p.Raw -= p.Column
	p.Column = 0
	return p
}

// GenerateStackFix builds the suggested save/restore sequence for fn,
// sorted by register number so repeated runs produce identical text.
// Returns nil if fn has nothing to save.
func GenerateStackFix(fn *cfg.Function) *StackFix {
	regs := fn.ToSave().Slice()
	if len(regs) == 0 {
		return nil
	}
	count := len(regs)

	var saves, restores strings.Builder
	for i, r := range regs {
		fmt.Fprintf(&saves, "sw %s, %d(sp)\n", r, i*4)
		fmt.Fprintf(&restores, "lw %s, %d(sp)\n", r, i*4)
	}

	entryText := fmt.Sprintf("\n# save to stack\naddi sp, sp, -%d\n%s\n", count*4, saves.String())
	exitText := fmt.Sprintf("\n# restore from stack\n%saddi sp, sp, %d\n\n", restores.String(), count*4)

	lines := count + 4

	entryNode := fn.Entry.Node()
	exitNode := fn.Exit.Node()

	return &StackFix{
		Entry: Insertion{File: entryNode.Raw.File, Pos: startOfLine(entryNode.Range().Start), Text: entryText, Lines: lines},
		Exit:  Insertion{File: exitNode.Raw.File, Pos: startOfLine(exitNode.Range().Start), Text: exitText, Lines: lines},
	}
}

// FunctionLabelRanges reports the source range of every function's
// entry label, for consumers (an LSP server, a code-action list) that
// need to anchor UI at function boundaries.
func FunctionLabelRanges(c *cfg.Cfg) []token.Range {
	seen := map[*cfg.Function]bool{}
	var out []token.Range
	for _, fn := range c.LabelFunctionMap {
		if seen[fn] {
			continue
		}
		seen[fn] = true
		out = append(out, fn.Entry.Node().Range())
	}
	return out
}
