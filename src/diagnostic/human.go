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
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"riscvlint/lint"
	"riscvlint/reader"
	"riscvlint/token"
)

// ansi codes used by Palette's default, colored variant.
const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue  = "\x1b[34m"
	ansiCyan  = "\x1b[36m"
)

// Palette selects the ANSI sequences WriteHuman wraps each part of a
// diagnostic in. NoColorPalette returns every field empty, so the
// formatting logic never has to branch on whether color is on.
type Palette struct {
	Bold        string
	Reset       string
	ErrorColor  string
	WarnColor   string
	InfoColor   string
	HintColor   string
}

// ColorPalette is the default, ANSI-colored palette.
func ColorPalette() Palette {
	return Palette{
		Bold:       ansiBold,
		Reset:      ansiReset,
		ErrorColor: ansiRed,
		WarnColor:  ansiYellow,
		InfoColor:  ansiBlue,
		HintColor:  ansiCyan,
	}
}

// NoColorPalette emits no escape sequences at all.
func NoColorPalette() Palette {
	return Palette{}
}

func (p Palette) levelColor(l lint.Level) string {
	switch l {
	case lint.LevelError:
		return p.ErrorColor
	case lint.LevelWarning:
		return p.WarnColor
	case lint.LevelInfo:
		return p.InfoColor
	case lint.LevelHint:
		return p.HintColor
	default:
		return ""
	}
}

// WriteHuman prints one banner per diagnostic: file:line:column,
// severity, title, the offending source line with a caret underline
// under the flagged range, and the description. files resolves a
// diagnostic's file UUID to both a display name and its source text;
// a file WriteHuman can't find text for just omits the source line.
func WriteHuman(w io.Writer, diags []lint.Diagnostic, files reader.FileReader, p Palette) {
	for _, d := range diags {
		writeOne(w, d, files, p)
	}
}

func writeOne(w io.Writer, d lint.Diagnostic, files reader.FileReader, p Palette) {
	name, ok := files.Name(d.File)
	if !ok {
		name = d.File.String()
	}
	color := p.levelColor(d.Level)

	fmt.Fprintf(w, "%s%s:%s%s %s%s:%s %s%s%s\n",
		p.Bold, name, d.Range.Start, p.Reset,
		color, d.Level, p.Reset,
		p.Bold, d.Title, p.Reset)

	if text, ok := files.Text(d.File); ok {
		if line, ok := sourceLine(text, d.Range.Start.Line); ok {
			fmt.Fprintf(w, "  %s\n", line)
			fmt.Fprintf(w, "  %s%s%s%s\n", strings.Repeat(" ", d.Range.Start.Column), color, caretUnderline(d.Range, line), p.Reset)
		}
	}

	fmt.Fprintf(w, "  %s\n\n", d.Description)
}

// sourceLine returns the 0-indexed line n of text.
func sourceLine(text string, n int) (string, bool) {
	lines := strings.Split(text, "\n")
	if n < 0 || n >= len(lines) {
		return "", false
	}
	return lines[n], true
}

// caretUnderline draws one caret per column the range spans on its
// start line, clamped to the line's length so a range that runs past
// end-of-line doesn't overrun the terminal.
func caretUnderline(r token.Range, line string) string {
	width := r.End.Column - r.Start.Column
	if r.End.Line != r.Start.Line || width <= 0 {
		width = 1
	}
	if r.Start.Column+width > len(line) {
		width = len(line) - r.Start.Column
	}
	if width <= 0 {
		width = 1
	}
	return strings.Repeat("^", width)
}
