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

// Package diagnostic renders the lint package's findings to the two
// output shapes the CLI offers: a machine-readable JSON document and a
// human-readable terminal report. Nothing in here runs analysis -
// src/main.go hands it the finished diagnostics.
package diagnostic

import (
	"encoding/json"

	"riscvlint/lint"
	"riscvlint/reader"
)

// Diagnostic is the wire/display form of a lint.Diagnostic: the file is
// rendered as a name rather than a UUID, and positions are already
// zero-indexed because token.Position is zero-indexed at the source.
type Diagnostic struct {
	File        string `json:"file"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Range       Range  `json:"range"`
}

// Position is the JSON shape of a token.Position.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is the JSON shape of a token.Range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Document is the top-level `{"diagnostics": [...]}` shape a full run
// marshals to.
type Document struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// FromLint converts one lint.Diagnostic, resolving its file UUID to a
// display name through files. Diagnostics for a UUID files doesn't
// recognize fall back to the raw UUID string - this should only happen
// for a file the reader itself synthesized without a matching Import.
func FromLint(d lint.Diagnostic, files reader.FileReader) Diagnostic {
	name, ok := files.Name(d.File)
	if !ok {
		name = d.File.String()
	}
	return Diagnostic{
		File:        name,
		Title:       d.Title,
		Description: d.Description,
		Level:       d.Level.String(),
		Range: Range{
			Start: Position{Line: d.Range.Start.Line, Column: d.Range.Start.Column},
			End:   Position{Line: d.Range.End.Line, Column: d.Range.End.Column},
		},
	}
}

// FromManager converts every diagnostic a DiagnosticManager collected.
func FromManager(m *lint.DiagnosticManager, files reader.FileReader) []Diagnostic {
	out := make([]Diagnostic, 0, len(m.Diagnostics))
	for _, d := range m.Diagnostics {
		out = append(out, FromLint(d, files))
	}
	return out
}

// MarshalDocument renders diags as the `{"diagnostics": [...]}` JSON
// document the --json flag prints. A third-party JSON codec isn't
// warranted here: this is a single flat struct marshal with no
// streaming, schema validation, or performance-critical path to
// justify reaching past encoding/json.
func MarshalDocument(diags []Diagnostic) ([]byte, error) {
	doc := Document{Diagnostics: diags}
	return json.MarshalIndent(doc, "", "  ")
}
