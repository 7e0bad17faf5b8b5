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

// Package lsp re-shapes a single diagnostic record into the numeric
// severities and zero-indexed ranges a Language Server Protocol
// publishDiagnostics notification expects. There is no server loop,
// textDocument sync, or completion support here - a wrapper outside
// this repository owns the protocol connection and calls
// ToLSPDiagnostic per finding.
package lsp

import "riscvlint/diagnostic"

// Severity mirrors the LSP DiagnosticSeverity enum: Error=1,
// Warning=2, Information=3, Hint=4.
type Severity int

const (
	SeverityError       Severity = 1
	SeverityWarning     Severity = 2
	SeverityInformation Severity = 3
	SeverityHint        Severity = 4
)

// Position is the LSP zero-indexed (line, character) pair.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is the LSP [start, end) span.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LSPDiagnostic is the shape a textDocument/publishDiagnostics
// notification carries for one finding.
type LSPDiagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Source   string   `json:"source"`
}

// source names this analyzer in every diagnostic it reports to a
// language client, matching how other linters tag their own findings
// in a multi-linter editor setup.
const source = "riscvlint"

// ToLSPDiagnostic re-shapes d: the range carries through unchanged
// (both sides already index from zero), the level maps to the LSP
// numeric severity, and the title and description join into the one
// message field LSP diagnostics carry.
func ToLSPDiagnostic(d diagnostic.Diagnostic) LSPDiagnostic {
	return LSPDiagnostic{
		Range: Range{
			Start: Position{Line: d.Range.Start.Line, Character: d.Range.Start.Column},
			End:   Position{Line: d.Range.End.Line, Character: d.Range.End.Column},
		},
		Severity: severityFromLevel(d.Level),
		Message:  d.Title + ": " + d.Description,
		Source:   source,
	}
}

func severityFromLevel(level string) Severity {
	switch level {
	case "Error":
		return SeverityError
	case "Warning":
		return SeverityWarning
	case "Info":
		return SeverityInformation
	case "Hint":
		return SeverityHint
	default:
		return SeverityWarning
	}
}
