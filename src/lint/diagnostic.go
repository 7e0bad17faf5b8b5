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

// Package lint runs independent checks over a finished CFG and collects
// the diagnostics they produce. Every check reads dataflow state the
// analysis package already computed - no check mutates the graph.
package lint

import (
	"riscvlint/token"

	"github.com/google/uuid"
)

// Level is a diagnostic's severity, ordered roughly by how likely the
// finding is to be a real bug rather than an idiom.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelHint
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "Error"
	case LevelWarning:
		return "Warning"
	case LevelInfo:
		return "Info"
	case LevelHint:
		return "Hint"
	default:
		return "Info"
	}
}

// Diagnostic is one finding, carrying exactly the fields the wire
// format in the external diagnostic contract needs.
type Diagnostic struct {
	File        uuid.UUID
	Title       string
	Description string
	Level       Level
	Range       token.Range
}
