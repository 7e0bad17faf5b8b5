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
package parser

import "strings"

// DirectiveKind enumerates the assembler directives the parser
// recognizes by name.
type DirectiveKind int

const (
	DirAlign DirectiveKind = iota
	DirAscii
	DirAsciz
	DirByte
	DirData
	DirDouble
	DirDword
	DirEndMacro
	DirEqv
	DirExtern
	DirFloat
	DirGlobal
	DirGlobl
	DirHalf
	DirInclude
	DirMacro
	DirSection
	DirSpace
	DirString
	DirText
	DirWord
	DirUnknown
)

var directiveNames = map[string]DirectiveKind{
	"align":    DirAlign,
	"ascii":    DirAscii,
	"asciz":    DirAsciz,
	"byte":     DirByte,
	"data":     DirData,
	"double":   DirDouble,
	"dword":    DirDword,
	"endmacro": DirEndMacro,
	"eqv":      DirEqv,
	"extern":   DirExtern,
	"float":    DirFloat,
	"global":   DirGlobal,
	"globl":    DirGlobl,
	"half":     DirHalf,
	"include":  DirInclude,
	"macro":    DirMacro,
	"section":  DirSection,
	"space":    DirSpace,
	"string":   DirString,
	"text":     DirText,
	"word":     DirWord,
}

func (d DirectiveKind) String() string {
	for name, kind := range directiveNames {
		if kind == d {
			return name
		}
	}
	return "<unknown>"
}

// ParseDirectiveKind resolves a directive's name (already stripped of
// its leading dot) to its DirectiveKind, case-insensitively.
func ParseDirectiveKind(name string) (DirectiveKind, bool) {
	k, ok := directiveNames[strings.ToLower(name)]
	return k, ok
}

// SwitchesSegment reports whether a directive of this kind changes the
// segment that subsequent nodes are attributed to, and which segment.
func (d DirectiveKind) SwitchesSegment() (Segment, bool) {
	switch d {
	case DirText:
		return SegmentText, true
	case DirData:
		return SegmentData, true
	default:
		return SegmentText, false
	}
}

// Segment is the section a node was assembled into.
type Segment int

const (
	SegmentText Segment = iota
	SegmentData
)

func (s Segment) String() string {
	if s == SegmentData {
		return ".data"
	}
	return ".text"
}
