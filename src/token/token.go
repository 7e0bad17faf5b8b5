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
package token

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind tags the variant a Token carries. Kept as a small closed enum
// rather than separate types so the parser can switch on it directly.
type Kind int

const (
	LParen Kind = iota
	RParen
	Newline
	Label
	Symbol
	Directive
	String
	Char
	Comment
)

func (k Kind) String() string {
	switch k {
	case LParen:
		return "LPAREN"
	case RParen:
		return "RPAREN"
	case Newline:
		return "NEWLINE"
	case Label:
		return "LABEL"
	case Symbol:
		return "SYMBOL"
	case Directive:
		return "DIRECTIVE"
	case String:
		return "STRING"
	case Char:
		return "CHAR"
	case Comment:
		return "COMMENT"
	default:
		return "<unknown>"
	}
}

// Token is a single lexed unit: its Kind, the semantic payload (label
// name without the trailing colon, directive name without the leading
// dot, decoded string/char contents, ...), the original source text, the
// file it came from, and its Range.
type Token struct {
	Kind Kind
	Text string // decoded payload (see Kind docs above)
	Raw  string // original source text, including delimiters
	File uuid.UUID
	Pos  Range
}

func (t Token) String() string {
	switch t.Kind {
	case Label:
		return fmt.Sprintf("LABEL(%s)", t.Text)
	case Symbol:
		return fmt.Sprintf("SYMBOL(%s)", t.Text)
	case Directive:
		return fmt.Sprintf("DIRECTIVE(%s)", t.Text)
	case String:
		return fmt.Sprintf("STRING(%q)", t.Text)
	case Char:
		return fmt.Sprintf("CHAR(%q)", t.Text)
	case Comment:
		return fmt.Sprintf("COMMENT(%s)", t.Text)
	default:
		return t.Kind.String()
	}
}

// RawToken is the position/text pair used for anonymous, synthesized
// nodes (ProgramEntry, FuncEntry) that have no real lexeme of their own.
type RawToken struct {
	Text string
	Pos  Range
	File uuid.UUID
}
