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
	"strings"

	"github.com/google/uuid"
)

// Error is a lexer-level failure: an unterminated string or char
// literal. The parser reports the most recent one in each file as a
// parse error at the recorded Pos rather than aborting the whole file.
type Error struct {
	Msg string
	Pos Range
}

func (e *Error) Error() string { return e.Msg }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9') || r == '.' || r == '$'
}

// Lexer turns a source string into a lazy sequence of Tokens. It is a
// single-pass, non-backtracking scanner: Next consumes exactly the bytes
// belonging to one token (or one run of trivia it has to skip).
type Lexer struct {
	src  string
	file uuid.UUID
	pos  Position
	err  *Error
}

// New creates a Lexer over src, tagging every Token it produces with
// file as the Token's File identity.
func New(src string, file uuid.UUID) *Lexer {
	return &Lexer{src: src, file: file}
}

// LastError returns the most recent lexer-level error, or nil if none
// occurred. Next records such an error and still returns the token it
// scanned.
func (l *Lexer) LastError() *Error { return l.err }

func (l *Lexer) eof() bool { return l.pos.Raw >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos.Raw]
}

func (l *Lexer) peekByteAt(off int) byte {
	i := l.pos.Raw + off
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) advance() byte {
	b := l.src[l.pos.Raw]
	l.pos = l.pos.Advance(rune(b), 1)
	return b
}

// Next returns the next Token in source order, or ok=false at end of
// input. It never backtracks past the position it left off at, so a
// caller may freely interleave Next and Peek (via a Peekable wrapper).
func (l *Lexer) Next() (Token, bool) {
	l.skipInsignificantWhitespace()
	if l.eof() {
		return Token{}, false
	}

	start := l.pos
	c := l.peekByte()

	switch {
	case c == '\n':
		l.advance()
		return l.finish(Newline, "\n", start), true
	case c == '(':
		l.advance()
		return l.finish(LParen, "(", start), true
	case c == ')':
		l.advance()
		return l.finish(RParen, ")", start), true
	case c == '#':
		return l.lexComment(start), true
	case c == '.':
		return l.lexDirective(start), true
	case c == '"':
		return l.lexString(start), true
	case c == '\'':
		return l.lexChar(start), true
	default:
		return l.lexSymbolOrLabel(start), true
	}
}

// skipInsignificantWhitespace consumes spaces, tabs, carriage returns,
// and operand-separating commas, but never newlines: those are
// preserved as Newline tokens because the parser uses them as
// statement separators.
func (l *Lexer) skipInsignificantWhitespace() {
	for !l.eof() {
		c := l.peekByte()
		if c == ' ' || c == '\t' || c == '\r' || c == ',' {
			l.advance()
			continue
		}
		break
	}
}

func (l *Lexer) finish(kind Kind, text string, start Position) Token {
	return Token{
		Kind: kind,
		Text: text,
		Raw:  l.src[start.Raw:l.pos.Raw],
		File: l.file,
		Pos:  Range{Start: start, End: l.pos},
	}
}

func (l *Lexer) lexComment(start Position) Token {
	l.advance() // '#'
	bodyStart := l.pos.Raw
	for !l.eof() && l.peekByte() != '\n' {
		l.advance()
	}
	body := l.src[bodyStart:l.pos.Raw]
	return Token{
		Kind: Comment,
		Text: body,
		Raw:  l.src[start.Raw:l.pos.Raw],
		File: l.file,
		Pos:  Range{Start: start, End: l.pos},
	}
}

// lexDirective handles a leading-dot token (".text", ".word", ...). The
// Text payload drops the leading dot.
func (l *Lexer) lexDirective(start Position) Token {
	l.advance() // '.'
	nameStart := l.pos.Raw
	for !l.eof() && isIdentCont(rune(l.peekByte())) {
		l.advance()
	}
	name := l.src[nameStart:l.pos.Raw]
	return Token{
		Kind: Directive,
		Text: name,
		Raw:  l.src[start.Raw:l.pos.Raw],
		File: l.file,
		Pos:  Range{Start: start, End: l.pos},
	}
}

func (l *Lexer) lexString(start Position) Token {
	l.advance() // opening quote
	var sb strings.Builder
	closed := false
	for !l.eof() {
		c := l.peekByte()
		if c == '"' {
			l.advance()
			closed = true
			break
		}
		if c == '\\' {
			l.advance()
			sb.WriteByte(decodeEscape(l))
			continue
		}
		sb.WriteByte(l.advance())
	}
	if !closed {
		l.err = &Error{Msg: "unterminated string literal", Pos: Range{Start: start, End: l.pos}}
	}
	return Token{
		Kind: String,
		Text: sb.String(),
		Raw:  l.src[start.Raw:l.pos.Raw],
		File: l.file,
		Pos:  Range{Start: start, End: l.pos},
	}
}

func (l *Lexer) lexChar(start Position) Token {
	l.advance() // opening quote
	var c byte
	if l.peekByte() == '\\' {
		l.advance()
		c = decodeEscape(l)
	} else if !l.eof() {
		c = l.advance()
	}
	closed := false
	if l.peekByte() == '\'' {
		l.advance()
		closed = true
	}
	if !closed {
		l.err = &Error{Msg: "unterminated char literal", Pos: Range{Start: start, End: l.pos}}
	}
	return Token{
		Kind: Char,
		Text: string(c),
		Raw:  l.src[start.Raw:l.pos.Raw],
		File: l.file,
		Pos:  Range{Start: start, End: l.pos},
	}
}

// decodeEscape consumes the character following a backslash and returns
// its decoded byte value. Supports \n \t \r \0 \\ \' \" ; anything else
// passes through unescaped.
func decodeEscape(l *Lexer) byte {
	if l.eof() {
		return '\\'
	}
	c := l.advance()
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '\'':
		return '\''
	case '"':
		return '"'
	default:
		return c
	}
}

// lexSymbolOrLabel consumes a maximal run of identifier-legal characters
// (plus a leading sign and 0x/0b numeric prefixes) and classifies the
// result as a Label if it is immediately followed by ':', else Symbol.
func (l *Lexer) lexSymbolOrLabel(start Position) Token {
	if (l.peekByte() == '-' || l.peekByte() == '+') && isDigit(l.peekByteAt(1)) {
		l.advance()
	}
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X' ||
		l.peekByteAt(1) == 'b' || l.peekByteAt(1) == 'B') {
		l.advance()
		l.advance()
	}
	for !l.eof() && isSymbolByte(l.peekByte()) {
		l.advance()
	}
	if l.pos.Raw == start.Raw {
		// Stray punctuation the grammar doesn't otherwise recognize;
		// consume one byte so the scanner always makes progress.
		l.advance()
	}
	text := l.src[start.Raw:l.pos.Raw]

	if l.peekByte() == ':' {
		l.advance()
		return Token{
			Kind: Label,
			Text: text,
			Raw:  l.src[start.Raw:l.pos.Raw],
			File: l.file,
			Pos:  Range{Start: start, End: l.pos},
		}
	}
	return Token{
		Kind: Symbol,
		Text: text,
		Raw:  text,
		File: l.file,
		Pos:  Range{Start: start, End: l.pos},
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isSymbolByte(b byte) bool {
	return isIdentCont(rune(b)) || isDigit(b)
}

// Peekable wraps a Lexer so the parser can look one token ahead without
// consuming it — the shape every recognizer in src/parser needs to
// decide how to parse an operand list.
type Peekable struct {
	lex     *Lexer
	lookhd  Token
	hasLook bool
}

func NewPeekable(lex *Lexer) *Peekable {
	return &Peekable{lex: lex}
}

func (p *Peekable) Peek() (Token, bool) {
	if !p.hasLook {
		tok, ok := p.lex.Next()
		if !ok {
			return Token{}, false
		}
		p.lookhd = tok
		p.hasLook = true
	}
	return p.lookhd, true
}

func (p *Peekable) Next() (Token, bool) {
	if p.hasLook {
		p.hasLook = false
		return p.lookhd, true
	}
	return p.lex.Next()
}

func (p *Peekable) LastError() *Error { return p.lex.LastError() }
