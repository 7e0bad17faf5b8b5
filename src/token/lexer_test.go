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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	lex := New(src, uuid.Nil)
	var toks []Token
	for {
		tok, ok := lex.Next()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestLexerSkipsSpacesButKeepsNewlines(t *testing.T) {
	toks := lexAll(t, "addi  a0, a0, 1\n")
	require.Len(t, toks, 5)
	assert.Equal(t, Symbol, toks[0].Kind)
	assert.Equal(t, "addi", toks[0].Text)
	assert.Equal(t, Newline, toks[4].Kind)
}

func TestLexerLabel(t *testing.T) {
	toks := lexAll(t, "main:\n  ret\n")
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, Label, toks[0].Kind)
	assert.Equal(t, "main", toks[0].Text)
}

func TestLexerDirective(t *testing.T) {
	toks := lexAll(t, ".text\n.word 42\n")
	require.Len(t, toks, 5)
	assert.Equal(t, Directive, toks[0].Kind)
	assert.Equal(t, "text", toks[0].Text)
	assert.Equal(t, Newline, toks[1].Kind)
	assert.Equal(t, Directive, toks[2].Kind)
	assert.Equal(t, "word", toks[2].Text)
}

func TestLexerComment(t *testing.T) {
	toks := lexAll(t, "nop # trailing comment\n")
	require.Len(t, toks, 3)
	assert.Equal(t, Comment, toks[1].Kind)
	assert.Equal(t, " trailing comment", toks[1].Text)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, `.string "hi\n\t\"there\""` + "\n")
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, String, toks[1].Kind)
	assert.Equal(t, "hi\n\t\"there\"", toks[1].Text)
}

func TestLexerCharEscape(t *testing.T) {
	toks := lexAll(t, "li a0, '\\n'\n")
	var char *Token
	for i := range toks {
		if toks[i].Kind == Char {
			char = &toks[i]
		}
	}
	require.NotNil(t, char)
	assert.Equal(t, "\n", char.Text)
}

func TestLexerNegativeImmediate(t *testing.T) {
	toks := lexAll(t, "addi a0, a0, -1\n")
	require.Len(t, toks, 5)
	assert.Equal(t, "-1", toks[3].Text)
}

func TestLexerHexImmediate(t *testing.T) {
	toks := lexAll(t, "li a0, 0xFF\n")
	require.Len(t, toks, 4)
	assert.Equal(t, "0xFF", toks[2].Text)
}

func TestLexerUnterminatedStringRecordsError(t *testing.T) {
	lex := New(`.string "oops`, uuid.Nil)
	for {
		_, ok := lex.Next()
		if !ok {
			break
		}
	}
	require.NotNil(t, lex.LastError())
}

func TestPeekableDoesNotConsume(t *testing.T) {
	lex := New("nop\n", uuid.Nil)
	p := NewPeekable(lex)
	first, ok := p.Peek()
	require.True(t, ok)
	second, ok := p.Peek()
	require.True(t, ok)
	assert.Equal(t, first, second)
	third, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, first, third)
}
