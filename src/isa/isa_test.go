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
package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegisterAliasesAndNumericForms(t *testing.T) {
	r, ok := ParseRegister("sp")
	require.True(t, ok)
	assert.Equal(t, X2, r)

	r, ok = ParseRegister("x2")
	require.True(t, ok)
	assert.Equal(t, X2, r)

	r, ok = ParseRegister("fp")
	require.True(t, ok)
	assert.Equal(t, X8, r)

	r, ok = ParseRegister("A0")
	require.True(t, ok)
	assert.Equal(t, X10, r)

	_, ok = ParseRegister("notareg")
	assert.False(t, ok)
}

func TestRegisterStringIsAbiName(t *testing.T) {
	assert.Equal(t, "sp", X2.String())
	assert.Equal(t, "a0", X10.String())
	assert.Equal(t, "zero", X0.String())
}

func TestRegisterPredicates(t *testing.T) {
	assert.True(t, X0.IsConstZero())
	assert.False(t, X1.IsConstZero())
	assert.True(t, X2.IsStackPointer())
	assert.True(t, X1.IsReturnAddress())
}

func TestRegisterSetBasics(t *testing.T) {
	s := NewRegisterSet(X10, X11)
	assert.True(t, s.Contains(X10))
	assert.True(t, s.Contains(X11))
	assert.False(t, s.Contains(X12))
	assert.Equal(t, 2, s.Len())

	s2 := s.Insert(X12)
	assert.Equal(t, 3, s2.Len())
	assert.Equal(t, 2, s.Len(), "Insert must not mutate the receiver")

	s3 := s2.Remove(X11)
	assert.False(t, s3.Contains(X11))
}

func TestRegisterSetUnionIntersectDifference(t *testing.T) {
	a := NewRegisterSet(X10, X11, X12)
	b := NewRegisterSet(X11, X12, X13)

	assert.Equal(t, NewRegisterSet(X10, X11, X12, X13), a.Union(b))
	assert.Equal(t, NewRegisterSet(X11, X12), a.Intersect(b))
	assert.Equal(t, NewRegisterSet(X10), a.Difference(b))
}

func TestCallerSavedIsTemporaryUnionArgument(t *testing.T) {
	assert.Equal(t, TemporarySet.Union(ArgumentSet), CallerSavedSet)
}

func TestCalleeSavedIsSavedUnionSpRa(t *testing.T) {
	assert.Equal(t, SavedSet.Union(SpRaSet), CalleeSavedSet)
	assert.True(t, CalleeSavedSet.Contains(X2))
	assert.True(t, CalleeSavedSet.Contains(X1))
	assert.True(t, CalleeSavedSet.Contains(X8))
}

func TestRegisterSetForEachIsAscending(t *testing.T) {
	s := NewRegisterSet(X20, X1, X10)
	var seen []Register
	s.ForEach(func(r Register) bool {
		seen = append(seen, r)
		return true
	})
	require.Equal(t, []Register{X1, X10, X20}, seen)
}

func TestParseImmediateForms(t *testing.T) {
	cases := map[string]int32{
		"42":    42,
		"-1":    -1,
		"+7":    7,
		"0x10":  16,
		"0b101": 5,
	}
	for text, want := range cases {
		got, err := ParseImmediate(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, int32(got), text)
	}
}

func TestParseImmediateRejectsGarbage(t *testing.T) {
	_, err := ParseImmediate("not-a-number")
	assert.Error(t, err)
}

func TestParseLabelStringRejectsRegisterNames(t *testing.T) {
	_, ok := ParseLabelString("sp")
	assert.False(t, ok)

	_, ok = ParseLabelString("a0")
	assert.False(t, ok)
}

func TestParseLabelStringAcceptsValidLabels(t *testing.T) {
	for _, s := range []string{"main", "_start", "loop.1", "foo$bar", "label_2"} {
		_, ok := ParseLabelString(s)
		assert.True(t, ok, s)
	}
}

func TestParseLabelStringRejectsLeadingDigit(t *testing.T) {
	_, ok := ParseLabelString("1label")
	assert.False(t, ok)
}
