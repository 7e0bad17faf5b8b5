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
package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReaderImportAndRefetch(t *testing.T) {
	r := NewMemoryReader(map[string]string{
		"main.s": "main:\n  ret\n",
	})
	id, text, err := r.Import("main.s", nil)
	require.NoError(t, err)
	assert.Equal(t, "main:\n  ret\n", text)

	again, text2, err := r.Import("main.s", nil)
	require.NoError(t, err)
	assert.Equal(t, id, again, "re-importing the same path must return the same id")
	assert.Equal(t, text, text2)

	name, ok := r.Name(id)
	require.True(t, ok)
	assert.Equal(t, "main.s", name)
}

func TestMemoryReaderNotFound(t *testing.T) {
	r := NewMemoryReader(map[string]string{})
	_, _, err := r.Import("missing.s", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReaderEmptyPathIsInvalid(t *testing.T) {
	r := NewMemoryReader(map[string]string{})
	_, _, err := r.Import("", nil)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestMemoryReaderDetectsIncludeCycle(t *testing.T) {
	r := NewMemoryReader(map[string]string{
		"a.s": ".include \"b.s\"\n",
		"b.s": ".include \"a.s\"\n",
	})
	aID, _, err := r.Import("a.s", nil)
	require.NoError(t, err)

	bID, _, err := r.Import("b.s", &aID)
	require.NoError(t, err)

	_, _, err = r.Import("a.s", &bID)
	assert.ErrorIs(t, err, ErrAlreadyRead)
}
