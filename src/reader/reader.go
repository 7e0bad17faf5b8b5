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

// Package reader abstracts how source text for a file - and for the
// files a .include directive pulls in - is fetched, so the parser never
// touches the filesystem directly and can be driven from an in-memory
// fixture in tests.
package reader

import "github.com/google/uuid"

// Error is a sentinel FileReader failure. The parser reports these as
// diagnostics rather than aborting the process.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrNotFound means the requested path does not exist.
	ErrNotFound Error = "file not found"
	// ErrAlreadyRead means an .include cycle was detected: the path is
	// already an ancestor of the file currently being read.
	ErrAlreadyRead Error = "file already read (include cycle)"
	// ErrInvalidPath means the path is empty or otherwise unusable.
	ErrInvalidPath Error = "invalid path"
)

// FileReader imports source files by path, assigning each a stable
// UUID, and resolves .include references relative to the file that
// named them. Implementations may back this with a real filesystem or
// with an in-memory fixture.
type FileReader interface {
	// Import reads path into the reader, returning its assigned file
	// UUID and text. parent, when non-nil, is the UUID of the file
	// whose .include directive named path - used to detect cycles and
	// to resolve relative paths.
	Import(path string, parent *uuid.UUID) (uuid.UUID, string, error)

	// Text returns the previously-imported text for id.
	Text(id uuid.UUID) (string, bool)

	// Name returns the path an earlier Import call registered id under.
	Name(id uuid.UUID) (string, bool)
}
