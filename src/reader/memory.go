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

import "github.com/google/uuid"

// MemoryReader is a FileReader backed by an in-memory path->text map,
// used by tests and by one-shot analyses of a buffer that was never
// written to disk (e.g. an editor's unsaved contents).
type MemoryReader struct {
	files    map[string]string
	ids      map[uuid.UUID]string // id -> path
	byPath   map[string]uuid.UUID
	ancestry map[uuid.UUID]*uuid.UUID
}

// NewMemoryReader builds a MemoryReader whose filesystem is exactly the
// given path->text entries.
func NewMemoryReader(files map[string]string) *MemoryReader {
	return &MemoryReader{
		files:    files,
		ids:      make(map[uuid.UUID]string),
		byPath:   make(map[string]uuid.UUID),
		ancestry: make(map[uuid.UUID]*uuid.UUID),
	}
}

func (r *MemoryReader) Import(path string, parent *uuid.UUID) (uuid.UUID, string, error) {
	if path == "" {
		return uuid.Nil, "", ErrInvalidPath
	}
	if parent != nil {
		for anc := parent; anc != nil; anc = r.ancestry[*anc] {
			if r.ids[*anc] == path {
				return uuid.Nil, "", ErrAlreadyRead
			}
		}
	}
	if id, ok := r.byPath[path]; ok {
		return id, r.files[path], nil
	}
	text, ok := r.files[path]
	if !ok {
		return uuid.Nil, "", ErrNotFound
	}
	id := uuid.New()
	r.ids[id] = path
	r.byPath[path] = id
	if parent != nil {
		p := *parent
		r.ancestry[id] = &p
	}
	return id, text, nil
}

func (r *MemoryReader) Text(id uuid.UUID) (string, bool) {
	path, ok := r.ids[id]
	if !ok {
		return "", false
	}
	text, ok := r.files[path]
	return text, ok
}

func (r *MemoryReader) Name(id uuid.UUID) (string, bool) {
	path, ok := r.ids[id]
	return path, ok
}
