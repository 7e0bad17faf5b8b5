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
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FSReader reads files from the local filesystem, resolving relative
// .include paths against the directory of the including file.
type FSReader struct {
	ids   map[uuid.UUID]record
	byPath map[string]uuid.UUID
	// ancestry maps a file's UUID to its parent's UUID, for cycle
	// detection as Import walks an .include chain.
	ancestry map[uuid.UUID]*uuid.UUID
}

type record struct {
	path string
	text string
}

// NewFSReader builds an empty FSReader.
func NewFSReader() *FSReader {
	return &FSReader{
		ids:      make(map[uuid.UUID]record),
		byPath:   make(map[string]uuid.UUID),
		ancestry: make(map[uuid.UUID]*uuid.UUID),
	}
}

func (r *FSReader) Import(path string, parent *uuid.UUID) (uuid.UUID, string, error) {
	if path == "" {
		return uuid.Nil, "", ErrInvalidPath
	}

	resolved := path
	if parent != nil {
		if prec, ok := r.ids[*parent]; ok && !filepath.IsAbs(path) {
			resolved = filepath.Join(filepath.Dir(prec.path), path)
		}
	}
	resolved = filepath.Clean(resolved)

	if parent != nil {
		for anc := parent; anc != nil; anc = r.ancestry[*anc] {
			if r.ids[*anc].path == resolved {
				return uuid.Nil, "", ErrAlreadyRead
			}
		}
	}

	if id, ok := r.byPath[resolved]; ok {
		return id, r.ids[id].text, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		logrus.WithError(err).WithField("path", resolved).Debug("failed to import file")
		return uuid.Nil, "", ErrNotFound
	}

	id := uuid.New()
	r.ids[id] = record{path: resolved, text: string(data)}
	r.byPath[resolved] = id
	if parent != nil {
		p := *parent
		r.ancestry[id] = &p
	}
	return id, string(data), nil
}

func (r *FSReader) Text(id uuid.UUID) (string, bool) {
	rec, ok := r.ids[id]
	return rec.text, ok
}

func (r *FSReader) Name(id uuid.UUID) (string, bool) {
	rec, ok := r.ids[id]
	return rec.path, ok
}
