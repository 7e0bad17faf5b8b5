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
package cfg

// Segment records which linker section a node was assembled into,
// tracked by walking .text/.data directives in source order during
// Build. Lints use it to flag instructions that show up somewhere
// other than .text.
type Segment int

const (
	SegmentText Segment = iota
	SegmentData
)

func (s Segment) String() string {
	if s == SegmentData {
		return "data"
	}
	return "text"
}
