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
	"fmt"
	"strconv"
	"strings"
)

// Immediate is a constant operand: a decimal, hex (0x), or binary (0b)
// literal, always stored sign-extended to 32 bits.
type Immediate int32

// ParseImmediate decodes text as a RISC-V immediate literal.
func ParseImmediate(text string) (Immediate, error) {
	neg := false
	rest := text
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	}

	var v uint64
	var err error
	switch {
	case strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X"):
		v, err = strconv.ParseUint(rest[2:], 16, 64)
	case strings.HasPrefix(rest, "0b") || strings.HasPrefix(rest, "0B"):
		v, err = strconv.ParseUint(rest[2:], 2, 64)
	default:
		v, err = strconv.ParseUint(rest, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q: %w", text, err)
	}
	n := int64(v)
	if neg {
		n = -n
	}
	return Immediate(int32(n)), nil
}

func (i Immediate) String() string {
	return strconv.FormatInt(int64(i), 10)
}
