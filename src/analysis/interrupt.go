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
package analysis

import (
	"riscvlint/cfg"
	"riscvlint/isa"
	"riscvlint/parser"
)

// InterruptHandlerNames finds labels that are never called directly but
// are installed as trap handlers: a csrrw/csrrs/csrrc writing a
// trap-vector CSR (mtvec/stvec) from a register whose available value,
// per the first-stage available-value pass, is the address of that
// label. Build's second stage treats these exactly like ordinary called
// labels so the handler gets its own FuncEntry instead of becoming an
// orphan node nothing ever reaches.
func InterruptHandlerNames(c *cfg.Cfg) map[isa.LabelString]bool {
	out := map[isa.LabelString]bool{}
	for _, n := range c.Nodes {
		pn := n.Node()
		if pn.Kind != parser.KindCsr || !isTrapVectorCSR(pn.Csr) {
			continue
		}
		v, ok := n.RegValuesIn()[pn.Rs1]
		if !ok || v.Kind != cfg.ValAddress {
			continue
		}
		out[v.Label] = true
	}
	return out
}

func isTrapVectorCSR(name string) bool {
	switch name {
	case "mtvec", "stvec", "utvec":
		return true
	default:
		return false
	}
}
