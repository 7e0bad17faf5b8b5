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
package parser

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"riscvlint/isa"
	"riscvlint/reader"
	"riscvlint/token"
)

// Error is a single recoverable parse failure: an unrecognized
// mnemonic, a wrong operand shape, a register where a label was
// expected, or similar. Parsing continues past it.
type Error struct {
	Msg string
	Pos token.Range
}

func (e *Error) Error() string { return e.Msg }

// maxIncludeDepth bounds .include recursion as a safety net alongside
// the reader's own cycle detection.
const maxIncludeDepth = 64

type parser struct {
	fr    reader.FileReader
	nodes []*Node
	errs  []*Error
	depth int
}

// Parse reads entryPath through fr, lexes and parses it (and every file
// it transitively .includes), and returns the flat node sequence
// (always starting with a synthetic ProgramEntry) plus any recoverable
// parse errors. A non-nil error is returned only when entryPath itself
// cannot be read.
func Parse(entryPath string, fr reader.FileReader) ([]*Node, []*Error, error) {
	id, text, err := fr.Import(entryPath, nil)
	if err != nil {
		return nil, nil, err
	}
	p := &parser{fr: fr}
	p.nodes = append(p.nodes, newNode(KindProgramEntry, token.RawToken{File: id}))
	p.run(token.NewPeekable(token.New(text, id)), id)
	return p.nodes, p.errs, nil
}

func (p *parser) errorAt(pos token.Range, msg string) {
	p.errs = append(p.errs, &Error{Msg: msg, Pos: pos})
}

// resync discards tokens up to and including the next newline, the
// parser's recovery point after any malformed statement.
func (p *parser) resync(toks *token.Peekable) {
	for {
		tok, ok := toks.Next()
		if !ok || tok.Kind == token.Newline {
			return
		}
	}
}

func (p *parser) run(toks *token.Peekable, fileID uuid.UUID) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxIncludeDepth {
		p.errorAt(token.Range{}, "include nesting too deep")
		return
	}

	for {
		tok, ok := toks.Peek()
		if !ok {
			if lerr := toks.LastError(); lerr != nil {
				p.errorAt(lerr.Pos, lerr.Msg)
			}
			return
		}
		switch tok.Kind {
		case token.Newline, token.Comment:
			toks.Next()
		case token.Label:
			toks.Next()
			lbl, ok := isa.ParseLabelString(tok.Text)
			if !ok {
				p.errorAt(tok.Pos, fmt.Sprintf("label %q collides with a register name", tok.Text))
				continue
			}
			n := newNode(KindLabel, token.RawToken{Text: tok.Raw, Pos: tok.Pos, File: fileID})
			n.FuncLabel = lbl
			p.nodes = append(p.nodes, n)
		case token.Directive:
			toks.Next()
			p.parseDirective(toks, fileID, tok)
		case token.Symbol:
			toks.Next()
			p.parseInstruction(toks, fileID, tok)
		default:
			toks.Next()
			p.errorAt(tok.Pos, fmt.Sprintf("unexpected token %s", tok.Kind))
			p.resync(toks)
		}
	}
}

func (p *parser) parseDirective(toks *token.Peekable, fileID uuid.UUID, dirTok token.Token) {
	kind, ok := ParseDirectiveKind(dirTok.Text)
	if !ok {
		p.errorAt(dirTok.Pos, fmt.Sprintf("unknown directive %q", dirTok.Text))
		p.resync(toks)
		return
	}

	if kind == DirInclude {
		strTok, ok := toks.Next()
		if !ok || strTok.Kind != token.String {
			p.errorAt(dirTok.Pos, "expected a string path after .include")
			p.resync(toks)
			return
		}
		id, text, err := p.fr.Import(strTok.Text, &fileID)
		if err != nil {
			p.errorAt(strTok.Pos, fmt.Sprintf("cannot include %q: %v", strTok.Text, err))
			p.resync(toks)
			return
		}
		p.run(token.NewPeekable(token.New(text, id)), id)
		p.resync(toks)
		return
	}

	var args []string
	for {
		tok, ok := toks.Peek()
		if !ok || tok.Kind == token.Newline || tok.Kind == token.Comment {
			break
		}
		toks.Next()
		args = append(args, tok.Text)
	}
	n := newNode(KindDirective, token.RawToken{Text: dirTok.Raw, Pos: dirTok.Pos, File: fileID})
	n.DirectiveKind = kind
	n.DirectiveArgs = args
	p.nodes = append(p.nodes, n)
	if tok, ok := toks.Peek(); ok && tok.Kind == token.Newline {
		toks.Next()
	}
}

func (p *parser) parseInstruction(toks *token.Peekable, fileID uuid.UUID, mnTok token.Token) {
	mnemonic := strings.ToLower(mnTok.Text)
	raw := token.RawToken{Text: mnTok.Raw, Pos: mnTok.Pos, File: fileID}

	if sh, ok := realOpcodes[mnemonic]; ok {
		if !p.parseByShape(toks, raw, Op(mnemonic), sh) {
			return
		}
		p.endOfLine(toks)
		return
	}
	if pop, ok := pseudoOpcodes[mnemonic]; ok {
		if !p.expandPseudo(toks, raw, pop) {
			return
		}
		p.endOfLine(toks)
		return
	}
	p.errorAt(mnTok.Pos, fmt.Sprintf("unrecognized mnemonic %q", mnTok.Text))
	p.resync(toks)
}

func (p *parser) endOfLine(toks *token.Peekable) {
	tok, ok := toks.Peek()
	if !ok {
		return
	}
	switch tok.Kind {
	case token.Newline:
		toks.Next()
	case token.Comment:
		toks.Next()
		p.endOfLine(toks)
	default:
		p.errorAt(tok.Pos, "unexpected extra operand")
		p.resync(toks)
	}
}

// The parse* operand helpers below only consume a token once they know
// it is shaped like the operand they were asked for. On a mismatch they
// leave the offending token (often a Newline) in the stream, so resync
// skips exactly to the end of the malformed statement instead of also
// swallowing the next one.

func (p *parser) parseRegister(toks *token.Peekable) (isa.Register, bool) {
	tok, ok := toks.Peek()
	if !ok {
		p.errorAt(token.Range{}, "expected register, found end of input")
		return 0, false
	}
	if tok.Kind != token.Symbol {
		p.errorAt(tok.Pos, fmt.Sprintf("expected register, found %s", tok.Kind))
		return 0, false
	}
	r, ok := isa.ParseRegister(tok.Text)
	if !ok {
		p.errorAt(tok.Pos, fmt.Sprintf("expected register, found %q", tok.Text))
		return 0, false
	}
	toks.Next()
	return r, true
}

func (p *parser) parseImmediate(toks *token.Peekable) (isa.Immediate, bool) {
	tok, ok := toks.Peek()
	if !ok {
		p.errorAt(token.Range{}, "expected immediate, found end of input")
		return 0, false
	}
	if tok.Kind != token.Symbol {
		p.errorAt(tok.Pos, fmt.Sprintf("expected immediate, found %s", tok.Kind))
		return 0, false
	}
	imm, err := isa.ParseImmediate(tok.Text)
	if err != nil {
		p.errorAt(tok.Pos, err.Error())
		return 0, false
	}
	toks.Next()
	return imm, true
}

func (p *parser) parseLabelRef(toks *token.Peekable) (isa.LabelString, bool) {
	tok, ok := toks.Peek()
	if !ok {
		p.errorAt(token.Range{}, "expected label, found end of input")
		return "", false
	}
	if tok.Kind != token.Symbol {
		p.errorAt(tok.Pos, fmt.Sprintf("expected label, found %s", tok.Kind))
		return "", false
	}
	lbl, ok := isa.ParseLabelString(tok.Text)
	if !ok {
		p.errorAt(tok.Pos, fmt.Sprintf("%q cannot be used as a label: it names a register", tok.Text))
		return "", false
	}
	toks.Next()
	return lbl, true
}

// parseCsrName consumes a bare symbol naming a CSR (by number or name),
// without trying to validate it against the known CSR table.
func (p *parser) parseCsrName(toks *token.Peekable) (string, bool) {
	tok, ok := toks.Peek()
	if !ok || tok.Kind != token.Symbol {
		kind := token.Kind(-1)
		if ok {
			kind = tok.Kind
		}
		p.errorAt(tok.Pos, fmt.Sprintf("expected CSR name, found %s", kind))
		return "", false
	}
	toks.Next()
	return tok.Text, true
}

// parseMemOperand consumes `imm(rs1)`, with imm defaulting to 0 when
// the parenthesized form appears alone.
func (p *parser) parseMemOperand(toks *token.Peekable) (imm isa.Immediate, base isa.Register, ok bool) {
	if tok, has := toks.Peek(); has && tok.Kind == token.Symbol {
		if parsed, err := isa.ParseImmediate(tok.Text); err == nil {
			toks.Next()
			imm = parsed
		}
	}
	lp, has := toks.Peek()
	if !has || lp.Kind != token.LParen {
		p.errorAt(lp.Pos, "expected '(' in memory operand")
		return 0, 0, false
	}
	toks.Next()
	base, regOk := p.parseRegister(toks)
	if !regOk {
		return 0, 0, false
	}
	rp, has := toks.Peek()
	if !has || rp.Kind != token.RParen {
		p.errorAt(rp.Pos, "expected ')' in memory operand")
		return 0, 0, false
	}
	toks.Next()
	return imm, base, true
}

func (p *parser) parseByShape(toks *token.Peekable, raw token.RawToken, op Op, sh shape) bool {
	switch sh {
	case shapeRType:
		rd, ok := p.parseRegister(toks)
		rs1, ok2 := p.parseRegister(toks)
		rs2, ok3 := p.parseRegister(toks)
		if !(ok && ok2 && ok3) {
			p.resync(toks)
			return false
		}
		n := newNode(KindArith, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Rs2, n.HasRs2 = op, rd, true, rs1, rs2, true
		p.nodes = append(p.nodes, n)

	case shapeIType:
		rd, ok := p.parseRegister(toks)
		rs1, ok2 := p.parseRegister(toks)
		imm, ok3 := p.parseImmediate(toks)
		if !(ok && ok2 && ok3) {
			p.resync(toks)
			return false
		}
		n := newNode(KindIArith, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = op, rd, true, rs1, imm
		p.nodes = append(p.nodes, n)

	case shapeIType2:
		rd, ok := p.parseRegister(toks)
		imm, ok2 := p.parseImmediate(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		n := newNode(KindIArith, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = op, rd, true, isa.X0, imm
		p.nodes = append(p.nodes, n)

	case shapeBranch:
		rs1, ok := p.parseRegister(toks)
		rs2, ok2 := p.parseRegister(toks)
		lbl, ok3 := p.parseLabelRef(toks)
		if !(ok && ok2 && ok3) {
			p.resync(toks)
			return false
		}
		n := newNode(KindBranch, raw)
		n.Op, n.Rs1, n.Rs2, n.HasRs2, n.Target, n.HasTarget = op, rs1, rs2, true, lbl, true
		p.nodes = append(p.nodes, n)

	case shapeJal:
		rd := isa.X1
		if tok, has := toks.Peek(); has && tok.Kind == token.Symbol {
			if r, isReg := isa.ParseRegister(tok.Text); isReg {
				toks.Next()
				rd = r
			}
		}
		lbl, ok := p.parseLabelRef(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		n := newNode(KindJumpLink, raw)
		n.Op, n.Rd, n.HasRd, n.Target, n.HasTarget = op, rd, true, lbl, true
		p.nodes = append(p.nodes, n)

	case shapeJalr:
		firstReg, ok := p.parseRegister(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		next, has := toks.Peek()
		if !has || next.Kind == token.Newline || next.Kind == token.Comment {
			n := newNode(KindJumpLinkR, raw)
			n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = op, isa.X1, true, firstReg, 0
			p.nodes = append(p.nodes, n)
			return true
		}
		if rs1, isReg := isa.ParseRegister(next.Text); isReg && next.Kind == token.Symbol {
			toks.Next()
			var imm isa.Immediate
			if tok, has := toks.Peek(); has && tok.Kind == token.Symbol {
				if imm, ok = p.parseImmediate(toks); !ok {
					p.resync(toks)
					return false
				}
			}
			n := newNode(KindJumpLinkR, raw)
			n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = op, firstReg, true, rs1, imm
			p.nodes = append(p.nodes, n)
			return true
		}
		imm, base, ok := p.parseMemOperand(toks)
		if !ok {
			return false
		}
		n := newNode(KindJumpLinkR, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = op, firstReg, true, base, imm
		p.nodes = append(p.nodes, n)

	case shapeLoad:
		rd, ok := p.parseRegister(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		imm, base, ok := p.parseMemOperand(toks)
		if !ok {
			return false
		}
		n := newNode(KindLoad, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = op, rd, true, base, imm
		p.nodes = append(p.nodes, n)

	case shapeStore:
		rs2, ok := p.parseRegister(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		imm, base, ok := p.parseMemOperand(toks)
		if !ok {
			return false
		}
		n := newNode(KindStore, raw)
		n.Op, n.Rs2, n.HasRs2, n.Rs1, n.Imm = op, rs2, true, base, imm
		p.nodes = append(p.nodes, n)

	case shapeLa:
		rd, ok := p.parseRegister(toks)
		lbl, ok2 := p.parseLabelRef(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		n := newNode(KindLoadAddr, raw)
		n.Rd, n.HasRd, n.Target, n.HasTarget = rd, true, lbl, true
		p.nodes = append(p.nodes, n)

	case shapeCsr:
		rd, ok := p.parseRegister(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		csrTok, ok2 := p.parseCsrName(toks)
		if !ok2 {
			p.resync(toks)
			return false
		}
		rs1, ok3 := p.parseRegister(toks)
		if !ok3 {
			p.resync(toks)
			return false
		}
		n := newNode(KindCsr, raw)
		n.Op, n.Rd, n.HasRd, n.Csr, n.Rs1 = op, rd, true, csrTok, rs1
		p.nodes = append(p.nodes, n)

	case shapeCsrI:
		rd, ok := p.parseRegister(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		csrTok, ok2 := p.parseCsrName(toks)
		if !ok2 {
			p.resync(toks)
			return false
		}
		imm, ok3 := p.parseImmediate(toks)
		if !ok3 {
			p.resync(toks)
			return false
		}
		n := newNode(KindCsrI, raw)
		n.Op, n.Rd, n.HasRd, n.Csr, n.Imm = op, rd, true, csrTok, imm
		p.nodes = append(p.nodes, n)

	case shapeNoOperand:
		kind := KindIgnore
		if op == "ecall" {
			kind = KindBasic
		}
		n := newNode(kind, raw)
		n.Op = op
		p.nodes = append(p.nodes, n)
	}
	return true
}

// expandPseudo rewrites a pseudo-mnemonic into one or more canonical
// nodes, all sharing the pseudo-instruction's own source range.
func (p *parser) expandPseudo(toks *token.Peekable, raw token.RawToken, pop pseudoOp) bool {
	switch pop {
	case pseudoLi:
		rd, ok := p.parseRegister(toks)
		imm, ok2 := p.parseImmediate(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		if imm >= -2048 && imm <= 2047 {
			n := newNode(KindIArith, raw)
			n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = "addi", rd, true, isa.X0, imm
			p.nodes = append(p.nodes, n)
			return true
		}
		upper, lower := splitImmediate(imm)
		lui := newNode(KindIArith, raw)
		lui.Op, lui.Rd, lui.HasRd, lui.Rs1, lui.Imm = "lui", rd, true, isa.X0, upper
		addi := newNode(KindIArith, raw)
		addi.Op, addi.Rd, addi.HasRd, addi.Rs1, addi.Imm = "addi", rd, true, rd, lower
		p.nodes = append(p.nodes, lui, addi)

	case pseudoMv:
		rd, ok := p.parseRegister(toks)
		rs, ok2 := p.parseRegister(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		n := newNode(KindIArith, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = "addi", rd, true, rs, 0
		p.nodes = append(p.nodes, n)

	case pseudoNot:
		rd, ok := p.parseRegister(toks)
		rs, ok2 := p.parseRegister(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		n := newNode(KindIArith, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = "xori", rd, true, rs, -1
		p.nodes = append(p.nodes, n)

	case pseudoNeg:
		rd, ok := p.parseRegister(toks)
		rs, ok2 := p.parseRegister(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		n := newNode(KindArith, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Rs2, n.HasRs2 = "sub", rd, true, isa.X0, rs, true
		p.nodes = append(p.nodes, n)

	case pseudoJ:
		lbl, ok := p.parseLabelRef(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		n := newNode(KindJumpLink, raw)
		n.Op, n.Rd, n.HasRd, n.Target, n.HasTarget = "jal", isa.X0, true, lbl, true
		p.nodes = append(p.nodes, n)

	case pseudoJr:
		rs, ok := p.parseRegister(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		n := newNode(KindJumpLinkR, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = "jalr", isa.X0, true, rs, 0
		p.nodes = append(p.nodes, n)

	case pseudoRet:
		n := newNode(KindJumpLinkR, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = "jalr", isa.X0, true, isa.X1, 0
		p.nodes = append(p.nodes, n)

	case pseudoCall:
		lbl, ok := p.parseLabelRef(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		n := newNode(KindJumpLink, raw)
		n.Op, n.Rd, n.HasRd, n.Target, n.HasTarget = "jal", isa.X1, true, lbl, true
		p.nodes = append(p.nodes, n)

	case pseudoTail:
		lbl, ok := p.parseLabelRef(toks)
		if !ok {
			p.resync(toks)
			return false
		}
		n := newNode(KindJumpLink, raw)
		n.Op, n.Rd, n.HasRd, n.Target, n.HasTarget = "jal", isa.X0, true, lbl, true
		p.nodes = append(p.nodes, n)

	case pseudoSeqz:
		rd, ok := p.parseRegister(toks)
		rs, ok2 := p.parseRegister(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		n := newNode(KindIArith, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Imm = "sltiu", rd, true, rs, 1
		p.nodes = append(p.nodes, n)

	case pseudoSnez:
		rd, ok := p.parseRegister(toks)
		rs, ok2 := p.parseRegister(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		n := newNode(KindArith, raw)
		n.Op, n.Rd, n.HasRd, n.Rs1, n.Rs2, n.HasRs2 = "sltu", rd, true, isa.X0, rs, true
		p.nodes = append(p.nodes, n)

	case pseudoBeqz, pseudoBnez, pseudoBlez, pseudoBgez, pseudoBltz, pseudoBgtz:
		rs, ok := p.parseRegister(toks)
		lbl, ok2 := p.parseLabelRef(toks)
		if !(ok && ok2) {
			p.resync(toks)
			return false
		}
		n := newNode(KindBranch, raw)
		n.HasTarget, n.Target, n.HasRs2 = true, lbl, true
		switch pop {
		case pseudoBeqz:
			n.Op, n.Rs1, n.Rs2 = "beq", rs, isa.X0
		case pseudoBnez:
			n.Op, n.Rs1, n.Rs2 = "bne", rs, isa.X0
		case pseudoBlez:
			n.Op, n.Rs1, n.Rs2 = "bge", isa.X0, rs
		case pseudoBgez:
			n.Op, n.Rs1, n.Rs2 = "bge", rs, isa.X0
		case pseudoBltz:
			n.Op, n.Rs1, n.Rs2 = "blt", rs, isa.X0
		case pseudoBgtz:
			n.Op, n.Rs1, n.Rs2 = "blt", isa.X0, rs
		}
		p.nodes = append(p.nodes, n)
	}
	return true
}

// splitImmediate decomposes imm into the (upper20, lower12) pair that
// `lui rd, upper20` followed by `addi rd, rd, lower12` reconstructs,
// matching the standard RISC-V li expansion.
func splitImmediate(imm isa.Immediate) (upper, lower isa.Immediate) {
	v := int32(imm)
	lo := v & 0xFFF
	if lo >= 0x800 {
		lo -= 0x1000
	}
	hi := (v - lo) >> 12
	return isa.Immediate(hi), isa.Immediate(lo)
}
