// Copyright (c) 2025 The amiga-dis68k Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of amiga-dis68k.
//
// amiga-dis68k is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// amiga-dis68k is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with amiga-dis68k.  If not, see <https://www.gnu.org/licenses/>.

package m68k

import (
	"fmt"

	bin "github.com/happycodelucky/amiga-dis68k/internal/binary"
)

// Decode reads one instruction from the start of bytes, the remaining
// slice of the hunk. at is that instruction's offset within the hunk and
// base is the hunk's assumed load address (0 for a linear listing); at and
// base together give the absolute address used to resolve branch targets.
//
// On success the returned bytes-consumed count equals LengthBytes and is
// authoritative for advancing the caller's read position. On error the
// count is 0: callers that want forward progress on error fall back to a
// fixed minimum themselves (see the listing package), since a failed
// decode carries no reliable partial length.
func Decode(bytes []byte, at, base uint32, cpu CPUVariant) (Instruction, int, error) {
	c := bin.NewCursor(bytes)
	w, err := c.ReadU16()
	if err != nil {
		return Instruction{}, 0, ErrTruncated
	}

	var inst Instruction
	switch w >> 12 {
	case 0x0:
		inst, err = decodeGroup0(c, cpu, w)
	case 0x1, 0x2, 0x3:
		inst, err = decodeMove(c, cpu, w)
	case 0x4:
		inst, err = decodeGroup4(c, cpu, w)
	case 0x5:
		inst, err = decodeGroup5(c, cpu, w, at, base)
	case 0x6:
		inst, err = decodeGroup6(c, w, at, base)
	case 0x7:
		inst, err = decodeGroup7(w)
	case 0x8:
		inst, err = decodeGroup8(c, cpu, w)
	case 0x9:
		inst, err = decodeGroup9(c, cpu, w)
	case 0xA:
		inst, err = dcWord(w), nil
	case 0xB:
		inst, err = decodeGroupB(c, cpu, w)
	case 0xC:
		inst, err = decodeGroupC(c, cpu, w)
	case 0xD:
		inst, err = decodeGroupD(c, cpu, w)
	case 0xE:
		inst, err = decodeGroupE(c, cpu, w)
	case 0xF:
		inst, err = dcWord(w), nil
	}
	if err != nil {
		return Instruction{}, 0, err
	}
	inst.LengthBytes = c.Position()
	return inst, inst.LengthBytes, nil
}

// dcWord represents an unmatched opcode word as a data-constant fallback,
// per spec.md's fallback-as-data-constant design.
func dcWord(w uint16) Instruction {
	return Instruction{
		Mnemonic: Dc,
		Operands: []Operand{ImmediateOp(uint32(w), Word)},
	}
}

func readImmediate(c *bin.Cursor, sz Size) (uint32, error) {
	switch sz {
	case Byte, Word:
		v, err := c.ReadU16()
		if err != nil {
			return 0, wrapTruncated(err)
		}
		if sz == Byte {
			v &= 0x00FF
		}
		return uint32(v), nil
	case Long:
		v, err := c.ReadU32()
		if err != nil {
			return 0, wrapTruncated(err)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%w: unknown immediate size", ErrInvalidEncoding)
	}
}

// decodeGroup0 covers ORI/ANDI/EORI/ADDI/SUBI/CMPI, the static and dynamic
// bit-manipulation instructions, and MOVEP — every mnemonic whose opcode
// word begins with the nibble 0000.
func decodeGroup0(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	mode := int(w>>3) & 7
	reg := int(w) & 7

	if w&0xFF00 == 0x0800 {
		return decodeBitOp(c, cpu, w, mode, reg, false)
	}
	if w&0x0100 != 0 {
		if mode == 1 {
			return decodeMovep(c, w, reg)
		}
		return decodeBitOp(c, cpu, w, mode, reg, true)
	}
	return decodeImmediateOp(c, cpu, w, mode, reg)
}

func decodeBitOp(c *bin.Cursor, cpu CPUVariant, w uint16, mode, reg int, dynamic bool) (Instruction, error) {
	var mnem Mnemonic
	switch (w >> 6) & 3 {
	case 0:
		mnem = Btst
	case 1:
		mnem = Bchg
	case 2:
		mnem = Bclr
	case 3:
		mnem = Bset
	}

	var operands []Operand
	if dynamic {
		operands = append(operands, DataRegOp(int(w>>9)&7))
	} else {
		v, err := c.ReadU16()
		if err != nil {
			return Instruction{}, wrapTruncated(err)
		}
		operands = append(operands, ImmediateOp(uint32(v&0xFF), Byte))
	}

	ea, err := decodeEA(c, cpu, mode, reg, Byte)
	if err != nil {
		return Instruction{}, err
	}
	operands = append(operands, EAOp(ea))
	return Instruction{Mnemonic: mnem, Operands: operands}, nil
}

func decodeMovep(c *bin.Cursor, w uint16, areg int) (Instruction, error) {
	dreg := int(w>>9) & 7
	opmode := (w >> 6) & 3

	disp, err := c.ReadI16()
	if err != nil {
		return Instruction{}, wrapTruncated(err)
	}

	sz := Word
	if opmode&1 == 1 {
		sz = Long
	}
	ea := EAOp(AddrDisp16(areg, disp))
	dn := DataRegOp(dreg)

	operands := []Operand{ea, dn}
	if opmode >= 2 { // register to memory
		operands = []Operand{dn, ea}
	}
	return Instruction{Mnemonic: Movep, Size: sz, HasSize: true, Operands: operands}, nil
}

func decodeImmediateOp(c *bin.Cursor, cpu CPUVariant, w uint16, mode, reg int) (Instruction, error) {
	var mnem Mnemonic
	switch (w >> 8) & 0xF {
	case 0x0:
		mnem = Ori
	case 0x2:
		mnem = Andi
	case 0x4:
		mnem = Subi
	case 0x6:
		mnem = Addi
	case 0xA:
		mnem = Eori
	case 0xC:
		mnem = Cmpi
	default:
		return Instruction{}, fmt.Errorf("%w: unrecognized group0 immediate selector", ErrInvalidEncoding)
	}

	sz, err := sizeFromBits((w >> 6) & 3)
	if err != nil {
		return Instruction{}, err
	}

	// ORI/ANDI/EORI #imm,CCR and #imm,SR share this opcode shape but name
	// a fixed status register rather than a general EA at mode 7/reg 4:
	// decoding that slot as an EA would misread it as a second immediate
	// and over-consume an extension word.
	if mode == 7 && reg == 4 && (mnem == Ori || mnem == Andi || mnem == Eori) {
		switch sz {
		case Byte:
			imm, err := readImmediate(c, Byte)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{
				Mnemonic: mnem, Size: Byte, HasSize: true,
				Operands: []Operand{ImmediateOp(imm, Byte), StatusRegOp(false)},
			}, nil
		case Word:
			imm, err := readImmediate(c, Word)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{
				Mnemonic: mnem, Size: Word, HasSize: true,
				Operands: []Operand{ImmediateOp(imm, Word), StatusRegOp(true)},
			}, nil
		default:
			return Instruction{}, fmt.Errorf("%w: %s to CCR/SR must be byte or word", ErrInvalidEncoding, mnem)
		}
	}

	imm, err := readImmediate(c, sz)
	if err != nil {
		return Instruction{}, err
	}
	ea, err := decodeEA(c, cpu, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Mnemonic: mnem, Size: sz, HasSize: true,
		Operands: []Operand{ImmediateOp(imm, sz), EAOp(ea)},
	}, nil
}

// decodeMove covers opcode groups 1/2/3 (MOVE/MOVEA). The destination
// mode/register fields sit at bits 8..6 and 11..9 — reversed relative to
// every other two-operand instruction — so the source EA must be decoded
// first, then the destination, in that exact order.
func decodeMove(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	var sz Size
	switch w >> 12 {
	case 1:
		sz = Byte
	case 2:
		sz = Long
	case 3:
		sz = Word
	}

	srcMode := int(w>>3) & 7
	srcReg := int(w) & 7
	dstMode := int(w>>6) & 7
	dstReg := int(w>>9) & 7

	src, err := decodeEA(c, cpu, srcMode, srcReg, sz)
	if err != nil {
		return Instruction{}, err
	}

	if dstMode == 1 {
		if sz == Byte {
			return Instruction{}, fmt.Errorf("%w: movea.b is illegal", ErrInvalidEncoding)
		}
		if _, err := decodeEA(c, cpu, dstMode, dstReg, sz); err != nil {
			return Instruction{}, err
		}
		return Instruction{
			Mnemonic: Movea, Size: sz, HasSize: true,
			Operands: []Operand{EAOp(src), AddrRegOp(dstReg)},
		}, nil
	}

	dst, err := decodeEA(c, cpu, dstMode, dstReg, sz)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Mnemonic: Move, Size: sz, HasSize: true,
		Operands: []Operand{EAOp(src), EAOp(dst)},
	}, nil
}

// decodeGroup4 covers the large miscellaneous family: NEG/NEGX/NOT/CLR/
// TST/TAS, the SR/CCR move forms, EXT, SWAP, PEA, LEA, JMP, JSR, MOVEM,
// CHK, TRAP, LINK, UNLK, and the fixed no-operand instructions.
func decodeGroup4(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	switch w {
	case 0x4E70:
		return Instruction{Mnemonic: Reset}, nil
	case 0x4E71:
		return Instruction{Mnemonic: Nop}, nil
	case 0x4E72:
		if _, err := c.ReadU16(); err != nil { // SR value operand, not modeled
			return Instruction{}, wrapTruncated(err)
		}
		return Instruction{Mnemonic: Stop}, nil
	case 0x4E73:
		return Instruction{Mnemonic: Rte}, nil
	case 0x4E75:
		return Instruction{Mnemonic: Rts}, nil
	case 0x4E76:
		return Instruction{Mnemonic: Trapv}, nil
	case 0x4E77:
		return Instruction{Mnemonic: Rtr}, nil
	case 0x4AFC:
		return Instruction{Mnemonic: Illegal}, nil
	}

	switch {
	case w&0xFFF0 == 0x4E40:
		return Instruction{Mnemonic: Trap, Operands: []Operand{ImmediateOp(uint32(w&0xF), Byte)}}, nil
	case w&0xFFF8 == 0x4E50:
		reg := int(w) & 7
		disp, err := c.ReadI16()
		if err != nil {
			return Instruction{}, wrapTruncated(err)
		}
		return Instruction{
			Mnemonic: Link,
			Operands: []Operand{AddrRegOp(reg), ImmediateOp(uint32(uint16(disp)), Word)},
		}, nil
	case w&0xFFF8 == 0x4E58:
		return Instruction{Mnemonic: Unlk, Operands: []Operand{AddrRegOp(int(w) & 7)}}, nil
	case w&0xFFF8 == 0x4E60, w&0xFFF8 == 0x4E68:
		return Instruction{Mnemonic: MoveUSP, Operands: []Operand{AddrRegOp(int(w) & 7)}}, nil
	case w&0xFFC0 == 0x4E80:
		ea, err := decodeEA(c, cpu, int(w>>3)&7, int(w)&7, Long)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Jsr, Operands: []Operand{EAOp(ea)}}, nil
	case w&0xFFC0 == 0x4EC0:
		ea, err := decodeEA(c, cpu, int(w>>3)&7, int(w)&7, Long)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Jmp, Operands: []Operand{EAOp(ea)}}, nil
	case w&0xFFC0 == 0x4840:
		mode := int(w>>3) & 7
		reg := int(w) & 7
		if mode == 0 {
			return Instruction{Mnemonic: Swap, Operands: []Operand{DataRegOp(reg)}}, nil
		}
		ea, err := decodeEA(c, cpu, mode, reg, Long)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Pea, Operands: []Operand{EAOp(ea)}}, nil
	case w&0x0B80 == 0x0880: // EXT/MOVEM share this slot; mode 0 means EXT
		mode := int(w>>3) & 7
		reg := int(w) & 7
		if mode == 0 {
			sz := Word
			if w&0x0040 != 0 {
				sz = Long
			}
			return Instruction{Mnemonic: Ext, Size: sz, HasSize: true, Operands: []Operand{DataRegOp(reg)}}, nil
		}
		return decodeMovem(c, cpu, w, mode, reg)
	case w&0x01C0 == 0x01C0: // LEA: bits 8..6 = 111
		areg := int(w>>9) & 7
		ea, err := decodeEA(c, cpu, int(w>>3)&7, int(w)&7, Long)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Lea, Operands: []Operand{EAOp(ea), AddrRegOp(areg)}}, nil
	case w&0x01C0 == 0x0180: // CHK: bits 8..6 = 110
		dreg := int(w>>9) & 7
		ea, err := decodeEA(c, cpu, int(w>>3)&7, int(w)&7, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Chk, Size: Word, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(dreg)}}, nil
	}

	return decodeGroup4ArithLike(c, cpu, w)
}

func decodeGroup4ArithLike(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	sel := (w >> 8) & 0xF
	sizeBits := (w >> 6) & 3
	mode := int(w>>3) & 7
	reg := int(w) & 7

	if sizeBits == 3 {
		switch sel {
		case 0x0:
			ea, err := decodeEA(c, cpu, mode, reg, Word)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Mnemonic: MoveFromSR, Operands: []Operand{EAOp(ea)}}, nil
		case 0x4:
			ea, err := decodeEA(c, cpu, mode, reg, Word)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Mnemonic: MoveToCCR, Operands: []Operand{EAOp(ea)}}, nil
		case 0x6:
			ea, err := decodeEA(c, cpu, mode, reg, Word)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Mnemonic: MoveToSR, Operands: []Operand{EAOp(ea)}}, nil
		case 0xA:
			ea, err := decodeEA(c, cpu, mode, reg, Byte)
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Mnemonic: Tas, Operands: []Operand{EAOp(ea)}}, nil
		default:
			return Instruction{}, fmt.Errorf("%w: group4 selector %X/3", ErrInvalidEncoding, sel)
		}
	}

	sz, err := sizeFromBits(sizeBits)
	if err != nil {
		return Instruction{}, err
	}
	var mnem Mnemonic
	switch sel {
	case 0x0:
		mnem = Negx
	case 0x2:
		mnem = Clr
	case 0x4:
		mnem = Neg
	case 0x6:
		mnem = Not
	case 0xA:
		mnem = Tst
	default:
		return Instruction{}, fmt.Errorf("%w: group4 selector %X", ErrInvalidEncoding, sel)
	}
	ea, err := decodeEA(c, cpu, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{Mnemonic: mnem, Size: sz, HasSize: true, Operands: []Operand{EAOp(ea)}}, nil
}

func decodeMovem(c *bin.Cursor, cpu CPUVariant, w uint16, mode, reg int) (Instruction, error) {
	toMemory := (w>>10)&1 == 0
	sz := Word
	if w&0x0040 != 0 {
		sz = Long
	}
	maskWord, err := c.ReadU16()
	if err != nil {
		return Instruction{}, wrapTruncated(err)
	}

	predecrement := mode == 4
	regMask := maskWord
	if predecrement {
		regMask = reverseBits16(maskWord)
	}

	ea, err := decodeEA(c, cpu, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}

	var operands []Operand
	if toMemory {
		operands = []Operand{RegListOp(regMask), EAOp(ea)}
	} else {
		operands = []Operand{EAOp(ea), RegListOp(regMask)}
	}
	return Instruction{
		Mnemonic: Movem, Size: sz, HasSize: true,
		Operands: operands, MovemPredecrement: predecrement,
	}, nil
}

// reverseBits16 mirrors a 16-bit mask end to end, used to normalize
// MOVEM's predecrement register-list encoding (spec.md §4.4).
func reverseBits16(v uint16) uint16 {
	var r uint16
	for i := 0; i < 16; i++ {
		if v&(1<<uint(i)) != 0 {
			r |= 1 << uint(15-i)
		}
	}
	return r
}

// decodeGroup5 covers ADDQ/SUBQ/Scc/DBcc.
func decodeGroup5(c *bin.Cursor, cpu CPUVariant, w uint16, at, base uint32) (Instruction, error) {
	cond := ConditionCode((w >> 8) & 0xF)
	sizeBits := (w >> 6) & 3
	mode := int(w>>3) & 7
	reg := int(w) & 7

	if sizeBits == 3 {
		if mode == 1 {
			disp, err := c.ReadI16()
			if err != nil {
				return Instruction{}, wrapTruncated(err)
			}
			target := base + at + 2 + uint32(int32(disp))
			return Instruction{
				Mnemonic: Dbcc, Condition: cond, HasCond: true,
				Operands: []Operand{DataRegOp(reg), BranchTargetOp(target)},
			}, nil
		}
		ea, err := decodeEA(c, cpu, mode, reg, Byte)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{
			Mnemonic: Scc, Condition: cond, HasCond: true,
			Operands: []Operand{EAOp(ea)},
		}, nil
	}

	sz, err := sizeFromBits(sizeBits)
	if err != nil {
		return Instruction{}, err
	}
	quick := int8((w >> 9) & 7)
	if quick == 0 {
		quick = 8
	}
	mnem := Addq
	if w&0x0100 != 0 {
		mnem = Subq
	}
	ea, err := decodeEA(c, cpu, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Mnemonic: mnem, Size: sz, HasSize: true,
		Operands: []Operand{QuickImmOp(quick), EAOp(ea)},
	}, nil
}

// decodeGroup6 covers BRA/BSR/Bcc. Displacement byte 0x00 means a following
// signed word carries the real displacement; 0xFF is the 68020+ 32-bit
// form and is unsupported here.
func decodeGroup6(c *bin.Cursor, w uint16, at, base uint32) (Instruction, error) {
	cond := ConditionCode((w >> 8) & 0xF)
	dispByte := uint8(w & 0xFF)

	var disp int32
	switch dispByte {
	case 0x00:
		d, err := c.ReadI16()
		if err != nil {
			return Instruction{}, wrapTruncated(err)
		}
		disp = int32(d)
	case 0xFF:
		return Instruction{}, fmt.Errorf("%w: 32-bit branch displacement requires 68020+", ErrUnsupported)
	default:
		disp = int32(int8(dispByte))
	}
	target := base + at + 2 + uint32(disp)

	var mnem Mnemonic
	switch cond {
	case CondT:
		mnem = Bra
	case CondF:
		mnem = Bsr
	default:
		mnem = Bcc
	}

	inst := Instruction{Mnemonic: mnem, Operands: []Operand{BranchTargetOp(target)}}
	if mnem == Bcc {
		inst.Condition = cond
		inst.HasCond = true
	}
	return inst, nil
}

// decodeGroup7 covers MOVEQ.
func decodeGroup7(w uint16) (Instruction, error) {
	if w&0x0100 != 0 {
		return Instruction{}, fmt.Errorf("%w: moveq requires bit 8 clear", ErrInvalidEncoding)
	}
	reg := int(w>>9) & 7
	imm := int8(w & 0xFF)
	return Instruction{
		Mnemonic: Moveq,
		Operands: []Operand{QuickImmOp(imm), DataRegOp(reg)},
	}, nil
}

// decodeGroup8 covers OR/DIVU/DIVS/SBCD.
func decodeGroup8(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	reg := int(w>>9) & 7
	opmode := (w >> 6) & 7
	mode := int(w>>3) & 7
	eaReg := int(w) & 7

	switch opmode {
	case 3:
		ea, err := decodeEA(c, cpu, mode, eaReg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Divu, Size: Word, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(reg)}}, nil
	case 7:
		ea, err := decodeEA(c, cpu, mode, eaReg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Divs, Size: Word, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(reg)}}, nil
	case 4:
		switch mode {
		case 0:
			return Instruction{Mnemonic: Sbcd, Operands: []Operand{DataRegOp(eaReg), DataRegOp(reg)}}, nil
		case 1:
			return Instruction{
				Mnemonic: Sbcd,
				Operands: []Operand{EAOp(AddrPreDec(eaReg)), EAOp(AddrPreDec(reg))},
			}, nil
		}
	}

	sz, err := sizeFromBits(opmode & 3)
	if err != nil {
		return Instruction{}, err
	}
	ea, err := decodeEA(c, cpu, mode, eaReg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if opmode&4 != 0 {
		return Instruction{Mnemonic: Or, Size: sz, HasSize: true, Operands: []Operand{DataRegOp(reg), EAOp(ea)}}, nil
	}
	return Instruction{Mnemonic: Or, Size: sz, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(reg)}}, nil
}

// decodeAddSubCmpFamily implements the shared shape of groups 9 (SUB) and D
// (ADD): a size/direction opmode field, an address-register variant at
// opmode 3/7, and an extended (Xn,Xn)/(-(Ay),-(Ax)) variant at opmode 4..6
// when the EA mode field selects register-direct or predecrement.
func decodeAddSubCmpFamily(c *bin.Cursor, cpu CPUVariant, w uint16, base, addrMnem, xMnem Mnemonic) (Instruction, error) {
	reg := int(w>>9) & 7
	opmode := (w >> 6) & 7
	mode := int(w>>3) & 7
	eaReg := int(w) & 7

	if opmode == 3 || opmode == 7 {
		sz := Word
		if opmode == 7 {
			sz = Long
		}
		ea, err := decodeEA(c, cpu, mode, eaReg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: addrMnem, Size: sz, HasSize: true, Operands: []Operand{EAOp(ea), AddrRegOp(reg)}}, nil
	}

	if (opmode == 4 || opmode == 5 || opmode == 6) && mode <= 1 {
		sz, err := sizeFromBits(opmode - 4)
		if err != nil {
			return Instruction{}, err
		}
		var src, dst Operand
		if mode == 1 {
			src = EAOp(AddrPreDec(eaReg))
			dst = EAOp(AddrPreDec(reg))
		} else {
			src = DataRegOp(eaReg)
			dst = DataRegOp(reg)
		}
		return Instruction{Mnemonic: xMnem, Size: sz, HasSize: true, Operands: []Operand{src, dst}}, nil
	}

	sz, err := sizeFromBits(opmode & 3)
	if err != nil {
		return Instruction{}, err
	}
	ea, err := decodeEA(c, cpu, mode, eaReg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if opmode&4 != 0 {
		return Instruction{Mnemonic: base, Size: sz, HasSize: true, Operands: []Operand{DataRegOp(reg), EAOp(ea)}}, nil
	}
	return Instruction{Mnemonic: base, Size: sz, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(reg)}}, nil
}

func decodeGroup9(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	return decodeAddSubCmpFamily(c, cpu, w, Sub, Suba, Subx)
}

func decodeGroupD(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	return decodeAddSubCmpFamily(c, cpu, w, Add, Adda, Addx)
}

// decodeGroupB covers CMP/CMPA/CMPM/EOR.
func decodeGroupB(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	reg := int(w>>9) & 7
	opmode := (w >> 6) & 7
	mode := int(w>>3) & 7
	eaReg := int(w) & 7

	if opmode == 3 || opmode == 7 {
		sz := Word
		if opmode == 7 {
			sz = Long
		}
		ea, err := decodeEA(c, cpu, mode, eaReg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Cmpa, Size: sz, HasSize: true, Operands: []Operand{EAOp(ea), AddrRegOp(reg)}}, nil
	}

	if (opmode == 4 || opmode == 5 || opmode == 6) && mode == 1 {
		sz, err := sizeFromBits(opmode - 4)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{
			Mnemonic: Cmpm, Size: sz, HasSize: true,
			Operands: []Operand{EAOp(AddrPostInc(eaReg)), EAOp(AddrPostInc(reg))},
		}, nil
	}

	sz, err := sizeFromBits(opmode & 3)
	if err != nil {
		return Instruction{}, err
	}
	ea, err := decodeEA(c, cpu, mode, eaReg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if opmode&4 != 0 {
		return Instruction{Mnemonic: Eor, Size: sz, HasSize: true, Operands: []Operand{DataRegOp(reg), EAOp(ea)}}, nil
	}
	return Instruction{Mnemonic: Cmp, Size: sz, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(reg)}}, nil
}

// decodeGroupC covers AND/MULU/MULS/ABCD/EXG.
func decodeGroupC(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	reg := int(w>>9) & 7
	opmode := (w >> 6) & 7
	mode := int(w>>3) & 7
	eaReg := int(w) & 7

	switch opmode {
	case 3:
		ea, err := decodeEA(c, cpu, mode, eaReg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Mulu, Size: Word, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(reg)}}, nil
	case 7:
		ea, err := decodeEA(c, cpu, mode, eaReg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: Muls, Size: Word, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(reg)}}, nil
	case 4:
		switch mode {
		case 0:
			return Instruction{Mnemonic: Abcd, Operands: []Operand{DataRegOp(eaReg), DataRegOp(reg)}}, nil
		case 1:
			return Instruction{
				Mnemonic: Abcd,
				Operands: []Operand{EAOp(AddrPreDec(eaReg)), EAOp(AddrPreDec(reg))},
			}, nil
		}
		// mode >= 2: AND.B Dn,<ea> register-to-memory, same shape as the
		// general case below — fall through rather than erroring.
	case 5:
		switch mode {
		case 0:
			return Instruction{Mnemonic: Exg, Operands: []Operand{DataRegOp(reg), DataRegOp(eaReg)}}, nil
		case 1:
			return Instruction{Mnemonic: Exg, Operands: []Operand{AddrRegOp(reg), AddrRegOp(eaReg)}}, nil
		}
		// mode >= 2: AND.W Dn,<ea> register-to-memory — fall through.
	case 6:
		if mode == 1 {
			return Instruction{Mnemonic: Exg, Operands: []Operand{DataRegOp(reg), AddrRegOp(eaReg)}}, nil
		}
		// mode != 1: AND.L Dn,<ea> register-to-memory — fall through.
	}

	sz, err := sizeFromBits(opmode & 3)
	if err != nil {
		return Instruction{}, err
	}
	ea, err := decodeEA(c, cpu, mode, eaReg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if opmode&4 != 0 {
		return Instruction{Mnemonic: And, Size: sz, HasSize: true, Operands: []Operand{DataRegOp(reg), EAOp(ea)}}, nil
	}
	return Instruction{Mnemonic: And, Size: sz, HasSize: true, Operands: []Operand{EAOp(ea), DataRegOp(reg)}}, nil
}

// decodeGroupE covers the shift/rotate family: register shifts of a data
// register (quick or dynamic count) and single-bit memory shifts over an EA.
func decodeGroupE(c *bin.Cursor, cpu CPUVariant, w uint16) (Instruction, error) {
	mode := int(w>>3) & 7
	eaReg := int(w) & 7

	if (w>>6)&3 == 3 { // size field 11: memory shift of a word EA
		if mode <= 1 {
			return Instruction{}, fmt.Errorf("%w: memory shift needs a memory EA", ErrInvalidEncoding)
		}
		opType := (w >> 9) & 3
		dir := (w >> 8) & 1
		mnem := shiftMnemonic(opType, dir)
		ea, err := decodeEA(c, cpu, mode, eaReg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Mnemonic: mnem, Size: Word, HasSize: true, Operands: []Operand{EAOp(ea)}}, nil
	}

	reg := int(w>>9) & 7
	sz, err := sizeFromBits((w >> 6) & 3)
	if err != nil {
		return Instruction{}, err
	}
	opType := (w >> 3) & 3
	dir := (w >> 8) & 1
	mnem := shiftMnemonic(opType, dir)

	var countOp Operand
	if (w>>5)&1 != 0 {
		countOp = DataRegOp(reg)
	} else {
		count := int8(reg)
		if count == 0 {
			count = 8
		}
		countOp = QuickImmOp(count)
	}
	return Instruction{
		Mnemonic: mnem, Size: sz, HasSize: true,
		Operands: []Operand{countOp, DataRegOp(eaReg)},
	}, nil
}

func shiftMnemonic(opType, dir uint16) Mnemonic {
	switch opType {
	case 0:
		if dir == 1 {
			return Asl
		}
		return Asr
	case 1:
		if dir == 1 {
			return Lsl
		}
		return Lsr
	case 2:
		if dir == 1 {
			return Roxl
		}
		return Roxr
	default:
		if dir == 1 {
			return Rol
		}
		return Ror
	}
}
