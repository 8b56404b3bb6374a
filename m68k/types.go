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

// Package m68k decodes a Motorola 68000 instruction stream into a
// self-contained, structured value (Instruction) carrying no reference
// into the source bytes. It implements the base 68000 instruction set
// only; CPUVariant is accepted purely so that newer encodings can be
// told apart from genuinely invalid ones, not to decode them.
package m68k

import "fmt"

// CPUVariant selects which CPU generation's encodings are accepted. Only
// base-68000 encodings are decoded, whichever variant is requested; forms
// that exist only on 68020+ (full extension words, mode 7 registers 5-7,
// 32-bit branch displacements) return ErrUnsupported for every variant.
type CPUVariant int

const (
	CPU68000 CPUVariant = iota
	CPU68010
	CPU68020
	CPU68030
	CPU68040
	CPU68060
)

// String returns the conventional CPU name.
func (v CPUVariant) String() string {
	switch v {
	case CPU68000:
		return "68000"
	case CPU68010:
		return "68010"
	case CPU68020:
		return "68020"
	case CPU68030:
		return "68030"
	case CPU68040:
		return "68040"
	case CPU68060:
		return "68060"
	default:
		return "unknown"
	}
}

// Size is an operand width.
type Size int

const (
	Byte Size = iota
	Word
	Long
)

// String returns the Motorola suffix letter ("b", "w", "l").
func (s Size) String() string {
	switch s {
	case Byte:
		return "b"
	case Word:
		return "w"
	case Long:
		return "l"
	default:
		return "?"
	}
}

// Bytes returns how many bytes an immediate/extension of this size
// occupies in the instruction stream (byte immediates still occupy a
// full 16-bit extension word).
func (s Size) Bytes() int {
	if s == Long {
		return 4
	}
	return 2
}

// sizeFromBits decodes the common 2-bit size field (00 byte / 01 word /
// 10 long) used by group 0 and several group 4 instructions.
func sizeFromBits(bits uint16) (Size, error) {
	switch bits {
	case 0b00:
		return Byte, nil
	case 0b01:
		return Word, nil
	case 0b10:
		return Long, nil
	default:
		return 0, fmt.Errorf("%w: size bits %02b", ErrInvalidEncoding, bits)
	}
}

// ConditionCode is one of the 68000's 16 branch/test conditions.
type ConditionCode int

const (
	CondT ConditionCode = iota
	CondF
	CondHI
	CondLS
	CondCC
	CondCS
	CondNE
	CondEQ
	CondVC
	CondVS
	CondPL
	CondMI
	CondGE
	CondLT
	CondGT
	CondLE
)

var conditionNames = [16]string{
	"t", "f", "hi", "ls", "cc", "cs", "ne", "eq",
	"vc", "vs", "pl", "mi", "ge", "lt", "gt", "le",
}

// String returns the two-letter (one for T/F) condition mnemonic suffix.
func (c ConditionCode) String() string {
	if c < 0 || int(c) >= len(conditionNames) {
		return "?"
	}
	return conditionNames[c]
}

// Mnemonic is the closed set of base-68000 mnemonics, plus Dc as the
// data-constant fallback for unmatched opcode words.
type Mnemonic int

const (
	Dc Mnemonic = iota
	Ori
	Andi
	Eori
	Addi
	Subi
	Cmpi
	Btst
	Bchg
	Bclr
	Bset
	Movep
	Move
	Movea
	Negx
	Clr
	Neg
	Not
	Tst
	Tas
	Ext
	Swap
	Pea
	Lea
	Jmp
	Jsr
	Movem
	Chk
	Trap
	Link
	Unlk
	Reset
	Nop
	Stop
	Rte
	Rts
	Trapv
	Rtr
	Illegal
	MoveUSP
	MoveToCCR
	MoveToSR
	MoveFromSR
	Addq
	Subq
	Scc
	Dbcc
	Bra
	Bsr
	Bcc
	Moveq
	Or
	Divu
	Divs
	Sbcd
	Sub
	Suba
	Subx
	Cmp
	Cmpa
	Cmpm
	Eor
	And
	Mulu
	Muls
	Abcd
	Exg
	Add
	Adda
	Addx
	Asl
	Asr
	Lsl
	Lsr
	Rol
	Ror
	Roxl
	Roxr
)

var mnemonicNames = map[Mnemonic]string{
	Dc:         "dc",
	Ori:        "ori",
	Andi:       "andi",
	Eori:       "eori",
	Addi:       "addi",
	Subi:       "subi",
	Cmpi:       "cmpi",
	Btst:       "btst",
	Bchg:       "bchg",
	Bclr:       "bclr",
	Bset:       "bset",
	Movep:      "movep",
	Move:       "move",
	Movea:      "movea",
	Negx:       "negx",
	Clr:        "clr",
	Neg:        "neg",
	Not:        "not",
	Tst:        "tst",
	Tas:        "tas",
	Ext:        "ext",
	Swap:       "swap",
	Pea:        "pea",
	Lea:        "lea",
	Jmp:        "jmp",
	Jsr:        "jsr",
	Movem:      "movem",
	Chk:        "chk",
	Trap:       "trap",
	Link:       "link",
	Unlk:       "unlk",
	Reset:      "reset",
	Nop:        "nop",
	Stop:       "stop",
	Rte:        "rte",
	Rts:        "rts",
	Trapv:      "trapv",
	Rtr:        "rtr",
	Illegal:    "illegal",
	MoveUSP:    "move",
	MoveToCCR:  "move",
	MoveToSR:   "move",
	MoveFromSR: "move",
	Addq:       "addq",
	Subq:       "subq",
	Scc:        "s",
	Dbcc:       "db",
	Bra:        "bra",
	Bsr:        "bsr",
	Bcc:        "b",
	Moveq:      "moveq",
	Or:         "or",
	Divu:       "divu",
	Divs:       "divs",
	Sbcd:       "sbcd",
	Sub:        "sub",
	Suba:       "suba",
	Subx:       "subx",
	Cmp:        "cmp",
	Cmpa:       "cmpa",
	Cmpm:       "cmpm",
	Eor:        "eor",
	And:        "and",
	Mulu:       "mulu",
	Muls:       "muls",
	Abcd:       "abcd",
	Exg:        "exg",
	Add:        "add",
	Adda:       "adda",
	Addx:       "addx",
	Asl:        "asl",
	Asr:        "asr",
	Lsl:        "lsl",
	Lsr:        "lsr",
	Rol:        "rol",
	Ror:        "ror",
	Roxl:       "roxl",
	Roxr:       "roxr",
}

// String returns the base mnemonic text, without any condition-code or
// size suffix (those are the Formatter's job).
func (m Mnemonic) String() string {
	if name, ok := mnemonicNames[m]; ok {
		return name
	}
	return "?"
}

// EA is an effective address: one variant per 68000 addressing mode.
type EA struct {
	mode eaMode
	reg  int    // data/address register number, where applicable
	disp int32  // AddrDisp16/AddrIndex8/PcDisp16/PcIndex8 displacement
	idx  *Index // AddrIndex8/PcIndex8 index register
	abs  uint32 // AbsShort (sign-extended)/AbsLong value
	imm  uint32 // Immediate value
	sz   Size   // Immediate size
}

type eaMode int

const (
	eaDataRegDirect eaMode = iota
	eaAddrRegDirect
	eaAddrIndirect
	eaAddrPostInc
	eaAddrPreDec
	eaAddrDisp16
	eaAddrIndex8
	eaAbsShort
	eaAbsLong
	eaPcDisp16
	eaPcIndex8
	eaImmediate
)

// Index describes a brief extension word's index register.
type Index struct {
	// DataReg is true for Dn, false for An.
	DataReg bool
	Reg     int
	// Long is true for a long-sized index, false for word-sized.
	Long bool
	// Scale is the index scale factor (1, 2, 4 or 8) taken from the
	// extension word's scale field. It is reported as encoded for every
	// CPU variant, so a value above 1 can appear when decoding as CPU68000.
	Scale int
}

// DataRegDirect constructs the Dn addressing mode.
func DataRegDirect(reg int) EA { return EA{mode: eaDataRegDirect, reg: reg} }

// AddrRegDirect constructs the An addressing mode.
func AddrRegDirect(reg int) EA { return EA{mode: eaAddrRegDirect, reg: reg} }

// AddrIndirect constructs the (An) addressing mode.
func AddrIndirect(reg int) EA { return EA{mode: eaAddrIndirect, reg: reg} }

// AddrPostInc constructs the (An)+ addressing mode.
func AddrPostInc(reg int) EA { return EA{mode: eaAddrPostInc, reg: reg} }

// AddrPreDec constructs the -(An) addressing mode.
func AddrPreDec(reg int) EA { return EA{mode: eaAddrPreDec, reg: reg} }

// AddrDisp16 constructs the (d16,An) addressing mode.
func AddrDisp16(reg int, disp int16) EA {
	return EA{mode: eaAddrDisp16, reg: reg, disp: int32(disp)}
}

// AddrIndex8 constructs the (d8,An,Xn) addressing mode.
func AddrIndex8(reg int, disp int8, idx Index) EA {
	return EA{mode: eaAddrIndex8, reg: reg, disp: int32(disp), idx: &idx}
}

// AbsShort constructs the (xxx).W addressing mode; value is sign-extended
// per spec.md's table.
func AbsShort(value int16) EA { return EA{mode: eaAbsShort, abs: uint32(int32(value))} }

// AbsLong constructs the (xxx).L addressing mode.
func AbsLong(value uint32) EA { return EA{mode: eaAbsLong, abs: value} }

// PcDisp16 constructs the (d16,PC) addressing mode.
func PcDisp16(disp int16) EA { return EA{mode: eaPcDisp16, disp: int32(disp)} }

// PcIndex8 constructs the (d8,PC,Xn) addressing mode.
func PcIndex8(disp int8, idx Index) EA {
	return EA{mode: eaPcIndex8, disp: int32(disp), idx: &idx}
}

// EAImmediate constructs the immediate addressing mode (mode 7, reg 4).
func EAImmediate(value uint32, sz Size) EA {
	return EA{mode: eaImmediate, imm: value, sz: sz}
}

// Mode reports which addressing-mode variant this EA holds, for callers
// (the formatter, tests) that need to switch on it.
type Mode = eaMode

const (
	ModeDataRegDirect = eaDataRegDirect
	ModeAddrRegDirect = eaAddrRegDirect
	ModeAddrIndirect  = eaAddrIndirect
	ModeAddrPostInc   = eaAddrPostInc
	ModeAddrPreDec    = eaAddrPreDec
	ModeAddrDisp16    = eaAddrDisp16
	ModeAddrIndex8    = eaAddrIndex8
	ModeAbsShort      = eaAbsShort
	ModeAbsLong       = eaAbsLong
	ModePcDisp16      = eaPcDisp16
	ModePcIndex8      = eaPcIndex8
	ModeImmediate     = eaImmediate
)

// Mode returns the EA's addressing-mode variant.
func (e EA) Mode() Mode { return e.mode }

// Reg returns the register number for modes that carry one.
func (e EA) Reg() int { return e.reg }

// Disp returns the signed displacement for disp/index modes.
func (e EA) Disp() int32 { return e.disp }

// Index returns the index register descriptor for indexed modes, or nil.
func (e EA) Index() *Index { return e.idx }

// Abs returns the absolute address for AbsShort/AbsLong.
func (e EA) Abs() uint32 { return e.abs }

// Immediate returns the value and size for the Immediate mode.
func (e EA) Immediate() (uint32, Size) { return e.imm, e.sz }

// extraBytes reports how many extension bytes this EA consumed beyond
// the opcode word, per spec.md's §4.3 table.
func (e EA) extraBytes() int {
	switch e.mode {
	case eaAddrDisp16, eaAddrIndex8, eaPcDisp16, eaPcIndex8, eaAbsShort:
		return 2
	case eaAbsLong:
		return 4
	case eaImmediate:
		return e.sz.Bytes()
	default:
		return 0
	}
}

// OperandKind tags the variant held by an Operand.
type OperandKind int

const (
	OpDataReg OperandKind = iota
	OpAddrReg
	OpEffectiveAddress
	OpImmediate
	OpRegList
	OpQuickImm
	OpBranchTarget
	OpStatusReg
)

// Operand is a tagged union over the eight 68000 operand shapes named in
// spec.md §3.
type Operand struct {
	Kind OperandKind
	Reg  int    // DataReg/AddrReg
	EA   EA     // EffectiveAddress
	Imm  uint32 // Immediate
	Size Size   // Immediate
	Mask uint16 // RegList (bit0=D0..bit15=A7, already normalized)
	Quick int8  // QuickImm
	Target uint32 // BranchTarget, absolute
	SR    bool  // StatusReg: true for SR, false for CCR
}

// DataRegOp constructs a data-register-direct operand.
func DataRegOp(reg int) Operand { return Operand{Kind: OpDataReg, Reg: reg} }

// AddrRegOp constructs an address-register-direct operand.
func AddrRegOp(reg int) Operand { return Operand{Kind: OpAddrReg, Reg: reg} }

// EAOp constructs an effective-address operand.
func EAOp(ea EA) Operand { return Operand{Kind: OpEffectiveAddress, EA: ea} }

// ImmediateOp constructs an immediate operand.
func ImmediateOp(value uint32, sz Size) Operand {
	return Operand{Kind: OpImmediate, Imm: value, Size: sz}
}

// RegListOp constructs a register-list operand (MOVEM).
func RegListOp(mask uint16) Operand { return Operand{Kind: OpRegList, Mask: mask} }

// QuickImmOp constructs a quick-immediate operand (ADDQ/SUBQ/MOVEQ).
func QuickImmOp(v int8) Operand { return Operand{Kind: OpQuickImm, Quick: v} }

// BranchTargetOp constructs an absolute branch-target operand.
func BranchTargetOp(target uint32) Operand { return Operand{Kind: OpBranchTarget, Target: target} }

// StatusRegOp constructs the fixed CCR or SR destination operand used by
// the ORI/ANDI/EORI-to-CCR/SR forms.
func StatusRegOp(sr bool) Operand { return Operand{Kind: OpStatusReg, SR: sr} }

// Instruction is a fully self-contained decoded instruction: it carries
// no reference into the source bytes.
type Instruction struct {
	Mnemonic Mnemonic
	// Size is absent (HasSize=false) for instructions with no size suffix.
	Size      Size
	HasSize   bool
	Operands  []Operand
	Condition ConditionCode
	HasCond   bool
	// MovemPredecrement is set only by MOVEM in -(An) form, recorded so
	// the formatter and listing can tell a mirrored encoding apart without
	// re-deriving it from the operand list.
	MovemPredecrement bool
	// LengthBytes is authoritative for advancing the read position: 2
	// (opcode word) plus every extension byte implied by the decoded
	// operands.
	LengthBytes int
}
