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

// Package format renders a decoded m68k.Instruction as a line of
// Motorola-syntax assembly text.
package format

import (
	"fmt"
	"strings"

	"github.com/happycodelucky/amiga-dis68k/m68k"
)

// Options controls the formatter's rendering choices.
type Options struct {
	// Uppercase renders mnemonics and register names in uppercase.
	Uppercase bool
}

// Instruction renders inst as a Motorola-syntax line, e.g.
// "movea.l  ($0004).w,a6". It never returns an error: every Instruction
// produced by m68k.Decode (including the Dc fallback) is renderable.
func Instruction(inst m68k.Instruction, opts Options) string {
	if inst.Mnemonic == m68k.Dc {
		return dcText(inst, opts)
	}

	var b strings.Builder
	b.WriteString(mnemonicText(inst, opts))

	operands := make([]string, 0, len(inst.Operands))
	for _, op := range inst.Operands {
		operands = append(operands, operandText(op, opts))
	}
	if len(operands) == 0 {
		return b.String()
	}

	b.WriteByte(' ')
	pad(&b, b.Len())
	b.WriteString(strings.Join(operands, ","))
	return b.String()
}

// dcText renders the Dc data-constant fallback as "dc.w     $XXXX" — its
// operand is the raw word value, with no "#" immediate marker.
func dcText(inst m68k.Instruction, opts Options) string {
	mnem := "dc.w"
	if opts.Uppercase {
		mnem = "DC.W"
	}
	var value uint32
	if len(inst.Operands) == 1 {
		value = inst.Operands[0].Imm
	}
	var b strings.Builder
	b.WriteString(mnem)
	b.WriteByte(' ')
	pad(&b, b.Len())
	b.WriteString(hexText(uint64(value), m68k.Word))
	return b.String()
}

// pad fills out the mnemonic column to a fixed width of 9, matching the
// teacher's tabular listing style. It is a no-op once the mnemonic (plus
// the one space already written) has reached the column.
func pad(b *strings.Builder, written int) {
	const col = 9
	for written < col {
		b.WriteByte(' ')
		written++
	}
}

func mnemonicText(inst m68k.Instruction, opts Options) string {
	var b strings.Builder
	b.WriteString(inst.Mnemonic.String())
	if inst.HasCond {
		b.WriteString(inst.Condition.String())
	}
	if inst.HasSize {
		b.WriteByte('.')
		b.WriteString(inst.Size.String())
	}
	text := b.String()
	if opts.Uppercase {
		text = strings.ToUpper(text)
	}
	return text
}

func operandText(op m68k.Operand, opts Options) string {
	var text string
	switch op.Kind {
	case m68k.OpDataReg:
		text = fmt.Sprintf("d%d", op.Reg)
	case m68k.OpAddrReg:
		text = regName(op.Reg)
	case m68k.OpEffectiveAddress:
		text = eaText(op.EA)
	case m68k.OpImmediate:
		text = "#" + hexText(uint64(op.Imm), op.Size)
	case m68k.OpRegList:
		text = regListText(op.Mask)
	case m68k.OpQuickImm:
		text = fmt.Sprintf("#%d", op.Quick)
	case m68k.OpBranchTarget:
		text = "$" + hexDigits(uint64(op.Target), 8)
	case m68k.OpStatusReg:
		if op.SR {
			text = "sr"
		} else {
			text = "ccr"
		}
	default:
		text = "?"
	}
	if opts.Uppercase {
		text = strings.ToUpper(text)
	}
	return text
}

// regName renders an address register, special-casing A7 as "sp" per
// spec.md §4.5.
func regName(reg int) string {
	if reg == 7 {
		return "sp"
	}
	return fmt.Sprintf("a%d", reg)
}

func eaText(ea m68k.EA) string {
	switch ea.Mode() {
	case m68k.ModeDataRegDirect:
		return fmt.Sprintf("d%d", ea.Reg())
	case m68k.ModeAddrRegDirect:
		return regName(ea.Reg())
	case m68k.ModeAddrIndirect:
		return fmt.Sprintf("(%s)", regName(ea.Reg()))
	case m68k.ModeAddrPostInc:
		return fmt.Sprintf("(%s)+", regName(ea.Reg()))
	case m68k.ModeAddrPreDec:
		return fmt.Sprintf("-(%s)", regName(ea.Reg()))
	case m68k.ModeAddrDisp16:
		return fmt.Sprintf("(%s,%s)", dispText(ea.Disp()), regName(ea.Reg()))
	case m68k.ModeAddrIndex8:
		return fmt.Sprintf("(%s,%s,%s)", dispText(ea.Disp()), regName(ea.Reg()), indexText(ea.Index()))
	case m68k.ModeAbsShort:
		return fmt.Sprintf("(%s).w", hexText(uint64(uint16(ea.Abs())), m68k.Word))
	case m68k.ModeAbsLong:
		return fmt.Sprintf("(%s).l", hexText(uint64(ea.Abs()), m68k.Long))
	case m68k.ModePcDisp16:
		return fmt.Sprintf("(%s,pc)", dispText(ea.Disp()))
	case m68k.ModePcIndex8:
		return fmt.Sprintf("(%s,pc,%s)", dispText(ea.Disp()), indexText(ea.Index()))
	case m68k.ModeImmediate:
		v, sz := ea.Immediate()
		return "#" + hexText(uint64(v), sz)
	default:
		return "?"
	}
}

// dispText renders a displacement in decimal, e.g. "-552" or "4" — only
// absolute addresses and immediates use the "$" hex notation.
func dispText(disp int32) string {
	return fmt.Sprintf("%d", disp)
}

func indexText(idx *m68k.Index) string {
	if idx == nil {
		return "?"
	}
	name := "a"
	if idx.DataReg {
		name = "d"
	}
	sz := "w"
	if idx.Long {
		sz = "l"
	}
	if idx.Scale > 1 {
		return fmt.Sprintf("%s%d.%s*%d", name, idx.Reg, sz, idx.Scale)
	}
	return fmt.Sprintf("%s%d.%s", name, idx.Reg, sz)
}

// hexText renders a $-prefixed hex value with the digit count scaled to
// sz (2/byte, 4/word, 8/long), per spec.md §4.5.
func hexText(v uint64, sz m68k.Size) string {
	digits := 4
	switch sz {
	case m68k.Byte:
		digits = 2
	case m68k.Long:
		digits = 8
	}
	return "$" + hexDigits(v, digits)
}

// hexDigits renders v in uppercase hex, zero-padded to at least min digits.
func hexDigits(v uint64, min int) string {
	return fmt.Sprintf("%0*X", min, v)
}

// regListText renders a MOVEM register mask (bit0=d0..bit15=a7) as
// canonical contiguous ranges, e.g. "d0-d3/a0/a4-a6".
func regListText(mask uint16) string {
	var runs []string
	runs = append(runs, ranges(mask&0x00FF, "d")...)
	runs = append(runs, ranges((mask>>8)&0x00FF, "a")...)
	if len(runs) == 0 {
		return "" // an empty MOVEM list is a malformed encoding; render nothing rather than panic
	}
	return strings.Join(runs, "/")
}

func ranges(bits uint16, prefix string) []string {
	var out []string
	reg := 0
	for reg < 8 {
		if bits&(1<<uint(reg)) == 0 {
			reg++
			continue
		}
		start := reg
		for reg < 8 && bits&(1<<uint(reg)) != 0 {
			reg++
		}
		end := reg - 1
		if end == start {
			out = append(out, fmt.Sprintf("%s%d", prefix, start))
		} else {
			out = append(out, fmt.Sprintf("%s%d-%s%d", prefix, start, prefix, end))
		}
	}
	return out
}
