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
	"errors"
	"fmt"

	bin "github.com/happycodelucky/amiga-dis68k/internal/binary"
)

// decodeEA reads the bytes implied by a (mode, register) pair plus any
// extension word, per spec.md §4.3's mode table. sz is the default
// operand size, used only by the Immediate mode to decide how many
// extension bytes to read.
func decodeEA(c *bin.Cursor, cpu CPUVariant, mode, reg int, sz Size) (EA, error) {
	switch mode {
	case 0:
		return DataRegDirect(reg), nil
	case 1:
		return AddrRegDirect(reg), nil
	case 2:
		return AddrIndirect(reg), nil
	case 3:
		return AddrPostInc(reg), nil
	case 4:
		return AddrPreDec(reg), nil
	case 5:
		disp, err := c.ReadI16()
		if err != nil {
			return EA{}, wrapTruncated(err)
		}
		return AddrDisp16(reg, disp), nil
	case 6:
		disp, idx, err := readBriefExtension(c, cpu)
		if err != nil {
			return EA{}, err
		}
		return AddrIndex8(reg, disp, idx), nil
	case 7:
		return decodeEAMode7(c, cpu, reg, sz)
	default:
		return EA{}, fmt.Errorf("%w: mode %d out of range", ErrInvalidEncoding, mode)
	}
}

func decodeEAMode7(c *bin.Cursor, cpu CPUVariant, reg int, sz Size) (EA, error) {
	switch reg {
	case 0:
		v, err := c.ReadI16()
		if err != nil {
			return EA{}, wrapTruncated(err)
		}
		return AbsShort(v), nil
	case 1:
		v, err := c.ReadU32()
		if err != nil {
			return EA{}, wrapTruncated(err)
		}
		return AbsLong(v), nil
	case 2:
		v, err := c.ReadI16()
		if err != nil {
			return EA{}, wrapTruncated(err)
		}
		return PcDisp16(v), nil
	case 3:
		disp, idx, err := readBriefExtension(c, cpu)
		if err != nil {
			return EA{}, err
		}
		return PcIndex8(int8(disp), idx), nil
	case 4:
		return decodeImmediate(c, sz)
	default:
		if cpu == CPU68000 {
			return EA{}, fmt.Errorf("%w: mode 7 reg %d requires 68020+", ErrUnsupported, reg)
		}
		return EA{}, fmt.Errorf("%w: mode 7 reg %d decoding not implemented", ErrUnsupported, reg)
	}
}

// decodeImmediate reads an immediate operand's extension bytes. A
// byte-sized immediate still occupies a full 16-bit extension word; only
// the low 8 bits are the value.
func decodeImmediate(c *bin.Cursor, sz Size) (EA, error) {
	switch sz {
	case Byte, Word:
		v, err := c.ReadU16()
		if err != nil {
			return EA{}, wrapTruncated(err)
		}
		if sz == Byte {
			v &= 0x00FF
		}
		return EAImmediate(uint32(v), sz), nil
	case Long:
		v, err := c.ReadU32()
		if err != nil {
			return EA{}, wrapTruncated(err)
		}
		return EAImmediate(v, sz), nil
	default:
		return EA{}, fmt.Errorf("%w: unknown immediate size", ErrInvalidEncoding)
	}
}

// readBriefExtension reads and decodes the single-word brief index
// extension used by mode 6 / mode7-reg3. The full 68020+ extension
// format (bit8 set) and non-base scale factors are reported rather than
// silently ignored, as spec.md §4.3 requires.
func readBriefExtension(c *bin.Cursor, cpu CPUVariant) (int8, Index, error) {
	w, err := c.ReadU16()
	if err != nil {
		return 0, Index{}, wrapTruncated(err)
	}
	if w&0x0100 != 0 {
		if cpu == CPU68000 {
			return 0, Index{}, fmt.Errorf("%w: full extension word requires 68020+", ErrUnsupported)
		}
		return 0, Index{}, fmt.Errorf("%w: full extension word decoding not implemented", ErrUnsupported)
	}
	idx := Index{
		DataReg: w&0x8000 == 0,
		Reg:     int(w>>12) & 7,
		Long:    w&0x0800 != 0,
		Scale:   1 << ((w >> 9) & 3),
	}
	disp := int8(w & 0xFF)
	return disp, idx, nil
}

func wrapTruncated(err error) error {
	if errors.Is(err, bin.ErrTruncated) {
		return ErrTruncated
	}
	return err
}
