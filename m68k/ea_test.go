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
	"testing"

	bin "github.com/happycodelucky/amiga-dis68k/internal/binary"
)

func TestDecodeEADirectModes(t *testing.T) {
	t.Parallel()

	c := bin.NewCursor(nil)
	ea, err := decodeEA(c, CPU68000, 0, 3, Long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ea.Mode() != ModeDataRegDirect || ea.Reg() != 3 {
		t.Errorf("ea = %+v, want DataRegDirect(3)", ea)
	}
}

func TestDecodeEAAddrDisp16(t *testing.T) {
	t.Parallel()

	c := bin.NewCursor([]byte{0xFD, 0xD8})
	ea, err := decodeEA(c, CPU68000, 5, 6, Long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ea.Mode() != ModeAddrDisp16 || ea.Reg() != 6 || ea.Disp() != -552 {
		t.Errorf("ea = %+v, want AddrDisp16(6, -552)", ea)
	}
}

func TestDecodeEABriefIndexExtension(t *testing.T) {
	t.Parallel()

	// d1 Word index, scale implicitly 1 on base 68000, displacement 0x10.
	c := bin.NewCursor([]byte{0x10, 0x10})
	ea, err := decodeEA(c, CPU68000, 6, 2, Long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ea.Mode() != ModeAddrIndex8 || ea.Reg() != 2 || ea.Disp() != 0x10 {
		t.Errorf("ea = %+v, want AddrIndex8(2, 0x10, ...)", ea)
	}
	idx := ea.Index()
	if idx == nil || !idx.DataReg || idx.Reg != 1 || idx.Long {
		t.Errorf("Index = %+v, want {DataReg:true Reg:1 Long:false}", idx)
	}
}

func TestDecodeEAFullExtensionUnsupportedOn68000(t *testing.T) {
	t.Parallel()

	c := bin.NewCursor([]byte{0x01, 0x00}) // bit8 set: full extension format
	_, err := decodeEA(c, CPU68000, 6, 0, Word)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestDecodeEAMode7Reserved(t *testing.T) {
	t.Parallel()

	c := bin.NewCursor(nil)
	_, err := decodeEA(c, CPU68000, 7, 5, Word)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestDecodeEAImmediateByteQuirk(t *testing.T) {
	t.Parallel()

	c := bin.NewCursor([]byte{0x12, 0x34})
	ea, err := decodeEA(c, CPU68000, 7, 4, Byte)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, sz := ea.Immediate()
	if sz != Byte || v != 0x34 {
		t.Errorf("Immediate() = (%#x, %v), want (0x34, Byte)", v, sz)
	}
}

func TestDecodeEAImmediateLong(t *testing.T) {
	t.Parallel()

	c := bin.NewCursor([]byte{0x00, 0x01, 0x00, 0x00})
	ea, err := decodeEA(c, CPU68000, 7, 4, Long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, sz := ea.Immediate()
	if sz != Long || v != 0x00010000 {
		t.Errorf("Immediate() = (%#x, %v), want (0x10000, Long)", v, sz)
	}
}

func TestDecodeEATruncated(t *testing.T) {
	t.Parallel()

	c := bin.NewCursor([]byte{0x00})
	_, err := decodeEA(c, CPU68000, 5, 0, Word)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}
