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
)

// These cases are spec.md §8's concrete scenarios, verbatim.

func TestDecodeRTS(t *testing.T) {
	t.Parallel()

	inst, n, err := Decode([]byte{0x4E, 0x75}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Rts || inst.HasSize || len(inst.Operands) != 0 {
		t.Errorf("inst = %+v, want Rts with no size/operands", inst)
	}
	if n != 2 || inst.LengthBytes != 2 {
		t.Errorf("n = %d, LengthBytes = %d, want 2/2", n, inst.LengthBytes)
	}
}

func TestDecodeJSRDisp16(t *testing.T) {
	t.Parallel()

	inst, n, err := Decode([]byte{0x4E, 0xAE, 0xFD, 0xD8}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Jsr {
		t.Fatalf("Mnemonic = %v, want Jsr", inst.Mnemonic)
	}
	if len(inst.Operands) != 1 || inst.Operands[0].Kind != OpEffectiveAddress {
		t.Fatalf("Operands = %+v, want one EA", inst.Operands)
	}
	ea := inst.Operands[0].EA
	if ea.Mode() != ModeAddrDisp16 || ea.Reg() != 6 || ea.Disp() != -552 {
		t.Errorf("EA = %+v, want AddrDisp16(6, -552)", ea)
	}
	if n != 4 {
		t.Errorf("n = %d, want 4", n)
	}
}

func TestDecodeMoveaLongAbsShort(t *testing.T) {
	t.Parallel()

	inst, n, err := Decode([]byte{0x2C, 0x78, 0x00, 0x04}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Movea || inst.Size != Long || !inst.HasSize {
		t.Fatalf("inst = %+v, want Movea.Long", inst)
	}
	if len(inst.Operands) != 2 {
		t.Fatalf("len(Operands) = %d, want 2", len(inst.Operands))
	}
	src := inst.Operands[0]
	if src.Kind != OpEffectiveAddress || src.EA.Mode() != ModeAbsShort || src.EA.Abs() != 4 {
		t.Errorf("src = %+v, want AbsShort(4)", src)
	}
	dst := inst.Operands[1]
	if dst.Kind != OpAddrReg || dst.Reg != 6 {
		t.Errorf("dst = %+v, want AddrReg(6)", dst)
	}
	if n != 4 {
		t.Errorf("n = %d, want 4", n)
	}
}

func TestDecodeMoveqZero(t *testing.T) {
	t.Parallel()

	inst, n, err := Decode([]byte{0x70, 0x00}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Moveq {
		t.Fatalf("Mnemonic = %v, want Moveq", inst.Mnemonic)
	}
	if len(inst.Operands) != 2 || inst.Operands[0].Kind != OpQuickImm || inst.Operands[0].Quick != 0 || inst.Operands[1].Reg != 0 {
		t.Errorf("Operands = %+v, want [QuickImm(0) DataReg(0)]", inst.Operands)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
}

func TestDecodeBeqWordDisplacement(t *testing.T) {
	t.Parallel()

	inst, n, err := Decode([]byte{0x67, 0x00, 0x00, 0x06}, 0x12, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Bcc || !inst.HasCond || inst.Condition != CondEQ {
		t.Fatalf("inst = %+v, want Bcc/EQ", inst)
	}
	if len(inst.Operands) != 1 || inst.Operands[0].Kind != OpBranchTarget || inst.Operands[0].Target != 0x1A {
		t.Errorf("Operands = %+v, want [BranchTarget(0x1A)]", inst.Operands)
	}
	if n != 4 {
		t.Errorf("n = %d, want 4", n)
	}
}

func TestDecodeUnmatchedGroupAFallsBackToDc(t *testing.T) {
	t.Parallel()

	inst, n, err := Decode([]byte{0xA1, 0x23}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Dc || n != 2 {
		t.Errorf("inst = %+v, n = %d, want Dc/2", inst, n)
	}
	if len(inst.Operands) != 1 || inst.Operands[0].Imm != 0xA123 {
		t.Errorf("Operands = %+v, want [Immediate(0xA123)]", inst.Operands)
	}
}

func TestDecodeTruncatedOpcodeWord(t *testing.T) {
	t.Parallel()

	_, _, err := Decode([]byte{0x4E}, 0, 0, CPU68000)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("err = %v, want ErrTruncated", err)
	}
}

func TestDecodeMoveByteToAddrRegIsInvalid(t *testing.T) {
	t.Parallel()

	// MOVE.B with dest mode=1 (An direct): 0001 rrr 001 mmmrrr
	_, _, err := Decode([]byte{0x12, 0x40}, 0, 0, CPU68000)
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("err = %v, want ErrInvalidEncoding", err)
	}
}

func TestDecodeBranch32BitDisplacementUnsupportedOn68000(t *testing.T) {
	t.Parallel()

	_, _, err := Decode([]byte{0x67, 0xFF, 0, 0, 0, 0}, 0, 0, CPU68000)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

// TestMovemMirror is spec.md §8's MOVEM mirror property: for every bit
// position i, a mask of 1<<i encoded in -(An) form decodes to the same
// register as mask 1<<(15-i) in the non-predecrement form.
func TestMovemMirror(t *testing.T) {
	t.Parallel()

	for i := 0; i < 16; i++ {
		predec := []byte{0x48, 0xA7, 0, 0} // movem.w d0-a7(selected),-(sp)
		mask := uint16(1) << uint(i)
		predec[2] = byte(mask >> 8)
		predec[3] = byte(mask)

		instA, _, err := Decode(predec, 0, 0, CPU68000)
		if err != nil {
			t.Fatalf("Decode(predecrement) unexpected error: %v", err)
		}

		normal := []byte{0x48, 0x90, 0, 0} // movem.w d0-a7(selected),(a0)
		mirror := uint16(1) << uint(15-i)
		normal[2] = byte(mirror >> 8)
		normal[3] = byte(mirror)
		instB, _, err := Decode(normal, 0, 0, CPU68000)
		if err != nil {
			t.Fatalf("Decode(normal) unexpected error: %v", err)
		}

		maskA := instA.Operands[0].Mask
		maskB := instB.Operands[0].Mask
		if maskA != maskB {
			t.Errorf("bit %d: predecrement mask %016b != normal mask %016b", i, maskA, maskB)
		}
		if !instA.MovemPredecrement || instB.MovemPredecrement {
			t.Errorf("bit %d: predecrement flags = %v/%v", i, instA.MovemPredecrement, instB.MovemPredecrement)
		}
	}
}

// TestLengthConsistency checks spec.md §8's length-consistency property
// across a handful of representative encodings with varying extension
// word counts.
func TestLengthConsistency(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data []byte
		want int
	}{
		{"rts", []byte{0x4E, 0x75}, 2},
		{"jsr disp16", []byte{0x4E, 0xAE, 0xFD, 0xD8}, 4},
		{"movea.l absw", []byte{0x2C, 0x78, 0x00, 0x04}, 4},
		{"movea.l absl", []byte{0x2C, 0x79, 0x00, 0x00, 0x10, 0x00}, 6},
		{"moveq", []byte{0x70, 0x00}, 2},
		{"beq word disp", []byte{0x67, 0x00, 0x00, 0x06}, 4},
		{"beq byte disp", []byte{0x67, 0x06}, 2},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			inst, n, err := Decode(tc.data, 0, 0, CPU68000)
			if err != nil {
				t.Fatalf("Decode() unexpected error: %v", err)
			}
			if n != tc.want || inst.LengthBytes != tc.want {
				t.Errorf("n = %d, LengthBytes = %d, want %d", n, inst.LengthBytes, tc.want)
			}
			if inst.LengthBytes%2 != 0 || inst.LengthBytes < 2 || inst.LengthBytes > 10 {
				t.Errorf("LengthBytes = %d violates the 2..=10-even invariant", inst.LengthBytes)
			}
		})
	}
}

// TestMoveDestinationSymmetry is spec.md §8's MOVE-destination-symmetry
// property for a representative matrix of (src_mode, dst_mode) pairs.
func TestMoveDestinationSymmetry(t *testing.T) {
	t.Parallel()

	// MOVE.W Dn,Dn for every (src, dst) register pair: word opcode group 3,
	// mode 0 on both sides, varying only the register fields.
	for src := 0; src < 8; src++ {
		for dst := 0; dst < 8; dst++ {
			if src == dst {
				continue
			}
			w := uint16(0x3000) | uint16(dst)<<9 | uint16(src)
			inst, n, err := Decode([]byte{byte(w >> 8), byte(w)}, 0, 0, CPU68000)
			if err != nil {
				t.Fatalf("src=%d dst=%d: unexpected error: %v", src, dst, err)
			}
			if n != 2 {
				t.Fatalf("src=%d dst=%d: n = %d, want 2", src, dst, n)
			}
			if inst.Operands[0].EA.Reg() != src {
				t.Errorf("src=%d dst=%d: decoded source reg = %d", src, dst, inst.Operands[0].EA.Reg())
			}
			if inst.Operands[1].EA.Reg() != dst {
				t.Errorf("src=%d dst=%d: decoded dest reg = %d", src, dst, inst.Operands[1].EA.Reg())
			}
		}
	}
}

// TestDecodeAndByteRegisterToMemory covers AND.B Dn,<ea>, opmode 4 in
// group C — a valid base-68000 form that shares its opmode with ABCD.
func TestDecodeAndByteRegisterToMemory(t *testing.T) {
	t.Parallel()

	// 0xC110 = and.b d0,(a0): reg=0, opmode=100 (AND.B Dn,ea), mode=2 (addr indirect), eaReg=0.
	inst, n, err := Decode([]byte{0xC1, 0x10}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != And || inst.Size != Byte || !inst.HasSize {
		t.Fatalf("inst = %+v, want And.Byte", inst)
	}
	if len(inst.Operands) != 2 || inst.Operands[0].Kind != OpDataReg || inst.Operands[0].Reg != 0 {
		t.Fatalf("Operands = %+v, want [DataReg(0) EA]", inst.Operands)
	}
	if inst.Operands[1].Kind != OpEffectiveAddress || inst.Operands[1].EA.Mode() != ModeAddrIndirect {
		t.Errorf("Operands[1] = %+v, want AddrIndirect EA", inst.Operands[1])
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
}

func TestDecodeOriToCCR(t *testing.T) {
	t.Parallel()

	// 0x003C = ori #imm,ccr, immediate word 0x00FF.
	inst, n, err := Decode([]byte{0x00, 0x3C, 0x00, 0xFF}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Ori || inst.Size != Byte {
		t.Fatalf("inst = %+v, want Ori.Byte", inst)
	}
	if len(inst.Operands) != 2 || inst.Operands[0].Imm != 0xFF {
		t.Fatalf("Operands = %+v, want immediate 0xFF first", inst.Operands)
	}
	if inst.Operands[1].Kind != OpStatusReg || inst.Operands[1].SR {
		t.Errorf("Operands[1] = %+v, want StatusReg(CCR)", inst.Operands[1])
	}
	if n != 4 {
		t.Errorf("n = %d, want 4", n)
	}
}

func TestDecodeAndiToSR(t *testing.T) {
	t.Parallel()

	// 0x027C = andi #imm,sr, immediate word 0x2700.
	inst, n, err := Decode([]byte{0x02, 0x7C, 0x27, 0x00}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Andi || inst.Size != Word {
		t.Fatalf("inst = %+v, want Andi.Word", inst)
	}
	if len(inst.Operands) != 2 || inst.Operands[0].Imm != 0x2700 {
		t.Fatalf("Operands = %+v, want immediate 0x2700 first", inst.Operands)
	}
	if inst.Operands[1].Kind != OpStatusReg || !inst.Operands[1].SR {
		t.Errorf("Operands[1] = %+v, want StatusReg(SR)", inst.Operands[1])
	}
	if n != 4 {
		t.Errorf("n = %d, want 4", n)
	}
}

func TestDecodeExgDataRegisters(t *testing.T) {
	t.Parallel()

	// 0xC745 = exg d3,d5: reg=3, opmode=5 (bits8-6=101), mode=0, eaReg=5.
	inst, n, err := Decode([]byte{0xC7, 0x45}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Exg {
		t.Fatalf("inst = %+v, want Exg", inst)
	}
	if len(inst.Operands) != 2 || inst.Operands[0].Kind != OpDataReg || inst.Operands[0].Reg != 3 ||
		inst.Operands[1].Kind != OpDataReg || inst.Operands[1].Reg != 5 {
		t.Errorf("Operands = %+v, want d3,d5", inst.Operands)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
}

func TestDecodeExgDataAndAddrRegister(t *testing.T) {
	t.Parallel()

	// 0xC58C = exg d2,a4: reg=2, opmode=6 (bits8-6=110), mode=1, eaReg=4.
	inst, n, err := Decode([]byte{0xC5, 0x8C}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Exg {
		t.Fatalf("inst = %+v, want Exg", inst)
	}
	if len(inst.Operands) != 2 || inst.Operands[0].Kind != OpDataReg || inst.Operands[0].Reg != 2 ||
		inst.Operands[1].Kind != OpAddrReg || inst.Operands[1].Reg != 4 {
		t.Errorf("Operands = %+v, want d2,a4", inst.Operands)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
}

func TestDecodeAndWordRegisterToMemoryOpmode5(t *testing.T) {
	t.Parallel()

	// 0xC151 = and.w d0,(a1): reg=0, opmode=5, mode=2 (addr indirect),
	// eaReg=1 — the AND fallthrough past the EXG mode check in opmode 5.
	inst, n, err := Decode([]byte{0xC1, 0x51}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != And || inst.Size != Word {
		t.Fatalf("inst = %+v, want And.Word", inst)
	}
	if len(inst.Operands) != 2 || inst.Operands[0].Kind != OpDataReg || inst.Operands[0].Reg != 0 ||
		inst.Operands[1].Kind != OpEffectiveAddress || inst.Operands[1].EA.Mode() != ModeAddrIndirect {
		t.Errorf("Operands = %+v, want d0,(a1)", inst.Operands)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}
}

func TestDecodeLeaScaledIndex(t *testing.T) {
	t.Parallel()

	// 0x41F2 = lea (8,a2,d1.w*4),a0: brief extension 0x1408 sets Dn index
	// reg 1, word size, scale field 10b (x4), displacement 8.
	inst, n, err := Decode([]byte{0x41, 0xF2, 0x14, 0x08}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Lea {
		t.Fatalf("inst = %+v, want Lea", inst)
	}
	if len(inst.Operands) != 2 || inst.Operands[0].Kind != OpEffectiveAddress {
		t.Fatalf("Operands = %+v, want EA first", inst.Operands)
	}
	ea := inst.Operands[0].EA
	if ea.Mode() != ModeAddrIndex8 {
		t.Fatalf("EA.Mode() = %v, want ModeAddrIndex8", ea.Mode())
	}
	idx := ea.Index()
	if idx == nil || !idx.DataReg || idx.Reg != 1 || idx.Long || idx.Scale != 4 {
		t.Errorf("Index() = %+v, want d1.w scale 4", idx)
	}
	if n != 4 {
		t.Errorf("n = %d, want 4", n)
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	t.Parallel()

	// Sanity check that high bits of a data byte never leak into dispatch:
	// NOP (0x4E71) surrounded by unrelated trailing bytes still decodes
	// and reports length 2, leaving the trailer untouched.
	inst, n, err := Decode([]byte{0x4E, 0x71, 0xFF, 0xFF}, 0, 0, CPU68000)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if inst.Mnemonic != Nop || n != 2 {
		t.Errorf("inst = %+v, n = %d, want Nop/2", inst, n)
	}
}
