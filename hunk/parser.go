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

package hunk

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"

	bin "github.com/happycodelucky/amiga-dis68k/internal/binary"
)

// Hunk-kind constants, masked from the low 30 bits of a kind word. Only
// the kinds spec.md §4.2 gives distinct handling to are named; kinds above
// HUNK_ABSRELOC16 take the debug-like passthrough branch, and any other
// unnamed kind fails with ErrUnknownHunkKind.
const (
	hunkCode         = 0x000003E9
	hunkData         = 0x000003EA
	hunkBSS          = 0x000003EB
	hunkReloc32      = 0x000003EC
	hunkExt          = 0x000003EF
	hunkSymbol       = 0x000003F0
	hunkDebug        = 0x000003F1
	hunkEnd          = 0x000003F2
	hunkReloc32Short = 0x000003FC
	hunkAbsReloc16   = 0x000003FE
)

const magic = 0x000003F3
const unitMagic = 0x000003E7

const kindMask = 0x3FFFFFFF

// memory placement bits, shared by the size table and the kind word.
const (
	memAny      = 0b00
	memChip     = 0b01
	memFast     = 0b10
	memAdvisory = 0b11
)

var nameDecoder = charmap.ISO8859_1.NewDecoder()

// decodeName converts Amiga-native name bytes (ASCII, occasionally
// extended with high-bit accented characters from non-US Amiga keymaps)
// into a clean UTF-8 string, trimming the zero padding used to round the
// field up to a longword multiple.
func decodeName(raw []byte) string {
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	raw = raw[:end]
	s, err := nameDecoder.String(string(raw))
	if err != nil {
		return string(raw)
	}
	return s
}

// sizeTableEntry is one parsed entry from the hunk size table.
type sizeTableEntry struct {
	memory MemoryType
	size   uint32 // bytes
}

// Parse reads bytes as a loadable Amiga Hunk executable and returns its
// structured representation. It aborts on the first error encountered;
// there is no partial result.
func Parse(bytes []byte) (*HunkFile, error) {
	c := bin.NewCursor(bytes)

	if err := checkMagic(c); err != nil {
		return nil, err
	}

	libs, err := readResidentLibraries(c)
	if err != nil {
		return nil, err
	}

	hunkCountWord, firstHunk, lastHunk, err := readHunkRange(c)
	if err != nil {
		return nil, err
	}
	if lastHunk-firstHunk+1 != hunkCountWord {
		return nil, fmt.Errorf("%w: declared %d, range implies %d",
			ErrSizeTableMismatch, hunkCountWord, lastHunk-firstHunk+1)
	}

	sizeTable, err := readSizeTable(c, hunkCountWord)
	if err != nil {
		return nil, err
	}

	hunks, sawExt, err := parseHunks(c, sizeTable)
	if err != nil {
		return nil, err
	}

	return &HunkFile{
		FirstHunk:         firstHunk,
		LastHunk:          lastHunk,
		ResidentLibraries: libs,
		Hunks:             hunks,
		SawExt:            sawExt,
	}, nil
}

func checkMagic(c *bin.Cursor) error {
	m, err := c.ReadU32()
	if err != nil {
		return fmt.Errorf("read magic: %w", translateErr(err))
	}
	switch m {
	case magic:
		return nil
	case unitMagic:
		return fmt.Errorf("%w: unit", ErrUnsupportedKind)
	default:
		return fmt.Errorf("%w: %#08x", ErrBadMagic, m)
	}
}

func readResidentLibraries(c *bin.Cursor) ([]string, error) {
	var libs []string
	for {
		lengthLongwords, err := c.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("read resident library length: %w", translateErr(err))
		}
		if lengthLongwords == 0 {
			return libs, nil
		}
		raw, err := c.ReadBytes(int(lengthLongwords) * 4)
		if err != nil {
			return nil, fmt.Errorf("read resident library name: %w", translateErr(err))
		}
		libs = append(libs, decodeName(raw))
	}
}

func readHunkRange(c *bin.Cursor) (count, first, last uint32, err error) {
	if count, err = c.ReadU32(); err != nil {
		return 0, 0, 0, fmt.Errorf("read hunk table size: %w", translateErr(err))
	}
	if first, err = c.ReadU32(); err != nil {
		return 0, 0, 0, fmt.Errorf("read first hunk: %w", translateErr(err))
	}
	if last, err = c.ReadU32(); err != nil {
		return 0, 0, 0, fmt.Errorf("read last hunk: %w", translateErr(err))
	}
	return count, first, last, nil
}

func readSizeTable(c *bin.Cursor, count uint32) ([]sizeTableEntry, error) {
	table := make([]sizeTableEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		word, err := c.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("read size table entry %d: %w", i, translateErr(err))
		}
		memBits := word >> 30
		sizeLongwords := word & 0x3FFFFFFF
		mem := memoryFromBits(memBits)
		if memBits == memAdvisory {
			if _, err := c.ReadU32(); err != nil {
				return nil, fmt.Errorf("read extended size specifier %d: %w", i, translateErr(err))
			}
		}
		table = append(table, sizeTableEntry{memory: mem, size: sizeLongwords * 4})
	}
	return table, nil
}

func memoryFromBits(bits uint32) MemoryType {
	switch bits {
	case memChip:
		return Chip
	case memFast:
		return Fast
	case memAdvisory:
		return Advisory
	default:
		return Any
	}
}

// hunkParser drives the per-hunk dispatch loop. The size-table index for
// the content hunk currently being built is always len(hunks): one size
// table entry is consumed per content hunk, in order. finalized counts
// HUNK_END markers seen and is what the loop actually waits for, since
// metadata hunks (RELOC/SYMBOL/DEBUG/EXT) for the last content hunk still
// follow it in the stream after it has already been appended to hunks.
type hunkParser struct {
	c         *bin.Cursor
	sizeTable []sizeTableEntry
	hunks     []Hunk
	finalized int
	sawExt    bool
}

func parseHunks(c *bin.Cursor, sizeTable []sizeTableEntry) ([]Hunk, bool, error) {
	p := &hunkParser{c: c, sizeTable: sizeTable}
	p.hunks = make([]Hunk, 0, len(sizeTable))

	for p.finalized < len(sizeTable) {
		kindWord, err := c.ReadU32()
		if err != nil {
			return nil, false, fmt.Errorf("read hunk kind: %w", translateErr(err))
		}
		kind := kindWord & kindMask
		if err := p.dispatch(kind); err != nil {
			return nil, false, err
		}
	}
	return p.hunks, p.sawExt, nil
}

func (p *hunkParser) dispatch(kind uint32) error {
	switch {
	case kind == hunkCode || kind == hunkData:
		return p.readContentHunk(kind)
	case kind == hunkBSS:
		return p.readBSSHunk()
	case kind == hunkReloc32:
		return p.readReloc32(false)
	case kind == hunkReloc32Short:
		return p.readReloc32(true)
	case kind == hunkSymbol:
		return p.readSymbols()
	case kind == hunkDebug:
		return p.readDebug()
	case kind == hunkEnd:
		p.finalized++
		return nil
	case kind == hunkExt:
		p.sawExt = true
		return p.skipExt()
	case kind > hunkAbsReloc16:
		return p.readDebugLikePassthrough()
	default:
		return fmt.Errorf("%w: %#08x", ErrUnknownHunkKind, kind)
	}
}

func (p *hunkParser) requireSizeTableEntry() (sizeTableEntry, error) {
	idx := len(p.hunks)
	if idx >= len(p.sizeTable) {
		return sizeTableEntry{}, fmt.Errorf("hunk: content hunk index %d out of range", idx)
	}
	return p.sizeTable[idx], nil
}

func (p *hunkParser) readContentHunk(kind uint32) error {
	entry, err := p.requireSizeTableEntry()
	if err != nil {
		return err
	}
	sizeLongwords, err := p.c.ReadU32()
	if err != nil {
		return fmt.Errorf("read content hunk size: %w", translateErr(err))
	}
	payload, err := p.c.ReadBytes(int(sizeLongwords) * 4)
	if err != nil {
		return fmt.Errorf("read content hunk payload: %w", translateErr(err))
	}
	owned := make([]byte, len(payload))
	copy(owned, payload)

	h := Hunk{
		Memory:  entry.memory,
		Size:    entry.size,
		Payload: owned,
	}
	if kind == hunkCode {
		h.Kind = Code
	} else {
		h.Kind = Data
	}
	p.hunks = append(p.hunks, h)
	return nil
}

func (p *hunkParser) readBSSHunk() error {
	entry, err := p.requireSizeTableEntry()
	if err != nil {
		return err
	}
	sizeLongwords, err := p.c.ReadU32()
	if err != nil {
		return fmt.Errorf("read bss hunk size: %w", translateErr(err))
	}
	readSize := sizeLongwords * 4
	allocSize := entry.size
	if readSize > allocSize {
		allocSize = readSize
	}
	p.hunks = append(p.hunks, Hunk{
		Kind:   Bss,
		Memory: entry.memory,
		Size:   allocSize,
	})
	return nil
}

// lastContentHunk returns a pointer to the most recently appended content
// hunk, failing with ErrOrphanMetadata if none has been parsed yet.
func (p *hunkParser) lastContentHunk() (*Hunk, error) {
	if len(p.hunks) == 0 {
		return nil, ErrOrphanMetadata
	}
	return &p.hunks[len(p.hunks)-1], nil
}

func (p *hunkParser) readReloc32(short bool) error {
	target, err := p.lastContentHunk()
	if err != nil {
		return err
	}
	for {
		var count, hunkIdx uint32
		if short {
			w, err := p.c.ReadU16()
			if err != nil {
				return fmt.Errorf("read reloc32short count: %w", translateErr(err))
			}
			count = uint32(w)
		} else {
			w, err := p.c.ReadU32()
			if err != nil {
				return fmt.Errorf("read reloc32 count: %w", translateErr(err))
			}
			count = w
		}
		if count == 0 {
			if short {
				if err := p.c.AlignToLongword(); err != nil {
					return fmt.Errorf("align after reloc32short: %w", translateErr(err))
				}
			}
			return nil
		}
		if short {
			w, err := p.c.ReadU16()
			if err != nil {
				return fmt.Errorf("read reloc32short target: %w", translateErr(err))
			}
			hunkIdx = uint32(w)
		} else {
			w, err := p.c.ReadU32()
			if err != nil {
				return fmt.Errorf("read reloc32 target: %w", translateErr(err))
			}
			hunkIdx = w
		}
		offsets := make([]uint32, count)
		for i := range offsets {
			if short {
				w, err := p.c.ReadU16()
				if err != nil {
					return fmt.Errorf("read reloc32short offset: %w", translateErr(err))
				}
				offsets[i] = uint32(w)
			} else {
				w, err := p.c.ReadU32()
				if err != nil {
					return fmt.Errorf("read reloc32 offset: %w", translateErr(err))
				}
				offsets[i] = w
			}
		}
		target.Relocations = append(target.Relocations, Relocation{
			TargetHunk: hunkIdx,
			Offsets:    offsets,
		})
	}
}

func (p *hunkParser) readSymbols() error {
	target, err := p.lastContentHunk()
	if err != nil {
		return err
	}
	for {
		nameLongwords, err := p.c.ReadU32()
		if err != nil {
			return fmt.Errorf("read symbol name length: %w", translateErr(err))
		}
		if nameLongwords == 0 {
			return nil
		}
		raw, err := p.c.ReadBytes(int(nameLongwords) * 4)
		if err != nil {
			return fmt.Errorf("read symbol name: %w", translateErr(err))
		}
		value, err := p.c.ReadU32()
		if err != nil {
			return fmt.Errorf("read symbol value: %w", translateErr(err))
		}
		target.Symbols = append(target.Symbols, Symbol{
			Name:  decodeName(raw),
			Value: value,
		})
	}
}

func (p *hunkParser) readDebug() error {
	target, err := p.lastContentHunk()
	if err != nil {
		return err
	}
	sizeLongwords, err := p.c.ReadU32()
	if err != nil {
		return fmt.Errorf("read debug size: %w", translateErr(err))
	}
	raw, err := p.c.ReadBytes(int(sizeLongwords) * 4)
	if err != nil {
		return fmt.Errorf("read debug payload: %w", translateErr(err))
	}
	target.Debug = append(target.Debug, raw...)
	return nil
}

func (p *hunkParser) readDebugLikePassthrough() error {
	// Hunk kinds above HUNK_ABSRELOC16 are not defined by this decoder;
	// treat them like a debug block (length-prefixed, skippable) per
	// spec.md's §4.2 fallback rule, but do not require a preceding
	// content hunk since these kinds are not known to attach to one.
	sizeLongwords, err := p.c.ReadU32()
	if err != nil {
		return fmt.Errorf("read passthrough size: %w", translateErr(err))
	}
	if err := p.c.Skip(int(sizeLongwords) * 4); err != nil {
		return fmt.Errorf("skip passthrough payload: %w", translateErr(err))
	}
	return nil
}

// skipExt consumes a HUNK_EXT block without recording its contents. Each
// entry's length word packs a sub-type into its upper 8 bits; values
// >=128 carry a count and that many 4-byte offsets, and the common-symbol
// sub-types (130, 137) additionally carry a size longword before the
// offset list.
func (p *hunkParser) skipExt() error {
	if _, err := p.lastContentHunk(); err != nil {
		return err
	}
	for {
		lengthWord, err := p.c.ReadU32()
		if err != nil {
			return fmt.Errorf("read ext entry length: %w", translateErr(err))
		}
		nameLongwords := lengthWord & 0x00FFFFFF
		if nameLongwords == 0 {
			return nil
		}
		subType := lengthWord >> 24
		if err := p.c.Skip(int(nameLongwords) * 4); err != nil {
			return fmt.Errorf("skip ext entry name: %w", translateErr(err))
		}
		if subType < 128 {
			if _, err := p.c.ReadU32(); err != nil {
				return fmt.Errorf("read ext definition value: %w", translateErr(err))
			}
			continue
		}
		if subType == 130 || subType == 137 {
			if _, err := p.c.ReadU32(); err != nil {
				return fmt.Errorf("read ext common-symbol size: %w", translateErr(err))
			}
		}
		count, err := p.c.ReadU32()
		if err != nil {
			return fmt.Errorf("read ext reference count: %w", translateErr(err))
		}
		if err := p.c.Skip(int(count) * 4); err != nil {
			return fmt.Errorf("skip ext reference offsets: %w", translateErr(err))
		}
	}
}

// translateErr maps the internal binary.Cursor's sentinel onto this
// package's own ErrTruncated so callers of hunk.Parse only ever observe
// this package's error taxonomy.
func translateErr(err error) error {
	if errors.Is(err, bin.ErrTruncated) {
		return ErrTruncated
	}
	return err
}
