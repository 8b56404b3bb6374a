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

// Package listing walks a parsed hunk.HunkFile and produces an ordered,
// line-oriented textual disassembly or hunk-structure summary.
package listing

import (
	"fmt"
	"strings"

	"github.com/happycodelucky/amiga-dis68k/format"
	"github.com/happycodelucky/amiga-dis68k/hunk"
	"github.com/happycodelucky/amiga-dis68k/m68k"
)

// Line is one output row: text plus the address it starts at, when one
// applies (header, section-header and bss lines and blank separators carry
// no address).
type Line struct {
	Text    string
	Address uint32
	HasAddr bool
}

// Options controls the listing generator's output shape.
type Options struct {
	CPU            m68k.CPUVariant
	Uppercase      bool
	ShowHex        bool
	ShowLineNumber bool
	HunkInfo       bool
}

// Generate walks hf and returns the full listing as lines, honoring opts.
func Generate(hf *hunk.HunkFile, opts Options) []Line {
	if opts.HunkInfo {
		return hunkInfo(hf)
	}

	var lines []Line
	lines = append(lines,
		Line{Text: "; amiga-dis68k disassembly"},
		Line{Text: fmt.Sprintf("; %d hunk(s)", len(hf.Hunks))},
		Line{Text: ""},
	)

	for i, h := range hf.Hunks {
		lines = append(lines, sectionHeader(i, h))
		switch h.Kind {
		case hunk.Code:
			lines = append(lines, disassembleCode(h, opts)...)
		case hunk.Data:
			lines = append(lines, dumpData(h)...)
		case hunk.Bss:
			lines = append(lines, Line{Text: fmt.Sprintf("\tds.b\t%d", h.Size)})
		}
		lines = append(lines, Line{Text: ""})
	}

	if opts.ShowLineNumber {
		numberLines(lines)
	}
	return lines
}

func sectionHeader(index int, h hunk.Hunk) Line {
	return Line{Text: fmt.Sprintf(
		"; %s SECTION hunk_%d, %s (hunk %d, %d bytes, mem=%s) %s",
		strings.Repeat("─", 4), index, h.Kind, index, h.Size, h.Memory,
		strings.Repeat("─", 4),
	)}
}

// disassembleCode decodes h's payload instruction by instruction. Decode
// failures and buffer exhaustion recover by emitting a dc.w/dc.b fallback
// line and advancing a safe minimum, guaranteeing the loop always makes
// forward progress and fully consumes the hunk (spec.md §4.6 / §8).
func disassembleCode(h hunk.Hunk, opts Options) []Line {
	var lines []Line
	offset := 0
	payload := h.Payload

	for offset < len(payload) {
		if len(payload)-offset < 2 {
			lines = append(lines, codeLine(payload[offset:], uint32(offset), "\tdc.b\t"+fmt.Sprintf("$%02X", payload[offset]), opts))
			offset++
			continue
		}

		inst, n, err := m68k.Decode(payload[offset:], uint32(offset), 0, opts.CPU)
		if err != nil {
			word := uint32(payload[offset])<<8 | uint32(payload[offset+1])
			text := "\tdc.w\t" + fmt.Sprintf("$%04X", word)
			lines = append(lines, codeLine(payload[offset:offset+2], uint32(offset), text, opts))
			offset += 2
			continue
		}

		text := "\t" + format.Instruction(inst, format.Options{Uppercase: opts.Uppercase})
		lines = append(lines, codeLine(payload[offset:offset+n], uint32(offset), text, opts))
		offset += n
	}
	return lines
}

func codeLine(consumed []byte, addr uint32, text string, opts Options) Line {
	if opts.ShowHex {
		text = hexDump(consumed) + text
	}
	return Line{Text: text, Address: addr, HasAddr: true}
}

func hexDump(b []byte) string {
	var sb strings.Builder
	for _, v := range b {
		fmt.Fprintf(&sb, "%02X ", v)
	}
	for sb.Len() < 3*10 { // pad to the widest instruction (5 words = 10 bytes)
		sb.WriteString("   ")
	}
	sb.WriteByte('\t')
	return sb.String()
}

// dumpData emits printable-ASCII runs as dc.b strings and groups the rest
// into longword/word/byte directives, preferring the widest alignment
// available at each offset (spec.md §4.6).
func dumpData(h hunk.Hunk) []Line {
	var lines []Line
	data := h.Payload
	offset := 0
	for offset < len(data) {
		if run := asciiRunLength(data[offset:]); run >= 4 {
			lines = append(lines, Line{
				Text:    fmt.Sprintf("\tdc.b\t%q", string(data[offset:offset+run])),
				Address: uint32(offset), HasAddr: true,
			})
			offset += run
			continue
		}

		switch {
		case offset%4 == 0 && len(data)-offset >= 4:
			v := uint32(data[offset])<<24 | uint32(data[offset+1])<<16 | uint32(data[offset+2])<<8 | uint32(data[offset+3])
			lines = append(lines, Line{Text: fmt.Sprintf("\tdc.l\t$%08X", v), Address: uint32(offset), HasAddr: true})
			offset += 4
		case offset%2 == 0 && len(data)-offset >= 2:
			v := uint16(data[offset])<<8 | uint16(data[offset+1])
			lines = append(lines, Line{Text: fmt.Sprintf("\tdc.w\t$%04X", v), Address: uint32(offset), HasAddr: true})
			offset += 2
		default:
			lines = append(lines, Line{Text: fmt.Sprintf("\tdc.b\t$%02X", data[offset]), Address: uint32(offset), HasAddr: true})
			offset++
		}
	}
	return lines
}

func asciiRunLength(b []byte) int {
	n := 0
	for n < len(b) && b[n] >= 0x20 && b[n] <= 0x7E {
		n++
	}
	return n
}

func numberLines(lines []Line) {
	width := len(fmt.Sprintf("%d", len(lines)))
	for i := range lines {
		lines[i].Text = fmt.Sprintf("%*d  %s", width, i+1, lines[i].Text)
	}
}

// hunkInfo implements the --hunk-info summary traversal: one block per
// hunk, never invoking the instruction decoder.
func hunkInfo(hf *hunk.HunkFile) []Line {
	var lines []Line
	for i, h := range hf.Hunks {
		lines = append(lines,
			Line{Text: fmt.Sprintf("hunk_%d: kind=%s mem=%s size=%d payload=%d", i, h.Kind, h.Memory, h.Size, len(h.Payload))},
		)
		if len(h.Relocations) > 0 {
			targets := make([]string, 0, len(h.Relocations))
			for _, r := range h.Relocations {
				targets = append(targets, fmt.Sprintf("hunk_%d(%d)", r.TargetHunk, len(r.Offsets)))
			}
			lines = append(lines, Line{Text: "  relocations: " + strings.Join(targets, ", ")})
		}
		if len(h.Symbols) > 0 {
			lines = append(lines, Line{Text: fmt.Sprintf("  symbols: %d", len(h.Symbols))})
		}
		if len(h.Debug) > 0 {
			lines = append(lines, Line{Text: fmt.Sprintf("  debug: %d bytes", len(h.Debug))})
		}
	}
	return lines
}
