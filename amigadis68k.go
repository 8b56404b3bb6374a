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

// Package amigadis68k is the library facade: it owns the one place input
// file I/O happens, reading an Amiga Hunk executable and handing its bytes to
// the hunk parser and listing generator below it.
package amigadis68k

import (
	"fmt"
	"os"

	"github.com/happycodelucky/amiga-dis68k/hunk"
	"github.com/happycodelucky/amiga-dis68k/listing"
	"github.com/happycodelucky/amiga-dis68k/m68k"
)

// CPUVariant re-exports m68k.CPUVariant for callers that only need the
// library surface, not the decoder package directly.
type CPUVariant = m68k.CPUVariant

const (
	CPU68000 = m68k.CPU68000
	CPU68010 = m68k.CPU68010
	CPU68020 = m68k.CPU68020
	CPU68030 = m68k.CPU68030
	CPU68040 = m68k.CPU68040
	CPU68060 = m68k.CPU68060
)

// Options controls how an executable is disassembled.
type Options struct {
	CPU            CPUVariant
	Uppercase      bool
	ShowHex        bool
	ShowLineNumber bool
	HunkInfo       bool
}

// Report carries diagnostics about the disassembled file that are outside
// the listing text itself.
type Report struct {
	// SawExt is true if the file contained at least one HUNK_EXT block,
	// which this library skips without interpreting (spec.md §9).
	SawExt bool
}

// Disassemble reads the Hunk executable at path and returns its listing
// lines. It is the only function in the library packages that touches the
// filesystem (the CLI opens its own output file); every package below it
// operates on an already-materialized byte slice.
func Disassemble(path string, opts Options) ([]listing.Line, Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("amigadis68k: read %s: %w", path, err)
	}

	hf, err := hunk.Parse(data)
	if err != nil {
		return nil, Report{}, fmt.Errorf("amigadis68k: parse %s: %w", path, err)
	}

	lines := listing.Generate(hf, listing.Options{
		CPU:            opts.CPU,
		Uppercase:      opts.Uppercase,
		ShowHex:        opts.ShowHex,
		ShowLineNumber: opts.ShowLineNumber,
		HunkInfo:       opts.HunkInfo,
	})
	return lines, Report{SawExt: hf.SawExt}, nil
}

// ParseCPUVariant maps a CLI string ("68000".."68060") to a CPUVariant.
func ParseCPUVariant(s string) (CPUVariant, error) {
	switch s {
	case "68000":
		return CPU68000, nil
	case "68010":
		return CPU68010, nil
	case "68020":
		return CPU68020, nil
	case "68030":
		return CPU68030, nil
	case "68040":
		return CPU68040, nil
	case "68060":
		return CPU68060, nil
	default:
		return 0, fmt.Errorf("amigadis68k: unknown CPU variant %q", s)
	}
}
