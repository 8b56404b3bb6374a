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

// Command amigadis68k disassembles an Amiga Hunk executable into a
// Motorola-syntax assembly listing.
package main

import (
	"flag"
	"fmt"
	"os"

	amigadis68k "github.com/happycodelucky/amiga-dis68k"
	"github.com/xyproto/env/v2"
)

var (
	outputPath     = flag.String("o", "", "output file path (default: standard output)")
	cpuVariant     = flag.String("c", env.Str("AMIGADIS_CPU", "68000"), "CPU variant: 68000, 68010, 68020, 68030, 68040, 68060")
	hunkInfo       = flag.Bool("hunk-info", false, "emit the hunk-structure summary only")
	noSymbols      = flag.Bool("no-symbols", false, "disable OS symbol annotation")
	noHex          = flag.Bool("no-hex", false, "suppress the hex byte-dump column")
	noLineNumbers  = flag.Bool("no-line-numbers", false, "suppress the leading line-number column")
	uppercase      = flag.Bool("uppercase", env.Bool("AMIGADIS_UPPERCASE"), "emit mnemonics in uppercase")
	verbose        = flag.Bool("v", false, "emit additional diagnostics on standard error")
)

// Long-form aliases for the short flags above, sharing their variables.
func init() {
	flag.StringVar(outputPath, "output", "", "output file path (same as -o)")
	flag.StringVar(cpuVariant, "cpu", *cpuVariant, "CPU variant (same as -c)")
	flag.BoolVar(verbose, "verbose", false, "emit additional diagnostics (same as -v)")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <input-file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Disassembles an Amiga Hunk executable into a Motorola-syntax listing.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s game\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -o game.asm -c 68010 game\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --hunk-info game\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: exactly one input file required\n")
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	cpu, err := amigadis68k.ParseCPUVariant(*cpuVariant)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "amigadis68k: disassembling %s as %s\n", inputPath, *cpuVariant)
	}

	// noSymbols is accepted for CLI-surface parity but has no effect yet:
	// this build has no external symbol-resolution collaborator to disable.
	_ = noSymbols

	lines, report, err := amigadis68k.Disassemble(inputPath, amigadis68k.Options{
		CPU:            cpu,
		Uppercase:      *uppercase,
		ShowHex:        !*noHex,
		ShowLineNumber: !*noLineNumbers,
		HunkInfo:       *hunkInfo,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *verbose && report.SawExt {
		fmt.Fprintf(os.Stderr, "amigadis68k: %s contains a HUNK_EXT block; skipping it unconditionally\n", inputPath)
	}

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	for _, line := range lines {
		fmt.Fprintln(out, line.Text)
	}
}
