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

import "errors"

// Errors returned by Parse. The parser aborts the entire parse on the first
// one encountered; there is no partial/recoverable HunkFile.
var (
	// ErrBadMagic indicates the file does not start with the loadable
	// executable magic cookie (0x000003F3).
	ErrBadMagic = errors.New("hunk: bad magic, not an Amiga executable")

	// ErrUnsupportedKind indicates the file is a recognizable but
	// unsupported Hunk container, such as a unit (object file) stream.
	ErrUnsupportedKind = errors.New("hunk: unsupported container kind")

	// ErrTruncated indicates a read ran past the end of the buffer.
	ErrTruncated = errors.New("hunk: truncated file")

	// ErrSizeTableMismatch indicates the header's hunk_count disagrees
	// with last_hunk - first_hunk + 1.
	ErrSizeTableMismatch = errors.New("hunk: size table does not match first/last hunk range")

	// ErrUnknownHunkKind indicates a masked hunk-kind word matched no
	// known constant and did not fall into the debug-passthrough range.
	ErrUnknownHunkKind = errors.New("hunk: unknown hunk kind")

	// ErrOrphanMetadata indicates a RELOC/SYMBOL/DEBUG/EXT block
	// appeared before any content hunk had been parsed.
	ErrOrphanMetadata = errors.New("hunk: metadata block before any content hunk")
)
