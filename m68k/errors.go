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

import "errors"

var (
	// ErrTruncated indicates a decode ran past the end of the buffer.
	ErrTruncated = errors.New("m68k: truncated instruction stream")

	// ErrInvalidEncoding indicates a decoded instruction violated a size
	// or operand constraint (e.g. MOVE.B to an address register).
	ErrInvalidEncoding = errors.New("m68k: invalid instruction encoding")

	// ErrUnsupported indicates an encoding form that is only valid on a
	// CPU variant newer than the one requested.
	ErrUnsupported = errors.New("m68k: encoding unsupported on this CPU variant")
)
