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

// Package binary provides a bounds-checked, positioned big-endian cursor
// over an immutable byte slice. It is the sole mechanism the hunk parser
// and instruction decoder use to read bytes; no ad-hoc slicing is allowed
// above this package so that every out-of-bounds read funnels through one
// check.
package binary

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned whenever a read, skip, or alignment advance
// would move the cursor past the end of the underlying slice.
var ErrTruncated = errors.New("truncated: read past end of buffer")

// Cursor is a positioned view over an immutable byte slice.
type Cursor struct {
	bytes []byte
	pos   int
}

// NewCursor returns a Cursor positioned at the start of bytes.
func NewCursor(bytes []byte) *Cursor {
	return &Cursor{bytes: bytes}
}

// Position returns the current read offset.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.bytes) - c.pos
}

// ReadU16 reads a big-endian uint16, advancing the cursor by 2 bytes.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, fmt.Errorf("read u16 at %d: %w", c.pos, err)
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadU32 reads a big-endian uint32, advancing the cursor by 4 bytes.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, fmt.Errorf("read u32 at %d: %w", c.pos, err)
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// ReadI16 reads a sign-interpreted big-endian 16-bit value.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	if err != nil {
		return 0, err
	}
	return int16(v), nil
}

// ReadI32 reads a sign-interpreted big-endian 32-bit value.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadBytes returns the next n bytes and advances the cursor by n.
// The returned slice aliases the cursor's underlying buffer; callers that
// need an independent copy (e.g. for storing into a Hunk payload) must
// copy it themselves.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, ErrTruncated
	}
	b := c.bytes[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.Remaining() < n {
		return ErrTruncated
	}
	c.pos += n
	return nil
}

// AlignToLongword advances the cursor to the next multiple of 4. It is a
// no-op if the cursor is already aligned, and fails only if the advance
// would move past the end of the buffer.
func (c *Cursor) AlignToLongword() error {
	pad := (4 - c.pos%4) % 4
	if pad == 0 {
		return nil
	}
	return c.Skip(pad)
}
