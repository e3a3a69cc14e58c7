// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package container

import (
	"encoding/binary"

	"github.com/cosnicolaou/crush/internal/errs"
)

const (
	tagEnd      byte = 0x00
	tagFilename byte = 0x01
	tagMTime    byte = 0x02
	tagMode     byte = 0x03

	// MaxFilenameLen is the hard cap on the filename TLV value enforced by
	// the core regardless of the 16-bit on-wire length field.
	MaxFilenameLen = 255
)

// Metadata is the decoded form of the optional file-metadata TLV block.
// Each field's presence is tracked independently, since zero values (empty
// filename, mtime 0, mode 0) are all valid on-wire values.
type Metadata struct {
	Filename    string
	HasFilename bool
	MTime       int64
	HasMTime    bool
	Mode        uint32
	HasMode     bool
}

// IsZero reports whether no field is present, in which case the caller
// should not set FlagMetadata at all.
func (m Metadata) IsZero() bool {
	return !m.HasFilename && !m.HasMTime && !m.HasMode
}

// EncodeMetadata serializes m as a sequence of TLV records terminated by
// the tag-0x00 end marker. Tags are emitted in a stable order (filename,
// mtime, mode) for determinism; this is not required by the format, which
// tolerates any order on read.
func EncodeMetadata(m Metadata) ([]byte, error) {
	var out []byte
	if m.HasFilename {
		if len(m.Filename) > MaxFilenameLen {
			return nil, errs.New(errs.Validation, "filename exceeds 255 bytes")
		}
		out = append(out, encodeTLV(tagFilename, []byte(m.Filename))...)
	}
	if m.HasMTime {
		v := make([]byte, 8)
		binary.LittleEndian.PutUint64(v, uint64(m.MTime))
		out = append(out, encodeTLV(tagMTime, v)...)
	}
	if m.HasMode {
		v := make([]byte, 4)
		binary.LittleEndian.PutUint32(v, m.Mode)
		out = append(out, encodeTLV(tagMode, v)...)
	}
	out = append(out, tagEnd)
	return out, nil
}

func encodeTLV(tag byte, value []byte) []byte {
	buf := make([]byte, 0, 3+len(value))
	buf = append(buf, tag)
	lenBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBuf, uint16(len(value)))
	buf = append(buf, lenBuf...)
	buf = append(buf, value...)
	return buf
}

// DecodeMetadata parses a TLV block starting at the beginning of b. It
// returns the decoded Metadata and the number of bytes consumed (up to and
// including the terminating tag-0x00 byte). Unknown tags are skipped
// without error, for forward compatibility. A length field that would read
// past the end of b is reported as InvalidFormat. Duplicate tags take
// last-wins.
func DecodeMetadata(b []byte) (Metadata, int, error) {
	var m Metadata
	pos := 0
	for {
		if pos >= len(b) {
			return Metadata{}, 0, errs.New(errs.InvalidFormat, "truncated metadata block")
		}
		tag := b[pos]
		pos++
		if tag == tagEnd {
			return m, pos, nil
		}
		if pos+2 > len(b) {
			return Metadata{}, 0, errs.New(errs.InvalidFormat, "truncated metadata length field")
		}
		length := int(binary.LittleEndian.Uint16(b[pos : pos+2]))
		pos += 2
		if pos+length > len(b) {
			return Metadata{}, 0, errs.New(errs.InvalidFormat, "metadata value overruns input")
		}
		value := b[pos : pos+length]
		pos += length

		switch tag {
		case tagFilename:
			if length > MaxFilenameLen {
				return Metadata{}, 0, errs.New(errs.InvalidFormat, "filename exceeds 255 bytes")
			}
			m.Filename = string(value)
			m.HasFilename = true
		case tagMTime:
			if length != 8 {
				return Metadata{}, 0, errs.New(errs.InvalidFormat, "malformed mtime record")
			}
			m.MTime = int64(binary.LittleEndian.Uint64(value))
			m.HasMTime = true
		case tagMode:
			if length != 4 {
				return Metadata{}, 0, errs.New(errs.InvalidFormat, "malformed mode record")
			}
			m.Mode = binary.LittleEndian.Uint32(value)
			m.HasMode = true
		default:
			// unknown tag: skip, forward compatible.
		}
	}
}
