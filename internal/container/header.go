// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package container implements the crush container file format: the
// fixed 16-byte header, the optional CRC32, and the optional
// file-metadata TLV block. It depends only on the standard library and
// internal/errs, with no dependency on the plugin registry or the pipeline.
package container

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/cosnicolaou/crush/internal/errs"
)

const (
	// MagicByte0 and MagicByte1 are the first two bytes of every
	// container, identifying the format regardless of version.
	MagicByte0 byte = 0x43
	MagicByte1 byte = 0x52

	// Version1 is the only container format version this package
	// understands.
	Version1 byte = 0x01

	// HeaderSize is the fixed size, in bytes, of the container header.
	HeaderSize = 16

	// FlagCRC marks CRC32 as present immediately after the header.
	FlagCRC byte = 1 << 0
	// FlagMetadata marks a file-metadata TLV block as present after the
	// header (and after the CRC, if also present).
	FlagMetadata byte = 1 << 1
	// flagsReservedMask is the set of bits that must be zero on write and
	// are ignored on read.
	flagsReservedMask byte = ^(FlagCRC | FlagMetadata)
)

// Header is the fixed 16-byte prefix of every crush container.
type Header struct {
	PluginID     byte
	OriginalSize uint64
	Flags        byte
}

// HasCRC reports whether FlagCRC is set.
func (h Header) HasCRC() bool { return h.Flags&FlagCRC != 0 }

// HasMetadata reports whether FlagMetadata is set.
func (h Header) HasMetadata() bool { return h.Flags&FlagMetadata != 0 }

// Magic returns the 4-byte magic number (version + plugin id) this header
// would be routed on.
func (h Header) Magic() [4]byte {
	return [4]byte{MagicByte0, MagicByte1, Version1, h.PluginID}
}

// EncodeHeader writes h as the 16-byte on-wire header. Reserved flag bits
// and reserved trailing bytes are always written as zero.
func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = MagicByte0
	buf[1] = MagicByte1
	buf[2] = Version1
	buf[3] = h.PluginID
	binary.LittleEndian.PutUint64(buf[4:12], h.OriginalSize)
	buf[12] = h.Flags &^ flagsReservedMask
	// bytes 13..16 reserved, left zero.
	return buf
}

// DecodeHeader parses the 16-byte header prefix of b. Reserved flag bits
// are masked off (ignored on read) rather than rejected.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, errs.New(errs.InvalidFormat, "input shorter than container header")
	}
	if b[0] != MagicByte0 || b[1] != MagicByte1 {
		return Header{}, errs.New(errs.InvalidFormat, "bad magic prefix")
	}
	if b[2] != Version1 {
		return Header{}, errs.New(errs.InvalidFormat, "unsupported container version")
	}
	h := Header{
		PluginID:     b[3],
		OriginalSize: binary.LittleEndian.Uint64(b[4:12]),
		Flags:        b[12] &^ flagsReservedMask,
	}
	return h, nil
}

// CRC32 computes the standard IEEE CRC32 of data, as stored immediately
// after the header when FlagCRC is set.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// EncodeCRC32 returns the 4-byte little-endian encoding of v.
func EncodeCRC32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

// DecodeCRC32 reads a 4-byte little-endian CRC32 from the start of b.
func DecodeCRC32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, errs.New(errs.InvalidFormat, "truncated crc32 field")
	}
	return binary.LittleEndian.Uint32(b[:4]), nil
}
