// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package deflate registers crush's plugin id 0x00: DEFLATE via
// github.com/klauspost/compress/flate, block-parallelized with
// internal/blockio.
package deflate

import (
	"bytes"
	"encoding/binary"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/klauspost/compress/flate"

	"github.com/cosnicolaou/crush"
	"github.com/cosnicolaou/crush/internal/blockio"
	"github.com/cosnicolaou/crush/internal/errs"
)

// blockSize is the size, in bytes, of the chunks Compress splits its input
// into before handing them to the worker pool. Each chunk becomes a
// self-contained flate stream, so it can be decompressed independently of
// its neighbours.
const blockSize = 128 * 1024

// defaultLevel matches flate.DefaultCompression.
const defaultLevel = flate.DefaultCompression

type plugin struct {
	concurrency atomic.Int32
}

func init() {
	crush.Register(&plugin{})
}

func (p *plugin) Name() string { return "deflate" }

func (p *plugin) Metadata() crush.PluginMetadata {
	return crush.PluginMetadata{
		Name:             "deflate",
		Version:          "1.0.0",
		MagicNumber:      [4]byte{0x43, 0x52, 0x01, 0x00},
		Throughput:       180,
		CompressionRatio: 0.55,
		Description:      "DEFLATE (RFC 1951) via klauspost/compress/flate, block-parallelized",
	}
}

func (p *plugin) Detect(fileHeader []byte) bool {
	return len(fileHeader) >= 4 &&
		fileHeader[0] == 0x43 && fileHeader[1] == 0x52 && fileHeader[2] == 0x01 && fileHeader[3] == 0x00
}

// SetConcurrency bounds the number of blocks processed concurrently. It is
// safe to call from multiple goroutines; a non-positive value is ignored.
func (p *plugin) SetConcurrency(n int) {
	if n > 0 {
		p.concurrency.Store(int32(n))
	}
}

func (p *plugin) workers() int {
	if n := int(p.concurrency.Load()); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(-1)
}

func compressBlock(block []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, defaultLevel)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	if _, err := w.Write(block); err != nil {
		return nil, errs.Wrap(err)
	}
	if err := w.Close(); err != nil {
		return nil, errs.Wrap(err)
	}
	return buf.Bytes(), nil
}

func decompressBlock(block []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(block))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.New(errs.InvalidFormat, "malformed deflate block: "+err.Error())
	}
	return out, nil
}

// Compress splits input into fixed-size blocks, deflates each
// independently (in parallel, bounded by SetConcurrency or GOMAXPROCS),
// and frames the results as a sequence of 4-byte-length-prefixed records.
func (p *plugin) Compress(input []byte, tok *crush.CancellationToken) ([]byte, error) {
	blocks := blockio.Split(input, blockSize)
	compressed, err := blockio.Run(p.workers(), blocks, tok, compressBlock)
	if err != nil {
		return nil, err
	}
	return frame(compressed), nil
}

// Decompress reverses Compress: it splits the length-prefixed record
// stream back into independent blocks and inflates each in parallel.
func (p *plugin) Decompress(input []byte, tok *crush.CancellationToken) ([]byte, error) {
	blocks, err := unframe(input)
	if err != nil {
		return nil, err
	}
	out, err := blockio.Run(p.workers(), blocks, tok, decompressBlock)
	if err != nil {
		return nil, err
	}
	var total int
	for _, b := range out {
		total += len(b)
	}
	result := make([]byte, 0, total)
	for _, b := range out {
		result = append(result, b...)
	}
	return result, nil
}

func frame(blocks [][]byte) []byte {
	var out []byte
	lenBuf := make([]byte, 4)
	for _, b := range blocks {
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(b)))
		out = append(out, lenBuf...)
		out = append(out, b...)
	}
	return out
}

func unframe(data []byte) ([][]byte, error) {
	var blocks [][]byte
	pos := 0
	for pos < len(data) {
		if pos+4 > len(data) {
			return nil, errs.New(errs.InvalidFormat, "truncated deflate block length")
		}
		n := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+n > len(data) {
			return nil, errs.New(errs.InvalidFormat, "truncated deflate block body")
		}
		blocks = append(blocks, data[pos:pos+n])
		pos += n
	}
	return blocks, nil
}
