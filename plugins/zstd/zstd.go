// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package zstd registers crush's plugin id 0x01: Zstandard via
// github.com/klauspost/compress/zstd, block-parallelized with
// internal/blockio.
package zstd

import (
	"encoding/binary"
	"runtime"
	"sync/atomic"

	kzstd "github.com/klauspost/compress/zstd"

	"github.com/cosnicolaou/crush"
	"github.com/cosnicolaou/crush/internal/blockio"
	"github.com/cosnicolaou/crush/internal/errs"
)

// blockSize is the size, in bytes, of the chunks Compress splits its input
// into. Each chunk becomes an independent zstd frame so blocks can be
// compressed and decompressed concurrently.
const blockSize = 256 * 1024

type plugin struct {
	concurrency atomic.Int32

	encOnce onceValue[*kzstd.Encoder]
	decOnce onceValue[*kzstd.Decoder]
}

func init() {
	crush.Register(&plugin{})
}

func (p *plugin) Name() string { return "zstd" }

func (p *plugin) Metadata() crush.PluginMetadata {
	return crush.PluginMetadata{
		Name:             "zstd",
		Version:          "1.0.0",
		MagicNumber:      [4]byte{0x43, 0x52, 0x01, 0x01},
		Throughput:       420,
		CompressionRatio: 0.45,
		Description:      "Zstandard via klauspost/compress/zstd, block-parallelized",
	}
}

func (p *plugin) Detect(fileHeader []byte) bool {
	return len(fileHeader) >= 4 &&
		fileHeader[0] == 0x43 && fileHeader[1] == 0x52 && fileHeader[2] == 0x01 && fileHeader[3] == 0x01
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

func (p *plugin) encoder() (*kzstd.Encoder, error) {
	return p.encOnce.get(func() (*kzstd.Encoder, error) {
		return kzstd.NewWriter(nil, kzstd.WithEncoderConcurrency(1), kzstd.WithEncoderLevel(kzstd.SpeedDefault))
	})
}

func (p *plugin) decoder() (*kzstd.Decoder, error) {
	return p.decOnce.get(func() (*kzstd.Decoder, error) {
		return kzstd.NewReader(nil, kzstd.WithDecoderConcurrency(1))
	})
}

// Compress splits input into fixed-size blocks, encodes each independently
// as its own zstd frame (in parallel, bounded by SetConcurrency or
// GOMAXPROCS), and frames the results as a sequence of
// 4-byte-length-prefixed records.
func (p *plugin) Compress(input []byte, tok *crush.CancellationToken) ([]byte, error) {
	enc, err := p.encoder()
	if err != nil {
		return nil, errs.Wrap(err)
	}
	blocks := blockio.Split(input, blockSize)
	compressed, err := blockio.Run(p.workers(), blocks, tok, func(block []byte) ([]byte, error) {
		return enc.EncodeAll(block, nil), nil
	})
	if err != nil {
		return nil, err
	}
	return frame(compressed), nil
}

// Decompress reverses Compress: it splits the length-prefixed record
// stream back into independent zstd frames and decodes each in parallel.
func (p *plugin) Decompress(input []byte, tok *crush.CancellationToken) ([]byte, error) {
	dec, err := p.decoder()
	if err != nil {
		return nil, errs.Wrap(err)
	}
	blocks, err := unframe(input)
	if err != nil {
		return nil, err
	}
	out, err := blockio.Run(p.workers(), blocks, tok, func(block []byte) ([]byte, error) {
		plain, err := dec.DecodeAll(block, nil)
		if err != nil {
			return nil, errs.New(errs.InvalidFormat, "malformed zstd block: "+err.Error())
		}
		return plain, nil
	})
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
			return nil, errs.New(errs.InvalidFormat, "truncated zstd block length")
		}
		n := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+n > len(data) {
			return nil, errs.New(errs.InvalidFormat, "truncated zstd block body")
		}
		blocks = append(blocks, data[pos:pos+n])
		pos += n
	}
	return blocks, nil
}
