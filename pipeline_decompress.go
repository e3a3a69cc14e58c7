// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

import (
	"log"

	"github.com/cosnicolaou/crush/internal/container"
	"github.com/cosnicolaou/crush/internal/timeout"
)

// parsedContainer is the shared result of pulling apart a container's
// fixed header, optional CRC32, and optional metadata block, reused by
// both decompress and inspect.
type parsedContainer struct {
	header  container.Header
	crc     uint32
	hasCRC  bool
	meta    container.Metadata
	payload []byte
}

func parseContainer(data []byte) (parsedContainer, error) {
	header, err := container.DecodeHeader(data)
	if err != nil {
		return parsedContainer{}, err
	}
	pos := container.HeaderSize

	var pc parsedContainer
	pc.header = header

	if header.HasCRC() {
		crc, err := container.DecodeCRC32(data[pos:])
		if err != nil {
			return parsedContainer{}, err
		}
		pc.crc, pc.hasCRC = crc, true
		pos += 4
	}

	if header.HasMetadata() {
		m, n, err := container.DecodeMetadata(data[pos:])
		if err != nil {
			return parsedContainer{}, err
		}
		pc.meta = m
		pos += n
	}

	pc.payload = data[pos:]
	return pc, nil
}

// decompress parses the container, routes to a plugin (explicit override
// or by magic number), runs it under the timeout executor, then verifies
// CRC32 if present.
func decompress(data []byte, opts *DecompressionOptions) (*DecompressOutput, error) {
	if opts == nil {
		opts = DefaultDecompressionOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	pc, err := parseContainer(data)
	if err != nil {
		return nil, err
	}

	var plugin Plugin
	if opts.PluginName != "" {
		plugin, err = selectPlugin(opts.PluginName, ScoringWeights{})
	} else {
		var ok bool
		plugin, ok = pluginByMagic(pc.header.Magic())
		if !ok {
			err = &Error{Kind: ErrPluginNotFound, Msg: "no plugin registered for container's magic number"}
		}
	}
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		log.Printf("crush: decompress: routed to plugin %q, %d byte payload", plugin.Name(), len(pc.payload))
	}
	applyConcurrency(plugin, opts.Concurrency)

	fn := func(tok *CancellationToken) ([]byte, error) {
		return plugin.Decompress(pc.payload, tok)
	}
	out, err := timeout.Run(fn, opts.Timeout, opts.CancelToken, len(pc.payload))
	if err != nil {
		return nil, err
	}

	if uint64(len(out)) != pc.header.OriginalSize {
		return nil, &Error{Kind: ErrInvalidFormat, Msg: "decompressed size does not match header"}
	}

	if pc.hasCRC {
		actual := container.CRC32(out)
		if actual != pc.crc {
			return nil, &Error{Kind: ErrChecksumMismatch, Expected: pc.crc, Actual: actual}
		}
	}

	result := &DecompressOutput{Data: out}
	if !pc.meta.IsZero() {
		fm := &FileMetadata{}
		if pc.meta.HasFilename {
			name := pc.meta.Filename
			fm.Filename = &name
		}
		if pc.meta.HasMTime {
			mt := pc.meta.MTime
			fm.MTime = &mt
		}
		if pc.meta.HasMode {
			mode := pc.meta.Mode
			fm.Mode = &mode
		}
		result.Metadata = fm
	}
	return result, nil
}
