// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

import (
	"log"

	"github.com/cosnicolaou/crush/internal/container"
	"github.com/cosnicolaou/crush/internal/timeout"
)

// compress validates options, selects a plugin, runs it under the timeout
// executor, then assembles the container (header, optional CRC32 of the
// original bytes, optional metadata TLV, compressed payload).
func compress(data []byte, opts *CompressionOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultCompressionOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	plugin, err := selectPlugin(opts.PluginName, opts.Weights)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		log.Printf("crush: compress: selected plugin %q for %d bytes", plugin.Name(), len(data))
	}
	applyConcurrency(plugin, opts.Concurrency)

	fn := func(tok *CancellationToken) ([]byte, error) {
		return plugin.Compress(data, tok)
	}
	payload, err := timeout.Run(fn, opts.Timeout, opts.CancelToken, len(data))
	if err != nil {
		return nil, err
	}

	md := plugin.Metadata()
	flags := byte(0)
	if !opts.DisableCRC {
		flags |= container.FlagCRC
	}
	fileMeta := container.Metadata{}
	if !opts.FileMetadata.isEmpty() {
		if opts.FileMetadata.Filename != nil {
			fileMeta.Filename, fileMeta.HasFilename = *opts.FileMetadata.Filename, true
		}
		if opts.FileMetadata.MTime != nil {
			fileMeta.MTime, fileMeta.HasMTime = *opts.FileMetadata.MTime, true
		}
		if opts.FileMetadata.Mode != nil {
			fileMeta.Mode, fileMeta.HasMode = *opts.FileMetadata.Mode, true
		}
	}
	if !fileMeta.IsZero() {
		flags |= container.FlagMetadata
	}

	header := container.Header{
		PluginID:     md.MagicNumber[3],
		OriginalSize: uint64(len(data)),
		Flags:        flags,
	}

	out := container.EncodeHeader(header)
	if header.HasCRC() {
		out = append(out, container.EncodeCRC32(container.CRC32(data))...)
	}
	if header.HasMetadata() {
		metaBytes, err := container.EncodeMetadata(fileMeta)
		if err != nil {
			return nil, err
		}
		out = append(out, metaBytes...)
	}
	out = append(out, payload...)
	return out, nil
}
