// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

// PluginMetadata is the static descriptor every plugin exposes, used by
// the registry for lookup and by the selector for scoring.
type PluginMetadata struct {
	// Name is a short, stable identifier, e.g. "deflate".
	Name string
	// Version is a semantic version string for the plugin implementation.
	Version string
	// MagicNumber is the 4-byte container magic this plugin's containers
	// carry. Bytes 0..2 must be {0x43, 0x52, 0x01}; byte 3 is this
	// plugin's unique id.
	MagicNumber [4]byte
	// Throughput is the plugin's declared speed in MB/s, used by the
	// selector. Must be positive and finite.
	Throughput float64
	// CompressionRatio is the plugin's declared output/input ratio, in
	// (0, 1].
	CompressionRatio float64
	// Description is a one-line human-readable summary.
	Description string
}

// Plugin is the capability every compression algorithm implementation
// exposes. Implementations are registered at build time via Register,
// called from the plugin package's init().
//
// Compress and Decompress must check cancel.IsCancelled() at least once
// per internal block of work and return a Cancelled error promptly once
// observed. They must never panic on malformed input; PluginFailure is
// the correct report for that. They must also be safe to call
// concurrently from multiple goroutines.
type Plugin interface {
	// Name returns the plugin's stable identifier.
	Name() string
	// Metadata returns the plugin's static descriptor.
	Metadata() PluginMetadata
	// Compress returns a compressed encoding of input.
	Compress(input []byte, cancel *CancellationToken) ([]byte, error)
	// Decompress reverses Compress.
	Decompress(input []byte, cancel *CancellationToken) ([]byte, error)
	// Detect reports whether fileHeader looks like this plugin's output.
	// It is a format-aware selection heuristic only; decompression
	// routing is always by magic number, never by Detect.
	Detect(fileHeader []byte) bool
}

// concurrencySetter is an optional capability a Plugin may implement to
// accept a caller-supplied bound on its internal block-level parallelism.
// The pipeline type-asserts for it rather than adding the parameter to
// Plugin itself, so plugins with no internal parallelism (or a fixed
// strategy) aren't forced to carry a meaningless parameter. Both in-tree
// plugins implement it.
type concurrencySetter interface {
	SetConcurrency(n int)
}

func applyConcurrency(p Plugin, n int) {
	if n <= 0 {
		return
	}
	if cs, ok := p.(concurrencySetter); ok {
		cs.SetConcurrency(n)
	}
}
