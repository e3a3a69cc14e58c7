// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package crush implements a plugin-dispatched compression and
// decompression engine: a small binary container format, a compile-time
// plugin registry, a scoring-based plugin selector, and cooperative
// timeout/cancellation infrastructure shared by every plugin.
//
// A caller that only needs the defaults can ignore options entirely:
//
//	out, err := crush.Compress(data)
//	...
//	back, err := crush.Decompress(out)
//
// Plugins self-register at init() time by being imported for side effect,
// e.g. `import _ "github.com/cosnicolaou/crush/plugins/deflate"`.
// InitPlugins must be called once after all plugin packages are imported,
// before any Compress/Decompress/Inspect call.
package crush

// Compress encodes bytes into a crush container using the default
// options: automatic plugin selection, a 30s timeout, and CRC32 enabled.
func Compress(bytes []byte) ([]byte, error) {
	return compress(bytes, DefaultCompressionOptions())
}

// CompressWithOptions encodes bytes into a crush container under the
// given options. A nil options pointer is equivalent to Compress.
func CompressWithOptions(bytes []byte, options *CompressionOptions) ([]byte, error) {
	return compress(bytes, options)
}

// Decompress reverses Compress using the default options: plugin routing
// by the container's magic number, a 30s timeout, and CRC32 verification
// whenever the container carries one.
func Decompress(bytes []byte) (*DecompressOutput, error) {
	return decompress(bytes, DefaultDecompressionOptions())
}

// DecompressWithOptions reverses Compress/CompressWithOptions under the
// given options. A nil options pointer is equivalent to Decompress.
func DecompressWithOptions(bytes []byte, options *DecompressionOptions) (*DecompressOutput, error) {
	return decompress(bytes, options)
}

// Inspect reports a container's header-level summary without fully
// decompressing it.
func Inspect(bytes []byte) (*InspectInfo, error) {
	return inspect(bytes, DefaultInspectOptions())
}

// InspectWithOptions reports a container's summary under the given
// options; set InspectOptions.Verify to also populate CRCValid. A nil
// options pointer is equivalent to Inspect.
func InspectWithOptions(bytes []byte, opts *InspectOptions) (*InspectInfo, error) {
	return inspect(bytes, opts)
}
