// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

// fakePlugin is a minimal in-memory Plugin used by registry_test.go and
// selector_test.go: it "compresses" by reversing its input, so Decompress
// (reversing again) is trivially its own inverse.
type fakePlugin struct {
	name             string
	id               byte
	throughput       float64
	compressionRatio float64
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) Metadata() PluginMetadata {
	return PluginMetadata{
		Name:             p.name,
		Version:          "0.0.1-test",
		MagicNumber:      [4]byte{0x43, 0x52, 0x01, p.id},
		Throughput:       p.throughput,
		CompressionRatio: p.compressionRatio,
		Description:      "test-only fake plugin",
	}
}

func (p *fakePlugin) Compress(input []byte, tok *CancellationToken) ([]byte, error) {
	return reverseBytes(input), nil
}

func (p *fakePlugin) Decompress(input []byte, tok *CancellationToken) ([]byte, error) {
	return reverseBytes(input), nil
}

func (p *fakePlugin) Detect(fileHeader []byte) bool { return false }

func reverseBytes(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[len(in)-1-i] = b
	}
	return out
}
