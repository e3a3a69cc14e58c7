// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package testutil holds small helpers shared by crush's tests:
// deterministic pseudo-random input generation for round-trip and
// fuzz-ish tests.
package testutil

import "math/rand"

// fixedSeed must stay stable across test runs so failures are
// reproducible.
const fixedSeed = 0x1234

// PredictableRandomData returns size bytes of pseudo-random data generated
// from a fixed seed, so a failing test can be reproduced exactly.
func PredictableRandomData(size int) []byte {
	gen := rand.New(rand.NewSource(fixedSeed))
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(gen.Intn(256))
	}
	return out
}

// FirstN returns at most the first n bytes of b, for compact failure
// messages when comparing large buffers.
func FirstN(n int, b []byte) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
