// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package blockio provides the worker-pool shape the two in-tree plugins
// use to process fixed-size blocks concurrently: a fixed pool of
// goroutines pulling work off a channel, joined with a sync.WaitGroup,
// with panic safety per unit of work.
//
// Crush always starts from a fully materialized buffer, so the total
// block count is known up front: each worker writes its result directly
// to its own slice index, and no reordering step is needed.
package blockio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cosnicolaou/crush/internal/cancel"
	"github.com/cosnicolaou/crush/internal/errs"
)

// Split slices data into contiguous blocks of at most blockSize bytes
// each. An empty input yields zero blocks, never a single empty block.
func Split(data []byte, blockSize int) [][]byte {
	if len(data) == 0 {
		return nil
	}
	n := (len(data) + blockSize - 1) / blockSize
	blocks := make([][]byte, 0, n)
	for off := 0; off < len(data); off += blockSize {
		end := off + blockSize
		if end > len(data) {
			end = len(data)
		}
		blocks = append(blocks, data[off:end])
	}
	return blocks
}

// ProcessFunc transforms one block. It must not retain the passed-in
// slice past its return.
type ProcessFunc func(block []byte) ([]byte, error)

// Run processes every block in blocks, using up to concurrency worker
// goroutines, and returns results in the same order as blocks. Each
// worker checks tok.IsCancelled() before starting a new block and stops
// promptly once it's observed; the first block-level error (including
// cancellation) encountered, in block order, is returned. A panic inside
// ProcessFunc is recovered and reported as a PluginFailure for that block,
// it does not crash the caller.
func Run(concurrency int, blocks [][]byte, tok *cancel.Token, fn ProcessFunc) ([][]byte, error) {
	n := len(blocks)
	if n == 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > n {
		concurrency = n
	}

	results := make([][]byte, n)
	errors := make([]error, n)
	var aborted atomic.Bool

	work := make(chan int, n)
	for i := 0; i < n; i++ {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for w := 0; w < concurrency; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if aborted.Load() {
					continue
				}
				if tok.IsCancelled() {
					errors[idx] = errs.CancelledError()
					aborted.Store(true)
					continue
				}
				out, err := runBlock(fn, blocks[idx])
				if err != nil {
					errors[idx] = err
					aborted.Store(true)
					continue
				}
				results[idx] = out
			}
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errors[i] != nil {
			return nil, errors[i]
		}
	}
	return results, nil
}

func runBlock(fn ProcessFunc, block []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.PluginFailureError(fmt.Sprintf("panic: %v", r))
		}
	}()
	return fn(block)
}
