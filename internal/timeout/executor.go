// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package timeout implements a timeout executor: it runs a fallible unit
// of work in a worker, under a wall-clock deadline, cooperatively
// cancellable via a shared token, and reports a worker panic as a
// PluginFailure rather than crashing the caller.
//
// The state machine this package drives is, as seen from Run's caller:
//
//	Idle -> Running -> Completed(Ok) | Completed(Err) | TimedOut | Panicked
//	              \--> Cancelled (via an externally signalled token)
package timeout

import (
	"fmt"
	"time"

	"github.com/cosnicolaou/crush/internal/cancel"
	"github.com/cosnicolaou/crush/internal/errs"
)

// SmallInputThreshold is the input size, in bytes, at or below which Run skips
// spawning a worker and calls Func inline with a fresh, never-signalled
// token, provided the caller did not supply its own token.
const SmallInputThreshold = 1024

// Func is a unit of work the executor runs under a deadline. It must check
// tok.IsCancelled() at natural boundaries (recommended: once per internal
// block) and return promptly once it observes cancellation.
type Func func(tok *cancel.Token) ([]byte, error)

type outcome struct {
	val []byte
	err error
}

// Run executes fn, optionally under deadline d and cooperative
// cancellation via tok. If tok is nil, a fresh token is created for the
// call. inputSize is the size of the input fn will process and is
// consulted only for the small-input fast path (section 4.3, point 6).
//
// A deadline of zero disables the timeout entirely and runs fn inline
// without spawning a worker.
func Run(fn Func, d time.Duration, tok *cancel.Token, inputSize int) ([]byte, error) {
	owned := tok == nil
	if owned {
		tok = cancel.New()
	}

	if tok.IsCancelled() {
		return nil, errs.CancelledError()
	}

	if d == 0 {
		return fn(tok)
	}

	if owned && inputSize <= SmallInputThreshold {
		return fn(tok)
	}

	done := make(chan outcome, 1)
	go func() {
		// RAII guard: whatever happens to fn below, normal return or
		// panic, the flag is flipped once this goroutine is no longer
		// running it.
		defer tok.Cancel()
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{nil, errs.PluginFailureError(fmt.Sprintf("panic: %v", r))}
			}
		}()
		v, err := fn(tok)
		done <- outcome{v, err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case o := <-done:
		return o.val, o.err
	case <-timer.C:
		// Do not wait for the worker to notice; it will unwind at its
		// next cancellation check. Its goroutine may remain alive
		// until then; this is a documented contract with plugins, not
		// a bug.
		tok.Cancel()
		return nil, errs.TimeoutError(d)
	}
}
