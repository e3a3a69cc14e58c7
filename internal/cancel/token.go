// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package cancel implements a shared cancellation token: a single atomic
// flag, safe to flip from an async-signal-handling context, checked
// lock-free by workers at block boundaries.
package cancel

import "sync/atomic"

// Token is a shared boolean cancellation flag. The zero value is a valid,
// not-yet-cancelled token. Token must not be copied after first use; share
// it by pointer, as the rest of crush does.
type Token struct {
	flag atomic.Bool
}

// New returns a fresh, not-cancelled Token.
func New() *Token {
	return &Token{}
}

// IsCancelled reports whether Cancel has been called. It is lock-free and
// safe to call from any goroutine, including an async signal handler.
func (t *Token) IsCancelled() bool {
	return t.flag.Load()
}

// Cancel flips the flag. It is idempotent, lock-free, and safe to call
// from an async signal handler.
func (t *Token) Cancel() {
	t.flag.Store(true)
}

// Reset clears the flag so the token can be reused for a subsequent,
// sequential operation. It is undefined behavior to call Reset while any
// worker may still be reading the flag for the operation being retired;
// callers must fence that externally (e.g. by joining the worker first).
func (t *Token) Reset() {
	t.flag.Store(false)
}
