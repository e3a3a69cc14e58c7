// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

import "github.com/cosnicolaou/crush/internal/cancel"

// CancellationToken is a shared, lock-free cancellation flag. IsCancelled
// and Cancel are safe to call from an
// async-signal-handling context (this is what lets a CLI's SIGINT handler
// wire directly into a token shared with an in-flight compress call).
// Reset is not signal-safe and must not be called while any worker may
// still be reading the flag for the operation being retired.
type CancellationToken = cancel.Token

// NewCancellationToken returns a fresh, not-cancelled token that callers
// can share across a compress/decompress call and their own signal
// handling.
func NewCancellationToken() *CancellationToken {
	return cancel.New()
}
