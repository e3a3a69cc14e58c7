// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

import "github.com/cosnicolaou/crush/internal/errs"

// Error is the single tagged-variant error type returned by every public
// crush operation. No two Kinds alias the same meaning; use errors.As to
// recover the Kind.
type Error = errs.Error

// ErrorKind identifies which branch of the taxonomy an Error belongs to.
type ErrorKind = errs.Kind

const (
	ErrIo               = errs.Io
	ErrInvalidFormat     = errs.InvalidFormat
	ErrChecksumMismatch  = errs.ChecksumMismatch
	ErrPluginNotFound    = errs.PluginNotFound
	ErrPluginDuplicate   = errs.PluginDuplicate
	ErrPluginFailure     = errs.PluginFailure
	ErrTimeout           = errs.Timeout
	ErrCancelled         = errs.Cancelled
	ErrValidation        = errs.Validation
)
