// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package errs defines the tagged error taxonomy returned by every public
// crush operation. It is a leaf package: no other part of crush imports
// anything that could create a cycle back into it.
package errs

import (
	"fmt"
	"time"
)

// Kind identifies which branch of the taxonomy an Error belongs to. Callers
// should switch on Kind (via errors.As to get at the *Error) rather than
// compare error strings.
type Kind int

const (
	// Io indicates a failure reading or writing the underlying byte
	// source/sink. The core itself never touches files; the in-tree
	// plugins use it for errors from their codec writers, and callers may
	// wrap their own I/O errors with it.
	Io Kind = iota
	// InvalidFormat indicates malformed container bytes: bad magic prefix,
	// truncated input, or a malformed TLV record.
	InvalidFormat
	// ChecksumMismatch indicates the computed CRC32 did not match the
	// value stored in the container.
	ChecksumMismatch
	// PluginNotFound indicates a lookup by name or magic missed.
	PluginNotFound
	// PluginDuplicate indicates two plugins registered the same name or
	// the same magic byte 3 (plugin id).
	PluginDuplicate
	// PluginFailure indicates a plugin returned an error, or its worker
	// panicked.
	PluginFailure
	// Timeout indicates a deadline was reached with no result.
	Timeout
	// Cancelled indicates a cancellation token was observed true before
	// the operation completed.
	Cancelled
	// Validation indicates an options constraint was violated, or a
	// plugin's static metadata (empty name, malformed magic prefix) was
	// rejected when the registry was built.
	Validation
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case InvalidFormat:
		return "invalid_format"
	case ChecksumMismatch:
		return "checksum_mismatch"
	case PluginNotFound:
		return "plugin_not_found"
	case PluginDuplicate:
		return "plugin_duplicate"
	case PluginFailure:
		return "plugin_failure"
	case Timeout:
		return "timeout"
	case Cancelled:
		return "cancelled"
	case Validation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the single tagged-variant type returned by all public crush
// operations. No two Kinds ever alias the same meaning: tests and callers
// can distinguish them with errors.As plus a Kind switch.
type Error struct {
	Kind Kind
	// Msg is a human-readable detail specific to the Kind (a parse
	// failure reason, a plugin name, a short plugin-reported message).
	Msg string
	// Expected/Actual are populated for ChecksumMismatch.
	Expected, Actual uint32
	// Duration is populated for Timeout.
	Duration time.Duration
	// Err, when non-nil, is an underlying error this Error wraps (used
	// for Io).
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ChecksumMismatch:
		return fmt.Sprintf("checksum mismatch: expected %#08x, actual %#08x", e.Expected, e.Actual)
	case Timeout:
		return fmt.Sprintf("timeout after %v", e.Duration)
	case Cancelled:
		return "cancelled"
	case Io:
		if e.Err != nil {
			return fmt.Sprintf("io: %v", e.Err)
		}
		return "io error"
	default:
		if e.Msg == "" {
			return e.Kind.String()
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
}

// Unwrap allows errors.Is/errors.As to reach a wrapped underlying error,
// e.g. for Io errors constructed from an os or io failure.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, errs.New(errs.Cancelled, "")) style comparisons work
// without inspecting fields that vary per occurrence.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs a plain *Error of the given Kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an Io *Error wrapping err.
func Wrap(err error) *Error {
	return &Error{Kind: Io, Err: err}
}

// ChecksumMismatchError constructs a ChecksumMismatch *Error.
func ChecksumMismatchError(expected, actual uint32) *Error {
	return &Error{Kind: ChecksumMismatch, Expected: expected, Actual: actual}
}

// TimeoutError constructs a Timeout *Error.
func TimeoutError(d time.Duration) *Error {
	return &Error{Kind: Timeout, Duration: d}
}

// CancelledError constructs the no-payload Cancelled *Error.
func CancelledError() *Error {
	return &Error{Kind: Cancelled}
}

// PluginFailureError constructs a PluginFailure *Error from a short
// message; no stack trace is embedded.
func PluginFailureError(msg string) *Error {
	return &Error{Kind: PluginFailure, Msg: msg}
}
