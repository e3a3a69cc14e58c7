// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package errs_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cosnicolaou/crush/internal/errs"
)

func TestErrorString(t *testing.T) {
	e := errs.New(errs.InvalidFormat, "bad magic")
	if got, want := e.Error(), "invalid_format: bad magic"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestChecksumMismatchError(t *testing.T) {
	e := errs.ChecksumMismatchError(1, 2)
	if e.Kind != errs.ChecksumMismatch {
		t.Errorf("got kind %v, want %v", e.Kind, errs.ChecksumMismatch)
	}
	if e.Expected != 1 || e.Actual != 2 {
		t.Errorf("got expected=%d actual=%d, want 1,2", e.Expected, e.Actual)
	}
}

func TestTimeoutError(t *testing.T) {
	e := errs.TimeoutError(5 * time.Second)
	if e.Kind != errs.Timeout {
		t.Errorf("got kind %v, want %v", e.Kind, errs.Timeout)
	}
	if e.Duration != 5*time.Second {
		t.Errorf("got duration %v, want 5s", e.Duration)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	inner := errors.New("boom")
	e := errs.Wrap(inner)
	if !errors.Is(e, inner) {
		t.Errorf("errors.Is(e, inner) = false, want true")
	}
	if errors.Unwrap(e) != inner {
		t.Errorf("errors.Unwrap(e) = %v, want %v", errors.Unwrap(e), inner)
	}
}

func TestIsMatchesByKind(t *testing.T) {
	a := errs.New(errs.Timeout, "deadline exceeded")
	b := errs.New(errs.Timeout, "a different message")
	c := errs.New(errs.Cancelled, "cancelled")
	if !errors.Is(a, b) {
		t.Errorf("errors.Is(a, b) = false, want true: same Kind should match")
	}
	if errors.Is(a, c) {
		t.Errorf("errors.Is(a, c) = true, want false: different Kind")
	}
}

func TestAs(t *testing.T) {
	e := errs.PluginFailureError("panic: boom")
	var target *errs.Error
	if !errors.As(e, &target) {
		t.Fatalf("errors.As failed")
	}
	if target.Kind != errs.PluginFailure {
		t.Errorf("got kind %v, want %v", target.Kind, errs.PluginFailure)
	}
}
