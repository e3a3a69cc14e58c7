// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package timeout_test

import (
	"testing"
	"time"

	"github.com/cosnicolaou/crush/internal/cancel"
	"github.com/cosnicolaou/crush/internal/errs"
	"github.com/cosnicolaou/crush/internal/timeout"
)

func TestRunZeroTimeoutRunsInline(t *testing.T) {
	got, err := timeout.Run(func(tok *cancel.Token) ([]byte, error) {
		return []byte("ok"), nil
	}, 0, nil, 10_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
}

func TestRunSmallInputFastPath(t *testing.T) {
	var sawFreshToken bool
	_, err := timeout.Run(func(tok *cancel.Token) ([]byte, error) {
		sawFreshToken = !tok.IsCancelled()
		return nil, nil
	}, time.Second, nil, timeout.SmallInputThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawFreshToken {
		t.Error("expected a fresh, not-cancelled token on the small-input fast path")
	}
}

func TestRunAlreadyCancelled(t *testing.T) {
	tok := cancel.New()
	tok.Cancel()
	_, err := timeout.Run(func(tok *cancel.Token) ([]byte, error) {
		t.Fatal("fn should not run when the token is already cancelled")
		return nil, nil
	}, time.Second, tok, 1<<20)
	var e *errs.Error
	if !asError(err, &e) || e.Kind != errs.Cancelled {
		t.Fatalf("got %v, want a Cancelled error", err)
	}
}

func TestRunTimesOut(t *testing.T) {
	_, err := timeout.Run(func(tok *cancel.Token) ([]byte, error) {
		<-time.After(time.Second)
		return []byte("too slow"), nil
	}, 20*time.Millisecond, nil, 1<<20)
	var e *errs.Error
	if !asError(err, &e) || e.Kind != errs.Timeout {
		t.Fatalf("got %v, want a Timeout error", err)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	_, err := timeout.Run(func(tok *cancel.Token) ([]byte, error) {
		panic("boom")
	}, time.Second, nil, 1<<20)
	var e *errs.Error
	if !asError(err, &e) || e.Kind != errs.PluginFailure {
		t.Fatalf("got %v, want a PluginFailure error", err)
	}
}

func TestRunCancelsTokenOnWorkerExit(t *testing.T) {
	tok := cancel.New()
	_, err := timeout.Run(func(tok *cancel.Token) ([]byte, error) {
		return []byte("done"), nil
	}, time.Second, tok, 1<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tok.IsCancelled() {
		t.Error("expected the shared token to be flipped once the worker returns")
	}
}

func asError(err error, target **errs.Error) bool {
	e, ok := err.(*errs.Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
