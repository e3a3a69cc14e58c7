// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zstd

import "sync"

// onceValue lazily constructs a single shared value the first time get is
// called, memoizing either the result or the construction error.
type onceValue[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (o *onceValue[T]) get(fn func() (T, error)) (T, error) {
	o.once.Do(func() {
		o.val, o.err = fn()
	})
	return o.val, o.err
}
