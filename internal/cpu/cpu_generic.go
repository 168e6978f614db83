// Copyright 2025 The specleak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !amd64

// Portable stand-ins for architectures without the assembly fast path.
//
// These keep the module building everywhere and give the pure scoring and
// convergence code something to run against. They provide no cache-timing
// signal: Evict is a no-op and the counter is the monotonic clock in
// nanoseconds.

package cpu

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// Supported reports whether the primitives are backed by real instructions.
const Supported = false

var (
	epoch = time.Now()

	// sink receives touched bytes so the loads stay observable.
	sink atomic.Uint32
)

// Cycles returns nanoseconds since package initialization.
func Cycles() int64 {
	return int64(time.Since(epoch))
}

// TimedTouch loads the byte at p and returns the elapsed counter ticks.
func TimedTouch(p unsafe.Pointer) int64 {
	start := Cycles()
	Touch(p)
	return Cycles() - start
}

// Touch loads the byte at p.
//
//go:noinline
func Touch(p unsafe.Pointer) {
	sink.Store(uint32(*(*byte)(p)))
}

// Evict is a no-op without CLFLUSH.
func Evict(_ unsafe.Pointer) {}

// Fence is a no-op without MFENCE.
func Fence() {}

// Stall spins for n iterations.
//
//go:noinline
func Stall(n int) {
	var acc uint32
	for i := 0; i < n; i++ {
		acc += uint32(i)
	}
	sink.Store(acc)
}
