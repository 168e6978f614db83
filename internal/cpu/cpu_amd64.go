// Copyright 2025 The specleak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build amd64

package cpu

import "unsafe"

// Supported reports whether the primitives are backed by real instructions.
const Supported = true

// Cycles returns the time stamp counter read with RDTSCP.
//
// Implemented in cpu_amd64.s.
func Cycles() int64

// TimedTouch loads the byte at p between two RDTSCP reads and returns the
// elapsed cycles.
//
// Implemented in cpu_amd64.s.
//
//go:noescape
func TimedTouch(p unsafe.Pointer) int64

// Touch loads the byte at p.
//
// Implemented in cpu_amd64.s.
//
//go:noescape
func Touch(p unsafe.Pointer)

// Evict flushes the cache line containing p from every cache level.
//
// Implemented in cpu_amd64.s.
//
//go:noescape
func Evict(p unsafe.Pointer)

// Fence orders all preceding loads, stores and flushes (MFENCE).
//
// Implemented in cpu_amd64.s.
func Fence()

// Stall spins for n iterations of a register-only loop.
// n <= 0 returns immediately.
//
// Implemented in cpu_amd64.s.
func Stall(n int)
