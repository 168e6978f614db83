// Copyright 2025 The specleak Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "errors"

// LineSize is the cache line size assumed by the probe layout.
//
// 64 bytes on every x86-64 part in use. Probe slots are spaced well beyond
// this, so a wrong guess only wastes memory.
const LineSize = 64

// ErrUnsupported is returned by callers that need the real primitives on a
// platform that only has the portable stand-ins.
var ErrUnsupported = errors.New("cpu: flush+reload primitives not available on this architecture")
