package oracle

import "math/bits"

// schedule picks the index for each training call: the secret offset on
// every ratio-th call (counting from 1), index 0 otherwise.
//
// Counter-modulo selection, as in a sampler: no RNG, uniform spacing, and
// the same pattern every round so the predictor history is reproducible.
type schedule struct {
	ratio uintptr
}

func newSchedule(ratio int) schedule {
	if ratio < 1 {
		ratio = 1
	}
	return schedule{ratio: uintptr(ratio)}
}

// index returns the victim index for training call i.
//
// The selection is computed with a mask rather than a branch, so the only
// conditional the predictor learns from is the victim's bounds check.
func (s schedule) index(i int, secret uintptr) uintptr {
	r := uintptr(i+1) % s.ratio
	// r|-r has its top bit set unless r == 0.
	mask := -(^(r | -r) >> (bits.UintSize - 1))
	return mask & secret
}
