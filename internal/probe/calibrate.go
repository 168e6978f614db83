package probe

import (
	"slices"

	"github.com/kolkov/specleak/internal/cpu"
)

// calibrationSlot is the slot used for calibration. Any slot works; a middle
// one keeps away from the edges of the allocation.
const calibrationSlot = 0x80

// Calibration is the measured reload latency of a probe slot while cached
// and right after eviction.
type Calibration struct {
	// Samples is the number of reloads timed for each state.
	Samples int

	// CachedMedian is the median latency of a reload right after a touch.
	CachedMedian int64

	// EvictedMedian is the median latency of a reload right after CLFLUSH.
	EvictedMedian int64
}

// Threshold returns the midpoint between the two medians, the latency below
// which a reload on this machine is best classified as a cache hit.
func (c Calibration) Threshold() int64 {
	return (c.CachedMedian + c.EvictedMedian) / 2
}

// Separated reports whether eviction produced a measurable slowdown.
// Without it the oracle has no signal to work with.
func (c Calibration) Separated() bool {
	return c.EvictedMedian > c.CachedMedian
}

// Calibrate times samples reloads of one slot in each state.
//
// The hardware fixes a single cache-hit threshold for a given machine; the
// oracle itself does not use one (it compares against the round mean) but
// the numbers tell an operator whether the channel is usable at all.
func (a *Array) Calibrate(samples int) Calibration {
	if samples < 1 {
		samples = 1
	}

	p := a.Slot(calibrationSlot)
	cached := make([]int64, samples)
	evicted := make([]int64, samples)

	for i := 0; i < samples; i++ {
		cpu.Touch(p)
		cached[i] = cpu.TimedTouch(p)

		cpu.Evict(p)
		cpu.Fence()
		evicted[i] = cpu.TimedTouch(p)
	}

	return Calibration{
		Samples:       samples,
		CachedMedian:  median(cached),
		EvictedMedian: median(evicted),
	}
}

func median(v []int64) int64 {
	slices.Sort(v)
	return v[len(v)/2]
}
