package oracle

import (
	"github.com/kolkov/specleak/internal/cpu"
	"github.com/kolkov/specleak/internal/probe"
)

// measure times one reload of every probe slot. Slots are visited in
// visitOrder so no two consecutive reloads are neighbours.
func (s *speculative) measure(times *Timings) {
	for i := 0; i < probe.Slots; i++ {
		v := visitOrder(i)
		times[v] = cpu.TimedTouch(s.probe.Slot(v))
	}
}
