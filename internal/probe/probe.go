// Package probe implements the probe array: 256 shadow slots, one per byte
// value, whose cache residency encodes which value a speculative load used.
//
// Slot v starts at base + v*Stride. Stride is eight cache lines, so touching
// slot v never warms slot v±1 through adjacent-line or stride prefetch, and
// the base is aligned to a cache line so every slot's representative byte is
// the first byte of its own line.
//
// The array is a process-wide resource ([Shared]). Reusing the same memory
// for every byte recovery keeps its TLB and paging state stable across
// rounds; [Array.Reset] re-establishes the known baseline at the start of
// each round.
package probe

import (
	"sync"
	"unsafe"

	"github.com/kolkov/specleak/internal/cpu"
)

const (
	// Slots is the number of probe slots, one per possible byte value.
	Slots = 256

	// Stride is the distance between two consecutive slots in bytes.
	Stride = 512

	// Filler is written to every byte by Reset.
	Filler = 1
)

// Array is the probe array. The zero value is not usable; see [New].
//
// Thread Safety: not safe for concurrent use. The oracle owns it exclusively
// for the duration of a recovery.
type Array struct {
	// mem keeps the backing allocation alive; base points into it.
	mem  []byte
	base unsafe.Pointer
}

var shared = sync.OnceValue(New)

// Shared returns the process-wide probe array, allocating it on first use.
func Shared() *Array {
	return shared()
}

// New allocates a probe array with a cache-line-aligned base and resets it.
//
// Most callers want [Shared]; New exists for tests that need isolation.
func New() *Array {
	mem := make([]byte, Slots*Stride+cpu.LineSize)
	start := uintptr(unsafe.Pointer(&mem[0]))
	pad := (cpu.LineSize - start%cpu.LineSize) % cpu.LineSize

	a := &Array{
		mem:  mem,
		base: unsafe.Pointer(&mem[pad]),
	}
	a.Reset()
	return a
}

// Reset overwrites every byte of every slot with Filler.
//
// Writing (rather than relying on the zeroed allocation) forces the pages to
// be backed by private memory instead of the shared zero page, so two slots
// never alias the same physical line.
func (a *Array) Reset() {
	s := unsafe.Slice((*byte)(a.base), Slots*Stride)
	for i := range s {
		s[i] = Filler
	}
}

// Slot returns the address of the representative byte of slot v.
//
// The byte parameter keeps the index in [0,255] without a bounds check on
// the speculative path.
func (a *Array) Slot(v byte) unsafe.Pointer {
	return unsafe.Add(a.base, uintptr(v)*Stride)
}

// EvictAll flushes every slot's line from the cache hierarchy.
func (a *Array) EvictAll() {
	for v := 0; v < Slots; v++ {
		cpu.Evict(a.Slot(byte(v)))
	}
	cpu.Fence()
}

// Base returns the aligned start of the array.
func (a *Array) Base() unsafe.Pointer {
	return a.base
}
