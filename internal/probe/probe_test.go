package probe

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/specleak/internal/cpu"
)

func TestNew_AlignedBase(t *testing.T) {
	a := New()
	assert.Zero(t, uintptr(a.Base())%cpu.LineSize, "base must start a cache line")
}

func TestSlot_Spacing(t *testing.T) {
	a := New()
	base := uintptr(a.Base())

	for v := 0; v < Slots; v++ {
		addr := uintptr(a.Slot(byte(v)))
		require.Equal(t, base+uintptr(v)*Stride, addr, "slot %d", v)
		require.Zero(t, addr%cpu.LineSize, "slot %d not line aligned", v)
	}
}

func TestSlot_NeighboursNotSameOrAdjacentLine(t *testing.T) {
	a := New()
	for v := 1; v < Slots; v++ {
		gap := uintptr(a.Slot(byte(v))) - uintptr(a.Slot(byte(v-1)))
		assert.GreaterOrEqual(t, gap, uintptr(2*cpu.LineSize))
	}
}

func TestSlot_LastSlotInsideAllocation(t *testing.T) {
	a := New()
	last := uintptr(a.Slot(Slots - 1))
	end := uintptr(unsafe.Pointer(&a.mem[len(a.mem)-1]))
	assert.LessOrEqual(t, last+Stride-1, end)
}

func TestReset_FillsEverySlot(t *testing.T) {
	a := New()
	s := unsafe.Slice((*byte)(a.Base()), Slots*Stride)
	for i := range s {
		s[i] = 0xAA
	}

	a.Reset()

	for i, b := range s {
		require.Equal(t, byte(Filler), b, "byte %d", i)
	}
}

func TestEvictAll_PreservesContents(t *testing.T) {
	a := New()
	a.EvictAll()
	for v := 0; v < Slots; v++ {
		require.Equal(t, byte(Filler), *(*byte)(a.Slot(byte(v))))
	}
}

func TestShared_SameInstance(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}

func TestCalibrate_Separated(t *testing.T) {
	if !cpu.Supported {
		t.Skip("no flush+reload primitives on " + runtime.GOARCH)
	}
	if testing.Short() {
		t.Skip("timing test skipped in short mode")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c := New().Calibrate(2001)
	t.Logf("cached=%d evicted=%d threshold=%d", c.CachedMedian, c.EvictedMedian, c.Threshold())

	assert.Equal(t, 2001, c.Samples)
	assert.True(t, c.Separated())
	assert.Greater(t, c.Threshold(), c.CachedMedian)
}

func TestCalibration_Threshold(t *testing.T) {
	c := Calibration{CachedMedian: 40, EvictedMedian: 240}
	assert.Equal(t, int64(140), c.Threshold())
	assert.True(t, c.Separated())

	assert.False(t, Calibration{CachedMedian: 50, EvictedMedian: 50}.Separated())
}

func TestCalibrate_ClampsSamples(t *testing.T) {
	c := New().Calibrate(0)
	assert.Equal(t, 1, c.Samples)
}
