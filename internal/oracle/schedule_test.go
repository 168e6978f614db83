package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchedule_EveryRatioThCallIsSecret(t *testing.T) {
	const secret = uintptr(4096 + 3)
	s := newSchedule(10)

	for i := 0; i < 500; i++ {
		got := s.index(i, secret)
		if (i+1)%10 == 0 {
			assert.Equal(t, secret, got, "call %d", i)
		} else {
			assert.Zero(t, got, "call %d", i)
		}
	}
}

func TestSchedule_SecretCallCount(t *testing.T) {
	tests := []struct {
		ratio, n, want int
	}{
		{10, 500, 50},
		{10, 9, 0},
		{10, 10, 1},
		{6, 30, 5},
		{2, 7, 3},
	}

	for _, tt := range tests {
		s := newSchedule(tt.ratio)
		counted := 0
		for i := 0; i < tt.n; i++ {
			if s.index(i, 1) != 0 {
				counted++
			}
		}
		assert.Equal(t, tt.want, counted, "ratio=%d n=%d", tt.ratio, tt.n)
	}
}

func TestSchedule_LargeOffset(t *testing.T) {
	s := newSchedule(3)
	const secret = ^uintptr(0) >> 1
	assert.Equal(t, secret, s.index(2, secret))
	assert.Zero(t, s.index(3, secret))
}

func TestNewSchedule_ClampsRatio(t *testing.T) {
	s := newSchedule(0)
	assert.Equal(t, uintptr(1), s.ratio)
	// Ratio 1 means every call is the secret call.
	assert.Equal(t, uintptr(5), s.index(0, 5))
}
