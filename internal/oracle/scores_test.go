package oracle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformTimings(v int64) Timings {
	var t Timings
	for i := range t {
		t[i] = v
	}
	return t
}

func TestTimings_Mean(t *testing.T) {
	times := uniformTimings(100)
	assert.Equal(t, int64(100), times.Mean())

	times[7] = 1
	// (255*100 + 1) / 256, integer division
	assert.Equal(t, int64(99), times.Mean())
}

// TestScoreRound_SingleFastSlot: one slot at 1 cycle, the rest at 100.
// 1 < 99/2 and 100 > 99/2, so exactly that slot scores, wherever it is.
func TestScoreRound_SingleFastSlot(t *testing.T) {
	const excluded = 0
	for slot := 0; slot < 256; slot++ {
		if slot == excluded {
			continue
		}
		times := uniformTimings(100)
		times[slot] = 1

		var scores Scores
		hits := ScoreRound(&times, &scores, excluded)

		require.Equal(t, 1, hits, "slot %d", slot)
		for i, s := range scores {
			if i == slot {
				require.Equal(t, 1, s, "slot %d", slot)
			} else {
				require.Zero(t, s, "slot %d scored while %d was fast", i, slot)
			}
		}
	}
}

func TestScoreRound_ExcludedSlotNeverScores(t *testing.T) {
	for excluded := 0; excluded < 256; excluded++ {
		times := uniformTimings(100)
		times[excluded] = 1

		var scores Scores
		hits := ScoreRound(&times, &scores, byte(excluded))

		require.Zero(t, hits)
		require.Zero(t, scores[excluded])
	}
}

func TestScoreRound_BoundaryIsStrict(t *testing.T) {
	// mean is exactly 100; a slot at 50 is half the mean, not below it.
	times := uniformTimings(100)
	times[1], times[2] = 50, 150

	var scores Scores
	hits := ScoreRound(&times, &scores, 0)

	assert.Zero(t, hits)
	assert.Zero(t, scores[1])
}

func TestScoreRound_Accumulates(t *testing.T) {
	var scores Scores
	for round := 0; round < 5; round++ {
		times := uniformTimings(100)
		times[0x48] = 1
		times[0x65] = 2
		ScoreRound(&times, &scores, 0)
	}
	assert.Equal(t, 5, scores[0x48])
	assert.Equal(t, 5, scores[0x65])
}

func TestScoreRound_NeverDecreases(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var scores Scores
	for round := 0; round < 200; round++ {
		var times Timings
		for i := range times {
			times[i] = 20 + rng.Int63n(300)
		}
		before := scores
		ScoreRound(&times, &scores, 0)
		for i := range scores {
			require.GreaterOrEqual(t, scores[i], before[i])
		}
	}
}

func TestTop_Basic(t *testing.T) {
	var s Scores
	s[0x48] = 40
	s[0x10] = 12
	s[0xff] = 3

	top := s.Top()
	assert.Equal(t, TopTwo{Best: 0x48, BestScore: 40, Second: 0x10, SecondScore: 12}, top)
}

func TestTop_BestAtIndexZeroStillHasDistinctSecond(t *testing.T) {
	var s Scores
	s[0] = 9
	s[3] = 4

	top := s.Top()
	assert.Equal(t, byte(0), top.Best)
	assert.Equal(t, byte(3), top.Second)
	assert.Equal(t, 4, top.SecondScore)
}

func TestTop_TiesGoToLowerIndex(t *testing.T) {
	var s Scores
	s[200] = 7
	s[50] = 7
	s[100] = 7

	top := s.Top()
	assert.Equal(t, byte(50), top.Best)
	assert.Equal(t, byte(100), top.Second)
}

func TestTop_AllZero(t *testing.T) {
	var s Scores
	top := s.Top()
	assert.Equal(t, byte(0), top.Best)
	assert.Equal(t, byte(1), top.Second)
}

func TestTopExcluding_SkipsSlot(t *testing.T) {
	var s Scores
	top := s.TopExcluding(0)
	assert.Equal(t, byte(1), top.Best)
	assert.Equal(t, byte(2), top.Second)

	s[5] = 100
	s[6] = 1
	top = s.TopExcluding(5)
	assert.Equal(t, byte(6), top.Best)
	assert.NotEqual(t, byte(5), top.Second)
}

// TestTop_IndependentOfVisitOrder fills the same timing vector through
// different visiting orders. Scores, and therefore the winner, must not
// depend on the order slots were measured in.
func TestTop_IndependentOfVisitOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	var source [256]int64
	for i := range source {
		source[i] = 150 + rng.Int63n(100)
	}
	source[0x6c] = 10
	source[0x21] = 12

	orders := [][]int{identityOrder(), mixedOrder(), rng.Perm(256), reverseOrder()}

	var want TopTwo
	for n, order := range orders {
		var scores Scores
		for round := 0; round < 10; round++ {
			var times Timings
			for _, slot := range order {
				times[slot] = source[slot]
			}
			ScoreRound(&times, &scores, 0)
		}

		got := scores.Top()
		if n == 0 {
			want = got
			continue
		}
		assert.Equal(t, want, got, "order %d", n)
	}
	// Both fast slots score every round: a genuine tie, resolved to the
	// lower slot whatever the measurement order.
	assert.Equal(t, byte(0x21), want.Best)
	assert.Equal(t, byte(0x6c), want.Second)
}

func TestTop_PermutedScoresSameWinnerWithoutTies(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		values := rng.Perm(256) // distinct, so no ties
		var s Scores
		for i, v := range values {
			s[i] = v
		}
		top := s.Top()
		assert.Equal(t, 255, top.BestScore)
		assert.Equal(t, 254, top.SecondScore)
		assert.Equal(t, 255, values[top.Best])
	}
}

func TestTopTwo_Converged(t *testing.T) {
	tests := []struct {
		name   string
		top    TopTwo
		margin int
		want   bool
	}{
		{"clear winner", TopTwo{BestScore: 250, SecondScore: 10}, 200, true},
		{"exactly at threshold", TopTwo{BestScore: 220, SecondScore: 10}, 200, false},
		{"one above threshold", TopTwo{BestScore: 221, SecondScore: 10}, 200, true},
		{"close race", TopTwo{BestScore: 300, SecondScore: 200}, 200, false},
		{"zero margin", TopTwo{BestScore: 3, SecondScore: 1}, 0, true},
		{"nothing yet", TopTwo{}, 0, false},
		{"max margin tie", TopTwo{BestScore: 1, SecondScore: 1}, math.MaxInt, false},
		{"max margin runner-up", TopTwo{BestScore: 1000, SecondScore: 1}, math.MaxInt, false},
		{"max margin alone", TopTwo{BestScore: 1000}, math.MaxInt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.top.Converged(tt.margin))
		})
	}
}

func TestVisitOrder_IsPermutation(t *testing.T) {
	var seen [256]bool
	for i := 0; i < 256; i++ {
		v := visitOrder(i)
		require.False(t, seen[v], "slot %d visited twice", v)
		seen[v] = true
	}
}

func TestVisitOrder_NoAdjacentConsecutive(t *testing.T) {
	for i := 1; i < 256; i++ {
		a, b := int(visitOrder(i-1)), int(visitOrder(i))
		d := a - b
		if d < 0 {
			d = -d
		}
		assert.Greater(t, d, 1, "visits %d and %d hit neighbouring slots", i-1, i)
	}
}

func identityOrder() []int {
	o := make([]int, 256)
	for i := range o {
		o[i] = i
	}
	return o
}

func reverseOrder() []int {
	o := make([]int, 256)
	for i := range o {
		o[i] = 255 - i
	}
	return o
}

func mixedOrder() []int {
	o := make([]int, 256)
	for i := range o {
		o[i] = int(visitOrder(i))
	}
	return o
}
