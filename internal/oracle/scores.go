package oracle

import "github.com/kolkov/specleak/internal/probe"

// Timings holds one reload latency per probe slot for a single round.
type Timings [probe.Slots]int64

// Scores accumulates hits per probe slot across the rounds of one byte.
// Entries only ever increase.
type Scores [probe.Slots]int

// TopTwo is the best and runner-up slot of a Scores vector.
// Best and Second are always different slots.
type TopTwo struct {
	Best        byte
	BestScore   int
	Second      byte
	SecondScore int
}

// Mean returns the integer mean of all latencies.
func (t *Timings) Mean() int64 {
	var sum int64
	for _, v := range t {
		sum += v
	}
	return sum / probe.Slots
}

// ScoreRound adds a point to every slot whose latency is below half the
// round mean, skipping excluded. It returns the number of points awarded.
//
// excluded is the value of the legitimately readable byte: the training
// accesses load its slot every round, so scoring it would drown the signal.
func ScoreRound(times *Timings, scores *Scores, excluded byte) int {
	mean := times.Mean()
	hits := 0
	for i, t := range times {
		if t*2 < mean && byte(i) != excluded {
			scores[i]++
			hits++
		}
	}
	return hits
}

// Top returns the two highest-scoring slots.
//
// Slots are scanned in ascending order and only a strictly greater score
// displaces a candidate, so on a tie the lower slot wins. Order of
// measurement plays no part: the result depends on the score values alone.
func (s *Scores) Top() TopTwo {
	return s.top(-1)
}

// TopExcluding is Top with one slot left out of the ranking, so it can
// never be returned even when every score is zero.
func (s *Scores) TopExcluding(excluded byte) TopTwo {
	return s.top(int(excluded))
}

func (s *Scores) top(skip int) TopTwo {
	best, second := -1, -1
	for i := 0; i < len(s); i++ {
		switch {
		case i == skip:
			continue
		case best < 0:
			best = i
		case s[i] > s[best]:
			second, best = best, i
		case second < 0 || s[i] > s[second]:
			second = i
		}
	}
	return TopTwo{
		Best:        byte(best),
		BestScore:   s[best],
		Second:      byte(second),
		SecondScore: s[second],
	}
}

// Converged reports whether the best candidate dominates:
// best > 2*second + margin. Scores never exceed the round count, so the
// difference cannot overflow whatever the margin.
func (t TopTwo) Converged(margin int) bool {
	return t.BestScore-2*t.SecondScore > margin
}

// visitOrder maps the i-th measurement to a slot. 167 is odd, so the map
// is a permutation of 0..255; consecutive measurements land far apart,
// which keeps the stride prefetcher from pulling in the next slot.
func visitOrder(i int) byte {
	return byte(i*167 + 13)
}
