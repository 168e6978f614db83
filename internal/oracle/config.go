package oracle

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("oracle: invalid configuration")

// Default tuning constants.
const (
	DefaultMaxRounds          = 1000
	DefaultTrainingIterations = 500
	DefaultTrainRatio         = 10
	DefaultConvergenceMargin  = 200
	DefaultStallIterations    = 1000
)

// Config holds the oracle's tuning parameters.
//
// None of these change what the oracle computes, only how hard it tries and
// how sure it must be before it stops.
//
// Usage:
//
//	// Defaults: 1000 rounds, 500 trainings per round, 1 in 10 secret
//	cfg := oracle.DefaultConfig()
//
//	// Never converge early; always spend the whole budget
//	cfg.ConvergenceMargin = math.MaxInt / 4
type Config struct {
	// MaxRounds bounds the number of train+measure rounds per byte.
	// When exhausted the best candidate is returned as low confidence.
	// Default: 1000.
	MaxRounds int `yaml:"max_rounds" mapstructure:"max_rounds"`

	// TrainingIterations is the number of victim calls per round.
	// Default: 500.
	TrainingIterations int `yaml:"training_iterations" mapstructure:"training_iterations"`

	// TrainRatio: every TrainRatio-th victim call uses the secret offset,
	// the others use index 0. Must be at least 2 so the predictor sees
	// in-range calls.
	// Default: 10 (nine legitimate calls per secret call).
	TrainRatio int `yaml:"train_ratio" mapstructure:"train_ratio"`

	// ConvergenceMargin is the additive margin in the stop rule
	// best > 2*second + ConvergenceMargin.
	// Default: 200.
	ConvergenceMargin int `yaml:"convergence_margin" mapstructure:"convergence_margin"`

	// StallIterations is the length of the busy wait after flushing the
	// bound, so the bound is still in flight when the victim compares.
	// Default: 1000.
	StallIterations int `yaml:"stall_iterations" mapstructure:"stall_iterations"`
}

// DefaultConfig returns the tuning used by the original demonstration.
func DefaultConfig() Config {
	return Config{
		MaxRounds:          DefaultMaxRounds,
		TrainingIterations: DefaultTrainingIterations,
		TrainRatio:         DefaultTrainRatio,
		ConvergenceMargin:  DefaultConvergenceMargin,
		StallIterations:    DefaultStallIterations,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.MaxRounds < 1:
		return fmt.Errorf("%w: max_rounds must be at least 1, got %d", ErrInvalidConfig, c.MaxRounds)
	case c.TrainingIterations < 1:
		return fmt.Errorf("%w: training_iterations must be at least 1, got %d", ErrInvalidConfig, c.TrainingIterations)
	case c.TrainRatio < 2:
		return fmt.Errorf("%w: train_ratio must be at least 2, got %d", ErrInvalidConfig, c.TrainRatio)
	case c.TrainingIterations < c.TrainRatio:
		return fmt.Errorf("%w: training_iterations (%d) below train_ratio (%d) never reaches the secret",
			ErrInvalidConfig, c.TrainingIterations, c.TrainRatio)
	case c.ConvergenceMargin < 0:
		return fmt.Errorf("%w: convergence_margin must not be negative, got %d", ErrInvalidConfig, c.ConvergenceMargin)
	case c.StallIterations < 0:
		return fmt.Errorf("%w: stall_iterations must not be negative, got %d", ErrInvalidConfig, c.StallIterations)
	}
	return nil
}
