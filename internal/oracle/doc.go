// Package oracle implements the byte-recovery oracle: branch-predictor
// training, the speculative trigger, flush+reload measurement and the
// convergence rule that turns noisy rounds into one recovered byte.
//
// # Overview
//
// The victim is a bounds-checked load:
//
//	if idx < *size {
//	    touch(probe[base[idx]])
//	}
//
// The oracle runs it many times with idx = 0, which is legitimately inside
// the bound, and every TrainRatio-th time with the offset of the secret
// byte. Before each call the cache line holding size is flushed and the
// oracle stalls, so the comparison has to wait for memory while idx,
// base[idx] and the probe address are already available. The predictor,
// trained on "in range", lets the probe load issue before the comparison
// retires. The architectural result is discarded; the probe slot numbered by
// the secret byte stays in the cache.
//
// # Rounds
//
// One round is:
//
//  1. reset and evict all 256 probe slots
//  2. TrainingIterations calls of the victim (flush size, stall, call)
//  3. time one reload of every slot in a mixed order
//  4. score: slots reloaded in less than half the mean latency gain a point,
//     except the slot of the legitimately readable byte
//
// After every round the two highest scores are compared and the oracle stops
// once best > 2*second + ConvergenceMargin. If MaxRounds pass without that,
// the current best is returned flagged LowConfidence. There is no error
// path: the channel is probabilistic and the convergence rule is the only
// arbiter.
//
// # Components
//
//   - [Config]: tuning constants (round budget, training burst, ratio, margin)
//   - [Timings], [Scores], [TopTwo], [ScoreRound]: pure scoring
//   - [Channel]: one round of train + measure; the hardware implementation
//     is built by [NewOracle], tests supply their own via
//     [NewOracleWithChannel]
//   - [Oracle.LeakByte]: the convergence controller
//
// # Known Limitation
//
// The slot of the legitimately readable byte is never scored, because the
// trained accesses warm it every round. A secret byte equal to that value
// therefore cannot be recovered; the oracle returns the strongest other
// candidate, usually flagged LowConfidence.
//
// # Thread Safety
//
// An Oracle is single-threaded. Callers should lock the goroutine to its OS
// thread for the duration of a recovery so training and measurement run on
// the same core.
package oracle
