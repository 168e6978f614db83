// Package cpu provides the timing and cache-control primitives the oracle is
// built from.
//
// Every primitive is a leaf assembly routine on amd64. Go has no inline
// assembly, but a call into an assembly function is opaque to the compiler:
// the load in [Touch] cannot be eliminated, hoisted out of a loop or merged
// with a neighbouring load, and the CLFLUSH in [Evict] is issued exactly where
// the call appears. That is the property the flush+reload technique needs.
//
// # Primitives
//
//	Cycles()        RDTSCP, full 64-bit time stamp counter
//	TimedTouch(p)   RDTSCP; load byte at p; RDTSCP; return the difference
//	Touch(p)        load byte at p
//	Evict(p)        CLFLUSH the line holding p from every cache level
//	Fence()         MFENCE
//	Stall(n)        count down n in a register loop
//
// # Platform Support
//
//   - amd64: real primitives (cpu_amd64.s), [Supported] is true
//   - everything else: portable stand-ins (cpu_generic.go) that keep the
//     module building and the pure parts of the oracle testable; the
//     hardware channel refuses to run when [Supported] is false
//
// RDTSCP waits until all previous instructions have executed and all
// previous loads are globally visible, so a TimedTouch brackets exactly one
// reload. The counter itself may perturb the pipeline slightly; the oracle
// averages over that.
package cpu
