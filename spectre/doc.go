// Package spectre recovers bytes through a speculative bounds-check bypass.
//
// The package demonstrates the Spectre variant 1 side channel on amd64: a
// bounds-checked load is trained to be predicted in range, then called with
// an out-of-range index while its bound is still being fetched from memory.
// The speculatively executed load indexes a 256-slot probe array with the
// secret byte, and flush+reload timing of the probe slots reveals which one
// was touched.
//
// # Quick Start
//
//	leaked, err := spectre.Recover([]byte("Hello\n"), spectre.Options{})
//	if err != nil {
//		log.Fatal(err) // setup failure: unsupported CPU, mmap, mprotect
//	}
//	fmt.Printf("%q (%d low confidence)\n", leaked.String(), leaked.LowConfidence())
//
// Or from the command line:
//
//	$ specleak leak --secret 'Hello'
//
// # API Overview
//
//   - Recovery: [Recover]
//   - Tuning: [Config], [DefaultConfig]
//   - Platform and version: [Supported], [GetInfo], [Version]
//
// # Results
//
// Recovery never fails once the memory is set up. Each byte either
// converges (the best candidate scores more than twice the runner-up plus a
// margin) or is returned after the round budget as a best guess with
// LowConfidence set.
//
// # Compatibility
//
//   - Architecture: amd64 (RDTSCP, CLFLUSH, MFENCE in Go assembly)
//   - Operating systems: any unix for page protection; elsewhere the
//     region lives on the Go heap and Protect is rejected
//   - CGO requirement: none
//
// Whether bytes are actually recovered depends on the CPU, its microcode
// and the kernel's mitigations.
package spectre
