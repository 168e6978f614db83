// Package main implements the specleak CLI tool.
//
// The specleak tool places a secret in freshly mapped memory behind a
// single readable byte and reads it back through the speculative
// bounds-check-bypass channel alone:
//
//  1. Map a public page (byte 0 readable) followed by the secret page
//  2. Optionally revoke access to the secret page
//  3. Train a bounds check on index 0, trigger it with the secret offset
//  4. Time reloads of a 256-slot probe array to see which slot was touched
//
// Usage:
//
//	specleak leak                       # recover the default "Hello\n"
//	specleak leak --secret 'Squeamish'  # recover another secret
//	specleak calibrate                  # cached vs evicted reload latency
//	specleak info                       # platform support report
//	specleak config                     # print effective configuration
//
// Configuration comes from defaults, an optional YAML file (--config),
// SPECLEAK_* environment variables and flags, in increasing precedence.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
