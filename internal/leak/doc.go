// Package leak drives the oracle across a run of byte offsets and renders
// the results.
//
// The driver is deliberately thin: one oracle call per offset, each with a
// fresh score vector, results kept in ascending offset order. No retries;
// the oracle's own round loop is the only repetition.
//
// Usage:
//
//	o, _ := oracle.NewOracle(oracle.Target{Base: r.Base(), Bound: 1}, cfg)
//	rd := leak.NewReader(o, logger)
//	got := rd.ReadRange(r.SecretOffset(), r.SecretLen())
//	fmt.Print(got.String())
package leak
