package leak

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/kolkov/specleak/internal/oracle"
	"github.com/kolkov/specleak/internal/region"
)

// Session owns one demonstration region and the oracle reading it.
//
// Setup errors (mapping, protection, unsupported CPU, bad tuning) surface
// from OpenSession; once open, recovery cannot fail, only degrade.
type Session struct {
	region *region.Region
	reader *Reader
	log    logrus.FieldLogger
}

// SessionOptions configures OpenSession.
type SessionOptions struct {
	Secret  []byte
	Protect bool
	Oracle  oracle.Config
	Log     logrus.FieldLogger
}

// OpenSession maps a region holding opts.Secret and builds the hardware
// oracle over it. The bound admits exactly the public byte.
func OpenSession(opts SessionOptions) (*Session, error) {
	r, err := region.New(region.Options{Secret: opts.Secret, Protect: opts.Protect})
	if err != nil {
		return nil, fmt.Errorf("set up region: %w", err)
	}

	o, err := oracle.NewOracle(oracle.Target{Base: r.Base(), Bound: 1}, opts.Oracle)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("set up oracle: %w", err)
	}

	rd := NewReader(o, opts.Log)
	rd.log.WithFields(logrus.Fields{
		"secret_len":    r.SecretLen(),
		"secret_offset": r.SecretOffset(),
		"protected":     r.Protected(),
		"public":        r.Public(),
	}).Debug("session open")

	return &Session{region: r, reader: rd, log: rd.log}, nil
}

// Region returns the session's memory region.
func (s *Session) Region() *region.Region {
	return s.region
}

// Recover reads length bytes starting offset bytes into the secret. fn, if
// non-nil, sees each byte as soon as it is recovered.
//
// The range must lie within the secret. The page padding behind it is
// mapped but zero-filled, the same value as the public byte, so it could
// never be recovered.
//
// The calling goroutine is locked to its OS thread for the duration, so
// training and measurement share one core's predictor and caches.
func (s *Session) Recover(offset, length int, fn func(Byte)) (Leaked, error) {
	if err := checkRange(offset, length, s.region.SecretLen()); err != nil {
		return nil, err
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	start := s.region.SecretOffset() + uintptr(offset)
	return s.reader.ReadRangeFunc(start, length, fn), nil
}

// checkRange rejects any [offset, offset+length) not inside [0, n).
// It never computes offset+length, which may overflow.
func checkRange(offset, length, n int) error {
	if offset < 0 || length < 0 || offset > n || length > n-offset {
		return fmt.Errorf("range of %d bytes at offset %d outside the %d secret bytes", length, offset, n)
	}
	return nil
}

// Close releases the region.
func (s *Session) Close() error {
	return s.region.Close()
}
