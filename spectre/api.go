// Package spectre provides the public API over the internal oracle.
//
// See doc.go for detailed documentation and examples.
package spectre

import (
	"github.com/sirupsen/logrus"

	"github.com/kolkov/specleak/internal/leak"
	"github.com/kolkov/specleak/internal/oracle"
	"github.com/kolkov/specleak/internal/platform"
)

// Config holds the oracle's tuning parameters.
type Config = oracle.Config

// Result is the recovery result for a single byte.
type Result = oracle.Result

// Byte is a Result together with its offset.
type Byte = leak.Byte

// Leaked is a recovered range in offset order.
type Leaked = leak.Leaked

// Options configures Recover.
type Options struct {
	// Protect makes the secret page inaccessible before recovery.
	Protect bool

	// Config is the oracle tuning. The zero value means DefaultConfig().
	Config Config

	// Logger receives one entry per recovered byte. Nil discards.
	Logger logrus.FieldLogger

	// OnByte, if set, is called after each byte is recovered.
	OnByte func(Byte)
}

// DefaultConfig returns the default oracle tuning.
func DefaultConfig() Config {
	return oracle.DefaultConfig()
}

// Supported reports whether this machine and toolchain can run the
// hardware channel.
func Supported() bool {
	return platform.Check().Supported
}

// Recover places secret behind a readable zero byte in freshly mapped
// memory and reads it back through the speculative channel only.
//
// Errors are setup failures. A returned Leaked always has len(secret)
// entries.
//
// Example:
//
//	leaked, err := spectre.Recover([]byte("Hello\n"), spectre.Options{})
//	if err != nil {
//		return err
//	}
//	fmt.Print(leaked.String())
func Recover(secret []byte, opts Options) (Leaked, error) {
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}

	s, err := leak.OpenSession(leak.SessionOptions{
		Secret:  secret,
		Protect: opts.Protect,
		Oracle:  cfg,
		Log:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	return s.Recover(0, len(secret), opts.OnByte)
}
