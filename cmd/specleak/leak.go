package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kolkov/specleak/internal/leak"
	"github.com/kolkov/specleak/internal/platform"
)

// leakCommand implements 'specleak leak'.
//
// Flow:
//  1. Check the platform can run the hardware channel
//  2. Map the region, place the secret, optionally protect it
//  3. Recover the configured range byte by byte, printing each line
//  4. Print the summary
//
// Example:
//
//	specleak leak
//	specleak leak --secret 'The Magic Words' --max-rounds 500
//	specleak leak --secret 'Hello' --offset 1 --length 3 --protect
func (a *app) leakCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leak",
		Short: "Place a secret in memory and recover it speculatively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLeak(cmd)
		},
	}

	f := cmd.Flags()
	f.String("secret", "", "secret to place behind the public byte (default \"Hello\\n\")")
	f.Bool("protect", false, "make the secret page PROT_NONE before recovery")
	f.Int("offset", 0, "first byte to recover, relative to the secret")
	f.Int("length", 0, "number of bytes to recover (0: rest of the secret)")
	f.Int("max-rounds", 0, "round budget per byte")
	f.Int("training-iterations", 0, "victim calls per round")
	f.Int("train-ratio", 0, "every Nth victim call uses the secret offset")
	f.Int("margin", 0, "convergence margin: stop when best > 2*second + margin")
	f.Int("stall", 0, "busy-wait iterations after flushing the bound")

	for key, flag := range map[string]string{
		"region.secret":              "secret",
		"region.protect":             "protect",
		"region.offset":              "offset",
		"region.length":              "length",
		"oracle.max_rounds":          "max-rounds",
		"oracle.training_iterations": "training-iterations",
		"oracle.train_ratio":         "train-ratio",
		"oracle.convergence_margin":  "margin",
		"oracle.stall_iterations":    "stall",
	} {
		_ = a.v.BindPFlag(key, f.Lookup(flag))
	}
	return cmd
}

func (a *app) runLeak(cmd *cobra.Command) error {
	report := platform.Check()
	if !report.Supported {
		return fmt.Errorf("platform not supported:\n%s", report)
	}

	s, err := leak.OpenSession(leak.SessionOptions{
		Secret:  []byte(a.cfg.Region.Secret),
		Protect: a.cfg.Region.Protect,
		Oracle:  a.cfg.Oracle,
		Log:     a.log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.log.WithError(err).Warn("closing region")
		}
	}()

	offset, length := a.cfg.Region.Span()
	a.log.WithFields(logrus.Fields{
		"offset":    offset,
		"length":    length,
		"protected": s.Region().Protected(),
	}).Info("recovering")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reading %d bytes:\n", length)
	leaked, err := s.Recover(offset, length, func(b leak.Byte) {
		fmt.Fprintln(out, leak.FormatByte(b))
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, leak.Summary(leaked))
	return nil
}
