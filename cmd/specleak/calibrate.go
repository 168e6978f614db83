package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/kolkov/specleak/internal/platform"
	"github.com/kolkov/specleak/internal/probe"
)

// calibrateCommand implements 'specleak calibrate'.
//
// It times reloads of one probe slot while cached and right after CLFLUSH
// and prints both medians. A machine whose evicted median is not clearly
// above the cached one gives the oracle nothing to work with.
func (a *app) calibrateCommand() *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Measure cached vs evicted reload latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if samples < 1 {
				return errors.New("--samples must be at least 1")
			}
			report := platform.Check()
			if !report.Supported {
				return fmt.Errorf("platform not supported:\n%s", report)
			}

			runtime.LockOSThread()
			c := probe.Shared().Calibrate(samples)
			runtime.UnlockOSThread()

			a.log.WithField("samples", c.Samples).Debug("calibration done")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "samples:         %d\n", c.Samples)
			fmt.Fprintf(out, "cached median:   %d cycles\n", c.CachedMedian)
			fmt.Fprintf(out, "evicted median:  %d cycles\n", c.EvictedMedian)
			fmt.Fprintf(out, "hit threshold:   %d cycles\n", c.Threshold())
			if !c.Separated() {
				fmt.Fprintln(out, "warning: eviction produced no measurable slowdown")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 10001, "reloads timed per state")
	return cmd
}
