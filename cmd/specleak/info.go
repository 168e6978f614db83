package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/specleak/internal/platform"
	"github.com/kolkov/specleak/spectre"
)

// infoCommand implements 'specleak info'.
func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show version and platform support",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := spectre.GetInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "specleak %s (%s)\n", info.Version, info.Technique)
			fmt.Fprint(out, platform.Check().String())
			return nil
		},
	}
}

// configCommand implements 'specleak config'.
func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
