package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kolkov/specleak/internal/config"
	"github.com/kolkov/specleak/spectre"
)

// app carries state shared by the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string

	stdout io.Writer
	stderr io.Writer

	// Populated by the root PersistentPreRunE.
	cfg config.Config
	log *logrus.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		v:      config.NewViper(),
		stdout: stdout,
		stderr: stderr,
	}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specleak",
		Short: "Recover bytes through a speculative bounds-check bypass",
		Long: `specleak - speculative bounds-check-bypass byte oracle

specleak trains a bounds-checked load to be predicted in range, triggers it
with an out-of-range index while the bound is still in flight, and recovers
the byte the speculative load used from flush+reload timing of a 256-slot
probe array.`,
		Version:       spectre.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetVersionTemplate("specleak version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "YAML configuration file")
	pf.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	_ = a.v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", pf.Lookup("log-format"))

	cmd.AddCommand(
		a.leakCommand(),
		a.calibrateCommand(),
		a.infoCommand(),
		a.configCommand(),
		a.versionCommand(),
	)
	return cmd
}

// load resolves the configuration and builds the logger.
func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.NewLogger(a.stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger
	return nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("specleak version %s\n", spectre.Version)
			return nil
		},
	}
}
