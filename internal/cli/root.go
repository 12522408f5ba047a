// Package cli implements the Aurum Core operator-facing command line:
// a thin dev/ops harness around the backend, not a wallet CLI. The
// actual wallet surface (§4.O) is reached by the GUI shell through the
// command surface and IPC bridge, never through this binary — see
// spec.md §6, "the process is GUI-hosted."
//
// Adapted from the teacher's internal/cli/root.go cobra wiring
// (PersistentPreRunE initializing shared globals, PersistentPostRun
// tearing them down), trimmed from a full multi-command wallet CLI
// down to the two subcommands a GUI-hosted backend still needs on its
// own: serve (run the backend standalone, e.g. under a test harness or
// systemd unit) and doctor (diagnose the local environment before the
// GUI shell starts it).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurumlabs/aurum-core/internal/config"
	"github.com/aurumlabs/aurum-core/internal/obslog"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	homeDir string

	cfg *config.Config
	log *obslog.Logger
)

// rootCmd is the base command when called without any subcommands.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var rootCmd = &cobra.Command{
	Use:   "aurum-core",
	Short: "Aurum Core EVM wallet backend",
	Long: `Aurum Core is the backend process behind the Aurum wallet's desktop
shell: wallet lifecycle, EVM chain access, and the dApp provider bridge.

It is GUI-hosted in production; this binary exists for local
development and operational diagnostics, not end-user wallet use.

Example:
  aurum-core serve
  aurum-core doctor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "aurum-core home directory (default: OS config dir)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(doctorCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// initGlobals loads configuration and opens the ambient logger, the
// two things every subcommand needs regardless of what else it does.
func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	loaded, err := config.Load(config.Path(home))
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("loading config: %w", err)
		}
		loaded = config.Defaults()
		loaded.Home = home
	}
	config.ApplyEnvironment(loaded)
	cfg = loaded

	level := obslog.ParseLevel(cfg.Logging.Level)
	logger, err := obslog.New(level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("opening logger: %w", err)
	}
	if cfg.Logging.JSON {
		logger.SetJSONOutput(true)
	}
	log = logger

	for _, warning := range cfg.Warnings {
		log.Error("config warning: %s", warning)
	}

	return nil
}

func cleanup() {
	if log != nil {
		_ = log.Close()
	}
}
