package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// serveCmd runs the backend standalone: wires the central state exactly
// as the GUI shell's startup code would, then blocks until an operator
// interrupts it. Useful for local development and for smoke-testing a
// config file outside the desktop shell; production deployments embed
// the same wiring (internal/cli.buildSurface) directly rather than
// shelling out to this binary.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend standalone",
	Long: `Wires the wallet, network registry, and dApp bridge exactly as the
desktop shell does on startup, then blocks until interrupted.

No transport is started by this command — the GUI shell owns IPC
wiring (spec.md §6) — this only proves the configuration and the
composition root come up cleanly.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	surface, err := buildSurface(cfg)
	if err != nil {
		return err
	}

	exists, err := surface.WalletExists()
	if err != nil {
		return err
	}
	if exists {
		log.Debug("wallet record found at startup")
	} else {
		log.Debug("no wallet record; first run")
	}

	log.Debug("aurum-core ready, home=%s", cfg.Home)
	cmd.Println("aurum-core backend wired; press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Debug("shutting down")
	return nil
}
