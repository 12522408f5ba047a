package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurumlabs/aurum-core/internal/keystore"
	"github.com/aurumlabs/aurum-core/internal/netregistry"
)

const doctorProbeKey = "doctor-probe"
const doctorTimeout = 10 * time.Second

// doctorCmd runs local environment diagnostics the GUI shell can't
// easily surface itself: is the OS keychain reachable and does the
// default network's RPC endpoint answer. Every check is best-effort
// and independent of the others — one failing doesn't stop the rest
// from running.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the local environment",
	Long: `Checks that the pieces aurum-core depends on are reachable: the OS
keychain and the configured default network's RPC endpoint.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	cmd.Printf("config:   %s (schema v%d)\n", cfg.Home, cfg.Version)
	checkKeychain(cmd)
	checkDefaultNetwork(ctx, cmd)

	return nil
}

func checkKeychain(cmd *cobra.Command) {
	kr := keystore.New()
	if err := kr.Store(doctorProbeKey, "probe", nil); err != nil {
		cmd.Printf("keychain: FAIL (%v)\n", err)
		return
	}
	defer func() { _ = kr.Delete(doctorProbeKey) }()

	if _, err := kr.Retrieve(doctorProbeKey); err != nil {
		cmd.Printf("keychain: FAIL (%v)\n", err)
		return
	}
	cmd.Println("keychain: OK")
}

func checkDefaultNetwork(ctx context.Context, cmd *cobra.Command) {
	networkID := cfg.Networks.DefaultNetworkID
	registry := netregistry.New(cfg.Networks.RPCOverrides)

	network, err := registry.Get(networkID)
	if err != nil {
		cmd.Printf("network %s: FAIL (%v)\n", networkID, err)
		return
	}
	if network.RPCURL == "" {
		cmd.Printf("network %s: SKIP (no RPC URL configured)\n", networkID)
		return
	}

	surface, err := buildSurface(cfg)
	if err != nil {
		cmd.Printf("network %s: FAIL (%v)\n", networkID, err)
		return
	}
	if err := surface.SwitchNetwork(ctx, networkID); err != nil {
		cmd.Printf("network %s: FAIL (%v)\n", networkID, err)
		return
	}
	height, err := surface.GetBlockNumber(ctx)
	if err != nil {
		cmd.Printf("network %s: FAIL (%v)\n", networkID, err)
		return
	}
	cmd.Printf("network %s: OK (block %d)\n", networkID, height)
}
