package cli

import (
	"fmt"
	"math/big"
	"path/filepath"

	"github.com/aurumlabs/aurum-core/internal/appstate"
	"github.com/aurumlabs/aurum-core/internal/backup"
	"github.com/aurumlabs/aurum-core/internal/commands"
	"github.com/aurumlabs/aurum-core/internal/config"
	"github.com/aurumlabs/aurum-core/internal/keystore"
	"github.com/aurumlabs/aurum-core/internal/netregistry"
	"github.com/aurumlabs/aurum-core/internal/priceservice"
	"github.com/aurumlabs/aurum-core/internal/walletservice"
)

// buildSurface assembles the central state and command surface from
// cfg, the same composition a GUI shell's startup code performs before
// handing the command surface to its IPC bridge.
func buildSurface(cfg *config.Config) (*commands.Surface, error) {
	networks := netregistry.New(cfg.Networks.RPCOverrides)

	for _, custom := range cfg.Networks.Custom {
		if err := networks.AddCustom(netregistry.Network{
			ID:       custom.NetworkID,
			Name:     custom.Name,
			ChainID:  new(big.Int).SetUint64(custom.ChainID),
			RPCURL:   custom.RPCURL,
			Symbol:   custom.Symbol,
			Decimals: custom.Decimals,
			Explorer: custom.ExplorerURL,
			Custom:   true,
		}); err != nil {
			return nil, fmt.Errorf("registering custom network %s: %w", custom.NetworkID, err)
		}
	}

	kr := keystore.New()
	wallet := walletservice.New(kr)
	prices := priceservice.New()

	state := appstate.New(appstate.Config{
		Wallet:   wallet,
		Networks: networks,
		Prices:   prices,
	})

	backups := backup.NewService(filepath.Join(cfg.Home, "backups"), kr)

	return commands.New(state, backups), nil
}
