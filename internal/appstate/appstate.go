// Package appstate is the central state composition root: it owns every
// long-lived subsystem (wallet, network registry, price service, the
// per-network adapter cache, active network/account, dApp sessions, the
// approval queue, and the rate limiter) and is the single object the
// command surface and the provider bridge are built around. The
// transaction service (internal/txservice) is stateless and is called
// directly by its package functions rather than held here.
//
// Grounded on the teacher's internal/cli/root.go composition-root wiring
// (initGlobals constructing and threading one set of shared dependencies
// through every command), generalized from CLI globals built once at
// startup into an owned, lockable struct built once per process and
// threaded through every command/provider-RPC handler call.
package appstate

import (
	"context"
	"sync"

	"github.com/aurumlabs/aurum-core/internal/approval"
	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/internal/chainadapter/evm"
	"github.com/aurumlabs/aurum-core/internal/dappsession"
	"github.com/aurumlabs/aurum-core/internal/netregistry"
	"github.com/aurumlabs/aurum-core/internal/priceservice"
	"github.com/aurumlabs/aurum-core/internal/ratelimit"
	"github.com/aurumlabs/aurum-core/internal/walletservice"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

// State is the central composition root. Lock acquisition order is
// strict — wallet → network registry → adapter cache → session →
// approval → rate — and no operation takes a second lock of the same
// tier. Each subsystem keeps its own lock rather than sharing one on
// State, since wallet unlock/lock may await the keychain while adapter
// cache lookups and session bookkeeping never should.
type State struct {
	Wallet      *walletservice.Service
	Networks    *netregistry.Registry
	Prices      *priceservice.Service
	Sessions    *dappsession.Manager
	Approvals   *approval.Queue
	RateLimiter *ratelimit.Limiter

	historyAPIKey string

	adaptersMu sync.Mutex
	adapters   map[string]*evm.Client

	activeMu      sync.Mutex
	activeNetwork string
	activeAccount string
}

// Config supplies the constructor dependencies and initial configuration
// for a new State.
type Config struct {
	Wallet        *walletservice.Service
	Networks      *netregistry.Registry
	Prices        *priceservice.Service
	HistoryAPIKey string // Etherscan-compatible API key; empty disables transaction history
}

// New assembles a central state from already-constructed subsystems.
// Wiring the individual subsystems (keyring, network registry seeding,
// HTTP clients) is the caller's responsibility; New only composes them.
func New(cfg Config) *State {
	return &State{
		Wallet:        cfg.Wallet,
		Networks:      cfg.Networks,
		Prices:        cfg.Prices,
		Sessions:      dappsession.New(),
		Approvals:     approval.New(),
		RateLimiter:   ratelimit.NewOriginLimiter(),
		historyAPIKey: cfg.HistoryAPIKey,
		adapters:      make(map[string]*evm.Client),
	}
}

// SwitchNetwork sets the active network, constructing and caching an
// adapter for it if one isn't already cached. Adapters are reused until
// explicitly evicted by EvictAdapter (called by UpdateNetwork when that
// network's RPC URL changes) — switching away from a network and back
// does not reconnect.
func (s *State) SwitchNetwork(ctx context.Context, networkID string) error {
	network, err := s.Networks.Get(networkID)
	if err != nil {
		return err
	}

	s.adaptersMu.Lock()
	if _, ok := s.adapters[networkID]; !ok {
		client := evm.New(chainadapter.ChainInfo{
			NetworkID: network.ID,
			ChainID:   network.ChainID,
			Name:      network.Name,
			Symbol:    network.Symbol,
			Decimals:  network.Decimals,
			RPCURL:    network.RPCURL,
		})
		if s.historyAPIKey != "" {
			client = client.WithHistoryClient(evm.NewHistoryClient(s.historyAPIKey, ""))
		}
		s.adapters[networkID] = client
	}
	s.adaptersMu.Unlock()

	s.activeMu.Lock()
	s.activeNetwork = networkID
	s.activeMu.Unlock()

	return nil
}

// EvictAdapter closes and drops the cached adapter for networkID, if
// any. Called by UpdateNetwork when that network's RPC URL changes; the
// next SwitchNetwork call for networkID constructs a fresh adapter
// against the new URL, and until then CurrentAdapter reports
// NetworkNotInitialized if networkID is the active network.
func (s *State) EvictAdapter(networkID string) {
	s.adaptersMu.Lock()
	defer s.adaptersMu.Unlock()

	if client, ok := s.adapters[networkID]; ok {
		client.Close()
		delete(s.adapters, networkID)
	}
}

// UpdateNetwork changes networkID's RPC URL in the network registry.
// When the URL actually changed, the cached adapter is evicted, and if
// networkID is the active network a fresh adapter is constructed so
// CurrentAdapter uses the new URL.
func (s *State) UpdateNetwork(ctx context.Context, networkID, rpcURL string) error {
	changed, err := s.Networks.UpdateRPCURL(networkID, rpcURL)
	if err != nil || !changed {
		return err
	}
	s.EvictAdapter(networkID)
	if s.ActiveNetwork() == networkID {
		return s.SwitchNetwork(ctx, networkID)
	}
	return nil
}

// CurrentAdapter returns the adapter for the active network, or
// NetworkNotInitialized if SwitchNetwork hasn't been called yet.
func (s *State) CurrentAdapter() (chainadapter.Adapter, error) {
	s.activeMu.Lock()
	networkID := s.activeNetwork
	s.activeMu.Unlock()

	if networkID == "" {
		return nil, aerr.ErrNetworkNotInitialized
	}

	s.adaptersMu.Lock()
	defer s.adaptersMu.Unlock()

	client, ok := s.adapters[networkID]
	if !ok {
		return nil, aerr.ErrNetworkNotInitialized
	}
	return client, nil
}

// ActiveNetwork returns the currently selected network id, or "" if
// none has been chosen yet.
func (s *State) ActiveNetwork() string {
	s.activeMu.Lock()
	defer s.activeMu.Unlock()
	return s.activeNetwork
}

// SetActiveAccount validates address against the wallet's known
// accounts before recording it as active.
func (s *State) SetActiveAccount(address string) error {
	accounts, err := s.Wallet.Accounts()
	if err != nil {
		return err
	}

	found := false
	for _, acc := range accounts {
		if acc.Address == address {
			found = true
			break
		}
	}
	if !found {
		return aerr.ErrUnknownAccount
	}

	s.activeMu.Lock()
	s.activeAccount = address
	s.activeMu.Unlock()
	return nil
}

// ActiveAccount returns the currently selected account address, or
// NoActiveAccount if none has been chosen yet.
func (s *State) ActiveAccount() (string, error) {
	s.activeMu.Lock()
	defer s.activeMu.Unlock()

	if s.activeAccount == "" {
		return "", aerr.ErrNoActiveAccount
	}
	return s.activeAccount, nil
}
