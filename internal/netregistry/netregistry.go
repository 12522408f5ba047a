// Package netregistry holds the set of EVM networks the wallet knows
// about: a fixed table of built-in networks plus any user-added custom
// ones. The registry holds them in memory only; custom networks are
// persisted in the config file by internal/config. Network lookups are the
// first lock the central state's composition root acquires on any
// network-scoped operation.
package netregistry

import (
	"math/big"
	"net/url"
	"sync"

	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

// Network describes one EVM-compatible chain the wallet can talk to.
type Network struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ChainID  *big.Int `json:"chain_id"`
	RPCURL   string   `json:"rpc_url"`
	Symbol   string   `json:"symbol"`
	Decimals int      `json:"decimals"`
	Explorer string   `json:"explorer,omitempty"`
	Custom   bool     `json:"custom"`
}

// builtins is the fixed, stable-ordered table of networks shipped with
// the wallet. Order matters: it is the order returned to callers and
// the order a first-run wallet sees in any network picker.
func builtins() []Network {
	return []Network{
		{ID: "ethereum", Name: "Ethereum", ChainID: big.NewInt(1), Symbol: "ETH", Decimals: 18, Explorer: "https://etherscan.io"},
		{ID: "pulsechain", Name: "PulseChain", ChainID: big.NewInt(369), Symbol: "PLS", Decimals: 18, Explorer: "https://scan.pulsechain.com"},
		{ID: "polygon", Name: "Polygon", ChainID: big.NewInt(137), Symbol: "POL", Decimals: 18, Explorer: "https://polygonscan.com"},
		{ID: "bsc", Name: "BNB Smart Chain", ChainID: big.NewInt(56), Symbol: "BNB", Decimals: 18, Explorer: "https://bscscan.com"},
		{ID: "arbitrum", Name: "Arbitrum One", ChainID: big.NewInt(42161), Symbol: "ETH", Decimals: 18, Explorer: "https://arbiscan.io"},
		{ID: "optimism", Name: "Optimism", ChainID: big.NewInt(10), Symbol: "ETH", Decimals: 18, Explorer: "https://optimistic.etherscan.io"},
		{ID: "avalanche", Name: "Avalanche C-Chain", ChainID: big.NewInt(43114), Symbol: "AVAX", Decimals: 18, Explorer: "https://snowtrace.io"},
		{ID: "base", Name: "Base", ChainID: big.NewInt(8453), Symbol: "ETH", Decimals: 18, Explorer: "https://basescan.org"},
	}
}

// Registry holds the built-in networks plus any custom ones a user has
// added, keyed by network id. RPC URLs for built-ins are filled in from
// config (an API-key-bearing provider URL) rather than hardcoded here.
type Registry struct {
	mu       sync.RWMutex
	networks map[string]Network
	order    []string // built-ins first in their fixed order, customs appended
}

// New creates a Registry seeded with the built-in network table. rpcURLs
// supplies the provider URL for each built-in id; a built-in with no
// entry is kept in the table but left with an empty RPCURL until
// configured.
func New(rpcURLs map[string]string) *Registry {
	r := &Registry{networks: make(map[string]Network)}

	for _, n := range builtins() {
		n.RPCURL = rpcURLs[n.ID]
		r.networks[n.ID] = n
		r.order = append(r.order, n.ID)
	}

	return r
}

// Get returns the network registered under id.
func (r *Registry) Get(id string) (Network, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.networks[id]
	if !ok {
		return Network{}, aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{"network_id": id})
	}
	return n, nil
}

// List returns every registered network, built-ins first in their fixed
// order, then custom networks in the order they were added.
func (r *Registry) List() []Network {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Network, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.networks[id])
	}
	return out
}

// AddCustom validates and registers a user-supplied network. A custom
// network with an id already in use (built-in or custom) is rejected.
func (r *Registry) AddCustom(n Network) error {
	if err := validateCustom(n); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.networks[n.ID]; exists {
		return aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{
			"network_id": n.ID,
			"reason":     "network id already registered",
		})
	}

	n.Custom = true
	r.networks[n.ID] = n
	r.order = append(r.order, n.ID)
	return nil
}

// UpdateRPCURL changes the RPC endpoint for an existing network (built-in
// or custom) and reports whether the URL actually changed — the central
// state's UpdateNetwork uses that to decide whether to evict the cached
// adapter.
func (r *Registry) UpdateRPCURL(id, rpcURL string) (changed bool, err error) {
	if err := validateRPCURL(rpcURL); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.networks[id]
	if !ok {
		return false, aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{"network_id": id})
	}

	changed = n.RPCURL != rpcURL
	n.RPCURL = rpcURL
	r.networks[id] = n
	return changed, nil
}

// RemoveCustom deletes a custom network. Built-in networks cannot be
// removed.
func (r *Registry) RemoveCustom(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.networks[id]
	if !ok {
		return aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{"network_id": id})
	}
	if !n.Custom {
		return aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{
			"network_id": id,
			"reason":     "built-in networks cannot be removed",
		})
	}

	delete(r.networks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func validateCustom(n Network) error {
	if n.ID == "" {
		return aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{"reason": "network id is required"})
	}
	if n.ChainID == nil || n.ChainID.Sign() == 0 {
		return aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{"reason": "chain id must be non-zero"})
	}
	if n.Decimals < 0 || n.Decimals > 18 {
		return aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{"reason": "decimals must be between 0 and 18"})
	}
	return validateRPCURL(n.RPCURL)
}

func validateRPCURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{
			"rpc_url": rawURL,
			"reason":  "rpc url must be an http or https URL",
		})
	}
	return nil
}
