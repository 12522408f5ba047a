package evm

import "sync"

// NonceManager tracks the highest nonce used per address so that rapid
// successive sends don't collide before the first transaction is
// visible in the node's mempool.
type NonceManager struct {
	mu     sync.Mutex
	nonces map[string]uint64 // address -> next nonce to hand out
}

// NewNonceManager creates an empty NonceManager.
func NewNonceManager() *NonceManager {
	return &NonceManager{nonces: make(map[string]uint64)}
}

// Next returns the nonce to use for address: the higher of the
// RPC-reported pending nonce and the locally tracked one, then advances
// the local counter past it.
func (nm *NonceManager) Next(address string, rpcNonce uint64) uint64 {
	nm.mu.Lock()
	defer nm.mu.Unlock()

	nonce := rpcNonce
	if local, ok := nm.nonces[address]; ok && local > rpcNonce {
		nonce = local
	}

	nm.nonces[address] = nonce + 1
	return nonce
}

// Reset clears local tracking for address, e.g. after a broadcast
// failure when the local counter can no longer be trusted.
func (nm *NonceManager) Reset(address string) {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	delete(nm.nonces, address)
}
