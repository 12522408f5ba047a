// Package evm implements the chain adapter trait for EVM-compatible
// networks (Ethereum, and any network reachable over the same JSON-RPC
// surface: PulseChain, Polygon, BSC, Arbitrum, Optimism, Avalanche,
// Base, or a user-added custom network). One Client is constructed per
// network and is safe for concurrent use; the central state caches one
// instance per network_id and only tears it down when that network's
// RPC URL changes.
package evm

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

const (
	nativeDecimals  = 18
	defaultGasLimit = 21000
)

// erc20BalanceOfSelector is keccak256("balanceOf(address)")[0:4].
var erc20BalanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// Client is the EVM chain adapter. It owns one ethclient.Client (lazily
// dialed on first use) plus the bookkeeping (nonce tracking, transaction
// history) a live EVM network needs beyond what ethclient exposes
// directly.
type Client struct {
	mu sync.Mutex

	info   chainadapter.ChainInfo
	dialed *ethclient.Client

	nonces  *NonceManager
	history *HistoryClient
}

// New constructs an adapter for the network described by info. The RPC
// connection is established lazily on first call, matching the
// teacher's connect-on-demand client pattern.
func New(info chainadapter.ChainInfo) *Client {
	return &Client{
		info:   info,
		nonces: NewNonceManager(),
	}
}

// WithHistoryClient attaches an explorer-backed transaction history
// source. Networks without an Etherscan-compatible API key configured
// simply never call this, and GetTransactions returns an empty history.
func (c *Client) WithHistoryClient(h *HistoryClient) *Client {
	c.history = h
	return c
}

func (c *Client) ChainType() string { return "evm" }

func (c *Client) ChainInfo() chainadapter.ChainInfo { return c.info }

// Close tears down the underlying RPC connection. Called once, when the
// central state evicts this adapter from its cache.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialed != nil {
		c.dialed.Close()
		c.dialed = nil
	}
}

// connect dials the RPC endpoint if it hasn't been already, and fills in
// ChainID from the node when the configured network didn't supply one.
func (c *Client) connect(ctx context.Context) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dialed != nil {
		return c.dialed, nil
	}

	client, err := ethclient.DialContext(ctx, c.info.RPCURL)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "dialing %s: %v", c.info.Name, err)
	}

	if c.info.ChainID == nil {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, aerr.Wrap(aerr.ErrRPCError, "fetching chain id: %v", err)
		}
		c.info.ChainID = chainID
	}

	c.dialed = client
	return client, nil
}

// GetBalance returns the native balance, in wei, for address.
func (c *Client) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	if err := c.ValidateAddress(address); err != nil {
		return nil, err
	}

	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "getting balance: %v", err)
	}
	return balance, nil
}

// GetTokenBalance returns an ERC-20 balanceOf(address) result.
func (c *Client) GetTokenBalance(ctx context.Context, address, tokenAddress string) (*big.Int, error) {
	if err := c.ValidateAddress(address); err != nil {
		return nil, err
	}
	if err := c.ValidateAddress(tokenAddress); err != nil {
		return nil, aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "token", "address": tokenAddress})
	}

	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	addr := common.HexToAddress(address)
	data := append(append([]byte{}, erc20BalanceOfSelector...), common.LeftPadBytes(addr.Bytes(), 32)...)

	token := common.HexToAddress(tokenAddress)
	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "calling balanceOf: %v", err)
	}
	if len(result) < 32 {
		return big.NewInt(0), nil
	}

	return new(big.Int).SetBytes(result), nil
}

// ValidateAddress accepts any address whose checksum is either absent
// (all-lowercase or all-uppercase) or correct; a mixed-case address with
// an incorrect checksum is rejected.
func (c *Client) ValidateAddress(address string) error {
	if !common.IsHexAddress(address) {
		return aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"address": address})
	}

	body := strings.TrimPrefix(address, "0x")
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}

	if address != common.HexToAddress(address).Hex() {
		return aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{
			"address": address,
			"reason":  "incorrect EIP-55 checksum",
		})
	}
	return nil
}

// GetNonce returns the next nonce to use for address, reconciling the
// RPC-reported pending nonce with any nonce this process has already
// used locally but that hasn't yet propagated to the node's mempool.
func (c *Client) GetNonce(ctx context.Context, address string) (uint64, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}

	rpcNonce, err := client.PendingNonceAt(ctx, common.HexToAddress(address))
	if err != nil {
		return 0, aerr.Wrap(aerr.ErrRPCError, "getting nonce: %v", err)
	}

	return c.nonces.Next(address, rpcNonce), nil
}

