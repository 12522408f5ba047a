package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"

	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

// BlockNumber returns the latest block height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}

	n, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, aerr.Wrap(aerr.ErrRPCError, "getting block number: %v", err)
	}
	return n, nil
}

// GasPrice returns the network's current suggested legacy gas price,
// the same figure legacyGasPrice uses at the "medium" speed.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	price, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "getting gas price: %v", err)
	}
	return price, nil
}

// TransactionCount returns address's nonce, respecting the pending tag.
func (c *Client) TransactionCount(ctx context.Context, address string, pending bool) (uint64, error) {
	if err := c.ValidateAddress(address); err != nil {
		return 0, err
	}

	client, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}

	addr := commonAddress(address)
	if pending {
		n, err := client.PendingNonceAt(ctx, addr)
		if err != nil {
			return 0, aerr.Wrap(aerr.ErrRPCError, "getting pending nonce: %v", err)
		}
		return n, nil
	}

	n, err := client.NonceAt(ctx, addr, nil)
	if err != nil {
		return 0, aerr.Wrap(aerr.ErrRPCError, "getting nonce: %v", err)
	}
	return n, nil
}

// Call executes a read-only contract call against the latest block.
func (c *Client) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	if err := c.ValidateAddress(to); err != nil {
		return nil, aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "to", "address": to})
	}

	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	toAddr := commonAddress(to)
	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &toAddr, Data: data}, nil)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "calling contract: %v", err)
	}
	return result, nil
}
