// Package txservice implements the stateless validation and policy
// layer a transaction passes through before it reaches a chain adapter:
// address and amount sanity, gas limit bounds, and a balance-sufficiency
// check. It holds no state of its own and calls back into the adapter
// for anything chain-specific (address validation, fee estimation).
package txservice

import (
	"context"
	"math/big"
	"strings"

	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

const (
	minGasLimit = 21000
	maxGasLimit = 30_000_000

	zeroAddress = "0x0000000000000000000000000000000000000000"
)

// isZeroAddress reports whether addr is the all-zero EVM address in any
// case. Checksum validity is the adapter's concern; this only guards
// against the anti-footgun case of a well-formed but all-zero "to".
func isZeroAddress(addr string) bool {
	return strings.EqualFold(addr, zeroAddress)
}

// Request is a transfer request prior to adapter-level execution.
type Request struct {
	From     string
	To       string
	Amount   *big.Int // smallest unit (wei); must be non-negative
	GasLimit uint64    // 0 lets the adapter estimate
	Speed    chainadapter.GasSpeed
}

// Validate checks req against the rules that don't require network
// access: well-formed addresses (rejecting the all-zero address as an
// anti-footgun guard — contract creation with an empty "to" is a
// distinct path, not this one), a non-negative amount, and (when
// explicitly set) a gas limit within [21000, 30000000].
func Validate(adapter chainadapter.Adapter, req Request) error {
	if err := adapter.ValidateAddress(req.From); err != nil {
		return aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "from", "address": req.From})
	}
	if err := adapter.ValidateAddress(req.To); err != nil {
		return aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "to", "address": req.To})
	}
	if isZeroAddress(req.To) {
		return aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "to", "address": req.To, "reason": "zero address"})
	}
	if req.Amount == nil || req.Amount.Sign() < 0 {
		return aerr.ErrInvalidAmount
	}
	if req.GasLimit != 0 && (req.GasLimit < minGasLimit || req.GasLimit > maxGasLimit) {
		return aerr.WithDetails(aerr.ErrGasLimitOutOfRange, map[string]string{
			"gas_limit": big.NewInt(0).SetUint64(req.GasLimit).String(),
			"min":       "21000",
			"max":       "30000000",
		})
	}
	return nil
}

// CheckBalance verifies the sender can cover amount plus the estimated
// fee, returning InsufficientBalance{need, have} when they can't.
func CheckBalance(ctx context.Context, adapter chainadapter.Adapter, req Request) (*chainadapter.FeeEstimate, error) {
	fee, err := adapter.EstimateFee(ctx, chainadapter.SendRequest{
		From:     req.From,
		To:       req.To,
		Value:    req.Amount,
		GasLimit: req.GasLimit,
		Speed:    req.Speed,
	})
	if err != nil {
		return nil, err
	}

	need := new(big.Int).Add(req.Amount, fee.Total)

	have, err := adapter.GetBalance(ctx, req.From)
	if err != nil {
		return nil, err
	}

	if have.Cmp(need) < 0 {
		return nil, aerr.InsufficientBalance(need.String(), have.String())
	}

	return fee, nil
}
