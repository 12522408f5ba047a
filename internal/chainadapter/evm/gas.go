package evm

import (
	"context"
	"math/big"

	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

const (
	slowMultiplier = 0.8
	fastMultiplier = 1.2
)

// EstimateFee estimates the cost of req at the requested speed. Networks
// that advertise EIP-1559 support (those with a non-nil base fee on the
// latest header) get a tip-cap/fee-cap estimate; everything else falls
// back to a legacy gas price.
func (c *Client) EstimateFee(ctx context.Context, req chainadapter.SendRequest) (*chainadapter.FeeEstimate, error) {
	if err := c.ValidateAddress(req.From); err != nil {
		return nil, aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "from", "address": req.From})
	}
	if err := c.ValidateAddress(req.To); err != nil {
		return nil, aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "to", "address": req.To})
	}

	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit, err = c.estimateGasLimit(ctx, req)
		if err != nil {
			gasLimit = defaultGasLimit
		}
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err == nil && header.BaseFee != nil {
		return c.estimateEIP1559Fee(ctx, gasLimit, speedOrDefault(req.Speed))
	}

	gasPrice, err := c.legacyGasPrice(ctx, speedOrDefault(req.Speed))
	if err != nil {
		return nil, err
	}

	total := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	return &chainadapter.FeeEstimate{
		GasLimit: gasLimit,
		GasPrice: gasPrice,
		Total:    total,
	}, nil
}

func speedOrDefault(s chainadapter.GasSpeed) chainadapter.GasSpeed {
	if s == "" {
		return chainadapter.GasSpeedMedium
	}
	return s
}

func (c *Client) legacyGasPrice(ctx context.Context, speed chainadapter.GasSpeed) (*big.Int, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	suggested, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "getting gas price: %v", err)
	}

	switch speed {
	case chainadapter.GasSpeedSlow:
		return multiplyBigInt(suggested, slowMultiplier), nil
	case chainadapter.GasSpeedFast:
		return multiplyBigInt(suggested, fastMultiplier), nil
	default:
		return suggested, nil
	}
}

func (c *Client) estimateEIP1559Fee(ctx context.Context, gasLimit uint64, speed chainadapter.GasSpeed) (*chainadapter.FeeEstimate, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	tip, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "getting priority fee: %v", err)
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrRPCError, "getting base fee: %v", err)
	}

	switch speed {
	case chainadapter.GasSpeedSlow:
		tip = multiplyBigInt(tip, slowMultiplier)
	case chainadapter.GasSpeedFast:
		tip = multiplyBigInt(tip, fastMultiplier)
	}

	// feeCap = 2*baseFee + tip, the standard headroom for a couple of
	// base-fee increases before the transaction needs replacing.
	feeCap := new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(2)), tip)
	total := new(big.Int).Mul(feeCap, new(big.Int).SetUint64(gasLimit))

	return &chainadapter.FeeEstimate{
		GasLimit:  gasLimit,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Total:     total,
	}, nil
}

func (c *Client) estimateGasLimit(ctx context.Context, req chainadapter.SendRequest) (uint64, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return 0, err
	}

	from := commonAddress(req.From)
	to := commonAddress(req.To)

	limit, err := client.EstimateGas(ctx, ethCallMsg(from, to, req.Value, req.Data))
	if err != nil {
		return 0, aerr.Wrap(aerr.ErrRPCError, "estimating gas: %v", err)
	}
	return limit, nil
}

func multiplyBigInt(n *big.Int, multiplier float64) *big.Int {
	f := new(big.Float).SetInt(n)
	f.Mul(f, big.NewFloat(multiplier))
	result, _ := f.Int(nil)
	return result
}
