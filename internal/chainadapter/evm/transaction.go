package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"

	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/internal/secure"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

// buildAndSign validates req, estimates its fee, assigns a nonce, and
// returns a fully signed transaction ready to broadcast. It is the
// shared core of SendTransaction and SignTransaction; it does not zero
// req.PrivateKey — callers own that.
func (c *Client) buildAndSign(ctx context.Context, req chainadapter.SendRequest) (*types.Transaction, *chainadapter.FeeEstimate, error) {
	if err := c.ValidateAddress(req.From); err != nil {
		return nil, nil, aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "from", "address": req.From})
	}
	if err := c.ValidateAddress(req.To); err != nil {
		return nil, nil, aerr.WithDetails(aerr.ErrInvalidAddress, map[string]string{"field": "to", "address": req.To})
	}

	if _, err := c.connect(ctx); err != nil {
		return nil, nil, err
	}

	if err := c.checkSigner(req.From, req.PrivateKey); err != nil {
		return nil, nil, err
	}

	fee, err := c.EstimateFee(ctx, req)
	if err != nil {
		return nil, nil, aerr.Wrap(err, "estimating fee")
	}

	nonce, err := c.GetNonce(ctx, req.From)
	if err != nil {
		return nil, nil, err
	}

	key, err := crypto.ToECDSA(req.PrivateKey)
	if err != nil {
		return nil, nil, aerr.Wrap(aerr.ErrSigningFailed, "parsing private key: %v", err)
	}

	toAddr := commonAddress(req.To)
	var tx *types.Transaction
	var signer types.Signer

	if fee.GasFeeCap != nil {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   c.info.ChainID,
			Nonce:     nonce,
			To:        &toAddr,
			Value:     req.Value,
			Gas:       fee.GasLimit,
			GasTipCap: fee.GasTipCap,
			GasFeeCap: fee.GasFeeCap,
			Data:      req.Data,
		})
		signer = types.NewLondonSigner(c.info.ChainID)
	} else {
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       &toAddr,
			Value:    req.Value,
			Gas:      fee.GasLimit,
			GasPrice: fee.GasPrice,
			Data:     req.Data,
		})
		signer = types.NewEIP155Signer(c.info.ChainID)
	}

	signedTx, err := types.SignTx(tx, signer, key)
	if err != nil {
		c.nonces.Reset(req.From)
		return nil, nil, aerr.Wrap(aerr.ErrSigningFailed, "signing transaction: %v", err)
	}

	return signedTx, fee, nil
}

// SendTransaction builds, signs, and broadcasts req. The private key is
// zeroed before this call returns, whether or not it succeeds.
func (c *Client) SendTransaction(ctx context.Context, req chainadapter.SendRequest) (*chainadapter.TransactionResult, error) {
	defer secure.Zero(req.PrivateKey)

	signedTx, fee, err := c.buildAndSign(ctx, req)
	if err != nil {
		return nil, err
	}

	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		c.nonces.Reset(req.From)
		return nil, aerr.Wrap(aerr.ErrTransactionFailed, "broadcasting transaction: %v", err)
	}

	gasPrice := fee.GasPrice
	if gasPrice == nil {
		gasPrice = fee.GasFeeCap
	}

	return &chainadapter.TransactionResult{
		Hash:     signedTx.Hash().Hex(),
		From:     req.From,
		To:       req.To,
		Value:    req.Value,
		GasUsed:  fee.GasLimit,
		GasPrice: gasPrice,
		Status:   "pending",
	}, nil
}

// SignTransaction builds and signs req exactly as SendTransaction does,
// but returns the RLP-encoded raw transaction as 0x-prefixed hex instead
// of broadcasting it. The private key is zeroed before this call returns.
func (c *Client) SignTransaction(ctx context.Context, req chainadapter.SendRequest) (string, error) {
	defer secure.Zero(req.PrivateKey)

	signedTx, _, err := c.buildAndSign(ctx, req)
	if err != nil {
		return "", err
	}

	raw, err := signedTx.MarshalBinary()
	if err != nil {
		return "", aerr.Wrap(aerr.ErrSigningFailed, "encoding signed transaction: %v", err)
	}

	return fmt.Sprintf("0x%x", raw), nil
}

// SignMessage signs message for address under the EIP-191 personal_sign
// scheme. The caller-supplied private key is zeroed before return.
func (c *Client) SignMessage(_ context.Context, address string, message, privateKey []byte) ([]byte, error) {
	defer secure.Zero(privateKey)

	if err := c.checkSigner(address, privateKey); err != nil {
		return nil, err
	}

	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrSigningFailed, "parsing private key: %v", err)
	}

	hash := hashPersonalMessage(message)
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrSigningFailed, "signing message: %v", err)
	}

	// Normalize the recovery id to Ethereum's 27/28 convention expected
	// by personal_sign consumers (go-ethereum's crypto.Sign returns 0/1).
	sig[64] += 27
	return sig, nil
}

// SignHash signs a pre-computed digest directly, with no message
// prefix — used for EIP-712 typed-data signatures, whose digest already
// encodes its own domain-separated prefix.
func (c *Client) SignHash(_ context.Context, address string, hash, privateKey []byte) ([]byte, error) {
	defer secure.Zero(privateKey)

	if err := c.checkSigner(address, privateKey); err != nil {
		return nil, err
	}

	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrSigningFailed, "parsing private key: %v", err)
	}

	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return nil, aerr.Wrap(aerr.ErrSigningFailed, "signing hash: %v", err)
	}

	sig[64] += 27
	return sig, nil
}

// checkSigner verifies privateKey actually derives to address, returning
// SignerMismatch if it doesn't. This is the host's one enforcement point
// that a dApp can never trick an account into signing with another
// account's key.
func (c *Client) checkSigner(address string, privateKey []byte) error {
	key, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return aerr.Wrap(aerr.ErrSigningFailed, "parsing private key: %v", err)
	}

	pub, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return aerr.ErrSigningFailed
	}

	derived := crypto.PubkeyToAddress(*pub).Hex()
	if !equalFoldAddress(derived, address) {
		return aerr.WithDetails(aerr.ErrSignerMismatch, map[string]string{
			"requested": address,
			"signer":    derived,
		})
	}
	return nil
}

func equalFoldAddress(a, b string) bool {
	return commonAddress(a) == commonAddress(b)
}

func hashPersonalMessage(message []byte) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(prefix))
	hasher.Write(message)
	return hasher.Sum(nil)
}
