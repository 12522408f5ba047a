package walletservice

import (
	"context"

	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/internal/secure"
)

// Account is the metadata view of one wallet account: never a key.
type Account struct {
	Address string  `json:"address"`
	Derived bool    `json:"derived"`
	Index   uint32  `json:"index,omitempty"`
	Label   *string `json:"label,omitempty"`
}

// Signer is a one-shot capability to sign with a single account's key.
// It never returns the raw key to a caller; signing happens through it.
type Signer struct {
	address    string
	privateKey []byte
}

// Address returns the account this signer signs for.
func (s *Signer) Address() string {
	return s.address
}

// Destroy zeros the signer's copy of the private key. Safe to call more
// than once.
func (s *Signer) Destroy() {
	secure.Zero(s.privateKey)
}

// SendTransaction signs and broadcasts req through adapter using this
// signer's key, overriding req.From to the signer's own address.
func (s *Signer) SendTransaction(ctx context.Context, adapter chainadapter.Adapter, req chainadapter.SendRequest) (*chainadapter.TransactionResult, error) {
	req.From = s.address
	req.PrivateKey = s.privateKey
	return adapter.SendTransaction(ctx, req)
}

// SignTransaction signs req through adapter using this signer's key
// without broadcasting it, returning the raw signed transaction hex.
func (s *Signer) SignTransaction(ctx context.Context, adapter chainadapter.Adapter, req chainadapter.SendRequest) (string, error) {
	req.From = s.address
	req.PrivateKey = s.privateKey
	return adapter.SignTransaction(ctx, req)
}

// SignMessage signs message (EIP-191 personal_sign) through adapter using
// this signer's key.
func (s *Signer) SignMessage(ctx context.Context, adapter chainadapter.Adapter, message []byte) ([]byte, error) {
	return adapter.SignMessage(ctx, s.address, message, s.privateKey)
}

// SignHash signs a pre-computed digest (EIP-712 typed data) through
// adapter using this signer's key.
func (s *Signer) SignHash(ctx context.Context, adapter chainadapter.Adapter, hash []byte) ([]byte, error) {
	return adapter.SignHash(ctx, s.address, hash, s.privateKey)
}
