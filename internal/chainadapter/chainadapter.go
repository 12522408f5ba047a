// Package chainadapter defines the small, closed interface every network
// backend implements. The central state keeps one adapter instance per
// network, so the interface is deliberately narrow: adapters are safe for
// concurrent use by multiple goroutines and carry no per-request state.
package chainadapter

import (
	"context"
	"math/big"
)

// GasSpeed is a user-facing fee tier. Adapters translate it into whatever
// fee model the underlying chain uses (legacy gas price or EIP-1559
// base fee + tip).
type GasSpeed string

const (
	GasSpeedSlow   GasSpeed = "slow"
	GasSpeedMedium GasSpeed = "medium"
	GasSpeedFast   GasSpeed = "fast"
)

// FeeEstimate is the result of estimating the cost of a transaction.
type FeeEstimate struct {
	GasLimit  uint64
	GasPrice  *big.Int // legacy gas price, nil when GasFeeCap (EIP-1559) is set
	GasTipCap *big.Int // EIP-1559 max priority fee per gas
	GasFeeCap *big.Int // EIP-1559 max fee per gas
	Total     *big.Int // worst-case cost: gasLimit * (gasPrice or gasFeeCap)
}

// SendRequest describes a transaction to build, sign, and broadcast.
// PrivateKey is zeroed by the adapter once signing completes.
type SendRequest struct {
	From       string
	To         string
	Value      *big.Int
	Data       []byte // non-nil for contract calls / ERC-20 transfers
	GasLimit   uint64 // 0 lets the adapter estimate
	Speed      GasSpeed
	PrivateKey []byte
}

// TransactionResult is the outcome of a broadcast transaction.
type TransactionResult struct {
	Hash     string
	From     string
	To       string
	Value    *big.Int
	GasUsed  uint64
	GasPrice *big.Int
	Status   string // "pending" immediately after broadcast
}

// Transaction is one entry in transaction history.
type Transaction struct {
	Hash          string
	From          string
	To            string
	Value         *big.Int
	BlockNumber   uint64
	Timestamp     int64
	Status        string // "success", "failed", "pending"
	Direction     string // "in" or "out", relative to the queried address
}

// ChainInfo describes the network an adapter is bound to.
type ChainInfo struct {
	NetworkID string
	ChainID   *big.Int
	Name      string
	Symbol    string
	Decimals  int
	RPCURL    string
}

// Adapter is the trait every chain backend implements. All methods are
// safe to call concurrently; an Adapter instance is shared across every
// session and account using its network.
type Adapter interface {
	// ChainType reports the adapter family, e.g. "evm". Non-goal: non-EVM
	// chains are not implemented, but the tag keeps the surface ready for
	// one without a breaking interface change.
	ChainType() string

	// ChainInfo returns the static network metadata the adapter was
	// constructed with.
	ChainInfo() ChainInfo

	// GetBalance returns the native-token balance, in the smallest unit,
	// for address.
	GetBalance(ctx context.Context, address string) (*big.Int, error)

	// GetTokenBalance returns an ERC-20 token balance for address.
	GetTokenBalance(ctx context.Context, address, tokenAddress string) (*big.Int, error)

	// EstimateFee estimates the cost of sending req at the requested speed.
	EstimateFee(ctx context.Context, req SendRequest) (*FeeEstimate, error)

	// SendTransaction builds, signs, and broadcasts a transaction.
	SendTransaction(ctx context.Context, req SendRequest) (*TransactionResult, error)

	// SignTransaction builds and signs req exactly as SendTransaction
	// does, but returns the RLP-encoded raw transaction instead of
	// broadcasting it — the host's sign_transaction/send_transaction
	// split calls this for the sign-only half.
	SignTransaction(ctx context.Context, req SendRequest) (string, error)

	// SignMessage signs an arbitrary message for address using the
	// EIP-191 personal_sign scheme. privateKey must correspond to
	// address; SignerMismatch is returned otherwise.
	SignMessage(ctx context.Context, address string, message, privateKey []byte) ([]byte, error)

	// SignHash signs a pre-computed 32-byte digest directly, with no
	// message prefixing — the primitive eth_signTypedData_v4's EIP-712
	// digest needs, since that scheme defines its own prefix
	// ("\x19\x01") rather than the personal_sign one.
	SignHash(ctx context.Context, address string, hash, privateKey []byte) ([]byte, error)

	// GetTransactions returns recent transaction history for address.
	GetTransactions(ctx context.Context, address string, limit int) ([]Transaction, error)

	// BlockNumber returns the latest block height.
	BlockNumber(ctx context.Context) (uint64, error)

	// GasPrice returns the network's current suggested legacy gas price.
	// Networks quoted in EIP-1559 terms still answer this: it is the sum
	// a legacy-style caller would pay, not a base fee.
	GasPrice(ctx context.Context) (*big.Int, error)

	// TransactionCount returns the nonce for address. pending includes
	// transactions still in the mempool, matching the "pending" block
	// tag; false reads the last confirmed nonce.
	TransactionCount(ctx context.Context, address string, pending bool) (uint64, error)

	// Call executes a read-only contract call against the latest block
	// and returns its raw return data.
	Call(ctx context.Context, to string, data []byte) ([]byte, error)

	// ValidateAddress reports whether address is well-formed for this
	// chain. Lowercase, uppercase, and correctly checksummed forms are
	// all accepted; a mixed-case form with an incorrect checksum is not.
	ValidateAddress(address string) error

	// Close releases the adapter's underlying network connection. Called
	// once, when the adapter is evicted from the cache.
	Close()
}
