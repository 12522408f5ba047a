package aerr

// Host-side error codes (§7 taxonomy). These are the Code values carried
// by AurumError; EIP1193Code maps a subset of them onto dApp-facing
// provider error codes.
const (
	CodeInternal = "INTERNAL"

	// WalletErrors
	CodeNoWallet                 = "NO_WALLET"
	CodeWalletAlreadyExists      = "WALLET_ALREADY_EXISTS"
	CodeWalletLocked             = "WALLET_LOCKED"
	CodeInvalidPassword          = "INVALID_PASSWORD"
	CodeInvalidMnemonic          = "INVALID_MNEMONIC"
	CodeInvalidPrivateKey        = "INVALID_PRIVATE_KEY"
	CodeUnknownAccount           = "UNKNOWN_ACCOUNT"
	CodeNoActiveAccount          = "NO_ACTIVE_ACCOUNT"
	CodeKeyringBackendUnavailable = "KEYRING_BACKEND_UNAVAILABLE"
	CodeDecryptionFailed         = "DECRYPTION_FAILED"
	CodeKeyDerivationFailed      = "KEY_DERIVATION_FAILED"

	// NetworkErrors
	CodeNetworkNotInitialized    = "NETWORK_NOT_INITIALIZED"
	CodeInvalidNetwork           = "INVALID_NETWORK"
	CodeRPCError                = "RPC_ERROR"
	CodeConnectionTimeout        = "CONNECTION_TIMEOUT"
	CodeRateLimitExceededUpstream = "RATE_LIMIT_EXCEEDED_UPSTREAM"

	// TransactionErrors
	CodeInvalidAddress      = "INVALID_ADDRESS"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeGasLimitOutOfRange  = "GAS_LIMIT_OUT_OF_RANGE"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeTransactionFailed   = "TRANSACTION_FAILED"
	CodeSignerNotAvailable  = "SIGNER_NOT_AVAILABLE"
	CodeSignerMismatch      = "SIGNER_MISMATCH"
	CodeSigningFailed       = "SIGNING_FAILED"

	// dAppErrors (mirror the EIP-1193 codes so host code and bridge code
	// can share a vocabulary; EIP1193Code still does the lookup rather
	// than assuming Code == the numeric code).
	CodeUserRejected      = "USER_REJECTED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeUnsupportedMethod = "UNSUPPORTED_METHOD"
	CodeDisconnected      = "DISCONNECTED"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeOriginMismatch    = "ORIGIN_MISMATCH"
	CodeRequestExpired    = "REQUEST_EXPIRED"
	CodeDuplicateRequest  = "DUPLICATE_REQUEST"
	CodeInvalidParams     = "INVALID_PARAMS"

	// ConfigErrors
	CodeConfigError          = "CONFIG_ERROR"
	CodeStatePersistenceError = "STATE_PERSISTENCE_ERROR"

	// dApp window lifecycle errors (§4.P)
	CodeInvalidURL           = "INVALID_URL"
	CodeWindowCreationFailed = "WINDOW_CREATION_FAILED"
)

// Sentinel errors for errors.Is comparisons. Callers wrap these with
// WithDetails/Wrap rather than constructing AurumError literals inline,
// so every instance of (say) ErrInvalidAddress compares equal via Is
// regardless of the details attached.
var (
	ErrNoWallet                  = &AurumError{Code: CodeNoWallet, Message: "no wallet exists"}
	ErrWalletAlreadyExists       = &AurumError{Code: CodeWalletAlreadyExists, Message: "a wallet already exists"}
	ErrWalletLocked              = &AurumError{Code: CodeWalletLocked, Message: "wallet is locked"}
	ErrInvalidPassword           = &AurumError{Code: CodeInvalidPassword, Message: "invalid password"}
	ErrInvalidMnemonic           = &AurumError{Code: CodeInvalidMnemonic, Message: "invalid mnemonic phrase"}
	ErrInvalidPrivateKey         = &AurumError{Code: CodeInvalidPrivateKey, Message: "invalid private key"}
	ErrUnknownAccount            = &AurumError{Code: CodeUnknownAccount, Message: "unknown account"}
	ErrNoActiveAccount           = &AurumError{Code: CodeNoActiveAccount, Message: "no active account"}
	ErrKeyringBackendUnavailable = &AurumError{Code: CodeKeyringBackendUnavailable, Message: "OS keychain unavailable"}
	ErrDecryptionFailed          = &AurumError{Code: CodeDecryptionFailed, Message: "decryption failed"}
	ErrKeyDerivationFailed       = &AurumError{Code: CodeKeyDerivationFailed, Message: "key derivation failed"}

	ErrNetworkNotInitialized     = &AurumError{Code: CodeNetworkNotInitialized, Message: "network not initialized"}
	ErrInvalidNetwork            = &AurumError{Code: CodeInvalidNetwork, Message: "invalid network configuration"}
	ErrRPCError                  = &AurumError{Code: CodeRPCError, Message: "RPC request failed"}
	ErrConnectionTimeout         = &AurumError{Code: CodeConnectionTimeout, Message: "connection timed out"}
	ErrRateLimitExceededUpstream = &AurumError{Code: CodeRateLimitExceededUpstream, Message: "upstream RPC rate limit exceeded"}

	ErrInvalidAddress      = &AurumError{Code: CodeInvalidAddress, Message: "invalid address"}
	ErrInvalidAmount       = &AurumError{Code: CodeInvalidAmount, Message: "invalid amount"}
	ErrGasLimitOutOfRange  = &AurumError{Code: CodeGasLimitOutOfRange, Message: "gas limit out of range"}
	ErrInsufficientBalance = &AurumError{Code: CodeInsufficientBalance, Message: "insufficient balance"}
	ErrTransactionFailed   = &AurumError{Code: CodeTransactionFailed, Message: "transaction failed"}
	ErrSignerNotAvailable  = &AurumError{Code: CodeSignerNotAvailable, Message: "no signer available"}
	ErrSignerMismatch      = &AurumError{Code: CodeSignerMismatch, Message: "signer does not match requested address"}
	ErrSigningFailed       = &AurumError{Code: CodeSigningFailed, Message: "signing failed"}

	ErrUserRejected      = &AurumError{Code: CodeUserRejected, Message: "user rejected the request"}
	ErrUnauthorized      = &AurumError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrUnsupportedMethod = &AurumError{Code: CodeUnsupportedMethod, Message: "unsupported method"}
	ErrDisconnected      = &AurumError{Code: CodeDisconnected, Message: "disconnected"}
	ErrRateLimitExceeded = &AurumError{Code: CodeRateLimitExceeded, Message: "rate limit exceeded"}
	ErrOriginMismatch    = &AurumError{Code: CodeOriginMismatch, Message: "origin mismatch"}
	ErrRequestExpired    = &AurumError{Code: CodeRequestExpired, Message: "request expired"}
	ErrDuplicateRequest  = &AurumError{Code: CodeDuplicateRequest, Message: "duplicate request id"}
	ErrInvalidParams     = &AurumError{Code: CodeInvalidParams, Message: "invalid params"}

	ErrConfigError           = &AurumError{Code: CodeConfigError, Message: "configuration error"}
	ErrStatePersistenceError = &AurumError{Code: CodeStatePersistenceError, Message: "failed to persist state"}

	ErrInvalidURL           = &AurumError{Code: CodeInvalidURL, Message: "invalid url"}
	ErrWindowCreationFailed = &AurumError{Code: CodeWindowCreationFailed, Message: "window creation failed"}
)

// InsufficientBalance builds the InsufficientBalance{need,have} variant
// the transaction service's balance check (§4.F) reports.
func InsufficientBalance(need, have string) error {
	return WithDetails(ErrInsufficientBalance, map[string]string{"need": need, "have": have})
}
