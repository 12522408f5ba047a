// Package commands is the typed request/response surface the frontend
// calls into: one function per operation in §4 of the specification,
// each a thin wrapper over internal/appstate.State that marshals a
// plain Go struct in, a plain Go struct (or error) out. Nothing here
// talks JSON-RPC, HTTP, or IPC — that belongs to whatever transport
// embeds this package (internal/providerrpc for the dApp bridge,
// internal/cli for the operator-facing serve/doctor commands).
//
// Grounded on the teacher's internal/cli/*.go command layer (balance.go,
// addresses.go, session.go), generalized from cobra RunE handlers
// bound to package-level flag variables into plain functions over an
// explicit *appstate.State, matching this codebase's composition-root
// style rather than cobra's global-command-tree style.
package commands

import (
	"context"
	"fmt"
	"math/big"

	"github.com/aurumlabs/aurum-core/internal/appstate"
	"github.com/aurumlabs/aurum-core/internal/backup"
	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/internal/netregistry"
	"github.com/aurumlabs/aurum-core/internal/providerrpc"
	"github.com/aurumlabs/aurum-core/internal/txservice"
	"github.com/aurumlabs/aurum-core/internal/walletservice"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

// Surface bundles the central state together with the backup service,
// since backups are the one command group that needs a collaborator
// (a filesystem directory) the composition root doesn't otherwise own.
type Surface struct {
	State   *appstate.State
	Backups *backup.Service
}

// New builds a command Surface over an already-wired central state.
func New(state *appstate.State, backups *backup.Service) *Surface {
	return &Surface{State: state, Backups: backups}
}

// --- Wallet ---------------------------------------------------------

// CreateWalletResult carries the freshly generated recovery phrase
// back to the caller exactly once; nothing in this process ever
// re-displays it afterward.
type CreateWalletResult struct {
	Mnemonic string `json:"mnemonic"`
}

// CreateWallet creates a brand-new HD wallet protected by password,
// seeded from a freshly generated mnemonic of wordCount words (12 or
// 24; other counts are rejected).
func (s *Surface) CreateWallet(password string, wordCount int) (*CreateWalletResult, error) {
	mnemonic, err := s.State.Wallet.Create(password, wordCount)
	if err != nil {
		return nil, err
	}
	return &CreateWalletResult{Mnemonic: mnemonic}, nil
}

// ImportWallet restores a wallet from an existing mnemonic, deriving
// accountCount accounts under m/44'/60'/0'/0/x and protecting the
// result with password.
func (s *Surface) ImportWallet(mnemonic, password string, accountCount int) error {
	return s.State.Wallet.Import(mnemonic, password, accountCount)
}

// WalletExists reports whether a wallet record is already present.
func (s *Surface) WalletExists() (bool, error) {
	return s.State.Wallet.Exists()
}

// UnlockWallet verifies password and loads the decrypted seed into
// memory for the duration of the session.
func (s *Surface) UnlockWallet(password string) error {
	return s.State.Wallet.Unlock(password)
}

// LockWallet zeroes the in-memory seed. Subsequent signing operations
// fail with ErrWalletLocked until UnlockWallet is called again.
func (s *Surface) LockWallet() {
	s.State.Wallet.Lock()
}

// IsWalletLocked reports the wallet's current lock state.
func (s *Surface) IsWalletLocked() bool {
	return s.State.Wallet.IsLocked()
}

// GetAccounts lists every account (derived and imported) on the
// unlocked wallet.
func (s *Surface) GetAccounts() ([]walletservice.Account, error) {
	return s.State.Wallet.Accounts()
}

// CreateAccount derives the next HD account in sequence.
func (s *Surface) CreateAccount() (walletservice.Account, error) {
	return s.State.Wallet.CreateAccount()
}

// ImportAccount adds a standalone account from a raw private key,
// optionally labeled.
func (s *Surface) ImportAccount(privateKeyHex string, label *string) (walletservice.Account, error) {
	return s.State.Wallet.ImportAccount(privateKeyHex, label)
}

// DeleteAccount removes an account, derived (HD) or imported; see
// walletservice.DeleteAccount. If address was the active account, the
// caller must pick a new
// one with SetActiveAccount before the next signing operation.
func (s *Surface) DeleteAccount(address string) error {
	return s.State.Wallet.DeleteAccount(address)
}

// SetActiveAccount marks address as the account subsequent commands
// and dApp requests operate on by default.
func (s *Surface) SetActiveAccount(address string) error {
	return s.State.SetActiveAccount(address)
}

// --- Network ----------------------------------------------------------

// SwitchNetwork makes networkID the active network, lazily dialing its
// chain adapter.
func (s *Surface) SwitchNetwork(ctx context.Context, networkID string) error {
	return s.State.SwitchNetwork(ctx, networkID)
}

// GetNetworkInfo describes the currently active network.
func (s *Surface) GetNetworkInfo() (chainadapter.ChainInfo, error) {
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return chainadapter.ChainInfo{}, err
	}
	return adapter.ChainInfo(), nil
}

// GetNetworks lists every known network, built-in and custom.
func (s *Surface) GetNetworks() []netregistry.Network {
	return s.State.Networks.List()
}

// AddNetworkRequest describes a user-added custom network.
type AddNetworkRequest struct {
	ID       string
	Name     string
	ChainID  *big.Int
	RPCURL   string
	Symbol   string
	Decimals int
	Explorer string
}

// AddNetwork registers a custom network in the registry. It does not
// switch to it; call SwitchNetwork afterward if that's desired.
func (s *Surface) AddNetwork(req AddNetworkRequest) error {
	return s.State.Networks.AddCustom(netregistry.Network{
		ID:       req.ID,
		Name:     req.Name,
		ChainID:  req.ChainID,
		RPCURL:   req.RPCURL,
		Symbol:   req.Symbol,
		Decimals: req.Decimals,
		Explorer: req.Explorer,
		Custom:   true,
	})
}

// GetChainID returns the active network's chain id.
func (s *Surface) GetChainID() (*big.Int, error) {
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return nil, err
	}
	return adapter.ChainInfo().ChainID, nil
}

// GetBlockNumber returns the active network's current block height.
func (s *Surface) GetBlockNumber(ctx context.Context) (uint64, error) {
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return 0, err
	}
	return adapter.BlockNumber(ctx)
}

// --- Token / Balance --------------------------------------------------

// BalanceResult pairs a raw on-chain balance with the native token's
// symbol and decimals, so a caller can format it without a second
// round trip to GetNetworkInfo.
type BalanceResult struct {
	Balance  *big.Int `json:"balance"`
	Symbol   string   `json:"symbol"`
	Decimals int      `json:"decimals"`
}

// GetBalance returns address's native-token balance on the active
// network. tokenAddress, if non-empty, switches to an ERC-20 balance
// lookup instead.
func (s *Surface) GetBalance(ctx context.Context, address, tokenAddress string) (*BalanceResult, error) {
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return nil, err
	}

	var balance *big.Int
	if tokenAddress != "" {
		balance, err = adapter.GetTokenBalance(ctx, address, tokenAddress)
	} else {
		balance, err = adapter.GetBalance(ctx, address)
	}
	if err != nil {
		return nil, err
	}

	info := adapter.ChainInfo()
	return &BalanceResult{Balance: balance, Symbol: info.Symbol, Decimals: info.Decimals}, nil
}

// GetTokenPrice returns the active network's native-token USD spot
// price.
func (s *Surface) GetTokenPrice(ctx context.Context) (float64, error) {
	return s.State.Prices.USDPrice(ctx, s.State.ActiveNetwork())
}

// RefreshTokenPrices re-fetches the USD price for every known network
// that has a price feed, skipping (rather than failing on) networks
// priceservice.ErrUnsupportedChain reports no feed for.
func (s *Surface) RefreshTokenPrices(ctx context.Context) (map[string]float64, error) {
	prices := make(map[string]float64)
	for _, n := range s.State.Networks.List() {
		price, err := s.State.Prices.USDPrice(ctx, n.ID)
		if err != nil {
			if aerr.Code(err) == "PRICE_UNSUPPORTED_CHAIN" {
				continue
			}
			return nil, err
		}
		prices[n.ID] = price
	}
	return prices, nil
}

// --- Transaction --------------------------------------------------------

// TransactionRequest is the caller-facing shape of a transfer, prior
// to adapter-level execution.
type TransactionRequest struct {
	From     string
	To       string
	Amount   *big.Int
	GasLimit uint64
	Speed    chainadapter.GasSpeed
}

func (r TransactionRequest) toService() txservice.Request {
	return txservice.Request{From: r.From, To: r.To, Amount: r.Amount, GasLimit: r.GasLimit, Speed: r.Speed}
}

// ValidateTransaction checks a transaction request for well-formedness
// without touching the network.
func (s *Surface) ValidateTransaction(req TransactionRequest) error {
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return err
	}
	return txservice.Validate(adapter, req.toService())
}

// EstimateGasSimple estimates the fee for a transaction at req.Speed
// without validating the sender's balance.
func (s *Surface) EstimateGasSimple(ctx context.Context, req TransactionRequest) (*chainadapter.FeeEstimate, error) {
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return nil, err
	}
	if err := txservice.Validate(adapter, req.toService()); err != nil {
		return nil, err
	}
	return adapter.EstimateFee(ctx, chainadapter.SendRequest{
		From: req.From, To: req.To, Value: req.Amount, GasLimit: req.GasLimit, Speed: req.Speed,
	})
}

// BuildTransactionResult is a validated, fee-estimated transaction
// ready for SignTransaction or SendTransaction.
type BuildTransactionResult struct {
	Request TransactionRequest
	Fee     *chainadapter.FeeEstimate
}

// BuildTransaction validates req, confirms the sender can cover
// amount+fee, and returns the filled-in fee estimate alongside it.
// It does not sign or broadcast anything.
func (s *Surface) BuildTransaction(ctx context.Context, req TransactionRequest) (*BuildTransactionResult, error) {
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return nil, err
	}
	svcReq := req.toService()
	if err := txservice.Validate(adapter, svcReq); err != nil {
		return nil, err
	}
	fee, err := txservice.CheckBalance(ctx, adapter, svcReq)
	if err != nil {
		return nil, err
	}
	return &BuildTransactionResult{Request: req, Fee: fee}, nil
}

// SignTransaction signs req with password-unlocked req.From's key and
// returns the raw signed transaction hex, without broadcasting it.
func (s *Surface) SignTransaction(ctx context.Context, req TransactionRequest, password string) (string, error) {
	if err := s.State.Wallet.VerifyPassword(password); err != nil {
		return "", err
	}
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return "", err
	}
	if err := txservice.Validate(adapter, req.toService()); err != nil {
		return "", err
	}
	signer, err := s.State.Wallet.SignerFor(req.From)
	if err != nil {
		return "", err
	}
	defer signer.Destroy()

	return signer.SignTransaction(ctx, adapter, chainadapter.SendRequest{
		From: req.From, To: req.To, Value: req.Amount, GasLimit: req.GasLimit, Speed: req.Speed,
	})
}

// SendTransaction validates, signs, and broadcasts req in one step,
// returning the broadcast result.
func (s *Surface) SendTransaction(ctx context.Context, req TransactionRequest, password string) (*chainadapter.TransactionResult, error) {
	if err := s.State.Wallet.VerifyPassword(password); err != nil {
		return nil, err
	}
	adapter, err := s.State.CurrentAdapter()
	if err != nil {
		return nil, err
	}
	svcReq := req.toService()
	if err := txservice.Validate(adapter, svcReq); err != nil {
		return nil, err
	}
	if _, err := txservice.CheckBalance(ctx, adapter, svcReq); err != nil {
		return nil, err
	}
	signer, err := s.State.Wallet.SignerFor(req.From)
	if err != nil {
		return nil, err
	}
	defer signer.Destroy()

	return signer.SendTransaction(ctx, adapter, chainadapter.SendRequest{
		From: req.From, To: req.To, Value: req.Amount, GasLimit: req.GasLimit, Speed: req.Speed,
	})
}

// --- dApp bridge --------------------------------------------------------

// HandleDappRequest dispatches one EIP-1193 request from windowLabel/
// origin through the provider RPC pipeline (allowlist, rate limit,
// session lookup, approval if required) and returns its raw JSON
// result.
func (s *Surface) HandleDappRequest(ctx context.Context, events providerrpc.EventSink, windowLabel, origin, method string, params []byte) ([]byte, error) {
	return providerrpc.HandleRequest(ctx, s.State, events, windowLabel, origin, method, params)
}

// GetPendingApprovals lists every approval request awaiting a user
// decision, across all windows.
func (s *Surface) GetPendingApprovals() []approvalRequest {
	pending := s.State.Approvals.Pending()
	out := make([]approvalRequest, len(pending))
	for i, p := range pending {
		out[i] = approvalRequest{ID: p.ID, WindowLabel: p.WindowLabel, Origin: p.Origin, Method: p.Method, Summary: p.Summary}
	}
	return out
}

// approvalRequest mirrors approval.Request as a stable command-surface
// return type, independent of the internal package's field set.
type approvalRequest struct {
	ID          string            `json:"id"`
	WindowLabel string            `json:"window_label"`
	Origin      string            `json:"origin"`
	Method      string            `json:"method"`
	Summary     map[string]string `json:"summary"`
}

// RespondToApproval resolves a pending approval request, waking the
// blocked HandleDappRequest call that created it.
func (s *Surface) RespondToApproval(id string, approved bool, data map[string]string) error {
	return s.State.Approvals.Respond(id, approved, data)
}

// ConnectedDapp is one (window, origin) pair with an active session.
type ConnectedDapp struct {
	WindowLabel string   `json:"window_label"`
	Origin      string   `json:"origin"`
	Accounts    []string `json:"accounts"`
}

// GetConnectedDapps lists every dApp session currently established,
// across all windows.
func (s *Surface) GetConnectedDapps() []ConnectedDapp {
	sessions := s.State.Sessions.List()
	out := make([]ConnectedDapp, len(sessions))
	for i, sess := range sessions {
		out[i] = ConnectedDapp{WindowLabel: sess.WindowLabel, Origin: sess.Origin, Accounts: sess.Accounts}
	}
	return out
}

// DisconnectDapp tears down a connected dApp's session for one window,
// or every window sharing origin when windowLabel is empty.
func (s *Surface) DisconnectDapp(windowLabel, origin string) {
	if windowLabel == "" {
		s.State.Sessions.RemoveAllForOrigin(origin)
		return
	}
	s.State.Sessions.Remove(windowLabel, origin)
}

// --- Backup -------------------------------------------------------------

// ExportWalletBackup writes an encrypted snapshot of the current
// wallet record to the backup directory, returning its path. See
// internal/backup for why the export password is independent of the
// wallet's own unlock password.
func (s *Surface) ExportWalletBackup(exportPassword string) (string, error) {
	if s.Backups == nil {
		return "", fmt.Errorf("commands: backups not configured")
	}
	return s.Backups.Create(exportPassword)
}

// ImportWalletBackup restores a wallet record from a backup file,
// re-persisting it exactly as captured: still encrypted under whatever
// wallet password was active at export time. The caller unlocks with
// that original password afterward.
func (s *Surface) ImportWalletBackup(path, exportPassword string) error {
	if s.Backups == nil {
		return fmt.Errorf("commands: backups not configured")
	}
	_, err := s.Backups.Restore(path, exportPassword)
	return err
}
