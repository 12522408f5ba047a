// Package providerrpc is the EIP-1193 dispatcher every dApp request
// passes through: method allowlist, per-origin rate limiting, session
// lookup, and (for state-changing methods) a blocking round trip
// through the approval queue before the request ever reaches a chain
// adapter or the wallet.
//
// Grounded on the teacher's internal/chain/eth/rpc/client.go JSON-RPC
// 2.0 request/response shape and sentinel-error handling, turned
// around from the outbound side (this process calling a node) to the
// inbound side (a page calling this process) — the per-method
// allowlist and auth/approval table replace what was, in the teacher,
// a single fixed "Call" surface.
package providerrpc

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/google/uuid"

	"github.com/aurumlabs/aurum-core/internal/appstate"
	"github.com/aurumlabs/aurum-core/internal/approval"
	"github.com/aurumlabs/aurum-core/internal/chainadapter"
	"github.com/aurumlabs/aurum-core/internal/dappsession"
	"github.com/aurumlabs/aurum-core/internal/netregistry"
	"github.com/aurumlabs/aurum-core/internal/txservice"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

var errMissingRPCURL = errors.New("rpcUrls must contain at least one URL")

// decodeHexOrEmpty decodes a 0x-prefixed hex string, treating an empty
// string as "no data" rather than an error.
func decodeHexOrEmpty(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hexutil.Decode(s)
}

// decodeHexBigOrZero decodes a 0x-prefixed hex integer, treating an
// empty string as zero.
func decodeHexBigOrZero(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	return hexutil.DecodeBig(s)
}

// decodeHexUint64OrZero decodes a 0x-prefixed hex integer, treating an
// empty string as zero (letting the adapter estimate the gas limit).
func decodeHexUint64OrZero(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return hexutil.DecodeUint64(s)
}

func keccak256(data []byte) []byte {
	return crypto.Keccak256(data)
}

// EventName identifies one of the four provider events the injection
// script listens for.
type EventName string

const (
	EventAccountsChanged EventName = "accountsChanged"
	EventChainChanged    EventName = "chainChanged"
	EventConnect         EventName = "connect"
	EventDisconnect      EventName = "disconnect"
)

// Event is one state change the host pushes to a window's injection
// script, outside the request/response cycle.
type Event struct {
	WindowLabel string
	Name        EventName
	Data        json.RawMessage
}

// EventSink delivers Events to their window. A window-lifecycle
// component supplies the real implementation (an IPC emit addressed by
// window_label); HandleRequest accepts a nil sink for callers (tests,
// headless command invocations) that don't care about live events.
type EventSink interface {
	Emit(Event)
}

func emit(sink EventSink, windowLabel string, name EventName, data any) {
	if sink == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	sink.Emit(Event{WindowLabel: windowLabel, Name: name, Data: raw})
}

type authLevel int

const (
	// authOptional methods answer even when no session exists for
	// (window_label, origin): eth_chainId, eth_requestAccounts (which
	// creates the session), and eth_accounts (which degrades to an
	// empty list rather than Unauthorized — its own table row defines
	// that behavior, overriding the general session-required rule).
	authOptional authLevel = iota
	authSession
)

type approvalKind int

const (
	approvalNone approvalKind = iota
	approvalConnection
	approvalTransaction
	approvalSignature
	approvalNetworkSwitch
	approvalAddNetwork
)

type methodSpec struct {
	auth     authLevel
	approval approvalKind
}

var methodTable = map[string]methodSpec{
	"eth_chainId":                 {authOptional, approvalNone},
	"net_version":                 {authSession, approvalNone},
	"eth_requestAccounts":         {authOptional, approvalConnection},
	"eth_accounts":                {authOptional, approvalNone},
	"eth_getBalance":              {authSession, approvalNone},
	"eth_blockNumber":             {authSession, approvalNone},
	"eth_gasPrice":                {authSession, approvalNone},
	"eth_getTransactionCount":     {authSession, approvalNone},
	"eth_call":                    {authSession, approvalNone},
	"eth_estimateGas":             {authSession, approvalNone},
	"eth_sendTransaction":         {authSession, approvalTransaction},
	"personal_sign":               {authSession, approvalSignature},
	"eth_signTypedData_v4":        {authSession, approvalSignature},
	"wallet_switchEthereumChain":  {authSession, approvalNetworkSwitch},
	"wallet_addEthereumChain":     {authSession, approvalAddNetwork},
}

// handlerResult is what a per-method handler produces: the JSON result
// to return to the page, and — for methods that establish or change a
// session — the session to touch/record afterward.
type handlerResult struct {
	value   json.RawMessage
	session *dappsession.Session
}

type handlerFunc func(ctx context.Context, state *appstate.State, events EventSink, windowLabel, origin string, sess *dappsession.Session, params json.RawMessage, approvalData map[string]string) (handlerResult, error)

var handlers = map[string]handlerFunc{
	"eth_chainId":                handleChainID,
	"net_version":                handleNetVersion,
	"eth_requestAccounts":        handleRequestAccounts,
	"eth_accounts":               handleAccounts,
	"eth_getBalance":             handleGetBalance,
	"eth_blockNumber":            handleBlockNumber,
	"eth_gasPrice":               handleGasPrice,
	"eth_getTransactionCount":    handleGetTransactionCount,
	"eth_call":                   handleCall,
	"eth_estimateGas":            handleEstimateGas,
	"eth_sendTransaction":        handleSendTransaction,
	"personal_sign":              handlePersonalSign,
	"eth_signTypedData_v4":       handleSignTypedDataV4,
	"wallet_switchEthereumChain": handleSwitchChain,
	"wallet_addEthereumChain":    handleAddChain,
}

// HandleRequest is the single entry point the dApp bridge (and, for
// wallet-initiated calls, the command surface) funnels every EIP-1193
// request through. events may be nil.
func HandleRequest(ctx context.Context, state *appstate.State, events EventSink, windowLabel, origin, method string, params json.RawMessage) (json.RawMessage, error) {
	spec, ok := methodTable[method]
	if !ok {
		return nil, aerr.WithDetails(aerr.ErrUnsupportedMethod, map[string]string{"method": method})
	}

	if !state.RateLimiter.Allow(origin) {
		return nil, aerr.WithDetails(aerr.ErrRateLimitExceeded, map[string]string{"origin": origin})
	}

	sess, hasSession := state.Sessions.Get(windowLabel, origin)
	if !hasSession && spec.auth == authSession {
		return nil, aerr.ErrUnauthorized
	}

	var approvalData map[string]string
	if needsApproval(spec.approval, sess, hasSession) {
		resp, err := requestApproval(ctx, state.Approvals, windowLabel, origin, method, params)
		if err != nil {
			return nil, err
		}
		approvalData = resp.Data
	}

	handler := handlers[method]
	result, err := handler(ctx, state, events, windowLabel, origin, sess, params, approvalData)
	if err != nil {
		return nil, err
	}

	if result.session != nil || hasSession {
		state.Sessions.Touch(windowLabel, origin)
	}

	return result.value, nil
}

// needsApproval reports whether method requires a round trip through
// the approval queue before it runs. Connection approval is skipped
// only when a session already exists for this (window_label, origin)
// and was created auto-approved; write operations (transaction,
// signature, network changes) are never auto-approved regardless.
func needsApproval(kind approvalKind, sess *dappsession.Session, hasSession bool) bool {
	if kind == approvalNone {
		return false
	}
	if kind == approvalConnection && hasSession && sess.AutoApproved {
		return false
	}
	return true
}

func requestApproval(ctx context.Context, queue *approval.Queue, windowLabel, origin, method string, params json.RawMessage) (approval.Response, error) {
	req := approval.Request{
		ID:          uuid.NewString(),
		WindowLabel: windowLabel,
		Origin:      origin,
		Method:      method,
		Summary:     summarize(method, params),
	}

	sink, err := queue.Enqueue(req)
	if err != nil {
		return approval.Response{}, err
	}

	select {
	case resp := <-sink:
		if resp.Err != nil {
			return approval.Response{}, resp.Err
		}
		if !resp.Approved {
			return approval.Response{}, aerr.ErrUserRejected
		}
		return resp, nil
	case <-ctx.Done():
		return approval.Response{}, aerr.ErrUserRejected
	}
}

// summarize builds the redacted, display-safe fields shown in an
// approval prompt. Never includes calldata, private keys, or passwords.
func summarize(method string, params json.RawMessage) map[string]string {
	switch method {
	case "eth_requestAccounts":
		return map[string]string{"action": "connect"}
	case "eth_sendTransaction":
		var p sendTransactionParams
		_ = json.Unmarshal(params, &p)
		return map[string]string{"to": p.To, "value": orZeroHex(p.Value), "has_data": boolString(p.Data != "")}
	case "personal_sign":
		var p personalSignParams
		_ = json.Unmarshal(params, &p)
		return map[string]string{"address": p.Address, "message_preview": previewHex(p.Data, 64)}
	case "eth_signTypedData_v4":
		var p typedDataParams
		_ = json.Unmarshal(params, &p)
		return map[string]string{"address": p.Address}
	case "wallet_switchEthereumChain":
		var p switchChainParams
		_ = json.Unmarshal(params, &p)
		return map[string]string{"chain_id": p.ChainID}
	case "wallet_addEthereumChain":
		var p addChainParams
		_ = json.Unmarshal(params, &p)
		return map[string]string{"chain_id": p.ChainID, "chain_name": p.ChainName}
	default:
		return nil
	}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func orZeroHex(s string) string {
	if s == "" {
		return "0x0"
	}
	return s
}

func previewHex(hex string, max int) string {
	if len(hex) > max {
		return hex[:max] + "..."
	}
	return hex
}

func jsonResult(v any) (handlerResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return handlerResult{}, aerr.Wrap(aerr.ErrInvalidParams, "%v", err)
	}
	return handlerResult{value: raw}, nil
}

func invalidParams(err error) (handlerResult, error) {
	return handlerResult{}, aerr.WithDetails(aerr.ErrInvalidParams, map[string]string{"reason": err.Error()})
}

// --- eth_chainId / net_version ---

func handleChainID(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, _ json.RawMessage, _ map[string]string) (handlerResult, error) {
	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.EncodeBig(adapter.ChainInfo().ChainID))
}

func handleNetVersion(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, _ json.RawMessage, _ map[string]string) (handlerResult, error) {
	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(adapter.ChainInfo().ChainID.String())
}

// --- eth_requestAccounts / eth_accounts ---

func handleRequestAccounts(ctx context.Context, state *appstate.State, events EventSink, windowLabel, origin string, sess *dappsession.Session, _ json.RawMessage, _ map[string]string) (handlerResult, error) {
	if sess != nil && sess.AutoApproved {
		result, err := jsonResult(sess.Accounts)
		result.session = sess
		return result, err
	}

	account, err := state.ActiveAccount()
	if err != nil {
		return handlerResult{}, err
	}

	newSess := state.Sessions.CreateSession(windowLabel, origin, []string{account}, false)
	emit(events, windowLabel, EventConnect, map[string]string{"chainId": chainIDHexOrEmpty(state)})
	emit(events, windowLabel, EventAccountsChanged, newSess.Accounts)

	result, err := jsonResult(newSess.Accounts)
	result.session = newSess
	return result, err
}

func handleAccounts(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, sess *dappsession.Session, _ json.RawMessage, _ map[string]string) (handlerResult, error) {
	if sess == nil {
		return jsonResult([]string{})
	}
	return jsonResult(sess.Accounts)
}

func chainIDHexOrEmpty(state *appstate.State) string {
	adapter, err := state.CurrentAdapter()
	if err != nil {
		return "0x0"
	}
	return hexutil.EncodeBig(adapter.ChainInfo().ChainID)
}

// --- read-only pass-throughs ---

type addressParams struct {
	Address string `json:"address"`
}

func handleGetBalance(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, params json.RawMessage, _ map[string]string) (handlerResult, error) {
	var p addressParams
	if err := json.Unmarshal(params, &p); err != nil {
		return invalidParams(err)
	}

	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	balance, err := adapter.GetBalance(ctx, p.Address)
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.EncodeBig(balance))
}

func handleBlockNumber(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, _ json.RawMessage, _ map[string]string) (handlerResult, error) {
	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	n, err := adapter.BlockNumber(ctx)
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.EncodeUint64(n))
}

func handleGasPrice(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, _ json.RawMessage, _ map[string]string) (handlerResult, error) {
	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	price, err := adapter.GasPrice(ctx)
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.EncodeBig(price))
}

type txCountParams struct {
	Address string `json:"address"`
	Block   string `json:"block"` // "pending", or anything else for latest-confirmed
}

func handleGetTransactionCount(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, params json.RawMessage, _ map[string]string) (handlerResult, error) {
	var p txCountParams
	if err := json.Unmarshal(params, &p); err != nil {
		return invalidParams(err)
	}

	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	n, err := adapter.TransactionCount(ctx, p.Address, p.Block == "pending")
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.EncodeUint64(n))
}

type callParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

func handleCall(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, params json.RawMessage, _ map[string]string) (handlerResult, error) {
	var p callParams
	if err := json.Unmarshal(params, &p); err != nil {
		return invalidParams(err)
	}

	data, err := decodeHexOrEmpty(p.Data)
	if err != nil {
		return invalidParams(err)
	}

	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	result, err := adapter.Call(ctx, p.To, data)
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.Encode(result))
}

type sendTransactionParams struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Data  string `json:"data"`
	Gas   string `json:"gas"`
}

func handleEstimateGas(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, params json.RawMessage, _ map[string]string) (handlerResult, error) {
	p, value, data, _, err := parseSendTransactionParams(params)
	if err != nil {
		return invalidParams(err)
	}

	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	fee, err := adapter.EstimateFee(ctx, chainadapter.SendRequest{From: p.From, To: p.To, Value: value, Data: data})
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.EncodeUint64(fee.GasLimit))
}

// parseSendTransactionParams decodes the common {from,to,value,data,gas}
// shape eth_sendTransaction and eth_estimateGas both take. value and gas
// default to zero, data to nil, when the field is omitted.
func parseSendTransactionParams(params json.RawMessage) (sendTransactionParams, *big.Int, []byte, uint64, error) {
	var p sendTransactionParams
	if err := json.Unmarshal(params, &p); err != nil {
		return p, nil, nil, 0, err
	}

	value, err := decodeHexBigOrZero(p.Value)
	if err != nil {
		return p, nil, nil, 0, err
	}

	data, err := decodeHexOrEmpty(p.Data)
	if err != nil {
		return p, nil, nil, 0, err
	}

	gasLimit, err := decodeHexUint64OrZero(p.Gas)
	if err != nil {
		return p, nil, nil, 0, err
	}

	return p, value, data, gasLimit, nil
}

// --- eth_sendTransaction ---

func handleSendTransaction(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, params json.RawMessage, approvalData map[string]string) (handlerResult, error) {
	p, value, data, gasLimit, err := parseSendTransactionParams(params)
	if err != nil {
		return invalidParams(err)
	}

	if err := state.Wallet.VerifyPassword(approvalData["password"]); err != nil {
		return handlerResult{}, err
	}

	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	req := txservice.Request{From: p.From, To: p.To, Amount: value, GasLimit: gasLimit, Speed: chainadapter.GasSpeedMedium}
	if err := txservice.Validate(adapter, req); err != nil {
		return handlerResult{}, err
	}

	signer, err := state.Wallet.SignerFor(p.From)
	if err != nil {
		return handlerResult{}, err
	}
	defer signer.Destroy()

	result, err := signer.SendTransaction(ctx, adapter, chainadapter.SendRequest{To: p.To, Value: req.Amount, Data: data, GasLimit: gasLimit, Speed: req.Speed})
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(result.Hash)
}

// --- personal_sign / eth_signTypedData_v4 ---

type personalSignParams struct {
	Address string `json:"address"`
	Data    string `json:"data"` // hex-encoded message bytes
}

func handlePersonalSign(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, params json.RawMessage, approvalData map[string]string) (handlerResult, error) {
	var p personalSignParams
	if err := json.Unmarshal(params, &p); err != nil {
		return invalidParams(err)
	}

	if err := state.Wallet.VerifyPassword(approvalData["password"]); err != nil {
		return handlerResult{}, err
	}

	message, err := decodeHexOrEmpty(p.Data)
	if err != nil {
		return invalidParams(err)
	}

	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	signer, err := state.Wallet.SignerFor(p.Address)
	if err != nil {
		return handlerResult{}, err
	}
	defer signer.Destroy()

	sig, err := signer.SignMessage(ctx, adapter, message)
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.Encode(sig))
}

type typedDataParams struct {
	Address string              `json:"address"`
	Data    apitypes.TypedData  `json:"data"`
}

func handleSignTypedDataV4(ctx context.Context, state *appstate.State, _ EventSink, _, _ string, _ *dappsession.Session, params json.RawMessage, approvalData map[string]string) (handlerResult, error) {
	var p typedDataParams
	if err := json.Unmarshal(params, &p); err != nil {
		return invalidParams(err)
	}

	if err := state.Wallet.VerifyPassword(approvalData["password"]); err != nil {
		return handlerResult{}, err
	}

	hash, err := typedDataHash(p.Data)
	if err != nil {
		return invalidParams(err)
	}

	adapter, err := state.CurrentAdapter()
	if err != nil {
		return handlerResult{}, err
	}

	signer, err := state.Wallet.SignerFor(p.Address)
	if err != nil {
		return handlerResult{}, err
	}
	defer signer.Destroy()

	sig, err := signer.SignHash(ctx, adapter, hash)
	if err != nil {
		return handlerResult{}, err
	}
	return jsonResult(hexutil.Encode(sig))
}

// typedDataHash computes the EIP-712 digest keccak256("\x19\x01" ||
// domainSeparator || hashStruct(message)), the same construction
// go-ethereum's own typed-data signer uses.
func typedDataHash(td apitypes.TypedData) ([]byte, error) {
	domainSeparator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return nil, err
	}
	messageHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return nil, err
	}

	raw := append([]byte{0x19, 0x01}, domainSeparator...)
	raw = append(raw, messageHash...)
	return keccak256(raw), nil
}

// --- wallet_switchEthereumChain / wallet_addEthereumChain ---

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

func handleSwitchChain(ctx context.Context, state *appstate.State, events EventSink, windowLabel, _ string, sess *dappsession.Session, params json.RawMessage, _ map[string]string) (handlerResult, error) {
	var p switchChainParams
	if err := json.Unmarshal(params, &p); err != nil {
		return invalidParams(err)
	}

	chainID, err := hexutil.DecodeBig(p.ChainID)
	if err != nil {
		return invalidParams(err)
	}

	network, err := findNetworkByChainID(state, chainID)
	if err != nil {
		return handlerResult{}, err
	}

	if err := state.SwitchNetwork(ctx, network.ID); err != nil {
		return handlerResult{}, err
	}

	broadcastChainChanged(state, events, chainID)

	result, err := jsonResult(nil)
	result.session = sess
	return result, err
}

type addChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	RPCUrls           []string       `json:"rpcUrls"`
	NativeCurrency    nativeCurrency `json:"nativeCurrency"`
	BlockExplorerUrls []string       `json:"blockExplorerUrls"`
}

type nativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

func handleAddChain(ctx context.Context, state *appstate.State, events EventSink, windowLabel, _ string, sess *dappsession.Session, params json.RawMessage, _ map[string]string) (handlerResult, error) {
	var p addChainParams
	if err := json.Unmarshal(params, &p); err != nil {
		return invalidParams(err)
	}

	chainID, err := hexutil.DecodeBig(p.ChainID)
	if err != nil {
		return invalidParams(err)
	}
	if len(p.RPCUrls) == 0 {
		return invalidParams(errMissingRPCURL)
	}

	id := strings.ToLower(strings.ReplaceAll(p.ChainName, " ", "-"))
	network := netregistry.Network{
		ID:       id,
		Name:     p.ChainName,
		ChainID:  chainID,
		RPCURL:   p.RPCUrls[0],
		Symbol:   p.NativeCurrency.Symbol,
		Decimals: p.NativeCurrency.Decimals,
	}
	if len(p.BlockExplorerUrls) > 0 {
		network.Explorer = p.BlockExplorerUrls[0]
	}

	if err := state.Networks.AddCustom(network); err != nil {
		return handlerResult{}, err
	}
	if err := state.SwitchNetwork(ctx, network.ID); err != nil {
		return handlerResult{}, err
	}

	broadcastChainChanged(state, events, chainID)

	result, err := jsonResult(nil)
	result.session = sess
	return result, err
}

// broadcastChainChanged fans chainChanged out to every distinct window
// with an active session, not just the window that requested the
// switch — the new chain_id applies process-wide, so every other
// dApp window needs to see it too.
func broadcastChainChanged(state *appstate.State, events EventSink, chainID *big.Int) {
	seen := make(map[string]bool)
	for _, s := range state.Sessions.List() {
		if seen[s.WindowLabel] {
			continue
		}
		seen[s.WindowLabel] = true
		emit(events, s.WindowLabel, EventChainChanged, hexutil.EncodeBig(chainID))
	}
}

func findNetworkByChainID(state *appstate.State, chainID *big.Int) (netregistry.Network, error) {
	for _, n := range state.Networks.List() {
		if n.ChainID != nil && n.ChainID.Cmp(chainID) == 0 {
			return n, nil
		}
	}
	return netregistry.Network{}, aerr.WithDetails(aerr.ErrInvalidNetwork, map[string]string{
		"chain_id": hexutil.EncodeBig(chainID),
		"reason":   "no registered network for this chain id",
	})
}
