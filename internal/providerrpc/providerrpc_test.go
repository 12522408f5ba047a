package providerrpc_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/appstate"
	"github.com/aurumlabs/aurum-core/internal/keystore"
	"github.com/aurumlabs/aurum-core/internal/netregistry"
	"github.com/aurumlabs/aurum-core/internal/priceservice"
	"github.com/aurumlabs/aurum-core/internal/providerrpc"
	"github.com/aurumlabs/aurum-core/internal/ratelimit"
	"github.com/aurumlabs/aurum-core/internal/walletservice"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

const (
	testWindow = "win-1"
	testOrigin = "https://dapp.example"
)

func TestMain(m *testing.M) {
	gokeyring.MockInit()
	m.Run()
}

// newState builds a central state with an unlocked single-account
// wallet and "ethereum" already the active network/account, entirely
// without dialing any RPC endpoint — every test here either exercises
// dispatch policy (allowlist, rate limit, session, approval) or a
// method whose handler never needs a live connection (eth_chainId,
// wallet_switchEthereumChain). Methods that would dial a real node
// (eth_getBalance and friends, eth_sendTransaction, personal_sign) are
// not exercised here; internal/chainadapter/evm has no tests, and the
// walletservice tests cover building a Signer, not signing with it.
func newState(t *testing.T) *appstate.State {
	t.Helper()

	wallet := walletservice.New(keystore.New())
	_, err := wallet.Create("p@ssw0rd!", 12)
	require.NoError(t, err)
	require.NoError(t, wallet.Unlock("p@ssw0rd!"))

	s := appstate.New(appstate.Config{
		Wallet:   wallet,
		Networks: netregistry.New(map[string]string{"ethereum": "https://rpc.example/v1"}),
		Prices:   priceservice.New(),
	})

	require.NoError(t, s.SwitchNetwork(context.Background(), "ethereum"))

	accounts, err := wallet.Accounts()
	require.NoError(t, err)
	require.NoError(t, s.SetActiveAccount(accounts[0].Address))

	return s
}

func TestHandleRequest_UnsupportedMethod(t *testing.T) {
	s := newState(t)

	_, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_doesNotExist", nil)
	assert.ErrorIs(t, err, aerr.ErrUnsupportedMethod)
}

func TestHandleRequest_SessionRequiredMethodWithoutSession(t *testing.T) {
	s := newState(t)

	_, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_getBalance", json.RawMessage(`{"address":"0x0"}`))
	assert.ErrorIs(t, err, aerr.ErrUnauthorized)
}

func TestHandleRequest_EthAccounts_NoSessionReturnsEmptyNotUnauthorized(t *testing.T) {
	s := newState(t)

	raw, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_accounts", nil)
	require.NoError(t, err)

	var accounts []string
	require.NoError(t, json.Unmarshal(raw, &accounts))
	assert.Empty(t, accounts)
}

func TestHandleRequest_EthChainID(t *testing.T) {
	s := newState(t)

	raw, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_chainId", nil)
	require.NoError(t, err)

	var chainID string
	require.NoError(t, json.Unmarshal(raw, &chainID))
	assert.Equal(t, "0x1", chainID)
}

func TestHandleRequest_RateLimitExceeded(t *testing.T) {
	s := newState(t)

	for i := 0; i < ratelimit.DefaultOriginBurst; i++ {
		_, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_chainId", nil)
		require.NoError(t, err)
	}

	_, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_chainId", nil)
	assert.ErrorIs(t, err, aerr.ErrRateLimitExceeded)
}

func TestHandleRequest_RequestAccounts_ApprovedCreatesSession(t *testing.T) {
	s := newState(t)

	result := make(chan json.RawMessage, 1)
	errs := make(chan error, 1)
	go func() {
		raw, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_requestAccounts", nil)
		result <- raw
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(s.Approvals.Pending()) == 1 }, time.Second, time.Millisecond)
	pending := s.Approvals.Pending()[0]
	assert.Equal(t, "eth_requestAccounts", pending.Method)
	require.NoError(t, s.Approvals.Respond(pending.ID, true, nil))

	require.NoError(t, <-errs)
	raw := <-result

	var accounts []string
	require.NoError(t, json.Unmarshal(raw, &accounts))
	assert.Len(t, accounts, 1)

	sess, ok := s.Sessions.Get(testWindow, testOrigin)
	require.True(t, ok)
	assert.False(t, sess.AutoApproved)
}

func TestHandleRequest_RequestAccounts_RejectedCreatesNoSession(t *testing.T) {
	s := newState(t)

	errs := make(chan error, 1)
	go func() {
		_, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_requestAccounts", nil)
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(s.Approvals.Pending()) == 1 }, time.Second, time.Millisecond)
	pending := s.Approvals.Pending()[0]
	require.NoError(t, s.Approvals.Respond(pending.ID, false, nil))

	assert.ErrorIs(t, <-errs, aerr.ErrUserRejected)

	_, ok := s.Sessions.Get(testWindow, testOrigin)
	assert.False(t, ok)
}

func TestHandleRequest_AutoApprovedSession_SkipsApprovalModal(t *testing.T) {
	s := newState(t)

	account, err := s.ActiveAccount()
	require.NoError(t, err)
	s.Sessions.CreateSession(testWindow, testOrigin, []string{account}, true)

	raw, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "eth_requestAccounts", nil)
	require.NoError(t, err)
	assert.Empty(t, s.Approvals.Pending())

	var accounts []string
	require.NoError(t, json.Unmarshal(raw, &accounts))
	assert.Equal(t, []string{account}, accounts)
}

func TestHandleRequest_CrossWindowSessionIsolation(t *testing.T) {
	s := newState(t)

	account, err := s.ActiveAccount()
	require.NoError(t, err)
	s.Sessions.CreateSession(testWindow, testOrigin, []string{account}, true)

	_, err = providerrpc.HandleRequest(context.Background(), s, nil, "win-2", testOrigin, "eth_getBalance", json.RawMessage(`{"address":"`+account+`"}`))
	assert.ErrorIs(t, err, aerr.ErrUnauthorized)
}

func TestHandleRequest_SwitchEthereumChain_UnknownChainIDNeverSwitches(t *testing.T) {
	s := newState(t)

	account, err := s.ActiveAccount()
	require.NoError(t, err)
	s.Sessions.CreateSession(testWindow, testOrigin, []string{account}, true)

	errs := make(chan error, 1)
	go func() {
		_, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "wallet_switchEthereumChain", json.RawMessage(`{"chainId":"0x999999"}`))
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(s.Approvals.Pending()) == 1 }, time.Second, time.Millisecond)
	pending := s.Approvals.Pending()[0]
	require.NoError(t, s.Approvals.Respond(pending.ID, true, nil))

	assert.ErrorIs(t, <-errs, aerr.ErrInvalidNetwork)
	assert.Equal(t, "ethereum", s.ActiveNetwork())
}

func TestHandleRequest_SwitchEthereumChain_ApprovedSwitchesNetwork(t *testing.T) {
	s := newState(t)

	account, err := s.ActiveAccount()
	require.NoError(t, err)
	s.Sessions.CreateSession(testWindow, testOrigin, []string{account}, true)

	errs := make(chan error, 1)
	go func() {
		// 0x89 = 137 = Polygon's chain id, a built-in network.
		_, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "wallet_switchEthereumChain", json.RawMessage(`{"chainId":"0x89"}`))
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(s.Approvals.Pending()) == 1 }, time.Second, time.Millisecond)
	pending := s.Approvals.Pending()[0]
	assert.Equal(t, "wallet_switchEthereumChain", pending.Method)
	require.NoError(t, s.Approvals.Respond(pending.ID, true, nil))

	require.NoError(t, <-errs)
	assert.Equal(t, "polygon", s.ActiveNetwork())
}

func TestHandleRequest_SwitchEthereumChain_RejectedLeavesNetworkUnchanged(t *testing.T) {
	s := newState(t)

	account, err := s.ActiveAccount()
	require.NoError(t, err)
	s.Sessions.CreateSession(testWindow, testOrigin, []string{account}, true)

	errs := make(chan error, 1)
	go func() {
		_, err := providerrpc.HandleRequest(context.Background(), s, nil, testWindow, testOrigin, "wallet_switchEthereumChain", json.RawMessage(`{"chainId":"0x89"}`))
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(s.Approvals.Pending()) == 1 }, time.Second, time.Millisecond)
	pending := s.Approvals.Pending()[0]
	require.NoError(t, s.Approvals.Respond(pending.ID, false, nil))

	assert.ErrorIs(t, <-errs, aerr.ErrUserRejected)
	assert.Equal(t, "ethereum", s.ActiveNetwork())
}

// recordingSink captures every emitted event, keyed by window label, so
// tests can assert which windows a broadcast reached.
type recordingSink struct {
	mu     sync.Mutex
	events []providerrpc.Event
}

func (r *recordingSink) Emit(e providerrpc.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) windowsFor(name providerrpc.EventName) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var windows []string
	for _, e := range r.events {
		if e.Name == name {
			windows = append(windows, e.WindowLabel)
		}
	}
	return windows
}

func TestHandleRequest_SwitchEthereumChain_BroadcastsChainChangedToAllSessions(t *testing.T) {
	s := newState(t)

	account, err := s.ActiveAccount()
	require.NoError(t, err)
	s.Sessions.CreateSession(testWindow, testOrigin, []string{account}, true)
	s.Sessions.CreateSession("win-2", testOrigin, []string{account}, true)

	sink := &recordingSink{}

	errs := make(chan error, 1)
	go func() {
		// 0x89 = 137 = Polygon's chain id, a built-in network.
		_, err := providerrpc.HandleRequest(context.Background(), s, sink, testWindow, testOrigin, "wallet_switchEthereumChain", json.RawMessage(`{"chainId":"0x89"}`))
		errs <- err
	}()

	require.Eventually(t, func() bool { return len(s.Approvals.Pending()) == 1 }, time.Second, time.Millisecond)
	pending := s.Approvals.Pending()[0]
	require.NoError(t, s.Approvals.Respond(pending.ID, true, nil))

	require.NoError(t, <-errs)
	assert.Equal(t, "polygon", s.ActiveNetwork())

	windows := sink.windowsFor(providerrpc.EventChainChanged)
	assert.ElementsMatch(t, []string{testWindow, "win-2"}, windows)
}
