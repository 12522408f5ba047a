package dappwindow_test

import (
	"errors"
	"os"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/appstate"
	"github.com/aurumlabs/aurum-core/internal/dappwindow"
	"github.com/aurumlabs/aurum-core/internal/keystore"
	"github.com/aurumlabs/aurum-core/internal/netregistry"
	"github.com/aurumlabs/aurum-core/internal/priceservice"
	"github.com/aurumlabs/aurum-core/internal/walletservice"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

func TestMain(m *testing.M) {
	gokeyring.MockInit()
	os.Exit(m.Run())
}

type fakeHost struct {
	created []string
	fail    bool
}

func (f *fakeHost) CreateWindow(windowLabel, targetURL, initScript string) error {
	if f.fail {
		return errors.New("webview backend unavailable")
	}
	if initScript == "" {
		return errors.New("expected non-empty init script")
	}
	f.created = append(f.created, windowLabel)
	return nil
}

func newState(t *testing.T) *appstate.State {
	t.Helper()
	kr := keystore.New()
	wallet := walletservice.New(kr)

	state := appstate.New(appstate.Config{
		Wallet:   wallet,
		Networks: netregistry.New(nil),
		Prices:   priceservice.New(),
	})

	_, err := wallet.Create("open-window-pw", 12)
	require.NoError(t, err)
	require.NoError(t, wallet.Unlock("open-window-pw"))

	accounts, err := wallet.Accounts()
	require.NoError(t, err)
	require.NoError(t, state.SetActiveAccount(accounts[0].Address))

	return state
}

func TestOpen_CreatesSessionAndWindow(t *testing.T) {
	state := newState(t)
	host := &fakeHost{}
	opener := dappwindow.New(state, host)

	opened, err := opener.Open("https://app.example/connect")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example", opened.Origin)
	assert.NotEmpty(t, opened.WindowLabel)
	assert.Len(t, host.created, 1)

	sess, ok := state.Sessions.Get(opened.WindowLabel, opened.Origin)
	require.True(t, ok)
	assert.True(t, sess.AutoApproved)
	assert.NotEmpty(t, sess.Accounts)
}

func TestOpen_RejectsNonHTTPScheme(t *testing.T) {
	state := newState(t)
	opener := dappwindow.New(state, &fakeHost{})

	_, err := opener.Open("file:///etc/passwd")
	assert.ErrorIs(t, err, aerr.ErrInvalidURL)
}

func TestOpen_RejectsMalformedURL(t *testing.T) {
	state := newState(t)
	opener := dappwindow.New(state, &fakeHost{})

	_, err := opener.Open("not-a-url")
	assert.ErrorIs(t, err, aerr.ErrInvalidURL)
}

func TestOpen_NoActiveAccountFails(t *testing.T) {
	kr := keystore.New()
	state := appstate.New(appstate.Config{
		Wallet:   walletservice.New(kr),
		Networks: netregistry.New(nil),
		Prices:   priceservice.New(),
	})
	opener := dappwindow.New(state, &fakeHost{})

	_, err := opener.Open("https://app.example")
	assert.ErrorIs(t, err, aerr.ErrNoActiveAccount)
}

func TestOpen_WindowCreationFailurePropagates(t *testing.T) {
	state := newState(t)
	opener := dappwindow.New(state, &fakeHost{fail: true})

	_, err := opener.Open("https://app.example")
	assert.ErrorIs(t, err, aerr.ErrWindowCreationFailed)
}

func TestClose_RemovesAllSessionsForWindow(t *testing.T) {
	state := newState(t)
	opener := dappwindow.New(state, &fakeHost{})

	opened, err := opener.Open("https://app.example")
	require.NoError(t, err)

	opener.Close(opened.WindowLabel)

	_, ok := state.Sessions.Get(opened.WindowLabel, opened.Origin)
	assert.False(t, ok)
}
