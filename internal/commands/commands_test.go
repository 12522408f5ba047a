package commands_test

import (
	"math/big"
	"os"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/appstate"
	"github.com/aurumlabs/aurum-core/internal/backup"
	"github.com/aurumlabs/aurum-core/internal/commands"
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

func newSurface(t *testing.T) *commands.Surface {
	t.Helper()

	kr := keystore.New()
	wallet := walletservice.New(kr)
	networks := netregistry.New(map[string]string{"ethereum": "https://rpc.example/eth"})

	state := appstate.New(appstate.Config{
		Wallet:   wallet,
		Networks: networks,
		Prices:   priceservice.New(),
	})

	return commands.New(state, backup.NewService(t.TempDir(), kr))
}

func TestCreateWallet_ThenUnlock(t *testing.T) {
	s := newSurface(t)

	result, err := s.CreateWallet("correct horse battery staple", 12)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Mnemonic)

	exists, err := s.WalletExists()
	require.NoError(t, err)
	assert.True(t, exists)

	assert.True(t, s.IsWalletLocked())
	require.NoError(t, s.UnlockWallet("correct horse battery staple"))
	assert.False(t, s.IsWalletLocked())

	accounts, err := s.GetAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	require.NoError(t, s.SetActiveAccount(accounts[0].Address))
}

func TestSetActiveAccount_UnknownAddressFails(t *testing.T) {
	s := newSurface(t)
	_, err := s.CreateWallet("pw-123456", 12)
	require.NoError(t, err)
	require.NoError(t, s.UnlockWallet("pw-123456"))

	err = s.SetActiveAccount("0xDeadbeef00000000000000000000000000dEaD")
	assert.ErrorIs(t, err, aerr.ErrUnknownAccount)
}

func TestGetNetworks_IncludesBuiltins(t *testing.T) {
	s := newSurface(t)
	networks := s.GetNetworks()
	assert.NotEmpty(t, networks)

	var found bool
	for _, n := range networks {
		if n.ID == "ethereum" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAddNetwork_DuplicateIDRejected(t *testing.T) {
	s := newSurface(t)

	req := commands.AddNetworkRequest{
		ID: "ethereum", Name: "Ethereum Again", ChainID: big.NewInt(1),
		RPCURL: "https://rpc.example/eth2", Symbol: "ETH", Decimals: 18,
	}
	err := s.AddNetwork(req)
	assert.Error(t, err)
}

func TestAddNetwork_NewCustomNetwork(t *testing.T) {
	s := newSurface(t)

	req := commands.AddNetworkRequest{
		ID: "custom1", Name: "Custom Chain", ChainID: big.NewInt(99999),
		RPCURL: "https://rpc.example/custom", Symbol: "CST", Decimals: 18,
	}
	require.NoError(t, s.AddNetwork(req))

	networks := s.GetNetworks()
	var found bool
	for _, n := range networks {
		if n.ID == "custom1" {
			found = true
			assert.True(t, n.Custom)
		}
	}
	assert.True(t, found)
}

func TestGetNetworkInfo_NoActiveNetworkFails(t *testing.T) {
	s := newSurface(t)
	_, err := s.GetNetworkInfo()
	assert.ErrorIs(t, err, aerr.ErrNetworkNotInitialized)
}

func TestValidateTransaction_RequiresActiveNetwork(t *testing.T) {
	s := newSurface(t)

	err := s.ValidateTransaction(commands.TransactionRequest{
		From: "0x0000000000000000000000000000000000dEaD",
		To:   "0x0000000000000000000000000000000000bEEF",
		Amount: big.NewInt(1),
	})
	assert.ErrorIs(t, err, aerr.ErrNetworkNotInitialized)
}

func TestGetConnectedDapps_EmptyInitially(t *testing.T) {
	s := newSurface(t)
	assert.Empty(t, s.GetConnectedDapps())
}

func TestDisconnectDapp_RemovesSession(t *testing.T) {
	s := newSurface(t)
	s.State.Sessions.CreateSession("win-1", "https://dapp.example", []string{"0xabc"}, true)

	require.Len(t, s.GetConnectedDapps(), 1)
	s.DisconnectDapp("win-1", "https://dapp.example")
	assert.Empty(t, s.GetConnectedDapps())
}

func TestExportImportWalletBackup_RoundTrip(t *testing.T) {
	s := newSurface(t)
	_, err := s.CreateWallet("export-roundtrip-pw", 12)
	require.NoError(t, err)

	path, err := s.ExportWalletBackup("backup-pw")
	require.NoError(t, err)
	assert.FileExists(t, path)

	require.NoError(t, s.ImportWalletBackup(path, "backup-pw"))
}

func TestRespondToApproval_UnknownIDFails(t *testing.T) {
	s := newSurface(t)
	err := s.RespondToApproval("does-not-exist", true, nil)
	assert.Error(t, err)
}
