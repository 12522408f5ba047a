package walletservice_test

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/keystore"
	"github.com/aurumlabs/aurum-core/internal/walletservice"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

func TestMain(m *testing.M) {
	gokeyring.MockInit()
	m.Run()
}

const testPassword = "correct horse battery staple"

func newService() *walletservice.Service {
	return walletservice.New(keystore.New())
}

func TestCreate_ThenExistsAndLocked(t *testing.T) {
	s := newService()

	exists, err := s.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	mnemonic, err := s.Create(testPassword, 12)
	require.NoError(t, err)
	assert.NotEmpty(t, mnemonic)

	exists, err = s.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	assert.True(t, s.IsLocked())
}

func TestCreate_TwiceFailsWithAlreadyExists(t *testing.T) {
	s := newService()

	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)

	_, err = s.Create(testPassword, 12)
	assert.ErrorIs(t, err, aerr.ErrWalletAlreadyExists)
}

func TestUnlock_WrongPasswordFails(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)

	err = s.Unlock("wrong password")
	assert.ErrorIs(t, err, aerr.ErrInvalidPassword)
	assert.True(t, s.IsLocked())
}

func TestUnlock_CorrectPasswordUnlocksAndIsIdempotent(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)

	require.NoError(t, s.Unlock(testPassword))
	assert.False(t, s.IsLocked())

	require.NoError(t, s.Unlock(testPassword))
	assert.False(t, s.IsLocked())
}

func TestLock_ZerosStateAndIsIdempotent(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)
	require.NoError(t, s.Unlock(testPassword))

	s.Lock()
	assert.True(t, s.IsLocked())

	s.Lock()
	assert.True(t, s.IsLocked())
}

func TestOperationsRequiringUnlock_FailWhenLocked(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)

	_, err = s.CreateAccount()
	assert.ErrorIs(t, err, aerr.ErrWalletLocked)

	_, err = s.ImportAccount("aa"+"00"+"11"+"22"+"33"+"44"+"55"+"66"+"77"+"88"+"99"+"aa"+"bb"+"cc"+"dd"+"ee"+"ff"+"00"+"11"+"22"+"33"+"44"+"55"+"66"+"77"+"88"+"99"+"aa"+"bb"+"cc"+"dd"+"ee", nil)
	assert.ErrorIs(t, err, aerr.ErrWalletLocked)

	err = s.DeleteAccount("0x0000000000000000000000000000000000000001")
	assert.ErrorIs(t, err, aerr.ErrWalletLocked)

	_, err = s.SignerFor("0x0000000000000000000000000000000000000001")
	assert.ErrorIs(t, err, aerr.ErrWalletLocked)
}

func TestAccounts_AvailableWhileLocked(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)

	accounts, err := s.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Derived)
	assert.Equal(t, uint32(0), accounts[0].Index)
}

func TestCreateAccount_DerivesNextIndex(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)
	require.NoError(t, s.Unlock(testPassword))

	acc, err := s.CreateAccount()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), acc.Index)
	assert.True(t, acc.Derived)

	accounts, err := s.Accounts()
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestImportAccount_RejectsMalformedKey(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)
	require.NoError(t, s.Unlock(testPassword))

	_, err = s.ImportAccount("not-hex", nil)
	assert.ErrorIs(t, err, aerr.ErrInvalidPrivateKey)

	_, err = s.ImportAccount("00000000000000000000000000000000000000000000000000000000000000", nil)
	assert.ErrorIs(t, err, aerr.ErrInvalidPrivateKey)
}

func TestImportAccount_ThenSignerFor(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)
	require.NoError(t, s.Unlock(testPassword))

	label := "cold key"
	acc, err := s.ImportAccount("4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318", &label)
	require.NoError(t, err)
	assert.False(t, acc.Derived)
	assert.Equal(t, &label, acc.Label)

	signer, err := s.SignerFor(acc.Address)
	require.NoError(t, err)
	assert.Equal(t, acc.Address, signer.Address())
	signer.Destroy()
}

func TestDeleteAccount_RemovesDerivedFromMetadataOnly(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)
	require.NoError(t, s.Unlock(testPassword))

	accounts, err := s.Accounts()
	require.NoError(t, err)
	first := accounts[0].Address

	require.NoError(t, s.DeleteAccount(first))

	accounts, err = s.Accounts()
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestDeleteAccount_UnknownAddress(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)
	require.NoError(t, s.Unlock(testPassword))

	err = s.DeleteAccount("0x1111111111111111111111111111111111111111")
	assert.ErrorIs(t, err, aerr.ErrUnknownAccount)
}

func TestSignerFor_UnknownAddress(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)
	require.NoError(t, s.Unlock(testPassword))

	_, err = s.SignerFor("0x1111111111111111111111111111111111111111")
	assert.ErrorIs(t, err, aerr.ErrUnknownAccount)
}

func TestVerifyPassword_DoesNotChangeLockState(t *testing.T) {
	s := newService()
	_, err := s.Create(testPassword, 12)
	require.NoError(t, err)

	assert.NoError(t, s.VerifyPassword(testPassword))
	assert.ErrorIs(t, s.VerifyPassword("wrong"), aerr.ErrInvalidPassword)
	assert.True(t, s.IsLocked())
}

func TestImport_RejectsOutOfRangeAccountCount(t *testing.T) {
	s := newService()
	err := s.Import("test test test test test test test test test test test junk", testPassword, 0)
	assert.Error(t, err)

	err = s.Import("test test test test test test test test test test test junk", testPassword, 11)
	assert.Error(t, err)
}
