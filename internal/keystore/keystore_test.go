package keystore_test

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/keystore"
)

func TestMain(m *testing.M) {
	gokeyring.MockInit()
	m.Run()
}

func TestStoreRetrieve_RoundTrip(t *testing.T) {
	k := keystore.New()

	require.NoError(t, k.Store("acct-1", "ciphertext-blob", nil))

	got, err := k.Retrieve("acct-1")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext-blob", got)
}

func TestRetrieve_NotFound(t *testing.T) {
	k := keystore.New()

	_, err := k.Retrieve("does-not-exist")
	assert.ErrorIs(t, err, keystore.ErrKeyNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	k := keystore.New()

	err := k.Delete("does-not-exist")
	assert.ErrorIs(t, err, keystore.ErrKeyNotFound)
}

func TestExists(t *testing.T) {
	k := keystore.New()

	ok, err := k.Exists("acct-2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, k.Store("acct-2", "blob", nil))

	ok, err = k.Exists("acct-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWalletRecord_SaveLoadDelete(t *testing.T) {
	k := keystore.New()

	exists, err := k.RecordExists()
	require.NoError(t, err)
	assert.False(t, exists)

	record := &keystore.WalletRecord{
		Version:       1,
		EncryptedSeed: []byte("fake-encrypted-seed"),
		AccountMetadata: []keystore.AccountRecord{
			{Address: "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", Derived: true, Index: 0},
		},
		PasswordVerifier: []byte("fake-verifier"),
	}

	require.NoError(t, k.Save(record))

	loaded, err := k.LoadRecord()
	require.NoError(t, err)
	assert.Equal(t, record.Version, loaded.Version)
	assert.Equal(t, record.EncryptedSeed, loaded.EncryptedSeed)
	require.Len(t, loaded.AccountMetadata, 1)
	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", loaded.AccountMetadata[0].Address)

	require.NoError(t, k.DeleteRecord())

	_, err = k.LoadRecord()
	assert.ErrorIs(t, err, keystore.ErrKeyNotFound)
}
