package hdwallet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/hdwallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestDeriveAddress_BIP44TestVector(t *testing.T) {
	t.Parallel()

	seed, err := hdwallet.Seed(testMnemonic, "")
	require.NoError(t, err)

	addr, err := hdwallet.DeriveAddress(seed, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", addr.Address)
	assert.Equal(t, "m/44'/60'/0'/0/0", addr.Path)
}

func TestDeriveAddress_DeterministicAcrossCalls(t *testing.T) {
	t.Parallel()

	seed, err := hdwallet.Seed(testMnemonic, "")
	require.NoError(t, err)

	a, err := hdwallet.DeriveAddress(seed, 0, 3)
	require.NoError(t, err)
	b, err := hdwallet.DeriveAddress(seed, 0, 3)
	require.NoError(t, err)

	assert.Equal(t, a.Address, b.Address)
}

func TestDeriveAddress_DistinctIndicesDistinctAddresses(t *testing.T) {
	t.Parallel()

	seed, err := hdwallet.Seed(testMnemonic, "")
	require.NoError(t, err)

	a, err := hdwallet.DeriveAddress(seed, 0, 0)
	require.NoError(t, err)
	b, err := hdwallet.DeriveAddress(seed, 0, 1)
	require.NoError(t, err)

	assert.NotEqual(t, a.Address, b.Address)
}

func TestDerivationPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "m/44'/60'/2'/0/7", hdwallet.DerivationPath(2, 7))
}

func TestIsValidAddress(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		addr string
		want bool
	}{
		{"valid checksum", "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", true},
		{"missing prefix", "9858EfFD232B4033E47d90003D41EC34EcaEda94", false},
		{"too short", "0x9858", false},
		{"non-hex", "0x" + "zz58EfFD232B4033E47d90003D41EC34EcaEda9", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, hdwallet.IsValidAddress(tc.addr))
		})
	}
}

func TestDerivePrivateKey_MatchesDerivedAddress(t *testing.T) {
	t.Parallel()

	seed, err := hdwallet.Seed(testMnemonic, "")
	require.NoError(t, err)

	priv, err := hdwallet.DerivePrivateKey(seed, 0, 0)
	require.NoError(t, err)
	assert.Len(t, priv, 32)
}
