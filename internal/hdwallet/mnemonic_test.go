package hdwallet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/hdwallet"
)

func TestGenerateMnemonic_WordCounts(t *testing.T) {
	t.Parallel()

	m12, err := hdwallet.GenerateMnemonic(12)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m12), 12)

	m24, err := hdwallet.GenerateMnemonic(24)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m24), 24)
}

func TestGenerateMnemonic_InvalidWordCount(t *testing.T) {
	t.Parallel()
	_, err := hdwallet.GenerateMnemonic(18)
	assert.ErrorIs(t, err, hdwallet.ErrInvalidWordCount)
}

func TestValidateMnemonic_RoundTrip(t *testing.T) {
	t.Parallel()

	m, err := hdwallet.GenerateMnemonic(12)
	require.NoError(t, err)
	assert.NoError(t, hdwallet.ValidateMnemonic(m))
}

func TestValidateMnemonic_RejectsBadChecksum(t *testing.T) {
	t.Parallel()
	bad := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon"
	assert.ErrorIs(t, hdwallet.ValidateMnemonic(bad), hdwallet.ErrInvalidMnemonic)
}

func TestNormalizeMnemonicInput(t *testing.T) {
	t.Parallel()

	input := "1. Abandon\n2) ABANDON\n- abandon,abandon"
	got := hdwallet.NormalizeMnemonicInput(input)
	assert.Equal(t, "abandon abandon abandon abandon", got)
}

func TestIsValidWord(t *testing.T) {
	t.Parallel()
	assert.True(t, hdwallet.IsValidWord("abandon"))
	assert.False(t, hdwallet.IsValidWord("notarealword"))
}

func TestSuggestWord(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abandon", hdwallet.SuggestWord("abandn"))
	assert.Equal(t, "", hdwallet.SuggestWord("zzzzzzzzzzzzzzzzzzzz"))
}

func TestDetectTypos(t *testing.T) {
	t.Parallel()

	mnemonic := "abandn abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	typos := hdwallet.DetectTypos(mnemonic)

	require.Len(t, typos, 1)
	assert.Equal(t, 0, typos[0].Index)
	assert.Equal(t, "abandon", typos[0].Suggestion)
}

func TestSeed_RejectsInvalidMnemonic(t *testing.T) {
	t.Parallel()
	_, err := hdwallet.Seed("not a valid mnemonic at all", "")
	assert.ErrorIs(t, err, hdwallet.ErrInvalidMnemonic)
}
