package vaultcrypto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/vaultcrypto"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	t.Parallel()
	plaintext := []byte("this is secret wallet seed data")
	password := "strong-passphrase-123" // gitleaks:allow

	blob, err := vaultcrypto.Encrypt(plaintext, password)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, blob)

	decrypted, err := vaultcrypto.Decrypt(blob, password)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncrypt_DistinctCiphertextsForSamePlaintext(t *testing.T) {
	t.Parallel()
	plaintext := []byte("identical secret")
	password := "same-password" // gitleaks:allow

	a, err := vaultcrypto.Encrypt(plaintext, password)
	require.NoError(t, err)
	b, err := vaultcrypto.Encrypt(plaintext, password)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "salt and nonce must be freshly randomized each call")
}

func TestDecrypt_WrongPassword(t *testing.T) {
	t.Parallel()
	blob, err := vaultcrypto.Encrypt([]byte("secret"), "correct-password") // gitleaks:allow
	require.NoError(t, err)

	_, err = vaultcrypto.Decrypt(blob, "wrong-password")
	assert.ErrorIs(t, err, vaultcrypto.ErrDecryptionFailed)
}

func TestDecrypt_Tampered(t *testing.T) {
	t.Parallel()
	password := "correct-password" // gitleaks:allow
	blob, err := vaultcrypto.Encrypt([]byte("secret"), password)
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF

	_, err = vaultcrypto.Decrypt(blob, password)
	assert.ErrorIs(t, err, vaultcrypto.ErrDecryptionFailed)
}

func TestDecrypt_Truncated(t *testing.T) {
	t.Parallel()
	// Truncation must be indistinguishable from tampering or a wrong
	// password: all three collapse onto the same sentinel.
	_, err := vaultcrypto.Decrypt([]byte{1, 2, 3}, "password") // gitleaks:allow
	assert.ErrorIs(t, err, vaultcrypto.ErrDecryptionFailed)
}

func TestEncrypt_EmptyPlaintext(t *testing.T) {
	t.Parallel()
	blob, err := vaultcrypto.Encrypt([]byte{}, "password") // gitleaks:allow
	require.NoError(t, err)

	decrypted, err := vaultcrypto.Decrypt(blob, "password")
	require.NoError(t, err)
	assert.Empty(t, decrypted)
}

func TestBlobLayout_SaltAndNoncePrefix(t *testing.T) {
	t.Parallel()
	blob, err := vaultcrypto.Encrypt([]byte("x"), "password") // gitleaks:allow
	require.NoError(t, err)

	// salt(16) || nonce(12) || ciphertext||tag(>=1+16)
	assert.GreaterOrEqual(t, len(blob), 16+12+1+16)
}

func TestHashVerifyPassword(t *testing.T) {
	t.Parallel()
	v, err := vaultcrypto.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, vaultcrypto.VerifyPassword("correct horse battery staple", v))
	assert.False(t, vaultcrypto.VerifyPassword("wrong", v))
}

func TestVerifier_MarshalRoundTrip(t *testing.T) {
	t.Parallel()
	v, err := vaultcrypto.HashPassword("passphrase") // gitleaks:allow
	require.NoError(t, err)

	data := v.Marshal()
	restored, err := vaultcrypto.UnmarshalVerifier(data)
	require.NoError(t, err)

	assert.True(t, vaultcrypto.VerifyPassword("passphrase", restored))
}

func TestUnmarshalVerifier_WrongSize(t *testing.T) {
	t.Parallel()
	_, err := vaultcrypto.UnmarshalVerifier([]byte{1, 2, 3})
	assert.Error(t, err)
}
