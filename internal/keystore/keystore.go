// Package keystore persists the wallet's encrypted record in the OS
// keychain, keyed by account id. It provides defense in depth: the
// secret handed to the OS keychain is already encrypted under the
// wallet password (internal/vaultcrypto), so a compromised keychain read
// without the password still yields only ciphertext. This mirrors the
// teacher's internal/wallet/storage.go encrypted-blob pattern, but
// targets the OS keychain (via zalando/go-keyring, the same library the
// teacher wires in its session package) instead of a plain file.
package keystore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrKeyNotFound indicates delete or retrieve was called for an account
// id with no stored record.
var ErrKeyNotFound = errors.New("keystore: key not found")

// ErrDecryptionFailed indicates retrieve succeeded in reading the
// keychain entry but the supplied password could not decrypt it.
var ErrDecryptionFailed = errors.New("keystore: decryption failed")

const serviceName = "aurum-core"

// Keyring wraps the OS-native credential store (macOS Keychain, Windows
// Credential Manager, the Secret Service on Linux via D-Bus).
type Keyring struct {
	service string
}

// New returns a Keyring addressing the default service namespace.
func New() *Keyring {
	return &Keyring{service: serviceName}
}

// Store saves secretStr (expected to already be an encrypted blob
// produced by vaultcrypto.Encrypt) under keyID. pw is accepted for
// interface symmetry with Retrieve/the spec's store/retrieve pairing but
// is not used directly here — the caller is expected to have already
// encrypted secretStr with it via vaultcrypto before calling Store.
func (k *Keyring) Store(keyID string, secretStr string, _ []byte) error {
	if err := keyring.Set(k.service, keyID, secretStr); err != nil {
		return fmt.Errorf("keystore: writing keychain entry: %w", err)
	}
	return nil
}

// Retrieve reads the raw (still-encrypted) secret for keyID. Callers
// decrypt it themselves via vaultcrypto.Decrypt using pw; a
// vaultcrypto.ErrDecryptionFailed there should be surfaced to the
// caller as ErrDecryptionFailed.
func (k *Keyring) Retrieve(keyID string) (string, error) {
	secretStr, err := keyring.Get(k.service, keyID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("keystore: reading keychain entry: %w", err)
	}
	return secretStr, nil
}

// Delete removes keyID from the keychain. Returns ErrKeyNotFound if no
// such entry exists.
func (k *Keyring) Delete(keyID string) error {
	if err := keyring.Delete(k.service, keyID); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("keystore: deleting keychain entry: %w", err)
	}
	return nil
}

// Exists reports whether keyID has a stored record.
func (k *Keyring) Exists(keyID string) (bool, error) {
	_, err := keyring.Get(k.service, keyID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("keystore: probing keychain entry: %w", err)
	}
	return true, nil
}
