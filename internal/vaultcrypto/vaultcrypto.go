// Package vaultcrypto implements the password-based encryption façade for
// the wallet core: Argon2id key derivation and AES-GCM-256 authenticated
// encryption, in the spirit of the teacher's age-based Encrypt/Decrypt
// façade in internal/crypto/age.go but re-keyed to a fixed, inspectable
// blob layout rather than age's own envelope format.
//
// Blob layout: salt(16) || nonce(12) || ciphertext||tag. The salt and
// nonce are stored alongside the ciphertext so decrypt needs nothing but
// the password to reverse it.
package vaultcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/aurumlabs/aurum-core/internal/secure"
)

const (
	saltSize  = 16
	nonceSize = 12

	// Argon2id parameters at or above OWASP 2023 defaults (m=19MiB is the
	// OWASP minimum; we use 64MiB for additional margin on desktop
	// hardware where memory is not a binding constraint).
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonKeyLen  = 32 // AES-256
)

// ErrDecryptionFailed is returned by Decrypt on any failure — tampering,
// truncation, or wrong password. The three are indistinguishable by
// design; see spec note on blob decrypt.
var ErrDecryptionFailed = errors.New("vaultcrypto: decryption failed")

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// Encrypt derives a fresh Argon2id key from password and a random 16-byte
// salt, then seals plaintext with AES-256-GCM under a random 12-byte
// nonce. The returned blob is salt || nonce || ciphertext||tag. Calling
// Encrypt twice with identical plaintext and password yields different
// blobs with overwhelming probability, since both salt and nonce are
// freshly randomized.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	salt, err := secure.RandomBytes(saltSize)
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: generating salt: %w", err)
	}

	key, err := secure.FromSlice(deriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: deriving key: %w", err)
	}
	defer key.Destroy()

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: initializing cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: initializing GCM: %w", err)
	}

	nonce, err := secure.RandomBytes(nonceSize)
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: generating nonce: %w", err)
	}

	blob := make([]byte, 0, saltSize+nonceSize+len(plaintext)+gcm.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = gcm.Seal(blob, nonce, plaintext, nil)

	return blob, nil
}

// Decrypt reverses Encrypt. Any failure — truncated blob, tampered
// ciphertext, or wrong password — returns ErrDecryptionFailed; the caller
// cannot and must not attempt to distinguish the cause.
func Decrypt(blob []byte, password string) ([]byte, error) {
	if len(blob) < saltSize+nonceSize {
		return nil, ErrDecryptionFailed
	}

	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	ciphertext := blob[saltSize+nonceSize:]

	key, err := secure.FromSlice(deriveKey(password, salt))
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: deriving key: %w", err)
	}
	defer key.Destroy()

	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: initializing cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: initializing GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// EncryptSecret encrypts the contents of a secure.Bytes secret.
func EncryptSecret(s *secure.Bytes, password string) ([]byte, error) {
	return Encrypt(s.Bytes(), password)
}

// DecryptSecret decrypts blob into a zeroing secure.Bytes container.
func DecryptSecret(blob []byte, password string) (*secure.Bytes, error) {
	plaintext, err := Decrypt(blob, password)
	if err != nil {
		return nil, err
	}
	defer secure.Zero(plaintext)

	return secure.FromSlice(plaintext)
}

// Verifier is an opaque password verifier produced by HashPassword. It is
// safe to persist: it does not permit recovery of the password, and
// verifying against it is constant-time.
type Verifier struct {
	salt []byte
	hash []byte
}

// HashPassword derives an Argon2id verifier for password that can later be
// checked with VerifyPassword, without storing the password itself.
func HashPassword(password string) (*Verifier, error) {
	salt, err := secure.RandomBytes(saltSize)
	if err != nil {
		return nil, fmt.Errorf("vaultcrypto: generating salt: %w", err)
	}

	return &Verifier{salt: salt, hash: deriveKey(password, salt)}, nil
}

// VerifyPassword reports whether password matches the verifier, using a
// constant-time comparison so timing cannot leak a partial match.
func VerifyPassword(password string, v *Verifier) bool {
	candidate := deriveKey(password, v.salt)
	return subtle.ConstantTimeCompare(candidate, v.hash) == 1
}

// Marshal encodes a Verifier as salt || hash for persistence.
func (v *Verifier) Marshal() []byte {
	out := make([]byte, 0, len(v.salt)+len(v.hash))
	out = append(out, v.salt...)
	out = append(out, v.hash...)
	return out
}

// UnmarshalVerifier reverses Marshal.
func UnmarshalVerifier(data []byte) (*Verifier, error) {
	if len(data) != saltSize+argonKeyLen {
		return nil, fmt.Errorf("vaultcrypto: malformed verifier (got %d bytes)", len(data))
	}
	return &Verifier{salt: data[:saltSize], hash: data[saltSize:]}, nil
}
