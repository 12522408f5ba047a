package keystore

import (
	"encoding/json"
	"fmt"
)

// walletKeyID is the single keychain entry the whole wallet record is
// stored under. The process manages exactly one wallet at a time, so one
// fixed id is sufficient; there is no multi-wallet namespace in this
// version.
const walletKeyID = "wallet"

// AccountRecord is the persisted metadata for one account: whether it is
// HD-derived or stands alone on an imported key, its address, its BIP-44
// index (derived accounts only), and an optional user label.
type AccountRecord struct {
	Address    string  `json:"address"`
	Derived    bool    `json:"derived"`
	Index      uint32  `json:"index,omitempty"`
	Label      *string `json:"label,omitempty"`
	ImportedPK []byte  `json:"imported_private_key,omitempty"` // vaultcrypto blob, only for imported accounts
}

// WalletRecord is the full persisted wallet: an encrypted seed (if the
// wallet has HD accounts), per-account imported-key blobs folded into
// AccountRecord, account metadata, and a password verifier that lets
// verify_password succeed without touching the seed.
type WalletRecord struct {
	Version          int             `json:"version"`
	EncryptedSeed    []byte          `json:"encrypted_seed,omitempty"`
	AccountMetadata  []AccountRecord `json:"account_metadata"`
	PasswordVerifier []byte          `json:"password_verifier"`
	// PasswordHash and NetworkID are reserved fields carried through
	// read/write round-trips unread: the source format defines them but
	// nothing in this version populates or consults them. Left in place
	// rather than removed per the open-question decision in DESIGN.md —
	// a future offline password-verifier migration may need them.
	PasswordHash string `json:"password_hash,omitempty"`
	NetworkID    string `json:"network_id,omitempty"`
	NextIndex        uint32          `json:"next_index"` // next unused BIP-44 index; never reused after delete_account
}

// Save JSON-encodes record and writes it to the OS keychain. The
// individual byte fields (EncryptedSeed, each account's ImportedPK, and
// PasswordVerifier) are already vaultcrypto ciphertext/verifier bytes by
// the time they reach here — Save itself performs no additional
// encryption, since the keychain is trusted to store the JSON envelope
// at rest and every sensitive field inside it is already opaque.
func (k *Keyring) Save(record *WalletRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("keystore: encoding wallet record: %w", err)
	}
	return k.Store(walletKeyID, string(data), nil)
}

// LoadRecord reads and JSON-decodes the wallet record. It returns
// ErrKeyNotFound if no wallet has been created yet.
func (k *Keyring) LoadRecord() (*WalletRecord, error) {
	data, err := k.Retrieve(walletKeyID)
	if err != nil {
		return nil, err
	}

	var record WalletRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("keystore: decoding wallet record: %w", err)
	}

	return &record, nil
}

// DeleteRecord removes the wallet record entirely (delete_wallet).
func (k *Keyring) DeleteRecord() error {
	return k.Delete(walletKeyID)
}

// RecordExists reports whether a wallet record has been created.
func (k *Keyring) RecordExists() (bool, error) {
	return k.Exists(walletKeyID)
}
