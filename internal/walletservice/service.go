// Package walletservice owns the wallet's lifecycle: creation, import,
// lock/unlock, account management, and handing out one-shot signers. It
// is the only package that ever holds decrypted seed or private key
// material, and only while unlocked.
//
// Grounded on the teacher's internal/service/wallet/service.go Config/
// NewService composition shape, generalized from a multi-wallet CLI
// loader to a single-wallet daemon state machine ([NoWallet] ->
// [Locked] -> [Unlocked]).
package walletservice

import (
	"errors"
	"strings"
	"sync"

	"github.com/aurumlabs/aurum-core/internal/hdwallet"
	"github.com/aurumlabs/aurum-core/internal/keystore"
	"github.com/aurumlabs/aurum-core/internal/secure"
	"github.com/aurumlabs/aurum-core/internal/vaultcrypto"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

const (
	minAccountCount = 1
	maxAccountCount = 10

	// derivationAccount is the BIP-44 account' index; every derived
	// address in this wallet lives under account 0, distinguished only
	// by the address index.
	derivationAccount = 0
)

// Service implements the wallet lifecycle described in package doc.
type Service struct {
	keyring *keystore.Keyring

	mu           sync.Mutex
	locked       bool
	seed         *secure.Bytes
	password     *secure.Bytes
	importedKeys map[string]*secure.Bytes // address -> decrypted private key, unlocked only
}

// New creates a Service backed by keyring. The wallet starts locked
// (or, if no wallet has been created yet, in the implicit NoWallet
// state — Exists distinguishes the two).
func New(keyring *keystore.Keyring) *Service {
	return &Service{keyring: keyring, locked: true}
}

// Exists reports whether a wallet record has been created. Never
// requires unlocking.
func (s *Service) Exists() (bool, error) {
	return s.keyring.RecordExists()
}

// Create generates a fresh mnemonic, derives one initial account, and
// persists the encrypted wallet record. The mnemonic is returned once;
// it is never retrievable again after this call returns.
func (s *Service) Create(password string, wordCount int) (mnemonic string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.keyring.RecordExists()
	if err != nil {
		return "", err
	}
	if exists {
		return "", aerr.ErrWalletAlreadyExists
	}

	mnemonic, err = hdwallet.GenerateMnemonic(wordCount)
	if err != nil {
		return "", aerr.Wrap(aerr.ErrInvalidMnemonic, "generating mnemonic: %v", err)
	}

	if err := s.persistNewWallet(mnemonic, password, 1); err != nil {
		return "", err
	}

	return mnemonic, nil
}

// Import validates an existing mnemonic, derives accountCount accounts
// from it, and persists the encrypted wallet record. Fails with
// WalletAlreadyExists if a record is already present.
func (s *Service) Import(mnemonic, password string, accountCount int) error {
	if accountCount < minAccountCount || accountCount > maxAccountCount {
		return aerr.WithDetails(aerr.ErrInvalidParams, map[string]string{
			"field": "account_count", "min": "1", "max": "10",
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.keyring.RecordExists()
	if err != nil {
		return err
	}
	if exists {
		return aerr.ErrWalletAlreadyExists
	}

	if err := hdwallet.ValidateMnemonic(mnemonic); err != nil {
		return aerr.Wrap(aerr.ErrInvalidMnemonic, "%v", err)
	}

	return s.persistNewWallet(mnemonic, password, accountCount)
}

// persistNewWallet derives accountCount accounts from mnemonic, encrypts
// the seed and a password verifier, and saves the record. Caller holds
// s.mu.
func (s *Service) persistNewWallet(mnemonic, password string, accountCount int) error {
	seed, err := hdwallet.Seed(mnemonic, "")
	if err != nil {
		return aerr.Wrap(aerr.ErrInvalidMnemonic, "%v", err)
	}
	defer secure.Zero(seed)

	metadata := make([]keystore.AccountRecord, 0, accountCount)
	for i := uint32(0); i < uint32(accountCount); i++ {
		addr, err := hdwallet.DeriveAddress(seed, derivationAccount, i)
		if err != nil {
			return aerr.Wrap(aerr.ErrKeyDerivationFailed, "%v", err)
		}
		metadata = append(metadata, keystore.AccountRecord{Address: addr.Address, Derived: true, Index: i})
	}

	encryptedSeed, err := vaultcrypto.Encrypt(seed, password)
	if err != nil {
		return aerr.Wrap(aerr.ErrStatePersistenceError, "encrypting seed: %v", err)
	}

	verifier, err := vaultcrypto.HashPassword(password)
	if err != nil {
		return aerr.Wrap(aerr.ErrStatePersistenceError, "hashing password: %v", err)
	}

	record := &keystore.WalletRecord{
		Version:          1,
		EncryptedSeed:    encryptedSeed,
		AccountMetadata:  metadata,
		PasswordVerifier: verifier.Marshal(),
		NextIndex:        uint32(accountCount),
	}

	if err := s.keyring.Save(record); err != nil {
		return aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}

	return nil
}

// Unlock decrypts the wallet record and loads its seed and imported
// keys into memory. Idempotent when already unlocked with the correct
// password; fails with InvalidPassword without mutating state otherwise.
func (s *Service) Unlock(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.loadRecord()
	if err != nil {
		return err
	}

	verifier, err := vaultcrypto.UnmarshalVerifier(record.PasswordVerifier)
	if err != nil {
		return aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}
	if !vaultcrypto.VerifyPassword(password, verifier) {
		return aerr.ErrInvalidPassword
	}

	var seed *secure.Bytes
	if len(record.EncryptedSeed) > 0 {
		seed, err = vaultcrypto.DecryptSecret(record.EncryptedSeed, password)
		if err != nil {
			return aerr.Wrap(aerr.ErrDecryptionFailed, "%v", err)
		}
	}

	importedKeys := make(map[string]*secure.Bytes)
	for _, acc := range record.AccountMetadata {
		if acc.Derived || len(acc.ImportedPK) == 0 {
			continue
		}
		raw, err := vaultcrypto.Decrypt(acc.ImportedPK, password)
		if err != nil {
			return aerr.Wrap(aerr.ErrDecryptionFailed, "%v", err)
		}
		key, err := secure.FromSlice(raw)
		secure.Zero(raw)
		if err != nil {
			return aerr.Wrap(aerr.ErrDecryptionFailed, "%v", err)
		}
		importedKeys[acc.Address] = key
	}

	pw, err := secure.FromSlice([]byte(password))
	if err != nil {
		return aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}

	s.destroyUnlockedStateLocked()
	s.seed = seed
	s.password = pw
	s.importedKeys = importedKeys
	s.locked = false
	return nil
}

// Lock zeros all in-memory secrets and sets the lock flag. Idempotent.
func (s *Service) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyUnlockedStateLocked()
	s.locked = true
}

func (s *Service) destroyUnlockedStateLocked() {
	if s.seed != nil {
		s.seed.Destroy()
		s.seed = nil
	}
	if s.password != nil {
		s.password.Destroy()
		s.password = nil
	}
	for _, k := range s.importedKeys {
		k.Destroy()
	}
	s.importedKeys = nil
}

// IsLocked reports the current lock flag.
func (s *Service) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// VerifyPassword reports whether password matches the stored verifier.
// Does not change lock state.
func (s *Service) VerifyPassword(password string) error {
	record, err := s.loadRecord()
	if err != nil {
		return err
	}

	verifier, err := vaultcrypto.UnmarshalVerifier(record.PasswordVerifier)
	if err != nil {
		return aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}
	if !vaultcrypto.VerifyPassword(password, verifier) {
		return aerr.ErrInvalidPassword
	}
	return nil
}

// Accounts returns account metadata. Available while locked.
func (s *Service) Accounts() ([]Account, error) {
	record, err := s.loadRecord()
	if err != nil {
		return nil, err
	}
	return toAccounts(record.AccountMetadata), nil
}

// CreateAccount derives the next HD account and appends it to the
// wallet record. Requires unlocked.
func (s *Service) CreateAccount() (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked {
		return Account{}, aerr.ErrWalletLocked
	}

	record, err := s.loadRecord()
	if err != nil {
		return Account{}, err
	}

	index := record.NextIndex
	addr, err := hdwallet.DeriveAddress(s.seed.Bytes(), derivationAccount, index)
	if err != nil {
		return Account{}, aerr.Wrap(aerr.ErrKeyDerivationFailed, "%v", err)
	}

	rec := keystore.AccountRecord{Address: addr.Address, Derived: true, Index: index}
	record.AccountMetadata = append(record.AccountMetadata, rec)
	record.NextIndex = index + 1

	if err := s.keyring.Save(record); err != nil {
		return Account{}, aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}

	return toAccount(rec), nil
}

// ImportAccount validates and imports a raw private key, encrypting it
// under the current session password. Requires unlocked.
func (s *Service) ImportAccount(privateKeyHex string, label *string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked {
		return Account{}, aerr.ErrWalletLocked
	}

	raw, err := decodePrivateKeyHex(privateKeyHex)
	if err != nil {
		return Account{}, err
	}
	defer secure.Zero(raw)

	address, err := addressFromPrivateKey(raw)
	if err != nil {
		return Account{}, err
	}

	record, err := s.loadRecord()
	if err != nil {
		return Account{}, err
	}
	for _, acc := range record.AccountMetadata {
		if strings.EqualFold(acc.Address, address) {
			return Account{}, aerr.WithDetails(aerr.ErrInvalidPrivateKey, map[string]string{
				"reason": "address already imported",
			})
		}
	}

	blob, err := vaultcrypto.Encrypt(raw, string(s.password.Bytes()))
	if err != nil {
		return Account{}, aerr.Wrap(aerr.ErrStatePersistenceError, "encrypting imported key: %v", err)
	}

	rec := keystore.AccountRecord{Address: address, Derived: false, Label: label, ImportedPK: blob}
	record.AccountMetadata = append(record.AccountMetadata, rec)

	if err := s.keyring.Save(record); err != nil {
		return Account{}, aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}

	key, err := secure.FromSlice(raw)
	if err != nil {
		return Account{}, aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}
	s.importedKeys[address] = key

	return toAccount(rec), nil
}

// DeleteAccount removes address from the wallet's account metadata.
// Derived accounts remain re-derivable from the seed; imported accounts
// lose their encrypted key permanently. Requires unlocked.
func (s *Service) DeleteAccount(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked {
		return aerr.ErrWalletLocked
	}

	record, err := s.loadRecord()
	if err != nil {
		return err
	}

	idx := -1
	for i, acc := range record.AccountMetadata {
		if strings.EqualFold(acc.Address, address) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return aerr.ErrUnknownAccount
	}

	record.AccountMetadata = append(record.AccountMetadata[:idx], record.AccountMetadata[idx+1:]...)
	if err := s.keyring.Save(record); err != nil {
		return aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}

	if key, ok := s.importedKeys[address]; ok {
		key.Destroy()
		delete(s.importedKeys, address)
	}

	return nil
}

// SignerFor returns a one-shot Signer for address. Requires unlocked and
// that address is a known account.
func (s *Service) SignerFor(address string) (*Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked {
		return nil, aerr.ErrWalletLocked
	}

	record, err := s.loadRecord()
	if err != nil {
		return nil, err
	}

	for _, acc := range record.AccountMetadata {
		if !strings.EqualFold(acc.Address, address) {
			continue
		}

		if acc.Derived {
			privKey, err := hdwallet.DerivePrivateKey(s.seed.Bytes(), derivationAccount, acc.Index)
			if err != nil {
				return nil, aerr.Wrap(aerr.ErrKeyDerivationFailed, "%v", err)
			}
			return &Signer{address: acc.Address, privateKey: privKey}, nil
		}

		key, ok := s.importedKeys[acc.Address]
		if !ok {
			return nil, aerr.ErrSignerNotAvailable
		}
		cp := make([]byte, key.Len())
		copy(cp, key.Bytes())
		return &Signer{address: acc.Address, privateKey: cp}, nil
	}

	return nil, aerr.ErrUnknownAccount
}

func (s *Service) loadRecord() (*keystore.WalletRecord, error) {
	record, err := s.keyring.LoadRecord()
	if err != nil {
		if errors.Is(err, keystore.ErrKeyNotFound) {
			return nil, aerr.ErrNoWallet
		}
		return nil, aerr.Wrap(aerr.ErrStatePersistenceError, "%v", err)
	}
	return record, nil
}

func toAccounts(recs []keystore.AccountRecord) []Account {
	out := make([]Account, 0, len(recs))
	for _, r := range recs {
		out = append(out, toAccount(r))
	}
	return out
}

func toAccount(r keystore.AccountRecord) Account {
	return Account{Address: r.Address, Derived: r.Derived, Index: r.Index, Label: r.Label}
}
