package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"github.com/aurumlabs/aurum-core/internal/fileutil"
	"github.com/aurumlabs/aurum-core/internal/keystore"
)

// Extension is the file extension used for backup files.
const Extension = ".aurumbackup"

// DirPermissions and FilePermissions are the modes used for the backup
// directory and backup files respectively.
const (
	DirPermissions  = 0o750
	FilePermissions = 0o600
)

// Service implements the command surface's export_wallet_backup /
// import_wallet_backup operations. It is deliberately ignorant of the
// wallet password: the WalletRecord it exports and restores is the
// same opaque, password-encrypted blob internal/keystore already
// persists, so a backup file is only ever as strong as the combination
// of the wallet password (decrypts the record's contents) and the
// separate export password (decrypts the backup file itself).
//
// Grounded on the teacher's internal/backup/backup.go, re-wired from
// its own sigilcrypto/wallet.Storage facade directly onto
// filippo.io/age (the teacher's age.Encrypt/age.Decrypt call shape)
// and internal/keystore.
type Service struct {
	backupDir string
	keyring   *keystore.Keyring
}

// NewService creates a backup service writing/reading files under
// backupDir.
func NewService(backupDir string, kr *keystore.Keyring) *Service {
	return &Service{backupDir: backupDir, keyring: kr}
}

// Create exports the current wallet record to a new backup file in
// backupDir, encrypted under exportPassword (which is independent of
// the wallet's own unlock password). Returns the written file's path.
func (s *Service) Create(exportPassword string) (string, error) {
	record, err := s.keyring.LoadRecord()
	if err != nil {
		return "", fmt.Errorf("backup: loading wallet record: %w", err)
	}

	plaintext, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("backup: encoding wallet record: %w", err)
	}

	encrypted, err := ageEncrypt(plaintext, exportPassword)
	if err != nil {
		return "", fmt.Errorf("backup: encrypting backup: %w", err)
	}

	file := NewFile(NewManifest(len(record.AccountMetadata)), encrypted)
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup: encoding backup file: %w", err)
	}

	path := s.Path(fmt.Sprintf("wallet-%s%s", file.Manifest.CreatedAt.Format("20060102-150405"), Extension))
	if err := os.MkdirAll(s.backupDir, DirPermissions); err != nil {
		return "", fmt.Errorf("backup: creating backup directory: %w", err)
	}
	if err := fileutil.WriteAtomic(path, data, FilePermissions); err != nil {
		return "", fmt.Errorf("backup: writing backup file: %w", err)
	}

	return path, nil
}

// Inspect reads a backup file's manifest without decrypting its
// payload, so the UI can show "backup from <date>, N accounts" before
// asking for the export password.
func (s *Service) Inspect(path string) (*Manifest, error) {
	file, err := s.readFile(path)
	if err != nil {
		return nil, err
	}
	return &file.Manifest, nil
}

// Restore decrypts the backup file at path under exportPassword and
// re-persists its WalletRecord through the keyring, overwriting any
// existing wallet record. The restored record is still encrypted
// under whatever wallet password was active when the backup was
// taken — Restore does not change it; the caller unlocks with that
// original password afterward.
func (s *Service) Restore(path, exportPassword string) (*keystore.WalletRecord, error) {
	file, err := s.readFile(path)
	if err != nil {
		return nil, err
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}

	plaintext, err := ageDecrypt(file.EncryptedData, exportPassword)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	var record keystore.WalletRecord
	if err := json.Unmarshal(plaintext, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if err := s.keyring.Save(&record); err != nil {
		return nil, fmt.Errorf("backup: persisting restored wallet record: %w", err)
	}

	return &record, nil
}

// List returns the backup files present in backupDir, most recently
// created first (filenames embed a sortable timestamp).
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("backup: listing backup directory: %w", err)
	}

	var names []string
	for i := len(entries) - 1; i >= 0; i-- {
		name := entries[i].Name()
		if filepath.Ext(name) == Extension {
			names = append(names, name)
		}
	}
	return names, nil
}

// Path joins filename onto the backup directory.
func (s *Service) Path(filename string) string {
	return filepath.Join(s.backupDir, filename)
}

func (s *Service) readFile(path string) (*File, error) {
	// #nosec G304 -- path is operator-supplied, not page-supplied
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBackupNotFound
		}
		return nil, fmt.Errorf("backup: reading backup file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &file, nil
}

func ageEncrypt(plaintext []byte, password string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ageDecrypt(ciphertext []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, err
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
