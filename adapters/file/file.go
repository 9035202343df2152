// Package file provides an encrypted on-disk KeyValueStore for a single
// user's credential and snapshot data.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okabrera/medbill/core"
	"github.com/okabrera/medbill/pkg/secret"
)

const saltFile = ".salt"

// Store keeps each key in its own file under dir, sealed with a
// passphrase-derived key. The salt lives next to the data; the
// passphrase never touches disk.
type Store struct {
	dir string
	box *secret.Box
}

var _ core.KeyValueStore = (*Store)(nil)

// New opens the store at dir, creating it (and its salt) on first use.
func New(dir, passphrase string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	salt, err := loadOrCreateSalt(filepath.Join(dir, saltFile))
	if err != nil {
		return nil, err
	}
	box, err := secret.NewBox(passphrase, salt)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, box: box}, nil
}

func loadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil && len(salt) == secret.SaltLength {
		return salt, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	salt, err = secret.NewSalt()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write salt: %w", err)
	}
	return salt, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".bin")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	plaintext, err := s.box.Open(blob)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", key, err)
	}
	return plaintext, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := s.box.Seal(value)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", key, err)
	}
	if err := os.WriteFile(s.path(key), sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
