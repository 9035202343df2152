// Package secret provides passphrase-based authenticated encryption for
// credential material kept on disk.
package secret

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Argon2id cost parameters.
//
// @ref https://cheatsheetseries.owasp.org/cheatsheets/Password_Storage_Cheat_Sheet.html
const (
	argonIterations  = 3
	argonMemory      = 64 * 1024 // KiB
	argonParallelism = 2

	SaltLength = 16
)

var (
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrPassphraseRequired = errors.New("passphrase must not be empty")
)

// Box seals and opens byte blobs with XChaCha20-Poly1305 under a key
// derived from a passphrase and a per-store salt.
type Box struct {
	key []byte
}

// NewBox derives the AEAD key from the passphrase and salt. The salt is
// expected to be stable for the lifetime of the store it protects.
func NewBox(passphrase string, salt []byte) (*Box, error) {
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	key := argon2.IDKey(
		[]byte(passphrase),
		salt,
		argonIterations,
		argonMemory,
		argonParallelism,
		chacha20poly1305.KeySize,
	)
	return &Box{key: key}, nil
}

// NewSalt returns a fresh random salt for a new store.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Seal encrypts plaintext. The random nonce is prepended to the result.
func (b *Box) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal.
func (b *Box) Open(blob []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, err
	}
	if len(blob) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}
