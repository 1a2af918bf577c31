// Package vault seals data with a password: AES-256-GCM under a
// PBKDF2-HMAC-SHA256 derived key. A sealed blob is salt(16) || nonce(12) ||
// ciphertext+tag.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize          = 16
	NonceSize         = 12
	KeySize           = 32
	DefaultIterations = 600_000
)

// ErrAuthentication is returned when a blob cannot be opened: wrong
// password, tampering or truncation.
var ErrAuthentication = errors.New("vault: authentication failed")

// Vault seals and opens blobs.
type Vault struct {
	iterations int
}

// Option configures a Vault.
type Option func(*Vault)

// WithIterations sets the PBKDF2 iteration count. Blobs only open with the
// count they were sealed with.
func WithIterations(n int) Option {
	return func(v *Vault) {
		if n > 0 {
			v.iterations = n
		}
	}
}

// New creates a Vault.
func New(opts ...Option) *Vault {
	v := &Vault{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultVault = New()

// Seal encrypts plaintext with the default iteration count.
func Seal(plaintext []byte, password string) ([]byte, error) {
	return defaultVault.Seal(plaintext, password)
}

// Open decrypts a blob sealed with the default iteration count.
func Open(blob []byte, password string) ([]byte, error) {
	return defaultVault.Open(blob, password)
}

// Seal encrypts plaintext under a fresh random salt and nonce.
func (v *Vault) Seal(plaintext []byte, password string) ([]byte, error) {
	header := make([]byte, SaltSize+NonceSize)
	if _, err := rand.Read(header); err != nil {
		return nil, fmt.Errorf("generate salt and nonce: %w", err)
	}
	salt, nonce := header[:SaltSize], header[SaltSize:]

	gcm, err := v.aead(password, salt)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(header, nonce, plaintext, nil), nil
}

// Open decrypts blob. Any failure to authenticate returns ErrAuthentication.
func (v *Vault) Open(blob []byte, password string) ([]byte, error) {
	if len(blob) < SaltSize+NonceSize+16 {
		return nil, fmt.Errorf("%w: blob too short (%d bytes)", ErrAuthentication, len(blob))
	}
	salt := blob[:SaltSize]
	nonce := blob[SaltSize : SaltSize+NonceSize]

	gcm, err := v.aead(password, salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, blob[SaltSize+NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

func (v *Vault) aead(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, v.iterations, KeySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
