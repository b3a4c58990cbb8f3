// Package cryptox seals persisted session records at rest.
//
// A passphrase is stretched into an AES-256 key with argon2id (DeriveKey);
// a Sealer then encrypts each record with AES-GCM using a fresh random nonce
// that is prepended to the ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys produced by DeriveKey.
const KeySize = 32

// ErrShortCiphertext is returned by Open for input shorter than a nonce.
var ErrShortCiphertext = errors.New("ciphertext too short")

// DeriveKey stretches passphrase with argon2id (1 pass, 64 MiB, 4 lanes).
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// Sealer encrypts and authenticates records with AES-GCM.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer from a 16, 24 or 32 byte AES key.
func NewSealer(key []byte) (*Sealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal returns nonce || ciphertext for plaintext.
func (s *Sealer) Seal(plaintext []byte) []byte {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	return s.aead.Seal(nonce, nonce, plaintext, nil)
}

// Open reverses Seal. Tampered or foreign input fails authentication.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrShortCiphertext
	}
	return s.aead.Open(nil, sealed[:n], sealed[n:], nil)
}
