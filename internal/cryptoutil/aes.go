// Package cryptoutil provides the symmetric cipher used by the encrypt and
// decrypt operators, plus key-material helpers.
//
// Tokens are AES-GCM: a random nonce is prepended to the sealed ciphertext
// and the whole thing is base64-encoded. Everything needed to reverse the
// operation except the key travels inside the token, so callers can treat
// it as opaque. Decryption fails deterministically: a corrupted token or a
// wrong key produces an error, never garbage plaintext.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidKeySize is returned when a key is not 16, 24 or 32 bytes
	// (AES-128/192/256).
	ErrInvalidKeySize = errors.New("invalid key size")
	// ErrMalformedToken is returned when a token is not valid base64 or is
	// too short to contain a nonce.
	ErrMalformedToken = errors.New("malformed token")
	// ErrDecryptionFailed is returned when GCM authentication fails, which
	// covers both a tampered token and a key that does not match the one
	// used to produce it.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// IsValidKeySize reports whether key has an admitted AES key length.
// Byte length is the sole check; no entropy or strength validation.
func IsValidKeySize(key []byte) bool {
	switch len(key) {
	case 16, 24, 32:
		return true
	}
	return false
}

// Encrypt seals plaintext with AES-GCM under key and returns the token:
// base64(nonce || ciphertext). The nonce is freshly random per call, so
// encrypting the same plaintext twice yields different tokens.
func Encrypt(key []byte, plaintext string) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It returns ErrMalformedToken when the token
// cannot be decoded and ErrDecryptionFailed when authentication fails.
func Decrypt(key []byte, token string) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("decoding token: %w", ErrMalformedToken)
	}
	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("token shorter than nonce: %w", ErrMalformedToken)
	}

	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if !IsValidKeySize(key) {
		return nil, fmt.Errorf("key must be 16, 24 or 32 bytes, got %d: %w", len(key), ErrInvalidKeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return gcm, nil
}
