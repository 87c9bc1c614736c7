// Copyright (c) 2026 Tabletop Tracker. All rights reserved.

package sec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// # PII Encryption

// CodecKeyLength is the required key size in bytes (AES-256).
const CodecKeyLength = 32

// ErrDecryption is returned when a ciphertext blob is malformed, truncated,
// tampered with, or encrypted under a different key. GCM authenticates the
// ciphertext, so decryption either yields the exact original plaintext or
// this error, never silent garbage.
var ErrDecryption = errors.New("sec: decryption failed")

// Codec performs reversible, authenticated encryption of PII fields (email)
// using AES-256-GCM.
//
// # Blob Format
//
// Encrypt returns base64(nonce || ciphertext || tag) as a single opaque
// string. The random nonce is generated per call, so encrypting the same
// plaintext twice yields different blobs; callers store one value and need
// no separate IV column. Equality lookups must therefore go through
// [Fingerprint], never through the ciphertext.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec constructs a Codec from a 32-byte symmetric key.
//
// The key comes from process configuration at startup and is never derived
// from user input. A missing or wrong-length key is a fatal
// misconfiguration surfaced here, before the server accepts traffic.
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != CodecKeyLength {
		return nil, fmt.Errorf("sec: encryption key must be %d bytes, got %d", CodecKeyLength, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to initialize cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to initialize GCM: %w", err)
	}

	return &Codec{aead: aead}, nil
}

// Encrypt encrypts the plaintext and returns a self-contained base64 blob.
func (codec *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, codec.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("sec: failed to generate nonce: %w", err)
	}

	// Seal appends the ciphertext and auth tag after the nonce prefix.
	sealed := codec.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses [Codec.Encrypt].
//
// Any corruption (bad base64, truncated blob, flipped ciphertext bit, or a
// blob produced under another key) fails with [ErrDecryption].
func (codec *Codec) Decrypt(blob string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrDecryption
	}

	nonceSize := codec.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", ErrDecryption
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := codec.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryption
	}

	return string(plaintext), nil
}

// # Identity Fingerprinting

// Fingerprint returns a deterministic one-way digest of an email address.
//
// Because [Codec.Encrypt] is randomized, equal plaintexts never produce
// equal ciphertexts; uniqueness and lookups are enforced on this digest
// instead. The address is normalized (trimmed, lowercased) first so that
// "Alice@X.com" and "alice@x.com " collide as the same identity.
func Fingerprint(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	digest := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(digest[:])
}

// # Opaque Tokens

// GenerateSecureToken returns a cryptographically random hex string of
// byteLength random bytes. Used for single-use verification tokens.
func GenerateSecureToken(byteLength int) (string, error) {
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
