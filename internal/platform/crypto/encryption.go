package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const sealedPrefix = "v1:"

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Sealer encrypts persisted documents with AES-GCM. Sealed values are text
// ("v1:" + base64(nonce|ciphertext)) so they fit TEXT columns and JSON files.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer returns a Sealer for key (hex, base64 or 32 raw bytes). An empty
// key yields a nil Sealer, which callers treat as "encryption disabled".
func NewSealer(key string) (*Sealer, error) {
	if key == "" {
		return nil, nil
	}
	decoded, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
	}
	block, err := aes.NewCipher(decoded)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	sealed := s.aead.Seal(nonce, nonce, plain, nil)
	return []byte(sealedPrefix + base64.StdEncoding.EncodeToString(sealed)), nil
}

// Open reverses Seal. Values written before encryption was enabled carry no
// prefix and are returned unchanged.
func (s *Sealer) Open(value []byte) ([]byte, error) {
	text := string(value)
	if !strings.HasPrefix(text, sealedPrefix) {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(text, sealedPrefix))
	if err != nil {
		return nil, fmt.Errorf("decode sealed value: %w", err)
	}
	if len(raw) < s.aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, data := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	return s.aead.Open(nil, nonce, data, nil)
}

func decodeKey(raw string) ([]byte, error) {
	if len(raw) == 64 {
		decoded, err := hex.DecodeString(raw)
		if err == nil {
			return decoded, nil
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded, nil
	}
	return []byte(raw), nil
}
