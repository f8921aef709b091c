// Package crypto seals artifacts at rest with AES-GCM. A nil or unconfigured
// Service passes data through unchanged.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// SealedSuffix marks files written by a configured Service.
const SealedSuffix = ".enc"

var ErrSealedTooShort = errors.New("sealed data too short")

type Service struct {
	key []byte
}

// New accepts a 32-byte key as hex, base64 or raw text. An empty key gives an
// unconfigured service.
func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding")
	}
	return &Service{key: decoded}, nil
}

func (s *Service) Configured() bool {
	return s != nil && len(s.key) == 32
}

// Derive returns a service keyed with an HKDF subkey bound to purpose, so
// artifacts of different kinds never share a key. An unconfigured service
// derives itself.
func (s *Service) Derive(purpose string) (*Service, error) {
	if !s.Configured() {
		return s, nil
	}
	sub := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, s.key, nil, []byte(purpose)), sub); err != nil {
		return nil, err
	}
	return &Service{key: sub}, nil
}

// Seal encrypts plain and binds it to aad; Open only succeeds with the same
// aad.
func (s *Service) Seal(plain, aad []byte) ([]byte, error) {
	if !s.Configured() {
		return plain, nil
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize(), gcm.NonceSize()+len(plain)+gcm.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, aad), nil
}

func (s *Service) Open(sealed, aad []byte) ([]byte, error) {
	if !s.Configured() {
		return sealed, nil
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrSealedTooShort
	}
	nonce, data := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, data, aad)
}

// WriteFile stores plain at path, sealed and with SealedSuffix appended when
// the service is configured. It returns the path written.
func (s *Service) WriteFile(path string, plain, aad []byte) (string, error) {
	data := plain
	if s.Configured() {
		sealed, err := s.Seal(plain, aad)
		if err != nil {
			return "", err
		}
		data = sealed
		path += SealedSuffix
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// ReadFile reverses WriteFile. Files without SealedSuffix are returned as is.
func (s *Service) ReadFile(path string, aad []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, SealedSuffix) {
		return data, nil
	}
	if !s.Configured() {
		return nil, fmt.Errorf("read %s: no data key configured", path)
	}
	return s.Open(data, aad)
}

func (s *Service) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
