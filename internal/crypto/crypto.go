// Package crypto protects the Pennant Chase login credentials at rest.
//
// A credentials blob is a JSON object with "username" and "password"
// fields. Sealed blobs hold each value as base64 AES-GCM ciphertext under a
// PBKDF2-derived key; plaintext blobs hold the values as is.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	iterations = 100000
	keySize    = 32 // AES-256
	nonceSize  = 12
	tagSize    = 16
)

var (
	// ErrWrongKey means a sealed value did not authenticate under the key.
	ErrWrongKey = errors.New("credentials do not decrypt with this key")
	// ErrNoKey means the blob is sealed but no passphrase was configured.
	ErrNoKey = errors.New("credentials are sealed but no key is configured")
)

// Credentials are the site login
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) validate() error {
	if c.Username == "" || c.Password == "" {
		return errors.New("credentials must include username and password")
	}
	return nil
}

// Sealer seals and opens credentials blobs. A nil Sealer has no key.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the blob key from passphrase. An empty passphrase
// yields nil.
func NewSealer(passphrase string) *Sealer {
	if passphrase == "" {
		return nil
	}

	// The blob has nowhere to carry a salt, so it is derived from the passphrase
	salt := sha256.Sum256([]byte(passphrase + "pc-boxscores-salt"))
	key := pbkdf2.Key([]byte(passphrase), salt[:], iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		panic(fmt.Sprintf("crypto: %v", err)) // keySize is always valid
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		panic(fmt.Sprintf("crypto: %v", err))
	}
	return &Sealer{aead: aead}
}

func (s *Sealer) seal(value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *Sealer) open(value string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decoding sealed value: %w", err)
	}
	n := s.aead.NonceSize()
	if len(data) < n+s.aead.Overhead() {
		return "", errors.New("sealed value too short")
	}
	plain, err := s.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", ErrWrongKey
	}
	return string(plain), nil
}

// looksSealed reports whether v could be a value written by seal.
func looksSealed(v string) bool {
	data, err := base64.StdEncoding.DecodeString(v)
	return err == nil && len(data) > nonceSize+tagSize
}

// SealCredentials encodes c as a JSON blob with encrypted values.
func (s *Sealer) SealCredentials(c Credentials) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoKey
	}

	user, err := s.seal(c.Username)
	if err != nil {
		return nil, fmt.Errorf("encrypting credentials: %w", err)
	}
	pass, err := s.seal(c.Password)
	if err != nil {
		return nil, fmt.Errorf("encrypting credentials: %w", err)
	}
	return json.MarshalIndent(Credentials{Username: user, Password: pass}, "", "  ")
}

// OpenCredentials decodes a blob written by SealCredentials or a plaintext
// blob.
//
// With a key, a blob in which neither value looks sealed is read as
// plaintext; otherwise both values must decrypt. Without a key, a blob in
// which both values look sealed is rejected with ErrNoKey.
func (s *Sealer) OpenCredentials(blob []byte) (Credentials, error) {
	var raw Credentials
	if err := json.Unmarshal(blob, &raw); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials: %w", err)
	}
	if err := raw.validate(); err != nil {
		return Credentials{}, err
	}

	userSealed, passSealed := looksSealed(raw.Username), looksSealed(raw.Password)
	if s == nil {
		if userSealed && passSealed {
			return Credentials{}, ErrNoKey
		}
		return raw, nil
	}
	if !userSealed && !passSealed {
		return raw, nil
	}

	var c Credentials
	var err error
	if c.Username, err = s.open(raw.Username); err != nil {
		return Credentials{}, fmt.Errorf("decrypting username: %w", err)
	}
	if c.Password, err = s.open(raw.Password); err != nil {
		return Credentials{}, fmt.Errorf("decrypting password: %w", err)
	}
	if err := c.validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}
