// Package crypto encrypts provider API keys at rest. Ciphertext is stored as
// a versioned envelope so the scheme can rotate without a migration.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	envelopeVersion = 1
	algorithmID     = "aes-256-gcm"
	masterKeyBytes  = 32
	nonceBytes      = 12
	tagBytes        = 16
)

var (
	ErrInvalidMasterKey = errors.New("master key must be 32 bytes, base64 encoded")
	ErrInvalidEnvelope  = errors.New("invalid ciphertext envelope")
	// ErrDecryptionFailed covers tag verification failures: tampered
	// ciphertext or a wrong master key. Never degraded to an empty string.
	ErrDecryptionFailed = errors.New("decryption failed")
)

type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) (string, error)
}

// envelope is the JSON structure wrapped in one outer base64 blob.
type envelope struct {
	Version int    `json:"v"`
	Alg     string `json:"alg"`
	IV      string `json:"iv"`
	Tag     string `json:"tag"`
	CT      string `json:"ct"`
	KeyID   string `json:"key_id"`
}

type aesGCMCipher struct {
	aead  cipher.AEAD
	keyID string
}

// NewCipher builds a Cipher from a base64-encoded 32-byte master key.
func NewCipher(masterKeyB64 string) (Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(masterKeyB64)
	if err != nil || len(key) != masterKeyBytes {
		return nil, ErrInvalidMasterKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	// Key fingerprint, not the key. Lets operators tell which master key
	// produced a given row after a rotation.
	sum := sha256.Sum256(key)

	return &aesGCMCipher{
		aead:  aead,
		keyID: hex.EncodeToString(sum[:4]),
	}, nil
}

func (c *aesGCMCipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, nonceBytes)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	ct := sealed[:len(sealed)-tagBytes]
	tag := sealed[len(sealed)-tagBytes:]

	env := envelope{
		Version: envelopeVersion,
		Alg:     algorithmID,
		IV:      base64.StdEncoding.EncodeToString(iv),
		Tag:     base64.StdEncoding.EncodeToString(tag),
		CT:      base64.StdEncoding.EncodeToString(ct),
		KeyID:   c.keyID,
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func (c *aesGCMCipher) Decrypt(blob string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrInvalidEnvelope
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", ErrInvalidEnvelope
	}
	if env.Version != envelopeVersion || env.Alg != algorithmID {
		return "", fmt.Errorf("%w: unsupported version or algorithm", ErrInvalidEnvelope)
	}

	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil || len(iv) != nonceBytes {
		return "", ErrInvalidEnvelope
	}
	tag, err := base64.StdEncoding.DecodeString(env.Tag)
	if err != nil || len(tag) != tagBytes {
		return "", ErrInvalidEnvelope
	}
	ct, err := base64.StdEncoding.DecodeString(env.CT)
	if err != nil {
		return "", ErrInvalidEnvelope
	}

	plaintext, err := c.aead.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}
