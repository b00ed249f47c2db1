package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
)

func newTestKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestRoundTrip(t *testing.T) {
	c, err := NewCipher(newTestKey(t))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	for _, plaintext := range []string{"sk-abc123", "", "key with spaces and üñïçødé"} {
		blob, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", plaintext, err)
		}
		got, err := c.Decrypt(blob)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if got != plaintext {
			t.Errorf("round trip = %q, want %q", got, plaintext)
		}
	}
}

func TestEnvelopeShape(t *testing.T) {
	c, _ := NewCipher(newTestKey(t))
	blob, err := c.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("outer blob is not base64: %v", err)
	}

	var env map[string]interface{}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("envelope is not JSON: %v", err)
	}
	for _, field := range []string{"v", "alg", "iv", "tag", "ct", "key_id"} {
		if _, ok := env[field]; !ok {
			t.Errorf("envelope missing field %q", field)
		}
	}
	if env["alg"] != "aes-256-gcm" {
		t.Errorf("alg = %v, want aes-256-gcm", env["alg"])
	}
}

func TestTamperedCiphertextFails(t *testing.T) {
	c, _ := NewCipher(newTestKey(t))
	blob, _ := c.Encrypt("secret")

	raw, _ := base64.StdEncoding.DecodeString(blob)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatal(err)
	}

	ct, _ := base64.StdEncoding.DecodeString(env.CT)
	if len(ct) == 0 {
		t.Fatal("empty ciphertext")
	}
	ct[0] ^= 0xff
	env.CT = base64.StdEncoding.EncodeToString(ct)
	tampered, _ := json.Marshal(env)

	_, err := c.Decrypt(base64.StdEncoding.EncodeToString(tampered))
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("tampered ciphertext: err = %v, want ErrDecryptionFailed", err)
	}
}

func TestWrongKeyFails(t *testing.T) {
	c1, _ := NewCipher(newTestKey(t))
	c2, _ := NewCipher(newTestKey(t))

	blob, _ := c1.Encrypt("secret")
	_, err := c2.Decrypt(blob)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("wrong key: err = %v, want ErrDecryptionFailed", err)
	}
}

func TestInvalidEnvelope(t *testing.T) {
	c, _ := NewCipher(newTestKey(t))

	tests := []struct {
		name string
		blob string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"not json", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"wrong version", base64.StdEncoding.EncodeToString([]byte(`{"v":9,"alg":"aes-256-gcm","iv":"","tag":"","ct":""}`))},
		{"wrong alg", base64.StdEncoding.EncodeToString([]byte(`{"v":1,"alg":"rot13","iv":"","tag":"","ct":""}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decrypt(tt.blob)
			if err == nil {
				t.Fatal("expected error")
			}
			if got != "" {
				t.Errorf("failed decrypt returned non-empty plaintext %q", got)
			}
		})
	}
}

func TestMasterKeyValidation(t *testing.T) {
	if _, err := NewCipher("short"); !errors.Is(err, ErrInvalidMasterKey) {
		t.Errorf("short key: err = %v, want ErrInvalidMasterKey", err)
	}
	if _, err := NewCipher(base64.StdEncoding.EncodeToString(make([]byte, 16))); !errors.Is(err, ErrInvalidMasterKey) {
		t.Error("16-byte key should be rejected")
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	c, _ := NewCipher(newTestKey(t))
	a, _ := c.Encrypt("secret")
	b, _ := c.Encrypt("secret")
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical envelopes (iv reuse?)")
	}
}
