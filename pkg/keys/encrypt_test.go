package keys

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/cygnet-social/cygnet/pkg/types"
	"golang.org/x/crypto/chacha20poly1305"
)

// testEncryptionParams keeps Argon2id cheap in tests.
func testEncryptionParams() EncryptionParams {
	return EncryptionParams{Memory: 1024, Iterations: 1, Parallelism: 1}
}

func TestEncryptSecretKey_Roundtrip(t *testing.T) {
	kp, err := FromPrivateKeyHex(fixtureSecHex)
	if err != nil {
		t.Fatalf("FromPrivateKeyHex() error: %v", err)
	}

	encrypted, err := EncryptSecretKey(kp.PrivateKey(), []byte("correct horse"), testEncryptionParams())
	if err != nil {
		t.Fatalf("EncryptSecretKey() error: %v", err)
	}
	if !strings.HasPrefix(encrypted, types.EncryptedKeyHRP+"1") {
		t.Errorf("encrypted form %q should start with %q", encrypted, types.EncryptedKeyHRP+"1")
	}

	back, err := DecryptSecretKey(encrypted, []byte("correct horse"))
	if err != nil {
		t.Fatalf("DecryptSecretKey() error: %v", err)
	}
	if !bytes.Equal(back.PrivateKey().Serialize(), kp.PrivateKey().Serialize()) {
		t.Error("decrypted key should match the original")
	}
}

func TestEncryptSecretKey_FreshSaltPerCall(t *testing.T) {
	kp, err := FromPrivateKeyHex(fixtureSecHex)
	if err != nil {
		t.Fatalf("FromPrivateKeyHex() error: %v", err)
	}

	e1, err := EncryptSecretKey(kp.PrivateKey(), []byte("pw"), testEncryptionParams())
	if err != nil {
		t.Fatalf("EncryptSecretKey() error: %v", err)
	}
	e2, err := EncryptSecretKey(kp.PrivateKey(), []byte("pw"), testEncryptionParams())
	if err != nil {
		t.Fatalf("EncryptSecretKey() error: %v", err)
	}
	if e1 == e2 {
		t.Error("two encryptions should not produce identical envelopes")
	}
}

func TestDecryptSecretKey_WrongPassword(t *testing.T) {
	kp, err := FromPrivateKeyHex(fixtureSecHex)
	if err != nil {
		t.Fatalf("FromPrivateKeyHex() error: %v", err)
	}
	encrypted, err := EncryptSecretKey(kp.PrivateKey(), []byte("right"), testEncryptionParams())
	if err != nil {
		t.Fatalf("EncryptSecretKey() error: %v", err)
	}

	if _, err := DecryptSecretKey(encrypted, []byte("wrong")); err == nil {
		t.Error("wrong password should fail")
	}
}

// craftedEnvelope builds a checksum-valid ncryptsec string carrying
// arbitrary KDF parameters and a dummy nonce/ciphertext.
func craftedEnvelope(t *testing.T, memory, iterations uint32, parallelism uint8) string {
	t.Helper()
	payload := []byte{0x01}
	payload = append(payload, make([]byte, 32)...) // salt
	payload = binary.LittleEndian.AppendUint32(payload, memory)
	payload = binary.LittleEndian.AppendUint32(payload, iterations)
	payload = append(payload, parallelism)
	payload = append(payload, make([]byte, chacha20poly1305.NonceSizeX)...)
	payload = append(payload, make([]byte, 32+chacha20poly1305.Overhead)...)

	s, err := types.Bech32Encode(types.EncryptedKeyHRP, payload)
	if err != nil {
		t.Fatalf("Bech32Encode() error: %v", err)
	}
	return s
}

func TestDecryptSecretKey_CraftedParams(t *testing.T) {
	tests := []struct {
		name        string
		memory      uint32
		iterations  uint32
		parallelism uint8
	}{
		{"all zero", 0, 0, 0},
		{"zero iterations", 1024, 0, 1},
		{"zero parallelism", 1024, 1, 0},
		{"oversized memory", 1 << 31, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := craftedEnvelope(t, tt.memory, tt.iterations, tt.parallelism)
			_, err := DecryptSecretKey(s, []byte("pw"))
			if !errors.Is(err, types.ErrInvalidFormat) {
				t.Errorf("err = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestEncryptSecretKey_InvalidParams(t *testing.T) {
	kp, err := FromPrivateKeyHex(fixtureSecHex)
	if err != nil {
		t.Fatalf("FromPrivateKeyHex() error: %v", err)
	}

	bad := EncryptionParams{Memory: 1024, Iterations: 0, Parallelism: 1}
	if _, err := EncryptSecretKey(kp.PrivateKey(), []byte("pw"), bad); !errors.Is(err, types.ErrInvalidFormat) {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestDecryptSecretKey_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong prefix", fixtureNsec},
		{"not bech32", "ncryptsec1!!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecryptSecretKey(tt.input, []byte("pw")); err == nil {
				t.Error("expected error")
			}
		})
	}
}
