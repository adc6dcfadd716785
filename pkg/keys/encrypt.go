package keys

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/cygnet-social/cygnet/pkg/crypto"
	"github.com/cygnet-social/cygnet/pkg/types"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Encrypted secret key envelope, rendered through the checksummed text
// codec under the "ncryptsec" prefix.
// Payload: version(1) | salt(32) | memory(4) | iterations(4) | parallelism(1) | nonce(24) | ciphertext
const (
	encryptVersion = 0x01
	saltSize       = 32
	encHeaderSize  = 1 + saltSize + 4 + 4 + 1

	// maxEncMemory bounds the Argon2id memory parameter accepted from a
	// decoded envelope, in KiB (4 GiB).
	maxEncMemory = 4 * 1024 * 1024
)

// EncryptionParams holds Argon2id parameters.
type EncryptionParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultEncryptionParams returns recommended Argon2id parameters.
func DefaultEncryptionParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

// validate bounds the Argon2id parameters. Argon2 panics on zero
// iterations or parallelism, so these are checked wherever parameters
// cross into the KDF.
func (p EncryptionParams) validate() error {
	if p.Iterations == 0 {
		return fmt.Errorf("%w: zero KDF iterations", types.ErrInvalidFormat)
	}
	if p.Parallelism == 0 {
		return fmt.Errorf("%w: zero KDF parallelism", types.ErrInvalidFormat)
	}
	if p.Memory > maxEncMemory {
		return fmt.Errorf("%w: KDF memory %d KiB exceeds limit %d", types.ErrInvalidFormat, p.Memory, maxEncMemory)
	}
	return nil
}

// deriveEncKey uses Argon2id to derive a 32-byte encryption key.
func deriveEncKey(password, salt []byte, params EncryptionParams) []byte {
	return argon2.IDKey(
		password,
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		chacha20poly1305.KeySize,
	)
}

// EncryptSecretKey encrypts a private key under a password using
// Argon2id + XChaCha20-Poly1305 and returns the ncryptsec text form.
func EncryptSecretKey(priv *crypto.PrivateKey, password []byte, params EncryptionParams) (string, error) {
	if err := params.validate(); err != nil {
		return "", err
	}

	sec := priv.Serialize()
	defer crypto.Zeroize(sec)

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := deriveEncKey(password, salt, params)
	defer crypto.Zeroize(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, sec, nil)

	payload := make([]byte, 0, encHeaderSize+len(nonce)+len(ciphertext))
	payload = append(payload, encryptVersion)
	payload = append(payload, salt...)
	payload = binary.LittleEndian.AppendUint32(payload, params.Memory)
	payload = binary.LittleEndian.AppendUint32(payload, params.Iterations)
	payload = append(payload, params.Parallelism)
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)

	return types.Bech32Encode(types.EncryptedKeyHRP, payload)
}

// DecryptSecretKey decodes an ncryptsec string and decrypts it with the
// given password, returning the key pair.
func DecryptSecretKey(s string, password []byte) (*KeyPair, error) {
	hrp, payload, err := types.Bech32Decode(s)
	if err != nil {
		return nil, err
	}
	if hrp != types.EncryptedKeyHRP {
		return nil, fmt.Errorf("%w: prefix %q, want %q", types.ErrInvalidFormat, hrp, types.EncryptedKeyHRP)
	}

	nonceSize := chacha20poly1305.NonceSizeX
	minSize := encHeaderSize + nonceSize + chacha20poly1305.Overhead
	if len(payload) < minSize {
		return nil, fmt.Errorf("%w: payload too short: %d bytes, need at least %d",
			types.ErrInvalidFormat, len(payload), minSize)
	}
	if payload[0] != encryptVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", types.ErrInvalidFormat, payload[0])
	}

	salt := payload[1 : 1+saltSize]
	params := EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(payload[1+saltSize:]),
		Iterations:  binary.LittleEndian.Uint32(payload[1+saltSize+4:]),
		Parallelism: payload[1+saltSize+8],
	}
	// The parameters come from the untrusted envelope. Argon2 panics on
	// zero iterations or parallelism, and an oversized memory value would
	// allocate unbounded from a short string, so bound them here.
	if err := params.validate(); err != nil {
		return nil, err
	}
	nonce := payload[encHeaderSize : encHeaderSize+nonceSize]
	ciphertext := payload[encHeaderSize+nonceSize:]

	key := deriveEncKey(password, salt, params)
	defer crypto.Zeroize(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	sec, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt secret key: %w", err)
	}
	defer crypto.Zeroize(sec)

	priv, err := crypto.PrivateKeyFromBytes(sec)
	if err != nil {
		return nil, err
	}
	return newKeyPair(priv, "")
}
