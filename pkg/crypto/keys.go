package crypto

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Key size constants, in bytes.
const (
	PrivateKeySize     = 32
	PublicKeySize      = 33 // compressed, sign-prefixed
	XOnlyPublicKeySize = 32
)

// ErrInvalidPrivateKey is returned for a scalar that is zero or not below
// the secp256k1 group order.
var ErrInvalidPrivateKey = errors.New("invalid private key")

// PrivateKey wraps a secp256k1 private scalar for Schnorr signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GeneratePrivateKey creates a new random secp256k1 private key from the
// system CSPRNG.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte big-endian
// scalar. The zero scalar and values >= the group order are rejected.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeySize, len(b))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow {
		return nil, fmt.Errorf("%w: scalar out of range", ErrInvalidPrivateKey)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidPrivateKey)
	}
	key := secp256k1.NewPrivateKey(&scalar)
	scalar.Zero()
	return &PrivateKey{key: key}, nil
}

// Sign produces a 64-byte BIP-340 Schnorr signature over a 32-byte hash.
func (pk *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be 32 bytes, got %d", len(hash))
	}
	sig, err := schnorr.Sign(pk.key, hash)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// XOnlyPublicKey returns the 32-byte x-only public key used by the
// signature scheme. Equal to the trailing 32 bytes of PublicKey().
func (pk *PrivateKey) XOnlyPublicKey() []byte {
	return schnorr.SerializePubKey(pk.key.PubKey())
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero overwrites the private key material. The key must not be used
// afterwards.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// Zeroize overwrites a sensitive byte buffer with zeros.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
