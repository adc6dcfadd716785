package crypto

import (
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// SignatureSize is the length of a serialized Schnorr signature in bytes.
const SignatureSize = 64

// Signer signs 32-byte hashes with a private key using BIP-340 Schnorr.
type Signer interface {
	// Sign produces a Schnorr signature over a 32-byte hash.
	Sign(hash []byte) ([]byte, error)
	// XOnlyPublicKey returns the 32-byte x-only public key.
	XOnlyPublicKey() []byte
}

// Verifier verifies BIP-340 Schnorr signatures.
type Verifier interface {
	// Verify checks a Schnorr signature against a hash and x-only public key.
	Verify(hash, signature, publicKey []byte) bool
}

// VerifySignature checks a BIP-340 Schnorr signature against a 32-byte
// hash and a 32-byte x-only public key. Returns false on any error:
// verification is total and never panics on malformed input.
func VerifySignature(hash, signature, publicKey []byte) bool {
	if len(hash) != 32 {
		return false
	}
	pubKey, err := schnorr.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pubKey)
}

// SchnorrVerifier implements the Verifier interface.
type SchnorrVerifier struct{}

// Verify checks a Schnorr signature against a hash and x-only public key.
func (v SchnorrVerifier) Verify(hash, signature, publicKey []byte) bool {
	return VerifySignature(hash, signature, publicKey)
}
