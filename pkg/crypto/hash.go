// Package crypto provides cryptographic primitives for Cygnet: SHA-256
// digests for event identifiers and BIP-340 Schnorr signatures over
// secp256k1.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/cygnet-social/cygnet/pkg/types"
	"github.com/zeebo/blake3"
)

// Digest computes the SHA-256 hash of the input data. This is the digest
// used for event identifiers and signed payloads on the wire.
func Digest(data []byte) types.Hash {
	return sha256.Sum256(data)
}

// DigestText computes the SHA-256 hash of a free-text message.
func DigestText(message string) types.Hash {
	return Digest([]byte(message))
}

// Fingerprint returns a short BLAKE3-based tag for the given bytes,
// suitable for identifying keys in logs without exposing the full value.
// Never used on the wire.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
