package event

import (
	"encoding/hex"
	"fmt"

	"github.com/cygnet-social/cygnet/pkg/crypto"
)

// Sign computes the event ID, signs it, and fills the PubKey, ID, and Sig
// fields. The signing key is authoritative: any pre-set PubKey is
// overwritten.
func (e *Event) Sign(priv *crypto.PrivateKey) error {
	e.PubKey = hex.EncodeToString(priv.XOnlyPublicKey())
	id := e.ComputeID()
	sig, err := priv.Sign(id[:])
	if err != nil {
		return fmt.Errorf("sign event: %w", err)
	}
	e.ID = id.String()
	e.Sig = hex.EncodeToString(sig)
	return nil
}

// Verify checks a signed event. Field shapes are checked first, then the
// stored ID is compared against the recomputed hash (tampering surfaces
// as ErrHashMismatch without touching the signature), and only then is
// the Schnorr signature verified. A nil return means the event is valid.
func (e *Event) Verify() error {
	if err := e.ValidateStructure(); err != nil {
		return err
	}

	id := e.ComputeID()
	if e.ID != id.String() {
		return fmt.Errorf("%w: stored %s, computed %s", ErrHashMismatch, e.ID, id)
	}

	// Shapes were validated above, so these decodes cannot fail.
	sig, _ := hex.DecodeString(e.Sig)
	pub, _ := hex.DecodeString(e.PubKey)
	if !crypto.VerifySignature(id[:], sig, pub) {
		return ErrInvalidSignature
	}
	return nil
}

// SignText signs an arbitrary free-text message, independent of the event
// structure. Returns the signature as 128 hex characters.
func SignText(message string, priv *crypto.PrivateKey) (string, error) {
	digest := crypto.DigestText(message)
	sig, err := priv.Sign(digest[:])
	if err != nil {
		return "", fmt.Errorf("sign text: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// VerifyText checks a free-text signature produced by SignText against an
// x-only public key, both hex encoded. A nil return means it verifies.
func VerifyText(message, sigHex, pubHex string) error {
	if !isLowerHex(sigHex, 128) {
		return fmt.Errorf("%w: sig must be 128 lowercase hex characters", ErrStructural)
	}
	if !isLowerHex(pubHex, 64) {
		return fmt.Errorf("%w: pubkey must be 64 lowercase hex characters", ErrStructural)
	}
	sig, _ := hex.DecodeString(sigHex)
	pub, _ := hex.DecodeString(pubHex)
	digest := crypto.DigestText(message)
	if !crypto.VerifySignature(digest[:], sig, pub) {
		return ErrInvalidSignature
	}
	return nil
}
