package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cygnet-social/cygnet/pkg/crypto"
	"github.com/cygnet-social/cygnet/pkg/types"
)

// KeyPair holds a private scalar together with every projection of its
// public key and the checksummed text forms. Constructed atomically and
// immutable afterwards.
type KeyPair struct {
	priv     *crypto.PrivateKey
	pubComp  []byte // 33-byte compressed
	pubX     []byte // 32-byte x-only
	npub     string
	nsec     string
	mnemonic string // empty when built from a raw scalar
}

// PrivateKeyFromEntropy derives a private key from raw entropy bytes by
// hashing them to scalar width. Validity of the resulting scalar is
// checked at the curve boundary.
func PrivateKeyFromEntropy(entropy []byte) (*crypto.PrivateKey, error) {
	if len(entropy) < 16 || len(entropy) > 32 || len(entropy)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidEntropyLength, len(entropy))
	}
	sum := sha256.Sum256(entropy)
	priv, err := crypto.PrivateKeyFromBytes(sum[:])
	crypto.Zeroize(sum[:])
	if err != nil {
		return nil, err
	}
	return priv, nil
}

// Generate creates a fresh identity: a new 12-word mnemonic and the key
// pair derived from it.
func Generate() (*KeyPair, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, err
	}
	return FromMnemonic(mnemonic)
}

// FromMnemonic derives a key pair from a seed phrase. The intermediate
// entropy buffer is zeroed on every exit path.
func FromMnemonic(mnemonic string) (*KeyPair, error) {
	entropy, err := EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(entropy)

	priv, err := PrivateKeyFromEntropy(entropy)
	if err != nil {
		return nil, err
	}
	return newKeyPair(priv, mnemonic)
}

// FromPrivateKeyHex builds a key pair from a 64-character hex scalar.
// The originating mnemonic is unknown on this path.
func FromPrivateKeyHex(s string) (*KeyPair, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad hex: %v", crypto.ErrInvalidPrivateKey, err)
	}
	defer crypto.Zeroize(b)

	priv, err := crypto.PrivateKeyFromBytes(b)
	if err != nil {
		return nil, err
	}
	return newKeyPair(priv, "")
}

// FromSecretKeyString builds a key pair from an nsec text form.
func FromSecretKeyString(s string) (*KeyPair, error) {
	b, err := types.DecodeSecretKey(s)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(b)

	priv, err := crypto.PrivateKeyFromBytes(b)
	if err != nil {
		return nil, err
	}
	return newKeyPair(priv, "")
}

// newKeyPair assembles every projection from the private key. On any
// failure the private key is zeroed before returning so no partial
// sensitive material escapes.
func newKeyPair(priv *crypto.PrivateKey, mnemonic string) (*KeyPair, error) {
	sec := priv.Serialize()
	defer crypto.Zeroize(sec)

	nsec, err := types.EncodeSecretKey(sec)
	if err != nil {
		priv.Zero()
		return nil, err
	}
	pubX := priv.XOnlyPublicKey()
	npub, err := types.EncodePublicKey(pubX)
	if err != nil {
		priv.Zero()
		return nil, err
	}
	return &KeyPair{
		priv:     priv,
		pubComp:  priv.PublicKey(),
		pubX:     pubX,
		npub:     npub,
		nsec:     nsec,
		mnemonic: mnemonic,
	}, nil
}

// PrivateKey returns the signing key.
func (kp *KeyPair) PrivateKey() *crypto.PrivateKey {
	return kp.priv
}

// PublicKey returns a copy of the compressed 33-byte public key.
func (kp *KeyPair) PublicKey() []byte {
	b := make([]byte, len(kp.pubComp))
	copy(b, kp.pubComp)
	return b
}

// XOnlyPublicKey returns a copy of the 32-byte x-only public key.
func (kp *KeyPair) XOnlyPublicKey() []byte {
	b := make([]byte, len(kp.pubX))
	copy(b, kp.pubX)
	return b
}

// PublicKeyHex returns the x-only public key as 64 hex characters, the
// form events carry in their pubkey field.
func (kp *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(kp.pubX)
}

// Npub returns the checksummed public key text form.
func (kp *KeyPair) Npub() string {
	return kp.npub
}

// Nsec returns the checksummed secret key text form.
func (kp *KeyPair) Nsec() string {
	return kp.nsec
}

// Mnemonic returns the originating seed phrase, if the pair was derived
// from one.
func (kp *KeyPair) Mnemonic() (string, bool) {
	return kp.mnemonic, kp.mnemonic != ""
}

// Zero wipes the private key material. The pair must not be used to sign
// afterwards.
func (kp *KeyPair) Zero() {
	kp.priv.Zero()
}
