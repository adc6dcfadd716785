package keys

import (
	"fmt"

	"github.com/cygnet-social/cygnet/pkg/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// BIP-44 derivation constants for account keys.
// Full path: m/44'/1237'/account'/0/0
const (
	purposeBIP44 = bip32.FirstHardenedChild + 44
	coinType     = bip32.FirstHardenedChild + 1237
)

// DeriveAccount derives the key pair for a numbered account from a seed
// phrase via the BIP-32 path m/44'/1237'/account'/0/0. Account 0 is a
// distinct identity from the direct FromMnemonic derivation; both are
// deterministic. Intermediate seed and key buffers are zeroed on every
// exit path.
func DeriveAccount(mnemonic string, account uint32) (*KeyPair, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	defer crypto.Zeroize(seed)

	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}

	node := master
	for _, idx := range []uint32{purposeBIP44, coinType, bip32.FirstHardenedChild + account, 0, 0} {
		node, err = node.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", idx, err)
		}
	}

	// bip32 private keys carry a leading 0x00 pad byte.
	raw := node.Key
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	sec := make([]byte, len(raw))
	copy(sec, raw)
	defer crypto.Zeroize(sec)

	priv, err := crypto.PrivateKeyFromBytes(sec)
	if err != nil {
		return nil, err
	}
	return newKeyPair(priv, mnemonic)
}
