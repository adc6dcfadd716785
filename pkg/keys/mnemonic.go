// Package keys implements deterministic identity management: BIP-39 seed
// phrases, private key derivation, and the text encodings of key material.
package keys

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for the default 12-word mnemonic.
const MnemonicEntropyBits = 128

// Derivation errors.
var (
	ErrInvalidMnemonic      = errors.New("invalid mnemonic")
	ErrInvalidEntropyLength = errors.New("invalid entropy length")
)

// GenerateMnemonic creates a new 12-word BIP-39 mnemonic from 128 bits of
// CSPRNG entropy.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39 (correct word
// count, known words, matching checksum). Total: never errors on any input.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// EntropyFromMnemonic reconstructs the raw entropy bytes a mnemonic
// encodes. Fails with ErrInvalidMnemonic on any malformed phrase. The
// caller owns the returned buffer and should zero it after use.
func EntropyFromMnemonic(mnemonic string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return entropy, nil
}
