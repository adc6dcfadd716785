package types

import (
	"fmt"
)

// Bech32 prefixes (human-readable parts) for the identifier families.
const (
	PublicKeyHRP    = "npub"
	SecretKeyHRP    = "nsec"
	NoteHRP         = "note"
	EncryptedKeyHRP = "ncryptsec"
)

// EncodePublicKey encodes a 32-byte x-only public key as an npub string.
func EncodePublicKey(pub []byte) (string, error) {
	if len(pub) != 32 {
		return "", fmt.Errorf("%w: public key must be 32 bytes, got %d", ErrInvalidFormat, len(pub))
	}
	return Bech32Encode(PublicKeyHRP, pub)
}

// DecodePublicKey decodes an npub string into the 32-byte x-only public key.
func DecodePublicKey(s string) ([]byte, error) {
	return decodeEntity(s, PublicKeyHRP, 32)
}

// EncodeSecretKey encodes a 32-byte private scalar as an nsec string.
func EncodeSecretKey(sec []byte) (string, error) {
	if len(sec) != 32 {
		return "", fmt.Errorf("%w: secret key must be 32 bytes, got %d", ErrInvalidFormat, len(sec))
	}
	return Bech32Encode(SecretKeyHRP, sec)
}

// DecodeSecretKey decodes an nsec string into the 32-byte private scalar.
func DecodeSecretKey(s string) ([]byte, error) {
	return decodeEntity(s, SecretKeyHRP, 32)
}

// EncodeNoteID encodes an event identifier as a note string.
func EncodeNoteID(id Hash) (string, error) {
	return Bech32Encode(NoteHRP, id[:])
}

// DecodeNoteID decodes a note string into an event identifier.
func DecodeNoteID(s string) (Hash, error) {
	b, err := decodeEntity(s, NoteHRP, HashSize)
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// DecodeEntity decodes any bech32 identifier and returns its prefix and
// payload. Callers that expect a specific family should use the typed
// decoders instead.
func DecodeEntity(s string) (string, []byte, error) {
	return Bech32Decode(s)
}

// decodeEntity decodes s, checking the prefix and payload length.
func decodeEntity(s, wantHRP string, wantLen int) ([]byte, error) {
	hrp, payload, err := Bech32Decode(s)
	if err != nil {
		return nil, err
	}
	if hrp != wantHRP {
		return nil, fmt.Errorf("%w: prefix %q, want %q", ErrInvalidFormat, hrp, wantHRP)
	}
	if len(payload) != wantLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrInvalidFormat, len(payload), wantLen)
	}
	return payload, nil
}
