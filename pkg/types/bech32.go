package types

import (
	"errors"
	"fmt"
	"strings"
)

// Codec errors. Decoders distinguish malformed input from a failed
// checksum so callers can report corruption separately from garbage.
var (
	ErrInvalidFormat   = errors.New("bech32: invalid format")
	ErrInvalidChecksum = errors.New("bech32: invalid checksum")
)

// Bech32 charset used for encoding (BIP-173).
const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// bech32CharsetRev maps bech32 characters to their 5-bit values. -1 = invalid.
var bech32CharsetRev [128]int8

func init() {
	for i := range bech32CharsetRev {
		bech32CharsetRev[i] = -1
	}
	for i, c := range bech32Charset {
		bech32CharsetRev[c] = int8(i)
	}
}

// Bech32Encode encodes a human-readable prefix and payload bytes into a
// bech32 string. Encoding is deterministic: equal inputs yield equal output.
func Bech32Encode(hrp string, payload []byte) (string, error) {
	if len(hrp) == 0 {
		return "", fmt.Errorf("%w: empty prefix", ErrInvalidFormat)
	}
	for _, c := range hrp {
		if c < 33 || c > 126 {
			return "", fmt.Errorf("%w: prefix character %q", ErrInvalidFormat, c)
		}
	}

	// Regroup 8-bit bytes into 5-bit words, zero-padding the last word.
	words, err := convertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	chk := bech32CreateChecksum(hrp, words)

	// hrp + "1" + data words + checksum words.
	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(words) + 6)
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, w := range words {
		sb.WriteByte(bech32Charset[w])
	}
	for _, w := range chk {
		sb.WriteByte(bech32Charset[w])
	}
	return sb.String(), nil
}

// Bech32Decode decodes a bech32 string into its prefix and payload bytes.
// A missing separator is an error: the prefix is never guessed.
func Bech32Decode(s string) (string, []byte, error) {
	if len(s) == 0 {
		return "", nil, fmt.Errorf("%w: empty string", ErrInvalidFormat)
	}

	// Reject mixed case before normalizing.
	hasUpper := false
	hasLower := false
	for _, c := range s {
		if c >= 'A' && c <= 'Z' {
			hasUpper = true
		}
		if c >= 'a' && c <= 'z' {
			hasLower = true
		}
	}
	if hasUpper && hasLower {
		return "", nil, fmt.Errorf("%w: mixed case", ErrInvalidFormat)
	}
	s = strings.ToLower(s)

	sepIdx := strings.LastIndex(s, "1")
	if sepIdx < 1 {
		return "", nil, fmt.Errorf("%w: missing separator", ErrInvalidFormat)
	}
	if sepIdx+7 > len(s) {
		return "", nil, fmt.Errorf("%w: data part too short", ErrInvalidFormat)
	}

	hrp := s[:sepIdx]
	dataStr := s[sepIdx+1:]

	words := make([]byte, len(dataStr))
	for i, c := range dataStr {
		if c > 127 || bech32CharsetRev[c] < 0 {
			return "", nil, fmt.Errorf("%w: character %q", ErrInvalidFormat, c)
		}
		words[i] = byte(bech32CharsetRev[c])
	}

	// The last six words carry the checksum.
	if !bech32VerifyChecksum(hrp, words) {
		return "", nil, ErrInvalidChecksum
	}
	words = words[:len(words)-6]

	// Regroup back to bytes; non-zero padding bits mean a malformed string.
	payload, err := convertBits(words, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	return hrp, payload, nil
}

// bech32Polymod computes the BCH checksum polymod over 5-bit values.
func bech32Polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

// bech32HRPExpand expands the prefix for checksum computation: high bits
// of each character, a zero, then the low bits.
func bech32HRPExpand(hrp string) []byte {
	ret := make([]byte, 0, len(hrp)*2+1)
	for _, c := range hrp {
		ret = append(ret, byte(c>>5))
	}
	ret = append(ret, 0)
	for _, c := range hrp {
		ret = append(ret, byte(c&31))
	}
	return ret
}

// bech32CreateChecksum derives the six checksum words for hrp + data.
func bech32CreateChecksum(hrp string, data []byte) []byte {
	values := append(bech32HRPExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	polymod := bech32Polymod(values) ^ 1
	ret := make([]byte, 6)
	for i := 0; i < 6; i++ {
		ret[i] = byte((polymod >> uint(5*(5-i))) & 31)
	}
	return ret
}

// bech32VerifyChecksum checks hrp + data where data still carries the
// trailing checksum words.
func bech32VerifyChecksum(hrp string, data []byte) bool {
	return bech32Polymod(append(bech32HRPExpand(hrp), data...)) == 1
}

// convertBits regroups data between bit widths (e.g. 8 and 5). pad controls
// whether an incomplete final group is zero-padded; when pad is false any
// leftover bits must be zero or the input is rejected.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	acc := uint32(0)
	bits := uint(0)
	maxv := uint32((1 << toBits) - 1)
	var ret []byte

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("invalid data value: %d", b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			ret = append(ret, byte((acc<<(toBits-bits))&maxv))
		}
	} else {
		if bits >= fromBits {
			return nil, fmt.Errorf("excess padding")
		}
		if (acc<<(toBits-bits))&maxv != 0 {
			return nil, fmt.Errorf("non-zero padding")
		}
	}

	return ret, nil
}
