package event

import (
	"strconv"

	"github.com/cygnet-social/cygnet/pkg/crypto"
	"github.com/cygnet-social/cygnet/pkg/types"
)

// Serialize returns the canonical byte form used to compute the event ID:
//
//	[0,<pubkey>,<created_at>,<kind>,<tags>,<content>]
//
// The leading 0 is the format version discriminant. Strings use minimal
// JSON escaping with no HTML escaping, so any two semantically equal
// events serialize to identical bytes.
func (e *Event) Serialize() []byte {
	buf := make([]byte, 0, 128+len(e.Content))
	buf = append(buf, '[', '0', ',')
	buf = appendEscaped(buf, e.PubKey)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, e.CreatedAt, 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(e.Kind), 10)
	buf = append(buf, ',', '[')
	for i, tag := range e.Tags {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		for j, v := range tag {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = appendEscaped(buf, v)
		}
		buf = append(buf, ']')
	}
	buf = append(buf, ']', ',')
	buf = appendEscaped(buf, e.Content)
	buf = append(buf, ']')
	return buf
}

// ComputeID returns the SHA-256 hash of the canonical serialization.
func (e *Event) ComputeID() types.Hash {
	return crypto.Digest(e.Serialize())
}

const hexDigits = "0123456789abcdef"

// appendEscaped appends s as a JSON string with the minimal escape set:
// the two mandatory escapes, the short forms for common control
// characters, and \u00XX for the rest of the control range. No HTML
// escaping. Multi-byte UTF-8 sequences pass through untouched.
func appendEscaped(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c == '\b':
			buf = append(buf, '\\', 'b')
		case c == '\f':
			buf = append(buf, '\\', 'f')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c == '\t':
			buf = append(buf, '\\', 't')
		case c < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			buf = append(buf, c)
		}
	}
	return append(buf, '"')
}
