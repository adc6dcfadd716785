package event

import (
	"errors"
	"fmt"
)

// Verification errors. Structural problems, a stale or tampered ID, and a
// bad signature are all distinguishable with errors.Is.
var (
	ErrStructural       = errors.New("malformed event")
	ErrHashMismatch     = errors.New("event id does not match computed hash")
	ErrInvalidSignature = errors.New("invalid signature")
)

// ValidateStructure checks field shapes: 64-hex id and pubkey, 128-hex
// signature, non-negative timestamp and kind. Cheap and free of any
// cryptography; callers run it before signature verification so malformed
// input never reaches the expensive path.
func (e *Event) ValidateStructure() error {
	if !isLowerHex(e.ID, 64) {
		return fmt.Errorf("%w: id must be 64 lowercase hex characters", ErrStructural)
	}
	if !isLowerHex(e.PubKey, 64) {
		return fmt.Errorf("%w: pubkey must be 64 lowercase hex characters", ErrStructural)
	}
	if !isLowerHex(e.Sig, 128) {
		return fmt.Errorf("%w: sig must be 128 lowercase hex characters", ErrStructural)
	}
	if e.CreatedAt < 0 {
		return fmt.Errorf("%w: created_at is negative", ErrStructural)
	}
	if e.Kind < 0 {
		return fmt.Errorf("%w: kind is negative", ErrStructural)
	}
	for i, tag := range e.Tags {
		if tag == nil {
			return fmt.Errorf("%w: tag %d is null", ErrStructural, i)
		}
	}
	return nil
}

// isLowerHex reports whether s is exactly n lowercase hex characters.
func isLowerHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
