// Package delegation implements conditional signing-authority tokens: a
// delegator signs a canonical condition string that authorizes a
// delegatee key to sign on its behalf.
package delegation

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cygnet-social/cygnet/pkg/crypto"
)

// Verification errors.
var (
	ErrStructural       = errors.New("malformed delegation token")
	ErrInvalidSignature = errors.New("invalid delegation signature")
	ErrTimeWindow       = errors.New("outside delegation time window")
)

// domainTag prefixes the canonical string so delegation signatures can
// never collide with any other signed payload.
const domainTag = "nostr"

// Conditions restrict a delegation: an optional kind set and an optional
// validity window. A token with no conditions is unrestricted.
type Conditions struct {
	Kinds []int  `json:"kinds,omitempty"`
	Since *int64 `json:"since,omitempty"`
	Until *int64 `json:"until,omitempty"`
}

// Token is a signed delegation statement. Delegator and Delegatee are
// 64-hex x-only public keys; Sig is the delegator's Schnorr signature
// over the canonical condition string's digest.
type Token struct {
	Delegator  string     `json:"delegator"`
	Delegatee  string     `json:"delegatee"`
	Conditions Conditions `json:"conditions"`
	Sig        string     `json:"signature"`
}

// String builds the canonical condition string:
//
//	nostr:delegation:<delegator>:<delegatee>[:kinds=a,b][:created_at>S][:created_at<U]
//
// The optional suffixes appear only when set, always in that order. The
// order is part of the wire contract.
func String(delegator, delegatee string, c Conditions) string {
	var sb strings.Builder
	sb.WriteString(domainTag)
	sb.WriteString(":delegation:")
	sb.WriteString(delegator)
	sb.WriteByte(':')
	sb.WriteString(delegatee)
	if len(c.Kinds) > 0 {
		sb.WriteString(":kinds=")
		for i, k := range c.Kinds {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(k))
		}
	}
	if c.Since != nil {
		sb.WriteString(":created_at>")
		sb.WriteString(strconv.FormatInt(*c.Since, 10))
	}
	if c.Until != nil {
		sb.WriteString(":created_at<")
		sb.WriteString(strconv.FormatInt(*c.Until, 10))
	}
	return sb.String()
}

// Create builds and signs a delegation token granting the delegatee
// public key signing authority under the given conditions.
func Create(delegateePub string, c Conditions, priv *crypto.PrivateKey) (*Token, error) {
	if !isLowerHex(delegateePub, 64) {
		return nil, fmt.Errorf("%w: delegatee must be 64 lowercase hex characters", ErrStructural)
	}
	delegator := hex.EncodeToString(priv.XOnlyPublicKey())
	digest := crypto.DigestText(String(delegator, delegateePub, c))
	sig, err := priv.Sign(digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign delegation: %w", err)
	}
	return &Token{
		Delegator:  delegator,
		Delegatee:  delegateePub,
		Conditions: c,
		Sig:        hex.EncodeToString(sig),
	}, nil
}

// ValidateStructure checks field shapes before any cryptographic work.
func (t *Token) ValidateStructure() error {
	if !isLowerHex(t.Delegator, 64) {
		return fmt.Errorf("%w: delegator must be 64 lowercase hex characters", ErrStructural)
	}
	if !isLowerHex(t.Delegatee, 64) {
		return fmt.Errorf("%w: delegatee must be 64 lowercase hex characters", ErrStructural)
	}
	if !isLowerHex(t.Sig, 128) {
		return fmt.Errorf("%w: signature must be 128 lowercase hex characters", ErrStructural)
	}
	for _, k := range t.Conditions.Kinds {
		if k < 0 {
			return fmt.Errorf("%w: negative kind %d", ErrStructural, k)
		}
	}
	return nil
}

// Verify checks the token. When now is non-nil the validity window is
// enforced first (ErrTimeWindow); a token without time conditions is
// always temporally valid. The canonical string is rebuilt from the
// token's own fields, never trusted from elsewhere, and the signature is
// verified against the delegator key.
func (t *Token) Verify(now *int64) error {
	if err := t.ValidateStructure(); err != nil {
		return err
	}
	if now != nil {
		if t.Conditions.Since != nil && *now < *t.Conditions.Since {
			return fmt.Errorf("%w: %d precedes window start %d", ErrTimeWindow, *now, *t.Conditions.Since)
		}
		if t.Conditions.Until != nil && *now > *t.Conditions.Until {
			return fmt.Errorf("%w: %d exceeds window end %d", ErrTimeWindow, *now, *t.Conditions.Until)
		}
	}

	digest := crypto.DigestText(String(t.Delegator, t.Delegatee, t.Conditions))
	sig, _ := hex.DecodeString(t.Sig)
	pub, _ := hex.DecodeString(t.Delegator)
	if !crypto.VerifySignature(digest[:], sig, pub) {
		return ErrInvalidSignature
	}
	return nil
}

// Expiry returns the window end, if any. This reads the claimed
// conditions without any cryptographic check; it is not a validity
// guarantee.
func (t *Token) Expiry() *int64 {
	return t.Conditions.Until
}

// Parse decodes a token from its JSON wire form and checks its structure.
// The signature is not verified; call Verify for that.
func Parse(data []byte) (*Token, error) {
	var t Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructural, err)
	}
	if err := t.ValidateStructure(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Marshal encodes the token in its JSON wire form.
func (t *Token) Marshal() ([]byte, error) {
	return json.Marshal(t)
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
