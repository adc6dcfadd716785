package event

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/cygnet-social/cygnet/pkg/crypto"
)

const fixtureSecHex = "87dcde7fa6df23e15fa7ba9b2a1f31408eac832f4e615ea815ae92024e3d818b"

func fixtureKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	raw, err := hex.DecodeString(fixtureSecHex)
	if err != nil {
		t.Fatalf("decode fixture key: %v", err)
	}
	priv, err := crypto.PrivateKeyFromBytes(raw)
	if err != nil {
		t.Fatalf("load fixture key: %v", err)
	}
	return priv
}

func TestSignVerify_RoundTrip(t *testing.T) {
	priv := fixtureKey(t)

	e := &Event{
		CreatedAt: 1700000000,
		Kind:      KindTextNote,
		Tags:      []Tag{{"t", "intro"}, {"client", "cygnet"}},
		Content:   "hello, wire",
	}
	if err := e.Sign(priv); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	if e.PubKey != fixturePubHex {
		t.Errorf("PubKey = %s, want %s", e.PubKey, fixturePubHex)
	}
	if want := "ece0dd3119c377a52446d897c581d74d67bce14b2b72194720d13e0a24afac93"; e.ID != want {
		t.Errorf("ID = %s, want %s", e.ID, want)
	}
	if err := e.Verify(); err != nil {
		t.Errorf("Verify() error: %v", err)
	}
}

func TestSign_OverwritesPubKey(t *testing.T) {
	priv := fixtureKey(t)

	e := &Event{PubKey: "deadbeef", Kind: 1, Tags: []Tag{}, Content: "x"}
	if err := e.Sign(priv); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if e.PubKey != fixturePubHex {
		t.Errorf("PubKey = %s, want signing key %s", e.PubKey, fixturePubHex)
	}
}

func TestVerify_TamperedContent(t *testing.T) {
	priv := fixtureKey(t)

	e := &Event{CreatedAt: 1700000000, Kind: 1, Tags: []Tag{}, Content: "original"}
	if err := e.Sign(priv); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	e.Content = "tampered"
	err := e.Verify()
	if !errors.Is(err, ErrHashMismatch) {
		t.Errorf("err = %v, want ErrHashMismatch", err)
	}
}

func TestVerify_CorruptSignature(t *testing.T) {
	priv := fixtureKey(t)

	e := &Event{CreatedAt: 1700000000, Kind: 1, Tags: []Tag{}, Content: "payload"}
	if err := e.Sign(priv); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	// Flip one nibble while keeping the field well-formed hex.
	sig := []byte(e.Sig)
	if sig[10] == 'a' {
		sig[10] = 'b'
	} else {
		sig[10] = 'a'
	}
	e.Sig = string(sig)

	err := e.Verify()
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	priv := fixtureKey(t)
	other, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("GeneratePrivateKey() error: %v", err)
	}

	e := &Event{CreatedAt: 1700000000, Kind: 1, Tags: []Tag{}, Content: "payload"}
	if err := e.Sign(priv); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	// Substitute key and recompute the ID so only the signature is stale.
	e.PubKey = hex.EncodeToString(other.XOnlyPublicKey())
	e.ID = e.ComputeID().String()

	if err := e.Verify(); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerify_Unsigned(t *testing.T) {
	e := &Event{CreatedAt: 1, Kind: 1, Tags: []Tag{}, Content: "x"}
	if err := e.Verify(); !errors.Is(err, ErrStructural) {
		t.Errorf("err = %v, want ErrStructural", err)
	}
}

func TestSignVerifyText(t *testing.T) {
	priv := fixtureKey(t)

	sig, err := SignText("attest: cygnet", priv)
	if err != nil {
		t.Fatalf("SignText() error: %v", err)
	}
	if len(sig) != 128 {
		t.Fatalf("signature length = %d, want 128", len(sig))
	}

	if err := VerifyText("attest: cygnet", sig, fixturePubHex); err != nil {
		t.Errorf("VerifyText() error: %v", err)
	}
	if err := VerifyText("attest: other", sig, fixturePubHex); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("modified message: err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyText_Malformed(t *testing.T) {
	priv := fixtureKey(t)
	sig, err := SignText("msg", priv)
	if err != nil {
		t.Fatalf("SignText() error: %v", err)
	}

	tests := []struct {
		name string
		sig  string
		pub  string
	}{
		{"short sig", sig[:64], fixturePubHex},
		{"uppercase sig", "AB" + sig[2:], fixturePubHex},
		{"short pubkey", sig, fixturePubHex[:32]},
		{"non-hex pubkey", sig, "zz" + fixturePubHex[2:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := VerifyText("msg", tt.sig, tt.pub); !errors.Is(err, ErrStructural) {
				t.Errorf("err = %v, want ErrStructural", err)
			}
		})
	}
}
