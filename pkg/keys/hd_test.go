package keys

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveAccount_Deterministic(t *testing.T) {
	kp1, err := DeriveAccount(fixtureMnemonic, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	kp2, err := DeriveAccount(fixtureMnemonic, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	if !bytes.Equal(kp1.XOnlyPublicKey(), kp2.XOnlyPublicKey()) {
		t.Error("same mnemonic and account should derive the same keys")
	}
}

func TestDeriveAccount_DistinctAccounts(t *testing.T) {
	kp0, err := DeriveAccount(fixtureMnemonic, 0)
	if err != nil {
		t.Fatalf("DeriveAccount(0) error: %v", err)
	}
	kp1, err := DeriveAccount(fixtureMnemonic, 1)
	if err != nil {
		t.Fatalf("DeriveAccount(1) error: %v", err)
	}
	if bytes.Equal(kp0.XOnlyPublicKey(), kp1.XOnlyPublicKey()) {
		t.Error("different accounts should derive different keys")
	}
}

func TestDeriveAccount_DistinctFromDirectPath(t *testing.T) {
	direct, err := FromMnemonic(fixtureMnemonic)
	if err != nil {
		t.Fatalf("FromMnemonic() error: %v", err)
	}
	hd, err := DeriveAccount(fixtureMnemonic, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	if bytes.Equal(direct.XOnlyPublicKey(), hd.XOnlyPublicKey()) {
		t.Error("hierarchical account 0 should differ from the direct derivation")
	}
}

func TestDeriveAccount_CarriesMnemonic(t *testing.T) {
	kp, err := DeriveAccount(fixtureMnemonic, 3)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	mnemonic, ok := kp.Mnemonic()
	if !ok || mnemonic != fixtureMnemonic {
		t.Errorf("Mnemonic() = %q, %v; want fixture phrase, true", mnemonic, ok)
	}
}

func TestDeriveAccount_InvalidMnemonic(t *testing.T) {
	_, err := DeriveAccount("twelve bogus words that will never pass the checksum test here", 0)
	if !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("err = %v, want ErrInvalidMnemonic", err)
	}
}
