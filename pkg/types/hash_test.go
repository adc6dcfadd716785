package types

import (
	"encoding/json"
	"testing"
)

func TestHash_HexRoundtrip(t *testing.T) {
	hexStr := "ece0dd3119c377a52446d897c581d74d67bce14b2b72194720d13e0a24afac93"
	h, err := HexToHash(hexStr)
	if err != nil {
		t.Fatalf("HexToHash: %v", err)
	}
	if h.String() != hexStr {
		t.Errorf("String() = %q, want %q", h.String(), hexStr)
	}
	if h.IsZero() {
		t.Error("non-zero hash reported as zero")
	}
}

func TestHexToHash_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short", "abcd"},
		{"not hex", "zz" + "00000000000000000000000000000000000000000000000000000000000000"},
		{"too long", "ece0dd3119c377a52446d897c581d74d67bce14b2b72194720d13e0a24afac93ff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := HexToHash(tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHash_JSON(t *testing.T) {
	h, err := HexToHash("4b1d3f643e9adc4b22e759eaefe227b5e37e2f352ce96087ff5b7b6e3e654926")
	if err != nil {
		t.Fatalf("HexToHash: %v", err)
	}

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back Hash
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != h {
		t.Errorf("roundtrip mismatch: %s != %s", back, h)
	}
}

func TestHash_ZeroValue(t *testing.T) {
	var h Hash
	if !h.IsZero() {
		t.Error("zero hash not reported as zero")
	}
}
