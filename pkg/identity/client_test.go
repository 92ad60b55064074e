package identity

import (
	"encoding/base64"
	"math/big"
	"testing"
)

func TestParseJWK(t *testing.T) {
	n := base64.RawURLEncoding.EncodeToString([]byte{0x01, 0x00, 0x01, 0x23})
	e := base64.RawURLEncoding.EncodeToString([]byte{0x01, 0x00, 0x01})

	key, err := parseJWK(n, e)
	if err != nil {
		t.Fatalf("parseJWK: %v", err)
	}

	wantN := new(big.Int).SetBytes([]byte{0x01, 0x00, 0x01, 0x23})
	if key.N.Cmp(wantN) != 0 {
		t.Errorf("modulus = %v, want %v", key.N, wantN)
	}
	if key.E != 65537 {
		t.Errorf("exponent = %d, want 65537", key.E)
	}
}

func TestParseJWKRejectsBadEncoding(t *testing.T) {
	if _, err := parseJWK("not base64!!", "AQAB"); err == nil {
		t.Error("expected an error for a malformed modulus")
	}
	if _, err := parseJWK("AQAB", "not base64!!"); err == nil {
		t.Error("expected an error for a malformed exponent")
	}
}
