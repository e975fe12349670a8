package utils

import (
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecrypt(t *testing.T) {
	for _, plain := range []string{
		"x",
		"exactly sixteen!",
		"PAYG 100K a year. Partner 70K a year",
		strings.Repeat("long note ", 40),
	} {
		enc, err := Encrypt(plain, testKey)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", plain, err)
		}
		if strings.Contains(enc, plain) {
			t.Errorf("ciphertext contains the plaintext")
		}
		dec, err := Decrypt(enc, testKey)
		if err != nil {
			t.Fatalf("Decrypt() error: %v", err)
		}
		if dec != plain {
			t.Errorf("round trip = %q, expected %q", dec, plain)
		}
	}
}

func TestEncrypt_PadsToWholeBlocks(t *testing.T) {
	tests := []struct {
		plain  string
		blocks int
	}{
		{"x", 1},
		{"fifteen chars!!", 1},
		{"exactly sixteen!", 2},
		{"seventeen chars!!", 2},
	}
	for _, tt := range tests {
		enc, err := Encrypt(tt.plain, testKey)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", tt.plain, err)
		}
		// IV plus ciphertext, hex encoded.
		if want := (1 + tt.blocks) * 16 * 2; len(enc) != want {
			t.Errorf("Encrypt(%q) length = %d, expected %d", tt.plain, len(enc), want)
		}
	}
}

func TestEncrypt_RandomIV(t *testing.T) {
	a, _ := Encrypt("same note", testKey)
	b, _ := Encrypt("same note", testKey)
	if a == b {
		t.Error("two encryptions of the same text should differ")
	}
}

func TestEncryptDecrypt_Errors(t *testing.T) {
	if _, err := Encrypt("", testKey); err == nil {
		t.Error("Encrypt should reject empty input")
	}
	if _, err := Encrypt("note", []byte("short")); err == nil {
		t.Error("Encrypt should reject a short key")
	}
	if _, err := Decrypt("zz", testKey); err == nil {
		t.Error("Decrypt should reject non-hex input")
	}
	if _, err := Decrypt("00112233", testKey); err == nil {
		t.Error("Decrypt should reject truncated input")
	}

	enc, _ := Encrypt("note", testKey)
	other := []byte("fedcba9876543210fedcba9876543210")
	if dec, err := Decrypt(enc, other); err == nil && dec == "note" {
		t.Error("Decrypt with the wrong key returned the plaintext")
	}
}

func TestSign(t *testing.T) {
	sig := Sign("secret", "client-1", "property-9", "1700000000")
	if len(sig) != 64 {
		t.Fatalf("signature length = %d", len(sig))
	}
	if !VerifySignature(sig, "secret", "client-1", "property-9", "1700000000") {
		t.Error("valid signature rejected")
	}

	tests := []struct {
		name   string
		sig    string
		secret string
		parts  []string
	}{
		{"wrong secret", sig, "other", []string{"client-1", "property-9", "1700000000"}},
		{"tampered part", sig, "secret", []string{"client-1", "property-8", "1700000000"}},
		{"not hex", "zz", "secret", []string{"client-1", "property-9", "1700000000"}},
	}
	for _, tt := range tests {
		if VerifySignature(tt.sig, tt.secret, tt.parts...) {
			t.Errorf("%s: signature accepted", tt.name)
		}
	}
}
