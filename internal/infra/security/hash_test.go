package security

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundtrip(t *testing.T) {
	encoded, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if strings.Contains(encoded, "secret1") {
		t.Fatal("encoded hash leaks the plaintext password")
	}

	ok, err := VerifyPassword("secret1", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = VerifyPassword("secret2", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("secret1", "not-a-valid-encoding"); err == nil {
		t.Fatal("expected error for malformed hash")
	}

	ok, err := VerifyPassword("", "")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("empty password accepted")
	}
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	if err != nil {
		t.Fatalf("GenerateNumericCode: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in code %q", r, code)
		}
	}

	if _, err := GenerateNumericCode(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestHashTokenIsDeterministic(t *testing.T) {
	if HashToken("123456") != HashToken("123456") {
		t.Fatal("same input produced different hashes")
	}
	if HashToken("123456") == HashToken("654321") {
		t.Fatal("different inputs produced the same hash")
	}
	if len(HashToken("123456")) != 64 {
		t.Fatal("expected hex-encoded sha256 output")
	}
}
