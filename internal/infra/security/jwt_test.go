package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndParse(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	raw, err := manager.Issue("507f1f77bcf86cd799439011", "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := manager.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "507f1f77bcf86cd799439011" {
		t.Fatalf("unexpected user id %q", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestParseExpiredToken(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	manager.tokenTTL = -time.Minute

	raw, err := manager.Issue("507f1f77bcf86cd799439011", "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := manager.Parse(raw); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTamperedToken(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	raw, err := manager.Issue("507f1f77bcf86cd799439011", "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape %q", raw)
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA"

	if _, err := manager.Parse(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	issuer, err := NewTokenManager("secret-a", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	verifier, err := NewTokenManager("secret-b", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	raw, err := issuer.Issue("507f1f77bcf86cd799439011", "user@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Parse(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	for _, raw := range []string{"", "abc", "a.b.c"} {
		if _, err := manager.Parse(raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("Parse(%q): expected ErrTokenInvalid, got %v", raw, err)
		}
	}
}
