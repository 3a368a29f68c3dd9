package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m := NewManager("test-secret", time.Hour)

	tok, err := m.Issue("user-1", "jane@example.com")

	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Verify(tok)

	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Fatalf("UserID mismatch: got %q", claims.UserID)
	}

	if claims.Email != "jane@example.com" {
		t.Fatalf("Email mismatch: got %q", claims.Email)
	}

	if claims.ExpiresAt == nil {
		t.Fatalf("expected expiry claim")
	}

	ttl := time.Until(claims.ExpiresAt.Time)

	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected ttl: %v", ttl)
	}
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	m := NewManager("test-secret", -time.Minute)

	tok, err := m.Issue("user-1", "jane@example.com")

	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := m.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewManager("right-secret", time.Hour)
	verifier := NewManager("wrong-secret", time.Hour)

	tok, err := issuer.Issue("user-1", "jane@example.com")

	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := verifier.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	t.Parallel()

	m := NewManager("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.Verify(tok); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}
