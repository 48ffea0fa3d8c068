package helpers

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJWTIssueVerifyRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	token, exp, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expiry %v not about an hour away", exp)
	}
	sub, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user-123" {
		t.Fatalf("subject = %q, want user-123", sub)
	}
}

func TestJWTExpiredToken(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	m := NewJWTManagerWithClock("test-secret", time.Hour, func() time.Time { return clock })

	token, _, err := m.Issue("user-123")
	if err != nil {
		t.Fatal(err)
	}

	// One second past expiry. No leeway.
	clock = issued.Add(time.Hour + time.Second)
	if _, err := m.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify after expiry = %v, want ErrTokenExpired", err)
	}
}

func TestJWTTamperedToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	token, _, err := m.Issue("user-123")
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := m.Verify(tampered); !errors.Is(err, ErrTokenInvalidSignature) {
		t.Fatalf("Verify(tampered) = %v, want ErrTokenInvalidSignature", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, _, err := NewJWTManager("secret-a", time.Hour).Issue("user-123")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewJWTManager("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrTokenInvalidSignature) {
		t.Fatalf("Verify with wrong secret = %v, want ErrTokenInvalidSignature", err)
	}
}

func TestJWTGarbageInput(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	for _, in := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(in); !errors.Is(err, ErrTokenInvalidSignature) {
			t.Errorf("Verify(%q) = %v, want ErrTokenInvalidSignature", in, err)
		}
	}
}

func TestGenerateTokenURLSafe(t *testing.T) {
	a, err := GenerateToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateToken(32)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two generated tokens should not collide")
	}
	if strings.ContainsAny(a, "+/=") {
		t.Fatalf("token %q is not URL safe", a)
	}
}
