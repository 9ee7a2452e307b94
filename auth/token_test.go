package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-key-for-jwt-signing"

func newTestTokenService(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	ts, err := NewTokenService([]byte(testSecret), "test-issuer", opts...)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func testClaims() Claims {
	return Claims{
		UserID:   "user123",
		Username: "siti",
		Email:    "siti@example.com",
		Role:     "editor",
	}
}

func TestIssueAndVerify(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue(testClaims(), time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user123" {
		t.Errorf("UserID = %q; want user123", claims.UserID)
	}
	if claims.Role != "editor" {
		t.Errorf("Role = %q; want editor", claims.Role)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("Issuer = %q; want test-issuer", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("issued token has no jti")
	}
}

func TestVerifyExpired(t *testing.T) {
	// A token whose exp is one second in the past is invalid regardless of
	// its signature being perfectly good: exact comparison, no grace window.
	issued := time.Now().Add(-time.Hour)
	issuer := newTestTokenService(t, WithTimeFunc(func() time.Time { return issued }))

	token, err := issuer.Issue(testClaims(), time.Hour-time.Second)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	verifier := newTestTokenService(t)
	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrExpiredCredential) {
		t.Errorf("Verify(expired) = %v; want ErrExpiredCredential", err)
	}
}

func TestVerifyExplicitLeeway(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	issuer := newTestTokenService(t, WithTimeFunc(func() time.Time { return issued }))

	token, err := issuer.Issue(testClaims(), time.Hour-time.Second)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// A configured tolerance, and only a configured one, widens the check.
	verifier := newTestTokenService(t, WithLeeway(5*time.Second))
	if _, err := verifier.Verify(token); err != nil {
		t.Errorf("Verify with 5s leeway = %v; want nil", err)
	}
}

func TestVerifyBadSignature(t *testing.T) {
	issuer, err := NewTokenService([]byte("some-other-secret"), "test-issuer")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	token, err := issuer.Issue(testClaims(), time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	verifier := newTestTokenService(t)
	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify(wrong secret) = %v; want ErrBadSignature", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	ts := newTestTokenService(t)

	for _, token := range []string{"", "not-a-token", "a.b"} {
		_, err := ts.Verify(token)
		if !errors.Is(err, ErrMalformedCredential) {
			t.Errorf("Verify(%q) = %v; want ErrMalformedCredential", token, err)
		}
	}
}

func TestParseUnverified(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Issue(testClaims(), time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := ts.ParseUnverified(token)
	if err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		t.Error("ParseUnverified lost registered claims")
	}
}

func TestBearerFromHeader(t *testing.T) {
	if _, err := BearerFromHeader(""); !errors.Is(err, ErrNoCredential) {
		t.Error("empty header should be ErrNoCredential")
	}
	if _, err := BearerFromHeader("Basic abc"); !errors.Is(err, ErrMalformedCredential) {
		t.Error("non-bearer header should be ErrMalformedCredential")
	}
	token, err := BearerFromHeader("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Errorf("BearerFromHeader = (%q, %v)", token, err)
	}
}

func TestCredentialFromCookiePrecedence(t *testing.T) {
	token, ok := CredentialFrom("cookie-token", "Bearer header-token")
	if !ok || token != "cookie-token" {
		t.Errorf("cookie should take precedence, got (%q, %v)", token, ok)
	}

	token, ok = CredentialFrom("", "Bearer header-token")
	if !ok || token != "header-token" {
		t.Errorf("header fallback failed, got (%q, %v)", token, ok)
	}

	if _, ok := CredentialFrom("", ""); ok {
		t.Error("no sources should mean no credential")
	}
}

func BenchmarkVerify(b *testing.B) {
	ts, _ := NewTokenService([]byte(testSecret), "test-issuer")
	token, _ := ts.Issue(testClaims(), time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ts.Verify(token); err != nil {
			b.Fatal(err)
		}
	}
}
