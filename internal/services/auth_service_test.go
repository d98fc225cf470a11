package services

import (
	"testing"
	"time"

	"github.com/openschool/schoolhub/backend/internal/models"
)

func newTestAuthService(t *testing.T, secret string) *AuthService {
	t.Helper()
	t.Setenv("JWT_SECRET", secret)
	return NewAuthService()
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newTestAuthService(t, "test-secret")

	user := &models.User{
		Username:        "jatieno",
		Role:            models.RoleStudent,
		AdmissionNumber: "ADM2026001",
	}

	token, err := auth.IssueToken(user, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	claims, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.Username != "jatieno" {
		t.Errorf("username = %q, want jatieno", claims.Username)
	}
	if claims.Role != models.RoleStudent {
		t.Errorf("role = %q, want student", claims.Role)
	}
	if claims.AdmissionNumber != "ADM2026001" {
		t.Errorf("admission = %q, want ADM2026001", claims.AdmissionNumber)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	issuer := newTestAuthService(t, "secret-one")
	token, err := issuer.IssueToken(&models.User{Username: "x", Role: models.RoleAdmin}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	verifier := newTestAuthService(t, "secret-two")
	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("token signed with a different secret must not verify")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	auth := newTestAuthService(t, "test-secret")

	token, err := auth.IssueToken(&models.User{Username: "x", Role: models.RoleAdmin}, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if _, err := auth.VerifyToken(token); err == nil {
		t.Error("expired token must not verify")
	}
}

func TestLoginRateLimiter(t *testing.T) {
	auth := newTestAuthService(t, "test-secret")

	allowed := 0
	for i := 0; i < 10; i++ {
		if auth.allow("203.0.113.7") {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("burst should allow exactly 5 attempts, allowed %d", allowed)
	}

	// A different client is unaffected
	if !auth.allow("203.0.113.8") {
		t.Error("limiter must be per client IP")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse" || len(hash) < 30 {
		t.Errorf("suspicious hash: %q", hash)
	}
}
