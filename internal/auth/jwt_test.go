package auth

import (
	"testing"
	"time"

	"github.com/anovak/pharmstock/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	const secret = "round-trip-secret"

	token, err := GenerateToken(secret, 42, "mira", model.RoleManager)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "mira" || claims.Role != model.RoleManager {
		t.Errorf("claims = %d/%q/%q, want 42/mira/manager", claims.UserID, claims.Username, claims.Role)
	}
	if claims.ID == "" {
		t.Error("token has no JTI")
	}

	until := time.Until(claims.ExpiresAt.Time)
	if until < TokenTTL-time.Minute || until > TokenTTL+time.Minute {
		t.Errorf("token expires in %v, want about %v", until, TokenTTL)
	}
}

func TestTokensGetDistinctJTIs(t *testing.T) {
	const secret = "jti-secret"
	a, err := GenerateToken(secret, 1, "a", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	b, err := GenerateToken(secret, 1, "a", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	ca, _ := ValidateToken(secret, a)
	cb, _ := ValidateToken(secret, b)
	if ca == nil || cb == nil || ca.ID == cb.ID {
		t.Error("two tokens for the same user share a JTI")
	}
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	token, err := GenerateToken("right-secret", 1, "mira", model.RoleUser)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateToken("wrong-secret", token); err == nil {
		t.Error("token validated with the wrong secret")
	}
	if _, err := ValidateToken("right-secret", "definitely.not.ajwt"); err == nil {
		t.Error("garbage string validated")
	}
	if _, err := ValidateToken("right-secret", ""); err == nil {
		t.Error("empty string validated")
	}
}
