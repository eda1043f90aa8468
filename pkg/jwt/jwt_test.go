package jwt

import (
	"testing"
	"time"

	"studio-booking/config"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", SessionMaxAge: time.Hour})

	token, tokenID, err := svc.GenerateSessionToken("admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "admin" || claims.TokenID != tokenID {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", SessionMaxAge: time.Hour})
	other := NewJWTService(config.JWTConfig{Secret: "different", SessionMaxAge: time.Hour})

	token, _, err := other.GenerateSessionToken("admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}

	expired := NewJWTService(config.JWTConfig{Secret: "s3cret", SessionMaxAge: -time.Minute})
	token, _, err = expired.GenerateSessionToken("admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestGenerateRequiresSecret(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{SessionMaxAge: time.Hour})
	if _, _, err := svc.GenerateSessionToken("admin"); err == nil {
		t.Fatal("expected error without secret")
	}
}
