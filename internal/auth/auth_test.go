package auth_test

import (
	"testing"

	"github.com/parisxmas/partnerhub/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("secret", "ops@partnerhub.local", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Email != "ops@partnerhub.local" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, _ := auth.GenerateToken("secret", "a@b", "user")
	if _, err := auth.ValidateToken("other", token); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !auth.CheckPassword("hunter2", hash) {
		t.Fatal("correct password rejected")
	}
	if auth.CheckPassword("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}
