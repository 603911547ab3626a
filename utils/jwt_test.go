package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "boss@streetbites.se")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if token == "" {
		t.Fatal("Expected a non-empty token")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Expected user id 42, got %d", claims.UserID)
	}
	if claims.Email != "boss@streetbites.se" {
		t.Errorf("Expected email boss@streetbites.se, got %s", claims.Email)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("Expected an error for a malformed token")
	}
}

func TestConfigureJWT(t *testing.T) {
	t.Cleanup(func() {
		ConfigureJWT("street-bites-super-secret-key-2025", 24*time.Hour)
	})

	stale, err := GenerateToken(7, "boss@streetbites.se")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	ConfigureJWT("rotated-secret", time.Hour)

	if _, err := ValidateToken(stale); err == nil {
		t.Error("Expected a token signed under the old secret to be rejected")
	}

	fresh, err := GenerateToken(7, "boss@streetbites.se")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	claims, err := ValidateToken(fresh)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("Expected user id 7, got %d", claims.UserID)
	}

	ConfigureJWT("", 0)
	if _, err := ValidateToken(fresh); err != nil {
		t.Errorf("Expected zero values to leave settings untouched, got: %v", err)
	}
}
