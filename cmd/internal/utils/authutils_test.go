package utils

import (
	"strings"
	"testing"
	"time"
)

func initSigner(t *testing.T) {
	t.Helper()
	if err := InitTokenSigner("unit-test-signing-key"); err != nil {
		t.Fatalf("failed to init signer: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	initSigner(t)

	token, err := GenerateToken("ana@test.dev", "USER")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	data, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("token does not validate: %v", err)
	}
	if data.Email != "ana@test.dev" {
		t.Errorf("unexpected subject: %s", data.Email)
	}
	if data.Role != "USER" {
		t.Errorf("unexpected role: %s", data.Role)
	}
	if data.Exp <= time.Now().Unix() {
		t.Error("expected a future expiry")
	}
}

func TestValidateTokenStripsBearerPrefix(t *testing.T) {
	initSigner(t)

	token, err := GenerateToken("ana@test.dev", "USER")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := ValidateToken("Bearer " + token); err != nil {
		t.Errorf("bearer-prefixed token rejected: %v", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	initSigner(t)

	token, err := GenerateToken("ana@test.dev", "USER")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	// Corrupt the signature segment.
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("tampered token was accepted")
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	initSigner(t)
	token, err := GenerateToken("ana@test.dev", "USER")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if err := InitTokenSigner("a-different-key"); err != nil {
		t.Fatalf("failed to rotate signer: %v", err)
	}
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with the old key was accepted")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	initSigner(t)

	if _, err := ValidateToken("not-a-jwt"); err == nil {
		t.Error("garbage token was accepted")
	}
}
