package auth

import (
	"testing"
	"time"
)

func TestResetTokenRoundTrip(t *testing.T) {
	issuer := NewResetIssuer("test-secret-at-least-16", 30*time.Minute)

	version := PasswordVersion("$2b$12$storedhash")
	token, err := issuer.Issue(ResetPayload{Username: "rafa", PasswordVersion: version})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got := issuer.Verify(token)
	if got == nil {
		t.Fatal("fresh reset token did not verify")
	}
	if got.Username != "rafa" || got.PasswordVersion != version {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestResetTokenNotValidAsSession(t *testing.T) {
	secret := "test-secret-at-least-16"
	reset := NewResetIssuer(secret, 30*time.Minute)
	session := NewTokenIssuer(secret, time.Hour)

	token, err := reset.Issue(ResetPayload{Username: "rafa", PasswordVersion: "abc"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if session.Verify(token) != nil {
		t.Error("reset token accepted as session token")
	}
}

func TestResetTokenExpiry(t *testing.T) {
	issuer := NewResetIssuer("test-secret-at-least-16", -time.Minute)

	token, err := issuer.Issue(ResetPayload{Username: "rafa", PasswordVersion: "abc"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issuer.Verify(token) != nil {
		t.Error("expired reset token verified")
	}
}

func TestPasswordVersionChangesWithValue(t *testing.T) {
	a := PasswordVersion("old-password-hash")
	b := PasswordVersion("new-password-hash")
	if a == b {
		t.Error("different credentials produced the same version")
	}
	if len(a) != 24 {
		t.Errorf("version length = %d, want 24", len(a))
	}
	if a != PasswordVersion("old-password-hash") {
		t.Error("version is not deterministic")
	}
}
