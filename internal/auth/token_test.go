package auth

import (
	"testing"
	"time"

	"github.com/Rafajb7/NutricionistWebPage/internal/models"
)

func TestIssueAndVerifySessionToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)

	token, err := issuer.Issue(models.SessionUser{Username: "rafa", Name: "Rafa"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got := issuer.Verify(token)
	if got == nil {
		t.Fatal("fresh token did not verify")
	}
	if got.Username != "rafa" || got.Name != "Rafa" || got.MustChangePassword {
		t.Errorf("unexpected identity: %+v", got)
	}
}

func TestVerifyCarriesMustChangePassword(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)

	token, err := issuer.Issue(models.SessionUser{
		Username:           "rafa",
		Name:               "Rafa",
		MustChangePassword: true,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got := issuer.Verify(token)
	if got == nil || !got.MustChangePassword {
		t.Fatalf("must-change flag lost: %+v", got)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", -time.Minute)

	token, err := issuer.Issue(models.SessionUser{Username: "rafa", Name: "Rafa"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issuer.Verify(token) != nil {
		t.Error("expired token verified")
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)

	token, err := issuer.Issue(models.SessionUser{Username: "rafa", Name: "Rafa"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip one bit in the signature segment.
	raw := []byte(token)
	raw[len(raw)-1] ^= 0x01
	if issuer.Verify(string(raw)) != nil {
		t.Error("tampered token verified")
	}
}

func TestVerifyWrongSecretAndGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret-at-least-16", time.Hour)
	other := NewTokenIssuer("another-secret-entirely", time.Hour)

	token, err := other.Issue(models.SessionUser{Username: "rafa", Name: "Rafa"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issuer.Verify(token) != nil {
		t.Error("token signed with another secret verified")
	}
	if issuer.Verify("") != nil || issuer.Verify("not.a.jwt") != nil {
		t.Error("structurally invalid token verified")
	}
}
