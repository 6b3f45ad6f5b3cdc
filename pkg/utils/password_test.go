package utils

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("StrongPass123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !IsHashed(hash) {
		t.Fatalf("expected bcrypt prefix on %q", hash)
	}
	if !VerifyPassword("StrongPass123", hash, false) {
		t.Error("correct candidate rejected")
	}
	if VerifyPassword("WrongPass123", hash, false) {
		t.Error("wrong candidate accepted")
	}
}

func TestVerifyPasswordPlaintextGating(t *testing.T) {
	if VerifyPassword("1234", "1234", false) {
		t.Error("plaintext accepted with fallback disabled")
	}
	if !VerifyPassword("legacy-pass", "legacy-pass", true) {
		t.Error("plaintext rejected with fallback enabled")
	}
	if VerifyPassword("other", "legacy-pass", true) {
		t.Error("mismatched plaintext accepted")
	}
}

func TestIsHashed(t *testing.T) {
	for _, v := range []string{"$2a$12$abc", "$2b$10$abc", "$2y$12$abc"} {
		if !IsHashed(v) {
			t.Errorf("IsHashed(%q) = false", v)
		}
	}
	for _, v := range []string{"", "1234", "$argon2id$v=19$x", "2a$12$abc"} {
		if IsHashed(v) {
			t.Errorf("IsHashed(%q) = true", v)
		}
	}
}
