package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the work factor already used by the hashes stored in
// the users sheet. Changing it only affects newly written hashes.
const BcryptCost = 12

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsHashed reports whether a stored credential is already a bcrypt hash,
// as opposed to a legacy plaintext cell that has not been migrated yet.
func IsHashed(value string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// VerifyPassword checks a candidate secret against the stored credential.
// Hashed credentials are compared with bcrypt. Plaintext credentials only
// match when allowPlaintextFallback is set (pre-migration data); with the
// fallback disabled a plaintext row can never log in.
func VerifyPassword(candidate, stored string, allowPlaintextFallback bool) bool {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	if !allowPlaintextFallback {
		return false
	}
	return candidate == stored
}
