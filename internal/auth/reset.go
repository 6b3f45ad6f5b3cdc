package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetPayload is what a valid password-reset token proves: who it is
// for, and a fingerprint of the credential that was current when the
// token was minted. If the password changes before redemption the
// fingerprint no longer matches and the token is implicitly dead.
type ResetPayload struct {
	Username        string
	PasswordVersion string
}

type resetClaims struct {
	Username        string `json:"username"`
	PasswordVersion string `json:"passwordVersion"`
	jwt.RegisteredClaims
}

// ResetIssuer mints short-lived password-reset tokens. The signing key
// is derived from the session secret so the two token kinds can never
// validate each other.
type ResetIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewResetIssuer(sessionSecret string, ttl time.Duration) *ResetIssuer {
	return &ResetIssuer{secret: []byte(sessionSecret + ":password-reset"), ttl: ttl}
}

// PasswordVersion fingerprints a stored credential value.
func PasswordVersion(stored string) string {
	sum := sha256.Sum256([]byte(stored))
	return hex.EncodeToString(sum[:])[:24]
}

func (i *ResetIssuer) Issue(payload ResetPayload) (string, error) {
	now := time.Now()
	claims := resetClaims{
		Username:        payload.Username,
		PasswordVersion: payload.PasswordVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify returns the payload or nil; expired, tampered and structurally
// broken tokens are all just nil.
func (i *ResetIssuer) Verify(token string) *ResetPayload {
	if token == "" {
		return nil
	}
	var claims resetClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	if claims.Username == "" || claims.PasswordVersion == "" {
		return nil
	}
	return &ResetPayload{
		Username:        claims.Username,
		PasswordVersion: claims.PasswordVersion,
	}
}
