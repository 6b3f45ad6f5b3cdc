package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rafajb7/NutricionistWebPage/internal/models"
)

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "mat_session"

type sessionClaims struct {
	Username           string `json:"username"`
	Name               string `json:"name"`
	MustChangePassword bool   `json:"mustChangePassword,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates the stateless session credential.
// Tokens are HS256-signed and carry identity plus the must-change-
// password flag; there is no server-side session table, so a token is
// only ever invalidated by expiry or by the cookie being cleared.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime (also the cookie MaxAge).
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the given identity with the configured TTL.
func (i *TokenIssuer) Issue(user models.SessionUser) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username:           user.Username,
		Name:               user.Name,
		MustChangePassword: user.MustChangePassword,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify checks signature and expiry and returns the identity, or nil on
// any failure. Callers treat nil exactly like a missing token: an
// expired credential is indistinguishable from a tampered one.
func (i *TokenIssuer) Verify(token string) *models.SessionUser {
	if token == "" {
		return nil
	}
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	if claims.Username == "" || claims.Name == "" {
		return nil
	}
	return &models.SessionUser{
		Username:           claims.Username,
		Name:               claims.Name,
		MustChangePassword: claims.MustChangePassword,
	}
}
