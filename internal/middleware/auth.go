package middleware

import (
	"context"
	"net/http"

	"github.com/Rafajb7/NutricionistWebPage/internal/auth"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
)

type contextKey string

const sessionUserKey contextKey = "sessionUser"

// passwordChangePaths stay reachable while a password change is
// pending; everything else behind RequireSession is rejected until the
// user clears the flag.
var passwordChangePaths = map[string]bool{
	"/api/session":         true,
	"/api/password/change": true,
}

// SessionUser returns the authenticated identity stored by
// RequireSession, or nil outside a protected route.
func SessionUser(r *http.Request) *models.SessionUser {
	user, _ := r.Context().Value(sessionUserKey).(*models.SessionUser)
	return user
}

// RequireSession authenticates the session cookie and injects the
// identity into the request context. Missing, malformed, tampered and
// expired tokens are all the same condition: unauthenticated.
func RequireSession(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthenticated(w)
				return
			}

			user := issuer.Verify(cookie.Value)
			if user == nil {
				unauthenticated(w)
				return
			}

			if user.MustChangePassword && !passwordChangePaths[r.URL.Path] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"Debes cambiar tu contraseña.","code":"password_change_required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), sessionUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"No autenticado."}`))
}
