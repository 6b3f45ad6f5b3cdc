package handlers

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Rafajb7/NutricionistWebPage/internal/auth"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/clientip"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

const (
	loginAttemptLimit  = 8
	loginAttemptWindow = 15 * time.Minute
)

type loginRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
	Password string `json:"password" validate:"required,max=200"`
}

// shouldUseSecureCookie reports whether the session cookie gets the
// Secure attribute: direct TLS, or TLS terminated at a proxy that sets
// X-Forwarded-Proto.
func shouldUseSecureCookie(r *http.Request) bool {
	if proto := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Proto"), ",")[0]); strings.EqualFold(proto, "https") {
		return true
	}
	return r.TLS != nil
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   shouldUseSecureCookie(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Login verifies credentials against the users sheet and sets the
// session cookie. Failed and successful attempts both count against the
// per-IP window; the limiter never learns whether credentials matched.
func Login(w http.ResponseWriter, r *http.Request) {
	ip := clientip.RealClientIP(r)
	allowed, retryAfter := loginLimiter.Check("login:"+ip, loginAttemptLimit, loginAttemptWindow)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		errorJSON(w, http.StatusTooManyRequests, "Demasiados intentos. Prueba más tarde.")
		return
	}

	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	user, err := users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("login: users sheet read failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if user == nil || !utils.VerifyPassword(req.Password, user.Password, cfg.AllowPlaintextPasswords) {
		errorJSON(w, http.StatusUnauthorized, "Credenciales inválidas.")
		return
	}

	// A login that only succeeded through the plaintext fallback forces
	// the user through a password change, which rewrites the cell as a
	// bcrypt hash and completes the migration for that row.
	mustChange := !utils.IsHashed(user.Password)

	token, err := tokens.Issue(models.SessionUser{
		Username:           utils.NormalizeUsername(user.Username),
		Name:               user.Name,
		MustChangePassword: mustChange,
	})
	if err != nil {
		log.Printf("login: token issue failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}

	setSessionCookie(w, r, token, int(tokens.TTL().Seconds()))
	log.Printf("user logged in: %s", user.Username)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"user": models.SessionUser{
			Username:           user.Username,
			Name:               user.Name,
			MustChangePassword: mustChange,
		},
	})
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; statelessness means there is nothing server-side to revoke.
func Logout(w http.ResponseWriter, r *http.Request) {
	setSessionCookie(w, r, "", -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Session returns the identity carried by the current token.
func Session(w http.ResponseWriter, r *http.Request) {
	user := middleware.SessionUser(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
