package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rafajb7/NutricionistWebPage/internal/auth"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
)

func protectedHandler(t *testing.T, sawUser **models.SessionUser) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawUser = SessionUser(r)
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithCookie(path, token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	}
	return r
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	var saw *models.SessionUser
	handler := RequireSession(issuer)(protectedHandler(t, &saw))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithCookie("/api/revisions", ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if saw != nil {
		t.Fatal("handler ran without a session")
	}
}

func TestRequireSessionRejectsTamperedToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	other := auth.NewTokenIssuer("other-secret", time.Hour)
	token, err := other.Issue(models.SessionUser{Username: "ana", Name: "Ana"})
	if err != nil {
		t.Fatal(err)
	}

	var saw *models.SessionUser
	handler := RequireSession(issuer)(protectedHandler(t, &saw))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithCookie("/api/revisions", token))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSessionInjectsIdentity(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(models.SessionUser{Username: "ana", Name: "Ana"})
	if err != nil {
		t.Fatal(err)
	}

	var saw *models.SessionUser
	handler := RequireSession(issuer)(protectedHandler(t, &saw))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithCookie("/api/revisions", token))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if saw == nil || saw.Username != "ana" || saw.Name != "Ana" {
		t.Fatalf("session user = %+v", saw)
	}
}

func TestRequireSessionBlocksWhilePasswordChangePending(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(models.SessionUser{Username: "ana", Name: "Ana", MustChangePassword: true})
	if err != nil {
		t.Fatal(err)
	}

	var saw *models.SessionUser
	handler := RequireSession(issuer)(protectedHandler(t, &saw))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithCookie("/api/revisions", token))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "password_change_required") {
		t.Fatalf("body = %q, want password_change_required code", rec.Body.String())
	}

	// The two escape hatches stay open.
	for _, path := range []string{"/api/session", "/api/password/change"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithCookie(path, token))
		if rec.Code != http.StatusOK {
			t.Fatalf("status for %s = %d, want 200", path, rec.Code)
		}
	}
}
