package handlers

import (
	"log"
	"net/http"

	"github.com/Rafajb7/NutricionistWebPage/internal/auth"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/internal/services"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,max=200"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=200"`
}

type forgotPasswordRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=200"`
}

// ChangePassword rewrites the user's password cell and re-issues the
// session with the must-change flag cleared. This endpoint stays
// reachable while a change is pending; it is the only way out of that
// state.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req changePasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	user, err := users.FindByUsername(r.Context(), session.Username)
	if err != nil {
		log.Printf("change password: users sheet read failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if user == nil {
		// The token outlived the user row. Treat as unauthenticated.
		errorJSON(w, http.StatusUnauthorized, "No autenticado.")
		return
	}

	if !utils.VerifyPassword(req.CurrentPassword, user.Password, cfg.AllowPlaintextPasswords) {
		errorJSON(w, http.StatusUnauthorized, "Credenciales inválidas.")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if err := users.UpdatePasswordCell(r.Context(), user, hash); err != nil {
		log.Printf("change password: cell update failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo guardar la contraseña.")
		return
	}

	token, err := tokens.Issue(models.SessionUser{
		Username: utils.NormalizeUsername(user.Username),
		Name:     user.Name,
	})
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}
	setSessionCookie(w, r, token, int(tokens.TTL().Seconds()))
	log.Printf("password changed: %s", user.Username)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ForgotPassword mints a reset token bound to the current credential
// and mails the link. The response never reveals whether the username
// exists.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	genericOK := map[string]interface{}{
		"ok":      true,
		"message": "Si la cuenta existe, recibirás un correo con instrucciones.",
	}

	user, err := users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("forgot password: users sheet read failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if user == nil || user.Email == "" {
		writeJSON(w, http.StatusOK, genericOK)
		return
	}

	token, err := resetTokens.Issue(auth.ResetPayload{
		Username:        utils.NormalizeUsername(user.Username),
		PasswordVersion: auth.PasswordVersion(user.Password),
	})
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}
	resetURL := cfg.AppBaseURL + "/password/reset?token=" + token

	if !mailer.IsConfigured() {
		if cfg.IsProduction() {
			log.Printf("forgot password: smtp not configured, reset link for %s not delivered", user.Username)
			writeJSON(w, http.StatusOK, genericOK)
			return
		}
		// Development convenience: hand the link back instead of
		// requiring a local mail server.
		log.Printf("forgot password (dev): reset link for %s: %s", user.Username, resetURL)
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "resetUrl": resetURL})
		return
	}

	if err := mailer.SendPasswordReset(user.Email, user.Name, resetURL); err != nil {
		log.Printf("forgot password: mail send failed: %v", err)
		message := "No se pudo enviar el correo."
		if hint := services.SMTPErrorHint(err); hint != "" {
			message = message + " " + hint
		}
		errorJSON(w, http.StatusBadGateway, message)
		return
	}

	log.Printf("password reset mail sent: %s", user.Username)
	writeJSON(w, http.StatusOK, genericOK)
}

// ResetPassword redeems a reset token. The token carries a fingerprint
// of the credential it was minted against, so it dies implicitly the
// moment the password changes by any other path.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	payload := resetTokens.Verify(req.Token)
	if payload == nil {
		errorJSON(w, http.StatusBadRequest, "El enlace no es válido o ha caducado.")
		return
	}

	user, err := users.FindByUsername(r.Context(), payload.Username)
	if err != nil {
		log.Printf("reset password: users sheet read failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if user == nil || auth.PasswordVersion(user.Password) != payload.PasswordVersion {
		errorJSON(w, http.StatusBadRequest, "El enlace no es válido o ha caducado.")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}
	if err := users.UpdatePasswordCell(r.Context(), user, hash); err != nil {
		log.Printf("reset password: cell update failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo guardar la contraseña.")
		return
	}

	log.Printf("password reset redeemed: %s", user.Username)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
