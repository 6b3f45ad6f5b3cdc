package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

// MigratePasswords hashes every legacy plaintext credential in the
// users sheet. One-shot migration job, gated by the admin token header
// rather than a session.
func MigratePasswords(w http.ResponseWriter, r *http.Request) {
	if cfg.AdminMigrationToken == "" {
		errorJSON(w, http.StatusServiceUnavailable, "Migración no disponible.")
		return
	}
	provided := r.Header.Get("X-Admin-Token")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.AdminMigrationToken)) != 1 {
		errorJSON(w, http.StatusForbidden, "Prohibido.")
		return
	}

	list, err := users.ReadUsers(r.Context())
	if err != nil {
		log.Printf("password migration: users sheet read failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "Server error.")
		return
	}

	migrated := 0
	skipped := 0
	for i := range list {
		user := &list[i]
		if user.Password == "" || utils.IsHashed(user.Password) {
			skipped++
			continue
		}
		hash, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Printf("password migration: hash failed for %s: %v", user.Username, err)
			errorJSON(w, http.StatusInternalServerError, "Server error.")
			return
		}
		if err := users.UpdatePasswordCell(r.Context(), user, hash); err != nil {
			log.Printf("password migration: cell update failed for %s: %v", user.Username, err)
			errorJSON(w, http.StatusInternalServerError, "La migración se detuvo a mitad; vuelve a lanzarla.")
			return
		}
		migrated++
	}

	log.Printf("password migration done: %d migrated, %d skipped", migrated, skipped)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "migrated": migrated, "skipped": skipped})
}
