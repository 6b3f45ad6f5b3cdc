package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Rafajb7/NutricionistWebPage/internal/auth"
	"github.com/Rafajb7/NutricionistWebPage/internal/cache"
	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/services"
)

// Package-level collaborators, wired once from main before the router
// starts serving.
var (
	cfg          *config.Config
	store        cache.Cache
	tokens       *auth.TokenIssuer
	resetTokens  *auth.ResetIssuer
	loginLimiter *auth.RateLimiter
	users        *services.UserService
	revisions    *services.RevisionService
	routines     *services.RoutineService
	catalog      *services.CatalogService
	achievements *services.AchievementService
	competitions *services.CompetitionService
	driveFiles   *services.DriveService
	mailer       *services.EmailService

	validate = validator.New()
)

// Deps bundles everything the handlers need.
type Deps struct {
	Config       *config.Config
	Cache        cache.Cache
	Tokens       *auth.TokenIssuer
	ResetTokens  *auth.ResetIssuer
	Users        *services.UserService
	Revisions    *services.RevisionService
	Routines     *services.RoutineService
	Catalog      *services.CatalogService
	Achievements *services.AchievementService
	Competitions *services.CompetitionService
	Drive        *services.DriveService
	Mailer       *services.EmailService
}

func Init(deps Deps) {
	cfg = deps.Config
	store = deps.Cache
	tokens = deps.Tokens
	resetTokens = deps.ResetTokens
	loginLimiter = auth.NewRateLimiter()
	users = deps.Users
	revisions = deps.Revisions
	routines = deps.Routines
	catalog = deps.Catalog
	achievements = deps.Achievements
	competitions = deps.Competitions
	driveFiles = deps.Drive
	mailer = deps.Mailer
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeAndValidate decodes the JSON body into dst and runs the
// validator tags. Both failure modes are the caller's generic 400.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}
