package handlers

import (
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rafajb7/NutricionistWebPage/internal/cache"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

const achievementsCacheTTL = 45 * time.Second

func achievementsCacheKey(username string) string {
	return "achievements:" + utils.NormalizeUsername(username)
}

type achievementsPayload struct {
	Marks []models.StrengthMark `json:"marks"`
	Goals []models.StrengthGoal `json:"goals"`
}

type createMarkRequest struct {
	Exercise string  `json:"exercise" validate:"required"`
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	WeightKg float64 `json:"weightKg" validate:"required,gt=0,max=1500"`
}

type upsertGoalRequest struct {
	Exercise       string  `json:"exercise" validate:"required"`
	TargetDate     string  `json:"targetDate" validate:"required,datetime=2006-01-02"`
	TargetWeightKg float64 `json:"targetWeightKg" validate:"required,gt=0,max=1500"`
}

// ListAchievements returns the user's marks and goals, fetched in
// parallel since they live in separate worksheets.
func ListAchievements(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	payload, err := cache.GetOrSet(r.Context(), store, achievementsCacheKey(session.Username), achievementsCacheTTL,
		func() (achievementsPayload, error) {
			var out achievementsPayload
			g, gctx := errgroup.WithContext(r.Context())
			g.Go(func() error {
				marks, err := achievements.ListMarks(gctx, session.Username)
				out.Marks = marks
				return err
			})
			g.Go(func() error {
				goals, err := achievements.ListGoals(gctx, session.Username)
				out.Goals = goals
				return err
			})
			return out, g.Wait()
		})
	if err != nil {
		log.Printf("list achievements failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudieron cargar las marcas.")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// CreateMark records a new personal record.
func CreateMark(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req createMarkRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}
	if !models.IsStrengthExercise(req.Exercise) {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	if err := achievements.AppendMark(r.Context(), session.Name, session.Username, req.Exercise, req.Date, req.WeightKg); err != nil {
		log.Printf("create mark failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo guardar la marca.")
		return
	}

	store.Delete(r.Context(), achievementsCacheKey(session.Username))
	log.Printf("mark recorded: %s %s %s", session.Username, req.Exercise, req.Date)
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

// UpsertGoal creates or overwrites the goal for (exercise, targetDate).
func UpsertGoal(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req upsertGoalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}
	if !models.IsStrengthExercise(req.Exercise) {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	if err := achievements.UpsertGoal(r.Context(), session.Name, session.Username, req.Exercise, req.TargetDate, req.TargetWeightKg); err != nil {
		log.Printf("upsert goal failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo guardar el objetivo.")
		return
	}

	store.Delete(r.Context(), achievementsCacheKey(session.Username))
	log.Printf("goal upserted: %s %s %s", session.Username, req.Exercise, req.TargetDate)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
