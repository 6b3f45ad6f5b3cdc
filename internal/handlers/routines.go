package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/Rafajb7/NutricionistWebPage/internal/cache"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

const routineCacheTTL = 45 * time.Second

func routineLogsCacheKey(username string) string {
	return "routine-logs:" + utils.NormalizeUsername(username)
}

type createRoutineRequest struct {
	SessionDate string                `json:"sessionDate" validate:"required,datetime=2006-01-02"`
	Day         string                `json:"day" validate:"required,max=120"`
	Entries     []models.RoutineEntry `json:"entries" validate:"required,min=1,max=60,dive"`
}

type replaceRoutineRequest struct {
	Target      models.RoutineSessionTarget `json:"target" validate:"required"`
	SessionDate string                      `json:"sessionDate" validate:"required,datetime=2006-01-02"`
	Day         string                      `json:"day" validate:"required,max=120"`
	Entries     []models.RoutineEntry       `json:"entries" validate:"required,min=1,max=60,dive"`
}

type deleteRoutineRequest struct {
	Target models.RoutineSessionTarget `json:"target" validate:"required"`
}

// ListRoutineLogs returns the user's log rows, newest session first.
func ListRoutineLogs(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	rows, err := cache.GetOrSet(r.Context(), store, routineLogsCacheKey(session.Username), routineCacheTTL,
		func() ([]models.RoutineLogRow, error) {
			return routines.List(r.Context(), session.Username)
		})
	if err != nil {
		log.Printf("list routine logs failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo cargar el registro.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": rows})
}

// CreateRoutineSession appends the session rows under a fresh
// timestamp, which becomes the session's identity for later edits.
func CreateRoutineSession(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req createRoutineRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	timestamp, count, err := routines.Create(r.Context(), session.Username, session.Name, req.SessionDate, req.Day, req.Entries)
	if err != nil {
		log.Printf("create routine session failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo guardar la sesión.")
		return
	}

	store.Delete(r.Context(), routineLogsCacheKey(session.Username))
	log.Printf("routine session created: %s %s %q (%d rows)", session.Username, req.SessionDate, req.Day, count)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"ok": true, "timestamp": timestamp, "count": count})
}

// ReplaceRoutineSession rewrites the rows of the session identified by
// the composite-key target. Editing a session that no longer exists is
// a 404, never a silent create.
func ReplaceRoutineSession(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req replaceRoutineRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	count, err := routines.ReplaceSession(r.Context(), session.Username, session.Name, req.Target, req.SessionDate, req.Day, req.Entries)
	if err != nil {
		log.Printf("replace routine session failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo actualizar la sesión.")
		return
	}
	if count == 0 {
		errorJSON(w, http.StatusNotFound, "La sesión no existe.")
		return
	}

	store.Delete(r.Context(), routineLogsCacheKey(session.Username))
	log.Printf("routine session replaced: %s %s (%d rows)", session.Username, req.Target.Timestamp, count)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "count": count})
}

// DeleteRoutineSession removes the rows of the targeted session.
func DeleteRoutineSession(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req deleteRoutineRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	count, err := routines.DeleteSession(r.Context(), session.Username, req.Target)
	if err != nil {
		log.Printf("delete routine session failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo borrar la sesión.")
		return
	}
	if count == 0 {
		errorJSON(w, http.StatusNotFound, "La sesión no existe.")
		return
	}

	store.Delete(r.Context(), routineLogsCacheKey(session.Username))
	log.Printf("routine session deleted: %s %s (%d rows)", session.Username, req.Target.Timestamp, count)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "count": count})
}

// ListExercises returns the exercise catalog for the routine form.
func ListExercises(w http.ResponseWriter, r *http.Request) {
	groups, err := cache.GetOrSet(r.Context(), store, "exercise-catalog", 10*time.Minute,
		func() ([]models.ExerciseGroup, error) {
			return catalog.Groups(r.Context()), nil
		})
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "No se pudo cargar el catálogo.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"groups": groups})
}
