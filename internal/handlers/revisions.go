package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Rafajb7/NutricionistWebPage/internal/cache"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/internal/services"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

const revisionCacheTTL = 45 * time.Second

func revisionsCacheKey(username string) string {
	return "revisions:" + utils.NormalizeUsername(username)
}

type submitRevisionRequest struct {
	Fecha   string                  `json:"fecha" validate:"required,datetime=2006-01-02"`
	Answers []models.RevisionAnswer `json:"answers" validate:"required,min=1,max=60,dive"`
}

type deleteRevisionRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// ListRevisions returns the user's revision entries, optionally
// filtered by exact date (?date=) and by a substring over question and
// answer (?q=). Filters apply to the cached full list, so they never
// cost an extra sheet read.
func ListRevisions(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	entries, err := cache.GetOrSet(r.Context(), store, revisionsCacheKey(session.Username), revisionCacheTTL,
		func() ([]models.RevisionEntry, error) {
			return revisions.List(r.Context(), session.Username)
		})
	if err != nil {
		log.Printf("list revisions failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudieron cargar las revisiones.")
		return
	}

	date := r.URL.Query().Get("date")
	q := strings.ToLower(r.URL.Query().Get("q"))

	filtered := make([]models.RevisionEntry, 0, len(entries))
	for _, entry := range entries {
		if date != "" && entry.Fecha != date {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(entry.Pregunta), q) &&
			!strings.Contains(strings.ToLower(entry.Respuesta), q) {
			continue
		}
		filtered = append(filtered, entry)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"revisions": filtered})
}

// SubmitRevision appends one row per answered question.
func SubmitRevision(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req submitRevisionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	rows := services.BuildRevisionRows(session.Name, utils.NormalizeUsername(session.Username), req.Fecha, req.Answers)
	if err := revisions.Submit(r.Context(), rows); err != nil {
		log.Printf("submit revision failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudo guardar la revisión.")
		return
	}

	store.Delete(r.Context(), revisionsCacheKey(session.Username))
	log.Printf("revision submitted: %s %s (%d rows)", session.Username, req.Fecha, len(rows))
	writeJSON(w, http.StatusCreated, map[string]interface{}{"ok": true, "count": len(rows)})
}

// DeleteRevision removes every row the user wrote for one date.
func DeleteRevision(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req deleteRevisionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	count, err := revisions.DeleteByDate(r.Context(), session.Username, req.Date)
	if err != nil {
		log.Printf("delete revision failed for %s: %v", session.Username, err)
		errorJSON(w, http.StatusInternalServerError, "No se pudieron borrar las revisiones.")
		return
	}
	if count == 0 {
		errorJSON(w, http.StatusNotFound, "No hay revisiones en esa fecha.")
		return
	}

	store.Delete(r.Context(), revisionsCacheKey(session.Username))
	log.Printf("revision rows deleted: %s %s (%d rows)", session.Username, req.Date, count)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "count": count})
}

// ListQuestions returns the revision question labels.
func ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := cache.GetOrSet(r.Context(), store, "questions", 10*time.Minute,
		func() ([]string, error) {
			return revisions.Questions(r.Context())
		})
	if err != nil {
		log.Printf("list questions failed: %v", err)
		errorJSON(w, http.StatusInternalServerError, "No se pudieron cargar las preguntas.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}
