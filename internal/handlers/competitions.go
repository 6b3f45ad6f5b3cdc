package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/Rafajb7/NutricionistWebPage/internal/cache"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/internal/services"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

const competitionsCacheTTL = 60 * time.Second

func competitionsCacheKey(username string) string {
	return "competitions:" + utils.NormalizeUsername(username)
}

type createCompetitionRequest struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	CompetitionName string `json:"competitionName" validate:"required,min=2,max=200"`
	WeighInTime     string `json:"weighInTime" validate:"required,datetime=15:04"`
	Location        string `json:"location" validate:"required,min=2,max=300"`
	Description     string `json:"description" validate:"max=1000"`
}

// ListCompetitions returns the user's upcoming competitions. Calendar
// trouble degrades to an empty list with a warning instead of failing
// the dashboard that embeds it.
func ListCompetitions(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	events, err := cache.GetOrSet(r.Context(), store, competitionsCacheKey(session.Username), competitionsCacheTTL,
		func() ([]models.CompetitionEvent, error) {
			return competitions.ListForUser(r.Context(), session.Username)
		})
	if err != nil {
		log.Printf("list competitions failed for %s: %v", session.Username, err)
		warning := "No se pudieron cargar las competiciones."
		if hint := services.CalendarErrorHint(err); hint != "" {
			warning = warning + " " + hint
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"competitions": []models.CompetitionEvent{},
			"warning":      warning,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"competitions": events})
}

// CreateCompetition registers a competition in the calendar.
func CreateCompetition(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionUser(r)

	var req createCompetitionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid payload.")
		return
	}

	event, err := competitions.Create(r.Context(), session.Username, session.Name, services.CompetitionInput{
		Date:            req.Date,
		CompetitionName: req.CompetitionName,
		WeighInTime:     req.WeighInTime,
		Location:        req.Location,
		Description:     req.Description,
	})
	if err != nil {
		log.Printf("create competition failed for %s: %v", session.Username, err)
		message := "No se pudo registrar la competición."
		if hint := services.CalendarErrorHint(err); hint != "" {
			message = message + " " + hint
		}
		errorJSON(w, http.StatusBadGateway, message)
		return
	}

	store.Delete(r.Context(), competitionsCacheKey(session.Username))
	log.Printf("competition created: %s %s %s", session.Username, event.Date, event.Title)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"ok": true, "competition": event})
}
