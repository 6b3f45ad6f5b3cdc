package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/gsuite"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

// CompetitionInput is one competition registration.
type CompetitionInput struct {
	Date            string
	CompetitionName string
	WeighInTime     string
	Location        string
	Description     string
}

// CompetitionService stores competitions as events in a shared
// calendar. Owner attribution goes into private extended properties so
// listing can filter server-side without a visible field on the event.
type CompetitionService struct {
	client *gsuite.Client
	cfg    *config.Config
	now    func() time.Time
}

func NewCompetitionService(client *gsuite.Client, cfg *config.Config) *CompetitionService {
	return &CompetitionService{client: client, cfg: cfg, now: time.Now}
}

func (s *CompetitionService) calendarID() (string, error) {
	for _, candidate := range []string{s.cfg.CompetitionsCalendarID, s.cfg.SMTPFrom, s.cfg.SMTPUser} {
		if id := strings.TrimSpace(candidate); id != "" {
			return id, nil
		}
	}
	return "", errors.New("competition calendar id is missing")
}

func buildCompetitionDescription(username, name, weighInTime, description string) string {
	lines := []string{
		fmt.Sprintf("Usuario: %s (%s)", strings.TrimSpace(name), utils.DisplayUsername(username)),
		fmt.Sprintf("Hora del pesaje: %s", weighInTime),
	}
	if custom := strings.TrimSpace(description); custom != "" {
		lines = append(lines, "", "Descripcion: "+custom)
	}
	return strings.Join(lines, "\n")
}

func addDays(date string, days int) (string, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid competition date %q", date)
	}
	return parsed.AddDate(0, 0, days).Format("2006-01-02"), nil
}

func eventDate(start *calendar.EventDateTime) string {
	if start == nil {
		return ""
	}
	if start.Date != "" {
		return start.Date
	}
	if len(start.DateTime) >= 10 {
		return start.DateTime[:10]
	}
	return ""
}

func mapCompetitionEvent(event *calendar.Event) *models.CompetitionEvent {
	if event == nil {
		return nil
	}
	id := strings.TrimSpace(event.Id)
	date := eventDate(event.Start)
	if id == "" || date == "" {
		return nil
	}

	title := strings.TrimSpace(event.Summary)
	if title == "" {
		title = "Competicion"
	}
	return &models.CompetitionEvent{
		ID:          id,
		Title:       title,
		Date:        date,
		Location:    strings.TrimSpace(event.Location),
		Description: strings.TrimSpace(event.Description),
		CreatedAt:   strings.TrimSpace(event.Created),
	}
}

// Create registers a competition as an all-day event ending the next
// day, tagged with the owner in private extended properties.
func (s *CompetitionService) Create(ctx context.Context, username, name string, input CompetitionInput) (*models.CompetitionEvent, error) {
	calendarID, err := s.calendarID()
	if err != nil {
		return nil, err
	}
	endDate, err := addDays(input.Date, 1)
	if err != nil {
		return nil, err
	}

	created, err := s.client.Calendar.Events.Insert(calendarID, &calendar.Event{
		Summary:     strings.TrimSpace(input.CompetitionName),
		Location:    strings.TrimSpace(input.Location),
		Description: buildCompetitionDescription(username, name, input.WeighInTime, input.Description),
		Start:       &calendar.EventDateTime{Date: input.Date},
		End:         &calendar.EventDateTime{Date: endDate},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				"matUsername":    utils.NormalizeUsername(username),
				"matDisplayName": strings.TrimSpace(name),
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert competition event: %w", err)
	}

	mapped := mapCompetitionEvent(created)
	if mapped == nil {
		return nil, errors.New("could not parse created competition event")
	}
	return mapped, nil
}

// ListForUser returns the user's upcoming competitions, soonest first.
func (s *CompetitionService) ListForUser(ctx context.Context, username string) ([]models.CompetitionEvent, error) {
	calendarID, err := s.calendarID()
	if err != nil {
		return nil, err
	}

	midnight := s.now().Truncate(24 * time.Hour)
	res, err := s.client.Calendar.Events.List(calendarID).
		TimeMin(midnight.Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime").
		MaxResults(200).
		PrivateExtendedProperty("matUsername=" + utils.NormalizeUsername(username)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list competition events: %w", err)
	}

	events := make([]models.CompetitionEvent, 0, len(res.Items))
	for _, item := range res.Items {
		if mapped := mapCompetitionEvent(item); mapped != nil {
			events = append(events, *mapped)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date < events[j].Date
	})
	return events, nil
}

// CalendarErrorHint inspects an upstream calendar failure and returns a
// remediation hint worth showing an operator, or "" when the error
// carries nothing actionable.
func CalendarErrorHint(err error) string {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return ""
	}

	message := strings.ToLower(apiErr.Message)
	for _, item := range apiErr.Errors {
		if item.Reason == "accessNotConfigured" {
			return "La API de Google Calendar esta deshabilitada en el proyecto de la cuenta de servicio. Habilitala en la consola de Google Cloud."
		}
	}
	switch {
	case apiErr.Code == 403 && strings.Contains(message, "calendar"):
		return "La cuenta de servicio no tiene acceso al calendario. Compartelo con su direccion de correo."
	case apiErr.Code == 404:
		return "El calendario configurado no existe o el identificador es incorrecto."
	default:
		return ""
	}
}
