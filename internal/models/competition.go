package models

// CompetitionEvent is a calendar event registered for a user. The id is
// the calendar's own event id; owner attribution lives in private
// extended properties on the event, not in any visible field.
type CompetitionEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"` // ISO day
	Location    string `json:"location"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}
