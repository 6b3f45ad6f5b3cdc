package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/gsuite"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

// RevisionService reads and mutates the revision worksheet. A row is
// one (date, question) answer; a logical "revision" is every row a user
// wrote for one date, so deletion is always a bulk (username, date)
// match rather than a single-row operation.
type RevisionService struct {
	client *gsuite.Client
	cfg    *config.Config
}

func NewRevisionService(client *gsuite.Client, cfg *config.Config) *RevisionService {
	return &RevisionService{client: client, cfg: cfg}
}

type revisionRecord struct {
	Position int // 1-based sheet row
	Row      models.RevisionRow
}

// parseRevisionRecords maps data rows (read from A2:E) to records
// tagged with their sheet position.
func parseRevisionRecords(values [][]string) []revisionRecord {
	records := make([]revisionRecord, 0, len(values))
	for i, row := range values {
		records = append(records, revisionRecord{
			Position: i + 2,
			Row: models.RevisionRow{
				Nombre:    gsuite.Cell(row, 0),
				Fecha:     strings.TrimSpace(gsuite.Cell(row, 1)),
				Usuario:   gsuite.Cell(row, 2),
				Pregunta:  gsuite.Cell(row, 3),
				Respuesta: gsuite.Cell(row, 4),
			},
		})
	}
	return records
}

func revisionsForUser(records []revisionRecord, username string) []revisionRecord {
	var out []revisionRecord
	for _, rec := range records {
		if utils.SameUsername(rec.Row.Usuario, username) {
			out = append(out, rec)
		}
	}
	return out
}

func revisionPositionsForDate(records []revisionRecord, username, date string) []int {
	var positions []int
	for _, rec := range revisionsForUser(records, username) {
		if rec.Row.Fecha == strings.TrimSpace(date) {
			positions = append(positions, rec.Position)
		}
	}
	return positions
}

// BuildRevisionRows expands one submit into its per-question rows.
func BuildRevisionRows(name, username, date string, answers []models.RevisionAnswer) []models.RevisionRow {
	rows := make([]models.RevisionRow, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, models.RevisionRow{
			Nombre:    name,
			Fecha:     date,
			Usuario:   username,
			Pregunta:  a.Pregunta,
			Respuesta: a.Respuesta,
		})
	}
	return rows
}

// ToRevisionEntry attaches the extracted image URL to a row.
func ToRevisionEntry(row models.RevisionRow) models.RevisionEntry {
	return models.RevisionEntry{
		RevisionRow: row,
		ImageURL:    ExtractImageURL(row.Respuesta),
	}
}

func (s *RevisionService) readRecords(ctx context.Context) (string, string, []revisionRecord, error) {
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.cfg.RevisionSheetName)
	if err != nil {
		return "", "", nil, err
	}
	worksheet := s.cfg.RevisionWorksheetName

	// FORMULA render keeps =IMAGE(...) cells intact so the image URL
	// can be extracted instead of reading an empty formatted value.
	values, err := s.client.Values(ctx, spreadsheetID, fmt.Sprintf("'%s'!A2:E", worksheet), &gsuite.ValueOptions{
		ValueRender:    "FORMULA",
		DateTimeRender: "FORMATTED_STRING",
	})
	if err != nil {
		return "", "", nil, err
	}
	return spreadsheetID, worksheet, parseRevisionRecords(values), nil
}

// List returns the user's revision entries, newest date first.
func (s *RevisionService) List(ctx context.Context, username string) ([]models.RevisionEntry, error) {
	_, _, records, err := s.readRecords(ctx)
	if err != nil {
		return nil, err
	}

	matched := revisionsForUser(records, username)
	entries := make([]models.RevisionEntry, 0, len(matched))
	for _, rec := range matched {
		entries = append(entries, ToRevisionEntry(rec.Row))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Fecha > entries[j].Fecha
	})
	return entries, nil
}

// Submit appends the rows of one revision in a single call.
func (s *RevisionService) Submit(ctx context.Context, rows []models.RevisionRow) error {
	if len(rows) == 0 {
		return nil
	}
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.cfg.RevisionSheetName)
	if err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, []interface{}{row.Nombre, row.Fecha, row.Usuario, row.Pregunta, row.Respuesta})
	}
	return s.client.Append(ctx, spreadsheetID, fmt.Sprintf("'%s'!A:E", s.cfg.RevisionWorksheetName), values)
}

// DeleteByDate removes every row the user wrote for the given date and
// returns how many were removed. Zero means nothing matched; callers
// map that to not-found.
func (s *RevisionService) DeleteByDate(ctx context.Context, username, date string) (int, error) {
	spreadsheetID, worksheet, records, err := s.readRecords(ctx)
	if err != nil {
		return 0, err
	}

	positions := revisionPositionsForDate(records, username, date)
	if len(positions) == 0 {
		return 0, nil
	}
	if err := s.client.DeleteRows(ctx, spreadsheetID, worksheet, positions); err != nil {
		return 0, err
	}
	return len(positions), nil
}

// Questions reads the revision question labels from column A of the
// questions sheet.
func (s *RevisionService) Questions(ctx context.Context) ([]string, error) {
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.cfg.QuestionsSheetName)
	if err != nil {
		return nil, err
	}
	worksheet, err := s.client.FirstWorksheetTitle(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}

	values, err := s.client.Values(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1:A", worksheet), nil)
	if err != nil {
		return nil, err
	}

	var questions []string
	for _, row := range values {
		if q := strings.TrimSpace(gsuite.Cell(row, 0)); q != "" {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
