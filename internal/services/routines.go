package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/gsuite"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

// RowStore is the slice of the tabular store the routine engine needs:
// scan everything, append at the end, delete by position. The store has
// no update-by-key primitive and no stable row ids, which is what the
// engine works around.
type RowStore interface {
	// ReadRows returns the data rows in store order. The first returned
	// row sits at sheet position 2 (position 1 is the header).
	ReadRows(ctx context.Context) ([][]string, error)
	AppendRows(ctx context.Context, values [][]interface{}) error
	// DeleteRows removes the given 1-based positions. Positions must be
	// passed highest-first: the store applies deletes sequentially and
	// every delete shifts the rows below it up by one.
	DeleteRows(ctx context.Context, positions []int) error
}

// sheetRowStore binds the RowStore surface to one worksheet.
type sheetRowStore struct {
	client    *gsuite.Client
	sheetName string
	worksheet string
}

func (s *sheetRowStore) ReadRows(ctx context.Context) ([][]string, error) {
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.sheetName)
	if err != nil {
		return nil, err
	}
	return s.client.Values(ctx, spreadsheetID, fmt.Sprintf("'%s'!A2:J", s.worksheet), &gsuite.ValueOptions{
		DateTimeRender: "FORMATTED_STRING",
	})
}

func (s *sheetRowStore) AppendRows(ctx context.Context, values [][]interface{}) error {
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.sheetName)
	if err != nil {
		return err
	}
	return s.client.Append(ctx, spreadsheetID, fmt.Sprintf("'%s'!A:J", s.worksheet), values)
}

func (s *sheetRowStore) DeleteRows(ctx context.Context, positions []int) error {
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.sheetName)
	if err != nil {
		return err
	}
	return s.client.DeleteRows(ctx, spreadsheetID, s.worksheet, positions)
}

// RoutineService implements session semantics over the routine log
// worksheet. A "session" is every row sharing the composite key
// (timestamp, session date, day label); the timestamp is minted once
// per submit and reused across edits so the session keeps its identity.
type RoutineService struct {
	store RowStore
	now   func() time.Time
}

func NewRoutineService(client *gsuite.Client, cfg *config.Config) *RoutineService {
	return &RoutineService{
		store: &sheetRowStore{
			client:    client,
			sheetName: cfg.RoutineSheetName,
			worksheet: cfg.RoutineWorksheetName,
		},
		now: time.Now,
	}
}

type routineRecord struct {
	Position int
	Row      models.RoutineLogRow
}

func parseRoutineRecords(values [][]string) []routineRecord {
	records := make([]routineRecord, 0, len(values))
	for i, row := range values {
		reps, _ := strconv.Atoi(strings.TrimSpace(gsuite.Cell(row, 7)))
		records = append(records, routineRecord{
			Position: i + 2,
			Row: models.RoutineLogRow{
				Timestamp:   strings.TrimSpace(gsuite.Cell(row, 0)),
				Nombre:      gsuite.Cell(row, 1),
				Usuario:     gsuite.Cell(row, 2),
				SessionDate: strings.TrimSpace(gsuite.Cell(row, 3)),
				Day:         strings.TrimSpace(gsuite.Cell(row, 4)),
				MuscleGroup: gsuite.Cell(row, 5),
				Exercise:    gsuite.Cell(row, 6),
				Reps:        reps,
				WeightKg:    parseDecimal(gsuite.Cell(row, 8)),
				Notes:       gsuite.Cell(row, 9),
			},
		})
	}
	return records
}

// parseDecimal reads a sheet number cell, tolerating the comma decimal
// separator Spanish locales write.
func parseDecimal(value string) *float64 {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if normalized == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// matchSession applies the composite-key filter: rows owned by any
// variant of the username whose (timestamp, sessionDate, day) equals
// the target after trimming. Empty and missing cells compare equal.
func matchSession(records []routineRecord, username string, target models.RoutineSessionTarget) []routineRecord {
	var out []routineRecord
	for _, rec := range records {
		if !utils.SameUsername(rec.Row.Usuario, username) {
			continue
		}
		if rec.Row.Timestamp != strings.TrimSpace(target.Timestamp) {
			continue
		}
		if rec.Row.SessionDate != strings.TrimSpace(target.SessionDate) {
			continue
		}
		if rec.Row.Day != strings.TrimSpace(target.Day) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func descendingPositions(records []routineRecord) []int {
	positions := make([]int, 0, len(records))
	for _, rec := range records {
		positions = append(positions, rec.Position)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	return positions
}

func routineRowValues(timestamp, name, username, sessionDate, day string, entries []models.RoutineEntry) [][]interface{} {
	values := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		var weight interface{} = ""
		if e.WeightKg != nil {
			weight = *e.WeightKg
		}
		values = append(values, []interface{}{
			timestamp, name, username, sessionDate, day,
			e.MuscleGroup, e.Exercise, e.Reps, weight, e.Notes,
		})
	}
	return values
}

// List returns the user's log rows, newest session first.
func (s *RoutineService) List(ctx context.Context, username string) ([]models.RoutineLogRow, error) {
	values, err := s.store.ReadRows(ctx)
	if err != nil {
		return nil, err
	}

	var rows []models.RoutineLogRow
	for _, rec := range parseRoutineRecords(values) {
		if utils.SameUsername(rec.Row.Usuario, username) {
			rows = append(rows, rec.Row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SessionDate != rows[j].SessionDate {
			return rows[i].SessionDate > rows[j].SessionDate
		}
		return rows[i].Timestamp > rows[j].Timestamp
	})
	return rows, nil
}

// Create appends a new session and returns its minted timestamp.
func (s *RoutineService) Create(ctx context.Context, username, name, sessionDate, day string, entries []models.RoutineEntry) (string, int, error) {
	timestamp := s.now().UTC().Format("2006-01-02T15:04:05.000Z")
	values := routineRowValues(timestamp, name, utils.NormalizeUsername(username), sessionDate, day, entries)
	if err := s.store.AppendRows(ctx, values); err != nil {
		return "", 0, err
	}
	return timestamp, len(values), nil
}

// DeleteSession removes every row of the target session and returns the
// removed count; zero means the composite key matched nothing.
func (s *RoutineService) DeleteSession(ctx context.Context, username string, target models.RoutineSessionTarget) (int, error) {
	values, err := s.store.ReadRows(ctx)
	if err != nil {
		return 0, err
	}

	matched := matchSession(parseRoutineRecords(values), username, target)
	if len(matched) == 0 {
		return 0, nil
	}
	if err := s.store.DeleteRows(ctx, descendingPositions(matched)); err != nil {
		return 0, err
	}
	return len(matched), nil
}

// ReplaceSession rewrites the target session with new entries. It
// asserts the target exists before touching anything: replacing a
// nonexistent session must not silently create one. The original
// timestamp is kept as the grouping key so follow-up edits still find
// the session.
func (s *RoutineService) ReplaceSession(ctx context.Context, username, name string, target models.RoutineSessionTarget, sessionDate, day string, entries []models.RoutineEntry) (int, error) {
	values, err := s.store.ReadRows(ctx)
	if err != nil {
		return 0, err
	}

	matched := matchSession(parseRoutineRecords(values), username, target)
	if len(matched) == 0 {
		return 0, nil
	}

	// Delete first, then append. There is no transaction across the
	// two calls: if the append fails the session is gone.
	if err := s.store.DeleteRows(ctx, descendingPositions(matched)); err != nil {
		return 0, err
	}

	newValues := routineRowValues(strings.TrimSpace(target.Timestamp), name, utils.NormalizeUsername(username), sessionDate, day, entries)
	if err := s.store.AppendRows(ctx, newValues); err != nil {
		return 0, err
	}
	return len(newValues), nil
}
