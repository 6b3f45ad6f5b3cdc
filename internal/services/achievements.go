package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/gsuite"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
	"github.com/Rafajb7/NutricionistWebPage/pkg/utils"
)

var markHeaders = []string{"Timestamp", "Nombre", "Usuario", "Ejercicio", "Fecha", "Peso kg"}
var goalHeaders = []string{"Timestamp", "Nombre", "Usuario", "Ejercicio", "Fecha objetivo", "Peso objetivo kg"}

var spreadsheetIDPattern = regexp.MustCompile(`^[A-Za-z0-9-_]{20,}$`)

// AchievementService keeps personal records and goals in a spreadsheet
// it bootstraps itself: the document, both worksheets and their header
// rows are created on first use when missing.
type AchievementService struct {
	client *gsuite.Client
	cfg    *config.Config
	now    func() time.Time

	mu    sync.Mutex
	ready *achievementSheets
}

type achievementSheets struct {
	SpreadsheetID  string
	MarksWorksheet string
	GoalsWorksheet string
}

func NewAchievementService(client *gsuite.Client, cfg *config.Config) *AchievementService {
	return &AchievementService{client: client, cfg: cfg, now: time.Now}
}

func (s *AchievementService) ensureReady(ctx context.Context) (*achievementSheets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready != nil {
		return s.ready, nil
	}

	marks := strings.TrimSpace(s.cfg.AchievementsMarksWorksheet)
	goals := strings.TrimSpace(s.cfg.AchievementsGoalsWorksheet)

	// An explicit spreadsheet id wins over name resolution; the name
	// path creates the document when it does not exist yet.
	spreadsheetID := strings.TrimSpace(s.cfg.AchievementsSpreadsheetID)
	if !spreadsheetIDPattern.MatchString(spreadsheetID) {
		var err error
		spreadsheetID, err = s.client.ResolveOrCreateSpreadsheet(ctx, s.cfg.AchievementsSheetName, []string{marks, goals})
		if err != nil {
			return nil, err
		}
	}

	if err := s.client.EnsureWorksheet(ctx, spreadsheetID, marks); err != nil {
		return nil, err
	}
	if err := s.client.EnsureWorksheet(ctx, spreadsheetID, goals); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.client.EnsureHeaderRow(gctx, spreadsheetID, marks, markHeaders) })
	g.Go(func() error { return s.client.EnsureHeaderRow(gctx, spreadsheetID, goals, goalHeaders) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.ready = &achievementSheets{
		SpreadsheetID:  spreadsheetID,
		MarksWorksheet: marks,
		GoalsWorksheet: goals,
	}
	return s.ready, nil
}

func (s *AchievementService) readWorksheet(ctx context.Context, info *achievementSheets, worksheet string) ([][]string, error) {
	return s.client.Values(ctx, info.SpreadsheetID, fmt.Sprintf("'%s'!A2:F", worksheet), &gsuite.ValueOptions{
		ValueRender:    "FORMATTED_VALUE",
		DateTimeRender: "FORMATTED_STRING",
	})
}

// ListMarks returns the user's personal records, newest date first.
func (s *AchievementService) ListMarks(ctx context.Context, username string) ([]models.StrengthMark, error) {
	info, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.readWorksheet(ctx, info, info.MarksWorksheet)
	if err != nil {
		return nil, err
	}

	target := utils.NormalizeUsername(username)
	marks := make([]models.StrengthMark, 0)
	for i, row := range rows {
		rowUsername := utils.NormalizeUsername(gsuite.Cell(row, 2))
		if rowUsername == "" || rowUsername != target {
			continue
		}
		exercise := strings.TrimSpace(gsuite.Cell(row, 3))
		if !models.IsStrengthExercise(exercise) {
			continue
		}
		date := strings.TrimSpace(gsuite.Cell(row, 4))
		weight := parseDecimal(gsuite.Cell(row, 5))
		if date == "" || weight == nil {
			continue
		}
		marks = append(marks, models.StrengthMark{
			ID:        fmt.Sprintf("mark-%d", i+2),
			Timestamp: gsuite.Cell(row, 0),
			Nombre:    gsuite.Cell(row, 1),
			Usuario:   rowUsername,
			Exercise:  exercise,
			Date:      date,
			WeightKg:  *weight,
		})
	}

	sort.SliceStable(marks, func(i, j int) bool {
		if marks[i].Date != marks[j].Date {
			return marks[i].Date > marks[j].Date
		}
		return marks[i].Timestamp > marks[j].Timestamp
	})
	return marks, nil
}

// ListGoals returns the user's goals, nearest target date first.
func (s *AchievementService) ListGoals(ctx context.Context, username string) ([]models.StrengthGoal, error) {
	info, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.readWorksheet(ctx, info, info.GoalsWorksheet)
	if err != nil {
		return nil, err
	}

	target := utils.NormalizeUsername(username)
	goals := make([]models.StrengthGoal, 0)
	for i, row := range rows {
		rowUsername := utils.NormalizeUsername(gsuite.Cell(row, 2))
		if rowUsername == "" || rowUsername != target {
			continue
		}
		exercise := strings.TrimSpace(gsuite.Cell(row, 3))
		if !models.IsStrengthExercise(exercise) {
			continue
		}
		targetDate := strings.TrimSpace(gsuite.Cell(row, 4))
		weight := parseDecimal(gsuite.Cell(row, 5))
		if targetDate == "" || weight == nil {
			continue
		}
		goals = append(goals, models.StrengthGoal{
			ID:             fmt.Sprintf("goal-%d", i+2),
			Timestamp:      gsuite.Cell(row, 0),
			Nombre:         gsuite.Cell(row, 1),
			Usuario:        rowUsername,
			Exercise:       exercise,
			TargetDate:     targetDate,
			TargetWeightKg: *weight,
		})
	}

	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].TargetDate != goals[j].TargetDate {
			return goals[i].TargetDate < goals[j].TargetDate
		}
		return goals[i].Timestamp < goals[j].Timestamp
	})
	return goals, nil
}

// AppendMark records a new personal record row.
func (s *AchievementService) AppendMark(ctx context.Context, name, username, exercise, date string, weightKg float64) error {
	info, err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	row := []interface{}{
		s.now().UTC().Format(time.RFC3339),
		name,
		utils.NormalizeUsername(username),
		exercise,
		date,
		weightKg,
	}
	return s.client.Append(ctx, info.SpreadsheetID, fmt.Sprintf("'%s'!A:F", info.MarksWorksheet), [][]interface{}{row})
}

// UpsertGoal overwrites the goal row matching (username, exercise,
// targetDate) in place, or appends when no row matches. Goals have
// single-row identity, so a positional update is safe here.
func (s *AchievementService) UpsertGoal(ctx context.Context, name, username, exercise, targetDate string, targetWeightKg float64) error {
	info, err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	rows, err := s.client.Values(ctx, info.SpreadsheetID, fmt.Sprintf("'%s'!A2:F", info.GoalsWorksheet), &gsuite.ValueOptions{
		ValueRender: "FORMATTED_VALUE",
	})
	if err != nil {
		return err
	}

	normalized := utils.NormalizeUsername(username)
	rowNumber := 0
	for i, row := range rows {
		if utils.NormalizeUsername(gsuite.Cell(row, 2)) != normalized {
			continue
		}
		if strings.TrimSpace(gsuite.Cell(row, 3)) != exercise {
			continue
		}
		if strings.TrimSpace(gsuite.Cell(row, 4)) != targetDate {
			continue
		}
		rowNumber = i + 2
		break
	}

	values := [][]interface{}{{
		s.now().UTC().Format(time.RFC3339),
		name,
		normalized,
		exercise,
		targetDate,
		targetWeightKg,
	}}

	if rowNumber > 0 {
		rangeA1 := fmt.Sprintf("'%s'!A%d:F%d", info.GoalsWorksheet, rowNumber, rowNumber)
		return s.client.UpdateRange(ctx, info.SpreadsheetID, rangeA1, "USER_ENTERED", values)
	}
	return s.client.Append(ctx, info.SpreadsheetID, fmt.Sprintf("'%s'!A:F", info.GoalsWorksheet), values)
}
