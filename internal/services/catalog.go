package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Rafajb7/NutricionistWebPage/internal/config"
	"github.com/Rafajb7/NutricionistWebPage/internal/gsuite"
	"github.com/Rafajb7/NutricionistWebPage/internal/models"
)

// defaultExerciseCatalog is served when the catalog sheet is missing or
// unreadable, so the routine form never renders empty.
var defaultExerciseCatalog = []models.ExerciseGroup{
	{MuscleGroup: "Pecho", Exercises: []string{
		"Press de banca", "Press inclinado con mancuernas", "Aperturas en polea", "Fondos en paralelas",
	}},
	{MuscleGroup: "Espalda", Exercises: []string{
		"Dominadas", "Remo con barra", "Jalon al pecho", "Remo en polea baja",
	}},
	{MuscleGroup: "Pierna", Exercises: []string{
		"Sentadilla", "Peso muerto", "Prensa", "Zancadas", "Curl femoral",
	}},
	{MuscleGroup: "Hombro", Exercises: []string{
		"Press militar", "Elevaciones laterales", "Pajaros", "Press Arnold",
	}},
	{MuscleGroup: "Brazo", Exercises: []string{
		"Curl con barra", "Curl martillo", "Extension de triceps en polea", "Press frances",
	}},
	{MuscleGroup: "Core", Exercises: []string{
		"Plancha", "Crunch en polea", "Elevaciones de piernas", "Rueda abdominal",
	}},
}

// CatalogService serves the exercise catalog the routine form offers.
// The sheet has one row per exercise (Grupo muscular, Ejercicio,
// Activo); rows flagged FALSE are hidden without deleting them.
type CatalogService struct {
	client *gsuite.Client
	cfg    *config.Config
}

func NewCatalogService(client *gsuite.Client, cfg *config.Config) *CatalogService {
	return &CatalogService{client: client, cfg: cfg}
}

// Groups returns the catalog grouped by muscle group in sheet order,
// falling back to the built-in catalog when the sheet is unusable.
func (s *CatalogService) Groups(ctx context.Context) []models.ExerciseGroup {
	groups, err := s.readSheet(ctx)
	if err != nil {
		log.Printf("exercise catalog sheet unavailable, serving defaults: %v", err)
		return defaultExerciseCatalog
	}
	if len(groups) == 0 {
		return defaultExerciseCatalog
	}
	return groups
}

func (s *CatalogService) readSheet(ctx context.Context) ([]models.ExerciseGroup, error) {
	spreadsheetID, err := s.client.ResolveSpreadsheetID(ctx, s.cfg.ExercisesSheetName)
	if err != nil {
		return nil, err
	}
	worksheet, err := s.client.FirstWorksheetTitle(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}

	values, err := s.client.Values(ctx, spreadsheetID, fmt.Sprintf("'%s'!A2:C", worksheet), nil)
	if err != nil {
		return nil, err
	}
	return groupCatalogRows(values), nil
}

func groupCatalogRows(values [][]string) []models.ExerciseGroup {
	var groups []models.ExerciseGroup
	index := make(map[string]int)

	for _, row := range values {
		group := strings.TrimSpace(gsuite.Cell(row, 0))
		exercise := strings.TrimSpace(gsuite.Cell(row, 1))
		active := strings.TrimSpace(strings.ToUpper(gsuite.Cell(row, 2)))
		if group == "" || exercise == "" || active == "FALSE" {
			continue
		}

		i, ok := index[group]
		if !ok {
			i = len(groups)
			index[group] = i
			groups = append(groups, models.ExerciseGroup{MuscleGroup: group})
		}
		groups[i].Exercises = append(groups[i].Exercises, exercise)
	}
	return groups
}
