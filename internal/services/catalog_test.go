package services

import "testing"

func TestGroupCatalogRows(t *testing.T) {
	groups := groupCatalogRows([][]string{
		{"Pecho", "Press de banca", "TRUE"},
		{"Pierna", "Sentadilla", "TRUE"},
		{"Pecho", "Aperturas", ""},
		{"Pecho", "Press declinado", "FALSE"},
		{"", "Sin grupo", "TRUE"},
		{"Pierna", "", "TRUE"},
	})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].MuscleGroup != "Pecho" || groups[1].MuscleGroup != "Pierna" {
		t.Errorf("groups out of sheet order: %v", groups)
	}
	if len(groups[0].Exercises) != 2 {
		t.Errorf("Pecho should keep active rows only: %v", groups[0].Exercises)
	}
	if groups[0].Exercises[1] != "Aperturas" {
		t.Errorf("blank Activo flag should count as active: %v", groups[0].Exercises)
	}
}

func TestDefaultExerciseCatalogIsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, group := range defaultExerciseCatalog {
		if group.MuscleGroup == "" || len(group.Exercises) == 0 {
			t.Errorf("degenerate group: %+v", group)
		}
		for _, exercise := range group.Exercises {
			key := group.MuscleGroup + "::" + exercise
			if seen[key] {
				t.Errorf("duplicate catalog row %q", key)
			}
			seen[key] = true
		}
	}
}
