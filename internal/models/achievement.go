package models

// StrengthExercises are the three lifts tracked in the marks and goals
// worksheets. The sheet stores the Spanish labels verbatim.
var StrengthExercises = []string{"Sentadilla", "Press de banca", "Peso muerto"}

// IsStrengthExercise reports whether value is one of the tracked lifts.
func IsStrengthExercise(value string) bool {
	for _, e := range StrengthExercises {
		if e == value {
			return true
		}
	}
	return false
}

// StrengthMark is a personal record row (marks worksheet, A:F).
type StrengthMark struct {
	ID        string  `json:"id"` // "mark-<row>"; positional, shifts on insert
	Timestamp string  `json:"timestamp"`
	Nombre    string  `json:"nombre"`
	Usuario   string  `json:"usuario"`
	Exercise  string  `json:"exercise"`
	Date      string  `json:"date"`
	WeightKg  float64 `json:"weightKg"`
}

// StrengthGoal is a target row (goals worksheet, A:F). Goals are unique
// per (username, exercise, targetDate); upsert overwrites in place.
type StrengthGoal struct {
	ID             string  `json:"id"`
	Timestamp      string  `json:"timestamp"`
	Nombre         string  `json:"nombre"`
	Usuario        string  `json:"usuario"`
	Exercise       string  `json:"exercise"`
	TargetDate     string  `json:"targetDate"`
	TargetWeightKg float64 `json:"targetWeightKg"`
}
