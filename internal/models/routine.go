package models

// RoutineLogRow is one exercise entry in the routine worksheet (A:J):
// Timestamp, Nombre, Usuario, Fecha sesion, Dia, Grupo muscular,
// Ejercicio, Repeticiones, Peso kg, Notas.
//
// The timestamp is the creation instant of the whole session and acts as
// the grouping key: every row written by one submit shares it.
type RoutineLogRow struct {
	Timestamp    string   `json:"timestamp"`
	Nombre       string   `json:"nombre"`
	Usuario      string   `json:"usuario"`
	SessionDate  string   `json:"sessionDate"` // ISO day
	Day          string   `json:"day"`
	MuscleGroup  string   `json:"muscleGroup"`
	Exercise     string   `json:"exercise"`
	Reps         int      `json:"reps"`
	WeightKg     *float64 `json:"weightKg"`
	Notes        string   `json:"notes,omitempty"`
}

// RoutineSessionTarget is the composite key identifying a logical
// session: the store has no row ids, so (timestamp, sessionDate, day) is
// the only identity a set of rows offers.
type RoutineSessionTarget struct {
	Timestamp   string `json:"timestamp" validate:"required,max=80"`
	SessionDate string `json:"sessionDate" validate:"required,datetime=2006-01-02"`
	Day         string `json:"day" validate:"required,max=120"`
}

// RoutineEntry is the client-side shape of one exercise line.
type RoutineEntry struct {
	MuscleGroup string   `json:"muscleGroup" validate:"required,max=120"`
	Exercise    string   `json:"exercise" validate:"required,max=240"`
	Reps        int      `json:"reps" validate:"required,min=1,max=300"`
	WeightKg    *float64 `json:"weightKg" validate:"omitempty,min=0,max=1500"`
	Notes       string   `json:"notes" validate:"max=500"`
}

// ExerciseGroup is one muscle group of the exercise catalog sheet.
type ExerciseGroup struct {
	MuscleGroup string   `json:"muscleGroup"`
	Exercises   []string `json:"exercises"`
}
