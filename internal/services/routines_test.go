package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Rafajb7/NutricionistWebPage/internal/models"
)

// fakeRowStore mimics the worksheet: deletes are applied one at a time
// in the order given, and each delete shifts every row below it up by
// one. Passing positions in ascending order would therefore remove the
// wrong rows, exactly like the real store.
type fakeRowStore struct {
	rows    [][]string
	appends int
	deletes int
	failApp bool
}

func (f *fakeRowStore) ReadRows(ctx context.Context) ([][]string, error) {
	out := make([][]string, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeRowStore) AppendRows(ctx context.Context, values [][]interface{}) error {
	if f.failApp {
		return fmt.Errorf("append refused")
	}
	f.appends += len(values)
	for _, value := range values {
		row := make([]string, len(value))
		for i, cell := range value {
			row[i] = fmt.Sprint(cell)
		}
		f.rows = append(f.rows, row)
	}
	return nil
}

func (f *fakeRowStore) DeleteRows(ctx context.Context, positions []int) error {
	for _, pos := range positions {
		index := pos - 2 // first data row is sheet position 2
		if index < 0 || index >= len(f.rows) {
			return fmt.Errorf("delete position %d out of range", pos)
		}
		f.rows = append(f.rows[:index], f.rows[index+1:]...)
		f.deletes++
	}
	return nil
}

func logRow(timestamp, username, date, day, exercise string) []string {
	return []string{timestamp, "Ana", username, date, day, "Pecho", exercise, "8", "60", ""}
}

func newTestRoutineService(store RowStore) *RoutineService {
	return &RoutineService{
		store: store,
		now:   func() time.Time { return time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC) },
	}
}

func TestMatchSessionUsernameVariants(t *testing.T) {
	records := parseRoutineRecords([][]string{
		logRow("t1", "@Ana", "2026-01-10", "Dia 1", "Press banca"),
		logRow("t1", "ana", "2026-01-10", "Dia 1", "Aperturas"),
		logRow("t1", "bea", "2026-01-10", "Dia 1", "Press banca"),
		logRow("t2", "ana", "2026-01-10", "Dia 1", "Press banca"),
		logRow("t1", "ana", "2026-01-11", "Dia 1", "Press banca"),
	})

	target := models.RoutineSessionTarget{Timestamp: "t1", SessionDate: "2026-01-10", Day: "Dia 1"}
	matched := matchSession(records, "Ana", target)
	if len(matched) != 2 {
		t.Fatalf("got %d matches, want 2", len(matched))
	}
	if matched[0].Position != 2 || matched[1].Position != 3 {
		t.Errorf("positions = %d, %d; want 2, 3", matched[0].Position, matched[1].Position)
	}
}

func TestMatchSessionTrimsAndTreatsEmptyAsEqual(t *testing.T) {
	records := parseRoutineRecords([][]string{
		{" t1 ", "Ana", "ana", " 2026-01-10 ", "", "Pecho", "Press banca", "8", "", ""},
	})
	target := models.RoutineSessionTarget{Timestamp: "t1", SessionDate: "2026-01-10", Day: " "}
	if got := matchSession(records, "ana", target); len(got) != 1 {
		t.Errorf("trimmed/empty composite key should match, got %d rows", len(got))
	}
}

func TestDeleteSessionRemovesOnlyMatchingRows(t *testing.T) {
	store := &fakeRowStore{rows: [][]string{
		logRow("t1", "u1", "2026-01-10", "Dia 1", "Sentadilla"),
		logRow("t1", "u1", "2026-01-10", "Dia 1", "Zancadas"),
		logRow("t2", "u1", "2026-01-12", "Dia 2", "Press banca"),
		logRow("t1", "u1", "2026-01-10", "Dia 1", "Extensiones"),
		logRow("t3", "u2", "2026-01-10", "Dia 1", "Sentadilla"),
	}}
	svc := newTestRoutineService(store)

	count, err := svc.DeleteSession(context.Background(), "u1", models.RoutineSessionTarget{
		Timestamp: "t1", SessionDate: "2026-01-10", Day: "Dia 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("deleted %d rows, want 3", count)
	}
	if len(store.rows) != 2 {
		t.Fatalf("%d rows left, want 2", len(store.rows))
	}
	// Survivors keep their content and order, now contiguous.
	if store.rows[0][0] != "t2" || store.rows[1][0] != "t3" {
		t.Errorf("wrong survivors: %v", store.rows)
	}
	if store.rows[0][6] != "Press banca" || store.rows[1][2] != "u2" {
		t.Errorf("survivor content changed: %v", store.rows)
	}
}

func TestDeleteSessionNotFound(t *testing.T) {
	store := &fakeRowStore{rows: [][]string{
		logRow("t1", "u1", "2026-01-10", "Dia 1", "Sentadilla"),
	}}
	svc := newTestRoutineService(store)

	count, err := svc.DeleteSession(context.Background(), "u1", models.RoutineSessionTarget{
		Timestamp: "t9", SessionDate: "2026-01-10", Day: "Dia 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if store.deletes != 0 || len(store.rows) != 1 {
		t.Errorf("store mutated on a miss: %d deletes, %d rows", store.deletes, len(store.rows))
	}
}

func TestReplaceSessionPreservesTimestamp(t *testing.T) {
	store := &fakeRowStore{rows: [][]string{
		logRow("t1", "u1", "2026-01-10", "Dia 1", "Sentadilla"),
		logRow("t1", "u1", "2026-01-10", "Dia 1", "Zancadas"),
		logRow("t2", "u1", "2026-01-12", "Dia 2", "Press banca"),
	}}
	svc := newTestRoutineService(store)

	weight := 80.0
	count, err := svc.ReplaceSession(context.Background(), "u1", "Ana",
		models.RoutineSessionTarget{Timestamp: "t1", SessionDate: "2026-01-10", Day: "Dia 1"},
		"2026-01-11", "Dia 1 bis",
		[]models.RoutineEntry{
			{MuscleGroup: "Pierna", Exercise: "Sentadilla", Reps: 5, WeightKg: &weight},
			{MuscleGroup: "Pierna", Exercise: "Peso muerto", Reps: 5},
			{MuscleGroup: "Pierna", Exercise: "Prensa", Reps: 10},
		})
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("inserted %d rows, want 3", count)
	}
	if len(store.rows) != 4 {
		t.Fatalf("%d rows in store, want 4", len(store.rows))
	}

	// The untouched session survives, the new rows keep the original
	// timestamp so the edited session stays addressable.
	if store.rows[0][0] != "t2" {
		t.Errorf("untouched session lost: %v", store.rows[0])
	}
	for _, row := range store.rows[1:] {
		if row[0] != "t1" {
			t.Errorf("new row lost the grouping timestamp: %v", row)
		}
		if row[3] != "2026-01-11" || row[4] != "Dia 1 bis" {
			t.Errorf("new row missing replacement date/day: %v", row)
		}
	}
}

func TestReplaceSessionNonexistentKeyIsNoop(t *testing.T) {
	store := &fakeRowStore{rows: [][]string{
		logRow("t1", "u1", "2026-01-10", "Dia 1", "Sentadilla"),
	}}
	svc := newTestRoutineService(store)

	count, err := svc.ReplaceSession(context.Background(), "u1", "Ana",
		models.RoutineSessionTarget{Timestamp: "missing", SessionDate: "2026-01-10", Day: "Dia 1"},
		"2026-01-11", "Dia 1",
		[]models.RoutineEntry{{MuscleGroup: "Pierna", Exercise: "Prensa", Reps: 10}})
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if store.deletes != 0 || store.appends != 0 {
		t.Errorf("store touched on a miss: %d deletes, %d appends", store.deletes, store.appends)
	}
}

func TestCreateMintsTimestampAndNormalizesUsername(t *testing.T) {
	store := &fakeRowStore{}
	svc := newTestRoutineService(store)

	timestamp, count, err := svc.Create(context.Background(), "@Ana", "Ana", "2026-02-01", "Dia 1",
		[]models.RoutineEntry{
			{MuscleGroup: "Pecho", Exercise: "Press banca", Reps: 8},
			{MuscleGroup: "Pecho", Exercise: "Aperturas", Reps: 12},
		})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if timestamp != "2026-02-01T10:00:00.000Z" {
		t.Errorf("timestamp = %q", timestamp)
	}
	for _, row := range store.rows {
		if row[0] != timestamp {
			t.Errorf("row timestamp = %q, want %q", row[0], timestamp)
		}
		if row[2] != "ana" {
			t.Errorf("username not normalized: %q", row[2])
		}
	}
}

func TestListFiltersAndSortsNewestFirst(t *testing.T) {
	store := &fakeRowStore{rows: [][]string{
		logRow("t1", "u1", "2026-01-10", "Dia 1", "Sentadilla"),
		logRow("t3", "u1", "2026-01-20", "Dia 3", "Press banca"),
		logRow("t2", "u2", "2026-01-15", "Dia 2", "Remo"),
	}}
	svc := newTestRoutineService(store)

	rows, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].SessionDate != "2026-01-20" || rows[1].SessionDate != "2026-01-10" {
		t.Errorf("rows not newest-first: %s, %s", rows[0].SessionDate, rows[1].SessionDate)
	}
	if rows[0].Reps != 8 || rows[0].WeightKg == nil || *rows[0].WeightKg != 60 {
		t.Errorf("numeric cells parsed wrong: %+v", rows[0])
	}
}

func TestParseDecimalComma(t *testing.T) {
	if v := parseDecimal("62,5"); v == nil || *v != 62.5 {
		t.Errorf("parseDecimal(62,5) = %v", v)
	}
	if v := parseDecimal(""); v != nil {
		t.Errorf("empty cell should parse to nil, got %v", v)
	}
	if v := parseDecimal("n/a"); v != nil {
		t.Errorf("junk cell should parse to nil, got %v", v)
	}
}
