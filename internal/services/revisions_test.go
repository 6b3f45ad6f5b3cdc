package services

import (
	"reflect"
	"testing"

	"github.com/Rafajb7/NutricionistWebPage/internal/models"
)

func TestParseRevisionRecordsPositions(t *testing.T) {
	records := parseRevisionRecords([][]string{
		{"Ana", "2026-01-01", "u1", "Q1", "A1"},
		{"Ana", "2026-01-02", "u1", "Q1", "A3"},
	})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Position != 2 || records[1].Position != 3 {
		t.Errorf("positions = %d, %d; want 2, 3", records[0].Position, records[1].Position)
	}
	if records[0].Row.Fecha != "2026-01-01" || records[0].Row.Pregunta != "Q1" {
		t.Errorf("first row parsed wrong: %+v", records[0].Row)
	}
}

func TestRevisionsForUserMatchesVariants(t *testing.T) {
	records := parseRevisionRecords([][]string{
		{"Ana", "2026-01-01", "@U1", "Q1", "A1"},
		{"Ana", "2026-01-01", "u1", "Q2", "A2"},
		{"Bea", "2026-01-01", "u2", "Q1", "B1"},
	})

	matched := revisionsForUser(records, "u1")
	if len(matched) != 2 {
		t.Fatalf("got %d matches, want 2", len(matched))
	}
	for _, rec := range matched {
		if rec.Row.Nombre != "Ana" {
			t.Errorf("matched foreign row: %+v", rec.Row)
		}
	}
}

func TestRevisionPositionsForDate(t *testing.T) {
	records := parseRevisionRecords([][]string{
		{"Ana", "2026-01-01", "u1", "Q1", "A1"},
		{"Ana", "2026-01-01", "u1", "Q2", "A2"},
		{"Ana", "2026-01-02", "u1", "Q1", "A3"},
	})

	positions := revisionPositionsForDate(records, "u1", "2026-01-01")
	if want := []int{2, 3}; !reflect.DeepEqual(positions, want) {
		t.Errorf("positions = %v, want %v", positions, want)
	}

	if got := revisionPositionsForDate(records, "u1", "2026-03-01"); got != nil {
		t.Errorf("expected no positions for an unused date, got %v", got)
	}
	if got := revisionPositionsForDate(records, "u2", "2026-01-01"); got != nil {
		t.Errorf("expected no positions for another user, got %v", got)
	}
}

func TestBuildRevisionRows(t *testing.T) {
	rows := BuildRevisionRows("Ana", "u1", "2026-01-01", []models.RevisionAnswer{
		{Pregunta: "Peso", Respuesta: "62"},
		{Pregunta: "Animo", Respuesta: "bien"},
	})
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Nombre != "Ana" || row.Usuario != "u1" || row.Fecha != "2026-01-01" {
			t.Errorf("row missing shared fields: %+v", row)
		}
	}
	if rows[1].Pregunta != "Animo" || rows[1].Respuesta != "bien" {
		t.Errorf("second row = %+v", rows[1])
	}
}

func TestToRevisionEntryExtractsImage(t *testing.T) {
	entry := ToRevisionEntry(models.RevisionRow{
		Respuesta: `=IMAGE("https://drive.google.com/uc?id=1aUQq2TmlgcnrWlTpDGEGyr5qSpYTRLIO")`,
	})
	if entry.ImageURL != "/api/photos/view/1aUQq2TmlgcnrWlTpDGEGyr5qSpYTRLIO" {
		t.Errorf("ImageURL = %q", entry.ImageURL)
	}

	plain := ToRevisionEntry(models.RevisionRow{Respuesta: "todo bien"})
	if plain.ImageURL != "" {
		t.Errorf("plain answer should carry no image URL, got %q", plain.ImageURL)
	}
}
