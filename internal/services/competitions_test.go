package services

import (
	"strings"
	"testing"

	"google.golang.org/api/calendar/v3"
)

func TestBuildCompetitionDescription(t *testing.T) {
	got := buildCompetitionDescription("@Ana", " Ana Perez ", "08:30", "")
	want := "Usuario: Ana Perez (@ana)\nHora del pesaje: 08:30"
	if got != want {
		t.Errorf("description = %q, want %q", got, want)
	}

	withCustom := buildCompetitionDescription("ana", "Ana", "08:30", " IPF nacional ")
	if !strings.HasSuffix(withCustom, "\n\nDescripcion: IPF nacional") {
		t.Errorf("custom description missing: %q", withCustom)
	}
}

func TestAddDays(t *testing.T) {
	next, err := addDays("2026-02-28", 1)
	if err != nil {
		t.Fatal(err)
	}
	if next != "2026-03-01" {
		t.Errorf("addDays = %q, want 2026-03-01", next)
	}

	if _, err := addDays("not-a-date", 1); err == nil {
		t.Error("expected an error for a malformed date")
	}
}

func TestMapCompetitionEvent(t *testing.T) {
	mapped := mapCompetitionEvent(&calendar.Event{
		Id:      " ev1 ",
		Summary: "  ",
		Start:   &calendar.EventDateTime{DateTime: "2026-05-10T09:00:00+02:00"},
	})
	if mapped == nil {
		t.Fatal("event with dateTime start should map")
	}
	if mapped.ID != "ev1" || mapped.Date != "2026-05-10" {
		t.Errorf("mapped = %+v", mapped)
	}
	if mapped.Title != "Competicion" {
		t.Errorf("blank summary should fall back, got %q", mapped.Title)
	}

	if mapCompetitionEvent(&calendar.Event{Id: "ev2"}) != nil {
		t.Error("event without a start date should be dropped")
	}
}
