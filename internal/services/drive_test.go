package services

import (
	"testing"

	"google.golang.org/api/drive/v3"
)

func TestFilterPlanFiles(t *testing.T) {
	files := []*drive.File{
		{Id: "a", Name: "Plan enero.pdf", MimeType: "application/pdf", Size: 1024},
		{Id: "b", Name: "notas.txt", MimeType: "text/plain"},
		{
			Id: "c", Name: "Plan enero (acceso directo)",
			MimeType:        "application/vnd.google-apps.shortcut",
			ShortcutDetails: &drive.FileShortcutDetails{TargetId: "a", TargetMimeType: "application/pdf"},
		},
		{Id: "d", Name: "Plan febrero.PDF", MimeType: "application/octet-stream"},
		{
			Id: "e", Name: "Plan marzo",
			MimeType:        "application/vnd.google-apps.shortcut",
			ShortcutDetails: &drive.FileShortcutDetails{TargetId: "f", TargetMimeType: "application/pdf"},
		},
	}

	out := filterPlanFiles(files)
	if len(out) != 3 {
		t.Fatalf("got %d files, want 3: %+v", len(out), out)
	}
	if out[0].ID != "a" || out[0].SizeBytes != 1024 {
		t.Errorf("first file = %+v", out[0])
	}
	// The shortcut duplicating "a" must be dropped; the one pointing at
	// an unseen target resolves to the target id.
	if out[1].ID != "d" || out[2].ID != "f" {
		t.Errorf("resolved ids = %q, %q", out[1].ID, out[2].ID)
	}
	if out[2].MimeType != "application/pdf" {
		t.Errorf("shortcut mime should resolve to pdf, got %q", out[2].MimeType)
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := sanitizeFileName("foto de perfil (1).jpg"); got != "foto_de_perfil__1_.jpg" {
		t.Errorf("sanitizeFileName = %q", got)
	}
	if got := sanitizeFileName("plan-2026.pdf"); got != "plan-2026.pdf" {
		t.Errorf("safe name should pass through, got %q", got)
	}
}
