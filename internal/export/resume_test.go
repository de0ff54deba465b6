package export

import (
	"context"
	"testing"

	"github.com/studyhub-app/backend/internal/entity"
	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/models"
)

func TestExportResumeMissing(t *testing.T) {
	svc, _ := setupExportService(t)

	_, err := svc.ExportResumePDF(context.Background(), "no-such-resume")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("Expected NOT_FOUND, got %v", err)
	}
}

func TestExportResumeRequiresName(t *testing.T) {
	svc, st := setupExportService(t)

	resumes := entity.NewClient[models.Resume](st)
	created, err := resumes.Create(context.Background(), models.Resume{Summary: "anonymous"})
	if err != nil {
		t.Fatalf("Failed to seed resume: %v", err)
	}

	_, err = svc.ExportResumePDF(context.Background(), created.ID.String())
	if !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("Expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"Ada Lovelace":   "ada_lovelace",
		"J. Random":      "j_random",
		"!!!":            "resume",
		"Grace-Hopper_2": "grace_hopper_2",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
