package export

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/logging"
	"github.com/studyhub-app/backend/internal/models"
)

// ExportResumePDF renders a stored resume to PDF with the fixed
// section order: header, summary, education, experience, skills.
// Empty sections are skipped.
func (s *Service) ExportResumePDF(ctx context.Context, resumeID string) (*Result, error) {
	start := s.now()

	resume, err := s.resumes.Get(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if resume.Name == "" {
		return nil, errors.New(errors.ErrValidation, "resume has no name")
	}

	path := filepath.Join(s.outDir, fmt.Sprintf("resume_%s_%s.pdf",
		sanitizeFilename(resume.Name), start.Format("20060102_150405")))
	if err := renderResumePDF(resume, path); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrExportFailed, "failed to stat export", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrExportFailed, "failed to read export back", err)
	}

	logging.Info("resume exported", map[string]interface{}{
		"resumeId": resumeID,
		"path":     path,
	})

	return &Result{
		Path:      path,
		Format:    "pdf",
		ItemCount: 1,
		SizeBytes: info.Size(),
		Checksum:  fmt.Sprintf("%x", sha256.Sum256(data)),
		Duration:  s.now().Sub(start),
	}, nil
}

func renderResumePDF(resume models.Resume, path string) error {
	regular, err := model.NewStandard14Font("Helvetica")
	if err != nil {
		return errors.Wrap(errors.ErrExportFailed, "failed to load font", err)
	}
	bold, err := model.NewStandard14Font("Helvetica-Bold")
	if err != nil {
		return errors.Wrap(errors.ErrExportFailed, "failed to load font", err)
	}

	c := creator.New()
	c.SetPageMargins(50, 50, 50, 50)

	write := func(text string, font *model.PdfFont, size float64, spaceAfter float64) error {
		p := c.NewParagraph(text)
		p.SetFont(font)
		p.SetFontSize(size)
		p.SetMargins(0, 0, 0, spaceAfter)
		return c.Draw(p)
	}
	heading := func(text string) error {
		return write(text, bold, 14, 6)
	}

	// Header.
	if err := write(resume.Name, bold, 22, 4); err != nil {
		return errors.Wrap(errors.ErrExportFailed, "failed to render pdf", err)
	}
	contact := make([]string, 0, 2)
	if resume.Email != "" {
		contact = append(contact, resume.Email)
	}
	if resume.Phone != "" {
		contact = append(contact, resume.Phone)
	}
	if len(contact) > 0 {
		write(strings.Join(contact, " | "), regular, 10, 14)
	}

	if resume.Summary != "" {
		heading("Summary")
		write(resume.Summary, regular, 11, 12)
	}

	if len(resume.Education) > 0 {
		heading("Education")
		for _, e := range resume.Education {
			line := e.School
			if e.Degree != "" {
				line += ", " + e.Degree
			}
			if e.StartYear > 0 {
				line += fmt.Sprintf(" (%d", e.StartYear)
				if e.EndYear > 0 {
					line += fmt.Sprintf("-%d", e.EndYear)
				}
				line += ")"
			}
			write(line, regular, 11, 4)
		}
		write("", regular, 11, 8)
	}

	if len(resume.Experience) > 0 {
		heading("Experience")
		for _, e := range resume.Experience {
			title := e.Role + ", " + e.Company
			if e.StartDate != "" {
				title += fmt.Sprintf(" (%s", e.StartDate)
				if e.EndDate != "" {
					title += " to " + e.EndDate
				}
				title += ")"
			}
			write(title, bold, 11, 2)
			if e.Description != "" {
				write(e.Description, regular, 10, 6)
			}
		}
		write("", regular, 11, 8)
	}

	if len(resume.Skills) > 0 {
		heading("Skills")
		write(strings.Join(resume.Skills, ", "), regular, 11, 0)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrExportFailed, "failed to prepare export directory", err)
	}
	if err := c.WriteToFile(path); err != nil {
		return errors.Wrap(errors.ErrExportFailed, "failed to write pdf", err)
	}
	return nil
}

// sanitizeFilename keeps names filesystem-safe.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "resume"
	}
	return b.String()
}
