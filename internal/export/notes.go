// Package export renders collections into portable formats: notes to
// JSON, CSV, Markdown or HTML, and resumes to PDF. Every written
// artifact carries a SHA-256 checksum in its result so consumers can
// verify the copy.
package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/studyhub-app/backend/internal/entity"
	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/logging"
	"github.com/studyhub-app/backend/internal/models"
	"github.com/studyhub-app/backend/internal/store"
)

// Format selects the output rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ValidFormat reports whether f is a supported note format.
func ValidFormat(f Format) bool {
	switch f {
	case FormatJSON, FormatCSV, FormatMarkdown, FormatHTML:
		return true
	}
	return false
}

// Result describes a written export.
type Result struct {
	Path      string        `json:"path"`
	Format    Format        `json:"format"`
	ItemCount int           `json:"itemCount"`
	SizeBytes int64         `json:"sizeBytes"`
	Checksum  string        `json:"checksum"`
	Duration  time.Duration `json:"duration"`
}

// Service renders exports from the record store.
type Service struct {
	notes   *entity.Client[models.Note]
	resumes *entity.Client[models.Resume]
	outDir  string
	md      goldmark.Markdown
	now     func() time.Time
}

// NewService builds an export service writing into outDir.
func NewService(st store.Store, outDir string) *Service {
	return &Service{
		notes:   entity.NewClient[models.Note](st),
		resumes: entity.NewClient[models.Resume](st),
		outDir:  outDir,
		md: goldmark.New(
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		now: time.Now,
	}
}

// ExportNotes writes all notes (optionally narrowed to one subject) in
// the requested format and returns the artifact description.
func (s *Service) ExportNotes(ctx context.Context, subjectID string, format Format) (*Result, error) {
	if !ValidFormat(format) {
		return nil, errors.Newf(errors.ErrValidation, "unsupported format: %s", format)
	}

	start := s.now()

	var criteria map[string]interface{}
	if subjectID != "" {
		criteria = map[string]interface{}{"subjectId": subjectID}
	}
	notes, err := s.notes.Filter(ctx, criteria, "createdAt:asc", 0)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(notes, "", "  ")
		if err != nil {
			err = errors.Wrap(errors.ErrExportFailed, "failed to encode notes", err)
		}
	case FormatCSV:
		data, err = renderCSV(notes)
	case FormatMarkdown:
		data = renderMarkdown(notes)
	case FormatHTML:
		data, err = s.renderHTML(notes)
	}
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.outDir, fmt.Sprintf("notes_%s.%s",
		start.Format("20060102_150405"), extensionFor(format)))
	result, err := s.write(path, format, len(notes), data, start)
	if err != nil {
		return nil, err
	}

	logging.Info("notes exported", map[string]interface{}{
		"format": string(format),
		"count":  len(notes),
		"path":   path,
	})
	return result, nil
}

func (s *Service) write(path string, format Format, count int, data []byte, start time.Time) (*Result, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrExportFailed, "failed to prepare export directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrExportFailed, "failed to write export", err)
	}

	return &Result{
		Path:      path,
		Format:    format,
		ItemCount: count,
		SizeBytes: int64(len(data)),
		Checksum:  fmt.Sprintf("%x", sha256.Sum256(data)),
		Duration:  s.now().Sub(start),
	}, nil
}

func renderCSV(notes []models.Note) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"id", "title", "content", "subjectId", "tags", "isPinned", "createdAt"})
	for _, n := range notes {
		w.Write([]string{
			n.ID.String(),
			n.Title,
			n.Content,
			n.SubjectID.String(),
			strings.Join(n.Tags, ";"),
			strconv.FormatBool(n.IsPinned),
			strconv.FormatInt(n.CreatedAt, 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrExportFailed, "failed to encode csv", err)
	}
	return buf.Bytes(), nil
}

func renderMarkdown(notes []models.Note) []byte {
	var b strings.Builder
	b.WriteString("# Notes\n")
	for _, n := range notes {
		b.WriteString("\n## " + n.Title + "\n\n")
		if len(n.Tags) > 0 {
			b.WriteString("Tags: " + strings.Join(n.Tags, ", ") + "\n\n")
		}
		b.WriteString(n.Content + "\n")
	}
	return []byte(b.String())
}

func (s *Service) renderHTML(notes []models.Note) ([]byte, error) {
	var body bytes.Buffer
	if err := s.md.Convert(renderMarkdown(notes), &body); err != nil {
		return nil, errors.Wrap(errors.ErrExportFailed, "failed to render html", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Notes</title></head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

func extensionFor(format Format) string {
	switch format {
	case FormatMarkdown:
		return "md"
	default:
		return string(format)
	}
}
