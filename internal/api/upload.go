package api

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/logging"
)

// MaxUploadBytes caps a single uploaded file at 10 MB.
const MaxUploadBytes = 10 << 20

// multipart framing overhead on top of the file payload.
const uploadBodySlack = 1 << 20

// handleUpload stores a multipart file and returns the URL it is
// served under: POST /api/uploads with a "file" form field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+uploadBodySlack)
	if err := r.ParseMultipartForm(MaxUploadBytes + uploadBodySlack); err != nil {
		writeError(w, errors.Wrap(errors.ErrUploadTooLarge,
			"upload exceeds "+humanize.Bytes(MaxUploadBytes), err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrValidation, "missing file field", err))
		return
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		writeError(w, errors.Newf(errors.ErrUploadTooLarge,
			"file is %s, limit is %s", humanize.Bytes(uint64(header.Size)), humanize.Bytes(MaxUploadBytes)))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrInternal, "failed to read upload", err))
		return
	}

	mtype := mimetype.Detect(data)
	name := uuid.New().String() + mtype.Extension()

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		writeError(w, errors.Wrap(errors.ErrInternal, "failed to prepare upload directory", err))
		return
	}
	if err := os.WriteFile(filepath.Join(s.uploadDir, name), data, 0o644); err != nil {
		writeError(w, errors.Wrap(errors.ErrInternal, "failed to store upload", err))
		return
	}

	logging.Info("file uploaded", map[string]interface{}{
		"name":        header.Filename,
		"stored":      name,
		"contentType": mtype.String(),
		"size":        humanize.Bytes(uint64(len(data))),
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"fileUrl":     "/files/" + name,
		"contentType": mtype.String(),
		"sizeBytes":   len(data),
	})
}
