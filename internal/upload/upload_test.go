package upload

import (
	"bytes"
	"context"
	"database/sql"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/studyhub-app/backend/internal/api"
	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/store"
)

func setupUploadServer(t *testing.T) string {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := store.NewSQLStore(db)
	require.NoError(t, s.Migrate())

	ts := httptest.NewServer(api.NewServer(s, nil, t.TempDir()).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestUploadFile(t *testing.T) {
	c := NewClient(setupUploadServer(t))

	path := filepath.Join(t.TempDir(), "syllabus.txt")
	require.NoError(t, os.WriteFile(path, []byte("week 1: introductions"), 0o644))

	result, err := c.UploadFile(context.Background(), path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(result.FileURL, "/files/"))
	require.Contains(t, result.ContentType, "text/plain")
	require.EqualValues(t, 21, result.SizeBytes)
}

func TestUploadMissingFile(t *testing.T) {
	c := NewClient(setupUploadServer(t))
	_, err := c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	require.True(t, errors.Is(err, errors.ErrValidation))
}

func TestUploadTooLargeRejectedLocally(t *testing.T) {
	c := NewClient("http://localhost:1")

	_, err := c.Upload(context.Background(), "huge.bin", bytes.Repeat([]byte{0}, MaxFileBytes+1))
	require.True(t, errors.Is(err, errors.ErrUploadTooLarge))
	require.Contains(t, err.Error(), "limit is 10 MB")
}

func TestUploadUnreachable(t *testing.T) {
	c := NewClient("http://localhost:1")
	_, err := c.Upload(context.Background(), "a.txt", []byte("x"))
	require.True(t, errors.Is(err, errors.ErrStoreUnavailable))
}

func TestDetectContentType(t *testing.T) {
	require.Contains(t, DetectContentType([]byte("%PDF-1.4")), "application/pdf")
	require.Contains(t, DetectContentType([]byte("plain words")), "text/plain")
}
