// Package upload is the client side of file uploads: it pushes a local
// file to the record API and hands back the URL it is served under.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/studyhub-app/backend/internal/errors"
)

// MaxFileBytes mirrors the server-side cap; oversized files are
// rejected before any bytes leave the machine.
const MaxFileBytes = 10 << 20

// Result describes a stored file.
type Result struct {
	FileURL     string `json:"fileUrl"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

// Client uploads files to the record API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient points an uploader at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// SetToken attaches a session token to subsequent uploads.
func (c *Client) SetToken(token string) {
	c.token = token
}

// UploadFile reads path and stores it remotely.
func (c *Client) UploadFile(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrValidation, "cannot read file", err)
	}
	if info.Size() > MaxFileBytes {
		return nil, errors.Newf(errors.ErrUploadTooLarge,
			"file is %s, limit is %s", humanize.Bytes(uint64(info.Size())), humanize.Bytes(MaxFileBytes))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrValidation, "cannot read file", err)
	}
	return c.Upload(ctx, filepath.Base(path), data)
}

// Upload stores raw bytes under the given name.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (*Result, error) {
	if len(data) > MaxFileBytes {
		return nil, errors.Newf(errors.ErrUploadTooLarge,
			"payload is %s, limit is %s", humanize.Bytes(uint64(len(data))), humanize.Bytes(MaxFileBytes))
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build upload form", err)
	}
	if _, err := fw.Write(data); err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build upload form", err)
	}
	mw.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/uploads", &buf)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStoreUnavailable, "upload endpoint unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStoreUnavailable, "failed to read upload response", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var payload struct {
			Code  string `json:"code"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Code != "" {
			return nil, errors.New(errors.ErrorCode(payload.Code), payload.Error)
		}
		return nil, errors.Newf(errors.ErrUpstream, "upload failed with status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(errors.ErrStoreUnavailable, "malformed upload response", err)
	}
	return &result, nil
}

// DetectContentType sniffs the MIME type of data, matching what the
// server will record.
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}
