package entity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/store"
)

// HTTPStore implements store.Store against a remote record API, so the
// same typed clients work in-process and over the wire.
type HTTPStore struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPStore points a store at baseURL (for example
// "http://localhost:8484").
func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken attaches a session token to subsequent requests.
func (h *HTTPStore) SetToken(token string) {
	h.token = token
}

// List implements store.Store.
func (h *HTTPStore) List(ctx context.Context, kind string, opts store.ListOptions) ([]json.RawMessage, error) {
	q := url.Values{}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}
	for field, value := range opts.Filter {
		q.Set(field, fmt.Sprintf("%v", value))
	}

	endpoint := h.baseURL + "/api/records/" + kind
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	body, err := h.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var page struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, errors.Wrap(errors.ErrStoreUnavailable, "malformed list response", err)
	}
	return page.Items, nil
}

// Get implements store.Store.
func (h *HTTPStore) Get(ctx context.Context, kind, id string) (json.RawMessage, error) {
	return h.do(ctx, http.MethodGet, h.baseURL+"/api/records/"+kind+"/"+id, nil)
}

// Create implements store.Store.
func (h *HTTPStore) Create(ctx context.Context, kind string, fields json.RawMessage) (json.RawMessage, error) {
	return h.do(ctx, http.MethodPost, h.baseURL+"/api/records/"+kind, fields)
}

// Update implements store.Store.
func (h *HTTPStore) Update(ctx context.Context, kind, id string, patch json.RawMessage) (json.RawMessage, error) {
	return h.do(ctx, http.MethodPatch, h.baseURL+"/api/records/"+kind+"/"+id, patch)
}

// Delete implements store.Store.
func (h *HTTPStore) Delete(ctx context.Context, kind, id string) error {
	_, err := h.do(ctx, http.MethodDelete, h.baseURL+"/api/records/"+kind+"/"+id, nil)
	return err
}

func (h *HTTPStore) do(ctx context.Context, method, endpoint string, body json.RawMessage) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStoreUnavailable, "record store unreachable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStoreUnavailable, "failed to read response", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}
	return nil, remoteError(resp.StatusCode, data)
}

// remoteError rebuilds a coded error from the API error body, falling
// back to the HTTP status when the body is opaque.
func remoteError(status int, body []byte) error {
	var payload struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Code != "" {
		msg := payload.Error
		if msg == "" {
			msg = "request failed"
		}
		return errors.New(errors.ErrorCode(payload.Code), msg)
	}

	switch {
	case status == http.StatusNotFound:
		return errors.New(errors.ErrNotFound, "record not found")
	case status == http.StatusBadRequest:
		return errors.New(errors.ErrValidation, "request rejected")
	case status == http.StatusUnauthorized:
		return errors.New(errors.ErrSessionInvalid, "session rejected")
	case status == http.StatusRequestEntityTooLarge:
		return errors.New(errors.ErrUploadTooLarge, "payload too large")
	case status >= 500:
		return errors.Newf(errors.ErrStoreUnavailable, "record store returned %d", status)
	default:
		return errors.Newf(errors.ErrInternal, "unexpected status %d", status)
	}
}
