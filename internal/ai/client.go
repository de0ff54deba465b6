// Package ai integrates the LLM backend used for document summaries,
// format conversion, scholarship discovery and resume feedback. All
// upstream failures surface verbatim under a single error code; the
// package never retries or rewrites provider messages.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/logging"
)

// InvokeRequest describes one LLM invocation.
type InvokeRequest struct {
	// Prompt is the instruction sent to the model.
	Prompt string `json:"prompt"`

	// ResponseSchema, when set, constrains the reply to a JSON document
	// matching the given JSON Schema.
	ResponseSchema map[string]interface{} `json:"response_json_schema,omitempty"`

	// FileURLs attaches previously uploaded files as context.
	FileURLs []string `json:"file_urls,omitempty"`

	// AddContextFromInternet lets the provider pull in web results.
	AddContextFromInternet bool `json:"add_context_from_internet,omitempty"`
}

// InvokeResponse is the provider's reply. Content holds plain text, or
// the raw JSON document when a schema was requested.
type InvokeResponse struct {
	Content json.RawMessage `json:"content"`
	Model   string          `json:"model,omitempty"`
}

// Client talks to the LLM endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds an LLM client. model may be empty to use the
// provider default.
func NewClient(endpoint, apiKey, model string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Invoke sends one request and returns the reply.
func (c *Client) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.New(errors.ErrValidation, "prompt is required")
	}
	if c.endpoint == "" {
		return nil, errors.New(errors.ErrValidation, "ai endpoint is not configured")
	}

	payload := map[string]interface{}{
		"prompt": req.Prompt,
	}
	if c.model != "" {
		payload["model"] = c.model
	}
	if req.ResponseSchema != nil {
		payload["response_json_schema"] = req.ResponseSchema
	}
	if len(req.FileURLs) > 0 {
		payload["file_urls"] = req.FileURLs
	}
	if req.AddContextFromInternet {
		payload["add_context_from_internet"] = true
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/invoke", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUpstream, "llm request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUpstream, "failed to read llm response", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Provider messages pass through untouched.
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = fmt.Sprintf("llm returned %d", resp.StatusCode)
		}
		return nil, errors.New(errors.ErrUpstream, msg)
	}

	var out InvokeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.ErrUpstream, "malformed llm response", err)
	}

	logging.Debug("llm invocation complete", map[string]interface{}{
		"model":   out.Model,
		"elapsed": time.Since(start).String(),
	})
	return &out, nil
}

// InvokeInto runs Invoke with a schema derived for v and decodes the
// structured reply into it.
func (c *Client) InvokeInto(ctx context.Context, req InvokeRequest, v interface{}) error {
	resp, err := c.Invoke(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Content, v); err != nil {
		return errors.Wrap(errors.ErrUpstream, "llm reply did not match requested schema", err)
	}
	return nil
}
