package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studyhub-app/backend/internal/errors"
)

// SummarizeDocument produces a plain-text summary of an uploaded file.
func (c *Client) SummarizeDocument(ctx context.Context, fileURL string) (string, error) {
	if fileURL == "" {
		return "", errors.New(errors.ErrValidation, "fileURL is required")
	}
	resp, err := c.Invoke(ctx, InvokeRequest{
		Prompt:   "Summarize this document for a student. Keep the key definitions and results, drop filler.",
		FileURLs: []string{fileURL},
	})
	if err != nil {
		return "", err
	}
	return decodeText(resp.Content)
}

// ConvertDocument rewrites an uploaded file into the target format
// ("markdown", "outline", "flashcards" and so on) and returns the
// converted text.
func (c *Client) ConvertDocument(ctx context.Context, fileURL, targetFormat string) (string, error) {
	if fileURL == "" || targetFormat == "" {
		return "", errors.New(errors.ErrValidation, "fileURL and targetFormat are required")
	}
	resp, err := c.Invoke(ctx, InvokeRequest{
		Prompt:   fmt.Sprintf("Convert this document to %s. Preserve all content, change only the structure.", targetFormat),
		FileURLs: []string{fileURL},
	})
	if err != nil {
		return "", err
	}
	return decodeText(resp.Content)
}

// Scholarship is one structured discovery result.
type Scholarship struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Amount      string `json:"amount"`
	Deadline    string `json:"deadline"`
	Eligibility string `json:"eligibility"`
	URL         string `json:"url"`
}

// DiscoverScholarships searches the web for scholarships matching a
// free-form profile description.
func (c *Client) DiscoverScholarships(ctx context.Context, profile string) ([]Scholarship, error) {
	if profile == "" {
		return nil, errors.New(errors.ErrValidation, "profile is required")
	}

	var out struct {
		Scholarships []Scholarship `json:"scholarships"`
	}
	err := c.InvokeInto(ctx, InvokeRequest{
		Prompt:                 "Find currently open scholarships matching this student profile: " + profile,
		AddContextFromInternet: true,
		ResponseSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"scholarships": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"name":        map[string]interface{}{"type": "string"},
							"provider":    map[string]interface{}{"type": "string"},
							"amount":      map[string]interface{}{"type": "string"},
							"deadline":    map[string]interface{}{"type": "string"},
							"eligibility": map[string]interface{}{"type": "string"},
							"url":         map[string]interface{}{"type": "string"},
						},
					},
				},
			},
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Scholarships, nil
}

// ImproveResumeSummary suggests a sharper professional summary.
func (c *Client) ImproveResumeSummary(ctx context.Context, current string) (string, error) {
	if current == "" {
		return "", errors.New(errors.ErrValidation, "current summary is required")
	}
	resp, err := c.Invoke(ctx, InvokeRequest{
		Prompt: "Rewrite this resume summary to be specific and achievement-led, at most three sentences: " + current,
	})
	if err != nil {
		return "", err
	}
	return decodeText(resp.Content)
}

// decodeText unwraps a content payload that may be a JSON string or
// bare text.
func decodeText(content json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s, nil
	}
	return string(content), nil
}
