package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/backend/internal/errors"
)

// fakeProvider captures the request and plays back a canned reply.
type fakeProvider struct {
	lastBody map[string]interface{}
	status   int
	reply    string
}

func (f *fakeProvider) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.lastBody = map[string]interface{}{}
		json.NewDecoder(r.Body).Decode(&f.lastBody)
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		w.Write([]byte(f.reply))
	}
}

func TestInvokeSendsAllFields(t *testing.T) {
	provider := &fakeProvider{reply: `{"content":"done","model":"test-model"}`}
	ts := httptest.NewServer(provider.handler())
	defer ts.Close()

	c := NewClient(ts.URL, "key-123", "test-model")
	resp, err := c.Invoke(context.Background(), InvokeRequest{
		Prompt:                 "hello",
		FileURLs:               []string{"/files/a.pdf"},
		AddContextFromInternet: true,
		ResponseSchema:         map[string]interface{}{"type": "object"},
	})
	require.NoError(t, err)
	require.Equal(t, "test-model", resp.Model)

	require.Equal(t, "hello", provider.lastBody["prompt"])
	require.Equal(t, "test-model", provider.lastBody["model"])
	require.Equal(t, true, provider.lastBody["add_context_from_internet"])
	require.NotNil(t, provider.lastBody["response_json_schema"])
	require.Len(t, provider.lastBody["file_urls"], 1)
}

func TestInvokeRequiresPrompt(t *testing.T) {
	c := NewClient("http://localhost:1", "", "")
	_, err := c.Invoke(context.Background(), InvokeRequest{})
	require.True(t, errors.Is(err, errors.ErrValidation))
}

func TestUpstreamFailuresPassThroughVerbatim(t *testing.T) {
	provider := &fakeProvider{status: http.StatusServiceUnavailable, reply: "model overloaded, try later"}
	ts := httptest.NewServer(provider.handler())
	defer ts.Close()

	c := NewClient(ts.URL, "", "")
	_, err := c.Invoke(context.Background(), InvokeRequest{Prompt: "hi"})
	require.True(t, errors.Is(err, errors.ErrUpstream))
	require.Contains(t, err.Error(), "model overloaded, try later")
}

func TestInvokeUnreachableEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	c := NewClient(addr, "", "")
	_, err := c.Invoke(context.Background(), InvokeRequest{Prompt: "hi"})
	require.True(t, errors.Is(err, errors.ErrUpstream))
}

func TestDiscoverScholarshipsDecodesStructuredReply(t *testing.T) {
	content, _ := json.Marshal(map[string]interface{}{
		"scholarships": []map[string]string{
			{"name": "STEM Futures Grant", "amount": "$5000", "deadline": "2026-12-01"},
		},
	})
	reply, _ := json.Marshal(map[string]interface{}{"content": json.RawMessage(content)})

	provider := &fakeProvider{reply: string(reply)}
	ts := httptest.NewServer(provider.handler())
	defer ts.Close()

	c := NewClient(ts.URL, "", "")
	results, err := c.DiscoverScholarships(context.Background(), "second-year physics student")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "STEM Futures Grant", results[0].Name)

	// Web context is requested for discovery.
	require.Equal(t, true, provider.lastBody["add_context_from_internet"])
}

func TestSummarizeDocumentAttachesFile(t *testing.T) {
	provider := &fakeProvider{reply: `{"content":"a short summary"}`}
	ts := httptest.NewServer(provider.handler())
	defer ts.Close()

	c := NewClient(ts.URL, "", "")
	summary, err := c.SummarizeDocument(context.Background(), "/files/lecture.pdf")
	require.NoError(t, err)
	require.Equal(t, "a short summary", summary)
	require.Len(t, provider.lastBody["file_urls"], 1)
}
