package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/studyhub-app/backend/internal/models"
	"github.com/studyhub-app/backend/internal/session"
	"github.com/studyhub-app/backend/internal/store"
)

// setupTestServer starts the API over an in-memory store.
func setupTestServer(t *testing.T, sessions *session.Manager) (*httptest.Server, *Server) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.NewSQLStore(db)
	if err := st.Migrate(); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	srv := NewServer(st, sessions, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv.Start(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, srv
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return out
}

func TestHealth(t *testing.T) {
	ts, _ := setupTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("Health request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestRecordLifecycle(t *testing.T) {
	ts, _ := setupTestServer(t, nil)
	base := ts.URL + "/api/records/" + models.KindNote

	// Create.
	resp := doJSON(t, http.MethodPost, base, map[string]interface{}{
		"title":   "Graph theory",
		"content": "Adjacency matrices",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	created := decodeBody(t, resp)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("Expected server-assigned id")
	}

	// Get.
	resp = doJSON(t, http.MethodGet, base+"/"+id, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	got := decodeBody(t, resp)
	if got["title"] != "Graph theory" {
		t.Errorf("Expected title to round-trip, got %v", got["title"])
	}

	// Patch.
	resp = doJSON(t, http.MethodPatch, base+"/"+id, map[string]interface{}{"title": "Graphs"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	patched := decodeBody(t, resp)
	if patched["title"] != "Graphs" {
		t.Errorf("Expected patched title, got %v", patched["title"])
	}
	if patched["content"] != "Adjacency matrices" {
		t.Errorf("Expected untouched fields to survive, got %v", patched["content"])
	}

	// Delete, then verify it is really gone.
	resp = doJSON(t, http.MethodDelete, base+"/"+id, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, base+"/"+id, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 after delete, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, base+"/"+id, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404 on second delete, got %d", resp.StatusCode)
	}
}

func TestListFilterAndSort(t *testing.T) {
	ts, _ := setupTestServer(t, nil)
	base := ts.URL + "/api/records/" + models.KindTodo

	for i, title := range []string{"charlie", "alpha", "bravo"} {
		resp := doJSON(t, http.MethodPost, base, map[string]interface{}{
			"title":     title,
			"completed": i == 1,
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Seed create failed with %d", resp.StatusCode)
		}
	}

	resp := doJSON(t, http.MethodGet, base+"?sort=title:asc", nil)
	body := decodeBody(t, resp)
	items := body["items"].([]interface{})
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if first["title"] != "alpha" {
		t.Errorf("Expected alpha first, got %v", first["title"])
	}

	// Boolean query parameters become typed filter values.
	resp = doJSON(t, http.MethodGet, base+"?completed=true", nil)
	body = decodeBody(t, resp)
	items = body["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 completed todo, got %d", len(items))
	}

	resp = doJSON(t, http.MethodGet, base+"?limit=2", nil)
	body = decodeBody(t, resp)
	if n := body["total"].(float64); n != 2 {
		t.Errorf("Expected total 2 with limit, got %v", n)
	}
}

func TestUnknownKindRejected(t *testing.T) {
	ts, _ := setupTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/records/gadgets", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["code"] != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR code, got %v", body["code"])
	}
}

func TestInvalidLimitRejected(t *testing.T) {
	ts, _ := setupTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/records/"+models.KindNote+"?limit=lots", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestSessionRequired(t *testing.T) {
	mgr := session.NewManager([]byte("test-secret"), time.Hour)
	ts, _ := setupTestServer(t, mgr)
	base := ts.URL + "/api/records/" + models.KindNote

	// Without a token the collection is closed.
	resp := doJSON(t, http.MethodGet, base, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", resp.StatusCode)
	}

	// Establish a session, then retry with the bearer token.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/session", map[string]string{"userId": "user-1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 establishing session, got %d", resp.StatusCode)
	}
	sess := decodeBody(t, resp)
	token, _ := sess["token"].(string)
	if token == "" {
		t.Fatal("Expected a session token")
	}

	req, _ := http.NewRequest(http.MethodGet, base, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authed, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Authorized request failed: %v", err)
	}
	authed.Body.Close()
	if authed.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 with token, got %d", authed.StatusCode)
	}

	// Garbage tokens stay out.
	req, _ = http.NewRequest(http.MethodGet, base, nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	denied, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	denied.Body.Close()
	if denied.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401 with bad token, got %d", denied.StatusCode)
	}
}

func TestUploadAndServe(t *testing.T) {
	ts, _ := setupTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	fmt.Fprint(fw, "exam revision checklist")
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/uploads", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	fileURL, _ := body["fileUrl"].(string)
	if !strings.HasPrefix(fileURL, "/files/") {
		t.Fatalf("Expected /files/ URL, got %q", fileURL)
	}
	if body["sizeBytes"].(float64) == 0 {
		t.Error("Expected non-zero size")
	}

	// The stored file is served back under /files/.
	served, err := http.Get(ts.URL + fileURL)
	if err != nil {
		t.Fatalf("Fetch of stored file failed: %v", err)
	}
	defer served.Body.Close()
	if served.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 serving file, got %d", served.StatusCode)
	}
	content, _ := io.ReadAll(served.Body)
	if string(content) != "exam revision checklist" {
		t.Errorf("Stored file content mismatch: %q", content)
	}
}

func TestUploadMissingFileField(t *testing.T) {
	ts, _ := setupTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("name", "no file here")
	mw.Close()

	resp, err := http.Post(ts.URL+"/api/uploads", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestParseFilterValue(t *testing.T) {
	if v := parseFilterValue("true"); v != true {
		t.Errorf("Expected true, got %v", v)
	}
	if v := parseFilterValue("42"); v != int64(42) {
		t.Errorf("Expected int64 42, got %v (%T)", v, v)
	}
	if v := parseFilterValue("2.5"); v != 2.5 {
		t.Errorf("Expected 2.5, got %v", v)
	}
	if v := parseFilterValue("alpha"); v != "alpha" {
		t.Errorf("Expected string, got %v (%T)", v, v)
	}
}
