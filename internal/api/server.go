// Package api provides the REST surface of the StudyHub entity store:
// per-kind collection and record endpoints, session establishment,
// file uploads and a websocket channel for record-change events.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/logging"
	"github.com/studyhub-app/backend/internal/session"
	"github.com/studyhub-app/backend/internal/store"
)

// Server routes store operations over HTTP.
type Server struct {
	store     store.Store
	sessions  *session.Manager // nil disables authentication
	hub       *Hub
	uploadDir string
	mux       *http.ServeMux
}

// NewServer wires the handlers. When sessions is nil every request is
// accepted without a token.
func NewServer(st store.Store, sessions *session.Manager, uploadDir string) *Server {
	s := &Server{
		store:     st,
		sessions:  sessions,
		hub:       NewHub(),
		uploadDir: uploadDir,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start launches background workers (the event hub). It returns
// immediately; cancel ctx to stop them.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx)
}

// Hub exposes the event hub, mainly so mutations made outside the
// HTTP surface can still be announced.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/session", s.handleSession)
	s.mux.HandleFunc("/api/records/{kind}", s.requireSession(s.handleCollection))
	s.mux.HandleFunc("/api/records/{kind}/{id}", s.requireSession(s.handleRecord))
	s.mux.HandleFunc("/api/uploads", s.requireSession(s.handleUpload))
	s.mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(s.uploadDir))))
	s.mux.HandleFunc("/ws", s.hub.HandleWS)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "studyhub-store",
	})
}

// handleSession establishes a session: POST {"userId": "..."}.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.sessions == nil {
		writeError(w, errors.New(errors.ErrValidation, "sessions are not configured"))
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrValidation, "invalid request body", err))
		return
	}

	sess, err := s.sessions.Establish(req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// requireSession validates the bearer token when sessions are enabled.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.sessions == nil {
			next(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, errors.New(errors.ErrSessionInvalid, "missing bearer token"))
			return
		}
		if _, err := s.sessions.Verify(strings.TrimPrefix(header, "Bearer ")); err != nil {
			writeError(w, err)
			return
		}
		next(w, r)
	}
}

// handleCollection handles GET (list/filter) and POST (create) on
// /api/records/{kind}.
func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")

	switch r.Method {
	case http.MethodGet:
		opts := store.ListOptions{Sort: r.URL.Query().Get("sort")}
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil || limit < 0 {
				writeError(w, errors.Newf(errors.ErrValidation, "invalid limit: %s", limitStr))
				return
			}
			opts.Limit = limit
		}

		// Every query parameter besides sort/limit is an exact-match
		// filter field.
		for key, values := range r.URL.Query() {
			if key == "sort" || key == "limit" || len(values) == 0 {
				continue
			}
			if opts.Filter == nil {
				opts.Filter = map[string]interface{}{}
			}
			opts.Filter[key] = parseFilterValue(values[0])
		}

		docs, err := s.store.List(r.Context(), kind, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items": docs,
			"total": len(docs),
		})

	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrValidation, "failed to read request body", err))
			return
		}
		doc, err := s.store.Create(r.Context(), kind, body)
		if err != nil {
			writeError(w, err)
			return
		}
		s.hub.BroadcastRecord(EventRecordCreated, kind, doc)
		writeRaw(w, http.StatusCreated, doc)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRecord handles GET, PATCH and DELETE on
// /api/records/{kind}/{id}.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		doc, err := s.store.Get(r.Context(), kind, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeRaw(w, http.StatusOK, doc)

	case http.MethodPatch:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrValidation, "failed to read request body", err))
			return
		}
		doc, err := s.store.Update(r.Context(), kind, id, body)
		if err != nil {
			writeError(w, err)
			return
		}
		s.hub.BroadcastRecord(EventRecordUpdated, kind, doc)
		writeRaw(w, http.StatusOK, doc)

	case http.MethodDelete:
		if err := s.store.Delete(r.Context(), kind, id); err != nil {
			writeError(w, err)
			return
		}
		s.hub.BroadcastRecord(EventRecordDeleted, kind, json.RawMessage(`{"id":"`+id+`"}`))
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// parseFilterValue converts a query parameter into a typed filter
// value so boolean and numeric fields compare correctly.
func parseFilterValue(s string) interface{} {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func statusFor(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrValidation, errors.ErrUnknownKind:
		return http.StatusBadRequest
	case errors.ErrSessionInvalid, errors.ErrSessionExpired:
		return http.StatusUnauthorized
	case errors.ErrUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error("request failed", err)
	}
	writeJSON(w, status, map[string]interface{}{
		"code":  string(errors.CodeOf(err)),
		"error": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, doc json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(doc)
}
