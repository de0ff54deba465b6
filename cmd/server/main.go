// Package main runs the StudyHub record server: a SQLite-backed entity
// store with REST and websocket surfaces on localhost.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/studyhub-app/backend/internal/api"
	"github.com/studyhub-app/backend/internal/config"
	"github.com/studyhub-app/backend/internal/logging"
	"github.com/studyhub-app/backend/internal/session"
	"github.com/studyhub-app/backend/internal/store"
)

// Version is set at build time.
var Version = "0.1.0"

func main() {
	cfg := config.Load()
	logging.Init(os.Stdout, cfg.LogLevel)

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		logging.Error("failed to open store", err)
		os.Exit(1)
	}
	defer st.Close()

	var sessions *session.Manager
	if cfg.SessionSecret != "" {
		sessions = session.NewManager([]byte(cfg.SessionSecret), cfg.SessionValidity)
	} else {
		logging.Warn("no session secret configured, API runs open")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(st, sessions, cfg.UploadDir)
	srv.Start(ctx)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		<-ctx.Done()
		logging.Info("shutting down")
		httpServer.Shutdown(context.Background())
	}()

	logging.Info("server starting", map[string]interface{}{
		"version": Version,
		"addr":    cfg.Addr,
		"dataDir": cfg.DataDir,
	})
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Error("server exited", err)
		os.Exit(1)
	}
}
