package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// healthcheckServer exposes liveness and the running scenario's post-mortem
// Debrief over HTTP, adapted from the teacher's healthCheckServer/
// healthHandler pair (internal/app/healthcheck.go in burstgridgo). Terminal
// pretty-printing is out of scope per spec.md §1; this JSON endpoint is the
// ambient substitute for "an inspectable window into the scheduler" a demo
// binary needs.
type healthcheckServer struct {
	httpServer *http.Server
	app        *App
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) statusHandler(w http.ResponseWriter, r *http.Request) {
	if a.sched == nil {
		http.Error(w, "scheduler not started", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.sched.Debrief()); err != nil {
		a.logger.Error("Status endpoint failed to encode debrief.", "error", err)
	}
}

// startHealthcheckServer initializes and runs the health/status HTTP
// server in the background. It is a no-op when port is non-positive.
func (a *App) startHealthcheckServer(port int) {
	if port <= 0 {
		a.logger.Debug("Health check server not started: disabled")
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/status", a.statusHandler)

	addr := fmt.Sprintf(":%d", port)
	a.srv = &healthcheckServer{
		app:        a,
		httpServer: &http.Server{Addr: addr, Handler: mux},
	}

	go func() {
		a.logger.Info("🩺 Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := a.srv.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (a *App) closeHealthcheckServer(ctx context.Context) error {
	if a.srv == nil {
		return nil
	}
	a.logger.Debug("Closing health check server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.srv.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	a.logger.Debug("Health check server shut down gracefully.")
	return nil
}
