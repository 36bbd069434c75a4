// Package web exposes the daemon's local status API: a health probe, the
// pending notification queue, and the current timeline.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"jetcal/internal/config"
	"jetcal/internal/model"
	"jetcal/internal/notify"
	"jetcal/internal/timeline"
)

// EventSource supplies the most recently synced event batch.
type EventSource interface {
	Events() []model.CalendarEvent
}

// Server provides the local status HTTP API.
type Server struct {
	cfg    *config.Config
	store  *notify.Store
	events EventSource
	logger *zap.Logger
	mux    *http.ServeMux
}

// NewServer constructs a Server.
func NewServer(cfg *config.Config, store *notify.Store, events EventSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		store:  store,
		events: events,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/notifications", s.handleNotifications)
	s.mux.HandleFunc("/api/timeline", s.handleTimeline)
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pending, err := s.store.Pending(r.Context())
	if err != nil {
		s.logger.Error("listing pending notifications failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	type item struct {
		ID      string    `json:"id"`
		EventID string    `json:"eventId"`
		Title   string    `json:"title"`
		Body    string    `json:"body"`
		FireAt  time.Time `json:"fireAt"`
	}
	out := make([]item, 0, len(pending))
	for _, n := range pending {
		out = append(out, item{
			ID:      n.ID,
			EventID: n.EventID,
			Title:   n.Title,
			Body:    n.Body,
			FireAt:  n.FireAt,
		})
	}
	s.writeJSON(w, out)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	loc := s.cfg.Location()
	buckets := timeline.Group(s.events.Events(), loc, s.logger)

	type day struct {
		Date   string                `json:"date"`
		Events []model.CalendarEvent `json:"events"`
	}
	out := make([]day, 0, len(buckets))
	for _, b := range buckets {
		d := day{Date: b.Date.Format("2006-01-02")}
		for _, e := range b.Entries {
			d.Events = append(d.Events, e.Event)
		}
		out = append(out, d)
	}
	s.writeJSON(w, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing JSON response failed", zap.Error(err))
	}
}

// Start runs the status server until ctx is cancelled, then shuts it down
// gracefully.
func Start(ctx context.Context, cfg *config.Config, store *notify.Store, events EventSource, logger *zap.Logger) error {
	s := NewServer(cfg, store, events, logger)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("status API listening", zap.String("listen", "http://"+cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
