package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jetcal/internal/api"
	"jetcal/internal/config"
	"jetcal/internal/model"
	"jetcal/internal/notify"
)

func newTestSyncer(t *testing.T, backendURL string, cfg *config.Config) (*Syncer, *notify.Store) {
	t.Helper()

	store, err := notify.Open(filepath.Join(t.TempDir(), "jetcal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := api.New(backendURL, nil)
	scheduler := notify.NewScheduler(store, notify.DefaultLead, time.UTC, nil)
	return New(cfg, client, scheduler, store, nil), store
}

func TestCycle_SchedulesFutureEventsOnly(t *testing.T) {
	now := time.Now().UTC()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]model.CalendarEvent{
			{ID: "past", Title: "Already happened", StartTime: now.Add(-time.Hour).Format(time.RFC3339)},
			{ID: "future", Title: "Nap window", StartTime: now.Add(2 * time.Hour).Format(time.RFC3339)},
		})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Reminders = nil
	s, store := newTestSyncer(t, srv.URL, cfg)

	require.NoError(t, s.Cycle(context.Background()))

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "future", pending[0].EventID)

	// The merged batch (including past events) is kept for the status API.
	assert.Len(t, s.Events(), 2)
}

func TestCycle_NotReadyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Reminders = nil
	s, store := newTestSyncer(t, srv.URL, cfg)

	require.NoError(t, s.Cycle(context.Background()))

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCycle_MergesReminderOccurrences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.CalendarEvent{})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.HorizonDays = 1
	cfg.Reminders = []config.ReminderConfig{
		{ID: "hydrate", Title: "Hydrate", RRule: "FREQ=HOURLY;INTERVAL=6", DurationMinutes: 5},
	}
	s, store := newTestSyncer(t, srv.URL, cfg)

	require.NoError(t, s.Cycle(context.Background()))

	pending, err := store.Pending(context.Background())
	require.NoError(t, err)
	// Occurrences every 6h over a 1-day horizon; the one at the window
	// start is filtered out as already past its fire time.
	assert.NotEmpty(t, pending)
	for _, n := range pending {
		assert.Equal(t, "Hydrate", n.Title)
	}
}

func TestDispatchDue_MarksDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.CalendarEvent{})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	s, store := newTestSyncer(t, srv.URL, cfg)

	ctx := context.Background()
	require.NoError(t, store.Schedule(ctx, notify.Notification{
		ID: "n1", EventID: "e1", Title: "Due now", Body: "b", Sound: "default",
		FireAt: time.Now().Add(-time.Minute),
	}))

	s.dispatchDue(ctx)

	pending, err := store.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
