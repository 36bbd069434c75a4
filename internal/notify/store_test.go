package notify

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jetcal/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "jetcal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testNotification(eventID string, fireAt time.Time) Notification {
	return Notification{
		ID:      uuid.NewString(),
		EventID: eventID,
		Title:   "Hydrate",
		Body:    "Drink a glass of water",
		Sound:   "default",
		FireAt:  fireAt,
	}
}

func TestStore_ScheduleAndPendingOrdered(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Schedule(ctx, testNotification("late", base.Add(2*time.Hour))))
	require.NoError(t, store.Schedule(ctx, testNotification("early", base.Add(time.Hour))))

	pending, err := store.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "early", pending[0].EventID)
	assert.Equal(t, "late", pending[1].EventID)
	assert.True(t, pending[0].FireAt.Equal(base.Add(time.Hour)))
}

func TestStore_CancelAllClearsPendingOnly(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	delivered := testNotification("done", base.Add(-time.Hour))
	require.NoError(t, store.Schedule(ctx, delivered))
	require.NoError(t, store.MarkDelivered(ctx, delivered.ID, base))
	require.NoError(t, store.Schedule(ctx, testNotification("pending", base.Add(time.Hour))))

	require.NoError(t, store.CancelAll(ctx))

	pending, err := store.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Delivered history is untouched: re-marking must still find the row.
	require.NoError(t, store.MarkDelivered(ctx, delivered.ID, base))
}

func TestStore_DueBoundary(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	exact := testNotification("exact", now)
	future := testNotification("future", now.Add(time.Minute))
	require.NoError(t, store.Schedule(ctx, exact))
	require.NoError(t, store.Schedule(ctx, future))

	due, err := store.Due(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "exact", due[0].EventID)

	require.NoError(t, store.MarkDelivered(ctx, exact.ID, now))

	due, err = store.Due(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestStore_PermissionDefaultsToGranted(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	status, err := store.RequestPermission(ctx)
	require.NoError(t, err)
	assert.True(t, status.Granted())
	assert.True(t, status.Sound)
	assert.True(t, status.Badge)

	require.NoError(t, store.SetPermission(ctx, false))
	status, err = store.RequestPermission(ctx)
	require.NoError(t, err)
	assert.False(t, status.Granted())

	require.NoError(t, store.SetPermission(ctx, true))
	status, err = store.RequestPermission(ctx)
	require.NoError(t, err)
	assert.True(t, status.Granted())
}

func TestStore_EnsureChannelIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureChannel(ctx, DefaultChannel()))
	require.NoError(t, store.EnsureChannel(ctx, DefaultChannel()))
}

func TestStore_SchedulerIntegration(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NewScheduler(store, DefaultLead, time.UTC, nil)
	s.Now = func() time.Time { return now }

	events := []model.CalendarEvent{
		event("e1", now.Add(time.Hour)),
		event("e2", now.Add(2*time.Hour)),
	}

	s.ScheduleForEvents(ctx, events)
	s.ScheduleForEvents(ctx, events)

	pending, err := store.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2, "rescheduling through the store must not duplicate")
}
