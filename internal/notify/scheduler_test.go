package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jetcal/internal/model"
)

// fakePlatform records every call the scheduler makes.
type fakePlatform struct {
	permission    PermissionStatus
	permissionErr error
	channelErr    error
	cancelErr     error
	scheduleErrs  map[string]error // keyed by event ID

	channels    []Channel
	cancelCalls int
	scheduled   []Notification
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		permission: PermissionStatus{Alert: true, Sound: true, Badge: true},
	}
}

func (f *fakePlatform) RequestPermission(ctx context.Context) (PermissionStatus, error) {
	return f.permission, f.permissionErr
}

func (f *fakePlatform) EnsureChannel(ctx context.Context, ch Channel) error {
	if f.channelErr != nil {
		return f.channelErr
	}
	f.channels = append(f.channels, ch)
	return nil
}

func (f *fakePlatform) CancelAll(ctx context.Context) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelCalls++
	f.scheduled = nil
	return nil
}

func (f *fakePlatform) Schedule(ctx context.Context, n Notification) error {
	if err := f.scheduleErrs[n.EventID]; err != nil {
		return err
	}
	f.scheduled = append(f.scheduled, n)
	return nil
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestScheduler(p Platform) *Scheduler {
	s := NewScheduler(p, DefaultLead, time.UTC, nil)
	s.Now = func() time.Time { return testNow }
	return s
}

func event(id string, start time.Time) model.CalendarEvent {
	return model.CalendarEvent{
		ID:        id,
		Title:     "Bright light exposure",
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(30 * time.Minute).Format(time.RFC3339),
	}
}

func TestScheduleForEvents_PermissionDeniedIsSideEffectFree(t *testing.T) {
	p := newFakePlatform()
	p.permission = PermissionStatus{}
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{
		event("e1", testNow.Add(time.Hour)),
	})

	assert.Zero(t, p.cancelCalls)
	assert.Empty(t, p.channels)
	assert.Empty(t, p.scheduled)
}

func TestScheduleForEvents_PermissionErrorAborts(t *testing.T) {
	p := newFakePlatform()
	p.permissionErr = errors.New("platform unavailable")
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{
		event("e1", testNow.Add(time.Hour)),
	})

	assert.Zero(t, p.cancelCalls)
	assert.Empty(t, p.scheduled)
}

func TestScheduleForEvents_EnsuresDefaultChannel(t *testing.T) {
	p := newFakePlatform()
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), nil)

	require.Len(t, p.channels, 1)
	ch := p.channels[0]
	assert.Equal(t, DefaultChannelID, ch.ID)
	assert.Equal(t, ImportanceMax, ch.Importance)
	assert.Len(t, ch.VibrationPattern, 4)
	assert.NotEmpty(t, ch.LightColor)
}

func TestScheduleForEvents_PastEventExcluded(t *testing.T) {
	p := newFakePlatform()
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{
		event("past", testNow.Add(-time.Hour)),
	})

	assert.Empty(t, p.scheduled)
	assert.Equal(t, 1, p.cancelCalls)
}

func TestScheduleForEvents_LeadTimeBoundary(t *testing.T) {
	p := newFakePlatform()
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{
		event("soon", testNow.Add(4*time.Minute)),    // fire time already passed
		event("later", testNow.Add(6*time.Minute)),   // fires at now+1m
		event("at-now", testNow),                     // start not past, fire time is
	})

	require.Len(t, p.scheduled, 1)
	n := p.scheduled[0]
	assert.Equal(t, "later", n.EventID)
	assert.True(t, n.FireAt.Equal(testNow.Add(time.Minute)), "fire time should be now+1m, got %v", n.FireAt)
}

func TestScheduleForEvents_IdempotentRescheduling(t *testing.T) {
	p := newFakePlatform()
	s := newTestScheduler(p)

	events := []model.CalendarEvent{
		event("e1", testNow.Add(time.Hour)),
		event("e2", testNow.Add(2*time.Hour)),
	}

	s.ScheduleForEvents(context.Background(), events)
	s.ScheduleForEvents(context.Background(), events)

	assert.Equal(t, 2, p.cancelCalls)
	assert.Len(t, p.scheduled, 2, "second call must not accumulate duplicates")
}

func TestScheduleForEvents_CancelFailureKeepsOldBatch(t *testing.T) {
	p := newFakePlatform()
	p.cancelErr = errors.New("store locked")
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{
		event("e1", testNow.Add(time.Hour)),
	})

	assert.Empty(t, p.scheduled)
}

func TestScheduleForEvents_PerEventFailureContinuesBatch(t *testing.T) {
	p := newFakePlatform()
	p.scheduleErrs = map[string]error{"e1": errors.New("quota exceeded")}
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{
		event("e1", testNow.Add(time.Hour)),
		event("e2", testNow.Add(2*time.Hour)),
	})

	require.Len(t, p.scheduled, 1)
	assert.Equal(t, "e2", p.scheduled[0].EventID)
}

func TestScheduleForEvents_UnparsableStartSkipped(t *testing.T) {
	p := newFakePlatform()
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{
		{ID: "bad", Title: "x", StartTime: "not-a-time"},
		event("ok", testNow.Add(time.Hour)),
	})

	require.Len(t, p.scheduled, 1)
	assert.Equal(t, "ok", p.scheduled[0].EventID)
}

func TestScheduleForEvents_BodyFallsBackToLocalStartTime(t *testing.T) {
	p := newFakePlatform()
	s := newTestScheduler(p)

	start := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	withDesc := model.CalendarEvent{
		ID: "d", Title: "Nap window", Description: "Short nap, 20 minutes max",
		StartTime: start.Format(time.RFC3339),
	}
	withoutDesc := model.CalendarEvent{
		ID: "n", Title: "Hydrate",
		StartTime: start.Add(time.Hour).Format(time.RFC3339),
	}

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{withDesc, withoutDesc})

	require.Len(t, p.scheduled, 2)
	assert.Equal(t, "Short nap, 20 minutes max", p.scheduled[0].Body)
	assert.Equal(t, "Starts at 4:30 PM", p.scheduled[1].Body)
	assert.Equal(t, "default", p.scheduled[1].Sound)
}

func TestScheduleForEvents_PreservesInputOrder(t *testing.T) {
	p := newFakePlatform()
	s := newTestScheduler(p)

	s.ScheduleForEvents(context.Background(), []model.CalendarEvent{
		event("b", testNow.Add(3*time.Hour)),
		event("a", testNow.Add(time.Hour)),
		event("c", testNow.Add(2*time.Hour)),
	})

	require.Len(t, p.scheduled, 3)
	assert.Equal(t, "b", p.scheduled[0].EventID)
	assert.Equal(t, "a", p.scheduled[1].EventID)
	assert.Equal(t, "c", p.scheduled[2].EventID)
}
