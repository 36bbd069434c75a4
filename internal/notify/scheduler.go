package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jetcal/internal/model"
)

// DefaultLead is how long before an event's start its reminder fires.
const DefaultLead = 5 * time.Minute

// Scheduler converts calendar events into scheduled local notifications.
//
// Scheduling is fire-and-forget: permission denial and per-event platform
// failures are reported through the log only, never as errors the caller
// must handle. Each call cancels the previous batch before scheduling the
// new one, so repeated syncs never accumulate stale reminders.
type Scheduler struct {
	platform Platform
	lead     time.Duration
	loc      *time.Location
	logger   *zap.Logger

	// Now is the clock used for past-event filtering. Tests override it.
	Now func() time.Time
}

// NewScheduler builds a Scheduler over the given platform. A non-positive
// lead falls back to DefaultLead; a nil location falls back to the system
// local zone.
func NewScheduler(platform Platform, lead time.Duration, loc *time.Location, logger *zap.Logger) *Scheduler {
	if lead <= 0 {
		lead = DefaultLead
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		platform: platform,
		lead:     lead,
		loc:      loc,
		logger:   logger,
		Now:      time.Now,
	}
}

// ScheduleForEvents replaces the active notification batch with reminders
// for the given events.
//
// Steps, in order:
//  1. request permission; denied means a clean, side-effect-free exit
//  2. ensure the default channel exists (idempotent, never cached)
//  3. cancel all previously scheduled notifications
//  4. per event: skip events that already started, skip events whose
//     fire time (start - lead) has already passed, schedule the rest
//
// Events are processed strictly in input order, one schedule call at a
// time. A failure on one event does not abort the rest of the batch.
func (s *Scheduler) ScheduleForEvents(ctx context.Context, events []model.CalendarEvent) {
	status, err := s.platform.RequestPermission(ctx)
	if err != nil {
		s.logger.Error("notification permission request failed", zap.Error(err))
		return
	}
	if !status.Granted() {
		s.logger.Info("notification permission denied; nothing scheduled",
			zap.Bool("alert", status.Alert),
			zap.Bool("sound", status.Sound),
			zap.Bool("badge", status.Badge),
		)
		return
	}

	if err := s.platform.EnsureChannel(ctx, DefaultChannel()); err != nil {
		// Channel setup failures are advisory; platforms without channel
		// semantics report success anyway.
		s.logger.Warn("notification channel setup failed", zap.Error(err))
	}

	if err := s.platform.CancelAll(ctx); err != nil {
		// Without the cancel the batch could duplicate prior reminders,
		// so keep the old batch rather than risk accumulation.
		s.logger.Error("cancel of previous notifications failed; keeping old batch", zap.Error(err))
		return
	}

	now := s.Now()
	scheduled := 0

	for _, ev := range events {
		start, err := model.ParseTime(ev.StartTime)
		if err != nil {
			s.logger.Warn("skipping event with unparsable start time",
				zap.String("event_id", ev.ID),
				zap.String("start_time", ev.StartTime),
			)
			continue
		}

		if start.Before(now) {
			s.logger.Debug("skipping event that already started",
				zap.String("event_id", ev.ID),
				zap.Time("start", start),
			)
			continue
		}

		// Second, independent check: the fire time itself must still be
		// strictly in the future, even when the start is not.
		fireAt := start.Add(-s.lead)
		if !fireAt.After(now) {
			s.logger.Debug("skipping event whose lead time already elapsed",
				zap.String("event_id", ev.ID),
				zap.Time("fire_at", fireAt),
			)
			continue
		}

		body := ev.Description
		if body == "" {
			body = "Starts at " + start.In(s.loc).Format("3:04 PM")
		}

		n := Notification{
			ID:      uuid.NewString(),
			EventID: ev.ID,
			Title:   ev.Title,
			Body:    body,
			Sound:   "default",
			FireAt:  fireAt,
		}

		if err := s.platform.Schedule(ctx, n); err != nil {
			s.logger.Error("scheduling failed for event; continuing batch",
				zap.String("event_id", ev.ID),
				zap.Error(err),
			)
			continue
		}
		scheduled++
	}

	s.logger.Info("notification batch scheduled",
		zap.Int("events", len(events)),
		zap.Int("scheduled", scheduled),
	)
}
