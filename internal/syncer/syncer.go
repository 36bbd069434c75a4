// Package syncer orchestrates the periodic sync cycle: fetch the
// generated schedule from the backend, merge in recurring wellness
// reminders, and reschedule local notifications. In daemon mode it also
// dispatches due notifications from the local store.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"jetcal/internal/api"
	"jetcal/internal/config"
	"jetcal/internal/model"
	"jetcal/internal/notify"
	"jetcal/internal/reminders"
)

// dispatchInterval is how often the daemon checks for due notifications.
const dispatchInterval = 30 * time.Second

// Syncer owns one sync pipeline instance.
type Syncer struct {
	cfg       *config.Config
	client    *api.Client
	scheduler *notify.Scheduler
	store     *notify.Store
	logger    *zap.Logger

	// last successfully merged batch, served by the status API.
	mu        sync.RWMutex
	lastBatch []model.CalendarEvent
}

// New wires a Syncer from its collaborators.
func New(cfg *config.Config, client *api.Client, scheduler *notify.Scheduler, store *notify.Store, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		cfg:       cfg,
		client:    client,
		scheduler: scheduler,
		store:     store,
		logger:    logger,
	}
}

// Cycle runs one fetch+merge+schedule pass.
//
// A backend that has not produced the schedule yet (api.ErrNotReady) is
// not an error: the cycle logs it, schedules whatever local reminders
// exist, and the next cron tick tries again.
func (s *Syncer) Cycle(ctx context.Context) error {
	events, err := s.client.FetchCalendarEvents(ctx)
	switch {
	case errors.Is(err, api.ErrNotReady):
		s.logger.Info("schedule not ready yet; retrying next cycle")
		events = nil
	case err != nil:
		return err
	}

	batch := s.mergeReminders(events)
	s.scheduler.ScheduleForEvents(ctx, batch)

	s.mu.Lock()
	s.lastBatch = batch
	s.mu.Unlock()
	return nil
}

// Events returns a copy of the most recently merged event batch.
func (s *Syncer) Events() []model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CalendarEvent, len(s.lastBatch))
	copy(out, s.lastBatch)
	return out
}

// mergeReminders appends expanded wellness-reminder occurrences within the
// configured horizon to the backend events.
func (s *Syncer) mergeReminders(events []model.CalendarEvent) []model.CalendarEvent {
	loc := s.cfg.Location()
	now := time.Now().In(loc)
	horizon := now.AddDate(0, 0, s.cfg.HorizonDays)

	occ := reminders.Expand(s.cfg.Reminders, now, horizon, loc, s.logger)

	batch := make([]model.CalendarEvent, 0, len(events)+len(occ))
	batch = append(batch, events...)
	batch = append(batch, occ...)
	return batch
}

// Run drives the daemon: an immediate cycle, then cycles on the
// configured cron schedule, with a dispatcher loop firing due
// notifications in between. Returns when ctx is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	if err := s.Cycle(ctx); err != nil {
		s.logger.Error("initial sync cycle failed", zap.Error(err))
	}

	c := cron.New()
	if _, err := c.AddFunc(s.cfg.RefreshCron, func() {
		if err := s.Cycle(ctx); err != nil {
			s.logger.Error("sync cycle failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.dispatchDue(ctx)
		}
	}
}

// dispatchDue fires every due notification from the local store by
// logging it and marking it delivered. Failures on single notifications
// do not stop the rest.
func (s *Syncer) dispatchDue(ctx context.Context) {
	if s.store == nil {
		return
	}

	now := time.Now()
	due, err := s.store.Due(ctx, now)
	if err != nil {
		s.logger.Error("querying due notifications failed", zap.Error(err))
		return
	}

	for _, n := range due {
		s.logger.Info("notification fired",
			zap.String("title", n.Title),
			zap.String("body", n.Body),
			zap.String("event_id", n.EventID),
			zap.Time("fire_at", n.FireAt),
		)
		if err := s.store.MarkDelivered(ctx, n.ID, now); err != nil {
			s.logger.Error("marking notification delivered failed",
				zap.String("id", n.ID),
				zap.Error(err),
			)
		}
	}
}
