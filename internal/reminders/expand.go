// Package reminders expands recurring wellness reminders (hydration,
// movement, light exposure, ...) into concrete calendar events that join
// the backend schedule in the notification batch.
package reminders

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"jetcal/internal/config"
	"jetcal/internal/model"
)

const (
	// defaultMaxOccurrencesPerReminder caps runaway rules.
	defaultMaxOccurrencesPerReminder = 1000

	defaultDurationMinutes = 15
)

// Expand produces all occurrences of the given reminders within
// [rangeStart, rangeEnd], rendered in loc. Reminders with unparsable
// rules are logged and skipped; they never abort the batch.
func Expand(items []config.ReminderConfig, rangeStart, rangeEnd time.Time, loc *time.Location, logger *zap.Logger) []model.CalendarEvent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	out := make([]model.CalendarEvent, 0)
	if rangeEnd.Before(rangeStart) {
		logger.Warn("reminder expansion window is empty",
			zap.Time("range_start", rangeStart),
			zap.Time("range_end", rangeEnd),
		)
		return out
	}

	for _, item := range items {
		r, err := rrule.StrToRRule(item.RRule)
		if err != nil {
			logger.Error("failed to parse reminder rule",
				zap.String("reminder_id", item.ID),
				zap.String("rrule", item.RRule),
				zap.Error(err),
			)
			continue
		}
		r.DTStart(rangeStart.In(loc))

		duration := time.Duration(item.DurationMinutes) * time.Minute
		if duration <= 0 {
			duration = defaultDurationMinutes * time.Minute
		}

		times := r.Between(rangeStart, rangeEnd, true)
		if len(times) > defaultMaxOccurrencesPerReminder {
			logger.Warn("reminder occurrences truncated at cap",
				zap.String("reminder_id", item.ID),
				zap.Int("cap", defaultMaxOccurrencesPerReminder),
			)
			times = times[:defaultMaxOccurrencesPerReminder]
		}

		for _, t := range times {
			start := t.In(loc)
			out = append(out, model.CalendarEvent{
				ID:          occurrenceID(item.ID, start),
				Title:       item.Title,
				StartTime:   start.Format(time.RFC3339),
				EndTime:     start.Add(duration).Format(time.RFC3339),
				Description: item.Description,
			})
		}
	}

	return out
}

// occurrenceID derives a stable per-occurrence identifier from the
// reminder ID and the occurrence's UTC start.
func occurrenceID(reminderID string, start time.Time) string {
	return fmt.Sprintf("%s-%s", reminderID, start.UTC().Format("20060102T150405Z"))
}
