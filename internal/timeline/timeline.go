// Package timeline groups schedule events into per-day buckets for the
// timeline view.
package timeline

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"jetcal/internal/model"
)

// Entry is one event on the timeline with its parsed start time.
type Entry struct {
	Event model.CalendarEvent
	Start time.Time
}

// DayBucket holds all entries that start on one calendar day (in the
// display timezone), ordered by start time.
type DayBucket struct {
	Date    time.Time // midnight of the day, in the display zone
	Entries []Entry
}

// Group buckets events by their local start date and orders both buckets
// and entries chronologically. Events with unparsable start times are
// logged and dropped from the view.
func Group(events []model.CalendarEvent, loc *time.Location, logger *zap.Logger) []DayBucket {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	byDay := make(map[time.Time][]Entry)
	for _, ev := range events {
		start, err := model.ParseTime(ev.StartTime)
		if err != nil {
			logger.Warn("dropping event with unparsable start from timeline",
				zap.String("event_id", ev.ID),
				zap.String("start_time", ev.StartTime),
			)
			continue
		}
		local := start.In(loc)
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		byDay[day] = append(byDay[day], Entry{Event: ev, Start: local})
	}

	buckets := make([]DayBucket, 0, len(byDay))
	for day, entries := range byDay {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Start.Before(entries[j].Start)
		})
		buckets = append(buckets, DayBucket{Date: day, Entries: entries})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	return buckets
}
