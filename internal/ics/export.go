// Package ics exports the merged jet-lag schedule as an iCalendar file so
// it can be imported into regular calendar apps.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"jetcal/internal/model"
)

const productID = "-//jetcal//schedule export//EN"

// Export serializes the given events into a VCALENDAR payload. Events
// with unparsable timestamps are logged and skipped; an event with a bad
// end time is exported with only its start.
func Export(events []model.CalendarEvent, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	exported := 0
	for _, ev := range events {
		start, err := model.ParseTime(ev.StartTime)
		if err != nil {
			logger.Warn("skipping event with unparsable start in ICS export",
				zap.String("event_id", ev.ID),
				zap.String("start_time", ev.StartTime),
			)
			continue
		}

		entry := cal.AddEvent(uidFor(ev))
		entry.SetDtStampTime(time.Now().UTC())
		entry.SetStartAt(start)
		if end, err := model.ParseTime(ev.EndTime); err == nil {
			entry.SetEndAt(end)
		}
		entry.SetSummary(ev.Title)
		if ev.Description != "" {
			entry.SetDescription(ev.Description)
		}
		exported++
	}

	logger.Info("ICS export built", zap.Int("events", exported))
	return cal.Serialize()
}

func uidFor(ev model.CalendarEvent) string {
	return fmt.Sprintf("%s@jetcal", ev.ID)
}
