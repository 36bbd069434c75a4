package ics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"jetcal/internal/model"
)

func TestExport_BuildsCalendar(t *testing.T) {
	events := []model.CalendarEvent{
		{
			ID:          "ev-1",
			Title:       "Seek bright light",
			StartTime:   "2026-03-02T08:00:00Z",
			EndTime:     "2026-03-02T09:00:00Z",
			Description: "Morning light anchors the new rhythm",
		},
	}

	out := Export(events, nil)

	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "SUMMARY:Seek bright light")
	assert.Contains(t, out, "UID:ev-1@jetcal")
	assert.Contains(t, out, "DESCRIPTION:Morning light anchors the new rhythm")
	assert.Contains(t, out, "END:VCALENDAR")
}

func TestExport_SkipsUnparsableStart(t *testing.T) {
	events := []model.CalendarEvent{
		{ID: "bad", Title: "Broken", StartTime: "nope"},
		{ID: "ok", Title: "Nap window", StartTime: "2026-03-02T14:00:00Z"},
	}

	out := Export(events, nil)

	assert.NotContains(t, out, "UID:bad@jetcal")
	assert.Contains(t, out, "UID:ok@jetcal")
}

func TestExport_EmptyInputStillValidCalendar(t *testing.T) {
	out := Export(nil, nil)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
}
