package model

import (
	"errors"
	"time"
)

// CalendarEvent is one entry of the jet-lag mitigation schedule as served
// by GET /api/calendar/events.
//
// Timestamps are carried as the raw ISO-8601 strings from the wire.
// Consumers parse them lazily and skip entries they cannot parse; the
// event is never rejected at decode time. EndTime is not validated
// against StartTime.
type CalendarEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// SleepSession is a single recorded sleep episode delimited by two
// ISO-8601 timestamps.
type SleepSession struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// HeartRateSample is a single timestamped heart-rate reading.
type HeartRateSample struct {
	Time           string  `json:"time"`
	BeatsPerMinute float64 `json:"beatsPerMinute"`
}

// HeartRateRecord groups zero or more samples produced by one health-store
// read.
type HeartRateRecord struct {
	Samples []HeartRateSample `json:"samples"`
}

// HrSample is a flattened, parsed heart-rate sample used during
// correlation runs.
type HrSample struct {
	Time time.Time
	BPM  float64
}

// HealthData is the raw health payload uploaded to POST /api/health-data.
type HealthData struct {
	SleepRecords     []SleepSession    `json:"sleepRecords"`
	HeartRateRecords []HeartRateRecord `json:"heartRateRecords"`
	FetchedAt        string            `json:"fetchedAt"`
}

// ErrUnparsableTime reports a timestamp string that matched none of the
// accepted layouts.
var ErrUnparsableTime = errors.New("unparsable timestamp")

// timeLayouts are the accepted wire formats, tried in order. The backend
// emits RFC 3339, but health exports from some devices omit the zone
// suffix; those are interpreted as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime parses an ISO-8601 timestamp from the wire.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrUnparsableTime
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparsableTime
}
