// Package health derives aggregate wellness metrics from raw sleep-session
// and heart-rate records. Every function here is a pure, synchronous
// computation over its inputs: malformed individual records are skipped
// and logged, never fatal, and only a total absence of usable data yields
// the "unavailable" sentinel.
package health

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"jetcal/internal/model"
)

// NotAvailable is the sentinel returned when no valid sleep session exists.
const NotAvailable = "N/A"

// AverageSleepDuration computes the mean duration across all valid sleep
// sessions and formats it coarsely as hours and minutes.
//
// A session contributes only if both timestamps parse and its duration is
// strictly positive. With zero valid sessions the result is NotAvailable.
func AverageSleepDuration(sessions []model.SleepSession, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}

	var totalSeconds float64
	valid := 0

	for i, s := range sessions {
		start, err := model.ParseTime(s.StartTime)
		if err != nil {
			logger.Warn("skipping sleep session with unparsable start",
				zap.Int("index", i),
				zap.String("start_time", s.StartTime),
			)
			continue
		}
		end, err := model.ParseTime(s.EndTime)
		if err != nil {
			logger.Warn("skipping sleep session with unparsable end",
				zap.Int("index", i),
				zap.String("end_time", s.EndTime),
			)
			continue
		}

		d := end.Sub(start)
		if d <= 0 {
			logger.Debug("skipping sleep session with non-positive duration",
				zap.Int("index", i),
				zap.Duration("duration", d),
			)
			continue
		}

		totalSeconds += d.Seconds()
		valid++
	}

	if valid == 0 {
		return NotAvailable
	}

	mean := time.Duration(totalSeconds / float64(valid) * float64(time.Second))
	return FormatDuration(mean)
}

// AverageSleepHeartRate computes the mean of all heart-rate samples whose
// timestamps fall inside any sleep session, inclusive at both session
// bounds.
//
// Samples inside overlapping sessions are counted once per session they
// fall in: the average is defined over session-sample pairings, not over
// distinct samples.
//
// Returns nil when either input list is empty or when no sample lands in
// any session.
func AverageSleepHeartRate(sessions []model.SleepSession, records []model.HeartRateRecord, logger *zap.Logger) *float64 {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(sessions) == 0 || len(records) == 0 {
		return nil
	}

	samples := flattenSamples(records, logger)
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})

	var sum float64
	count := 0

	for i, s := range sessions {
		start, err := model.ParseTime(s.StartTime)
		if err != nil {
			logger.Warn("skipping sleep session with unparsable start",
				zap.Int("index", i),
				zap.String("start_time", s.StartTime),
			)
			continue
		}
		end, err := model.ParseTime(s.EndTime)
		if err != nil {
			logger.Warn("skipping sleep session with unparsable end",
				zap.Int("index", i),
				zap.String("end_time", s.EndTime),
			)
			continue
		}

		// Closed interval: a sample exactly at the session start or end
		// counts.
		for _, sample := range samples {
			if !sample.Time.Before(start) && !sample.Time.After(end) {
				sum += sample.BPM
				count++
			}
		}
	}

	if count == 0 {
		return nil
	}
	avg := sum / float64(count)
	return &avg
}

// flattenSamples builds the one-per-run flattened sample list, dropping
// samples whose timestamps do not parse.
func flattenSamples(records []model.HeartRateRecord, logger *zap.Logger) []model.HrSample {
	out := make([]model.HrSample, 0)
	for _, rec := range records {
		for _, s := range rec.Samples {
			t, err := model.ParseTime(s.Time)
			if err != nil {
				logger.Warn("skipping heart-rate sample with unparsable time",
					zap.String("time", s.Time),
				)
				continue
			}
			out = append(out, model.HrSample{Time: t, BPM: s.BeatsPerMinute})
		}
	}
	return out
}
