// Package api is the HTTP client for the travel-wellness backend.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"jetcal/internal/model"
)

// ErrNotReady reports that the backend has not produced the requested
// resource yet (404/500 on the calendar fetch). Callers treat it as
// "retry later", never as a hard failure to surface.
var ErrNotReady = errors.New("backend resource not ready")

// Client talks to the travel-wellness backend.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New builds a Client for the given base URL. Transport-level failures
// are retried with backoff inside resty; HTTP status handling stays with
// each call.
func New(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: client, logger: logger}
}

// FetchCalendarEvents retrieves the generated jet-lag mitigation schedule.
//
// 404 and 5xx map to ErrNotReady: the backend builds the schedule
// asynchronously and "not there yet" is an expected state.
func (c *Client) FetchCalendarEvents(ctx context.Context) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&events).
		Get("/api/calendar/events")
	if err != nil {
		return nil, fmt.Errorf("fetching calendar events: %w", err)
	}

	switch {
	case resp.IsSuccess():
		c.logger.Info("fetched calendar events", zap.Int("count", len(events)))
		return events, nil
	case resp.StatusCode() == http.StatusNotFound || resp.StatusCode() >= http.StatusInternalServerError:
		c.logger.Info("calendar events not ready yet", zap.Int("status", resp.StatusCode()))
		return nil, ErrNotReady
	default:
		return nil, fmt.Errorf("fetching calendar events: unexpected status %d", resp.StatusCode())
	}
}

// HealthDataResponse is the backend's acknowledgement of a raw health
// upload.
type HealthDataResponse struct {
	Saved    bool   `json:"saved"`
	Analysis string `json:"analysis,omitempty"`
	Message  string `json:"message,omitempty"`
}

// PushHealthData uploads raw sleep and heart-rate records.
func (c *Client) PushHealthData(ctx context.Context, data model.HealthData) (*HealthDataResponse, error) {
	var out HealthDataResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(data).
		SetResult(&out).
		Post("/api/health-data")
	if err != nil {
		return nil, fmt.Errorf("uploading health data: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("uploading health data: unexpected status %d", resp.StatusCode())
	}

	c.logger.Info("health data uploaded",
		zap.Int("sleep_records", len(data.SleepRecords)),
		zap.Int("heart_rate_records", len(data.HeartRateRecords)),
		zap.Bool("saved", out.Saved),
	)
	return &out, nil
}

// FlightRecommendations asks the backend pipeline for flight details and
// structured jet-lag recommendations for one flight.
func (c *Client) FlightRecommendations(ctx context.Context, req model.FlightRequest) (*model.FlightRecommendationsResponse, error) {
	var out model.FlightRecommendationsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/flight-recommendations")
	if err != nil {
		return nil, fmt.Errorf("requesting flight recommendations: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("requesting flight recommendations: unexpected status %d", resp.StatusCode())
	}

	c.logger.Info("flight recommendations received",
		zap.String("carrier", req.CarrierCode),
		zap.String("flight", req.FlightNumber),
		zap.Bool("success", out.Success),
	)
	return &out, nil
}

// HealthCheckResponse is the backend liveness probe payload.
type HealthCheckResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Version      string            `json:"version,omitempty"`
}

// HealthCheck probes the backend.
func (c *Client) HealthCheck(ctx context.Context) (*HealthCheckResponse, error) {
	var out HealthCheckResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/health-check")
	if err != nil {
		return nil, fmt.Errorf("backend health check: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("backend health check: unexpected status %d", resp.StatusCode())
	}
	return &out, nil
}
