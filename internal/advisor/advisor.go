// Package advisor is the local Gemini fallback for the backend's
// recommendation pipeline. When the backend is unreachable it produces
// the same structured jet-lag recommendations from flight details, and it
// renders the short user-facing status summaries shown during long
// operations.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"jetcal/internal/model"
)

// EnvAPIKey names the environment variable carrying the Gemini API key.
const EnvAPIKey = "GEMINI_API_KEY"

const defaultModel = "gemini-2.0-flash-lite"

// Advisor generates travel-wellness recommendations with Gemini.
type Advisor struct {
	apiKey string
	model  string
	logger *zap.Logger
}

// New builds an Advisor. The API key is resolved from the environment;
// Available reports whether one was found.
func New(modelName string, logger *zap.Logger) *Advisor {
	if modelName == "" {
		modelName = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{
		apiKey: os.Getenv(EnvAPIKey),
		model:  modelName,
		logger: logger,
	}
}

// Available reports whether the advisor can make API calls.
func (a *Advisor) Available() bool {
	return a.apiKey != ""
}

// Recommendations generates the structured jet-lag advice for one flight.
func (a *Advisor) Recommendations(ctx context.Context, flight model.FlightDetails) (*model.Recommendations, error) {
	if !a.Available() {
		return nil, fmt.Errorf("advisor unavailable: %s not set", EnvAPIKey)
	}

	flightJSON, err := json.Marshal(flight)
	if err != nil {
		return nil, fmt.Errorf("encoding flight details: %w", err)
	}

	text, err := a.generate(ctx, recommendationsPrompt(string(flightJSON)), recommendationsSchema())
	if err != nil {
		return nil, err
	}

	var recs model.Recommendations
	if err := json.Unmarshal([]byte(text), &recs); err != nil {
		return nil, fmt.Errorf("parsing recommendations JSON: %w", err)
	}
	return &recs, nil
}

// Summarize turns an internal action description into a very short
// user-facing status line. On any failure it falls back to a plain
// rendering of the action so callers always get something to show.
func (a *Advisor) Summarize(ctx context.Context, action string) string {
	if action == "" {
		return ""
	}
	fallback := "Processing step: " + action

	if !a.Available() {
		return fallback
	}

	text, err := a.generate(ctx, summaryPrompt(action), nil)
	if err != nil {
		a.logger.Warn("status summary generation failed", zap.Error(err))
		return fallback
	}

	summary := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(text, "\n", " "), "*", ""))
	if summary == "" {
		return fallback
	}
	return summary
}

// generate runs one Gemini call with retry on transient failures and
// returns the first text part of the first candidate.
func (a *Advisor) generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  a.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("creating genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	temperature := float32(0.2)
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if schema != nil {
		genConfig.ResponseMIMEType = "application/json"
		genConfig.ResponseSchema = schema
	}

	var resp *genai.GenerateContentResponse
	err = retry.Do(
		func() error {
			var genErr error
			resp, genErr = client.Models.GenerateContent(ctx, a.model, contents, genConfig)
			if genErr != nil {
				if isTransient(genErr) {
					a.logger.Warn("Gemini transient error, retrying", zap.Error(genErr))
					return genErr
				}
				return retry.Unrecoverable(genErr)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
	)
	if err != nil {
		return "", fmt.Errorf("Gemini call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in Gemini response")
	}
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("no text in Gemini response")
}

func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"rate limit", "quota", "timeout", "deadline", "unavailable",
		"temporary failure", "500", "502", "503", "504",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
