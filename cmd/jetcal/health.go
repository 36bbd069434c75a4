package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jetcal/internal/api"
	"jetcal/internal/health"
	"jetcal/internal/model"
)

// readHealthFile loads a health export (sleepRecords + heartRateRecords)
// from a JSON file.
func readHealthFile(path string) (*model.HealthData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading health export %q: %w", path, err)
	}
	var out model.HealthData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing health export %q: %w", path, err)
	}
	return &out, nil
}

func newHealthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Correlate and upload exported health data",
	}

	var input string

	report := &cobra.Command{
		Use:   "report",
		Short: "Compute average sleep duration and average sleep heart rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readHealthFile(input)
			if err != nil {
				return err
			}

			avgDuration := health.AverageSleepDuration(data.SleepRecords, a.logger)
			fmt.Printf("Average sleep duration: %s\n", avgDuration)

			if avg := health.AverageSleepHeartRate(data.SleepRecords, data.HeartRateRecords, a.logger); avg != nil {
				fmt.Printf("Average sleep heart rate: %.1f bpm\n", *avg)
			} else {
				fmt.Println("Average sleep heart rate: N/A")
			}
			return nil
		},
	}
	report.Flags().StringVar(&input, "input", "", "path to health export JSON (required)")
	report.MarkFlagRequired("input")

	var pushInput string

	push := &cobra.Command{
		Use:   "push",
		Short: "Upload raw health data to the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readHealthFile(pushInput)
			if err != nil {
				return err
			}
			if data.FetchedAt == "" {
				data.FetchedAt = time.Now().UTC().Format(time.RFC3339)
			}

			client := api.New(a.cfg.BackendURL, a.logger)
			resp, err := client.PushHealthData(cmd.Context(), *data)
			if err != nil {
				return err
			}

			fmt.Printf("Saved: %v\n", resp.Saved)
			if resp.Analysis != "" {
				fmt.Printf("Analysis: %s\n", resp.Analysis)
			}
			return nil
		},
	}
	push.Flags().StringVar(&pushInput, "input", "", "path to health export JSON (required)")
	push.MarkFlagRequired("input")

	cmd.AddCommand(report, push)
	return cmd
}
