package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jetcal/internal/advisor"
	"jetcal/internal/api"
	"jetcal/internal/ics"
	"jetcal/internal/model"
	"jetcal/internal/reminders"
	"jetcal/internal/timeline"
)

// fetchMergedEvents fetches the backend schedule (tolerating "not ready")
// and merges expanded wellness reminders.
func fetchMergedEvents(cmd *cobra.Command, a *app) ([]model.CalendarEvent, error) {
	client := api.New(a.cfg.BackendURL, a.logger)

	events, err := client.FetchCalendarEvents(cmd.Context())
	switch {
	case errors.Is(err, api.ErrNotReady):
		fmt.Println("Schedule not ready yet; showing local reminders only.")
		events = nil
	case err != nil:
		return nil, err
	}

	loc := a.cfg.Location()
	now := time.Now().In(loc)
	occ := reminders.Expand(a.cfg.Reminders, now, now.AddDate(0, 0, a.cfg.HorizonDays), loc, a.logger)
	return append(events, occ...), nil
}

func newTimelineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show the synced schedule grouped by day",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := fetchMergedEvents(cmd, a)
			if err != nil {
				return err
			}

			loc := a.cfg.Location()
			buckets := timeline.Group(events, loc, a.logger)
			if len(buckets) == 0 {
				fmt.Println("No events.")
				return nil
			}

			for _, b := range buckets {
				fmt.Printf("%s\n", b.Date.Format("Mon, 02 Jan 2006"))
				for _, e := range b.Entries {
					fmt.Printf("  %s  %s\n", e.Start.Format("15:04"), e.Event.Title)
					if e.Event.Description != "" {
						fmt.Printf("         %s\n", e.Event.Description)
					}
				}
			}
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the synced schedule as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := fetchMergedEvents(cmd, a)
			if err != nil {
				return err
			}

			payload := ics.Export(events, a.logger)
			if err := os.WriteFile(out, []byte(payload), 0o644); err != nil {
				return fmt.Errorf("writing %q: %w", out, err)
			}
			fmt.Printf("Wrote %d events to %s\n", len(events), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "jetcal.ics", "output .ics path")
	return cmd
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		carrier string
		flight  string
		date    string
		local   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Request jet-lag recommendations for a flight",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.FlightRequest{
				CarrierCode:            carrier,
				FlightNumber:           flight,
				ScheduledDepartureDate: date,
			}

			client := api.New(a.cfg.BackendURL, a.logger)
			resp, err := client.FlightRecommendations(cmd.Context(), req)
			if err == nil {
				return printJSON(resp)
			}

			if !local {
				return err
			}

			// Backend unreachable: generate locally from whatever flight
			// identity we have.
			adv := advisor.New(a.cfg.GeminiModel, a.logger)
			if !adv.Available() {
				return fmt.Errorf("backend failed (%v) and local advisor unavailable: %s not set", err, advisor.EnvAPIKey)
			}

			fmt.Println(adv.Summarize(cmd.Context(), "generating travel plan locally"))

			details := model.FlightDetails{
				FlightDesignator: model.FlightDesignator{
					CarrierCode:            carrier,
					FlightNumber:           flight,
					ScheduledDepartureDate: date,
				},
			}
			recs, err := adv.Recommendations(cmd.Context(), details)
			if err != nil {
				return err
			}
			return printJSON(recs)
		},
	}

	cmd.Flags().StringVar(&carrier, "carrier", "", "IATA carrier code (required)")
	cmd.Flags().StringVar(&flight, "flight", "", "flight number (required)")
	cmd.Flags().StringVar(&date, "date", "", "scheduled departure date YYYY-MM-DD (required)")
	cmd.Flags().BoolVar(&local, "local", false, "fall back to the local Gemini advisor if the backend fails")
	cmd.MarkFlagRequired("carrier")
	cmd.MarkFlagRequired("flight")
	cmd.MarkFlagRequired("date")
	return cmd
}

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Inspect and control the local notification store",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List pending notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			pending, err := store.Pending(cmd.Context())
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("No pending notifications.")
				return nil
			}
			for _, n := range pending {
				fmt.Printf("%s  %s: %s\n", n.FireAt.Local().Format("2006-01-02 15:04"), n.Title, n.Body)
			}
			return nil
		},
	}

	setPermission := func(granted bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.SetPermission(cmd.Context(), granted)
		}
	}

	enable := &cobra.Command{
		Use:   "enable",
		Short: "Grant notification permission",
		RunE:  setPermission(true),
	}
	disable := &cobra.Command{
		Use:   "disable",
		Short: "Deny notification permission",
		RunE:  setPermission(false),
	}

	cmd.AddCommand(list, enable, disable)
	return cmd
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
