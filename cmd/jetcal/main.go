package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jetcal/internal/api"
	"jetcal/internal/config"
	"jetcal/internal/logging"
	"jetcal/internal/notify"
	"jetcal/internal/syncer"
	"jetcal/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the shared wiring for all subcommands.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./jetcal.yaml"
	}
	return filepath.Join(home, ".jetcal", "config.yaml")
}

// load resolves config and logger; called from every command's PreRunE.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config %q: %w", a.configPath, err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	logger, err := logging.New(level, cfg.LogFormat, "jetcal")
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.logger = logger
	return nil
}

// openStore opens the local notification store from config.
func (a *app) openStore() (*notify.Store, error) {
	return notify.Open(a.cfg.NotifyDBPath, a.logger)
}

// newSyncer wires a full sync pipeline.
func (a *app) newSyncer(store *notify.Store) *syncer.Syncer {
	client := api.New(a.cfg.BackendURL, a.logger)
	lead := time.Duration(a.cfg.LeadMinutes) * time.Minute
	scheduler := notify.NewScheduler(store, lead, a.cfg.Location(), a.logger)
	return syncer.New(a.cfg, client, scheduler, store, a.logger)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "jetcal",
		Short: "Travel-wellness companion: jet-lag schedule sync, reminders, and health correlation",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "path to config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override configured log level")

	root.AddCommand(
		newSyncCmd(a),
		newRunCmd(a),
		newTimelineCmd(a),
		newHealthCmd(a),
		newPlanCmd(a),
		newExportCmd(a),
		newNotificationsCmd(a),
	)

	return root
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch the schedule once and reschedule local notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			return a.newSyncer(store).Cycle(cmd.Context())
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the sync daemon with the status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			s := a.newSyncer(store)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				a.logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
				cancel()
			}()

			go func() {
				if err := web.Start(ctx, a.cfg, store, s, a.logger); err != nil {
					a.logger.Error("status API stopped", zap.Error(err))
					cancel()
				}
			}()

			return s.Run(ctx)
		},
	}
}
