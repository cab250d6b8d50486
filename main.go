package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/config"
	"github.com/sadopc/passport/internal/logging"
	"github.com/sadopc/passport/internal/store"
	"github.com/sadopc/passport/internal/tracker"
	"github.com/sadopc/passport/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runtime is everything a command needs, opened from the environment.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	tracker *tracker.Tracker
}

func openRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tr := tracker.New(s, catalog.Default(), cfg.Tracker, tracker.WithLogger(log))
	tr.Load()

	return &runtime{cfg: cfg, log: log, store: s, tracker: tr}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Warn("close database", zap.Error(err))
	}
	r.log.Sync()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "passport",
		Short:         "Checklist tracker for the Drink Around the World route",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			return runTUI(rt)
		},
	}

	root.AddCommand(
		newStatusCmd(),
		newStopsCmd(),
		newShareCmd(),
		newExportCmd(),
		newResetCmd(),
		newTimerCmd(),
		newHydrateCmd(),
		newRouteCmd(),
		newSnapshotsCmd(),
		newCheckCmd("check", true),
		newCheckCmd("uncheck", false),
	)
	return root
}

func runTUI(rt *runtime) error {
	rt.log.Info("tui starting", zap.String("db", rt.cfg.DBPath), zap.String("tracker", rt.cfg.Tracker))

	app := tui.NewApp(rt.tracker, rt.store, tui.Options{Logger: rt.log})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
