// Package app wires configuration into the services behind each CLI command.
package app

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"farewatch/internal/airports"
	"farewatch/internal/alerting"
	"farewatch/internal/config"
	"farewatch/internal/dashboard"
	"farewatch/internal/fare"
	"farewatch/internal/history"
	"farewatch/internal/scheduler"
	"farewatch/internal/scrape"
	"farewatch/internal/service"
	"farewatch/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newScraper() scrape.Scraper {
	return scrape.NewSite(scrape.Options{
		BaseURL:          a.Config.Site.BaseURL,
		Origin:           a.Config.Route.Origin,
		Destination:      a.Config.Route.Destination,
		OutboundDate:     a.Config.Route.OutboundDate,
		ReturnDate:       a.Config.Route.ReturnDate,
		Passengers:       a.Config.Route.Passengers,
		OutboundSelector: a.Config.Site.OutboundSelector,
		ReturnSelector:   a.Config.Site.ReturnSelector,
		Timeout:          a.Config.Site.RequestTimeout,
		UserAgent:        a.Config.Site.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	tw := a.Config.Alerting.Twilio
	if !tw.Configured() {
		return nil
	}
	return alerting.NewTwilioNotifier(tw.AccountSID, tw.AuthToken, tw.From, tw.To, tw.APIBase, 10*time.Second, a.Logger)
}

func (a *App) newPresenter() dashboard.Presenter {
	presenters := dashboard.Fanout{dashboard.NewConsole(nil)}
	if path := a.Config.Watch.ChartPath; path != "" {
		presenters = append(presenters, dashboard.NewChartFile(path, a.Config.Watch.DealThreshold(), a.Logger))
	}
	return presenters
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

// Run executes the long-running fare watch.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	var archive storage.CycleArchive
	if store != nil {
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		archive = store
	}

	if a.Config.Watch.SnapshotPath == "" {
		a.Logger.Warn().Msg("watch.snapshot_path not configured; history will not survive restarts")
	}

	presenter := a.newPresenter()
	a.showRoute(presenter)

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval(),
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	svc := service.New(a.Config, sched, a.newScraper(), history.NewLedger(), presenter, a.newNotifier(), archive, a.Logger)
	a.seedFromSnapshot(svc)

	a.Logger.Info().
		Str("route", a.Config.Route.Origin+"-"+a.Config.Route.Destination).
		Int("interval_minutes", a.Config.Watch.IntervalMinutes).
		Msg("starting fare watch")

	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("fare watch terminated with error")
		return err
	}

	a.Logger.Info().Msg("fare watch stopped")
	return nil
}

// showRoute renders the startup route panel. Unknown airport codes are not
// fatal; the booking site decides whether they mean anything.
func (a *App) showRoute(presenter dashboard.Presenter) {
	origin, known := airports.Lookup(a.Config.Route.Origin)
	if !known {
		a.Logger.Warn().Str("code", origin.Code).Msg("unknown origin airport code")
	}
	destination, known := airports.Lookup(a.Config.Route.Destination)
	if !known {
		a.Logger.Warn().Str("code", destination.Code).Msg("unknown destination airport code")
	}
	presenter.ShowRoute(origin, destination)
}

// seedFromSnapshot reloads prior history before live polling begins. Missing
// or unreadable snapshots mean a fresh start, never a refusal to run.
func (a *App) seedFromSnapshot(svc *service.Service) {
	if records := a.loadSeedRecords(); len(records) > 0 {
		svc.Seed(records)
	}
}

// loadSeedRecords decides what history a run resumes from. A missing,
// unreadable, or unparseable snapshot, or one recorded for a different route,
// logs the reason and returns nil: the ledger starts empty.
func (a *App) loadSeedRecords() []fare.CycleRecord {
	path := a.Config.Watch.SnapshotPath
	if path == "" {
		return nil
	}

	snap, err := history.Load(path)
	if err != nil {
		a.Logger.Warn().Err(err).Str("path", path).Msg("snapshot unreadable; starting fresh")
		return nil
	}
	if snap == nil {
		a.Logger.Info().Str("path", path).Msg("no snapshot found; starting fresh")
		return nil
	}
	if !strings.EqualFold(snap.Origin, a.Config.Route.Origin) || !strings.EqualFold(snap.Destination, a.Config.Route.Destination) {
		a.Logger.Warn().
			Str("snapshot_route", snap.Origin+"-"+snap.Destination).
			Str("configured_route", a.Config.Route.Origin+"-"+a.Config.Route.Destination).
			Msg("snapshot belongs to a different route; starting fresh")
		return nil
	}

	return snap.CycleRecords()
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit       int
	FromArchive bool
}

// ExportOptions hold parameters for exporting the recorded fare history.
type ExportOptions struct {
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ImportOptions configure the snapshot-to-archive import.
type ImportOptions struct {
	DryRun bool
}
