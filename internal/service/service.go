// Package service orchestrates the polling cycle: fetch fares, reduce each
// direction to its lowest, classify the movement against the previous cycle,
// evaluate the deal threshold, record, persist, present, alert.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"farewatch/internal/alerting"
	"farewatch/internal/config"
	"farewatch/internal/dashboard"
	"farewatch/internal/fare"
	"farewatch/internal/history"
	"farewatch/internal/scheduler"
	"farewatch/internal/scrape"
	"farewatch/internal/storage"
)

// Service drives the fare watch loop.
type Service struct {
	scheduler *scheduler.Scheduler
	scraper   scrape.Scraper
	ledger    *history.Ledger
	presenter dashboard.Presenter
	notifier  alerting.Notifier
	archive   storage.CycleArchive
	logger    zerolog.Logger

	route        config.RouteConfig
	dealPrice    *int64
	intervalMins int
	snapshotPath string
}

// New constructs the watch service. notifier and archive may be nil when the
// corresponding channel is not configured; scheduler may be nil for one-shot
// callers that invoke RunCycle directly.
func New(cfg *config.Config, sched *scheduler.Scheduler, scraper scrape.Scraper, ledger *history.Ledger, presenter dashboard.Presenter, notifier alerting.Notifier, archive storage.CycleArchive, logger zerolog.Logger) *Service {
	return &Service{
		scheduler:    sched,
		scraper:      scraper,
		ledger:       ledger,
		presenter:    presenter,
		notifier:     notifier,
		archive:      archive,
		logger:       logger.With().Str("component", "service").Logger(),
		route:        cfg.Route,
		dealPrice:    cfg.Watch.DealThreshold(),
		intervalMins: cfg.Watch.IntervalMinutes,
		snapshotPath: cfg.Watch.SnapshotPath,
	}
}

// Run begins the polling loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.RunCycle)
}

// Seed loads previously recorded cycles into the ledger and replays each one
// through the presenter in original order, so a resumed run reconstructs the
// prior history before live polling begins. Seeded deals are history; they
// are never re-alerted.
func (s *Service) Seed(records []fare.CycleRecord) {
	for _, rec := range records {
		s.ledger.Append(rec)
		s.presenter.LogRecord(rec)
		s.presenter.PlotRecord(rec)
	}
	if len(records) > 0 {
		s.logger.Info().Int("records", len(records)).Msg("ledger seeded from snapshot")
		s.presenter.Render()
	}
}

// RunCycle executes one polling cycle. Fetch, reduce, or compare failures
// abandon the cycle: nothing is recorded, plotted, or alerted, and the error
// is surfaced for the scheduler to log before the next interval. Persistence
// and notification failures are logged here and never abandon anything. The
// screen is refreshed whatever the outcome.
func (s *Service) RunCycle(ctx context.Context, startedAt time.Time) error {
	defer s.presenter.Render()

	batch, err := s.scraper.FetchFares(ctx)
	if err != nil {
		return fmt.Errorf("fetch fares: %w", err)
	}

	outboundLowest, err := fare.Lowest(batch.Outbound)
	if err != nil {
		return fmt.Errorf("reduce outbound fares: %w", err)
	}
	returnLowest, err := fare.Lowest(batch.Return)
	if err != nil {
		return fmt.Errorf("reduce return fares: %w", err)
	}

	// An invalid comparison on either direction vetoes the whole cycle.
	outboundDelta, err := fare.Compare(s.ledger.LastLowest(fare.Outbound), outboundLowest)
	if err != nil {
		return fmt.Errorf("compare outbound fares: %w", err)
	}
	returnDelta, err := fare.Compare(s.ledger.LastLowest(fare.Return), returnLowest)
	if err != nil {
		return fmt.Errorf("compare return fares: %w", err)
	}

	rec := fare.CycleRecord{
		Timestamp:      startedAt.Format(fare.TimestampLayout),
		OutboundLowest: outboundLowest,
		ReturnLowest:   returnLowest,
		OutboundDelta:  outboundDelta,
		ReturnDelta:    returnDelta,
		Deal:           fare.IsDeal(s.dealPrice, outboundLowest, returnLowest),
	}

	s.ledger.Append(rec)
	s.persist(ctx, rec)

	s.logger.Info().
		Str("timestamp", rec.Timestamp).
		Int64("outbound_lowest", rec.OutboundLowest).
		Int64("return_lowest", rec.ReturnLowest).
		Str("outbound_delta", string(rec.OutboundDelta.Kind)).
		Str("return_delta", string(rec.ReturnDelta.Kind)).
		Bool("deal", rec.Deal).
		Msg("cycle recorded")

	s.presenter.LogRecord(rec)
	s.presenter.PlotRecord(rec)

	if rec.Deal && s.notifier != nil {
		alert := alerting.Alert{
			Origin:      s.route.Origin,
			Destination: s.route.Destination,
			DealPrice:   *s.dealPrice,
			Record:      rec,
		}
		if err := s.notifier.Notify(ctx, alert); err != nil {
			s.logger.Error().Err(err).Str("timestamp", rec.Timestamp).Msg("failed to dispatch deal alert")
		}
	}

	return nil
}

// persist writes the snapshot file and the optional archive row. Failures
// here are logged and swallowed; the recorded cycle stays in the ledger and
// the loop keeps going.
func (s *Service) persist(ctx context.Context, rec fare.CycleRecord) {
	if s.snapshotPath != "" {
		if err := history.Save(s.snapshotPath, s.buildSnapshot()); err != nil {
			s.logger.Error().Err(err).Str("path", s.snapshotPath).Msg("failed to persist snapshot")
		}
	}

	if s.archive != nil {
		observedAt, err := rec.Time()
		if err != nil {
			s.logger.Warn().Err(err).Str("timestamp", rec.Timestamp).Msg("cycle not archived: unparseable timestamp")
			return
		}
		cycle := storage.ArchivedCycle{
			ObservedAt:     observedAt,
			Origin:         s.route.Origin,
			Destination:    s.route.Destination,
			OutboundLowest: rec.OutboundLowest,
			ReturnLowest:   rec.ReturnLowest,
			OutboundDelta:  rec.OutboundDelta,
			ReturnDelta:    rec.ReturnDelta,
			Deal:           rec.Deal,
		}
		if err := s.archive.InsertCycle(ctx, cycle); err != nil {
			s.logger.Error().Err(err).Str("timestamp", rec.Timestamp).Msg("failed to archive cycle")
		}
	}
}

func (s *Service) buildSnapshot() history.Snapshot {
	var dealPrice int64
	if s.dealPrice != nil {
		dealPrice = *s.dealPrice
	}
	return history.Snapshot{
		Origin:          s.route.Origin,
		Destination:     s.route.Destination,
		OutboundDate:    s.route.OutboundDate,
		ReturnDate:      s.route.ReturnDate,
		Passengers:      s.route.Passengers,
		DealPrice:       dealPrice,
		IntervalMinutes: s.intervalMins,
		SavedAt:         time.Now().Format(fare.TimestampLayout),
		Records:         history.BuildRecords(s.ledger.Records(), dashboard.FormatDelta),
	}
}
