package app

import (
	"context"
	"fmt"

	"github.com/planvik/rosterd/config"
	"github.com/planvik/rosterd/core/events"
	coremetrics "github.com/planvik/rosterd/core/metrics"
	"github.com/planvik/rosterd/core/model"
	"github.com/planvik/rosterd/core/roster"
	"github.com/planvik/rosterd/infra/api"
	"github.com/planvik/rosterd/infra/logger"
	"github.com/planvik/rosterd/infra/metrics"
	"github.com/planvik/rosterd/internal/eventbus"
)

// Service wires the roster session to its collaborators and forwards the
// core's semantic events to the log until a real presentation layer attaches.
type Service struct {
	Session *roster.Session

	bus         eventbus.EventBus
	log         logger.Logger
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.SetGlobalLevel(cfg.Logging.Level)
	logg := logger.New("service")

	store, gen, err := api.New(cfg.API)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	var sink coremetrics.Sink = coremetrics.NopSink{}
	if cfg.Metrics.PrometheusEnabled {
		sink, err = metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
	}

	bus := eventbus.New()
	// Headless runs have nobody to ask; unsaved work stays put.
	confirm := roster.ConfirmerFunc(func(_ context.Context, from, to model.PeriodCursor) (bool, error) {
		logg.Warnf("unsaved schedule blocks navigation from %s to %s, staying",
			from.CanonicalStart().Format("2006-01-02"), to.CanonicalStart().Format("2006-01-02"))
		return false, nil
	})
	session := roster.NewSession(cfg.Facility.ID, store, gen, confirm, bus, sink, logger.New("roster"))

	return &Service{
		Session:     session,
		bus:         bus,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	sub := s.bus.Subscribe()
	go s.logEvents(sub)

	if err := s.Session.Refresh(ctx); err != nil {
		s.log.Errorf("initial refresh: %v", err)
	}
	<-ctx.Done()
	return nil
}

func (s *Service) logEvents(sub <-chan eventbus.Event) {
	for e := range sub {
		switch ev := e.(type) {
		case events.AssignmentAdded:
			s.log.Infof("assignment added to %s: day %d shift %d staff %s",
				ev.ScheduleID, ev.Assignment.Day, ev.Assignment.ShiftIndex, ev.Assignment.StaffID)
		case events.AssignmentRemoved:
			s.log.Infof("assignment %s removed from %s", ev.AssignmentID, ev.ScheduleID)
		case events.SaveSucceeded:
			s.log.Infof("schedule %s saved (created=%t)", ev.Record.ID, ev.Created)
		case events.SaveFailed:
			s.log.Warnf("schedule %s save failed: %v", ev.ScheduleID, ev.Err)
		case events.ConflictPrompted:
			s.log.Infof("conflict prompt resolved (discarded=%t)", ev.Discarded)
		case events.PeriodAmbiguity:
			s.log.Warnf("period ambiguity at %s: %v", ev.Cursor.CanonicalStart().Format("2006-01-02"), ev.RecordIDs)
		case events.ScheduleGenerated:
			s.log.Infof("schedule %s generated (coverage=%.2f fairness=%.2f)",
				ev.ScheduleID, ev.Coverage, ev.Fairness)
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
