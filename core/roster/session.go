package roster

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/planvik/rosterd/core/api"
	"github.com/planvik/rosterd/core/events"
	"github.com/planvik/rosterd/core/logger"
	"github.com/planvik/rosterd/core/metrics"
	"github.com/planvik/rosterd/core/model"
	"github.com/planvik/rosterd/internal/eventbus"
)

// Session bundles the per-viewer state: one cursor, one working store and
// one period index for a single facility. Nothing is shared across
// sessions, so concurrent viewers (tabs, tests) never collide.
type Session struct {
	FacilityID string

	Store *Store
	Index *Index
	Nav   *Navigator
	Coord *Coordinator

	log    logger.Logger
	bus    eventbus.EventBus
	norm   *Normalizer
	remote api.Store
	gen    api.Generator

	// fetchSeq orders list fetches: last request wins, not last response.
	fetchSeq atomic.Uint64

	staff map[string]model.Staff
}

// NewSession wires a session for one facility. bus, sink, gen and confirm
// may be nil; a nil confirm auto-cancels every discard prompt and a nil gen
// makes GenerateCurrent fail with ErrNoGenerator.
func NewSession(facilityID string, remote api.Store, gen api.Generator, confirm Confirmer, bus eventbus.EventBus, sink metrics.Sink, log logger.Logger) *Session {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if confirm == nil {
		confirm = ConfirmerFunc(func(context.Context, model.PeriodCursor, model.PeriodCursor) (bool, error) {
			return false, nil
		})
	}
	norm := NewNormalizer(log)
	store := NewStore(log, bus)
	index := NewIndex(log, bus, sink)
	resolver := NewResolver(log, bus, sink, confirm)
	start := model.PeriodCursor{ReferenceDate: model.DateOnly(time.Now()), Mode: model.ViewWeekly}
	nav := NewNavigator(log, store, index, resolver, start)
	coord := NewCoordinator(log, bus, sink, store, index, remote, norm)
	return &Session{
		FacilityID: facilityID,
		Store:      store,
		Index:      index,
		Nav:        nav,
		Coord:      coord,
		log:        log,
		bus:        bus,
		norm:       norm,
		remote:     remote,
		gen:        gen,
		staff:      make(map[string]model.Staff),
	}
}

// SetStaff caches the facility staff list used to decorate assignments with
// display metadata.
func (s *Session) SetStaff(staff []model.Staff) {
	s.staff = make(map[string]model.Staff, len(staff))
	for _, m := range staff {
		s.staff[m.ID] = m
	}
}

// Refresh fetches the facility's schedule records and reconciles them into
// the index. A response superseded by a newer fetch is discarded wholesale.
// A dirty generated or draft schedule covering the viewed period stays
// current over the incoming fetch; the fetched list still updates the index.
func (s *Session) Refresh(ctx context.Context) error {
	seq := s.fetchSeq.Add(1)
	raws, err := s.remote.List(ctx, s.FacilityID)
	if err != nil {
		return err
	}
	if seq != s.fetchSeq.Load() {
		s.log.Debugf("discarding stale schedule list (seq %d)", seq)
		return nil
	}
	records := make([]model.ScheduleRecord, 0, len(raws))
	for _, raw := range raws {
		rec, err := s.norm.Record(raw)
		if err != nil {
			s.log.Warnf("skipping malformed schedule %s: %v", raw.ID, err)
			continue
		}
		records = append(records, rec)
	}
	s.Index.SetRecords(records)
	s.Nav.Rebind()
	return nil
}

// AddAssignment places a staff member on a shift of the viewed period,
// creating a draft when the period has no schedule yet. Display metadata is
// filled from the cached staff list.
func (s *Session) AddAssignment(day, shiftIndex int, staffID string) (model.Assignment, error) {
	a, err := s.Store.AddAssignment(s.Nav.Cursor(), s.FacilityID, day, shiftIndex, staffID)
	if err != nil {
		return model.Assignment{}, err
	}
	if m, ok := s.staff[staffID]; ok {
		a.StaffName = m.Name
		a.StaffRole = m.Role
	}
	return a, nil
}

// RemoveAssignment drops an assignment from the working schedule.
func (s *Session) RemoveAssignment(id string) error {
	return s.Store.RemoveAssignment(id)
}

// Save persists the working schedule.
func (s *Session) Save(ctx context.Context) (model.ScheduleRecord, error) {
	return s.Coord.Save(ctx)
}

// DeleteCurrent removes the viewed schedule and rebinds the period.
func (s *Session) DeleteCurrent(ctx context.Context) error {
	if err := s.Coord.Delete(ctx); err != nil {
		return err
	}
	s.Nav.Rebind()
	return nil
}

// GenerateCurrent asks the external generation service for a schedule
// covering the viewed period and replaces the working schedule with the
// result. The generated record is client-only until saved.
func (s *Session) GenerateCurrent(ctx context.Context, zones []string, constraints map[string]any) (model.ScheduleRecord, error) {
	if s.gen == nil {
		return model.ScheduleRecord{}, ErrNoGenerator
	}
	cursor := s.Nav.Cursor()
	res, err := s.gen.Generate(ctx, api.GenerateRequest{
		FacilityID:  s.FacilityID,
		PeriodStart: cursor.CanonicalStart(),
		PeriodType:  cursor.Mode.String(),
		Zones:       zones,
		Constraints: constraints,
	})
	if err != nil {
		s.log.Errorf("generate schedule: %v", err)
		return model.ScheduleRecord{}, err
	}
	assignments := s.norm.Normalize("generated-"+uuid.NewString(), res.Assignments)
	rec := s.Store.ReplaceWithGenerated(cursor, s.FacilityID, assignments)
	if s.bus != nil {
		s.bus.Publish(events.ScheduleGenerated{
			ScheduleID: rec.ID,
			Coverage:   res.Metrics.Coverage,
			Fairness:   res.Metrics.Fairness,
		})
	}
	return rec, nil
}
