package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/planvik/rosterd/core/model"
	"github.com/planvik/rosterd/infra/logger"
)

func newNavFixture(confirm Confirmer) (*Navigator, *Store, *Index) {
	log := logger.NopLogger{}
	store := NewStore(log, nil)
	index := NewIndex(log, nil, nil)
	resolver := NewResolver(log, nil, nil, confirm)
	start := weeklyCursor(date(2024, time.June, 5))
	return NewNavigator(log, store, index, resolver, start), store, index
}

func TestStepBindsCoveringRecord(t *testing.T) {
	nav, store, index := newNavFixture(&scriptedConfirmer{})
	index.SetRecords([]model.ScheduleRecord{
		weekRecord("sched-1", date(2024, time.June, 3)),
		weekRecord("sched-2", date(2024, time.June, 10)),
	})
	nav.Rebind()
	if rec, ok := store.Current(); !ok || rec.ID != "sched-1" {
		t.Fatalf("expected sched-1 bound, got %v %v", rec.ID, ok)
	}

	if err := nav.Step(context.Background(), 1); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := nav.Cursor().ReferenceDate; !got.Equal(date(2024, time.June, 12)) {
		t.Fatalf("cursor should advance one week, got %s", got)
	}
	if rec, ok := store.Current(); !ok || rec.ID != "sched-2" {
		t.Fatalf("expected sched-2 bound after step, got %v %v", rec.ID, ok)
	}

	// A week with no record empties the view.
	if err := nav.Step(context.Background(), 1); err != nil {
		t.Fatalf("step: %v", err)
	}
	if _, ok := store.Current(); ok {
		t.Fatalf("uncovered week should bind nothing")
	}
}

func TestNavigationCancelIsTransactional(t *testing.T) {
	confirm := &scriptedConfirmer{discard: false}
	nav, store, _ := newNavFixture(confirm)
	_, _ = store.AddAssignment(nav.Cursor(), "fac-1", 0, 0, "S1")

	before := nav.Cursor()
	err := nav.Step(context.Background(), 1)
	if !errors.Is(err, ErrNavigationAborted) {
		t.Fatalf("expected ErrNavigationAborted, got %v", err)
	}
	if nav.Cursor() != before {
		t.Fatalf("cursor must revert on cancel")
	}
	if !store.Dirty() {
		t.Fatalf("unsaved work must survive a cancelled navigation")
	}
}

func TestNavigationDiscardRevealsPersisted(t *testing.T) {
	confirm := &scriptedConfirmer{discard: true}
	nav, store, index := newNavFixture(confirm)
	index.SetRecords([]model.ScheduleRecord{weekRecord("sched-2", date(2024, time.June, 10))})
	_, _ = store.AddAssignment(nav.Cursor(), "fac-1", 0, 0, "S1")

	if err := nav.Step(context.Background(), 1); err != nil {
		t.Fatalf("step: %v", err)
	}
	rec, ok := store.Current()
	if !ok || rec.ID != "sched-2" || store.Dirty() {
		t.Fatalf("discard should land on the persisted record: %v dirty=%t", rec.ID, store.Dirty())
	}
}

func TestSetViewModeRecomputesPeriod(t *testing.T) {
	nav, store, index := newNavFixture(&scriptedConfirmer{})
	// Week straddling May and June; only visible from the monthly views.
	index.SetRecords([]model.ScheduleRecord{weekRecord("sched-1", date(2024, time.May, 27))})

	if err := nav.SetViewMode(context.Background(), model.ViewMonthly); err != nil {
		t.Fatalf("set view mode: %v", err)
	}
	if nav.Cursor().Mode != model.ViewMonthly {
		t.Fatalf("mode should switch")
	}
	if rec, ok := store.Current(); !ok || rec.ID != "sched-1" {
		t.Fatalf("June view should include the straddling week, got %v %v", rec.ID, ok)
	}
}

func TestGoToJumpsDate(t *testing.T) {
	nav, store, index := newNavFixture(&scriptedConfirmer{})
	index.SetRecords([]model.ScheduleRecord{weekRecord("sched-1", date(2024, time.September, 2))})

	if err := nav.GoTo(context.Background(), date(2024, time.September, 4)); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if rec, ok := store.Current(); !ok || rec.ID != "sched-1" {
		t.Fatalf("goto should bind the target week's record")
	}
}

func TestRebindKeepsDirtySamePeriodOverFetch(t *testing.T) {
	nav, store, index := newNavFixture(&scriptedConfirmer{})
	_, _ = store.AddAssignment(nav.Cursor(), "fac-1", 0, 0, "S1")
	draft, _ := store.Current()

	// A background fetch finds a concurrent record for the same week.
	index.SetRecords([]model.ScheduleRecord{weekRecord("sched-7", date(2024, time.June, 3))})
	nav.Rebind()

	rec, ok := store.Current()
	if !ok || rec.ID != draft.ID || !store.Dirty() {
		t.Fatalf("current dirty work wins over an incoming fetch for the same period")
	}
}
