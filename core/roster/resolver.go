package roster

import (
	"context"

	"github.com/planvik/rosterd/core/events"
	"github.com/planvik/rosterd/core/logger"
	"github.com/planvik/rosterd/core/metrics"
	"github.com/planvik/rosterd/core/model"
	"github.com/planvik/rosterd/internal/eventbus"
)

// Confirmer asks the user whether unsaved work may be discarded. It is
// injected so the resolver is testable without a real UI prompt.
type Confirmer interface {
	// ConfirmDiscard returns true when the user accepts losing unsaved work,
	// false to cancel the navigation that triggered the prompt.
	ConfirmDiscard(ctx context.Context, from, to model.PeriodCursor) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, from, to model.PeriodCursor) (bool, error)

func (f ConfirmerFunc) ConfirmDiscard(ctx context.Context, from, to model.PeriodCursor) (bool, error) {
	return f(ctx, from, to)
}

// Resolver governs what happens to unsaved local state when the viewed
// period changes. Generated and draft schedules represent real work and are
// never dropped silently for a different period; for the same canonical
// period they are kept without prompting, since re-asking on every re-render
// would be disruptive.
type Resolver struct {
	log     logger.Logger
	bus     eventbus.EventBus
	sink    metrics.Sink
	confirm Confirmer
}

// NewResolver creates a Resolver. bus and sink may be nil.
func NewResolver(log logger.Logger, bus eventbus.EventBus, sink metrics.Sink, confirm Confirmer) *Resolver {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Resolver{log: log, bus: bus, sink: sink, confirm: confirm}
}

// Resolve decides whether navigation from one cursor to another may proceed.
// A discard resets the store; a cancellation leaves everything untouched and
// the caller reverts the cursor. The persistence coordinator is never
// involved: unsaved work is either kept, or dropped, never auto-saved.
func (r *Resolver) Resolve(ctx context.Context, store *Store, from, to model.PeriodCursor) (bool, error) {
	if !store.Dirty() {
		return true, nil
	}
	cur, ok := store.Current()
	if !ok {
		return true, nil
	}
	if coversPeriod(cur, to) {
		r.log.Debugf("keeping %s schedule %s: same canonical period", cur.Origin, cur.ID)
		_ = r.sink.RecordConflict(metrics.ConflictEvent{Resolution: "kept"})
		return true, nil
	}

	discard, err := r.confirm.ConfirmDiscard(ctx, from, to)
	if err != nil {
		return false, err
	}
	if r.bus != nil {
		r.bus.Publish(events.ConflictPrompted{From: from, To: to, Discarded: discard})
	}
	if !discard {
		r.log.Infof("navigation cancelled to keep %s schedule %s", cur.Origin, cur.ID)
		_ = r.sink.RecordConflict(metrics.ConflictEvent{Resolution: "cancelled"})
		return false, nil
	}
	r.log.Infof("discarding %s schedule %s on period change", cur.Origin, cur.ID)
	store.Discard()
	_ = r.sink.RecordConflict(metrics.ConflictEvent{Resolution: "discarded"})
	return true, nil
}
