package roster

import (
	"context"
	"time"

	"github.com/planvik/rosterd/core/logger"
	"github.com/planvik/rosterd/core/model"
)

// Navigator owns the calendar cursor and drives the lookup, conflict and
// display sequence on every period change. Navigation is transactional: if
// the user cancels the conflict prompt the cursor keeps its pre-call value.
type Navigator struct {
	log      logger.Logger
	store    *Store
	index    *Index
	resolver *Resolver
	cursor   model.PeriodCursor
}

// NewNavigator creates a Navigator starting at the given cursor.
func NewNavigator(log logger.Logger, store *Store, index *Index, resolver *Resolver, start model.PeriodCursor) *Navigator {
	return &Navigator{log: log, store: store, index: index, resolver: resolver, cursor: start}
}

// Cursor returns the current calendar cursor.
func (n *Navigator) Cursor() model.PeriodCursor { return n.cursor }

// SetViewMode switches the calendar granularity and re-runs the sequence
// for the recomputed canonical period.
func (n *Navigator) SetViewMode(ctx context.Context, mode model.ViewMode) error {
	return n.navigate(ctx, n.cursor.WithMode(mode))
}

// Step moves the cursor by direction periods at the current granularity.
func (n *Navigator) Step(ctx context.Context, direction int) error {
	return n.navigate(ctx, n.cursor.Step(direction))
}

// GoTo jumps the cursor to the period containing date.
func (n *Navigator) GoTo(ctx context.Context, date time.Time) error {
	next := n.cursor
	next.ReferenceDate = model.DateOnly(date)
	return n.navigate(ctx, next)
}

func (n *Navigator) navigate(ctx context.Context, next model.PeriodCursor) error {
	prev := n.cursor
	proceed, err := n.resolver.Resolve(ctx, n.store, prev, next)
	if err != nil {
		return err
	}
	if !proceed {
		return ErrNavigationAborted
	}
	n.cursor = next
	n.Rebind()
	return nil
}

// Rebind points the store at whatever record covers the cursor's period. A
// dirty record that still covers the period stays current: it represents
// work the resolver decided to keep, and an index record must not clobber it.
func (n *Navigator) Rebind() {
	if n.store.Dirty() {
		if cur, ok := n.store.Current(); ok && coversPeriod(cur, n.cursor) {
			return
		}
	}
	if rec, ok := n.index.FindForPeriod(n.cursor); ok {
		n.store.SetCurrent(&rec)
		return
	}
	n.store.SetCurrent(nil)
}
