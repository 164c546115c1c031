package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/planvik/rosterd/core/model"
	"github.com/planvik/rosterd/infra/logger"
)

type scriptedConfirmer struct {
	discard bool
	err     error
	calls   int
}

func (c *scriptedConfirmer) ConfirmDiscard(context.Context, model.PeriodCursor, model.PeriodCursor) (bool, error) {
	c.calls++
	return c.discard, c.err
}

func TestResolveCleanStoreProceedsSilently(t *testing.T) {
	confirm := &scriptedConfirmer{}
	r := NewResolver(logger.NopLogger{}, nil, nil, confirm)
	s := NewStore(logger.NopLogger{}, nil)

	from := weeklyCursor(date(2024, time.June, 5))
	to := from.Step(1)
	proceed, err := r.Resolve(context.Background(), s, from, to)
	if err != nil || !proceed {
		t.Fatalf("clean store should proceed: %v %t", err, proceed)
	}
	if confirm.calls != 0 {
		t.Fatalf("no prompt expected for a clean store")
	}
}

func TestResolveSamePeriodKeepsSilently(t *testing.T) {
	confirm := &scriptedConfirmer{}
	r := NewResolver(logger.NopLogger{}, nil, nil, confirm)
	s := NewStore(logger.NopLogger{}, nil)
	from := weeklyCursor(date(2024, time.June, 5))
	_, _ = s.AddAssignment(from, "fac-1", 0, 0, "S1")

	// Re-navigating within the same week must not prompt.
	to := weeklyCursor(date(2024, time.June, 9))
	proceed, err := r.Resolve(context.Background(), s, from, to)
	if err != nil || !proceed {
		t.Fatalf("same period should proceed: %v %t", err, proceed)
	}
	if confirm.calls != 0 {
		t.Fatalf("same period must not prompt")
	}
	if !s.Dirty() {
		t.Fatalf("unsaved work must be kept")
	}
}

func TestResolveDiscardClearsStore(t *testing.T) {
	confirm := &scriptedConfirmer{discard: true}
	r := NewResolver(logger.NopLogger{}, nil, nil, confirm)
	s := NewStore(logger.NopLogger{}, nil)
	from := weeklyCursor(date(2024, time.June, 5))
	_, _ = s.AddAssignment(from, "fac-1", 0, 0, "S1")

	to := weeklyCursor(date(2024, time.June, 12))
	proceed, err := r.Resolve(context.Background(), s, from, to)
	if err != nil || !proceed {
		t.Fatalf("discard should let navigation proceed: %v %t", err, proceed)
	}
	if s.Dirty() {
		t.Fatalf("discard must clear the dirty flag")
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("discard must reset the store")
	}
}

func TestResolveCancelKeepsEverything(t *testing.T) {
	confirm := &scriptedConfirmer{discard: false}
	r := NewResolver(logger.NopLogger{}, nil, nil, confirm)
	s := NewStore(logger.NopLogger{}, nil)
	from := weeklyCursor(date(2024, time.June, 5))
	_, _ = s.AddAssignment(from, "fac-1", 0, 0, "S1")

	to := weeklyCursor(date(2024, time.June, 12))
	proceed, err := r.Resolve(context.Background(), s, from, to)
	if err != nil || proceed {
		t.Fatalf("cancel should abort navigation: %v %t", err, proceed)
	}
	if !s.Dirty() {
		t.Fatalf("cancel must keep unsaved work")
	}
}

func TestResolveConfirmerError(t *testing.T) {
	boom := errors.New("prompt torn down")
	confirm := &scriptedConfirmer{err: boom}
	r := NewResolver(logger.NopLogger{}, nil, nil, confirm)
	s := NewStore(logger.NopLogger{}, nil)
	from := weeklyCursor(date(2024, time.June, 5))
	_, _ = s.AddAssignment(from, "fac-1", 0, 0, "S1")

	_, err := r.Resolve(context.Background(), s, from, weeklyCursor(date(2024, time.June, 12)))
	if !errors.Is(err, boom) {
		t.Fatalf("confirmer error should propagate, got %v", err)
	}
	if !s.Dirty() {
		t.Fatalf("a failed prompt must not drop work")
	}
}
