package roster

import (
	"sync"

	"github.com/planvik/rosterd/core/events"
	"github.com/planvik/rosterd/core/logger"
	"github.com/planvik/rosterd/core/metrics"
	"github.com/planvik/rosterd/core/model"
	"github.com/planvik/rosterd/internal/eventbus"
)

// Index answers which fetched schedule record covers a calendar period.
// A flat scan is enough at one facility's scale; the invariant is one
// record per period, and violations are signalled, not raised.
type Index struct {
	mu      sync.Mutex
	log     logger.Logger
	bus     eventbus.EventBus
	sink    metrics.Sink
	records []model.ScheduleRecord
}

// NewIndex creates an empty Index. bus may be nil; sink may be nil.
func NewIndex(log logger.Logger, bus eventbus.EventBus, sink metrics.Sink) *Index {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Index{log: log, bus: bus, sink: sink}
}

// SetRecords replaces the indexed record list.
func (ix *Index) SetRecords(records []model.ScheduleRecord) {
	ix.mu.Lock()
	ix.records = append([]model.ScheduleRecord(nil), records...)
	ix.mu.Unlock()
}

// Records returns a copy of the indexed record list.
func (ix *Index) Records() []model.ScheduleRecord {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return append([]model.ScheduleRecord(nil), ix.records...)
}

// Upsert inserts the record, replacing any record with the same id or the
// same canonical period. Used when a save commits: the persisted result
// replaces the synthetic draft that occupied the period.
func (ix *Index) Upsert(rec model.ScheduleRecord) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i, existing := range ix.records {
		if existing.ID == rec.ID || model.SameDate(existing.PeriodStart, rec.PeriodStart) {
			ix.records[i] = rec
			return
		}
	}
	ix.records = append(ix.records, rec)
}

// Remove drops the record with the given id, if present.
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i, existing := range ix.records {
		if existing.ID == id {
			ix.records = append(ix.records[:i], ix.records[i+1:]...)
			return
		}
	}
}

// FindForPeriod returns the record covering the cursor's period, if any.
// It is total: any record set and cursor yield one record or none. When
// more than one record matches, the first is returned and the inconsistency
// is surfaced as a warning; the backend owns that invariant.
func (ix *Index) FindForPeriod(cursor model.PeriodCursor) (model.ScheduleRecord, bool) {
	ix.mu.Lock()
	var matches []model.ScheduleRecord
	for _, rec := range ix.records {
		if coversPeriod(rec, cursor) {
			matches = append(matches, rec)
		}
	}
	ix.mu.Unlock()

	switch len(matches) {
	case 0:
		_ = ix.sink.RecordLookup(metrics.LookupEvent{Mode: cursor.Mode.String(), Result: "miss"})
		return model.ScheduleRecord{}, false
	case 1:
		_ = ix.sink.RecordLookup(metrics.LookupEvent{Mode: cursor.Mode.String(), Result: "hit"})
		return matches[0].Clone(), true
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		ix.log.Warnf("multiple schedules cover period %s (%s): %v, using first",
			cursor.CanonicalStart().Format("2006-01-02"), cursor.Mode, ids)
		if ix.bus != nil {
			ix.bus.Publish(events.PeriodAmbiguity{Cursor: cursor, RecordIDs: ids})
		}
		_ = ix.sink.RecordLookup(metrics.LookupEvent{Mode: cursor.Mode.String(), Result: "ambiguous"})
		return matches[0].Clone(), true
	}
}

// coversPeriod reports whether the record's week covers the cursor's period.
// Daily and weekly cursors match by calendar-date containment of the
// reference date (the canonical Monday for weekly); monthly cursors match on
// any overlap between the record's week and the month, so a week straddling
// a month boundary belongs to both months.
func coversPeriod(rec model.ScheduleRecord, cursor model.PeriodCursor) bool {
	start := model.DateOnly(rec.PeriodStart)
	end := rec.PeriodEnd()
	switch cursor.Mode {
	case model.ViewMonthly:
		monthStart, monthEnd := model.MonthBounds(cursor.ReferenceDate)
		return !start.After(monthEnd) && !end.Before(monthStart)
	case model.ViewWeekly:
		ref := cursor.CanonicalStart()
		return !ref.Before(start) && !ref.After(end)
	default:
		ref := model.DateOnly(cursor.ReferenceDate)
		return !ref.Before(start) && !ref.After(end)
	}
}
