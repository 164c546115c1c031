package roster

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/planvik/rosterd/core/api"
	"github.com/planvik/rosterd/core/events"
	"github.com/planvik/rosterd/core/logger"
	"github.com/planvik/rosterd/core/metrics"
	"github.com/planvik/rosterd/core/model"
	"github.com/planvik/rosterd/internal/eventbus"
)

// Coordinator persists the working schedule to the remote store and
// reconciles the result back into the index and the store.
type Coordinator struct {
	log      logger.Logger
	bus      eventbus.EventBus
	sink     metrics.Sink
	store    *Store
	index    *Index
	remote   api.Store
	norm     *Normalizer
	inFlight atomic.Bool
}

// NewCoordinator creates a Coordinator. bus and sink may be nil.
func NewCoordinator(log logger.Logger, bus eventbus.EventBus, sink metrics.Sink, store *Store, index *Index, remote api.Store, norm *Normalizer) *Coordinator {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Coordinator{log: log, bus: bus, sink: sink, store: store, index: index, remote: remote, norm: norm}
}

// Save persists the active schedule: a record that never reached the remote
// store is created, an already persisted one is updated. On success the
// normalized response replaces any synthetic record for the period in the
// index and, unless the user navigated away mid-save, becomes the committed
// current schedule. On failure the record and its dirty flag are untouched
// so a retry runs against intact edits. A save already in flight rejects the
// call with ErrSaveInFlight before any network activity.
func (c *Coordinator) Save(ctx context.Context) (model.ScheduleRecord, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return model.ScheduleRecord{}, ErrSaveInFlight
	}
	defer c.inFlight.Store(false)

	rec, err := c.store.beginSave()
	if err != nil {
		return model.ScheduleRecord{}, err
	}

	start := time.Now()
	isNew := !rec.Origin.Persisted()
	var raw api.RawScheduleRecord
	var callErr error
	if isNew {
		raw, callErr = c.remote.Create(ctx, rec.FacilityID, rec.PeriodStart, api.FromAssignments(rec.Assignments))
	} else {
		raw, callErr = c.remote.Update(ctx, rec.ID, api.FromAssignments(rec.Assignments))
	}
	if callErr != nil {
		c.store.failSave()
		c.log.Errorf("save schedule %s: %v", rec.ID, callErr)
		c.publish(events.SaveFailed{ScheduleID: rec.ID, Err: callErr})
		_ = c.sink.RecordSave(metrics.SaveEvent{
			FacilityID: rec.FacilityID, Created: isNew, Outcome: "failure", Duration: time.Since(start),
		})
		return model.ScheduleRecord{}, callErr
	}

	saved, err := c.norm.Record(raw)
	if err != nil {
		// The store accepted the write; a malformed echo must not strand the
		// local record in Saving. Reconstruct from what was sent.
		c.log.Errorf("save schedule %s: malformed response: %v", rec.ID, err)
		saved = rec.Clone()
		saved.ID = raw.ID
		saved.Origin = model.OriginPersisted
	}

	c.index.Upsert(saved)
	rebound := c.store.completeSave(rec.ID, saved)
	c.log.Infof("schedule %s saved (created=%t rebound=%t)", saved.ID, isNew, rebound)
	c.publish(events.SaveSucceeded{Record: saved, Created: isNew})
	_ = c.sink.RecordSave(metrics.SaveEvent{
		FacilityID: saved.FacilityID, Created: isNew, Outcome: "success", Duration: time.Since(start),
	})
	return saved, nil
}

// Delete removes the active schedule. A persisted record is deleted remotely
// and dropped from the index; a draft or generated record only exists
// locally and is discarded without a network call.
func (c *Coordinator) Delete(ctx context.Context) error {
	rec, ok := c.store.Current()
	if !ok {
		return ErrNoCurrentSchedule
	}
	if rec.Origin.Persisted() {
		if err := c.remote.Delete(ctx, rec.ID); err != nil {
			c.log.Errorf("delete schedule %s: %v", rec.ID, err)
			return err
		}
		c.index.Remove(rec.ID)
	}
	c.store.Discard()
	c.log.Infof("schedule %s removed (%s)", rec.ID, rec.Origin)
	return nil
}

func (c *Coordinator) publish(e eventbus.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
