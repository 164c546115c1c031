package roster

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planvik/rosterd/core/events"
	"github.com/planvik/rosterd/core/logger"
	"github.com/planvik/rosterd/core/model"
	"github.com/planvik/rosterd/internal/eventbus"
)

// State identifies the lifecycle stage of the working schedule.
type State int

const (
	StateEmpty State = iota
	StateDraft
	StateSaving
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateDraft:
		return "draft"
	case StateSaving:
		return "saving"
	case StateCommitted:
		return "committed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Store holds the single working schedule bound to the active period and
// applies optimistic local mutations. All mutations are synchronous and
// perform no I/O; persistence is the coordinator's job.
type Store struct {
	mu      sync.Mutex
	log     logger.Logger
	bus     eventbus.EventBus
	current *model.ScheduleRecord
	dirty   bool
	state   State

	// rev counts content mutations; saveRev is rev at the last beginSave.
	// When they differ at completeSave, edits landed mid-flight and must
	// survive the commit.
	rev     uint64
	saveRev uint64
}

// NewStore creates an empty Store. bus may be nil.
func NewStore(log logger.Logger, bus eventbus.EventBus) *Store {
	return &Store{log: log, bus: bus, state: StateEmpty}
}

// Current returns a copy of the active schedule, if any.
func (s *Store) Current() (model.ScheduleRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return model.ScheduleRecord{}, false
	}
	return s.current.Clone(), true
}

// Dirty reports whether the active schedule has unsaved local mutations.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// State returns the lifecycle stage of the working schedule.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetCurrent replaces the active schedule and clears the dirty flag. A nil
// record empties the store.
func (s *Store) SetCurrent(rec *model.ScheduleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec == nil {
		s.current = nil
		s.dirty = false
		s.state = StateEmpty
		return
	}
	c := rec.Clone()
	s.current = &c
	s.dirty = false
	if rec.Origin.Persisted() {
		s.state = StateCommitted
	} else {
		s.state = StateDraft
	}
}

// AddAssignment places staffID on the given day and shift. When no schedule
// is active, a draft is created for the cursor's canonical period with this
// single assignment. A duplicate (day, shift, staff) triple is rejected with
// ErrDuplicateAssignment before anything changes.
func (s *Store) AddAssignment(cursor model.PeriodCursor, facilityID string, day, shiftIndex int, staffID string) (model.Assignment, error) {
	s.mu.Lock()
	if s.current == nil {
		rec := model.ScheduleRecord{
			ID:          "draft-" + uuid.NewString(),
			FacilityID:  facilityID,
			PeriodStart: cursor.CanonicalStart(),
			Origin:      model.OriginDraft,
			CreatedAt:   time.Now().UTC(),
		}
		s.current = &rec
		s.state = StateDraft
	}
	key := model.AssignmentKey{Day: day, ShiftIndex: shiftIndex, StaffID: staffID}
	if s.current.Has(key) {
		s.mu.Unlock()
		return model.Assignment{}, fmt.Errorf("day %d shift %d staff %s: %w", day, shiftIndex, staffID, ErrDuplicateAssignment)
	}
	a := model.Assignment{
		ID:         SyntheticAssignmentID(s.current.ID, day, shiftIndex, staffID, len(s.current.Assignments)),
		Day:        day,
		ShiftIndex: shiftIndex,
		StaffID:    staffID,
	}
	s.current.Assignments = append(s.current.Assignments, a)
	s.dirty = true
	s.rev++
	if s.state == StateCommitted {
		s.state = StateDraft
	}
	scheduleID := s.current.ID
	s.mu.Unlock()

	s.publish(events.AssignmentAdded{ScheduleID: scheduleID, Assignment: a})
	return a, nil
}

// RemoveAssignment drops the assignment with the given id. Without an active
// schedule this is a warned no-op returning ErrNoCurrentSchedule.
func (s *Store) RemoveAssignment(id string) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		s.log.Warnf("remove assignment %s: no current schedule", id)
		return ErrNoCurrentSchedule
	}
	removed := false
	for i, a := range s.current.Assignments {
		if a.ID == id {
			s.current.Assignments = append(s.current.Assignments[:i], s.current.Assignments[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		s.dirty = true
		s.rev++
		if s.state == StateCommitted {
			s.state = StateDraft
		}
	}
	scheduleID := s.current.ID
	s.mu.Unlock()

	if removed {
		s.publish(events.AssignmentRemoved{ScheduleID: scheduleID, AssignmentID: id})
	}
	return nil
}

// ReplaceWithGenerated overwrites the active schedule with the generated
// assignments. This is a replacement, not a merge: existing assignments are
// gone. Without an active schedule a new generated record is created for the
// cursor's canonical period.
func (s *Store) ReplaceWithGenerated(cursor model.PeriodCursor, facilityID string, assignments []model.Assignment) model.ScheduleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		rec := model.ScheduleRecord{
			ID:          "generated-" + uuid.NewString(),
			FacilityID:  facilityID,
			PeriodStart: cursor.CanonicalStart(),
			CreatedAt:   time.Now().UTC(),
		}
		s.current = &rec
	}
	s.current.Origin = model.OriginGenerated
	s.current.Assignments = append([]model.Assignment(nil), assignments...)
	s.dirty = true
	s.rev++
	s.state = StateDraft
	return s.current.Clone()
}

// Discard resets the store to empty and clears the dirty flag. Used when the
// user chooses to drop unsaved work.
func (s *Store) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.dirty = false
	s.state = StateEmpty
}

// beginSave transitions to StateSaving and returns a snapshot of the record
// to persist. The single-save-in-flight guard lives in the Coordinator.
func (s *Store) beginSave() (model.ScheduleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return model.ScheduleRecord{}, ErrNoCurrentSchedule
	}
	s.state = StateSaving
	s.saveRev = s.rev
	return s.current.Clone(), nil
}

// completeSave commits the persisted result. The saved record becomes current
// only if the store still holds the record the save started from; when the
// user navigated away mid-save the store is left as navigation put it, and
// only the index learns about the commit. Edits made while the save was on
// the wire are never dropped: the record adopts the server identity but keeps
// the newer local assignments and stays dirty for the next save. Returns
// whether the store rebound.
func (s *Store) completeSave(startedID string, saved model.ScheduleRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.ID == startedID {
		if s.rev == s.saveRev {
			c := saved.Clone()
			s.current = &c
			s.dirty = false
			s.state = StateCommitted
			return true
		}
		serverIDs := make(map[model.AssignmentKey]string, len(saved.Assignments))
		for _, a := range saved.Assignments {
			serverIDs[a.Key()] = a.ID
		}
		merged := saved.Clone()
		merged.Assignments = append([]model.Assignment(nil), s.current.Assignments...)
		for i, a := range merged.Assignments {
			if id, ok := serverIDs[a.Key()]; ok {
				merged.Assignments[i].ID = id
			}
		}
		s.current = &merged
		s.dirty = true
		s.state = StateDraft
		return true
	}
	if s.state == StateSaving {
		// Navigation replaced the record while saving; leave it alone.
		s.state = StateDraft
		if s.current == nil {
			s.state = StateEmpty
		}
	}
	return false
}

// failSave leaves the record and dirty flag untouched so the user can retry
// without losing edits.
func (s *Store) failSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		s.state = StateDraft
		if s.current == nil {
			s.state = StateEmpty
		}
	}
}

func (s *Store) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
