package model

import (
	"fmt"
	"time"
)

// Origin is the provenance of a schedule record.
type Origin int

const (
	// OriginPersisted marks a record fetched from or acknowledged by the remote store.
	OriginPersisted Origin = iota
	// OriginGenerated marks a record produced by the generation service, not yet saved.
	OriginGenerated
	// OriginDraft marks a record created by local edits, not yet saved.
	OriginDraft
)

func (o Origin) String() string {
	switch o {
	case OriginPersisted:
		return "persisted"
	case OriginGenerated:
		return "generated"
	case OriginDraft:
		return "draft"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// Persisted reports whether the record already exists on the remote store.
func (o Origin) Persisted() bool { return o == OriginPersisted }

// Assignment places one staff member on one shift of one day of a schedule week.
type Assignment struct {
	ID         string
	Day        int // 0-6 relative to the record's period start
	ShiftIndex int
	StaffID    string
	ZoneID     string

	// Cached display metadata, passed through untouched.
	StaffName string
	StaffRole string
}

// AssignmentKey is the identity triple of an assignment within a record.
type AssignmentKey struct {
	Day        int
	ShiftIndex int
	StaffID    string
}

// Key returns the identity triple of the assignment.
func (a Assignment) Key() AssignmentKey {
	return AssignmentKey{Day: a.Day, ShiftIndex: a.ShiftIndex, StaffID: a.StaffID}
}

// ScheduleRecord is one schedule covering a single week starting at PeriodStart.
type ScheduleRecord struct {
	ID          string
	FacilityID  string
	PeriodStart time.Time // canonical, date precision
	Assignments []Assignment
	Origin      Origin
	CreatedAt   time.Time
}

// PeriodEnd returns the last day covered by the record.
func (r ScheduleRecord) PeriodEnd() time.Time {
	return r.PeriodStart.AddDate(0, 0, 6)
}

// Has reports whether an assignment with the given identity triple exists.
func (r ScheduleRecord) Has(key AssignmentKey) bool {
	for _, a := range r.Assignments {
		if a.Key() == key {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record.
func (r ScheduleRecord) Clone() ScheduleRecord {
	out := r
	out.Assignments = make([]Assignment, len(r.Assignments))
	copy(out.Assignments, r.Assignments)
	return out
}

// Validate checks the record invariants: a canonical period start and no two
// assignments sharing the same (day, shift, staff) triple.
func (r ScheduleRecord) Validate() error {
	if !r.PeriodStart.Equal(DateOnly(r.PeriodStart)) {
		return fmt.Errorf("period start %s is not date-canonical", r.PeriodStart)
	}
	seen := make(map[AssignmentKey]struct{}, len(r.Assignments))
	for _, a := range r.Assignments {
		k := a.Key()
		if _, dup := seen[k]; dup {
			return fmt.Errorf("duplicate assignment day=%d shift=%d staff=%s", k.Day, k.ShiftIndex, k.StaffID)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Staff is a member of the facility roster, used to decorate assignments.
type Staff struct {
	ID   string
	Name string
	Role string
}

// ShiftDefinition describes one shift slot of the facility day.
type ShiftDefinition struct {
	Index int
	Label string
	Start string // HH:MM, display only
	End   string
}
