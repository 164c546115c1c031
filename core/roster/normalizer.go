package roster

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/planvik/rosterd/core/api"
	"github.com/planvik/rosterd/core/logger"
	"github.com/planvik/rosterd/core/model"
)

// Normalizer canonicalizes raw assignment payloads into a stable in-memory
// shape. The backend emits numbers as floats or strings depending on the code
// path, and older records lack assignment ids entirely.
type Normalizer struct {
	log logger.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(log logger.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize converts raw assignment entries into canonical assignments.
// A nil or empty input yields an empty slice, never an error. Malformed
// entries are kept with defaulted fields rather than aborting the list.
// Normalization is idempotent: ids present in the input pass through, and
// synthesized ids are derived deterministically from the entry's identity.
func (n *Normalizer) Normalize(scheduleID string, raw []api.RawAssignment) []model.Assignment {
	out := make([]model.Assignment, 0, len(raw))
	for i, entry := range raw {
		if entry == nil {
			n.log.Warnf("assignment %d of schedule %s is empty, defaulting", i, scheduleID)
			entry = api.RawAssignment{}
		}
		a := model.Assignment{
			ID:         asString(entry["id"]),
			Day:        asInt(entry["day"]),
			ShiftIndex: asInt(entry["shift_index"]),
			StaffID:    asString(entry["staff_id"]),
			ZoneID:     asString(entry["zone_id"]),
			StaffName:  asString(entry["staff_name"]),
			StaffRole:  asString(entry["staff_role"]),
		}
		if a.StaffID == "" {
			n.log.Warnf("assignment %d of schedule %s has no staff id", i, scheduleID)
		}
		if a.ID == "" {
			a.ID = SyntheticAssignmentID(scheduleID, a.Day, a.ShiftIndex, a.StaffID, i)
		}
		out = append(out, a)
	}
	return out
}

// Record converts a raw schedule record into its canonical form with
// origin persisted. The period start is parsed at date precision as sent;
// the backend owns the weekly Monday invariant and the index matches
// fetched records by canonical period, not by a re-pinned start.
func (n *Normalizer) Record(raw api.RawScheduleRecord) (model.ScheduleRecord, error) {
	start, err := time.Parse("2006-01-02", raw.PeriodStart)
	if err != nil {
		return model.ScheduleRecord{}, fmt.Errorf("parse period start %q: %w", raw.PeriodStart, err)
	}
	rec := model.ScheduleRecord{
		ID:          raw.ID,
		FacilityID:  raw.FacilityID,
		PeriodStart: model.DateOnly(start),
		Assignments: n.Normalize(raw.ID, raw.Assignments),
		Origin:      model.OriginPersisted,
		CreatedAt:   raw.CreatedAt,
	}
	return rec, nil
}

// SyntheticAssignmentID derives a deterministic local id for an assignment
// that has none yet. The "local-" prefix is cosmetic; provenance decisions
// use the record's Origin, never the id shape.
func SyntheticAssignmentID(scheduleID string, day, shiftIndex int, staffID string, position int) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%d|%d|%s|%d", scheduleID, day, shiftIndex, staffID, position)
	return fmt.Sprintf("local-%08x", h.Sum32())
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if i, err := strconv.Atoi(t); err == nil {
			return i
		}
	}
	return 0
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// Integral staff ids arrive as JSON numbers from the legacy endpoint.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}
