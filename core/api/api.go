// Package api defines the contract of the remote scheduling service the
// roster core orchestrates. The HTTP implementation lives in infra/api.
package api

import (
	"context"
	"time"

	"github.com/planvik/rosterd/core/model"
)

// RawAssignment is one assignment entry as received on the wire. Field types
// are deliberately loose: the backend is known to emit numbers as floats or
// strings depending on the code path, so canonicalization happens in the
// roster normalizer, not here.
type RawAssignment map[string]any

// RawScheduleRecord is a schedule record as received on the wire.
type RawScheduleRecord struct {
	ID          string          `json:"id"`
	FacilityID  string          `json:"facility_id"`
	PeriodStart string          `json:"period_start"` // YYYY-MM-DD
	Assignments []RawAssignment `json:"assignments"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GenerateRequest parametrizes a call to the external generation service.
type GenerateRequest struct {
	FacilityID  string         `json:"facility_id"`
	PeriodStart time.Time      `json:"period_start"`
	PeriodType  string         `json:"period_type"`
	Zones       []string       `json:"zones,omitempty"`
	Constraints map[string]any `json:"constraints,omitempty"`
}

// GenerationMetrics summarizes the quality of a generated schedule.
type GenerationMetrics struct {
	Coverage float64 `json:"coverage"`
	Fairness float64 `json:"fairness"`
}

// GenerateResult is the generation service response.
type GenerateResult struct {
	Assignments []RawAssignment   `json:"assignments"`
	Metrics     GenerationMetrics `json:"metrics"`
}

// Store is the remote schedule store.
type Store interface {
	List(ctx context.Context, facilityID string) ([]RawScheduleRecord, error)
	Create(ctx context.Context, facilityID string, periodStart time.Time, assignments []RawAssignment) (RawScheduleRecord, error)
	Update(ctx context.Context, id string, assignments []RawAssignment) (RawScheduleRecord, error)
	Delete(ctx context.Context, id string) error
}

// Generator is the external schedule generation service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error)
}

// FromAssignments converts canonical assignments to their wire shape for
// create and update calls. Synthetic local ids are not sent; the store
// assigns stable ids on persist.
func FromAssignments(assignments []model.Assignment) []RawAssignment {
	out := make([]RawAssignment, 0, len(assignments))
	for _, a := range assignments {
		raw := RawAssignment{
			"day":         a.Day,
			"shift_index": a.ShiftIndex,
			"staff_id":    a.StaffID,
		}
		if a.ZoneID != "" {
			raw["zone_id"] = a.ZoneID
		}
		if a.StaffName != "" {
			raw["staff_name"] = a.StaffName
		}
		if a.StaffRole != "" {
			raw["staff_role"] = a.StaffRole
		}
		out = append(out, raw)
	}
	return out
}
