package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	coreapi "github.com/planvik/rosterd/core/api"
)

// MockStore is an in-memory scheduling service for tests and offline runs.
// It implements coreapi.Store and coreapi.Generator.
type MockStore struct {
	mu      sync.Mutex
	nextID  int
	records map[string]coreapi.RawScheduleRecord

	// Err, when set, fails every call with that error.
	Err error
	// GenerateResult is returned by Generate when set.
	GenerateResult coreapi.GenerateResult
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{records: map[string]coreapi.RawScheduleRecord{}}
}

// Seed inserts a record directly, bypassing Create.
func (m *MockStore) Seed(rec coreapi.RawScheduleRecord) {
	m.mu.Lock()
	m.records[rec.ID] = rec
	m.mu.Unlock()
}

func (m *MockStore) List(_ context.Context, facilityID string) ([]coreapi.RawScheduleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []coreapi.RawScheduleRecord
	for _, rec := range m.records {
		if rec.FacilityID == facilityID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MockStore) Create(_ context.Context, facilityID string, periodStart time.Time, assignments []coreapi.RawAssignment) (coreapi.RawScheduleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return coreapi.RawScheduleRecord{}, m.Err
	}
	m.nextID++
	rec := coreapi.RawScheduleRecord{
		ID:          fmt.Sprintf("sched-%d", m.nextID),
		FacilityID:  facilityID,
		PeriodStart: periodStart.Format("2006-01-02"),
		Assignments: withIDs(fmt.Sprintf("sched-%d", m.nextID), assignments),
		CreatedAt:   time.Now().UTC(),
	}
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *MockStore) Update(_ context.Context, id string, assignments []coreapi.RawAssignment) (coreapi.RawScheduleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return coreapi.RawScheduleRecord{}, m.Err
	}
	rec, ok := m.records[id]
	if !ok {
		return coreapi.RawScheduleRecord{}, coreapi.NewRemoteError(404, "schedule not found")
	}
	rec.Assignments = withIDs(id, assignments)
	m.records[id] = rec
	return rec, nil
}

func (m *MockStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.records[id]; !ok {
		return coreapi.NewRemoteError(404, "schedule not found")
	}
	delete(m.records, id)
	return nil
}

func (m *MockStore) Generate(_ context.Context, req coreapi.GenerateRequest) (coreapi.GenerateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return coreapi.GenerateResult{}, m.Err
	}
	if m.GenerateResult.Assignments != nil {
		return m.GenerateResult, nil
	}
	// One placeholder assignment per zone per day keeps demo runs visual.
	res := coreapi.GenerateResult{Metrics: coreapi.GenerationMetrics{Coverage: 1, Fairness: 1}}
	zones := req.Zones
	if len(zones) == 0 {
		zones = []string{""}
	}
	for day := 0; day < 7; day++ {
		for zi, zone := range zones {
			res.Assignments = append(res.Assignments, coreapi.RawAssignment{
				"day":         day,
				"shift_index": 0,
				"staff_id":    fmt.Sprintf("staff-%d", zi+1),
				"zone_id":     zone,
			})
		}
	}
	return res, nil
}

// server-side ids are stable once assigned
func withIDs(scheduleID string, assignments []coreapi.RawAssignment) []coreapi.RawAssignment {
	out := make([]coreapi.RawAssignment, len(assignments))
	for i, a := range assignments {
		cp := coreapi.RawAssignment{}
		for k, v := range a {
			cp[k] = v
		}
		if _, ok := cp["id"]; !ok {
			cp["id"] = fmt.Sprintf("%s-a%d", scheduleID, i)
		}
		out[i] = cp
	}
	return out
}
