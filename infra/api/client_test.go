package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	coreapi "github.com/planvik/rosterd/core/api"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(Config{Mode: "client", BaseURL: srv.URL, TimeoutSeconds: 2})
	return c, srv
}

func TestClientList(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/facilities/fac-1/schedules", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]coreapi.RawScheduleRecord{
			{ID: "sched-1", FacilityID: "fac-1", PeriodStart: "2024-06-03"},
		})
	}))
	defer srv.Close()

	out, err := c.List(context.Background(), "fac-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "sched-1", out[0].ID)
}

func TestClientCreate(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/facilities/fac-1/schedules", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "2024-06-03", body["period_start"])
		_ = json.NewEncoder(w).Encode(coreapi.RawScheduleRecord{
			ID: "sched-9", FacilityID: "fac-1", PeriodStart: "2024-06-03",
		})
	}))
	defer srv.Close()

	start := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	rec, err := c.Create(context.Background(), "fac-1", start, []coreapi.RawAssignment{
		{"day": 0, "shift_index": 0, "staff_id": "S1"},
	})
	require.NoError(t, err)
	require.Equal(t, "sched-9", rec.ID)
}

func TestClientUpdateAndDelete(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/schedules/sched-1", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			_ = json.NewEncoder(w).Encode(coreapi.RawScheduleRecord{ID: "sched-1", PeriodStart: "2024-06-03"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	_, err := c.Update(context.Background(), "sched-1", nil)
	require.NoError(t, err)
	require.NoError(t, c.Delete(context.Background(), "sched-1"))
}

func TestClientGenerate(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/schedules/generate", r.URL.Path)
		_ = json.NewEncoder(w).Encode(coreapi.GenerateResult{
			Assignments: []coreapi.RawAssignment{{"day": float64(0), "shift_index": float64(0), "staff_id": "S1"}},
			Metrics:     coreapi.GenerationMetrics{Coverage: 0.9, Fairness: 0.7},
		})
	}))
	defer srv.Close()

	res, err := c.Generate(context.Background(), coreapi.GenerateRequest{
		FacilityID:  "fac-1",
		PeriodStart: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		PeriodType:  "weekly",
	})
	require.NoError(t, err)
	require.Len(t, res.Assignments, 1)
	require.InDelta(t, 0.9, res.Metrics.Coverage, 1e-9)
}

func TestClientClassifiesErrors(t *testing.T) {
	cases := []struct {
		status int
		kind   coreapi.Kind
	}{
		{http.StatusUnprocessableEntity, coreapi.KindInvalid},
		{http.StatusUnauthorized, coreapi.KindAuth},
		{http.StatusNotFound, coreapi.KindNotFound},
		{http.StatusConflict, coreapi.KindConflict},
		{http.StatusServiceUnavailable, coreapi.KindUnavailable},
	}
	for _, tc := range cases {
		c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		}))
		_, err := c.List(context.Background(), "fac-1")
		srv.Close()
		require.Error(t, err)
		require.True(t, coreapi.IsKind(err, tc.kind), "status %d should map to %s, got %v", tc.status, tc.kind, err)
	}
}

func TestFactorySelectsMock(t *testing.T) {
	store, gen, err := New(Config{Mode: "mock"})
	require.NoError(t, err)
	require.IsType(t, &MockStore{}, store)
	require.IsType(t, &MockStore{}, gen)

	_, _, err = New(Config{Mode: "client"})
	require.Error(t, err, "client mode without base_url must fail")
}
