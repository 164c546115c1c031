package app

import (
	"context"
	"testing"

	"github.com/planvik/rosterd/config"
	infraapi "github.com/planvik/rosterd/infra/api"
	"github.com/stretchr/testify/require"
)

func TestServiceWiresMockSession(t *testing.T) {
	svc, err := New(&config.Config{
		API:      infraapi.Config{Mode: "mock"},
		Facility: config.FacilityConfig{ID: "fac-1", Zones: []string{"icu"}},
		Logging:  config.LoggingConfig{Level: "error"},
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	ctx := context.Background()
	require.NoError(t, svc.Session.Refresh(ctx))

	a, err := svc.Session.AddAssignment(2, 0, "S1")
	require.NoError(t, err)
	require.Equal(t, "S1", a.StaffID)

	saved, err := svc.Session.Save(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
}

func TestServiceRejectsBadAPIConfig(t *testing.T) {
	_, err := New(&config.Config{
		API:      infraapi.Config{Mode: "client"}, // missing base_url
		Facility: config.FacilityConfig{ID: "fac-1"},
		Logging:  config.LoggingConfig{Level: "error"},
	})
	require.Error(t, err)
}
