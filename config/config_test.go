package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
api:
  mode: mock
facility:
  id: fac-1
  zones: [icu, er]
logging:
  level: debug
metrics:
  prometheus_enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "mock", cfg.API.Mode)
	require.Equal(t, "fac-1", cfg.Facility.ID)
	require.Equal(t, []string{"icu", "er"}, cfg.Facility.Zones)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Metrics.PrometheusEnabled)
	require.Equal(t, ":9090", cfg.Metrics.PrometheusPort)
	require.Equal(t, 10, cfg.API.TimeoutSeconds)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json",
		`{"api":{"mode":"client","base_url":"http://localhost:8080"},"facility":{"id":"fac-2"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "client", cfg.API.Mode)
	require.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "api = 1")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"missing facility":      "api:\n  mode: mock\n",
		"client needs base_url": "api:\n  mode: client\nfacility:\n  id: f\n",
		"bad log level":         "api:\n  mode: mock\nfacility:\n  id: f\nlogging:\n  level: loud\n",
		"bad api mode":          "api:\n  mode: carrier-pigeon\nfacility:\n  id: f\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			// Sanity-check the fixture parses as YAML at all.
			var anyDoc map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(content), &anyDoc))
			path := writeConfig(t, "config.yaml", content)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "api:\n  mode: mock\nfacility:\n  id: fac-1\n")
	t.Setenv("ROSTERD_LOGGING__LEVEL", "warn")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Logging.Level)
}
