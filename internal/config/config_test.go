package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Point the loader at a nonexistent config file so only env + defaults apply.
	t.Setenv("OTTA_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, PlaceholderCarrier, cfg.Audit.PlaceholderCarrier)
	assert.Equal(t, DefaultTopCarriers, cfg.Audit.TopCarriers)
	assert.Equal(t, "N2A", cfg.Audit.WarehouseMap["54602"])
	assert.Equal(t, "NBN", cfg.Audit.WarehouseMap["66643"])
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OTTA_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("OTTA_SERVER_PORT", "9090")
	t.Setenv("OTTA_AUDIT_TOP_CARRIERS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Audit.TopCarriers)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "otta.yaml")
	yaml := `
audit:
  placeholder_carrier: "XXLG"
  warehouse_map:
    "11111": "TST"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0644))
	t.Setenv("OTTA_CONFIG_FILE", configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "XXLG", cfg.Audit.PlaceholderCarrier)
	assert.Equal(t, "TST", cfg.Audit.WarehouseMap["11111"])
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "otta.yaml")
	yaml := `
server:
  port: 7000
  rate_limit:
    enabled: true
    rps: 10
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0644))
	t.Setenv("OTTA_CONFIG_FILE", configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, DefaultRunTimeout, cfg.Server.RunTimeout)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, float64(10), cfg.Server.RateLimit.RPS)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields still pick up the built-in defaults.
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultBurstSize, cfg.Server.RateLimit.Burst)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "otta.yaml")
	yaml := `
server:
  port: 7000
audit:
  placeholder_carrier: "XXLG"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0644))
	t.Setenv("OTTA_CONFIG_FILE", configPath)
	t.Setenv("OTTA_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "XXLG", cfg.Audit.PlaceholderCarrier)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = -1 }, true},
		{"zero top carriers caught by defaults", func(c *Config) { c.Audit.TopCarriers = -3 }, true},
		{"bad top percent", func(c *Config) { c.Audit.TopPercent = 200 }, true},
		{"bad logging output", func(c *Config) { c.Logging.Output = "syslog" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.applyDefaults()
			cfg.Server.Port = 8080
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPaths(t *testing.T) {
	p := NewPaths("/base", PathsConfig{})

	assert.Equal(t, filepath.Join("/base", "data"), p.DataDir)
	assert.Equal(t, filepath.Join("/base", "data", "reports"), p.ReportsDir)
	assert.Equal(t, filepath.Join("/base", "data", "reports", "otta_loads.csv"), p.LoadsCSV)
	assert.Equal(t, filepath.Join("/base", "data", "reports", "otta_kpi_report.html"), p.KPIReportHTML)
}
