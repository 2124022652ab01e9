package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "irg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, FormatHx, cfg.Sources[0].Format)
	assert.Equal(t, FormatArch, cfg.Sources[1].Format)
	assert.Equal(t, "known_slides/known_slides.json", cfg.KnownSlidesFile)
	assert.Equal(t, "other_output", cfg.OutputDir)
	assert.Equal(t, "current_ir_plots", cfg.PlotDir)
	assert.Equal(t, 2.5, cfg.Thresholds.RiseCritical)
	assert.Equal(t, 0.5, cfg.Thresholds.SlopeCritical)
	assert.Equal(t, 6*time.Hour, cfg.Thresholds.Refractory.Std())
	assert.True(t, cfg.Resample.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Resample.Interval.Std())
	assert.Contains(t, cfg.NWS.URL, "gage=irva2")
	assert.Equal(t, 10*time.Second, cfg.NWS.Timeout.Std())
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
sources:
  - path: ir_data/irva_utc_112219.txt
    format: weekly
    zone: utc
    year: 2019
known_slides_file: slides.json
output_dir: out
thresholds:
  rise_critical: 3.0
  slope_critical: 0.75
  refractory: 4h
resample:
  enabled: true
  interval: 30m
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, FormatWeekly, cfg.Sources[0].Format)
	assert.Equal(t, 2019, cfg.Sources[0].Year)
	assert.Equal(t, "slides.json", cfg.KnownSlidesFile)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 3.0, cfg.Thresholds.RiseCritical)
	assert.Equal(t, 0.75, cfg.Thresholds.SlopeCritical)
	assert.Equal(t, 4*time.Hour, cfg.Thresholds.Refractory.Std())
	assert.Equal(t, 30*time.Minute, cfg.Resample.Interval.Std())
	assert.Equal(t, "debug", cfg.LogLevel)

	// Unspecified fields keep their defaults.
	assert.Equal(t, "current_ir_plots", cfg.PlotDir)
	assert.Equal(t, 10*time.Second, cfg.NWS.Timeout.Std())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/tmp/irg-out")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("RISE_CRITICAL", "2.0")
	t.Setenv("SLOPE_CRITICAL", "0.4")
	t.Setenv("NWS_TIMEOUT", "30s")
	t.Setenv("RESAMPLE_INTERVAL", "1h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/irg-out", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2.0, cfg.Thresholds.RiseCritical)
	assert.Equal(t, 0.4, cfg.Thresholds.SlopeCritical)
	assert.Equal(t, 30*time.Second, cfg.NWS.Timeout.Std())
	assert.Equal(t, time.Hour, cfg.Resample.Interval.Std())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "unknown format",
			content: `
sources:
  - path: data.txt
    format: csv
`,
			wantErr: "unknown format",
		},
		{
			name: "weekly without year",
			content: `
sources:
  - path: data.txt
    format: weekly
    zone: utc
`,
			wantErr: "requires a year",
		},
		{
			name: "weekly without zone",
			content: `
sources:
  - path: data.txt
    format: weekly
    year: 2019
`,
			wantErr: "requires zone",
		},
		{
			name: "missing path",
			content: `
sources:
  - format: hx
`,
			wantErr: "path is required",
		},
		{
			name: "negative rise",
			content: `
thresholds:
  rise_critical: -1.0
`,
			wantErr: "rise_critical",
		},
		{
			name:    "bad duration",
			content: "thresholds:\n  refractory: soon\n",
			wantErr: "invalid duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("RISE_CRITICAL", "very high")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RISE_CRITICAL")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
