// Package config loads analysis settings from a YAML file with environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can use strings like "15m".
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or integer nanoseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var ns int64
	if err := node.Decode(&ns); err == nil {
		*d = Duration(ns)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration value: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Source formats understood by the gaugefile adapter.
const (
	FormatHx     = "hx"
	FormatArch   = "arch"
	FormatWeekly = "weekly"
)

// Zone conventions for formats that do not label their rows.
const (
	ZoneUTC    = "utc"
	ZoneAlaska = "alaska"
)

// Source describes one historical data file: where it is, how to parse it,
// and the metadata the file itself does not carry.
type Source struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
	Zone   string `yaml:"zone,omitempty"` // weekly only: utc or alaska
	Year   int    `yaml:"year,omitempty"` // weekly only: files carry no year
}

// ThresholdsConfig holds the critical-point scan parameters.
type ThresholdsConfig struct {
	RiseCritical  float64  `yaml:"rise_critical"`
	SlopeCritical float64  `yaml:"slope_critical"`
	Refractory    Duration `yaml:"refractory"`
}

// ResampleConfig controls normalization to a fixed interval.
type ResampleConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval"`
}

// NWSConfig points at the live hydrograph feed for the gauge.
type NWSConfig struct {
	URL       string   `yaml:"url"`
	Timeout   Duration `yaml:"timeout"`
	CacheFile string   `yaml:"cache_file"`
}

// Config holds all settings for an analysis run.
type Config struct {
	Sources         []Source `yaml:"sources"`
	KnownSlidesFile string   `yaml:"known_slides_file"`
	OutputDir       string   `yaml:"output_dir"`
	PlotDir         string   `yaml:"plot_dir"`

	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Resample   ResampleConfig   `yaml:"resample"`
	NWS        NWSConfig        `yaml:"nws"`

	HTTPAddr  string `yaml:"http_addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads the config file at path (skipped when path is empty), applies
// defaults for anything unset, then applies environment overrides, then
// validates. The defaults describe the standard historical run over the
// cleaned Indian River record.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		applyDefaults(cfg)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Sources: []Source{
			{Path: "ir_data_clean/irva_utc_072014-022016_hx_format.txt", Format: FormatHx},
			{Path: "ir_data_clean/irva_akdt_022016-102019_arch_format.txt", Format: FormatArch},
		},
		KnownSlidesFile: "known_slides/known_slides.json",
		OutputDir:       "other_output",
		PlotDir:         "current_ir_plots",
		Thresholds: ThresholdsConfig{
			RiseCritical:  2.5,
			SlopeCritical: 0.5,
			Refractory:    Duration(6 * time.Hour),
		},
		Resample: ResampleConfig{Enabled: true, Interval: Duration(15 * time.Minute)},
		NWS: NWSConfig{
			URL:       "https://water.weather.gov/ahps2/hydrograph_to_xml.php?gage=irva2&output=xml",
			Timeout:   Duration(10 * time.Second),
			CacheFile: "ir_data_other/current_data.txt",
		},
		HTTPAddr:  ":8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// applyDefaults refills zero-valued fields a config file may have omitted.
func applyDefaults(cfg *Config) {
	d := defaults()
	if cfg.KnownSlidesFile == "" {
		cfg.KnownSlidesFile = d.KnownSlidesFile
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = d.OutputDir
	}
	if cfg.PlotDir == "" {
		cfg.PlotDir = d.PlotDir
	}
	if cfg.Thresholds.RiseCritical == 0 {
		cfg.Thresholds.RiseCritical = d.Thresholds.RiseCritical
	}
	if cfg.Thresholds.SlopeCritical == 0 {
		cfg.Thresholds.SlopeCritical = d.Thresholds.SlopeCritical
	}
	if cfg.Thresholds.Refractory == 0 {
		cfg.Thresholds.Refractory = d.Thresholds.Refractory
	}
	if cfg.Resample.Interval == 0 {
		cfg.Resample.Interval = d.Resample.Interval
	}
	if cfg.NWS.URL == "" {
		cfg.NWS.URL = d.NWS.URL
	}
	if cfg.NWS.Timeout == 0 {
		cfg.NWS.Timeout = d.NWS.Timeout
	}
	if cfg.NWS.CacheFile == "" {
		cfg.NWS.CacheFile = d.NWS.CacheFile
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = d.HTTPAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = d.LogFormat
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = d.Sources
	}
}

func applyEnv(cfg *Config) error {
	cfg.OutputDir = envOrDefault("OUTPUT_DIR", cfg.OutputDir)
	cfg.PlotDir = envOrDefault("PLOT_DIR", cfg.PlotDir)
	cfg.KnownSlidesFile = envOrDefault("KNOWN_SLIDES_FILE", cfg.KnownSlidesFile)
	cfg.HTTPAddr = envOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.NWS.URL = envOrDefault("NWS_URL", cfg.NWS.URL)

	var err error
	if cfg.Thresholds.RiseCritical, err = envFloat("RISE_CRITICAL", cfg.Thresholds.RiseCritical); err != nil {
		return err
	}
	if cfg.Thresholds.SlopeCritical, err = envFloat("SLOPE_CRITICAL", cfg.Thresholds.SlopeCritical); err != nil {
		return err
	}
	if cfg.NWS.Timeout, err = envDuration("NWS_TIMEOUT", cfg.NWS.Timeout); err != nil {
		return err
	}
	if cfg.Resample.Interval, err = envDuration("RESAMPLE_INTERVAL", cfg.Resample.Interval); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.Thresholds.RiseCritical <= 0 {
		return errors.New("rise_critical must be positive")
	}
	if c.Thresholds.SlopeCritical <= 0 {
		return errors.New("slope_critical must be positive")
	}
	if c.Resample.Enabled && c.Resample.Interval <= 0 {
		return errors.New("resample interval must be positive")
	}
	for i, src := range c.Sources {
		if src.Path == "" {
			return fmt.Errorf("sources[%d]: path is required", i)
		}
		switch src.Format {
		case FormatHx, FormatArch:
		case FormatWeekly:
			if src.Year == 0 {
				return fmt.Errorf("sources[%d]: weekly format requires a year", i)
			}
			if src.Zone != ZoneUTC && src.Zone != ZoneAlaska {
				return fmt.Errorf("sources[%d]: weekly format requires zone %q or %q", i, ZoneUTC, ZoneAlaska)
			}
		default:
			return fmt.Errorf("sources[%d]: unknown format %q", i, src.Format)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, fallback Duration) (Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return Duration(d), nil
}
