package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitweek/internal/weekstats"

	"github.com/BurntSushi/toml"
)

var (
	ErrInvalidUnits = errors.New("units must be either metric or imperial")
)

const (
	defaultUpdateIntervalMinutes = 30
	defaultStepGoal              = 10000
	defaultChartSize             = 24
	defaultInnerThickness        = 0.8
	defaultFontSize              = 18
	defaultFetchCacheTTLSeconds  = 60
	defaultRefreshRateLimit      = 10
)

type Config struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// display client
	AllowedOrigins []string `toml:"allowed_origins"`
	// google fit polling
	UpdateIntervalMinutes  int    `toml:"update_interval_minutes"`
	FetchCacheTTLSeconds   int    `toml:"fetch_cache_ttl_seconds"`
	RefreshRateLimitPerMin int    `toml:"refresh_rate_limit_per_min"`
	Timezone               string `toml:"timezone"`
	GoogleFitEndpoint      string `toml:"google_fit_endpoint"`
	// weekly summary
	StepGoal       float64  `toml:"step_goal"`
	StartOnMonday  bool     `toml:"start_on_monday"`
	Colors         []string `toml:"colors"`
	Units          string   `toml:"units"`
	ChartSize      int      `toml:"chart_size"`
	InnerThickness *float64 `toml:"inner_thickness"`
	FontSize       int      `toml:"font_size"`
	StepCountLabel bool     `toml:"step_count_label"`
	UseIcons       *bool    `toml:"use_icons"`
	DisplayWeight  *bool    `toml:"display_weight"`
	DisplayHeader  *bool    `toml:"display_header"`
	Debug          bool     `toml:"debug"`

	Environment string `toml:"-"`
}

type Toml struct {
	Development *Config `toml:"development"`
	Production  *Config `toml:"production"`
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML config file and returns the validated config for the given env.
func Load(env, configPath string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(configPath, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", configPath, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found in [%s]", env, configPath)
	}

	cfg.Environment = strings.ToLower(env)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.UpdateIntervalMinutes <= 0 {
		c.UpdateIntervalMinutes = defaultUpdateIntervalMinutes
	}
	if c.FetchCacheTTLSeconds <= 0 {
		c.FetchCacheTTLSeconds = defaultFetchCacheTTLSeconds
	}
	if c.RefreshRateLimitPerMin <= 0 {
		c.RefreshRateLimitPerMin = defaultRefreshRateLimit
	}
	if c.StepGoal == 0 {
		c.StepGoal = defaultStepGoal
	}
	if len(c.Colors) == 0 {
		for _, color := range weekstats.DefaultPalette {
			c.Colors = append(c.Colors, string(color))
		}
	}
	if c.Units == "" {
		c.Units = string(weekstats.UnitsMetric)
	}
	if c.ChartSize <= 0 {
		c.ChartSize = defaultChartSize
	}
	if c.InnerThickness == nil {
		thickness := defaultInnerThickness
		c.InnerThickness = &thickness
	}
	if c.FontSize <= 0 {
		c.FontSize = defaultFontSize
	}
}

// enabled reads an on-by-default flag, left out keys count as on.
func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// Validate rejects a config the weekly summary cannot be built with.
// A zero step goal is replaced by the default before validation, a negative one is not.
func (c *Config) Validate() error {
	if c.StepGoal <= 0 {
		return fmt.Errorf("%w: got %v", weekstats.ErrInvalidGoal, c.StepGoal)
	}
	if len(c.Colors) < 2 {
		return fmt.Errorf("%w: got %d", weekstats.ErrInvalidPalette, len(c.Colors))
	}
	switch weekstats.Units(c.Units) {
	case weekstats.UnitsMetric, weekstats.UnitsImperial:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidUnits, c.Units)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Palette() weekstats.Palette {
	palette := make(weekstats.Palette, 0, len(c.Colors))
	for _, color := range c.Colors {
		palette = append(palette, weekstats.Color(color))
	}
	return palette
}

func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMinutes) * time.Minute
}

func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone [%s]: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) RenderOptions() weekstats.RenderOptions {
	return weekstats.RenderOptions{
		ChartSize:      c.ChartSize,
		InnerThickness: *c.InnerThickness,
		FontSize:       c.FontSize,
		StepCountLabel: c.StepCountLabel,
		UseIcons:       enabled(c.UseIcons),
		DisplayWeight:  enabled(c.DisplayWeight),
		DisplayHeader:  enabled(c.DisplayHeader),
	}
}
