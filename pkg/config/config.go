package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"turbine_planner/pkg/schedule"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are separated
// by a double underscore, e.g. TP_SCHEDULE__WORK_HOURS_PER_DAY=10.
const EnvPrefix = "TP_"

// Config is the full planner configuration.
type Config struct {
	Planner  PlannerConfig  `json:"planner"`
	Schedule ScheduleConfig `json:"schedule"`
	Server   ServerConfig   `json:"server"`
	Logging  LoggingConfig  `json:"logging"`
}

// PlannerConfig controls clustering and group selection.
type PlannerConfig struct {
	ClusterThresholdKm float64 `json:"cluster_threshold_km" validate:"gt=0"`
	TopGroupCount      int     `json:"top_group_count" validate:"gte=1"`
}

// ScheduleConfig holds crew working-time parameters.
type ScheduleConfig struct {
	ServiceHoursPerFacility float64 `json:"service_hours_per_facility" validate:"gt=0"`
	WorkHoursPerDay         float64 `json:"work_hours_per_day" validate:"gt=0,gtefield=ServiceHoursPerFacility"`
	TransportSpeedKmh       float64 `json:"transport_speed_kmh" validate:"gt=0"`
	TransportHoursPerDay    float64 `json:"transport_hours_per_day" validate:"gt=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr                  string `json:"addr" validate:"required"`
	MaxConcurrent         int    `json:"max_concurrent" validate:"gte=1"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds" validate:"gte=1"`
	MaxFacilities         int    `json:"max_facilities" validate:"gte=1"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `json:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	d := schedule.DefaultConfig()
	if c.Planner.ClusterThresholdKm == 0 {
		c.Planner.ClusterThresholdKm = d.TransportSpeedKmh * d.TransportHoursPerDay
	}
	if c.Planner.TopGroupCount == 0 {
		c.Planner.TopGroupCount = 5
	}
	if c.Schedule.ServiceHoursPerFacility == 0 {
		c.Schedule.ServiceHoursPerFacility = d.ServiceHoursPerFacility
	}
	if c.Schedule.WorkHoursPerDay == 0 {
		c.Schedule.WorkHoursPerDay = d.WorkHoursPerDay
	}
	if c.Schedule.TransportSpeedKmh == 0 {
		c.Schedule.TransportSpeedKmh = d.TransportSpeedKmh
	}
	if c.Schedule.TransportHoursPerDay == 0 {
		c.Schedule.TransportHoursPerDay = d.TransportHoursPerDay
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxConcurrent == 0 {
		c.Server.MaxConcurrent = 8
	}
	if c.Server.RequestTimeoutSeconds == 0 {
		c.Server.RequestTimeoutSeconds = 30
	}
	if c.Server.MaxFacilities == 0 {
		c.Server.MaxFacilities = 20000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ScheduleConfig converts the schedule section for the schedule builder.
func (c *Config) ScheduleConfig() schedule.Config {
	return schedule.Config{
		ServiceHoursPerFacility: c.Schedule.ServiceHoursPerFacility,
		WorkHoursPerDay:         c.Schedule.WorkHoursPerDay,
		TransportSpeedKmh:       c.Schedule.TransportSpeedKmh,
		TransportHoursPerDay:    c.Schedule.TransportHoursPerDay,
	}
}

// RequestTimeout returns the per-request planning timeout.
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// Load reads the configuration from a YAML or JSON file and applies
// environment overrides. An empty path uses defaults plus environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
