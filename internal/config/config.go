package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/kjstillabower/sentinel-predict-service/internal/facility"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	RequestTimeout time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	ShutdownTimeout               time.Duration
	ShutdownInFlightTimeout       time.Duration
	ShutdownInFlightCheckInterval time.Duration

	ReadyDelay           time.Duration
	OverloadWindow       time.Duration
	OverloadThresholdPct int
	DegradedWindow       time.Duration
	DegradedErrorPct     int

	StaticDir          string
	CORSAllowedOrigins []string

	RandomSeed uint64 // 0 = entropy-seeded

	AlertHeartbeat bool
	AlertTimezone  string
	AlertLocation  *time.Location

	HospitalIDMaxLength int

	TrackedFacilities []string

	// Facilities and Routes replace the built-in tables when Facilities is non-empty.
	Facilities []facility.Entry
	Routes     []facility.Route
}

type fileConfig struct {
	Server struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Reliability struct {
		RateLimitRPS   int `yaml:"rate_limit_rps"`
		RateLimitBurst int `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Shutdown struct {
		Timeout               string `yaml:"timeout"`
		InFlightTimeout       string `yaml:"in_flight_timeout"`
		InFlightCheckInterval string `yaml:"in_flight_check_interval"`
	} `yaml:"shutdown"`

	Lifecycle struct {
		ReadyDelay           string `yaml:"ready_delay"`
		OverloadWindow       string `yaml:"overload_window"`
		OverloadThresholdPct int    `yaml:"overload_threshold_pct"`
		DegradedWindow       string `yaml:"degraded_window"`
		DegradedErrorPct     int    `yaml:"degraded_error_pct"`
	} `yaml:"lifecycle"`

	Static struct {
		Dir string `yaml:"dir"`
	} `yaml:"static"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Random struct {
		Seed uint64 `yaml:"seed"`
	} `yaml:"random"`

	Alerts struct {
		Heartbeat *bool  `yaml:"heartbeat"`
		Timezone  string `yaml:"timezone"`
	} `yaml:"alerts"`

	Validation struct {
		HospitalIDMaxLength int `yaml:"hospital_id_max_length"`
	} `yaml:"validation"`

	Metrics struct {
		TrackedFacilities []string `yaml:"tracked_facilities"`
	} `yaml:"metrics"`

	Facilities []facilityConfig `yaml:"facilities"`
	Routes     []routeConfig    `yaml:"routes"`
}

type facilityConfig struct {
	ID             string   `yaml:"id"`
	BaseLoad       float64  `yaml:"base_load"`
	Volatility     float64  `yaml:"volatility"`
	CapacityFactor float64  `yaml:"capacity_factor"`
	Seasonal       float64  `yaml:"seasonal"`
	WeatherMin     *float64 `yaml:"weather_min"`
	WeatherMax     *float64 `yaml:"weather_max"`
}

type routeConfig struct {
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
	Specialty string `yaml:"specialty"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev). Call from project root.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	return LoadFile(filepath.Join(cwd, "config", env+".yaml"))
}

// LoadFile reads configuration from configPath, then applies env overrides
// (PORT, RANDOM_SEED, STATIC_DIR) and defaults.
func LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.ServerPort == "" {
		cfg.ServerPort = fc.Server.Port
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8000"
	}
	cfg.ServerReadTimeout = parseDuration(fc.Server.ReadTimeout, 10*time.Second)
	cfg.ServerWriteTimeout = parseDuration(fc.Server.WriteTimeout, 10*time.Second)

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 2*time.Second)

	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 100
	}
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 250
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)
	cfg.ShutdownInFlightTimeout = parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second)
	cfg.ShutdownInFlightCheckInterval = parseDuration(fc.Shutdown.InFlightCheckInterval, 100*time.Millisecond)

	cfg.ReadyDelay = parseDurationOrZero(fc.Lifecycle.ReadyDelay, 0)
	if cfg.ReadyDelay < 0 {
		cfg.ReadyDelay = 0
	}
	cfg.OverloadWindow = parseDuration(fc.Lifecycle.OverloadWindow, 60*time.Second)
	cfg.OverloadThresholdPct = fc.Lifecycle.OverloadThresholdPct
	if cfg.OverloadThresholdPct <= 0 {
		cfg.OverloadThresholdPct = 80
	}
	cfg.DegradedWindow = parseDuration(fc.Lifecycle.DegradedWindow, 60*time.Second)
	cfg.DegradedErrorPct = fc.Lifecycle.DegradedErrorPct
	if cfg.DegradedErrorPct <= 0 {
		cfg.DegradedErrorPct = 5
	}

	cfg.StaticDir = strings.TrimSpace(os.Getenv("STATIC_DIR"))
	if cfg.StaticDir == "" {
		cfg.StaticDir = strings.TrimSpace(fc.Static.Dir)
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "static"
	}
	cfg.CORSAllowedOrigins = fc.CORS.AllowedOrigins
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	cfg.RandomSeed = fc.Random.Seed
	if s := strings.TrimSpace(os.Getenv("RANDOM_SEED")); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("RANDOM_SEED must be an unsigned integer: %w", err)
		}
		cfg.RandomSeed = seed
	}

	cfg.AlertHeartbeat = true
	if fc.Alerts.Heartbeat != nil {
		cfg.AlertHeartbeat = *fc.Alerts.Heartbeat
	}
	cfg.AlertTimezone = strings.TrimSpace(fc.Alerts.Timezone)
	if cfg.AlertTimezone == "" {
		cfg.AlertTimezone = "Asia/Riyadh"
	}

	cfg.HospitalIDMaxLength = fc.Validation.HospitalIDMaxLength
	if cfg.HospitalIDMaxLength <= 0 {
		cfg.HospitalIDMaxLength = 64
	}

	for _, f := range fc.Facilities {
		cfg.Facilities = append(cfg.Facilities, f.entry())
	}
	for _, r := range fc.Routes {
		cfg.Routes = append(cfg.Routes, facility.Route{Source: r.Source, Target: r.Target, Specialty: r.Specialty})
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	cfg.TrackedFacilities = fc.Metrics.TrackedFacilities
	if len(cfg.TrackedFacilities) == 0 {
		table, _ := cfg.FacilityTable() // validated above
		cfg.TrackedFacilities = table.IDs()
	}
	return cfg, nil
}

func (f facilityConfig) entry() facility.Entry {
	e := facility.Entry{
		ID:             strings.TrimSpace(f.ID),
		BaseLoad:       f.BaseLoad,
		Volatility:     f.Volatility,
		CapacityFactor: f.CapacityFactor,
		Seasonal:       f.Seasonal,
	}
	if f.WeatherMin != nil || f.WeatherMax != nil {
		wr := &facility.WeatherRange{}
		if f.WeatherMin != nil {
			wr.Min = *f.WeatherMin
		}
		if f.WeatherMax != nil {
			wr.Max = *f.WeatherMax
		}
		e.WeatherRange = wr
	}
	return e
}

// FacilityTable builds the weight and routing table: the built-in one unless
// facilities are configured. Configured facilities without routes use the
// default hub routing.
func (c *Config) FacilityTable() (*facility.Table, error) {
	if len(c.Facilities) == 0 {
		routes := c.Routes
		if len(routes) == 0 {
			routes = facility.DefaultRoutes()
		}
		return facility.NewTable(facility.DefaultEntries(), routes)
	}
	return facility.NewTable(c.Facilities, c.Routes)
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
// Used for parsing duration fields from YAML config with safe fallback to defaults.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on empty string or parse error.
// Returns zero or negative durations as-is (caller should handle fallback).
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
// Resolves the alert time zone, checks the facility table and ensures the
// write timeout leaves room for the request timeout.
func validate(cfg *Config) error {
	loc, err := time.LoadLocation(cfg.AlertTimezone)
	if err != nil {
		return fmt.Errorf("alerts.timezone %q: %w", cfg.AlertTimezone, err)
	}
	cfg.AlertLocation = loc

	if _, err := cfg.FacilityTable(); err != nil {
		return fmt.Errorf("facilities: %w", err)
	}
	if cfg.ServerWriteTimeout <= cfg.RequestTimeout {
		cfg.ServerWriteTimeout = cfg.RequestTimeout + time.Second
	}
	return nil
}
