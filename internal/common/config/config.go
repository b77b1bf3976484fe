package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Config is the application configuration.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Consul   ConsulConfig   `json:"consul"`
	Jaeger   JaegerConfig   `json:"jaeger"`
	Gate     GateConfig     `json:"gate"`
	Log      LogConfig      `json:"log"`
}

// ServerConfig describes the service itself.
type ServerConfig struct {
	Name     string `json:"name"`      // service name (used for discovery + tracing)
	Host     string `json:"host"`      // bind address
	HTTPPort int    `json:"http_port"` // HTTP listen port
}

// DatabaseConfig describes the session/registry store.
type DatabaseConfig struct {
	Driver   string `json:"driver"` // mysql / memory
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	MaxIdle  int    `json:"max_idle"`
	MaxOpen  int    `json:"max_open"`
}

// ConsulConfig describes the Consul agent used for registration and KV.
type ConsulConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// JaegerConfig describes the tracing backend.
type JaegerConfig struct {
	Endpoint string  `json:"endpoint"`
	Sampler  float64 `json:"sampler"` // sampling rate 0.0-1.0
}

// GateConfig holds the classification knobs.
type GateConfig struct {
	ShortWindowMinutes  int     `json:"short_window_minutes"`   // frequency window checked first
	LongWindowMinutes   int     `json:"long_window_minutes"`    // fallback frequency window
	SuspiciousStayMin   float64 `json:"suspicious_stay_min"`    // stays longer than this many minutes are flagged
	PastEntriesLimit    int     `json:"past_entries_limit"`     // recent sessions attached to an entry decision
	AllLogsDefaultLimit int     `json:"all_logs_default_limit"` // cap for the all-logs view
	UTCOffsetSeconds    int     `json:"utc_offset_seconds"`     // fixed civil-time offset
	UTCOffsetName       string  `json:"utc_offset_name"`
	RateLimitPerSecond  int64   `json:"rate_limit_per_second"`
	RateLimitBurst      int64   `json:"rate_limit_burst"`
	BreakerMaxFailures  int     `json:"breaker_max_failures"`
	BreakerResetSeconds int     `json:"breaker_reset_seconds"`
}

// LogConfig describes logging.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, file
	Path   string `json:"path"`   // log file path
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// LoadConfig reads the JSON config file. A missing file falls back to the
// development defaults rather than failing startup.
func LoadConfig(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig = &Config{}
		if _, err = os.Stat(configPath); os.IsNotExist(err) {
			logrus.Warnf("Config file not found: %s, using default config", configPath)
			globalConfig = defaultConfig()
			err = nil
			return
		}

		data, readErr := os.ReadFile(configPath)
		if readErr != nil {
			err = fmt.Errorf("failed to read config file: %w", readErr)
			return
		}

		if unmarshalErr := json.Unmarshal(data, globalConfig); unmarshalErr != nil {
			err = fmt.Errorf("failed to parse config file: %w", unmarshalErr)
			return
		}
		applyGateDefaults(&globalConfig.Gate)
	})

	if err != nil {
		return nil, err
	}

	return globalConfig, nil
}

// GetConfig returns the global configuration.
func GetConfig() *Config {
	if globalConfig == nil {
		return defaultConfig()
	}
	return globalConfig
}

// applyGateDefaults fills zero-valued classification knobs so a partial
// config file cannot disable the checks by accident.
func applyGateDefaults(g *GateConfig) {
	if g.ShortWindowMinutes <= 0 {
		g.ShortWindowMinutes = 20
	}
	if g.LongWindowMinutes <= 0 {
		g.LongWindowMinutes = 60
	}
	if g.SuspiciousStayMin <= 0 {
		g.SuspiciousStayMin = 20
	}
	if g.PastEntriesLimit <= 0 {
		g.PastEntriesLimit = 3
	}
	if g.AllLogsDefaultLimit <= 0 {
		g.AllLogsDefaultLimit = 1000
	}
	if g.UTCOffsetSeconds == 0 {
		g.UTCOffsetSeconds = 5*3600 + 30*60
	}
	if g.UTCOffsetName == "" {
		g.UTCOffsetName = "IST"
	}
	if g.RateLimitPerSecond <= 0 {
		g.RateLimitPerSecond = 100
	}
	if g.RateLimitBurst <= 0 {
		g.RateLimitBurst = 200
	}
	if g.BreakerMaxFailures <= 0 {
		g.BreakerMaxFailures = 5
	}
	if g.BreakerResetSeconds <= 0 {
		g.BreakerResetSeconds = 30
	}
}

// defaultConfig is the development-environment default.
func defaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Name:     "gate-service",
			Host:     "0.0.0.0",
			HTTPPort: 8080,
		},
		Database: DatabaseConfig{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     3306,
			User:     "root",
			Password: "root",
			Database: "gatesentry",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		Consul: ConsulConfig{
			Host: "localhost",
			Port: 8500,
		},
		Jaeger: JaegerConfig{
			Endpoint: "localhost:6831",
			Sampler:  1.0,
		},
		Log: LogConfig{
			Level:  "debug",
			Format: "text",
			Output: "stdout",
			Path:   "logs/app.log",
		},
	}
	applyGateDefaults(&cfg.Gate)
	return cfg
}
