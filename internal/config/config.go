package config

import (
	"os"

	"github.com/matthewwall/weewx-l7/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultAddr      = "192.168.5.1"
	DefaultInterval  = 10
	DefaultMaxTries  = 3
	DefaultRetryWait = 10
	DefaultTimeout   = 10
	DefaultUnits     = "us"
	DefaultLogLevel  = "info"

	defaultDatabase = "/var/lib/l7/records.db"

	// ConfigEnvVar overrides the config file search path when set.
	ConfigEnvVar = "L7_CONFIG"
)

type Config struct {
	Addr        string            `mapstructure:"addr"`
	Interval    int               `mapstructure:"interval"`
	MaxTries    int               `mapstructure:"max_tries"`
	RetryWait   int               `mapstructure:"retry_wait"`
	Timeout     int               `mapstructure:"timeout"`
	Units       string            `mapstructure:"units"`
	SensorMap   map[string]string `mapstructure:"sensor_map"`
	LogLevel    string            `mapstructure:"log_level"`
	Telemetry   bool              `mapstructure:"telemetry"`
	Database    string            `mapstructure:"database"`
	Debug       bool              `mapstructure:"debug"`
	Verbose     bool              `mapstructure:"verbose"`
	Once        bool              `mapstructure:"once"`
	ShowVersion bool              `mapstructure:"version"`
}

// Load reads configuration from flags, the environment, and an optional
// TOML config file. Flag values take precedence over file values.
func Load() (*Config, error) {
	errFactory := errors.New()

	flags := pflag.NewFlagSet("l7", pflag.ContinueOnError)
	flags.String("addr", DefaultAddr, "address of the weather station console")
	flags.Int("interval", DefaultInterval, "seconds between polling cycles")
	flags.Int("max-tries", DefaultMaxTries, "maximum fetch attempts per cycle")
	flags.Int("retry-wait", DefaultRetryWait, "seconds between fetch attempts")
	flags.Int("timeout", DefaultTimeout, "per-attempt HTTP timeout in seconds")
	flags.String("units", DefaultUnits, "unit system declared in records (us or metric)")
	flags.String("log-level", DefaultLogLevel, "log level (debug, info, warning, error)")
	flags.Bool("telemetry", false, "archive records to the local database")
	flags.String("database", defaultDatabase, "path to the record archive database")
	flags.Bool("debug", false, "display diagnostic information while running")
	flags.Bool("verbose", false, "enable verbose logging")
	flags.Bool("once", false, "fetch once, print the raw data and derived record, and exit")
	flags.Bool("version", false, "display driver version")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	flagKeys := map[string]string{
		"addr":       "addr",
		"interval":   "interval",
		"max_tries":  "max-tries",
		"retry_wait": "retry-wait",
		"timeout":    "timeout",
		"units":      "units",
		"log_level":  "log-level",
		"telemetry":  "telemetry",
		"database":   "database",
		"debug":      "debug",
		"verbose":    "verbose",
		"once":       "once",
		"version":    "version",
	}
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	if path := os.Getenv(ConfigEnvVar); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName("l7")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if config.Debug {
		config.LogLevel = string(LogLevelDebug)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded configuration for values the driver
// cannot operate with.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Addr == "" {
		return errFactory.New(errors.ErrMissingConfig)
	}
	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.MaxTries <= 0 || c.RetryWait < 0 || c.Timeout <= 0 {
		return errFactory.New(errors.ErrInvalidConfig)
	}
	if !UnitSystem(c.Units).IsValid() {
		return errFactory.WithData(errors.ErrInvalidUnits, c.Units)
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}
