// Package config resolves, loads, validates, and defaults zwatch configuration.
package config

import "time"

// Config is the fully materialized runtime configuration, read-only after startup.
type Config struct {
	Socket    string          `mapstructure:"socket"`
	Relay     RelayConfig     `mapstructure:"relay"`
	ZoneEvent ZoneEventConfig `mapstructure:"zoneevent"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Health    HealthConfig    `mapstructure:"health"`
	Log       LogConfig       `mapstructure:"log"`
}

// RelayConfig controls command delivery retries.
type RelayConfig struct {
	Attempts    int           `mapstructure:"attempts"`
	Delay       time.Duration `mapstructure:"delay"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// ZoneEventConfig selects the zone notification emitter command.
type ZoneEventConfig struct {
	Command string `mapstructure:"command"`
	Ident   string `mapstructure:"ident"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// HealthConfig enables the gRPC health socket when Socket is set.
type HealthConfig struct {
	Socket string `mapstructure:"socket"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Warning is a non-fatal load/validation message.
type Warning struct {
	Message string
}
