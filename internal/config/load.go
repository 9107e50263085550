package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "ZWATCH"

// Loaded captures resolved config path, merged values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load merges defaults, the config file, ZWATCH_* environment variables, and
// overrides (highest precedence, keyed like "relay.attempts"), then validates.
func Load(explicitPath string, overrides map[string]any) (Loaded, error) {
	resolvedPath := ResolvePath(explicitPath)

	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var warnings []Warning
	exists := true
	if _, err := os.Stat(resolvedPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Loaded{}, fmt.Errorf("stat config %q: %w", resolvedPath, err)
		}
		exists = false
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
		})
	} else {
		v.SetConfigFile(resolvedPath)
		if err := v.ReadInConfig(); err != nil {
			return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Loaded{}, fmt.Errorf("decode config %q: %w", resolvedPath, err)
	}

	validated, err := Validate(cfg)
	if err != nil {
		return Loaded{}, err
	}

	return Loaded{
		Path:     resolvedPath,
		Config:   cfg,
		Warnings: append(warnings, validated...),
		Exists:   exists,
	}, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("socket", cfg.Socket)
	v.SetDefault("relay.attempts", cfg.Relay.Attempts)
	v.SetDefault("relay.delay", cfg.Relay.Delay)
	v.SetDefault("relay.dial_timeout", cfg.Relay.DialTimeout)
	v.SetDefault("zoneevent.command", cfg.ZoneEvent.Command)
	v.SetDefault("zoneevent.ident", cfg.ZoneEvent.Ident)
	v.SetDefault("metrics.addr", cfg.Metrics.Addr)
	v.SetDefault("health.socket", cfg.Health.Socket)
	v.SetDefault("log.level", cfg.Log.Level)
}
