package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rbright/zwatch/internal/logging"
)

// maxSocketPath is the usable length of sockaddr_un.sun_path on Linux.
const maxSocketPath = 107

// slowRelayBudget is the per-event blocking time above which a warning is emitted.
const slowRelayBudget = 30 * time.Second

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if err := validateSocket("socket", cfg.Socket); err != nil {
		return nil, err
	}
	if cfg.Relay.Attempts < 1 {
		return nil, fmt.Errorf("relay.attempts must be >= 1")
	}
	if cfg.Relay.Delay < 0 {
		return nil, fmt.Errorf("relay.delay must be >= 0")
	}
	if cfg.Relay.DialTimeout <= 0 {
		return nil, fmt.Errorf("relay.dial_timeout must be > 0")
	}
	if strings.TrimSpace(cfg.ZoneEvent.Command) == "" {
		return nil, fmt.Errorf("zoneevent.command must not be empty")
	}
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	if cfg.Health.Socket != "" {
		if err := validateSocket("health.socket", cfg.Health.Socket); err != nil {
			return nil, err
		}
		if cfg.Health.Socket == cfg.Socket {
			return nil, fmt.Errorf("health.socket must differ from socket")
		}
	}

	worst := time.Duration(cfg.Relay.Attempts-1)*cfg.Relay.Delay +
		time.Duration(cfg.Relay.Attempts)*cfg.Relay.DialTimeout
	if worst > slowRelayBudget {
		warnings = append(warnings, Warning{Message: fmt.Sprintf(
			"relay settings can block one event for up to %s", worst,
		)})
	}

	return warnings, nil
}

func validateSocket(key, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	if len(path) > maxSocketPath {
		return fmt.Errorf("%s path exceeds %d bytes: %q", key, maxSocketPath, path)
	}
	return nil
}
