package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "empty socket", mutate: func(c *Config) { c.Socket = " " }, want: "socket must not be empty"},
		{name: "long socket", mutate: func(c *Config) { c.Socket = "/" + strings.Repeat("s", 120) }, want: "exceeds"},
		{name: "zero attempts", mutate: func(c *Config) { c.Relay.Attempts = 0 }, want: "relay.attempts"},
		{name: "negative delay", mutate: func(c *Config) { c.Relay.Delay = -time.Second }, want: "relay.delay"},
		{name: "zero dial timeout", mutate: func(c *Config) { c.Relay.DialTimeout = 0 }, want: "relay.dial_timeout"},
		{name: "empty zoneevent", mutate: func(c *Config) { c.ZoneEvent.Command = "" }, want: "zoneevent.command"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, want: "log.level"},
		{name: "health equals socket", mutate: func(c *Config) { c.Health.Socket = c.Socket }, want: "must differ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateWarnsOnSlowRelayBudget(t *testing.T) {
	cfg := Default()
	cfg.Relay.Attempts = 10
	cfg.Relay.Delay = 5 * time.Second

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "block one event")
}
