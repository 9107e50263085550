package config

import "time"

const DefaultSocketPath = "/var/run/.joyent_amon_zwatch.sock"

// Default returns the canonical runtime configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Socket: DefaultSocketPath,
		Relay: RelayConfig{
			Attempts:    2,
			Delay:       time.Second,
			DialTimeout: 2 * time.Second,
		},
		ZoneEvent: ZoneEventConfig{
			Command: "/usr/vm/sbin/zoneevent",
			Ident:   "zwatch",
		},
		Log: LogConfig{Level: "info"},
	}
}
