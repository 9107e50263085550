package config

import (
	"os"
	"strings"
)

const DefaultConfigPath = "/etc/zwatch/config.yaml"

// ResolvePath applies CLI, ZWATCH_CONFIG, then system-default lookup for the config file.
func ResolvePath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if env := strings.TrimSpace(os.Getenv("ZWATCH_CONFIG")); env != "" {
		return env
	}
	return DefaultConfigPath
}
