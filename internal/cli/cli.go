// Package cli parses zwatch command-line flags.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

type Parsed struct {
	Socket       string
	ConfigPath   string
	MetricsAddr  string
	HealthSocket string
	Check        bool
	ShowHelp     bool
	ShowVersion  bool

	// Unknown lists arguments that were not recognized and were skipped.
	Unknown []string
}

// Overrides returns the config keys set explicitly on the command line.
func (p Parsed) Overrides() map[string]any {
	overrides := map[string]any{}
	if p.Socket != "" {
		overrides["socket"] = p.Socket
	}
	if p.MetricsAddr != "" {
		overrides["metrics.addr"] = p.MetricsAddr
	}
	if p.HealthSocket != "" {
		overrides["health.socket"] = p.HealthSocket
	}
	return overrides
}

func newFlagSet(parsed *Parsed) *flag.FlagSet {
	fs := flag.NewFlagSet("zwatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&parsed.Socket, "socket", "s", "", "Command socket path")
	fs.StringVar(&parsed.ConfigPath, "config", "", "Config file path")
	fs.StringVar(&parsed.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on ADDR")
	fs.StringVar(&parsed.HealthSocket, "health-socket", "", "Serve gRPC health on a unix socket")
	fs.BoolVar(&parsed.Check, "check", false, "Run readiness checks and exit")
	fs.BoolVarP(&parsed.ShowHelp, "help", "h", false, "Show help")
	fs.BoolVar(&parsed.ShowVersion, "version", false, "Show version")
	return fs
}

// Parse reads args. Unrecognized flags and stray positional arguments are
// collected in Parsed.Unknown and skipped; recognized flags around them still
// apply. A malformed value for a known flag is an error.
func Parse(args []string) (Parsed, error) {
	var parsed Parsed
	fs := newFlagSet(&parsed)

	known, unknown := splitUnknown(fs, args)
	if err := fs.Parse(known); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			parsed.ShowHelp = true
			return parsed, nil
		}
		return Parsed{}, err
	}
	parsed.Unknown = append(unknown, fs.Args()...)
	return parsed, nil
}

// splitUnknown removes flags the set does not define, keeping everything else in order.
func splitUnknown(fs *flag.FlagSet, args []string) (known []string, unknown []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			known = append(known, args[i:]...)
			break
		}

		switch {
		case strings.HasPrefix(arg, "--"):
			name, _, _ := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
			if fs.Lookup(name) == nil {
				unknown = append(unknown, arg)
				continue
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if fs.ShorthandLookup(arg[1:2]) == nil {
				unknown = append(unknown, arg)
				continue
			}
		}
		known = append(known, arg)
	}
	return known, unknown
}

func HelpText(binaryName string) string {
	var parsed Parsed
	return fmt.Sprintf(`Usage:
  %[1]s [-s SOCKET] [flags]

Watches zone lifecycle transitions and relays start/stop commands to SOCKET.

Flags:
%[2]s`, binaryName, newFlagSet(&parsed).FlagUsages())
}
