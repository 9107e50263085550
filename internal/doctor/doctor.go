// Package doctor runs readiness diagnostics for config, the zoneevent emitter, and sockets.
package doctor

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rbright/zwatch/internal/config"
	"github.com/rbright/zwatch/internal/ipc"
)

const probeTimeout = 500 * time.Millisecond

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes config and runtime checks for a loaded config.
func Run(cfg config.Loaded) Report {
	checks := []Check{checkConfig(cfg)}

	checks = append(checks, checkBinary("zoneevent", cfg.Config.ZoneEvent.Command))
	checks = append(checks, checkEndpoint(context.Background(), cfg.Config.Socket))

	if cfg.Config.Health.Socket != "" {
		checks = append(checks, checkSocketDir("health.socket", cfg.Config.Health.Socket))
	}
	if cfg.Config.Metrics.Addr != "" {
		checks = append(checks, checkListenAddr("metrics.addr", cfg.Config.Metrics.Addr))
	}

	return Report{Checks: checks}
}

func checkConfig(cfg config.Loaded) Check {
	if !cfg.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("%q not found, using defaults", cfg.Path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", cfg.Path)}
}

// checkBinary validates that bin resolves to an executable, via PATH when relative.
func checkBinary(name, bin string) Check {
	if strings.TrimSpace(bin) == "" {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("binary not found: %s", bin)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("found at %s", path)}
}

// checkEndpoint reports whether the command consumer is accepting connections.
func checkEndpoint(ctx context.Context, path string) Check {
	alive, err := ipc.Probe(ctx, path, probeTimeout)
	if err != nil {
		return Check{Name: "socket", Pass: false, Message: err.Error()}
	}
	if !alive {
		return Check{Name: "socket", Pass: false, Message: fmt.Sprintf("nothing accepting connections at %s", path)}
	}
	return Check{Name: "socket", Pass: true, Message: fmt.Sprintf("accepting connections at %s", path)}
}

func checkSocketDir(name, path string) Check {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("directory %s: %v", dir, err)}
	}
	if !info.IsDir() {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("%s is not a directory", dir)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("directory %s present", dir)}
}

func checkListenAddr(name, addr string) Check {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	return Check{Name: name, Pass: true, Message: addr}
}
