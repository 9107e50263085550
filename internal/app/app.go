package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rbright/zwatch/internal/cli"
	"github.com/rbright/zwatch/internal/config"
	"github.com/rbright/zwatch/internal/daemon"
	"github.com/rbright/zwatch/internal/doctor"
	"github.com/rbright/zwatch/internal/health"
	"github.com/rbright/zwatch/internal/ipc"
	"github.com/rbright/zwatch/internal/logging"
	"github.com/rbright/zwatch/internal/metrics"
	"github.com/rbright/zwatch/internal/source"
	"github.com/rbright/zwatch/internal/version"
)

const binaryName = "zwatch"

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Source replaces the zoneevent emitter when set.
	Source source.Source
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	}

	if len(parsed.Unknown) > 0 {
		for _, arg := range parsed.Unknown {
			fmt.Fprintf(r.Stderr, "error: unrecognized argument %q\n", arg)
		}
		fmt.Fprintln(r.Stderr)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	}

	if parsed.ShowVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath, parsed.Overrides())
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logger := r.Logger
	if logger == nil {
		level, err := logging.ParseLevel(cfgLoaded.Config.Log.Level)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		logger = logging.New(r.Stderr, level)
	}
	for _, w := range cfgLoaded.Warnings {
		logger.Warn("config warning", "message", w.Message)
	}

	if parsed.Check {
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	}

	return r.runDaemon(ctx, cfgLoaded, logger)
}

func (r Runner) runDaemon(ctx context.Context, loaded config.Loaded, logger *slog.Logger) int {
	cfg := loaded.Config
	logger.Info("command start",
		"config", loaded.Path,
		"config_exists", loaded.Exists,
		"socket", cfg.Socket,
	)

	collectors := metrics.New()
	relay := &ipc.Relay{
		Path:        cfg.Socket,
		Attempts:    cfg.Relay.Attempts,
		Delay:       cfg.Relay.Delay,
		DialTimeout: cfg.Relay.DialTimeout,
		Logger:      logger,
		OnAttempt:   func(_ int, err error) { collectors.ObserveAttempt(err) },
	}
	observers := []daemon.StateObserver{collectors}

	serverCtx, serverCancel := context.WithCancel(context.WithoutCancel(ctx))
	var servers sync.WaitGroup
	defer func() {
		serverCancel()
		servers.Wait()
	}()

	if cfg.Metrics.Addr != "" {
		listener, err := net.Listen("tcp", cfg.Metrics.Addr)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: listen metrics %s: %v\n", cfg.Metrics.Addr, err)
			return 1
		}
		logger.Info("metrics listening", "addr", listener.Addr().String())
		servers.Add(1)
		go func() {
			defer servers.Done()
			if err := collectors.Serve(serverCtx, listener); err != nil {
				logger.Error("metrics server failed", "error", err.Error())
			}
		}()
	}

	if cfg.Health.Socket != "" {
		listener, err := ipc.Acquire(ctx, cfg.Health.Socket, 180*time.Millisecond, 8)
		if err != nil {
			if errors.Is(err, ipc.ErrAlreadyRunning) {
				fmt.Fprintf(r.Stderr, "error: health socket %s is owned by another zwatch\n", cfg.Health.Socket)
				return 1
			}
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		defer func() { _ = os.Remove(cfg.Health.Socket) }()

		healthSrv := health.NewServer()
		observers = append(observers, healthSrv)
		servers.Add(1)
		go func() {
			defer servers.Done()
			if err := healthSrv.Serve(serverCtx, listener); err != nil {
				logger.Error("health server failed", "error", err.Error())
			}
		}()
	}

	src := r.Source
	if src == nil {
		src = source.NewZoneEvent(cfg.ZoneEvent.Command, cfg.ZoneEvent.Ident, logger)
	}

	d := daemon.New(logger, src, relay, collectors, observers...)
	if err := d.Run(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
