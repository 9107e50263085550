package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/rbright/zwatch/internal/zone"
)

const (
	DefaultZoneEventCommand = "/usr/vm/sbin/zoneevent"
	DefaultZoneEventIdent   = "zwatch"
)

// ErrEmitterExited is reported when the zoneevent process ends.
var ErrEmitterExited = errors.New("zoneevent emitter exited")

// ZoneEvent runs the platform zoneevent command and decodes its JSON-lines output.
type ZoneEvent struct {
	Command string
	Args    []string
	Logger  *slog.Logger

	mu  sync.Mutex
	sub *zoneEventSubscription
}

// record is one line of zoneevent output. zoneid arrives as a string.
type record struct {
	ZoneName string `json:"zonename"`
	NewState string `json:"newstate"`
	OldState string `json:"oldstate"`
	ZoneID   string `json:"zoneid"`
}

type zoneEventSubscription struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	errs   chan error
	done   chan struct{}
}

func (s *zoneEventSubscription) Err() <-chan error { return s.errs }

// NewZoneEvent returns a source for the given command and ident.
func NewZoneEvent(command, ident string, logger *slog.Logger) *ZoneEvent {
	if command == "" {
		command = DefaultZoneEventCommand
	}
	if ident == "" {
		ident = DefaultZoneEventIdent
	}
	return &ZoneEvent{Command: command, Args: []string{"-i", ident}, Logger: logger}
}

func (z *ZoneEvent) Register(ctx context.Context, handler Handler) (Subscription, error) {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.sub != nil {
		return nil, ErrAlreadyRegistered
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cmd := exec.CommandContext(runCtx, z.Command, z.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("zoneevent stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start %s: %w", z.Command, err)
	}

	sub := &zoneEventSubscription{
		cmd:    cmd,
		cancel: cancel,
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	z.sub = sub

	go z.run(ctx, sub, stdout, handler)
	return sub, nil
}

func (z *ZoneEvent) run(ctx context.Context, sub *zoneEventSubscription, stdout io.Reader, handler Handler) {
	defer close(sub.done)

	decodeLines(stdout, func(line []byte) {
		ev, err := decodeRecord(line)
		if err != nil {
			z.logger().Warn("skip zoneevent line", "error", err.Error(), "line", string(line))
			return
		}
		handler.HandleEvent(ctx, ev)
	})

	waitErr := sub.cmd.Wait()
	if waitErr != nil {
		sub.errs <- fmt.Errorf("%w: %w", ErrEmitterExited, waitErr)
		return
	}
	sub.errs <- ErrEmitterExited
}

func (z *ZoneEvent) Unregister(sub Subscription) error {
	z.mu.Lock()
	current := z.sub
	if current == nil || sub != Subscription(current) {
		z.mu.Unlock()
		return ErrNotRegistered
	}
	z.sub = nil
	z.mu.Unlock()

	current.cancel()
	<-current.done
	return nil
}

func (z *ZoneEvent) logger() *slog.Logger {
	if z.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return z.Logger
}

// decodeLines calls fn for every non-empty line, including a final unterminated one.
func decodeLines(r io.Reader, fn func([]byte)) {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		line = trimEOL(line)
		if len(line) > 0 {
			fn(line)
		}
		if err != nil {
			return
		}
	}
}

func trimEOL(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

func decodeRecord(line []byte) (zone.Event, error) {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return zone.Event{}, fmt.Errorf("decode zoneevent record: %w", err)
	}
	if rec.ZoneName == "" {
		return zone.Event{}, errors.New("zoneevent record has no zonename")
	}

	// zoneevent's "when" is boot-relative hrtime; events carry receipt time instead.
	ev := zone.Event{
		Zone:     rec.ZoneName,
		NewState: zone.State(rec.NewState),
		OldState: zone.State(rec.OldState),
		When:     time.Now(),
	}
	if rec.ZoneID != "" {
		id, err := strconv.Atoi(rec.ZoneID)
		if err != nil {
			return zone.Event{}, fmt.Errorf("parse zoneid %q: %w", rec.ZoneID, err)
		}
		ev.ZoneID = id
	}
	return ev, nil
}
