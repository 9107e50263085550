// Package daemon runs the zone watch lifecycle: subscribe, relay, shut down.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rbright/zwatch/internal/fsm"
	"github.com/rbright/zwatch/internal/ipc"
	"github.com/rbright/zwatch/internal/source"
	"github.com/rbright/zwatch/internal/zone"
)

var ErrRegister = errors.New("register zone notification handler")

// Recorder observes per-event outcomes.
type Recorder interface {
	ObserveTransition(zone.Command)
	ObserveDelivery(err error, elapsed time.Duration)
}

// StateObserver is told about every lifecycle state the daemon enters.
type StateObserver interface {
	SetState(fsm.State)
}

type noopRecorder struct{}

func (noopRecorder) ObserveTransition(zone.Command)      {}
func (noopRecorder) ObserveDelivery(error, time.Duration) {}

// Daemon relays qualifying zone transitions for the lifetime of one Run.
type Daemon struct {
	logger    *slog.Logger
	source    source.Source
	relay     *ipc.Relay
	recorder  Recorder
	observers []StateObserver

	mu    sync.RWMutex
	state fsm.State

	tasks atomic.Uint64
}

// New constructs a daemon in the starting state.
func New(
	logger *slog.Logger,
	src source.Source,
	relay *ipc.Relay,
	recorder Recorder,
	observers ...StateObserver,
) *Daemon {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}

	d := &Daemon{
		logger:    logger,
		source:    src,
		relay:     relay,
		recorder:  recorder,
		observers: observers,
		state:     fsm.StateStarting,
	}
	d.notify(fsm.StateStarting)
	return d
}

// State returns the current lifecycle state snapshot.
func (d *Daemon) State() fsm.State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *Daemon) transition(event fsm.Event) error {
	d.mu.Lock()
	next, err := fsm.Transition(d.state, event)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.state = next
	d.mu.Unlock()

	d.notify(next)
	return nil
}

func (d *Daemon) notify(state fsm.State) {
	for _, o := range d.observers {
		o.SetState(state)
	}
}

// Run registers the event handler and blocks until ctx is cancelled or the
// source fails. The handler is always unregistered before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	if state := d.State(); state != fsm.StateStarting {
		return fmt.Errorf("daemon cannot run from state %s", state)
	}

	sub, err := d.source.Register(ctx, source.HandlerFunc(d.HandleEvent))
	if err != nil {
		_ = d.transition(fsm.EventFail)
		d.logger.Error("zone notification registration failed", "error", err.Error())
		return fmt.Errorf("%w: %w", ErrRegister, err)
	}
	if err := d.transition(fsm.EventSubscribe); err != nil {
		return err
	}
	if err := d.transition(fsm.EventRun); err != nil {
		return err
	}

	d.logger.Info("zwatch started", "socket", d.relay.Path, "pid", os.Getpid())

	var runErr error
	select {
	case <-ctx.Done():
		d.logger.Info("shutdown requested", "cause", context.Cause(ctx).Error())
	case srcErr := <-sub.Err():
		runErr = fmt.Errorf("zone notification source failed: %w", srcErr)
		d.logger.Error("zone notification source failed", "error", srcErr.Error())
	}

	if err := d.transition(fsm.EventShutdown); err != nil {
		return err
	}
	if err := d.source.Unregister(sub); err != nil {
		d.logger.Warn("unregister zone notification handler", "error", err.Error())
	}
	if err := d.transition(fsm.EventTerminate); err != nil {
		return err
	}

	d.logger.Info("zwatch stopped")
	return runErr
}

// HandleEvent filters one transition and, when it qualifies, delivers the
// command before returning. Delivery failures are logged, never returned.
func (d *Daemon) HandleEvent(ctx context.Context, ev zone.Event) {
	logger := d.logger.With("task", d.tasks.Add(1))

	cmd, ok := ev.Command()
	d.recorder.ObserveTransition(cmd)
	if !ok {
		logger.Debug("ignore zone event",
			"zone", ev.Zone,
			"zone_id", ev.ZoneID,
			"old_state", string(ev.OldState),
			"new_state", string(ev.NewState),
		)
		return
	}

	started := time.Now()
	err := d.relay.WithLogger(logger).Deliver(ctx, ipc.Message{Zone: ev.Zone, Command: cmd})
	d.recorder.ObserveDelivery(err, time.Since(started))
}
