package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultAttempts    = 2
	DefaultDelay       = time.Second
	DefaultDialTimeout = 2 * time.Second
)

var ErrDeliveryFailed = errors.New("command delivery failed")

// Relay delivers command messages to a fixed endpoint with bounded retries.
type Relay struct {
	Path        string
	Attempts    int
	Delay       time.Duration
	DialTimeout time.Duration
	Logger      *slog.Logger

	// OnAttempt, when set, observes every attempt outcome (err is nil on success).
	OnAttempt func(attempt int, err error)
}

// NewRelay returns a relay with the default attempt budget and delay.
func NewRelay(path string, logger *slog.Logger) *Relay {
	return &Relay{
		Path:        path,
		Attempts:    DefaultAttempts,
		Delay:       DefaultDelay,
		DialTimeout: DefaultDialTimeout,
		Logger:      logger,
	}
}

// WithLogger returns a copy of the relay that logs to logger.
func (r *Relay) WithLogger(logger *slog.Logger) *Relay {
	clone := *r
	clone.Logger = logger
	return &clone
}

// Deliver sends msg, retrying after a fixed delay until one attempt succeeds or
// the attempt budget runs out. The sequence ignores cancellation of ctx once
// started. Every failure mode (socket, connect, write) is retried the same way.
func (r *Relay) Deliver(ctx context.Context, msg Message) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	attempts := r.Attempts
	if attempts < 1 {
		attempts = DefaultAttempts
	}
	delay := r.Delay
	if delay < 0 {
		delay = 0
	}

	ctx = context.WithoutCancel(ctx)
	attempt := 0

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := Send(ctx, r.Path, msg, r.DialTimeout)
		if r.OnAttempt != nil {
			r.OnAttempt(attempt, err)
		}
		if err != nil {
			logger.Error("failed to issue command",
				"zone", msg.Zone,
				"command", string(msg.Command),
				"attempt", attempt,
				"error", err.Error(),
			)
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(delay)),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithMaxElapsedTime(0),
	)
	if err != nil {
		logger.Error("command dropped",
			"zone", msg.Zone,
			"command", string(msg.Command),
			"attempts", attempt,
			"socket", r.Path,
		)
		return fmt.Errorf("%w: %s after %d attempts: %w", ErrDeliveryFailed, msg, attempt, err)
	}

	logger.Info("command issued",
		"zone", msg.Zone,
		"command", string(msg.Command),
		"attempt", attempt,
	)
	return nil
}
