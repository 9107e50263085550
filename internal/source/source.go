// Package source delivers zone transition events to a registered handler.
package source

import (
	"context"
	"errors"
	"sync"

	"github.com/rbright/zwatch/internal/zone"
)

var (
	ErrAlreadyRegistered = errors.New("a handler is already registered")
	ErrNotRegistered     = errors.New("subscription is not registered")
)

// Handler is invoked once per zone transition. It may be called concurrently
// with itself when the source delivers overlapping events.
type Handler interface {
	HandleEvent(context.Context, zone.Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, zone.Event)

func (f HandlerFunc) HandleEvent(ctx context.Context, ev zone.Event) {
	f(ctx, ev)
}

// Subscription identifies one registration with a Source.
type Subscription interface {
	// Err receives a value once the source can no longer deliver events.
	Err() <-chan error
}

// Source is a zone notification facility with a single-handler contract.
type Source interface {
	Register(ctx context.Context, handler Handler) (Subscription, error)
	Unregister(Subscription) error
}

// Manual is an in-process source: events reach the handler only through Emit.
type Manual struct {
	mu      sync.RWMutex
	handler Handler
	ctx     context.Context
	sub     *manualSubscription

	// RegisterErr, when set, makes Register fail.
	RegisterErr error
}

type manualSubscription struct {
	errs chan error
}

func (s *manualSubscription) Err() <-chan error { return s.errs }

// NewManual returns an unregistered manual source.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Register(ctx context.Context, handler Handler) (Subscription, error) {
	if m.RegisterErr != nil {
		return nil, m.RegisterErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub != nil {
		return nil, ErrAlreadyRegistered
	}
	m.handler = handler
	m.ctx = ctx
	m.sub = &manualSubscription{errs: make(chan error, 1)}
	return m.sub, nil
}

func (m *Manual) Unregister(sub Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub == nil || sub != Subscription(m.sub) {
		return ErrNotRegistered
	}
	m.handler = nil
	m.ctx = nil
	m.sub = nil
	return nil
}

// Registered reports whether a handler is currently registered.
func (m *Manual) Registered() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sub != nil
}

// Emit invokes the registered handler synchronously and reports whether one was
// registered.
func (m *Manual) Emit(ev zone.Event) bool {
	m.mu.RLock()
	handler, ctx := m.handler, m.ctx
	m.mu.RUnlock()

	if handler == nil {
		return false
	}
	handler.HandleEvent(ctx, ev)
	return true
}

// Fail reports a terminal source error to the subscriber.
func (m *Manual) Fail(err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sub == nil {
		return
	}
	select {
	case m.sub.errs <- err:
	default:
	}
}
