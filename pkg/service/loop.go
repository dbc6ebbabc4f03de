package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/handler"
)

// Service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrAlreadyStarted = errors.New("service already started")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ServiceState is the life cycle of a service's polling goroutine.
// A stopped service can be started again.
type ServiceState uint8

const (
	StateIdle ServiceState = iota
	StateRunning
	StateStopped
)

func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	}
	return "UNKNOWN"
}

// loop serializes scheduler passes and caller actions.
type loop struct {
	mu       sync.Mutex
	sched    *handler.Scheduler
	interval time.Duration
	logger   *slog.Logger

	state  ServiceState
	cancel context.CancelFunc
	done   chan struct{}
}

func (l *loop) State() ServiceState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Poll runs one scheduler pass and returns the frames delivered.
func (l *loop) Poll() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sched.Poll()
}

// Do runs fn while no scheduler pass is in progress.
func (l *loop) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// Start polls on a new goroutine until Stop or ctx is done.
func (l *loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateRunning {
		return ErrAlreadyStarted
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	l.state = StateRunning
	go l.run(ctx)
	return nil
}

func (l *loop) run(ctx context.Context) {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Poll()
		}
	}
}

// Stop ends the polling goroutine and waits for it.
func (l *loop) Stop() error {
	l.mu.Lock()
	if l.state != StateRunning {
		l.mu.Unlock()
		return ErrNotStarted
	}
	l.cancel()
	done := l.done
	l.state = StateStopped
	l.mu.Unlock()

	<-done
	l.debugLog("service: stopped", "received", l.sched.Received(), "unhandled", l.sched.Unhandled())
	return nil
}

func (l *loop) debugLog(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}
