package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
)

// Scheduler defaults.
const (
	DefaultPollInterval = time.Millisecond
	DefaultMaxBurst     = 32
)

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	// PollInterval is the wait between passes in Run.
	PollInterval time.Duration

	// MaxBurst bounds the frames drained from the port per pass, so that a
	// flood of traffic cannot starve Tick.
	MaxBurst int

	// Logger is used for operational logging (optional).
	Logger *slog.Logger
}

// DefaultSchedulerConfig returns the default scheduler configuration.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		PollInterval: DefaultPollInterval,
		MaxBurst:     DefaultMaxBurst,
	}
}

// Scheduler connects a Port to a Handler.
type Scheduler struct {
	port    network.Port
	handler Handler
	config  SchedulerConfig

	received  int
	unhandled int
}

// NewScheduler creates a scheduler with the default configuration.
func NewScheduler(port network.Port, h Handler) *Scheduler {
	return NewSchedulerWithConfig(port, h, DefaultSchedulerConfig())
}

// NewSchedulerWithConfig creates a scheduler with the given configuration.
func NewSchedulerWithConfig(port network.Port, h Handler, config SchedulerConfig) *Scheduler {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.MaxBurst <= 0 {
		config.MaxBurst = DefaultMaxBurst
	}
	return &Scheduler{port: port, handler: h, config: config}
}

// Poll runs one pass: it delivers up to MaxBurst pending frames, then ticks
// the handler once with the port time. It returns the number of frames
// delivered.
func (s *Scheduler) Poll() int {
	n := 0
	for n < s.config.MaxBurst {
		f, ok := s.port.ReceiveFrame()
		if !ok {
			break
		}
		n++
		s.received++
		if !s.handler.ReceivedFrame(f) {
			s.unhandled++
		}
	}
	s.handler.Tick(s.port.TimeMs())
	return n
}

// Drain polls until the port has no more pending frames.
func (s *Scheduler) Drain() int {
	total := 0
	for {
		n := s.Poll()
		total += n
		if n == 0 {
			return total
		}
	}
}

// Run polls until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.debugLog("scheduler: started", "interval", s.config.PollInterval)
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.debugLog("scheduler: stopped", "received", s.received, "unhandled", s.unhandled)
			return ctx.Err()
		case <-ticker.C:
			s.Poll()
		}
	}
}

// Received returns the number of frames delivered so far.
func (s *Scheduler) Received() int {
	return s.received
}

// Unhandled returns the number of delivered frames no handler claimed.
func (s *Scheduler) Unhandled() int {
	return s.unhandled
}

func (s *Scheduler) debugLog(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}
