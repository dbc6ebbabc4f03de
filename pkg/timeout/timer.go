package timeout

import "errors"

// ErrInvalidDuration is returned for a zero timer duration.
var ErrInvalidDuration = errors.New("invalid timer duration")

// Elapsed returns the milliseconds between since and now, tolerating
// wraparound of the millisecond counter.
func Elapsed(now, since uint32) uint32 {
	return now - since
}

// HasElapsed reports whether strictly more than d milliseconds have passed
// between since and now.
func HasElapsed(now, since, d uint32) bool {
	return Elapsed(now, since) > d
}

// State represents the timer state.
type State uint8

const (
	// StateIdle indicates the timer is not armed.
	StateIdle State = iota

	// StateRunning indicates the timer is armed.
	StateRunning

	// StateExpired indicates the timer fired and has not been restarted.
	StateExpired
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// Timer is a tick-driven one-shot timer. It is not safe for concurrent use;
// it belongs to a single cooperative handler.
type Timer struct {
	state     State
	duration  uint32
	startedAt uint32

	onStateChange func(oldState, newState State)
	onExpire      func(now uint32)
}

// NewTimer creates an idle timer with the given duration in milliseconds.
func NewTimer(d uint32) *Timer {
	return &Timer{duration: d}
}

// State returns the current timer state.
func (t *Timer) State() State {
	return t.state
}

// Running returns true if the timer is armed.
func (t *Timer) Running() bool {
	return t.state == StateRunning
}

// Duration returns the configured duration in milliseconds.
func (t *Timer) Duration() uint32 {
	return t.duration
}

// SetDuration changes the duration. A running timer keeps its start time.
func (t *Timer) SetDuration(d uint32) error {
	if d == 0 {
		return ErrInvalidDuration
	}
	t.duration = d
	return nil
}

// StartedAt returns the time the timer was last armed.
func (t *Timer) StartedAt() uint32 {
	return t.startedAt
}

// Start arms the timer at now. Starting a running timer has no effect.
func (t *Timer) Start(now uint32) {
	if t.state == StateRunning {
		return
	}
	t.startedAt = now
	t.setState(StateRunning)
}

// Restart arms the timer at now whether or not it is running.
func (t *Timer) Restart(now uint32) {
	t.startedAt = now
	t.setState(StateRunning)
}

// Stop disarms the timer without firing.
func (t *Timer) Stop() {
	t.setState(StateIdle)
}

// Expired reports whether the timer is running and its duration has passed.
// It does not change state.
func (t *Timer) Expired(now uint32) bool {
	return t.state == StateRunning && HasElapsed(now, t.startedAt, t.duration)
}

// Poll fires the timer if it has expired. It returns true exactly once per
// arming.
func (t *Timer) Poll(now uint32) bool {
	if !t.Expired(now) {
		return false
	}
	t.setState(StateExpired)
	if t.onExpire != nil {
		t.onExpire(now)
	}
	return true
}

// Remaining returns the milliseconds left before expiry, or 0 if the timer
// is not running or already due.
func (t *Timer) Remaining(now uint32) uint32 {
	if t.state != StateRunning {
		return 0
	}
	e := Elapsed(now, t.startedAt)
	if e >= t.duration {
		return 0
	}
	return t.duration - e
}

// OnStateChange sets a callback for state changes.
func (t *Timer) OnStateChange(fn func(oldState, newState State)) {
	t.onStateChange = fn
}

// OnExpire sets a callback invoked by Poll when the timer fires.
func (t *Timer) OnExpire(fn func(now uint32)) {
	t.onExpire = fn
}

func (t *Timer) setState(s State) {
	old := t.state
	t.state = s
	if old != s && t.onStateChange != nil {
		t.onStateChange(old, s)
	}
}
