package timeout

import (
	"math"
	"testing"
)

func TestElapsedWraparound(t *testing.T) {
	tests := []struct {
		name  string
		now   uint32
		since uint32
		want  uint32
	}{
		{"Simple", 1000, 400, 600},
		{"Zero", 7, 7, 0},
		{"AcrossWrap", 100, math.MaxUint32 - 149, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Elapsed(tt.now, tt.since); got != tt.want {
				t.Errorf("Elapsed(%d, %d) = %d, want %d", tt.now, tt.since, got, tt.want)
			}
		})
	}
}

func TestHasElapsedIsStrict(t *testing.T) {
	if HasElapsed(250, 0, 250) {
		t.Error("HasElapsed at exactly the duration should be false")
	}
	if !HasElapsed(251, 0, 250) {
		t.Error("HasElapsed past the duration should be true")
	}
	if !HasElapsed(10, math.MaxUint32-240, 250) {
		t.Error("HasElapsed across wraparound should be true")
	}
}

func TestTimerInitialState(t *testing.T) {
	timer := NewTimer(250)

	if timer.State() != StateIdle {
		t.Errorf("State() = %v, want StateIdle", timer.State())
	}
	if timer.Running() {
		t.Error("Running() = true, want false")
	}
	if timer.Poll(1_000_000) {
		t.Error("idle timer fired")
	}
}

func TestTimerPollFiresOnce(t *testing.T) {
	timer := NewTimer(250)
	fired := 0
	timer.OnExpire(func(uint32) { fired++ })

	timer.Start(1000)
	if timer.Poll(1250) {
		t.Error("timer fired at exactly its duration")
	}
	if got := timer.Remaining(1100); got != 150 {
		t.Errorf("Remaining() = %d, want 150", got)
	}
	if !timer.Poll(1251) {
		t.Fatal("timer did not fire")
	}
	if timer.Poll(2000) {
		t.Error("timer fired twice")
	}
	if fired != 1 {
		t.Errorf("OnExpire called %d times, want 1", fired)
	}
	if timer.State() != StateExpired {
		t.Errorf("State() = %v, want StateExpired", timer.State())
	}
}

func TestTimerRestartRefreshes(t *testing.T) {
	timer := NewTimer(100)
	timer.Start(0)
	timer.Start(90) // no effect while running
	if timer.StartedAt() != 0 {
		t.Errorf("StartedAt() = %d, want 0", timer.StartedAt())
	}

	timer.Restart(90)
	if timer.Poll(150) {
		t.Error("restarted timer fired early")
	}
	if !timer.Poll(191) {
		t.Error("restarted timer did not fire")
	}
}

func TestTimerStop(t *testing.T) {
	timer := NewTimer(100)
	var transitions []State
	timer.OnStateChange(func(_, newState State) { transitions = append(transitions, newState) })

	timer.Start(0)
	timer.Stop()
	if timer.Poll(500) {
		t.Error("stopped timer fired")
	}
	if len(transitions) != 2 || transitions[0] != StateRunning || transitions[1] != StateIdle {
		t.Errorf("transitions = %v, want [RUNNING IDLE]", transitions)
	}
}

func TestTimerSetDuration(t *testing.T) {
	timer := NewTimer(100)
	if err := timer.SetDuration(0); err != ErrInvalidDuration {
		t.Errorf("SetDuration(0) error = %v, want ErrInvalidDuration", err)
	}
	if err := timer.SetDuration(60000); err != nil {
		t.Fatalf("SetDuration(60000) error = %v", err)
	}
	if timer.Duration() != 60000 {
		t.Errorf("Duration() = %d, want 60000", timer.Duration())
	}
}

func TestStateString(t *testing.T) {
	if StateExpired.String() != "EXPIRED" {
		t.Errorf("StateExpired.String() = %q", StateExpired.String())
	}
	if State(99).String() != "UNKNOWN" {
		t.Errorf("State(99).String() = %q", State(99).String())
	}
}
