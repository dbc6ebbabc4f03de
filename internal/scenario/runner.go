package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// ActionHandler performs a step action.
type ActionHandler func(st *State, step *Step) error

// ExpectChecker checks one expectation of a step. params are the step's
// parameters, which name the parties the expectation is about.
type ExpectChecker func(st *State, params map[string]any, expected any) error

// StepResult is the outcome of one step.
type StepResult struct {
	Index  int
	Action string
	Err    error
}

// Result is the outcome of a scenario.
type Result struct {
	Scenario *Scenario
	Passed   bool
	Steps    []StepResult
	Duration time.Duration

	// Err is set when the scenario could not be set up.
	Err error
}

// Failures returns one line per failed step.
func (r *Result) Failures() []string {
	var out []string
	if r.Err != nil {
		out = append(out, r.Err.Error())
	}
	for _, s := range r.Steps {
		if s.Err != nil {
			out = append(out, fmt.Sprintf("step %d (%s): %v", s.Index, s.Action, s.Err))
		}
	}
	return out
}

// Runner executes scenarios.
type Runner struct {
	handlers map[string]ActionHandler
	checkers map[string]ExpectChecker
	logger   *slog.Logger
}

// NewRunner returns a runner with the built-in actions and checkers.
func NewRunner(logger *slog.Logger) *Runner {
	r := &Runner{
		handlers: make(map[string]ActionHandler),
		checkers: make(map[string]ExpectChecker),
		logger:   logger,
	}
	r.registerActions()
	r.registerCheckers()
	return r
}

// RegisterHandler registers an action handler.
func (r *Runner) RegisterHandler(action string, h ActionHandler) {
	r.handlers[action] = h
}

// RegisterChecker registers an expectation checker.
func (r *Runner) RegisterChecker(key string, c ExpectChecker) {
	r.checkers[key] = c
}

// Run executes sc on a fresh bus. Steps continue after a failure so that
// every broken expectation is reported.
func (r *Runner) Run(sc *Scenario) *Result {
	start := time.Now()
	res := &Result{Scenario: sc, Passed: true}
	defer func() { res.Duration = time.Since(start) }()

	st, err := newState(sc)
	if err != nil {
		res.Passed = false
		res.Err = err
		return res
	}
	for i := range sc.Steps {
		step := &sc.Steps[i]
		sr := StepResult{Index: i, Action: step.Action, Err: r.runStep(st, step)}
		if sr.Err != nil {
			res.Passed = false
			r.debugLog("scenario: step failed", "scenario", sc.ID, "step", i, "error", sr.Err)
		}
		res.Steps = append(res.Steps, sr)
	}
	return res
}

func (r *Runner) runStep(st *State, step *Step) error {
	h, ok := r.handlers[step.Action]
	if !ok {
		return fmt.Errorf("unknown action %q", step.Action)
	}
	if err := h(st, step); err != nil {
		return err
	}
	st.settle()

	keys := make([]string, 0, len(step.Expect))
	for k := range step.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		c, ok := r.checkers[k]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown expectation %q", k))
			continue
		}
		if err := c(st, step.Params, step.Expect[k]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) debugLog(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func mismatch(want, got any) error {
	return fmt.Errorf("expected %v, got %v", want, got)
}

func sameName(want any, got string) bool {
	return strings.EqualFold(fmt.Sprint(want), got)
}
