// Package timeout implements the cooperative millisecond timers used by the
// AVDECC engines.
//
// Time is a free-running uint32 millisecond counter supplied by the network
// collaborator. It wraps after about 49.7 days, so every comparison is made
// on the difference now-since computed in uint32 arithmetic, never on the
// magnitude of the timestamps themselves.
//
// # Timer Behavior
//
// A Timer never fires on its own. The owner calls Poll from its tick
// function; Poll reports the expiry exactly once and moves the timer to
// StateExpired. Granularity is therefore bounded by the tick rate.
//
//   - Start arms the timer at now
//   - Restart re-arms a running timer (used to refresh a lock)
//   - Stop disarms it without firing
//   - Poll fires when more than Duration milliseconds have elapsed
package timeout
