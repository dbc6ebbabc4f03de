package log

import (
	"time"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// Recorder stamps events with the session, role and entity of one engine
// and forwards them to a Logger. The zero value discards everything.
type Recorder struct {
	Logger    Logger
	SessionID string
	Role      Role
	EntityID  eui.Eui64

	// Now supplies wall-clock timestamps. Nil uses time.Now.
	Now func() time.Time
}

// Enabled reports whether events go anywhere.
func (r *Recorder) Enabled() bool {
	return r != nil && r.Logger != nil
}

func (r *Recorder) base(tick uint32, layer Layer, cat Category) Event {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return Event{
		Timestamp: now(),
		SessionID: r.SessionID,
		Layer:     layer,
		Category:  cat,
		LocalRole: r.Role,
		EntityID:  r.EntityID.String(),
		Tick:      tick,
	}
}

// Frame logs a raw frame and, if it is an AVDECC PDU, its decoded header.
func (r *Recorder) Frame(dir Direction, f *wire.Frame) {
	if !r.Enabled() {
		return
	}
	peer := f.SourceMAC()
	if dir == DirectionOut {
		peer = f.DestinationMAC()
	}

	ev := r.base(f.Time, LayerFrame, CategoryMessage)
	ev.Direction = dir
	ev.PeerMAC = peer.String()
	ev.Frame = NewFrameEvent(f)
	r.Logger.Log(ev)

	if msg := DecodeMessage(f); msg != nil {
		ev = r.base(f.Time, LayerMessage, CategoryMessage)
		ev.Direction = dir
		ev.PeerMAC = peer.String()
		ev.Message = msg
		r.Logger.Log(ev)
	}
}

// State logs an engine state change.
func (r *Recorder) State(tick uint32, entity StateEntity, oldState, newState, reason string) {
	if !r.Enabled() {
		return
	}
	ev := r.base(tick, LayerEngine, CategoryState)
	ev.StateChange = &StateChangeEvent{
		Entity:   entity,
		OldState: oldState,
		NewState: newState,
		Reason:   reason,
	}
	r.Logger.Log(ev)
}

// Timeout logs an expired tracked command.
func (r *Recorder) Timeout(tick uint32, target eui.Eui64, name string, seq uint16, elapsed uint32, retried bool) {
	if !r.Enabled() {
		return
	}
	ev := r.base(tick, LayerEngine, CategoryTimeout)
	ev.Timeout = &TimeoutEvent{
		TargetID:   target.String(),
		Name:       name,
		SequenceID: seq,
		ElapsedMs:  elapsed,
		Retried:    retried,
	}
	r.Logger.Log(ev)
}

// Error logs an engine error, such as a response that did not fit its frame.
func (r *Recorder) Error(tick uint32, layer Layer, msg, context string) {
	if !r.Enabled() {
		return
	}
	ev := r.base(tick, layer, CategoryError)
	ev.Error = &ErrorEventData{Layer: layer, Message: msg, Context: context}
	r.Logger.Log(ev)
}
