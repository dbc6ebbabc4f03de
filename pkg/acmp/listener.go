package acmp

import (
	"fmt"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/timeout"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// ListenerState is the connection state of a listener sink.
type ListenerState uint8

const (
	ListenerIdle ListenerState = iota
	ListenerConnecting
	ListenerConnected
	ListenerDisconnecting
)

// String returns the state name.
func (s ListenerState) String() string {
	switch s {
	case ListenerIdle:
		return "IDLE"
	case ListenerConnecting:
		return "CONNECTING"
	case ListenerConnected:
		return "CONNECTED"
	case ListenerDisconnecting:
		return "DISCONNECTING"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

// ListenerConfig configures one listener unique id.
type ListenerConfig struct {
	UniqueID uint16
}

// Listener is the listener state machine of one stream sink. A listener
// holds at most one connection.
type Listener struct {
	config ListenerConfig
	group  *ListenerGroup
	events ListenerEvents

	state         ListenerState
	talker        TalkerPair
	streamID      eui.Eui64
	streamDestMAC eui.Eui48
	streamVLANID  uint16
	flags         uint16

	// request is the controller command being served while a forwarded
	// command is in flight; forwarded is what was sent to the talker.
	inFlight  bool
	retried   bool
	request   wire.ACMPHeader
	forwarded wire.ACMPHeader
	timer     *timeout.Timer
}

// NewListener creates an unconnected listener.
func NewListener(config ListenerConfig) *Listener {
	return &Listener{
		config: config,
		timer:  timeout.NewTimer(wire.ACMPConnectTXTimeoutMs),
	}
}

// UniqueID returns the listener unique id.
func (l *Listener) UniqueID() uint16 {
	return l.config.UniqueID
}

// State returns the connection state.
func (l *Listener) State() ListenerState {
	return l.state
}

// Talker returns the connected talker. ok is false unless connected.
func (l *Listener) Talker() (TalkerPair, bool) {
	return l.talker, l.state == ListenerConnected || l.state == ListenerDisconnecting
}

// StreamID returns the stream id of the current connection.
func (l *Listener) StreamID() eui.Eui64 {
	return l.streamID
}

// SetEvents sets the connection event receiver.
func (l *Listener) SetEvents(ev ListenerEvents) {
	l.events = ev
}

func (l *Listener) connected() bool {
	_, ok := l.Talker()
	return ok
}

// fill copies the connection into r.
func (l *Listener) fill(r *wire.ACMPHeader) {
	r.ListenerUniqueID = l.config.UniqueID
	if !l.connected() {
		r.ConnectionCount = 0
		return
	}
	r.TalkerEntityID = l.talker.TalkerEntityID
	r.TalkerUniqueID = l.talker.TalkerUniqueID
	r.StreamID = l.streamID
	r.StreamDestMAC = l.streamDestMAC
	r.StreamVLANID = l.streamVLANID
	r.Flags = l.flags
	r.ConnectionCount = 1
}

func (l *Listener) receivedCommand(f *wire.Frame, h wire.ACMPHeader, now uint32) {
	requested := TalkerPair{TalkerEntityID: h.TalkerEntityID, TalkerUniqueID: h.TalkerUniqueID}

	switch h.MessageType {
	case wire.ACMPConnectRXCommand:
		switch {
		case l.inFlight:
			l.group.respond(f, response(h, wire.ACMPStatusStateUnavailable))
		case l.connected() && l.talker != requested:
			r := response(h, wire.ACMPStatusListenerExclusive)
			l.fill(&r)
			l.group.respond(f, r)
		case l.connected():
			r := response(h, wire.ACMPStatusSuccess)
			l.fill(&r)
			l.group.respond(f, r)
		default:
			l.forward(h, wire.ACMPConnectTXCommand, wire.ACMPConnectTXTimeoutMs, now)
			l.setState(ListenerConnecting, now, "connect requested")
		}

	case wire.ACMPDisconnectRXCommand:
		switch {
		case l.inFlight:
			l.group.respond(f, response(h, wire.ACMPStatusStateUnavailable))
		case !l.connected() || l.talker != requested:
			l.group.respond(f, response(h, wire.ACMPStatusNotConnected))
		default:
			l.forward(h, wire.ACMPDisconnectTXCommand, wire.ACMPDisconnectTXTimeoutMs, now)
			l.setState(ListenerDisconnecting, now, "disconnect requested")
		}

	case wire.ACMPGetRXStateCommand:
		r := response(h, wire.ACMPStatusSuccess)
		l.fill(&r)
		l.group.respond(f, r)
	}
}

// forward sends the talker half of a controller's connect or disconnect.
func (l *Listener) forward(h wire.ACMPHeader, mt wire.ACMPMessageType, timeoutMs uint32, now uint32) {
	fwd := h
	fwd.MessageType = mt
	fwd.Status = wire.ACMPStatusSuccess
	fwd.SequenceID = l.group.nextSequence()

	l.inFlight = true
	l.retried = false
	l.request = h
	l.forwarded = fwd
	_ = l.timer.SetDuration(timeoutMs)
	l.timer.Restart(now)
	l.group.send(fwd)
}

// receivedTalkerResponse completes the forwarded command answered by h.
// It returns false when h does not answer it.
func (l *Listener) receivedTalkerResponse(h wire.ACMPHeader, now uint32) bool {
	if !l.inFlight ||
		h.MessageType != l.forwarded.MessageType.Response() ||
		h.SequenceID != l.forwarded.SequenceID ||
		h.TalkerEntityID != l.forwarded.TalkerEntityID ||
		h.TalkerUniqueID != l.forwarded.TalkerUniqueID {
		return false
	}
	l.inFlight = false
	l.timer.Stop()

	r := response(l.request, h.Status)
	if h.MessageType == wire.ACMPConnectTXResponse {
		if h.Status.IsSuccess() {
			l.talker = TalkerPair{TalkerEntityID: h.TalkerEntityID, TalkerUniqueID: h.TalkerUniqueID}
			l.streamID = h.StreamID
			l.streamDestMAC = h.StreamDestMAC
			l.streamVLANID = h.StreamVLANID
			l.flags = l.request.Flags
			l.setState(ListenerConnected, now, "talker accepted")
			if l.events != nil {
				l.events.ListenerConnected(l.config.UniqueID, l.talker)
			}
		} else {
			l.setState(ListenerIdle, now, "talker refused: "+h.Status.String())
		}
		l.fill(&r)
		r.ConnectionCount = h.ConnectionCount
	} else {
		l.drop(now, "talker disconnected")
		l.fill(&r)
	}
	l.group.send(r)
	return true
}

// Tick retries the forwarded command once and then gives up with
// LISTENER_TALKER_TIMEOUT.
func (l *Listener) Tick(now uint32) {
	if !l.inFlight || !l.timer.Poll(now) {
		return
	}
	elapsed := timeout.Elapsed(now, l.timer.StartedAt())
	l.group.rec.Timeout(now, l.forwarded.TalkerEntityID, l.forwarded.MessageType.String(),
		l.forwarded.SequenceID, elapsed, !l.retried)

	if !l.retried {
		l.retried = true
		l.timer.Restart(now)
		l.group.send(l.forwarded)
		return
	}

	l.inFlight = false
	r := response(l.request, wire.ACMPStatusListenerTalkerTimeout)
	if l.forwarded.MessageType == wire.ACMPConnectTXCommand {
		l.setState(ListenerIdle, now, "talker timeout")
	} else {
		l.drop(now, "talker timeout")
	}
	l.fill(&r)
	l.group.send(r)
}

// drop forgets the connection.
func (l *Listener) drop(now uint32, reason string) {
	talker := l.talker
	wasConnected := l.connected()
	l.talker = TalkerPair{}
	l.streamID = eui.Eui64{}
	l.streamDestMAC = eui.Eui48{}
	l.streamVLANID = 0
	l.flags = 0
	l.setState(ListenerIdle, now, reason)
	if wasConnected && l.events != nil {
		l.events.ListenerDisconnected(l.config.UniqueID, talker)
	}
}

func (l *Listener) setState(s ListenerState, now uint32, reason string) {
	if s == l.state {
		return
	}
	old := l.state
	l.state = s
	if l.group != nil {
		l.group.debugLog("acmp: listener state changed",
			"unique_id", l.config.UniqueID, "from", old, "to", s, "reason", reason)
		l.group.rec.State(now, log.StateEntityConnection, old.String(), s.String(),
			fmt.Sprintf("listener %d: %s", l.config.UniqueID, reason))
	}
}

// ListenerGroup holds the listeners of one entity.
type ListenerGroup struct {
	port      network.Port
	entityID  eui.Eui64
	config    GroupConfig
	listeners []*Listener
	rec       *log.Recorder
	seq       uint16

	// scratch builds frames the group originates.
	scratch wire.Frame
}

// NewListenerGroup creates an empty group for entityID.
func NewListenerGroup(port network.Port, entityID eui.Eui64, config GroupConfig) *ListenerGroup {
	if config.Capacity <= 0 {
		config.Capacity = DefaultGroupCapacity
	}
	return &ListenerGroup{
		port:      port,
		entityID:  entityID,
		config:    config,
		listeners: make([]*Listener, 0, config.Capacity),
		rec: &log.Recorder{
			Logger:    config.ProtocolLogger,
			SessionID: config.SessionID,
			Role:      log.RoleListener,
			EntityID:  entityID,
		},
	}
}

// Add adds l to the group.
func (g *ListenerGroup) Add(l *Listener) error {
	if _, ok := g.Listener(l.UniqueID()); ok {
		return fmt.Errorf("%w: listener %d", ErrDuplicateUniqueID, l.UniqueID())
	}
	if len(g.listeners) >= g.config.Capacity {
		return ErrGroupFull
	}
	l.group = g
	g.listeners = append(g.listeners, l)
	return nil
}

// Listener returns the listener with the given unique id.
func (g *ListenerGroup) Listener(uniqueID uint16) (*Listener, bool) {
	for _, l := range g.listeners {
		if l.UniqueID() == uniqueID {
			return l, true
		}
	}
	return nil, false
}

// Len returns the number of listeners.
func (g *ListenerGroup) Len() int {
	return len(g.listeners)
}

// Tick runs every listener's timers.
func (g *ListenerGroup) Tick(now uint32) {
	for _, l := range g.listeners {
		l.Tick(now)
	}
}

// ReceivedFrame implements handler.Handler.
func (g *ListenerGroup) ReceivedFrame(f *wire.Frame) bool {
	h, ok := wire.ParseACMP(f)
	if !ok {
		return false
	}
	return g.ReceivedACMP(f, h)
}

// ReceivedACMP handles listener commands and the talker responses to
// commands the group forwarded.
func (g *ListenerGroup) ReceivedACMP(f *wire.Frame, h wire.ACMPHeader) bool {
	if h.ListenerEntityID != g.entityID {
		return false
	}
	now := g.port.TimeMs()
	mt := h.MessageType

	if mt.IsTalkerResponse() {
		l, ok := g.Listener(h.ListenerUniqueID)
		return ok && l.receivedTalkerResponse(h, now)
	}
	if !mt.IsListenerCommand() {
		return false
	}
	l, ok := g.Listener(h.ListenerUniqueID)
	if !ok {
		g.respond(f, response(h, wire.ACMPStatusListenerUnknownID))
		return true
	}
	l.receivedCommand(f, h, now)
	return true
}

func (g *ListenerGroup) nextSequence() uint16 {
	s := g.seq
	g.seq++
	return s
}

// respond answers in place in the received frame.
func (g *ListenerGroup) respond(f *wire.Frame, r wire.ACMPHeader) {
	if !sendACMP(g.port, f, r) {
		g.rec.Error(g.port.TimeMs(), log.LayerEngine, "listener response not sent", r.MessageType.String())
	}
}

// send transmits h in the group's own frame.
func (g *ListenerGroup) send(h wire.ACMPHeader) {
	g.scratch.Reset()
	g.respond(&g.scratch, h)
}

func (g *ListenerGroup) debugLog(msg string, args ...any) {
	if g.config.Logger != nil {
		g.config.Logger.Debug(msg, args...)
	}
}
