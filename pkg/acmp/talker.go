package acmp

import (
	"fmt"
	"log/slog"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// TalkerState records the last command a talker handled. Commands are
// answered synchronously, so a talker never waits inside one of these
// states; WAITING means no command or an unsupported one was seen last.
type TalkerState uint8

const (
	TalkerWaiting TalkerState = iota
	TalkerConnect
	TalkerDisconnect
	TalkerGetState
	TalkerGetConnection
)

// String returns the state name.
func (s TalkerState) String() string {
	switch s {
	case TalkerWaiting:
		return "WAITING"
	case TalkerConnect:
		return "CONNECT"
	case TalkerDisconnect:
		return "DISCONNECT"
	case TalkerGetState:
		return "GET_STATE"
	case TalkerGetConnection:
		return "GET_CONNECTION"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

// TalkerConfig configures one talker unique id.
type TalkerConfig struct {
	UniqueID uint16

	// MaxListeners bounds the connected listeners. Further connects are
	// answered with wire.ACMPStatusNoResources.
	MaxListeners int

	StreamID      eui.Eui64
	StreamDestMAC eui.Eui48
	StreamVLANID  uint16
}

// DefaultTalkerConfig returns a config for unique id 0.
func DefaultTalkerConfig() TalkerConfig {
	return TalkerConfig{MaxListeners: DefaultMaxListeners}
}

// Validate checks the configuration.
func (c *TalkerConfig) Validate() error {
	if c.MaxListeners <= 0 {
		return fmt.Errorf("%w: talker %d max listeners %d", ErrInvalidConfig, c.UniqueID, c.MaxListeners)
	}
	return nil
}

// Talker is the talker state machine of one stream source.
type Talker struct {
	config TalkerConfig
	state  TalkerState
	pairs  []ListenerPair
	events TalkerEvents
}

// NewTalker creates a talker with no connected listeners.
func NewTalker(config TalkerConfig) (*Talker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Talker{
		config: config,
		pairs:  make([]ListenerPair, 0, config.MaxListeners),
	}, nil
}

// UniqueID returns the talker unique id.
func (t *Talker) UniqueID() uint16 {
	return t.config.UniqueID
}

// State returns the last command handled.
func (t *Talker) State() TalkerState {
	return t.state
}

// SetEvents sets the connection event receiver.
func (t *Talker) SetEvents(ev TalkerEvents) {
	t.events = ev
}

// ConnectionCount returns the number of connected listeners.
func (t *Talker) ConnectionCount() int {
	return len(t.pairs)
}

// Listeners returns a copy of the connected listeners. Order is not
// significant; removal reorders.
func (t *Talker) Listeners() []ListenerPair {
	return append([]ListenerPair(nil), t.pairs...)
}

// IsConnected reports whether p is connected.
func (t *Talker) IsConnected(p ListenerPair) bool {
	return t.find(p) >= 0
}

func (t *Talker) find(p ListenerPair) int {
	for i, q := range t.pairs {
		if q == p {
			return i
		}
	}
	return -1
}

// Handle applies the talker command h and returns the response header.
// GET_TX_STATE and GET_TX_CONNECTION never change the connections.
func (t *Talker) Handle(h wire.ACMPHeader) wire.ACMPHeader {
	pair := ListenerPair{ListenerEntityID: h.ListenerEntityID, ListenerUniqueID: h.ListenerUniqueID}
	r := response(h, wire.ACMPStatusSuccess)

	switch h.MessageType {
	case wire.ACMPConnectTXCommand:
		t.state = TalkerConnect
		r.Status = t.connect(pair)
	case wire.ACMPDisconnectTXCommand:
		t.state = TalkerDisconnect
		t.disconnect(pair)
	case wire.ACMPGetTXStateCommand:
		t.state = TalkerGetState
	case wire.ACMPGetTXConnectionCommand:
		t.state = TalkerGetConnection
		// connection_count carries the index being asked for.
		i := int(h.ConnectionCount)
		if i >= len(t.pairs) {
			r.Status = wire.ACMPStatusNoSuchConnection
		} else {
			r.ListenerEntityID = t.pairs[i].ListenerEntityID
			r.ListenerUniqueID = t.pairs[i].ListenerUniqueID
		}
	default:
		t.state = TalkerWaiting
		r.Status = wire.ACMPStatusNotSupported
	}

	r.StreamID = t.config.StreamID
	r.StreamDestMAC = t.config.StreamDestMAC
	r.StreamVLANID = t.config.StreamVLANID
	r.ConnectionCount = uint16(len(t.pairs))
	return r
}

func (t *Talker) connect(p ListenerPair) wire.ACMPStatus {
	if t.find(p) >= 0 {
		return wire.ACMPStatusSuccess
	}
	if len(t.pairs) >= t.config.MaxListeners {
		return wire.ACMPStatusNoResources
	}
	t.pairs = append(t.pairs, p)
	if t.events != nil {
		t.events.TalkerConnected(t.config.UniqueID, p)
	}
	return wire.ACMPStatusSuccess
}

// disconnect removes p by moving the last pair into its slot. A listener
// that is not connected is already disconnected.
func (t *Talker) disconnect(p ListenerPair) {
	i := t.find(p)
	if i < 0 {
		return
	}
	last := len(t.pairs) - 1
	t.pairs[i] = t.pairs[last]
	t.pairs[last] = ListenerPair{}
	t.pairs = t.pairs[:last]
	if t.events != nil {
		t.events.TalkerDisconnected(t.config.UniqueID, p)
	}
}

// GroupConfig configures a TalkerGroup or ListenerGroup.
type GroupConfig struct {
	// Capacity bounds the number of unique ids.
	Capacity int

	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger receives connection state events (optional).
	ProtocolLogger log.Logger

	// SessionID tags protocol log events.
	SessionID string
}

// DefaultGroupConfig returns the default group configuration.
func DefaultGroupConfig() GroupConfig {
	return GroupConfig{Capacity: DefaultGroupCapacity}
}

// TalkerGroup holds the talkers of one entity and answers talker commands
// addressed to it.
type TalkerGroup struct {
	port     network.Port
	entityID eui.Eui64
	config   GroupConfig
	talkers  []*Talker
	rec      *log.Recorder
}

// NewTalkerGroup creates an empty group for entityID.
func NewTalkerGroup(port network.Port, entityID eui.Eui64, config GroupConfig) *TalkerGroup {
	if config.Capacity <= 0 {
		config.Capacity = DefaultGroupCapacity
	}
	return &TalkerGroup{
		port:     port,
		entityID: entityID,
		config:   config,
		talkers:  make([]*Talker, 0, config.Capacity),
		rec: &log.Recorder{
			Logger:    config.ProtocolLogger,
			SessionID: config.SessionID,
			Role:      log.RoleTalker,
			EntityID:  entityID,
		},
	}
}

// Add adds t to the group.
func (g *TalkerGroup) Add(t *Talker) error {
	if _, ok := g.Talker(t.UniqueID()); ok {
		return fmt.Errorf("%w: talker %d", ErrDuplicateUniqueID, t.UniqueID())
	}
	if len(g.talkers) >= g.config.Capacity {
		return ErrGroupFull
	}
	g.talkers = append(g.talkers, t)
	return nil
}

// Talker returns the talker with the given unique id.
func (g *TalkerGroup) Talker(uniqueID uint16) (*Talker, bool) {
	for _, t := range g.talkers {
		if t.UniqueID() == uniqueID {
			return t, true
		}
	}
	return nil, false
}

// Len returns the number of talkers.
func (g *TalkerGroup) Len() int {
	return len(g.talkers)
}

// Tick implements handler.Handler. Talkers have no timers.
func (g *TalkerGroup) Tick(uint32) {}

// ReceivedFrame implements handler.Handler.
func (g *TalkerGroup) ReceivedFrame(f *wire.Frame) bool {
	h, ok := wire.ParseACMP(f)
	if !ok {
		return false
	}
	return g.ReceivedACMP(f, h)
}

// ReceivedACMP answers a talker command addressed to this entity. The
// response is written into f and multicast.
func (g *TalkerGroup) ReceivedACMP(f *wire.Frame, h wire.ACMPHeader) bool {
	if !h.MessageType.IsTalkerCommand() || h.TalkerEntityID != g.entityID {
		return false
	}
	now := g.port.TimeMs()

	var r wire.ACMPHeader
	t, ok := g.Talker(h.TalkerUniqueID)
	if !ok {
		r = response(h, wire.ACMPStatusTalkerUnknownID)
	} else {
		before := t.ConnectionCount()
		r = t.Handle(h)
		if after := t.ConnectionCount(); after != before {
			g.debugLog("acmp: talker connections changed",
				"unique_id", t.UniqueID(), "listener", h.ListenerEntityID, "count", after)
			g.rec.State(now, log.StateEntityConnection,
				connectionLabel(before), connectionLabel(after),
				fmt.Sprintf("talker %d listener %s/%d", t.UniqueID(), h.ListenerEntityID, h.ListenerUniqueID))
		}
	}

	if !sendACMP(g.port, f, r) {
		g.rec.Error(now, log.LayerEngine, "talker response not sent", r.MessageType.String())
	}
	return true
}

func (g *TalkerGroup) debugLog(msg string, args ...any) {
	if g.config.Logger != nil {
		g.config.Logger.Debug(msg, args...)
	}
}

func connectionLabel(n int) string {
	if n == 0 {
		return "DISCONNECTED"
	}
	return fmt.Sprintf("CONNECTED(%d)", n)
}
