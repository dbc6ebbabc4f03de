package acmp

import (
	"log/slog"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/timeout"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger receives timeout events (optional).
	ProtocolLogger log.Logger

	// SessionID tags protocol log events.
	SessionID string
}

// Controller is the ACMP controller role. It sends one command at a time
// and matches the response by message type and sequence id.
type Controller struct {
	port     network.Port
	entityID eui.Eui64
	config   ControllerConfig
	rec      *log.Recorder

	inFlight bool
	sent     wire.ACMPHeader
	seq      uint16
	timer    *timeout.Timer
	frame    wire.Frame

	onResponse func(h wire.ACMPHeader)
	onTimeout  func(sent wire.ACMPHeader)
}

// NewController creates the ACMP controller role of entityID.
func NewController(port network.Port, entityID eui.Eui64, config ControllerConfig) *Controller {
	return &Controller{
		port:     port,
		entityID: entityID,
		config:   config,
		rec: &log.Recorder{
			Logger:    config.ProtocolLogger,
			SessionID: config.SessionID,
			Role:      log.RoleController,
			EntityID:  entityID,
		},
		timer: timeout.NewTimer(wire.ACMPConnectRXTimeoutMs),
	}
}

// OnResponse sets the callback for the response to the command in flight.
func (c *Controller) OnResponse(fn func(h wire.ACMPHeader)) {
	c.onResponse = fn
}

// OnTimeout sets the callback for a command that was not answered in time.
func (c *Controller) OnTimeout(fn func(sent wire.ACMPHeader)) {
	c.onTimeout = fn
}

// CanSendCommand reports whether no command is in flight.
func (c *Controller) CanSendCommand() bool {
	return !c.inFlight
}

// ConnectRX asks listener to connect to talker.
func (c *Controller) ConnectRX(talker TalkerPair, listener ListenerPair, flags uint16) error {
	return c.Send(wire.ACMPHeader{
		MessageType:      wire.ACMPConnectRXCommand,
		TalkerEntityID:   talker.TalkerEntityID,
		TalkerUniqueID:   talker.TalkerUniqueID,
		ListenerEntityID: listener.ListenerEntityID,
		ListenerUniqueID: listener.ListenerUniqueID,
		Flags:            flags,
	})
}

// DisconnectRX asks listener to disconnect from talker.
func (c *Controller) DisconnectRX(talker TalkerPair, listener ListenerPair) error {
	return c.Send(wire.ACMPHeader{
		MessageType:      wire.ACMPDisconnectRXCommand,
		TalkerEntityID:   talker.TalkerEntityID,
		TalkerUniqueID:   talker.TalkerUniqueID,
		ListenerEntityID: listener.ListenerEntityID,
		ListenerUniqueID: listener.ListenerUniqueID,
	})
}

// GetRXState asks a listener for its connection.
func (c *Controller) GetRXState(listener ListenerPair) error {
	return c.Send(wire.ACMPHeader{
		MessageType:      wire.ACMPGetRXStateCommand,
		ListenerEntityID: listener.ListenerEntityID,
		ListenerUniqueID: listener.ListenerUniqueID,
	})
}

// GetTXState asks a talker for its stream and connection count.
func (c *Controller) GetTXState(talker TalkerPair) error {
	return c.Send(wire.ACMPHeader{
		MessageType:    wire.ACMPGetTXStateCommand,
		TalkerEntityID: talker.TalkerEntityID,
		TalkerUniqueID: talker.TalkerUniqueID,
	})
}

// GetTXConnection asks a talker for its index'th connected listener.
func (c *Controller) GetTXConnection(talker TalkerPair, index uint16) error {
	return c.Send(wire.ACMPHeader{
		MessageType:     wire.ACMPGetTXConnectionCommand,
		TalkerEntityID:  talker.TalkerEntityID,
		TalkerUniqueID:  talker.TalkerUniqueID,
		ConnectionCount: index,
	})
}

// Send stamps h with this controller's id and the next sequence id and
// multicasts it.
func (c *Controller) Send(h wire.ACMPHeader) error {
	if c.inFlight {
		return ErrCommandInFlight
	}
	timeoutMs := h.MessageType.TimeoutMs()
	if timeoutMs == 0 {
		return ErrNotCommand
	}
	h.ControllerEntityID = c.entityID
	h.SequenceID = c.seq
	h.Status = wire.ACMPStatusSuccess

	c.frame.Reset()
	if !sendACMP(c.port, &c.frame, h) {
		return ErrSendFailed
	}
	c.seq++
	c.inFlight = true
	c.sent = h
	_ = c.timer.SetDuration(timeoutMs)
	c.timer.Restart(c.port.TimeMs())
	c.debugLog("acmp: command sent", "type", h.MessageType, "seq", h.SequenceID)
	return nil
}

// Tick expires the command in flight.
func (c *Controller) Tick(now uint32) {
	if !c.inFlight || !c.timer.Poll(now) {
		return
	}
	c.inFlight = false
	sent := c.sent
	target := sent.ListenerEntityID
	if sent.MessageType.IsTalkerCommand() {
		target = sent.TalkerEntityID
	}
	c.rec.Timeout(now, target, sent.MessageType.String(), sent.SequenceID,
		timeout.Elapsed(now, c.timer.StartedAt()), false)
	if c.onTimeout != nil {
		c.onTimeout(sent)
	}
}

// ReceivedFrame implements handler.Handler.
func (c *Controller) ReceivedFrame(f *wire.Frame) bool {
	h, ok := wire.ParseACMP(f)
	if !ok {
		return false
	}
	return c.ReceivedACMP(f, h)
}

// ReceivedACMP consumes the response to the command in flight. Other
// responses, including talker responses to a listener's forwarded command,
// are left for other roles.
func (c *Controller) ReceivedACMP(_ *wire.Frame, h wire.ACMPHeader) bool {
	if !c.inFlight ||
		h.ControllerEntityID != c.entityID ||
		h.MessageType != c.sent.MessageType.Response() ||
		h.SequenceID != c.sent.SequenceID {
		return false
	}
	c.inFlight = false
	c.timer.Stop()
	c.debugLog("acmp: response", "type", h.MessageType, "status", h.Status, "seq", h.SequenceID)
	if c.onResponse != nil {
		c.onResponse(h)
	}
	return true
}

func (c *Controller) debugLog(msg string, args ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, args...)
	}
}
