package controller

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/timeout"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// Controller errors.
var (
	ErrInvalidConfig   = errors.New("invalid controller configuration")
	ErrCommandInFlight = errors.New("a command is already in flight")
	ErrSendFailed      = errors.New("port rejected frame")
)

// Config configures a Controller.
type Config struct {
	// EntityID is the controller's own entity id.
	EntityID eui.Eui64

	// CommandTimeoutMs is how long a command waits for its response.
	CommandTimeoutMs uint32

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives timeout events (optional).
	ProtocolLogger log.Logger

	// SessionID tags protocol log events.
	SessionID string
}

// DefaultConfig returns a Config with the IEEE 1722.1 AEM timeout.
func DefaultConfig() Config {
	return Config{
		EntityID:         eui.Unset64(),
		CommandTimeoutMs: wire.AEMCommandTimeoutMs,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.EntityID.IsUnset() || c.EntityID.IsZero() {
		return fmt.Errorf("%w: entity id not set", ErrInvalidConfig)
	}
	if c.CommandTimeoutMs == 0 {
		return fmt.Errorf("%w: zero command timeout", ErrInvalidConfig)
	}
	return nil
}

// Response is a decoded AEM response.
type Response struct {
	Header wire.AEMHeader

	// Payload is a copy of the command specific octets.
	Payload []byte
}

// Status returns the response status.
func (r Response) Status() wire.AEMStatus {
	return r.Header.Status
}

// ResponseHandler receives what the controller hears back.
type ResponseHandler interface {
	// CommandResponse is called with the response to the command in flight.
	CommandResponse(r Response)

	// UnsolicitedResponse is called for every unsolicited notification
	// addressed to this controller.
	UnsolicitedResponse(r Response)

	// CommandTimedOut is called when the command in flight got no answer.
	CommandTimedOut(target eui.Eui64, ct wire.AEMCommandType, seq uint16)
}

type tracked struct {
	inFlight    bool
	target      eui.Eui64
	commandType wire.AEMCommandType
	sequenceID  uint16
}

// Controller is the AEM client role.
type Controller struct {
	port    network.Port
	config  Config
	handler ResponseHandler
	rec     *log.Recorder

	cmd     tracked
	timer   *timeout.Timer
	nextSeq uint16
	frame   wire.Frame
}

// New creates a controller sending on port. handler may be nil.
func New(port network.Port, handler ResponseHandler, config Config) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		port:    port,
		config:  config,
		handler: handler,
		rec: &log.Recorder{
			Logger:    config.ProtocolLogger,
			SessionID: config.SessionID,
			Role:      log.RoleController,
			EntityID:  config.EntityID,
		},
		timer: timeout.NewTimer(config.CommandTimeoutMs),
	}, nil
}

// EntityID returns the controller's entity id.
func (c *Controller) EntityID() eui.Eui64 {
	return c.config.EntityID
}

// SetHandler replaces the response handler.
func (c *Controller) SetHandler(h ResponseHandler) {
	c.handler = h
}

// CanSendCommand reports whether no command is in flight.
func (c *Controller) CanSendCommand() bool {
	return !c.cmd.inFlight
}

// InFlight returns the target, type and sequence id of the command in
// flight. ok is false when there is none.
func (c *Controller) InFlight() (target eui.Eui64, ct wire.AEMCommandType, seq uint16, ok bool) {
	return c.cmd.target, c.cmd.commandType, c.cmd.sequenceID, c.cmd.inFlight
}

// SendCommand sends an AEM command of type ct with payload to target at
// mac and returns its sequence id.
func (c *Controller) SendCommand(target eui.Eui64, mac eui.Eui48, ct wire.AEMCommandType, payload ...[]byte) (uint16, error) {
	if c.cmd.inFlight {
		return 0, ErrCommandInFlight
	}
	seq := c.nextSeq
	f := &c.frame
	f.Reset()
	f.SetEthernetHeader(mac, c.port.MACAddress(), wire.AVTPEtherType)
	ok := wire.WriteAEMHeader(f, wire.AEMHeader{
		MessageType:        wire.AECPAEMCommand,
		TargetEntityID:     target,
		ControllerEntityID: c.config.EntityID,
		SequenceID:         seq,
		CommandType:        ct,
	})
	for _, p := range payload {
		ok = ok && f.PutBytes(p)
	}
	if !ok || !wire.SetControlDataLength(f) {
		return 0, wire.ErrFrameOverflow
	}
	if !c.port.SendFrame(f) {
		return 0, ErrSendFailed
	}

	c.nextSeq++
	c.cmd = tracked{inFlight: true, target: target, commandType: ct, sequenceID: seq}
	c.timer.Restart(c.port.TimeMs())
	c.debugLog("controller: command sent", "target", target, "command", ct, "seq", seq)
	return seq, nil
}

// Tick expires the command in flight.
func (c *Controller) Tick(now uint32) {
	if !c.cmd.inFlight || !c.timer.Poll(now) {
		return
	}
	cmd := c.cmd
	c.cmd.inFlight = false
	c.rec.Timeout(now, cmd.target, cmd.commandType.String(), cmd.sequenceID,
		timeout.Elapsed(now, c.timer.StartedAt()), false)
	c.debugLog("controller: command timed out", "target", cmd.target, "command", cmd.commandType, "seq", cmd.sequenceID)
	if c.handler != nil {
		c.handler.CommandTimedOut(cmd.target, cmd.commandType, cmd.sequenceID)
	}
}

// ReceivedFrame handles AEM responses addressed to this controller and
// AEM commands targeting it. It returns false for anything else.
func (c *Controller) ReceivedFrame(f *wire.Frame) bool {
	h, ok := wire.ParseAEM(f)
	if !ok {
		return false
	}
	id := c.config.EntityID
	switch {
	case wire.IsAEMForController(h, id):
		c.receivedResponse(f, h)
		return true
	case wire.IsAEMForTarget(h, id):
		c.receivedCommand(f, h)
		return true
	}
	return false
}

func (c *Controller) receivedResponse(f *wire.Frame, h wire.AEMHeader) {
	if h.Unsolicited {
		if c.handler != nil {
			c.handler.UnsolicitedResponse(newResponse(f, h))
		}
		return
	}
	if !c.cmd.inFlight ||
		c.cmd.target != h.TargetEntityID ||
		c.cmd.commandType != h.CommandType ||
		c.cmd.sequenceID != h.SequenceID {
		c.debugLog("controller: dropping unmatched response",
			"target", h.TargetEntityID, "command", h.CommandType, "seq", h.SequenceID)
		return
	}
	if h.Status == wire.AEMStatusInProgress {
		// The final response follows; wait a full timeout for it.
		c.timer.Restart(c.port.TimeMs())
		c.debugLog("controller: command in progress", "target", h.TargetEntityID, "seq", h.SequenceID)
		return
	}
	c.cmd.inFlight = false
	c.timer.Stop()
	if c.handler != nil {
		c.handler.CommandResponse(newResponse(f, h))
	}
}

// receivedCommand answers CONTROLLER_AVAILABLE so entities arbitrating an
// acquire see this controller as present. Anything else is not
// implemented by a controller.
func (c *Controller) receivedCommand(f *wire.Frame, h wire.AEMHeader) {
	status := wire.AEMStatusNotImplemented
	if h.CommandType == wire.CmdControllerAvailable {
		status = wire.AEMStatusSuccess
	}
	end := wire.PayloadOffset + wire.CommonHeaderLen + int(h.ControlDataLength)
	if !f.SetLen(end) || !wire.SetAEMReply(f, status) {
		return
	}
	c.port.SendReplyFrame(f)
}

func newResponse(f *wire.Frame, h wire.AEMHeader) Response {
	p, _ := f.BytesAt(wire.AEMPayloadOffset(), h.PayloadLen())
	return Response{Header: h, Payload: append([]byte(nil), p...)}
}

func (c *Controller) debugLog(msg string, args ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, args...)
	}
}
