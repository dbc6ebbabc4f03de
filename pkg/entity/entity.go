package entity

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/subscription"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/timeout"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// Entity errors.
var (
	ErrInvalidConfig   = errors.New("invalid entity configuration")
	ErrCommandInFlight = errors.New("a tracked command is already in flight")
	ErrNotCommand      = errors.New("frame is not an AEM command")
	ErrSendFailed      = errors.New("port rejected frame")
)

// Config configures an Entity.
type Config struct {
	// EntityID is the entity's own EUI-64. It must be set.
	EntityID eui.Eui64

	// MaxRegisteredControllers bounds the unsolicited notification table.
	MaxRegisteredControllers int

	// CommandTimeoutMs is how long an outgoing command, including the
	// CONTROLLER_AVAILABLE dispute probe, waits for its response.
	CommandTimeoutMs uint32

	// LockTimeoutMs is how long a LOCK_ENTITY lasts without refresh.
	LockTimeoutMs uint32

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives state, timeout and error events (optional).
	ProtocolLogger log.Logger

	// SessionID tags protocol log events.
	SessionID string
}

// DefaultConfig returns a Config with the IEEE 1722.1 timeouts. EntityID
// still has to be filled in.
func DefaultConfig() Config {
	return Config{
		EntityID:                 eui.Unset64(),
		MaxRegisteredControllers: subscription.DefaultMaxControllers,
		CommandTimeoutMs:         wire.AEMCommandTimeoutMs,
		LockTimeoutMs:            wire.LockTimeoutMs,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.EntityID.IsUnset() || c.EntityID.IsZero() {
		return fmt.Errorf("%w: entity id not set", ErrInvalidConfig)
	}
	if c.MaxRegisteredControllers <= 0 {
		return fmt.Errorf("%w: max registered controllers %d", ErrInvalidConfig, c.MaxRegisteredControllers)
	}
	if c.CommandTimeoutMs == 0 || c.LockTimeoutMs == 0 {
		return fmt.Errorf("%w: zero timeout", ErrInvalidConfig)
	}
	return nil
}

// ACMPHandler is an ACMP role attached to an entity.
type ACMPHandler interface {
	Tick(now uint32)
	ReceivedACMP(f *wire.Frame, h wire.ACMPHeader) bool
}

type trackedCommand struct {
	inFlight    bool
	target      eui.Eui64
	commandType wire.AEMCommandType
	sequenceID  uint16
}

func (c trackedCommand) matches(h wire.AEMHeader) bool {
	return c.inFlight &&
		c.target == h.TargetEntityID &&
		c.commandType == h.CommandType &&
		c.sequenceID == h.SequenceID
}

// dispute is an ACQUIRE_ENTITY waiting for the current owner to answer a
// CONTROLLER_AVAILABLE probe.
type dispute struct {
	requester    eui.Eui64
	requesterMAC eui.Eui48
	probed       eui.Eui64

	// request is the ACQUIRE_ENTITY command, answered when the dispute ends.
	request wire.Frame
}

// Entity is the responder side of one AVDECC entity.
type Entity struct {
	config   Config
	port     network.Port
	state    State
	registry *subscription.Registry
	rec      *log.Recorder
	logger   *slog.Logger

	acquiredBy    eui.Eui64
	acquiredByMAC eui.Eui48
	persistent    bool
	dispute       dispute

	lockedBy  eui.Eui64
	lockTimer *timeout.Timer

	cmd            trackedCommand
	cmdTimer       *timeout.Timer
	nextSeq        uint16
	unsolicitedSeq uint16

	// scratch holds responses that cannot be built in the request frame.
	scratch wire.Frame

	acmpController ACMPHandler
	talkers        ACMPHandler
	listeners      ACMPHandler

	onCommandTimeout func(target eui.Eui64, ct wire.AEMCommandType, seq uint16)
	onResponse       func(h wire.AEMHeader, f *wire.Frame)
}

// New creates an entity bound to port. A nil state uses BaseState.
func New(port network.Port, state State, config Config) (*Entity, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if state == nil {
		state = BaseState{}
	}

	e := &Entity{
		config: config,
		port:   port,
		state:  state,
		registry: subscription.NewRegistryWithConfig(subscription.Config{
			MaxControllers: config.MaxRegisteredControllers,
		}),
		rec: &log.Recorder{
			Logger:    config.ProtocolLogger,
			SessionID: config.SessionID,
			Role:      log.RoleEntity,
			EntityID:  config.EntityID,
		},
		logger:     config.Logger,
		acquiredBy: eui.Unset64(),
		lockedBy:   eui.Unset64(),
		lockTimer:  timeout.NewTimer(config.LockTimeoutMs),
		cmdTimer:   timeout.NewTimer(config.CommandTimeoutMs),
	}
	e.dispute.requester = eui.Unset64()
	e.dispute.probed = eui.Unset64()

	e.registry.OnChange(func(c subscription.Controller, registered bool) {
		newState := "UNREGISTERED"
		oldState := "REGISTERED"
		if registered {
			oldState, newState = newState, oldState
		}
		e.debugLog("entity: registration changed", "controller", c.EntityID, "registered", registered)
		e.rec.State(e.port.TimeMs(), log.StateEntityRegistration, oldState, newState, c.EntityID.String())
	})

	return e, nil
}

// EntityID returns the entity's id.
func (e *Entity) EntityID() eui.Eui64 {
	return e.config.EntityID
}

// Port returns the port the entity sends on.
func (e *Entity) Port() network.Port {
	return e.port
}

// State returns the delegate.
func (e *Entity) State() State {
	return e.state
}

// AcquiredBy returns the owning controller, or the unset id when free.
func (e *Entity) AcquiredBy() eui.Eui64 {
	return e.acquiredBy
}

// AcquireInProgressBy returns the controller whose ACQUIRE_ENTITY is being
// arbitrated, or the unset id.
func (e *Entity) AcquireInProgressBy() eui.Eui64 {
	return e.dispute.requester
}

// LockedBy returns the locking controller, or the unset id.
func (e *Entity) LockedBy() eui.Eui64 {
	return e.lockedBy
}

// Registered returns the registered controller table.
func (e *Entity) Registered() *subscription.Registry {
	return e.registry
}

// RegisteredCount returns the number of registered controllers.
func (e *Entity) RegisteredCount() int {
	return e.registry.Count()
}

// IsRegistered reports whether id receives unsolicited notifications.
func (e *Entity) IsRegistered(id eui.Eui64) bool {
	_, ok := e.registry.Find(id)
	return ok
}

// AttachController attaches the ACMP controller role.
func (e *Entity) AttachController(h ACMPHandler) {
	e.acmpController = h
}

// AttachTalkers attaches the ACMP talker role.
func (e *Entity) AttachTalkers(h ACMPHandler) {
	e.talkers = h
}

// AttachListeners attaches the ACMP listener role.
func (e *Entity) AttachListeners(h ACMPHandler) {
	e.listeners = h
}

// OnCommandTimeout sets the callback for tracked commands that received no
// response in time. It is not called for the dispute probe.
func (e *Entity) OnCommandTimeout(fn func(target eui.Eui64, ct wire.AEMCommandType, seq uint16)) {
	e.onCommandTimeout = fn
}

// OnResponse sets the callback for responses to commands this entity sent
// and for unsolicited responses addressed to it.
func (e *Entity) OnResponse(fn func(h wire.AEMHeader, f *wire.Frame)) {
	e.onResponse = fn
}

// Tick expires the lock and the tracked command and ticks the attached
// ACMP roles.
func (e *Entity) Tick(now uint32) {
	if e.lockTimer.Poll(now) {
		e.setLock(eui.Unset64(), now, "lock timeout")
	}

	if e.cmd.inFlight && e.cmdTimer.Poll(now) {
		c := e.cmd
		e.cmd.inFlight = false
		e.rec.Timeout(now, c.target, c.commandType.String(), c.sequenceID,
			timeout.Elapsed(now, e.cmdTimer.StartedAt()), false)

		if c.commandType == wire.CmdControllerAvailable && e.disputing() && c.target == e.dispute.probed {
			e.settleDispute(now, true)
		} else if e.onCommandTimeout != nil {
			e.onCommandTimeout(c.target, c.commandType, c.sequenceID)
		}
	}

	for _, h := range []ACMPHandler{e.acmpController, e.talkers, e.listeners} {
		if h != nil {
			h.Tick(now)
		}
	}
}

// ReceivedFrame handles AECP PDUs addressed to this entity and routes ACMP
// PDUs to the attached roles. It returns false for anything else.
func (e *Entity) ReceivedFrame(f *wire.Frame) bool {
	if f.EtherType() != wire.AVTPEtherType {
		return false
	}
	subtype, ok := f.Octet(wire.PayloadOffset + wire.OffSubtype)
	if !ok {
		return false
	}
	switch subtype {
	case wire.SubtypeAECP:
		return e.receivedAECP(f)
	case wire.SubtypeACMP:
		return e.receivedACMP(f)
	}
	return false
}

func (e *Entity) receivedAECP(f *wire.Frame) bool {
	if h, ok := wire.ParseAEM(f); ok {
		switch {
		case wire.IsAEMForTarget(h, e.config.EntityID):
			e.receivedCommand(f, h)
			return true
		case wire.IsAEMForController(h, e.config.EntityID):
			e.receivedResponse(f, h)
			return true
		}
		return false
	}
	if h, ok := wire.ParseAA(f); ok &&
		h.MessageType == wire.AECPAddressAccessCommand &&
		h.TargetEntityID == e.config.EntityID {
		e.receivedAA(f, h)
		return true
	}
	return false
}

// receivedACMP routes to the first role whose id and direction match and
// that handles the PDU: controller, then talker, then listener.
func (e *Entity) receivedACMP(f *wire.Frame) bool {
	h, ok := wire.ParseACMP(f)
	if !ok {
		return false
	}
	id := e.config.EntityID
	mt := h.MessageType

	if e.acmpController != nil && mt.IsResponse() && h.ControllerEntityID == id &&
		e.acmpController.ReceivedACMP(f, h) {
		return true
	}
	if e.talkers != nil && mt.IsTalkerCommand() && h.TalkerEntityID == id &&
		e.talkers.ReceivedACMP(f, h) {
		return true
	}
	if e.listeners != nil && (mt.IsListenerCommand() || mt.IsTalkerResponse()) && h.ListenerEntityID == id &&
		e.listeners.ReceivedACMP(f, h) {
		return true
	}
	return false
}

func (e *Entity) receivedResponse(f *wire.Frame, h wire.AEMHeader) {
	if h.Unsolicited {
		if e.onResponse != nil {
			e.onResponse(h, f)
		}
		return
	}
	if !e.cmd.matches(h) {
		e.debugLog("entity: dropping unmatched response",
			"target", h.TargetEntityID, "command", h.CommandType, "seq", h.SequenceID)
		return
	}
	e.cmd.inFlight = false
	e.cmdTimer.Stop()

	if h.CommandType == wire.CmdControllerAvailable && e.disputing() && h.TargetEntityID == e.dispute.probed {
		e.settleDispute(e.port.TimeMs(), false)
		return
	}
	if e.onResponse != nil {
		e.onResponse(h, f)
	}
}

func (e *Entity) debugLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
