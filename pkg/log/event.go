package log

import "time"

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event was recorded (wall clock).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the process run that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates frame flow. Zero for events that are not frames.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// LocalRole is the protocol role of the local object that logged the event.
	LocalRole Role `cbor:"6,keyasint,omitempty"`

	// PeerMAC is the remote Ethernet address, if known.
	PeerMAC string `cbor:"7,keyasint,omitempty"`

	// EntityID is the local entity id.
	EntityID string `cbor:"8,keyasint,omitempty"`

	// Tick is the protocol millisecond clock at the time of the event.
	Tick uint32 `cbor:"9,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Raw Ethernet frame
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"` // Decoded AEM/AA/ACMP header
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Ownership, lock, connection
	Timeout     *TimeoutEvent     `cbor:"13,keyasint,omitempty"` // Command timeouts
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of frame flow.
type Direction uint8

const (
	// DirectionIn indicates a received frame.
	DirectionIn Direction = 0
	// DirectionOut indicates a transmitted frame.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerFrame is the raw Ethernet frame.
	LayerFrame Layer = 0
	// LayerMessage is the decoded AVDECC PDU.
	LayerMessage Layer = 1
	// LayerEngine is the entity, controller or ACMP state machine.
	LayerEngine Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerFrame:
		return "FRAME"
	case LayerMessage:
		return "MESSAGE"
	case LayerEngine:
		return "ENGINE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a protocol message (command/response/unsolicited).
	CategoryMessage Category = 0
	// CategoryTimeout indicates a tracked command expired.
	CategoryTimeout Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryTimeout:
		return "TIMEOUT"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role indicates the protocol role of the local object.
type Role uint8

const (
	RoleUnspecified Role = 0
	RoleEntity      Role = 1
	RoleController  Role = 2
	RoleTalker      Role = 3
	RoleListener    Role = 4
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleUnspecified:
		return "UNSPECIFIED"
	case RoleEntity:
		return "ENTITY"
	case RoleController:
		return "CONTROLLER"
	case RoleTalker:
		return "TALKER"
	case RoleListener:
		return "LISTENER"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures a raw Ethernet frame.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded AVDECC PDU header.
type MessageEvent struct {
	// Protocol is the AVDECC sub-protocol.
	Protocol Protocol `cbor:"1,keyasint"`

	// MessageType is the raw 4-bit message_type.
	MessageType uint8 `cbor:"2,keyasint"`

	// Name is the message or command name, e.g. "READ_DESCRIPTOR".
	Name string `cbor:"3,keyasint,omitempty"`

	// Response is true for response message types.
	Response bool `cbor:"4,keyasint,omitempty"`

	// Unsolicited is true for unsolicited AEM responses.
	Unsolicited bool `cbor:"5,keyasint,omitempty"`

	SequenceID uint16 `cbor:"6,keyasint"`

	// Status is the raw status field and StatusName its decoded name.
	Status     uint8  `cbor:"7,keyasint,omitempty"`
	StatusName string `cbor:"8,keyasint,omitempty"`

	// TargetID is the AECP target or ACMP stream id.
	TargetID     string `cbor:"9,keyasint,omitempty"`
	ControllerID string `cbor:"10,keyasint,omitempty"`
	TalkerID     string `cbor:"11,keyasint,omitempty"`
	ListenerID   string `cbor:"12,keyasint,omitempty"`

	TalkerUniqueID   *uint16 `cbor:"13,keyasint,omitempty"`
	ListenerUniqueID *uint16 `cbor:"14,keyasint,omitempty"`
}

// Protocol identifies an AVDECC sub-protocol.
type Protocol uint8

const (
	ProtocolUnknown Protocol = 0
	ProtocolAEM     Protocol = 1
	ProtocolAA      Protocol = 2
	ProtocolACMP    Protocol = 3
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtocolAEM:
		return "AEM"
	case ProtocolAA:
		return "AA"
	case ProtocolACMP:
		return "ACMP"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures ownership, lock, registration and stream
// connection changes.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	// StateEntityAcquire indicates an ownership change or dispute.
	StateEntityAcquire StateEntity = 0
	// StateEntityLock indicates a lock change.
	StateEntityLock StateEntity = 1
	// StateEntityRegistration indicates a controller (de)registration.
	StateEntityRegistration StateEntity = 2
	// StateEntityConnection indicates an ACMP stream connection change.
	StateEntityConnection StateEntity = 3
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityAcquire:
		return "ACQUIRE"
	case StateEntityLock:
		return "LOCK"
	case StateEntityRegistration:
		return "REGISTRATION"
	case StateEntityConnection:
		return "CONNECTION"
	default:
		return "UNKNOWN"
	}
}

// TimeoutEvent captures an expired tracked command.
type TimeoutEvent struct {
	TargetID   string `cbor:"1,keyasint"`
	Name       string `cbor:"2,keyasint"`
	SequenceID uint16 `cbor:"3,keyasint"`
	ElapsedMs  uint32 `cbor:"4,keyasint"`
	Retried    bool   `cbor:"5,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
