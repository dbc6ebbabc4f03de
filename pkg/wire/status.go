package wire

import "strings"

// AEMStatus is the 5-bit status field of an AEM response.
type AEMStatus uint8

const (
	// AEMStatusSuccess indicates the command completed successfully.
	AEMStatusSuccess AEMStatus = 0

	// AEMStatusNotImplemented indicates the entity does not implement the command.
	AEMStatusNotImplemented AEMStatus = 1

	// AEMStatusNoSuchDescriptor indicates the addressed descriptor does not exist.
	AEMStatusNoSuchDescriptor AEMStatus = 2

	// AEMStatusEntityLocked indicates another controller holds the lock.
	AEMStatusEntityLocked AEMStatus = 3

	// AEMStatusEntityAcquired indicates another controller owns the entity.
	AEMStatusEntityAcquired AEMStatus = 4

	AEMStatusNotAuthenticated       AEMStatus = 5
	AEMStatusAuthenticationDisabled AEMStatus = 6

	// AEMStatusBadArguments indicates a malformed or out-of-range argument.
	AEMStatusBadArguments AEMStatus = 7

	// AEMStatusNoResources indicates a bounded table is full.
	AEMStatusNoResources AEMStatus = 8

	// AEMStatusInProgress indicates the final response will follow later.
	AEMStatusInProgress AEMStatus = 9

	AEMStatusEntityMisbehaving AEMStatus = 10
	AEMStatusNotSupported      AEMStatus = 11
	AEMStatusStreamIsRunning   AEMStatus = 12
)

// String returns the status name.
func (s AEMStatus) String() string {
	switch s {
	case AEMStatusSuccess:
		return "SUCCESS"
	case AEMStatusNotImplemented:
		return "NOT_IMPLEMENTED"
	case AEMStatusNoSuchDescriptor:
		return "NO_SUCH_DESCRIPTOR"
	case AEMStatusEntityLocked:
		return "ENTITY_LOCKED"
	case AEMStatusEntityAcquired:
		return "ENTITY_ACQUIRED"
	case AEMStatusNotAuthenticated:
		return "NOT_AUTHENTICATED"
	case AEMStatusAuthenticationDisabled:
		return "AUTHENTICATION_DISABLED"
	case AEMStatusBadArguments:
		return "BAD_ARGUMENTS"
	case AEMStatusNoResources:
		return "NO_RESOURCES"
	case AEMStatusInProgress:
		return "IN_PROGRESS"
	case AEMStatusEntityMisbehaving:
		return "ENTITY_MISBEHAVING"
	case AEMStatusNotSupported:
		return "NOT_SUPPORTED"
	case AEMStatusStreamIsRunning:
		return "STREAM_IS_RUNNING"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s AEMStatus) IsSuccess() bool {
	return s == AEMStatusSuccess
}

// AAStatus is the status field of an Address Access response.
type AAStatus uint8

const (
	AAStatusSuccess        AAStatus = 0
	AAStatusNotImplemented AAStatus = 1
	AAStatusAddressTooLow  AAStatus = 2
	AAStatusAddressTooHigh AAStatus = 3
	AAStatusAddressInvalid AAStatus = 4
	AAStatusTLVInvalid     AAStatus = 5
	AAStatusDataInvalid    AAStatus = 6
	AAStatusUnsupported    AAStatus = 7
)

// String returns the status name.
func (s AAStatus) String() string {
	switch s {
	case AAStatusSuccess:
		return "SUCCESS"
	case AAStatusNotImplemented:
		return "NOT_IMPLEMENTED"
	case AAStatusAddressTooLow:
		return "ADDRESS_TOO_LOW"
	case AAStatusAddressTooHigh:
		return "ADDRESS_TOO_HIGH"
	case AAStatusAddressInvalid:
		return "ADDRESS_INVALID"
	case AAStatusTLVInvalid:
		return "TLV_INVALID"
	case AAStatusDataInvalid:
		return "DATA_INVALID"
	case AAStatusUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s AAStatus) IsSuccess() bool {
	return s == AAStatusSuccess
}

// ACMPStatus is the status field of an ACMP response.
type ACMPStatus uint8

const (
	ACMPStatusSuccess                 ACMPStatus = 0
	ACMPStatusListenerUnknownID       ACMPStatus = 1
	ACMPStatusTalkerUnknownID         ACMPStatus = 2
	ACMPStatusTalkerDestMACFail       ACMPStatus = 3
	ACMPStatusTalkerNoStreamIndex     ACMPStatus = 4
	ACMPStatusTalkerNoBandwidth       ACMPStatus = 5
	ACMPStatusTalkerExclusive         ACMPStatus = 6
	ACMPStatusListenerTalkerTimeout   ACMPStatus = 7
	ACMPStatusListenerExclusive       ACMPStatus = 8
	ACMPStatusStateUnavailable        ACMPStatus = 9
	ACMPStatusNotConnected            ACMPStatus = 10
	ACMPStatusNoSuchConnection        ACMPStatus = 11
	ACMPStatusCouldNotSendMessage     ACMPStatus = 12
	ACMPStatusTalkerMisbehaving       ACMPStatus = 13
	ACMPStatusListenerMisbehaving     ACMPStatus = 14
	ACMPStatusControllerNotAuthorized ACMPStatus = 16
	ACMPStatusIncompatibleRequest     ACMPStatus = 17
	ACMPStatusNotSupported            ACMPStatus = 31
)

// ACMPStatusNoResources is reported by a talker whose listener table is
// full. ACMP has no dedicated code for it.
const ACMPStatusNoResources = ACMPStatusTalkerNoBandwidth

// String returns the status name.
func (s ACMPStatus) String() string {
	switch s {
	case ACMPStatusSuccess:
		return "SUCCESS"
	case ACMPStatusListenerUnknownID:
		return "LISTENER_UNKNOWN_ID"
	case ACMPStatusTalkerUnknownID:
		return "TALKER_UNKNOWN_ID"
	case ACMPStatusTalkerDestMACFail:
		return "TALKER_DEST_MAC_FAIL"
	case ACMPStatusTalkerNoStreamIndex:
		return "TALKER_NO_STREAM_INDEX"
	case ACMPStatusTalkerNoBandwidth:
		return "TALKER_NO_BANDWIDTH"
	case ACMPStatusTalkerExclusive:
		return "TALKER_EXCLUSIVE"
	case ACMPStatusListenerTalkerTimeout:
		return "LISTENER_TALKER_TIMEOUT"
	case ACMPStatusListenerExclusive:
		return "LISTENER_EXCLUSIVE"
	case ACMPStatusStateUnavailable:
		return "STATE_UNAVAILABLE"
	case ACMPStatusNotConnected:
		return "NOT_CONNECTED"
	case ACMPStatusNoSuchConnection:
		return "NO_SUCH_CONNECTION"
	case ACMPStatusCouldNotSendMessage:
		return "COULD_NOT_SEND_MESSAGE"
	case ACMPStatusTalkerMisbehaving:
		return "TALKER_MISBEHAVING"
	case ACMPStatusListenerMisbehaving:
		return "LISTENER_MISBEHAVING"
	case ACMPStatusControllerNotAuthorized:
		return "CONTROLLER_NOT_AUTHORIZED"
	case ACMPStatusIncompatibleRequest:
		return "INCOMPATIBLE_REQUEST"
	case ACMPStatusNotSupported:
		return "NOT_SUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// IsSuccess returns true if the status indicates success.
func (s ACMPStatus) IsSuccess() bool {
	return s == ACMPStatusSuccess
}

// ParseAEMStatus accepts a status name such as "ENTITY_ACQUIRED".
func ParseAEMStatus(s string) (AEMStatus, bool) {
	s = strings.TrimSpace(s)
	for v := AEMStatus(0); v < 32; v++ {
		if name := v.String(); name != "UNKNOWN" && strings.EqualFold(s, name) {
			return v, true
		}
	}
	return 0, false
}

// ParseACMPStatus accepts a status name such as "LISTENER_EXCLUSIVE".
func ParseACMPStatus(s string) (ACMPStatus, bool) {
	s = strings.TrimSpace(s)
	for v := ACMPStatus(0); v < 32; v++ {
		if name := v.String(); name != "UNKNOWN" && strings.EqualFold(s, name) {
			return v, true
		}
	}
	return 0, false
}
