package wire

import (
	"fmt"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
)

// AVTPEtherType is the IEEE 1722 ethertype.
const AVTPEtherType uint16 = 0x22F0

// MulticastMAC returns the AVDECC ADP/ACMP multicast address 91:E0:F0:01:00:00.
func MulticastMAC() eui.Eui48 {
	return eui.Eui48{0x91, 0xe0, 0xf0, 0x01, 0x00, 0x00}
}

// Subtype octets (cd bit set).
const (
	SubtypeADP  uint8 = 0xFA
	SubtypeAECP uint8 = 0xFB
	SubtypeACMP uint8 = 0xFC
)

// Common control header offsets, relative to the start of the AVTPDU.
const (
	OffSubtype           = 0
	OffVersionMsgType    = 1
	OffStatusCDL         = 2
	OffStreamID          = 4
	CommonHeaderLen      = 12
	MaxControlDataLength = 0x7FF
)

// AVDECCVersion is the only supported header version.
const AVDECCVersion uint8 = 0

// Timeouts from IEEE 1722.1-2013, in milliseconds.
const (
	AEMCommandTimeoutMs uint32 = 250
	LockTimeoutMs       uint32 = 60000

	ACMPConnectTXTimeoutMs       uint32 = 2000
	ACMPDisconnectTXTimeoutMs    uint32 = 200
	ACMPGetTXStateTimeoutMs      uint32 = 200
	ACMPConnectRXTimeoutMs       uint32 = 4500
	ACMPDisconnectRXTimeoutMs    uint32 = 500
	ACMPGetRXStateTimeoutMs      uint32 = 200
	ACMPGetTXConnectionTimeoutMs uint32 = 200
)

// AECPMessageType is the 4-bit message_type of an AECPDU.
type AECPMessageType uint8

const (
	AECPAEMCommand            AECPMessageType = 0
	AECPAEMResponse           AECPMessageType = 1
	AECPAddressAccessCommand  AECPMessageType = 2
	AECPAddressAccessResponse AECPMessageType = 3
	AECPAVCCommand            AECPMessageType = 4
	AECPAVCResponse           AECPMessageType = 5
	AECPVendorUniqueCommand   AECPMessageType = 6
	AECPVendorUniqueResponse  AECPMessageType = 7
	AECPExtendedCommand       AECPMessageType = 14
	AECPExtendedResponse      AECPMessageType = 15
)

// IsResponse reports whether t is one of the response message types.
func (t AECPMessageType) IsResponse() bool {
	return t&1 == 1
}

// String returns the message type name.
func (t AECPMessageType) String() string {
	switch t {
	case AECPAEMCommand:
		return "AEM_COMMAND"
	case AECPAEMResponse:
		return "AEM_RESPONSE"
	case AECPAddressAccessCommand:
		return "ADDRESS_ACCESS_COMMAND"
	case AECPAddressAccessResponse:
		return "ADDRESS_ACCESS_RESPONSE"
	case AECPAVCCommand:
		return "AVC_COMMAND"
	case AECPAVCResponse:
		return "AVC_RESPONSE"
	case AECPVendorUniqueCommand:
		return "VENDOR_UNIQUE_COMMAND"
	case AECPVendorUniqueResponse:
		return "VENDOR_UNIQUE_RESPONSE"
	case AECPExtendedCommand:
		return "EXTENDED_COMMAND"
	case AECPExtendedResponse:
		return "EXTENDED_RESPONSE"
	default:
		return fmt.Sprintf("UNKNOWN(0x%X)", uint8(t))
	}
}

// ACMPMessageType is the 4-bit message_type of an ACMPDU.
type ACMPMessageType uint8

const (
	ACMPConnectTXCommand        ACMPMessageType = 0
	ACMPConnectTXResponse       ACMPMessageType = 1
	ACMPDisconnectTXCommand     ACMPMessageType = 2
	ACMPDisconnectTXResponse    ACMPMessageType = 3
	ACMPGetTXStateCommand       ACMPMessageType = 4
	ACMPGetTXStateResponse      ACMPMessageType = 5
	ACMPConnectRXCommand        ACMPMessageType = 6
	ACMPConnectRXResponse       ACMPMessageType = 7
	ACMPDisconnectRXCommand     ACMPMessageType = 8
	ACMPDisconnectRXResponse    ACMPMessageType = 9
	ACMPGetRXStateCommand       ACMPMessageType = 10
	ACMPGetRXStateResponse      ACMPMessageType = 11
	ACMPGetTXConnectionCommand  ACMPMessageType = 12
	ACMPGetTXConnectionResponse ACMPMessageType = 13
)

// IsResponse reports whether t is a response message type.
func (t ACMPMessageType) IsResponse() bool {
	return t&1 == 1
}

// IsValid reports whether t is a defined ACMP message type.
func (t ACMPMessageType) IsValid() bool {
	return t <= ACMPGetTXConnectionResponse
}

// IsTalkerCommand reports whether t is a command addressed to a talker.
func (t ACMPMessageType) IsTalkerCommand() bool {
	switch t {
	case ACMPConnectTXCommand, ACMPDisconnectTXCommand, ACMPGetTXStateCommand, ACMPGetTXConnectionCommand:
		return true
	}
	return false
}

// IsListenerCommand reports whether t is a command addressed to a listener.
func (t ACMPMessageType) IsListenerCommand() bool {
	switch t {
	case ACMPConnectRXCommand, ACMPDisconnectRXCommand, ACMPGetRXStateCommand:
		return true
	}
	return false
}

// IsTalkerResponse reports whether t is a talker's answer to a listener's
// forwarded CONNECT_TX or DISCONNECT_TX.
func (t ACMPMessageType) IsTalkerResponse() bool {
	return t == ACMPConnectTXResponse || t == ACMPDisconnectTXResponse
}

// Response returns the response type paired with command t.
func (t ACMPMessageType) Response() ACMPMessageType {
	return t | 1
}

// TimeoutMs returns the 1722.1 timeout for command t, or 0 for responses.
func (t ACMPMessageType) TimeoutMs() uint32 {
	switch t {
	case ACMPConnectTXCommand:
		return ACMPConnectTXTimeoutMs
	case ACMPDisconnectTXCommand:
		return ACMPDisconnectTXTimeoutMs
	case ACMPGetTXStateCommand:
		return ACMPGetTXStateTimeoutMs
	case ACMPConnectRXCommand:
		return ACMPConnectRXTimeoutMs
	case ACMPDisconnectRXCommand:
		return ACMPDisconnectRXTimeoutMs
	case ACMPGetRXStateCommand:
		return ACMPGetRXStateTimeoutMs
	case ACMPGetTXConnectionCommand:
		return ACMPGetTXConnectionTimeoutMs
	default:
		return 0
	}
}

// String returns the message type name.
func (t ACMPMessageType) String() string {
	switch t {
	case ACMPConnectTXCommand:
		return "CONNECT_TX_COMMAND"
	case ACMPConnectTXResponse:
		return "CONNECT_TX_RESPONSE"
	case ACMPDisconnectTXCommand:
		return "DISCONNECT_TX_COMMAND"
	case ACMPDisconnectTXResponse:
		return "DISCONNECT_TX_RESPONSE"
	case ACMPGetTXStateCommand:
		return "GET_TX_STATE_COMMAND"
	case ACMPGetTXStateResponse:
		return "GET_TX_STATE_RESPONSE"
	case ACMPConnectRXCommand:
		return "CONNECT_RX_COMMAND"
	case ACMPConnectRXResponse:
		return "CONNECT_RX_RESPONSE"
	case ACMPDisconnectRXCommand:
		return "DISCONNECT_RX_COMMAND"
	case ACMPDisconnectRXResponse:
		return "DISCONNECT_RX_RESPONSE"
	case ACMPGetRXStateCommand:
		return "GET_RX_STATE_COMMAND"
	case ACMPGetRXStateResponse:
		return "GET_RX_STATE_RESPONSE"
	case ACMPGetTXConnectionCommand:
		return "GET_TX_CONNECTION_COMMAND"
	case ACMPGetTXConnectionResponse:
		return "GET_TX_CONNECTION_RESPONSE"
	default:
		return fmt.Sprintf("UNKNOWN(0x%X)", uint8(t))
	}
}

// ACMP flags.
const (
	ACMPFlagClassB            uint16 = 0x0001
	ACMPFlagFastConnect       uint16 = 0x0002
	ACMPFlagSavedState        uint16 = 0x0004
	ACMPFlagStreamingWait     uint16 = 0x0008
	ACMPFlagSupportsEncrypted uint16 = 0x0010
	ACMPFlagEncryptedPDU      uint16 = 0x0020
	ACMPFlagTalkerFailed      uint16 = 0x0040
)

// AAMode is the 4-bit mode of an Address Access TLV.
type AAMode uint8

const (
	AAModeRead    AAMode = 0
	AAModeWrite   AAMode = 1
	AAModeExecute AAMode = 2
)

// String returns the mode name.
func (m AAMode) String() string {
	switch m {
	case AAModeRead:
		return "READ"
	case AAModeWrite:
		return "WRITE"
	case AAModeExecute:
		return "EXECUTE"
	default:
		return fmt.Sprintf("UNKNOWN(0x%X)", uint8(m))
	}
}
