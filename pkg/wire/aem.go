package wire

import "github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"

// AEMHeader is a decoded AECP AEM command or response header.
type AEMHeader struct {
	MessageType        AECPMessageType
	Status             AEMStatus
	ControlDataLength  uint16
	TargetEntityID     eui.Eui64
	ControllerEntityID eui.Eui64
	SequenceID         uint16
	CommandType        AEMCommandType
	Unsolicited        bool
}

// aemMinCDL is the control data every AEM PDU carries: controller id,
// sequence id and command type.
const aemMinCDL = AEMHeaderLen - CommonHeaderLen

// ParseAEM decodes the AEM header of f. ok is false unless f carries a
// version 0 AECPDU with message type AEM_COMMAND or AEM_RESPONSE whose
// declared length fits in the frame.
func ParseAEM(f *Frame) (AEMHeader, bool) {
	var h AEMHeader
	c, ok := ParseCommon(f)
	if !ok || !c.valid(f, SubtypeAECP, aemMinCDL) {
		return h, false
	}
	mt := AECPMessageType(c.MessageType)
	if mt != AECPAEMCommand && mt != AECPAEMResponse {
		return h, false
	}
	base := PayloadOffset
	ct, _ := f.Doublet(base + OffAEMCommandType)
	h.MessageType = mt
	h.Status = AEMStatus(c.Status)
	h.ControlDataLength = c.ControlDataLength
	h.TargetEntityID = c.StreamID
	h.ControllerEntityID, _ = f.Eui64At(base + OffAEMControllerEntityID)
	h.SequenceID, _ = f.Doublet(base + OffAEMSequenceID)
	h.CommandType = AEMCommandType(ct &^ UnsolicitedFlag)
	h.Unsolicited = ct&UnsolicitedFlag != 0
	return h, true
}

// PayloadLen returns the number of command specific octets declared by h.
func (h AEMHeader) PayloadLen() int {
	return int(h.ControlDataLength) - aemMinCDL
}

// IsAEMForTarget reports whether h is a command addressed to id.
func IsAEMForTarget(h AEMHeader, id eui.Eui64) bool {
	return h.MessageType == AECPAEMCommand && h.TargetEntityID == id
}

// IsAEMForController reports whether h is a response addressed to the
// controller id.
func IsAEMForController(h AEMHeader, id eui.Eui64) bool {
	return h.MessageType == AECPAEMResponse && h.ControllerEntityID == id
}

// WriteAEMHeader writes the common header and AEM fields of h at the start
// of the AVTPDU and leaves the cursor at OffAEMPayload. Command specific
// fields follow via the cursor; call SetControlDataLength when done.
func WriteAEMHeader(f *Frame, h AEMHeader) bool {
	ct := uint16(h.CommandType) &^ UnsolicitedFlag
	if h.Unsolicited {
		ct |= UnsolicitedFlag
	}
	if !f.SetLen(PayloadOffset) {
		return false
	}
	return WriteCommon(f, CommonHeader{
		Subtype:     SubtypeAECP,
		Version:     AVDECCVersion,
		MessageType: uint8(h.MessageType),
		Status:      uint8(h.Status),
		StreamID:    h.TargetEntityID,
	}) &&
		f.PutEui64(h.ControllerEntityID) &&
		f.PutDoublet(h.SequenceID) &&
		f.PutDoublet(ct) &&
		SetControlDataLength(f)
}

// SetAEMReply turns the AEM command in f into its response in place: the
// message type becomes AEM_RESPONSE, the status is set, and
// control_data_length is recomputed from the current frame length.
func SetAEMReply(f *Frame, status AEMStatus) bool {
	return SetMessageType(f, uint8(AECPAEMResponse)) &&
		SetStatus(f, uint8(status)) &&
		SetControlDataLength(f)
}

// SetAEMUnsolicited sets or clears the unsolicited bit of command_type.
func SetAEMUnsolicited(f *Frame, on bool) bool {
	ct, ok := f.Doublet(PayloadOffset + OffAEMCommandType)
	if !ok {
		return false
	}
	if on {
		ct |= UnsolicitedFlag
	} else {
		ct &^= UnsolicitedFlag
	}
	return f.SetDoublet(PayloadOffset+OffAEMCommandType, ct)
}

// SetAEMSequenceID rewrites the sequence_id field.
func SetAEMSequenceID(f *Frame, seq uint16) bool {
	return f.SetDoublet(PayloadOffset+OffAEMSequenceID, seq)
}

// SetAEMControllerID rewrites the controller_entity_id field.
func SetAEMControllerID(f *Frame, id eui.Eui64) bool {
	return f.SetEui64(PayloadOffset+OffAEMControllerEntityID, id)
}

// AEMPayloadOffset returns the frame offset of the command specific payload.
func AEMPayloadOffset() int {
	return PayloadOffset + OffAEMPayload
}

// NewAEMFrame returns a frame from src to dst holding h followed by
// payload, with control_data_length set.
func NewAEMFrame(dst, src eui.Eui48, h AEMHeader, payload []byte) (*Frame, bool) {
	f := NewFrame(dst, src, AVTPEtherType)
	if !WriteAEMHeader(f, h) || !f.PutBytes(payload) || !SetControlDataLength(f) {
		return nil, false
	}
	return f, true
}
