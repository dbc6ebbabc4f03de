package wire

import "github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"

// ACMPDU offsets, relative to the start of the AVTPDU.
const (
	OffACMPControllerEntityID = 12
	OffACMPTalkerEntityID     = 20
	OffACMPListenerEntityID   = 28
	OffACMPTalkerUniqueID     = 36
	OffACMPListenerUniqueID   = 38
	OffACMPStreamDestMAC      = 40
	OffACMPConnectionCount    = 46
	OffACMPSequenceID         = 48
	OffACMPFlags              = 50
	OffACMPStreamVLANID       = 52

	// ACMPDULen is the fixed ACMPDU size.
	ACMPDULen = 56

	// ACMPControlDataLength is the fixed control_data_length of an ACMPDU.
	ACMPControlDataLength = ACMPDULen - CommonHeaderLen
)

// ACMPHeader is a decoded ACMPDU.
type ACMPHeader struct {
	MessageType        ACMPMessageType
	Status             ACMPStatus
	StreamID           eui.Eui64
	ControllerEntityID eui.Eui64
	TalkerEntityID     eui.Eui64
	ListenerEntityID   eui.Eui64
	TalkerUniqueID     uint16
	ListenerUniqueID   uint16
	StreamDestMAC      eui.Eui48
	ConnectionCount    uint16
	SequenceID         uint16
	Flags              uint16
	StreamVLANID       uint16
}

// ParseACMP decodes the ACMPDU in f. ok is false unless f carries a
// version 0 ACMPDU with a known message type and a control_data_length of
// at least 44 octets that fits in the frame.
func ParseACMP(f *Frame) (ACMPHeader, bool) {
	var h ACMPHeader
	c, ok := ParseCommon(f)
	if !ok || !c.valid(f, SubtypeACMP, ACMPControlDataLength) {
		return h, false
	}
	mt := ACMPMessageType(c.MessageType)
	if !mt.IsValid() {
		return h, false
	}
	base := PayloadOffset
	h.MessageType = mt
	h.Status = ACMPStatus(c.Status)
	h.StreamID = c.StreamID
	h.ControllerEntityID, _ = f.Eui64At(base + OffACMPControllerEntityID)
	h.TalkerEntityID, _ = f.Eui64At(base + OffACMPTalkerEntityID)
	h.ListenerEntityID, _ = f.Eui64At(base + OffACMPListenerEntityID)
	h.TalkerUniqueID, _ = f.Doublet(base + OffACMPTalkerUniqueID)
	h.ListenerUniqueID, _ = f.Doublet(base + OffACMPListenerUniqueID)
	h.StreamDestMAC, _ = f.Eui48At(base + OffACMPStreamDestMAC)
	h.ConnectionCount, _ = f.Doublet(base + OffACMPConnectionCount)
	h.SequenceID, _ = f.Doublet(base + OffACMPSequenceID)
	h.Flags, _ = f.Doublet(base + OffACMPFlags)
	h.StreamVLANID, _ = f.Doublet(base + OffACMPStreamVLANID)
	return h, true
}

// WriteACMP writes h as a complete ACMPDU, truncating f after it.
func WriteACMP(f *Frame, h ACMPHeader) bool {
	if !f.SetLen(PayloadOffset) {
		return false
	}
	return WriteCommon(f, CommonHeader{
		Subtype:           SubtypeACMP,
		Version:           AVDECCVersion,
		MessageType:       uint8(h.MessageType),
		Status:            uint8(h.Status),
		ControlDataLength: ACMPControlDataLength,
		StreamID:          h.StreamID,
	}) &&
		f.PutEui64(h.ControllerEntityID) &&
		f.PutEui64(h.TalkerEntityID) &&
		f.PutEui64(h.ListenerEntityID) &&
		f.PutDoublet(h.TalkerUniqueID) &&
		f.PutDoublet(h.ListenerUniqueID) &&
		f.PutEui48(h.StreamDestMAC) &&
		f.PutDoublet(h.ConnectionCount) &&
		f.PutDoublet(h.SequenceID) &&
		f.PutDoublet(h.Flags) &&
		f.PutDoublet(h.StreamVLANID) &&
		f.PutDoublet(0)
}

// NewACMPFrame returns a frame addressed to the AVDECC multicast group
// holding h.
func NewACMPFrame(src eui.Eui48, h ACMPHeader) (*Frame, bool) {
	f := NewFrame(MulticastMAC(), src, AVTPEtherType)
	if !WriteACMP(f, h) {
		return nil, false
	}
	return f, true
}
