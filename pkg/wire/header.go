package wire

import "github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"

// CommonHeader is the 12-octet AVTP control header shared by ADP, AECP and ACMP.
type CommonHeader struct {
	Subtype           uint8
	StreamValid       bool
	Version           uint8
	MessageType       uint8
	Status            uint8
	ControlDataLength uint16

	// StreamID holds the stream_id (ACMP), target_entity_id (AECP) or
	// entity_id (ADP).
	StreamID eui.Eui64
}

// ParseCommon decodes the control header at the start of the AVTPDU.
// It does not validate the subtype or version.
func ParseCommon(f *Frame) (CommonHeader, bool) {
	var h CommonHeader
	if f == nil || f.PayloadLen() < CommonHeaderLen {
		return h, false
	}
	base := PayloadOffset
	h.Subtype, _ = f.Octet(base + OffSubtype)
	b, _ := f.Octet(base + OffVersionMsgType)
	h.StreamValid = b&0x80 != 0
	h.Version = (b >> 4) & 0x07
	h.MessageType = b & 0x0f
	w, _ := f.Doublet(base + OffStatusCDL)
	h.Status = uint8(w >> 11)
	h.ControlDataLength = w & MaxControlDataLength
	h.StreamID, _ = f.Eui64At(base + OffStreamID)
	return h, true
}

// valid reports whether h is a version 0 header of the given subtype whose
// control data (starting after the header) fits in f and is at least min octets.
func (h CommonHeader) valid(f *Frame, subtype uint8, minCDL int) bool {
	if h.Subtype != subtype || h.Version != AVDECCVersion {
		return false
	}
	cdl := int(h.ControlDataLength)
	return cdl >= minCDL && CommonHeaderLen+cdl <= f.PayloadLen()
}

// WriteCommon writes h at the start of the AVTPDU and leaves the cursor
// after it.
func WriteCommon(f *Frame, h CommonHeader) bool {
	if !f.SetPos(PayloadOffset) {
		return false
	}
	b := (h.Version&0x07)<<4 | h.MessageType&0x0f
	if h.StreamValid {
		b |= 0x80
	}
	return f.PutOctet(h.Subtype) &&
		f.PutOctet(b) &&
		f.PutDoublet(uint16(h.Status&0x1f)<<11|h.ControlDataLength&MaxControlDataLength) &&
		f.PutEui64(h.StreamID)
}

// SetMessageType rewrites the 4-bit message_type, keeping sv and version.
func SetMessageType(f *Frame, mt uint8) bool {
	b, ok := f.Octet(PayloadOffset + OffVersionMsgType)
	if !ok {
		return false
	}
	return f.SetOctet(PayloadOffset+OffVersionMsgType, b&0xf0|mt&0x0f)
}

// SetStatus rewrites the 5-bit status field, keeping control_data_length.
func SetStatus(f *Frame, status uint8) bool {
	w, ok := f.Doublet(PayloadOffset + OffStatusCDL)
	if !ok {
		return false
	}
	return f.SetDoublet(PayloadOffset+OffStatusCDL, uint16(status&0x1f)<<11|w&MaxControlDataLength)
}

// SetControlDataLength recomputes control_data_length from the frame
// length. The frame length must be final.
func SetControlDataLength(f *Frame) bool {
	n := f.PayloadLen() - CommonHeaderLen
	if n < 0 || n > MaxControlDataLength {
		return false
	}
	w, ok := f.Doublet(PayloadOffset + OffStatusCDL)
	if !ok {
		return false
	}
	return f.SetDoublet(PayloadOffset+OffStatusCDL, w&^MaxControlDataLength|uint16(n))
}
