package wire

import "github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"

// Address Access offsets, relative to the start of the AVTPDU.
const (
	OffAATLVCount = 22
	OffAATLVs     = 24

	// AATLVHeaderLen is mode/length plus the 64-bit address.
	AATLVHeaderLen = 10

	// MaxAATLVLength is the largest length the 12-bit field can carry.
	MaxAATLVLength = 0x0fff
)

// AAHeader is a decoded AECP Address Access header.
type AAHeader struct {
	MessageType        AECPMessageType
	Status             AAStatus
	ControlDataLength  uint16
	TargetEntityID     eui.Eui64
	ControllerEntityID eui.Eui64
	SequenceID         uint16
	TLVCount           uint16
}

const aaMinCDL = OffAATLVs - CommonHeaderLen

// ParseAA decodes the Address Access header of f. ok is false unless f
// carries a version 0 ADDRESS_ACCESS command or response whose declared
// length fits in the frame.
func ParseAA(f *Frame) (AAHeader, bool) {
	var h AAHeader
	c, ok := ParseCommon(f)
	if !ok || !c.valid(f, SubtypeAECP, aaMinCDL) {
		return h, false
	}
	mt := AECPMessageType(c.MessageType)
	if mt != AECPAddressAccessCommand && mt != AECPAddressAccessResponse {
		return h, false
	}
	base := PayloadOffset
	h.MessageType = mt
	h.Status = AAStatus(c.Status)
	h.ControlDataLength = c.ControlDataLength
	h.TargetEntityID = c.StreamID
	h.ControllerEntityID, _ = f.Eui64At(base + OffAEMControllerEntityID)
	h.SequenceID, _ = f.Doublet(base + OffAEMSequenceID)
	h.TLVCount, _ = f.Doublet(base + OffAATLVCount)
	return h, true
}

// AATLV is one Address Access TLV.
type AATLV struct {
	Mode    AAMode
	Length  uint16
	Address uint64

	// Data aliases the TLV data in the frame. It is empty for a READ
	// command, which carries no data.
	Data []byte
}

// AddressValid reports whether the upper 32 address bits are zero.
func (t AATLV) AddressValid() bool {
	return t.Address>>32 == 0
}

// TLVIterator walks the TLVs of an Address Access PDU without copying.
type TLVIterator struct {
	f         *Frame
	off       int
	end       int
	remaining int
	command   bool
}

// AATLVs returns an iterator over the TLVs of the PDU described by h.
func AATLVs(f *Frame, h AAHeader) *TLVIterator {
	return &TLVIterator{
		f:         f,
		off:       PayloadOffset + OffAATLVs,
		end:       PayloadOffset + CommonHeaderLen + int(h.ControlDataLength),
		remaining: int(h.TLVCount),
		command:   h.MessageType == AECPAddressAccessCommand,
	}
}

// Next returns the next TLV. ok is false when the declared count is
// exhausted; valid is false when the TLV does not fit in the PDU.
func (it *TLVIterator) Next() (tlv AATLV, ok, valid bool) {
	if it.remaining <= 0 {
		return tlv, false, true
	}
	it.remaining--
	if it.off+AATLVHeaderLen > it.end {
		it.remaining = 0
		return tlv, true, false
	}
	ml, _ := it.f.Doublet(it.off)
	tlv.Mode = AAMode(ml >> 12)
	tlv.Length = ml & MaxAATLVLength
	tlv.Address, _ = it.f.Octlet(it.off + 2)
	it.off += AATLVHeaderLen

	dataLen := int(tlv.Length)
	if it.command && tlv.Mode == AAModeRead {
		dataLen = 0
	}
	if it.off+dataLen > it.end {
		it.remaining = 0
		return tlv, true, false
	}
	tlv.Data, _ = it.f.BytesAt(it.off, dataLen)
	it.off += dataLen
	return tlv, true, true
}

// WriteAAHeader writes an Address Access header at the start of the AVTPDU
// and leaves the cursor at the first TLV.
func WriteAAHeader(f *Frame, h AAHeader) bool {
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
		f.PutDoublet(h.TLVCount) &&
		SetControlDataLength(f)
}

// PutAATLV appends a TLV at the cursor. data may be shorter than length
// only for a READ command, which carries no data.
func PutAATLV(f *Frame, mode AAMode, length uint16, address uint64, data []byte) bool {
	if length > MaxAATLVLength {
		return false
	}
	return f.PutDoublet(uint16(mode)<<12|length) &&
		f.PutOctlet(address) &&
		f.PutBytes(data)
}

// SetAAReply turns the Address Access command in f into its response in
// place with the given aggregate status and TLV count.
func SetAAReply(f *Frame, status AAStatus, tlvCount uint16) bool {
	return SetMessageType(f, uint8(AECPAddressAccessResponse)) &&
		SetStatus(f, uint8(status)) &&
		f.SetDoublet(PayloadOffset+OffAATLVCount, tlvCount) &&
		SetControlDataLength(f)
}
