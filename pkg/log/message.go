package log

import (
	"github.com/google/uuid"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// MaxFrameCapture bounds the bytes stored in a FrameEvent.
const MaxFrameCapture = 256

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// NewFrameEvent captures f, truncating the data at MaxFrameCapture.
func NewFrameEvent(f *wire.Frame) *FrameEvent {
	b := f.Bytes()
	ev := &FrameEvent{Size: len(b)}
	if len(b) > MaxFrameCapture {
		b = b[:MaxFrameCapture]
		ev.Truncated = true
	}
	ev.Data = append([]byte(nil), b...)
	return ev
}

// DecodeMessage summarizes the AVDECC PDU in f. It returns nil for frames
// that are not AEM, Address Access or ACMP PDUs.
func DecodeMessage(f *wire.Frame) *MessageEvent {
	if h, ok := wire.ParseAEM(f); ok {
		return &MessageEvent{
			Protocol:     ProtocolAEM,
			MessageType:  uint8(h.MessageType),
			Name:         h.CommandType.String(),
			Response:     h.MessageType.IsResponse(),
			Unsolicited:  h.Unsolicited,
			SequenceID:   h.SequenceID,
			Status:       uint8(h.Status),
			StatusName:   h.Status.String(),
			TargetID:     h.TargetEntityID.String(),
			ControllerID: h.ControllerEntityID.String(),
		}
	}
	if h, ok := wire.ParseAA(f); ok {
		return &MessageEvent{
			Protocol:     ProtocolAA,
			MessageType:  uint8(h.MessageType),
			Name:         h.MessageType.String(),
			Response:     h.MessageType.IsResponse(),
			SequenceID:   h.SequenceID,
			Status:       uint8(h.Status),
			StatusName:   h.Status.String(),
			TargetID:     h.TargetEntityID.String(),
			ControllerID: h.ControllerEntityID.String(),
		}
	}
	if h, ok := wire.ParseACMP(f); ok {
		tu, lu := h.TalkerUniqueID, h.ListenerUniqueID
		return &MessageEvent{
			Protocol:         ProtocolACMP,
			MessageType:      uint8(h.MessageType),
			Name:             h.MessageType.String(),
			Response:         h.MessageType.IsResponse(),
			SequenceID:       h.SequenceID,
			Status:           uint8(h.Status),
			StatusName:       h.Status.String(),
			TargetID:         h.StreamID.String(),
			ControllerID:     h.ControllerEntityID.String(),
			TalkerID:         h.TalkerEntityID.String(),
			ListenerID:       h.ListenerEntityID.String(),
			TalkerUniqueID:   &tu,
			ListenerUniqueID: &lu,
		}
	}
	return nil
}
