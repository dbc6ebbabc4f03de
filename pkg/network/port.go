package network

import (
	"errors"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// ErrPortClosed is returned when closing a port twice.
var ErrPortClosed = errors.New("port closed")

// Port is the Ethernet collaborator used by the engines.
type Port interface {
	// ReceiveFrame returns the next received frame without blocking.
	ReceiveFrame() (*wire.Frame, bool)

	// SendFrame transmits f as addressed.
	SendFrame(f *wire.Frame) bool

	// SendReplyFrame transmits f back to the sender of the frame it was
	// built from: the source address becomes the destination and the
	// port's own address becomes the source.
	SendReplyFrame(f *wire.Frame) bool

	// MACAddress returns the port's own Ethernet address.
	MACAddress() eui.Eui48

	// TimeMs returns the wrapping millisecond clock.
	TimeMs() uint32
}

// WithPayload returns a copy of f with the given segments appended. It is
// the equivalent of sending a frame with extra payload segments; the
// control_data_length is left for the caller to fix.
func WithPayload(f *wire.Frame, segments ...[]byte) (*wire.Frame, bool) {
	c := f.Clone()
	if !c.SetPos(c.Len()) {
		return nil, false
	}
	for _, s := range segments {
		if !c.PutBytes(s) {
			return nil, false
		}
	}
	return c, true
}

// SendWithPayload appends segments to a copy of f and sends it.
func SendWithPayload(p Port, f *wire.Frame, segments ...[]byte) bool {
	c, ok := WithPayload(f, segments...)
	if !ok {
		return false
	}
	return p.SendFrame(c)
}

// ReplyCopy returns a copy of f addressed back to its sender from src.
func ReplyCopy(f *wire.Frame, src eui.Eui48) *wire.Frame {
	c := f.Clone()
	c.SwapAddresses(src)
	return c
}

// IsGroupAddress reports whether m is a multicast or broadcast address.
func IsGroupAddress(m eui.Eui48) bool {
	return m[0]&0x01 != 0
}
