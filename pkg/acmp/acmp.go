package acmp

import (
	"errors"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// ACMP errors.
var (
	ErrGroupFull         = errors.New("acmp group full")
	ErrDuplicateUniqueID = errors.New("unique id already in group")
	ErrInvalidConfig     = errors.New("invalid acmp configuration")
	ErrCommandInFlight   = errors.New("an ACMP command is already in flight")
	ErrSendFailed        = errors.New("port rejected frame")
	ErrNotCommand        = errors.New("not an ACMP command")
)

const (
	// DefaultGroupCapacity bounds the unique ids of a talker or listener group.
	DefaultGroupCapacity = 8

	// DefaultMaxListeners bounds the listeners of one talker unique id.
	DefaultMaxListeners = 8
)

// sendACMP rewrites f to carry h, addresses it to the AVDECC multicast
// group and sends it. ACMP responses are multicast so that every
// controller sees connection changes.
func sendACMP(port network.Port, f *wire.Frame, h wire.ACMPHeader) bool {
	f.SetEthernetHeader(wire.MulticastMAC(), port.MACAddress(), wire.AVTPEtherType)
	if !wire.WriteACMP(f, h) {
		return false
	}
	return port.SendFrame(f)
}

// response returns h turned into its response with the given status.
func response(h wire.ACMPHeader, status wire.ACMPStatus) wire.ACMPHeader {
	r := h
	r.MessageType = h.MessageType.Response()
	r.Status = status
	return r
}
