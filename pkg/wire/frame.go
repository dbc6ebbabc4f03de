package wire

import (
	"encoding/binary"
	"errors"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
)

// Frame sizes.
const (
	// EthernetHeaderLen is destination MAC + source MAC + ethertype.
	EthernetHeaderLen = 14

	// MaxFrameSize is the capacity of a Frame (maximum untagged Ethernet
	// frame without FCS).
	MaxFrameSize = 1514

	// PayloadOffset is where the AVTPDU starts inside a Frame.
	PayloadOffset = EthernetHeaderLen
)

// Frame errors.
var (
	ErrFrameOverflow = errors.New("wire: frame capacity exceeded")
	ErrFrameTooShort = errors.New("wire: frame too short")
)

// Frame is a fixed-capacity Ethernet frame buffer with a write cursor.
//
// The zero value is an empty frame with the cursor at offset 0. A Frame is
// owned by whoever constructed it; the entity engine rewrites a received
// command frame in place to produce its response.
type Frame struct {
	buf    [MaxFrameSize]byte
	length int
	pos    int

	// Time is the receive (or creation) timestamp in milliseconds.
	Time uint32
}

// NewFrame returns an empty frame with the Ethernet header written and the
// cursor positioned at PayloadOffset.
func NewFrame(dst, src eui.Eui48, ethertype uint16) *Frame {
	f := &Frame{}
	f.SetEthernetHeader(dst, src, ethertype)
	return f
}

// FrameFromBytes copies a received Ethernet frame. ok is false when b is
// shorter than an Ethernet header or longer than MaxFrameSize.
func FrameFromBytes(b []byte, now uint32) (*Frame, bool) {
	if len(b) < EthernetHeaderLen || len(b) > MaxFrameSize {
		return nil, false
	}
	f := &Frame{Time: now}
	copy(f.buf[:], b)
	f.length = len(b)
	f.pos = len(b)
	return f, true
}

// Reset empties the frame.
func (f *Frame) Reset() {
	f.length = 0
	f.pos = 0
}

// Clone returns an independent copy of f.
func (f *Frame) Clone() *Frame {
	c := *f
	return &c
}

// Len returns the number of valid octets in the frame.
func (f *Frame) Len() int { return f.length }

// Cap returns the frame capacity.
func (f *Frame) Cap() int { return MaxFrameSize }

// Pos returns the cursor position.
func (f *Frame) Pos() int { return f.pos }

// SetPos moves the cursor. It fails when pos is outside the capacity.
func (f *Frame) SetPos(pos int) bool {
	if pos < 0 || pos > MaxFrameSize {
		return false
	}
	f.pos = pos
	return true
}

// SetLen sets the number of valid octets. The cursor is clamped to the new length.
func (f *Frame) SetLen(n int) bool {
	if n < 0 || n > MaxFrameSize {
		return false
	}
	f.length = n
	if f.pos > n {
		f.pos = n
	}
	return true
}

// Bytes returns the valid part of the frame. The slice aliases the buffer.
func (f *Frame) Bytes() []byte { return f.buf[:f.length] }

// Payload returns the AVTPDU part of the frame. The slice aliases the buffer.
func (f *Frame) Payload() []byte {
	if f.length < PayloadOffset {
		return nil
	}
	return f.buf[PayloadOffset:f.length]
}

// PayloadLen returns the number of AVTPDU octets in the frame.
func (f *Frame) PayloadLen() int {
	if f.length < PayloadOffset {
		return 0
	}
	return f.length - PayloadOffset
}

// SetEthernetHeader writes the Ethernet header and moves the cursor to PayloadOffset.
func (f *Frame) SetEthernetHeader(dst, src eui.Eui48, ethertype uint16) {
	copy(f.buf[0:6], dst[:])
	copy(f.buf[6:12], src[:])
	binary.BigEndian.PutUint16(f.buf[12:14], ethertype)
	if f.length < EthernetHeaderLen {
		f.length = EthernetHeaderLen
	}
	f.pos = PayloadOffset
}

// DestinationMAC returns the destination address, or the unset sentinel for a short frame.
func (f *Frame) DestinationMAC() eui.Eui48 {
	if f.length < EthernetHeaderLen {
		return eui.Unset48()
	}
	m, _ := eui.Eui48FromBytes(f.buf[0:6])
	return m
}

// SourceMAC returns the source address, or the unset sentinel for a short frame.
func (f *Frame) SourceMAC() eui.Eui48 {
	if f.length < EthernetHeaderLen {
		return eui.Unset48()
	}
	m, _ := eui.Eui48FromBytes(f.buf[6:12])
	return m
}

// EtherType returns the ethertype, or 0 for a short frame.
func (f *Frame) EtherType() uint16 {
	if f.length < EthernetHeaderLen {
		return 0
	}
	return binary.BigEndian.Uint16(f.buf[12:14])
}

// SetDestinationMAC rewrites the destination address.
func (f *Frame) SetDestinationMAC(m eui.Eui48) { copy(f.buf[0:6], m[:]) }

// SetSourceMAC rewrites the source address.
func (f *Frame) SetSourceMAC(m eui.Eui48) { copy(f.buf[6:12], m[:]) }

// SwapAddresses exchanges source and destination so the frame is addressed
// back to its sender, with src as the new source.
func (f *Frame) SwapAddresses(src eui.Eui48) {
	requester := f.SourceMAC()
	f.SetDestinationMAC(requester)
	f.SetSourceMAC(src)
}

func (f *Frame) reserve(n int) (int, bool) {
	if f.pos+n > MaxFrameSize {
		return 0, false
	}
	at := f.pos
	f.pos += n
	if f.pos > f.length {
		f.length = f.pos
	}
	return at, true
}

// PutOctet appends v at the cursor.
func (f *Frame) PutOctet(v uint8) bool {
	at, ok := f.reserve(1)
	if ok {
		f.buf[at] = v
	}
	return ok
}

// PutDoublet appends a big-endian uint16 at the cursor.
func (f *Frame) PutDoublet(v uint16) bool {
	at, ok := f.reserve(2)
	if ok {
		binary.BigEndian.PutUint16(f.buf[at:], v)
	}
	return ok
}

// PutQuadlet appends a big-endian uint32 at the cursor.
func (f *Frame) PutQuadlet(v uint32) bool {
	at, ok := f.reserve(4)
	if ok {
		binary.BigEndian.PutUint32(f.buf[at:], v)
	}
	return ok
}

// PutOctlet appends a big-endian uint64 at the cursor.
func (f *Frame) PutOctlet(v uint64) bool {
	at, ok := f.reserve(8)
	if ok {
		binary.BigEndian.PutUint64(f.buf[at:], v)
	}
	return ok
}

// PutEui48 appends a 48-bit identifier at the cursor.
func (f *Frame) PutEui48(v eui.Eui48) bool {
	return f.PutBytes(v[:])
}

// PutEui64 appends a 64-bit identifier at the cursor.
func (f *Frame) PutEui64(v eui.Eui64) bool {
	return f.PutBytes(v[:])
}

// PutBytes appends b at the cursor. Nothing is written if b does not fit.
func (f *Frame) PutBytes(b []byte) bool {
	at, ok := f.reserve(len(b))
	if ok {
		copy(f.buf[at:], b)
	}
	return ok
}

// PutZeros appends n zero octets at the cursor.
func (f *Frame) PutZeros(n int) bool {
	at, ok := f.reserve(n)
	if ok {
		clear(f.buf[at : at+n])
	}
	return ok
}

func (f *Frame) within(off, n int) bool {
	return off >= 0 && n >= 0 && off+n <= f.length
}

// Octet reads the octet at off.
func (f *Frame) Octet(off int) (uint8, bool) {
	if !f.within(off, 1) {
		return 0, false
	}
	return f.buf[off], true
}

// Doublet reads the big-endian uint16 at off.
func (f *Frame) Doublet(off int) (uint16, bool) {
	if !f.within(off, 2) {
		return 0, false
	}
	return binary.BigEndian.Uint16(f.buf[off:]), true
}

// Quadlet reads the big-endian uint32 at off.
func (f *Frame) Quadlet(off int) (uint32, bool) {
	if !f.within(off, 4) {
		return 0, false
	}
	return binary.BigEndian.Uint32(f.buf[off:]), true
}

// Octlet reads the big-endian uint64 at off.
func (f *Frame) Octlet(off int) (uint64, bool) {
	if !f.within(off, 8) {
		return 0, false
	}
	return binary.BigEndian.Uint64(f.buf[off:]), true
}

// Eui48At reads a 48-bit identifier at off.
func (f *Frame) Eui48At(off int) (eui.Eui48, bool) {
	if !f.within(off, 6) {
		return eui.Unset48(), false
	}
	return eui.Eui48FromBytes(f.buf[off:])
}

// Eui64At reads a 64-bit identifier at off.
func (f *Frame) Eui64At(off int) (eui.Eui64, bool) {
	if !f.within(off, 8) {
		return eui.Unset64(), false
	}
	return eui.Eui64FromBytes(f.buf[off:])
}

// BytesAt returns n octets at off. The slice aliases the buffer.
func (f *Frame) BytesAt(off, n int) ([]byte, bool) {
	if !f.within(off, n) {
		return nil, false
	}
	return f.buf[off : off+n], true
}

func (f *Frame) place(off, n int) bool {
	if off < 0 || n < 0 || off+n > MaxFrameSize {
		return false
	}
	if off+n > f.length {
		f.length = off + n
	}
	return true
}

// SetOctet writes v at off, extending the frame length if needed.
func (f *Frame) SetOctet(off int, v uint8) bool {
	if !f.place(off, 1) {
		return false
	}
	f.buf[off] = v
	return true
}

// SetDoublet writes a big-endian uint16 at off.
func (f *Frame) SetDoublet(off int, v uint16) bool {
	if !f.place(off, 2) {
		return false
	}
	binary.BigEndian.PutUint16(f.buf[off:], v)
	return true
}

// SetQuadlet writes a big-endian uint32 at off.
func (f *Frame) SetQuadlet(off int, v uint32) bool {
	if !f.place(off, 4) {
		return false
	}
	binary.BigEndian.PutUint32(f.buf[off:], v)
	return true
}

// SetOctlet writes a big-endian uint64 at off.
func (f *Frame) SetOctlet(off int, v uint64) bool {
	if !f.place(off, 8) {
		return false
	}
	binary.BigEndian.PutUint64(f.buf[off:], v)
	return true
}

// SetEui48 writes a 48-bit identifier at off.
func (f *Frame) SetEui48(off int, v eui.Eui48) bool {
	return f.SetBytes(off, v[:])
}

// SetEui64 writes a 64-bit identifier at off.
func (f *Frame) SetEui64(off int, v eui.Eui64) bool {
	return f.SetBytes(off, v[:])
}

// SetBytes writes b at off.
func (f *Frame) SetBytes(off int, b []byte) bool {
	if !f.place(off, len(b)) {
		return false
	}
	copy(f.buf[off:], b)
	return true
}
