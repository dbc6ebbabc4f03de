package eui

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Parse errors.
var (
	ErrInvalidLength = errors.New("eui: invalid length")
	ErrInvalidDigit  = errors.New("eui: invalid hex digit")
)

// Eui48 is a 48-bit extended unique identifier, used for MAC addresses.
// The all-0xFF value is the "unset" sentinel.
type Eui48 [6]byte

// Eui64 is a 64-bit extended unique identifier, used for entity ids,
// entity model ids and stream ids. The all-0xFF value is the "unset" sentinel.
type Eui64 [8]byte

// MacAddress is the Eui48 used as an Ethernet address.
type MacAddress = Eui48

// EntityID is the Eui64 used to identify an AVDECC entity.
type EntityID = Eui64

// Unset48 returns the Eui48 unset sentinel (FF:FF:FF:FF:FF:FF).
func Unset48() Eui48 {
	return Eui48{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// Unset64 returns the Eui64 unset sentinel (FF:FF:FF:FF:FF:FF:FF:FF).
func Unset64() Eui64 {
	return Eui64{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// IsUnset reports whether e holds the unset sentinel.
func (e Eui48) IsUnset() bool {
	return e == Unset48()
}

// IsSet reports whether e holds a value other than the unset sentinel.
func (e Eui48) IsSet() bool {
	return !e.IsUnset()
}

// IsZero reports whether every octet of e is zero.
func (e Eui48) IsZero() bool {
	return e == Eui48{}
}

// Compare orders identifiers byte-wise. It returns -1, 0 or +1.
func (e Eui48) Compare(o Eui48) int {
	return bytes.Compare(e[:], o[:])
}

// Uint64 returns the identifier as a big-endian integer.
func (e Eui48) Uint64() uint64 {
	var v uint64
	for _, b := range e {
		v = v<<8 | uint64(b)
	}
	return v
}

// String formats the identifier as colon separated hex octets.
func (e Eui48) String() string {
	return format(e[:], ':')
}

// Eui48FromUint64 builds an Eui48 from the low 48 bits of v.
func Eui48FromUint64(v uint64) Eui48 {
	var e Eui48
	for i := len(e) - 1; i >= 0; i-- {
		e[i] = byte(v)
		v >>= 8
	}
	return e
}

// Eui48FromBytes copies the first six bytes of b. ok is false when b is short.
func Eui48FromBytes(b []byte) (e Eui48, ok bool) {
	if len(b) < len(e) {
		return e, false
	}
	copy(e[:], b)
	return e, true
}

// ParseEui48 parses "aa:bb:cc:dd:ee:ff", "aa-bb-..." or "aabbccddeeff".
func ParseEui48(s string) (Eui48, error) {
	var e Eui48
	if err := parse(s, e[:]); err != nil {
		return Unset48(), fmt.Errorf("parse eui48 %q: %w", s, err)
	}
	return e, nil
}

// IsUnset reports whether e holds the unset sentinel.
func (e Eui64) IsUnset() bool {
	return e == Unset64()
}

// IsSet reports whether e holds a value other than the unset sentinel.
func (e Eui64) IsSet() bool {
	return !e.IsUnset()
}

// IsZero reports whether every octet of e is zero.
func (e Eui64) IsZero() bool {
	return e == Eui64{}
}

// Compare orders identifiers byte-wise. It returns -1, 0 or +1.
func (e Eui64) Compare(o Eui64) int {
	return bytes.Compare(e[:], o[:])
}

// Uint64 returns the identifier as a big-endian integer.
func (e Eui64) Uint64() uint64 {
	var v uint64
	for _, b := range e {
		v = v<<8 | uint64(b)
	}
	return v
}

// String formats the identifier as colon separated hex octets.
func (e Eui64) String() string {
	return format(e[:], ':')
}

// Eui64FromUint64 builds an Eui64 from v.
func Eui64FromUint64(v uint64) Eui64 {
	var e Eui64
	for i := len(e) - 1; i >= 0; i-- {
		e[i] = byte(v)
		v >>= 8
	}
	return e
}

// Eui64FromBytes copies the first eight bytes of b. ok is false when b is short.
func Eui64FromBytes(b []byte) (e Eui64, ok bool) {
	if len(b) < len(e) {
		return e, false
	}
	copy(e[:], b)
	return e, true
}

// Eui64FromMAC derives an entity id from a MAC address by inserting
// FF:FE between the OUI and the device part.
func Eui64FromMAC(mac Eui48, low uint16) Eui64 {
	return Eui64{mac[0], mac[1], mac[2], 0xff, 0xfe, mac[3], mac[4], mac[5] ^ byte(low)}
}

// ParseEui64 parses "00:11:22:33:44:55:66:77", dashes, or 16 hex digits.
// A leading "0x" is accepted on the undelimited form.
func ParseEui64(s string) (Eui64, error) {
	var e Eui64
	if err := parse(s, e[:]); err != nil {
		return Unset64(), fmt.Errorf("parse eui64 %q: %w", s, err)
	}
	return e, nil
}

func format(b []byte, sep byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(sep)
		}
		sb.WriteString(hex.EncodeToString([]byte{v}))
	}
	return sb.String()
}

func parse(s string, out []byte) error {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	s = strings.NewReplacer(":", "", "-", "", ".", "").Replace(s)
	if len(s) != len(out)*2 {
		return ErrInvalidLength
	}
	if _, err := hex.Decode(out, []byte(s)); err != nil {
		return ErrInvalidDigit
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e Eui48) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Eui48) UnmarshalText(text []byte) error {
	v, err := ParseEui48(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e Eui64) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Eui64) UnmarshalText(text []byte) error {
	v, err := ParseEui64(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
