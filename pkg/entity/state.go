package entity

import (
	"bytes"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// Name is a fixed-size AEM name string, NUL padded.
type Name [wire.NameLen]byte

// NameFromString truncates s to 64 octets.
func NameFromString(s string) Name {
	var n Name
	copy(n[:], s)
	return n
}

// String returns the name up to the first NUL.
func (n Name) String() string {
	if i := bytes.IndexByte(n[:], 0); i >= 0 {
		return string(n[:i])
	}
	return string(n[:])
}

// NameKey addresses one name of one descriptor.
type NameKey struct {
	Configuration   uint16
	DescriptorType  wire.DescriptorType
	DescriptorIndex uint16
	NameIndex       uint16
}

// State is the device-specific part of an entity. The entity has already
// checked permissions and payload lengths when a method is called.
//
// Slices returned by State are copied into the response before the next
// call; they may alias internal storage.
type State interface {
	// ReadDescriptor returns the descriptor body starting at its
	// descriptor_type field.
	ReadDescriptor(configuration uint16, t wire.DescriptorType, index uint16) ([]byte, wire.AEMStatus)

	SetConfiguration(configuration uint16) wire.AEMStatus
	GetConfiguration() (uint16, wire.AEMStatus)

	SetName(key NameKey, name Name) wire.AEMStatus
	GetName(key NameKey) (Name, wire.AEMStatus)

	// SetControl applies value to the CONTROL descriptor index and
	// returns the value actually in effect.
	SetControl(index uint16, value []byte) ([]byte, wire.AEMStatus)
	GetControl(index uint16) ([]byte, wire.AEMStatus)

	// AARead fills data from the memory at address.
	AARead(address uint32, data []byte) wire.AAStatus
	AAWrite(address uint32, data []byte) wire.AAStatus
	AAExecute(address uint32, data []byte) wire.AAStatus
}

// BaseState implements State with no descriptors and no commands. Embed it
// and override what the device supports.
type BaseState struct{}

func (BaseState) ReadDescriptor(uint16, wire.DescriptorType, uint16) ([]byte, wire.AEMStatus) {
	return nil, wire.AEMStatusNoSuchDescriptor
}

func (BaseState) SetConfiguration(uint16) wire.AEMStatus {
	return wire.AEMStatusNotImplemented
}

func (BaseState) GetConfiguration() (uint16, wire.AEMStatus) {
	return 0, wire.AEMStatusNotImplemented
}

func (BaseState) SetName(NameKey, Name) wire.AEMStatus {
	return wire.AEMStatusNotImplemented
}

func (BaseState) GetName(NameKey) (Name, wire.AEMStatus) {
	return Name{}, wire.AEMStatusNotImplemented
}

func (BaseState) SetControl(uint16, []byte) ([]byte, wire.AEMStatus) {
	return nil, wire.AEMStatusNotImplemented
}

func (BaseState) GetControl(uint16) ([]byte, wire.AEMStatus) {
	return nil, wire.AEMStatusNotImplemented
}

func (BaseState) AARead(uint32, []byte) wire.AAStatus {
	return wire.AAStatusNotImplemented
}

func (BaseState) AAWrite(uint32, []byte) wire.AAStatus {
	return wire.AAStatusNotImplemented
}

func (BaseState) AAExecute(uint32, []byte) wire.AAStatus {
	return wire.AAStatusNotImplemented
}

var _ State = BaseState{}
