package entity

import (
	"encoding/binary"
	"errors"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// MemoryState errors.
var (
	ErrUnknownControl   = errors.New("unknown control index")
	ErrValueLength      = errors.New("control value length mismatch")
	ErrDescriptorTooBig = errors.New("descriptor does not fit in a frame")
)

// maxDescriptorLen is the largest descriptor body that fits in a
// READ_DESCRIPTOR response after the configuration index and reserved
// fields.
const maxDescriptorLen = wire.MaxFrameSize - wire.PayloadOffset - wire.AEMHeaderLen - 4

type descriptorKey struct {
	configuration uint16
	kind          wire.DescriptorType
	index         uint16
}

func keyFor(configuration uint16, t wire.DescriptorType, index uint16) descriptorKey {
	// ENTITY and CONFIGURATION descriptors do not belong to a configuration.
	if t == wire.DescriptorEntity || t == wire.DescriptorConfiguration {
		configuration = 0
	}
	return descriptorKey{configuration: configuration, kind: t, index: index}
}

// MemoryState is a State that keeps everything in memory. It is not safe
// for concurrent use; mutate it from the goroutine that drives the entity.
type MemoryState struct {
	descriptors    map[descriptorKey][]byte
	names          map[NameKey]Name
	controls       map[uint16][]byte
	configuration  uint16
	configurations uint16

	memoryBase uint32
	memory     []byte

	onControlChange func(index uint16, value []byte)
	onExecute       func(address uint32, data []byte) wire.AAStatus
}

// NewMemoryState returns an empty state with a single configuration.
func NewMemoryState() *MemoryState {
	return &MemoryState{
		descriptors:    make(map[descriptorKey][]byte),
		names:          make(map[NameKey]Name),
		controls:       make(map[uint16][]byte),
		configurations: 1,
	}
}

// SetDescriptor stores a descriptor. body is the descriptor content after
// the descriptor_type and descriptor_index fields.
func (s *MemoryState) SetDescriptor(configuration uint16, t wire.DescriptorType, index uint16, body []byte) error {
	if len(body)+4 > maxDescriptorLen {
		return ErrDescriptorTooBig
	}
	d := make([]byte, 4+len(body))
	binary.BigEndian.PutUint16(d[0:], uint16(t))
	binary.BigEndian.PutUint16(d[2:], index)
	copy(d[4:], body)
	s.descriptors[keyFor(configuration, t, index)] = d
	if t == wire.DescriptorConfiguration && index >= s.configurations {
		s.configurations = index + 1
	}
	return nil
}

// HasDescriptor reports whether the descriptor exists.
func (s *MemoryState) HasDescriptor(configuration uint16, t wire.DescriptorType, index uint16) bool {
	_, ok := s.descriptors[keyFor(configuration, t, index)]
	return ok
}

// DescriptorCount returns the number of stored descriptors.
func (s *MemoryState) DescriptorCount() int {
	return len(s.descriptors)
}

// AddControl creates CONTROL descriptor index with an initial value. The
// value length is fixed from then on.
func (s *MemoryState) AddControl(configuration, index uint16, value []byte) error {
	if err := s.SetDescriptor(configuration, wire.DescriptorControl, index, nil); err != nil {
		return err
	}
	s.controls[index] = append([]byte(nil), value...)
	return nil
}

// SetControlValue changes a control locally, as a front panel would.
// The change callback fires; the caller decides whether to notify
// controllers.
func (s *MemoryState) SetControlValue(index uint16, value []byte) error {
	cur, ok := s.controls[index]
	if !ok {
		return ErrUnknownControl
	}
	if len(cur) != len(value) {
		return ErrValueLength
	}
	copy(cur, value)
	if s.onControlChange != nil {
		s.onControlChange(index, cur)
	}
	return nil
}

// ControlValue returns a copy of a control value.
func (s *MemoryState) ControlValue(index uint16) ([]byte, bool) {
	v, ok := s.controls[index]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// SetNameValue stores a name without going through SET_NAME.
func (s *MemoryState) SetNameValue(key NameKey, name Name) {
	s.names[key] = name
}

// SetMemory maps data at base for Address Access.
func (s *MemoryState) SetMemory(base uint32, data []byte) {
	s.memoryBase = base
	s.memory = data
}

// Memory returns the Address Access window.
func (s *MemoryState) Memory() []byte {
	return s.memory
}

// OnControlChange sets a callback for control changes, local or remote.
func (s *MemoryState) OnControlChange(fn func(index uint16, value []byte)) {
	s.onControlChange = fn
}

// OnExecute sets the handler for Address Access EXECUTE TLVs.
func (s *MemoryState) OnExecute(fn func(address uint32, data []byte) wire.AAStatus) {
	s.onExecute = fn
}

// ReadDescriptor implements State.
func (s *MemoryState) ReadDescriptor(configuration uint16, t wire.DescriptorType, index uint16) ([]byte, wire.AEMStatus) {
	d, ok := s.descriptors[keyFor(configuration, t, index)]
	if !ok {
		return nil, wire.AEMStatusNoSuchDescriptor
	}
	return d, wire.AEMStatusSuccess
}

// SetConfiguration implements State.
func (s *MemoryState) SetConfiguration(configuration uint16) wire.AEMStatus {
	if configuration >= s.configurations {
		return wire.AEMStatusBadArguments
	}
	s.configuration = configuration
	return wire.AEMStatusSuccess
}

// GetConfiguration implements State.
func (s *MemoryState) GetConfiguration() (uint16, wire.AEMStatus) {
	return s.configuration, wire.AEMStatusSuccess
}

// SetName implements State. Only names of existing descriptors can be set.
func (s *MemoryState) SetName(key NameKey, name Name) wire.AEMStatus {
	if !s.HasDescriptor(key.Configuration, key.DescriptorType, key.DescriptorIndex) {
		return wire.AEMStatusNoSuchDescriptor
	}
	s.names[key] = name
	return wire.AEMStatusSuccess
}

// GetName implements State. An unset name of an existing descriptor is
// empty.
func (s *MemoryState) GetName(key NameKey) (Name, wire.AEMStatus) {
	if !s.HasDescriptor(key.Configuration, key.DescriptorType, key.DescriptorIndex) {
		return Name{}, wire.AEMStatusNoSuchDescriptor
	}
	return s.names[key], wire.AEMStatusSuccess
}

// SetControl implements State.
func (s *MemoryState) SetControl(index uint16, value []byte) ([]byte, wire.AEMStatus) {
	cur, ok := s.controls[index]
	if !ok {
		return nil, wire.AEMStatusNoSuchDescriptor
	}
	if len(value) != len(cur) {
		return nil, wire.AEMStatusBadArguments
	}
	copy(cur, value)
	if s.onControlChange != nil {
		s.onControlChange(index, cur)
	}
	return cur, wire.AEMStatusSuccess
}

// GetControl implements State.
func (s *MemoryState) GetControl(index uint16) ([]byte, wire.AEMStatus) {
	cur, ok := s.controls[index]
	if !ok {
		return nil, wire.AEMStatusNoSuchDescriptor
	}
	return cur, wire.AEMStatusSuccess
}

func (s *MemoryState) window(address uint32, n int) ([]byte, wire.AAStatus) {
	if address < s.memoryBase {
		return nil, wire.AAStatusAddressTooLow
	}
	off := uint64(address - s.memoryBase)
	if off+uint64(n) > uint64(len(s.memory)) {
		return nil, wire.AAStatusAddressTooHigh
	}
	return s.memory[off : off+uint64(n)], wire.AAStatusSuccess
}

// AARead implements State.
func (s *MemoryState) AARead(address uint32, data []byte) wire.AAStatus {
	w, status := s.window(address, len(data))
	if status != wire.AAStatusSuccess {
		return status
	}
	copy(data, w)
	return wire.AAStatusSuccess
}

// AAWrite implements State.
func (s *MemoryState) AAWrite(address uint32, data []byte) wire.AAStatus {
	w, status := s.window(address, len(data))
	if status != wire.AAStatusSuccess {
		return status
	}
	copy(w, data)
	return wire.AAStatusSuccess
}

// AAExecute implements State.
func (s *MemoryState) AAExecute(address uint32, data []byte) wire.AAStatus {
	if s.onExecute == nil {
		return wire.AAStatusNotImplemented
	}
	return s.onExecute(address, data)
}

var _ State = (*MemoryState)(nil)
