package config

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/entity"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/version"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// ENTITY descriptor layout after descriptor_type and descriptor_index.
const (
	offEntityTalkerSources   = 20
	offEntityListenerSinks   = 24
	offEntityName            = 44
	offEntityFirmwareVersion = 112
	offEntityConfigurations  = 304
	entityDescriptorBodyLen  = 308
	talkerCapabilityImpl     = 0x0001
	listenerCapabilityImpl   = 0x0001
	talkerCapabilityAudio    = 0x4000
	listenerCapabilityAudio  = 0x4000
	controllerCapabilityImpl = 0x00000001
)

// EntityConfig returns the engine configuration.
func (c *Config) EntityConfig(logger *slog.Logger) entity.Config {
	ec := entity.DefaultConfig()
	ec.EntityID = c.EntityID
	ec.MaxRegisteredControllers = c.MaxRegisteredControllers
	ec.CommandTimeoutMs = c.CommandTimeoutMs
	ec.LockTimeoutMs = c.LockTimeoutMs
	ec.Logger = logger
	return ec
}

// TalkerConfigs returns one talker configuration per configured talker,
// with unique ids in file order.
func (c *Config) TalkerConfigs() []acmp.TalkerConfig {
	out := make([]acmp.TalkerConfig, 0, len(c.Talkers))
	for i, t := range c.Talkers {
		tc := acmp.DefaultTalkerConfig()
		tc.UniqueID = uint16(i)
		tc.MaxListeners = t.MaxListeners
		tc.StreamID = t.StreamID
		tc.StreamDestMAC = t.StreamDestMAC
		tc.StreamVLANID = t.VLANID
		out = append(out, tc)
	}
	return out
}

// entityDescriptor encodes the ENTITY descriptor body.
func (c *Config) entityDescriptor() []byte {
	b := make([]byte, entityDescriptorBodyLen)
	copy(b[0:], c.EntityID[:])
	copy(b[8:], c.EntityModelID[:])
	var talkerCaps, listenerCaps uint16
	if len(c.Talkers) > 0 {
		talkerCaps = talkerCapabilityImpl | talkerCapabilityAudio
	}
	if c.Listeners > 0 {
		listenerCaps = listenerCapabilityImpl | listenerCapabilityAudio
	}
	binary.BigEndian.PutUint16(b[offEntityTalkerSources:], uint16(len(c.Talkers)))
	binary.BigEndian.PutUint16(b[offEntityTalkerSources+2:], talkerCaps)
	binary.BigEndian.PutUint16(b[offEntityListenerSinks:], uint16(c.Listeners))
	binary.BigEndian.PutUint16(b[offEntityListenerSinks+2:], listenerCaps)
	binary.BigEndian.PutUint32(b[offEntityListenerSinks+4:], controllerCapabilityImpl)
	copy(b[offEntityName:offEntityName+wire.NameLen], c.EntityName)
	copy(b[offEntityFirmwareVersion:offEntityFirmwareVersion+wire.NameLen], version.Firmware())
	binary.BigEndian.PutUint16(b[offEntityConfigurations:], 1)
	return b
}

// State builds the in-memory entity state: the ENTITY and CONFIGURATION
// descriptors, every configured descriptor and control, and their names.
func (c *Config) State() (*entity.MemoryState, error) {
	s := entity.NewMemoryState()
	if err := s.SetDescriptor(0, wire.DescriptorEntity, 0, c.entityDescriptor()); err != nil {
		return nil, err
	}
	if err := s.SetDescriptor(0, wire.DescriptorConfiguration, 0, nil); err != nil {
		return nil, err
	}
	s.SetNameValue(entity.NameKey{DescriptorType: wire.DescriptorEntity}, entity.NameFromString(c.EntityName))

	for _, d := range c.Descriptors {
		t := wire.DescriptorType(d.Type)
		if err := s.SetDescriptor(d.Configuration, t, d.Index, d.Data); err != nil {
			return nil, fmt.Errorf("descriptor %s %d: %w", t, d.Index, err)
		}
		if d.Name != "" {
			s.SetNameValue(entity.NameKey{
				Configuration:   d.Configuration,
				DescriptorType:  t,
				DescriptorIndex: d.Index,
			}, entity.NameFromString(d.Name))
		}
	}
	for _, ctl := range c.Controls {
		if err := s.AddControl(ctl.Configuration, ctl.Index, ctl.Value); err != nil {
			return nil, fmt.Errorf("control %d: %w", ctl.Index, err)
		}
		if ctl.Name != "" {
			s.SetNameValue(entity.NameKey{
				Configuration:   ctl.Configuration,
				DescriptorType:  wire.DescriptorControl,
				DescriptorIndex: ctl.Index,
			}, entity.NameFromString(ctl.Name))
		}
	}
	return s, nil
}
