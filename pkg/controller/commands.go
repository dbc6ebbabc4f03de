package controller

import (
	"bytes"
	"encoding/binary"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

func acquirePayload(flags uint32, owner eui.Eui64) []byte {
	p := make([]byte, wire.AcquirePayloadLen)
	binary.BigEndian.PutUint32(p[0:], flags)
	copy(p[4:12], owner[:])
	binary.BigEndian.PutUint16(p[12:], uint16(wire.DescriptorEntity))
	return p
}

func descriptorRef(t wire.DescriptorType, index uint16) []byte {
	p := make([]byte, 4)
	binary.BigEndian.PutUint16(p[0:], uint16(t))
	binary.BigEndian.PutUint16(p[2:], index)
	return p
}

func nameHeader(t wire.DescriptorType, index, nameIndex, configuration uint16) []byte {
	p := make([]byte, wire.NameHeaderLen)
	binary.BigEndian.PutUint16(p[0:], uint16(t))
	binary.BigEndian.PutUint16(p[2:], index)
	binary.BigEndian.PutUint16(p[4:], nameIndex)
	binary.BigEndian.PutUint16(p[6:], configuration)
	return p
}

// SendAcquire sends ACQUIRE_ENTITY for the ENTITY descriptor.
func (c *Controller) SendAcquire(target eui.Eui64, mac eui.Eui48, persistent bool) (uint16, error) {
	var flags uint32
	if persistent {
		flags |= wire.AcquireFlagPersistent
	}
	return c.SendCommand(target, mac, wire.CmdAcquireEntity, acquirePayload(flags, eui.Eui64{}))
}

// SendRelease sends ACQUIRE_ENTITY with the release flag.
func (c *Controller) SendRelease(target eui.Eui64, mac eui.Eui48) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdAcquireEntity, acquirePayload(wire.AcquireFlagRelease, eui.Eui64{}))
}

// SendLock sends LOCK_ENTITY.
func (c *Controller) SendLock(target eui.Eui64, mac eui.Eui48) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdLockEntity, acquirePayload(0, eui.Eui64{}))
}

// SendUnlock sends LOCK_ENTITY with the unlock flag.
func (c *Controller) SendUnlock(target eui.Eui64, mac eui.Eui48) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdLockEntity, acquirePayload(wire.LockFlagUnlock, eui.Eui64{}))
}

// SendEntityAvailable sends ENTITY_AVAILABLE.
func (c *Controller) SendEntityAvailable(target eui.Eui64, mac eui.Eui48) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdEntityAvailable)
}

// SendReadDescriptor sends READ_DESCRIPTOR.
func (c *Controller) SendReadDescriptor(target eui.Eui64, mac eui.Eui48, configuration uint16, t wire.DescriptorType, index uint16) (uint16, error) {
	p := make([]byte, 4, wire.ReadDescriptorPayloadLen)
	binary.BigEndian.PutUint16(p[0:], configuration)
	return c.SendCommand(target, mac, wire.CmdReadDescriptor, append(p, descriptorRef(t, index)...))
}

// SendGetName sends GET_NAME.
func (c *Controller) SendGetName(target eui.Eui64, mac eui.Eui48, t wire.DescriptorType, index, nameIndex, configuration uint16) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdGetName, nameHeader(t, index, nameIndex, configuration))
}

// SendSetName sends SET_NAME. name is truncated to 64 octets.
func (c *Controller) SendSetName(target eui.Eui64, mac eui.Eui48, t wire.DescriptorType, index, nameIndex, configuration uint16, name string) (uint16, error) {
	n := make([]byte, wire.NameLen)
	copy(n, name)
	return c.SendCommand(target, mac, wire.CmdSetName, nameHeader(t, index, nameIndex, configuration), n)
}

// SendGetControl sends GET_CONTROL for CONTROL descriptor index.
func (c *Controller) SendGetControl(target eui.Eui64, mac eui.Eui48, index uint16) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdGetControl, descriptorRef(wire.DescriptorControl, index))
}

// SendSetControl sends SET_CONTROL for CONTROL descriptor index.
func (c *Controller) SendSetControl(target eui.Eui64, mac eui.Eui48, index uint16, value []byte) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdSetControl, descriptorRef(wire.DescriptorControl, index), value)
}

// SendSetConfiguration sends SET_CONFIGURATION.
func (c *Controller) SendSetConfiguration(target eui.Eui64, mac eui.Eui48, configuration uint16) (uint16, error) {
	p := make([]byte, wire.ConfigurationPayloadLen)
	binary.BigEndian.PutUint16(p[2:], configuration)
	return c.SendCommand(target, mac, wire.CmdSetConfiguration, p)
}

// SendGetConfiguration sends GET_CONFIGURATION.
func (c *Controller) SendGetConfiguration(target eui.Eui64, mac eui.Eui48) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdGetConfiguration)
}

// SendRegister sends REGISTER_UNSOLICITED_NOTIFICATION.
func (c *Controller) SendRegister(target eui.Eui64, mac eui.Eui48) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdRegisterUnsolicitedNotification)
}

// SendDeregister sends DEREGISTER_UNSOLICITED_NOTIFICATION.
func (c *Controller) SendDeregister(target eui.Eui64, mac eui.Eui48) (uint16, error) {
	return c.SendCommand(target, mac, wire.CmdDeregisterUnsolicitedNotification)
}

// Owner returns the owner or locker field of an ACQUIRE_ENTITY or
// LOCK_ENTITY response.
func (r Response) Owner() (eui.Eui64, bool) {
	var id eui.Eui64
	if len(r.Payload) < 12 {
		return id, false
	}
	copy(id[:], r.Payload[4:12])
	return id, true
}

// Descriptor returns the type, index and body of a READ_DESCRIPTOR
// response.
func (r Response) Descriptor() (t wire.DescriptorType, index uint16, body []byte, ok bool) {
	if len(r.Payload) < 8 {
		return 0, 0, nil, false
	}
	t = wire.DescriptorType(binary.BigEndian.Uint16(r.Payload[4:]))
	index = binary.BigEndian.Uint16(r.Payload[6:])
	return t, index, r.Payload[8:], true
}

// Name returns the name of a GET_NAME or SET_NAME response up to the
// first NUL.
func (r Response) Name() (string, bool) {
	if len(r.Payload) < wire.NamePayloadLen {
		return "", false
	}
	n := r.Payload[wire.NameHeaderLen:wire.NamePayloadLen]
	if i := bytes.IndexByte(n, 0); i >= 0 {
		n = n[:i]
	}
	return string(n), true
}

// ControlValue returns the index and value of a GET_CONTROL or
// SET_CONTROL response.
func (r Response) ControlValue() (index uint16, value []byte, ok bool) {
	if len(r.Payload) < wire.ControlHeaderLen {
		return 0, nil, false
	}
	return binary.BigEndian.Uint16(r.Payload[2:]), r.Payload[wire.ControlHeaderLen:], true
}

// Configuration returns the configuration index of a GET_CONFIGURATION
// or SET_CONFIGURATION response.
func (r Response) Configuration() (uint16, bool) {
	if len(r.Payload) < wire.ConfigurationPayloadLen {
		return 0, false
	}
	return binary.BigEndian.Uint16(r.Payload[2:]), true
}
