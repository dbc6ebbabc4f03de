package entity

import (
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/subscription"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// notifies reports whether a successful ct is announced to registered
// controllers.
func notifies(ct wire.AEMCommandType) bool {
	return ct.ChangesState() || ct == wire.CmdAcquireEntity || ct == wire.CmdLockEntity
}

// receivedCommand turns the command in f into its response in place and
// sends it.
func (e *Entity) receivedCommand(f *wire.Frame, h wire.AEMHeader) {
	// Drop Ethernet padding so responses are sized from the declared length.
	end := wire.PayloadOffset + wire.CommonHeaderLen + int(h.ControlDataLength)
	if !truncate(f, end) {
		return
	}

	status := e.ValidatePermissions(h)
	ok := true
	if status == wire.AEMStatusSuccess {
		status, ok = e.dispatch(f, h)
	}
	if !ok || !wire.SetAEMReply(f, status) {
		e.rec.Error(e.port.TimeMs(), log.LayerEngine, "response does not fit", h.CommandType.String())
		return
	}

	e.port.SendReplyFrame(f)
	if status == wire.AEMStatusSuccess && notifies(h.CommandType) {
		e.notify(f, h.ControllerEntityID)
	}
}

// dispatch runs the handler for h.CommandType. ok is false when the
// response could not be formulated and must not be sent.
func (e *Entity) dispatch(f *wire.Frame, h wire.AEMHeader) (status wire.AEMStatus, ok bool) {
	switch h.CommandType {
	case wire.CmdAcquireEntity:
		return e.acquire(f, h)
	case wire.CmdLockEntity:
		return e.lock(f, h)
	case wire.CmdEntityAvailable, wire.CmdControllerAvailable:
		return wire.AEMStatusSuccess, true
	case wire.CmdReadDescriptor:
		return e.readDescriptor(f, h)
	case wire.CmdSetConfiguration:
		return e.setConfiguration(f, h)
	case wire.CmdGetConfiguration:
		return e.getConfiguration(f)
	case wire.CmdSetName:
		return e.setName(f, h)
	case wire.CmdGetName:
		return e.getName(f, h)
	case wire.CmdSetControl:
		return e.setControl(f, h)
	case wire.CmdGetControl:
		return e.getControl(f, h)
	case wire.CmdRegisterUnsolicitedNotification:
		return e.register(f, h), true
	case wire.CmdDeregisterUnsolicitedNotification:
		_ = e.registry.Remove(h.ControllerEntityID)
		return wire.AEMStatusSuccess, true
	default:
		return wire.AEMStatusNotImplemented, true
	}
}

func truncate(f *wire.Frame, n int) bool {
	return f.SetLen(n) && f.SetPos(n)
}

func (e *Entity) readDescriptor(f *wire.Frame, h wire.AEMHeader) (wire.AEMStatus, bool) {
	if h.PayloadLen() < wire.ReadDescriptorPayloadLen {
		return wire.AEMStatusBadArguments, true
	}
	base := wire.AEMPayloadOffset()
	cfg, _ := f.Doublet(base)
	dt, _ := f.Doublet(base + 4)
	di, _ := f.Doublet(base + 6)

	data, status := e.state.ReadDescriptor(cfg, wire.DescriptorType(dt), di)
	if status != wire.AEMStatusSuccess {
		return status, true
	}
	// configuration_index and reserved, then the descriptor.
	return status, truncate(f, base+4) && f.PutBytes(data)
}

func (e *Entity) setConfiguration(f *wire.Frame, h wire.AEMHeader) (wire.AEMStatus, bool) {
	if h.PayloadLen() < wire.ConfigurationPayloadLen {
		return wire.AEMStatusBadArguments, true
	}
	base := wire.AEMPayloadOffset()
	cfg, _ := f.Doublet(base + 2)
	status := e.state.SetConfiguration(cfg)
	cur, _ := e.state.GetConfiguration()
	return status, f.SetDoublet(base+2, cur)
}

func (e *Entity) getConfiguration(f *wire.Frame) (wire.AEMStatus, bool) {
	base := wire.AEMPayloadOffset()
	cfg, status := e.state.GetConfiguration()
	return status, truncate(f, base) && f.PutDoublet(0) && f.PutDoublet(cfg)
}

func nameKey(f *wire.Frame) NameKey {
	base := wire.AEMPayloadOffset()
	dt, _ := f.Doublet(base)
	di, _ := f.Doublet(base + 2)
	ni, _ := f.Doublet(base + 4)
	cfg, _ := f.Doublet(base + 6)
	return NameKey{
		Configuration:   cfg,
		DescriptorType:  wire.DescriptorType(dt),
		DescriptorIndex: di,
		NameIndex:       ni,
	}
}

func (e *Entity) setName(f *wire.Frame, h wire.AEMHeader) (wire.AEMStatus, bool) {
	if h.PayloadLen() < wire.NamePayloadLen {
		return wire.AEMStatusBadArguments, true
	}
	var name Name
	raw, _ := f.BytesAt(wire.AEMPayloadOffset()+wire.NameHeaderLen, wire.NameLen)
	copy(name[:], raw)
	return e.state.SetName(nameKey(f), name), true
}

func (e *Entity) getName(f *wire.Frame, h wire.AEMHeader) (wire.AEMStatus, bool) {
	if h.PayloadLen() < wire.NameHeaderLen {
		return wire.AEMStatusBadArguments, true
	}
	name, status := e.state.GetName(nameKey(f))
	if status != wire.AEMStatusSuccess {
		return status, true
	}
	return status, truncate(f, wire.AEMPayloadOffset()+wire.NameHeaderLen) && f.PutBytes(name[:])
}

// controlIndex decodes the descriptor_type/descriptor_index prefix of
// SET_CONTROL and GET_CONTROL.
func controlIndex(f *wire.Frame, h wire.AEMHeader) (uint16, wire.AEMStatus) {
	if h.PayloadLen() < wire.ControlHeaderLen {
		return 0, wire.AEMStatusBadArguments
	}
	base := wire.AEMPayloadOffset()
	dt, _ := f.Doublet(base)
	di, _ := f.Doublet(base + 2)
	if wire.DescriptorType(dt) != wire.DescriptorControl {
		return 0, wire.AEMStatusNoSuchDescriptor
	}
	return di, wire.AEMStatusSuccess
}

func (e *Entity) setControl(f *wire.Frame, h wire.AEMHeader) (wire.AEMStatus, bool) {
	index, status := controlIndex(f, h)
	if status != wire.AEMStatusSuccess {
		return status, true
	}
	start := wire.AEMPayloadOffset() + wire.ControlHeaderLen
	value, _ := f.BytesAt(start, h.PayloadLen()-wire.ControlHeaderLen)
	cur, status := e.state.SetControl(index, value)
	if status != wire.AEMStatusSuccess {
		return status, true
	}
	// cur may alias value; copy before truncating.
	e.scratch.Reset()
	if !e.scratch.PutBytes(cur) {
		return status, false
	}
	return status, truncate(f, start) && f.PutBytes(e.scratch.Bytes())
}

func (e *Entity) getControl(f *wire.Frame, h wire.AEMHeader) (wire.AEMStatus, bool) {
	index, status := controlIndex(f, h)
	if status != wire.AEMStatusSuccess {
		return status, true
	}
	value, status := e.state.GetControl(index)
	if status != wire.AEMStatusSuccess {
		return status, true
	}
	return status, truncate(f, wire.AEMPayloadOffset()+wire.ControlHeaderLen) && f.PutBytes(value)
}

func (e *Entity) register(f *wire.Frame, h wire.AEMHeader) wire.AEMStatus {
	if err := e.registry.Add(h.ControllerEntityID, f.SourceMAC()); err != nil {
		e.debugLog("entity: register failed", "controller", h.ControllerEntityID, "error", err)
		return wire.AEMStatusNoResources
	}
	return wire.AEMStatusSuccess
}

// notify sends an unsolicited copy of the response in f to every registered
// controller except the one named. It returns the number sent.
func (e *Entity) notify(f *wire.Frame, except eui.Eui64) int {
	src := e.port.MACAddress()
	return e.registry.Notify(except, func(c subscription.Controller) {
		u := &e.scratch
		*u = *f
		wire.SetAEMUnsolicited(u, true)
		wire.SetAEMControllerID(u, c.EntityID)
		wire.SetAEMSequenceID(u, e.unsolicitedSeq)
		e.unsolicitedSeq++
		u.SetDestinationMAC(c.MAC)
		u.SetSourceMAC(src)
		e.port.SendFrame(u)
	})
}
