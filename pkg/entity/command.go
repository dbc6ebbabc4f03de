package entity

import (
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// CanSendCommand reports whether no tracked command is outstanding.
func (e *Entity) CanSendCommand() bool {
	return !e.cmd.inFlight
}

// SendCommand stamps the AEM command in f with this entity's id and the
// next sequence id, sends it and tracks it until its response arrives or
// the command timeout passes. It fails with ErrCommandInFlight while
// another command is tracked.
func (e *Entity) SendCommand(f *wire.Frame) error {
	if e.cmd.inFlight {
		return ErrCommandInFlight
	}
	h, ok := wire.ParseAEM(f)
	if !ok || h.MessageType != wire.AECPAEMCommand {
		return ErrNotCommand
	}
	seq := e.nextSeq
	if !wire.SetAEMControllerID(f, e.config.EntityID) || !wire.SetAEMSequenceID(f, seq) {
		return wire.ErrFrameOverflow
	}
	if !e.port.SendFrame(f) {
		return ErrSendFailed
	}

	e.nextSeq++
	e.cmd = trackedCommand{
		inFlight:    true,
		target:      h.TargetEntityID,
		commandType: h.CommandType,
		sequenceID:  seq,
	}
	e.cmdTimer.Restart(e.port.TimeMs())
	e.debugLog("entity: command sent", "target", h.TargetEntityID, "command", h.CommandType, "seq", seq)
	return nil
}

// SendControllerAvailable asks the controller target at mac whether it is
// still present.
func (e *Entity) SendControllerAvailable(target eui.Eui64, mac eui.Eui48) error {
	f, ok := wire.NewAEMFrame(mac, e.port.MACAddress(), wire.AEMHeader{
		MessageType:    wire.AECPAEMCommand,
		TargetEntityID: target,
		CommandType:    wire.CmdControllerAvailable,
	}, nil)
	if !ok {
		return wire.ErrFrameOverflow
	}
	return e.SendCommand(f)
}

// SendUnsolicited announces a locally made change to every registered
// controller as an unsolicited ct response carrying payload. It returns
// the number of notifications sent.
func (e *Entity) SendUnsolicited(ct wire.AEMCommandType, payload []byte) (int, error) {
	f, ok := wire.NewAEMFrame(wire.MulticastMAC(), e.port.MACAddress(), wire.AEMHeader{
		MessageType:    wire.AECPAEMResponse,
		TargetEntityID: e.config.EntityID,
		CommandType:    ct,
		Unsolicited:    true,
	}, payload)
	if !ok {
		return 0, wire.ErrFrameOverflow
	}
	return e.notify(f, eui.Unset64()), nil
}
