package scenario

import (
	"fmt"
	"strings"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

func (r *Runner) registerActions() {
	r.RegisterHandler("send", actionSend)
	r.RegisterHandler("acmp", actionACMP)
	r.RegisterHandler("advance", actionAdvance)
	r.RegisterHandler("set_control_local", actionSetControlLocal)
	r.RegisterHandler("detach", actionDetach)
	r.RegisterHandler("check", func(*State, *Step) error { return nil })
}

// actionSend sends an AEM command from a controller to an entity.
func actionSend(st *State, step *Step) error {
	p := step.Params
	from, err := st.controller(paramString(p, "from"))
	if err != nil {
		return err
	}
	to, err := st.entity(paramString(p, "to"))
	if err != nil {
		return err
	}
	c := from.svc.AEM()
	id, mac := to.spec.EntityID, to.spec.MAC

	configuration, err := paramInt(p, "configuration", 0)
	if err != nil {
		return err
	}
	index, err := paramInt(p, "index", 0)
	if err != nil {
		return err
	}
	dt := wire.DescriptorEntity
	if s := paramString(p, "descriptor_type"); s != "" {
		var ok bool
		if dt, ok = wire.ParseDescriptorType(s); !ok {
			return fmt.Errorf("unknown descriptor type %q", s)
		}
	}
	nameIndex, err := paramInt(p, "name_index", 0)
	if err != nil {
		return err
	}

	var seq uint16
	switch cmd := strings.ToLower(paramString(p, "command")); cmd {
	case "acquire":
		seq, err = c.SendAcquire(id, mac, paramBool(p, "persistent"))
	case "release":
		seq, err = c.SendRelease(id, mac)
	case "lock":
		seq, err = c.SendLock(id, mac)
	case "unlock":
		seq, err = c.SendUnlock(id, mac)
	case "entity_available":
		seq, err = c.SendEntityAvailable(id, mac)
	case "register":
		seq, err = c.SendRegister(id, mac)
	case "deregister":
		seq, err = c.SendDeregister(id, mac)
	case "get_configuration":
		seq, err = c.SendGetConfiguration(id, mac)
	case "set_configuration":
		seq, err = c.SendSetConfiguration(id, mac, uint16(configuration))
	case "read_descriptor":
		seq, err = c.SendReadDescriptor(id, mac, uint16(configuration), dt, uint16(index))
	case "get_name":
		seq, err = c.SendGetName(id, mac, dt, uint16(index), uint16(nameIndex), uint16(configuration))
	case "set_name":
		seq, err = c.SendSetName(id, mac, dt, uint16(index), uint16(nameIndex), uint16(configuration), paramString(p, "name"))
	case "get_control":
		seq, err = c.SendGetControl(id, mac, uint16(index))
	case "set_control":
		var v []byte
		if v, err = paramHex(p, "value"); err != nil {
			return err
		}
		seq, err = c.SendSetControl(id, mac, uint16(index), v)
	default:
		ct, ok := wire.ParseAEMCommandType(cmd)
		if !ok {
			return fmt.Errorf("unknown command %q", cmd)
		}
		seq, err = c.SendCommand(id, mac, ct)
	}
	if err != nil {
		return err
	}
	from.lastSeq = seq
	return nil
}

// actionACMP sends an ACMP controller command.
func actionACMP(st *State, step *Step) error {
	p := step.Params
	from, err := st.controller(paramString(p, "from"))
	if err != nil {
		return err
	}
	c := from.svc.ACMP()

	var talker acmp.TalkerPair
	if name := paramString(p, "talker"); name != "" {
		n, err := st.entity(name)
		if err != nil {
			return err
		}
		uid, err := paramInt(p, "talker_unique_id", 0)
		if err != nil {
			return err
		}
		talker = acmp.TalkerPair{TalkerEntityID: n.spec.EntityID, TalkerUniqueID: uint16(uid)}
	}
	var listener acmp.ListenerPair
	if name := paramString(p, "listener"); name != "" {
		n, err := st.entity(name)
		if err != nil {
			return err
		}
		uid, err := paramInt(p, "listener_unique_id", 0)
		if err != nil {
			return err
		}
		listener = acmp.ListenerPair{ListenerEntityID: n.spec.EntityID, ListenerUniqueID: uint16(uid)}
	}

	switch cmd := strings.ToLower(paramString(p, "command")); cmd {
	case "connect_rx":
		return c.ConnectRX(talker, listener, 0)
	case "disconnect_rx":
		return c.DisconnectRX(talker, listener)
	case "get_rx_state":
		return c.GetRXState(listener)
	case "get_tx_state":
		return c.GetTXState(talker)
	case "get_tx_connection":
		index, err := paramInt(p, "index", 0)
		if err != nil {
			return err
		}
		return c.GetTXConnection(talker, uint16(index))
	default:
		return fmt.Errorf("unknown ACMP command %q", cmd)
	}
}

// actionAdvance moves the shared clock. Parties tick on the next settle.
func actionAdvance(st *State, step *Step) error {
	ms, err := paramInt(step.Params, "ms", 0)
	if err != nil {
		return err
	}
	if ms <= 0 {
		return fmt.Errorf("advance needs a positive ms")
	}
	st.clock.Advance(uint32(ms))
	return nil
}

// actionSetControlLocal changes a control as a front panel would.
func actionSetControlLocal(st *State, step *Step) error {
	n, err := st.entity(paramString(step.Params, "entity"))
	if err != nil {
		return err
	}
	index, err := paramInt(step.Params, "index", 0)
	if err != nil {
		return err
	}
	v, err := paramHex(step.Params, "value")
	if err != nil {
		return err
	}
	_, err = n.svc.SetControlValue(uint16(index), v)
	return err
}

// actionDetach takes a party off the bus.
func actionDetach(st *State, step *Step) error {
	name := paramString(step.Params, "party")
	if n, ok := st.entities[name]; ok {
		st.bus.Detach(n.port)
		return nil
	}
	if s, ok := st.controllers[name]; ok {
		st.bus.Detach(s.port)
		return nil
	}
	return fmt.Errorf("unknown party %q", name)
}
