package entity

import (
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// receivedAA executes the TLVs of an Address Access command in order and
// stops at the first one that fails. TLVs executed before the failure stay
// applied. The response echoes each executed TLV, with data for READ.
func (e *Entity) receivedAA(f *wire.Frame, h wire.AAHeader) {
	end := wire.PayloadOffset + wire.CommonHeaderLen + int(h.ControlDataLength)
	if !truncate(f, end) {
		return
	}

	// READ responses are longer than their commands, so the response is
	// built beside the request.
	r := &e.scratch
	*r = *f
	if !truncate(r, wire.PayloadOffset+wire.OffAATLVs) {
		return
	}

	status := wire.AAStatusSuccess
	var count uint16
	it := wire.AATLVs(f, h)
	for {
		tlv, more, valid := it.Next()
		if !more {
			break
		}
		if !valid {
			status = wire.AAStatusTLVInvalid
			break
		}
		if !tlv.AddressValid() {
			status = wire.AAStatusAddressInvalid
			break
		}
		mark := r.Len()
		st, fits := e.executeTLV(r, tlv)
		if !fits {
			truncate(r, mark)
			status = wire.AAStatusTLVInvalid
			break
		}
		count++
		if st != wire.AAStatusSuccess {
			status = st
			break
		}
	}

	if !wire.SetAAReply(r, status, count) {
		e.rec.Error(e.port.TimeMs(), log.LayerEngine, "address access response does not fit", "")
		return
	}
	e.port.SendReplyFrame(r)
}

// executeTLV appends the response TLV to r and runs it against the state.
// fits is false when the response TLV does not fit in r.
func (e *Entity) executeTLV(r *wire.Frame, tlv wire.AATLV) (status wire.AAStatus, fits bool) {
	addr := uint32(tlv.Address)
	switch tlv.Mode {
	case wire.AAModeRead:
		n := int(tlv.Length)
		if !wire.PutAATLV(r, tlv.Mode, tlv.Length, tlv.Address, nil) || !r.PutZeros(n) {
			return 0, false
		}
		data, _ := r.BytesAt(r.Len()-n, n)
		return e.state.AARead(addr, data), true
	case wire.AAModeWrite:
		if !wire.PutAATLV(r, tlv.Mode, tlv.Length, tlv.Address, tlv.Data) {
			return 0, false
		}
		return e.state.AAWrite(addr, tlv.Data), true
	case wire.AAModeExecute:
		if !wire.PutAATLV(r, tlv.Mode, tlv.Length, tlv.Address, tlv.Data) {
			return 0, false
		}
		return e.state.AAExecute(addr, tlv.Data), true
	default:
		if !wire.PutAATLV(r, tlv.Mode, tlv.Length, tlv.Address, tlv.Data) {
			return 0, false
		}
		return wire.AAStatusTLVInvalid, true
	}
}
