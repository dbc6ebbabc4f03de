package entity

import (
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// ACQUIRE_ENTITY and LOCK_ENTITY share a payload layout.
const (
	offAcquireFlags          = 0
	offAcquireOwner          = 4
	offAcquireDescriptorType = 12
)

// onWire maps the unset sentinel to the all-zero id used in PDUs.
func onWire(id eui.Eui64) eui.Eui64 {
	if id.IsUnset() {
		return eui.Eui64{}
	}
	return id
}

// ValidatePermissions gates state-changing commands. When the entity is
// acquired only the owner passes; when it is locked and not acquired only
// the locker passes. Everything else passes.
func (e *Entity) ValidatePermissions(h wire.AEMHeader) wire.AEMStatus {
	if !h.CommandType.ChangesState() {
		return wire.AEMStatusSuccess
	}
	c := h.ControllerEntityID
	if e.acquiredBy.IsSet() {
		if e.acquiredBy != c {
			return wire.AEMStatusEntityAcquired
		}
		return wire.AEMStatusSuccess
	}
	if e.lockedBy.IsSet() && e.lockedBy != c {
		return wire.AEMStatusEntityLocked
	}
	return wire.AEMStatusSuccess
}

func (e *Entity) disputing() bool {
	return e.dispute.requester.IsSet()
}

func (e *Entity) acquire(f *wire.Frame, h wire.AEMHeader) (wire.AEMStatus, bool) {
	if h.PayloadLen() < wire.AcquirePayloadLen {
		return wire.AEMStatusBadArguments, true
	}
	base := wire.AEMPayloadOffset()
	flags, _ := f.Quadlet(base + offAcquireFlags)
	dt, _ := f.Doublet(base + offAcquireDescriptorType)

	status := wire.AEMStatusNotSupported
	if wire.DescriptorType(dt) == wire.DescriptorEntity {
		status = e.arbitrateAcquire(f, h, flags)
	}
	return status, f.SetEui64(base+offAcquireOwner, onWire(e.acquiredBy))
}

func (e *Entity) arbitrateAcquire(f *wire.Frame, h wire.AEMHeader, flags uint32) wire.AEMStatus {
	requester := h.ControllerEntityID
	now := e.port.TimeMs()

	if flags&wire.AcquireFlagRelease != 0 {
		if e.acquiredBy.IsUnset() || e.acquiredBy == requester {
			e.setOwner(eui.Unset64(), eui.Unset48(), false, now, "released")
			return wire.AEMStatusSuccess
		}
		return wire.AEMStatusEntityAcquired
	}

	if e.lockedBy.IsSet() && e.lockedBy != requester {
		return wire.AEMStatusEntityLocked
	}
	if e.acquiredBy.IsUnset() || e.acquiredBy == requester {
		e.setOwner(requester, f.SourceMAC(), flags&wire.AcquireFlagPersistent != 0, now, "acquired")
		return wire.AEMStatusSuccess
	}
	if e.disputing() || e.persistent {
		return wire.AEMStatusEntityAcquired
	}
	if err := e.SendControllerAvailable(e.acquiredBy, e.acquiredByMAC); err != nil {
		e.debugLog("entity: cannot probe owner", "owner", e.acquiredBy, "error", err)
		return wire.AEMStatusEntityAcquired
	}

	e.dispute.requester = requester
	e.dispute.requesterMAC = f.SourceMAC()
	e.dispute.probed = e.acquiredBy
	e.dispute.request = *f
	e.debugLog("entity: acquire disputed", "owner", e.acquiredBy, "requester", requester)
	e.rec.State(now, log.StateEntityAcquire, "ACQUIRED", "DISPUTED", requester.String())
	return wire.AEMStatusInProgress
}

// settleDispute ends the open dispute and answers the deferred
// ACQUIRE_ENTITY against the ownership and lock as they are now. The
// requester only takes over a held entity when ownerSilent is true and the
// probed controller still owns it.
func (e *Entity) settleDispute(now uint32, ownerSilent bool) {
	d := &e.dispute
	requester, probed := d.requester, d.probed
	d.requester = eui.Unset64()
	d.probed = eui.Unset64()
	if e.cmd.inFlight && e.cmd.commandType == wire.CmdControllerAvailable && e.cmd.target == probed {
		e.cmd.inFlight = false
		e.cmdTimer.Stop()
	}

	r := &d.request
	base := wire.AEMPayloadOffset()
	var status wire.AEMStatus
	switch {
	case e.lockedBy.IsSet() && e.lockedBy != requester:
		status = wire.AEMStatusEntityLocked
	case e.acquiredBy.IsUnset(), ownerSilent && e.acquiredBy == probed:
		flags, _ := r.Quadlet(base + offAcquireFlags)
		reason := "owner released"
		if ownerSilent {
			reason = "owner did not answer"
		}
		e.setOwner(requester, d.requesterMAC, flags&wire.AcquireFlagPersistent != 0, now, reason)
		status = wire.AEMStatusSuccess
	default:
		status = wire.AEMStatusEntityAcquired
	}
	if status != wire.AEMStatusSuccess {
		e.rec.State(now, log.StateEntityAcquire, "DISPUTED", "ACQUIRED", status.String())
	}

	if !r.SetEui64(base+offAcquireOwner, onWire(e.acquiredBy)) || !wire.SetAEMReply(r, status) {
		e.rec.Error(now, log.LayerEngine, "acquire response does not fit", requester.String())
		return
	}
	e.port.SendReplyFrame(r)
	if status == wire.AEMStatusSuccess {
		e.notify(r, requester)
	}
}

// setOwner changes the owner. Ownership moving away from the probed
// controller settles an open dispute.
func (e *Entity) setOwner(id eui.Eui64, mac eui.Eui48, persistent bool, now uint32, reason string) {
	old := e.acquiredBy
	e.acquiredBy = id
	e.acquiredByMAC = mac
	e.persistent = id.IsSet() && persistent
	if old != id {
		e.debugLog("entity: owner changed", "from", old, "to", id, "reason", reason)
		e.rec.State(now, log.StateEntityAcquire, old.String(), id.String(), reason)
	}
	if e.disputing() && id != e.dispute.probed {
		e.settleDispute(now, false)
	}
}

func (e *Entity) lock(f *wire.Frame, h wire.AEMHeader) (wire.AEMStatus, bool) {
	if h.PayloadLen() < wire.AcquirePayloadLen {
		return wire.AEMStatusBadArguments, true
	}
	base := wire.AEMPayloadOffset()
	flags, _ := f.Quadlet(base + offAcquireFlags)
	requester := h.ControllerEntityID
	now := e.port.TimeMs()

	var status wire.AEMStatus
	switch {
	case flags&wire.LockFlagUnlock != 0:
		if e.lockedBy.IsUnset() || e.lockedBy == requester {
			e.setLock(eui.Unset64(), now, "unlocked")
			status = wire.AEMStatusSuccess
		} else {
			status = wire.AEMStatusEntityLocked
		}
	case e.acquiredBy.IsSet() && e.acquiredBy != requester:
		status = wire.AEMStatusEntityAcquired
	case e.lockedBy.IsSet() && e.lockedBy != requester:
		status = wire.AEMStatusEntityLocked
	default:
		e.setLock(requester, now, "locked")
		status = wire.AEMStatusSuccess
	}
	return status, f.SetEui64(base+offAcquireOwner, onWire(e.lockedBy))
}

// setLock changes the locker. Locking again refreshes the timeout.
func (e *Entity) setLock(id eui.Eui64, now uint32, reason string) {
	old := e.lockedBy
	e.lockedBy = id
	if id.IsSet() {
		e.lockTimer.Restart(now)
	} else {
		e.lockTimer.Stop()
	}
	if old != id {
		e.debugLog("entity: lock changed", "from", old, "to", id, "reason", reason)
		e.rec.State(now, log.StateEntityLock, old.String(), id.String(), reason)
	}
	if e.disputing() && id.IsSet() && id != e.dispute.requester {
		e.settleDispute(now, false)
	}
}
