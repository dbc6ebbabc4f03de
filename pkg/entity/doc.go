// Package entity implements the responder side of an AVDECC entity.
//
// An Entity answers AEM commands addressed to its entity id, arbitrates
// ACQUIRE_ENTITY and LOCK_ENTITY between remote controllers, fans
// unsolicited notifications out to registered controllers, serves Address
// Access TLVs and routes ACMP PDUs to the talker, listener and controller
// role handlers attached to it.
//
// Descriptor content and control values come from a State delegate.
// BaseState answers everything with NOT_IMPLEMENTED or NO_SUCH_DESCRIPTOR
// and is meant to be embedded; MemoryState keeps descriptors, names,
// controls and an Address Access memory window in memory.
//
// An Entity is a handler.Handler. It is driven by a single goroutine
// through Tick and ReceivedFrame and is not safe for concurrent use.
package entity
