package acmp

import "github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"

// ListenerPair identifies one listener sink connected to a talker.
type ListenerPair struct {
	ListenerEntityID eui.Eui64
	ListenerUniqueID uint16
}

// TalkerPair identifies the talker source a listener is connected to.
type TalkerPair struct {
	TalkerEntityID eui.Eui64
	TalkerUniqueID uint16
}

// TalkerEvents receives talker connection changes. Implementations start
// and stop the actual stream.
type TalkerEvents interface {
	// TalkerConnected is called after a listener was added to uniqueID.
	TalkerConnected(uniqueID uint16, listener ListenerPair)

	// TalkerDisconnected is called after a listener was removed.
	TalkerDisconnected(uniqueID uint16, listener ListenerPair)
}

// ListenerEvents receives listener connection changes.
type ListenerEvents interface {
	ListenerConnected(uniqueID uint16, talker TalkerPair)
	ListenerDisconnected(uniqueID uint16, talker TalkerPair)
}
