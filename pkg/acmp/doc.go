// Package acmp implements the AVDECC Connection Management Protocol roles.
//
// A TalkerGroup answers CONNECT_TX, DISCONNECT_TX, GET_TX_STATE and
// GET_TX_CONNECTION for the talker unique ids of one entity. A
// ListenerGroup answers CONNECT_RX, DISCONNECT_RX and GET_RX_STATE and
// forwards connects and disconnects to the talker. A Controller issues
// the controller side commands with one command in flight.
//
// Every role is a handler.Handler and an entity.ACMPHandler, so it can
// run on its own in a handler.Group or be attached to an entity.Entity.
// None of the types are safe for concurrent use; drive them from the
// scheduler goroutine.
package acmp
