package handler

import (
	"errors"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// DefaultGroupCapacity is the capacity used by NewGroup when none is given.
const DefaultGroupCapacity = 16

// ErrGroupFull is returned when adding to a group at capacity.
var ErrGroupFull = errors.New("handler group full")

// Handler is a protocol object driven by the scheduler.
type Handler interface {
	// Tick is called on every scheduler pass with the current time.
	Tick(now uint32)

	// ReceivedFrame offers an inbound frame. It returns true when the
	// handler consumed it; the frame is then not offered to later handlers.
	ReceivedFrame(f *wire.Frame) bool
}

// Group is a bounded, ordered list of handlers. It is itself a Handler so
// groups can nest.
type Group struct {
	handlers []Handler
	capacity int
}

// NewGroup returns an empty group holding at most capacity handlers.
// A capacity of zero or less uses DefaultGroupCapacity.
func NewGroup(capacity int) *Group {
	if capacity <= 0 {
		capacity = DefaultGroupCapacity
	}
	return &Group{
		handlers: make([]Handler, 0, capacity),
		capacity: capacity,
	}
}

// Add appends h. Registration order is delivery order.
func (g *Group) Add(h Handler) error {
	if len(g.handlers) >= g.capacity {
		return ErrGroupFull
	}
	g.handlers = append(g.handlers, h)
	return nil
}

// Len returns the number of handlers.
func (g *Group) Len() int {
	return len(g.handlers)
}

// Capacity returns the maximum number of handlers.
func (g *Group) Capacity() int {
	return g.capacity
}

// Tick ticks every handler.
func (g *Group) Tick(now uint32) {
	for _, h := range g.handlers {
		h.Tick(now)
	}
}

// ReceivedFrame offers f to each handler in order until one handles it.
func (g *Group) ReceivedFrame(f *wire.Frame) bool {
	for _, h := range g.handlers {
		if h.ReceivedFrame(f) {
			return true
		}
	}
	return false
}

var _ Handler = (*Group)(nil)
