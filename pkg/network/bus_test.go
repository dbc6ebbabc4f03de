package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

var (
	macA = eui.Eui48{0x02, 0, 0, 0, 0, 0x0a}
	macB = eui.Eui48{0x02, 0, 0, 0, 0, 0x0b}
	macC = eui.Eui48{0x02, 0, 0, 0, 0, 0x0c}
)

func TestBusMulticastReachesEveryoneButSender(t *testing.T) {
	clock := NewManualClock(100)
	bus := NewBus(BusConfig{Clock: clock})
	a, b, c := bus.NewPort(macA), bus.NewPort(macB), bus.NewPort(macC)

	require.True(t, a.SendFrame(wire.NewFrame(wire.MulticastMAC(), macA, wire.AVTPEtherType)))

	assert.Equal(t, 0, a.Pending())
	assert.Equal(t, 1, b.Pending())
	assert.Equal(t, 1, c.Pending())
	assert.Equal(t, 1, a.Sent())

	f, ok := b.ReceiveFrame()
	require.True(t, ok)
	assert.Equal(t, uint32(100), f.Time)
	assert.Equal(t, macA, f.SourceMAC())

	_, ok = b.ReceiveFrame()
	assert.False(t, ok)
}

func TestBusUnicastFiltering(t *testing.T) {
	bus := NewBus(DefaultBusConfig())
	a, b, c := bus.NewPort(macA), bus.NewPort(macB), bus.NewPort(macC)

	a.SendFrame(wire.NewFrame(macC, macA, wire.AVTPEtherType))

	assert.Equal(t, 0, b.Pending())
	assert.Equal(t, 1, c.Pending())
}

func TestBusReplyAddressing(t *testing.T) {
	bus := NewBus(DefaultBusConfig())
	a, b := bus.NewPort(macA), bus.NewPort(macB)

	a.SendFrame(wire.NewFrame(wire.MulticastMAC(), macA, wire.AVTPEtherType))
	cmd, ok := b.ReceiveFrame()
	require.True(t, ok)

	require.True(t, b.SendReplyFrame(cmd))
	rsp, ok := a.ReceiveFrame()
	require.True(t, ok)
	assert.Equal(t, macA, rsp.DestinationMAC())
	assert.Equal(t, macB, rsp.SourceMAC())

	// The caller's frame is left untouched.
	assert.Equal(t, wire.MulticastMAC(), cmd.DestinationMAC())
}

func TestBusQueueDrop(t *testing.T) {
	bus := NewBus(BusConfig{QueueSize: 2})
	a, b := bus.NewPort(macA), bus.NewPort(macB)

	for i := 0; i < 3; i++ {
		a.SendFrame(wire.NewFrame(macB, macA, wire.AVTPEtherType))
	}
	assert.Equal(t, 2, b.Pending())
	assert.Equal(t, 1, bus.Dropped())
}

func TestBusDetach(t *testing.T) {
	bus := NewBus(DefaultBusConfig())
	a, b := bus.NewPort(macA), bus.NewPort(macB)
	a.SendFrame(wire.NewFrame(macB, macA, wire.AVTPEtherType))

	bus.Detach(b)
	assert.Equal(t, 0, b.Pending())
	assert.False(t, b.SendFrame(wire.NewFrame(macA, macB, wire.AVTPEtherType)))
	assert.Equal(t, 0, a.Pending())
}

func TestManualClockWraps(t *testing.T) {
	c := NewManualClock(0xffff_fff0)
	assert.Equal(t, uint32(0x10), c.Advance(0x20))
	c.Set(7)
	assert.Equal(t, uint32(7), c.TimeMs())
}

func TestWithPayload(t *testing.T) {
	f := wire.NewFrame(macB, macA, wire.AVTPEtherType)
	c, ok := WithPayload(f, []byte{1, 2}, []byte{3})
	require.True(t, ok)
	assert.Equal(t, wire.PayloadOffset, f.Len())
	assert.Equal(t, []byte{1, 2, 3}, c.Payload())

	_, ok = WithPayload(f, make([]byte, wire.MaxFrameSize))
	assert.False(t, ok)
}

func TestIsGroupAddress(t *testing.T) {
	assert.True(t, IsGroupAddress(wire.MulticastMAC()))
	assert.True(t, IsGroupAddress(eui.Eui48{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}))
	assert.False(t, IsGroupAddress(macA))
}
