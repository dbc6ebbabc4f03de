package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network/mocks"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

type recordingHandler struct {
	name   string
	claim  bool
	ticks  []uint32
	frames int
	order  *[]string
}

func (h *recordingHandler) Tick(now uint32) {
	h.ticks = append(h.ticks, now)
}

func (h *recordingHandler) ReceivedFrame(*wire.Frame) bool {
	h.frames++
	if h.order != nil {
		*h.order = append(*h.order, h.name)
	}
	return h.claim
}

func TestGroupTicksEveryMember(t *testing.T) {
	g := NewGroup(3)
	a, b := &recordingHandler{}, &recordingHandler{}
	require.NoError(t, g.Add(a))
	require.NoError(t, g.Add(b))

	g.Tick(10)
	g.Tick(20)

	assert.Equal(t, []uint32{10, 20}, a.ticks)
	assert.Equal(t, []uint32{10, 20}, b.ticks)
}

func TestGroupFirstClaimWins(t *testing.T) {
	var order []string
	g := NewGroup(0)
	first := &recordingHandler{name: "first", order: &order}
	second := &recordingHandler{name: "second", claim: true, order: &order}
	third := &recordingHandler{name: "third", claim: true, order: &order}
	for _, h := range []Handler{first, second, third} {
		require.NoError(t, g.Add(h))
	}

	handled := g.ReceivedFrame(&wire.Frame{})

	assert.True(t, handled)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 0, third.frames)
}

func TestGroupUnclaimed(t *testing.T) {
	g := NewGroup(1)
	require.NoError(t, g.Add(&recordingHandler{}))
	assert.False(t, g.ReceivedFrame(&wire.Frame{}))
}

func TestGroupFull(t *testing.T) {
	g := NewGroup(1)
	require.NoError(t, g.Add(&recordingHandler{}))

	err := g.Add(&recordingHandler{})
	if !errors.Is(err, ErrGroupFull) {
		t.Fatalf("Add() error = %v, want ErrGroupFull", err)
	}
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 1, g.Capacity())
}

func TestGroupNests(t *testing.T) {
	inner := NewGroup(1)
	leaf := &recordingHandler{claim: true}
	require.NoError(t, inner.Add(leaf))
	outer := NewGroup(1)
	require.NoError(t, outer.Add(inner))

	outer.Tick(5)
	assert.True(t, outer.ReceivedFrame(&wire.Frame{}))
	assert.Equal(t, []uint32{5}, leaf.ticks)
}

func TestSchedulerPollDeliversThenTicks(t *testing.T) {
	port := mocks.NewMockPort(t)
	f := &wire.Frame{}
	port.EXPECT().ReceiveFrame().Return(f, true).Twice()
	port.EXPECT().ReceiveFrame().Return(nil, false).Once()
	port.EXPECT().TimeMs().Return(uint32(42)).Once()

	h := &recordingHandler{}
	s := NewScheduler(port, h)

	assert.Equal(t, 2, s.Poll())
	assert.Equal(t, 2, h.frames)
	assert.Equal(t, []uint32{42}, h.ticks)
	assert.Equal(t, 2, s.Received())
	assert.Equal(t, 2, s.Unhandled())
}

func TestSchedulerBurstLimit(t *testing.T) {
	port := mocks.NewMockPort(t)
	port.EXPECT().ReceiveFrame().Return(&wire.Frame{}, true).Times(2)
	port.EXPECT().TimeMs().Return(uint32(0)).Once()

	h := &recordingHandler{claim: true}
	s := NewSchedulerWithConfig(port, h, SchedulerConfig{MaxBurst: 2})

	assert.Equal(t, 2, s.Poll())
	assert.Equal(t, 0, s.Unhandled())
	assert.Len(t, h.ticks, 1)
}

func TestSchedulerDrainOverBus(t *testing.T) {
	clock := network.NewManualClock(7)
	bus := network.NewBus(network.BusConfig{Clock: clock})
	local, remote := bus.NewPort(eui.Eui48{2, 0, 0, 0, 0, 2}), bus.NewPort(eui.Eui48{2, 0, 0, 0, 0, 1})
	for i := 0; i < 5; i++ {
		remote.SendFrame(wire.NewFrame(wire.MulticastMAC(), remote.MACAddress(), wire.AVTPEtherType))
	}

	h := &recordingHandler{}
	s := NewSchedulerWithConfig(local, h, SchedulerConfig{MaxBurst: 2})

	assert.Equal(t, 5, s.Drain())
	assert.Equal(t, 5, h.frames)
	for _, now := range h.ticks {
		assert.Equal(t, uint32(7), now)
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	port := mocks.NewMockPort(t)
	port.EXPECT().ReceiveFrame().Return(nil, false).Maybe()
	port.EXPECT().TimeMs().Return(uint32(0)).Maybe()

	s := NewScheduler(port, &recordingHandler{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	port.AssertNotCalled(t, "SendFrame", mock.Anything)
}
