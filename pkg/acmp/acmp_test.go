package acmp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp/mocks"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/handler"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

var (
	talkerID     = eui.Eui64FromUint64(0x0000_0000_0000_7a1c)
	listenerID   = eui.Eui64FromUint64(0x0000_0000_0000_115e)
	controllerID = eui.Eui64FromUint64(0x0000_0000_0000_c0c0)

	streamID   = eui.Eui64FromUint64(0x7a1c_0000_0000_0001)
	streamDest = eui.Eui48{0x91, 0xe0, 0xf0, 0x00, 0x12, 0x34}
)

type testNet struct {
	t      *testing.T
	clock  *network.ManualClock
	bus    *network.Bus
	nodes  []*handler.Scheduler
	sniff  *network.BusPort
	frames []wire.ACMPHeader
}

func newTestNet(t *testing.T) *testNet {
	clock := network.NewManualClock(0)
	bus := network.NewBus(network.BusConfig{Clock: clock})
	return &testNet{
		t:     t,
		clock: clock,
		bus:   bus,
		sniff: bus.NewPort(eui.Eui48{0x02, 0, 0, 0, 0, 0xff}),
	}
}

func (n *testNet) port(last byte) *network.BusPort {
	return n.bus.NewPort(eui.Eui48{0x02, 0, 0, 0, 0, last})
}

func (n *testNet) attach(p network.Port, h handler.Handler) {
	n.nodes = append(n.nodes, handler.NewScheduler(p, h))
}

// settle delivers frames until the bus is quiet and records every ACMPDU
// seen on the wire.
func (n *testNet) settle() {
	for {
		moved := 0
		for _, s := range n.nodes {
			moved += s.Drain()
		}
		for {
			f, ok := n.sniff.ReceiveFrame()
			if !ok {
				break
			}
			if h, ok := wire.ParseACMP(f); ok {
				n.frames = append(n.frames, h)
			}
		}
		if moved == 0 {
			return
		}
	}
}

func (n *testNet) advance(ms uint32) {
	n.clock.Advance(ms)
	n.settle()
}

// last returns the most recent PDU of type mt.
func (n *testNet) last(mt wire.ACMPMessageType) wire.ACMPHeader {
	n.t.Helper()
	for i := len(n.frames) - 1; i >= 0; i-- {
		if n.frames[i].MessageType == mt {
			return n.frames[i]
		}
	}
	n.t.Fatalf("no %s on the wire", mt)
	return wire.ACMPHeader{}
}

func (n *testNet) count(mt wire.ACMPMessageType) int {
	c := 0
	for _, h := range n.frames {
		if h.MessageType == mt {
			c++
		}
	}
	return c
}

// commander injects raw ACMPDUs.
type commander struct {
	port *network.BusPort
	seq  uint16
}

func (c *commander) send(t *testing.T, h wire.ACMPHeader) {
	t.Helper()
	h.ControllerEntityID = controllerID
	h.SequenceID = c.seq
	c.seq++
	f, ok := wire.NewACMPFrame(c.port.MACAddress(), h)
	require.True(t, ok)
	require.True(t, c.port.SendFrame(f))
}

func newTalkerNode(t *testing.T, n *testNet, configs ...acmp.TalkerConfig) *acmp.TalkerGroup {
	t.Helper()
	p := n.port(0x01)
	g := acmp.NewTalkerGroup(p, talkerID, acmp.DefaultGroupConfig())
	for _, c := range configs {
		tk, err := acmp.NewTalker(c)
		require.NoError(t, err)
		require.NoError(t, g.Add(tk))
	}
	n.attach(p, g)
	return g
}

func newListenerNode(t *testing.T, n *testNet, uids ...uint16) *acmp.ListenerGroup {
	t.Helper()
	p := n.port(0x02)
	g := acmp.NewListenerGroup(p, listenerID, acmp.DefaultGroupConfig())
	for _, uid := range uids {
		require.NoError(t, g.Add(acmp.NewListener(acmp.ListenerConfig{UniqueID: uid})))
	}
	n.attach(p, g)
	return g
}

func newControllerNode(n *testNet) *acmp.Controller {
	p := n.port(0x0c)
	c := acmp.NewController(p, controllerID, acmp.ControllerConfig{})
	n.attach(p, c)
	return c
}

func talkerConfig(uid uint16, max int) acmp.TalkerConfig {
	c := acmp.DefaultTalkerConfig()
	c.UniqueID = uid
	c.MaxListeners = max
	c.StreamID = streamID
	c.StreamDestMAC = streamDest
	c.StreamVLANID = 2
	return c
}

func connectTX(listener uint64, uid uint16) wire.ACMPHeader {
	return wire.ACMPHeader{
		MessageType:      wire.ACMPConnectTXCommand,
		TalkerEntityID:   talkerID,
		ListenerEntityID: eui.Eui64FromUint64(listener),
		ListenerUniqueID: uid,
	}
}

func pair(listener uint64, uid uint16) acmp.ListenerPair {
	return acmp.ListenerPair{ListenerEntityID: eui.Eui64FromUint64(listener), ListenerUniqueID: uid}
}

var (
	talker0   = acmp.TalkerPair{TalkerEntityID: talkerID, TalkerUniqueID: 0}
	talker1   = acmp.TalkerPair{TalkerEntityID: talkerID, TalkerUniqueID: 1}
	listener0 = acmp.ListenerPair{ListenerEntityID: listenerID, ListenerUniqueID: 0}
)

func TestTalkerConfigValidate(t *testing.T) {
	c := acmp.DefaultTalkerConfig()
	c.MaxListeners = 0
	_, err := acmp.NewTalker(c)
	assert.ErrorIs(t, err, acmp.ErrInvalidConfig)
}

func TestTalkerMaxListeners(t *testing.T) {
	n := newTestNet(t)
	g := newTalkerNode(t, n, talkerConfig(0, 2))
	tk, ok := g.Talker(0)
	require.True(t, ok)

	events := mocks.NewMockTalkerEvents(t)
	events.EXPECT().TalkerConnected(uint16(0), pair(1, 0)).Once()
	events.EXPECT().TalkerConnected(uint16(0), pair(2, 0)).Once()
	tk.SetEvents(events)

	c := &commander{port: n.port(0x0c)}
	want := []wire.ACMPStatus{wire.ACMPStatusSuccess, wire.ACMPStatusSuccess, wire.ACMPStatusNoResources}
	for i, status := range want {
		c.send(t, connectTX(uint64(i+1), 0))
		n.settle()
		r := n.last(wire.ACMPConnectTXResponse)
		assert.Equal(t, status, r.Status, "connect %d", i+1)
		assert.Equal(t, c.seq-1, r.SequenceID)
		assert.Equal(t, streamID, r.StreamID)
		assert.Equal(t, streamDest, r.StreamDestMAC)
	}

	assert.Equal(t, 2, tk.ConnectionCount())
	assert.Equal(t, uint16(2), n.last(wire.ACMPConnectTXResponse).ConnectionCount)
	assert.Equal(t, acmp.TalkerConnect, tk.State())
}

func TestTalkerStateTracksLastCommand(t *testing.T) {
	tk, err := acmp.NewTalker(talkerConfig(0, 1))
	require.NoError(t, err)
	assert.Equal(t, acmp.TalkerWaiting, tk.State())

	tk.Handle(connectTX(1, 0))
	assert.Equal(t, acmp.TalkerConnect, tk.State())

	r := tk.Handle(wire.ACMPHeader{MessageType: wire.ACMPConnectRXCommand})
	assert.Equal(t, wire.ACMPStatusNotSupported, r.Status)
	assert.Equal(t, acmp.TalkerWaiting, tk.State())
	assert.Equal(t, 1, tk.ConnectionCount())
}

func TestTalkerConnectIsIdempotent(t *testing.T) {
	tk, err := acmp.NewTalker(talkerConfig(0, 1))
	require.NoError(t, err)

	r := tk.Handle(connectTX(1, 0))
	assert.Equal(t, wire.ACMPStatusSuccess, r.Status)
	r = tk.Handle(connectTX(1, 0))
	assert.Equal(t, wire.ACMPStatusSuccess, r.Status)
	assert.Equal(t, uint16(1), r.ConnectionCount)
}

func TestTalkerDisconnectSwapsWithLast(t *testing.T) {
	tk, err := acmp.NewTalker(talkerConfig(0, 3))
	require.NoError(t, err)
	for i := uint64(1); i <= 3; i++ {
		tk.Handle(connectTX(i, 0))
	}

	events := mocks.NewMockTalkerEvents(t)
	events.EXPECT().TalkerDisconnected(uint16(0), pair(2, 0)).Once()
	tk.SetEvents(events)

	h := connectTX(2, 0)
	h.MessageType = wire.ACMPDisconnectTXCommand
	r := tk.Handle(h)
	assert.Equal(t, wire.ACMPStatusSuccess, r.Status)
	assert.Equal(t, wire.ACMPDisconnectTXResponse, r.MessageType)
	assert.Equal(t, uint16(2), r.ConnectionCount)
	assert.ElementsMatch(t, []acmp.ListenerPair{pair(1, 0), pair(3, 0)}, tk.Listeners())

	// Already gone.
	r = tk.Handle(h)
	assert.Equal(t, wire.ACMPStatusSuccess, r.Status)
	assert.Equal(t, 2, tk.ConnectionCount())
}

func TestTalkerQueries(t *testing.T) {
	tk, err := acmp.NewTalker(talkerConfig(0, 4))
	require.NoError(t, err)
	tk.Handle(connectTX(7, 3))

	state := tk.Handle(wire.ACMPHeader{MessageType: wire.ACMPGetTXStateCommand, TalkerEntityID: talkerID})
	assert.Equal(t, wire.ACMPGetTXStateResponse, state.MessageType)
	assert.Equal(t, uint16(1), state.ConnectionCount)
	assert.Equal(t, uint16(2), state.StreamVLANID)
	assert.Equal(t, acmp.TalkerGetState, tk.State())

	conn := tk.Handle(wire.ACMPHeader{MessageType: wire.ACMPGetTXConnectionCommand, ConnectionCount: 0})
	assert.Equal(t, wire.ACMPStatusSuccess, conn.Status)
	assert.Equal(t, eui.Eui64FromUint64(7), conn.ListenerEntityID)
	assert.Equal(t, uint16(3), conn.ListenerUniqueID)

	conn = tk.Handle(wire.ACMPHeader{MessageType: wire.ACMPGetTXConnectionCommand, ConnectionCount: 1})
	assert.Equal(t, wire.ACMPStatusNoSuchConnection, conn.Status)
	assert.Equal(t, 1, tk.ConnectionCount())
}

func TestTalkerUnknownUniqueID(t *testing.T) {
	n := newTestNet(t)
	newTalkerNode(t, n, talkerConfig(0, 1))
	c := &commander{port: n.port(0x0c)}

	c.send(t, wire.ACMPHeader{MessageType: wire.ACMPGetTXStateCommand, TalkerEntityID: talkerID, TalkerUniqueID: 9})
	n.settle()
	assert.Equal(t, wire.ACMPStatusTalkerUnknownID, n.last(wire.ACMPGetTXStateResponse).Status)

	// Commands for other talkers are not answered.
	c.send(t, wire.ACMPHeader{MessageType: wire.ACMPGetTXStateCommand, TalkerEntityID: listenerID})
	n.settle()
	assert.Equal(t, 1, n.count(wire.ACMPGetTXStateResponse))
}

func TestGroupCapacity(t *testing.T) {
	n := newTestNet(t)
	g := acmp.NewTalkerGroup(n.port(1), talkerID, acmp.GroupConfig{Capacity: 1})
	a, _ := acmp.NewTalker(talkerConfig(0, 1))
	b, _ := acmp.NewTalker(talkerConfig(1, 1))
	dup, _ := acmp.NewTalker(talkerConfig(0, 1))

	require.NoError(t, g.Add(a))
	assert.ErrorIs(t, g.Add(dup), acmp.ErrDuplicateUniqueID)
	assert.ErrorIs(t, g.Add(b), acmp.ErrGroupFull)
	assert.Equal(t, 1, g.Len())

	lg := acmp.NewListenerGroup(n.port(2), listenerID, acmp.GroupConfig{Capacity: 1})
	require.NoError(t, lg.Add(acmp.NewListener(acmp.ListenerConfig{UniqueID: 0})))
	assert.ErrorIs(t, lg.Add(acmp.NewListener(acmp.ListenerConfig{UniqueID: 0})), acmp.ErrDuplicateUniqueID)
	assert.ErrorIs(t, lg.Add(acmp.NewListener(acmp.ListenerConfig{UniqueID: 1})), acmp.ErrGroupFull)
}

func TestConnectAndDisconnectThroughListener(t *testing.T) {
	n := newTestNet(t)
	tg := newTalkerNode(t, n, talkerConfig(0, 2))
	lg := newListenerNode(t, n, 0)
	ctrl := newControllerNode(n)

	l, _ := lg.Listener(0)
	levents := mocks.NewMockListenerEvents(t)
	levents.EXPECT().ListenerConnected(uint16(0), talker0).Once()
	levents.EXPECT().ListenerDisconnected(uint16(0), talker0).Once()
	l.SetEvents(levents)

	var responses []wire.ACMPHeader
	ctrl.OnResponse(func(h wire.ACMPHeader) { responses = append(responses, h) })

	require.NoError(t, ctrl.ConnectRX(talker0, listener0, wire.ACMPFlagClassB))
	assert.False(t, ctrl.CanSendCommand())
	n.settle()

	require.Len(t, responses, 1)
	r := responses[0]
	assert.Equal(t, wire.ACMPConnectRXResponse, r.MessageType)
	assert.Equal(t, wire.ACMPStatusSuccess, r.Status)
	assert.Equal(t, streamID, r.StreamID)
	assert.Equal(t, uint16(1), r.ConnectionCount)
	assert.True(t, ctrl.CanSendCommand())

	assert.Equal(t, acmp.ListenerConnected, l.State())
	got, ok := l.Talker()
	require.True(t, ok)
	assert.Equal(t, talker0, got)
	assert.Equal(t, streamID, l.StreamID())
	tk, _ := tg.Talker(0)
	assert.True(t, tk.IsConnected(listener0))

	fwd := n.last(wire.ACMPConnectTXCommand)
	assert.Equal(t, controllerID, fwd.ControllerEntityID, "forwarded command keeps the controller id")

	require.NoError(t, ctrl.GetRXState(listener0))
	n.settle()
	require.Len(t, responses, 2)
	assert.Equal(t, talker0.TalkerEntityID, responses[1].TalkerEntityID)
	assert.Equal(t, uint16(1), responses[1].ConnectionCount)

	require.NoError(t, ctrl.DisconnectRX(talker0, listener0))
	n.settle()
	require.Len(t, responses, 3)
	assert.Equal(t, wire.ACMPDisconnectRXResponse, responses[2].MessageType)
	assert.Equal(t, wire.ACMPStatusSuccess, responses[2].Status)
	assert.Equal(t, acmp.ListenerIdle, l.State())
	assert.Equal(t, 0, tk.ConnectionCount())
}

func TestListenerExclusiveAndNotConnected(t *testing.T) {
	n := newTestNet(t)
	newTalkerNode(t, n, talkerConfig(0, 2), talkerConfig(1, 2))
	newListenerNode(t, n, 0)
	ctrl := newControllerNode(n)

	var last wire.ACMPHeader
	ctrl.OnResponse(func(h wire.ACMPHeader) { last = h })

	require.NoError(t, ctrl.DisconnectRX(talker0, listener0))
	n.settle()
	assert.Equal(t, wire.ACMPStatusNotConnected, last.Status)

	require.NoError(t, ctrl.ConnectRX(talker0, listener0, 0))
	n.settle()
	require.Equal(t, wire.ACMPStatusSuccess, last.Status)

	require.NoError(t, ctrl.ConnectRX(talker1, listener0, 0))
	n.settle()
	assert.Equal(t, wire.ACMPStatusListenerExclusive, last.Status)
	assert.Equal(t, uint16(0), last.TalkerUniqueID, "response names the current talker")

	// Connecting to the current talker again answers from local state.
	forwarded := n.count(wire.ACMPConnectTXCommand)
	require.NoError(t, ctrl.ConnectRX(talker0, listener0, 0))
	n.settle()
	assert.Equal(t, wire.ACMPStatusSuccess, last.Status)
	assert.Equal(t, forwarded, n.count(wire.ACMPConnectTXCommand))

	require.NoError(t, ctrl.GetRXState(acmp.ListenerPair{ListenerEntityID: listenerID, ListenerUniqueID: 5}))
	n.settle()
	assert.Equal(t, wire.ACMPStatusListenerUnknownID, last.Status)
}

func TestListenerTalkerTimeout(t *testing.T) {
	n := newTestNet(t)
	lg := newListenerNode(t, n, 0)
	ctrl := newControllerNode(n)
	l, _ := lg.Listener(0)

	var last wire.ACMPHeader
	ctrl.OnResponse(func(h wire.ACMPHeader) { last = h })

	require.NoError(t, ctrl.ConnectRX(talker0, listener0, 0))
	n.settle()
	assert.Equal(t, acmp.ListenerConnecting, l.State())
	assert.Equal(t, 1, n.count(wire.ACMPConnectTXCommand))

	n.advance(wire.ACMPConnectTXTimeoutMs + 1)
	assert.Equal(t, 2, n.count(wire.ACMPConnectTXCommand), "retried once")
	var seqs []uint16
	for _, h := range n.frames {
		if h.MessageType == wire.ACMPConnectTXCommand {
			seqs = append(seqs, h.SequenceID)
		}
	}
	assert.Equal(t, seqs[0], seqs[1], "retry reuses the sequence id")

	n.advance(wire.ACMPConnectTXTimeoutMs + 1)
	assert.Equal(t, 2, n.count(wire.ACMPConnectTXCommand))
	assert.Equal(t, wire.ACMPConnectRXResponse, last.MessageType)
	assert.Equal(t, wire.ACMPStatusListenerTalkerTimeout, last.Status)
	assert.Equal(t, acmp.ListenerIdle, l.State())
}

func TestListenerBusyWhileForwarding(t *testing.T) {
	n := newTestNet(t)
	newListenerNode(t, n, 0)
	c := &commander{port: n.port(0x0c)}

	c.send(t, wire.ACMPHeader{MessageType: wire.ACMPConnectRXCommand, TalkerEntityID: talkerID, ListenerEntityID: listenerID})
	n.settle()
	c.send(t, wire.ACMPHeader{MessageType: wire.ACMPDisconnectRXCommand, TalkerEntityID: talkerID, ListenerEntityID: listenerID})
	n.settle()
	assert.Equal(t, wire.ACMPStatusStateUnavailable, n.last(wire.ACMPDisconnectRXResponse).Status)
}

func TestControllerTimeoutAndInFlight(t *testing.T) {
	n := newTestNet(t)
	ctrl := newControllerNode(n)

	var timedOut []wire.ACMPHeader
	ctrl.OnTimeout(func(h wire.ACMPHeader) { timedOut = append(timedOut, h) })

	require.NoError(t, ctrl.GetTXState(talker0))
	assert.ErrorIs(t, ctrl.GetTXConnection(talker0, 0), acmp.ErrCommandInFlight)
	assert.ErrorIs(t, ctrl.Send(wire.ACMPHeader{MessageType: wire.ACMPGetTXStateResponse}), acmp.ErrCommandInFlight)

	n.advance(wire.ACMPGetTXStateTimeoutMs)
	assert.Empty(t, timedOut)
	n.advance(1)
	require.Len(t, timedOut, 1)
	assert.Equal(t, wire.ACMPGetTXStateCommand, timedOut[0].MessageType)
	assert.True(t, ctrl.CanSendCommand())

	assert.ErrorIs(t, ctrl.Send(wire.ACMPHeader{MessageType: wire.ACMPGetTXStateResponse}), acmp.ErrNotCommand)
}

func TestControllerIgnoresStaleResponse(t *testing.T) {
	n := newTestNet(t)
	ctrl := newControllerNode(n)
	var got int
	ctrl.OnResponse(func(wire.ACMPHeader) { got++ })

	require.NoError(t, ctrl.GetTXState(talker0))
	stale := wire.ACMPHeader{
		MessageType:        wire.ACMPGetTXStateResponse,
		ControllerEntityID: controllerID,
		SequenceID:         0x4444,
	}
	f, ok := wire.NewACMPFrame(eui.Eui48{2, 0, 0, 0, 0, 9}, stale)
	require.True(t, ok)
	assert.False(t, ctrl.ReceivedFrame(f))
	assert.Equal(t, 0, got)
	assert.False(t, ctrl.CanSendCommand())
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "GET_CONNECTION", acmp.TalkerGetConnection.String())
	assert.Equal(t, "DISCONNECTING", acmp.ListenerDisconnecting.String())
	assert.Equal(t, "UNKNOWN(9)", acmp.ListenerState(9).String())
}
