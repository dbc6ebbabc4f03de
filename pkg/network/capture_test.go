package network

import (
	"bytes"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

func acmpFrame(t *testing.T, src eui.Eui48, seq uint16) *wire.Frame {
	t.Helper()
	f, ok := wire.NewACMPFrame(src, wire.ACMPHeader{
		MessageType:      wire.ACMPGetTXStateCommand,
		TalkerEntityID:   eui.Eui64FromUint64(0x0001),
		ListenerEntityID: eui.Eui64FromUint64(0x0002),
		SequenceID:       seq,
	})
	require.True(t, ok)
	return f
}

func TestCaptureReplayRoundTrip(t *testing.T) {
	clock := NewManualClock(0)
	bus := NewBus(BusConfig{Clock: clock})
	a, b := bus.NewPort(macA), bus.NewPort(macB)

	var buf bytes.Buffer
	capA, err := NewCapturePort(a, &buf)
	require.NoError(t, err)

	require.True(t, capA.SendFrame(acmpFrame(t, macA, 1)))
	clock.Advance(250)
	require.True(t, b.SendFrame(acmpFrame(t, macB, 2)))
	_, ok := capA.ReceiveFrame()
	require.True(t, ok)
	require.NoError(t, capA.Err())
	assert.Equal(t, 2, capA.Count())

	replay, err := LoadReplay(&buf, macC)
	require.NoError(t, err)
	assert.Equal(t, 2, replay.Len())
	assert.Equal(t, 0, replay.Skipped())

	f, ok := replay.ReceiveFrame()
	require.True(t, ok)
	h, ok := wire.ParseACMP(f)
	require.True(t, ok)
	assert.Equal(t, uint16(1), h.SequenceID)
	assert.Equal(t, uint32(0), replay.TimeMs())

	f, ok = replay.ReceiveFrame()
	require.True(t, ok)
	h, _ = wire.ParseACMP(f)
	assert.Equal(t, uint16(2), h.SequenceID)
	assert.Equal(t, uint32(250), replay.TimeMs())
	assert.True(t, replay.Done())

	require.True(t, replay.SendReplyFrame(f))
	require.Len(t, replay.Sent(), 1)
	assert.Equal(t, macB, replay.Sent()[0].DestinationMAC())
	assert.Equal(t, macC, replay.Sent()[0].SourceMAC())

	require.NoError(t, capA.Close())
	assert.ErrorIs(t, capA.Close(), ErrPortClosed)
}

func TestExtractAVTPStripsVLANTag(t *testing.T) {
	acmp := acmpFrame(t, macA, 9)
	group := wire.MulticastMAC()

	sb := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(sb, gopacket.SerializeOptions{},
		&layers.Ethernet{
			SrcMAC:       macA[:],
			DstMAC:       group[:],
			EthernetType: layers.EthernetTypeDot1Q,
		},
		&layers.Dot1Q{
			Priority:       3,
			VLANIdentifier: 2,
			Type:           layers.EthernetType(wire.AVTPEtherType),
		},
		gopacket.Payload(acmp.Payload()),
	)
	require.NoError(t, err)

	raw, ok := ExtractAVTP(sb.Bytes())
	require.True(t, ok)
	assert.Equal(t, []byte{0x22, 0xf0}, raw[12:14])
	assert.Equal(t, acmp.Bytes(), raw)
}

func TestExtractAVTPRejectsOtherEthertypes(t *testing.T) {
	sb := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(sb, gopacket.SerializeOptions{},
		&layers.Ethernet{
			SrcMAC:       macA[:],
			DstMAC:       macB[:],
			EthernetType: layers.EthernetTypeIPv4,
		},
		gopacket.Payload(make([]byte, 46)),
	)
	require.NoError(t, err)

	_, ok := ExtractAVTP(sb.Bytes())
	assert.False(t, ok)
}

func TestLoadReplaySkipsForeignPackets(t *testing.T) {
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(CaptureSnapLen, layers.LinkTypeEthernet))

	ip := make([]byte, 60)
	ip[12], ip[13] = 0x08, 0x00
	data := acmpFrame(t, macA, 3).Bytes()
	for _, pkt := range [][]byte{ip, data} {
		require.NoError(t, w.WritePacket(gopacket.CaptureInfo{
			CaptureLength: len(pkt),
			Length:        len(pkt),
		}, pkt))
	}

	replay, err := LoadReplay(&buf, macC)
	require.NoError(t, err)
	assert.Equal(t, 1, replay.Len())
	assert.Equal(t, 1, replay.Skipped())
}

func TestLoadReplayRejectsOtherLinkTypes(t *testing.T) {
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(CaptureSnapLen, layers.LinkTypeRaw))

	_, err := LoadReplay(&buf, macC)
	assert.ErrorIs(t, err, ErrNotEthernet)
}

type eventSink struct {
	events []log.Event
}

func (s *eventSink) Log(ev log.Event) { s.events = append(s.events, ev) }

func TestLoggingPortRecordsBothDirections(t *testing.T) {
	bus := NewBus(DefaultBusConfig())
	a, b := bus.NewPort(macA), bus.NewPort(macB)
	sink := &eventSink{}
	lp := NewLoggingPort(a, &log.Recorder{Logger: sink, Role: log.RoleController})

	require.True(t, lp.SendFrame(acmpFrame(t, macA, 1)))
	b.SendFrame(acmpFrame(t, macB, 2))
	_, ok := lp.ReceiveFrame()
	require.True(t, ok)

	// Each ACMP frame yields a frame event and a decoded message event.
	require.Len(t, sink.events, 4)
	assert.Equal(t, log.DirectionOut, sink.events[0].Direction)
	assert.Equal(t, macB.String(), sink.events[2].PeerMAC)
	assert.Equal(t, log.DirectionIn, sink.events[3].Direction)
	require.NotNil(t, sink.events[3].Message)
	assert.Equal(t, uint16(2), sink.events[3].Message.SequenceID)
}

func TestLoggingPortNilRecorder(t *testing.T) {
	bus := NewBus(DefaultBusConfig())
	lp := NewLoggingPort(bus.NewPort(macA), nil)
	assert.True(t, lp.SendFrame(acmpFrame(t, macA, 1)))
	assert.Equal(t, macA, lp.MACAddress())
}

func TestWriteCaptureKeepsFrameTimes(t *testing.T) {
	first, second := acmpFrame(t, macA, 1), acmpFrame(t, macB, 2)
	first.Time, second.Time = 100, 400

	var buf bytes.Buffer
	require.NoError(t, WriteCapture(&buf, []*wire.Frame{first, second}))

	replay, err := LoadReplay(&buf, macC)
	require.NoError(t, err)
	require.Equal(t, 2, replay.Len())
	replay.ReceiveFrame()
	f, _ := replay.ReceiveFrame()
	assert.Equal(t, uint32(300), f.Time)
	assert.Equal(t, macB, f.SourceMAC())
}

func TestReplayPacedTicksBeforeDelivery(t *testing.T) {
	first, second := acmpFrame(t, macA, 1), acmpFrame(t, macB, 2)
	first.Time, second.Time = 0, 500
	var buf bytes.Buffer
	require.NoError(t, WriteCapture(&buf, []*wire.Frame{first, second}))
	replay, err := LoadReplay(&buf, macC)
	require.NoError(t, err)
	replay.SetPaced(true)

	_, ok := replay.ReceiveFrame()
	require.True(t, ok, "first frame is already due")

	_, ok = replay.ReceiveFrame()
	assert.False(t, ok)
	assert.Equal(t, uint32(500), replay.TimeMs())
	assert.False(t, replay.Done())

	_, ok = replay.ReceiveFrame()
	assert.True(t, ok)
	assert.True(t, replay.Done())
}
