package avdecc_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/controller"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/service"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

const waitTimeout = 2 * time.Second

var (
	micID   = eui.Eui64FromUint64(0x001b92fffe000001)
	micMAC  = eui.Eui48{0x00, 0x1b, 0x92, 0x00, 0x00, 0x01}
	spkID   = eui.Eui64FromUint64(0x001b92fffe000002)
	spkMAC  = eui.Eui48{0x00, 0x1b, 0x92, 0x00, 0x00, 0x02}
	ctrlID  = eui.Eui64FromUint64(0x001b92fffe00c001)
	ctrlMAC = eui.Eui48{0x02, 0x00, 0x00, 0x00, 0xc0, 0x01}
)

// handler forwards everything the controller hears to channels.
type handler struct {
	responses   chan controller.Response
	unsolicited chan controller.Response
	timeouts    chan wire.AEMCommandType
}

func newHandler() *handler {
	return &handler{
		responses:   make(chan controller.Response, 16),
		unsolicited: make(chan controller.Response, 16),
		timeouts:    make(chan wire.AEMCommandType, 16),
	}
}

func (h *handler) CommandResponse(r controller.Response)    { h.responses <- r }
func (h *handler) UnsolicitedResponse(r controller.Response) { h.unsolicited <- r }
func (h *handler) CommandTimedOut(_ eui.Eui64, ct wire.AEMCommandType, _ uint16) {
	h.timeouts <- ct
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting")
	}
	var zero T
	return zero
}

type station struct {
	ctrl   *service.ControllerService
	mic    *service.EntityService
	spk    *service.EntityService
	h      *handler
	acmp   chan wire.ACMPHeader
	cap    *network.CapturePort
	logger *log.FileLogger
}

func startStation(t *testing.T, dir string) *station {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bus := network.NewBus(network.BusConfig{Clock: network.NewSystemClock()})
	fl, err := log.NewFileLogger(filepath.Join(dir, "session"+log.FileExtension))
	require.NoError(t, err)
	session := log.NewSessionID()

	mic := config.Default()
	mic.EntityID, mic.MAC, mic.EntityName = micID, micMAC, "Mic"
	mic.Talkers = []config.Talker{{MaxListeners: 1, StreamID: micID}}

	spk := config.Default()
	spk.EntityID, spk.MAC, spk.EntityName = spkID, spkMAC, "Speaker"
	spk.Listeners = 1
	spk.Controls = []config.Control{{Name: "Gain", Value: config.HexBytes{0x00, 0x00}}}

	capPort, err := network.CreateCapture(bus.NewPort(micMAC), filepath.Join(dir, "mic.pcap"))
	require.NoError(t, err)
	micPort := network.NewLoggingPort(capPort, &log.Recorder{
		Logger: fl, SessionID: session, Role: log.RoleEntity, EntityID: micID,
	})

	s := &station{h: newHandler(), acmp: make(chan wire.ACMPHeader, 16), cap: capPort, logger: fl}
	s.mic, err = service.NewEntityService(micPort, service.EntityConfig{File: mic, ProtocolLogger: fl, SessionID: session})
	require.NoError(t, err)
	s.spk, err = service.NewEntityService(bus.NewPort(spkMAC), service.EntityConfig{File: spk})
	require.NoError(t, err)
	s.ctrl, err = service.NewControllerService(bus.NewPort(ctrlMAC), service.ControllerConfig{
		EntityID: ctrlID,
		Handler:  s.h,
	})
	require.NoError(t, err)
	s.ctrl.ACMP().OnResponse(func(h wire.ACMPHeader) { s.acmp <- h })

	require.NoError(t, s.mic.Start(ctx))
	require.NoError(t, s.spk.Start(ctx))
	require.NoError(t, s.ctrl.Start(ctx))
	return s
}

// stop ends every service and closes the capture and the protocol log.
func (s *station) stop(t *testing.T) {
	t.Helper()
	require.NoError(t, s.ctrl.Stop())
	require.NoError(t, s.mic.Stop())
	require.NoError(t, s.spk.Stop())
	require.NoError(t, s.cap.Close())
	require.NoError(t, s.logger.Close())
}

// command sends through the controller service and waits for the answer.
func (s *station) command(t *testing.T, send func(c *controller.Controller) (uint16, error)) controller.Response {
	t.Helper()
	var err error
	s.ctrl.Do(func() { _, err = send(s.ctrl.AEM()) })
	require.NoError(t, err)
	return receive(t, s.h.responses)
}

func TestE2E_AcquireAndNotify(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := startStation(t, t.TempDir())
	defer s.stop(t)

	r := s.command(t, func(c *controller.Controller) (uint16, error) {
		return c.SendAcquire(spkID, spkMAC, false)
	})
	require.Equal(t, wire.AEMStatusSuccess, r.Status())
	owner, ok := r.Owner()
	require.True(t, ok)
	assert.Equal(t, ctrlID, owner)

	r = s.command(t, func(c *controller.Controller) (uint16, error) {
		return c.SendRegister(spkID, spkMAC)
	})
	require.Equal(t, wire.AEMStatusSuccess, r.Status())

	n, err := s.spk.SetControlValue(0, []byte{0x00, 0x42})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u := receive(t, s.h.unsolicited)
	assert.True(t, u.Header.Unsolicited)
	assert.Equal(t, spkID, u.Header.TargetEntityID)
	idx, value, ok := u.ControlValue()
	require.True(t, ok)
	assert.Equal(t, uint16(0), idx)
	assert.Equal(t, []byte{0x00, 0x42}, value)

	r = s.command(t, func(c *controller.Controller) (uint16, error) {
		return c.SendGetName(spkID, spkMAC, wire.DescriptorEntity, 0, 0, 0)
	})
	name, _ := r.Name()
	assert.Equal(t, "Speaker", name)
}

func TestE2E_CommandToAbsentEntityTimesOut(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := startStation(t, t.TempDir())
	defer s.stop(t)

	absent := eui.Eui64FromUint64(0x001b92fffe0000ff)
	var err error
	s.ctrl.Do(func() { _, err = s.ctrl.AEM().SendEntityAvailable(absent, eui.Eui48{0x02, 0, 0, 0, 0, 0xff}) })
	require.NoError(t, err)
	assert.Equal(t, wire.CmdEntityAvailable, receive(t, s.h.timeouts))
}

func TestE2E_ConnectStreamIsCapturedAndLogged(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dir := t.TempDir()
	s := startStation(t, dir)

	talker := acmp.TalkerPair{TalkerEntityID: micID, TalkerUniqueID: 0}
	listener := acmp.ListenerPair{ListenerEntityID: spkID, ListenerUniqueID: 0}
	var err error
	s.ctrl.Do(func() { err = s.ctrl.ACMP().ConnectRX(talker, listener, 0) })
	require.NoError(t, err)

	h := receive(t, s.acmp)
	assert.Equal(t, wire.ACMPConnectRXResponse, h.MessageType)
	assert.Equal(t, wire.ACMPStatusSuccess, h.Status)
	assert.Equal(t, uint16(1), h.ConnectionCount)

	var connected bool
	s.spk.Do(func() {
		l, ok := s.spk.Listener(0)
		connected = ok && l.State() == acmp.ListenerConnected
	})
	assert.True(t, connected)
	s.stop(t)

	replay, err := network.OpenReplay(filepath.Join(dir, "mic.pcap"), micMAC)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, replay.Len(), 2, "CONNECT_TX command and response")

	proto := log.ProtocolACMP
	layer := log.LayerMessage
	r, err := log.NewFilteredReader(filepath.Join(dir, "session"+log.FileExtension), log.Filter{
		Protocol: &proto,
		Layer:    &layer,
	})
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		names = append(names, ev.Message.Name)
	}
	assert.Contains(t, names, "CONNECT_TX_COMMAND")
	assert.Contains(t, names, "CONNECT_TX_RESPONSE")
}
