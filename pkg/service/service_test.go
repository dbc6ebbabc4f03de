package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/controller"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/controller/mocks"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

var (
	entityID  = eui.Eui64FromUint64(0x001b92fffe000001)
	entityMAC = eui.Eui48{0x00, 0x1b, 0x92, 0x00, 0x00, 0x01}
	ctrlID    = eui.Eui64FromUint64(0x0c0c)
	ctrlMAC   = eui.Eui48{0x02, 0, 0, 0, 0, 0x0c}
)

func entityFile() config.Config {
	c := config.Default()
	c.EntityID = entityID
	c.MAC = entityMAC
	c.EntityName = "Rack"
	c.Talkers = []config.Talker{{MaxListeners: 2, StreamID: entityID}}
	c.Listeners = 1
	c.Controls = []config.Control{{Index: 0, Value: config.HexBytes{0x01}}}
	return c
}

type rig struct {
	clock *network.ManualClock
	ent   *EntityService
	ctrl  *ControllerService
}

func newRig(t *testing.T, h controller.ResponseHandler) *rig {
	t.Helper()
	clock := network.NewManualClock(0)
	bus := network.NewBus(network.BusConfig{Clock: clock})
	ent, err := NewEntityService(bus.NewPort(entityMAC), EntityConfig{File: entityFile()})
	require.NoError(t, err)
	ctrl, err := NewControllerService(bus.NewPort(ctrlMAC), ControllerConfig{EntityID: ctrlID, Handler: h})
	require.NoError(t, err)
	return &rig{clock: clock, ent: ent, ctrl: ctrl}
}

func (r *rig) settle() {
	for r.ent.Poll()+r.ctrl.Poll() > 0 {
	}
}

func TestNewEntityServiceRejectsInvalidConfig(t *testing.T) {
	bus := network.NewBus(network.DefaultBusConfig())
	file := entityFile()
	file.MaxRegisteredControllers = 0
	_, err := NewEntityService(bus.NewPort(entityMAC), EntityConfig{File: file})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEntityServiceAssembly(t *testing.T) {
	r := newRig(t, nil)

	_, ok := r.ent.Talker(0)
	assert.True(t, ok)
	_, ok = r.ent.Talker(1)
	assert.False(t, ok)
	l, ok := r.ent.Listener(0)
	require.True(t, ok)
	assert.Equal(t, acmp.ListenerIdle, l.State())
	assert.Equal(t, entityID, r.ent.Entity().EntityID())
}

func TestReadEntityName(t *testing.T) {
	h := mocks.NewMockResponseHandler(t)
	r := newRig(t, h)

	var got controller.Response
	h.EXPECT().CommandResponse(mock.Anything).Run(func(resp controller.Response) { got = resp }).Once()
	_, err := r.ctrl.AEM().SendGetName(entityID, entityMAC, wire.DescriptorEntity, 0, 0, 0)
	require.NoError(t, err)
	r.settle()

	name, ok := got.Name()
	require.True(t, ok)
	assert.Equal(t, "Rack", name)
}

func TestSetControlValueNotifies(t *testing.T) {
	h := mocks.NewMockResponseHandler(t)
	r := newRig(t, h)

	h.EXPECT().CommandResponse(mock.Anything).Once()
	_, err := r.ctrl.AEM().SendRegister(entityID, entityMAC)
	require.NoError(t, err)
	r.settle()

	var note controller.Response
	h.EXPECT().UnsolicitedResponse(mock.Anything).Run(func(resp controller.Response) { note = resp }).Once()
	n, err := r.ent.SetControlValue(0, []byte{0x42})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	r.settle()

	assert.Equal(t, wire.CmdGetControl, note.Header.CommandType)
	idx, value, ok := note.ControlValue()
	require.True(t, ok)
	assert.Equal(t, uint16(0), idx)
	assert.Equal(t, []byte{0x42}, value)

	_, err = r.ent.SetControlValue(9, []byte{0})
	assert.Error(t, err)
}

func TestACMPQueries(t *testing.T) {
	r := newRig(t, nil)

	var last wire.ACMPHeader
	r.ctrl.ACMP().OnResponse(func(h wire.ACMPHeader) { last = h })

	talker := acmp.TalkerPair{TalkerEntityID: entityID, TalkerUniqueID: 0}
	require.NoError(t, r.ctrl.ACMP().GetTXState(talker))
	r.settle()
	assert.Equal(t, wire.ACMPGetTXStateResponse, last.MessageType)
	assert.Equal(t, wire.ACMPStatusSuccess, last.Status)
	assert.Equal(t, entityID, last.StreamID)

	listener := acmp.ListenerPair{ListenerEntityID: entityID, ListenerUniqueID: 0}
	require.NoError(t, r.ctrl.ACMP().GetRXState(listener))
	r.settle()
	assert.Equal(t, wire.ACMPGetRXStateResponse, last.MessageType)
	assert.Equal(t, wire.ACMPStatusSuccess, last.Status)
}

func TestStartStop(t *testing.T) {
	r := newRig(t, nil)
	assert.Equal(t, StateIdle, r.ent.State())
	assert.ErrorIs(t, r.ent.Stop(), ErrNotStarted)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.ent.Start(ctx))
	require.NoError(t, r.ctrl.Start(ctx))
	assert.ErrorIs(t, r.ent.Start(ctx), ErrAlreadyStarted)
	assert.Equal(t, StateRunning, r.ent.State())

	var acquired atomic.Bool
	r.ctrl.Do(func() {
		_, err := r.ctrl.AEM().SendAcquire(entityID, entityMAC, false)
		assert.NoError(t, err)
	})
	require.Eventually(t, func() bool {
		r.ent.Do(func() { acquired.Store(r.ent.Entity().AcquiredBy() == ctrlID) })
		return acquired.Load()
	}, time.Second, time.Millisecond)

	require.NoError(t, r.ctrl.Stop())
	require.NoError(t, r.ent.Stop())
	assert.Equal(t, StateStopped, r.ent.State())
}

func TestServiceStateString(t *testing.T) {
	assert.Equal(t, "RUNNING", StateRunning.String())
	assert.Equal(t, "UNKNOWN", ServiceState(9).String())
}
