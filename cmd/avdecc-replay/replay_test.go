package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/service"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

var (
	entityID  = eui.Eui64FromUint64(0x001b92fffe000001)
	entityMAC = eui.Eui48{0x00, 0x1b, 0x92, 0x00, 0x00, 0x01}
	ctrlA     = eui.Eui64FromUint64(0x001b92fffe00c00a)
	ctrlAMAC  = eui.Eui48{0x02, 0, 0, 0, 0xc0, 0x0a}
	ctrlB     = eui.Eui64FromUint64(0x001b92fffe00c00b)
	ctrlBMAC  = eui.Eui48{0x02, 0, 0, 0, 0xc0, 0x0b}
)

func command(t *testing.T, at uint32, ctrl eui.Eui64, mac eui.Eui48, seq uint16, ct wire.AEMCommandType, payloadLen int) *wire.Frame {
	t.Helper()
	f := wire.NewFrame(entityMAC, mac, wire.AVTPEtherType)
	require.True(t, wire.WriteAEMHeader(f, wire.AEMHeader{
		MessageType:        wire.AECPAEMCommand,
		TargetEntityID:     entityID,
		ControllerEntityID: ctrl,
		SequenceID:         seq,
		CommandType:        ct,
	}))
	require.True(t, f.PutBytes(make([]byte, payloadLen)))
	require.True(t, wire.SetControlDataLength(f))
	f.Time = at
	return f
}

// disputeCapture holds a descriptor read and an acquire by A, then an
// acquire by B that A never answers the probe for.
func disputeCapture(t *testing.T) []byte {
	t.Helper()
	frames := []*wire.Frame{
		command(t, 1000, ctrlA, ctrlAMAC, 0, wire.CmdReadDescriptor, wire.ReadDescriptorPayloadLen),
		command(t, 1010, ctrlA, ctrlAMAC, 1, wire.CmdAcquireEntity, wire.AcquirePayloadLen),
		command(t, 1020, ctrlB, ctrlBMAC, 0, wire.CmdAcquireEntity, wire.AcquirePayloadLen),
	}
	var buf bytes.Buffer
	require.NoError(t, network.WriteCapture(&buf, frames))
	return buf.Bytes()
}

func entityConfig() config.Config {
	c := config.Default()
	c.EntityID = entityID
	c.MAC = entityMAC
	c.EntityName = "Replay"
	return c
}

func TestReplayResolvesDisputeInTail(t *testing.T) {
	port, err := network.LoadReplay(bytes.NewReader(disputeCapture(t)), entityMAC)
	require.NoError(t, err)

	res, err := Replay(port, nil, service.EntityConfig{File: entityConfig()}, 1000)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Frames)

	assert.Equal(t, map[string]int{
		"READ_DESCRIPTOR SUCCESS":      1,
		"ACQUIRE_ENTITY SUCCESS":       2,
		"ACQUIRE_ENTITY IN_PROGRESS":   1,
		"CONTROLLER_AVAILABLE command": 1,
	}, res.Counts())

	last := res.Sent[len(res.Sent)-1]
	h, ok := wire.ParseAEM(last)
	require.True(t, ok)
	assert.Equal(t, ctrlB, h.ControllerEntityID)
	assert.Equal(t, wire.AEMStatusSuccess, h.Status)
	assert.Equal(t, ctrlBMAC, last.DestinationMAC())
	assert.Greater(t, last.Time, uint32(20+wire.AEMCommandTimeoutMs))
}

func TestReplayWithoutTailLeavesDisputeOpen(t *testing.T) {
	port, err := network.LoadReplay(bytes.NewReader(disputeCapture(t)), entityMAC)
	require.NoError(t, err)

	res, err := Replay(port, nil, service.EntityConfig{File: entityConfig()}, 0)
	require.NoError(t, err)
	counts := res.Counts()
	assert.Equal(t, 1, counts["ACQUIRE_ENTITY SUCCESS"])
	assert.Equal(t, 1, counts["ACQUIRE_ENTITY IN_PROGRESS"])
}

func TestReplayRejectsInvalidEntity(t *testing.T) {
	port, err := network.LoadReplay(bytes.NewReader(disputeCapture(t)), entityMAC)
	require.NoError(t, err)

	_, err = Replay(port, nil, service.EntityConfig{File: config.Default()}, 0)
	assert.ErrorIs(t, err, service.ErrInvalidConfig)
}

func TestResultPrint(t *testing.T) {
	r := Result{Frames: 2, Skipped: 1, Sent: []*wire.Frame{
		command(t, 0, ctrlA, ctrlAMAC, 0, wire.CmdGetName, wire.NamePayloadLen),
	}}
	var out bytes.Buffer
	r.Print(&out)
	assert.Contains(t, out.String(), "replayed 2 frames (1 packets skipped), entity sent 1")
	assert.Contains(t, out.String(), "GET_NAME command")
}

func TestRunWritesCaptureAndLog(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pcap")
	require.NoError(t, os.WriteFile(in, disputeCapture(t), 0o644))
	cfgPath := filepath.Join(dir, "entity.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"entity_id: \"00:1b:92:ff:fe:00:00:01\"\nmac: \"00:1b:92:00:00:01\"\nentity_name: Replay\n"), 0o644))

	o := Options{
		ConfigFile:  cfgPath,
		EnvFile:     filepath.Join(dir, "missing.env"),
		In:          in,
		Out:         filepath.Join(dir, "out.pcap"),
		TailMs:      500,
		ProtocolLog: filepath.Join(dir, "replay"+log.FileExtension),
		LogLevel:    "error",
	}
	require.NoError(t, run(o))

	out, err := network.OpenReplay(o.Out, entityMAC)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Len())

	events, err := os.ReadFile(o.ProtocolLog)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}

func TestRunRequiresInputs(t *testing.T) {
	assert.Error(t, run(Options{}))
}
