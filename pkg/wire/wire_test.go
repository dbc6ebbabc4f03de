package wire

import (
	"testing"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testEntity     = eui.Eui64FromUint64(0x001b92fffe000001)
	testController = eui.Eui64FromUint64(0x001b92fffe0000c1)
	testMAC        = eui.Eui48{0x00, 0x1b, 0x92, 0x00, 0x00, 0xc1}
)

func newAEMCommand(t *testing.T, ct AEMCommandType, payload []byte) *Frame {
	t.Helper()
	f := NewFrame(MulticastMAC(), testMAC, AVTPEtherType)
	ok := WriteAEMHeader(f, AEMHeader{
		MessageType:        AECPAEMCommand,
		TargetEntityID:     testEntity,
		ControllerEntityID: testController,
		SequenceID:         0x1234,
		CommandType:        ct,
	})
	require.True(t, ok)
	require.True(t, f.PutBytes(payload))
	require.True(t, SetControlDataLength(f))
	return f
}

func TestParseAEMCommand(t *testing.T) {
	f := newAEMCommand(t, CmdReadDescriptor, make([]byte, ReadDescriptorPayloadLen))

	h, ok := ParseAEM(f)
	require.True(t, ok)
	assert.Equal(t, AECPAEMCommand, h.MessageType)
	assert.Equal(t, testEntity, h.TargetEntityID)
	assert.Equal(t, testController, h.ControllerEntityID)
	assert.Equal(t, uint16(0x1234), h.SequenceID)
	assert.Equal(t, CmdReadDescriptor, h.CommandType)
	assert.False(t, h.Unsolicited)
	assert.Equal(t, ReadDescriptorPayloadLen, h.PayloadLen())

	assert.True(t, IsAEMForTarget(h, testEntity))
	assert.False(t, IsAEMForTarget(h, testController))
	assert.False(t, IsAEMForController(h, testController), "commands are never for a controller")
}

func TestSetAEMReplyRoundTrip(t *testing.T) {
	f := newAEMCommand(t, CmdGetName, make([]byte, NameHeaderLen))

	// The response carries the name, so it grows before the reply is sealed.
	require.True(t, f.SetPos(f.Len()))
	require.True(t, f.PutZeros(NameLen))
	require.True(t, SetAEMReply(f, AEMStatusSuccess))

	h, ok := ParseAEM(f)
	require.True(t, ok)
	assert.Equal(t, AECPAEMResponse, h.MessageType)
	assert.Equal(t, AEMStatusSuccess, h.Status)
	assert.Equal(t, f.PayloadLen()-CommonHeaderLen, int(h.ControlDataLength))
	assert.Equal(t, NamePayloadLen, h.PayloadLen())
	assert.True(t, IsAEMForController(h, testController))
}

func TestSetAEMReplyKeepsStatusBits(t *testing.T) {
	f := newAEMCommand(t, CmdLockEntity, make([]byte, AcquirePayloadLen))
	require.True(t, SetAEMReply(f, AEMStatusStreamIsRunning))

	h, ok := ParseAEM(f)
	require.True(t, ok)
	assert.Equal(t, AEMStatusStreamIsRunning, h.Status)
	assert.Equal(t, uint16(aemMinCDL+AcquirePayloadLen), h.ControlDataLength)
}

func TestSetAEMUnsolicited(t *testing.T) {
	f := newAEMCommand(t, CmdSetControl, []byte{0, 0x1a, 0, 1, 0x42})
	require.True(t, SetAEMUnsolicited(f, true))

	h, ok := ParseAEM(f)
	require.True(t, ok)
	assert.True(t, h.Unsolicited)
	assert.Equal(t, CmdSetControl, h.CommandType)

	require.True(t, SetAEMUnsolicited(f, false))
	h, _ = ParseAEM(f)
	assert.False(t, h.Unsolicited)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Frame)
	}{
		{"WrongSubtype", func(f *Frame) { f.SetOctet(PayloadOffset, SubtypeADP) }},
		{"FutureVersion", func(f *Frame) {
			b, _ := f.Octet(PayloadOffset + OffVersionMsgType)
			f.SetOctet(PayloadOffset+OffVersionMsgType, b|0x10)
		}},
		{"VendorUnique", func(f *Frame) { SetMessageType(f, uint8(AECPVendorUniqueCommand)) }},
		{"CDLPastFrame", func(f *Frame) { f.SetLen(f.Len() - 1) }},
		{"Truncated", func(f *Frame) { f.SetLen(PayloadOffset + 6) }},
		{"CDLTooSmall", func(f *Frame) {
			f.SetLen(PayloadOffset + CommonHeaderLen + 4)
			SetControlDataLength(f)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAEMCommand(t, CmdGetControl, []byte{0, 0x1a, 0, 0})
			tt.mutate(f)
			if _, ok := ParseAEM(f); ok {
				t.Error("ParseAEM accepted malformed frame")
			}
			if _, ok := ParseAA(f); ok {
				t.Error("ParseAA accepted malformed frame")
			}
			if _, ok := ParseACMP(f); ok {
				t.Error("ParseACMP accepted malformed frame")
			}
		})
	}
}

func TestParseAEMNil(t *testing.T) {
	_, ok := ParseAEM(nil)
	assert.False(t, ok)
}

func TestAATLVs(t *testing.T) {
	f := NewFrame(MulticastMAC(), testMAC, AVTPEtherType)
	require.True(t, WriteAAHeader(f, AAHeader{
		MessageType:        AECPAddressAccessCommand,
		TargetEntityID:     testEntity,
		ControllerEntityID: testController,
		SequenceID:         7,
		TLVCount:           3,
	}))
	require.True(t, PutAATLV(f, AAModeWrite, 2, 0x100, []byte{0xaa, 0xbb}))
	require.True(t, PutAATLV(f, AAModeRead, 4, 0x200, nil))
	require.True(t, PutAATLV(f, AAModeExecute, 0, 0x1_0000_0000, nil))
	require.True(t, SetControlDataLength(f))

	h, ok := ParseAA(f)
	require.True(t, ok)
	assert.Equal(t, uint16(3), h.TLVCount)
	assert.Equal(t, uint16(7), h.SequenceID)

	it := AATLVs(f, h)
	tlv, ok, valid := it.Next()
	require.True(t, ok && valid)
	assert.Equal(t, AAModeWrite, tlv.Mode)
	assert.Equal(t, []byte{0xaa, 0xbb}, tlv.Data)
	assert.True(t, tlv.AddressValid())

	tlv, ok, valid = it.Next()
	require.True(t, ok && valid)
	assert.Equal(t, AAModeRead, tlv.Mode)
	assert.Equal(t, uint16(4), tlv.Length)
	assert.Empty(t, tlv.Data)

	tlv, ok, valid = it.Next()
	require.True(t, ok && valid)
	assert.False(t, tlv.AddressValid(), "upper address bits are set")

	_, ok, _ = it.Next()
	assert.False(t, ok)

	_, isAEM := ParseAEM(f)
	assert.False(t, isAEM)
}

func TestAATLVCountBeyondData(t *testing.T) {
	f := NewFrame(MulticastMAC(), testMAC, AVTPEtherType)
	require.True(t, WriteAAHeader(f, AAHeader{
		MessageType:    AECPAddressAccessCommand,
		TargetEntityID: testEntity,
		TLVCount:       2,
	}))
	require.True(t, PutAATLV(f, AAModeWrite, 8, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8}))
	require.True(t, SetControlDataLength(f))

	h, ok := ParseAA(f)
	require.True(t, ok)
	it := AATLVs(f, h)
	_, ok, valid := it.Next()
	require.True(t, ok && valid)
	_, ok, valid = it.Next()
	assert.True(t, ok)
	assert.False(t, valid)
}

func TestACMPRoundTrip(t *testing.T) {
	in := ACMPHeader{
		MessageType:        ACMPConnectTXCommand,
		StreamID:           eui.Eui64FromUint64(0x1122334455660000),
		ControllerEntityID: testController,
		TalkerEntityID:     testEntity,
		ListenerEntityID:   eui.Eui64FromUint64(0xaa),
		TalkerUniqueID:     1,
		ListenerUniqueID:   2,
		StreamDestMAC:      eui.Eui48{0x91, 0xe0, 0xf0, 0x00, 0x01, 0x02},
		ConnectionCount:    3,
		SequenceID:         0xfffe,
		Flags:              ACMPFlagClassB | ACMPFlagFastConnect,
		StreamVLANID:       2,
	}
	f, ok := NewACMPFrame(testMAC, in)
	require.True(t, ok)
	assert.Equal(t, PayloadOffset+ACMPDULen, f.Len())

	out, ok := ParseACMP(f)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestParseACMPRejectsShortCDL(t *testing.T) {
	f, ok := NewACMPFrame(testMAC, ACMPHeader{MessageType: ACMPGetRXStateCommand})
	require.True(t, ok)
	f.SetLen(f.Len() - 2)
	SetControlDataLength(f)

	_, ok = ParseACMP(f)
	assert.False(t, ok)
}

func TestParseACMPRejectsUnknownMessageType(t *testing.T) {
	f, ok := NewACMPFrame(testMAC, ACMPHeader{MessageType: ACMPMessageType(14)})
	require.True(t, ok)
	_, ok = ParseACMP(f)
	assert.False(t, ok)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "ENTITY_ACQUIRED", AEMStatusEntityAcquired.String())
	assert.Equal(t, "UNKNOWN", AEMStatus(30).String())
	assert.Equal(t, "TLV_INVALID", AAStatusTLVInvalid.String())
	assert.Equal(t, "TALKER_NO_BANDWIDTH", ACMPStatusNoResources.String())
	assert.Equal(t, "ACQUIRE_ENTITY", CmdAcquireEntity.String())
	assert.Equal(t, "UNKNOWN(0x7FFF)", AEMCommandType(0x7fff).String())
	assert.Equal(t, "CONNECT_TX_RESPONSE", ACMPConnectTXCommand.Response().String())
}

func TestChangesState(t *testing.T) {
	tests := []struct {
		cmd  AEMCommandType
		want bool
	}{
		{CmdSetName, true},
		{CmdSetControl, true},
		{CmdSetConfiguration, true},
		{CmdGetName, false},
		{CmdReadDescriptor, false},
		{CmdAcquireEntity, false},
		{CmdRegisterUnsolicitedNotification, false},
	}
	for _, tt := range tests {
		if got := tt.cmd.ChangesState(); got != tt.want {
			t.Errorf("%s.ChangesState() = %v, want %v", tt.cmd, got, tt.want)
		}
	}
}

func TestParseDescriptorType(t *testing.T) {
	tests := []struct {
		in   string
		want DescriptorType
		ok   bool
	}{
		{"AUDIO_UNIT", DescriptorAudioUnit, true},
		{"control", DescriptorControl, true},
		{"0x24", DescriptorClockDomain, true},
		{"5", DescriptorStreamInput, true},
		{"SPEAKER", 0, false},
		{"0x10000", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDescriptorType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestParseNames(t *testing.T) {
	ct, ok := ParseAEMCommandType("register_unsolicited_notification")
	require.True(t, ok)
	assert.Equal(t, CmdRegisterUnsolicitedNotification, ct)
	_, ok = ParseAEMCommandType("0x8000")
	assert.False(t, ok, "command types are 15 bits")

	s, ok := ParseAEMStatus("IN_PROGRESS")
	require.True(t, ok)
	assert.Equal(t, AEMStatusInProgress, s)
	_, ok = ParseAEMStatus("UNKNOWN")
	assert.False(t, ok)

	a, ok := ParseACMPStatus("listener_talker_timeout")
	require.True(t, ok)
	assert.Equal(t, ACMPStatusListenerTalkerTimeout, a)
}
