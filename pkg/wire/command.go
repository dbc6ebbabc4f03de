package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// AEMCommandType is the 15-bit command_type of an AEM command or response.
type AEMCommandType uint16

// UnsolicitedFlag is the top bit of the command_type field. It marks a
// response the entity sent without a matching command.
const UnsolicitedFlag uint16 = 0x8000

const (
	CmdAcquireEntity                     AEMCommandType = 0x0000
	CmdLockEntity                        AEMCommandType = 0x0001
	CmdEntityAvailable                   AEMCommandType = 0x0002
	CmdControllerAvailable               AEMCommandType = 0x0003
	CmdReadDescriptor                    AEMCommandType = 0x0004
	CmdWriteDescriptor                   AEMCommandType = 0x0005
	CmdSetConfiguration                  AEMCommandType = 0x0006
	CmdGetConfiguration                  AEMCommandType = 0x0007
	CmdSetStreamFormat                   AEMCommandType = 0x0008
	CmdGetStreamFormat                   AEMCommandType = 0x0009
	CmdSetVideoFormat                    AEMCommandType = 0x000a
	CmdGetVideoFormat                    AEMCommandType = 0x000b
	CmdSetSensorFormat                   AEMCommandType = 0x000c
	CmdGetSensorFormat                   AEMCommandType = 0x000d
	CmdSetStreamInfo                     AEMCommandType = 0x000e
	CmdGetStreamInfo                     AEMCommandType = 0x000f
	CmdSetName                           AEMCommandType = 0x0010
	CmdGetName                           AEMCommandType = 0x0011
	CmdSetAssociationID                  AEMCommandType = 0x0012
	CmdGetAssociationID                  AEMCommandType = 0x0013
	CmdSetSamplingRate                   AEMCommandType = 0x0014
	CmdGetSamplingRate                   AEMCommandType = 0x0015
	CmdSetClockSource                    AEMCommandType = 0x0016
	CmdGetClockSource                    AEMCommandType = 0x0017
	CmdSetControl                        AEMCommandType = 0x0018
	CmdGetControl                        AEMCommandType = 0x0019
	CmdIncrementControl                  AEMCommandType = 0x001a
	CmdDecrementControl                  AEMCommandType = 0x001b
	CmdSetSignalSelector                 AEMCommandType = 0x001c
	CmdGetSignalSelector                 AEMCommandType = 0x001d
	CmdSetMixer                          AEMCommandType = 0x001e
	CmdGetMixer                          AEMCommandType = 0x001f
	CmdSetMatrix                         AEMCommandType = 0x0020
	CmdGetMatrix                         AEMCommandType = 0x0021
	CmdStartStreaming                    AEMCommandType = 0x0022
	CmdStopStreaming                     AEMCommandType = 0x0023
	CmdRegisterUnsolicitedNotification   AEMCommandType = 0x0024
	CmdDeregisterUnsolicitedNotification AEMCommandType = 0x0025
	CmdIdentifyNotification              AEMCommandType = 0x0026
	CmdGetAVBInfo                        AEMCommandType = 0x0027
	CmdGetASPath                         AEMCommandType = 0x0028
	CmdGetCounters                       AEMCommandType = 0x0029
	CmdReboot                            AEMCommandType = 0x002a
	CmdGetAudioMap                       AEMCommandType = 0x002b
	CmdAddAudioMappings                  AEMCommandType = 0x002c
	CmdRemoveAudioMappings               AEMCommandType = 0x002d
)

var commandNames = map[AEMCommandType]string{
	CmdAcquireEntity:                     "ACQUIRE_ENTITY",
	CmdLockEntity:                        "LOCK_ENTITY",
	CmdEntityAvailable:                   "ENTITY_AVAILABLE",
	CmdControllerAvailable:               "CONTROLLER_AVAILABLE",
	CmdReadDescriptor:                    "READ_DESCRIPTOR",
	CmdWriteDescriptor:                   "WRITE_DESCRIPTOR",
	CmdSetConfiguration:                  "SET_CONFIGURATION",
	CmdGetConfiguration:                  "GET_CONFIGURATION",
	CmdSetStreamFormat:                   "SET_STREAM_FORMAT",
	CmdGetStreamFormat:                   "GET_STREAM_FORMAT",
	CmdSetVideoFormat:                    "SET_VIDEO_FORMAT",
	CmdGetVideoFormat:                    "GET_VIDEO_FORMAT",
	CmdSetSensorFormat:                   "SET_SENSOR_FORMAT",
	CmdGetSensorFormat:                   "GET_SENSOR_FORMAT",
	CmdSetStreamInfo:                     "SET_STREAM_INFO",
	CmdGetStreamInfo:                     "GET_STREAM_INFO",
	CmdSetName:                           "SET_NAME",
	CmdGetName:                           "GET_NAME",
	CmdSetAssociationID:                  "SET_ASSOCIATION_ID",
	CmdGetAssociationID:                  "GET_ASSOCIATION_ID",
	CmdSetSamplingRate:                   "SET_SAMPLING_RATE",
	CmdGetSamplingRate:                   "GET_SAMPLING_RATE",
	CmdSetClockSource:                    "SET_CLOCK_SOURCE",
	CmdGetClockSource:                    "GET_CLOCK_SOURCE",
	CmdSetControl:                        "SET_CONTROL",
	CmdGetControl:                        "GET_CONTROL",
	CmdIncrementControl:                  "INCREMENT_CONTROL",
	CmdDecrementControl:                  "DECREMENT_CONTROL",
	CmdSetSignalSelector:                 "SET_SIGNAL_SELECTOR",
	CmdGetSignalSelector:                 "GET_SIGNAL_SELECTOR",
	CmdSetMixer:                          "SET_MIXER",
	CmdGetMixer:                          "GET_MIXER",
	CmdSetMatrix:                         "SET_MATRIX",
	CmdGetMatrix:                         "GET_MATRIX",
	CmdStartStreaming:                    "START_STREAMING",
	CmdStopStreaming:                     "STOP_STREAMING",
	CmdRegisterUnsolicitedNotification:   "REGISTER_UNSOLICITED_NOTIFICATION",
	CmdDeregisterUnsolicitedNotification: "DEREGISTER_UNSOLICITED_NOTIFICATION",
	CmdIdentifyNotification:              "IDENTIFY_NOTIFICATION",
	CmdGetAVBInfo:                        "GET_AVB_INFO",
	CmdGetASPath:                         "GET_AS_PATH",
	CmdGetCounters:                       "GET_COUNTERS",
	CmdReboot:                            "REBOOT",
	CmdGetAudioMap:                       "GET_AUDIO_MAP",
	CmdAddAudioMappings:                  "ADD_AUDIO_MAPPINGS",
	CmdRemoveAudioMappings:               "REMOVE_AUDIO_MAPPINGS",
}

// String returns the command name.
func (c AEMCommandType) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%04X)", uint16(c))
}

// ParseAEMCommandType accepts a command name such as "GET_NAME" (case
// insensitive) or a number.
func ParseAEMCommandType(s string) (AEMCommandType, bool) {
	s = strings.TrimSpace(s)
	for c, name := range commandNames {
		if strings.EqualFold(s, name) {
			return c, true
		}
	}
	v, err := strconv.ParseUint(s, 0, 15)
	if err != nil {
		return 0, false
	}
	return AEMCommandType(v), true
}

// ChangesState reports whether a successful c mutates entity state, which
// makes it subject to the acquire/lock permission gate and to unsolicited
// notification fan-out.
func (c AEMCommandType) ChangesState() bool {
	switch c {
	case CmdWriteDescriptor,
		CmdSetConfiguration,
		CmdSetStreamFormat,
		CmdSetVideoFormat,
		CmdSetSensorFormat,
		CmdSetStreamInfo,
		CmdSetName,
		CmdSetAssociationID,
		CmdSetSamplingRate,
		CmdSetClockSource,
		CmdSetControl,
		CmdIncrementControl,
		CmdDecrementControl,
		CmdSetSignalSelector,
		CmdSetMixer,
		CmdSetMatrix,
		CmdStartStreaming,
		CmdStopStreaming,
		CmdReboot,
		CmdAddAudioMappings,
		CmdRemoveAudioMappings:
		return true
	}
	return false
}

// DescriptorType identifies the kind of an AEM descriptor.
type DescriptorType uint16

const (
	DescriptorEntity        DescriptorType = 0x0000
	DescriptorConfiguration DescriptorType = 0x0001
	DescriptorAudioUnit     DescriptorType = 0x0002
	DescriptorStreamInput   DescriptorType = 0x0005
	DescriptorStreamOutput  DescriptorType = 0x0006
	DescriptorAVBInterface  DescriptorType = 0x0009
	DescriptorClockSource   DescriptorType = 0x000a
	DescriptorMemoryObject  DescriptorType = 0x000b
	DescriptorLocale        DescriptorType = 0x000c
	DescriptorStrings       DescriptorType = 0x000d
	DescriptorControl       DescriptorType = 0x001a
	DescriptorClockDomain   DescriptorType = 0x0024
)

// String returns the descriptor type name.
func (d DescriptorType) String() string {
	switch d {
	case DescriptorEntity:
		return "ENTITY"
	case DescriptorConfiguration:
		return "CONFIGURATION"
	case DescriptorAudioUnit:
		return "AUDIO_UNIT"
	case DescriptorStreamInput:
		return "STREAM_INPUT"
	case DescriptorStreamOutput:
		return "STREAM_OUTPUT"
	case DescriptorAVBInterface:
		return "AVB_INTERFACE"
	case DescriptorClockSource:
		return "CLOCK_SOURCE"
	case DescriptorMemoryObject:
		return "MEMORY_OBJECT"
	case DescriptorLocale:
		return "LOCALE"
	case DescriptorStrings:
		return "STRINGS"
	case DescriptorControl:
		return "CONTROL"
	case DescriptorClockDomain:
		return "CLOCK_DOMAIN"
	default:
		return fmt.Sprintf("UNKNOWN(0x%04X)", uint16(d))
	}
}

var descriptorTypes = []DescriptorType{
	DescriptorEntity, DescriptorConfiguration, DescriptorAudioUnit,
	DescriptorStreamInput, DescriptorStreamOutput, DescriptorAVBInterface,
	DescriptorClockSource, DescriptorMemoryObject, DescriptorLocale,
	DescriptorStrings, DescriptorControl, DescriptorClockDomain,
}

// ParseDescriptorType accepts a descriptor type name such as "AUDIO_UNIT"
// (case insensitive) or a number in any base strconv understands.
func ParseDescriptorType(s string) (DescriptorType, bool) {
	s = strings.TrimSpace(s)
	for _, d := range descriptorTypes {
		if strings.EqualFold(s, d.String()) {
			return d, true
		}
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, false
	}
	return DescriptorType(v), true
}

// ACQUIRE_ENTITY and LOCK_ENTITY flags.
const (
	AcquireFlagPersistent uint32 = 0x00000001
	AcquireFlagRelease    uint32 = 0x80000000
	LockFlagUnlock        uint32 = 0x00000001
)

// AEM command payload offsets, relative to the start of the AVTPDU.
const (
	OffAEMTargetEntityID     = OffStreamID
	OffAEMControllerEntityID = 12
	OffAEMSequenceID         = 20
	OffAEMCommandType        = 22
	OffAEMPayload            = 24

	// AEMHeaderLen is the common header plus controller id, sequence id
	// and command type.
	AEMHeaderLen = OffAEMPayload
)

// Payload layouts of the commands the entity engine handles, relative to
// OffAEMPayload.
const (
	// ACQUIRE_ENTITY / LOCK_ENTITY: flags(4) owner_id(8) descriptor_type(2) descriptor_index(2).
	AcquirePayloadLen = 16

	// READ_DESCRIPTOR: configuration_index(2) reserved(2) descriptor_type(2) descriptor_index(2).
	ReadDescriptorPayloadLen = 8

	// SET_NAME / GET_NAME: descriptor_type(2) descriptor_index(2) name_index(2)
	// configuration_index(2) name(64).
	NameHeaderLen  = 8
	NameLen        = 64
	NamePayloadLen = NameHeaderLen + NameLen

	// SET_CONTROL / GET_CONTROL: descriptor_type(2) descriptor_index(2) values.
	ControlHeaderLen = 4

	// SET_CONFIGURATION / GET_CONFIGURATION: reserved(2) configuration_index(2).
	ConfigurationPayloadLen = 4
)
