package service

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/entity"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/handler"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// EntityConfig configures an EntityService.
type EntityConfig struct {
	// File is the entity description, usually from config.Load.
	File config.Config

	// Logger is the optional logger for debug output.
	Logger *slog.Logger

	// ProtocolLogger receives protocol events (optional).
	ProtocolLogger log.Logger

	// SessionID tags protocol log events.
	SessionID string

	// MaxBurst bounds the frames handled per scheduler pass. Zero uses
	// handler.DefaultMaxBurst.
	MaxBurst int
}

// EntityService is one simulated entity.
type EntityService struct {
	loop

	entity    *entity.Entity
	state     *entity.MemoryState
	talkers   *acmp.TalkerGroup
	listeners *acmp.ListenerGroup
}

// NewEntityService builds the entity described by config on port.
func NewEntityService(port network.Port, config EntityConfig) (*EntityService, error) {
	file := config.File
	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	state, err := file.State()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	ec := file.EntityConfig(config.Logger)
	ec.ProtocolLogger = config.ProtocolLogger
	ec.SessionID = config.SessionID
	e, err := entity.New(port, state, ec)
	if err != nil {
		return nil, err
	}

	gc := acmp.DefaultGroupConfig()
	gc.Logger = config.Logger
	gc.ProtocolLogger = config.ProtocolLogger
	gc.SessionID = config.SessionID

	svc := &EntityService{entity: e, state: state}
	if len(file.Talkers) > 0 {
		svc.talkers = acmp.NewTalkerGroup(port, file.EntityID, gc)
		for _, tc := range file.TalkerConfigs() {
			t, err := acmp.NewTalker(tc)
			if err != nil {
				return nil, err
			}
			if err := svc.talkers.Add(t); err != nil {
				return nil, err
			}
		}
		e.AttachTalkers(svc.talkers)
	}
	if file.Listeners > 0 {
		svc.listeners = acmp.NewListenerGroup(port, file.EntityID, gc)
		for i := 0; i < file.Listeners; i++ {
			if err := svc.listeners.Add(acmp.NewListener(acmp.ListenerConfig{UniqueID: uint16(i)})); err != nil {
				return nil, err
			}
		}
		e.AttachListeners(svc.listeners)
	}

	sc := handler.DefaultSchedulerConfig()
	sc.Logger = config.Logger
	if config.MaxBurst > 0 {
		sc.MaxBurst = config.MaxBurst
	}
	svc.loop = loop{
		sched:    handler.NewSchedulerWithConfig(port, e, sc),
		interval: handler.DefaultPollInterval,
		logger:   config.Logger,
	}
	return svc, nil
}

// Entity returns the engine. Use it inside Do once the service is started.
func (s *EntityService) Entity() *entity.Entity {
	return s.entity
}

// MemoryState returns the entity state.
func (s *EntityService) MemoryState() *entity.MemoryState {
	return s.state
}

// Talker returns the talker with uniqueID.
func (s *EntityService) Talker(uniqueID uint16) (*acmp.Talker, bool) {
	if s.talkers == nil {
		return nil, false
	}
	return s.talkers.Talker(uniqueID)
}

// Listener returns the listener with uniqueID.
func (s *EntityService) Listener(uniqueID uint16) (*acmp.Listener, bool) {
	if s.listeners == nil {
		return nil, false
	}
	return s.listeners.Listener(uniqueID)
}

// SetControlValue changes a control locally and notifies registered
// controllers with an unsolicited GET_CONTROL response. It returns the
// number of notifications sent.
func (s *EntityService) SetControlValue(index uint16, value []byte) (int, error) {
	var n int
	var err error
	s.Do(func() {
		if err = s.state.SetControlValue(index, value); err != nil {
			return
		}
		n, err = s.entity.SendUnsolicited(wire.CmdGetControl, controlPayload(index, value))
	})
	return n, err
}

func controlPayload(index uint16, value []byte) []byte {
	p := make([]byte, wire.ControlHeaderLen, wire.ControlHeaderLen+len(value))
	binary.BigEndian.PutUint16(p, uint16(wire.DescriptorControl))
	binary.BigEndian.PutUint16(p[2:], index)
	return append(p, value...)
}
