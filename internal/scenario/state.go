package scenario

import (
	"fmt"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/controller"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/service"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// station is one controller with what it has heard.
type station struct {
	spec ControllerSpec
	port *network.BusPort
	svc  *service.ControllerService

	lastSeq     uint16
	responses   []controller.Response
	unsolicited []controller.Response
	timeouts    int

	acmpResponses []wire.ACMPHeader
	acmpTimeouts  int
}

func (s *station) CommandResponse(r controller.Response) {
	s.responses = append(s.responses, r)
}

func (s *station) UnsolicitedResponse(r controller.Response) {
	s.unsolicited = append(s.unsolicited, r)
}

func (s *station) CommandTimedOut(eui.Eui64, wire.AEMCommandType, uint16) {
	s.timeouts++
}

type node struct {
	spec EntitySpec
	port *network.BusPort
	svc  *service.EntityService
}

// State is the world a scenario runs in.
type State struct {
	clock       *network.ManualClock
	bus         *network.Bus
	entities    map[string]*node
	controllers map[string]*station
	order       []string
}

func newState(sc *Scenario) (*State, error) {
	clock := network.NewManualClock(0)
	st := &State{
		clock:       clock,
		bus:         network.NewBus(network.BusConfig{Clock: clock}),
		entities:    make(map[string]*node),
		controllers: make(map[string]*station),
	}
	for _, spec := range sc.Entities {
		port := st.bus.NewPort(spec.MAC)
		svc, err := service.NewEntityService(port, service.EntityConfig{File: spec.Config, SessionID: sc.ID})
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", spec.Name, err)
		}
		st.entities[spec.Name] = &node{spec: spec, port: port, svc: svc}
		st.order = append(st.order, spec.Name)
	}
	for _, spec := range sc.Controllers {
		s := &station{spec: spec, port: st.bus.NewPort(spec.MAC)}
		svc, err := service.NewControllerService(s.port, service.ControllerConfig{
			EntityID:  spec.EntityID,
			Handler:   s,
			SessionID: sc.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("controller %s: %w", spec.Name, err)
		}
		s.svc = svc
		svc.ACMP().OnResponse(func(h wire.ACMPHeader) { s.acmpResponses = append(s.acmpResponses, h) })
		svc.ACMP().OnTimeout(func(wire.ACMPHeader) { s.acmpTimeouts++ })
		st.controllers[spec.Name] = s
		st.order = append(st.order, spec.Name)
	}
	return st, nil
}

// settle polls every party, in declaration order, until the bus is quiet.
func (st *State) settle() {
	for {
		moved := 0
		for _, name := range st.order {
			if n, ok := st.entities[name]; ok {
				moved += n.svc.Poll()
			} else {
				moved += st.controllers[name].svc.Poll()
			}
		}
		if moved == 0 {
			return
		}
	}
}

func (st *State) entity(name string) (*node, error) {
	if name == "" && len(st.entities) == 1 {
		for _, n := range st.entities {
			return n, nil
		}
	}
	n, ok := st.entities[name]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", name)
	}
	return n, nil
}

func (st *State) controller(name string) (*station, error) {
	if name == "" && len(st.controllers) == 1 {
		for _, s := range st.controllers {
			return s, nil
		}
	}
	s, ok := st.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller %q", name)
	}
	return s, nil
}

// idName maps an entity id back to a party name, or "none" when unset.
func (st *State) idName(id eui.Eui64) string {
	if id.IsUnset() || id.IsZero() {
		return "none"
	}
	for name, s := range st.controllers {
		if s.spec.EntityID == id {
			return name
		}
	}
	for name, n := range st.entities {
		if n.spec.EntityID == id {
			return name
		}
	}
	return id.String()
}
