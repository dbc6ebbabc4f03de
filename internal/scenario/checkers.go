package scenario

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/controller"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

var errNoResponse = errors.New("no response to the last command")

func (r *Runner) registerCheckers() {
	r.RegisterChecker("status", checkStatus)
	r.RegisterChecker("pending", checkPending)
	r.RegisterChecker("timeouts", checkCount(func(s *station) int { return s.timeouts }))
	r.RegisterChecker("unsolicited", checkCount(func(s *station) int { return len(s.unsolicited) }))
	r.RegisterChecker("acmp_timeouts", checkCount(func(s *station) int { return s.acmpTimeouts }))
	r.RegisterChecker("name", checkName)
	r.RegisterChecker("control_value", checkControlValue)
	r.RegisterChecker("owner", checkOwner)
	r.RegisterChecker("locked_by", checkLockedBy)
	r.RegisterChecker("registered", checkRegistered)
	r.RegisterChecker("acmp_status", checkACMPStatus)
	r.RegisterChecker("connection_count", checkConnectionCount)
	r.RegisterChecker("talker_connections", checkTalkerConnections)
	r.RegisterChecker("listener_state", checkListenerState)
}

// lastResponse returns the response to the controller's last command.
func lastResponse(st *State, params map[string]any) (controller.Response, error) {
	s, err := st.controller(paramString(params, "from"))
	if err != nil {
		return controller.Response{}, err
	}
	if len(s.responses) == 0 {
		return controller.Response{}, errNoResponse
	}
	r := s.responses[len(s.responses)-1]
	if r.Header.SequenceID != s.lastSeq {
		return controller.Response{}, errNoResponse
	}
	return r, nil
}

func checkStatus(st *State, params map[string]any, expected any) error {
	r, err := lastResponse(st, params)
	if err != nil {
		return err
	}
	if !sameName(expected, r.Status().String()) {
		return mismatch(expected, r.Status())
	}
	return nil
}

func checkPending(st *State, params map[string]any, expected any) error {
	s, err := st.controller(paramString(params, "from"))
	if err != nil {
		return err
	}
	want, _ := expected.(bool)
	if got := !s.svc.AEM().CanSendCommand(); got != want {
		return mismatch(want, got)
	}
	return nil
}

func checkCount(get func(*station) int) ExpectChecker {
	return func(st *State, params map[string]any, expected any) error {
		name := paramString(params, "from")
		if name == "" {
			name = paramString(params, "controller")
		}
		s, err := st.controller(name)
		if err != nil {
			return err
		}
		want, err := paramInt(map[string]any{"v": expected}, "v", 0)
		if err != nil {
			return err
		}
		if got := get(s); got != want {
			return mismatch(want, got)
		}
		return nil
	}
}

func checkName(st *State, params map[string]any, expected any) error {
	r, err := lastResponse(st, params)
	if err != nil {
		return err
	}
	name, ok := r.Name()
	if !ok || name != fmt.Sprint(expected) {
		return mismatch(expected, name)
	}
	return nil
}

func checkControlValue(st *State, params map[string]any, expected any) error {
	r, err := lastResponse(st, params)
	if err != nil {
		return err
	}
	_, v, ok := r.ControlValue()
	want, err := paramHex(map[string]any{"v": expected}, "v")
	if err != nil {
		return err
	}
	if !ok || hex.EncodeToString(v) != hex.EncodeToString(want) {
		return mismatch(hex.EncodeToString(want), hex.EncodeToString(v))
	}
	return nil
}

func entityParam(params map[string]any) string {
	if name := paramString(params, "to"); name != "" {
		return name
	}
	return paramString(params, "entity")
}

func checkOwner(st *State, params map[string]any, expected any) error {
	n, err := st.entity(entityParam(params))
	if err != nil {
		return err
	}
	if got := st.idName(n.svc.Entity().AcquiredBy()); !sameName(expected, got) {
		return mismatch(expected, got)
	}
	return nil
}

func checkLockedBy(st *State, params map[string]any, expected any) error {
	n, err := st.entity(entityParam(params))
	if err != nil {
		return err
	}
	if got := st.idName(n.svc.Entity().LockedBy()); !sameName(expected, got) {
		return mismatch(expected, got)
	}
	return nil
}

func checkRegistered(st *State, params map[string]any, expected any) error {
	n, err := st.entity(entityParam(params))
	if err != nil {
		return err
	}
	want, err := paramInt(map[string]any{"v": expected}, "v", 0)
	if err != nil {
		return err
	}
	if got := n.svc.Entity().RegisteredCount(); got != want {
		return mismatch(want, got)
	}
	return nil
}

func lastACMP(st *State, params map[string]any) (wire.ACMPHeader, error) {
	s, err := st.controller(paramString(params, "from"))
	if err != nil {
		return wire.ACMPHeader{}, err
	}
	if len(s.acmpResponses) == 0 {
		return wire.ACMPHeader{}, errNoResponse
	}
	return s.acmpResponses[len(s.acmpResponses)-1], nil
}

func checkACMPStatus(st *State, params map[string]any, expected any) error {
	h, err := lastACMP(st, params)
	if err != nil {
		return err
	}
	if !sameName(expected, h.Status.String()) {
		return mismatch(expected, h.Status)
	}
	return nil
}

func checkConnectionCount(st *State, params map[string]any, expected any) error {
	h, err := lastACMP(st, params)
	if err != nil {
		return err
	}
	want, err := paramInt(map[string]any{"v": expected}, "v", 0)
	if err != nil {
		return err
	}
	if int(h.ConnectionCount) != want {
		return mismatch(want, h.ConnectionCount)
	}
	return nil
}

func checkTalkerConnections(st *State, params map[string]any, expected any) error {
	n, err := st.entity(paramString(params, "talker"))
	if err != nil {
		return err
	}
	uid, err := paramInt(params, "talker_unique_id", 0)
	if err != nil {
		return err
	}
	t, ok := n.svc.Talker(uint16(uid))
	if !ok {
		return fmt.Errorf("no talker %d", uid)
	}
	want, err := paramInt(map[string]any{"v": expected}, "v", 0)
	if err != nil {
		return err
	}
	if got := t.ConnectionCount(); got != want {
		return mismatch(want, got)
	}
	return nil
}

func checkListenerState(st *State, params map[string]any, expected any) error {
	n, err := st.entity(paramString(params, "listener"))
	if err != nil {
		return err
	}
	uid, err := paramInt(params, "listener_unique_id", 0)
	if err != nil {
		return err
	}
	l, ok := n.svc.Listener(uint16(uid))
	if !ok {
		return fmt.Errorf("no listener %d", uid)
	}
	if got := l.State().String(); !sameName(expected, got) {
		return mismatch(expected, got)
	}
	return nil
}
