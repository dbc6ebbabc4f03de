// Package interactive provides the command shell of avdecc-sim: an AEM and
// ACMP controller driving the simulated entities.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/controller"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/service"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// Target is one simulated entity the shell can address.
type Target struct {
	Service *service.EntityService
	MAC     eui.Eui48
}

func (t Target) id() eui.Eui64 {
	return t.Service.Entity().EntityID()
}

// Shell executes controller commands against the simulated entities.
type Shell struct {
	ctrl     *service.ControllerService
	targets  []Target
	selected int

	mu  sync.Mutex
	out io.Writer
}

// New creates a shell writing to out. The shell is the controller's
// response handler; pass it in service.ControllerConfig.
func New(out io.Writer) *Shell {
	return &Shell{out: out}
}

// Attach binds the shell to the controller and the entities it drives.
// AEM commands go to the first entity until another is selected.
func (s *Shell) Attach(ctrl *service.ControllerService, targets ...Target) {
	s.ctrl = ctrl
	s.targets = targets
	ctrl.ACMP().OnResponse(func(h wire.ACMPHeader) {
		s.printf("<- %s %s talker %s/%d listener %s/%d count %d\n", h.MessageType, h.Status,
			h.TalkerEntityID, h.TalkerUniqueID, h.ListenerEntityID, h.ListenerUniqueID, h.ConnectionCount)
	})
	ctrl.ACMP().OnTimeout(func(h wire.ACMPHeader) {
		s.printf("<- %s timed out\n", h.MessageType)
	})
}

func (s *Shell) current() Target {
	return s.targets[s.selected]
}

// SetOutput redirects shell output.
func (s *Shell) SetOutput(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = w
}

func (s *Shell) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

// CommandResponse implements controller.ResponseHandler.
func (s *Shell) CommandResponse(r controller.Response) {
	s.printf("<- %s %s seq %d%s\n", r.Header.CommandType, r.Status(), r.Header.SequenceID, detail(r))
}

// UnsolicitedResponse implements controller.ResponseHandler.
func (s *Shell) UnsolicitedResponse(r controller.Response) {
	s.printf("<- unsolicited %s from %s%s\n", r.Header.CommandType, r.Header.TargetEntityID, detail(r))
}

// CommandTimedOut implements controller.ResponseHandler.
func (s *Shell) CommandTimedOut(target eui.Eui64, ct wire.AEMCommandType, seq uint16) {
	s.printf("<- %s seq %d to %s timed out\n", ct, seq, target)
}

// detail decodes the interesting part of a successful response.
func detail(r controller.Response) string {
	if r.Status() != wire.AEMStatusSuccess {
		return ""
	}
	switch r.Header.CommandType {
	case wire.CmdAcquireEntity, wire.CmdLockEntity:
		if id, ok := r.Owner(); ok {
			return " owner " + id.String()
		}
	case wire.CmdGetName, wire.CmdSetName:
		if name, ok := r.Name(); ok {
			return fmt.Sprintf(" name %q", name)
		}
	case wire.CmdGetControl, wire.CmdSetControl:
		if idx, v, ok := r.ControlValue(); ok {
			return fmt.Sprintf(" control %d = %x", idx, v)
		}
	case wire.CmdReadDescriptor:
		if t, idx, body, ok := r.Descriptor(); ok {
			return fmt.Sprintf(" %s %d (%d octets)", t, idx, len(body))
		}
	case wire.CmdGetConfiguration, wire.CmdSetConfiguration:
		if cfg, ok := r.Configuration(); ok {
			return fmt.Sprintf(" configuration %d", cfg)
		}
	}
	return ""
}

// Run reads commands until EOF, "quit" or ctx is done.
func (s *Shell) Run(ctx context.Context, rl *readline.Instance) {
	s.SetOutput(rl.Stdout())
	s.printHelp()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			s.printf("Exiting...\n")
			return
		}
		if !s.Exec(line) {
			return
		}
	}
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "quit", "exit", "q":
		return false
	case "status", "s":
		s.cmdStatus()
	case "entities", "e":
		s.cmdEntities()
	case "use":
		err = s.cmdUse(args)
	case "local":
		err = s.cmdLocal(args)
	case "connect", "disconnect", "rxstate", "txstate", "txconn":
		err = s.cmdACMP(cmd, args)
	default:
		err = s.cmdAEM(cmd, args)
	}
	if err != nil {
		s.printf("error: %v\n", err)
	}
	return true
}

func (s *Shell) cmdAEM(cmd string, args []string) error {
	c := s.ctrl.AEM()
	id, mac := s.current().id(), s.current().MAC

	var send func() (uint16, error)
	switch cmd {
	case "acquire":
		persistent := len(args) > 0 && args[0] == "persistent"
		send = func() (uint16, error) { return c.SendAcquire(id, mac, persistent) }
	case "release":
		send = func() (uint16, error) { return c.SendRelease(id, mac) }
	case "lock":
		send = func() (uint16, error) { return c.SendLock(id, mac) }
	case "unlock":
		send = func() (uint16, error) { return c.SendUnlock(id, mac) }
	case "available":
		send = func() (uint16, error) { return c.SendEntityAvailable(id, mac) }
	case "register":
		send = func() (uint16, error) { return c.SendRegister(id, mac) }
	case "deregister":
		send = func() (uint16, error) { return c.SendDeregister(id, mac) }
	case "config":
		if len(args) == 0 {
			send = func() (uint16, error) { return c.SendGetConfiguration(id, mac) }
			break
		}
		n, err := parseUint16(args[0])
		if err != nil {
			return err
		}
		send = func() (uint16, error) { return c.SendSetConfiguration(id, mac, n) }
	case "read":
		t, idx, err := descriptorArgs(args)
		if err != nil {
			return err
		}
		send = func() (uint16, error) { return c.SendReadDescriptor(id, mac, 0, t, idx) }
	case "name":
		t, idx, err := descriptorArgs(args)
		if err != nil {
			return err
		}
		if len(args) > 2 {
			name := strings.Join(args[2:], " ")
			send = func() (uint16, error) { return c.SendSetName(id, mac, t, idx, 0, 0, name) }
		} else {
			send = func() (uint16, error) { return c.SendGetName(id, mac, t, idx, 0, 0) }
		}
	case "control":
		if len(args) == 0 {
			return fmt.Errorf("usage: control <index> [hex value]")
		}
		idx, err := parseUint16(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 {
			send = func() (uint16, error) { return c.SendGetControl(id, mac, idx) }
			break
		}
		var v config.HexBytes
		if err := v.UnmarshalText([]byte(strings.Join(args[1:], ""))); err != nil {
			return err
		}
		send = func() (uint16, error) { return c.SendSetControl(id, mac, idx, v) }
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}

	var (
		seq uint16
		err error
	)
	s.ctrl.Do(func() { seq, err = send() })
	if err != nil {
		return err
	}
	s.printf("-> %s seq %d\n", cmd, seq)
	return nil
}

// cmdACMP sends an ACMP command. Each end is an entity number followed by
// a unique id.
func (s *Shell) cmdACMP(cmd string, args []string) error {
	want := map[string]int{"connect": 4, "disconnect": 4, "rxstate": 2, "txstate": 2, "txconn": 3}[cmd]
	if len(args) != want {
		return fmt.Errorf("%s takes %d numeric arguments", cmd, want)
	}
	nums := make([]uint16, len(args))
	for i, a := range args {
		n, err := parseUint16(a)
		if err != nil {
			return err
		}
		nums[i] = n
	}
	end := func(i int) (eui.Eui64, uint16, error) {
		if int(nums[i]) >= len(s.targets) {
			return eui.Eui64{}, 0, fmt.Errorf("no entity %d", nums[i])
		}
		return s.targets[nums[i]].id(), nums[i+1], nil
	}

	first, firstUID, err := end(0)
	if err != nil {
		return err
	}
	var second eui.Eui64
	var secondUID uint16
	if want == 4 {
		if second, secondUID, err = end(2); err != nil {
			return err
		}
	}
	talker := acmp.TalkerPair{TalkerEntityID: first, TalkerUniqueID: firstUID}

	c := s.ctrl.ACMP()
	s.ctrl.Do(func() {
		switch cmd {
		case "connect":
			err = c.ConnectRX(talker, acmp.ListenerPair{ListenerEntityID: second, ListenerUniqueID: secondUID}, 0)
		case "disconnect":
			err = c.DisconnectRX(talker, acmp.ListenerPair{ListenerEntityID: second, ListenerUniqueID: secondUID})
		case "rxstate":
			err = c.GetRXState(acmp.ListenerPair{ListenerEntityID: first, ListenerUniqueID: firstUID})
		case "txstate":
			err = c.GetTXState(talker)
		case "txconn":
			err = c.GetTXConnection(talker, nums[2])
		}
	})
	if err != nil {
		return err
	}
	s.printf("-> %s\n", cmd)
	return nil
}

func (s *Shell) cmdEntities() {
	for i, t := range s.targets {
		mark := " "
		if i == s.selected {
			mark = "*"
		}
		s.printf("%s %d %s %s\n", mark, i, t.id(), t.MAC)
	}
}

func (s *Shell) cmdUse(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: use <entity number>")
	}
	n, err := parseUint16(args[0])
	if err != nil {
		return err
	}
	if int(n) >= len(s.targets) {
		return fmt.Errorf("no entity %d", n)
	}
	s.selected = int(n)
	s.printf("using %s\n", s.current().id())
	return nil
}

// cmdLocal changes a control on the entity side, as a front panel would.
func (s *Shell) cmdLocal(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: local <index> <hex value>")
	}
	idx, err := parseUint16(args[0])
	if err != nil {
		return err
	}
	var v config.HexBytes
	if err := v.UnmarshalText([]byte(strings.Join(args[1:], ""))); err != nil {
		return err
	}
	n, err := s.current().Service.SetControlValue(idx, v)
	if err != nil {
		return err
	}
	s.printf("control %d set locally, %d notifications\n", idx, n)
	return nil
}

func (s *Shell) cmdStatus() {
	t := s.current()
	var owner, locker eui.Eui64
	var registered int
	t.Service.Do(func() {
		e := t.Service.Entity()
		owner, locker, registered = e.AcquiredBy(), e.LockedBy(), e.RegisteredCount()
	})
	s.printf("entity     %s\n", t.id())
	s.printf("owner      %s\n", label(owner))
	s.printf("locked by  %s\n", label(locker))
	s.printf("registered %d\n", registered)
	t.Service.Do(func() {
		for uid := uint16(0); ; uid++ {
			tk, ok := t.Service.Talker(uid)
			if !ok {
				break
			}
			s.printf("talker %d   %s, %d listeners\n", uid, tk.State(), tk.ConnectionCount())
		}
		for uid := uint16(0); ; uid++ {
			l, ok := t.Service.Listener(uid)
			if !ok {
				break
			}
			s.printf("listener %d %s\n", uid, l.State())
		}
	})
}

func label(id eui.Eui64) string {
	if id.IsUnset() || id.IsZero() {
		return "-"
	}
	return id.String()
}

func descriptorArgs(args []string) (wire.DescriptorType, uint16, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("need <descriptor type> <index>")
	}
	t, ok := wire.ParseDescriptorType(args[0])
	if !ok {
		return 0, 0, fmt.Errorf("unknown descriptor type %q", args[0])
	}
	idx, err := parseUint16(args[1])
	return t, idx, err
}

func parseUint16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return uint16(n), nil
}

func (s *Shell) printHelp() {
	s.printf(`Commands:
  acquire [persistent] | release      acquire or release the entity
  lock | unlock                       lock or unlock the entity
  available                           ENTITY_AVAILABLE
  register | deregister               unsolicited notifications
  config [n]                          get or set the configuration
  read <type> <index>                 READ_DESCRIPTOR
  name <type> <index> [new name]      GET_NAME or SET_NAME
  control <index> [hex]               GET_CONTROL or SET_CONTROL
  local <index> <hex>                 change a control on the entity
  entities | use <n>                  list or select the AEM target
  connect <t> <t uid> <l> <l uid>     CONNECT_RX from entity t to entity l
  disconnect <t> <t uid> <l> <l uid>  DISCONNECT_RX
  rxstate <l> <l uid>                 GET_RX_STATE
  txstate <t> <t uid>                 GET_TX_STATE
  txconn <t> <t uid> <index>          GET_TX_CONNECTION
  status                              state of the selected entity
  help | quit
`)
}
