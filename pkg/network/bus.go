package network

import (
	"log/slog"
	"sync"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// DefaultQueueSize is the default per-port receive queue length.
const DefaultQueueSize = 64

// BusConfig configures a Bus.
type BusConfig struct {
	// QueueSize bounds each port's receive queue. Frames beyond it are dropped.
	QueueSize int

	// Clock is shared by every port. Nil creates a ManualClock at 0.
	Clock Clock

	// Logger is used for operational logging (optional).
	Logger *slog.Logger
}

// DefaultBusConfig returns the default bus configuration.
func DefaultBusConfig() BusConfig {
	return BusConfig{QueueSize: DefaultQueueSize}
}

// Bus is an in-memory Ethernet segment.
type Bus struct {
	mu     sync.Mutex
	config BusConfig
	ports  []*BusPort

	// dropped counts frames lost to full queues.
	dropped int
}

// NewBus creates a bus with the given configuration.
func NewBus(config BusConfig) *Bus {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.Clock == nil {
		config.Clock = NewManualClock(0)
	}
	return &Bus{config: config}
}

// Clock returns the bus clock.
func (b *Bus) Clock() Clock {
	return b.config.Clock
}

// NewPort attaches a port with the given MAC address.
func (b *Bus) NewPort(mac eui.Eui48) *BusPort {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &BusPort{bus: b, mac: mac}
	b.ports = append(b.ports, p)
	return p
}

// Detach removes p from the bus. Queued frames are discarded.
func (b *Bus) Detach(p *BusPort) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, q := range b.ports {
		if q == p {
			b.ports = append(b.ports[:i], b.ports[i+1:]...)
			break
		}
	}
	p.queue = nil
	p.closed = true
}

// Dropped returns the number of frames dropped because a queue was full.
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// deliver copies f into the queue of every other port that accepts its
// destination.
func (b *Bus) deliver(from *BusPort, f *wire.Frame) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if from.closed {
		return false
	}

	dst := f.DestinationMAC()
	group := IsGroupAddress(dst)
	now := b.config.Clock.TimeMs()
	for _, p := range b.ports {
		if p == from || (!group && p.mac != dst) {
			continue
		}
		if len(p.queue) >= b.config.QueueSize {
			b.dropped++
			b.debugLog("bus: queue full, frame dropped", "port", p.mac.String())
			continue
		}
		c := f.Clone()
		c.Time = now
		p.queue = append(p.queue, c)
	}
	from.sent++
	return true
}

func (b *Bus) debugLog(msg string, args ...any) {
	if b.config.Logger != nil {
		b.config.Logger.Debug(msg, args...)
	}
}

// BusPort is one station on a Bus.
type BusPort struct {
	bus    *Bus
	mac    eui.Eui48
	queue  []*wire.Frame
	closed bool
	sent   int
}

// ReceiveFrame pops the oldest queued frame.
func (p *BusPort) ReceiveFrame() (*wire.Frame, bool) {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()
	if len(p.queue) == 0 {
		return nil, false
	}
	f := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return f, true
}

// Pending returns the number of queued frames.
func (p *BusPort) Pending() int {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()
	return len(p.queue)
}

// Sent returns the number of frames this port transmitted.
func (p *BusPort) Sent() int {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()
	return p.sent
}

// SendFrame transmits f.
func (p *BusPort) SendFrame(f *wire.Frame) bool {
	return p.bus.deliver(p, f)
}

// SendReplyFrame transmits a copy of f addressed back to its sender.
func (p *BusPort) SendReplyFrame(f *wire.Frame) bool {
	return p.bus.deliver(p, ReplyCopy(f, p.mac))
}

// MACAddress returns the port address.
func (p *BusPort) MACAddress() eui.Eui48 {
	return p.mac
}

// TimeMs returns the bus clock.
func (p *BusPort) TimeMs() uint32 {
	return p.bus.config.Clock.TimeMs()
}

var _ Port = (*BusPort)(nil)
