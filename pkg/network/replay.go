package network

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// ErrNotEthernet is returned for captures with a non-Ethernet link type.
var ErrNotEthernet = errors.New("capture is not an Ethernet capture")

// ExtractAVTP decodes an Ethernet frame and returns it untagged if it
// carries the AVTP ethertype, directly or behind one 802.1Q tag.
func ExtractAVTP(data []byte) ([]byte, bool) {
	pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Lazy)
	l := pkt.Layer(layers.LayerTypeEthernet)
	if l == nil {
		return nil, false
	}
	eth := l.(*layers.Ethernet)
	etherType := eth.EthernetType
	payload := eth.Payload
	if etherType == layers.EthernetTypeDot1Q {
		q, ok := pkt.Layer(layers.LayerTypeDot1Q).(*layers.Dot1Q)
		if !ok {
			return nil, false
		}
		etherType = q.Type
		payload = q.Payload
	}
	if uint16(etherType) != wire.AVTPEtherType {
		return nil, false
	}

	out := make([]byte, 0, wire.EthernetHeaderLen+len(payload))
	out = append(out, eth.DstMAC...)
	out = append(out, eth.SrcMAC...)
	out = append(out, byte(wire.AVTPEtherType>>8), byte(wire.AVTPEtherType&0xff))
	out = append(out, payload...)
	return out, true
}

// ReplayPort is a Port that plays back the AVDECC frames of a pcap capture
// as received frames. Its clock follows the capture timestamps, relative to
// the first packet, and frames the engine sends are collected.
type ReplayPort struct {
	mac     eui.Eui48
	frames  []*wire.Frame
	next    int
	clock   *ManualClock
	sent    []*wire.Frame
	skipped int
	paced   bool
}

// LoadReplay reads every packet of the pcap stream r. Packets that are not
// AVTP frames are skipped.
func LoadReplay(r io.Reader, mac eui.Eui48) (*ReplayPort, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read pcap header: %w", err)
	}
	if pr.LinkType() != layers.LinkTypeEthernet {
		return nil, ErrNotEthernet
	}

	p := &ReplayPort{mac: mac, clock: NewManualClock(0)}
	first := true
	var start int64
	for {
		data, ci, err := pr.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read packet %d: %w", len(p.frames)+p.skipped, err)
		}
		if first {
			start = ci.Timestamp.UnixMilli()
			first = false
		}
		raw, ok := ExtractAVTP(data)
		if !ok {
			p.skipped++
			continue
		}
		f, ok := wire.FrameFromBytes(raw, uint32(ci.Timestamp.UnixMilli()-start))
		if !ok {
			p.skipped++
			continue
		}
		p.frames = append(p.frames, f)
	}
	return p, nil
}

// OpenReplay loads the pcap file at path.
func OpenReplay(path string, mac eui.Eui48) (*ReplayPort, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()
	return LoadReplay(f, mac)
}

// SetPaced makes ReceiveFrame move the clock to a frame's capture time on
// one call and deliver the frame on the next, so a scheduler ticks the
// engine at that time before the frame arrives.
func (p *ReplayPort) SetPaced(paced bool) {
	p.paced = paced
}

// ReceiveFrame returns the next captured frame and moves the clock to its
// capture time.
func (p *ReplayPort) ReceiveFrame() (*wire.Frame, bool) {
	if p.next >= len(p.frames) {
		return nil, false
	}
	f := p.frames[p.next]
	if p.paced && p.clock.TimeMs() != f.Time {
		p.clock.Set(f.Time)
		return nil, false
	}
	p.next++
	p.clock.Set(f.Time)
	return f.Clone(), true
}

// SendFrame collects f.
func (p *ReplayPort) SendFrame(f *wire.Frame) bool {
	c := f.Clone()
	c.Time = p.clock.TimeMs()
	p.sent = append(p.sent, c)
	return true
}

// SendReplyFrame collects f re-addressed to its sender.
func (p *ReplayPort) SendReplyFrame(f *wire.Frame) bool {
	c := ReplyCopy(f, p.mac)
	c.Time = p.clock.TimeMs()
	p.sent = append(p.sent, c)
	return true
}

// MACAddress returns the address the replayed entity answers from.
func (p *ReplayPort) MACAddress() eui.Eui48 {
	return p.mac
}

// TimeMs returns the capture-relative clock.
func (p *ReplayPort) TimeMs() uint32 {
	return p.clock.TimeMs()
}

// Advance moves the clock past the last frame, so pending timeouts can fire.
func (p *ReplayPort) Advance(ms uint32) {
	p.clock.Advance(ms)
}

// Done reports whether every captured frame was delivered.
func (p *ReplayPort) Done() bool {
	return p.next >= len(p.frames)
}

// Len returns the number of AVDECC frames in the capture.
func (p *ReplayPort) Len() int {
	return len(p.frames)
}

// Skipped returns the number of capture packets that were not AVTP frames.
func (p *ReplayPort) Skipped() int {
	return p.skipped
}

// Sent returns the frames the engine transmitted.
func (p *ReplayPort) Sent() []*wire.Frame {
	return p.sent
}

var _ Port = (*ReplayPort)(nil)
