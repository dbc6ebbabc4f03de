package network

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// CaptureSnapLen is the snapshot length written to pcap headers.
const CaptureSnapLen = wire.MaxFrameSize

// CapturePort wraps a Port and writes every received and transmitted frame
// to a pcap stream. Capture timestamps are derived from the port clock so
// that a replay reproduces the original timing.
type CapturePort struct {
	inner  Port
	mu     sync.Mutex
	w      *pcapgo.Writer
	closer io.Closer
	base   time.Time
	count  int
	err    error
}

// NewCapturePort writes a pcap file header to w and returns the wrapper.
func NewCapturePort(inner Port, w io.Writer) (*CapturePort, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(CaptureSnapLen, layers.LinkTypeEthernet); err != nil {
		return nil, fmt.Errorf("write pcap header: %w", err)
	}
	c := &CapturePort{inner: inner, w: pw, base: time.Now()}
	if cl, ok := w.(io.Closer); ok {
		c.closer = cl
	}
	return c, nil
}

// CreateCapture creates the pcap file at path and wraps inner.
func CreateCapture(inner Port, path string) (*CapturePort, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture: %w", err)
	}
	c, err := NewCapturePort(inner, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func (c *CapturePort) write(f *wire.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w == nil || c.err != nil {
		return
	}
	data := f.Bytes()
	ci := gopacket.CaptureInfo{
		Timestamp:     c.base.Add(time.Duration(c.inner.TimeMs()) * time.Millisecond),
		CaptureLength: len(data),
		Length:        len(data),
	}
	if err := c.w.WritePacket(ci, data); err != nil {
		c.err = err
		return
	}
	c.count++
}

// ReceiveFrame polls the wrapped port and captures what it returns.
func (c *CapturePort) ReceiveFrame() (*wire.Frame, bool) {
	f, ok := c.inner.ReceiveFrame()
	if ok {
		c.write(f)
	}
	return f, ok
}

// SendFrame captures f and forwards it.
func (c *CapturePort) SendFrame(f *wire.Frame) bool {
	c.write(f)
	return c.inner.SendFrame(f)
}

// SendReplyFrame captures the re-addressed reply and forwards f.
func (c *CapturePort) SendReplyFrame(f *wire.Frame) bool {
	c.write(ReplyCopy(f, c.inner.MACAddress()))
	return c.inner.SendReplyFrame(f)
}

// MACAddress returns the wrapped port address.
func (c *CapturePort) MACAddress() eui.Eui48 {
	return c.inner.MACAddress()
}

// TimeMs returns the wrapped port clock.
func (c *CapturePort) TimeMs() uint32 {
	return c.inner.TimeMs()
}

// Count returns the number of captured frames.
func (c *CapturePort) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Err returns the first write error, if any. Capturing stops after it.
func (c *CapturePort) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close stops capturing and closes the underlying writer if it is a Closer.
func (c *CapturePort) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.w == nil {
		return ErrPortClosed
	}
	c.w = nil
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

var _ Port = (*CapturePort)(nil)

// WriteCapture writes frames to w as a pcap stream. Each frame's Time is
// taken as milliseconds after the Unix epoch.
func WriteCapture(w io.Writer, frames []*wire.Frame) error {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(CaptureSnapLen, layers.LinkTypeEthernet); err != nil {
		return fmt.Errorf("write pcap header: %w", err)
	}
	for i, f := range frames {
		data := f.Bytes()
		ci := gopacket.CaptureInfo{
			Timestamp:     time.UnixMilli(int64(f.Time)),
			CaptureLength: len(data),
			Length:        len(data),
		}
		if err := pw.WritePacket(ci, data); err != nil {
			return fmt.Errorf("write packet %d: %w", i, err)
		}
	}
	return nil
}
