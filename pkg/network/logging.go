package network

import (
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// LoggingPort wraps a Port and records every frame that crosses it.
type LoggingPort struct {
	inner Port
	rec   *log.Recorder
}

// NewLoggingPort wraps inner. A nil recorder makes it a pass-through.
func NewLoggingPort(inner Port, rec *log.Recorder) *LoggingPort {
	return &LoggingPort{inner: inner, rec: rec}
}

// ReceiveFrame polls the wrapped port and logs the frame.
func (p *LoggingPort) ReceiveFrame() (*wire.Frame, bool) {
	f, ok := p.inner.ReceiveFrame()
	if ok {
		p.rec.Frame(log.DirectionIn, f)
	}
	return f, ok
}

// SendFrame logs f and forwards it.
func (p *LoggingPort) SendFrame(f *wire.Frame) bool {
	p.logOut(f)
	return p.inner.SendFrame(f)
}

// SendReplyFrame logs the re-addressed reply and forwards f.
func (p *LoggingPort) SendReplyFrame(f *wire.Frame) bool {
	if p.rec.Enabled() {
		p.logOut(ReplyCopy(f, p.inner.MACAddress()))
	}
	return p.inner.SendReplyFrame(f)
}

func (p *LoggingPort) logOut(f *wire.Frame) {
	if !p.rec.Enabled() {
		return
	}
	c := f.Clone()
	c.Time = p.inner.TimeMs()
	p.rec.Frame(log.DirectionOut, c)
}

// MACAddress returns the wrapped port address.
func (p *LoggingPort) MACAddress() eui.Eui48 {
	return p.inner.MACAddress()
}

// TimeMs returns the wrapped port clock.
func (p *LoggingPort) TimeMs() uint32 {
	return p.inner.TimeMs()
}

var _ Port = (*LoggingPort)(nil)
