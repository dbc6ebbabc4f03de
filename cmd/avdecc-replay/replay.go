package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/network"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/service"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// tailStepMs is the clock step used after the last captured frame.
const tailStepMs = 10

// Result summarizes one replay.
type Result struct {
	Frames  int
	Skipped int
	Sent    []*wire.Frame
}

// Replay feeds every frame of port to a new entity built from ec, then runs
// the clock tailMs further so pending timeouts fire.
func Replay(port *network.ReplayPort, wrap func(network.Port) network.Port, ec service.EntityConfig, tailMs uint32) (Result, error) {
	port.SetPaced(true)
	ec.MaxBurst = 1

	var p network.Port = port
	if wrap != nil {
		p = wrap(port)
	}
	svc, err := service.NewEntityService(p, ec)
	if err != nil {
		return Result{}, err
	}
	for !port.Done() {
		svc.Poll()
	}
	svc.Poll()
	for elapsed := uint32(0); elapsed < tailMs; elapsed += tailStepMs {
		port.Advance(min(tailStepMs, tailMs-elapsed))
		svc.Poll()
	}
	return Result{Frames: port.Len(), Skipped: port.Skipped(), Sent: port.Sent()}, nil
}

// messageName labels an AVDECC frame by message type, command and status.
func messageName(f *wire.Frame) string {
	if h, ok := wire.ParseAEM(f); ok {
		if h.MessageType.IsResponse() {
			return fmt.Sprintf("%s %s", h.CommandType, h.Status)
		}
		return fmt.Sprintf("%s command", h.CommandType)
	}
	if h, ok := wire.ParseACMP(f); ok {
		if h.MessageType.IsResponse() {
			return fmt.Sprintf("%s %s", h.MessageType, h.Status)
		}
		return h.MessageType.String()
	}
	return "other"
}

// Counts groups the sent frames by messageName.
func (r Result) Counts() map[string]int {
	counts := make(map[string]int)
	for _, f := range r.Sent {
		counts[messageName(f)]++
	}
	return counts
}

// Print writes a summary of r to w.
func (r Result) Print(w io.Writer) {
	fmt.Fprintf(w, "replayed %d frames (%d packets skipped), entity sent %d\n", r.Frames, r.Skipped, len(r.Sent))
	counts := r.Counts()
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-48s %d\n", n, counts[n])
	}
}
