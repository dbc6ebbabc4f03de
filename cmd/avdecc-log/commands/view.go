package commands

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
)

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// eventLabel names the payload an event carries.
func eventLabel(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "Frame"
	case event.Message != nil:
		if event.Message.Name != "" {
			return event.Message.Protocol.String() + " " + event.Message.Name
		}
		return event.Message.Protocol.String()
	case event.StateChange != nil:
		return "State"
	case event.Timeout != nil:
		return "Timeout"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp @tick [entity] DIRECTION LAYER label
	ts := event.Timestamp.UTC().Format(timestampLayout)
	fmt.Fprintf(w, "%s @%d [%s] %-3s %s %s\n", ts, event.Tick, event.EntityID,
		event.Direction.String(), event.Layer.String(), eventLabel(event))

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Timeout != nil:
		formatTimeoutDetails(w, event.Timeout)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}
	if event.PeerMAC != "" {
		fmt.Fprintf(w, "  Peer: %s\n", event.PeerMAC)
	}

	fmt.Fprintln(w)
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	kind := "command"
	switch {
	case msg.Unsolicited:
		kind = "unsolicited"
	case msg.Response:
		kind = "response"
	}
	fmt.Fprintf(w, "  Seq: %d (%s)\n", msg.SequenceID, kind)
	if msg.Response {
		fmt.Fprintf(w, "  Status: %s (%d)\n", msg.StatusName, msg.Status)
	}
	if msg.TargetID != "" {
		fmt.Fprintf(w, "  Target: %s\n", msg.TargetID)
	}
	if msg.ControllerID != "" {
		fmt.Fprintf(w, "  Controller: %s\n", msg.ControllerID)
	}
	if msg.TalkerID != "" {
		fmt.Fprintf(w, "  Talker: %s", msg.TalkerID)
		if msg.TalkerUniqueID != nil {
			fmt.Fprintf(w, "/%d", *msg.TalkerUniqueID)
		}
		fmt.Fprintln(w)
	}
	if msg.ListenerID != "" {
		fmt.Fprintf(w, "  Listener: %s", msg.ListenerID)
		if msg.ListenerUniqueID != nil {
			fmt.Fprintf(w, "/%d", *msg.ListenerUniqueID)
		}
		fmt.Fprintln(w)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatTimeoutDetails(w io.Writer, to *log.TimeoutEvent) {
	fmt.Fprintf(w, "  %s seq %d to %s after %d ms", to.Name, to.SequenceID, to.TargetID, to.ElapsedMs)
	if to.Retried {
		fmt.Fprint(w, " (retrying)")
	}
	fmt.Fprintln(w)
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *err.Code)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// RunView prints the events of path matching filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	err := log.Each(path, filter, func(event log.Event) error {
		formatEvent(output, event)
		return nil
	})
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
