package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
)

// RunExport writes the events of path to output, or to stdout when output
// is empty, as JSON lines or CSV.
func RunExport(path, format, output string, stdout io.Writer) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	var write func(log.Event) error
	var flush func() error
	if format == "csv" {
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		write = func(event log.Event) error { return cw.Write(csvRow(event)) }
		flush = func() error {
			cw.Flush()
			return cw.Error()
		}
	} else {
		enc := json.NewEncoder(w)
		write = func(event log.Event) error { return enc.Encode(event) }
		flush = func() error { return nil }
	}

	if err := log.Each(path, log.Filter{}, write); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return flush()
}

var csvHeader = []string{
	"timestamp", "tick", "session_id", "entity_id", "role", "direction",
	"layer", "category", "type", "sequence_id", "status",
}

func csvRow(event log.Event) []string {
	seq, status := "", ""
	switch {
	case event.Message != nil:
		seq = strconv.Itoa(int(event.Message.SequenceID))
		status = event.Message.StatusName
	case event.Timeout != nil:
		seq = strconv.Itoa(int(event.Timeout.SequenceID))
	}
	return []string{
		event.Timestamp.UTC().Format(timestampLayout),
		strconv.FormatUint(uint64(event.Tick), 10),
		event.SessionID,
		event.EntityID,
		event.LocalRole.String(),
		event.Direction.String(),
		event.Layer.String(),
		event.Category.String(),
		eventLabel(event),
		seq,
		status,
	}
}
