package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Entities          map[string]*EntityStats
	Commands          map[string]int
	Statuses          map[string]int
	Timeouts          int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// EntityStats holds statistics for one local entity id.
type EntityStats struct {
	Role      log.Role
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Frames    int
	Timeouts  int
}

// Collect reads every event of path into a Stats.
func Collect(path string) (*Stats, error) {
	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Entities:          make(map[string]*EntityStats),
		Commands:          make(map[string]int),
		Statuses:          make(map[string]int),
	}
	err := log.Each(path, log.Filter{}, func(event log.Event) error {
		stats.add(event)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	if event.Frame != nil {
		s.EventsByDirection[event.Direction]++
	}

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	e, ok := s.Entities[event.EntityID]
	if !ok {
		e = &EntityStats{Role: event.LocalRole, FirstSeen: event.Timestamp}
		s.Entities[event.EntityID] = e
	}
	e.Events++
	e.LastSeen = event.Timestamp

	switch {
	case event.Frame != nil:
		e.Frames++
	case event.Message != nil:
		if !event.Message.Response {
			s.Commands[event.Message.Name]++
		} else if event.Message.StatusName != "" {
			s.Statuses[event.Message.StatusName]++
		}
	case event.Timeout != nil:
		s.Timeouts++
		e.Timeouts++
	case event.Error != nil:
		s.Errors++
	}
}

// RunStats prints statistics about path.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, s *Stats) {
	fmt.Fprintf(w, "Total events: %d\n", s.TotalEvents)
	if s.TotalEvents == 0 {
		return
	}
	fmt.Fprintf(w, "Time range:   %s - %s (%s)\n",
		s.TimeRange.Start.UTC().Format(timestampLayout),
		s.TimeRange.End.UTC().Format(timestampLayout),
		s.TimeRange.End.Sub(s.TimeRange.Start))

	fmt.Fprintln(w, "\nBy layer:")
	for _, l := range []log.Layer{log.LayerFrame, log.LayerMessage, log.LayerEngine} {
		if n := s.EventsByLayer[l]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", l, n)
		}
	}
	fmt.Fprintln(w, "\nBy category:")
	for _, c := range []log.Category{log.CategoryMessage, log.CategoryTimeout, log.CategoryState, log.CategoryError} {
		if n := s.EventsByCategory[c]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", c, n)
		}
	}
	if len(s.EventsByDirection) > 0 {
		fmt.Fprintf(w, "\nFrames: %d in, %d out\n",
			s.EventsByDirection[log.DirectionIn], s.EventsByDirection[log.DirectionOut])
	}

	printCounts(w, "Commands", s.Commands)
	printCounts(w, "Response status", s.Statuses)

	fmt.Fprintf(w, "\nTimeouts: %d\nErrors:   %d\n", s.Timeouts, s.Errors)

	fmt.Fprintf(w, "\nEntities (%d):\n", len(s.Entities))
	ids := make([]string, 0, len(s.Entities))
	for id := range s.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		e := s.Entities[id]
		fmt.Fprintf(w, "  %s %-10s events=%d frames=%d timeouts=%d\n",
			id, e.Role, e.Events, e.Frames, e.Timeouts)
	}
}

// printCounts prints m sorted by descending count, then name.
func printCounts(w io.Writer, title string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] > m[names[j]]
		}
		return names[i] < names[j]
	})
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, name := range names {
		fmt.Fprintf(w, "  %-40s %d\n", name, m[name])
	}
}
