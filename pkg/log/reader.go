package log

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// StdinPath names standard input in NewFilteredReader and Each.
const StdinPath = "-"

// Filter selects protocol log events. A zero field selects everything.
type Filter struct {
	SessionID string
	EntityID  string

	Direction *Direction
	Layer     *Layer
	Category  *Category
	Role      *Role

	// Protocol and Name select message events by AVDECC sub-protocol and
	// by message or command name, e.g. "ACQUIRE_ENTITY" (case-insensitive).
	Protocol *Protocol
	Name     string

	// Events in [TimeStart, TimeEnd) pass.
	TimeStart *time.Time
	TimeEnd   *time.Time
}

func (f *Filter) matches(ev Event) bool {
	switch {
	case f.SessionID != "" && ev.SessionID != f.SessionID,
		f.EntityID != "" && ev.EntityID != f.EntityID,
		f.Direction != nil && ev.Direction != *f.Direction,
		f.Layer != nil && ev.Layer != *f.Layer,
		f.Category != nil && ev.Category != *f.Category,
		f.Role != nil && ev.LocalRole != *f.Role,
		f.TimeStart != nil && ev.Timestamp.Before(*f.TimeStart),
		f.TimeEnd != nil && !ev.Timestamp.Before(*f.TimeEnd):
		return false
	}
	if f.Protocol == nil && f.Name == "" {
		return true
	}
	m := ev.Message
	if m == nil {
		return false
	}
	if f.Protocol != nil && m.Protocol != *f.Protocol {
		return false
	}
	return f.Name == "" || strings.EqualFold(m.Name, f.Name)
}

// Reader streams the events of a CBOR protocol log.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens the log at path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens the log at path, or standard input for
// StdinPath, and yields only events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	if path == StdinPath {
		return NewStreamReader(io.NopCloser(os.Stdin), filter), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewStreamReader(f, filter), nil
}

// NewStreamReader reads events from r. Close closes r.
func NewStreamReader(r io.ReadCloser, filter Filter) *Reader {
	return &Reader{closer: r, decoder: NewDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the log.
func (r *Reader) Next() (Event, error) {
	for {
		var ev Event
		if err := r.decoder.Decode(&ev); err != nil {
			return Event{}, err
		}
		if r.filter.matches(ev) {
			return ev, nil
		}
	}
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.closer.Close()
}

// Each calls fn for every event of the log at path matching filter. It
// stops at the first error fn returns.
func Each(path string, filter Filter, fn func(Event) error) error {
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		return err
	}
	defer r.Close()
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
