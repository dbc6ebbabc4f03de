package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/log"
)

// FilterOptions holds the textual filter flags shared by view and filter.
type FilterOptions struct {
	Output    string
	SessionID string
	EntityID  string
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
	Protocol  string
	Role      string
	Name      string
}

// Filter converts the options into a log.Filter.
func (o FilterOptions) Filter() (log.Filter, error) {
	filter := log.Filter{SessionID: o.SessionID, Name: o.Name}

	if o.EntityID != "" {
		id, err := eui.ParseEui64(o.EntityID)
		if err != nil {
			return filter, fmt.Errorf("invalid entity-id: %w", err)
		}
		filter.EntityID = id.String()
	}
	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if o.Layer != "" {
		l, err := parseLayer(o.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if o.Direction != "" {
		d, err := parseDirection(o.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if o.Category != "" {
		c, err := parseCategory(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if o.Protocol != "" {
		p, err := parseProtocol(o.Protocol)
		if err != nil {
			return filter, err
		}
		filter.Protocol = &p
	}
	if o.Role != "" {
		r, err := parseRole(o.Role)
		if err != nil {
			return filter, err
		}
		filter.Role = &r
	}
	return filter, nil
}

// RunFilter copies the events of path matching opts to opts.Output and
// returns how many were written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	if opts.Output == "" {
		return 0, fmt.Errorf("output file required")
	}
	filter, err := opts.Filter()
	if err != nil {
		return 0, err
	}

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	err = log.Each(path, filter, func(event log.Event) error {
		logger.Log(event)
		return nil
	})
	if err != nil {
		return logger.Count(), fmt.Errorf("read %s: %w", path, err)
	}
	return logger.Count(), nil
}

func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "frame":
		return log.LayerFrame, nil
	case "message":
		return log.LayerMessage, nil
	case "engine":
		return log.LayerEngine, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be frame, message or engine)", s)
	}
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "timeout":
		return log.CategoryTimeout, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, timeout, state or error)", s)
	}
}

func parseProtocol(s string) (log.Protocol, error) {
	switch strings.ToLower(s) {
	case "aem":
		return log.ProtocolAEM, nil
	case "aa":
		return log.ProtocolAA, nil
	case "acmp":
		return log.ProtocolACMP, nil
	default:
		return 0, fmt.Errorf("invalid protocol: %s (must be aem, aa or acmp)", s)
	}
}

func parseRole(s string) (log.Role, error) {
	switch strings.ToLower(s) {
	case "entity":
		return log.RoleEntity, nil
	case "controller":
		return log.RoleController, nil
	case "talker":
		return log.RoleTalker, nil
	case "listener":
		return log.RoleListener, nil
	default:
		return 0, fmt.Errorf("invalid role: %s (must be entity, controller, talker or listener)", s)
	}
}
