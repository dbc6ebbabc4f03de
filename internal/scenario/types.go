// Package scenario runs YAML-described multi-party AVDECC exchanges over
// the in-memory bus.
package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/config"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
)

// Scenario is one scripted exchange loaded from YAML.
type Scenario struct {
	// ID is the unique scenario identifier (e.g., "SC-ACQ-001").
	ID string `yaml:"id"`

	// Name is a human-readable name.
	Name string `yaml:"name"`

	// Description explains what the scenario shows.
	Description string `yaml:"description"`

	// Entities are the simulated entities on the bus.
	Entities []EntitySpec `yaml:"entities"`

	// Controllers are the controller stations on the bus.
	Controllers []ControllerSpec `yaml:"controllers"`

	// Steps are the actions to execute in order.
	Steps []Step `yaml:"steps"`
}

// EntitySpec names an entity and describes it like a configuration file.
// Fields left out keep the config.Default values.
type EntitySpec struct {
	Name          string `yaml:"name"`
	config.Config `yaml:",inline"`
}

// UnmarshalYAML decodes over config.Default.
func (e *EntitySpec) UnmarshalYAML(node *yaml.Node) error {
	type plain EntitySpec
	p := plain{Config: config.Default()}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = EntitySpec(p)
	return nil
}

// ControllerSpec names a controller station.
type ControllerSpec struct {
	Name     string    `yaml:"name"`
	EntityID eui.Eui64 `yaml:"entity_id"`
	MAC      eui.Eui48 `yaml:"mac"`
}

// Step is a single action.
type Step struct {
	// Action is the action to perform (e.g., "send", "advance").
	Action string `yaml:"action"`

	// Params are parameters for the action.
	Params map[string]any `yaml:"params,omitempty"`

	// Expect lists outcomes checked after the action settles.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
