package subscription

import (
	"errors"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
)

// DefaultMaxControllers is the default registered controller capacity.
const DefaultMaxControllers = 16

// Registry errors.
var (
	ErrResourceExhausted = errors.New("registered controller table full")
	ErrNotFound          = errors.New("controller not registered")
)

// Controller is one registered controller.
type Controller struct {
	EntityID eui.Eui64
	MAC      eui.Eui48
}

// Config holds registry configuration.
type Config struct {
	// MaxControllers bounds the table. Zero selects DefaultMaxControllers.
	MaxControllers int
}

// DefaultConfig returns the default registry configuration.
func DefaultConfig() Config {
	return Config{MaxControllers: DefaultMaxControllers}
}

// Registry is a bounded set of registered controllers keyed by entity id.
// It is owned by a single cooperative handler and is not safe for
// concurrent use.
type Registry struct {
	slots []Controller
	count int

	onChange func(c Controller, registered bool)
}

// NewRegistry creates a registry with default configuration.
func NewRegistry() *Registry {
	return NewRegistryWithConfig(DefaultConfig())
}

// NewRegistryWithConfig creates a registry with custom configuration.
func NewRegistryWithConfig(config Config) *Registry {
	if config.MaxControllers <= 0 {
		config.MaxControllers = DefaultMaxControllers
	}
	return &Registry{slots: make([]Controller, config.MaxControllers)}
}

// Capacity returns the maximum number of controllers.
func (r *Registry) Capacity() int {
	return len(r.slots)
}

// Count returns the number of registered controllers.
func (r *Registry) Count() int {
	return r.count
}

// At returns the controller in slot i.
func (r *Registry) At(i int) (Controller, bool) {
	if i < 0 || i >= r.count {
		return Controller{}, false
	}
	return r.slots[i], true
}

func (r *Registry) index(id eui.Eui64) int {
	for i := 0; i < r.count; i++ {
		if r.slots[i].EntityID == id {
			return i
		}
	}
	return -1
}

// Find returns the registration for id.
func (r *Registry) Find(id eui.Eui64) (Controller, bool) {
	if i := r.index(id); i >= 0 {
		return r.slots[i], true
	}
	return Controller{}, false
}

// Add registers a controller. Adding an id that is already present only
// refreshes its MAC address.
func (r *Registry) Add(id eui.Eui64, mac eui.Eui48) error {
	if i := r.index(id); i >= 0 {
		r.slots[i].MAC = mac
		return nil
	}
	if r.count >= len(r.slots) {
		return ErrResourceExhausted
	}
	c := Controller{EntityID: id, MAC: mac}
	r.slots[r.count] = c
	r.count++
	if r.onChange != nil {
		r.onChange(c, true)
	}
	return nil
}

// Remove deregisters id. The last active slot moves into the freed one.
func (r *Registry) Remove(id eui.Eui64) error {
	i := r.index(id)
	if i < 0 {
		return ErrNotFound
	}
	c := r.slots[i]
	last := r.count - 1
	r.slots[i] = r.slots[last]
	r.slots[last] = Controller{}
	r.count--
	if r.onChange != nil {
		r.onChange(c, false)
	}
	return nil
}

// Clear removes every registration.
func (r *Registry) Clear() {
	for i := 0; i < r.count; i++ {
		r.slots[i] = Controller{}
	}
	r.count = 0
}

// Notify calls fn for every registered controller other than except and
// returns the number of calls.
func (r *Registry) Notify(except eui.Eui64, fn func(Controller)) int {
	n := 0
	for i := 0; i < r.count; i++ {
		if r.slots[i].EntityID == except {
			continue
		}
		fn(r.slots[i])
		n++
	}
	return n
}

// OnChange sets a callback for registrations and deregistrations.
func (r *Registry) OnChange(fn func(c Controller, registered bool)) {
	r.onChange = fn
}
