package lifecycle

import (
	"sync"
	"time"
)

// Status strings reported by Unit.Status.
const (
	StatusEnabled  = "Enabled"
	StatusDisabled = "Disabled"
)

// Unit is any manageable entity with an enabled/disabled state.
type Unit interface {
	// Name identifies the concrete unit in notifications (e.g. "SmartGrid").
	Name() string

	// Enable switches the unit on. It never fails.
	Enable()

	// Disable switches the unit off. It never fails.
	Disable()

	// Enabled reports the current state.
	Enabled() bool

	// Status renders the current state as StatusEnabled or StatusDisabled.
	Status() string
}

// Event describes a single Enable or Disable call.
type Event struct {
	Unit    string
	Enabled bool
	At      time.Time
}

// State returns the event's new state as a status string.
func (e Event) State() string {
	return statusString(e.Enabled)
}

// Observer receives lifecycle transitions.
type Observer interface {
	OnTransition(ev Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ev Event)

// OnTransition implements Observer.
func (f ObserverFunc) OnTransition(ev Event) { f(ev) }

// Switch is the reusable Unit implementation.
// The zero value is not usable; create one with NewSwitch.
type Switch struct {
	name string

	mu      sync.RWMutex
	enabled bool

	obsMu     sync.RWMutex
	observers []Observer

	now func() time.Time
}

var _ Unit = (*Switch)(nil)

// NewSwitch creates a disabled unit called name.
//
// Parameters:
//   - name: Unit name used in notifications
//   - observers: Initial observers (nil entries are skipped)
//
// Returns:
//   - *Switch: Disabled unit
func NewSwitch(name string, observers ...Observer) *Switch {
	s := &Switch{
		name: name,
		now:  time.Now,
	}
	for _, o := range observers {
		s.Observe(o)
	}
	return s
}

// Name implements Unit.
func (s *Switch) Name() string {
	return s.name
}

// Observe registers an additional observer. Nil observers are ignored.
func (s *Switch) Observe(o Observer) {
	if o == nil {
		return
	}
	s.obsMu.Lock()
	s.observers = append(s.observers, o)
	s.obsMu.Unlock()
}

// SetClock replaces the time source used to stamp events.
func (s *Switch) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Enable implements Unit.
func (s *Switch) Enable() {
	s.set(true)
}

// Disable implements Unit.
func (s *Switch) Disable() {
	s.set(false)
}

// Enabled implements Unit.
func (s *Switch) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// Status implements Unit.
func (s *Switch) Status() string {
	return statusString(s.Enabled())
}

// set records the new state and then notifies observers outside the lock,
// so an observer may safely call back into the unit.
func (s *Switch) set(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	ev := Event{Unit: s.name, Enabled: enabled, At: s.now().UTC()}
	s.mu.Unlock()

	s.obsMu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.obsMu.RUnlock()

	for _, o := range observers {
		o.OnTransition(ev)
	}
}

func statusString(enabled bool) string {
	if enabled {
		return StatusEnabled
	}
	return StatusDisabled
}
