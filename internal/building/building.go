// Package building controls a single smart building: lighting, climate
// control and the security system.
package building

import (
	"fmt"
	"io"
	"sync"
)

// Printer receives operator narration. *console.Narrator satisfies it.
type Printer interface {
	Printf(format string, a ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// Status is a snapshot of the building's subsystems.
type Status struct {
	Lights         bool
	ClimateControl bool
	SecurityArmed  bool
}

// Building is a smart building. Every subsystem starts off and disarmed.
// Switching a subsystem to the state it is already in is a no-op and is
// not narrated.
type Building struct {
	out Printer

	mu     sync.Mutex
	status Status
}

// New creates a building with everything off. A nil out discards
// narration.
func New(out Printer) *Building {
	if out == nil {
		out = discard{}
	}
	return &Building{out: out}
}

// LightsOn turns the lights on.
func (b *Building) LightsOn() { b.set(&b.status.Lights, true, "Lights turned on.") }

// LightsOff turns the lights off.
func (b *Building) LightsOff() { b.set(&b.status.Lights, false, "Lights turned off.") }

// ClimateControlOn starts heating and cooling.
func (b *Building) ClimateControlOn() {
	b.set(&b.status.ClimateControl, true, "Climate control turned on.")
}

// ClimateControlOff stops heating and cooling.
func (b *Building) ClimateControlOff() {
	b.set(&b.status.ClimateControl, false, "Climate control turned off.")
}

// ArmSecurity arms the security system.
func (b *Building) ArmSecurity() {
	b.set(&b.status.SecurityArmed, true, "Security system armed.")
}

// DisarmSecurity disarms the security system.
func (b *Building) DisarmSecurity() {
	b.set(&b.status.SecurityArmed, false, "Security system disarmed.")
}

func (b *Building) set(field *bool, v bool, msg string) {
	b.mu.Lock()
	changed := *field != v
	*field = v
	b.mu.Unlock()
	if changed {
		b.out.Printf("%s", msg)
	}
}

// Status returns the current subsystem states.
func (b *Building) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Report writes the building status block.
func (b *Building) Report(w io.Writer) error {
	s := b.Status()
	_, err := fmt.Fprintf(w,
		"Smart Building Status:\nLights: %s\nClimate Control: %s\nSecurity System: %s\n",
		onOff(s.Lights), onOff(s.ClimateControl), armed(s.SecurityArmed),
	)
	return err
}

func onOff(v bool) string {
	if v {
		return "On"
	}
	return "Off"
}

func armed(v bool) string {
	if v {
		return "Armed"
	}
	return "Disarmed"
}
