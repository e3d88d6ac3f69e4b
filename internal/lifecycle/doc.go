// Package lifecycle provides the enable/disable contract shared by every
// Smart City subsystem.
//
// A Unit starts disabled. Enable and Disable always succeed, are
// idempotent, and notify every registered Observer with the unit's name
// and new state. Status renders the current state as "Enabled" or
// "Disabled" and has no side effects.
//
// Concrete subsystems embed *Switch rather than re-implementing the
// bookkeeping:
//
//	type Grid struct {
//	    *lifecycle.Switch
//	    ...
//	}
//
//	g := &Grid{Switch: lifecycle.NewSwitch("SmartGrid", narrator)}
//	g.Enable()               // narrator prints "SmartGrid enabled."
//	fmt.Println(g.Status())  // "Enabled"
//
// # Thread Safety
//
// Switch is safe for concurrent use. Observers are invoked after the
// state lock is released, in registration order, on the caller's
// goroutine.
package lifecycle
