// Package console writes the operator narration of the simulation.
//
// Narration is plain text, one line per event, so it can be asserted on in
// tests. Colour is opt-in and only ever wraps the status words.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/nerrad567/smartcity-core/internal/lifecycle"
)

// Narrator serialises human-readable lines onto a writer.
type Narrator struct {
	mu sync.Mutex
	w  io.Writer

	ok   *color.Color
	off  *color.Color
	fail *color.Color
}

// New creates a Narrator writing to w.
// When colorize is false the output never contains escape sequences,
// regardless of terminal detection.
func New(w io.Writer, colorize bool) *Narrator {
	n := &Narrator{
		w:    w,
		ok:   color.New(color.FgGreen),
		off:  color.New(color.FgYellow),
		fail: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{n.ok, n.off, n.fail} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return n
}

// Println writes one line.
func (n *Narrator) Println(a ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, a...) //nolint:errcheck // narration is best effort
}

// Printf writes one formatted line; a trailing newline is added.
func (n *Narrator) Printf(format string, a ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, format+"\n", a...) //nolint:errcheck // narration is best effort
}

// Write implements io.Writer so multi-line reports can be written through
// the narrator without interleaving with other narration.
func (n *Narrator) Write(p []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.w.Write(p)
}

// Status renders a lifecycle status word, coloured when enabled.
func (n *Narrator) Status(status string) string {
	if status == lifecycle.StatusEnabled {
		return n.ok.Sprint(status)
	}
	return n.off.Sprint(status)
}

// Failure renders a failure fragment, coloured when enabled.
func (n *Narrator) Failure(s string) string {
	return n.fail.Sprint(s)
}

// OnTransition implements lifecycle.Observer: "SmartGrid enabled."
func (n *Narrator) OnTransition(ev lifecycle.Event) {
	word := "disabled"
	if ev.Enabled {
		word = "enabled"
	}
	n.Printf("%s %s.", ev.Unit, word)
}

// ReportStatus writes "<unit> Status: <Enabled|Disabled>".
func (n *Narrator) ReportStatus(u lifecycle.Unit) {
	n.Printf("%s Status: %s", u.Name(), n.Status(u.Status()))
}
