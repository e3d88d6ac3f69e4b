package citizen

import (
	"sync"
)

// Printer receives operator narration. *console.Narrator satisfies it.
type Printer interface {
	Printf(format string, a ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// User is a registered citizen.
type User struct {
	Username string
}

// NewUser creates a user.
func NewUser(username string) User {
	return User{Username: username}
}

// Patient is an individual seeking healthcare services.
type Patient struct {
	ID   string
	Name string
}

// NewPatient creates a patient record.
func NewPatient(id, name string) Patient {
	return Patient{ID: id, Name: name}
}

// MobileApp is a citizen-facing app. Received alerts are kept in order.
// All methods are thread-safe.
type MobileApp struct {
	name string
	out  Printer

	mu     sync.Mutex
	alerts []string
	issues int
}

// NewMobileApp creates an app. A nil out discards narration.
func NewMobileApp(name string, out Printer) *MobileApp {
	if out == nil {
		out = discard{}
	}
	return &MobileApp{name: name, out: out}
}

// Name returns the app name.
func (a *MobileApp) Name() string { return a.name }

// AccessServices narrates a visit to the city services.
func (a *MobileApp) AccessServices() {
	a.out.Printf("%s accessed city services.", a.name)
}

// ReportIssue narrates an issue report from the app.
func (a *MobileApp) ReportIssue() {
	a.mu.Lock()
	a.issues++
	a.mu.Unlock()
	a.out.Printf("%s reported an issue.", a.name)
}

// ReceiveAlert records and narrates an incoming alert. The alert body
// may be empty.
func (a *MobileApp) ReceiveAlert(alert string) {
	a.mu.Lock()
	a.alerts = append(a.alerts, alert)
	a.mu.Unlock()
	a.out.Printf("%s received an alert.", a.name)
}

// Alerts returns received alerts, oldest first.
func (a *MobileApp) Alerts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.alerts...)
}

// IssuesReported returns how many issues were reported through the app.
func (a *MobileApp) IssuesReported() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.issues
}

// Signage is a public digital display.
type Signage struct {
	out Printer

	mu      sync.Mutex
	current string
}

// NewSignage creates a blank display. A nil out discards narration.
func NewSignage(out Printer) *Signage {
	if out == nil {
		out = discard{}
	}
	return &Signage{out: out}
}

// Display shows message, replacing the previous one.
func (s *Signage) Display(message string) {
	s.mu.Lock()
	s.current = message
	s.mu.Unlock()
	s.out.Printf("Digital Signage: %s", message)
}

// Current returns the message on display.
func (s *Signage) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
