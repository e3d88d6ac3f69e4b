package civic

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/nerrad567/smartcity-core/internal/citizen"
)

// Printer receives operator narration. *console.Narrator satisfies it.
type Printer interface {
	Printf(format string, a ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// Logger is the structured logger used to flag odd requests and entries.
// *logging.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DefaultServices seed every new EGovernment directory, in display order.
var DefaultServices = []string{
	"Pay Taxes",
	"Renew Driver's License",
	"Apply for Building Permits",
}

// Request is a processed service request.
type Request struct {
	ID          uuid.UUID
	Username    string
	Service     string
	RequestedAt time.Time
}

// EGovernment is the online service directory.
// All methods are safe for concurrent use.
type EGovernment struct {
	out   Printer
	clock clock.Clock

	mu       sync.RWMutex
	services []string
	requests []Request
	logger   Logger
}

// EGovOption configures an EGovernment.
type EGovOption func(*EGovernment)

// WithEGovClock sets the clock used to stamp requests.
func WithEGovClock(c clock.Clock) EGovOption {
	return func(e *EGovernment) {
		if c != nil {
			e.clock = c
		}
	}
}

// NewEGovernment creates a directory seeded with DefaultServices.
// A nil out discards narration.
func NewEGovernment(out Printer, opts ...EGovOption) *EGovernment {
	if out == nil {
		out = discard{}
	}
	e := &EGovernment{
		out:      out,
		clock:    clock.New(),
		services: slices.Clone(DefaultServices),
		logger:   noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddService appends a service. Blank or duplicate names are ignored and
// reported as false.
func (e *EGovernment) AddService(name string) bool {
	if name == "" {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if slices.Contains(e.services, name) {
		return false
	}
	e.services = append(e.services, name)
	return true
}

// Services returns the directory in display order.
func (e *EGovernment) Services() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.services)
}

// DisplayServices writes the directory as a bulleted list.
func (e *EGovernment) DisplayServices(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Available Government Services:"); err != nil {
		return err
	}
	for _, s := range e.Services() {
		if _, err := fmt.Fprintf(w, "- %s\n", s); err != nil {
			return err
		}
	}
	return nil
}

// SetLogger sets the logger for odd requests. A nil logger silences
// them.
func (e *EGovernment) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	e.mu.Lock()
	e.logger = logger
	e.mu.Unlock()
}

// ProcessRequest records a request by user for service and narrates it.
// Every request is processed. An anonymous user or a service missing from
// the directory is logged at Warn.
//
// Parameters:
//   - user: Requesting citizen
//   - service: Directory name, matched exactly
//
// Returns:
//   - Request: The recorded request with a fresh ID
func (e *EGovernment) ProcessRequest(user citizen.User, service string) Request {
	req := Request{
		ID:          uuid.New(),
		Username:    user.Username,
		Service:     service,
		RequestedAt: e.clock.Now().UTC(),
	}

	e.mu.Lock()
	listed := slices.Contains(e.services, service)
	e.requests = append(e.requests, req)
	log := e.logger
	e.mu.Unlock()

	if user.Username == "" {
		log.Warn("service request without username", "service", service, "request_id", req.ID.String())
	}
	if !listed {
		log.Warn("service not in directory", "service", service, "request_id", req.ID.String())
	}

	e.out.Printf("%s requested service: %s", user.Username, service)
	e.out.Printf("Service request processed successfully.")
	return req
}

// Requests returns processed requests, oldest first.
func (e *EGovernment) Requests() []Request {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.requests)
}
