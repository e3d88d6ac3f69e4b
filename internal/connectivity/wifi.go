// Package connectivity models city-wide public Wi-Fi.
package connectivity

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/nerrad567/smartcity-core/internal/lifecycle"
)

// UnitName is the lifecycle name of the Wi-Fi system.
const UnitName = "PublicWiFiSystem"

var (
	// ErrDisabled is returned when joining while the network is off.
	ErrDisabled = errors.New("connectivity: public wifi disabled")

	// ErrEmptyDevice is returned for a blank device identifier.
	ErrEmptyDevice = errors.New("connectivity: device id is required")
)

// PublicWiFi is the city's public hotspot network. Devices may join only
// while it is enabled; disabling drops every session.
type PublicWiFi struct {
	*lifecycle.Switch

	mu       sync.Mutex
	sessions map[string]struct{}
}

// NewPublicWiFi creates a disabled network with no sessions.
func NewPublicWiFi(observers ...lifecycle.Observer) *PublicWiFi {
	w := &PublicWiFi{
		Switch:   lifecycle.NewSwitch(UnitName, observers...),
		sessions: make(map[string]struct{}),
	}
	return w
}

// Disable switches the network off and drops all sessions.
//
// The state flips before the sessions are cleared under mu, so a Join
// racing with Disable either lands before the clear or sees the network
// disabled. Observers are notified before the clear.
func (w *PublicWiFi) Disable() {
	w.Switch.Disable()
	w.mu.Lock()
	clear(w.sessions)
	w.mu.Unlock()
}

// Join admits a device. Joining twice is a no-op.
func (w *PublicWiFi) Join(deviceID string) error {
	if deviceID == "" {
		return ErrEmptyDevice
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.Enabled() {
		return fmt.Errorf("%w: %s", ErrDisabled, deviceID)
	}
	w.sessions[deviceID] = struct{}{}
	return nil
}

// Leave removes a device and reports whether it was connected.
func (w *PublicWiFi) Leave(deviceID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.sessions[deviceID]
	delete(w.sessions, deviceID)
	return ok
}

// Devices returns connected device ids in ascending order.
func (w *PublicWiFi) Devices() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, 0, len(w.sessions))
	for id := range w.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Report writes "PublicWiFiSystem Status: Enabled|Disabled".
func (w *PublicWiFi) Report(out io.Writer) error {
	_, err := fmt.Fprintf(out, "%s Status: %s\n", w.Name(), w.Status())
	return err
}
