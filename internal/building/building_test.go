package building

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type lines []string

func (l *lines) Printf(format string, a ...any) {
	*l = append(*l, fmt.Sprintf(format, a...))
}

func TestBuilding_Defaults(t *testing.T) {
	b := New(nil)
	if diff := cmp.Diff(Status{}, b.Status()); diff != "" {
		t.Errorf("Status() mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := b.Report(&buf); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	want := "Smart Building Status:\nLights: Off\nClimate Control: Off\nSecurity System: Disarmed\n"
	if buf.String() != want {
		t.Errorf("Report() = %q, want %q", buf.String(), want)
	}
}

func TestBuilding_Sequence(t *testing.T) {
	var out lines
	b := New(&out)

	b.LightsOn()
	b.ClimateControlOn()
	b.ArmSecurity()
	b.ArmSecurity() // no-op

	if diff := cmp.Diff(Status{Lights: true, ClimateControl: true, SecurityArmed: true}, b.Status()); diff != "" {
		t.Errorf("Status() mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := b.Report(&buf); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	want := "Smart Building Status:\nLights: On\nClimate Control: On\nSecurity System: Armed\n"
	if buf.String() != want {
		t.Errorf("Report() = %q, want %q", buf.String(), want)
	}

	b.LightsOff()
	b.ClimateControlOff()
	b.DisarmSecurity()

	wantLines := lines{
		"Lights turned on.",
		"Climate control turned on.",
		"Security system armed.",
		"Lights turned off.",
		"Climate control turned off.",
		"Security system disarmed.",
	}
	if diff := cmp.Diff(wantLines, out); diff != "" {
		t.Errorf("narration mismatch (-want +got):\n%s", diff)
	}
}
