package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/smartcity-core/internal/infrastructure/database"
	"github.com/nerrad567/smartcity-core/internal/sensor"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func runWithConfig(t *testing.T, path string) (string, error) {
	t.Helper()
	t.Setenv("SMARTCITY_CONFIG", path)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var stdout bytes.Buffer
	err := run(ctx, &stdout)
	return stdout.String(), err
}

// TestRun_DefaultsWithoutConfigFile runs with no config file at all.
func TestRun_DefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("SMARTCITY_CONFIG", "")
	t.Setenv("SMARTCITY_MONITORING_SEED", "7")

	var stdout bytes.Buffer
	if err := run(context.Background(), &stdout); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{
		"MonitoringSystem enabled.\nCurrent Sensor Measurements:\nAirQualitySensor: ",
		"SmartGrid Status: Enabled\n",
		"JohnDoe requested service: Pay Taxes\n",
		"Security System: Armed\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("narration missing %q", want)
		}
	}
}

// TestRun_MissingExplicitConfig verifies an explicit path must exist.
func TestRun_MissingExplicitConfig(t *testing.T) {
	if _, err := runWithConfig(t, "/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("run() should fail with a missing explicit config path")
	}
}

// TestRun_InvalidConfig verifies validation failures stop the run.
func TestRun_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
site:
  id: "test-city"
monitoring:
  reading_min: 50
  reading_max: 10
`)
	out, err := runWithConfig(t, path)
	if err == nil {
		t.Fatal("run() should fail with an inverted reading range")
	}
	if out != "" {
		t.Errorf("narration before config failure = %q, want none", out)
	}
}

// TestRun_ConfiguredSensorsAndJournal verifies extra sensors are swept and
// the journal records the sweep and the community entries.
func TestRun_ConfiguredSensorsAndJournal(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "data", "smartcity.db")
	path := writeConfig(t, `
site:
  id: "test-city"
monitoring:
  reading_min: 10
  reading_max: 20
  seed: 3
  sensors:
    - id: "HarbourAirSensor"
      kind: "air_quality"
database:
  enabled: true
  path: "`+journal+`"
  busy_timeout: 1
logging:
  level: "error"
  output: "stderr"
`)

	out, err := runWithConfig(t, path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, "HarbourAirSensor: ") {
		t.Errorf("narration missing configured sensor:\n%s", out)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Path: journal, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("reopening journal: %v", err)
	}
	defer db.Close()

	repo := sensor.NewSQLiteHistoryRepository(db.DB)
	for _, id := range []string{"AirQualitySensor", "HarbourAirSensor", "NoiseLevelSensor"} {
		entries, err := repo.GetHistory(ctx, id, 10)
		if err != nil {
			t.Fatalf("GetHistory(%s) error = %v", id, err)
		}
		if len(entries) != 1 || entries[0].Value == nil {
			t.Errorf("GetHistory(%s) = %+v, want one reading", id, entries)
			continue
		}
		if v := *entries[0].Value; v < 10 || v >= 20 {
			t.Errorf("%s reading = %v, want within [10, 20)", id, v)
		}
	}

	var community int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM community_entries").Scan(&community); err != nil {
		t.Fatalf("counting community entries: %v", err)
	}
	if community != 2 {
		t.Errorf("community entries = %d, want 2", community)
	}
}

// TestRun_UnreachableBrokerIsSkipped verifies a dead MQTT broker does not
// fail the run.
func TestRun_UnreachableBrokerIsSkipped(t *testing.T) {
	path := writeConfig(t, `
site:
  id: "test-city"
mqtt:
  enabled: true
  broker:
    host: "127.0.0.1"
    port: 1
    client_id: "smartcity-test"
logging:
  level: "error"
`)

	out, err := runWithConfig(t, path)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, "Smart Building Status:") {
		t.Error("scenario did not complete")
	}
}

// TestRun_JournalAcrossRuns verifies a persistent journal does not leak
// earlier runs into the narration.
func TestRun_JournalAcrossRuns(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "journal.db")
	path := writeConfig(t, `
site:
  id: "test-city"
monitoring:
  seed: 3
database:
  enabled: true
  path: "`+journal+`"
  busy_timeout: 1
logging:
  level: "error"
  output: "discard"
`)

	first, err := runWithConfig(t, path)
	if err != nil {
		t.Fatalf("first run() error = %v", err)
	}
	second, err := runWithConfig(t, path)
	if err != nil {
		t.Fatalf("second run() error = %v", err)
	}
	if first != second {
		t.Errorf("narration differs between runs:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
	if n := strings.Count(second, "Feedback: JohnDoe: Great city services!"); n != 1 {
		t.Errorf("second run reports feedback %d times, want 1", n)
	}

	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Path: journal, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("reopening journal: %v", err)
	}
	defer db.Close()

	var rows, runs int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*), COUNT(DISTINCT run_id) FROM community_entries").Scan(&rows, &runs); err != nil {
		t.Fatalf("counting community entries: %v", err)
	}
	if rows != 4 || runs != 2 {
		t.Errorf("community entries = %d over %d runs, want 4 over 2", rows, runs)
	}
}

type fakeClient struct {
	err    error
	closed bool
}

func (f *fakeClient) HealthCheck(context.Context) error { return f.err }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

// TestHealthy verifies an unhealthy client is closed and reported.
func TestHealthy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantClosed bool
	}{
		{name: "healthy", err: nil, wantClosed: false},
		{name: "unhealthy", err: errors.New("server not healthy"), wantClosed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeClient{err: tt.err}
			if err := healthy(context.Background(), c); !errors.Is(err, tt.err) {
				t.Errorf("healthy() error = %v, want %v", err, tt.err)
			}
			if c.closed != tt.wantClosed {
				t.Errorf("closed = %v, want %v", c.closed, tt.wantClosed)
			}
		})
	}
}
