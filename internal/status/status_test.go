package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sfilipek/heatmon/internal/hyst"
	"github.com/sfilipek/heatmon/internal/monitor"
)

func testMonitorSnapshot() monitor.Snapshot {
	return monitor.Snapshot{
		Zones: []monitor.ZoneStatus{
			{ID: 0, Demand: hyst.Active, Counter: 455},
			{ID: 1, Demand: hyst.Inactive, Counter: 12},
			{ID: 2, Demand: hyst.Unknown, Counter: 250},
		},
		EventsJSON: `[{"id":0,"t":1414000050,"on":1}]`,
		Polls:      1234,
		LastPoll:   1414000051,
		LastEvent:  1414000050,
	}
}

func testConfig() Config {
	return Config{
		PollMs:      10,
		HeartbeatMs: 60000,
		SyncMs:      43200000,
		Broker:      "tcp://broker:1883",
		HTTPAddr:    ":80",
		Chip:        "gpiochip0",
	}
}

func TestTrackerSnapshotIsolation(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	tr.Update(testMonitorSnapshot())
	snap := tr.Snapshot()

	tr.Update(monitor.Snapshot{EventsJSON: "[]"})
	if len(snap.Monitor.Zones) != 3 {
		t.Error("snapshot should not be affected by later updates")
	}
	if !snap.StartTime.Equal(start) {
		t.Errorf("start time: got %v", snap.StartTime)
	}
	if snap.Now.IsZero() {
		t.Error("Now should be filled in by Snapshot")
	}
}

func TestTrackerMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	if tr.Snapshot().MQTTConnected {
		t.Error("should start disconnected")
	}
	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected connected after SetMQTTConnected(true)")
	}
}

func TestFormatJSON(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), testConfig())
	tr.Update(testMonitorSnapshot())
	tr.SetMQTTConnected(true)

	data := FormatJSON(tr.Snapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Event != "" || s.Reason != "" {
		t.Error("web status should carry no event/reason")
	}
	if len(s.Zones) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(s.Zones))
	}
	if s.Zones[0].Demand != "ACTIVE" || s.Zones[1].Demand != "INACTIVE" || s.Zones[2].Demand != "UNKNOWN" {
		t.Errorf("zone demands: %+v", s.Zones)
	}
	if s.Zones[0].Counter != 455 {
		t.Errorf("zone 0 counter: got %d", s.Zones[0].Counter)
	}
	if s.Polls != 1234 || s.LastPoll != 1414000051 || s.LastEvent != 1414000050 {
		t.Errorf("counters: %+v", s)
	}
	if !s.MQTT.Connected || s.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("mqtt: %+v", s.MQTT)
	}

	// The embedded events array is the monitor's render, verbatim.
	var events []map[string]int64
	if err := json.Unmarshal(s.Events, &events); err != nil {
		t.Fatalf("events not valid JSON: %v", err)
	}
	if len(events) != 1 || events[0]["id"] != 0 {
		t.Errorf("events: %v", events)
	}
}

func TestFormatJSONEmptyMonitor(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())

	// Before the first Update the render string is empty; the formatter
	// must still emit a valid array.
	data := FormatJSON(tr.Snapshot())
	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if string(parsed.Status.Events) != "[]" {
		t.Errorf("events: got %s", parsed.Status.Events)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	tr.Update(testMonitorSnapshot())

	data := FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("event: got %s", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("reason: got %s", parsed.Status.Reason)
	}
}

func TestUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{StartTime: start, Now: start.Add(90 * time.Second)}
	if snap.Uptime() != 90*time.Second {
		t.Errorf("uptime: got %v", snap.Uptime())
	}
}
