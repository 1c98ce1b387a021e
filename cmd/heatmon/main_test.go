package main

import (
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/sfilipek/heatmon/internal/clock"
	"github.com/sfilipek/heatmon/internal/gpio"
	"github.com/sfilipek/heatmon/internal/monitor"
	"github.com/sfilipek/heatmon/internal/mqtt"
	"github.com/sfilipek/heatmon/internal/status"
)

type loopHarness struct {
	reader  *gpio.FakeReader
	pub     *mqtt.FakePublisher
	mon     *monitor.Monitor
	tracker *status.Tracker
	clk     *clock.FakeClock
	tick    chan time.Time
	sig     chan os.Signal
	done    chan error
}

func startLoop(t *testing.T, heartbeat, syncEvery time.Duration) *loopHarness {
	t.Helper()

	h := &loopHarness{
		reader: gpio.NewFakeReader(),
		pub:    mqtt.NewFakePublisher(),
		clk:    &clock.FakeClock{Time: 1414000000},
		tick:   make(chan time.Time),
		sig:    make(chan os.Signal, 1),
		done:   make(chan error, 1),
	}
	h.mon = monitor.New([]monitor.ZoneConfig{{ID: 0, Line: 0}}, h.reader, h.pub, 20)
	h.tracker = status.NewTracker(time.Now(), status.Config{Broker: "tcp://test:1883"})

	wall := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time {
		// Wall time tracks the fake clock so gate intervals line up with
		// the scripted seconds.
		return wall.Add(time.Duration(h.clk.Time-1414000000) * time.Second)
	}

	go func() {
		h.done <- runLoop(h.mon, h.pub, h.pub, h.tracker, h.clk, heartbeat, syncEvery, now, h.tick, h.sig)
	}()
	return h
}

// step delivers one tick and waits for the loop to process it by polling
// the tracker's poll count.
func (h *loopHarness) step(t *testing.T) {
	t.Helper()
	before := h.tracker.Snapshot().Monitor.Polls
	h.tick <- time.Time{}
	deadline := time.After(2 * time.Second)
	for {
		if h.tracker.Snapshot().Monitor.Polls > before {
			return
		}
		select {
		case <-deadline:
			t.Fatal("loop did not process tick")
		case <-time.After(time.Millisecond):
		}
	}
}

func (h *loopHarness) shutdown(t *testing.T, sig os.Signal) {
	t.Helper()
	h.sig <- sig
	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("runLoop returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not shut down")
	}
}

func TestRunLoopPollsEachTick(t *testing.T) {
	h := startLoop(t, 0, 0)

	for i := 0; i < 3; i++ {
		h.step(t)
	}
	h.shutdown(t, syscall.SIGTERM)

	if polls := h.tracker.Snapshot().Monitor.Polls; polls != 3 {
		t.Errorf("expected 3 polls, got %d", polls)
	}
}

func TestRunLoopPublishesTransition(t *testing.T) {
	h := startLoop(t, 0, 0)

	h.reader.Set(0, true)
	for i := 0; i < 31; i++ {
		h.step(t)
	}
	h.shutdown(t, syscall.SIGTERM)

	if len(h.pub.EventPayloads) != 1 {
		t.Fatalf("expected 1 zone event, got %d", len(h.pub.EventPayloads))
	}
	want := `{"id":0,"t":1414000000,"on":1}`
	if got := string(h.pub.EventPayloads[0]); got != want {
		t.Errorf("payload: got %q, want %q", got, want)
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	h := startLoop(t, 2*time.Second, 0)

	// First tick fires the heartbeat immediately; each scripted second
	// advances both clocks together.
	for i := 0; i < 5; i++ {
		h.step(t)
		h.clk.Advance(1)
	}
	h.shutdown(t, syscall.SIGTERM)

	// Heartbeats at t=0, t=2, t=4 with increasing sequence numbers.
	if len(h.pub.Heartbeats) != 3 {
		t.Fatalf("expected 3 heartbeats, got %d: %v", len(h.pub.Heartbeats), h.pub.Heartbeats)
	}
	for i, seq := range h.pub.Heartbeats {
		if seq != uint64(i) {
			t.Errorf("heartbeat %d: expected seq %d, got %d", i, i, seq)
		}
	}
}

func TestRunLoopClockSync(t *testing.T) {
	h := startLoop(t, 0, 3*time.Second)

	for i := 0; i < 7; i++ {
		h.step(t)
		h.clk.Advance(1)
	}
	h.shutdown(t, syscall.SIGTERM)

	// Syncs at t=0, t=3, t=6.
	if h.clk.Syncs != 3 {
		t.Errorf("expected 3 syncs, got %d", h.clk.Syncs)
	}
}

func TestRunLoopShutdownEvent(t *testing.T) {
	h := startLoop(t, 0, 0)
	h.step(t)
	h.shutdown(t, syscall.SIGINT)

	if len(h.pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(h.pub.SystemEvents))
	}
	ev := h.pub.SystemEvents[0]
	if ev.Event != "SHUTDOWN" {
		t.Errorf("event: got %s", ev.Event)
	}
	if ev.Reason != "SIGINT" {
		t.Errorf("reason: got %s", ev.Reason)
	}
	if !ev.Retained {
		t.Error("shutdown event should be retained")
	}
	if ev.RawPayload == nil {
		t.Error("shutdown event should carry a status snapshot")
	}
}

func TestRunLoopSurvivesPublishFailures(t *testing.T) {
	h := startLoop(t, time.Second, 0)
	h.pub.PublishError = errors.New("broker down")

	h.reader.Set(0, true)
	for i := 0; i < 40; i++ {
		h.step(t)
	}
	h.shutdown(t, syscall.SIGTERM)

	// The transition still reached the log even though publishing failed.
	snap := h.tracker.Snapshot()
	if snap.Monitor.EventsJSON == "[]" {
		t.Error("expected logged event despite publish failures")
	}
	if snap.Monitor.Polls != 40 {
		t.Errorf("expected 40 polls, got %d", snap.Monitor.Polls)
	}
}

func TestResolveWSBroker(t *testing.T) {
	tests := []struct {
		ws, broker, want string
	}{
		{"off", "tcp://192.168.1.200:1883", ""},
		{"=broker", "tcp://192.168.1.200:1883", "ws://192.168.1.200:9001"},
		{"ws://other:9001", "tcp://192.168.1.200:1883", "ws://other:9001"},
	}
	for _, tt := range tests {
		if got := resolveWSBroker(tt.ws, tt.broker); got != tt.want {
			t.Errorf("resolveWSBroker(%q, %q) = %q, want %q", tt.ws, tt.broker, got, tt.want)
		}
	}
}

func TestStateString(t *testing.T) {
	if stateString(true) != "ON" || stateString(false) != "OFF" {
		t.Error("unexpected state strings")
	}
}
