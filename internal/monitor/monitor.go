// Package monitor drives the per-zone debouncers and materializes demand
// transitions as logged and published events.
package monitor

import (
	"log"
	"sort"

	"github.com/sfilipek/heatmon/internal/eventlog"
	"github.com/sfilipek/heatmon/internal/gpio"
	"github.com/sfilipek/heatmon/internal/hyst"
	"github.com/sfilipek/heatmon/internal/mqtt"
)

// BufferSize is the capacity of the rendered JSON buffer, including the
// byte always left for the NUL terminator.
const BufferSize = 620

// ZoneConfig identifies one monitored line: its public ID and its index
// in the GPIO reader's line table.
type ZoneConfig struct {
	ID   int
	Line int
}

// ZoneStatus is a read-only view of one zone for the query surface.
type ZoneStatus struct {
	ID      int
	Demand  hyst.Demand
	Counter int
}

// Snapshot is a point-in-time view of the monitor for external readers.
type Snapshot struct {
	Zones      []ZoneStatus
	EventsJSON string
	Polls      int
	LastPoll   int64
	LastEvent  int64
}

type zone struct {
	id   int
	line int
	deb  *hyst.Debouncer
}

// Monitor owns the zone table, the event log and the rendered buffer.
// All mutation happens on the caller's single poll goroutine; readers go
// through Snapshot copies.
type Monitor struct {
	zones  []zone
	reader gpio.Reader
	pub    mqtt.Publisher

	events      *eventlog.Log
	rendered    []byte
	renderedLen int

	polls     int
	lastPoll  int64
	lastEvent int64
}

// New creates a monitor over the given zones. Zones are polled in
// ascending ID order regardless of the order they are configured in.
func New(zones []ZoneConfig, reader gpio.Reader, pub mqtt.Publisher, logCapacity int) *Monitor {
	zs := make([]zone, len(zones))
	for i, zc := range zones {
		zs[i] = zone{id: zc.ID, line: zc.Line, deb: hyst.NewDebouncer()}
	}
	sort.Slice(zs, func(i, j int) bool { return zs[i].id < zs[j].id })

	m := &Monitor{
		zones:    zs,
		reader:   reader,
		pub:      pub,
		events:   eventlog.New(logCapacity),
		rendered: make([]byte, BufferSize),
	}
	// Start with a rendered "[]" so the query surface never sees an
	// empty buffer.
	m.renderedLen = eventlog.Encode(m.rendered, m.events)
	return m
}

// PollAll samples every zone once, feeding each debouncer and logging and
// publishing any demand transition. A read or publish failure never
// aborts the remaining zones. The aggregate buffer is re-rendered at most
// once per poll, after all zones are processed.
func (m *Monitor) PollAll(now int64) {
	changed := false

	for i := range m.zones {
		z := &m.zones[i]

		active, err := m.reader.Read(z.line)
		if err != nil {
			log.Printf("zone %d: read: %v", z.id, err)
			continue
		}

		prev, cur := z.deb.Observe(active)
		if prev == cur || cur == hyst.Unknown {
			continue
		}

		changed = true
		ev := eventlog.Event{ZoneID: z.id, Time: now, On: cur == hyst.Active}
		m.events.Push(ev)
		m.notify(ev)
	}

	m.lastPoll = now

	// Poll count rolls over to 0 instead of going negative.
	m.polls++
	if m.polls < 0 {
		m.polls = 0
	}

	if changed {
		m.renderedLen = eventlog.Encode(m.rendered, m.events)
		m.lastEvent = now
	}
}

// notify publishes the single-event JSON best-effort. A payload that does
// not fit the scratch buffer is skipped, as is a publish failure.
func (m *Monitor) notify(ev eventlog.Event) {
	var buf [64]byte
	n := eventlog.AppendEvent(buf[:], ev, false)
	if n < 0 {
		return
	}
	if err := m.pub.PublishEvent(buf[:n]); err != nil {
		log.Printf("zone %d: publish event: %v", ev.ZoneID, err)
	}
}

// Snapshot returns a copy of the monitor state for external readers.
func (m *Monitor) Snapshot() Snapshot {
	zs := make([]ZoneStatus, len(m.zones))
	for i := range m.zones {
		z := &m.zones[i]
		zs[i] = ZoneStatus{ID: z.id, Demand: z.deb.Demand(), Counter: z.deb.Counter()}
	}
	return Snapshot{
		Zones:      zs,
		EventsJSON: string(m.rendered[:m.renderedLen]),
		Polls:      m.polls,
		LastPoll:   m.lastPoll,
		LastEvent:  m.lastEvent,
	}
}
