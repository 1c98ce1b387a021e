// Package eventlog provides a fixed-capacity, newest-first log of zone
// demand transitions and a bounded JSON encoder for rendering it.
package eventlog

// Event is an immutable record of one zone demand transition.
type Event struct {
	ZoneID int
	Time   int64 // unix seconds
	On     bool
}

// DefaultCapacity is the number of events retained by default. It is sized
// so a full log fits the rendered buffer with room to spare.
const DefaultCapacity = 20

// Log is a fixed-capacity ring holding the most recent events.
// Not safe for concurrent use — the monitor owns it on a single goroutine.
type Log struct {
	buf      []Event
	capacity int
	head     int // next write position
	count    int
}

// New creates an empty log. Capacity values below 1 fall back to
// DefaultCapacity.
func New(capacity int) *Log {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Log{
		buf:      make([]Event, capacity),
		capacity: capacity,
	}
}

// Push inserts ev as the newest entry. When the log is full the oldest
// entry is overwritten; head already points at it.
func (l *Log) Push(ev Event) {
	l.buf[l.head] = ev
	l.head = (l.head + 1) % l.capacity
	if l.count < l.capacity {
		l.count++
	}
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	return l.count
}

// Cap returns the fixed capacity.
func (l *Log) Cap() int {
	return l.capacity
}

// Each calls fn for every retained event, newest first, stopping early if
// fn returns false.
func (l *Log) Each(fn func(Event) bool) {
	for i := 0; i < l.count; i++ {
		idx := (l.head - 1 - i + l.capacity) % l.capacity
		if !fn(l.buf[idx]) {
			return
		}
	}
}
