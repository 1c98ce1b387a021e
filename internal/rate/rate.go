// Package rate provides the tick loop's interval gates.
package rate

import "time"

// Gate limits an action to at most once per Interval. The zero last-run
// time makes the first Due call fire immediately.
type Gate struct {
	Interval time.Duration
	last     time.Time
}

// NewGate creates a gate with the given interval. A non-positive interval
// disables the gate entirely.
func NewGate(interval time.Duration) *Gate {
	return &Gate{Interval: interval}
}

// Due reports whether the interval has elapsed since the last firing, and
// records now as the new firing time when it has.
func (g *Gate) Due(now time.Time) bool {
	if g.Interval <= 0 {
		return false
	}
	if !g.last.IsZero() && now.Sub(g.last) < g.Interval {
		return false
	}
	g.last = now
	return true
}
