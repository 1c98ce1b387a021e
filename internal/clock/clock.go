// Package clock supplies the monitor's notion of wall time and its
// periodic network resync.
package clock

// Clock provides unix-second timestamps, non-decreasing between calls
// within a session. Sync may step the reported time after a successful
// network query.
type Clock interface {
	Now() int64
	Sync() error
}
