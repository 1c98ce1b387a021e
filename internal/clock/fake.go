package clock

// FakeClock is a settable clock for tests.
type FakeClock struct {
	// Time is the value returned by Now.
	Time int64

	// Syncs counts Sync calls.
	Syncs int

	// SyncError, if set, will be returned by Sync.
	SyncError error
}

// Now returns the configured time.
func (c *FakeClock) Now() int64 {
	return c.Time
}

// Advance moves the clock forward by d seconds.
func (c *FakeClock) Advance(d int64) {
	c.Time += d
}

// Sync records the call.
func (c *FakeClock) Sync() error {
	c.Syncs++
	return c.SyncError
}
