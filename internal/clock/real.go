package clock

import (
	"time"

	"github.com/beevik/ntp"
)

// DefaultServer is the NTP pool queried by Sync.
const DefaultServer = "pool.ntp.org"

// RealClock layers an NTP-derived offset over the system clock. The
// daemon often runs on boards without a battery-backed RTC, so the
// offset is refreshed periodically instead of trusting the system time.
type RealClock struct {
	server string
	offset time.Duration
}

// NewRealClock creates a clock that syncs against the given NTP server.
// An empty server falls back to DefaultServer. The offset is zero until
// the first successful Sync.
func NewRealClock(server string) *RealClock {
	if server == "" {
		server = DefaultServer
	}
	return &RealClock{server: server}
}

// Now returns the corrected time in unix seconds.
func (c *RealClock) Now() int64 {
	return time.Now().Add(c.offset).Unix()
}

// Sync refreshes the NTP offset. On failure the previous offset is kept.
func (c *RealClock) Sync() error {
	resp, err := ntp.Query(c.server)
	if err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return err
	}
	c.offset = resp.ClockOffset
	return nil
}
