//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads zone lines from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines []*gpiocdev.Line
}

// NewRealReader requests the given BCM pins as inputs on the named chip.
// The line at index i of the returned reader corresponds to pins[i].
func NewRealReader(chip string, pins []int) (*RealReader, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}

	r := &RealReader{chip: c}
	for _, pin := range pins {
		// Pull-down to match Pi boot defaults. This ensures consistent
		// behavior with external optocoupler modules.
		line, err := c.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request pin %d: %w", pin, err)
		}
		r.lines = append(r.lines, line)
	}

	return r, nil
}

// Read returns whether the demand line at index i is active.
// Inverts the raw level: raw active (1) = zone off, raw inactive (0) = zone on.
func (r *RealReader) Read(i int) (bool, error) {
	if i < 0 || i >= len(r.lines) {
		return false, fmt.Errorf("no line at index %d", i)
	}

	v, err := r.lines[i].Value()
	if err != nil {
		return false, fmt.Errorf("read line %d: %w", i, err)
	}

	return v == 0, nil
}

// Close releases GPIO resources.
// Reconfigures every line to input with pull-down (matching Pi boot
// defaults) before closing to ensure clean state for system shutdown.
func (r *RealReader) Close() error {
	var errs []error

	for i, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line %d: %w", i, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line %d: %w", i, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
