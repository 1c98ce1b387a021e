// Package hyst contains pure debounce logic for zone demand lines.
// This package has NO external dependencies (no GPIO, MQTT, OS, or clocks).
package hyst

// Demand represents the debounced state of a zone demand line.
type Demand int

const (
	Unknown Demand = iota
	Active
	Inactive
)

// String returns the display name of the demand state.
func (d Demand) String() string {
	switch d {
	case Active:
		return "ACTIVE"
	case Inactive:
		return "INACTIVE"
	default:
		return "UNKNOWN"
	}
}

// Hysteresis tuning. The line carries a 60Hz-ish waveform while the zone
// demand is on, so a single raw sample is meaningless. Active samples
// accumulate faster than one inactive sample decays them, and the wide gap
// between the two thresholds keeps the output from oscillating.
const (
	Min       = 0
	Max       = 500
	ThreshOn  = 400
	ThreshOff = 100

	IncStep = 5
	DecStep = 1
)

// Debouncer converts noisy per-tick samples of one line into a stable
// demand value. The counter starts at the midpoint so the demand stays
// Unknown until a threshold is crossed for the first time.
type Debouncer struct {
	counter int
	demand  Demand
}

// NewDebouncer creates a debouncer in the Unknown state.
func NewDebouncer() *Debouncer {
	return &Debouncer{counter: Max / 2}
}

// Observe feeds one raw sample into the counter and returns the demand
// held before and after the observation, so the caller can detect a
// transition without re-deriving it. The counter is clamped to [Min, Max]
// before it is compared against a threshold; between the thresholds the
// demand is left unchanged.
func (d *Debouncer) Observe(active bool) (prev, cur Demand) {
	prev = d.demand

	if active {
		d.counter += IncStep
		if d.counter > Max {
			d.counter = Max
		}
		if d.counter > ThreshOn {
			d.demand = Active
		}
	} else {
		d.counter -= DecStep
		if d.counter < Min {
			d.counter = Min
		}
		if d.counter < ThreshOff {
			d.demand = Inactive
		}
	}

	return prev, d.demand
}

// Counter returns the current hysteresis counter value.
func (d *Debouncer) Counter() int {
	return d.counter
}

// Demand returns the current stable demand value.
func (d *Debouncer) Demand() Demand {
	return d.demand
}
