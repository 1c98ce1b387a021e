// Package gpio provides zone line reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads zone demand line states.
type Reader interface {
	// Read returns the logical state of the line at index i in the
	// configured line table: true means the demand line is active.
	// The raw GPIO level is inverted: raw HIGH means the zone is off.
	Read(i int) (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultChip is the GPIO character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"
