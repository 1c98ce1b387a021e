package gpio

// FakeReader is a test double returning manually set line levels.
type FakeReader struct {
	levels map[int]bool

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, will be returned by every Read.
	ReadError error

	// Reads counts Read calls.
	Reads int
}

// NewFakeReader creates a FakeReader with all lines inactive.
func NewFakeReader() *FakeReader {
	return &FakeReader{levels: make(map[int]bool)}
}

// Set forces the logical state of one line.
func (f *FakeReader) Set(i int, active bool) {
	f.levels[i] = active
}

// Read returns the configured state of line i. Unset lines read inactive.
func (f *FakeReader) Read(i int) (bool, error) {
	f.Reads++
	if f.ReadError != nil {
		return false, f.ReadError
	}
	return f.levels[i], nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset clears all line states and bookkeeping.
func (f *FakeReader) Reset() {
	f.levels = make(map[int]bool)
	f.Closed = false
	f.ReadError = nil
	f.Reads = 0
}
