package mqtt

// FakePublisher records published payloads for test assertions.
type FakePublisher struct {
	// EventPayloads contains the zone event payloads that were published.
	EventPayloads [][]byte

	// Heartbeats contains the published heartbeat sequence numbers.
	Heartbeats []uint64

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishEvent and
	// PublishHeartbeat.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishEvent records the payload.
func (f *FakePublisher) PublishEvent(payload []byte) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	f.EventPayloads = append(f.EventPayloads, cp)
	return nil
}

// PublishHeartbeat records the sequence number.
func (f *FakePublisher) PublishHeartbeat(seq uint64) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Heartbeats = append(f.Heartbeats, seq)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded payloads.
func (f *FakePublisher) Reset() {
	f.EventPayloads = nil
	f.Heartbeats = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}
