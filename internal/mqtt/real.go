package mqtt

import (
	"fmt"
	"strconv"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
}

// NewRealPublisher creates a publisher connected to the given broker.
// The client ID carries a random suffix so two monitors on one broker
// don't kick each other off.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("heatmon-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{client: client}, nil
}

// PublishEvent sends a zone transition payload to the events topic.
// QoS 0 (at-most-once): the aggregate log is the authoritative record and
// a dropped notification is acceptable.
func (p *RealPublisher) PublishEvent(payload []byte) error {
	token := p.client.Publish(TopicEvents, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishHeartbeat sends the monotonically increasing heartbeat value.
func (p *RealPublisher) PublishHeartbeat(seq uint64) error {
	token := p.client.Publish(TopicHeartbeat, 0, false, strconv.FormatUint(seq, 10))
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("heartbeat timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
// QoS 1 (at-least-once): startup and shutdown should reach the broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// IsConnected reports whether the client currently has a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
