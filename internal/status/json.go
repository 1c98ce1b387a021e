package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string          `json:"event,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	Zones         []ZoneJSON      `json:"zones"`
	Events        json.RawMessage `json:"events"`
	Polls         int             `json:"polls"`
	LastPoll      int64           `json:"last_poll"`
	LastEvent     int64           `json:"last_event"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	StartTime     string          `json:"start_time"`
	Timestamp     string          `json:"timestamp"`
	MQTT          MQTTStatus      `json:"mqtt"`
	Config        ConfigJSON      `json:"config"`
}

// ZoneJSON is the JSON representation of one zone's live state.
type ZoneJSON struct {
	ID      int    `json:"id"`
	Demand  string `json:"demand"`
	Counter int    `json:"counter"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	SyncMs      int64  `json:"sync_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Chip        string `json:"chip"`
	WSBroker    string `json:"ws_broker,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	zones := make([]ZoneJSON, len(snap.Monitor.Zones))
	for i, z := range snap.Monitor.Zones {
		zones[i] = ZoneJSON{ID: z.ID, Demand: z.Demand.String(), Counter: z.Counter}
	}

	events := snap.Monitor.EventsJSON
	if events == "" {
		events = "[]"
	}

	return StatusInner{
		Zones:         zones,
		Events:        json.RawMessage(events),
		Polls:         snap.Monitor.Polls,
		LastPoll:      snap.Monitor.LastPoll,
		LastEvent:     snap.Monitor.LastEvent,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			SyncMs:      snap.Config.SyncMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Chip:        snap.Config.Chip,
			WSBroker:    snap.Config.WSBroker,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
