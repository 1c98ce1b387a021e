// Package config loads the daemon configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration lets the YAML file use Go duration syntax ("10ms", "12h").
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Zone maps a zone ID to its BCM pin.
type Zone struct {
	ID  int `yaml:"id"`
	Pin int `yaml:"pin"`
}

// Config is the daemon configuration.
type Config struct {
	Chip        string   `yaml:"chip"`
	Zones       []Zone   `yaml:"zones"`
	Broker      string   `yaml:"broker"`
	HTTPAddr    string   `yaml:"http"`
	NTPServer   string   `yaml:"ntp_server"`
	Poll        Duration `yaml:"poll"`
	Heartbeat   Duration `yaml:"heartbeat"`
	Sync        Duration `yaml:"sync"`
	LogCapacity int      `yaml:"log_capacity"`
}

// Default returns the configuration matching the original three-zone
// installation: demand lines on pins 4-6, 10ms polling, one-minute
// heartbeat, twice-daily time sync.
func Default() Config {
	return Config{
		Chip:        "gpiochip0",
		Zones:       []Zone{{ID: 0, Pin: 4}, {ID: 1, Pin: 5}, {ID: 2, Pin: 6}},
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":80",
		NTPServer:   "pool.ntp.org",
		Poll:        Duration(10 * time.Millisecond),
		Heartbeat:   Duration(time.Minute),
		Sync:        Duration(12 * time.Hour),
		LogCapacity: 20,
	}
}

// Load reads path over the defaults. An empty path returns the defaults
// unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the zone table and intervals.
func (c *Config) Validate() error {
	if len(c.Zones) == 0 {
		return fmt.Errorf("config: no zones defined")
	}
	seen := make(map[int]bool)
	for _, z := range c.Zones {
		if z.ID < 0 {
			return fmt.Errorf("config: zone id %d is negative", z.ID)
		}
		if seen[z.ID] {
			return fmt.Errorf("config: duplicate zone id %d", z.ID)
		}
		seen[z.ID] = true
	}
	if c.Poll <= 0 {
		return fmt.Errorf("config: poll interval must be positive")
	}
	if c.LogCapacity <= 0 {
		return fmt.Errorf("config: log capacity must be positive")
	}
	return nil
}

// Pins returns the BCM pin for each zone, in zone table order.
func (c *Config) Pins() []int {
	pins := make([]int, len(c.Zones))
	for i, z := range c.Zones {
		pins[i] = z.Pin
	}
	return pins
}
