// Command heatmon polls zone demand lines over GPIO, debounces them and
// publishes demand transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sfilipek/heatmon/internal/clock"
	"github.com/sfilipek/heatmon/internal/config"
	"github.com/sfilipek/heatmon/internal/gpio"
	"github.com/sfilipek/heatmon/internal/monitor"
	"github.com/sfilipek/heatmon/internal/mqtt"
	"github.com/sfilipek/heatmon/internal/rate"
	"github.com/sfilipek/heatmon/internal/status"
	"github.com/sfilipek/heatmon/internal/web"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	httpAddr := flag.String("http", "", `HTTP status address (overrides config, "off" to disable)`)
	poll := flag.Duration("poll", 0, "Zone polling interval (overrides config)")
	heartbeat := flag.Duration("heartbeat", 0, "Heartbeat interval (overrides config)")
	syncEvery := flag.Duration("sync", 0, "Clock sync interval (overrides config)")
	logCapacity := flag.Int("log-capacity", 0, "Event log capacity (overrides config)")
	printState := flag.Bool("print-state", false, "Print current line states and exit")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from the broker, "off" disables)`)

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *poll > 0 {
		cfg.Poll = config.Duration(*poll)
	}
	if *heartbeat > 0 {
		cfg.Heartbeat = config.Duration(*heartbeat)
	}
	if *syncEvery > 0 {
		cfg.Sync = config.Duration(*syncEvery)
	}
	if *logCapacity > 0 {
		cfg.LogCapacity = *logCapacity
	}
	if cfg.HTTPAddr == "off" {
		cfg.HTTPAddr = ""
	}

	ws := resolveWSBroker(*wsBroker, cfg.Broker)
	if err := run(cfg, *printState, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool, wsBroker string) error {
	// Initialize GPIO
	gpioReader, err := gpio.NewRealReader(cfg.Chip, cfg.Pins())
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioReader.Close()

	// Print state mode
	if printState {
		for i, z := range cfg.Zones {
			active, err := gpioReader.Read(i)
			if err != nil {
				return fmt.Errorf("read zone %d: %w", z.ID, err)
			}
			fmt.Printf("zone %d (pin %d): %s\n", z.ID, z.Pin, stateString(active))
		}
		return nil
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(cfg.Broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	clk := clock.NewRealClock(cfg.NTPServer)

	zones := make([]monitor.ZoneConfig, len(cfg.Zones))
	for i, z := range cfg.Zones {
		zones[i] = monitor.ZoneConfig{ID: z.ID, Line: i}
	}
	mon := monitor.New(zones, gpioReader, publisher, cfg.LogCapacity)

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.Poll.Std().Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Std().Milliseconds(),
		SyncMs:      cfg.Sync.Std().Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		Chip:        cfg.Chip,
		WSBroker:    wsBroker,
	})
	tracker.Update(mon.Snapshot())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: zones=%d poll=%v heartbeat=%v sync=%v broker=%s",
		len(cfg.Zones), cfg.Poll.Std(), cfg.Heartbeat.Std(), cfg.Sync.Std(), cfg.Broker)

	ticker := time.NewTicker(cfg.Poll.Std())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(mon, publisher, publisher, tracker, clk,
		cfg.Heartbeat.Std(), cfg.Sync.Std(), time.Now, ticker.C, sigCh)
}

// runLoop is the daemon's single thread of control: every tick polls the
// zones and checks the heartbeat and clock-sync gates. Nothing in here is
// fatal except a shutdown signal.
func runLoop(mon *monitor.Monitor, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, clk clock.Clock, heartbeat, syncEvery time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	hbGate := rate.NewGate(heartbeat)
	syncGate := rate.NewGate(syncEvery)
	var hbSeq uint64

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			if syncGate.Due(t) {
				if err := clk.Sync(); err != nil {
					log.Printf("time sync error: %v", err)
				}
			}

			mon.PollAll(clk.Now())

			if hbGate.Due(t) {
				if err := publisher.PublishHeartbeat(hbSeq); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
				hbSeq++
			}

			if tracker != nil {
				tracker.Update(mon.Snapshot())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

func stateString(active bool) string {
	if active {
		return "ON"
	}
	return "OFF"
}

// resolveWSBroker converts the -ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty or
// "off" disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
