package config

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Config holds the bridge configuration, resolved once at startup and
// read-only afterwards. Values are layered: built-in defaults, then the
// config file, then any command-line flag the user actually set.
type Config struct {
	// OSC target (the receiving application's tracker input).
	Addr string
	Port int

	// Devices
	Devices         []string // serials, order fixes the output channels
	IgnoreMissing   bool
	ReferenceDevice string  // optional height-calibration reference serial
	Delta           float64 // meters added on top of the reference height

	// Pose feed (the tracking runtime's frame endpoint).
	PoseFeedURL string

	// Telemetry (disabled when the broker is empty).
	MQTTBroker     string
	TelemetryTopic string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:           "127.0.0.1",
		Port:           9000,
		Delta:          0.05,
		PoseFeedURL:    "ws://127.0.0.1:8090/poses",
		TelemetryTopic: "fbt/trackers",
	}
}

// Load reads the configuration file over the defaults. A missing file is
// not an error: the defaults (and later the flags) simply apply.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	case "ADDR":
		c.Addr = value
	case "PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", value, err)
		}
		c.Port = port
	case "DEVICES":
		c.Devices = splitSerials(value)
	case "IGNORE_MISSING_DEVICE":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid IGNORE_MISSING_DEVICE %q: %w", value, err)
		}
		c.IgnoreMissing = b
	case "REFERENCE_DEVICE":
		c.ReferenceDevice = value
	case "CALIBRATION_DELTA":
		delta, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid CALIBRATION_DELTA %q: %w", value, err)
		}
		c.Delta = delta
	case "POSE_FEED_URL":
		c.PoseFeedURL = value
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "TELEMETRY_TOPIC":
		c.TelemetryTopic = value
	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// Validate checks the merged configuration before anything starts up.
func (c *Config) Validate() error {
	if len(c.Devices) == 0 {
		return fmt.Errorf("DEVICES is required (1 to 8 serials)")
	}
	if len(c.Devices) > 8 {
		return fmt.Errorf("DEVICES lists %d serials, at most 8 are supported", len(c.Devices))
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if math.IsNaN(c.Delta) || math.IsInf(c.Delta, 0) {
		return fmt.Errorf("CALIBRATION_DELTA must be finite")
	}
	if c.PoseFeedURL == "" {
		return fmt.Errorf("POSE_FEED_URL is required")
	}
	return nil
}

func splitSerials(value string) []string {
	var serials []string
	for _, s := range strings.Split(value, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			serials = append(serials, s)
		}
	}
	return serials
}

// Flags carries the command-line overrides for the bridge. Bind them before
// flag parsing, merge after: only flags the user explicitly set take
// precedence over the file.
type Flags struct {
	addr      *string
	port      *int
	devices   serialList
	ignore    *bool
	reference *string
	delta     *float64
	feed      *string
	broker    *string
	topic     *string
}

// serialList lets -device be given multiple times, one serial each.
type serialList []string

func (l *serialList) String() string { return strings.Join(*l, ",") }

func (l *serialList) Set(value string) error {
	*l = append(*l, strings.TrimSpace(value))
	return nil
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	f.addr = fs.String("addr", "", "OSC target address (overrides config file)")
	f.port = fs.Int("port", 0, "OSC target port (overrides config file)")
	fs.Var(&f.devices, "device", "tracked device serial, repeatable (overrides config file)")
	f.ignore = fs.Bool("ignore-missing", false, "skip configured devices the runtime does not expose")
	f.reference = fs.String("reference", "", "height-calibration reference device serial")
	f.delta = fs.Float64("delta", 0, "calibration delta in meters (overrides config file)")
	f.feed = fs.String("feed", "", "pose feed websocket URL (overrides config file)")
	f.broker = fs.String("broker", "", "MQTT broker for telemetry (overrides config file)")
	f.topic = fs.String("topic", "", "telemetry topic (overrides config file)")
	return f
}

// Merge applies every flag that was explicitly set on the command line over
// the file-derived configuration.
func (f *Flags) Merge(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			cfg.Addr = *f.addr
		case "port":
			cfg.Port = *f.port
		case "device":
			cfg.Devices = f.devices
		case "ignore-missing":
			cfg.IgnoreMissing = *f.ignore
		case "reference":
			cfg.ReferenceDevice = *f.reference
		case "delta":
			cfg.Delta = *f.delta
		case "feed":
			cfg.PoseFeedURL = *f.feed
		case "broker":
			cfg.MQTTBroker = *f.broker
		case "topic":
			cfg.TelemetryTopic = *f.topic
		}
	})
}
