package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Timing constants for the stopwatch
const TICK_INTERVAL = 10 * time.Millisecond
const NOTIFY_INTERVAL = time.Second

// Timing constants for the UDP notification bridge
const ACTION_ACK_TIMEOUT = 200 * time.Millisecond
const ACTION_MAX_RETRIES = 5
const ACTION_ID_BUFFER_SIZE = 16
const MAX_DATAGRAM_SIZE = 2048

const DEFAULT_LISTEN_ADDR = "127.0.0.1:20011"
const DEFAULT_PANEL_ADDR = "127.0.0.1:20012"

const (
	ModeWatch = "watch"
	ModePanel = "panel"

	BridgeLog  = "log"
	BridgeUDP  = "udp"
	BridgeNone = "none"
)

// Config is loaded in layers: Default, then the YAML file named by
// STOPWATCH_CONFIG_FILE, then STOPWATCH_* environment variables, then flags.
type Config struct {
	ConfigFile string `env:"STOPWATCH_CONFIG_FILE" yaml:"-"`

	Mode           string        `env:"STOPWATCH_MODE" yaml:"mode"`
	TickInterval   time.Duration `env:"STOPWATCH_TICK_INTERVAL" yaml:"tick_interval"`
	NotifyInterval time.Duration `env:"STOPWATCH_NOTIFY_INTERVAL" yaml:"notify_interval"`
	Headless       bool          `env:"STOPWATCH_HEADLESS" yaml:"headless"`

	Bridge     string        `env:"STOPWATCH_BRIDGE" yaml:"bridge"`
	ListenAddr string        `env:"STOPWATCH_LISTEN_ADDR" yaml:"listen_addr"`
	PeerAddr   string        `env:"STOPWATCH_PEER_ADDR" yaml:"peer_addr"`
	AckTimeout time.Duration `env:"STOPWATCH_ACK_TIMEOUT" yaml:"ack_timeout"`
	MaxRetries int           `env:"STOPWATCH_MAX_RETRIES" yaml:"max_retries"`

	OTelEndpoint string `env:"STOPWATCH_OTEL_ENDPOINT" yaml:"otel_endpoint"`
}

func Default() Config {
	return Config{
		Mode:           ModeWatch,
		TickInterval:   TICK_INTERVAL,
		NotifyInterval: NOTIFY_INTERVAL,
		Bridge:         BridgeLog,
		ListenAddr:     DEFAULT_LISTEN_ADDR,
		PeerAddr:       DEFAULT_PANEL_ADDR,
		AckTimeout:     ACTION_ACK_TIMEOUT,
		MaxRetries:     ACTION_MAX_RETRIES,
	}
}

// ParseConfig builds a validated Config from all layers. Flags win.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}
	cfg := Default()

	if err := parseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.ConfigFile != "" {
		if err := loadFile(cfg.ConfigFile, &cfg); err != nil {
			return Config{}, err
		}
		// environment overrides the file
		if err := parseEnv(&cfg); err != nil {
			return Config{}, err
		}
	}

	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Process mode: watch or panel")
	fs.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Nominal tick interval")
	fs.DurationVar(&cfg.NotifyInterval, "notify-interval", cfg.NotifyInterval, "Minimum interval between tick-driven notification updates")
	fs.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Log state changes instead of drawing the terminal view")
	fs.StringVar(&cfg.Bridge, "bridge", cfg.Bridge, "Notification bridge: log, udp or none")
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "UDP address to listen on")
	fs.StringVar(&cfg.PeerAddr, "peer", cfg.PeerAddr, "UDP address of the other side of the bridge")
	fs.DurationVar(&cfg.AckTimeout, "ack-timeout", cfg.AckTimeout, "Time to wait for an action ack before resending")
	fs.IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "Resends of an unacknowledged action")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeWatch, ModePanel:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	switch c.Bridge {
	case BridgeLog, BridgeUDP, BridgeNone:
	default:
		return fmt.Errorf("unknown bridge %q", c.Bridge)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.NotifyInterval < 0 {
		return fmt.Errorf("notify interval must not be negative, got %s", c.NotifyInterval)
	}
	if c.Mode == ModePanel || c.Bridge == BridgeUDP {
		if c.ListenAddr == "" || c.PeerAddr == "" {
			return errors.New("listen and peer addresses are required for udp")
		}
		if c.AckTimeout <= 0 {
			return fmt.Errorf("ack timeout must be positive, got %s", c.AckTimeout)
		}
		if c.MaxRetries < 0 {
			return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
		}
	}
	return nil
}

func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
