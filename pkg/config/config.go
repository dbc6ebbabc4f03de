package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/acmp"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/eui"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/subscription"
	"github.com/jdkoftinoff/jdksavdecc-mcu-sub001/pkg/wire"
)

// Configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrUnknownFormat = errors.New("unknown configuration file format")
)

// Environment variables applied by ApplyEnv.
const (
	EnvEntityID    = "AVDECC_ENTITY_ID"
	EnvMAC         = "AVDECC_MAC"
	EnvLogLevel    = "AVDECC_LOG_LEVEL"
	EnvProtocolLog = "AVDECC_PROTOCOL_LOG"
)

// HexBytes is a byte string written as hex in configuration files.
// Spaces and colons between octets are ignored.
type HexBytes []byte

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *HexBytes) UnmarshalText(text []byte) error {
	s := strings.NewReplacer(" ", "", ":", "").Replace(string(text))
	s = strings.TrimPrefix(s, "0x")
	v, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("hex bytes %q: %w", text, err)
	}
	*b = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b)), nil
}

// DescriptorType is a descriptor type written by name or number.
type DescriptorType wire.DescriptorType

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DescriptorType) UnmarshalText(text []byte) error {
	v, ok := wire.ParseDescriptorType(string(text))
	if !ok {
		return fmt.Errorf("unknown descriptor type %q", text)
	}
	*d = DescriptorType(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d DescriptorType) MarshalText() ([]byte, error) {
	return []byte(wire.DescriptorType(d).String()), nil
}

// Talker describes one stream source.
type Talker struct {
	MaxListeners  int       `yaml:"max_listeners" toml:"max_listeners"`
	StreamID      eui.Eui64 `yaml:"stream_id" toml:"stream_id"`
	StreamDestMAC eui.Eui48 `yaml:"stream_dest_mac" toml:"stream_dest_mac"`
	VLANID        uint16    `yaml:"vlan_id" toml:"vlan_id"`
}

// Descriptor is a raw descriptor body.
type Descriptor struct {
	Configuration uint16         `yaml:"configuration" toml:"configuration"`
	Type          DescriptorType `yaml:"type" toml:"type"`
	Index         uint16         `yaml:"index" toml:"index"`
	Name          string         `yaml:"name" toml:"name"`
	Data          HexBytes       `yaml:"data" toml:"data"`
}

// Control is a CONTROL descriptor with its initial value.
type Control struct {
	Configuration uint16   `yaml:"configuration" toml:"configuration"`
	Index         uint16   `yaml:"index" toml:"index"`
	Name          string   `yaml:"name" toml:"name"`
	Value         HexBytes `yaml:"value" toml:"value"`
}

// Config is the file configuration of one entity.
type Config struct {
	EntityID      eui.Eui64 `yaml:"entity_id" toml:"entity_id"`
	MAC           eui.Eui48 `yaml:"mac" toml:"mac"`
	EntityModelID eui.Eui64 `yaml:"entity_model_id" toml:"entity_model_id"`
	EntityName    string    `yaml:"entity_name" toml:"entity_name"`

	MaxRegisteredControllers int    `yaml:"max_registered_controllers" toml:"max_registered_controllers"`
	CommandTimeoutMs         uint32 `yaml:"command_timeout_ms" toml:"command_timeout_ms"`
	LockTimeoutMs            uint32 `yaml:"lock_timeout_ms" toml:"lock_timeout_ms"`

	Talkers     []Talker     `yaml:"talkers" toml:"talkers"`
	Listeners   int          `yaml:"listeners" toml:"listeners"`
	Descriptors []Descriptor `yaml:"descriptors" toml:"descriptors"`
	Controls    []Control    `yaml:"controls" toml:"controls"`

	LogLevel    string `yaml:"log_level" toml:"log_level"`
	ProtocolLog string `yaml:"protocol_log" toml:"protocol_log"`
	Capture     string `yaml:"capture" toml:"capture"`
}

// Default returns the configuration used for fields a file leaves out.
func Default() Config {
	return Config{
		EntityID:                 eui.Unset64(),
		MAC:                      eui.Unset48(),
		MaxRegisteredControllers: subscription.DefaultMaxControllers,
		CommandTimeoutMs:         wire.AEMCommandTimeoutMs,
		LockTimeoutMs:            wire.LockTimeoutMs,
		LogLevel:                 "info",
	}
}

// Load reads path over Default, applies the environment and validates
// the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := cfg.decodeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	return nil
}

// LoadEnvFile adds the variables of a .env file to the environment. A
// missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides fields from the AVDECC_* variables lookup returns.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvEntityID); ok {
		id, err := eui.ParseEui64(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvEntityID, err)
		}
		c.EntityID = id
	}
	if v, ok := lookup(EnvMAC); ok {
		mac, err := eui.ParseEui48(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvMAC, err)
		}
		c.MAC = mac
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvProtocolLog); ok {
		c.ProtocolLog = v
	}
	return nil
}

// Validate checks ids, capacities and timeouts.
func (c *Config) Validate() error {
	if c.EntityID.IsUnset() || c.EntityID.IsZero() {
		return fmt.Errorf("%w: entity_id not set", ErrInvalidConfig)
	}
	if c.MAC.IsUnset() || c.MAC.IsZero() {
		return fmt.Errorf("%w: mac not set", ErrInvalidConfig)
	}
	if c.MaxRegisteredControllers <= 0 {
		return fmt.Errorf("%w: max_registered_controllers %d", ErrInvalidConfig, c.MaxRegisteredControllers)
	}
	if c.CommandTimeoutMs == 0 || c.LockTimeoutMs == 0 {
		return fmt.Errorf("%w: zero timeout", ErrInvalidConfig)
	}
	if c.Listeners < 0 || c.Listeners > acmp.DefaultGroupCapacity {
		return fmt.Errorf("%w: listeners %d", ErrInvalidConfig, c.Listeners)
	}
	if len(c.Talkers) > acmp.DefaultGroupCapacity {
		return fmt.Errorf("%w: %d talkers", ErrInvalidConfig, len(c.Talkers))
	}
	for i, t := range c.Talkers {
		if t.MaxListeners <= 0 {
			return fmt.Errorf("%w: talker %d max_listeners %d", ErrInvalidConfig, i, t.MaxListeners)
		}
	}
	if len(c.EntityName) > wire.NameLen {
		return fmt.Errorf("%w: entity_name longer than %d octets", ErrInvalidConfig, wire.NameLen)
	}
	if _, err := c.parseLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) parseLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return l, nil
}

// SlogLevel returns the configured log level, or info when it is invalid.
func (c *Config) SlogLevel() slog.Level {
	l, err := c.parseLevel()
	if err != nil {
		return slog.LevelInfo
	}
	return l
}
