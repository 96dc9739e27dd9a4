// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"irremote/internal/remote"
	"irremote/internal/serial"
)

// Transmitter kinds
const (
	TransmitterLIRC   = "lirc"
	TransmitterDryRun = "dry-run"
)

// Indicator kinds
const (
	IndicatorNone  = "none"
	IndicatorLog   = "log"
	IndicatorSysfs = "sysfs"
)

// Echo targets for acknowledgement lines
const (
	EchoStdout = "stdout"
	EchoSerial = "serial"
	EchoBoth   = "both"
)

// Config represents the bridge configuration file
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Transmitter TransmitterConfig `yaml:"transmitter"`
	Indicator   IndicatorConfig   `yaml:"indicator"`
	Dispatch    DispatchConfig    `yaml:"dispatch"`
	Codes       []CodeConfig      `yaml:"codes,omitempty"`
}

// SerialConfig contains the command link settings
type SerialConfig struct {
	Port        string        `yaml:"port"`
	Baud        int           `yaml:"baud"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// TransmitterConfig selects the IR output
type TransmitterConfig struct {
	Kind   string `yaml:"kind"`   // "lirc" or "dry-run"
	Device string `yaml:"device"` // LIRC device path
}

// IndicatorConfig selects the status indicator
type IndicatorConfig struct {
	Kind string `yaml:"kind"` // "none", "log" or "sysfs"
	LED  string `yaml:"led"`  // LED name below /sys/class/leds
}

// DispatchConfig contains dispatcher timing
type DispatchConfig struct {
	Hold         time.Duration `yaml:"hold"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Echo         string        `yaml:"echo"`
}

// CodeConfig is one entry of a custom code table
type CodeConfig struct {
	Token   string    `yaml:"token"`
	Label   string    `yaml:"label"`
	Address HexUint16 `yaml:"address"`
	Command HexUint16 `yaml:"command"`
}

// NewDefaultConfig returns the compiled-in settings
func NewDefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:        "/dev/ttyUSB0",
			Baud:        serial.DefaultBaud,
			ReadTimeout: serial.DefaultReadTimeout,
		},
		Transmitter: TransmitterConfig{
			Kind:   TransmitterLIRC,
			Device: "/dev/lirc0",
		},
		Indicator: IndicatorConfig{
			Kind: IndicatorLog,
		},
		Dispatch: DispatchConfig{
			Hold:         remote.DefaultHold,
			PollInterval: 0,
			Echo:         EchoBoth,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := NewDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive")
	}
	if c.Serial.ReadTimeout < 0 {
		return fmt.Errorf("serial.read_timeout must not be negative")
	}

	switch c.Transmitter.Kind {
	case TransmitterLIRC:
		if c.Transmitter.Device == "" {
			return fmt.Errorf("transmitter.device is required for lirc")
		}
	case TransmitterDryRun:
	default:
		return fmt.Errorf("unknown transmitter.kind: %q", c.Transmitter.Kind)
	}

	switch c.Indicator.Kind {
	case IndicatorNone, IndicatorLog:
	case IndicatorSysfs:
		if c.Indicator.LED == "" {
			return fmt.Errorf("indicator.led is required for sysfs")
		}
	default:
		return fmt.Errorf("unknown indicator.kind: %q", c.Indicator.Kind)
	}

	if c.Dispatch.Hold < 0 {
		return fmt.Errorf("dispatch.hold must not be negative")
	}
	if c.Dispatch.PollInterval < 0 {
		return fmt.Errorf("dispatch.poll_interval must not be negative")
	}
	switch c.Dispatch.Echo {
	case EchoStdout, EchoSerial, EchoBoth:
	default:
		return fmt.Errorf("unknown dispatch.echo: %q", c.Dispatch.Echo)
	}

	if _, err := c.Table(); err != nil {
		return err
	}
	return nil
}

// Table builds the command table, falling back to the compiled-in codes
func (c *Config) Table() (*remote.Table, error) {
	if len(c.Codes) == 0 {
		return remote.DefaultTable(), nil
	}

	codes := make([]remote.Code, 0, len(c.Codes))
	for i, cc := range c.Codes {
		if len(cc.Token) != 1 {
			return nil, fmt.Errorf("codes[%d].token must be a single byte, got %q", i, cc.Token)
		}
		if cc.Label == "" {
			return nil, fmt.Errorf("codes[%d].label is required", i)
		}
		codes = append(codes, remote.Code{
			Token:   cc.Token[0],
			Address: uint16(cc.Address),
			Command: uint16(cc.Command),
			Label:   cc.Label,
		})
	}

	table, err := remote.NewTable(codes...)
	if err != nil {
		return nil, fmt.Errorf("invalid codes: %w", err)
	}
	return table, nil
}

// DispatcherConfig returns the dispatcher settings derived from this file
func (c *Config) DispatcherConfig() (remote.Config, error) {
	table, err := c.Table()
	if err != nil {
		return remote.Config{}, err
	}
	return remote.Config{
		Table:        table,
		Hold:         c.Dispatch.Hold,
		PollInterval: c.Dispatch.PollInterval,
		Banner:       remote.DefaultBanner,
	}, nil
}

// SerialSettings returns the serial link settings
func (c *Config) SerialSettings() serial.Config {
	return serial.Config{
		Name:        c.Serial.Port,
		Baud:        c.Serial.Baud,
		ReadTimeout: c.Serial.ReadTimeout,
	}
}

// CodesFrom converts dispatcher codes into their YAML form
func CodesFrom(codes []remote.Code) []CodeConfig {
	out := make([]CodeConfig, 0, len(codes))
	for _, c := range codes {
		out = append(out, CodeConfig{
			Token:   string([]byte{c.Token}),
			Label:   c.Label,
			Address: HexUint16(c.Address),
			Command: HexUint16(c.Command),
		})
	}
	return out
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filepath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
