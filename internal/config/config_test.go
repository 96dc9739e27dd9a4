package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"irremote/internal/config"
	"irremote/internal/remote"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "irremote.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, 100*time.Millisecond, cfg.Dispatch.Hold)

	dc, err := cfg.DispatcherConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, dc.Table.Len())
	assert.Equal(t, remote.DefaultBanner, dc.Banner)

	ss := cfg.SerialSettings()
	assert.Equal(t, "/dev/ttyUSB0", ss.Name)
}

func TestLoadConfig(t *testing.T) {
	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := writeConfig(t, `
serial:
  port: /dev/ttyACM0
transmitter:
  kind: dry-run
dispatch:
  hold: 250ms
`)
		cfg, err := config.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
		assert.Equal(t, 115200, cfg.Serial.Baud)
		assert.Equal(t, config.TransmitterDryRun, cfg.Transmitter.Kind)
		assert.Equal(t, 250*time.Millisecond, cfg.Dispatch.Hold)
		assert.Equal(t, config.EchoBoth, cfg.Dispatch.Echo)
	})

	t.Run("custom codes replace the defaults", func(t *testing.T) {
		path := writeConfig(t, `
codes:
  - token: P
    label: POWER
    address: 0x0707
    command: 0x02
  - token: "1"
    label: ONE
    address: "0x0707"
    command: 4
`)
		cfg, err := config.LoadConfig(path)
		require.NoError(t, err)

		table, err := cfg.Table()
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())

		code, ok := table.Lookup('1')
		require.True(t, ok)
		assert.Equal(t, remote.Code{Token: '1', Address: 0x0707, Command: 0x04, Label: "ONE"}, code)

		_, ok = table.Lookup('M')
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := config.LoadConfig(writeConfig(t, "serial: ["))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero baud", func(c *config.Config) { c.Serial.Baud = 0 }},
		{"unknown transmitter", func(c *config.Config) { c.Transmitter.Kind = "infrared" }},
		{"lirc without device", func(c *config.Config) { c.Transmitter.Device = "" }},
		{"unknown indicator", func(c *config.Config) { c.Indicator.Kind = "lamp" }},
		{"sysfs without led", func(c *config.Config) { c.Indicator.Kind = config.IndicatorSysfs }},
		{"negative hold", func(c *config.Config) { c.Dispatch.Hold = -time.Millisecond }},
		{"negative poll", func(c *config.Config) { c.Dispatch.PollInterval = -time.Millisecond }},
		{"unknown echo", func(c *config.Config) { c.Dispatch.Echo = "printer" }},
		{"multi byte token", func(c *config.Config) {
			c.Codes = []config.CodeConfig{{Token: "PW", Label: "POWER"}}
		}},
		{"missing label", func(c *config.Config) {
			c.Codes = []config.CodeConfig{{Token: "P"}}
		}},
		{"duplicate token", func(c *config.Config) {
			c.Codes = []config.CodeConfig{{Token: "P", Label: "A"}, {Token: "P", Label: "B"}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Codes = config.CodesFrom(remote.DefaultCodes())

	path := filepath.Join(t.TempDir(), "out.yml")
	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "0xE0E0")
}

func TestHexUint16(t *testing.T) {
	var v struct {
		A config.HexUint16 `yaml:"a"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("a: 0x40BF"), &v))
	assert.Equal(t, config.HexUint16(0x40BF), v.A)

	assert.Error(t, yaml.Unmarshal([]byte("a: 0x10000"), &v))
	assert.Error(t, yaml.Unmarshal([]byte("a: [1]"), &v))
}
