package indicator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"irremote/internal/logger"
)

// DefaultLEDRoot is where the kernel exposes LED class devices
const DefaultLEDRoot = "/sys/class/leds"

// SysfsLED drives a kernel LED through its brightness attribute
type SysfsLED struct {
	name       string
	brightness string
	max        string
}

// OpenLED opens /sys/class/leds/<name>
func OpenLED(name string) (*SysfsLED, error) {
	return OpenLEDAt(DefaultLEDRoot, name)
}

// OpenLEDAt opens an LED below root
func OpenLEDAt(root, name string) (*SysfsLED, error) {
	if name == "" {
		return nil, fmt.Errorf("led name is required")
	}
	dir := filepath.Join(root, name)

	maxValue := "1"
	if data, err := os.ReadFile(filepath.Join(dir, "max_brightness")); err == nil {
		v := strings.TrimSpace(string(data))
		if _, err := strconv.Atoi(v); err == nil {
			maxValue = v
		}
	}

	brightness := filepath.Join(dir, "brightness")
	if _, err := os.Stat(brightness); err != nil {
		return nil, fmt.Errorf("led %s: %w", name, err)
	}

	return &SysfsLED{name: name, brightness: brightness, max: maxValue}, nil
}

func (l *SysfsLED) Set(on bool) error {
	value := "0"
	if on {
		value = l.max
	}
	if err := os.WriteFile(l.brightness, []byte(value), 0644); err != nil {
		return fmt.Errorf("led %s: %w", l.name, err)
	}
	return nil
}

// LogIndicator reports indicator changes in the debug log
type LogIndicator struct {
	logger zerolog.Logger
}

func NewLogIndicator() *LogIndicator {
	return &LogIndicator{logger: logger.Component("indicator")}
}

func (l *LogIndicator) Set(on bool) error {
	l.logger.Debug().Bool("on", on).Msg("Status indicator")
	return nil
}
