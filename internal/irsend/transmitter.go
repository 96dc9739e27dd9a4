package irsend

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"irremote/internal/logger"
)

// LIRCTransmitter writes Samsung32 pulse trains to a LIRC transmit device
type LIRCTransmitter struct {
	w      io.Writer
	name   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewLIRCTransmitter wraps an already configured LIRC device
func NewLIRCTransmitter(name string, w io.Writer) *LIRCTransmitter {
	return &LIRCTransmitter{
		w:      w,
		name:   name,
		logger: logger.Component("irsend"),
	}
}

// Transmit encodes and writes one frame. LIRC expects the whole pulse train in a single write.
func (t *LIRCTransmitter) Transmit(address, command uint16, repeats uint8) error {
	pulses := EncodeSamsung(address, command, repeats)
	buf := make([]byte, 4*len(pulses))
	for i, p := range pulses {
		binary.NativeEndian.PutUint32(buf[4*i:], p)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	n, err := t.w.Write(buf)
	if err != nil {
		return fmt.Errorf("lirc write to %s: %w", t.name, err)
	}
	if n != len(buf) {
		return fmt.Errorf("lirc write to %s: short write %d of %d bytes", t.name, n, len(buf))
	}

	t.logger.Debug().
		Str("device", t.name).
		Uint16("address", address).
		Uint16("command", command).
		Int("pulses", len(pulses)).
		Msg("IR frame written")
	return nil
}

// Close closes the underlying device when it supports closing
func (t *LIRCTransmitter) Close() error {
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// DryRunTransmitter logs transmissions instead of emitting them
type DryRunTransmitter struct {
	logger zerolog.Logger
}

func NewDryRunTransmitter() *DryRunTransmitter {
	return &DryRunTransmitter{logger: logger.Component("irsend")}
}

func (t *DryRunTransmitter) Transmit(address, command uint16, repeats uint8) error {
	t.logger.Info().
		Str("protocol", "samsung32").
		Str("address", fmt.Sprintf("0x%04X", address)).
		Str("command", fmt.Sprintf("0x%04X", command)).
		Uint8("repeats", repeats).
		Msg("Dry run transmit")
	return nil
}
