package remote

import (
	"errors"
	"time"
)

// ErrSourceClosed marks a read failure after which a TokenSource yields nothing
// more. Run stops when it sees it.
var ErrSourceClosed = errors.New("token source closed")

// Transmitter emits one infrared frame for a Samsung-style address/command pair
type Transmitter interface {
	Transmit(address, command uint16, repeats uint8) error
}

// Indicator is a single on/off status output
type Indicator interface {
	Set(on bool) error
}

// Clock provides the blocking hold between indicator on and off
type Clock interface {
	Sleep(d time.Duration)
}

// TokenSource yields at most one byte per call without blocking for long.
// ok is false when no byte is currently available. A source that has ended
// returns io.EOF, or an error wrapping ErrSourceClosed when it failed.
type TokenSource interface {
	TryReadByte() (b byte, ok bool, err error)
}

// SystemClock sleeps on the wall clock
type SystemClock struct{}

func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// NopIndicator discards indicator changes
type NopIndicator struct{}

func (NopIndicator) Set(bool) error { return nil }
