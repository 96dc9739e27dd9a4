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

package serial

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tarm "github.com/tarm/serial"
	"irremote/internal/remote"
)

const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 100 * time.Millisecond

	// hangupReads is how many empty reads in a row may return well before the
	// read timeout before the link is considered gone
	hangupReads = 16
)

// Config describes the serial link
type Config struct {
	Name        string
	Baud        int
	ReadTimeout time.Duration
}

// Port is a serial link that yields command tokens and accepts console output
type Port struct {
	name string
	rw   io.ReadWriteCloser

	readTimeout time.Duration
	fastEmpty   int

	mu     sync.Mutex
	closed bool
	buf    [1]byte
}

// PortOption configures a Port
type PortOption func(*Port)

// WithReadTimeout tells the port how long an idle read blocks. Empty reads that
// keep returning much sooner than that are treated as a hangup.
func WithReadTimeout(d time.Duration) PortOption {
	return func(p *Port) {
		p.readTimeout = d
	}
}

// Open opens the named serial device. A zero baud or timeout uses the defaults.
func Open(cfg Config) (*Port, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("serial port name is required")
	}
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	p, err := tarm.OpenPort(&tarm.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Name, err)
	}
	return NewPort(cfg.Name, p, WithReadTimeout(cfg.ReadTimeout)), nil
}

// NewPort wraps an already open link
func NewPort(name string, rw io.ReadWriteCloser, opts ...PortOption) *Port {
	p := &Port{name: name, rw: rw}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the device path
func (p *Port) Name() string {
	return p.name
}

// TryReadByte reads at most one byte. A read timeout is reported as no byte;
// a closed port or a removed device is reported as io.EOF.
func (p *Port) TryReadByte() (byte, bool, error) {
	start := time.Now()
	n, err := p.rw.Read(p.buf[:])
	if n == 1 {
		p.fastEmpty = 0
		return p.buf[0], true, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		if p.isClosed() {
			return 0, false, io.EOF
		}
		return 0, false, p.checkHangup(time.Since(start))
	}
	if errors.Is(err, os.ErrClosed) || p.isClosed() {
		return 0, false, io.EOF
	}
	return 0, false, fmt.Errorf("serial read on %s: %w", p.name, err)
}

// Write sends raw bytes down the link
func (p *Port) Write(b []byte) (int, error) {
	return p.rw.Write(b)
}

// WriteTokens sends each token as a single byte
func (p *Port) WriteTokens(tokens ...byte) error {
	if _, err := p.rw.Write(tokens); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// Close releases the device. Closing twice is a no-op.
func (p *Port) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	return p.rw.Close()
}

// checkHangup counts empty reads that came back early. A hung up tty returns
// them immediately instead of waiting out the read timeout.
func (p *Port) checkHangup(elapsed time.Duration) error {
	if p.readTimeout <= 0 {
		return nil
	}
	if elapsed >= p.readTimeout/2 {
		p.fastEmpty = 0
		return nil
	}
	p.fastEmpty++
	if p.fastEmpty < hangupReads {
		return nil
	}

	if _, err := os.Stat(p.name); err != nil {
		return io.EOF
	}
	return fmt.Errorf("%w: %s hung up", remote.ErrSourceClosed, p.name)
}

func (p *Port) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
