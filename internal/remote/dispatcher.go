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

package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"irremote/internal/logger"
)

const (
	// DefaultHold keeps the indicator visibly lit after each token
	DefaultHold = 100 * time.Millisecond

	// DefaultBanner is written once when the dispatch loop starts
	DefaultBanner = "IR Remote Ready"
)

// Outcome tells whether a token resolved to a code
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSent:
		return "sent"
	default:
		return "unknown"
	}
}

// Result describes one dispatched token
type Result struct {
	ID      string
	Token   byte
	Outcome Outcome
	Label   string
}

// Sent reports whether the token was transmitted
func (r Result) Sent() bool {
	return r.Outcome == OutcomeSent
}

// Config is the immutable dispatcher configuration
type Config struct {
	Table *Table

	// Hold is how long the indicator stays on per token
	Hold time.Duration

	// PollInterval is slept between empty polls; zero yields instead
	PollInterval time.Duration

	Banner string
}

// DefaultConfig returns the compiled-in dispatcher settings
func DefaultConfig() Config {
	return Config{
		Table:  DefaultTable(),
		Hold:   DefaultHold,
		Banner: DefaultBanner,
	}
}

// Option customises a Dispatcher
type Option func(*Dispatcher)

// WithClock replaces the wall clock used for the indicator hold and idle polls
func WithClock(c Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

// WithConsole sets where the human-readable acknowledgement lines go
func WithConsole(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.console = w
	}
}

// WithLogger overrides the structured logger
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithIDFunc overrides how dispatch IDs are generated
func WithIDFunc(fn func() string) Option {
	return func(d *Dispatcher) {
		d.newID = fn
	}
}

// Dispatcher reads command tokens and drives the transmitter and indicator.
// It is single-threaded: callers must not invoke HandleToken, Step or Run concurrently.
type Dispatcher struct {
	cfg       Config
	source    TokenSource
	tx        Transmitter
	indicator Indicator
	clock     Clock
	console   io.Writer
	logger    zerolog.Logger
	newID     func() string
}

// NewDispatcher wires a dispatcher from its collaborators
func NewDispatcher(cfg Config, source TokenSource, tx Transmitter, indicator Indicator, opts ...Option) (*Dispatcher, error) {
	if cfg.Table == nil {
		return nil, fmt.Errorf("dispatcher requires a command table")
	}
	if source == nil {
		return nil, fmt.Errorf("dispatcher requires a token source")
	}
	if tx == nil {
		return nil, fmt.Errorf("dispatcher requires a transmitter")
	}
	if cfg.Hold < 0 {
		return nil, fmt.Errorf("hold duration must not be negative: %s", cfg.Hold)
	}
	if indicator == nil {
		indicator = NopIndicator{}
	}

	d := &Dispatcher{
		cfg:       cfg,
		source:    source,
		tx:        tx,
		indicator: indicator,
		clock:     SystemClock{},
		console:   io.Discard,
		logger:    logger.New(),
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// HandleToken dispatches a single token. Unknown tokens are a normal outcome,
// reported only on the console.
func (d *Dispatcher) HandleToken(token byte) Result {
	result := Result{
		ID:    d.newID(),
		Token: token,
	}

	d.printf("Received command: %c\n", token)
	d.setIndicator(result.ID, true)

	if code, ok := d.cfg.Table.Lookup(token); ok {
		if err := d.tx.Transmit(code.Address, code.Command, 0); err != nil {
			d.logger.Error().
				Err(err).
				Str("dispatch_id", result.ID).
				Str("label", code.Label).
				Msg("Transmit failed")
		}
		d.printf("Sent: %s\n", code.Label)

		result.Outcome = OutcomeSent
		result.Label = code.Label

		d.logger.Debug().
			Str("dispatch_id", result.ID).
			Str("label", code.Label).
			Uint16("address", code.Address).
			Uint16("command", code.Command).
			Msg("Command transmitted")
	} else {
		d.printf("Unknown command\n")
		result.Outcome = OutcomeUnknown

		d.logger.Debug().
			Str("dispatch_id", result.ID).
			Uint8("token", token).
			Msg("Unknown command token")
	}

	d.clock.Sleep(d.cfg.Hold)
	d.setIndicator(result.ID, false)

	return result
}

// Step runs one loop iteration: it consumes at most one token and dispatches it.
// ok is false when the source had nothing to read.
func (d *Dispatcher) Step() (Result, bool, error) {
	b, ok, err := d.source.TryReadByte()
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}
	return d.HandleToken(b), true, nil
}

// Run writes the banner and polls the source until ctx is cancelled or the
// source reports io.EOF.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.cfg.Banner != "" {
		d.printf("%s\n", d.cfg.Banner)
	}

	d.logger.Info().
		Int("codes", d.cfg.Table.Len()).
		Dur("hold", d.cfg.Hold).
		Msg("Dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("Dispatcher stopped")
			return nil
		default:
		}

		_, ok, err := d.Step()
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.logger.Info().Msg("Token source closed")
				return nil
			}
			if errors.Is(err, ErrSourceClosed) {
				d.logger.Error().Err(err).Msg("Token source failed")
				return err
			}
			d.logger.Warn().Err(err).Msg("Failed to read token")
		}
		if ok {
			continue
		}

		if d.cfg.PollInterval > 0 {
			d.clock.Sleep(d.cfg.PollInterval)
		} else {
			runtime.Gosched()
		}
	}
}

func (d *Dispatcher) setIndicator(id string, on bool) {
	if err := d.indicator.Set(on); err != nil {
		d.logger.Warn().
			Err(err).
			Str("dispatch_id", id).
			Bool("on", on).
			Msg("Failed to set status indicator")
	}
}

func (d *Dispatcher) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(d.console, format, args...); err != nil {
		d.logger.Debug().Err(err).Msg("Console write failed")
	}
}
