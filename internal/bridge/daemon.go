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

package bridge

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"irremote/internal/config"
	"irremote/internal/indicator"
	"irremote/internal/irsend"
	"irremote/internal/logger"
	"irremote/internal/remote"
	"irremote/internal/serial"
)

// Option overrides one of the daemon's collaborators
type Option func(*Daemon)

// WithSource reads tokens from src instead of opening the configured serial port
func WithSource(src remote.TokenSource) Option {
	return func(d *Daemon) {
		d.source = src
	}
}

// WithTransmitter replaces the configured transmitter
func WithTransmitter(tx remote.Transmitter) Option {
	return func(d *Daemon) {
		d.tx = tx
	}
}

// WithIndicator replaces the configured indicator
func WithIndicator(ind remote.Indicator) Option {
	return func(d *Daemon) {
		d.indicator = ind
	}
}

// WithStdout sets the local console used for acknowledgement lines
func WithStdout(w io.Writer) Option {
	return func(d *Daemon) {
		d.stdout = w
	}
}

// WithClock replaces the dispatcher clock
func WithClock(c remote.Clock) Option {
	return func(d *Daemon) {
		d.clock = c
	}
}

// Daemon runs the dispatcher against the configured hardware
type Daemon struct {
	config *config.Config
	logger zerolog.Logger

	source    remote.TokenSource
	tx        remote.Transmitter
	indicator remote.Indicator
	stdout    io.Writer
	clock     remote.Clock

	port    *serial.Port
	closers []io.Closer

	dispatcher *remote.Dispatcher
	running    bool
	mutex      sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewDaemon opens the configured devices and wires the dispatcher
func NewDaemon(cfg *config.Config, opts ...Option) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		config: cfg,
		logger: logger.Component("bridge"),
		stdout: os.Stdout,
		clock:  remote.SystemClock{},
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.openDevices(); err != nil {
		d.closeDevices()
		cancel()
		return nil, err
	}

	dispatchCfg, err := cfg.DispatcherConfig()
	if err != nil {
		d.closeDevices()
		cancel()
		return nil, err
	}

	d.dispatcher, err = remote.NewDispatcher(dispatchCfg, d.source, d.tx, d.indicator,
		remote.WithClock(d.clock),
		remote.WithConsole(d.console()),
		remote.WithLogger(logger.Component("dispatcher")),
	)
	if err != nil {
		d.closeDevices()
		cancel()
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	return d, nil
}

func (d *Daemon) openDevices() error {
	if d.source == nil {
		port, err := serial.Open(d.config.SerialSettings())
		if err != nil {
			return err
		}
		d.port = port
		d.source = port
		d.closers = append(d.closers, port)
		d.logger.Info().
			Str("port", d.config.Serial.Port).
			Int("baud", d.config.Serial.Baud).
			Msg("Serial port opened")
	}

	if d.tx == nil {
		switch d.config.Transmitter.Kind {
		case config.TransmitterLIRC:
			tx, err := irsend.OpenLIRC(d.config.Transmitter.Device)
			if err != nil {
				return err
			}
			d.tx = tx
			d.closers = append(d.closers, tx)
		default:
			d.tx = irsend.NewDryRunTransmitter()
		}
	}

	if d.indicator == nil {
		switch d.config.Indicator.Kind {
		case config.IndicatorSysfs:
			led, err := indicator.OpenLED(d.config.Indicator.LED)
			if err != nil {
				return err
			}
			d.indicator = led
		case config.IndicatorLog:
			d.indicator = indicator.NewLogIndicator()
		default:
			d.indicator = remote.NopIndicator{}
		}
	}
	return nil
}

// console picks where acknowledgement lines go. Serial echo needs an open port.
func (d *Daemon) console() io.Writer {
	switch d.config.Dispatch.Echo {
	case config.EchoSerial:
		if d.port != nil {
			return d.port
		}
	case config.EchoBoth:
		if d.port != nil {
			return io.MultiWriter(d.stdout, d.port)
		}
	}
	return d.stdout
}

// Run starts dispatching and blocks until ctx is cancelled, the source closes
// or Stop is called.
func (d *Daemon) Run(ctx context.Context) error {
	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return fmt.Errorf("daemon is already running")
	}
	d.running = true
	d.mutex.Unlock()

	runCtx, cancel := context.WithCancel(d.ctx)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	d.logger.Info().
		Str("transmitter", d.config.Transmitter.Kind).
		Str("indicator", d.config.Indicator.Kind).
		Msg("Bridge started")

	defer close(d.done)
	err := d.dispatcher.Run(runCtx)

	if serr := d.shutdown(); serr != nil && err == nil {
		err = serr
	}
	return err
}

// Start runs the daemon until SIGINT or SIGTERM
func (d *Daemon) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case sig := <-sigChan:
			d.logger.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return d.Run(ctx)
}

// Stop cancels a running daemon and waits for the current token to finish
func (d *Daemon) Stop() error {
	d.mutex.Lock()
	running := d.running
	d.mutex.Unlock()

	d.cancel()
	if running {
		<-d.done
		return nil
	}
	return d.shutdown()
}

func (d *Daemon) shutdown() error {
	d.logger.Info().Msg("Stopping bridge")
	if err := d.indicator.Set(false); err != nil {
		d.logger.Warn().Err(err).Msg("Failed to clear status indicator")
	}
	return d.closeDevices()
}

func (d *Daemon) closeDevices() error {
	var firstErr error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			d.logger.Error().Err(err).Msg("Error closing device")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	d.closers = nil
	return firstErr
}
