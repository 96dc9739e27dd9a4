package bridge_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"irremote/internal/bridge"
	"irremote/internal/config"
	"irremote/internal/remote"
	"irremote/internal/serial"
)

// brokenReader fails like a hung up terminal
type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) {
	return 0, errors.New("input/output error")
}

type fakeTransmitter struct {
	commands []uint16
}

func (f *fakeTransmitter) Transmit(address, command uint16, repeats uint8) error {
	f.commands = append(f.commands, command)
	return nil
}

type fakeIndicator struct {
	states []bool
}

func (f *fakeIndicator) Set(on bool) error {
	f.states = append(f.states, on)
	return nil
}

type instantClock struct {
	slept time.Duration
}

func (c *instantClock) Sleep(d time.Duration) {
	c.slept += d
}

func dryRunConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Transmitter.Kind = config.TransmitterDryRun
	cfg.Indicator.Kind = config.IndicatorNone
	return cfg
}

func TestDaemon_Run(t *testing.T) {
	t.Run("dispatches queued tokens until the source closes", func(t *testing.T) {
		queue := serial.NewQueue('P', 'x', 'U')
		queue.CloseWhenDrained()
		tx := &fakeTransmitter{}
		ind := &fakeIndicator{}
		clock := &instantClock{}
		var out bytes.Buffer

		d, err := bridge.NewDaemon(dryRunConfig(),
			bridge.WithSource(queue),
			bridge.WithTransmitter(tx),
			bridge.WithIndicator(ind),
			bridge.WithStdout(&out),
			bridge.WithClock(clock),
		)
		require.NoError(t, err)

		require.NoError(t, d.Run(context.Background()))

		assert.Equal(t, []uint16{0x40BF, 0xE01F}, tx.commands)
		assert.Equal(t,
			"IR Remote Ready\n"+
				"Received command: P\nSent: POWER\n"+
				"Received command: x\nUnknown command\n"+
				"Received command: U\nSent: VOL UP\n",
			out.String())
		// three pulses plus the final off at shutdown
		assert.Equal(t, []bool{true, false, true, false, true, false, false}, ind.states)
		assert.Equal(t, 300*time.Millisecond, clock.slept)
	})

	t.Run("stops when stdin fails", func(t *testing.T) {
		ind := &fakeIndicator{}
		d, err := bridge.NewDaemon(dryRunConfig(),
			bridge.WithSource(serial.NewReaderSource(brokenReader{})),
			bridge.WithTransmitter(&fakeTransmitter{}),
			bridge.WithIndicator(ind),
			bridge.WithStdout(&bytes.Buffer{}),
			bridge.WithClock(&instantClock{}),
		)
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- d.Run(context.Background()) }()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, remote.ErrSourceClosed)
			assert.Contains(t, err.Error(), "input/output error")
		case <-time.After(2 * time.Second):
			t.Fatal("daemon kept running after the source failed")
		}
		assert.Equal(t, []bool{false}, ind.states)
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		d, err := bridge.NewDaemon(dryRunConfig(),
			bridge.WithSource(serial.NewQueue()),
			bridge.WithStdout(&bytes.Buffer{}),
		)
		require.NoError(t, err)

		errCh := make(chan error, 1)
		go func() { errCh <- d.Run(ctx) }()
		cancel()

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("daemon did not stop")
		}
	})

	t.Run("stop waits for the loop", func(t *testing.T) {
		d, err := bridge.NewDaemon(dryRunConfig(),
			bridge.WithSource(serial.NewQueue()),
			bridge.WithStdout(&bytes.Buffer{}),
		)
		require.NoError(t, err)

		errCh := make(chan error, 1)
		go func() { errCh <- d.Run(context.Background()) }()

		require.Eventually(t, func() bool {
			return d.Stop() == nil
		}, time.Second, 10*time.Millisecond)

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("daemon did not stop")
		}
	})
}

func TestNewDaemon(t *testing.T) {
	t.Run("rejects invalid config", func(t *testing.T) {
		cfg := dryRunConfig()
		cfg.Dispatch.Echo = "nowhere"
		_, err := bridge.NewDaemon(cfg, bridge.WithSource(serial.NewQueue()))
		assert.Error(t, err)
	})

	t.Run("fails when the serial port cannot be opened", func(t *testing.T) {
		cfg := dryRunConfig()
		cfg.Serial.Port = "/dev/does-not-exist-irremote"
		_, err := bridge.NewDaemon(cfg)
		assert.Error(t, err)
	})

	t.Run("stop without run releases devices", func(t *testing.T) {
		d, err := bridge.NewDaemon(dryRunConfig(), bridge.WithSource(serial.NewQueue()))
		require.NoError(t, err)
		assert.NoError(t, d.Stop())
	})
}
