// Package link is the host side of the bridge: it sends command tokens down a
// serial link, or straight into an in-process dispatcher when no hardware is attached.
package link

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"irremote/internal/irsend"
	"irremote/internal/remote"
	"irremote/internal/serial"
)

// DefaultCooldown spaces out tokens so the bridge can finish each indicator pulse
const DefaultCooldown = time.Second

// Sender delivers command tokens to a bridge
type Sender interface {
	Send(token byte) error
	Close() error
}

// SerialSender writes tokens to a serial port
type SerialSender struct {
	port *serial.Port
}

// DialSerial opens the serial port at cfg
func DialSerial(cfg serial.Config) (*SerialSender, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &SerialSender{port: port}, nil
}

// NewSerialSender wraps an open port
func NewSerialSender(port *serial.Port) *SerialSender {
	return &SerialSender{port: port}
}

func (s *SerialSender) Send(token byte) error {
	return s.port.WriteTokens(token)
}

func (s *SerialSender) Close() error {
	return s.port.Close()
}

// LoopbackSender dispatches tokens locally with a dry-run transmitter.
// Sends are serialised so the dispatcher only ever sees one token at a time.
type LoopbackSender struct {
	mu         sync.Mutex
	dispatcher *remote.Dispatcher
}

// NewLoopbackSender builds an in-process dispatcher writing acknowledgements to console
func NewLoopbackSender(cfg remote.Config, console io.Writer, opts ...remote.Option) (*LoopbackSender, error) {
	opts = append([]remote.Option{remote.WithConsole(console)}, opts...)
	d, err := remote.NewDispatcher(cfg, serial.NewQueue(), irsend.NewDryRunTransmitter(), remote.NopIndicator{}, opts...)
	if err != nil {
		return nil, err
	}
	return &LoopbackSender{dispatcher: d}, nil
}

func (s *LoopbackSender) Send(token byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher.HandleToken(token)
	return nil
}

func (s *LoopbackSender) Close() error {
	return nil
}

// SendAll sends tokens in order, waiting cooldown between them.
// It returns early when ctx is cancelled.
func SendAll(ctx context.Context, s Sender, tokens []byte, cooldown time.Duration) error {
	for i, token := range tokens {
		if i > 0 && cooldown > 0 {
			timer := time.NewTimer(cooldown)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if err := s.Send(token); err != nil {
			return fmt.Errorf("token %q: %w", token, err)
		}
	}
	return nil
}
