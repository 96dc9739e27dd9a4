package serial_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"irremote/internal/remote"
	"irremote/internal/serial"
)

// fakeLink behaves like a serial device with a read timeout
type fakeLink struct {
	in      []byte
	out     bytes.Buffer
	readErr error
	closed  bool
}

func (f *fakeLink) Read(b []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.in) == 0 {
		// timeout with nothing received
		return 0, io.EOF
	}
	n := copy(b, f.in)
	f.in = f.in[n:]
	return n, nil
}

func (f *fakeLink) Write(b []byte) (int, error) {
	return f.out.Write(b)
}

func (f *fakeLink) Close() error {
	f.closed = true
	return nil
}

func TestPort_TryReadByte(t *testing.T) {
	t.Run("reads one byte at a time", func(t *testing.T) {
		link := &fakeLink{in: []byte("PM")}
		port := serial.NewPort("/dev/ttyUSB0", link)

		b, ok, err := port.TryReadByte()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, byte('P'), b)
		assert.Equal(t, []byte("M"), link.in)
	})

	t.Run("timeout means no byte", func(t *testing.T) {
		port := serial.NewPort("/dev/ttyUSB0", &fakeLink{})

		_, ok, err := port.TryReadByte()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("closed port reports EOF", func(t *testing.T) {
		port := serial.NewPort("/dev/ttyUSB0", &fakeLink{in: []byte("P")})
		require.NoError(t, port.Close())
		require.NoError(t, port.Close())

		_, ok, err := port.TryReadByte()
		assert.ErrorIs(t, err, io.EOF)
		assert.False(t, ok)
	})

	t.Run("device errors are wrapped", func(t *testing.T) {
		port := serial.NewPort("/dev/ttyUSB0", &fakeLink{readErr: errors.New("input/output error")})

		_, _, err := port.TryReadByte()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/dev/ttyUSB0")
	})
}

func TestPort_Hangup(t *testing.T) {
	drain := func(port *serial.Port) error {
		for i := 0; i < 100; i++ {
			_, ok, err := port.TryReadByte()
			if ok {
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	}

	t.Run("removed device reports EOF", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "ttyUSB0")
		port := serial.NewPort(name, &fakeLink{}, serial.WithReadTimeout(time.Second))

		assert.ErrorIs(t, drain(port), io.EOF)
	})

	t.Run("device still present reports a closed source", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "ttyUSB0")
		require.NoError(t, os.WriteFile(name, nil, 0o600))
		port := serial.NewPort(name, &fakeLink{}, serial.WithReadTimeout(time.Second))

		err := drain(port)
		assert.ErrorIs(t, err, remote.ErrSourceClosed)
		assert.Contains(t, err.Error(), "hung up")
	})

	t.Run("a received byte resets the count", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "ttyUSB0")
		link := &fakeLink{}
		port := serial.NewPort(name, link, serial.WithReadTimeout(time.Second))

		for i := 0; i < 10; i++ {
			_, _, err := port.TryReadByte()
			require.NoError(t, err)
		}
		link.in = []byte("P")
		b, ok, err := port.TryReadByte()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, byte('P'), b)

		for i := 0; i < 10; i++ {
			_, _, err := port.TryReadByte()
			require.NoError(t, err)
		}
	})

	t.Run("no read timeout disables detection", func(t *testing.T) {
		port := serial.NewPort("/nonexistent/ttyUSB0", &fakeLink{})

		assert.NoError(t, drain(port))
	})
}

func TestPort_Write(t *testing.T) {
	link := &fakeLink{}
	port := serial.NewPort("/dev/ttyUSB0", link)

	require.NoError(t, port.WriteTokens('U', 'D'))
	_, err := port.Write([]byte("Sent: VOL UP\n"))
	require.NoError(t, err)

	assert.Equal(t, "UDSent: VOL UP\n", link.out.String())
	assert.Equal(t, "/dev/ttyUSB0", port.Name())
}

func TestOpen_RequiresName(t *testing.T) {
	_, err := serial.Open(serial.Config{})
	assert.Error(t, err)
}

func TestQueue(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		q := serial.NewQueue('P')
		q.Push('M', 'U')
		assert.Equal(t, 3, q.Len())

		var got []byte
		for {
			b, ok, err := q.TryReadByte()
			require.NoError(t, err)
			if !ok {
				break
			}
			got = append(got, b)
		}
		assert.Equal(t, []byte("PMU"), got)
	})

	t.Run("eof after drain", func(t *testing.T) {
		q := serial.NewQueue('S')
		q.CloseWhenDrained()

		b, ok, err := q.TryReadByte()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, byte('S'), b)

		_, ok, err = q.TryReadByte()
		assert.ErrorIs(t, err, io.EOF)
		assert.False(t, ok)
	})
}

func TestReaderSource(t *testing.T) {
	src := serial.NewReaderSource(strings.NewReader("PX"))

	var got []byte
	var lastErr error
	require.Eventually(t, func() bool {
		b, ok, err := src.TryReadByte()
		if ok {
			got = append(got, b)
		}
		if err != nil {
			lastErr = err
			return true
		}
		return false
	}, time.Second, time.Millisecond)

	assert.Equal(t, []byte("PX"), got)
	assert.ErrorIs(t, lastErr, io.EOF)
}

func TestReaderSource_Failure(t *testing.T) {
	src := serial.NewReaderSource(io.MultiReader(
		strings.NewReader("M"),
		iotest.ErrReader(errors.New("input/output error")),
	))

	var got []byte
	var lastErr error
	require.Eventually(t, func() bool {
		b, ok, err := src.TryReadByte()
		if ok {
			got = append(got, b)
		}
		lastErr = err
		return err != nil
	}, time.Second, time.Millisecond)

	assert.Equal(t, []byte("M"), got)
	assert.ErrorIs(t, lastErr, remote.ErrSourceClosed)
	assert.Contains(t, lastErr.Error(), "input/output error")

	_, _, err := src.TryReadByte()
	assert.ErrorIs(t, err, remote.ErrSourceClosed)
}
