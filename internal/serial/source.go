package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"irremote/internal/remote"
)

// Queue is an in-memory token source
type Queue struct {
	mu   sync.Mutex
	data []byte
	eof  bool
}

// NewQueue returns a queue preloaded with data
func NewQueue(data ...byte) *Queue {
	return &Queue{data: append([]byte(nil), data...)}
}

// Push appends tokens in arrival order
func (q *Queue) Push(tokens ...byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.data = append(q.data, tokens...)
}

// CloseWhenDrained makes TryReadByte return io.EOF once the queue is empty
func (q *Queue) CloseWhenDrained() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.eof = true
}

// Len returns the number of unread tokens
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}

func (q *Queue) TryReadByte() (byte, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		if q.eof {
			return 0, false, io.EOF
		}
		return 0, false, nil
	}
	b := q.data[0]
	q.data = q.data[1:]
	return b, true, nil
}

// ReaderSource turns a blocking reader such as stdin into a polling token source
type ReaderSource struct {
	bytes chan byte

	mu  sync.Mutex
	err error
}

// NewReaderSource starts reading r in the background
func NewReaderSource(r io.Reader) *ReaderSource {
	s := &ReaderSource{bytes: make(chan byte, 256)}
	go s.pump(r)
	return s
}

func (s *ReaderSource) pump(r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			s.bytes <- b
		}
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			close(s.bytes)
			return
		}
	}
}

func (s *ReaderSource) TryReadByte() (byte, bool, error) {
	select {
	case b, ok := <-s.bytes:
		if ok {
			return b, true, nil
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if errors.Is(s.err, io.EOF) {
			return 0, false, io.EOF
		}
		return 0, false, fmt.Errorf("%w: %w", remote.ErrSourceClosed, s.err)
	default:
		return 0, false, nil
	}
}
