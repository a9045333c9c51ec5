package scanner

import (
	"context"
	"errors"
	"sync"
)

var ErrSourceStarted = errors.New("input source already started")

// Source is an input stream with an explicit lifecycle. Start hands out the
// event channel; the source closes it when input ends. Stop releases any
// underlying device and may be called after the channel closed.
type Source interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop() error
}

// ChanSource is a Source fed by the caller, used for tests and embedding.
type ChanSource struct {
	mu      sync.Mutex
	ch      chan Event
	started bool
	closed  bool
}

func NewChanSource(buffer int) *ChanSource {
	return &ChanSource{ch: make(chan Event, buffer)}
}

func (s *ChanSource) Start(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, ErrSourceStarted
	}
	s.started = true
	return s.ch, nil
}

func (s *ChanSource) Stop() error {
	return nil
}

// Send queues ev, blocking while the buffer is full.
func (s *ChanSource) Send(ev Event) {
	s.ch <- ev
}

// Close ends the stream. Further calls are no-ops.
func (s *ChanSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
