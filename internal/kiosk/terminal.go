package kiosk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/timeclock/internal/pkg/scanner"
	"golang.org/x/term"
)

const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
)

var ErrNotTerminal = errors.New("input is not a terminal")

// TerminalSource reads keystrokes from a terminal in raw mode so every key
// arrives on its own, stamped with its arrival time.
type TerminalSource struct {
	in  *os.File
	now func() time.Time

	mu      sync.Mutex
	state   *term.State
	started bool
}

func NewTerminalSource(in *os.File) *TerminalSource {
	return &TerminalSource{in: in, now: time.Now}
}

// Start implements scanner.Source.
func (s *TerminalSource) Start(ctx context.Context) (<-chan scanner.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, scanner.ErrSourceStarted
	}

	fd := int(s.in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	s.state = state
	s.started = true

	events := make(chan scanner.Event, 64)
	go s.read(ctx, s.in, events)
	return events, nil
}

// Stop implements scanner.Source. It restores the terminal; repeated calls
// are no-ops.
func (s *TerminalSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil
	}
	err := term.Restore(int(s.in.Fd()), s.state)
	s.state = nil
	return err
}

func (s *TerminalSource) read(ctx context.Context, r io.Reader, events chan<- scanner.Event) {
	defer close(events)
	readKeys(ctx, r, s.now, events)
}

// readKeys decodes r into events until EOF, Ctrl-C or Ctrl-D.
func readKeys(ctx context.Context, r io.Reader, now func() time.Time, events chan<- scanner.Event) {
	buf := make([]byte, 64)
	var pending []byte
	for {
		n, err := r.Read(buf)
		at := now()
		pending = append(pending, buf[:n]...)

		for len(pending) > 0 {
			if !utf8.FullRune(pending) {
				break
			}
			ru, size := utf8.DecodeRune(pending)
			pending = pending[size:]

			var ev scanner.Event
			switch ru {
			case keyCtrlC, keyCtrlD:
				return
			case '\r', '\n':
				ev = scanner.Event{Terminator: true, At: at}
			default:
				ev = scanner.Event{Rune: ru, At: at}
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}

		if err != nil {
			return
		}
	}
}
