// Package scanner turns a stream of timestamped keystrokes into barcode
// candidates, telling fast scanner bursts apart from human typing.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultInterCharThreshold = 100 * time.Millisecond
	DefaultInactivityWindow   = 500 * time.Millisecond
	DefaultMinLength          = 3
)

// Event is one character arrival. Terminator marks the submit key; Rune is
// ignored for terminator events.
type Event struct {
	Rune       rune
	Terminator bool
	At         time.Time
}

type Options struct {
	// InterCharThreshold is the largest gap between two characters of one scan.
	InterCharThreshold time.Duration
	// InactivityWindow clears a partial buffer that stopped receiving input.
	InactivityWindow time.Duration
	// MinLength is the shortest candidate worth emitting.
	MinLength int
}

func DefaultOptions() Options {
	return Options{
		InterCharThreshold: DefaultInterCharThreshold,
		InactivityWindow:   DefaultInactivityWindow,
		MinLength:          DefaultMinLength,
	}
}

func (o Options) withDefaults() Options {
	if o.InterCharThreshold <= 0 {
		o.InterCharThreshold = DefaultInterCharThreshold
	}
	if o.InactivityWindow <= 0 {
		o.InactivityWindow = DefaultInactivityWindow
	}
	if o.MinLength <= 0 {
		o.MinLength = DefaultMinLength
	}
	return o
}

// Classifier is a single-owner accumulator. It is not safe for concurrent
// use; Run drives it from one goroutine.
type Classifier struct {
	opts     Options
	buf      []rune
	last     time.Time
	disabled bool
}

func NewClassifier(opts Options) *Classifier {
	return &Classifier{opts: opts.withDefaults()}
}

func (c *Classifier) Options() Options {
	return c.opts
}

// SetEnabled toggles capture. A disabled classifier drops every event so a
// focused text field receives keystrokes untouched.
func (c *Classifier) SetEnabled(enabled bool) {
	c.disabled = !enabled
	if !enabled {
		c.clear()
	}
}

func (c *Classifier) Enabled() bool {
	return !c.disabled
}

// Pending returns the number of buffered characters.
func (c *Classifier) Pending() int {
	return len(c.buf)
}

// Feed consumes one event and returns the candidate when a terminator
// completes a long enough buffer.
func (c *Classifier) Feed(ev Event) (string, bool) {
	if c.disabled {
		return "", false
	}

	c.Expire(ev.At)

	if ev.Terminator {
		candidate := strings.TrimSpace(string(c.buf))
		c.clear()
		if utf8.RuneCountInString(candidate) < c.opts.MinLength {
			return "", false
		}
		return candidate, true
	}

	if !unicode.IsPrint(ev.Rune) {
		return "", false
	}

	if len(c.buf) > 0 && ev.At.Sub(c.last) > c.opts.InterCharThreshold {
		c.buf = c.buf[:0]
	}
	c.buf = append(c.buf, ev.Rune)
	c.last = ev.At
	return "", false
}

// Expire clears a buffer idle for longer than the inactivity window and
// reports whether it did.
func (c *Classifier) Expire(now time.Time) bool {
	if len(c.buf) == 0 || now.Sub(c.last) <= c.opts.InactivityWindow {
		return false
	}
	c.clear()
	return true
}

func (c *Classifier) clear() {
	c.buf = c.buf[:0]
	c.last = time.Time{}
}

// Run reads src until it closes or ctx ends, calling emit once per
// candidate. The source is stopped before Run returns.
func (c *Classifier) Run(ctx context.Context, src Source, emit func(candidate string)) error {
	events, err := src.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start input source: %w", err)
	}
	defer func() {
		if err := src.Stop(); err != nil {
			slog.Warn("Failed to stop input source", "error", err)
		}
	}()

	idle := time.NewTimer(c.opts.InactivityWindow)
	idle.Stop()
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-idle.C:
			if len(c.buf) > 0 {
				slog.Debug("Scanner buffer expired", "pending", len(c.buf))
				c.clear()
			}

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if candidate, emitted := c.Feed(ev); emitted {
				emit(candidate)
			}
			if len(c.buf) > 0 {
				idle.Reset(c.opts.InactivityWindow)
			} else {
				idle.Stop()
			}
		}
	}
}
