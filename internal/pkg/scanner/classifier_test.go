package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type step struct {
	char  rune
	enter bool
	after time.Duration // since the previous step
}

func feedAll(c *Classifier, steps []step) []string {
	var out []string
	at := t0
	for _, s := range steps {
		at = at.Add(s.after)
		if candidate, ok := c.Feed(Event{Rune: s.char, Terminator: s.enter, At: at}); ok {
			out = append(out, candidate)
		}
	}
	return out
}

func burst(code string, gap time.Duration) []step {
	steps := make([]step, 0, len(code)+1)
	for _, r := range code {
		steps = append(steps, step{char: r, after: gap})
	}
	return append(steps, step{enter: true, after: gap})
}

func TestClassifier_Feed(t *testing.T) {
	tests := []struct {
		name  string
		steps []step
		want  []string
	}{
		{
			name:  "fast burst emits",
			steps: burst("ABC", 30*time.Millisecond),
			want:  []string{"ABC"},
		},
		{
			name: "slow gap resets buffer and short remainder is dropped",
			steps: []step{
				{char: 'A', after: 0},
				{char: 'B', after: 30 * time.Millisecond},
				{char: 'C', after: 500 * time.Millisecond},
				{enter: true, after: 10 * time.Millisecond},
			},
			want: nil,
		},
		{
			name:  "below minimum length",
			steps: burst("AB", 10*time.Millisecond),
			want:  nil,
		},
		{
			name:  "real badge",
			steps: burst("MOJV040815", 8*time.Millisecond),
			want:  []string{"MOJV040815"},
		},
		{
			name:  "surrounding spaces are trimmed",
			steps: burst(" EMP-001 ", 5*time.Millisecond),
			want:  []string{"EMP-001"},
		},
		{
			name:  "terminator on empty buffer",
			steps: []step{{enter: true}},
			want:  nil,
		},
		{
			name: "non printable runes are ignored",
			steps: []step{
				{char: 'A'},
				{char: '\x1b', after: 5 * time.Millisecond},
				{char: 'B', after: 5 * time.Millisecond},
				{char: 'C', after: 5 * time.Millisecond},
				{enter: true, after: 5 * time.Millisecond},
			},
			want: []string{"ABC"},
		},
		{
			name: "typing then scan keeps only the scan",
			steps: append([]step{
				{char: 'h'},
				{char: 'i', after: 180 * time.Millisecond},
			}, append(
				[]step{{char: 'X', after: 300 * time.Millisecond}},
				burst("YZ1", 10*time.Millisecond)...,
			)...),
			want: []string{"XYZ1"},
		},
		{
			name: "two scans back to back",
			steps: append(burst("AAA111", 10*time.Millisecond),
				burst("BBB222", 10*time.Millisecond)...),
			want: []string{"AAA111", "BBB222"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(DefaultOptions())
			assert.Equal(t, tt.want, feedAll(c, tt.steps))
			assert.Zero(t, c.Pending(), "terminator always clears the buffer")
		})
	}
}

func TestClassifier_InactivityClearsWithoutEmitting(t *testing.T) {
	c := NewClassifier(DefaultOptions())

	c.Feed(Event{Rune: 'A', At: t0})
	c.Feed(Event{Rune: 'B', At: t0.Add(20 * time.Millisecond)})
	c.Feed(Event{Rune: 'C', At: t0.Add(40 * time.Millisecond)})
	require.Equal(t, 3, c.Pending())

	assert.False(t, c.Expire(t0.Add(400*time.Millisecond)))
	assert.True(t, c.Expire(t0.Add(600*time.Millisecond)))
	assert.Zero(t, c.Pending())

	// A late terminator finds nothing to emit.
	_, ok := c.Feed(Event{Terminator: true, At: t0.Add(700 * time.Millisecond)})
	assert.False(t, ok)
}

func TestClassifier_StaleBufferIsNotSubmitted(t *testing.T) {
	c := NewClassifier(DefaultOptions())
	c.Feed(Event{Rune: 'A', At: t0})
	c.Feed(Event{Rune: 'B', At: t0.Add(10 * time.Millisecond)})
	c.Feed(Event{Rune: 'C', At: t0.Add(20 * time.Millisecond)})

	_, ok := c.Feed(Event{Terminator: true, At: t0.Add(2 * time.Second)})
	assert.False(t, ok)
}

func TestClassifier_Disabled(t *testing.T) {
	c := NewClassifier(DefaultOptions())
	c.Feed(Event{Rune: 'A', At: t0})

	c.SetEnabled(false)
	assert.False(t, c.Enabled())
	assert.Zero(t, c.Pending())
	assert.Empty(t, feedAll(c, burst("ABCDEF", 5*time.Millisecond)))

	c.SetEnabled(true)
	assert.Equal(t, []string{"ABCDEF"}, feedAll(c, burst("ABCDEF", 5*time.Millisecond)))
}

func TestClassifier_CustomMinLength(t *testing.T) {
	c := NewClassifier(Options{MinLength: 4})
	assert.Empty(t, feedAll(c, burst("ABC", 5*time.Millisecond)))
	assert.Equal(t, []string{"ABCD"}, feedAll(c, burst("ABCD", 5*time.Millisecond)))
	assert.Equal(t, DefaultInterCharThreshold, c.Options().InterCharThreshold)
}

func TestClassifier_Run(t *testing.T) {
	src := NewChanSource(32)
	c := NewClassifier(DefaultOptions())

	var got []string
	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background(), src, func(candidate string) {
			got = append(got, candidate)
		})
	}()

	at := t0
	for _, r := range "MOJV040815" {
		at = at.Add(5 * time.Millisecond)
		src.Send(Event{Rune: r, At: at})
	}
	src.Send(Event{Terminator: true, At: at.Add(5 * time.Millisecond)})
	src.Send(Event{Rune: 'X', At: at.Add(time.Second)})
	src.Send(Event{Terminator: true, At: at.Add(time.Second + 5*time.Millisecond)})
	src.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the source closed")
	}
	assert.Equal(t, []string{"MOJV040815"}, got)
}

func TestClassifier_RunStopsOnContext(t *testing.T) {
	src := NewChanSource(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- NewClassifier(DefaultOptions()).Run(ctx, src, func(string) {})
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run ignored context cancellation")
	}
}

func TestChanSource_StartTwice(t *testing.T) {
	src := NewChanSource(0)
	_, err := src.Start(context.Background())
	require.NoError(t, err)
	_, err = src.Start(context.Background())
	assert.ErrorIs(t, err, ErrSourceStarted)
	src.Close()
	src.Close()
}
