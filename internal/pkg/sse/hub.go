// Package sse fans attendance events out to Server-Sent Events subscribers.
package sse

import (
	"sync"
	"time"
)

// ChannelAttendance carries toggle outcomes and unclosed-day alerts.
const ChannelAttendance = "attendance"

// Event is one message on a channel. Event becomes the SSE "event:" field
// and Data is JSON encoded into "data:".
type Event struct {
	Channel string    `json:"-"`
	Event   string    `json:"event"`
	Data    any       `json:"data"`
	At      time.Time `json:"at"`
}

// Publisher is the write side of the hub, as seen by services and jobs.
type Publisher interface {
	Publish(channel string, event Event)
}

// Hub manages subscribers per channel. Slow subscribers drop events
// instead of blocking publishers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	buffer      int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		buffer:      16,
	}
}

// Subscribe registers a subscriber on channel and returns its event stream
// with the cleanup func that unregisters and closes it.
func (h *Hub) Subscribe(channel string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)

	if h.subscribers[channel] == nil {
		h.subscribers[channel] = make(map[chan Event]struct{})
	}
	h.subscribers[channel][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[channel], ch)
			close(ch)
			if len(h.subscribers[channel]) == 0 {
				delete(h.subscribers, channel)
			}
		})
	}

	return ch, cleanup
}

// Publish sends event to every subscriber of channel without blocking.
func (h *Hub) Publish(channel string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Channel = channel
	if event.At.IsZero() {
		event.At = time.Now()
	}

	for ch := range h.subscribers[channel] {
		select {
		case ch <- event:
		default:
			// subscriber is full, drop
		}
	}
}

func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[channel])
}
