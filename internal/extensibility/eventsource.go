// Package extensibility provides event source implementations for the
// runtime: the dispatcher itself has no timers or I/O, so anything that
// originates events lives here.
package extensibility

import (
	"time"

	"github.com/comalice/fsmx"
)

// ChannelEventSource is an fsmx.EventSource backed by a Go channel.
type ChannelEventSource struct {
	ch chan fsmx.Event
}

// NewChannelEventSource wraps an existing channel. Buffer it if
// backpressure handling is needed.
func NewChannelEventSource(ch chan fsmx.Event) *ChannelEventSource {
	return &ChannelEventSource{ch: ch}
}

// Events returns the receive-only channel for events.
func (s *ChannelEventSource) Events() <-chan fsmx.Event {
	return s.ch
}

// TimerEventSource synthesizes an event with a fixed signal every period,
// using time.Ticker. This is the canonical timeout collaborator: the machine
// has no timer service of its own, so timeouts arrive as ordinary events.
type TimerEventSource struct {
	ch      chan fsmx.Event
	sig     fsmx.Signal
	payload any
	ticker  *time.Ticker
	stop    chan struct{}
}

// NewTimerEventSource starts a source emitting sig every d.
func NewTimerEventSource(sig fsmx.Signal, payload any, d time.Duration) *TimerEventSource {
	t := &TimerEventSource{
		ch:      make(chan fsmx.Event, 10),
		sig:     sig,
		payload: payload,
		ticker:  time.NewTicker(d),
		stop:    make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerEventSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- fsmx.NewEvent(t.sig, t.payload):
			default:
				// drop if full
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Events returns the event channel.
func (t *TimerEventSource) Events() <-chan fsmx.Event {
	return t.ch
}

// Stop stops the ticker and closes the channel.
func (t *TimerEventSource) Stop() {
	close(t.stop)
}
