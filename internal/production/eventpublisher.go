package production

import (
	"context"

	"github.com/comalice/fsmx"
)

// PublishedEvent bundles an event with its dispatch metadata.
type PublishedEvent struct {
	Event    fsmx.Event
	Metadata fsmx.Metadata
}

// ChannelPublisher is an fsmx.Publisher that forwards dispatch notifications
// to a Go channel. Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch chan<- PublishedEvent
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, evt fsmx.Event, meta fsmx.Metadata) error {
	select {
	case p.ch <- PublishedEvent{Event: evt, Metadata: meta}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
