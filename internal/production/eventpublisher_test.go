package production

import (
	"context"
	"testing"

	"github.com/comalice/fsmx"
)

func TestChannelPublisherForwards(t *testing.T) {
	ch := make(chan PublishedEvent, 1)
	p := NewChannelPublisher(ch)

	evt := fsmx.NewEvent(fsmx.SignalUser, "payload")
	meta := fsmx.Metadata{MachineID: "m1", From: "A", To: "B", Sig: fsmx.SignalUser, Status: fsmx.StatusTransition}
	if err := p.Publish(context.Background(), evt, meta); err != nil {
		t.Fatal(err)
	}

	got := <-ch
	if got.Metadata.From != "A" || got.Metadata.To != "B" {
		t.Errorf("unexpected metadata: %+v", got.Metadata)
	}
	if got.Event.Payload != "payload" {
		t.Errorf("unexpected payload: %v", got.Event.Payload)
	}
}

func TestChannelPublisherDropsOnBackpressure(t *testing.T) {
	ch := make(chan PublishedEvent) // unbuffered, nobody reading
	p := NewChannelPublisher(ch)

	evt := fsmx.NewEvent(fsmx.SignalUser, nil)
	if err := p.Publish(context.Background(), evt, fsmx.Metadata{}); err != nil {
		t.Errorf("expected silent drop, got %v", err)
	}
}

func TestChannelPublisherCloseClosesChannel(t *testing.T) {
	ch := make(chan PublishedEvent, 1)
	p := NewChannelPublisher(ch)

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if _, open := <-ch; open {
		t.Error("expected channel closed")
	}
}
