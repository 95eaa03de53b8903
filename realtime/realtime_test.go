package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/comalice/fsmx"
)

const (
	sigGo fsmx.Signal = fsmx.SignalUser + iota
	sigMark
)

func TestStepDispatchesBatchInOrder(t *testing.T) {
	var got []int

	state := func(evt *fsmx.Event) fsmx.Result {
		if evt.Sig == sigMark {
			got = append(got, evt.Payload.(int))
			return fsmx.Handled()
		}
		return fsmx.Handled()
	}

	m := fsmx.New()
	rt := New(m, Config{MaxEventsPerTick: 16})
	m.Init(state)

	for i := 0; i < 4; i++ {
		if err := rt.Send(fsmx.NewEvent(sigMark, i)); err != nil {
			t.Fatal(err)
		}
	}
	rt.Step()

	if len(got) != 4 {
		t.Fatalf("expected 4 dispatches, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Errorf("position %d: expected %d, got %d", i, i, v)
		}
	}
	if rt.TickNumber() != 1 {
		t.Errorf("expected 1 tick, got %d", rt.TickNumber())
	}
}

func TestStepHonorsPriority(t *testing.T) {
	var got []int

	state := func(evt *fsmx.Event) fsmx.Result {
		if evt.Sig == sigMark {
			got = append(got, evt.Payload.(int))
		}
		return fsmx.Handled()
	}

	m := fsmx.New()
	rt := New(m, Config{MaxEventsPerTick: 16})
	m.Init(state)

	rt.SendWithPriority(fsmx.NewEvent(sigMark, 1), 0)
	rt.SendWithPriority(fsmx.NewEvent(sigMark, 2), 5)
	rt.SendWithPriority(fsmx.NewEvent(sigMark, 3), 5)
	rt.Step()

	want := []int{2, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestStepTransitions(t *testing.T) {
	reg := fsmx.NewRegistry()
	var stateA, stateB fsmx.Handler
	stateA = func(evt *fsmx.Event) fsmx.Result {
		if evt.Sig == sigGo {
			return fsmx.TransitionTo(stateB)
		}
		return fsmx.Handled()
	}
	stateB = func(evt *fsmx.Event) fsmx.Result {
		return fsmx.Handled()
	}
	reg.MustRegister("A", stateA)
	reg.MustRegister("B", stateB)

	m := fsmx.New()
	rt := New(m, Config{})
	m.Init(stateA)

	rt.Send(fsmx.NewEvent(sigGo, nil))
	rt.Step()

	if name, _ := reg.Name(m.Current()); name != "B" {
		t.Errorf("expected state B after tick, got %q", name)
	}
}

func TestSendBackpressure(t *testing.T) {
	m := fsmx.New()
	rt := New(m, Config{MaxEventsPerTick: 1})
	m.Init(func(evt *fsmx.Event) fsmx.Result { return fsmx.Handled() })

	if err := rt.Send(fsmx.NewEvent(sigMark, 0)); err != nil {
		t.Fatal(err)
	}
	if err := rt.Send(fsmx.NewEvent(sigMark, 1)); err != fsmx.ErrQueueFull {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
}

func TestPanickingHandlerDoesNotKillTheTicker(t *testing.T) {
	var survived bool

	state := func(evt *fsmx.Event) fsmx.Result {
		switch evt.Sig {
		case sigGo:
			panic("handler bug")
		case sigMark:
			survived = true
		}
		return fsmx.Handled()
	}

	m := fsmx.New()
	rt := New(m, Config{})
	m.Init(state)

	rt.Send(fsmx.NewEvent(sigGo, nil))
	rt.Step()
	rt.Send(fsmx.NewEvent(sigMark, nil))
	rt.Step()

	if !survived {
		t.Error("expected dispatch to continue on the tick after a panic")
	}
	if rt.TickNumber() != 2 {
		t.Errorf("expected 2 completed ticks, got %d", rt.TickNumber())
	}
}

func TestTickerDrivenLoop(t *testing.T) {
	var count int
	state := func(evt *fsmx.Event) fsmx.Result {
		if evt.Sig == sigMark {
			count++
		}
		return fsmx.Handled()
	}

	m := fsmx.New()
	rt := New(m, Config{TickRate: 2 * time.Millisecond})
	if err := rt.Start(context.Background(), state); err != nil {
		t.Fatal(err)
	}

	rt.Send(fsmx.NewEvent(sigMark, nil))

	deadline := time.Now().Add(time.Second)
	for rt.TickNumber() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	rt.Stop()

	if count != 1 {
		t.Errorf("expected the queued event dispatched by the loop, got %d", count)
	}
	if rt.TickNumber() == 0 {
		t.Error("expected at least one tick")
	}
}

func TestStartRejectsNilHandler(t *testing.T) {
	rt := New(fsmx.New(), Config{})
	if err := rt.Start(context.Background(), nil); err != fsmx.ErrNilHandler {
		t.Errorf("expected ErrNilHandler, got %v", err)
	}
}
