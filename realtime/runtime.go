package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/comalice/fsmx"
)

// Runtime drives a synchronous fsmx.Machine at a fixed tick rate. The
// machine is only ever touched from the tick goroutine (or from Step when
// the caller owns the clock), which provides the external serialization the
// core assumes.
type Runtime struct {
	machine *fsmx.Machine

	tickRate time.Duration
	ticker   *time.Ticker
	tickNum  uint64

	// Event batching
	batch   []EventWithMeta
	batchMu sync.Mutex
	seq     uint64

	tickCtx    context.Context
	tickCancel context.CancelFunc
	stopped    chan struct{}
}

// Config configures the real-time runtime.
type Config struct {
	TickRate         time.Duration // fixed tick rate, default 60 FPS
	MaxEventsPerTick int           // batch capacity, default 1000
}

// New creates a tick-based runtime over machine.
func New(machine *fsmx.Machine, cfg Config) *Runtime {
	if cfg.MaxEventsPerTick == 0 {
		cfg.MaxEventsPerTick = 1000
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = 16667 * time.Microsecond // 60 FPS
	}

	return &Runtime{
		machine:  machine,
		tickRate: cfg.TickRate,
		batch:    make([]EventWithMeta, 0, cfg.MaxEventsPerTick),
		stopped:  make(chan struct{}),
	}
}

// Start initializes the machine in the given state and begins the tick
// loop. Use Step instead when an existing loop provides the clock.
func (rt *Runtime) Start(ctx context.Context, initial fsmx.Handler) error {
	if initial == nil {
		return fsmx.ErrNilHandler
	}
	rt.machine.Init(initial)

	rt.tickCtx, rt.tickCancel = context.WithCancel(ctx)
	rt.ticker = time.NewTicker(rt.tickRate)
	go rt.tickLoop()

	return nil
}

// Stop cancels the tick loop and waits for it to exit. Events still batched
// are discarded.
func (rt *Runtime) Stop() {
	if rt.tickCancel == nil {
		return
	}
	rt.tickCancel()
	rt.ticker.Stop()
	<-rt.stopped
}

// Send queues an event for the next tick with default priority.
// Thread-safe; events are not processed until the tick boundary.
func (rt *Runtime) Send(evt fsmx.Event) error {
	return rt.SendWithPriority(evt, 0)
}

// SendWithPriority queues an event for the next tick. Higher priority
// events are dispatched earlier within the tick.
func (rt *Runtime) SendWithPriority(evt fsmx.Event, priority int) error {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	if len(rt.batch) >= cap(rt.batch) {
		return fsmx.ErrQueueFull
	}

	rt.batch = append(rt.batch, EventWithMeta{
		Event:       evt,
		SequenceNum: rt.seq,
		Priority:    priority,
	})
	rt.seq++

	return nil
}

// TickNumber returns the number of completed ticks.
func (rt *Runtime) TickNumber() uint64 {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()
	return rt.tickNum
}

// tickLoop runs Step on every ticker fire until cancelled.
func (rt *Runtime) tickLoop() {
	defer close(rt.stopped)

	for {
		select {
		case <-rt.tickCtx.Done():
			return
		case <-rt.ticker.C:
			rt.Step()
		}
	}
}
