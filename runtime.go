package fsmx

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Pluggable collaborator interfaces. The core Machine knows nothing about
// these; the Runtime wires them around the dispatch loop. Reference
// implementations live in internal/production and internal/extensibility.

// Persister saves and loads machine snapshots.
type Persister interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context, machineID string) (Snapshot, error)
}

// Publisher receives a notification for every dispatched event.
type Publisher interface {
	Publish(ctx context.Context, evt Event, meta Metadata) error
	Close() error
}

// EventSource feeds external events (timers, I/O demultiplexers) into the
// runtime's queue.
type EventSource interface {
	Events() <-chan Event
}

// Snapshot is the serializable record of where a machine is. State is a
// Registry name, which is why persistence requires a populated registry.
type Snapshot struct {
	MachineID string         `json:"machineID" yaml:"machineID"`
	State     string         `json:"state" yaml:"state"`
	Context   map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

// Metadata describes one dispatch for publishers. From and To are Registry
// names (empty when the handler is unregistered); To equals From unless the
// dispatch transitioned.
type Metadata struct {
	MachineID string    `json:"machineID" yaml:"machineID"`
	From      string    `json:"from" yaml:"from"`
	To        string    `json:"to" yaml:"to"`
	Sig       Signal    `json:"signal" yaml:"signal"`
	Status    Status    `json:"status" yaml:"status"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// RuntimeOption applies configuration to a Runtime.
type RuntimeOption func(*Runtime)

// WithQueueSize sets the event queue buffer size.
func WithQueueSize(size int) RuntimeOption {
	return func(rt *Runtime) {
		rt.queue = make(chan Event, size)
	}
}

// WithPersister saves a snapshot after every transition and enables Resume.
func WithPersister(p Persister) RuntimeOption {
	return func(rt *Runtime) {
		rt.persister = p
	}
}

// WithPublisher notifies p of every dispatched event, in dispatch order.
func WithPublisher(p Publisher) RuntimeOption {
	return func(rt *Runtime) {
		rt.publishers = append(rt.publishers, p)
	}
}

// WithEventSource pumps events from src into the queue while running.
func WithEventSource(src EventSource) RuntimeOption {
	return func(rt *Runtime) {
		rt.sources = append(rt.sources, src)
	}
}

// WithRuntimeLogger sets the runtime's logger. Defaults to the machine's.
func WithRuntimeLogger(l Logger) RuntimeOption {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// Runtime is the reference event loop around a Machine: a single goroutine
// owns the machine and serializes every Init/Dispatch, which is exactly the
// external serialization the synchronous core assumes. Send is safe from any
// goroutine.
type Runtime struct {
	machine  *Machine
	registry *Registry
	ext      *Context
	logger   Logger

	queue chan Event
	done  chan struct{}
	ended chan struct{}

	persister  Persister
	publishers []Publisher
	sources    []EventSource

	mu      sync.RWMutex
	current string
	started bool
}

// syncEnvelope wraps a payload so SendSync can observe completion.
type syncEnvelope struct {
	payload any
	done    chan Status
}

// NewRuntime creates a runtime for machine. The registry names the states
// for snapshots and publish metadata; it may be empty if neither is used.
func NewRuntime(machine *Machine, registry *Registry, opts ...RuntimeOption) *Runtime {
	if registry == nil {
		registry = NewRegistry()
	}
	rt := &Runtime{
		machine:  machine,
		registry: registry,
		ext:      NewContext(),
		logger:   machine.logger,
		queue:    make(chan Event, 1000),
		done:     make(chan struct{}),
		ended:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Ctx returns the runtime's extended state store.
func (rt *Runtime) Ctx() *Context {
	return rt.ext
}

// Registry returns the runtime's state registry.
func (rt *Runtime) Registry() *Registry {
	return rt.registry
}

// CurrentName returns the registry name of the active state. Empty before
// Start or when the active handler is unregistered.
func (rt *Runtime) CurrentName() string {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.current
}

// Start initializes the machine in the named state and launches the event
// loop. The name must be registered.
func (rt *Runtime) Start(ctx context.Context, initial string) error {
	h, ok := rt.registry.Lookup(initial)
	if !ok {
		return fmt.Errorf("start in %q: %w", initial, ErrStateNotFound)
	}
	return rt.start(ctx, h, initial)
}

// Resume loads the machine's snapshot from the persister and starts in the
// persisted state, restoring extended state first. The persisted state's
// handler observes the usual INIT/ENTRY sequence again.
func (rt *Runtime) Resume(ctx context.Context) error {
	if rt.persister == nil {
		return fmt.Errorf("resume: no persister configured")
	}
	snapshot, err := rt.persister.Load(ctx, rt.machine.ID())
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	h, ok := rt.registry.Lookup(snapshot.State)
	if !ok {
		return fmt.Errorf("resume in %q: %w", snapshot.State, ErrStateNotFound)
	}
	rt.ext.Restore(snapshot.Context)
	return rt.start(ctx, h, snapshot.State)
}

func (rt *Runtime) start(ctx context.Context, h Handler, name string) error {
	rt.mu.Lock()
	if rt.started {
		rt.mu.Unlock()
		return nil
	}
	rt.started = true
	rt.current = name
	rt.mu.Unlock()

	rt.machine.Init(h)

	go rt.loop(ctx)
	for _, src := range rt.sources {
		go rt.pump(ctx, src)
	}
	return nil
}

// Send enqueues an event. Non-blocking; returns ErrQueueFull on
// backpressure.
func (rt *Runtime) Send(evt Event) error {
	rt.mu.RLock()
	started := rt.started
	rt.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	select {
	case rt.queue <- evt:
		return nil
	default:
		return ErrQueueFull
	}
}

// SendSync enqueues an event and waits until the loop has fully processed
// it, returning the dispatch status.
func (rt *Runtime) SendSync(evt Event) (Status, error) {
	env := &syncEnvelope{
		payload: evt.Payload,
		done:    make(chan Status, 1),
	}
	if err := rt.Send(Event{Sig: evt.Sig, Payload: env}); err != nil {
		return StatusIgnored, err
	}
	select {
	case st := <-env.done:
		return st, nil
	case <-rt.ended:
		return StatusIgnored, ErrNotStarted
	}
}

// Stop shuts the loop down and closes publishers. Safe to call more than
// once; events still queued are discarded.
func (rt *Runtime) Stop() error {
	rt.mu.RLock()
	started := rt.started
	rt.mu.RUnlock()

	select {
	case <-rt.done:
		return nil
	default:
	}
	close(rt.done)
	if started {
		<-rt.ended
	}

	for _, p := range rt.publishers {
		if err := p.Close(); err != nil {
			rt.logger.Warnf("runtime %s: publisher close: %v", rt.machine.ID(), err)
		}
	}
	return nil
}

func (rt *Runtime) loop(ctx context.Context) {
	defer close(rt.ended)
	for {
		select {
		case <-ctx.Done():
			return
		case <-rt.done:
			return
		case evt := <-rt.queue:
			rt.dispatch(ctx, evt)
		}
	}
}

func (rt *Runtime) pump(ctx context.Context, src EventSource) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rt.done:
			return
		case evt, ok := <-src.Events():
			if !ok {
				return
			}
			if err := rt.Send(evt); err != nil {
				rt.logger.Warnf("runtime %s: source event %s dropped: %v", rt.machine.ID(), evt.Sig, err)
			}
		}
	}
}

// dispatch runs one event through the machine and fans the outcome out to
// the configured collaborators.
func (rt *Runtime) dispatch(ctx context.Context, evt Event) {
	var env *syncEnvelope
	if e, ok := evt.Payload.(*syncEnvelope); ok {
		env = e
		evt.Payload = e.payload
	}

	from, _ := rt.registry.Name(rt.machine.Current())
	status := rt.machine.Dispatch(&evt)
	to := from
	if status == StatusTransition {
		to, _ = rt.registry.Name(rt.machine.Current())
		rt.mu.Lock()
		rt.current = to
		rt.mu.Unlock()
	}

	now := time.Now()
	meta := Metadata{
		MachineID: rt.machine.ID(),
		From:      from,
		To:        to,
		Sig:       evt.Sig,
		Status:    status,
		Timestamp: now,
	}
	for _, p := range rt.publishers {
		if err := p.Publish(ctx, evt, meta); err != nil {
			rt.logger.Warnf("runtime %s: publish: %v", rt.machine.ID(), err)
		}
	}

	if status == StatusTransition && rt.persister != nil {
		snapshot := Snapshot{
			MachineID: rt.machine.ID(),
			State:     to,
			Context:   rt.ext.Snapshot(),
			Timestamp: now,
		}
		if err := rt.persister.Save(ctx, snapshot); err != nil {
			rt.logger.Errorf("runtime %s: persist: %v", rt.machine.ID(), err)
		}
	}

	if env != nil {
		env.done <- status
	}
}
