package fsmx

// Handler is a state. There is no separate state object: two handlers are
// different states iff they are different function values. A handler
// inspects the event's signal and returns a Result; requesting a transition
// is done purely through the return value, never by touching the machine.
//
// Contract:
//   - SignalEntry/SignalExit/SignalInit: perform state-local setup or
//     teardown and return Handled(). Requesting a transition from these
//     deliveries is unsupported; the dispatcher ignores their results.
//   - recognized application signals: perform logic, return Handled() or
//     TransitionTo(next).
//   - anything else: return Ignored(), or delegate to a fallback handler and
//     return Handled(). The dispatcher itself does no fallback chaining.
type Handler func(evt *Event) Result

// Status is the dispatcher's interpretation of one dispatch.
type Status int

const (
	// StatusIgnored means the handler did not recognize the event, or the
	// machine was not initialized.
	StatusIgnored Status = iota
	// StatusHandled means the handler consumed the event in place.
	StatusHandled
	// StatusTransition means the handler requested a state change and the
	// dispatcher performed it.
	StatusTransition
)

func (s Status) String() string {
	switch s {
	case StatusIgnored:
		return "ignored"
	case StatusHandled:
		return "handled"
	case StatusTransition:
		return "transition"
	default:
		return "unknown"
	}
}

// Result is the tagged return value of a handler. Construct only via
// Handled, Ignored, or TransitionTo.
type Result struct {
	status Status
	target Handler
}

// Handled reports that the event was consumed with no state change.
func Handled() Result {
	return Result{status: StatusHandled}
}

// Ignored reports that the handler does not recognize the event.
func Ignored() Result {
	return Result{status: StatusIgnored}
}

// TransitionTo requests a transition to target. The dispatcher delivers
// SignalExit to the current handler and SignalEntry to target, in that
// order, before Dispatch returns. Transitioning to the current handler is
// legal and still produces the EXIT/ENTRY pair.
func TransitionTo(target Handler) Result {
	return Result{status: StatusTransition, target: target}
}

// Machine dispatches events to the currently active handler.
//
// Its only runtime state is that handler: nil until Init, then mutated only
// by transitions requested through Dispatch. The machine is not safe for
// concurrent use; the caller (typically a single event-loop goroutine, see
// Runtime) serializes Init and Dispatch.
type Machine struct {
	state Handler

	id     string
	logger Logger
}

// Option applies configuration to a Machine.
type Option func(*Machine)

// WithID sets an identifier used in log output and snapshots.
func WithID(id string) Option {
	return func(m *Machine) {
		m.id = id
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a machine with no active handler. It is not runnable until
// Init is called.
func New(opts ...Option) *Machine {
	m := &Machine{
		id:     "fsm",
		logger: NopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ID returns the machine identifier.
func (m *Machine) ID() string {
	return m.id
}

// Running reports whether Init has installed an active handler.
func (m *Machine) Running() bool {
	return m.state != nil
}

// Current returns the active handler, or nil before Init. Handler values
// are not comparable; use a Registry to map them to names.
func (m *Machine) Current() Handler {
	return m.state
}

// Init installs the starting handler and runs the initialization sequence:
// the handler receives SignalInit, then SignalEntry, with nothing
// interleaved. Both return values are ignored. Must be called exactly once
// before any Dispatch; calling it again simply re-runs the sequence against
// the given handler.
func (m *Machine) Init(initial Handler) {
	m.state = initial
	m.logger.Debugf("fsm %s: init", m.id)
	m.state(&reserved[SignalInit])
	m.state(&reserved[SignalEntry])
}

// Dispatch delivers one event to the active handler and interprets its
// result. If the handler requests a transition, the outgoing handler
// receives SignalExit and the incoming handler SignalEntry before Dispatch
// returns; a self-transition is not special-cased and produces the same
// pair. Dispatching before Init is a benign no-op.
//
// The returned Status is informational; no dispatch outcome is an error.
func (m *Machine) Dispatch(evt *Event) Status {
	if m.state == nil {
		m.logger.Debugf("fsm %s: dispatch %s before init, dropped", m.id, evt.Sig)
		return StatusIgnored
	}

	src := m.state
	res := src(evt)
	if res.status != StatusTransition {
		return res.status
	}

	// Silent-no-op policy: a transition to nowhere leaves the state alone.
	if res.target == nil {
		m.logger.Warnf("fsm %s: transition to nil handler on %s, staying", m.id, evt.Sig)
		return StatusHandled
	}

	m.logger.Debugf("fsm %s: transition on %s", m.id, evt.Sig)
	src(&reserved[SignalExit])
	m.state = res.target
	m.state(&reserved[SignalEntry])
	return StatusTransition
}
