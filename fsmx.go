// Package fsmx is a flat, event-driven finite state machine dispatcher.
//
// A state is a handler function; the Machine holds exactly one piece of
// runtime state, the currently active handler. Callers construct a Machine,
// call Init once with the starting handler, and then feed it events through
// Dispatch. Handlers never mutate the machine: they return a tagged Result
// (Handled, Ignored, or TransitionTo) and the dispatcher performs the
// transition bookkeeping, delivering the reserved EXIT and ENTRY signals in
// a fixed order.
//
// The core is synchronous and single-threaded by design. Event queues, event
// sources, timers and persistence are collaborators layered on top; see
// Runtime for the reference event loop.
package fsmx

import "strconv"

// Signal is the integer discriminant of an event.
//
// Values below SignalUser are reserved for the dispatcher lifecycle and are
// shared by every machine instance. Application signals must be numbered
// from SignalUser upward; the dispatcher does not detect collisions.
type Signal int

const (
	// SignalEmpty is reserved and never delivered to handlers.
	SignalEmpty Signal = iota
	// SignalEntry is delivered to a handler when its state is entered.
	SignalEntry
	// SignalExit is delivered to a handler when its state is exited.
	SignalExit
	// SignalInit is delivered once to the starting handler during Init,
	// before its SignalEntry.
	SignalInit
	// SignalUser is the first signal value available to applications.
	SignalUser
)

// String returns a readable name for reserved signals and a numeric form
// for application signals.
func (s Signal) String() string {
	switch s {
	case SignalEmpty:
		return "EMPTY"
	case SignalEntry:
		return "ENTRY"
	case SignalExit:
		return "EXIT"
	case SignalInit:
		return "INIT"
	default:
		return "SIG(" + strconv.Itoa(int(s)) + ")"
	}
}

// Event carries a signal and an optional payload through the machine.
//
// Events are immutable once constructed: the dispatcher never modifies or
// retains one past a single Dispatch call, and handlers must not mutate
// events they receive. The reserved lifecycle events handed to handlers are
// shared package-level values.
type Event struct {
	Sig     Signal
	Payload any
}

// NewEvent constructs an event. Returned by value for stack allocation.
func NewEvent(sig Signal, payload any) Event {
	return Event{Sig: sig, Payload: payload}
}

// reserved is the static table of lifecycle events, indexed by signal.
var reserved = [...]Event{
	{Sig: SignalEmpty},
	{Sig: SignalEntry},
	{Sig: SignalExit},
	{Sig: SignalInit},
}
