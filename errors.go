package fsmx

import "errors"

var (
	// ErrNilHandler is returned when a nil handler is registered or used to
	// start a runtime.
	ErrNilHandler = errors.New("nil handler")

	// ErrDuplicateState is returned when a name or handler is registered twice.
	ErrDuplicateState = errors.New("duplicate state")

	// ErrStateNotFound is returned when a name has no registered handler.
	ErrStateNotFound = errors.New("state not found")

	// ErrQueueFull is returned by Runtime.Send on backpressure.
	ErrQueueFull = errors.New("event queue full")

	// ErrNotStarted is returned by runtime operations that need a running
	// event loop.
	ErrNotStarted = errors.New("runtime not started")
)
