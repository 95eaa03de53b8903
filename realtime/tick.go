package realtime

// Step runs one complete tick synchronously: collect the batch, order it
// deterministically, dispatch everything, advance the tick counter. The
// tick loop calls this; callers that own their own clock (game loops,
// simulation steppers) may call it directly instead of Start.
//
// A panicking handler aborts the remainder of the tick but not the runtime;
// events dispatched before the panic stay dispatched.
func (rt *Runtime) Step() {
	defer func() {
		if r := recover(); r != nil {
			// Contain handler panics to the tick.
			_ = r
		}
		rt.batchMu.Lock()
		rt.tickNum++
		rt.batchMu.Unlock()
	}()

	events := rt.collect()
	sortEvents(events)

	for i := range events {
		rt.machine.Dispatch(&events[i].Event)
	}
}

// collect atomically retrieves and clears the event batch.
func (rt *Runtime) collect() []EventWithMeta {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	events := rt.batch
	rt.batch = make([]EventWithMeta, 0, cap(rt.batch))

	return events
}
