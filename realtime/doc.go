// Package realtime provides a tick-based deterministic runtime for fsmx.
//
// The event-driven fsmx.Runtime dispatches events as they arrive; this
// runtime instead batches them and dispatches at fixed tick boundaries, in a
// deterministic order:
//  1. Priority (higher priority dispatched first)
//  2. Sequence number (FIFO for equal priority)
//  3. Stable sorting (preserves relative order)
//
// Given the same sequence of Send calls per tick, the machine always steps
// the same way, regardless of timing or concurrency. That trades latency
// (up to one tick) for reproducibility, which is what game loops, fixed
// time-step simulations and control loops want.
//
// # Example Usage
//
//	m := fsmx.New()
//	rt := realtime.New(m, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	})
//	rt.Start(ctx, initialHandler)
//	rt.Send(fsmx.NewEvent(sigMove, dir))
//
// Step can be called instead of Start for loops that own their own clock.
package realtime
