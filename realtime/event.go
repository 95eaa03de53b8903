package realtime

import (
	"sort"

	"github.com/comalice/fsmx"
)

// EventWithMeta adds sequencing metadata for deterministic ordering.
type EventWithMeta struct {
	Event       fsmx.Event
	SequenceNum uint64
	Priority    int
}

// sortEvents orders a tick's batch: higher priority first, then FIFO by
// sequence number. Stable sort preserves insertion order on ties.
func sortEvents(events []EventWithMeta) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Priority != events[j].Priority {
			return events[i].Priority > events[j].Priority
		}
		return events[i].SequenceNum < events[j].SequenceNum
	})
}
