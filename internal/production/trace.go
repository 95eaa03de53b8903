package production

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/comalice/fsmx"
)

// TraceRecorder is an fsmx.Publisher that keeps an in-memory history of
// transitions. Because a machine has no static transition table (states are
// bare handler functions), the transition graph can only be observed, not
// declared; the recorder rebuilds it from what actually ran.
type TraceRecorder struct {
	mu    sync.Mutex
	trace []fsmx.Metadata
	limit int
}

// NewTraceRecorder creates a recorder keeping at most limit transitions.
// A limit of 0 means unbounded.
func NewTraceRecorder(limit int) *TraceRecorder {
	return &TraceRecorder{limit: limit}
}

func (r *TraceRecorder) Publish(ctx context.Context, evt fsmx.Event, meta fsmx.Metadata) error {
	if meta.Status != fsmx.StatusTransition {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, meta)
	if r.limit > 0 && len(r.trace) > r.limit {
		r.trace = r.trace[len(r.trace)-r.limit:]
	}
	return nil
}

func (r *TraceRecorder) Close() error {
	return nil
}

// Trace returns a copy of the recorded transitions, oldest first.
func (r *TraceRecorder) Trace() []fsmx.Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]fsmx.Metadata, len(r.trace))
	copy(out, r.trace)
	return out
}

// ExportJSON serializes the recorded transitions.
func (r *TraceRecorder) ExportJSON() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return json.MarshalIndent(r.trace, "", "  ")
}

type edge struct {
	from, to string
	sig      fsmx.Signal
}

// ExportDOT generates Graphviz DOT source for the observed transition graph.
// Registered states appear as nodes even if never visited; the most recent
// transition target is highlighted as the active state.
func (r *TraceRecorder) ExportDOT(registry *fsmx.Registry) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active string
	if len(r.trace) > 0 {
		active = r.trace[len(r.trace)-1].To
	}

	seen := make(map[edge]bool)
	var edges []edge
	for _, meta := range r.trace {
		e := edge{from: meta.From, to: meta.To, sig: meta.Sig}
		if !seen[e] {
			seen[e] = true
			edges = append(edges, e)
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph FSM {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	if registry != nil {
		for _, name := range registry.Names() {
			if name == active {
				fmt.Fprintf(&buf, "  %q [style=\"rounded,filled\", fillcolor=lightblue];\n", name)
			} else {
				fmt.Fprintf(&buf, "  %q;\n", name)
			}
		}
	}

	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.from, e.to, e.sig.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}
