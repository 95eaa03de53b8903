package production

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/fsmx"
)

// MetricsPublisher is an fsmx.Publisher that exports dispatch activity as
// Prometheus counters.
type MetricsPublisher struct {
	events      *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewMetricsPublisher creates the counters and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetricsPublisher(reg prometheus.Registerer) (*MetricsPublisher, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &MetricsPublisher{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fsmx",
			Name:      "events_dispatched_total",
			Help:      "Events dispatched, by machine, signal and outcome.",
		}, []string{"machine", "signal", "status"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fsmx",
			Name:      "transitions_total",
			Help:      "State transitions, by machine and edge.",
		}, []string{"machine", "from", "to"}),
	}

	if err := reg.Register(p.events); err != nil {
		return nil, err
	}
	if err := reg.Register(p.transitions); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *MetricsPublisher) Publish(ctx context.Context, evt fsmx.Event, meta fsmx.Metadata) error {
	p.events.WithLabelValues(meta.MachineID, meta.Sig.String(), meta.Status.String()).Inc()
	if meta.Status == fsmx.StatusTransition {
		p.transitions.WithLabelValues(meta.MachineID, meta.From, meta.To).Inc()
	}
	return nil
}

func (p *MetricsPublisher) Close() error {
	return nil
}
