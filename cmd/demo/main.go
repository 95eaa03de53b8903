// Command demo runs the canonical two-state machine: A and B swap on every
// timeout. A timer event source synthesizes the timeouts, transitions are
// persisted as JSON, counted in Prometheus metrics and recorded for DOT
// export, and the dispatcher logs through zap.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zapcore"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/internal/extensibility"
	"github.com/comalice/fsmx/internal/production"
)

const sigTimeout fsmx.Signal = fsmx.SignalUser

func main() {
	log := production.NewLogger(os.Stderr, zapcore.DebugLevel)
	defer func() { _ = log.Sync() }()

	reg := fsmx.NewRegistry()
	var stateA, stateB fsmx.Handler
	stateA = func(evt *fsmx.Event) fsmx.Result {
		switch evt.Sig {
		case fsmx.SignalEntry:
			fmt.Println("Entering A")
		case fsmx.SignalExit:
			fmt.Println("Exiting A")
		case sigTimeout:
			fmt.Println("Timeout A")
			return fsmx.TransitionTo(stateB)
		}
		return fsmx.Handled()
	}
	stateB = func(evt *fsmx.Event) fsmx.Result {
		switch evt.Sig {
		case fsmx.SignalEntry:
			fmt.Println("Entering B")
		case fsmx.SignalExit:
			fmt.Println("Exiting B")
		case sigTimeout:
			fmt.Println("Timeout B")
			return fsmx.TransitionTo(stateA)
		}
		return fsmx.Handled()
	}
	reg.MustRegister("A", stateA)
	reg.MustRegister("B", stateB)

	persister, err := production.NewJSONPersister(os.TempDir())
	if err != nil {
		panic(err)
	}
	metrics, err := production.NewMetricsPublisher(prometheus.DefaultRegisterer)
	if err != nil {
		panic(err)
	}
	trace := production.NewTraceRecorder(100)
	timer := extensibility.NewTimerEventSource(sigTimeout, nil, 2*time.Second)
	defer timer.Stop()

	m := fsmx.New(fsmx.WithID("demo"), fsmx.WithLogger(log))
	rt := fsmx.NewRuntime(m, reg,
		fsmx.WithPersister(persister),
		fsmx.WithPublisher(metrics),
		fsmx.WithPublisher(trace),
		fsmx.WithEventSource(timer),
	)

	ctx := context.Background()
	if err := rt.Resume(ctx); err != nil {
		log.Infof("no snapshot to resume (%v), starting fresh", err)
		if err := rt.Start(ctx, "A"); err != nil {
			panic(err)
		}
	}
	defer rt.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	status := time.NewTicker(2 * time.Second)
	defer status.Stop()

	for {
		select {
		case <-status.C:
			fmt.Println("Current state:", rt.CurrentName())
		case <-sig:
			fmt.Println("\nObserved transition graph:")
			fmt.Println(trace.ExportDOT(reg))
			return
		}
	}
}
