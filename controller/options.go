package controller

import (
	"github.com/hupe1980/tracemesh/agent"
	"github.com/hupe1980/tracemesh/core"
	"github.com/hupe1980/tracemesh/logging"
	"github.com/hupe1980/tracemesh/reclaim"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerName is the instrumentation scope of the controller's spans.
const TracerName = "github.com/hupe1980/tracemesh/controller"

// Options configures a Controller using the functional options pattern.
//
// Every field has a default suitable for production use, so callers only
// override what they need:
//
//	ctrl := controller.New(platform, func(o *controller.Options) {
//	    o.Registry = registry
//	    o.Logger = logger
//	})
type Options struct {
	// Registry lists the agent variants the controller may start.
	// Defaults to agent.DefaultRegistry (telemetry agent only).
	Registry *agent.Registry

	// Logger receives per-agent and per-phase log records.
	// Defaults to a NoOp logger.
	Logger logging.Logger

	// Tracer opens one span per agent operation.
	// Defaults to the OpenTelemetry no-op tracer.
	Tracer trace.Tracer

	// Pauser suspends background memory reclamation while clock sync
	// markers are issued. Defaults to pausing the Go garbage collector.
	Pauser reclaim.Pauser

	// NewSyncID generates clock sync marker ids. Defaults to core.NewID.
	NewSyncID core.IDGenerator
}

func defaultOptions() Options {
	return Options{
		Registry:  agent.DefaultRegistry(),
		Logger:    logging.NoOpLogger{},
		Tracer:    noop.NewTracerProvider().Tracer(TracerName),
		Pauser:    reclaim.Runtime{},
		NewSyncID: core.NewID,
	}
}
