// Package tracemesh provides a high-level façade over the tracing controller
// and its supporting services (agent registry, logging, span tracing and GC
// pausing). Most applications interact with this package by:
//  1. Creating a Mesh via New() for the platform under test (optionally
//     overriding the default registry, logger or tracer)
//  2. Running a traced section with Trace, or driving Start / Flush / Stop
//     directly
//  3. Persisting the returned snapshot with tracedata.Encode
//
// The façade delegates orchestration to controller.Controller while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing.
package tracemesh

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/tracemesh/agent"
	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/controller"
	"github.com/hupe1980/tracemesh/core"
	"github.com/hupe1980/tracemesh/logging"
	"github.com/hupe1980/tracemesh/reclaim"
	"github.com/hupe1980/tracemesh/tracedata"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ErrAlreadyTracing is returned by Trace when a session is already running.
var ErrAlreadyTracing = errors.New("tracemesh: tracing already running")

// Options configures the Mesh instance.
type Options struct {
	// Registry lists the agent variants available on the platform
	// (defaults to the built-in telemetry agent only)
	Registry *agent.Registry

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Tracer opens one span per agent operation (defaults to no-op)
	Tracer trace.Tracer

	// Pauser suspends garbage collection while clock sync markers are
	// issued. Use reclaim.NoOp{} to leave the collector alone.
	Pauser reclaim.Pauser

	// IDGenerator produces clock sync marker ids (defaults to UUIDs)
	IDGenerator core.IDGenerator
}

// Mesh is the high-level façade around one controller.
type Mesh struct {
	opts       Options
	controller *controller.Controller
}

// New creates a new Mesh for platform with optional overrides.
func New(platform core.Platform, optFns ...func(o *Options)) *Mesh {
	opts := Options{
		Registry:    agent.DefaultRegistry(),
		Logger:      logging.NoOpLogger{},
		Tracer:      noop.NewTracerProvider().Tracer(controller.TracerName),
		Pauser:      reclaim.Runtime{},
		IDGenerator: core.NewID,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	c := controller.New(platform, func(o *controller.Options) {
		o.Registry = opts.Registry
		o.Logger = opts.Logger
		o.Tracer = opts.Tracer
		o.Pauser = opts.Pauser
		o.NewSyncID = opts.IDGenerator
	})

	return &Mesh{opts: opts, controller: c}
}

// Controller exposes the underlying controller.
func (m *Mesh) Controller() *controller.Controller { return m.controller }

// Start begins a session. See controller.Controller.Start.
func (m *Mesh) Start(ctx context.Context, cfg config.TracingConfig, timeout time.Duration) bool {
	return m.controller.Start(ctx, cfg, timeout)
}

// Stop ends the running session. See controller.Controller.Stop.
func (m *Mesh) Stop(ctx context.Context) (*tracedata.Snapshot, error) {
	return m.controller.Stop(ctx)
}

// Flush flushes the running session. See controller.Controller.Flush.
func (m *Mesh) Flush(ctx context.Context, discardCurrent bool) error {
	return m.controller.Flush(ctx, discardCurrent)
}

// IsTracingRunning reports whether a session is active.
func (m *Mesh) IsTracingRunning() bool { return m.controller.IsTracingRunning() }

// SetTelemetryInfo forwards session metadata to the metadata agent.
func (m *Mesh) SetTelemetryInfo(info core.TelemetryInfo) { m.controller.SetTelemetryInfo(info) }

// Trace is a synchronous helper that starts a session, runs body and always
// stops the session afterwards, even when body fails or panics. The snapshot
// is nil if stopping failed. Errors from body and Stop are joined.
func (m *Mesh) Trace(
	ctx context.Context,
	cfg config.TracingConfig,
	timeout time.Duration,
	body func(ctx context.Context) error,
) (*tracedata.Snapshot, error) {
	if !m.controller.Start(ctx, cfg, timeout) {
		return nil, ErrAlreadyTracing
	}

	defer func() {
		// A panicking body must not leave the controller running.
		if r := recover(); r != nil {
			if m.controller.IsTracingRunning() {
				_, _ = m.controller.Stop(ctx)
			}
			panic(r)
		}
	}()

	var bodyErr error
	if body != nil {
		bodyErr = body(ctx)
	}

	snapshot, stopErr := m.controller.Stop(ctx)

	return snapshot, errors.Join(bodyErr, stopErr)
}
