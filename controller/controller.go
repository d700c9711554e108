package controller

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/tracemesh/agent"
	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/core"
	"github.com/hupe1980/tracemesh/logging"
	"github.com/hupe1980/tracemesh/reclaim"
	"github.com/hupe1980/tracemesh/session"
	"github.com/hupe1980/tracemesh/tracedata"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// activeAgent is one started agent together with the variant kind it was
// constructed from.
type activeAgent struct {
	kind  agent.Kind
	agent core.Agent
}

// Controller owns the session state of one tracing session at a time and
// drives the agents selected from its registry.
//
// Lifecycle:
//
//	Idle --Start--> Running --Flush*--> Running --Stop--> Idle
//
// Ordering guarantees:
//   - Start visits registry variants in agent.Priority order; the active
//     agent list keeps that order for the whole session
//   - Stop stops agents in reverse start order, so agents started later
//     (which may depend on earlier ones, notably the metadata agent) go
//     first, then collects in start order for a deterministic trace layout
//   - Flush visits agents in start order
//
// Failure policy:
//   - Start failures (unsupported, declined, error, panic) silently exclude
//     the agent from the session
//   - Stop / Flush / clock sync failures are captured per agent; every
//     remaining agent of the phase is still visited and a single
//     TracingError enumerating all failures is returned at the end
//   - Stop always returns the controller to Idle
//   - Stop or Flush on an idle controller panics (caller bug)
//
// Concurrency Model:
// The controller performs no locking. Agents are invoked sequentially on the
// caller's goroutine and are solely responsible for bounding their own work
// by the timeout they receive; the controller never cancels an agent.
type Controller struct {
	platform  core.Platform
	registry  *agent.Registry
	logger    logging.Logger
	log       logging.Logger // logger scoped to the running session
	tracer    trace.Tracer
	pauser    reclaim.Pauser
	newSyncID core.IDGenerator

	// Session state - present exactly while Running
	state  *session.State
	active []activeAgent
}

// New creates an idle controller for platform.
//
// Examples:
//
//	// Telemetry agent only, no logging
//	ctrl := New(platform)
//
//	// Full registry with structured logging
//	ctrl := New(platform, func(o *Options) {
//	    o.Registry = registry
//	    o.Logger = logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	})
func New(platform core.Platform, optFns ...func(o *Options)) *Controller {
	opts := defaultOptions()

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		opts.Registry = &agent.Registry{}
	}

	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer(TracerName)
	}

	if opts.NewSyncID == nil {
		opts.NewSyncID = core.NewID
	}

	logger := logging.OrNoOp(opts.Logger)

	return &Controller{
		platform:  platform,
		registry:  opts.Registry,
		logger:    logger,
		log:       logger,
		tracer:    opts.Tracer,
		pauser:    opts.Pauser,
		newSyncID: opts.NewSyncID,
	}
}

// Start begins a tracing session. It returns false without side effects if a
// session is already running.
//
// Every variant supported on the platform is constructed and started in
// priority order. Agents reporting success are appended to the active agent
// list; the others are dropped without surfacing an error.
func (c *Controller) Start(ctx context.Context, cfg config.TracingConfig, timeout time.Duration) bool {
	if c.IsTracingRunning() {
		return false
	}

	begin := time.Now()
	c.state = session.New(cfg, timeout)
	c.log = logging.ForSession(c.logger, c.state.ID())

	for _, v := range c.registry.Variants() {
		if !c.variantSupported(v) {
			continue
		}

		var (
			a       core.Agent
			started bool
		)

		f := c.invoke(ctx, v.Kind, OpStart, func(ctx context.Context) error {
			a = v.New(c.platform)

			var err error
			started, err = a.StartAgentTracing(ctx, cfg, timeout)

			return err
		})
		if f != nil {
			c.log.Warn("Agent failed to start; excluded from session", "agent", v.Kind.String(), "error", f.Err.Error())
			continue
		}

		if !started {
			c.log.Debug("Agent declined session", "agent", v.Kind.String())
			continue
		}

		c.active = append(c.active, activeAgent{kind: v.Kind, agent: a})
	}

	c.log.Info("Tracing started", "agents", c.activeNames())
	logging.Phase(c.log, "start", len(c.active), 0, time.Since(begin))

	return true
}

// Stop ends the running session and returns the aggregated trace data.
//
// A final clock sync marker is issued, agents are stopped in reverse start
// order and then collected in start order into the session's builder. The
// controller is Idle afterwards regardless of failures. If any agent failed,
// no snapshot is returned and the error is a *TracingError listing every
// failure.
func (c *Controller) Stop(ctx context.Context) (*tracedata.Snapshot, error) {
	c.mustBeRunning("stop")

	begin := time.Now()
	log := c.log
	builder := c.state.Builder()

	failures := c.issueClockSyncMarker(ctx)

	for i := len(c.active) - 1; i >= 0; i-- {
		a := c.active[i]
		if f := c.invoke(ctx, a.kind, OpStop, a.agent.StopAgentTracing); f != nil {
			failures = append(failures, f)
		}
	}

	for _, a := range c.active {
		if f := c.invoke(ctx, a.kind, OpCollect, func(ctx context.Context) error {
			return a.agent.CollectAgentTraceData(ctx, builder)
		}); f != nil {
			failures = append(failures, f)
		}
	}

	n := len(c.active)
	c.active = nil
	c.state = nil
	c.log = c.logger

	logging.Phase(log, string(PhaseStop), n, len(failures), time.Since(begin))

	if err := newTracingError(PhaseStop, failures); err != nil {
		return nil, err
	}

	log.Info("Tracing stopped", "contributions", builder.Len())

	return builder.Build(), nil
}

// Flush asks every flush-capable agent to hand over its data so far.
//
// With discardCurrent the data is written to a discarding sink, so the
// snapshot returned by a later Stop is unaffected. Otherwise it goes into
// the same builder Stop collects into. The session keeps running in all
// cases; failures are returned as a *TracingError.
func (c *Controller) Flush(ctx context.Context, discardCurrent bool) error {
	c.mustBeRunning("flush")

	begin := time.Now()
	failures := c.issueClockSyncMarker(ctx)

	var sink core.TraceDataSink = c.state.Builder()
	if discardCurrent {
		sink = tracedata.Discarder{}
	}

	cfg, timeout := c.state.Config(), c.state.Timeout()

	for _, a := range c.active {
		flusher, ok := a.agent.(core.Flusher)
		if !ok {
			continue
		}

		supported, f := c.capability(a.kind, OpFlush, flusher.SupportsFlushingAgentTracing)
		if f != nil {
			failures = append(failures, f)
			continue
		}

		if !supported {
			continue
		}

		if f := c.invoke(ctx, a.kind, OpFlush, func(ctx context.Context) error {
			return flusher.FlushAgentTracing(ctx, cfg, timeout, sink)
		}); f != nil {
			failures = append(failures, f)
		}
	}

	logging.Phase(c.log, string(PhaseFlush), len(c.active), len(failures), time.Since(begin))

	return newTracingError(PhaseFlush, failures)
}

func (c *Controller) mustBeRunning(op string) {
	if !c.IsTracingRunning() {
		panic(fmt.Errorf("%w: can only %s tracing when tracing is on", ErrNotRunning, op))
	}
}

func (c *Controller) variantSupported(v agent.Variant) (supported bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("Agent support check panicked; treating as unsupported", "agent", v.Kind.String(), "panic", fmt.Sprint(r))
			supported = false
		}
	}()

	supported = v.IsSupported(c.platform)
	if !supported {
		c.log.Debug("Agent not supported on platform", "agent", v.Kind.String(), "os", c.platform.OSName())
	}

	return supported
}

// invoke runs one agent operation inside a span, converting a returned
// error or a recovered panic into an AgentFailure.
func (c *Controller) invoke(ctx context.Context, kind agent.Kind, op Operation, fn func(ctx context.Context) error, attrs ...attribute.KeyValue) *AgentFailure {
	attrs = append([]attribute.KeyValue{attribute.String("agent", kind.String())}, attrs...)

	ctx, span := c.tracer.Start(ctx, string(op), trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	stack, err := protect(ctx, fn)
	logging.AgentCall(c.log, kind.String(), string(op), time.Since(start), err)

	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return &AgentFailure{Agent: kind.String(), Op: op, Err: err, Stack: stack}
}

// capability evaluates an optional-capability predicate, treating a panic
// as a failure of op.
func (c *Controller) capability(kind agent.Kind, op Operation, pred func() bool) (supported bool, failure *AgentFailure) {
	stack, err := protect(context.Background(), func(context.Context) error {
		supported = pred()
		return nil
	})
	if err != nil {
		logging.AgentCall(c.log, kind.String(), string(op), 0, err)
		return false, &AgentFailure{Agent: kind.String(), Op: op, Err: err, Stack: stack}
	}

	return supported, nil
}

func protect(ctx context.Context, fn func(ctx context.Context) error) (stack string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
			stack = string(debug.Stack())
		}
	}()

	return "", fn(ctx)
}
