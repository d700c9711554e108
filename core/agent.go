package core

import (
	"context"
	"time"

	"github.com/hupe1980/tracemesh/config"
)

// Agent defines the lifecycle every tracing agent must implement.
//
// Agents capture trace data from one subsystem (browser, OS, CPU, display
// or session metadata). The controller drives them synchronously from a
// single goroutine, so implementations need no locking of their own for
// calls coming from the controller.
//
// Implementations must:
//   - Bound their own blocking work by the timeout they receive; the
//     controller never cancels an overrunning agent
//   - Report (false, nil) from StartAgentTracing when they decline the
//     session (for example because their category is disabled)
//   - Write collected data only through the sink they are handed
type Agent interface {
	StartAgentTracing(ctx context.Context, cfg config.TracingConfig, timeout time.Duration) (bool, error)
	StopAgentTracing(ctx context.Context) error
	CollectAgentTraceData(ctx context.Context, sink TraceDataSink) error
}

// Flusher is implemented by agents that can hand over accumulated data
// while the session keeps running. The controller only calls
// FlushAgentTracing when SupportsFlushingAgentTracing reports true.
type Flusher interface {
	SupportsFlushingAgentTracing() bool
	FlushAgentTracing(ctx context.Context, cfg config.TracingConfig, timeout time.Duration, sink TraceDataSink) error
}

// IssuerFunc records on the issuer side that the marker syncID was issued
// at issueTime. Agents call it from RecordClockSyncMarker.
type IssuerFunc func(syncID string, issueTime time.Time)

// ClockSyncer is implemented by agents with an independent time base that
// can record clock sync markers. The controller only calls
// RecordClockSyncMarker when SupportsExplicitClockSync reports true.
type ClockSyncer interface {
	SupportsExplicitClockSync() bool
	RecordClockSyncMarker(ctx context.Context, syncID string, issuer IssuerFunc) error
}

// TelemetryInfo is opaque session metadata forwarded to the metadata agent.
type TelemetryInfo map[string]any

// MetadataAgent is the clock-sync issuer and session metadata recorder.
// When active it always occupies index 0 of the active agent list.
type MetadataAgent interface {
	Agent
	RecordIssuerClockSyncMarker(syncID string, issueTime time.Time)
	SetTelemetryInfo(info TelemetryInfo)
}

// ChromeConfigProvider exposes the trace configuration a chrome agent was
// started with.
type ChromeConfigProvider interface {
	TraceConfig() config.ChromeTraceConfig
	TraceConfigFile() string
}
