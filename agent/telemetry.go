package agent

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/core"
)

// IssuerMarker is one clock sync marker as seen by the issuer.
type IssuerMarker struct {
	SyncID    string    `json:"sync_id" cbor:"1,keyasint"`
	IssueTime time.Time `json:"issue_time" cbor:"2,keyasint"`
}

// TelemetryTrace is the contribution the telemetry agent writes under
// core.PartTelemetry.
type TelemetryTrace struct {
	Metadata         core.TelemetryInfo `json:"metadata,omitempty" cbor:"1,keyasint,omitempty"`
	ClockSyncMarkers []IssuerMarker     `json:"clock_sync_markers,omitempty" cbor:"2,keyasint,omitempty"`
	StartTime        time.Time          `json:"start_time" cbor:"3,keyasint"`
	StopTime         time.Time          `json:"stop_time" cbor:"4,keyasint"`
}

// TelemetryAgentOptions configures a TelemetryAgent.
type TelemetryAgentOptions struct {
	// Now returns the reference clock. Defaults to time.Now in UTC.
	Now func() time.Time
}

// TelemetryAgent records session metadata and the issuer side of every
// clock sync marker. It is the reference clock the other agents are aligned
// to and is therefore not a core.ClockSyncer itself.
type TelemetryAgent struct {
	BaseAgent
	now     func() time.Time
	info    core.TelemetryInfo
	markers []IssuerMarker
	started time.Time
	stopped time.Time
}

var _ core.MetadataAgent = (*TelemetryAgent)(nil)

// NewTelemetryAgent creates a telemetry agent for platform.
func NewTelemetryAgent(platform core.Platform, optFns ...func(o *TelemetryAgentOptions)) *TelemetryAgent {
	opts := TelemetryAgentOptions{
		Now: func() time.Time { return time.Now().UTC() },
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &TelemetryAgent{
		BaseAgent: NewBaseAgent(KindTelemetry, platform),
		now:       opts.Now,
	}
}

// TelemetryVariant returns the registry entry of the telemetry agent. It is
// supported on every platform.
func TelemetryVariant() Variant {
	return Variant{
		Kind:        KindTelemetry,
		IsSupported: func(core.Platform) bool { return true },
		New:         func(p core.Platform) core.Agent { return NewTelemetryAgent(p) },
	}
}

// StartAgentTracing starts recording when any agent category is enabled;
// a session tracing nothing has no use for clock sync.
func (t *TelemetryAgent) StartAgentTracing(_ context.Context, cfg config.TracingConfig, _ time.Duration) (bool, error) {
	if t.IsTracing() {
		return false, errors.New("telemetry agent is already tracing")
	}
	if !cfg.AnyEnabled() {
		return false, nil
	}

	t.SetTracing(true)
	t.started = t.now()
	t.markers = nil

	return true, nil
}

// StopAgentTracing stops recording.
func (t *TelemetryAgent) StopAgentTracing(context.Context) error {
	if !t.IsTracing() {
		return errors.New("telemetry agent is not tracing")
	}

	t.SetTracing(false)
	t.stopped = t.now()

	return nil
}

// CollectAgentTraceData writes one TelemetryTrace contribution.
func (t *TelemetryAgent) CollectAgentTraceData(_ context.Context, sink core.TraceDataSink) error {
	if t.IsTracing() {
		return errors.New("telemetry agent must be stopped before collecting")
	}

	sink.AddTraceFor(core.PartTelemetry, TelemetryTrace{
		Metadata:         t.info,
		ClockSyncMarkers: append([]IssuerMarker(nil), t.markers...),
		StartTime:        t.started,
		StopTime:         t.stopped,
	})

	return nil
}

// RecordIssuerClockSyncMarker records that syncID was issued at issueTime.
// A zero issueTime is replaced by the agent's own clock.
func (t *TelemetryAgent) RecordIssuerClockSyncMarker(syncID string, issueTime time.Time) {
	if issueTime.IsZero() {
		issueTime = t.now()
	}
	t.markers = append(t.markers, IssuerMarker{SyncID: syncID, IssueTime: issueTime})
}

// SetTelemetryInfo replaces the session metadata.
func (t *TelemetryAgent) SetTelemetryInfo(info core.TelemetryInfo) {
	cp := make(core.TelemetryInfo, len(info))
	for k, v := range info {
		cp[k] = v
	}
	t.info = cp
}

// Markers returns the issuer markers recorded so far.
func (t *TelemetryAgent) Markers() []IssuerMarker {
	return append([]IssuerMarker(nil), t.markers...)
}
