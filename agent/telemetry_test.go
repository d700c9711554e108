package agent

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/core"
	"github.com/hupe1980/tracemesh/tracedata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ts time.Time) func(o *TelemetryAgentOptions) {
	return func(o *TelemetryAgentOptions) { o.Now = func() time.Time { return ts } }
}

func TestTelemetryAgent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := NewTelemetryAgent(core.StaticPlatform("linux"), fixedClock(ts))

	ok, err := a.StartAgentTracing(ctx, config.Default(), time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	a.SetTelemetryInfo(core.TelemetryInfo{"benchmark": "smoke"})
	a.RecordIssuerClockSyncMarker("sync-1", ts.Add(time.Millisecond))
	a.RecordIssuerClockSyncMarker("sync-2", time.Time{})

	markers := a.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, "sync-1", markers[0].SyncID)
	assert.Equal(t, ts, markers[1].IssueTime)

	markers[0].SyncID = "mutated"
	assert.Equal(t, "sync-1", a.Markers()[0].SyncID)

	require.NoError(t, a.StopAgentTracing(ctx))

	b := tracedata.NewBuilder()
	require.NoError(t, a.CollectAgentTraceData(ctx, b))

	values := b.Build().Get(core.PartTelemetry)
	require.Len(t, values, 1)

	trace, ok := values[0].(TelemetryTrace)
	require.True(t, ok)
	assert.Equal(t, "smoke", trace.Metadata["benchmark"])
	assert.Equal(t, []IssuerMarker{
		{SyncID: "sync-1", IssueTime: ts.Add(time.Millisecond)},
		{SyncID: "sync-2", IssueTime: ts},
	}, trace.ClockSyncMarkers)
	assert.Equal(t, ts, trace.StartTime)
	assert.Equal(t, ts, trace.StopTime)
}

func TestTelemetryAgent_DeclinesEmptyConfig(t *testing.T) {
	a := NewTelemetryAgent(core.StaticPlatform("linux"))

	ok, err := a.StartAgentTracing(context.Background(), config.TracingConfig{}, time.Second)

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, a.IsTracing())
}

func TestTelemetryAgent_StateErrors(t *testing.T) {
	ctx := context.Background()
	a := NewTelemetryAgent(core.StaticPlatform("linux"))

	assert.Error(t, a.StopAgentTracing(ctx))

	_, err := a.StartAgentTracing(ctx, config.Default(), time.Second)
	require.NoError(t, err)

	_, err = a.StartAgentTracing(ctx, config.Default(), time.Second)
	assert.Error(t, err)

	assert.Error(t, a.CollectAgentTraceData(ctx, tracedata.Discarder{}))
}

func TestTelemetryAgent_SetTelemetryInfoCopies(t *testing.T) {
	a := NewTelemetryAgent(core.StaticPlatform("linux"))
	info := core.TelemetryInfo{"k": "v"}

	a.SetTelemetryInfo(info)
	info["k"] = "changed"

	assert.Equal(t, "v", a.info["k"])
}

func TestTelemetryVariant(t *testing.T) {
	v := TelemetryVariant()

	assert.Equal(t, KindTelemetry, v.Kind)
	assert.True(t, v.IsSupported(core.StaticPlatform("anything")))

	_, ok := v.New(core.StaticPlatform("linux")).(core.MetadataAgent)
	assert.True(t, ok)
}
