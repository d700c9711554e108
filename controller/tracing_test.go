package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (string, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

func TestSpans_OnePerAgentOperation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	j := testutil.NewJournal()
	_, chrome, cpu, variants := threeAgents(j)
	chrome.ClockSyncable = true
	cpu.StopErr = errors.New("perf buffer lost")

	c := newController(t, variants, func(o *Options) {
		o.Tracer = provider.Tracer(TracerName)
	})

	require.True(t, c.Start(context.Background(), config.Default(), time.Second))

	_, err := c.Stop(context.Background())
	require.Error(t, err)

	var names []string
	var failed []string

	for _, span := range recorder.Ended() {
		names = append(names, span.Name())

		agentName, ok := spanAttr(span, "agent")
		assert.True(t, ok, "span %s without agent attribute", span.Name())

		if span.Status().Code == codes.Error {
			failed = append(failed, agentName+"."+span.Name())
		}

		if span.Name() == string(OpClockSync) {
			syncID, ok := spanAttr(span, "sync_id")
			assert.True(t, ok)
			assert.Equal(t, "sync-1", syncID)
		}
	}

	assert.Equal(t, []string{
		"StartAgentTracing", "StartAgentTracing", "StartAgentTracing",
		"RecordClockSyncMarker",
		"StopAgentTracing", "StopAgentTracing", "StopAgentTracing",
		"CollectAgentTraceData", "CollectAgentTraceData", "CollectAgentTraceData",
	}, names)
	assert.Equal(t, []string{cpuName + ".StopAgentTracing"}, failed)
}
