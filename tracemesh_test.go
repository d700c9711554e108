package tracemesh

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/tracemesh/agent"
	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/controller"
	"github.com/hupe1980/tracemesh/core"
	"github.com/hupe1980/tracemesh/internal/testutil"
	"github.com/hupe1980/tracemesh/reclaim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMesh(t *testing.T, variants ...agent.Variant) *Mesh {
	t.Helper()

	registry, err := agent.NewRegistry(variants...)
	require.NoError(t, err)

	return New(testutil.Platform, func(o *Options) {
		o.Registry = registry
		o.Pauser = reclaim.NoOp{}
	})
}

func TestNew_Defaults(t *testing.T) {
	m := New(testutil.Platform)

	assert.NotNil(t, m.Controller())
	assert.False(t, m.IsTracingRunning())
	assert.Equal(t, 1, m.opts.Registry.Len())
}

func TestTrace_ReturnsSnapshot(t *testing.T) {
	j := testutil.NewJournal()
	m := newMesh(t,
		testutil.Variant(agent.KindTelemetry, testutil.NewFakeMetadataAgent(j)),
		testutil.Variant(agent.KindCPU, testutil.NewFakeAgent("cpu", core.PartCPU, j)),
	)

	var ranWhileTracing bool

	snapshot, err := m.Trace(context.Background(), config.Default(), time.Second, func(context.Context) error {
		ranWhileTracing = m.IsTracingRunning()
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ranWhileTracing)
	assert.Equal(t, 2, snapshot.Len())
	assert.False(t, m.IsTracingRunning())
}

func TestTrace_StopsWhenBodyFails(t *testing.T) {
	j := testutil.NewJournal()
	cpu := testutil.NewFakeAgent("cpu", core.PartCPU, j)
	cpu.StopErr = errors.New("perf buffer lost")
	m := newMesh(t, testutil.Variant(agent.KindCPU, cpu))

	bodyErr := errors.New("story crashed")

	snapshot, err := m.Trace(context.Background(), config.Default(), time.Second, func(context.Context) error {
		return bodyErr
	})

	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, bodyErr)
	assert.ErrorIs(t, err, cpu.StopErr)

	var tracingErr *controller.TracingError
	assert.ErrorAs(t, err, &tracingErr)

	assert.Equal(t, []string{"cpu"}, j.Agents(testutil.OpStopAgentTracing))
	assert.False(t, m.IsTracingRunning())
}

func TestTrace_StopsWhenBodyPanics(t *testing.T) {
	j := testutil.NewJournal()
	m := newMesh(t, testutil.Variant(agent.KindCPU, testutil.NewFakeAgent("cpu", core.PartCPU, j)))

	assert.PanicsWithValue(t, "story exploded", func() {
		_, _ = m.Trace(context.Background(), config.Default(), time.Second, func(context.Context) error {
			panic("story exploded")
		})
	})

	assert.Equal(t, []string{"cpu"}, j.Agents(testutil.OpStopAgentTracing))
	assert.False(t, m.IsTracingRunning())
}

func TestTrace_AlreadyTracing(t *testing.T) {
	m := newMesh(t)

	require.True(t, m.Start(context.Background(), config.Default(), time.Second))

	_, err := m.Trace(context.Background(), config.Default(), time.Second, nil)
	assert.ErrorIs(t, err, ErrAlreadyTracing)
	assert.True(t, m.IsTracingRunning())

	_, err = m.Stop(context.Background())
	assert.NoError(t, err)
}

func TestMesh_FlushDelegates(t *testing.T) {
	j := testutil.NewJournal()
	cpu := testutil.NewFakeAgent("cpu", core.PartCPU, j)
	cpu.Flushable = true
	m := newMesh(t, testutil.Variant(agent.KindCPU, cpu))

	require.True(t, m.Start(context.Background(), config.Default(), time.Second))
	require.NoError(t, m.Flush(context.Background(), false))

	snapshot, err := m.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []any{"cpu-flush", "cpu-data"}, snapshot.Get(core.PartCPU))
}

func TestMesh_SetTelemetryInfo(t *testing.T) {
	j := testutil.NewJournal()
	meta := testutil.NewFakeMetadataAgent(j)
	m := newMesh(t, testutil.Variant(agent.KindTelemetry, meta))

	require.True(t, m.Start(context.Background(), config.Default(), time.Second))
	m.SetTelemetryInfo(core.TelemetryInfo{"benchmark": "smoke"})

	assert.Equal(t, core.TelemetryInfo{"benchmark": "smoke"}, meta.Info)
}
