package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/tracemesh/agent"
	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/core"
)

// Call is one recorded agent operation.
type Call struct {
	Agent  string
	Op     string
	SyncID string
}

// Journal records calls across several fake agents in global order.
type Journal struct {
	calls []Call
}

// NewJournal returns an empty journal.
func NewJournal() *Journal { return &Journal{} }

func (j *Journal) record(c Call) {
	if j != nil {
		j.calls = append(j.calls, c)
	}
}

// Calls returns every recorded call in order.
func (j *Journal) Calls() []Call { return append([]Call(nil), j.calls...) }

// Agents returns the agent names that received op, in call order.
func (j *Journal) Agents(op string) []string {
	var out []string
	for _, c := range j.calls {
		if c.Op == op {
			out = append(out, c.Agent)
		}
	}
	return out
}

// SyncIDs returns the marker ids passed to RecordClockSyncMarker, in order.
func (j *Journal) SyncIDs() []string {
	var out []string
	for _, c := range j.calls {
		if c.Op == OpRecordClockSyncMarker {
			out = append(out, c.SyncID)
		}
	}
	return out
}

// Len returns the number of recorded calls.
func (j *Journal) Len() int { return len(j.calls) }

// Reset forgets all recorded calls.
func (j *Journal) Reset() { j.calls = nil }

// Operation names recorded in the journal.
const (
	OpStartAgentTracing           = "StartAgentTracing"
	OpStopAgentTracing            = "StopAgentTracing"
	OpCollectAgentTraceData       = "CollectAgentTraceData"
	OpFlushAgentTracing           = "FlushAgentTracing"
	OpRecordClockSyncMarker       = "RecordClockSyncMarker"
	OpRecordIssuerClockSyncMarker = "RecordIssuerClockSyncMarker"
)

// FakeAgent is a configurable agent implementing core.Agent, core.Flusher
// and core.ClockSyncer. The optional capabilities are reported through
// Flushable and ClockSyncable.
type FakeAgent struct {
	Name    string
	Part    core.TracePart
	Journal *Journal

	Declines      bool
	Flushable     bool
	ClockSyncable bool

	StartErr   error
	StopErr    error
	CollectErr error
	FlushErr   error
	SyncErr    error

	// PanicOn names an operation that panics instead of returning.
	PanicOn string

	// FlushTimeouts records the timeout of every flush call.
	FlushTimeouts []time.Duration
}

var (
	_ core.Agent       = (*FakeAgent)(nil)
	_ core.Flusher     = (*FakeAgent)(nil)
	_ core.ClockSyncer = (*FakeAgent)(nil)
)

// NewFakeAgent returns a healthy fake writing to part.
func NewFakeAgent(name string, part core.TracePart, journal *Journal) *FakeAgent {
	return &FakeAgent{Name: name, Part: part, Journal: journal}
}

func (f *FakeAgent) enter(op, syncID string) {
	f.Journal.record(Call{Agent: f.Name, Op: op, SyncID: syncID})
	if f.PanicOn == op {
		panic(fmt.Sprintf("%s: %s exploded", f.Name, op))
	}
}

// StartAgentTracing implements core.Agent.
func (f *FakeAgent) StartAgentTracing(context.Context, config.TracingConfig, time.Duration) (bool, error) {
	f.enter(OpStartAgentTracing, "")
	if f.StartErr != nil {
		return false, f.StartErr
	}
	return !f.Declines, nil
}

// StopAgentTracing implements core.Agent.
func (f *FakeAgent) StopAgentTracing(context.Context) error {
	f.enter(OpStopAgentTracing, "")
	return f.StopErr
}

// CollectAgentTraceData implements core.Agent.
func (f *FakeAgent) CollectAgentTraceData(_ context.Context, sink core.TraceDataSink) error {
	f.enter(OpCollectAgentTraceData, "")
	if f.CollectErr != nil {
		return f.CollectErr
	}
	sink.AddTraceFor(f.Part, f.Name+"-data")
	return nil
}

// SupportsFlushingAgentTracing implements core.Flusher.
func (f *FakeAgent) SupportsFlushingAgentTracing() bool { return f.Flushable }

// FlushAgentTracing implements core.Flusher.
func (f *FakeAgent) FlushAgentTracing(_ context.Context, _ config.TracingConfig, timeout time.Duration, sink core.TraceDataSink) error {
	f.enter(OpFlushAgentTracing, "")
	f.FlushTimeouts = append(f.FlushTimeouts, timeout)
	if f.FlushErr != nil {
		return f.FlushErr
	}
	sink.AddTraceFor(f.Part, f.Name+"-flush")
	return nil
}

// SupportsExplicitClockSync implements core.ClockSyncer.
func (f *FakeAgent) SupportsExplicitClockSync() bool { return f.ClockSyncable }

// RecordClockSyncMarker implements core.ClockSyncer.
func (f *FakeAgent) RecordClockSyncMarker(_ context.Context, syncID string, issuer core.IssuerFunc) error {
	f.enter(OpRecordClockSyncMarker, syncID)
	if f.SyncErr != nil {
		return f.SyncErr
	}
	issuer(syncID, time.Now())
	return nil
}

// NewMinimalAgent returns an agent implementing only the required
// core.Agent operations, without flush or clock sync capabilities.
func NewMinimalAgent(name string, part core.TracePart, journal *Journal) core.Agent {
	return struct{ core.Agent }{NewFakeAgent(name, part, journal)}
}

// FakeMetadataAgent is a FakeAgent that also acts as clock-sync issuer.
type FakeMetadataAgent struct {
	*FakeAgent
	Issued []string
	Info   core.TelemetryInfo
}

var _ core.MetadataAgent = (*FakeMetadataAgent)(nil)

// NewFakeMetadataAgent returns a fake issuer writing to core.PartTelemetry.
func NewFakeMetadataAgent(journal *Journal) *FakeMetadataAgent {
	return &FakeMetadataAgent{FakeAgent: NewFakeAgent(agent.KindTelemetry.String(), core.PartTelemetry, journal)}
}

// RecordIssuerClockSyncMarker implements core.MetadataAgent.
func (m *FakeMetadataAgent) RecordIssuerClockSyncMarker(syncID string, _ time.Time) {
	m.Journal.record(Call{Agent: m.Name, Op: OpRecordIssuerClockSyncMarker, SyncID: syncID})
	m.Issued = append(m.Issued, syncID)
}

// SetTelemetryInfo implements core.MetadataAgent.
func (m *FakeMetadataAgent) SetTelemetryInfo(info core.TelemetryInfo) { m.Info = info }

// FakeChromeAgent is a FakeAgent exposing a chrome trace configuration.
type FakeChromeAgent struct {
	*FakeAgent
	Config     config.ChromeTraceConfig
	ConfigFile string
}

var _ core.ChromeConfigProvider = (*FakeChromeAgent)(nil)

// NewFakeChromeAgent returns a fake chrome agent writing to core.PartChrome.
func NewFakeChromeAgent(journal *Journal, cfg config.ChromeTraceConfig, file string) *FakeChromeAgent {
	return &FakeChromeAgent{
		FakeAgent:  NewFakeAgent(agent.KindChrome.String(), core.PartChrome, journal),
		Config:     cfg,
		ConfigFile: file,
	}
}

// TraceConfig implements core.ChromeConfigProvider.
func (c *FakeChromeAgent) TraceConfig() config.ChromeTraceConfig { return c.Config }

// TraceConfigFile implements core.ChromeConfigProvider.
func (c *FakeChromeAgent) TraceConfigFile() string { return c.ConfigFile }
