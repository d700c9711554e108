package core

// TracePart names one section of a trace data snapshot.
type TracePart string

// Trace parts written by the known agent variants.
const (
	PartChrome    TracePart = "traceEvents"
	PartAtrace    TracePart = "systemTraceEvents"
	PartCPU       TracePart = "cpuSnapshots"
	PartDisplay   TracePart = "surfaceFlinger"
	PartTelemetry TracePart = "telemetry"
)

// String returns the raw part name.
func (p TracePart) String() string { return string(p) }

// TraceDataSink receives trace data from agents. Implementations either
// accumulate (tracedata.Builder) or discard (tracedata.Discarder).
type TraceDataSink interface {
	AddTraceFor(part TracePart, value any)
}
