package agent

import "fmt"

// Kind identifies one tracing agent variant.
type Kind int

const (
	// KindTelemetry is the session metadata and clock-sync issuer agent.
	KindTelemetry Kind = iota
	// KindChrome captures browser-internal tracing.
	KindChrome
	// KindAtrace captures OS-level (atrace/systrace) tracing.
	KindAtrace
	// KindCPU captures CPU usage samples.
	KindCPU
	// KindDisplay captures display / frame data.
	KindDisplay
)

// Priority is the fixed start order of agent variants.
var Priority = [...]Kind{
	KindTelemetry,
	KindChrome,
	KindAtrace,
	KindCPU,
	KindDisplay,
}

// String returns the agent name used in logs, spans and failure reports.
func (k Kind) String() string {
	switch k {
	case KindTelemetry:
		return "TelemetryTracingAgent"
	case KindChrome:
		return "ChromeTracingAgent"
	case KindAtrace:
		return "AtraceTracingAgent"
	case KindCPU:
		return "CpuTracingAgent"
	case KindDisplay:
		return "DisplayTracingAgent"
	default:
		return fmt.Sprintf("UnknownAgent(%d)", int(k))
	}
}

// Valid reports whether k appears in Priority.
func (k Kind) Valid() bool {
	for _, p := range Priority {
		if p == k {
			return true
		}
	}
	return false
}
