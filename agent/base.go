package agent

import "github.com/hupe1980/tracemesh/core"

// BaseAgent bundles the identity and platform handle shared by concrete
// tracing agents. Embed it and implement the core.Agent methods (plus
// core.Flusher / core.ClockSyncer when the agent supports them).
type BaseAgent struct {
	kind     Kind
	platform core.Platform
	tracing  bool
}

// NewBaseAgent constructs a BaseAgent bound to platform.
func NewBaseAgent(kind Kind, platform core.Platform) BaseAgent {
	return BaseAgent{kind: kind, platform: platform}
}

// Kind returns the agent's variant kind.
func (b *BaseAgent) Kind() Kind { return b.kind }

// Name returns the agent name used in reports.
func (b *BaseAgent) Name() string { return b.kind.String() }

// Platform returns the platform the agent was constructed for.
func (b *BaseAgent) Platform() core.Platform { return b.platform }

// IsTracing reports whether the agent is between a successful start and its stop.
func (b *BaseAgent) IsTracing() bool { return b.tracing }

// SetTracing records the agent's tracing state.
func (b *BaseAgent) SetTracing(on bool) { b.tracing = on }
