package controller

import (
	"context"

	"github.com/hupe1980/tracemesh/agent"
	"github.com/hupe1980/tracemesh/core"
	"github.com/hupe1980/tracemesh/reclaim"
	"go.opentelemetry.io/otel/attribute"
)

// IssueClockSyncMarker records a fresh clock sync marker with every active
// agent that supports explicit clock sync. The metadata agent records the
// issuer side of each marker through the callback handed to the agent.
//
// Without an active metadata agent this is a no-op. Background memory
// reclamation is paused while markers are issued and resumed on every path.
// Failures are returned as a *TracingError after all agents were visited.
func (c *Controller) IssueClockSyncMarker(ctx context.Context) error {
	if !c.IsTracingRunning() {
		return nil
	}
	return newTracingError(PhaseClockSync, c.issueClockSyncMarker(ctx))
}

func (c *Controller) issueClockSyncMarker(ctx context.Context) []*AgentFailure {
	issuer, ok := c.metadataAgent()
	if !ok {
		return nil
	}

	var failures []*AgentFailure

	reclaim.Do(c.pauser, func() {
		for _, a := range c.active {
			syncer, ok := a.agent.(core.ClockSyncer)
			if !ok {
				continue
			}

			supported, f := c.capability(a.kind, OpClockSync, syncer.SupportsExplicitClockSync)
			if f != nil {
				failures = append(failures, f)
				continue
			}

			if !supported {
				continue
			}

			syncID := c.newSyncID()

			if f := c.invoke(ctx, a.kind, OpClockSync, func(ctx context.Context) error {
				return syncer.RecordClockSyncMarker(ctx, syncID, issuer.RecordIssuerClockSyncMarker)
			}, attribute.String("sync_id", syncID)); f != nil {
				failures = append(failures, f)
			}
		}
	})

	return failures
}

// metadataAgent returns the clock-sync issuer. Registry priority guarantees
// it can only ever be at index 0.
func (c *Controller) metadataAgent() (core.MetadataAgent, bool) {
	if len(c.active) == 0 || c.active[0].kind != agent.KindTelemetry {
		return nil, false
	}

	m, ok := c.active[0].agent.(core.MetadataAgent)

	return m, ok
}
