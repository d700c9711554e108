package controller

import (
	"github.com/hupe1980/tracemesh/agent"
	"github.com/hupe1980/tracemesh/config"
	"github.com/hupe1980/tracemesh/core"
)

// IsTracingRunning reports whether a session is active.
func (c *Controller) IsTracingRunning() bool {
	return c.state != nil
}

// IsChromeTracingRunning reports whether the active session includes a
// started chrome agent.
func (c *Controller) IsChromeTracingRunning() bool {
	_, ok := c.activeChromeAgent()
	return ok
}

// IsChromeTracingSupported reports whether the registry carries a chrome
// variant that is supported on the controller's platform.
func (c *Controller) IsChromeTracingSupported() bool {
	v, ok := c.registry.Lookup(agent.KindChrome)
	if !ok {
		return false
	}

	return c.variantSupported(v)
}

// ChromeTraceConfig returns a copy of the running chrome agent's effective
// trace config. It is absent while idle, when the session config disables
// chrome tracing, or when no chrome agent is active.
func (c *Controller) ChromeTraceConfig() (config.ChromeTraceConfig, bool) {
	p, ok := c.activeChromeAgent()
	if !ok {
		return config.ChromeTraceConfig{}, false
	}

	return p.TraceConfig().Clone(), true
}

// ChromeTraceConfigFile returns the path of the running chrome agent's trace
// config file, with the same absence rules as ChromeTraceConfig.
func (c *Controller) ChromeTraceConfigFile() (string, bool) {
	p, ok := c.activeChromeAgent()
	if !ok {
		return "", false
	}

	return p.TraceConfigFile(), true
}

func (c *Controller) activeChromeAgent() (core.ChromeConfigProvider, bool) {
	if c.state == nil || !c.state.Config().EnableChromeTrace {
		return nil, false
	}

	for _, a := range c.active {
		if a.kind != agent.KindChrome {
			continue
		}

		p, ok := a.agent.(core.ChromeConfigProvider)

		return p, ok
	}

	return nil, false
}

// SetTelemetryInfo forwards info to the active metadata agent. It is a no-op
// when no metadata agent is active.
func (c *Controller) SetTelemetryInfo(info core.TelemetryInfo) {
	m, ok := c.metadataAgent()
	if !ok {
		c.log.Debug("No metadata agent active; telemetry info dropped")
		return
	}

	m.SetTelemetryInfo(info)
}

// ClearStateIfNeeded lets the chrome variant remove stale state left on the
// platform by an earlier session. It does nothing without a chrome variant
// or when that variant has no clear hook.
func (c *Controller) ClearStateIfNeeded() {
	v, ok := c.registry.Lookup(agent.KindChrome)
	if !ok || v.ClearState == nil {
		return
	}

	v.ClearState(c.platform)
}

// ActiveAgents returns the kinds of the agents started in the current
// session, in start order. It is empty while idle.
func (c *Controller) ActiveAgents() []agent.Kind {
	kinds := make([]agent.Kind, len(c.active))
	for i, a := range c.active {
		kinds[i] = a.kind
	}

	return kinds
}

// SessionID returns the identifier of the running session.
func (c *Controller) SessionID() (string, bool) {
	if c.state == nil {
		return "", false
	}

	return c.state.ID(), true
}

func (c *Controller) activeNames() []string {
	names := make([]string, len(c.active))
	for i, a := range c.active {
		names[i] = a.kind.String()
	}

	return names
}
