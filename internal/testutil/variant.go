package testutil

import (
	"github.com/hupe1980/tracemesh/agent"
	"github.com/hupe1980/tracemesh/core"
)

// Variant returns a registry entry that hands out the given agent instance
// and reports supported for every platform.
func Variant(kind agent.Kind, a core.Agent) agent.Variant {
	return agent.Variant{
		Kind:        kind,
		IsSupported: func(core.Platform) bool { return true },
		New:         func(core.Platform) core.Agent { return a },
	}
}

// UnsupportedVariant returns a registry entry that is never supported. Its
// constructor panics so tests notice if it is called anyway.
func UnsupportedVariant(kind agent.Kind) agent.Variant {
	return agent.Variant{
		Kind:        kind,
		IsSupported: func(core.Platform) bool { return false },
		New:         func(core.Platform) core.Agent { panic("unsupported variant constructed: " + kind.String()) },
	}
}

// Platform is the platform handle used by tests.
const Platform = core.StaticPlatform("testos")
